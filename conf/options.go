package conf

// Parameter names, shared by templates, snapshots and error messages.
const (
	KeyDataset          = "dataset"
	KeyTable            = "table"
	KeyDropTable        = "dropTable"
	KeyPartitionWeights = "partitionWeights"
	KeyOutputBucket     = "outputBucket"
	KeyOutputPath       = "outputPath"
)

// Keys lists every parameter in declaration order.
var Keys = []string{
	KeyDataset,
	KeyTable,
	KeyDropTable,
	KeyPartitionWeights,
	KeyOutputBucket,
	KeyOutputPath,
}

// Deferred marks an unresolved value in a Snapshot.
const Deferred = "<deferred>"

// Options is the configuration of one ETL job. Each field is a Provider so
// that values can be supplied at submission time rather than build time.
//
// Setters replace the holder without validating it. Getters return the
// holder, never nil, even on a zero Options.
type Options struct {
	Base BaseOptions

	dataset          Provider[string]
	table            Provider[string]
	dropTable        Provider[bool]
	partitionWeights Provider[map[string]float64]
	outputBucket     Provider[string]
	outputPath       Provider[string]
}

// NewOptions returns Options whose fields are runtime holders waiting to be
// supplied. Only dropTable has a default.
func NewOptions() *Options {
	return &Options{
		dataset:          RuntimeValue[string](KeyDataset, ParseString),
		table:            RuntimeValue[string](KeyTable, ParseString),
		dropTable:        RuntimeValue[bool](KeyDropTable, ParseBool, WithDefault(false)),
		partitionWeights: RuntimeValue[map[string]float64](KeyPartitionWeights, ParseWeights),
		outputBucket:     RuntimeValue[string](KeyOutputBucket, ParseString),
		outputPath:       RuntimeValue[string](KeyOutputPath, ParseString),
	}
}

func (o *Options) Dataset() Provider[string] {
	if o.dataset == nil {
		return Unset[string](KeyDataset)
	}
	return o.dataset
}

func (o *Options) SetDataset(p Provider[string]) {
	o.dataset = p
}

func (o *Options) Table() Provider[string] {
	if o.table == nil {
		return Unset[string](KeyTable)
	}
	return o.table
}

func (o *Options) SetTable(p Provider[string]) {
	o.table = p
}

// DropTable reports whether the destination table is dropped and recreated
// before the load.
func (o *Options) DropTable() Provider[bool] {
	if o.dropTable == nil {
		return Unset[bool](KeyDropTable)
	}
	return o.dropTable
}

func (o *Options) SetDropTable(p Provider[bool]) {
	o.dropTable = p
}

// PartitionWeights maps a partition name to its relative weight.
func (o *Options) PartitionWeights() Provider[map[string]float64] {
	if o.partitionWeights == nil {
		return Unset[map[string]float64](KeyPartitionWeights)
	}
	return o.partitionWeights
}

func (o *Options) SetPartitionWeights(p Provider[map[string]float64]) {
	o.partitionWeights = p
}

func (o *Options) OutputBucket() Provider[string] {
	if o.outputBucket == nil {
		return Unset[string](KeyOutputBucket)
	}
	return o.outputBucket
}

func (o *Options) SetOutputBucket(p Provider[string]) {
	o.outputBucket = p
}

func (o *Options) OutputPath() Provider[string] {
	if o.outputPath == nil {
		return Unset[string](KeyOutputPath)
	}
	return o.outputPath
}

func (o *Options) SetOutputPath(p Provider[string]) {
	o.outputPath = p
}

// Snapshot resolves what can be resolved and returns it keyed by parameter
// name. Unresolved parameters map to Deferred.
func (o *Options) Snapshot() map[string]any {
	out := make(map[string]any, len(Keys))
	snap(out, KeyDataset, o.Dataset())
	snap(out, KeyTable, o.Table())
	snap(out, KeyDropTable, o.DropTable())
	snap(out, KeyPartitionWeights, o.PartitionWeights())
	snap(out, KeyOutputBucket, o.OutputBucket())
	snap(out, KeyOutputPath, o.OutputPath())
	return out
}

func snap[T any](out map[string]any, key string, p Provider[T]) {
	if !p.IsResolved() {
		out[key] = Deferred
		return
	}
	v, err := p.Resolve()
	if err != nil {
		out[key] = Deferred
		return
	}
	out[key] = v
}

// Unresolved returns the names of parameters that have neither a value nor
// a default. It does not resolve anything.
func (o *Options) Unresolved() []string {
	resolved := map[string]bool{
		KeyDataset:          o.Dataset().IsResolved(),
		KeyTable:            o.Table().IsResolved(),
		KeyDropTable:        o.DropTable().IsResolved(),
		KeyPartitionWeights: o.PartitionWeights().IsResolved(),
		KeyOutputBucket:     o.OutputBucket().IsResolved(),
		KeyOutputPath:       o.OutputPath().IsResolved(),
	}
	var missing []string
	for _, key := range Keys {
		if !resolved[key] {
			missing = append(missing, key)
		}
	}
	return missing
}
