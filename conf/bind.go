package conf

import (
	"encoding/json"
	"fmt"

	"github.com/iancoleman/strcase"
	"github.com/spf13/pflag"
)

// Usage strings for the job parameters, also written into template
// skeletons.
var Usage = map[string]string{
	KeyDataset:          "BigQuery dataset holding the destination table",
	KeyTable:            "Destination table name",
	KeyDropTable:        "Drop and recreate the destination table before loading",
	KeyPartitionWeights: `Partition weights as a JSON object, e.g. {"train":0.8,"test":0.1,"validation":0.1}`,
	KeyOutputBucket:     "Cloud Storage bucket for exported files",
	KeyOutputPath:       "Object path inside the output bucket",
}

// FlagName converts a parameter name like partitionWeights into its flag
// name, partition-weights.
func FlagName(key string) string {
	return strcase.ToKebab(key)
}

// EnvName converts a parameter name into its environment variable,
// e.g. ETL_OUTPUT_BUCKET.
func EnvName(key string) string {
	return "ETL_" + strcase.ToScreamingSnake(key)
}

// Bind registers a flag for every parameter whose holder is a runtime value.
// Setting a flag supplies the holder.
func Bind(fs *pflag.FlagSet, o *Options) {
	bindFlag(fs, KeyDataset, "string", o.Dataset())
	bindFlag(fs, KeyTable, "string", o.Table())
	bindFlag(fs, KeyDropTable, "bool", o.DropTable())
	bindFlag(fs, KeyPartitionWeights, "weights", o.PartitionWeights())
	bindFlag(fs, KeyOutputBucket, "string", o.OutputBucket())
	bindFlag(fs, KeyOutputPath, "string", o.OutputPath())
}

func bindFlag[T any](fs *pflag.FlagSet, key, typ string, p Provider[T]) {
	r, ok := p.(*Runtime[T])
	if !ok || r.parse == nil {
		return
	}
	f := fs.VarPF(&flagValue[T]{r: r, typ: typ}, FlagName(key), "", Usage[key])
	if typ == "bool" {
		f.NoOptDefVal = "true"
	}
}

// BindBase registers the standard execution flags.
func BindBase(fs *pflag.FlagSet, b *BaseOptions) {
	fs.StringVar(&b.Project, "project", "", "Google Cloud project the job runs in (defaults to the credentials' project)")
	fs.StringVar(&b.Region, "region", "us-central1", "Region the job runs in")
	fs.StringVar(&b.CredentialsFile, "credentials", "", "Path to a service account key file (defaults to Application Default Credentials)")
	fs.StringVar(&b.TempLocation, "temp-location", "", "gs:// path for temporary files")
	fs.StringVar(&b.JobName, "job-name", "", "Job name (generated when empty)")
}

type flagValue[T any] struct {
	r   *Runtime[T]
	typ string
}

func (f *flagValue[T]) String() string {
	v, ok := f.r.peek()
	if !ok {
		return ""
	}
	if f.typ == "weights" {
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
	return fmt.Sprint(v)
}

func (f *flagValue[T]) Set(raw string) error {
	return f.r.Supply(raw)
}

func (f *flagValue[T]) Type() string {
	return f.typ
}
