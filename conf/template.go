package conf

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrUnknownParameter = errors.New("unknown parameter")

// Template supplies runtime parameters for a job that was constructed
// without them.
type Template struct {
	Name        string               `yaml:"name"`
	Description string               `yaml:"description,omitempty"`
	Parameters  map[string]yaml.Node `yaml:"parameters"`
}

func LoadTemplate(r io.Reader) (*Template, error) {
	var t Template
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decoding job template: %w", err)
	}
	return &t, nil
}

func LoadTemplateFile(path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadTemplate(f)
}

// Apply supplies every template parameter whose holder has not been
// supplied yet. Values given earlier, e.g. by flags, win. Entries left
// empty are ignored so that a later source can still fill them. Every
// entry is decoded before anything is supplied.
func (t *Template) Apply(o *Options) error {
	keys := make([]string, 0, len(t.Parameters))
	for key := range t.Parameters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var staged []func() error
	for _, key := range keys {
		node := t.Parameters[key]
		var supply func() error
		var err error
		switch key {
		case KeyDataset:
			supply, err = stageNode(key, node, o.Dataset())
		case KeyTable:
			supply, err = stageNode(key, node, o.Table())
		case KeyDropTable:
			supply, err = stageNode(key, node, o.DropTable())
		case KeyPartitionWeights:
			supply, err = stageNode(key, node, o.PartitionWeights())
		case KeyOutputBucket:
			supply, err = stageNode(key, node, o.OutputBucket())
		case KeyOutputPath:
			supply, err = stageNode(key, node, o.OutputPath())
		default:
			err = fmt.Errorf("%s: %w", key, ErrUnknownParameter)
		}
		if err != nil {
			return fmt.Errorf("template %q: %w", t.Name, err)
		}
		if supply != nil {
			staged = append(staged, supply)
		}
	}
	if err := runStaged(staged); err != nil {
		return fmt.Errorf("template %q: %w", t.Name, err)
	}
	return nil
}

func isNull(node yaml.Node) bool {
	return node.Kind == 0 || node.ShortTag() == "!!null"
}

func stageNode[T any](key string, node yaml.Node, p Provider[T]) (func() error, error) {
	if isNull(node) {
		slog.Debug("Template leaves parameter empty, skipping", "parameter", key)
		return nil, nil
	}
	r, ok := supplyTarget(key, p)
	if !ok {
		return nil, nil
	}
	var v T
	if err := node.Decode(&v); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return func() error {
		slog.Debug("Supplying parameter from template", "parameter", key)
		return r.SupplyValue(v)
	}, nil
}

func runStaged(staged []func() error) error {
	for _, supply := range staged {
		if err := supply(); err != nil {
			return err
		}
	}
	return nil
}

// supplyTarget returns the runtime holder behind p when it still accepts a
// value from a lower-precedence source.
func supplyTarget[T any](key string, p Provider[T]) (*Runtime[T], bool) {
	r, ok := p.(*Runtime[T])
	if !ok {
		slog.Debug("Parameter is not a runtime value, skipping", "parameter", key)
		return nil, false
	}
	if r.Supplied() {
		slog.Debug("Parameter already supplied, skipping", "parameter", key)
		return nil, false
	}
	return r, true
}

// ApplyEnv supplies unsupplied parameters from ETL_* variables found through
// lookup, normally os.LookupEnv. Every variable is parsed before anything is
// supplied, and all parse failures are reported together.
func ApplyEnv(o *Options, lookup func(string) (string, bool)) error {
	var staged []func() error
	var errs []error
	collect := func(supply func() error, err error) {
		if err != nil {
			errs = append(errs, err)
			return
		}
		if supply != nil {
			staged = append(staged, supply)
		}
	}
	collect(stageEnv(KeyDataset, o.Dataset(), lookup))
	collect(stageEnv(KeyTable, o.Table(), lookup))
	collect(stageEnv(KeyDropTable, o.DropTable(), lookup))
	collect(stageEnv(KeyPartitionWeights, o.PartitionWeights(), lookup))
	collect(stageEnv(KeyOutputBucket, o.OutputBucket(), lookup))
	collect(stageEnv(KeyOutputPath, o.OutputPath(), lookup))
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return runStaged(staged)
}

func stageEnv[T any](key string, p Provider[T], lookup func(string) (string, bool)) (func() error, error) {
	raw, ok := lookup(EnvName(key))
	if !ok {
		return nil, nil
	}
	r, ok := supplyTarget(key, p)
	if !ok || r.parse == nil {
		return nil, nil
	}
	v, err := r.parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvName(key), err)
	}
	return func() error {
		slog.Debug("Supplying parameter from environment", "parameter", key, "variable", EnvName(key))
		return r.SupplyValue(v)
	}, nil
}

// LoadDotEnv loads variables from path. A missing file is only an error
// when running locally.
func LoadDotEnv(env string, path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil {
		if env == "local" {
			slog.Error("Failed to load environment file in local mode", "path", path, "error", err)
			return err
		}
		slog.Debug("Skipping .env ...", "path", path, "error", err)
	}
	return nil
}

// WriteTemplate writes a template skeleton naming every parameter of o that
// still has no value. Entries are left empty, and Apply ignores empty
// entries until they are filled in.
func WriteTemplate(w io.Writer, name string, o *Options) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	params := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range o.Unresolved() {
		k := &yaml.Node{
			Kind:        yaml.ScalarNode,
			Value:       key,
			HeadComment: fmt.Sprintf("--%s: %s", FlagName(key), Usage[key]),
		}
		v := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: ""}
		params.Content = append(params.Content, k, v)
	}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "name"},
		&yaml.Node{Kind: yaml.ScalarNode, Value: name},
		&yaml.Node{Kind: yaml.ScalarNode, Value: "parameters"},
		params,
	)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return err
	}
	return enc.Close()
}
