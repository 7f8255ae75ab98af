package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"dataflow-etl/conf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// execute runs a fresh command tree with args and returns what it wrote to
// stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := newRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args,
		"--env", "test",
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
	))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPlan_FlagsAndTemplate(t *testing.T) {
	tmplPath := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(tmplPath, []byte(`
name: nightly
parameters:
  table: from_template
  partitionWeights: {train: 8, test: 1, validation: 1}
  outputBucket: ml-sandbox-exports
  outputPath: trips/nightly
`), 0644))

	out, err := execute(t,
		"plan",
		"--project", "ml-sandbox",
		"--job-name", "etl-test",
		"--template", tmplPath,
		"--dataset", "chicagotaxi",
		"--table", "from_flag",
		"--drop-table",
	)
	require.NoError(t, err)

	var plan struct {
		Job    string `yaml:"job"`
		Client struct {
			Credentials  string   `yaml:"credentials"`
			QuotaProject string   `yaml:"quotaProject"`
			Scopes       []string `yaml:"scopes"`
		} `yaml:"client"`
		Project     string             `yaml:"project"`
		Partitions  map[string]float64 `yaml:"partitions"`
		SampleSplit map[string]int     `yaml:"sampleSplit"`
		Output      string             `yaml:"output"`
		Load        struct {
			Destination      string   `yaml:"destination"`
			SourceUris       []string `yaml:"sourceUris"`
			WriteDisposition string   `yaml:"writeDisposition"`
		} `yaml:"load"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &plan))

	assert.Equal(t, "etl-test", plan.Job)
	assert.Equal(t, "ml-sandbox", plan.Project)
	assert.Equal(t, "application default", plan.Client.Credentials)
	assert.Equal(t, "ml-sandbox", plan.Client.QuotaProject)
	assert.Len(t, plan.Client.Scopes, 2)
	assert.InDelta(t, 0.8, plan.Partitions["train"], 1e-9)
	assert.Equal(t, "gs://ml-sandbox-exports/trips/nightly", plan.Output)
	assert.Equal(t, "ml-sandbox:chicagotaxi.from_flag", plan.Load.Destination)
	assert.Equal(t, "WRITE_TRUNCATE", plan.Load.WriteDisposition)

	total := 0
	for _, n := range plan.SampleSplit {
		total += n
	}
	assert.Equal(t, 1000, total)
	assert.Greater(t, plan.SampleSplit["train"], 700)
	assert.Less(t, plan.SampleSplit["train"], 900)
}

func TestPlan_SampleSplitIsStable(t *testing.T) {
	args := []string{
		"plan",
		"--project", "ml-sandbox",
		"--job-name", "etl-test",
		"--dataset", "chicagotaxi",
		"--table", "trips",
		"--partition-weights", `{"train":0.8,"test":0.1,"validation":0.1}`,
		"--output-bucket", "ml-sandbox-exports",
		"--output-path", "trips",
		"--sample-rows", "200",
	}

	first, err := execute(t, args...)
	require.NoError(t, err)
	second, err := execute(t, args...)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "sampleSplit:")
}

func TestPlan_MissingParameters(t *testing.T) {
	_, err := execute(t, "plan", "--project", "ml-sandbox", "--dataset", "chicagotaxi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), conf.KeyTable)
	assert.NotContains(t, err.Error(), conf.KeyDataset)
}

func TestDescribe_MarksDeferredParameters(t *testing.T) {
	t.Setenv("ETL_OUTPUT_BUCKET", "from-env")

	out, err := execute(t, "describe", "--job-name", "etl-test", "--dataset", "chicagotaxi")
	require.NoError(t, err)

	var described struct {
		Job        map[string]string `yaml:"job"`
		Parameters map[string]any    `yaml:"parameters"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &described))

	assert.Equal(t, "etl-test", described.Job["name"])
	assert.Equal(t, "us-central1", described.Job["region"])
	assert.Equal(t, "chicagotaxi", described.Parameters[conf.KeyDataset])
	assert.Equal(t, "from-env", described.Parameters[conf.KeyOutputBucket])
	assert.Equal(t, false, described.Parameters[conf.KeyDropTable])
	assert.Equal(t, conf.Deferred, described.Parameters[conf.KeyTable])
	assert.Equal(t, conf.Deferred, described.Parameters[conf.KeyPartitionWeights])
}

func TestTemplate_WritesMissingParametersToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")

	out, err := execute(t, "template", "--job-name", "etl-test", "--dataset", "chicagotaxi", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	tmpl, err := conf.LoadTemplateFile(path)
	require.NoError(t, err)
	assert.Equal(t, "etl-test", tmpl.Name)
	assert.Len(t, tmpl.Parameters, 4)
	assert.NotContains(t, tmpl.Parameters, conf.KeyDataset)
	assert.Contains(t, tmpl.Parameters, conf.KeyOutputPath)
}

func TestTemplate_WritesToStdout(t *testing.T) {
	out, err := execute(t, "template", "--job-name", "etl-test")
	require.NoError(t, err)

	assert.Contains(t, out, "name: etl-test")
	assert.Contains(t, out, "# --partition-weights:")
}

func TestTemplate_UnwritableOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", "job.yaml")

	_, err := execute(t, "template", "-o", path)

	assert.Error(t, err)
}
