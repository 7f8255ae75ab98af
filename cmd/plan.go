/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"math"

	"dataflow-etl/api"
	"dataflow-etl/util"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newPlanCmd builds the plan command
func newPlanCmd(l *launcher) *cobra.Command {
	var sampleRows int

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Resolve every parameter and show what the job would do",
		Long: `Resolve every parameter and print the partition split, the export
location, the API client settings and the BigQuery load configuration.
Nothing is read or written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if missing := l.options.Unresolved(); len(missing) > 0 {
				return fmt.Errorf("parameters without a value: %v", missing)
			}
			if sampleRows < 0 {
				return fmt.Errorf("--sample-rows must not be negative, got %d", sampleRows)
			}

			project, err := api.ResolveProject(cmd.Context(), l.options.Base)
			if err != nil {
				return err
			}

			weights, err := l.options.PartitionWeights().Resolve()
			if err != nil {
				return err
			}
			if err := util.ValidateWeights(weights); err != nil {
				return err
			}
			if sum := util.SumWeights(weights); math.Abs(sum-1) > 1e-9 {
				slog.Warn("Partition weights do not sum to 1, using relative shares", "sum", sum)
			}
			shares, err := util.NormalizeWeights(weights)
			if err != nil {
				return err
			}

			output, err := api.OutputURI(l.options)
			if err != nil {
				return err
			}
			load, err := api.LoadConfig(project, l.options)
			if err != nil {
				return err
			}

			plan := map[string]any{
				"job":        l.options.Base.JobName,
				"project":    project,
				"region":     l.options.Base.Region,
				"client":     api.DescribeClient(l.options.Base),
				"partitions": shares,
				"output":     output,
				"load": map[string]any{
					"destination":       fmt.Sprintf("%s:%s.%s", load.DestinationTable.ProjectId, load.DestinationTable.DatasetId, load.DestinationTable.TableId),
					"sourceUris":        load.SourceUris,
					"writeDisposition":  load.WriteDisposition,
					"createDisposition": load.CreateDisposition,
				},
			}
			if sampleRows > 0 {
				split, err := sampleSplit(sampleRows, weights)
				if err != nil {
					return err
				}
				plan["sampleSplit"] = split
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(plan); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	planCmd.Flags().IntVar(&sampleRows, "sample-rows", 1000, "Number of synthetic row keys to assign to partitions (0 to skip)")
	return planCmd
}

// sampleSplit counts how rows keyed row-0 .. row-(n-1) fall into partitions.
// The assignment is deterministic, so the counts are the same on every run.
func sampleSplit(n int, weights map[string]float64) (map[string]int, error) {
	split := make(map[string]int, len(weights))
	for name := range weights {
		split[name] = 0
	}
	for i := range n {
		name, err := util.PickPartition(fmt.Sprintf("row-%d", i), weights)
		if err != nil {
			return nil, err
		}
		split[name]++
	}
	return split, nil
}
