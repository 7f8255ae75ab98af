/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newDescribeCmd builds the describe command
func newDescribeCmd(l *launcher) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the job parameters",
		Long:  `Print every job parameter, with deferred ones marked as such`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := map[string]any{
				"job": map[string]string{
					"name":         l.options.Base.JobName,
					"project":      l.options.Base.Project,
					"region":       l.options.Base.Region,
					"tempLocation": l.options.Base.TempLocation,
				},
				"parameters": l.options.Snapshot(),
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("writing parameters: %w", err)
			}
			return enc.Close()
		},
	}
}
