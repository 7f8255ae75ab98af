/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"dataflow-etl/conf"

	"github.com/spf13/cobra"
)

// newTemplateCmd builds the template command
func newTemplateCmd(l *launcher) *cobra.Command {
	var out string

	templateCmd := &cobra.Command{
		Use:   "template",
		Short: "Write a job template for the parameters still missing",
		Long: `Write a YAML job template listing every parameter that was not given
on the command line or in the environment. Fill it in and pass it back with --template.`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if out == "" {
				return conf.WriteTemplate(cmd.OutOrStdout(), l.options.Base.JobName, l.options)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating template file: %w", err)
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("closing template file: %w", cerr)
				}
			}()
			if err := conf.WriteTemplate(f, l.options.Base.JobName, l.options); err != nil {
				return fmt.Errorf("writing template: %w", err)
			}
			return nil
		},
	}

	templateCmd.Flags().StringVarP(&out, "out", "o", "", "File to write the template to (default stdout)")
	return templateCmd
}
