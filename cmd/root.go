/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"dataflow-etl/api"
	"dataflow-etl/conf"

	"github.com/spf13/cobra"
)

// launcher holds the state one invocation of the command tree works on.
type launcher struct {
	config  conf.LaunchConfig
	options *conf.Options
	verbose bool
}

// newRootCmd builds the base command, with every subcommand, around a fresh
// set of job options.
func newRootCmd() *cobra.Command {
	l := &launcher{options: conf.NewOptions()}

	rootCmd := &cobra.Command{
		Use:   "dataflow-etl",
		Short: "Configure and plan the taxi trip ETL job",
		Long: `Collects the runtime parameters of the ETL job from flags, a job
template and the environment, and shows what the job would do with them.`,
		SilenceUsage:      true,
		PersistentPreRunE: l.supplyOptions,
	}

	flags := rootCmd.PersistentFlags()
	conf.BindBase(flags, &l.options.Base)
	conf.Bind(flags, l.options)

	flags.StringVar(&l.config.TemplatePath, "template", "", "YAML job template supplying runtime parameters")
	flags.StringVar(&l.config.EnvFile, "env-file", ".env", "Environment file read before ETL_* variables")
	flags.StringVar(&l.config.Env, "env", os.Getenv("ENV"), "Environment name; a missing env file is fatal only for 'local'")
	flags.BoolVarP(&l.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newDescribeCmd(l), newTemplateCmd(l), newPlanCmd(l))
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// supplyOptions fills whatever the flags left open, in precedence order:
// template, then environment. Defaults apply on resolve.
func (l *launcher) supplyOptions(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if l.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	if err := conf.LoadDotEnv(l.config.Env, l.config.EnvFile); err != nil {
		return err
	}
	if l.config.TemplatePath != "" {
		tmpl, err := conf.LoadTemplateFile(l.config.TemplatePath)
		if err != nil {
			return fmt.Errorf("loading template: %w", err)
		}
		if err := tmpl.Apply(l.options); err != nil {
			return err
		}
		slog.Info("Applied job template", "template", tmpl.Name, "path", l.config.TemplatePath)
	}
	if err := conf.ApplyEnv(l.options, os.LookupEnv); err != nil {
		return err
	}
	if l.options.Base.JobName == "" {
		l.options.Base.JobName = api.NewJobName()
	}
	return nil
}
