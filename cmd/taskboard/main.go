package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/cli"
	"github.com/example/taskboard/internal/config"
	"github.com/example/taskboard/internal/version"
	"github.com/example/taskboard/internal/wire"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "taskboard",
		Short:   "Taskboard - escalation engine for task deadlines",
		Version: version.String(),
		Long: `Taskboard watches task due dates and progress, evaluates per-tenant
escalation rules against them, and notifies owners, stakeholders, and
managers when a rule fires.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			wire.SetConfig(cfg)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "taskboard.yaml", "Path to the configuration file")

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.SeedCmd())
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.SweepCmd())
	rootCmd.AddCommand(cli.RuleCmd())
	rootCmd.AddCommand(cli.LogsCmd())
	rootCmd.AddCommand(cli.StatsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
