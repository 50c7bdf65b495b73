package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/db"
	"github.com/example/taskboard/internal/wire"
)

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load development fixtures",
		Long:  "Populate the database with a demo organization, projects, tasks, and escalation rules.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := db.SeedFixtures(wire.Database()); err != nil {
				return fmt.Errorf("failed to seed fixtures: %w", err)
			}

			fmt.Println("✓ Fixtures loaded")
			fmt.Println()
			fmt.Println("Try:")
			fmt.Println("  taskboard sweep")
			fmt.Println("  taskboard logs")
			return nil
		},
	}
}
