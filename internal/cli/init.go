package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the taskboard database",
		Long:  "Create the database file with the full schema and run any pending migrations.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Config()

			// Opening the database creates the schema and applies migrations.
			if wire.Database() == nil {
				return fmt.Errorf("failed to open database at %s", cfg.Database.Path)
			}

			fmt.Printf("Initializing taskboard database at %s\n", cfg.Database.Path)
			fmt.Println("✓ Database initialized successfully")
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  taskboard seed")
			fmt.Println("  taskboard rule list")
			fmt.Println("  taskboard sweep")
			return nil
		},
	}
}
