package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/wire"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show escalation statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		org, _ := cmd.Flags().GetString("org")

		stats, err := wire.StatsService().Statistics(context.Background(), org)
		if err != nil {
			return fmt.Errorf("failed to fetch statistics: %w", err)
		}

		fmt.Printf("Rules: %d total, %d active\n", stats.TotalRules, stats.ActiveRules)
		fmt.Printf("Escalations in the last 24h: %d\n", stats.RecentEscalations)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\nLOGS BY STATUS\tCOUNT")
		for status, count := range stats.LogsByStatus {
			fmt.Fprintf(w, "%s\t%d\n", status, count)
		}
		fmt.Fprintln(w, "\nLOGS BY ACTION\tCOUNT")
		for action, count := range stats.LogsByAction {
			fmt.Fprintf(w, "%s\t%d\n", action, count)
		}
		w.Flush()
		return nil
	},
}

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	statsCmd.Flags().String("org", "", "Scope statistics to one organization")
	return statsCmd
}
