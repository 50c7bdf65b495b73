package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/wire"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List escalation logs",
	Long:  "List the escalation history, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		project, _ := cmd.Flags().GetString("project")
		task, _ := cmd.Flags().GetString("task")
		rule, _ := cmd.Flags().GetString("rule")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		logs, err := wire.EscalationService().ListLogs(context.Background(), primary.LogFilters{
			ProjectID: project,
			TaskID:    task,
			RuleID:    rule,
			Status:    status,
			Limit:     limit,
		})
		if err != nil {
			return fmt.Errorf("failed to list logs: %w", err)
		}

		if len(logs) == 0 {
			fmt.Println("No escalation logs found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RULE\tTASK\tACTION\tSTATUS\tNOTIFIED\tFIRED ON")
		fmt.Fprintln(w, "----\t----\t------\t------\t--------\t--------")
		for _, log := range logs {
			notified := "-"
			if len(log.NotifiedUsers) > 0 {
				notified = strings.Join(log.NotifiedUsers, ",")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				log.RuleID,
				log.TaskID,
				log.Action,
				log.Status,
				notified,
				log.FiredOn,
			)
		}
		w.Flush()
		return nil
	},
}

// LogsCmd returns the logs command
func LogsCmd() *cobra.Command {
	logsCmd.Flags().String("project", "", "Filter by project ID")
	logsCmd.Flags().String("task", "", "Filter by task ID")
	logsCmd.Flags().String("rule", "", "Filter by rule ID")
	logsCmd.Flags().String("status", "", "Filter by status (pending|executed|failed)")
	logsCmd.Flags().Int("limit", 50, "Maximum number of logs")
	return logsCmd
}
