package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/wire"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run an escalation sweep now",
	Long:  "Evaluate all active escalation rules against candidate tasks and execute the ones that fire",
	RunE: func(cmd *cobra.Command, args []string) error {
		org, _ := cmd.Flags().GetString("org")
		project, _ := cmd.Flags().GetString("project")
		task, _ := cmd.Flags().GetString("task")

		summary, err := wire.EscalationService().Sweep(context.Background(), primary.SweepScope{
			OrganizationID: org,
			ProjectID:      project,
			TaskID:         task,
		})
		if err != nil {
			return fmt.Errorf("sweep failed: %w", err)
		}

		fmt.Printf("Tasks checked: %d\n", summary.TasksChecked)
		fmt.Printf("Escalations triggered: %d\n", summary.EscalationsTriggered)

		for _, log := range summary.Logs {
			marker := color.New(color.FgGreen).Sprint("✓")
			if log.Status == primary.LogStatusFailed {
				marker = color.New(color.FgRed).Sprint("✗")
			}
			fmt.Printf("  %s %s: rule %s on task %s (%s)\n", marker, log.Action, log.RuleID, log.TaskID, log.Status)
			for _, reason := range log.FailureReasons {
				fmt.Printf("      %s\n", color.New(color.FgYellow).Sprint(reason))
			}
		}

		return nil
	},
}

// SweepCmd returns the sweep command
func SweepCmd() *cobra.Command {
	sweepCmd.Flags().String("org", "", "Limit the sweep to one organization")
	sweepCmd.Flags().String("project", "", "Limit the sweep to one project")
	sweepCmd.Flags().String("task", "", "Limit the sweep to one task")
	return sweepCmd
}
