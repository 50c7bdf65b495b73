// Package cli provides CLI commands for the taskboard escalation engine.
package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/wire"
)

var ruleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Manage escalation rules",
	Long:  "Create, list, and modify the escalation rules evaluated by the sweep",
}

var ruleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List escalation rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		org, _ := cmd.Flags().GetString("org")
		project, _ := cmd.Flags().GetString("project")
		status, _ := cmd.Flags().GetString("status")

		rules, err := wire.RuleService().ListRules(context.Background(), primary.RuleFilters{
			OrganizationID: org,
			ProjectID:      project,
			Status:         status,
		})
		if err != nil {
			return fmt.Errorf("failed to list rules: %w", err)
		}

		if len(rules) == 0 {
			fmt.Println("No rules found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tORG\tPROJECT\tTRIGGER\tVALUE\tACTION\tSTATUS\tPRIORITY")
		fmt.Fprintln(w, "--\t---\t-------\t-------\t-----\t------\t------\t--------")
		for _, rule := range rules {
			scope := rule.ProjectID
			if scope == "" {
				scope = "(all)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%d\n",
				rule.ID,
				rule.OrganizationID,
				scope,
				rule.TriggerType,
				rule.TriggerValue,
				rule.Action,
				rule.Status,
				rule.Priority,
			)
		}
		w.Flush()
		return nil
	},
}

var ruleCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an escalation rule",
	RunE: func(cmd *cobra.Command, args []string) error {
		org, _ := cmd.Flags().GetString("org")
		project, _ := cmd.Flags().GetString("project")
		triggerType, _ := cmd.Flags().GetString("trigger")
		triggerValue, _ := cmd.Flags().GetInt("value")
		action, _ := cmd.Flags().GetString("action")
		escalateTo, _ := cmd.Flags().GetString("escalate-to")

		req := primary.CreateRuleRequest{
			OrganizationID:   org,
			ProjectID:        project,
			TriggerType:      triggerType,
			TriggerValue:     triggerValue,
			Action:           action,
			EscalateToUserID: escalateTo,
		}
		if cmd.Flags().Changed("priority") {
			priority, _ := cmd.Flags().GetInt("priority")
			req.Priority = &priority
		}

		rule, err := wire.RuleService().CreateRule(context.Background(), req)
		if err != nil {
			return fmt.Errorf("failed to create rule: %w", err)
		}

		fmt.Printf("Created rule %s (%s %d -> %s)\n", rule.ID, rule.TriggerType, rule.TriggerValue, rule.Action)
		return nil
	},
}

var ruleShowCmd = &cobra.Command{
	Use:   "show [rule-id]",
	Short: "Show rule details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rule, err := wire.RuleService().GetRule(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("rule not found: %w", err)
		}

		fmt.Printf("Rule: %s\n", rule.ID)
		fmt.Printf("Organization: %s\n", rule.OrganizationID)
		if rule.ProjectID != "" {
			fmt.Printf("Project: %s\n", rule.ProjectID)
		} else {
			fmt.Println("Project: (all projects)")
		}
		fmt.Printf("Trigger: %s %d\n", rule.TriggerType, rule.TriggerValue)
		fmt.Printf("Action: %s\n", rule.Action)
		if rule.EscalateToUserID != "" {
			fmt.Printf("Escalate To: %s\n", rule.EscalateToUserID)
		}
		fmt.Printf("Status: %s\n", rule.Status)
		fmt.Printf("Priority: %d\n", rule.Priority)
		fmt.Printf("Created: %s\n", rule.CreatedAt)
		fmt.Printf("Updated: %s\n", rule.UpdatedAt)
		return nil
	},
}

var ruleUpdateCmd = &cobra.Command{
	Use:   "update [rule-id]",
	Short: "Update a rule's mutable fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := primary.UpdateRuleRequest{RuleID: args[0]}

		if cmd.Flags().Changed("trigger") {
			v, _ := cmd.Flags().GetString("trigger")
			req.TriggerType = &v
		}
		if cmd.Flags().Changed("value") {
			v, _ := cmd.Flags().GetInt("value")
			req.TriggerValue = &v
		}
		if cmd.Flags().Changed("action") {
			v, _ := cmd.Flags().GetString("action")
			req.Action = &v
		}
		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetString("status")
			req.Status = &v
		}
		if cmd.Flags().Changed("priority") {
			v, _ := cmd.Flags().GetInt("priority")
			req.Priority = &v
		}
		if cmd.Flags().Changed("escalate-to") {
			v, _ := cmd.Flags().GetString("escalate-to")
			req.EscalateToUserID = &v
		}

		rule, err := wire.RuleService().UpdateRule(context.Background(), req)
		if err != nil {
			return fmt.Errorf("failed to update rule: %w", err)
		}

		fmt.Printf("Updated rule %s\n", rule.ID)
		return nil
	},
}

var ruleDeleteCmd = &cobra.Command{
	Use:   "delete [rule-id]",
	Short: "Delete a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wire.RuleService().DeleteRule(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete rule: %w", err)
		}
		fmt.Printf("Deleted rule %s\n", args[0])
		return nil
	},
}

// RuleCmd returns the rule command
func RuleCmd() *cobra.Command {
	ruleListCmd.Flags().String("org", "", "Filter by organization ID")
	ruleListCmd.Flags().String("project", "", "Filter by project ID")
	ruleListCmd.Flags().String("status", "", "Filter by status (active|inactive)")

	ruleCreateCmd.Flags().String("org", "", "Organization ID (required)")
	ruleCreateCmd.Flags().String("project", "", "Project ID (empty = all projects)")
	ruleCreateCmd.Flags().String("trigger", "", "Trigger type (days_before_due|days_after_due|progress_below)")
	ruleCreateCmd.Flags().Int("value", 0, "Trigger value (days or percent, >= 1)")
	ruleCreateCmd.Flags().String("action", "", "Action (notify_owner|notify_stakeholders|escalate_to_manager)")
	ruleCreateCmd.Flags().Int("priority", 0, "Evaluation priority (lower first)")
	ruleCreateCmd.Flags().String("escalate-to", "", "Override escalation target user ID")

	ruleUpdateCmd.Flags().String("trigger", "", "Trigger type")
	ruleUpdateCmd.Flags().Int("value", 0, "Trigger value")
	ruleUpdateCmd.Flags().String("action", "", "Action")
	ruleUpdateCmd.Flags().String("status", "", "Status (active|inactive)")
	ruleUpdateCmd.Flags().Int("priority", 0, "Evaluation priority")
	ruleUpdateCmd.Flags().String("escalate-to", "", "Override escalation target user ID")

	ruleCmd.AddCommand(ruleListCmd)
	ruleCmd.AddCommand(ruleCreateCmd)
	ruleCmd.AddCommand(ruleShowCmd)
	ruleCmd.AddCommand(ruleUpdateCmd)
	ruleCmd.AddCommand(ruleDeleteCmd)
	return ruleCmd
}
