package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: one
// organization with users, projects, partners, tasks in various due states,
// and a representative set of escalation rules.
func SeedFixtures(database *sql.DB) error {
	now := time.Now()

	if _, err := database.Exec(
		"INSERT INTO organizations (id, name) VALUES (?, ?)",
		"ORG-001", "Acme Industries",
	); err != nil {
		return fmt.Errorf("seed organizations: %w", err)
	}

	users := []struct{ id, name, email string }{
		{"USER-001", "Mara Owens", "mara@acme.test"},
		{"USER-002", "Dev Patel", "dev@acme.test"},
		{"USER-003", "Lena Fischer", "lena@acme.test"},
	}
	for _, u := range users {
		if _, err := database.Exec(
			"INSERT INTO users (id, organization_id, name, email) VALUES (?, 'ORG-001', ?, ?)",
			u.id, u.name, u.email,
		); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	projects := []struct{ id, name, owner, manager string }{
		{"PROJ-001", "Website Relaunch", "USER-001", "USER-002"},
		{"PROJ-002", "Warehouse Migration", "USER-001", "USER-001"},
	}
	for _, p := range projects {
		if _, err := database.Exec(
			"INSERT INTO projects (id, organization_id, name, owner_id, manager_id) VALUES (?, 'ORG-001', ?, ?, ?)",
			p.id, p.name, p.owner, p.manager,
		); err != nil {
			return fmt.Errorf("seed projects: %w", err)
		}
	}

	if _, err := database.Exec(
		"INSERT INTO partners (id, organization_id, name, phone) VALUES ('PART-001', 'ORG-001', 'Bolt Logistics', '+15550100')",
	); err != nil {
		return fmt.Errorf("seed partners: %w", err)
	}

	tasks := []struct {
		id, project, assignee, partner, title, status string
		progress, dueInDays                           int
	}{
		{"TASK-001", "PROJ-001", "USER-003", "", "Design landing page", "in_progress", 40, 3},
		{"TASK-002", "PROJ-001", "USER-002", "", "Content migration", "todo", 0, 1},
		{"TASK-003", "PROJ-002", "USER-003", "PART-001", "Rack delivery", "in_progress", 60, -5},
		{"TASK-004", "PROJ-002", "", "", "Decommission old site", "todo", 10, -2},
		{"TASK-005", "PROJ-001", "USER-001", "", "Launch retrospective", "completed", 100, -1},
	}
	for _, tk := range tasks {
		due := now.AddDate(0, 0, tk.dueInDays)
		var assignee, partner sql.NullString
		if tk.assignee != "" {
			assignee = sql.NullString{String: tk.assignee, Valid: true}
		}
		if tk.partner != "" {
			partner = sql.NullString{String: tk.partner, Valid: true}
		}
		if _, err := database.Exec(
			"INSERT INTO tasks (id, project_id, assignee_id, partner_id, title, status, progress, due_date) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			tk.id, tk.project, assignee, partner, tk.title, tk.status, tk.progress, due,
		); err != nil {
			return fmt.Errorf("seed tasks: %w", err)
		}
	}

	rules := []struct {
		id, project, triggerType, action string
		triggerValue, priority           int
	}{
		{"RULE-001", "", "days_before_due", "notify_owner", 3, 10},
		{"RULE-002", "", "days_after_due", "escalate_to_manager", 3, 20},
		{"RULE-003", "PROJ-001", "progress_below", "notify_stakeholders", 50, 30},
	}
	for _, r := range rules {
		var project sql.NullString
		if r.project != "" {
			project = sql.NullString{String: r.project, Valid: true}
		}
		if _, err := database.Exec(
			"INSERT INTO escalation_rules (id, organization_id, project_id, trigger_type, trigger_value, action, status, priority) VALUES (?, 'ORG-001', ?, ?, ?, ?, 'active', ?)",
			r.id, project, r.triggerType, r.triggerValue, r.action, r.priority,
		); err != nil {
			return fmt.Errorf("seed rules: %w", err)
		}
	}

	if _, err := database.Exec(
		"INSERT INTO organization_sms_credentials (organization_id, account_sid, auth_token, phone_number) VALUES ('ORG-001', 'AC_test', 'token_test', '+15550199')",
	); err != nil {
		return fmt.Errorf("seed sms credentials: %w", err)
	}

	return nil
}
