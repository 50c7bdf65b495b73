package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh installs.
//
// This is the single source of truth for the database layout. All repository
// tests load it via GetSchemaSQL(), so a repository referencing a column that
// does not exist here fails immediately with "no such column" at test time.
//
// Keep this in sync with migrations: new columns or tables get a migration in
// migrations.go AND an update here.
const SchemaSQL = `
-- Organizations (tenants)
CREATE TABLE IF NOT EXISTS organizations (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Users
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	name TEXT NOT NULL,
	email TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (organization_id) REFERENCES organizations(id)
);

-- Projects
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	name TEXT NOT NULL,
	owner_id TEXT,
	manager_id TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (organization_id) REFERENCES organizations(id)
);

-- External partners (contractors, vendors) reachable by SMS
CREATE TABLE IF NOT EXISTS partners (
	id TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	name TEXT NOT NULL,
	phone TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (organization_id) REFERENCES organizations(id)
);

-- Tasks (owned by the wider SaaS; read-only to the escalation engine)
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	assignee_id TEXT,
	partner_id TEXT,
	title TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('todo', 'in_progress', 'review', 'completed', 'cancelled')) DEFAULT 'todo',
	progress INTEGER NOT NULL DEFAULT 0 CHECK(progress BETWEEN 0 AND 100),
	due_date DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (project_id) REFERENCES projects(id),
	FOREIGN KEY (partner_id) REFERENCES partners(id)
);

-- Escalation rules (project-scoped or org-global when project_id is NULL)
CREATE TABLE IF NOT EXISTS escalation_rules (
	id TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	project_id TEXT,
	trigger_type TEXT NOT NULL CHECK(trigger_type IN ('days_before_due', 'days_after_due', 'progress_below')),
	trigger_value INTEGER NOT NULL CHECK(trigger_value >= 1),
	action TEXT NOT NULL CHECK(action IN ('notify_owner', 'notify_stakeholders', 'escalate_to_manager')),
	status TEXT NOT NULL CHECK(status IN ('active', 'inactive')) DEFAULT 'active',
	priority INTEGER NOT NULL DEFAULT 100,
	escalate_to_user_id TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (organization_id) REFERENCES organizations(id),
	FOREIGN KEY (project_id) REFERENCES projects(id)
);

-- Escalation logs: one row per (rule, task) firing attempt per UTC day.
-- The unique index is what makes overlapping sweeps safe.
CREATE TABLE IF NOT EXISTS escalation_logs (
	id TEXT PRIMARY KEY,
	rule_id TEXT NOT NULL,
	task_id TEXT NOT NULL,
	project_id TEXT NOT NULL,
	action TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('pending', 'executed', 'failed')) DEFAULT 'pending',
	notified_users TEXT NOT NULL DEFAULT '[]',
	escalated_to_user_id TEXT,
	failure_reasons TEXT NOT NULL DEFAULT '[]',
	fired_on TEXT NOT NULL,
	executed_at DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (rule_id) REFERENCES escalation_rules(id),
	FOREIGN KEY (task_id) REFERENCES tasks(id),
	FOREIGN KEY (project_id) REFERENCES projects(id)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_logs_rule_task_day ON escalation_logs(rule_id, task_id, fired_on);
CREATE INDEX IF NOT EXISTS idx_logs_created_at ON escalation_logs(created_at);
CREATE INDEX IF NOT EXISTS idx_logs_project ON escalation_logs(project_id);
CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date);
CREATE INDEX IF NOT EXISTS idx_rules_org_project ON escalation_rules(organization_id, project_id);

-- Per-organization SMS provider credentials
CREATE TABLE IF NOT EXISTS organization_sms_credentials (
	organization_id TEXT PRIMARY KEY,
	account_sid TEXT NOT NULL,
	auth_token TEXT NOT NULL,
	phone_number TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (organization_id) REFERENCES organizations(id)
);

-- In-app notification inbox (sink of the default notification channel)
CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL,
	message TEXT NOT NULL,
	channel TEXT NOT NULL DEFAULT 'in_app',
	metadata TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	read_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at);
`

// InitSchema creates the database schema.
func InitSchema(database *sql.DB) error {
	if _, err := database.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests must use this instead of hardcoding CREATE TABLE statements.
func GetSchemaSQL() string {
	return SchemaSQL
}
