// Package sqlite_test contains integration tests for SQLite repositories.
//
// All test setup goes through setupTestDB and the seed* helpers, which load
// the authoritative schema via db.GetSchemaSQL(). Do not hardcode CREATE
// TABLE statements in test files; drift between test and production schemas
// is exactly what this setup prevents.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/taskboard/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedOrganization inserts a test organization and returns its ID.
func seedOrganization(t *testing.T, database *sql.DB, id string) string {
	t.Helper()
	if id == "" {
		id = "ORG-001"
	}
	_, err := database.Exec("INSERT INTO organizations (id, name) VALUES (?, 'Test Org')", id)
	if err != nil {
		t.Fatalf("failed to seed organization: %v", err)
	}
	return id
}

// seedProject inserts a test project and returns its ID.
func seedProject(t *testing.T, database *sql.DB, id, orgID, ownerID, managerID string) string {
	t.Helper()
	if id == "" {
		id = "PROJ-001"
	}
	var owner, manager any
	if ownerID != "" {
		owner = ownerID
	}
	if managerID != "" {
		manager = managerID
	}
	_, err := database.Exec(
		"INSERT INTO projects (id, organization_id, name, owner_id, manager_id) VALUES (?, ?, 'Test Project', ?, ?)",
		id, orgID, owner, manager,
	)
	if err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return id
}

// seedTask inserts a test task with the given due date offset in days from now.
func seedTask(t *testing.T, database *sql.DB, id, projectID, assigneeID, status string, progress, dueInDays int) string {
	t.Helper()
	var assignee any
	if assigneeID != "" {
		assignee = assigneeID
	}
	due := time.Now().AddDate(0, 0, dueInDays)
	_, err := database.Exec(
		"INSERT INTO tasks (id, project_id, assignee_id, title, status, progress, due_date) VALUES (?, ?, ?, 'Test Task', ?, ?, ?)",
		id, projectID, assignee, status, progress, due,
	)
	if err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return id
}

// seedRule inserts a test escalation rule and returns its ID.
func seedRule(t *testing.T, database *sql.DB, id, orgID, projectID, triggerType string, triggerValue int, action string) string {
	t.Helper()
	var project any
	if projectID != "" {
		project = projectID
	}
	_, err := database.Exec(
		"INSERT INTO escalation_rules (id, organization_id, project_id, trigger_type, trigger_value, action) VALUES (?, ?, ?, ?, ?, ?)",
		id, orgID, project, triggerType, triggerValue, action,
	)
	if err != nil {
		t.Fatalf("failed to seed rule: %v", err)
	}
	return id
}
