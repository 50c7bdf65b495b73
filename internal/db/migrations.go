package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration.
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB) error
}

// migrations is the list of all migrations in order.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "convert_log_error_message_to_failure_reasons",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_priority_to_escalation_rules",
		Up:      migrationV2,
	},
}

// RunMigrations applies pending migrations in order. Each migration version
// is recorded in schema_version so reruns are no-ops.
func RunMigrations(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var currentVersion int
	err = database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		if err := migration.Up(database); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		_, err = database.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 replaces the legacy error_message text column with the ordered
// failure_reasons JSON array. Older deployments accumulated side-channel
// failures by string concatenation; the list keeps the record parseable.
func migrationV1(database *sql.DB) error {
	var hasLegacy int
	err := database.QueryRow(
		"SELECT COUNT(*) FROM pragma_table_info('escalation_logs') WHERE name = 'error_message'",
	).Scan(&hasLegacy)
	if err != nil {
		return err
	}
	if hasLegacy == 0 {
		return nil
	}

	stmts := []string{
		`UPDATE escalation_logs
			SET failure_reasons = json_array(error_message)
			WHERE error_message IS NOT NULL AND error_message != '' AND failure_reasons = '[]'`,
		`ALTER TABLE escalation_logs DROP COLUMN error_message`,
	}
	for _, stmt := range stmts {
		if _, err := database.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// migrationV2 backfills the priority column for rules created before
// deterministic evaluation ordering existed.
func migrationV2(database *sql.DB) error {
	_, err := database.Exec("UPDATE escalation_rules SET priority = 100 WHERE priority IS NULL")
	return err
}
