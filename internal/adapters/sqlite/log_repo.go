package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/taskboard/internal/ports/secondary"
)

// LogRepository implements secondary.LogRepository with SQLite.
type LogRepository struct {
	db *sql.DB
}

// NewLogRepository creates a new SQLite escalation log repository.
func NewLogRepository(db *sql.DB) *LogRepository {
	return &LogRepository{db: db}
}

const logColumns = "id, rule_id, task_id, project_id, action, status, notified_users, escalated_to_user_id, failure_reasons, fired_on, executed_at, created_at"

// Create persists a new pending log row. The conflict-tolerant insert against
// the (rule_id, task_id, fired_on) unique index is what keeps two overlapping
// sweeps from double-firing: the loser gets ErrDuplicateFiring.
func (r *LogRepository) Create(ctx context.Context, log *secondary.LogRecord) error {
	notified, err := json.Marshal(emptyIfNil(log.NotifiedUsers))
	if err != nil {
		return fmt.Errorf("failed to encode notified users: %w", err)
	}
	failures, err := json.Marshal(emptyIfNil(log.FailureReasons))
	if err != nil {
		return fmt.Errorf("failed to encode failure reasons: %w", err)
	}

	var escalatedTo sql.NullString
	if log.EscalatedToUserID != "" {
		escalatedTo = sql.NullString{String: log.EscalatedToUserID, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO escalation_logs (id, rule_id, task_id, project_id, action, status, notified_users, escalated_to_user_id, failure_reasons, fired_on)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(rule_id, task_id, fired_on) DO NOTHING`,
		log.ID,
		log.RuleID,
		log.TaskID,
		log.ProjectID,
		log.Action,
		log.Status,
		string(notified),
		escalatedTo,
		string(failures),
		log.FiredOn,
	)
	if err != nil {
		return fmt.Errorf("failed to create log: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("log for rule %s task %s on %s: %w", log.RuleID, log.TaskID, log.FiredOn, secondary.ErrDuplicateFiring)
	}

	return nil
}

// Update rewrites the mutable fields of a log row.
func (r *LogRepository) Update(ctx context.Context, log *secondary.LogRecord) error {
	notified, err := json.Marshal(emptyIfNil(log.NotifiedUsers))
	if err != nil {
		return fmt.Errorf("failed to encode notified users: %w", err)
	}
	failures, err := json.Marshal(emptyIfNil(log.FailureReasons))
	if err != nil {
		return fmt.Errorf("failed to encode failure reasons: %w", err)
	}

	var escalatedTo sql.NullString
	if log.EscalatedToUserID != "" {
		escalatedTo = sql.NullString{String: log.EscalatedToUserID, Valid: true}
	}
	var executedAt any
	if log.ExecutedAt != "" {
		t, err := time.Parse(time.RFC3339, log.ExecutedAt)
		if err != nil {
			return fmt.Errorf("invalid executed_at: %w", err)
		}
		executedAt = t.UTC()
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE escalation_logs SET status = ?, notified_users = ?, escalated_to_user_id = ?, failure_reasons = ?, executed_at = ? WHERE id = ?`,
		log.Status,
		string(notified),
		escalatedTo,
		string(failures),
		executedAt,
		log.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update log: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("log %s: %w", log.ID, secondary.ErrNotFound)
	}

	return nil
}

// GetByID retrieves a log by its ID.
func (r *LogRepository) GetByID(ctx context.Context, id string) (*secondary.LogRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+logColumns+" FROM escalation_logs WHERE id = ?", id)

	record, err := scanLog(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("log %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get log: %w", err)
	}
	return record, nil
}

// List retrieves logs matching the given filters, newest first.
func (r *LogRepository) List(ctx context.Context, filters secondary.LogFilters) ([]*secondary.LogRecord, error) {
	query := "SELECT " + logColumns + " FROM escalation_logs WHERE 1=1"
	args := []any{}

	if filters.ProjectID != "" {
		query += " AND project_id = ?"
		args = append(args, filters.ProjectID)
	}
	if filters.TaskID != "" {
		query += " AND task_id = ?"
		args = append(args, filters.TaskID)
	}
	if filters.RuleID != "" {
		query += " AND rule_id = ?"
		args = append(args, filters.RuleID)
	}
	if filters.Action != "" {
		query += " AND action = ?"
		args = append(args, filters.Action)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	// date() normalizes both the driver's and CURRENT_TIMESTAMP's storage
	// formats, so date-range filters work at day granularity.
	if filters.From != "" {
		query += " AND date(created_at) >= date(?)"
		args = append(args, filters.From)
	}
	if filters.To != "" {
		query += " AND date(created_at) <= date(?)"
		args = append(args, filters.To)
	}

	query += " ORDER BY created_at DESC, id DESC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
		if filters.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filters.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	defer rows.Close()

	var logs []*secondary.LogRecord
	for rows.Next() {
		record, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		logs = append(logs, record)
	}

	return logs, rows.Err()
}

// FiredToday reports whether a log row exists for the rule/task pair on the
// given UTC day. This is the sweep's fast-path dedup check; the unique index
// in Create is the authoritative one.
func (r *LogRepository) FiredToday(ctx context.Context, ruleID, taskID, day string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM escalation_logs WHERE rule_id = ? AND task_id = ? AND fired_on = ?",
		ruleID, taskID, day,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check firing history: %w", err)
	}
	return count > 0, nil
}

// CountByStatus returns log counts grouped by status. Logs carry no
// organization id, so the scope is applied through the project join.
func (r *LogRepository) CountByStatus(ctx context.Context, organizationID string) (map[string]int, error) {
	return r.countGrouped(ctx, "status", organizationID)
}

// CountByAction returns log counts grouped by action.
func (r *LogRepository) CountByAction(ctx context.Context, organizationID string) (map[string]int, error) {
	return r.countGrouped(ctx, "action", organizationID)
}

// CountSince returns the number of logs created at or after the given time.
func (r *LogRepository) CountSince(ctx context.Context, organizationID string, since time.Time) (int, error) {
	query := "SELECT COUNT(*) FROM escalation_logs l"
	args := []any{}
	cutoff := since.UTC().Format("2006-01-02 15:04:05")
	if organizationID != "" {
		query += " JOIN projects p ON p.id = l.project_id WHERE p.organization_id = ? AND datetime(l.created_at) >= datetime(?)"
		args = append(args, organizationID, cutoff)
	} else {
		query += " WHERE datetime(l.created_at) >= datetime(?)"
		args = append(args, cutoff)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recent logs: %w", err)
	}
	return count, nil
}

func (r *LogRepository) countGrouped(ctx context.Context, column, organizationID string) (map[string]int, error) {
	query := fmt.Sprintf("SELECT l.%s, COUNT(*) FROM escalation_logs l", column)
	args := []any{}
	if organizationID != "" {
		query += " JOIN projects p ON p.id = l.project_id WHERE p.organization_id = ?"
		args = append(args, organizationID)
	}
	query += fmt.Sprintf(" GROUP BY l.%s", column)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count logs by %s: %w", column, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan log count: %w", err)
		}
		counts[key] = count
	}

	return counts, rows.Err()
}

func scanLog(row rowScanner) (*secondary.LogRecord, error) {
	var (
		notified    string
		escalatedTo sql.NullString
		failures    string
		executedAt  sql.NullTime
		createdAt   time.Time
	)

	record := &secondary.LogRecord{}
	err := row.Scan(
		&record.ID,
		&record.RuleID,
		&record.TaskID,
		&record.ProjectID,
		&record.Action,
		&record.Status,
		&notified,
		&escalatedTo,
		&failures,
		&record.FiredOn,
		&executedAt,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(notified), &record.NotifiedUsers); err != nil {
		return nil, fmt.Errorf("corrupt notified_users: %w", err)
	}
	if err := json.Unmarshal([]byte(failures), &record.FailureReasons); err != nil {
		return nil, fmt.Errorf("corrupt failure_reasons: %w", err)
	}
	record.EscalatedToUserID = escalatedTo.String
	if executedAt.Valid {
		record.ExecutedAt = executedAt.Time.Format(time.RFC3339)
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Ensure LogRepository implements the interface
var _ secondary.LogRepository = (*LogRepository)(nil)
