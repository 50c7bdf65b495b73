// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/taskboard/internal/ports/secondary"
)

// RuleRepository implements secondary.RuleRepository with SQLite.
type RuleRepository struct {
	db *sql.DB
}

// NewRuleRepository creates a new SQLite rule repository.
func NewRuleRepository(db *sql.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

const ruleColumns = "id, organization_id, project_id, trigger_type, trigger_value, action, status, priority, escalate_to_user_id, created_at, updated_at"

// Create persists a new rule.
func (r *RuleRepository) Create(ctx context.Context, rule *secondary.RuleRecord) error {
	var projectID, escalateTo sql.NullString
	if rule.ProjectID != "" {
		projectID = sql.NullString{String: rule.ProjectID, Valid: true}
	}
	if rule.EscalateToUserID != "" {
		escalateTo = sql.NullString{String: rule.EscalateToUserID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO escalation_rules (id, organization_id, project_id, trigger_type, trigger_value, action, status, priority, escalate_to_user_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rule.ID,
		rule.OrganizationID,
		projectID,
		rule.TriggerType,
		rule.TriggerValue,
		rule.Action,
		rule.Status,
		rule.Priority,
		escalateTo,
	)
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}

	return nil
}

// GetByID retrieves a rule by its ID.
func (r *RuleRepository) GetByID(ctx context.Context, id string) (*secondary.RuleRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+ruleColumns+" FROM escalation_rules WHERE id = ?", id)

	record, err := scanRule(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("rule %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return record, nil
}

// Update updates an existing rule's mutable fields.
func (r *RuleRepository) Update(ctx context.Context, rule *secondary.RuleRecord) error {
	var escalateTo sql.NullString
	if rule.EscalateToUserID != "" {
		escalateTo = sql.NullString{String: rule.EscalateToUserID, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE escalation_rules SET trigger_type = ?, trigger_value = ?, action = ?, status = ?, priority = ?, escalate_to_user_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		rule.TriggerType,
		rule.TriggerValue,
		rule.Action,
		rule.Status,
		rule.Priority,
		escalateTo,
		rule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("rule %s: %w", rule.ID, secondary.ErrNotFound)
	}

	return nil
}

// Delete removes a rule from persistence.
func (r *RuleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM escalation_rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("rule %s: %w", id, secondary.ErrNotFound)
	}

	return nil
}

// List retrieves rules matching the given filters, ordered by priority.
func (r *RuleRepository) List(ctx context.Context, filters secondary.RuleFilters) ([]*secondary.RuleRecord, error) {
	query := "SELECT " + ruleColumns + " FROM escalation_rules WHERE 1=1"
	args := []any{}

	if filters.OrganizationID != "" {
		query += " AND organization_id = ?"
		args = append(args, filters.OrganizationID)
	}
	if filters.ProjectID != "" {
		query += " AND project_id = ?"
		args = append(args, filters.ProjectID)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY priority ASC, id ASC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	return r.queryRules(ctx, query, args...)
}

// ListApplicable retrieves active rules that apply to a project: rules scoped
// to that project plus org-global rules, ordered by priority.
func (r *RuleRepository) ListApplicable(ctx context.Context, organizationID, projectID string) ([]*secondary.RuleRecord, error) {
	query := "SELECT " + ruleColumns + ` FROM escalation_rules
		WHERE organization_id = ? AND status = 'active' AND (project_id = ? OR project_id IS NULL)
		ORDER BY priority ASC, id ASC`

	return r.queryRules(ctx, query, organizationID, projectID)
}

// GetNextID returns the next available rule ID.
func (r *RuleRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("RULE-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM escalation_rules", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next rule ID: %w", err)
	}

	return fmt.Sprintf("RULE-%03d", maxID+1), nil
}

// CountByStatus returns total and active rule counts for an organization.
func (r *RuleRepository) CountByStatus(ctx context.Context, organizationID string) (int, int, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0) FROM escalation_rules`
	args := []any{}
	if organizationID != "" {
		query += " WHERE organization_id = ?"
		args = append(args, organizationID)
	}

	var total, active int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total, &active); err != nil {
		return 0, 0, fmt.Errorf("failed to count rules: %w", err)
	}
	return total, active, nil
}

func (r *RuleRepository) queryRules(ctx context.Context, query string, args ...any) ([]*secondary.RuleRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var rules []*secondary.RuleRecord
	for rows.Next() {
		record, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, record)
	}

	return rules, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*secondary.RuleRecord, error) {
	var (
		projectID  sql.NullString
		escalateTo sql.NullString
		createdAt  time.Time
		updatedAt  time.Time
	)

	record := &secondary.RuleRecord{}
	err := row.Scan(
		&record.ID,
		&record.OrganizationID,
		&projectID,
		&record.TriggerType,
		&record.TriggerValue,
		&record.Action,
		&record.Status,
		&record.Priority,
		&escalateTo,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.ProjectID = projectID.String
	record.EscalateToUserID = escalateTo.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

// Ensure RuleRepository implements the interface
var _ secondary.RuleRepository = (*RuleRepository)(nil)
