package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/taskboard/internal/ports/secondary"
)

// TaskRepository implements secondary.TaskRepository with SQLite.
// The engine only reads tasks; writes belong to the wider SaaS.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new SQLite task repository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = "t.id, t.project_id, t.assignee_id, t.partner_id, t.title, t.status, t.progress, t.due_date"

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*secondary.TaskRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks t WHERE t.id = ?", id)

	record, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return record, nil
}

// ListCandidates retrieves tasks eligible for escalation evaluation: open
// status, non-null due date inside the window, optionally narrowed to one
// organization, project, or task. Organization scoping happens here, before
// any rule evaluation.
func (r *TaskRepository) ListCandidates(ctx context.Context, window secondary.CandidateWindow) ([]*secondary.TaskRecord, error) {
	query := "SELECT " + taskColumns + ` FROM tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE t.status NOT IN ('completed', 'cancelled')
		AND t.due_date IS NOT NULL
		AND t.due_date >= ? AND t.due_date <= ?`
	args := []any{window.DueFrom, window.DueTo}

	if window.OrganizationID != "" {
		query += " AND p.organization_id = ?"
		args = append(args, window.OrganizationID)
	}
	if window.ProjectID != "" {
		query += " AND t.project_id = ?"
		args = append(args, window.ProjectID)
	}
	if window.TaskID != "" {
		query += " AND t.id = ?"
		args = append(args, window.TaskID)
	}

	query += " ORDER BY t.due_date ASC, t.id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*secondary.TaskRecord
	for rows.Next() {
		record, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, record)
	}

	return tasks, rows.Err()
}

func scanTask(row rowScanner) (*secondary.TaskRecord, error) {
	var (
		assigneeID sql.NullString
		partnerID  sql.NullString
		dueDate    sql.NullTime
	)

	record := &secondary.TaskRecord{}
	err := row.Scan(
		&record.ID,
		&record.ProjectID,
		&assigneeID,
		&partnerID,
		&record.Title,
		&record.Status,
		&record.Progress,
		&dueDate,
	)
	if err != nil {
		return nil, err
	}

	record.AssigneeID = assigneeID.String
	record.PartnerID = partnerID.String
	if dueDate.Valid {
		due := dueDate.Time
		record.DueDate = &due
	}
	return record, nil
}

// Ensure TaskRepository implements the interface
var _ secondary.TaskRepository = (*TaskRepository)(nil)
