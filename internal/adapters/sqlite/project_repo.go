package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/taskboard/internal/ports/secondary"
)

// ProjectRepository implements secondary.ProjectRepository with SQLite.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new SQLite project repository.
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// GetByID retrieves a project by its ID.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*secondary.ProjectRecord, error) {
	var ownerID, managerID sql.NullString

	record := &secondary.ProjectRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, organization_id, name, owner_id, manager_id FROM projects WHERE id = ?", id,
	).Scan(&record.ID, &record.OrganizationID, &record.Name, &ownerID, &managerID)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	record.OwnerID = ownerID.String
	record.ManagerID = managerID.String
	return record, nil
}

// Ensure ProjectRepository implements the interface
var _ secondary.ProjectRepository = (*ProjectRepository)(nil)
