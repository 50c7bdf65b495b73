package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/taskboard/internal/ports/secondary"
)

// UserRepository implements secondary.UserRepository with SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by its ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*secondary.UserRecord, error) {
	var email sql.NullString

	record := &secondary.UserRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, organization_id, name, email FROM users WHERE id = ?", id,
	).Scan(&record.ID, &record.OrganizationID, &record.Name, &email)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	record.Email = email.String
	return record, nil
}

// Ensure UserRepository implements the interface
var _ secondary.UserRepository = (*UserRepository)(nil)
