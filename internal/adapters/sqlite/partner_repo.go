package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/taskboard/internal/ports/secondary"
)

// PartnerRepository implements secondary.PartnerRepository with SQLite.
type PartnerRepository struct {
	db *sql.DB
}

// NewPartnerRepository creates a new SQLite partner repository.
func NewPartnerRepository(db *sql.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

// GetByID retrieves an external partner by its ID.
func (r *PartnerRepository) GetByID(ctx context.Context, id string) (*secondary.PartnerRecord, error) {
	var phone sql.NullString

	record := &secondary.PartnerRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, organization_id, name, phone FROM partners WHERE id = ?", id,
	).Scan(&record.ID, &record.OrganizationID, &record.Name, &phone)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("partner %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}

	record.Phone = phone.String
	return record, nil
}

// Ensure PartnerRepository implements the interface
var _ secondary.PartnerRepository = (*PartnerRepository)(nil)
