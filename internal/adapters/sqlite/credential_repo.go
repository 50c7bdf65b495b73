package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/taskboard/internal/ports/secondary"
)

// CredentialRepository implements secondary.CredentialRepository with SQLite.
type CredentialRepository struct {
	db *sql.DB
}

// NewCredentialRepository creates a new SQLite SMS credential repository.
func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// GetByOrganization retrieves the SMS credentials configured for an
// organization. Returns ErrNotFound when none are configured.
func (r *CredentialRepository) GetByOrganization(ctx context.Context, organizationID string) (*secondary.SMSCredentials, error) {
	creds := &secondary.SMSCredentials{}
	err := r.db.QueryRowContext(ctx,
		"SELECT account_sid, auth_token, phone_number FROM organization_sms_credentials WHERE organization_id = ?",
		organizationID,
	).Scan(&creds.AccountSID, &creds.AuthToken, &creds.PhoneNumber)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sms credentials for organization %s: %w", organizationID, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sms credentials: %w", err)
	}

	return creds, nil
}

// Ensure CredentialRepository implements the interface
var _ secondary.CredentialRepository = (*CredentialRepository)(nil)
