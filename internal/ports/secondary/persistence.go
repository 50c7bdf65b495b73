// Package secondary defines the secondary ports (driven adapters) for the engine.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when a requested row does not exist.
// Callers use errors.Is to distinguish missing rows from query failures.
var ErrNotFound = errors.New("not found")

// ErrDuplicateFiring is returned by LogRepository.Create when a log row for the
// same (rule, task, day) already exists. The sweep treats this as a dedup skip,
// not a failure; it closes the race between overlapping sweeps.
var ErrDuplicateFiring = errors.New("duplicate firing")

// RuleRepository defines the secondary port for escalation rule persistence.
type RuleRepository interface {
	// Create persists a new rule.
	Create(ctx context.Context, rule *RuleRecord) error

	// GetByID retrieves a rule by its ID.
	GetByID(ctx context.Context, id string) (*RuleRecord, error)

	// Update updates an existing rule's mutable fields.
	Update(ctx context.Context, rule *RuleRecord) error

	// Delete removes a rule from persistence.
	Delete(ctx context.Context, id string) error

	// List retrieves rules matching the given filters, ordered by priority.
	List(ctx context.Context, filters RuleFilters) ([]*RuleRecord, error)

	// ListApplicable retrieves active rules that apply to a project: rules
	// scoped to that project plus org-global rules, ordered by priority.
	ListApplicable(ctx context.Context, organizationID, projectID string) ([]*RuleRecord, error)

	// GetNextID returns the next available rule ID.
	GetNextID(ctx context.Context) (string, error)

	// CountByStatus returns total and active rule counts for an organization.
	CountByStatus(ctx context.Context, organizationID string) (total, active int, err error)
}

// RuleRecord represents an escalation rule as stored in persistence.
type RuleRecord struct {
	ID               string
	OrganizationID   string
	ProjectID        string // Empty = applies to all projects in the organization
	TriggerType      string
	TriggerValue     int
	Action           string
	Status           string
	Priority         int
	EscalateToUserID string // Optional override for escalate_to_manager
	CreatedAt        string
	UpdatedAt        string
}

// RuleFilters contains filter options for querying rules.
type RuleFilters struct {
	OrganizationID string
	ProjectID      string
	Status         string
	Limit          int
}

// LogRepository defines the secondary port for escalation log persistence.
type LogRepository interface {
	// Create persists a new pending log row. Returns ErrDuplicateFiring when a
	// row for the same (rule, task, fired_on) already exists.
	Create(ctx context.Context, log *LogRecord) error

	// Update rewrites the mutable fields of a log row (status, notified users,
	// escalation target, failure reasons, executed_at).
	Update(ctx context.Context, log *LogRecord) error

	// GetByID retrieves a log by its ID.
	GetByID(ctx context.Context, id string) (*LogRecord, error)

	// List retrieves logs matching the given filters, newest first.
	List(ctx context.Context, filters LogFilters) ([]*LogRecord, error)

	// FiredToday reports whether a log row exists for the rule/task pair on
	// the given UTC day (formatted yyyy-mm-dd).
	FiredToday(ctx context.Context, ruleID, taskID, day string) (bool, error)

	// CountByStatus returns log counts grouped by status, org-scoped through
	// the project join when organizationID is non-empty.
	CountByStatus(ctx context.Context, organizationID string) (map[string]int, error)

	// CountByAction returns log counts grouped by action.
	CountByAction(ctx context.Context, organizationID string) (map[string]int, error)

	// CountSince returns the number of logs created at or after the given time.
	CountSince(ctx context.Context, organizationID string, since time.Time) (int, error)
}

// LogRecord represents one escalation firing attempt as stored in persistence.
type LogRecord struct {
	ID                string
	RuleID            string
	TaskID            string
	ProjectID         string
	Action            string
	Status            string
	NotifiedUsers     []string // Ordered; who received a primary notification
	EscalatedToUserID string   // Set only for escalate_to_manager
	FailureReasons    []string // Ordered; primary failure first, side-effects appended
	FiredOn           string   // UTC day bucket, yyyy-mm-dd
	ExecutedAt        string   // Set only on transition to executed
	CreatedAt         string
}

// LogFilters contains filter options for querying logs.
type LogFilters struct {
	ProjectID string
	TaskID    string
	RuleID    string
	Action    string
	Status    string
	From      string // Inclusive created_at lower bound, RFC3339
	To        string // Inclusive created_at upper bound, RFC3339
	Limit     int
	Offset    int
}

// TaskRepository defines the read-only secondary port for task lookup.
// Tasks are owned by the wider SaaS; the engine never writes them.
type TaskRepository interface {
	// GetByID retrieves a task by its ID.
	GetByID(ctx context.Context, id string) (*TaskRecord, error)

	// ListCandidates retrieves tasks eligible for escalation evaluation:
	// open status, non-null due date inside the window, optionally scoped.
	ListCandidates(ctx context.Context, window CandidateWindow) ([]*TaskRecord, error)
}

// TaskRecord represents a task as read from persistence.
type TaskRecord struct {
	ID         string
	ProjectID  string
	AssigneeID string
	PartnerID  string
	Title      string
	Status     string
	Progress   int
	DueDate    *time.Time
}

// CandidateWindow bounds the candidate task query for a sweep.
type CandidateWindow struct {
	OrganizationID string
	ProjectID      string
	TaskID         string
	DueFrom        time.Time
	DueTo          time.Time
}

// ProjectRepository defines the read-only secondary port for project lookup.
type ProjectRepository interface {
	// GetByID retrieves a project by its ID.
	GetByID(ctx context.Context, id string) (*ProjectRecord, error)
}

// ProjectRecord represents a project as read from persistence.
type ProjectRecord struct {
	ID             string
	OrganizationID string
	Name           string
	OwnerID        string
	ManagerID      string
}

// UserRepository defines the read-only secondary port for user lookup.
type UserRepository interface {
	// GetByID retrieves a user by its ID.
	GetByID(ctx context.Context, id string) (*UserRecord, error)
}

// UserRecord represents a user as read from persistence.
type UserRecord struct {
	ID             string
	OrganizationID string
	Name           string
	Email          string
}

// PartnerRepository defines the read-only secondary port for partner lookup.
type PartnerRepository interface {
	// GetByID retrieves an external partner by its ID.
	GetByID(ctx context.Context, id string) (*PartnerRecord, error)
}

// PartnerRecord represents an external partner as read from persistence.
type PartnerRecord struct {
	ID             string
	OrganizationID string
	Name           string
	Phone          string
}

// CredentialRepository defines the secondary port for per-organization
// SMS provider credential lookup.
type CredentialRepository interface {
	// GetByOrganization retrieves the SMS credentials configured for an
	// organization. Returns ErrNotFound when none are configured.
	GetByOrganization(ctx context.Context, organizationID string) (*SMSCredentials, error)
}

// SMSCredentials holds Twilio-style provider credentials for one organization.
type SMSCredentials struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

// Complete reports whether every credential field is present. Partial
// credentials are treated the same as absent ones: the SMS step is skipped.
func (c *SMSCredentials) Complete() bool {
	return c != nil && c.AccountSID != "" && c.AuthToken != "" && c.PhoneNumber != ""
}
