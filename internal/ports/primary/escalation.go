package primary

import "context"

// Log statuses. A log row is terminal (executed or failed) by the time a
// sweep returns it; pending only exists inside a single execution.
const (
	LogStatusPending  = "pending"
	LogStatusExecuted = "executed"
	LogStatusFailed   = "failed"
)

// EscalationService defines the primary port for running sweeps and reading
// the escalation history.
type EscalationService interface {
	// Sweep evaluates escalation rules against candidate tasks and executes
	// the actions of every rule that fires. Scope fields narrow the sweep;
	// an empty scope covers the whole accessible tenant range.
	Sweep(ctx context.Context, scope SweepScope) (*SweepSummary, error)

	// GetLog retrieves a single escalation log by ID.
	GetLog(ctx context.Context, logID string) (*EscalationLog, error)

	// ListLogs lists escalation logs with optional filters, newest first.
	ListLogs(ctx context.Context, filters LogFilters) ([]*EscalationLog, error)
}

// SweepScope narrows a sweep to one organization, project, or task.
type SweepScope struct {
	OrganizationID string
	ProjectID      string
	TaskID         string
}

// SweepSummary aggregates the outcome of one sweep.
type SweepSummary struct {
	TasksChecked         int
	EscalationsTriggered int
	Logs                 []*EscalationLog
}

// LogFilters contains filter options for listing escalation logs.
type LogFilters struct {
	ProjectID string
	TaskID    string
	RuleID    string
	Action    string
	Status    string
	From      string
	To        string
	Limit     int
	Offset    int
}

// EscalationLog represents one firing attempt at the port boundary.
type EscalationLog struct {
	ID                string
	RuleID            string
	TaskID            string
	ProjectID         string
	Action            string
	Status            string
	NotifiedUsers     []string
	EscalatedToUserID string
	FailureReasons    []string
	FiredOn           string
	ExecutedAt        string
	CreatedAt         string
}
