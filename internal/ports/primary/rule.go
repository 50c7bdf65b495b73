// Package primary defines the primary ports (driving interfaces) for the engine.
package primary

import "context"

// Escalation actions.
const (
	ActionNotifyOwner        = "notify_owner"
	ActionNotifyStakeholders = "notify_stakeholders"
	ActionEscalateToManager  = "escalate_to_manager"
)

// Rule statuses. Inactive rules are never evaluated.
const (
	RuleStatusActive   = "active"
	RuleStatusInactive = "inactive"
)

// DefaultRulePriority is assigned when a create request omits priority.
// Lower values are evaluated first.
const DefaultRulePriority = 100

// RuleService defines the primary port for escalation rule management.
type RuleService interface {
	// CreateRule creates a new escalation rule.
	CreateRule(ctx context.Context, req CreateRuleRequest) (*Rule, error)

	// GetRule retrieves a rule by ID.
	GetRule(ctx context.Context, ruleID string) (*Rule, error)

	// ListRules lists rules with optional filters, ordered by priority.
	ListRules(ctx context.Context, filters RuleFilters) ([]*Rule, error)

	// UpdateRule updates a rule's mutable fields.
	UpdateRule(ctx context.Context, req UpdateRuleRequest) (*Rule, error)

	// DeleteRule deletes a rule.
	DeleteRule(ctx context.Context, ruleID string) error
}

// CreateRuleRequest contains parameters for creating a rule.
type CreateRuleRequest struct {
	OrganizationID   string
	ProjectID        string // Optional: empty applies the rule to all projects
	TriggerType      string
	TriggerValue     int
	Action           string
	Priority         *int   // Optional: defaults to DefaultRulePriority
	EscalateToUserID string // Optional override for escalate_to_manager
}

// UpdateRuleRequest contains parameters for updating a rule.
// Nil fields are left unchanged.
type UpdateRuleRequest struct {
	RuleID           string
	TriggerType      *string
	TriggerValue     *int
	Action           *string
	Status           *string
	Priority         *int
	EscalateToUserID *string
}

// RuleFilters contains filter options for listing rules.
type RuleFilters struct {
	OrganizationID string
	ProjectID      string
	Status         string
	Limit          int
}

// Rule represents an escalation rule at the port boundary.
type Rule struct {
	ID               string
	OrganizationID   string
	ProjectID        string
	TriggerType      string
	TriggerValue     int
	Action           string
	Status           string
	Priority         int
	EscalateToUserID string
	CreatedAt        string
	UpdatedAt        string
}
