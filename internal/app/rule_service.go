package app

import (
	"context"
	"fmt"

	"github.com/example/taskboard/internal/core/trigger"
	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/ports/secondary"
)

// RuleServiceImpl implements the RuleService interface.
type RuleServiceImpl struct {
	ruleRepo secondary.RuleRepository
}

// NewRuleService creates a new RuleService with injected dependencies.
func NewRuleService(ruleRepo secondary.RuleRepository) *RuleServiceImpl {
	return &RuleServiceImpl{ruleRepo: ruleRepo}
}

// CreateRule creates a new escalation rule.
func (s *RuleServiceImpl) CreateRule(ctx context.Context, req primary.CreateRuleRequest) (*primary.Rule, error) {
	if req.OrganizationID == "" {
		return nil, fmt.Errorf("organization id is required")
	}
	if err := validateTrigger(req.TriggerType, req.TriggerValue); err != nil {
		return nil, err
	}
	if err := validateAction(req.Action); err != nil {
		return nil, err
	}

	priority := primary.DefaultRulePriority
	if req.Priority != nil {
		if *req.Priority < 0 {
			return nil, fmt.Errorf("priority must not be negative")
		}
		priority = *req.Priority
	}

	nextID, err := s.ruleRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate rule ID: %w", err)
	}

	record := &secondary.RuleRecord{
		ID:               nextID,
		OrganizationID:   req.OrganizationID,
		ProjectID:        req.ProjectID,
		TriggerType:      req.TriggerType,
		TriggerValue:     req.TriggerValue,
		Action:           req.Action,
		Status:           primary.RuleStatusActive,
		Priority:         priority,
		EscalateToUserID: req.EscalateToUserID,
	}

	if err := s.ruleRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}

	created, err := s.ruleRepo.GetByID(ctx, nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created rule: %w", err)
	}

	return recordToRule(created), nil
}

// GetRule retrieves a rule by ID.
func (s *RuleServiceImpl) GetRule(ctx context.Context, ruleID string) (*primary.Rule, error) {
	record, err := s.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	return recordToRule(record), nil
}

// ListRules lists rules with optional filters, ordered by priority.
func (s *RuleServiceImpl) ListRules(ctx context.Context, filters primary.RuleFilters) ([]*primary.Rule, error) {
	records, err := s.ruleRepo.List(ctx, secondary.RuleFilters{
		OrganizationID: filters.OrganizationID,
		ProjectID:      filters.ProjectID,
		Status:         filters.Status,
		Limit:          filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}

	rules := make([]*primary.Rule, len(records))
	for i, r := range records {
		rules[i] = recordToRule(r)
	}
	return rules, nil
}

// UpdateRule updates a rule's mutable fields. The organization and project
// scope of an existing rule is immutable; retarget by recreating.
func (s *RuleServiceImpl) UpdateRule(ctx context.Context, req primary.UpdateRuleRequest) (*primary.Rule, error) {
	record, err := s.ruleRepo.GetByID(ctx, req.RuleID)
	if err != nil {
		return nil, err
	}

	if req.TriggerType != nil {
		record.TriggerType = *req.TriggerType
	}
	if req.TriggerValue != nil {
		record.TriggerValue = *req.TriggerValue
	}
	if err := validateTrigger(record.TriggerType, record.TriggerValue); err != nil {
		return nil, err
	}

	if req.Action != nil {
		if err := validateAction(*req.Action); err != nil {
			return nil, err
		}
		record.Action = *req.Action
	}
	if req.Status != nil {
		if *req.Status != primary.RuleStatusActive && *req.Status != primary.RuleStatusInactive {
			return nil, fmt.Errorf("invalid status %q", *req.Status)
		}
		record.Status = *req.Status
	}
	if req.Priority != nil {
		if *req.Priority < 0 {
			return nil, fmt.Errorf("priority must not be negative")
		}
		record.Priority = *req.Priority
	}
	if req.EscalateToUserID != nil {
		record.EscalateToUserID = *req.EscalateToUserID
	}

	if err := s.ruleRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update rule: %w", err)
	}

	updated, err := s.ruleRepo.GetByID(ctx, req.RuleID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated rule: %w", err)
	}
	return recordToRule(updated), nil
}

// DeleteRule deletes a rule.
func (s *RuleServiceImpl) DeleteRule(ctx context.Context, ruleID string) error {
	return s.ruleRepo.Delete(ctx, ruleID)
}

func validateTrigger(triggerType string, triggerValue int) error {
	if !trigger.IsValidType(triggerType) {
		return fmt.Errorf("invalid trigger type %q", triggerType)
	}
	if triggerValue < 1 {
		return fmt.Errorf("trigger value must be at least 1")
	}
	return nil
}

func validateAction(action string) error {
	switch action {
	case primary.ActionNotifyOwner, primary.ActionNotifyStakeholders, primary.ActionEscalateToManager:
		return nil
	default:
		return fmt.Errorf("invalid action %q", action)
	}
}

func recordToRule(r *secondary.RuleRecord) *primary.Rule {
	return &primary.Rule{
		ID:               r.ID,
		OrganizationID:   r.OrganizationID,
		ProjectID:        r.ProjectID,
		TriggerType:      r.TriggerType,
		TriggerValue:     r.TriggerValue,
		Action:           r.Action,
		Status:           r.Status,
		Priority:         r.Priority,
		EscalateToUserID: r.EscalateToUserID,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// Ensure RuleServiceImpl implements the interface
var _ primary.RuleService = (*RuleServiceImpl)(nil)
