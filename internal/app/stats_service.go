package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/ports/secondary"
)

// recentWindow is the rolling window behind the "recent escalations" count.
const recentWindow = 24 * time.Hour

// StatsServiceImpl implements the StatsService interface.
type StatsServiceImpl struct {
	ruleRepo secondary.RuleRepository
	logRepo  secondary.LogRepository
	now      func() time.Time
}

// NewStatsService creates a new StatsService with injected dependencies.
func NewStatsService(ruleRepo secondary.RuleRepository, logRepo secondary.LogRepository) *StatsServiceImpl {
	return &StatsServiceImpl{
		ruleRepo: ruleRepo,
		logRepo:  logRepo,
		now:      time.Now,
	}
}

// Statistics aggregates rule and log counts for dashboards. Logs carry no
// organization id of their own, so the scope goes through each log's project.
func (s *StatsServiceImpl) Statistics(ctx context.Context, organizationID string) (*primary.Statistics, error) {
	total, active, err := s.ruleRepo.CountByStatus(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to count rules: %w", err)
	}

	byStatus, err := s.logRepo.CountByStatus(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to count logs by status: %w", err)
	}

	byAction, err := s.logRepo.CountByAction(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to count logs by action: %w", err)
	}

	recent, err := s.logRepo.CountSince(ctx, organizationID, s.now().Add(-recentWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to count recent logs: %w", err)
	}

	return &primary.Statistics{
		TotalRules:        total,
		ActiveRules:       active,
		LogsByStatus:      byStatus,
		LogsByAction:      byAction,
		RecentEscalations: recent,
	}, nil
}

// Ensure StatsServiceImpl implements the interface
var _ primary.StatsService = (*StatsServiceImpl)(nil)
