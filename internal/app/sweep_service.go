package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/taskboard/internal/core/trigger"
	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/ports/secondary"
)

// Candidate window bounds, chosen to cover every supported trigger type: the
// most lagging trigger is far-overdue, the most leading is near-future due.
// The window is fixed rather than derived from configured trigger values; a
// rule with a trigger value beyond it is never reached by the sweep.
const (
	windowPastDays   = 30
	windowFutureDays = 7
)

// SweepServiceImpl implements the EscalationService interface.
type SweepServiceImpl struct {
	taskRepo secondary.TaskRepository
	ruleRepo secondary.RuleRepository
	logRepo  secondary.LogRepository
	projects secondary.ProjectRepository
	executor *Executor
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// NewSweepService creates a new EscalationService with injected dependencies.
func NewSweepService(
	taskRepo secondary.TaskRepository,
	ruleRepo secondary.RuleRepository,
	logRepo secondary.LogRepository,
	projects secondary.ProjectRepository,
	executor *Executor,
	logger *zap.SugaredLogger,
) *SweepServiceImpl {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SweepServiceImpl{
		taskRepo: taskRepo,
		ruleRepo: ruleRepo,
		logRepo:  logRepo,
		projects: projects,
		executor: executor,
		logger:   logger,
		now:      time.Now,
	}
}

// Sweep evaluates escalation rules against candidate tasks. Tasks are
// processed sequentially in selection order, rules in priority order, so the
// logs of one sweep are deterministic. Nothing stops two sweeps from
// overlapping; the log repository's unique day-bucket insert keeps an overlap
// from double-firing a rule/task pair.
func (s *SweepServiceImpl) Sweep(ctx context.Context, scope primary.SweepScope) (*primary.SweepSummary, error) {
	now := s.now()
	today := now.UTC().Format("2006-01-02")

	window := secondary.CandidateWindow{
		OrganizationID: scope.OrganizationID,
		ProjectID:      scope.ProjectID,
		TaskID:         scope.TaskID,
		DueFrom:        now.AddDate(0, 0, -windowPastDays),
		DueTo:          now.AddDate(0, 0, windowFutureDays),
	}

	// If the sweep was asked for one specific task, make sure it exists so
	// the caller gets a typed not-found instead of an empty summary.
	if scope.TaskID != "" {
		if _, err := s.taskRepo.GetByID(ctx, scope.TaskID); err != nil {
			return nil, err
		}
	}

	tasks, err := s.taskRepo.ListCandidates(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to select candidate tasks: %w", err)
	}

	summary := &primary.SweepSummary{Logs: []*primary.EscalationLog{}}
	for _, task := range tasks {
		summary.TasksChecked++

		logs, err := s.sweepTask(ctx, task, today, now)
		if err != nil {
			// A broken task never takes down the sweep; the next hourly
			// run retries it.
			s.logger.Errorw("task sweep failed", "task", task.ID, "error", err)
			continue
		}
		for _, log := range logs {
			summary.EscalationsTriggered++
			summary.Logs = append(summary.Logs, recordToLog(log))
		}
	}

	s.logger.Infow("sweep complete",
		"tasksChecked", summary.TasksChecked,
		"escalationsTriggered", summary.EscalationsTriggered)

	return summary, nil
}

// sweepTask runs every applicable rule against one task and returns the log
// rows produced.
func (s *SweepServiceImpl) sweepTask(ctx context.Context, task *secondary.TaskRecord, today string, now time.Time) ([]*secondary.LogRecord, error) {
	if task.DueDate == nil {
		return nil, nil
	}

	project, err := s.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project: %w", err)
	}

	rules, err := s.ruleRepo.ListApplicable(ctx, project.OrganizationID, task.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rules: %w", err)
	}

	daysDiff := trigger.DaysUntilDue(*task.DueDate, now)

	var logs []*secondary.LogRecord
	for _, rule := range rules {
		if !trigger.Fires(rule.TriggerType, rule.TriggerValue, daysDiff, task.Progress) {
			continue
		}

		fired, err := s.logRepo.FiredToday(ctx, rule.ID, task.ID, today)
		if err != nil {
			s.logger.Errorw("dedup check failed", "rule", rule.ID, "task", task.ID, "error", err)
			continue
		}
		if fired {
			continue
		}

		log, err := s.executor.Execute(ctx, rule, task)
		if err != nil {
			if errors.Is(err, secondary.ErrDuplicateFiring) {
				// A concurrent sweep won the insert; that firing is theirs.
				continue
			}
			s.logger.Errorw("execution failed", "rule", rule.ID, "task", task.ID, "error", err)
			continue
		}
		logs = append(logs, log)
	}

	return logs, nil
}

// GetLog retrieves a single escalation log by ID.
func (s *SweepServiceImpl) GetLog(ctx context.Context, logID string) (*primary.EscalationLog, error) {
	record, err := s.logRepo.GetByID(ctx, logID)
	if err != nil {
		return nil, err
	}
	return recordToLog(record), nil
}

// ListLogs lists escalation logs with optional filters, newest first.
func (s *SweepServiceImpl) ListLogs(ctx context.Context, filters primary.LogFilters) ([]*primary.EscalationLog, error) {
	records, err := s.logRepo.List(ctx, secondary.LogFilters{
		ProjectID: filters.ProjectID,
		TaskID:    filters.TaskID,
		RuleID:    filters.RuleID,
		Action:    filters.Action,
		Status:    filters.Status,
		From:      filters.From,
		To:        filters.To,
		Limit:     filters.Limit,
		Offset:    filters.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	logs := make([]*primary.EscalationLog, len(records))
	for i, r := range records {
		logs[i] = recordToLog(r)
	}
	return logs, nil
}

func recordToLog(r *secondary.LogRecord) *primary.EscalationLog {
	return &primary.EscalationLog{
		ID:                r.ID,
		RuleID:            r.RuleID,
		TaskID:            r.TaskID,
		ProjectID:         r.ProjectID,
		Action:            r.Action,
		Status:            r.Status,
		NotifiedUsers:     r.NotifiedUsers,
		EscalatedToUserID: r.EscalatedToUserID,
		FailureReasons:    r.FailureReasons,
		FiredOn:           r.FiredOn,
		ExecutedAt:        r.ExecutedAt,
		CreatedAt:         r.CreatedAt,
	}
}

// Ensure SweepServiceImpl implements the interface
var _ primary.EscalationService = (*SweepServiceImpl)(nil)
