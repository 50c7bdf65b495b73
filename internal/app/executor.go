// Package app contains the service implementations behind the primary ports.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/taskboard/internal/core/trigger"
	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/ports/secondary"
)

// Executor runs the action of a fired rule against one task and records the
// attempt as exactly one escalation log row. Dispatch failures are captured
// on the log, never returned: the sweep must keep going.
type Executor struct {
	projectRepo secondary.ProjectRepository
	partnerRepo secondary.PartnerRepository
	credRepo    secondary.CredentialRepository
	logRepo     secondary.LogRepository
	notifier    secondary.Notifier
	sms         secondary.SMSSender
	logger      *zap.SugaredLogger
	now         func() time.Time
}

// NewExecutor creates an executor with injected collaborators.
func NewExecutor(
	projectRepo secondary.ProjectRepository,
	partnerRepo secondary.PartnerRepository,
	credRepo secondary.CredentialRepository,
	logRepo secondary.LogRepository,
	notifier secondary.Notifier,
	sms secondary.SMSSender,
	logger *zap.SugaredLogger,
) *Executor {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Executor{
		projectRepo: projectRepo,
		partnerRepo: partnerRepo,
		credRepo:    credRepo,
		logRepo:     logRepo,
		notifier:    notifier,
		sms:         sms,
		logger:      logger,
		now:         time.Now,
	}
}

// Execute fires a rule for a task. It creates a pending log row (the
// conflict-tolerant insert doubles as the dedup backstop), dispatches the
// action, finalizes the row to executed or failed, and then attempts the
// partner SMS side-channel inside its own error boundary.
//
// The returned error is non-nil only for storage failures or a duplicate
// firing (secondary.ErrDuplicateFiring), never for action failures.
func (e *Executor) Execute(ctx context.Context, rule *secondary.RuleRecord, task *secondary.TaskRecord) (*secondary.LogRecord, error) {
	log := &secondary.LogRecord{
		ID:        uuid.NewString(),
		RuleID:    rule.ID,
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
		Action:    rule.Action,
		Status:    primary.LogStatusPending,
		FiredOn:   e.now().UTC().Format("2006-01-02"),
	}

	if err := e.logRepo.Create(ctx, log); err != nil {
		if errors.Is(err, secondary.ErrDuplicateFiring) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to record firing: %w", err)
	}

	notified, escalatedTo, dispatchErr := e.dispatch(ctx, rule, task)
	log.NotifiedUsers = notified
	log.EscalatedToUserID = escalatedTo
	if dispatchErr != nil {
		log.Status = primary.LogStatusFailed
		log.FailureReasons = append(log.FailureReasons, dispatchErr.Error())
		e.logger.Warnw("escalation action failed",
			"rule", rule.ID, "task", task.ID, "action", rule.Action, "error", dispatchErr)
	} else {
		log.Status = primary.LogStatusExecuted
		log.ExecutedAt = e.now().UTC().Format(time.RFC3339)
	}

	if err := e.logRepo.Update(ctx, log); err != nil {
		return log, fmt.Errorf("failed to finalize log %s: %w", log.ID, err)
	}

	e.attemptPartnerSMS(ctx, task, log)

	return log, nil
}

// dispatch runs the rule's action and returns the users notified so far, the
// escalation target (escalate_to_manager only), and the dispatch error.
func (e *Executor) dispatch(ctx context.Context, rule *secondary.RuleRecord, task *secondary.TaskRecord) ([]string, string, error) {
	switch rule.Action {
	case primary.ActionNotifyOwner:
		return e.notifyOwner(ctx, rule, task)
	case primary.ActionNotifyStakeholders:
		return e.notifyStakeholders(ctx, rule, task)
	case primary.ActionEscalateToManager:
		return e.escalateToManager(ctx, rule, task)
	default:
		return nil, "", fmt.Errorf("unknown action %q", rule.Action)
	}
}

func (e *Executor) notifyOwner(ctx context.Context, rule *secondary.RuleRecord, task *secondary.TaskRecord) ([]string, string, error) {
	if task.AssigneeID == "" {
		return nil, "", errors.New("task has no assignee")
	}

	n := secondary.Notification{
		UserID:  task.AssigneeID,
		Title:   fmt.Sprintf("Task escalation: %s", task.Title),
		Message: fmt.Sprintf("Your task %q %s.", task.Title, e.duePhrase(task)),
		Channel: secondary.ChannelInApp,
	}
	if err := e.notifier.Send(ctx, n); err != nil {
		return nil, "", fmt.Errorf("failed to notify assignee: %w", err)
	}

	return []string{task.AssigneeID}, "", nil
}

func (e *Executor) notifyStakeholders(ctx context.Context, rule *secondary.RuleRecord, task *secondary.TaskRecord) ([]string, string, error) {
	if task.ProjectID == "" {
		return nil, "", errors.New("task has no project")
	}

	project, err := e.projectRepo.GetByID(ctx, task.ProjectID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load project: %w", err)
	}

	// Owner first, then manager, deduplicated by identity: a project where
	// one person holds both roles gets exactly one notification.
	recipients := []string{}
	if project.OwnerID != "" {
		recipients = append(recipients, project.OwnerID)
	}
	if project.ManagerID != "" && project.ManagerID != project.OwnerID {
		recipients = append(recipients, project.ManagerID)
	}

	notified := []string{}
	for _, userID := range recipients {
		n := secondary.Notification{
			UserID:  userID,
			Title:   fmt.Sprintf("Task escalation: %s", task.Title),
			Message: fmt.Sprintf("Task %q in project %q %s.", task.Title, project.Name, e.duePhrase(task)),
			Channel: secondary.ChannelInApp,
		}
		if err := e.notifier.Send(ctx, n); err != nil {
			return notified, "", fmt.Errorf("failed to notify stakeholder %s: %w", userID, err)
		}
		notified = append(notified, userID)
	}

	// A project with neither owner nor manager still counts as executed.
	return notified, "", nil
}

func (e *Executor) escalateToManager(ctx context.Context, rule *secondary.RuleRecord, task *secondary.TaskRecord) ([]string, string, error) {
	target := rule.EscalateToUserID
	if target == "" && task.ProjectID != "" {
		project, err := e.projectRepo.GetByID(ctx, task.ProjectID)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load project: %w", err)
		}
		if project.ManagerID != "" {
			target = project.ManagerID
		} else {
			target = project.OwnerID
		}
	}
	if target == "" {
		return nil, "", errors.New("no manager found")
	}

	n := secondary.Notification{
		UserID:  target,
		Title:   fmt.Sprintf("Escalation: %s", task.Title),
		Message: fmt.Sprintf("Task %q %s and requires your attention.", task.Title, e.duePhrase(task)),
		Channel: secondary.ChannelUrgent,
		Metadata: map[string]string{
			"ruleId":   rule.ID,
			"severity": "high",
		},
	}
	if err := e.notifier.Send(ctx, n); err != nil {
		return nil, "", fmt.Errorf("failed to notify manager: %w", err)
	}

	return []string{target}, target, nil
}

// attemptPartnerSMS sends a one-line urgent SMS to the task's external
// partner when the task is overdue and the organization has complete SMS
// credentials. Every failure stays inside this boundary: a send error is
// appended to the log's failure reasons without touching its status, and
// missing partner/phone/credentials silently skip the step.
func (e *Executor) attemptPartnerSMS(ctx context.Context, task *secondary.TaskRecord, log *secondary.LogRecord) {
	if task.PartnerID == "" || task.ProjectID == "" || task.DueDate == nil {
		return
	}
	overdue := -trigger.DaysUntilDue(*task.DueDate, e.now())
	if overdue <= 0 {
		return
	}

	partner, err := e.partnerRepo.GetByID(ctx, task.PartnerID)
	if err != nil {
		if !errors.Is(err, secondary.ErrNotFound) {
			e.logger.Warnw("partner lookup failed, skipping sms", "task", task.ID, "error", err)
		}
		return
	}
	if partner.Phone == "" {
		return
	}

	project, err := e.projectRepo.GetByID(ctx, task.ProjectID)
	if err != nil {
		e.logger.Warnw("project lookup failed, skipping sms", "task", task.ID, "error", err)
		return
	}

	creds, err := e.credRepo.GetByOrganization(ctx, project.OrganizationID)
	if err != nil {
		if !errors.Is(err, secondary.ErrNotFound) {
			e.logger.Warnw("credential lookup failed, skipping sms", "organization", project.OrganizationID, "error", err)
		}
		return
	}
	if !creds.Complete() {
		return
	}

	message := fmt.Sprintf("URGENT: task %q is %d day(s) overdue. Please respond.", task.Title, overdue)
	if err := e.sms.Send(ctx, *creds, partner.Phone, message); err != nil {
		log.FailureReasons = append(log.FailureReasons, fmt.Sprintf("partner sms failed: %v", err))
		if updateErr := e.logRepo.Update(ctx, log); updateErr != nil {
			e.logger.Errorw("failed to record sms failure", "log", log.ID, "error", updateErr)
		}
		e.logger.Warnw("partner sms failed", "task", task.ID, "partner", partner.ID, "error", err)
	}
}

// duePhrase renders the task's due-date distance for notification text.
func (e *Executor) duePhrase(task *secondary.TaskRecord) string {
	if task.DueDate == nil {
		return "has no due date"
	}
	daysDiff := trigger.DaysUntilDue(*task.DueDate, e.now())
	switch {
	case daysDiff > 0:
		return fmt.Sprintf("is due in %d day(s)", daysDiff)
	case daysDiff == 0:
		return "is due today"
	default:
		return fmt.Sprintf("is %d day(s) overdue", -daysDiff)
	}
}
