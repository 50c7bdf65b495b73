package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/ports/secondary"
)

type sweepFixture struct {
	service  *SweepServiceImpl
	tasks    *mockTaskRepo
	rules    *mockRuleRepo
	logs     *mockLogRepo
	projects *mockProjectRepo
	notifier *mockNotifier
}

func newSweepFixture() *sweepFixture {
	f := &sweepFixture{
		tasks:    newMockTaskRepo(),
		rules:    newMockRuleRepo(),
		logs:     newMockLogRepo(),
		projects: newMockProjectRepo(),
		notifier: newMockNotifier(),
	}
	executor := NewExecutor(f.projects, newMockPartnerRepo(), newMockCredRepo(), f.logs, f.notifier, &mockSMS{}, nil)
	executor.now = func() time.Time { return fixedNow }
	f.service = NewSweepService(f.tasks, f.rules, f.logs, f.projects, executor, nil)
	f.service.now = func() time.Time { return fixedNow }

	f.projects.projects["PROJ-001"] = &secondary.ProjectRecord{
		ID: "PROJ-001", OrganizationID: "ORG-001", Name: "Rollout",
		OwnerID: "USER-001", ManagerID: "USER-002",
	}
	return f
}

func (f *sweepFixture) addCandidate(task *secondary.TaskRecord) {
	f.tasks.tasks[task.ID] = task
	f.tasks.candidates = append(f.tasks.candidates, task)
}

func (f *sweepFixture) addRule(id, triggerType string, triggerValue int, action string) *secondary.RuleRecord {
	rule := &secondary.RuleRecord{
		ID:             id,
		OrganizationID: "ORG-001",
		TriggerType:    triggerType,
		TriggerValue:   triggerValue,
		Action:         action,
		Status:         "active",
		Priority:       100,
	}
	f.rules.add(rule)
	return rule
}

func TestSweep(t *testing.T) {
	t.Run("fires a matching rule and reports it in the summary", func(t *testing.T) {
		f := newSweepFixture()
		f.addCandidate(testTask()) // due in 3 days
		f.addRule("RULE-001", "days_before_due", 3, primary.ActionNotifyOwner)

		summary, err := f.service.Sweep(context.Background(), primary.SweepScope{})
		if err != nil {
			t.Fatalf("Sweep() error = %v", err)
		}

		if summary.TasksChecked != 1 {
			t.Errorf("TasksChecked = %d, want 1", summary.TasksChecked)
		}
		if summary.EscalationsTriggered != 1 {
			t.Errorf("EscalationsTriggered = %d, want 1", summary.EscalationsTriggered)
		}
		if len(summary.Logs) != 1 {
			t.Fatalf("len(Logs) = %d, want 1", len(summary.Logs))
		}
		log := summary.Logs[0]
		if log.RuleID != "RULE-001" || log.TaskID != "TASK-001" {
			t.Errorf("log for rule=%s task=%s, want RULE-001/TASK-001", log.RuleID, log.TaskID)
		}
		if log.Status != primary.LogStatusExecuted {
			t.Errorf("Status = %q, want %q", log.Status, primary.LogStatusExecuted)
		}
	})

	t.Run("does not fire a rule whose trigger does not match", func(t *testing.T) {
		f := newSweepFixture()
		f.addCandidate(testTask()) // due in 3 days
		f.addRule("RULE-001", "days_before_due", 1, primary.ActionNotifyOwner)

		summary, err := f.service.Sweep(context.Background(), primary.SweepScope{})
		if err != nil {
			t.Fatalf("Sweep() error = %v", err)
		}

		if summary.TasksChecked != 1 {
			t.Errorf("TasksChecked = %d, want 1", summary.TasksChecked)
		}
		if summary.EscalationsTriggered != 0 {
			t.Errorf("EscalationsTriggered = %d, want 0", summary.EscalationsTriggered)
		}
	})

	t.Run("a second sweep on the same day fires nothing", func(t *testing.T) {
		f := newSweepFixture()
		f.addCandidate(testTask())
		f.addRule("RULE-001", "days_before_due", 3, primary.ActionNotifyOwner)

		if _, err := f.service.Sweep(context.Background(), primary.SweepScope{}); err != nil {
			t.Fatalf("first Sweep() error = %v", err)
		}
		summary, err := f.service.Sweep(context.Background(), primary.SweepScope{})
		if err != nil {
			t.Fatalf("second Sweep() error = %v", err)
		}

		if summary.TasksChecked != 1 {
			t.Errorf("TasksChecked = %d, want 1", summary.TasksChecked)
		}
		if summary.EscalationsTriggered != 0 {
			t.Errorf("EscalationsTriggered = %d, want 0 on the repeated sweep", summary.EscalationsTriggered)
		}
		if len(f.notifier.sent) != 1 {
			t.Errorf("sent %d notifications across both sweeps, want 1", len(f.notifier.sent))
		}
	})

	t.Run("multiple matching rules fire in priority order", func(t *testing.T) {
		f := newSweepFixture()
		task := testTask()
		task.DueDate = dueIn(-2)
		task.Progress = 10
		f.addCandidate(task)
		f.addRule("RULE-001", "days_after_due", 1, primary.ActionEscalateToManager)
		f.addRule("RULE-002", "days_after_due", 2, primary.ActionNotifyOwner)

		summary, err := f.service.Sweep(context.Background(), primary.SweepScope{})
		if err != nil {
			t.Fatalf("Sweep() error = %v", err)
		}

		if len(summary.Logs) != 2 {
			t.Fatalf("len(Logs) = %d, want 2", len(summary.Logs))
		}
		if summary.Logs[0].RuleID != "RULE-001" || summary.Logs[1].RuleID != "RULE-002" {
			t.Errorf("rule order = [%s %s], want [RULE-001 RULE-002]",
				summary.Logs[0].RuleID, summary.Logs[1].RuleID)
		}
	})

	t.Run("rules scoped to another project are skipped", func(t *testing.T) {
		f := newSweepFixture()
		f.addCandidate(testTask())
		rule := f.addRule("RULE-001", "days_before_due", 3, primary.ActionNotifyOwner)
		rule.ProjectID = "PROJ-999"

		summary, err := f.service.Sweep(context.Background(), primary.SweepScope{})
		if err != nil {
			t.Fatalf("Sweep() error = %v", err)
		}
		if summary.EscalationsTriggered != 0 {
			t.Errorf("EscalationsTriggered = %d, want 0", summary.EscalationsTriggered)
		}
	})

	t.Run("a failed action still counts as a triggered escalation", func(t *testing.T) {
		f := newSweepFixture()
		task := testTask()
		task.AssigneeID = ""
		f.addCandidate(task)
		f.addRule("RULE-001", "days_before_due", 3, primary.ActionNotifyOwner)

		summary, err := f.service.Sweep(context.Background(), primary.SweepScope{})
		if err != nil {
			t.Fatalf("Sweep() error = %v", err)
		}

		if len(summary.Logs) != 1 {
			t.Fatalf("len(Logs) = %d, want 1", len(summary.Logs))
		}
		if summary.Logs[0].Status != primary.LogStatusFailed {
			t.Errorf("Status = %q, want %q", summary.Logs[0].Status, primary.LogStatusFailed)
		}
	})

	t.Run("a task with a broken project does not stop the sweep", func(t *testing.T) {
		f := newSweepFixture()
		orphan := testTask()
		orphan.ID = "TASK-ORPHAN"
		orphan.ProjectID = "PROJ-MISSING"
		f.addCandidate(orphan)
		f.addCandidate(testTask())
		f.addRule("RULE-001", "days_before_due", 3, primary.ActionNotifyOwner)

		summary, err := f.service.Sweep(context.Background(), primary.SweepScope{})
		if err != nil {
			t.Fatalf("Sweep() error = %v", err)
		}

		if summary.TasksChecked != 2 {
			t.Errorf("TasksChecked = %d, want 2", summary.TasksChecked)
		}
		if summary.EscalationsTriggered != 1 {
			t.Errorf("EscalationsTriggered = %d, want 1 from the healthy task", summary.EscalationsTriggered)
		}
	})

	t.Run("scoping to an unknown task returns not found", func(t *testing.T) {
		f := newSweepFixture()

		_, err := f.service.Sweep(context.Background(), primary.SweepScope{TaskID: "TASK-MISSING"})
		if !errors.Is(err, secondary.ErrNotFound) {
			t.Fatalf("Sweep() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("scoping to a project only sweeps its tasks", func(t *testing.T) {
		f := newSweepFixture()
		f.projects.projects["PROJ-002"] = &secondary.ProjectRecord{
			ID: "PROJ-002", OrganizationID: "ORG-001", OwnerID: "USER-003",
		}
		other := testTask()
		other.ID = "TASK-002"
		other.ProjectID = "PROJ-002"
		other.AssigneeID = "USER-003"
		f.addCandidate(testTask())
		f.addCandidate(other)
		f.addRule("RULE-001", "days_before_due", 3, primary.ActionNotifyOwner)

		summary, err := f.service.Sweep(context.Background(), primary.SweepScope{ProjectID: "PROJ-002"})
		if err != nil {
			t.Fatalf("Sweep() error = %v", err)
		}

		if summary.TasksChecked != 1 {
			t.Errorf("TasksChecked = %d, want 1", summary.TasksChecked)
		}
		if len(summary.Logs) != 1 || summary.Logs[0].TaskID != "TASK-002" {
			t.Errorf("Logs = %+v, want one log for TASK-002", summary.Logs)
		}
	})

	t.Run("candidate selection failure aborts the sweep", func(t *testing.T) {
		f := newSweepFixture()
		f.tasks.listErr = errBoom

		_, err := f.service.Sweep(context.Background(), primary.SweepScope{})
		if !errors.Is(err, errBoom) {
			t.Fatalf("Sweep() error = %v, want the selection failure", err)
		}
	})
}

func TestGetLog(t *testing.T) {
	f := newSweepFixture()
	f.addCandidate(testTask())
	f.addRule("RULE-001", "days_before_due", 3, primary.ActionNotifyOwner)

	summary, err := f.service.Sweep(context.Background(), primary.SweepScope{})
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	log, err := f.service.GetLog(context.Background(), summary.Logs[0].ID)
	if err != nil {
		t.Fatalf("GetLog() error = %v", err)
	}
	if log.RuleID != "RULE-001" {
		t.Errorf("RuleID = %q, want RULE-001", log.RuleID)
	}

	if _, err := f.service.GetLog(context.Background(), "nope"); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("GetLog(nope) error = %v, want ErrNotFound", err)
	}
}

func TestListLogs(t *testing.T) {
	f := newSweepFixture()
	f.addCandidate(testTask())
	f.addRule("RULE-001", "days_before_due", 3, primary.ActionNotifyOwner)

	if _, err := f.service.Sweep(context.Background(), primary.SweepScope{}); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	logs, err := f.service.ListLogs(context.Background(), primary.LogFilters{TaskID: "TASK-001"})
	if err != nil {
		t.Fatalf("ListLogs() error = %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("len(logs) = %d, want 1", len(logs))
	}

	logs, err = f.service.ListLogs(context.Background(), primary.LogFilters{TaskID: "TASK-OTHER"})
	if err != nil {
		t.Fatalf("ListLogs() error = %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("len(logs) = %d, want 0", len(logs))
	}
}
