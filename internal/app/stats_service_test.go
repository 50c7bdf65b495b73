package app

import (
	"context"
	"testing"
	"time"

	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/ports/secondary"
)

func TestStatistics(t *testing.T) {
	rules := newMockRuleRepo()
	logs := newMockLogRepo()
	service := NewStatsService(rules, logs)
	service.now = func() time.Time { return fixedNow }

	rules.add(&secondary.RuleRecord{ID: "RULE-001", OrganizationID: "ORG-001", Status: "active"})
	rules.add(&secondary.RuleRecord{ID: "RULE-002", OrganizationID: "ORG-001", Status: "active"})
	rules.add(&secondary.RuleRecord{ID: "RULE-003", OrganizationID: "ORG-001", Status: "inactive"})

	seed := []struct {
		id, status, action string
	}{
		{"L1", primary.LogStatusExecuted, primary.ActionNotifyOwner},
		{"L2", primary.LogStatusExecuted, primary.ActionNotifyOwner},
		{"L3", primary.LogStatusExecuted, primary.ActionEscalateToManager},
		{"L4", primary.LogStatusFailed, primary.ActionNotifyStakeholders},
		{"L5", primary.LogStatusFailed, primary.ActionNotifyOwner},
	}
	for i, s := range seed {
		err := logs.Create(context.Background(), &secondary.LogRecord{
			ID:      s.id,
			RuleID:  "RULE-001",
			TaskID:  string(rune('A' + i)),
			Action:  s.action,
			Status:  s.status,
			FiredOn: "2026-03-10",
		})
		if err != nil {
			t.Fatalf("seed log %s: %v", s.id, err)
		}
	}

	stats, err := service.Statistics(context.Background(), "ORG-001")
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}

	if stats.TotalRules != 3 {
		t.Errorf("TotalRules = %d, want 3", stats.TotalRules)
	}
	if stats.ActiveRules != 2 {
		t.Errorf("ActiveRules = %d, want 2", stats.ActiveRules)
	}
	if got := stats.LogsByStatus[primary.LogStatusExecuted]; got != 3 {
		t.Errorf("LogsByStatus[executed] = %d, want 3", got)
	}
	if got := stats.LogsByStatus[primary.LogStatusFailed]; got != 2 {
		t.Errorf("LogsByStatus[failed] = %d, want 2", got)
	}
	if got := stats.LogsByAction[primary.ActionNotifyOwner]; got != 3 {
		t.Errorf("LogsByAction[notify_owner] = %d, want 3", got)
	}
	if stats.RecentEscalations != 5 {
		t.Errorf("RecentEscalations = %d, want 5", stats.RecentEscalations)
	}
}
