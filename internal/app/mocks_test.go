package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/taskboard/internal/ports/secondary"
)

// Shared in-memory fakes for service tests. Each fake mimics the adapter
// contract closely enough to exercise the services' error paths, including
// the log repository's unique (rule, task, day) insert.

type mockProjectRepo struct {
	projects map[string]*secondary.ProjectRecord
	err      error
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{projects: make(map[string]*secondary.ProjectRecord)}
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id string) (*secondary.ProjectRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.projects[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("project %s: %w", id, secondary.ErrNotFound)
}

type mockPartnerRepo struct {
	partners map[string]*secondary.PartnerRecord
}

func newMockPartnerRepo() *mockPartnerRepo {
	return &mockPartnerRepo{partners: make(map[string]*secondary.PartnerRecord)}
}

func (m *mockPartnerRepo) GetByID(ctx context.Context, id string) (*secondary.PartnerRecord, error) {
	if p, ok := m.partners[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("partner %s: %w", id, secondary.ErrNotFound)
}

type mockCredRepo struct {
	creds map[string]*secondary.SMSCredentials
}

func newMockCredRepo() *mockCredRepo {
	return &mockCredRepo{creds: make(map[string]*secondary.SMSCredentials)}
}

func (m *mockCredRepo) GetByOrganization(ctx context.Context, organizationID string) (*secondary.SMSCredentials, error) {
	if c, ok := m.creds[organizationID]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("sms credentials for organization %s: %w", organizationID, secondary.ErrNotFound)
}

type mockTaskRepo struct {
	tasks      map[string]*secondary.TaskRecord
	candidates []*secondary.TaskRecord
	listErr    error
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*secondary.TaskRecord)}
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id string) (*secondary.TaskRecord, error) {
	if t, ok := m.tasks[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("task %s: %w", id, secondary.ErrNotFound)
}

func (m *mockTaskRepo) ListCandidates(ctx context.Context, window secondary.CandidateWindow) ([]*secondary.TaskRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.TaskRecord
	for _, t := range m.candidates {
		if window.TaskID != "" && t.ID != window.TaskID {
			continue
		}
		if window.ProjectID != "" && t.ProjectID != window.ProjectID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

type mockRuleRepo struct {
	rules  map[string]*secondary.RuleRecord
	order  []string
	nextID int
}

func newMockRuleRepo() *mockRuleRepo {
	return &mockRuleRepo{rules: make(map[string]*secondary.RuleRecord), nextID: 1}
}

func (m *mockRuleRepo) add(rule *secondary.RuleRecord) {
	m.rules[rule.ID] = rule
	m.order = append(m.order, rule.ID)
}

func (m *mockRuleRepo) Create(ctx context.Context, rule *secondary.RuleRecord) error {
	m.add(rule)
	return nil
}

func (m *mockRuleRepo) GetByID(ctx context.Context, id string) (*secondary.RuleRecord, error) {
	if r, ok := m.rules[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, fmt.Errorf("rule %s: %w", id, secondary.ErrNotFound)
}

func (m *mockRuleRepo) Update(ctx context.Context, rule *secondary.RuleRecord) error {
	if _, ok := m.rules[rule.ID]; !ok {
		return fmt.Errorf("rule %s: %w", rule.ID, secondary.ErrNotFound)
	}
	m.rules[rule.ID] = rule
	return nil
}

func (m *mockRuleRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.rules[id]; !ok {
		return fmt.Errorf("rule %s: %w", id, secondary.ErrNotFound)
	}
	delete(m.rules, id)
	return nil
}

func (m *mockRuleRepo) List(ctx context.Context, filters secondary.RuleFilters) ([]*secondary.RuleRecord, error) {
	var out []*secondary.RuleRecord
	for _, id := range m.order {
		r, ok := m.rules[id]
		if !ok {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		if filters.ProjectID != "" && r.ProjectID != filters.ProjectID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// ListApplicable returns rules in insertion order; tests insert in priority
// order to keep the fake simple.
func (m *mockRuleRepo) ListApplicable(ctx context.Context, organizationID, projectID string) ([]*secondary.RuleRecord, error) {
	var out []*secondary.RuleRecord
	for _, id := range m.order {
		r, ok := m.rules[id]
		if !ok || r.Status != "active" {
			continue
		}
		if r.OrganizationID != organizationID {
			continue
		}
		if r.ProjectID != "" && r.ProjectID != projectID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *mockRuleRepo) GetNextID(ctx context.Context) (string, error) {
	id := fmt.Sprintf("RULE-%03d", m.nextID)
	m.nextID++
	return id, nil
}

func (m *mockRuleRepo) CountByStatus(ctx context.Context, organizationID string) (int, int, error) {
	total, active := 0, 0
	for _, r := range m.rules {
		if organizationID != "" && r.OrganizationID != organizationID {
			continue
		}
		total++
		if r.Status == "active" {
			active++
		}
	}
	return total, active, nil
}

type mockLogRepo struct {
	logs      map[string]*secondary.LogRecord
	byDay     map[string]string // rule|task|day -> log id
	createErr error
	updateErr error
}

func newMockLogRepo() *mockLogRepo {
	return &mockLogRepo{
		logs:  make(map[string]*secondary.LogRecord),
		byDay: make(map[string]string),
	}
}

func dayKey(ruleID, taskID, day string) string {
	return ruleID + "|" + taskID + "|" + day
}

func (m *mockLogRepo) Create(ctx context.Context, log *secondary.LogRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	key := dayKey(log.RuleID, log.TaskID, log.FiredOn)
	if _, exists := m.byDay[key]; exists {
		return fmt.Errorf("log for rule %s task %s on %s: %w", log.RuleID, log.TaskID, log.FiredOn, secondary.ErrDuplicateFiring)
	}
	copied := *log
	m.logs[log.ID] = &copied
	m.byDay[key] = log.ID
	return nil
}

func (m *mockLogRepo) Update(ctx context.Context, log *secondary.LogRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.logs[log.ID]; !ok {
		return fmt.Errorf("log %s: %w", log.ID, secondary.ErrNotFound)
	}
	copied := *log
	m.logs[log.ID] = &copied
	return nil
}

func (m *mockLogRepo) GetByID(ctx context.Context, id string) (*secondary.LogRecord, error) {
	if l, ok := m.logs[id]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("log %s: %w", id, secondary.ErrNotFound)
}

func (m *mockLogRepo) List(ctx context.Context, filters secondary.LogFilters) ([]*secondary.LogRecord, error) {
	var out []*secondary.LogRecord
	for _, l := range m.logs {
		if filters.TaskID != "" && l.TaskID != filters.TaskID {
			continue
		}
		if filters.Status != "" && l.Status != filters.Status {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *mockLogRepo) FiredToday(ctx context.Context, ruleID, taskID, day string) (bool, error) {
	_, ok := m.byDay[dayKey(ruleID, taskID, day)]
	return ok, nil
}

func (m *mockLogRepo) CountByStatus(ctx context.Context, organizationID string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, l := range m.logs {
		counts[l.Status]++
	}
	return counts, nil
}

func (m *mockLogRepo) CountByAction(ctx context.Context, organizationID string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, l := range m.logs {
		counts[l.Action]++
	}
	return counts, nil
}

func (m *mockLogRepo) CountSince(ctx context.Context, organizationID string, since time.Time) (int, error) {
	return len(m.logs), nil
}

type mockNotifier struct {
	sent    []secondary.Notification
	failFor map[string]error // user id -> error
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{failFor: make(map[string]error)}
}

func (m *mockNotifier) Send(ctx context.Context, n secondary.Notification) error {
	if err, ok := m.failFor[n.UserID]; ok {
		return err
	}
	m.sent = append(m.sent, n)
	return nil
}

type mockSMS struct {
	sent []string // destination numbers
	err  error
}

func (m *mockSMS) Send(ctx context.Context, creds secondary.SMSCredentials, to, message string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

var errBoom = errors.New("boom")
