package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/ports/secondary"
	"github.com/example/taskboard/internal/version"
)

// HealthCheck handles GET /api/v1/health
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version.String(),
	})
}

// ListRules handles GET /api/v1/rules
func (s *Server) ListRules(w http.ResponseWriter, r *http.Request) {
	filters := primary.RuleFilters{
		OrganizationID: r.URL.Query().Get("organization_id"),
		ProjectID:      r.URL.Query().Get("project_id"),
		Status:         r.URL.Query().Get("status"),
		Limit:          queryInt(r, "limit"),
	}

	rules, err := s.rules.ListRules(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch rules", err)
		return
	}

	response := RuleListResponse{
		Rules: make([]RuleResponse, len(rules)),
		Total: len(rules),
	}
	for i, rule := range rules {
		response.Rules[i] = ruleToResponse(rule)
	}

	s.jsonResponse(w, http.StatusOK, response)
}

// CreateRule handles POST /api/v1/rules
func (s *Server) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req RuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rule, err := s.rules.CreateRule(r.Context(), primary.CreateRuleRequest{
		OrganizationID:   req.OrganizationID,
		ProjectID:        req.ProjectID,
		TriggerType:      req.TriggerType,
		TriggerValue:     req.TriggerValue,
		Action:           req.Action,
		Priority:         req.Priority,
		EscalateToUserID: req.EscalateToUserID,
	})
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid rule", err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, ruleToResponse(rule))
}

// GetRule handles GET /api/v1/rules/{id}
func (s *Server) GetRule(w http.ResponseWriter, r *http.Request) {
	rule, err := s.rules.GetRule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Rule not found", err)
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch rule", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ruleToResponse(rule))
}

// UpdateRule handles PUT /api/v1/rules/{id}
func (s *Server) UpdateRule(w http.ResponseWriter, r *http.Request) {
	var req RuleUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rule, err := s.rules.UpdateRule(r.Context(), primary.UpdateRuleRequest{
		RuleID:           chi.URLParam(r, "id"),
		TriggerType:      req.TriggerType,
		TriggerValue:     req.TriggerValue,
		Action:           req.Action,
		Status:           req.Status,
		Priority:         req.Priority,
		EscalateToUserID: req.EscalateToUserID,
	})
	if err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Rule not found", err)
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid rule update", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ruleToResponse(rule))
}

// DeleteRule handles DELETE /api/v1/rules/{id}
func (s *Server) DeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := s.rules.DeleteRule(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Rule not found", err)
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete rule", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListLogs handles GET /api/v1/logs
func (s *Server) ListLogs(w http.ResponseWriter, r *http.Request) {
	filters := primary.LogFilters{
		ProjectID: r.URL.Query().Get("project_id"),
		TaskID:    r.URL.Query().Get("task_id"),
		RuleID:    r.URL.Query().Get("rule_id"),
		Action:    r.URL.Query().Get("action"),
		Status:    r.URL.Query().Get("status"),
		From:      r.URL.Query().Get("from"),
		To:        r.URL.Query().Get("to"),
		Limit:     queryInt(r, "limit"),
		Offset:    queryInt(r, "offset"),
	}

	logs, err := s.escalation.ListLogs(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch logs", err)
		return
	}

	response := LogListResponse{
		Logs:  make([]LogResponse, len(logs)),
		Total: len(logs),
	}
	for i, log := range logs {
		response.Logs[i] = logToResponse(log)
	}

	s.jsonResponse(w, http.StatusOK, response)
}

// GetLog handles GET /api/v1/logs/{id}
func (s *Server) GetLog(w http.ResponseWriter, r *http.Request) {
	log, err := s.escalation.GetLog(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Log not found", err)
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch log", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, logToResponse(log))
}

// TriggerSweep handles POST /api/v1/escalations/trigger
func (s *Server) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	req := TriggerRequest{}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	summary, err := s.escalation.Sweep(r.Context(), primary.SweepScope{
		OrganizationID: req.OrganizationID,
		ProjectID:      req.ProjectID,
		TaskID:         req.TaskID,
	})
	if err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Task not found", err)
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Sweep failed", err)
		return
	}

	response := SweepResponse{
		TasksChecked:         summary.TasksChecked,
		EscalationsTriggered: summary.EscalationsTriggered,
		Logs:                 make([]LogResponse, len(summary.Logs)),
	}
	for i, log := range summary.Logs {
		response.Logs[i] = logToResponse(log)
	}

	s.jsonResponse(w, http.StatusOK, response)
}

// GetStatistics handles GET /api/v1/escalations/statistics
func (s *Server) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.Statistics(r.Context(), r.URL.Query().Get("organization_id"))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch statistics", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, StatisticsResponse{
		TotalRules:        stats.TotalRules,
		ActiveRules:       stats.ActiveRules,
		LogsByStatus:      stats.LogsByStatus,
		LogsByAction:      stats.LogsByAction,
		RecentEscalations: stats.RecentEscalations,
	})
}

func ruleToResponse(rule *primary.Rule) RuleResponse {
	return RuleResponse{
		ID:               rule.ID,
		OrganizationID:   rule.OrganizationID,
		ProjectID:        rule.ProjectID,
		TriggerType:      rule.TriggerType,
		TriggerValue:     rule.TriggerValue,
		Action:           rule.Action,
		Status:           rule.Status,
		Priority:         rule.Priority,
		EscalateToUserID: rule.EscalateToUserID,
		CreatedAt:        rule.CreatedAt,
		UpdatedAt:        rule.UpdatedAt,
	}
}

func logToResponse(log *primary.EscalationLog) LogResponse {
	notified := log.NotifiedUsers
	if notified == nil {
		notified = []string{}
	}
	reasons := log.FailureReasons
	if reasons == nil {
		reasons = []string{}
	}
	return LogResponse{
		ID:                log.ID,
		RuleID:            log.RuleID,
		TaskID:            log.TaskID,
		ProjectID:         log.ProjectID,
		Action:            log.Action,
		Status:            log.Status,
		NotifiedUsers:     notified,
		EscalatedToUserID: log.EscalatedToUserID,
		FailureReasons:    reasons,
		FiredOn:           log.FiredOn,
		ExecutedAt:        log.ExecutedAt,
		CreatedAt:         log.CreatedAt,
	}
}

func queryInt(r *http.Request, key string) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{
		Error: message,
	}
	if err != nil {
		resp.Details = err.Error()
	}
	s.jsonResponse(w, status, resp)
}
