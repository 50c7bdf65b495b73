package api

// RuleRequest represents a rule creation request.
type RuleRequest struct {
	OrganizationID   string `json:"organization_id"`
	ProjectID        string `json:"project_id,omitempty"`
	TriggerType      string `json:"trigger_type"`
	TriggerValue     int    `json:"trigger_value"`
	Action           string `json:"action"`
	Priority         *int   `json:"priority,omitempty"`
	EscalateToUserID string `json:"escalate_to_user_id,omitempty"`
}

// RuleUpdateRequest represents a rule update request. Omitted fields are
// left unchanged.
type RuleUpdateRequest struct {
	TriggerType      *string `json:"trigger_type,omitempty"`
	TriggerValue     *int    `json:"trigger_value,omitempty"`
	Action           *string `json:"action,omitempty"`
	Status           *string `json:"status,omitempty"`
	Priority         *int    `json:"priority,omitempty"`
	EscalateToUserID *string `json:"escalate_to_user_id,omitempty"`
}

// RuleResponse represents a rule in API responses.
type RuleResponse struct {
	ID               string `json:"id"`
	OrganizationID   string `json:"organization_id"`
	ProjectID        string `json:"project_id,omitempty"`
	TriggerType      string `json:"trigger_type"`
	TriggerValue     int    `json:"trigger_value"`
	Action           string `json:"action"`
	Status           string `json:"status"`
	Priority         int    `json:"priority"`
	EscalateToUserID string `json:"escalate_to_user_id,omitempty"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// RuleListResponse represents a list of rules.
type RuleListResponse struct {
	Rules []RuleResponse `json:"rules"`
	Total int            `json:"total"`
}

// LogResponse represents an escalation log in API responses.
type LogResponse struct {
	ID                string   `json:"id"`
	RuleID            string   `json:"rule_id"`
	TaskID            string   `json:"task_id"`
	ProjectID         string   `json:"project_id"`
	Action            string   `json:"action"`
	Status            string   `json:"status"`
	NotifiedUsers     []string `json:"notified_users"`
	EscalatedToUserID string   `json:"escalated_to_user_id,omitempty"`
	FailureReasons    []string `json:"failure_reasons"`
	FiredOn           string   `json:"fired_on"`
	ExecutedAt        string   `json:"executed_at,omitempty"`
	CreatedAt         string   `json:"created_at"`
}

// LogListResponse represents a list of escalation logs.
type LogListResponse struct {
	Logs  []LogResponse `json:"logs"`
	Total int           `json:"total"`
}

// TriggerRequest represents an on-demand sweep request.
type TriggerRequest struct {
	OrganizationID string `json:"organization_id,omitempty"`
	ProjectID      string `json:"project_id,omitempty"`
	TaskID         string `json:"task_id,omitempty"`
}

// SweepResponse represents the outcome of one sweep.
type SweepResponse struct {
	TasksChecked         int           `json:"tasks_checked"`
	EscalationsTriggered int           `json:"escalations_triggered"`
	Logs                 []LogResponse `json:"logs"`
}

// StatisticsResponse represents the escalation dashboard counts.
type StatisticsResponse struct {
	TotalRules        int            `json:"total_rules"`
	ActiveRules       int            `json:"active_rules"`
	LogsByStatus      map[string]int `json:"logs_by_status"`
	LogsByAction      map[string]int `json:"logs_by_action"`
	RecentEscalations int            `json:"recent_escalations"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
