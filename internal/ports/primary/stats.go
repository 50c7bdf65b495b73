package primary

import "context"

// StatsService defines the primary port for escalation dashboards.
type StatsService interface {
	// Statistics aggregates rule and log counts, optionally scoped to one
	// organization (logs are scoped through their project's organization).
	Statistics(ctx context.Context, organizationID string) (*Statistics, error)
}

// Statistics holds the aggregate counts returned to dashboards.
type Statistics struct {
	TotalRules        int
	ActiveRules       int
	LogsByStatus      map[string]int
	LogsByAction      map[string]int
	RecentEscalations int // Logs created in the last 24 hours
}
