package models

// Requests for the screener HTTP endpoints. Defined in domain for
// consistency and reuse.

type RankingRequest struct {
	Strategy         string `query:"strategy" json:"strategy" default:"momentum" validate:"oneof=momentum value defensive global"`
	TopN             int    `query:"top_n" json:"top_n" default:"6" validate:"gte=1,lte=50"`
	ForceRefresh     bool   `query:"force_refresh" json:"force_refresh"`
	IncludeBreakdown bool   `query:"include_breakdown" json:"include_breakdown" default:"true"`
}

type AssetListRequest struct {
	IncludeBreakdown bool `query:"include_breakdown" json:"include_breakdown"`
}

// HealthStatus is the health() contract: service status plus the last
// successful run per strategy (RFC3339, empty when never computed).
type HealthStatus struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	LastRuns map[string]string `json:"last_successful_run_per_strategy"`
}
