package monitoring

import "time"

// Summary is the operator view served at /monitoring/summary.
type Summary struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Requests    RequestSummary     `json:"requests"`
	Cache       CacheSummary       `json:"cache"`
	Submissions SubmissionSummary  `json:"submissions"`
	Maintenance MaintenanceSummary `json:"maintenance"`
}

type RequestSummary struct {
	Total        uint64         `json:"total"`
	ClientErrors uint64         `json:"client_errors"`
	ServerErrors uint64         `json:"server_errors"`
	Routes       []RouteSummary `json:"routes"`
}

type RouteSummary struct {
	Route        string `json:"route"`
	Requests     uint64 `json:"requests"`
	ServerErrors uint64 `json:"server_errors"`
}

// CacheSummary counts read-through lookups. Errors are lookups that fell back to the store
// because the cache backend failed.
type CacheSummary struct {
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
	Errors   uint64  `json:"errors"`
	HitRatio float64 `json:"hit_ratio"`
}

type SubmissionSummary struct {
	Accepted  uint64 `json:"accepted"`
	Conflicts uint64 `json:"conflicts"`
	Invalid   uint64 `json:"invalid"`
	Failed    uint64 `json:"failed"`
}

type MaintenanceSummary struct {
	Jobs []MaintenanceJobSummary `json:"jobs"`
}

type MaintenanceJobSummary struct {
	Job                 string        `json:"job"`
	LastStatus          string        `json:"last_status"`
	LastError           string        `json:"last_error,omitempty"`
	LastRunAt           time.Time     `json:"last_run_at"`
	LastSuccessAt       time.Time     `json:"last_success_at"`
	LastDuration        time.Duration `json:"last_duration"`
	TotalRuns           uint64        `json:"total_runs"`
	ConsecutiveFailures uint64        `json:"consecutive_failures"`
	TotalPurged         int64         `json:"total_purged"`
}

// Snapshot returns the summary of the process-wide module, or an empty summary when none
// is installed.
func Snapshot() Summary {
	return currentModule().Summary()
}
