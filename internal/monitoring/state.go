package monitoring

import (
	"sort"
	"sync"
	"time"
)

// runtimeStats accumulates the counters behind Summary. A single mutex guards everything;
// updates are a handful of integer bumps per request.
type runtimeStats struct {
	mu sync.Mutex

	requests     uint64
	clientErrors uint64
	serverErrors uint64
	routes       map[string]*routeStats

	cache       map[string]uint64 // lookup result -> count
	submissions map[string]uint64 // outcome -> count

	jobs map[string]*jobStats
	now  func() time.Time
}

type routeStats struct {
	count        uint64
	serverErrors uint64
}

type jobStats struct {
	lastResult          string
	lastError           string
	lastRunAt           time.Time
	lastSuccessAt       time.Time
	lastDuration        time.Duration
	runs                uint64
	consecutiveFailures uint64
	purged              int64
}

func newRuntimeStats() *runtimeStats {
	return &runtimeStats{
		routes:      make(map[string]*routeStats),
		cache:       make(map[string]uint64),
		submissions: make(map[string]uint64),
		jobs:        make(map[string]*jobStats),
		now:         time.Now,
	}
}

func (s *runtimeStats) recordRequest(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests++
	rs, ok := s.routes[route]
	if !ok {
		rs = &routeStats{}
		s.routes[route] = rs
	}
	rs.count++

	switch {
	case status >= 500:
		s.serverErrors++
		rs.serverErrors++
	case status >= 400:
		s.clientErrors++
	}
}

func (s *runtimeStats) recordCacheLookup(result string) {
	s.mu.Lock()
	s.cache[result]++
	s.mu.Unlock()
}

func (s *runtimeStats) recordSubmission(outcome string) {
	s.mu.Lock()
	s.submissions[outcome]++
	s.mu.Unlock()
}

func (s *runtimeStats) recordJob(job, result, message string, purged int64, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	js, ok := s.jobs[job]
	if !ok {
		js = &jobStats{}
		s.jobs[job] = js
	}

	now := s.now()
	js.runs++
	js.lastResult = result
	js.lastError = message
	js.lastRunAt = now
	js.lastDuration = max(duration, 0)
	if purged > 0 {
		js.purged += purged
	}

	if result == "success" {
		js.consecutiveFailures = 0
		js.lastSuccessAt = now
	} else {
		js.consecutiveFailures++
	}
}

func (s *runtimeStats) summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Summary{
		GeneratedAt: s.now().UTC(),
		Requests: RequestSummary{
			Total:        s.requests,
			ClientErrors: s.clientErrors,
			ServerErrors: s.serverErrors,
			Routes:       make([]RouteSummary, 0, len(s.routes)),
		},
		Cache: CacheSummary{
			Hits:   s.cache["hit"],
			Misses: s.cache["miss"],
			Errors: s.cache["error"],
		},
		Submissions: SubmissionSummary{
			Accepted:  s.submissions["accepted"],
			Conflicts: s.submissions["conflict"],
			Invalid:   s.submissions["invalid"],
			Failed:    s.submissions["error"],
		},
		Maintenance: MaintenanceSummary{
			Jobs: make([]MaintenanceJobSummary, 0, len(s.jobs)),
		},
	}

	if lookups := out.Cache.Hits + out.Cache.Misses + out.Cache.Errors; lookups > 0 {
		out.Cache.HitRatio = float64(out.Cache.Hits) / float64(lookups)
	}

	for route, rs := range s.routes {
		out.Requests.Routes = append(out.Requests.Routes, RouteSummary{
			Route:        route,
			Requests:     rs.count,
			ServerErrors: rs.serverErrors,
		})
	}
	sort.Slice(out.Requests.Routes, func(i, j int) bool {
		return out.Requests.Routes[i].Route < out.Requests.Routes[j].Route
	})

	for job, js := range s.jobs {
		out.Maintenance.Jobs = append(out.Maintenance.Jobs, MaintenanceJobSummary{
			Job:                 job,
			LastStatus:          js.lastResult,
			LastError:           js.lastError,
			LastRunAt:           js.lastRunAt,
			LastSuccessAt:       js.lastSuccessAt,
			LastDuration:        js.lastDuration,
			TotalRuns:           js.runs,
			ConsecutiveFailures: js.consecutiveFailures,
			TotalPurged:         js.purged,
		})
	}
	sort.Slice(out.Maintenance.Jobs, func(i, j int) bool {
		return out.Maintenance.Jobs[i].Job < out.Maintenance.Jobs[j].Job
	})

	return out
}
