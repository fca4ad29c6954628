package monitoring_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yogesh616/MediSearchServer/internal/cache"
	"github.com/yogesh616/MediSearchServer/internal/database/testutil"
	"github.com/yogesh616/MediSearchServer/internal/monitoring"
	"github.com/yogesh616/MediSearchServer/internal/monitoring/checks"
)

func setupModule(t *testing.T) *monitoring.Module {
	t.Helper()

	mod, err := monitoring.NewModule(monitoring.Options{})
	require.NoError(t, err)
	monitoring.SetModule(mod)
	return mod
}

func findJob(summary monitoring.Summary, job string) (monitoring.MaintenanceJobSummary, bool) {
	for _, j := range summary.Maintenance.Jobs {
		if j.Job == job {
			return j, true
		}
	}
	return monitoring.MaintenanceJobSummary{}, false
}

func TestSummaryAggregatesMaintenanceRuns(t *testing.T) {
	setupModule(t)

	monitoring.RecordMaintenanceRun("cache_cleanup", "success", "", 4, time.Second)
	monitoring.RecordMaintenanceRun("cache_cleanup", "success", "", 3, time.Second)
	monitoring.RecordRequest("/answer", http.StatusOK)
	monitoring.RecordRequest("/submit-question", http.StatusConflict)
	monitoring.RecordRequest("/answer", http.StatusInternalServerError)

	summary := monitoring.Snapshot()
	job, ok := findJob(summary, "cache_cleanup")
	require.True(t, ok)
	require.Equal(t, uint64(2), job.TotalRuns)
	require.Equal(t, int64(7), job.TotalPurged)
	require.Equal(t, uint64(3), summary.Requests.Total)
	require.Equal(t, uint64(1), summary.Requests.ClientErrors)
	require.Equal(t, uint64(1), summary.Requests.ServerErrors)
	require.Equal(t, []monitoring.RouteSummary{
		{Route: "/answer", Requests: 2, ServerErrors: 1},
		{Route: "/submit-question", Requests: 1},
	}, summary.Requests.Routes)
}

func TestSummaryCacheAndSubmissions(t *testing.T) {
	setupModule(t)

	monitoring.RecordCacheLookup("hit")
	monitoring.RecordCacheLookup("hit")
	monitoring.RecordCacheLookup("hit")
	monitoring.RecordCacheLookup("miss")
	monitoring.RecordSubmission("accepted")
	monitoring.RecordSubmission("conflict")
	monitoring.RecordSubmission("Conflict ")

	summary := monitoring.Snapshot()
	require.Equal(t, uint64(3), summary.Cache.Hits)
	require.Equal(t, uint64(1), summary.Cache.Misses)
	require.InDelta(t, 0.75, summary.Cache.HitRatio, 1e-9)
	require.Equal(t, uint64(1), summary.Submissions.Accepted)
	require.Equal(t, uint64(2), summary.Submissions.Conflicts)
}

func TestWorse(t *testing.T) {
	t.Parallel()

	require.Equal(t, monitoring.StatusUp, monitoring.Worse(monitoring.StatusUp, monitoring.StatusUp))
	require.Equal(t, monitoring.StatusDegraded, monitoring.Worse(monitoring.StatusUp, monitoring.StatusDegraded))
	require.Equal(t, monitoring.StatusDown, monitoring.Worse(monitoring.StatusDown, monitoring.StatusDegraded))
	require.Equal(t, monitoring.StatusDown, monitoring.Worse(monitoring.StatusUp, "bogus"))
	require.Equal(t, monitoring.StatusDown, monitoring.Worse("bogus", monitoring.StatusUp))
	require.Equal(t, monitoring.StatusDown, monitoring.Worse("", ""))
}

func TestModuleHandlerServesMetrics(t *testing.T) {
	mod := setupModule(t)
	monitoring.RecordMaintenanceRun("cache_cleanup", "success", "", 1, time.Millisecond)

	rec := httptest.NewRecorder()
	mod.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "medisearch_cache_purge_runs_total")
}

func TestHealthManagerEvaluate(t *testing.T) {
	t.Parallel()

	manager := monitoring.NewHealthManager()
	manager.RegisterReadiness(monitoring.NewCheck("database", func(ctx context.Context) monitoring.ProbeResult {
		return monitoring.ProbeResult{Status: monitoring.StatusUp}
	}))
	manager.RegisterReadiness(monitoring.NewCheck("cache", func(ctx context.Context) monitoring.ProbeResult {
		return monitoring.ProbeResult{Status: monitoring.StatusDown, Details: "connection refused"}
	}))

	report := manager.EvaluateReadiness(context.Background())
	require.False(t, report.Success)
	require.Equal(t, monitoring.StatusDown, report.Status)
	require.Len(t, report.Checks, 2)
	require.Equal(t, "database", report.Checks[0].Component)
	require.Equal(t, "cache", report.Checks[1].Component)
	require.False(t, report.CheckedAt.IsZero())

	empty := manager.EvaluateLiveness(context.Background())
	require.True(t, empty.Success)
	require.Equal(t, monitoring.StatusUp, empty.Status)
}

func TestHealthManagerReportsUnknownStatusAsDown(t *testing.T) {
	t.Parallel()

	manager := monitoring.NewHealthManager()
	manager.RegisterReadiness(monitoring.NewCheck("cache", func(ctx context.Context) monitoring.ProbeResult {
		return monitoring.ProbeResult{Status: "flaky"}
	}))

	report := manager.EvaluateReadiness(context.Background())
	require.False(t, report.Success)
	require.Equal(t, monitoring.StatusDown, report.Status)
	require.Equal(t, monitoring.StatusDown, report.Checks[0].Status)
}

func TestHealthManagerRecoversPanickingCheck(t *testing.T) {
	t.Parallel()

	manager := monitoring.NewHealthManager()
	manager.RegisterLiveness(monitoring.NewCheck("broken", func(ctx context.Context) monitoring.ProbeResult {
		panic("boom")
	}))

	report := manager.EvaluateLiveness(context.Background())
	require.False(t, report.Success)
	require.Equal(t, "broken", report.Checks[0].Component)
	require.Equal(t, "boom", report.Checks[0].Details)
}

func TestMaintenanceCheck(t *testing.T) {
	setupModule(t)

	monitoring.RecordMaintenanceRun("cache_cleanup", "success", "", 0, time.Second)
	monitoring.RecordMaintenanceRun("memory_cleanup", "failure", "timeout", 0, time.Second)

	result := checks.Maintenance(0).Run(context.Background())
	require.Equal(t, monitoring.StatusDown, result.Status)
	require.NotEmpty(t, result.Details)
}

func TestDatabaseCheck(t *testing.T) {
	t.Parallel()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	result := checks.Database(db, time.Second).Run(context.Background())
	require.Equal(t, monitoring.StatusUp, result.Status)

	bare := testutil.MustOpenTestDB(t)
	result = checks.Database(bare, time.Second).Run(context.Background())
	require.Equal(t, monitoring.StatusDown, result.Status)
	require.Contains(t, result.Details, "question table")

	result = checks.Database(nil, time.Second).Run(context.Background())
	require.Equal(t, monitoring.StatusDown, result.Status)
}

type failingPinger struct {
	cache.Store
}

func (failingPinger) Ping(context.Context) error { return errors.New("dial tcp: connection refused") }

func TestCacheCheck(t *testing.T) {
	t.Parallel()

	mem := cache.NewMemoryStore(cache.MemoryConfig{})
	t.Cleanup(func() { _ = mem.Close() })

	result := checks.Cache("memory", mem, time.Second).Run(context.Background())
	require.Equal(t, monitoring.StatusUp, result.Status)

	result = checks.Cache("redis", failingPinger{Store: mem}, time.Second).Run(context.Background())
	require.Equal(t, monitoring.StatusDegraded, result.Status)
	require.Contains(t, result.Details, "redis: ")

	result = checks.Cache("memory", nil, time.Second).Run(context.Background())
	require.Equal(t, monitoring.StatusDegraded, result.Status)
}
