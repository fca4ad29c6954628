package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yogesh616/MediSearchServer/internal/monitoring"
)

const defaultPurgeMaxAge = 15 * time.Minute

// Maintenance is a liveness probe over the cache purge jobs. A job whose last run failed
// reports down; a job without a run inside maxAge reports degraded. With no jobs recorded
// yet the probe is up. maxAge <= 0 selects 15 minutes.
func Maintenance(maxAge time.Duration) monitoring.Check {
	if maxAge <= 0 {
		maxAge = defaultPurgeMaxAge
	}

	return monitoring.NewCheck("maintenance", func(context.Context) monitoring.ProbeResult {
		jobs := monitoring.Snapshot().Maintenance.Jobs
		now := time.Now()

		status := monitoring.StatusUp
		var problems []string
		for _, job := range jobs {
			switch {
			case job.ConsecutiveFailures > 0:
				status = monitoring.Worse(status, monitoring.StatusDown)
				problems = append(problems, fmt.Sprintf("%s: %d consecutive failures (%s)", job.Job, job.ConsecutiveFailures, job.LastError))
			case now.Sub(job.LastRunAt) > maxAge:
				status = monitoring.Worse(status, monitoring.StatusDegraded)
				problems = append(problems, fmt.Sprintf("%s: last run %s", job.Job, job.LastRunAt.UTC().Format(time.RFC3339)))
			}
		}

		return monitoring.ProbeResult{Status: status, Details: strings.Join(problems, "; ")}
	})
}
