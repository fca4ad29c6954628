package monitoring

import (
	"strings"
	"time"
)

// RecordRequest counts a completed HTTP request against its route template.
func RecordRequest(route string, status int) {
	if m := currentModule(); m != nil {
		m.stats.recordRequest(route, status)
	}
}

// RecordCacheLookup counts a read-through lookup result: hit, miss or error.
func RecordCacheLookup(result string) {
	if m := currentModule(); m != nil {
		m.stats.recordCacheLookup(normalizeLabel(result))
	}
}

// RecordSubmission counts a submit-question outcome.
func RecordSubmission(outcome string) {
	if m := currentModule(); m != nil {
		m.stats.recordSubmission(normalizeLabel(outcome))
	}
}

// RecordMaintenanceRun records one execution of a cache purge job and the number of
// expired entries it removed.
func RecordMaintenanceRun(job, result, message string, purged int64, duration time.Duration) {
	m := currentModule()
	if m == nil {
		return
	}
	job = normalizeLabel(job)
	result = normalizeLabel(result)

	m.purge.runs.WithLabelValues(job, result).Inc()
	m.purge.duration.WithLabelValues(job).Observe(max(duration, 0).Seconds())
	if purged > 0 {
		m.purge.purged.WithLabelValues(job).Add(float64(purged))
	}
	if result == "success" {
		m.purge.lastSuccess.WithLabelValues(job).SetToCurrentTime()
	}
	m.stats.recordJob(job, result, strings.TrimSpace(message), purged, duration)
}

func normalizeLabel(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "unknown"
	}
	return value
}
