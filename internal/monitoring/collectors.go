package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// purgeCollectors describe the cache purge jobs. They live on the module registry so a
// fresh module in tests starts from zero.
type purgeCollectors struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
	purged      *prometheus.CounterVec
}

func newPurgeCollectors(namespace string) *purgeCollectors {
	return &purgeCollectors{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_purge_runs_total",
			Help:      "Cache purge job executions by result",
		}, []string{"job", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cache_purge_duration_seconds",
			Help:      "Cache purge job duration",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"job"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_purge_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful cache purge",
		}, []string{"job"}),
		purged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_purged_entries_total",
			Help:      "Expired cache entries removed by purge jobs",
		}, []string{"job"}),
	}
}

func (c *purgeCollectors) register(reg prometheus.Registerer) error {
	for _, collector := range []prometheus.Collector{c.runs, c.duration, c.lastSuccess, c.purged} {
		if err := reg.Register(collector); err != nil {
			return err
		}
	}
	return nil
}
