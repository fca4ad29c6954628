package monitoring

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "medisearch"

// Options control monitoring module configuration.
type Options struct {
	// Namespace prefixes the purge job metrics. Defaults to "medisearch".
	Namespace string
}

// Module owns the health probes, the runtime summary counters and the purge job metrics.
// Request, cache and store metrics are process-wide (pkg/metrics) and are served alongside.
type Module struct {
	registry *prometheus.Registry
	purge    *purgeCollectors
	stats    *runtimeStats
	health   *HealthManager
}

// NewModule constructs a monitoring module with its own Prometheus registry.
func NewModule(opts Options) (*Module, error) {
	namespace := opts.Namespace
	if namespace == "" {
		namespace = defaultNamespace
	}

	registry := prometheus.NewRegistry()
	purge := newPurgeCollectors(namespace)
	if err := purge.register(registry); err != nil {
		return nil, err
	}

	return &Module{
		registry: registry,
		purge:    purge,
		stats:    newRuntimeStats(),
		health:   NewHealthManager(),
	}, nil
}

// Handler serves the module registry merged with the default registry in the Prometheus
// text format.
func (m *Module) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(prometheus.Gatherers{prometheus.DefaultGatherer, m.registry}, promhttp.HandlerOpts{})
}

// Health exposes the probe registry.
func (m *Module) Health() *HealthManager {
	if m == nil {
		return nil
	}
	return m.health
}

// Summary returns a point-in-time copy of the runtime counters.
func (m *Module) Summary() Summary {
	if m == nil {
		return Summary{GeneratedAt: time.Now().UTC()}
	}
	return m.stats.summary()
}

var installed atomic.Pointer[Module]

// SetModule installs the process-wide module used by the Record* helpers. Nil is ignored.
func SetModule(module *Module) {
	if module != nil {
		installed.Store(module)
	}
}

func currentModule() *Module {
	return installed.Load()
}
