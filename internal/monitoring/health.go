package monitoring

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ProbeStatus encodes the outcome of a health probe.
type ProbeStatus string

const (
	StatusUp       ProbeStatus = "up"
	StatusDegraded ProbeStatus = "degraded"
	StatusDown     ProbeStatus = "down"
)

func (s ProbeStatus) known() bool {
	return s == StatusUp || s == StatusDegraded || s == StatusDown
}

func (s ProbeStatus) severity() int {
	switch s {
	case StatusUp:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// Worse returns the more severe of two statuses. Unknown values rank as down and are
// reported as StatusDown.
func Worse(a, b ProbeStatus) ProbeStatus {
	worst := a
	if b.severity() > a.severity() {
		worst = b
	}
	if !worst.known() {
		return StatusDown
	}
	return worst
}

// ProbeKind selects the liveness or readiness probe set.
type ProbeKind string

const (
	Liveness  ProbeKind = "liveness"
	Readiness ProbeKind = "readiness"
)

// ProbeResult is the outcome of one dependency probe.
type ProbeResult struct {
	Component string        `json:"component"`
	Status    ProbeStatus   `json:"status"`
	Details   string        `json:"details,omitempty"`
	LatencyMS float64       `json:"latency_ms"`
	Duration  time.Duration `json:"-"`
}

// HealthReport aggregates the results of one probe set. The report status is the worst
// status among its checks; an empty set is up.
type HealthReport struct {
	Success   bool          `json:"success"`
	Status    ProbeStatus   `json:"status"`
	Checks    []ProbeResult `json:"checks"`
	CheckedAt time.Time     `json:"checked_at"`
}

// Check is a named probe.
type Check struct {
	Name string
	Run  func(ctx context.Context) ProbeResult
}

// NewCheck builds a Check. A nil fn yields a probe that always reports down.
func NewCheck(name string, fn func(ctx context.Context) ProbeResult) Check {
	if fn == nil {
		fn = func(context.Context) ProbeResult {
			return ProbeResult{Status: StatusDown, Details: "no probe function"}
		}
	}
	return Check{Name: name, Run: fn}
}

// HealthManager holds the registered probes and evaluates them on demand.
type HealthManager struct {
	mu     sync.RWMutex
	checks map[ProbeKind][]Check
	now    func() time.Time
}

// NewHealthManager constructs an empty health manager.
func NewHealthManager() *HealthManager {
	return &HealthManager{
		checks: make(map[ProbeKind][]Check),
		now:    time.Now,
	}
}

// Register adds a probe to the given set. Unnamed probes are ignored.
func (m *HealthManager) Register(kind ProbeKind, check Check) {
	if check.Name == "" || check.Run == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks[kind] = append(m.checks[kind], check)
}

// RegisterLiveness adds a liveness probe.
func (m *HealthManager) RegisterLiveness(check Check) { m.Register(Liveness, check) }

// RegisterReadiness adds a readiness probe.
func (m *HealthManager) RegisterReadiness(check Check) { m.Register(Readiness, check) }

// EvaluateLiveness runs the liveness probes.
func (m *HealthManager) EvaluateLiveness(ctx context.Context) HealthReport {
	return m.Evaluate(ctx, Liveness)
}

// EvaluateReadiness runs the readiness probes.
func (m *HealthManager) EvaluateReadiness(ctx context.Context) HealthReport {
	return m.Evaluate(ctx, Readiness)
}

// Evaluate runs every probe of kind concurrently. Results keep registration order.
func (m *HealthManager) Evaluate(ctx context.Context, kind ProbeKind) HealthReport {
	if ctx == nil {
		ctx = context.Background()
	}

	m.mu.RLock()
	checks := append([]Check(nil), m.checks[kind]...)
	m.mu.RUnlock()

	results := make([]ProbeResult, len(checks))
	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func(i int, check Check) {
			defer wg.Done()
			results[i] = runCheck(ctx, check)
		}(i, check)
	}
	wg.Wait()

	status := StatusUp
	for _, r := range results {
		status = Worse(status, r.Status)
	}

	return HealthReport{
		Success:   status == StatusUp,
		Status:    status,
		Checks:    results,
		CheckedAt: m.now().UTC(),
	}
}

func runCheck(ctx context.Context, check Check) (result ProbeResult) {
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			result = ProbeResult{Status: StatusDown, Details: panicDetails(rec)}
		}
		if !result.Status.known() {
			result.Status = StatusDown
		}
		if result.Duration <= 0 {
			result.Duration = time.Since(start)
		}
		result.Component = check.Name
		result.LatencyMS = float64(result.Duration.Microseconds()) / 1000
	}()

	return check.Run(ctx)
}

func panicDetails(rec any) string {
	switch v := rec.(type) {
	case string:
		return v
	case error:
		return v.Error()
	default:
		return fmt.Sprintf("panic: %v", v)
	}
}

// ResultFromError maps a probe error to a result. Timeouts and cancellation count as
// degraded, any other error as down.
func ResultFromError(component string, err error, duration time.Duration) ProbeResult {
	result := ProbeResult{Component: component, Status: StatusUp, Duration: max(duration, 0)}
	if err == nil {
		return result
	}

	result.Details = err.Error()
	result.Status = StatusDown
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		result.Status = StatusDegraded
	}
	return result
}
