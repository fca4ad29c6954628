package checks

import (
	"context"
	"time"

	"github.com/yogesh616/MediSearchServer/internal/monitoring"
)

const defaultProbeTimeout = 2 * time.Second

// timed runs fn under a deadline and converts its error into a probe result for component.
func timed(ctx context.Context, component string, timeout time.Duration, fn func(context.Context) error) monitoring.ProbeResult {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := fn(probeCtx)
	return monitoring.ResultFromError(component, err, time.Since(start))
}
