package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"
)

const healthTimeout = 2 * time.Second

// HealthChecker is anything with a Ping: registry stores, the Redis client,
// the event bus, the snapshot bucket.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks names the dependencies probed by HealthHandler. A nil entry is
// reported as "disabled" and never degrades the status.
type HealthChecks map[string]HealthChecker

// HealthResponse is the /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler pings every check concurrently and answers 503 when any of
// them fails.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		var (
			mu sync.Mutex
			wg sync.WaitGroup
		)
		for name, c := range checks {
			if c == nil {
				resp.Checks[name] = "disabled"
				continue
			}
			wg.Add(1)
			go func(name string, c HealthChecker) {
				defer wg.Done()
				result := "ok"
				if err := c.Ping(ctx); err != nil {
					result = "unreachable"
				}
				mu.Lock()
				resp.Checks[name] = result
				if result != "ok" {
					resp.Status = "degraded"
				}
				mu.Unlock()
			}(name, c)
		}
		wg.Wait()

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}
