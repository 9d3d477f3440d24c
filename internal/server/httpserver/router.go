package httpserver

import (
	"log/slog"
	"net/http"
	"time"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// MetricsPath is where Metrics is mounted.
	MetricsPath string

	// Metrics serves the Prometheus exposition. Nil leaves MetricsPath
	// unrouted.
	Metrics http.Handler

	// Ready reports whether the workload is running. Nil is always ready.
	Ready func() bool

	// Logger for request logging. Nil uses slog.Default.
	Logger *slog.Logger
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		MetricsPath: "/metrics",
	}
}

// NewRouter creates the HTTP router with the metrics, health and readiness
// routes.
func NewRouter(cfg *RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	if cfg.Metrics != nil {
		mux.Handle("GET "+cfg.MetricsPath, cfg.Metrics)
	}
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /ready", readyHandler(cfg.Ready))

	return Chain(mux,
		RequestID(),
		Recover(logger),
		Access(logger),
	)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func readyHandler(ready func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if ready != nil && !ready() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ready",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
