package httpserver

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func newTestRouter(t *testing.T, cfg *RouterConfig) (*httptest.Server, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	cfg.Logger = slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	srv := httptest.NewServer(NewRouter(cfg))
	t.Cleanup(srv.Close)
	return srv, &logs
}

func TestDefaultRouterConfig(t *testing.T) {
	cfg := DefaultRouterConfig()
	if cfg.MetricsPath != "/metrics" {
		t.Errorf("MetricsPath = %q, want /metrics", cfg.MetricsPath)
	}
}

func TestRouter_Metrics(t *testing.T) {
	cfg := DefaultRouterConfig()
	cfg.Metrics = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("tscontainer_up 1\n"))
	})
	srv, _ := newTestRouter(t, cfg)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body bytes.Buffer
	body.ReadFrom(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(body.String(), "tscontainer_up 1") {
		t.Errorf("GET /metrics = %d %q", resp.StatusCode, body.String())
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("response should carry X-Request-ID")
	}
}

func TestRouter_MetricsUnrouted(t *testing.T) {
	srv, _ := newTestRouter(t, &RouterConfig{MetricsPath: "/metrics"})

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /metrics without a handler = %d, want 404", resp.StatusCode)
	}
}

func TestRouter_HealthAndReady(t *testing.T) {
	var ready atomic.Bool
	srv, _ := newTestRouter(t, &RouterConfig{Ready: ready.Load})

	tests := []struct {
		path   string
		ready  bool
		status int
		want   string
	}{
		{"/health", false, http.StatusOK, "healthy"},
		{"/ready", false, http.StatusServiceUnavailable, "not ready"},
		{"/ready", true, http.StatusOK, "ready"},
	}

	for _, tt := range tests {
		ready.Store(tt.ready)
		resp, err := http.Get(srv.URL + tt.path)
		if err != nil {
			t.Fatal(err)
		}
		var body map[string]string
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", tt.path, err)
		}
		if resp.StatusCode != tt.status || body["status"] != tt.want {
			t.Errorf("GET %s (ready=%v) = %d %q, want %d %q",
				tt.path, tt.ready, resp.StatusCode, body["status"], tt.status, tt.want)
		}
	}
}

func TestRequestID_Propagated(t *testing.T) {
	var seen string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestIDFromContext(r.Context())
	}), RequestID())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-fixed")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "req-fixed" || rec.Header().Get("X-Request-ID") != "req-fixed" {
		t.Errorf("request ID = %q (header %q), want req-fixed", seen, rec.Header().Get("X-Request-ID"))
	}
}

func TestRecover(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID(), Recover(logger))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(logs.String(), "panic recovered") {
		t.Errorf("panic not logged: %s", logs.String())
	}
}

func TestAccess_LogsRequests(t *testing.T) {
	srv, logs := newTestRouter(t, &RouterConfig{})

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	out := logs.String()
	if !strings.Contains(out, `"path":"/health"`) || !strings.Contains(out, `"status":200`) {
		t.Errorf("access log = %s", out)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}), mw("a"), mw("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "a,b" {
		t.Errorf("order = %v, want [a b]", order)
	}
}
