package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xuleilx/tscontainer/pkg/rwlock"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.registry == nil {
		t.Error("registry field is nil")
	}
	if r.LockWait == nil {
		t.Error("LockWait is nil")
	}
	if r.LockAcquisitions == nil {
		t.Error("LockAcquisitions is nil")
	}
	if r.Entries == nil {
		t.Error("Entries is nil")
	}
	if r.StressOps == nil {
		t.Error("StressOps is nil")
	}
}

func TestGlobal(t *testing.T) {
	r1 := Global()
	r2 := Global()
	if r1 != r2 {
		t.Error("Global() should return the same instance")
	}
}

func TestHandler(t *testing.T) {
	h := Handler()
	if h == nil {
		t.Fatal("Handler() returned nil")
	}

	body := scrape(t, h)

	// Check for Go runtime metrics (from GoCollector)
	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected go_goroutines metric")
	}

	// Check for process metrics (from ProcessCollector)
	if !strings.Contains(body, "process_") {
		t.Error("expected process metrics")
	}
}

func TestLockObserver(t *testing.T) {
	r := NewRegistry()
	obs := r.LockObserver("orders")

	obs.ObserveAcquire(rwlock.Shared, time.Microsecond)
	obs.ObserveAcquire(rwlock.Shared, time.Microsecond)
	obs.ObserveAcquire(rwlock.Exclusive, time.Millisecond)
	obs.ObserveAcquire(rwlock.Mode(9), time.Millisecond)

	body := scrape(t, r.Handler())

	if !strings.Contains(body, `tscontainer_lock_acquisitions_total{container="orders",mode="shared"} 2`) {
		t.Error("expected 2 shared acquisitions for orders")
	}
	if !strings.Contains(body, `tscontainer_lock_acquisitions_total{container="orders",mode="exclusive"} 1`) {
		t.Error("expected 1 exclusive acquisition for orders")
	}
	if !strings.Contains(body, `tscontainer_lock_wait_seconds_count{container="orders",mode="exclusive"} 1`) {
		t.Error("expected tscontainer_lock_wait_seconds_count for exclusive")
	}
}

func TestLockObserver_Instrumented(t *testing.T) {
	r := NewRegistry()
	l := rwlock.Instrument(rwlock.Standard(), r.LockObserver("m"))

	rwlock.Acquire(l, rwlock.Exclusive)()
	rwlock.Acquire(l, rwlock.Shared)()

	body := scrape(t, r.Handler())
	if !strings.Contains(body, `tscontainer_lock_acquisitions_total{container="m",mode="shared"} 1`) {
		t.Error("expected 1 shared acquisition")
	}
	if !strings.Contains(body, `tscontainer_lock_acquisitions_total{container="m",mode="exclusive"} 1`) {
		t.Error("expected 1 exclusive acquisition")
	}
}

func TestWorkloadMetrics(t *testing.T) {
	r := NewRegistry()

	r.RecordOps("insert", 2)
	r.RecordOps("get", 1)
	r.RecordOps("get", 0)
	r.ObserveRun(1500 * time.Millisecond)
	r.IncVerifyFailure()

	body := scrape(t, r.Handler())

	if !strings.Contains(body, `tscontainer_stress_operations_total{op="insert"} 2`) {
		t.Error(`expected tscontainer_stress_operations_total{op="insert"} 2`)
	}
	if !strings.Contains(body, `tscontainer_stress_operations_total{op="get"} 1`) {
		t.Error(`expected tscontainer_stress_operations_total{op="get"} 1`)
	}
	if !strings.Contains(body, "tscontainer_stress_run_duration_seconds_count 1") {
		t.Error("expected tscontainer_stress_run_duration_seconds_count 1")
	}
	if !strings.Contains(body, "tscontainer_stress_verify_failures_total 1") {
		t.Error("expected tscontainer_stress_verify_failures_total 1")
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()
	obs := r.LockObserver("c")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				obs.ObserveAcquire(rwlock.Shared, time.Nanosecond)
				r.RecordOps("insert", 1)
			}
		}()
	}
	wg.Wait()

	body := scrape(t, r.Handler())
	if !strings.Contains(body, `tscontainer_lock_acquisitions_total{container="c",mode="shared"} 1000`) {
		t.Error("expected 1000 shared acquisitions")
	}
}
