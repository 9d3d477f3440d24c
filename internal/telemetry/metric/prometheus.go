package metric

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xuleilx/tscontainer/pkg/rwlock"
)

const namespace = "tscontainer"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Lock metrics
	LockWait         *prometheus.HistogramVec
	LockAcquisitions *prometheus.CounterVec

	// Container metrics
	Entries *Collector

	// Workload metrics
	StressOps      *prometheus.CounterVec
	StressDuration prometheus.Histogram
	VerifyFailures prometheus.Counter
}

// NewRegistry creates a new metrics registry with Go runtime and process
// collectors already registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		LockWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting to acquire a container lock",
			Buckets:   []float64{.000001, .00001, .0001, .001, .01, .1, 1},
		}, []string{"container", "mode"}),
		LockAcquisitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lock_acquisitions_total",
			Help:      "Total number of container lock acquisitions",
		}, []string{"container", "mode"}),
		Entries: NewCollector(),
		StressOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stress",
			Name:      "operations_total",
			Help:      "Total number of container operations issued by workloads",
		}, []string{"op"}),
		StressDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "stress",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete stress run",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		VerifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stress",
			Name:      "verify_failures_total",
			Help:      "Total number of failed post-run verifications",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.LockWait,
		r.LockAcquisitions,
		r.Entries,
		r.StressOps,
		r.StressDuration,
		r.VerifyFailures,
	)

	return r
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns an HTTP handler for the /metrics endpoint of the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registerer exposes the underlying registry for extra collectors.
func (r *Registry) Registerer() prometheus.Registerer {
	return r.registry
}

// Gatherer exposes the underlying registry for scraping in tests and snapshots.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// LockObserver returns an observer that records acquisitions for the named
// container.
func (r *Registry) LockObserver(container string) rwlock.Observer {
	o := &lockObserver{}
	for _, m := range []rwlock.Mode{rwlock.Shared, rwlock.Exclusive} {
		o.wait[m] = r.LockWait.WithLabelValues(container, m.String())
		o.count[m] = r.LockAcquisitions.WithLabelValues(container, m.String())
	}
	return o
}

type lockObserver struct {
	wait  [2]prometheus.Observer
	count [2]prometheus.Counter
}

func (o *lockObserver) ObserveAcquire(m rwlock.Mode, wait time.Duration) {
	if m != rwlock.Shared && m != rwlock.Exclusive {
		return
	}
	o.wait[m].Observe(wait.Seconds())
	o.count[m].Inc()
}

// RecordOps counts n workload operations of one kind.
func (r *Registry) RecordOps(op string, n int) {
	r.StressOps.WithLabelValues(op).Add(float64(n))
}

// ObserveRun records the duration of a finished stress run.
func (r *Registry) ObserveRun(d time.Duration) {
	r.StressDuration.Observe(d.Seconds())
}

// IncVerifyFailure counts a failed verification.
func (r *Registry) IncVerifyFailure() {
	r.VerifyFailures.Inc()
}

// TrackSize reports the entry count of a container under the given name.
func (r *Registry) TrackSize(container string, size func() int) {
	r.Entries.Track(container, size)
}
