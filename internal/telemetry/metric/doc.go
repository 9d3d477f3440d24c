// Package metric provides Prometheus metrics for tscontainer tools.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry, lock observers and HTTP handler
//   - collector.go: Container size collector
//
// Metrics include:
//
//   - Lock wait histograms per container and lock mode
//   - Lock acquisition counters
//   - Container entry gauges
//   - Stress workload operation counters
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
