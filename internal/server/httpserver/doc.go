// Package httpserver serves the operational HTTP endpoints of a running
// workload: Prometheus metrics, liveness and readiness.
//
// It uses the Go standard library net/http with a small middleware chain
// for request IDs, panic recovery and access logging.
package httpserver
