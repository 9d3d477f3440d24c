// Package main provides the entry point for tscontainer.
//
// tscontainer drives concurrent workloads against the ordered containers in
// pkg/ordered: a verified parallel insert run, a rate-limited soak with
// Prometheus lock metrics, and Badger-backed snapshots.
package main
