// Package logger provides structured logging for tscontainer tools.
//
// It wraps log/slog behind a small Logger interface:
//
//   - logger.go: handler setup (JSON or text) and the shared level
//   - context.go: run, worker and container tags carried in a context
//
// Every logger built by New adds the run_id, worker and container tags of
// the context it logs with. The *slog.Logger returned by Slog does the same,
// so badger and HTTP records of a run carry the same tags as the run's own.
// SetLevel applies to all of them at once.
package logger
