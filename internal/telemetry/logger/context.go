package logger

import "context"

type contextKey string

const (
	loggerKey    contextKey = "tscontainer.logger"
	runIDKey     contextKey = "tscontainer.run_id"
	workerKey    contextKey = "tscontainer.worker"
	containerKey contextKey = "tscontainer.container"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRunID tags the context with the identifier of a load-test run.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the run ID from context.
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// WithWorker tags the context with a worker index.
func WithWorker(ctx context.Context, worker int) context.Context {
	return context.WithValue(ctx, workerKey, worker)
}

// WorkerFromContext extracts the worker index from context.
func WorkerFromContext(ctx context.Context) (int, bool) {
	w, ok := ctx.Value(workerKey).(int)
	return w, ok
}

// WithContainer tags the context with the name of the container under load.
// It is the same name the metrics use as their container label.
func WithContainer(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, containerKey, name)
}

// ContainerFromContext extracts the container name from context.
func ContainerFromContext(ctx context.Context) string {
	name, _ := ctx.Value(containerKey).(string)
	return name
}

// L returns the context's logger bound to ctx, so every record carries the
// run, worker and container tags found there.
func L(ctx context.Context) Logger {
	return FromContext(ctx).WithContext(ctx)
}
