// Package shutdown coordinates graceful termination of long-running
// tscontainer commands.
//
// A Handler waits for SIGINT, SIGTERM, a programmatic Trigger, or the
// cancellation of a parent context, then runs registered hooks in reverse
// order under a deadline.
//
// Usage:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown(func(ctx context.Context) error { return srv.Shutdown(ctx) })
//	err := h.Wait(ctx)
package shutdown
