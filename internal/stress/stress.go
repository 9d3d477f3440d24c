package stress

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/xuleilx/tscontainer/internal/telemetry/logger"
	"github.com/xuleilx/tscontainer/pkg/ordered"
)

// checkEvery is how many inserts a worker makes between cancellation checks.
const checkEvery = 1024

// Params configures Run.
type Params struct {
	// Workers is the number of concurrent inserting goroutines.
	Workers int
	// Keys is the number of distinct keys each worker inserts.
	Keys int
	// Set runs the workload against a Set instead of a Map.
	Set bool
	// Seed fixes the random part of the keys and the insert order.
	Seed int64
	// At is the ULID timestamp of every generated key. Zero uses the start
	// of the run. Keys are reproducible only when both Seed and At are fixed.
	At time.Time
	// Options are applied to the container under test.
	Options []ordered.Option
	// FreeListSize pools tree nodes of the container under test. Zero
	// disables pooling.
	FreeListSize int
	// Metrics receives workload metrics. Nil disables them.
	Metrics Recorder
}

// Report describes a completed run.
type Report struct {
	RunID   string        `json:"run_id"`
	Kind    string        `json:"kind"`
	Workers int           `json:"workers"`
	Keys    int           `json:"keys_per_worker"`
	Size    int           `json:"size"`
	Elapsed time.Duration `json:"elapsed"`
	Digest  string        `json:"digest"`
}

// Run inserts Workers x Keys distinct keys concurrently into one container
// and verifies the result. A verification failure wraps ErrVerification.
func Run(ctx context.Context, p Params) (*Report, error) {
	if p.Workers < 1 || p.Keys < 1 {
		return nil, fmt.Errorf("stress: workers and keys must be positive, got %d and %d", p.Workers, p.Keys)
	}
	rec := p.Metrics
	if rec == nil {
		rec = nopRecorder{}
	}

	runID := ulid.Make().String()
	ctx = logger.WithRunID(ctx, runID)
	ctx = logger.WithContainer(ctx, "stress")
	log := logger.L(ctx)

	kind := "map"
	if p.Set {
		kind = "set"
	}

	total := p.Workers * p.Keys
	sorted := Keys(total, p.Seed, keyTime(p.At))
	order := shuffled(sorted, p.Seed)

	// The reference build runs without metrics or observers.
	ref := newTarget(p.Set, nil)
	for i, k := range order {
		ref.insert(k, i/p.Keys)
	}
	want := Digest(traversal(ref))

	opts := p.Options
	if obs := rec.LockObserver("stress"); obs != nil {
		opts = append(opts[:len(opts):len(opts)], ordered.WithObserver(obs))
	}
	if p.FreeListSize > 0 {
		opts = append(opts[:len(opts):len(opts)], freeList(p.Set, p.FreeListSize))
	}
	c := newTarget(p.Set, opts)
	rec.TrackSize("stress", c.size)

	log.Info("stress run started",
		"kind", kind,
		"workers", p.Workers,
		"keys_per_worker", p.Keys)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < p.Workers; w++ {
		part := order[w*p.Keys : (w+1)*p.Keys]
		g.Go(func() error {
			return insertAll(logger.WithWorker(gctx, w), c, part, w, rec)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("stress: insert phase: %w", err)
	}
	elapsed := time.Since(start)
	rec.ObserveRun(elapsed)

	if err := verify(c, sorted, want); err != nil {
		rec.IncVerifyFailure()
		log.Error("stress verification failed", "error", err)
		return nil, err
	}

	report := &Report{
		RunID:   runID,
		Kind:    kind,
		Workers: p.Workers,
		Keys:    p.Keys,
		Size:    c.size(),
		Elapsed: elapsed,
		Digest:  fmt.Sprintf("%016x", want),
	}
	log.Info("stress run verified",
		"size", report.Size,
		"elapsed", elapsed,
		"digest", report.Digest)
	return report, nil
}

func insertAll(ctx context.Context, c target, keys []string, worker int, rec Recorder) error {
	done := 0
	defer func() { rec.RecordOps("insert", done) }()

	for i, k := range keys {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if !c.insert(k, worker) {
			return fmt.Errorf("%w: key %s already present", ErrVerification, k)
		}
		done++
	}
	logger.L(ctx).Debug("worker finished", "inserted", done)
	return nil
}

// keyTime returns at, or the current time when at is zero.
func keyTime(at time.Time) time.Time {
	if at.IsZero() {
		return time.Now()
	}
	return at
}
