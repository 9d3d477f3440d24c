package stress

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xuleilx/tscontainer/internal/telemetry/logger"
	"github.com/xuleilx/tscontainer/pkg/ordered"
)

// soakOp is one kind of operation issued by Soak.
type soakOp int

const (
	opGet soakOp = iota
	opLowerBound
	opRange
	opPut
	opUpdate
	opDelete
	opIndex
	numSoakOps
)

var soakOpNames = [numSoakOps]string{
	opGet:        "get",
	opLowerBound: "lower_bound",
	opRange:      "range",
	opPut:        "put",
	opUpdate:     "update",
	opDelete:     "delete",
	opIndex:      "index",
}

var (
	readOps  = []soakOp{opGet, opLowerBound, opRange}
	writeOps = []soakOp{opPut, opUpdate, opDelete, opIndex}
)

// rangeSpan bounds the key span of a single range read.
const rangeSpan = 16

// SoakParams configures Soak.
type SoakParams struct {
	Duration       time.Duration
	Workers        int
	Rate           float64
	Burst          int
	KeySpace       int
	WriteRatio     float64
	ReportInterval time.Duration
	Seed           int64
	At             time.Time
	Options        []ordered.Option
	FreeListSize   int
	Metrics        Recorder
}

// SoakReport describes a completed soak.
type SoakReport struct {
	RunID     string           `json:"run_id"`
	Elapsed   time.Duration    `json:"elapsed"`
	Ops       map[string]int64 `json:"ops"`
	FinalSize int              `json:"final_size"`
}

// Total returns the number of operations issued.
func (r *SoakReport) Total() int64 {
	var n int64
	for _, v := range r.Ops {
		n += v
	}
	return n
}

// Soak runs a mixed, rate-limited workload against a Map until Duration
// elapses or ctx is cancelled, then checks traversal order and size.
func Soak(ctx context.Context, p SoakParams) (*SoakReport, error) {
	if p.Workers < 1 || p.KeySpace < 1 {
		return nil, fmt.Errorf("stress: soak workers and key space must be positive, got %d and %d", p.Workers, p.KeySpace)
	}
	rec := p.Metrics
	if rec == nil {
		rec = nopRecorder{}
	}

	runID := ulid.Make().String()
	ctx = logger.WithRunID(ctx, runID)
	ctx = logger.WithContainer(ctx, "soak")
	log := logger.L(ctx)

	keys := Keys(p.KeySpace, p.Seed, keyTime(p.At))

	opts := p.Options
	if obs := rec.LockObserver("soak"); obs != nil {
		opts = append(opts[:len(opts):len(opts)], ordered.WithObserver(obs))
	}
	if p.FreeListSize > 0 {
		opts = append(opts[:len(opts):len(opts)], ordered.WithFreeList(ordered.NewMapFreeList[string, int64](p.FreeListSize)))
	}
	m := ordered.NewMap[string, int64](opts...)
	rec.TrackSize("soak", m.Len)

	limit := rate.Inf
	if p.Rate > 0 {
		limit = rate.Limit(p.Rate)
	}
	burst := max(p.Burst, 1)
	limiter := rate.NewLimiter(limit, burst)

	var counts [numSoakOps]atomic.Int64

	runCtx := ctx
	if p.Duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.Duration)
		defer cancel()
	}

	log.Info("soak started",
		"duration", p.Duration,
		"workers", p.Workers,
		"rate", p.Rate,
		"key_space", p.KeySpace,
		"write_ratio", p.WriteRatio)

	start := time.Now()
	g, gctx := errgroup.WithContext(runCtx)
	for w := 0; w < p.Workers; w++ {
		r := rand.New(rand.NewSource(p.Seed + int64(w) + 1))
		g.Go(func() error {
			for {
				if err := limiter.Wait(gctx); err != nil {
					return nil
				}
				op := pickOp(r, p.WriteRatio)
				applyOp(m, op, keys, r)
				counts[op].Add(1)
			}
		})
	}
	if p.ReportInterval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(p.ReportInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					var total int64
					for i := range counts {
						total += counts[i].Load()
					}
					log.Info("soak progress",
						"ops", total,
						"size", m.Len(),
						"elapsed", time.Since(start).Round(time.Millisecond))
				case <-gctx.Done():
					return nil
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("stress: soak: %w", err)
	}
	elapsed := time.Since(start)

	report := &SoakReport{
		RunID:     runID,
		Elapsed:   elapsed,
		Ops:       make(map[string]int64, numSoakOps),
		FinalSize: m.Len(),
	}
	for i := range counts {
		n := counts[i].Load()
		report.Ops[soakOpNames[i]] = n
		rec.RecordOps(soakOpNames[i], int(n))
	}
	rec.ObserveRun(elapsed)

	if err := checkOrdered(m); err != nil {
		rec.IncVerifyFailure()
		log.Error("soak verification failed", "error", err)
		return report, err
	}

	stopped := "duration elapsed"
	if errors.Is(ctx.Err(), context.Canceled) {
		stopped = "cancelled"
	}
	log.Info("soak finished",
		"reason", stopped,
		"ops", report.Total(),
		"final_size", report.FinalSize,
		"elapsed", elapsed)
	return report, nil
}

func pickOp(r *rand.Rand, writeRatio float64) soakOp {
	if r.Float64() < writeRatio {
		return writeOps[r.Intn(len(writeOps))]
	}
	return readOps[r.Intn(len(readOps))]
}

func applyOp(m *ordered.Map[string, int64], op soakOp, keys []string, r *rand.Rand) {
	i := r.Intn(len(keys))
	k := keys[i]
	switch op {
	case opGet:
		m.Get(k)
	case opLowerBound:
		m.LowerBound(k)
	case opRange:
		hi := keys[min(i+rangeSpan, len(keys)-1)]
		m.AscendRange(k, hi, func(string, int64) bool { return true })
	case opPut:
		m.Put(k, r.Int63())
	case opUpdate:
		m.Update(k, func(v int64, _ bool) int64 { return v + 1 })
	case opDelete:
		m.Delete(k)
	case opIndex:
		m.Index(k)
	}
}

// checkOrdered confirms a full traversal is strictly ascending and agrees
// with Len.
func checkOrdered(m *ordered.Map[string, int64]) error {
	var (
		prev    string
		visited int
		bad     error
	)
	// Len and Each are separate acquisitions; nothing mutates m at this point.
	size := m.Len()
	m.Each(func(k string, _ int64) {
		if visited > 0 && k <= prev && bad == nil {
			bad = fmt.Errorf("%w: %s visited after %s", ErrVerification, k, prev)
		}
		prev = k
		visited++
	})
	if bad != nil {
		return bad
	}
	if visited != size {
		return fmt.Errorf("%w: traversal visited %d, Len %d", ErrVerification, visited, size)
	}
	return nil
}
