package stress

import (
	"time"

	"github.com/xuleilx/tscontainer/pkg/rwlock"
)

// Recorder receives workload metrics. *metric.Registry satisfies it.
type Recorder interface {
	RecordOps(op string, n int)
	ObserveRun(d time.Duration)
	IncVerifyFailure()
	TrackSize(container string, size func() int)
	LockObserver(container string) rwlock.Observer
}

type nopRecorder struct{}

func (nopRecorder) RecordOps(string, int)               {}
func (nopRecorder) ObserveRun(time.Duration)            {}
func (nopRecorder) IncVerifyFailure()                   {}
func (nopRecorder) TrackSize(string, func() int)        {}
func (nopRecorder) LockObserver(string) rwlock.Observer { return nil }
