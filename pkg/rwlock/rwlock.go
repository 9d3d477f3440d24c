package rwlock

import (
	"io"
	"sync"
	"time"

	"github.com/sasha-s/go-deadlock"
)

// RWLocker is a mutual-exclusion lock with shared and exclusive modes.
//
// *sync.RWMutex and *deadlock.RWMutex both satisfy it.
type RWLocker interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

// Factory creates a fresh, unlocked RWLocker.
type Factory func() RWLocker

// Standard returns a new sync.RWMutex.
func Standard() RWLocker {
	return new(sync.RWMutex)
}

// DeadlockDetecting returns a new go-deadlock RWMutex.
//
// Detection behavior is process-wide; see ConfigureDetection.
func DeadlockDetecting() RWLocker {
	return new(deadlock.RWMutex)
}

// ConfigureDetection sets how long a DeadlockDetecting lock may wait before
// it is reported, and what happens on a report. A nil onReport keeps the
// go-deadlock default, which exits the process. It must be called before any
// DeadlockDetecting lock is in use.
func ConfigureDetection(timeout time.Duration, out io.Writer, onReport func()) {
	deadlock.Opts.DeadlockTimeout = timeout
	if out != nil {
		deadlock.Opts.LogBuf = out
	}
	if onReport != nil {
		deadlock.Opts.OnPotentialDeadlock = onReport
	}
}

// Mode is the acquisition mode of a lock.
type Mode int

const (
	// Shared permits any number of concurrent holders.
	Shared Mode = iota
	// Exclusive permits exactly one holder.
	Exclusive
)

// String returns the mode name used in logs and metric labels.
func (m Mode) String() string {
	switch m {
	case Shared:
		return "shared"
	case Exclusive:
		return "exclusive"
	default:
		return "unknown"
	}
}

// Acquire acquires l in mode m and returns the matching release.
//
//	defer rwlock.Acquire(mu, rwlock.Exclusive)()
func Acquire(l RWLocker, m Mode) (release func()) {
	if m == Exclusive {
		l.Lock()
		return l.Unlock
	}
	l.RLock()
	return l.RUnlock
}

// LockPair acquires two distinct locks, a before b, and returns a single
// release that drops them in reverse order.
//
// Callers that may lock the same pair from opposite sides must agree on a
// total order and pass the locks accordingly.
func LockPair(a RWLocker, am Mode, b RWLocker, bm Mode) (release func()) {
	releaseA := Acquire(a, am)
	releaseB := Acquire(b, bm)
	return func() {
		releaseB()
		releaseA()
	}
}

// Observer receives the time spent waiting for each acquisition.
type Observer interface {
	ObserveAcquire(m Mode, wait time.Duration)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(m Mode, wait time.Duration)

// ObserveAcquire calls f(m, wait).
func (f ObserverFunc) ObserveAcquire(m Mode, wait time.Duration) {
	f(m, wait)
}

type instrumented struct {
	l   RWLocker
	obs Observer
}

// Instrument wraps l so that every acquisition reports its wait time to obs.
// A nil observer returns l unchanged.
func Instrument(l RWLocker, obs Observer) RWLocker {
	if obs == nil {
		return l
	}
	return &instrumented{l: l, obs: obs}
}

func (i *instrumented) Lock() {
	start := time.Now()
	i.l.Lock()
	i.obs.ObserveAcquire(Exclusive, time.Since(start))
}

func (i *instrumented) Unlock() {
	i.l.Unlock()
}

func (i *instrumented) RLock() {
	start := time.Now()
	i.l.RLock()
	i.obs.ObserveAcquire(Shared, time.Since(start))
}

func (i *instrumented) RUnlock() {
	i.l.RUnlock()
}
