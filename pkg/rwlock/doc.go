// Package rwlock provides the reader-writer lock capability used by the
// ordered containers.
//
// A lock is anything that can be acquired in shared (read) or exclusive
// (write) mode:
//
//   - Standard: a plain sync.RWMutex
//   - DeadlockDetecting: a go-deadlock RWMutex that reports lock-order
//     inversions and recursive acquisition
//   - Instrument: wraps any lock and reports acquisition wait times
//
// Usage:
//
//	mu := rwlock.Standard()
//	defer rwlock.Acquire(mu, rwlock.Shared)()
//
// Locks are not reentrant and cannot be upgraded or downgraded. A holder
// must never acquire the same lock a second time.
package rwlock
