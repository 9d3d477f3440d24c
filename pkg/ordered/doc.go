// Package ordered provides concurrent-safe sorted containers.
//
// Map keeps key-value entries and Set keeps unique elements, both in the
// order of an injected comparison relation. Each container composes a
// private B-tree (github.com/google/btree) with its own reader-writer lock:
//
//   - Queries (Len, Get, LowerBound, Each, ...) hold the shared lock
//   - Mutations (Insert, Delete, Index, Swap, Assign, ...) hold the
//     exclusive lock
//   - Every call performs exactly one tree operation and releases the lock
//     before returning, including when a callback panics
//
// Usage:
//
//	m := ordered.NewMap[string, int]()
//	m.Insert("b", 2)
//	m.Insert("a", 1)
//	m.Each(func(k string, v int) {
//		fmt.Println(k, v) // a 1, b 2
//	})
//
// Callbacks passed to Each, Range, Update and Emplace run while the
// container is locked and must not call back into the same container.
// Only single calls are atomic; sequences of calls are not.
package ordered
