package ordered

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
)

// ErrKeyNotFound is returned by At when the key is absent.
var ErrKeyNotFound = errors.New("ordered: key not found")

// Less reports whether a sorts before b. It must be a strict weak ordering.
type Less[K any] func(a, b K) bool

// Entry is a key-value pair stored in a Map.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Map is a concurrent-safe map that keeps its entries sorted by key.
//
// A Map must be created with one of the constructors and must not be
// copied by value; use Clone for a copy.
type Map[K, V any] struct {
	_ noCopy
	t *tree[Entry[K, V]]
}

// noCopy lets go vet report containers copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// NewMap creates an empty map ordered by cmp.Less.
func NewMap[K cmp.Ordered, V any](opts ...Option) *Map[K, V] {
	return NewMapFunc[K, V](cmp.Less[K], opts...)
}

// NewMapFunc creates an empty map ordered by less.
func NewMapFunc[K, V any](less Less[K], opts ...Option) *Map[K, V] {
	return &Map[K, V]{t: newTree(entryLess[K, V](less), opts)}
}

// NewMapFrom creates a map from the pairs in seq. When seq yields a key more
// than once, the first value wins.
func NewMapFrom[K cmp.Ordered, V any](seq iter.Seq2[K, V], opts ...Option) *Map[K, V] {
	return NewMapFromFunc(cmp.Less[K], seq, opts...)
}

// NewMapFromFunc is NewMapFrom with keys ordered by less.
func NewMapFromFunc[K, V any](less Less[K], seq iter.Seq2[K, V], opts ...Option) *Map[K, V] {
	m := NewMapFunc[K, V](less, opts...)
	for k, v := range seq {
		if !m.t.bt.Has(Entry[K, V]{Key: k}) {
			m.t.bt.ReplaceOrInsert(Entry[K, V]{Key: k, Value: v})
		}
	}
	return m
}

// MapOf creates a map holding entries. When a key repeats, the first entry wins.
func MapOf[K cmp.Ordered, V any](entries ...Entry[K, V]) *Map[K, V] {
	return NewMapOf(entries)
}

// NewMapOf is MapOf with construction options.
func NewMapOf[K cmp.Ordered, V any](entries []Entry[K, V], opts ...Option) *Map[K, V] {
	return NewMapOfFunc(cmp.Less[K], entries, opts...)
}

// NewMapOfFunc creates a map holding entries with keys ordered by less.
func NewMapOfFunc[K, V any](less Less[K], entries []Entry[K, V], opts ...Option) *Map[K, V] {
	m := NewMapFunc[K, V](less, opts...)
	m.t.assignItems(entries)
	return m
}

func entryLess[K, V any](less Less[K]) func(a, b Entry[K, V]) bool {
	return func(a, b Entry[K, V]) bool {
		return less(a.Key, b.Key)
	}
}

func keyEntry[K, V any](key K) Entry[K, V] {
	return Entry[K, V]{Key: key}
}

// Empty reports whether the map has no entries.
func (m *Map[K, V]) Empty() bool {
	return m.t.len() == 0
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return m.t.len()
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	e, ok := m.t.get(keyEntry[K, V](key))
	return e.Value, ok
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) bool {
	return m.t.has(keyEntry[K, V](key))
}

// At returns the value stored under key, or an error wrapping
// ErrKeyNotFound.
func (m *Map[K, V]) At(key K) (V, error) {
	e, ok := m.t.get(keyEntry[K, V](key))
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	return e.Value, nil
}

// Count returns 1 if key is present and 0 otherwise.
func (m *Map[K, V]) Count(key K) int {
	if m.Has(key) {
		return 1
	}
	return 0
}

// LowerBound returns the first entry whose key is not less than key.
func (m *Map[K, V]) LowerBound(key K) (Entry[K, V], bool) {
	return m.t.lowerBound(keyEntry[K, V](key))
}

// UpperBound returns the first entry whose key is greater than key.
func (m *Map[K, V]) UpperBound(key K) (Entry[K, V], bool) {
	return m.t.upperBound(keyEntry[K, V](key))
}

// EqualRange returns the entries between LowerBound(key) and
// UpperBound(key): the entry for key, or nothing.
func (m *Map[K, V]) EqualRange(key K) []Entry[K, V] {
	return m.t.equalRange(keyEntry[K, V](key))
}

// Min returns the entry with the smallest key.
func (m *Map[K, V]) Min() (Entry[K, V], bool) {
	return m.t.min()
}

// Max returns the entry with the largest key.
func (m *Map[K, V]) Max() (Entry[K, V], bool) {
	return m.t.max()
}

// Each calls fn for every entry in ascending key order while holding the
// shared lock for the whole traversal.
func (m *Map[K, V]) Each(fn func(key K, value V)) {
	m.t.ascend(func(e Entry[K, V]) bool {
		fn(e.Key, e.Value)
		return true
	})
}

// Range calls fn for every entry in ascending key order until fn returns false.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	m.t.ascend(func(e Entry[K, V]) bool {
		return fn(e.Key, e.Value)
	})
}

// AscendRange calls fn for every entry with from <= key < to, in order,
// until fn returns false.
func (m *Map[K, V]) AscendRange(from, to K, fn func(key K, value V) bool) {
	m.t.ascendRange(keyEntry[K, V](from), keyEntry[K, V](to), func(e Entry[K, V]) bool {
		return fn(e.Key, e.Value)
	})
}

// All returns an iterator over the entries in ascending key order. The
// shared lock is held from the first to the last step of a range loop.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return m.Range
}

// Keys returns the keys in ascending order.
func (m *Map[K, V]) Keys() []K {
	entries := m.t.items()
	keys := make([]K, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// Values returns the values in ascending key order.
func (m *Map[K, V]) Values() []V {
	entries := m.t.items()
	values := make([]V, len(entries))
	for i, e := range entries {
		values[i] = e.Value
	}
	return values
}

// Entries returns all entries in ascending key order.
func (m *Map[K, V]) Entries() []Entry[K, V] {
	return m.t.items()
}

// Index returns the value stored under key, first inserting the zero value
// if key is absent.
func (m *Map[K, V]) Index(key K) V {
	e, _ := m.t.insert(keyEntry[K, V](key))
	return e.Value
}

// Update stores fn(current, found) under key and returns the stored value.
func (m *Map[K, V]) Update(key K, fn func(value V, found bool) V) V {
	e := m.t.update(keyEntry[K, V](key), func(cur Entry[K, V], found bool) Entry[K, V] {
		return Entry[K, V]{Key: key, Value: fn(cur.Value, found)}
	})
	return e.Value
}

// Insert adds key with value unless key is present. It returns the value now
// stored under key and whether the insert happened; an existing entry is
// left unchanged.
func (m *Map[K, V]) Insert(key K, value V) (V, bool) {
	e, ok := m.t.insert(Entry[K, V]{Key: key, Value: value})
	return e.Value, ok
}

// Put stores value under key, returning the replaced value if there was one.
func (m *Map[K, V]) Put(key K, value V) (V, bool) {
	old, ok := m.t.replace(Entry[K, V]{Key: key, Value: value})
	return old.Value, ok
}

// Emplace inserts key with the value built by fn. fn runs only when key is
// absent, under the exclusive lock.
func (m *Map[K, V]) Emplace(key K, fn func() V) (V, bool) {
	e, ok := m.t.emplace(keyEntry[K, V](key), func() Entry[K, V] {
		return Entry[K, V]{Key: key, Value: fn()}
	})
	return e.Value, ok
}

// EmplaceHint is Emplace with a position hint. The B-tree locates keys on its
// own, so the hint does not change the result.
func (m *Map[K, V]) EmplaceHint(hint K, key K, fn func() V) (V, bool) {
	_ = hint
	return m.Emplace(key, fn)
}

// Delete removes key and returns its value.
func (m *Map[K, V]) Delete(key K) (V, bool) {
	e, ok := m.t.delete(keyEntry[K, V](key))
	return e.Value, ok
}

// DeleteMin removes and returns the entry with the smallest key.
func (m *Map[K, V]) DeleteMin() (Entry[K, V], bool) {
	return m.t.deleteMin()
}

// DeleteMax removes and returns the entry with the largest key.
func (m *Map[K, V]) DeleteMax() (Entry[K, V], bool) {
	return m.t.deleteMax()
}

// DeleteRange removes every entry with from <= key < to and returns the
// number removed.
func (m *Map[K, V]) DeleteRange(from, to K) int {
	return m.t.deleteRange(keyEntry[K, V](from), keyEntry[K, V](to))
}

// Clear removes all entries.
func (m *Map[K, V]) Clear() {
	m.t.clear()
}

// Swap exchanges the contents and ordering of m and other.
func (m *Map[K, V]) Swap(other *Map[K, V]) {
	m.t.swap(other.t)
}

// Assign replaces the contents and ordering of m with a copy of src.
// src is read under its shared lock.
func (m *Map[K, V]) Assign(src *Map[K, V]) {
	m.t.assign(src.t)
}

// AssignEntries replaces the contents of m with entries. When a key repeats,
// the first entry wins.
func (m *Map[K, V]) AssignEntries(entries ...Entry[K, V]) {
	m.t.assignItems(entries)
}

// MoveFrom takes the contents and ordering of src, leaving src empty.
func (m *Map[K, V]) MoveFrom(src *Map[K, V]) {
	m.t.moveFrom(src.t)
}

// Clone returns a copy of m with its own lock.
func (m *Map[K, V]) Clone() *Map[K, V] {
	return &Map[K, V]{t: m.t.clone()}
}

// Move returns a new map with its own lock holding the contents of m, and
// leaves m empty.
func (m *Map[K, V]) Move() *Map[K, V] {
	return &Map[K, V]{t: m.t.move()}
}
