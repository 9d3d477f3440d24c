package ordered

import (
	"cmp"
	"iter"
)

// Set is a concurrent-safe set of unique elements kept in sorted order.
//
// A Set must be created with one of the constructors and must not be
// copied by value; use Clone for a copy.
type Set[K any] struct {
	_ noCopy
	t *tree[K]
}

// NewSet creates an empty set ordered by cmp.Less.
func NewSet[K cmp.Ordered](opts ...Option) *Set[K] {
	return NewSetFunc[K](cmp.Less[K], opts...)
}

// NewSetFunc creates an empty set ordered by less.
func NewSetFunc[K any](less Less[K], opts ...Option) *Set[K] {
	return &Set[K]{t: newTree(func(a, b K) bool { return less(a, b) }, opts)}
}

// NewSetFrom creates a set from the elements in seq.
func NewSetFrom[K cmp.Ordered](seq iter.Seq[K], opts ...Option) *Set[K] {
	return NewSetFromFunc(cmp.Less[K], seq, opts...)
}

// NewSetFromFunc is NewSetFrom with elements ordered by less. When seq yields
// elements equal under less, the first one wins.
func NewSetFromFunc[K any](less Less[K], seq iter.Seq[K], opts ...Option) *Set[K] {
	s := NewSetFunc[K](less, opts...)
	for k := range seq {
		if !s.t.bt.Has(k) {
			s.t.bt.ReplaceOrInsert(k)
		}
	}
	return s
}

// SetOf creates a set holding items.
func SetOf[K cmp.Ordered](items ...K) *Set[K] {
	return NewSetOf(items)
}

// NewSetOf is SetOf with construction options.
func NewSetOf[K cmp.Ordered](items []K, opts ...Option) *Set[K] {
	return NewSetOfFunc(cmp.Less[K], items, opts...)
}

// NewSetOfFunc creates a set holding items ordered by less.
func NewSetOfFunc[K any](less Less[K], items []K, opts ...Option) *Set[K] {
	s := NewSetFunc[K](less, opts...)
	s.t.assignItems(items)
	return s
}

// Empty reports whether the set has no elements.
func (s *Set[K]) Empty() bool {
	return s.t.len() == 0
}

// Len returns the number of elements.
func (s *Set[K]) Len() int {
	return s.t.len()
}

// Has reports whether key is in the set.
func (s *Set[K]) Has(key K) bool {
	return s.t.has(key)
}

// Find returns the stored element equal to key.
func (s *Set[K]) Find(key K) (K, bool) {
	return s.t.get(key)
}

// Count returns 1 if key is in the set and 0 otherwise.
func (s *Set[K]) Count(key K) int {
	if s.t.has(key) {
		return 1
	}
	return 0
}

// LowerBound returns the first element not less than key.
func (s *Set[K]) LowerBound(key K) (K, bool) {
	return s.t.lowerBound(key)
}

// UpperBound returns the first element greater than key.
func (s *Set[K]) UpperBound(key K) (K, bool) {
	return s.t.upperBound(key)
}

// EqualRange returns the elements between LowerBound(key) and
// UpperBound(key).
func (s *Set[K]) EqualRange(key K) []K {
	return s.t.equalRange(key)
}

// Min returns the smallest element.
func (s *Set[K]) Min() (K, bool) {
	return s.t.min()
}

// Max returns the largest element.
func (s *Set[K]) Max() (K, bool) {
	return s.t.max()
}

// Each calls fn for every element in ascending order while holding the
// shared lock for the whole traversal.
func (s *Set[K]) Each(fn func(key K)) {
	s.t.ascend(func(k K) bool {
		fn(k)
		return true
	})
}

// Range calls fn for every element in ascending order until fn returns false.
func (s *Set[K]) Range(fn func(key K) bool) {
	s.t.ascend(fn)
}

// AscendRange calls fn for every element in [from, to) until fn returns false.
func (s *Set[K]) AscendRange(from, to K, fn func(key K) bool) {
	s.t.ascendRange(from, to, fn)
}

// All returns an iterator over the elements in ascending order.
func (s *Set[K]) All() iter.Seq[K] {
	return s.Range
}

// Items returns the elements in ascending order.
func (s *Set[K]) Items() []K {
	return s.t.items()
}

// Insert adds key and reports whether it was absent.
func (s *Set[K]) Insert(key K) bool {
	_, ok := s.t.insert(key)
	return ok
}

// Emplace inserts the element built by fn. fn runs before the lock is taken,
// since the element is its own key.
func (s *Set[K]) Emplace(fn func() K) (K, bool) {
	return s.t.insert(fn())
}

// EmplaceHint is Emplace with a position hint. The hint does not change the
// result.
func (s *Set[K]) EmplaceHint(hint K, fn func() K) (K, bool) {
	_ = hint
	return s.Emplace(fn)
}

// Delete removes key and reports whether it was present.
func (s *Set[K]) Delete(key K) bool {
	_, ok := s.t.delete(key)
	return ok
}

// DeleteMin removes and returns the smallest element.
func (s *Set[K]) DeleteMin() (K, bool) {
	return s.t.deleteMin()
}

// DeleteMax removes and returns the largest element.
func (s *Set[K]) DeleteMax() (K, bool) {
	return s.t.deleteMax()
}

// DeleteRange removes every element in [from, to) and returns the number
// removed.
func (s *Set[K]) DeleteRange(from, to K) int {
	return s.t.deleteRange(from, to)
}

// Clear removes all elements.
func (s *Set[K]) Clear() {
	s.t.clear()
}

// Swap exchanges the contents and ordering of s and other.
func (s *Set[K]) Swap(other *Set[K]) {
	s.t.swap(other.t)
}

// Assign replaces the contents and ordering of s with a copy of src.
func (s *Set[K]) Assign(src *Set[K]) {
	s.t.assign(src.t)
}

// AssignItems replaces the contents of s with items.
func (s *Set[K]) AssignItems(items ...K) {
	s.t.assignItems(items)
}

// MoveFrom takes the contents and ordering of src, leaving src empty.
func (s *Set[K]) MoveFrom(src *Set[K]) {
	s.t.moveFrom(src.t)
}

// Clone returns a copy of s with its own lock.
func (s *Set[K]) Clone() *Set[K] {
	return &Set[K]{t: s.t.clone()}
}

// Move returns a new set with its own lock holding the contents of s, and
// leaves s empty.
func (s *Set[K]) Move() *Set[K] {
	return &Set[K]{t: s.t.move()}
}
