package ordered

import (
	"unsafe"

	"github.com/google/btree"

	"github.com/xuleilx/tscontainer/pkg/rwlock"
)

// tree is the lock-guarded B-tree shared by Map and Set.
//
// mu guards bt and less. opts is immutable after construction.
type tree[T any] struct {
	mu   rwlock.RWLocker
	bt   *btree.BTreeG[T]
	less btree.LessFunc[T]
	opts options
}

func newTree[T any](less btree.LessFunc[T], opts []Option) *tree[T] {
	return newTreeWith(less, buildOptions(opts))
}

func newTreeWith[T any](less btree.LessFunc[T], o options) *tree[T] {
	return &tree[T]{
		mu:   o.newLock(),
		bt:   newBTree(&o, less),
		less: less,
		opts: o,
	}
}

// lockWith acquires t and o in address order so that two calls locking the
// same pair from opposite sides cannot deadlock.
func (t *tree[T]) lockWith(tm rwlock.Mode, o *tree[T], om rwlock.Mode) (release func()) {
	if uintptr(unsafe.Pointer(t)) < uintptr(unsafe.Pointer(o)) {
		return rwlock.LockPair(t.mu, tm, o.mu, om)
	}
	return rwlock.LockPair(o.mu, om, t.mu, tm)
}

func (t *tree[T]) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.bt.Len()
}

func (t *tree[T]) get(key T) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.bt.Get(key)
}

func (t *tree[T]) has(key T) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.bt.Has(key)
}

func (t *tree[T]) min() (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.bt.Min()
}

func (t *tree[T]) max() (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.bt.Max()
}

// lowerBound returns the first item not less than key.
func (t *tree[T]) lowerBound(key T) (item T, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.bt.AscendGreaterOrEqual(key, func(i T) bool {
		item, ok = i, true
		return false
	})
	return item, ok
}

// upperBound returns the first item greater than key.
func (t *tree[T]) upperBound(key T) (item T, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.bt.AscendGreaterOrEqual(key, func(i T) bool {
		if !t.less(key, i) {
			return true
		}
		item, ok = i, true
		return false
	})
	return item, ok
}

// equalRange returns the items between lowerBound and upperBound of key.
func (t *tree[T]) equalRange(key T) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []T
	t.bt.AscendGreaterOrEqual(key, func(i T) bool {
		if t.less(key, i) {
			return false
		}
		out = append(out, i)
		return true
	})
	return out
}

func (t *tree[T]) ascend(fn func(T) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.bt.Ascend(btree.ItemIteratorG[T](fn))
}

func (t *tree[T]) ascendRange(from, to T, fn func(T) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.bt.AscendRange(from, to, btree.ItemIteratorG[T](fn))
}

func (t *tree[T]) items() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, t.bt.Len())
	t.bt.Ascend(func(i T) bool {
		out = append(out, i)
		return true
	})
	return out
}

// insert adds item unless an equal item exists. It returns the stored item
// and whether item was inserted.
func (t *tree[T]) insert(item T) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.bt.Get(item); ok {
		return existing, false
	}
	t.bt.ReplaceOrInsert(item)
	return item, true
}

// emplace builds and inserts an item only when key is absent.
func (t *tree[T]) emplace(key T, build func() T) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.bt.Get(key); ok {
		return existing, false
	}
	item := build()
	t.bt.ReplaceOrInsert(item)
	return item, true
}

// replace inserts item, returning the item it replaced, if any.
func (t *tree[T]) replace(item T) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bt.ReplaceOrInsert(item)
}

// update stores fn(current, found) in place of key.
func (t *tree[T]) update(key T, fn func(cur T, found bool) T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur, found := t.bt.Get(key)
	if !found {
		cur = key
	}
	next := fn(cur, found)
	t.bt.ReplaceOrInsert(next)
	return next
}

func (t *tree[T]) delete(key T) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bt.Delete(key)
}

func (t *tree[T]) deleteMin() (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bt.DeleteMin()
}

func (t *tree[T]) deleteMax() (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bt.DeleteMax()
}

// deleteRange removes every item in [from, to) and returns how many.
func (t *tree[T]) deleteRange(from, to T) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	var doomed []T
	t.bt.AscendRange(from, to, func(i T) bool {
		doomed = append(doomed, i)
		return true
	})
	for _, i := range doomed {
		t.bt.Delete(i)
	}
	return len(doomed)
}

func (t *tree[T]) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bt.Clear(t.opts.freeList != nil)
}

// swap exchanges contents and ordering with o. Locks stay with their owners.
func (t *tree[T]) swap(o *tree[T]) {
	if t == o {
		return
	}
	defer t.lockWith(rwlock.Exclusive, o, rwlock.Exclusive)()
	t.bt, o.bt = o.bt, t.bt
	t.less, o.less = o.less, t.less
}

// assign replaces t's contents and ordering with a copy of src.
func (t *tree[T]) assign(src *tree[T]) {
	if t == src {
		return
	}
	defer t.lockWith(rwlock.Exclusive, src, rwlock.Shared)()
	t.bt = copyBTree(&t.opts, src.bt, src.less)
	t.less = src.less
}

// assignItems replaces t's contents with items, keeping the first of any
// equal items.
func (t *tree[T]) assignItems(items []T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	bt := newBTree(&t.opts, t.less)
	for _, i := range items {
		if !bt.Has(i) {
			bt.ReplaceOrInsert(i)
		}
	}
	t.bt = bt
}

// moveFrom takes src's contents and ordering, leaving src empty.
func (t *tree[T]) moveFrom(src *tree[T]) {
	if t == src {
		return
	}
	defer t.lockWith(rwlock.Exclusive, src, rwlock.Exclusive)()
	t.bt, t.less = src.bt, src.less
	src.bt = newBTree(&src.opts, src.less)
}

// clone returns an independent copy of t with a new lock.
func (t *tree[T]) clone() *tree[T] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := newTreeWith(t.less, t.opts)
	out.bt = copyBTree(&out.opts, t.bt, t.less)
	return out
}

// move returns a tree with a new lock owning t's contents, leaving t empty.
func (t *tree[T]) move() *tree[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := newTreeWith(t.less, t.opts)
	out.bt = t.bt
	t.bt = newBTree(&t.opts, t.less)
	return out
}

func copyBTree[T any](o *options, src *btree.BTreeG[T], less btree.LessFunc[T]) *btree.BTreeG[T] {
	dst := newBTree(o, less)
	src.Ascend(func(i T) bool {
		dst.ReplaceOrInsert(i)
		return true
	})
	return dst
}
