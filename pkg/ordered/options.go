package ordered

import (
	"fmt"

	"github.com/google/btree"

	"github.com/xuleilx/tscontainer/pkg/rwlock"
)

// DefaultDegree is the B-tree degree used when none is configured.
const DefaultDegree = 32

// FreeList is a pool of B-tree nodes. It is safe to share one free list
// between containers of the same element type.
type FreeList[T any] = btree.FreeListG[T]

// NewFreeList creates a node free list holding at most size nodes.
func NewFreeList[T any](size int) *FreeList[T] {
	return btree.NewFreeListG[T](size)
}

// NewMapFreeList creates a node free list for Map[K, V] containers.
func NewMapFreeList[K, V any](size int) *FreeList[Entry[K, V]] {
	return NewFreeList[Entry[K, V]](size)
}

type options struct {
	degree   int
	freeList any
	locker   rwlock.Factory
	observer rwlock.Observer
}

// Option configures a container at construction time.
type Option func(*options)

// WithDegree sets the B-tree degree. Values below 2 fall back to DefaultDegree.
func WithDegree(degree int) Option {
	return func(o *options) {
		o.degree = degree
	}
}

// WithFreeList makes the container allocate tree nodes from fl.
//
// The element type must match the container: K for Set[K] and Entry[K, V]
// for Map[K, V]. A mismatch panics at construction.
func WithFreeList[T any](fl *FreeList[T]) Option {
	return func(o *options) {
		o.freeList = fl
	}
}

// WithLocker sets the factory used to create the container's lock.
// Every container, including clones and moved-to containers, calls the
// factory once for its own lock.
func WithLocker(f rwlock.Factory) Option {
	return func(o *options) {
		o.locker = f
	}
}

// WithObserver reports lock wait times of the container to obs.
func WithObserver(obs rwlock.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

func buildOptions(opts []Option) options {
	o := options{
		degree: DefaultDegree,
		locker: rwlock.Standard,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.degree < 2 {
		o.degree = DefaultDegree
	}
	if o.locker == nil {
		o.locker = rwlock.Standard
	}
	return o
}

func (o *options) newLock() rwlock.RWLocker {
	return rwlock.Instrument(o.locker(), o.observer)
}

func newBTree[T any](o *options, less btree.LessFunc[T]) *btree.BTreeG[T] {
	if o.freeList == nil {
		return btree.NewG(o.degree, less)
	}
	fl, ok := o.freeList.(*btree.FreeListG[T])
	if !ok {
		var zero T
		panic(fmt.Sprintf("ordered: free list %T does not hold elements of type %T", o.freeList, zero))
	}
	return btree.NewWithFreeListG(o.degree, less, fl)
}
