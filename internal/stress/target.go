package stress

import (
	"github.com/xuleilx/tscontainer/pkg/ordered"
)

// target is the part of a container the workloads exercise.
type target interface {
	insert(key string, worker int) bool
	has(key string) bool
	size() int
	each(fn func(key string))
}

type mapTarget struct {
	m *ordered.Map[string, int]
}

func (t mapTarget) insert(key string, worker int) bool {
	_, ok := t.m.Insert(key, worker)
	return ok
}

func (t mapTarget) has(key string) bool { return t.m.Has(key) }
func (t mapTarget) size() int           { return t.m.Len() }

func (t mapTarget) each(fn func(key string)) {
	t.m.Each(func(k string, _ int) { fn(k) })
}

type setTarget struct {
	s *ordered.Set[string]
}

func (t setTarget) insert(key string, _ int) bool { return t.s.Insert(key) }
func (t setTarget) has(key string) bool           { return t.s.Has(key) }
func (t setTarget) size() int                     { return t.s.Len() }
func (t setTarget) each(fn func(key string))      { t.s.Each(fn) }

func newTarget(set bool, opts []ordered.Option) target {
	if set {
		return setTarget{s: ordered.NewSet[string](opts...)}
	}
	return mapTarget{m: ordered.NewMap[string, int](opts...)}
}

// freeList returns a node pool option matching the element type newTarget
// builds for set.
func freeList(set bool, size int) ordered.Option {
	if set {
		return ordered.WithFreeList(ordered.NewFreeList[string](size))
	}
	return ordered.WithFreeList(ordered.NewMapFreeList[string, int](size))
}
