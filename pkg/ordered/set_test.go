package ordered

import (
	"slices"
	"strings"
	"testing"

	"github.com/xuleilx/tscontainer/pkg/rwlock"
)

func TestSet_InsertAndHas(t *testing.T) {
	s := NewSet[string]()

	if !s.Insert("b") {
		t.Error("Insert(b) should report true")
	}
	if s.Insert("b") {
		t.Error("second Insert(b) should report false")
	}
	s.Insert("a")

	if !s.Has("a") || !s.Has("b") || s.Has("c") {
		t.Errorf("membership wrong: %v", s.Items())
	}
	if s.Count("a") != 1 || s.Count("c") != 0 {
		t.Error("Count() should be 1 for members and 0 otherwise")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestSet_Delete(t *testing.T) {
	s := SetOf(1, 2, 3)

	if !s.Delete(2) {
		t.Error("Delete(2) should report true")
	}
	if s.Delete(2) {
		t.Error("second Delete(2) should report false")
	}
	if !slices.Equal(s.Items(), []int{1, 3}) {
		t.Errorf("Items() = %v, want [1 3]", s.Items())
	}
}

func TestSet_Order(t *testing.T) {
	s := SetOf(5, 1, 4, 2, 3, 1)

	var got []int
	s.Each(func(k int) { got = append(got, k) })

	if !slices.Equal(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("Each order = %v, want [1 2 3 4 5]", got)
	}
	if lo, _ := s.Min(); lo != 1 {
		t.Errorf("Min() = %d, want 1", lo)
	}
	if hi, _ := s.Max(); hi != 5 {
		t.Errorf("Max() = %d, want 5", hi)
	}
}

func TestSet_Bounds(t *testing.T) {
	s := SetOf(10, 20, 30)

	if k, ok := s.LowerBound(15); !ok || k != 20 {
		t.Errorf("LowerBound(15) = (%d, %v), want (20, true)", k, ok)
	}
	if k, ok := s.UpperBound(20); !ok || k != 30 {
		t.Errorf("UpperBound(20) = (%d, %v), want (30, true)", k, ok)
	}
	if _, ok := s.UpperBound(30); ok {
		t.Error("UpperBound(30) should report false")
	}
	if got := s.EqualRange(10); !slices.Equal(got, []int{10}) {
		t.Errorf("EqualRange(10) = %v, want [10]", got)
	}
}

func TestSet_FindWithPartialOrder(t *testing.T) {
	byFold := func(a, b string) bool { return strings.ToLower(a) < strings.ToLower(b) }
	s := NewSetFunc(byFold)
	s.Insert("Alpha")

	if s.Insert("ALPHA") {
		t.Error("keys equal under the ordering should be duplicates")
	}
	got, ok := s.Find("alpha")
	if !ok || got != "Alpha" {
		t.Errorf("Find(alpha) = (%q, %v), want (\"Alpha\", true)", got, ok)
	}
}

func TestSet_Emplace(t *testing.T) {
	s := NewSet[int]()

	if k, ok := s.Emplace(func() int { return 7 }); !ok || k != 7 {
		t.Errorf("Emplace() = (%d, %v), want (7, true)", k, ok)
	}
	if _, ok := s.EmplaceHint(0, func() int { return 7 }); ok {
		t.Error("EmplaceHint of an existing element should not insert")
	}
}

func TestSet_RangeAndAll(t *testing.T) {
	s := SetOf(1, 2, 3, 4, 5)

	var got []int
	s.AscendRange(2, 4, func(k int) bool {
		got = append(got, k)
		return true
	})
	if !slices.Equal(got, []int{2, 3}) {
		t.Errorf("AscendRange(2, 4) = %v, want [2 3]", got)
	}

	if collected := slices.Collect(s.All()); !slices.Equal(collected, []int{1, 2, 3, 4, 5}) {
		t.Errorf("All() = %v", collected)
	}

	count := 0
	s.Range(func(int) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("Range visited %d, want 1", count)
	}
}

func TestSet_DeleteRangeAndMinMax(t *testing.T) {
	s := SetOf(1, 2, 3, 4, 5, 6)

	if n := s.DeleteRange(2, 4); n != 2 {
		t.Errorf("DeleteRange(2, 4) = %d, want 2", n)
	}
	if k, _ := s.DeleteMin(); k != 1 {
		t.Errorf("DeleteMin() = %d, want 1", k)
	}
	if k, _ := s.DeleteMax(); k != 6 {
		t.Errorf("DeleteMax() = %d, want 6", k)
	}
	if !slices.Equal(s.Items(), []int{4, 5}) {
		t.Errorf("Items() = %v, want [4 5]", s.Items())
	}

	s.Clear()
	if !s.Empty() {
		t.Error("set should be empty after Clear()")
	}
}

func TestSet_Assignment(t *testing.T) {
	a := SetOf("x", "y")
	b := SetOf("z")

	a.Swap(b)
	if !slices.Equal(a.Items(), []string{"z"}) || !slices.Equal(b.Items(), []string{"x", "y"}) {
		t.Errorf("after Swap a=%v b=%v", a.Items(), b.Items())
	}

	a.Assign(b)
	b.Insert("w")
	if !slices.Equal(a.Items(), []string{"x", "y"}) {
		t.Errorf("after Assign a=%v, want [x y]", a.Items())
	}

	a.AssignItems("q", "p", "q")
	if !slices.Equal(a.Items(), []string{"p", "q"}) {
		t.Errorf("after AssignItems a=%v, want [p q]", a.Items())
	}

	a.MoveFrom(b)
	if !b.Empty() || a.Len() != 3 {
		t.Errorf("after MoveFrom a=%v b=%v", a.Items(), b.Items())
	}

	c := a.Clone()
	c.Insert("extra")
	if a.Has("extra") {
		t.Error("Clone must not share storage")
	}

	m := a.Move()
	if !a.Empty() || m.Len() != 3 {
		t.Errorf("after Move a=%v m=%v", a.Items(), m.Items())
	}
}

func TestNewSetFrom(t *testing.T) {
	s := NewSetFrom(slices.Values([]int{3, 1, 2, 3}))
	if !slices.Equal(s.Items(), []int{1, 2, 3}) {
		t.Errorf("Items() = %v, want [1 2 3]", s.Items())
	}
}

func TestNewSetFromFunc(t *testing.T) {
	byFold := func(a, b string) bool { return strings.ToLower(a) < strings.ToLower(b) }
	s := NewSetFromFunc(byFold, slices.Values([]string{"b", "A", "a", "C"}), WithDegree(2))

	if !slices.Equal(s.Items(), []string{"A", "b", "C"}) {
		t.Errorf("Items() = %v, want [A b C]", s.Items())
	}
}

func TestNewSetOf(t *testing.T) {
	s := NewSetOf([]int{3, 1, 2, 3}, WithFreeList(NewFreeList[int](4)), WithLocker(rwlock.DeadlockDetecting))
	if !slices.Equal(s.Items(), []int{1, 2, 3}) {
		t.Errorf("Items() = %v, want [1 2 3]", s.Items())
	}
}

func TestNewSetOfFunc(t *testing.T) {
	desc := func(a, b int) bool { return a > b }
	s := NewSetOfFunc(desc, []int{1, 3, 2})

	if !slices.Equal(s.Items(), []int{3, 2, 1}) {
		t.Errorf("Items() = %v, want [3 2 1]", s.Items())
	}
}

func TestSet_FreeList(t *testing.T) {
	fl := NewFreeList[int](8)
	s := NewSet[int](WithFreeList(fl), WithDegree(3))
	for i := 0; i < 50; i++ {
		s.Insert(i)
	}
	s.Clear()
	for i := 0; i < 50; i++ {
		s.Insert(i)
	}
	if s.Len() != 50 {
		t.Errorf("Len() = %d, want 50", s.Len())
	}
}
