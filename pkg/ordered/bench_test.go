package ordered

import (
	"fmt"
	"testing"
)

var benchSizes = []int{1000, 10000, 100000}

func prefillMap(count int) *Map[int, int] {
	m := NewMap[int, int]()
	for i := 0; i < count; i++ {
		m.Insert(i, i)
	}
	return m
}

func BenchmarkMap_Insert(b *testing.B) {
	m := NewMap[int, int]()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Put(i, i)
	}
}

func BenchmarkMap_Get(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("entries_%d", size), func(b *testing.B) {
			m := prefillMap(size)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				m.Get(i % size)
			}
		})
	}
}

func BenchmarkMap_ParallelMixed(b *testing.B) {
	m := prefillMap(10000)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if i%10 == 0 {
				m.Put(i%10000, i)
			} else {
				m.Get(i % 10000)
			}
			i++
		}
	})
}

func BenchmarkMap_Each(b *testing.B) {
	m := prefillMap(10000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sum := 0
		m.Each(func(_, v int) { sum += v })
	}
}
