package stress

import (
	"errors"
	"fmt"
	"iter"

	"github.com/spaolacci/murmur3"
)

// ErrVerification is wrapped by every failed post-run check.
var ErrVerification = errors.New("stress: verification failed")

// Digest hashes keys in sequence order. Two traversals have the same digest
// only if they visit the same keys in the same order.
func Digest(keys iter.Seq[string]) uint64 {
	h := murmur3.New64()
	sep := []byte{0}
	for k := range keys {
		h.Write([]byte(k))
		h.Write(sep)
	}
	return h.Sum64()
}

func traversal(t target) iter.Seq[string] {
	return func(yield func(string) bool) {
		// each has no early exit; drop the rest once the consumer stops.
		stopped := false
		t.each(func(k string) {
			if !stopped && !yield(k) {
				stopped = true
			}
		})
	}
}

// verify checks t against the expected ascending keys and digest.
func verify(t target, sorted []string, want uint64) error {
	if n := t.size(); n != len(sorted) {
		return fmt.Errorf("%w: size %d, want %d", ErrVerification, n, len(sorted))
	}

	for _, k := range sorted {
		if !t.has(k) {
			return fmt.Errorf("%w: key %s missing", ErrVerification, k)
		}
	}

	var (
		prev    string
		visited int
		order   error
	)
	t.each(func(k string) {
		if visited > 0 && k <= prev && order == nil {
			order = fmt.Errorf("%w: %s visited after %s", ErrVerification, k, prev)
		}
		prev = k
		visited++
	})
	if order != nil {
		return order
	}
	if visited != len(sorted) {
		return fmt.Errorf("%w: traversal visited %d, want %d", ErrVerification, visited, len(sorted))
	}

	if got := Digest(traversal(t)); got != want {
		return fmt.Errorf("%w: digest %016x, want %016x", ErrVerification, got, want)
	}
	return nil
}
