package stress

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Keys returns n distinct ULID strings in ascending order. The same seed and
// timestamp always produce the same keys.
func Keys(n int, seed int64, at time.Time) []string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
	ms := ulid.Timestamp(at)

	keys := make([]string, n)
	for i := range keys {
		keys[i] = ulid.MustNew(ms, entropy).String()
	}
	return keys
}

// shuffled returns a permutation of keys.
func shuffled(keys []string, seed int64) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
