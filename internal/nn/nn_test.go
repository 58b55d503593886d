package nn

import "math/rand"

// newTestRNG returns a seeded source so test tensors are reproducible.
func newTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
