package engine

import (
	"math/rand"
	"time"
)

// Rand is the randomness the engine consumes: dice, destination sampling and
// the trivia reward draw. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a seeded source
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

func defaultRand() Rand {
	return NewRand(time.Now().UnixNano())
}

// sampleDistinct picks n distinct entries from ids with a partial shuffle
func sampleDistinct[T any](rng Rand, ids []T, n int) []T {
	pool := append([]T(nil), ids...)
	if n > len(pool) {
		n = len(pool)
	}
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
