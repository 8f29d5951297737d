package gauntlet

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand picks uniformly in [0, n). Implementations must be safe for concurrent use.
type Rand interface {
	IntN(n int) int
}

type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRand returns a concurrency-safe source. A zero seed is replaced by the clock.
func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed>>1)))}
}

func (r *lockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}
