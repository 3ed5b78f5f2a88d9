package reasoner

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// idGenerator mints fresh, stable assertion ids. It is component-scoped
// (one per Engine) rather than process-global, so multiple isolated
// engines can coexist in one process. The counter starts at zero; a tag
// taken from the first four bytes of a random UUID at construction is
// embedded in every id, rather than a wall-clock timestamp, avoiding any
// dependence on clock resolution.
type idGenerator struct {
	counter int64
	clock   int64
	seed    uint32
}

func newIDGenerator() *idGenerator {
	u := uuid.New()
	seed := uint32(u[0])<<24 | uint32(u[1])<<16 | uint32(u[2])<<8 | uint32(u[3])
	return &idGenerator{seed: seed}
}

// fresh returns a new id of the form "<prefix>-<seed>-<n>", unique for the
// lifetime of the generator.
func (g *idGenerator) fresh(prefix string) string {
	n := atomic.AddInt64(&g.counter, 1)
	return fmt.Sprintf("%s-%08x-%d", prefix, g.seed, n)
}

// nextTimestamp returns a monotonically increasing logical timestamp,
// independent of wall-clock resolution so ordering is stable even when
// many assertions commit within the same clock tick.
func (g *idGenerator) nextTimestamp() int64 {
	return atomic.AddInt64(&g.clock, 1)
}
