package template

import (
	mathrand "math/rand/v2"

	"github.com/google/uuid"
)

// intN returns a random int in [0, n) from the engine's seeded source, or
// from the global math/rand/v2 source when the engine is unseeded.
func (e *Engine) intN(n int) int {
	if n <= 0 {
		return 0
	}
	if e.rng == nil {
		return mathrand.IntN(n)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.IntN(n)
}

// newUUID returns a version 4 UUID. Seeded engines derive it from the PRNG
// so output is reproducible; otherwise uuid.New uses crypto/rand.
func (e *Engine) newUUID() string {
	if e.rng == nil {
		return uuid.NewString()
	}

	var b uuid.UUID
	e.mu.Lock()
	for i := range b {
		b[i] = byte(e.rng.IntN(256))
	}
	e.mu.Unlock()

	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return b.String()
}
