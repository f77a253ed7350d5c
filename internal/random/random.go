// Package random hands out independent random sources for each roll.
//
// Sources are seeded from crypto/rand so concurrent lobbies never share
// generator state.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Seeded returns a deterministic PCG source. Tests use it to replay rolls.
func Seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// New returns a freshly seeded source. It is not safe for concurrent use;
// take a new one per roll.
func New() *rand.Rand {
	seed, err := NewSeed()
	if err != nil {
		// crypto/rand does not fail on supported platforms; fall back to
		// the runtime-seeded global generator just in case.
		seed = rand.Uint64()
	}
	return Seeded(seed)
}
