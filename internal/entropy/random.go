// Package entropy provides the model's single seeded random source.
// Every stochastic decision in the simulation (placement, movement, trade
// gate, trade terms, scheduler order) draws from one Source, so an identical
// seed reproduces an identical run.
package entropy

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// Source is the subset of randomness the simulation consumes. *rand.Rand
// satisfies it; tests substitute scripted fakes to force outcomes.
type Source interface {
	// Intn returns a uniform int in [0, n). Panics if n <= 0.
	Intn(n int) int
	// Int63n returns a uniform int64 in [0, n).
	Int63n(n int64) int64
	// Float64 returns a uniform float64 in [0, 1).
	Float64() float64
	// Shuffle pseudo-randomizes the order of n elements.
	Shuffle(n int, swap func(i, j int))
}

// NewSource returns a deterministic source for the given seed.
// A zero seed is replaced with a crypto-random one, so casual runs differ
// while explicit seeds stay reproducible.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = cryptoSeed()
	}
	return rand.New(rand.NewSource(seed))
}

// cryptoSeed draws a non-zero int64 from crypto/rand.
func cryptoSeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// crypto/rand never fails in practice; a fixed seed beats a panic here.
		return 1
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}

// Bernoulli returns true with probability p.
func Bernoulli(src Source, p float64) bool {
	return src.Float64() < p
}

// PickInt64 returns a uniformly chosen element of choices.
func PickInt64(src Source, choices []int64) int64 {
	return choices[src.Intn(len(choices))]
}
