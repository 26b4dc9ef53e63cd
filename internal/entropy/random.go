// Package entropy provides the seeded random stream the conflict engine draws
// from. Every stochastic decision goes through a Source so that two runs with
// the same seed replay identically.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"math"
	mrand "math/rand/v2"
)

// Source is a deterministic PCG stream. Not safe for concurrent use; each
// simulated world owns one.
type Source struct {
	seed uint64
	rng  *mrand.Rand
}

// New creates a source from seed. The same seed always yields the same
// sequence of draws.
func New(seed uint64) *Source {
	return &Source{
		seed: seed,
		rng:  mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() uint64 {
	return s.seed
}

// Rand exposes the underlying generator for helpers that take *rand.Rand.
func (s *Source) Rand() *mrand.Rand {
	return s.rng
}

// Float64 returns a uniform value in [0, 1).
func (s *Source) Float64() float64 {
	return s.rng.Float64()
}

// Range returns a uniform value in [lo, hi).
func (s *Source) Range(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// IntRange returns a uniform integer in [lo, hi], both inclusive.
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.IntN(hi-lo+1)
}

// Chance reports true with probability p.
func (s *Source) Chance(p float64) bool {
	return s.rng.Float64() < p
}

// NewSeed returns a fresh seed from crypto/rand, for runs started with
// seed 0. Never returns 0.
func NewSeed() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand doesn't fail on supported platforms.
		slog.Warn("crypto/rand unavailable, using fixed seed", "error", err)
		return 1
	}
	// Keep it representable as a positive int64 for env vars and SQLite.
	n := binary.LittleEndian.Uint64(buf[:]) & math.MaxInt64
	if n == 0 {
		return 1
	}
	return n
}

// Derive returns a seed for the n-th independent run of a batch.
func Derive(seed uint64, n int) uint64 {
	// splitmix64 finalizer
	z := seed + uint64(n)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return (z ^ (z >> 31)) & math.MaxInt64
}
