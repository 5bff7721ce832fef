// Package entropy provides seeded, reproducible random streams. Each
// (side, turn) pair gets its own stream so re-running a turn reproduces
// the same decisions.
package entropy

import "math/rand"

// Streams derives per-(side, turn) random streams from one seed.
type Streams struct {
	seed int64
	zero bool
}

// NewStreams creates a stream family from a seed.
func NewStreams(seed int64) *Streams {
	return &Streams{seed: seed}
}

// Zero returns a family whose streams always yield zero jitter and the
// lowest index. Used to strip randomness in tests.
func Zero() *Streams {
	return &Streams{zero: true}
}

// Seed returns the family seed.
func (s *Streams) Seed() int64 {
	return s.seed
}

// For returns the stream for a side on a turn. Calling For twice with the
// same arguments yields identical sequences.
func (s *Streams) For(side, turn int) *Stream {
	if s == nil || s.zero {
		return &Stream{}
	}
	mixed := s.seed*1_000_003 + int64(side)*7_919 + int64(turn)
	return &Stream{rng: rand.New(rand.NewSource(mixed))}
}

// Stream is a single reproducible sequence.
type Stream struct {
	rng *rand.Rand
}

// Jitter returns a value uniformly drawn from [-bound, bound].
func (s *Stream) Jitter(bound int) int {
	if s.rng == nil || bound <= 0 {
		return 0
	}
	return s.rng.Intn(2*bound+1) - bound
}

// Intn returns a value in [0, n).
func (s *Stream) Intn(n int) int {
	if s.rng == nil || n <= 0 {
		return 0
	}
	return s.rng.Intn(n)
}

// Float returns a value in [0, 1).
func (s *Stream) Float() float64 {
	if s.rng == nil {
		return 0
	}
	return s.rng.Float64()
}
