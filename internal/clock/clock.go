// Package clock provides the time and randomness sources used by every
// rules engine. Engines never call time.Now or math/rand directly; they take
// a Clock and an RNG so tests can pin both.
package clock

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
	"time"
)

// Clock reports the current wall-clock time in Unix milliseconds.
type Clock interface {
	NowMs() int64
}

// RNG yields uniformly distributed floats in [0, 1).
type RNG interface {
	Float64() float64
}

type systemClock struct{}

func (systemClock) NowMs() int64 { return time.Now().UnixMilli() }

// System returns the production wall clock.
func System() Clock { return systemClock{} }

// FixedClock is a manually driven clock for tests and replays.
type FixedClock struct {
	mu sync.Mutex
	ms int64
}

// Fixed returns a clock frozen at ms until advanced.
func Fixed(ms int64) *FixedClock {
	return &FixedClock{ms: ms}
}

func (c *FixedClock) NowMs() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ms
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ms += d.Milliseconds()
}

// Set pins the clock to ms.
func (c *FixedClock) Set(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ms = ms
}

type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return rand.Float64()
	}
	// 53 bits => uniform in [0, 1)
	u := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(u) / (1 << 53)
}

// CryptoRNG is the default production randomness source.
func CryptoRNG() RNG { return cryptoRNG{} }

type seededRNG struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeeded returns a replayable RNG.
func NewSeeded(seed uint64) RNG {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// SequenceRNG replays a fixed list of values and counts draws. Once the
// list is exhausted the last value repeats.
type SequenceRNG struct {
	mu     sync.Mutex
	values []float64
	draws  int
}

// Sequence builds a SequenceRNG. With no values it always returns 0.
func Sequence(values ...float64) *SequenceRNG {
	return &SequenceRNG{values: append([]float64(nil), values...)}
}

// FixedRNG always returns v.
func FixedRNG(v float64) *SequenceRNG {
	return Sequence(v)
}

func (s *SequenceRNG) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draws++
	if len(s.values) == 0 {
		return 0
	}
	idx := s.draws - 1
	if idx >= len(s.values) {
		idx = len(s.values) - 1
	}
	return s.values[idx]
}

// Draws reports how many values have been consumed.
func (s *SequenceRNG) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draws
}
