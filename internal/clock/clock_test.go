package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock_Advance(t *testing.T) {
	c := Fixed(1_000)
	assert.Equal(t, int64(1_000), c.NowMs())

	c.Advance(2 * time.Second)
	assert.Equal(t, int64(3_000), c.NowMs())

	c.Set(42)
	assert.Equal(t, int64(42), c.NowMs())
}

func TestSequence_RepeatsLastValue(t *testing.T) {
	rng := Sequence(0.1, 0.9)

	assert.Equal(t, 0.1, rng.Float64())
	assert.Equal(t, 0.9, rng.Float64())
	assert.Equal(t, 0.9, rng.Float64())
	assert.Equal(t, 3, rng.Draws())
}

func TestSequence_Empty(t *testing.T) {
	rng := Sequence()
	assert.Equal(t, 0.0, rng.Float64())
	assert.Equal(t, 1, rng.Draws())
}

func TestNewSeeded_Replayable(t *testing.T) {
	a := NewSeeded(7)
	b := NewSeeded(7)
	for i := 0; i < 20; i++ {
		va, vb := a.Float64(), b.Float64()
		assert.Equal(t, va, vb)
		assert.GreaterOrEqual(t, va, 0.0)
		assert.Less(t, va, 1.0)
	}
}

func TestCryptoRNG_Range(t *testing.T) {
	rng := CryptoRNG()
	for i := 0; i < 100; i++ {
		v := rng.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestDateKey(t *testing.T) {
	ms := time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, "2024-03-09", DateKey(ms, time.UTC))

	tokyo := time.FixedZone("JST", 9*3600)
	assert.Equal(t, "2024-03-10", DateKey(ms, tokyo))
}

func TestDaysBetweenKeys(t *testing.T) {
	tests := []struct {
		a, b string
		want int
		ok   bool
	}{
		{"2024-01-01", "2024-01-01", 0, true},
		{"2024-01-01", "2024-01-02", 1, true},
		{"2024-02-28", "2024-03-01", 2, true},
		{"2024-01-05", "2024-01-01", -4, true},
		{"", "2024-01-01", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.a+"->"+tt.b, func(t *testing.T) {
			got, ok := DaysBetweenKeys(tt.a, tt.b)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
