package scsynth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLFODelayGatesOutput(t *testing.T) {
	l := NewLFO(uint8(lfoSquare), 80, 10, 0, 44100)
	// lfoDelaySamples(10, 44100) is nonzero, so the first few Next calls
	// must return silence.
	assert.Equal(t, float32(0), l.Next())
}

func TestLFOSquareWaveformAlternates(t *testing.T) {
	l := NewLFO(uint8(lfoSquare), 200, 0, 0, 44100)
	first := l.Next()
	assert.Equal(t, float32(1), first)

	sawNeg := false
	for i := 0; i < 20; i++ {
		if l.Next() == -1 {
			sawNeg = true
		}
	}
	assert.True(t, sawNeg, "square wave must reach -1 within its first cycle")
}

func TestLFOSawtoothRange(t *testing.T) {
	l := NewLFO(uint8(lfoSawtooth), 200, 0, 0, 44100)
	for i := 0; i < 1000; i++ {
		v := l.Next()
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestLFOFadeRampsFromZero(t *testing.T) {
	l := NewLFO(uint8(lfoSquare), 200, 0, 1, 44100)
	first := l.Next()
	assert.Equal(t, float32(0), first, "fade should start output at zero amplitude")
}

func TestLFOValueMatchesLastNext(t *testing.T) {
	l := NewLFO(uint8(lfoTriangle), 50, 0, 0, 44100)
	v := l.Next()
	assert.Equal(t, v, l.Value())
}

func TestLFORandomStaysInRange(t *testing.T) {
	l := NewLFO(uint8(lfoRandom), 200, 0, 0, 44100)
	for i := 0; i < 2000; i++ {
		v := l.Next()
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestClampFloat(t *testing.T) {
	assert.Equal(t, 0.0, clampFloat(-5, 0, 127))
	assert.Equal(t, 127.0, clampFloat(500, 0, 127))
	assert.Equal(t, 64.0, clampFloat(64, 0, 127))
}
