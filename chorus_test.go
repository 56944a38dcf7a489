package scsynth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChorusSilenceGating(t *testing.T) {
	settings := NewSettings()
	c := NewChorus(settings, 0, 44100)
	for i := 0; i < 44101; i++ {
		c.Process(0, 0)
	}
	outL, outR := c.Process(0, 0)
	assert.Equal(t, float32(0), outL)
	assert.Equal(t, float32(0), outR)
}

func TestChorusProducesFiniteOutput(t *testing.T) {
	settings := NewSettings()
	settings.SetPatch(ChorusDepth, 0, 20)
	settings.SetPatch(ChorusRate, 0, 30)
	settings.SetPatch(ChorusDelay, 0, 40)
	c := NewChorus(settings, 0, 44100)
	for i := 0; i < 2000; i++ {
		l, r := c.Process(float32(math.Sin(float64(i)*0.05)), float32(math.Sin(float64(i)*0.05)))
		assert.False(t, math.IsNaN(float64(l)))
		assert.False(t, math.IsNaN(float64(r)))
	}
}
