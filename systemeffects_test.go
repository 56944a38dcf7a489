package scsynth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemEffectsApplyWithZeroSendIsDryOnly(t *testing.T) {
	settings := NewSettings()
	fx := NewSystemEffects(settings, 0, 44100)
	l, r := fx.Apply(0.5, -0.5, 0, 0)
	assert.Equal(t, float32(0.5), l)
	assert.Equal(t, float32(-0.5), r)
}
