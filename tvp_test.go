package scsynth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func neutralInstPartial() *InstPartial {
	return &InstPartial{
		PitchKeyFlw: 0x4a, // pitchKeyFollow == 1.0
		CoarsePitch: 64,   // coarse offset 0
		FinePitch:   64,   // fine offset 0
		PitchDur:    [5]uint8{0, 0, 0, 0, 0},
		PitchLvl:    [5]uint8{64, 64, 64, 64, 64},
	}
}

func neutralSettings() *Settings {
	s := NewSettings()
	return s
}

func TestTVPMultiplierIsPositiveAndFinite(t *testing.T) {
	var lut LookupTables
	ip := neutralInstPartial()
	samp := &Sample{Pitch: 1024, RootKey: 60}
	settings := neutralSettings()

	tvp := NewTVP(&lut, ip, samp, 60, 60, settings, 0, 44100)
	mult := tvp.Multiplier(0, 0)
	assert.Greater(t, mult, 0.0)
	assert.Less(t, mult, 1e6)
}

func TestTVPHigherKeyRaisesPitch(t *testing.T) {
	var lut LookupTables
	ip := neutralInstPartial()
	samp := &Sample{Pitch: 1024, RootKey: 60}
	settings := neutralSettings()

	low := NewTVP(&lut, ip, samp, 48, 60, settings, 0, 44100).Multiplier(0, 0)
	high := NewTVP(&lut, ip, samp, 72, 60, settings, 0, 44100).Multiplier(0, 0)
	assert.Greater(t, high, low)
}

func TestTVPReleaseForwardsToEnvelope(t *testing.T) {
	var lut LookupTables
	for i := range lut.EnvelopeTime {
		lut.EnvelopeTime[i] = 1
	}
	ip := neutralInstPartial()
	samp := &Sample{Pitch: 1024, RootKey: 60}
	settings := neutralSettings()
	tvp := NewTVP(&lut, ip, samp, 60, 60, settings, 0, 44100)
	tvp.Release()
	assert.True(t, tvp.env.phase == envRelease || tvp.env.phase == envFinished)
}
