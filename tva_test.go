package scsynth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertVolumeMonotonicallyIncreasing(t *testing.T) {
	prev := convertVolume(0)
	for v := 10.0; v <= 127; v += 10 {
		cur := convertVolume(v)
		assert.Greater(t, cur, prev)
		prev = cur
	}
}

func TestConvertVolumeZeroIsZero(t *testing.T) {
	assert.InDelta(t, 0.0, convertVolume(0), 1e-9)
}

func TestTVAPanpotLockedIgnoresTargetChanges(t *testing.T) {
	var lut LookupTables
	for i := range lut.TVAPanpot {
		lut.TVAPanpot[i] = uint8(i)
	}
	ip := &InstPartial{TVAVol: [4]uint8{0, 0, 0, 0}, TVALen: [5]uint8{0, 0, 0, 0, 0}}
	tva := NewTVA(&lut, ip, 0, 64, true, 44100, nil, 0)
	tva.SetPanpotTarget(100)
	assert.Equal(t, 64.0, tva.panpot)
}

func TestTVAPanpotSmoothingStepsTowardTarget(t *testing.T) {
	var lut LookupTables
	for i := range lut.TVAPanpot {
		lut.TVAPanpot[i] = 127
	}
	for i := range lut.TVALevel {
		lut.TVALevel[i] = 255
	}
	ip := &InstPartial{TVAVol: [4]uint8{127, 127, 127, 127}, TVALen: [5]uint8{0, 0, 0, 0, 0}}
	tva := NewTVA(&lut, ip, 0, 0, false, 44100, nil, 0)
	tva.SetPanpotTarget(10)
	tva.Process(1, 0, 0, 1)
	assert.Equal(t, 1.0, tva.panpot)
}

func TestTVAFinishedAfterRelease(t *testing.T) {
	var lut LookupTables
	for i := range lut.EnvelopeTime {
		lut.EnvelopeTime[i] = 1
	}
	for i := range lut.TVAPanpot {
		lut.TVAPanpot[i] = 64
	}
	ip := &InstPartial{TVAVol: [4]uint8{0, 0, 0, 0}, TVALen: [5]uint8{0, 0, 0, 0, 0}}
	tva := NewTVA(&lut, ip, 0, 64, false, 44100, nil, 0)
	tva.Release()
	for i := 0; i < 10000; i++ {
		tva.Process(1, 0, 0, 1)
	}
	assert.True(t, tva.Finished())
}
