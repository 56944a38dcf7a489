package scsynth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSettingsFactoryDefaults(t *testing.T) {
	s := NewSettings()
	assert.Equal(t, byte(0x7f), s.GetSystem(SysVolume))
	assert.Equal(t, byte(0x40), s.GetSystem(SysPan))
	assert.Equal(t, byte(17), s.GetSystem(SysDeviceID))

	assert.Equal(t, byte(1), s.GetPatch(RxChannel, 0))
	assert.Equal(t, byte(16), s.GetPatch(RxChannel, 15))
	assert.Equal(t, byte(0x64), s.GetPatch(PartLevel, 0))
	assert.Equal(t, byte(0x40), s.GetPatch(PartPanpot, 0))

	// Part 10 (index 9) is preset to drum map 1 on GS reset.
	assert.Equal(t, byte(1), s.GetPatch(UseForRhythm, 9))
}

func TestSettingsSystemRoundTrip(t *testing.T) {
	s := NewSettings()
	s.SetSystem(SysVolume, 42)
	assert.Equal(t, byte(42), s.GetSystem(SysVolume))
}

func TestSettingsPatchUint16RoundTrip(t *testing.T) {
	s := NewSettings()
	s.SetPatchUint16(PitchFineTune, 3, 0x1234)
	assert.Equal(t, uint16(0x1234), s.GetPatchUint16(PitchFineTune, 3))
	// Other parts are unaffected.
	assert.NotEqual(t, uint16(0x1234), s.GetPatchUint16(PitchFineTune, 4))
}

func TestSettingsPatchBytesRoundTrip(t *testing.T) {
	s := NewSettings()
	s.SetPatchBytes(PatchName, 0, []byte("HELLO"))
	assert.Equal(t, []byte("HELLO"), s.GetPatchBytes(PatchName, 0, 5))
}

func TestSettingsDrumRoundTrip(t *testing.T) {
	s := NewSettings()
	assert.Equal(t, byte(0x7f), s.GetDrum(DrumLevel, 0, 36))
	s.SetDrum(DrumLevel, 0, 36, 10)
	assert.Equal(t, byte(10), s.GetDrum(DrumLevel, 0, 36))
	assert.Equal(t, byte(0x7f), s.GetDrum(DrumLevel, 1, 36))
}

func TestPartIndexClampsOutOfRange(t *testing.T) {
	assert.Equal(t, 0, partIndex(-1))
	assert.Equal(t, 0, partIndex(16))
	assert.Equal(t, 5, partIndex(5))
}

func TestSettingsOnChangeFiresOnWrite(t *testing.T) {
	s := NewSettings()
	var calls int
	s.OnChange(func() { calls++ })
	s.SetSystem(SysVolume, 1)
	s.SetPatch(PartLevel, 0, 1)
	assert.Equal(t, 2, calls)
}
