// synth_test.go - end-to-end scenarios exercising the full
// ROM-load -> MIDI -> NextFrame pipeline against a synthetic ROM image:
// note-on/off round trips, sustain pedal hold, program change into a
// drum map, and SysEx parameter writes.

package scsynth

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPlayableControlROM writes a 256KiB control ROM with one
// instrument (a single partial, filter disabled, forward-looping
// sample rooted at middle C) reachable from bank 0 program 0, plus a
// one-key drum set mapping key 0x24 (kick) to the same instrument.
func buildPlayableControlROM(t *testing.T) string {
	t.Helper()
	data := make([]byte, 256*1024)

	instOff := bankOffsetsSC55[0]
	copy(data[instOff:], "TestInst\x00\x00\x00\x00")
	data[instOff+12] = 100 // Volume
	data[instOff+17] = 1   // PartialsUsed: partial 0 only
	po := instOff + 18
	binary.BigEndian.PutUint16(data[po+4:po+6], 0) // PartialIndex 0
	data[po+6] = 0                                 // Panpot -> center
	data[po+7] = 64                                // CoarsePitch (64-64=0)
	data[po+8] = 64                                // FinePitch (64-64=0)
	data[po+9] = 0                                 // RandPitch
	data[po+10] = 100                              // Volume (int8)
	data[po+11] = 74                               // PitchKeyFlw = 0x4a -> keyFollow 1.0
	for i := 15; i < 20; i++ {
		data[po+uint32(i)] = 64 // PitchLvl all centered: no pitch envelope movement
	}
	data[po+24] = 0xff // TVFBaseFlt = -1 -> filter disabled
	for i := 42; i < 46; i++ {
		data[po+uint32(i)] = 0 // TVAVol P1..P4
	}
	data[po+46] = 3  // TVALen attack1
	data[po+47] = 3  // TVALen attack2
	data[po+48] = 3  // TVALen decay1
	data[po+49] = 40 // TVALen decay2 (sustain hold, irrelevant since target != 0)
	data[po+50] = 5  // TVALen release

	partOff := bankOffsetsSC55[1]
	copy(data[partOff:], "TestPart\x00\x00\x00\x00")
	for i := 0; i < 16; i++ {
		data[partOff+12+uint32(i)] = 127
	}
	binary.BigEndian.PutUint16(data[partOff+28:partOff+30], 0) // Samples[0] = 0

	sampOff := bankOffsetsSC55[2]
	data[sampOff+0] = 100 // Volume
	data[sampOff+1], data[sampOff+2], data[sampOff+3] = 0, 0, 0
	binary.BigEndian.PutUint16(data[sampOff+6:sampOff+8], 2000) // SampleLen
	binary.BigEndian.PutUint16(data[sampOff+8:sampOff+10], 1000) // LoopLen
	data[sampOff+10] = 0                                         // LoopMode = forward loop
	data[sampOff+11] = 60                                        // RootKey
	binary.BigEndian.PutUint16(data[sampOff+12:sampOff+14], 1024) // Pitch neutral
	binary.BigEndian.PutUint16(data[sampOff+14:sampOff+16], 0x400)

	varOff := bankOffsetsSC55[3]
	binary.BigEndian.PutUint16(data[varOff:varOff+2], 0) // bank0/program0 -> instrument 0

	drumOff := bankOffsetsSC55[5]
	binary.BigEndian.PutUint16(data[drumOff:drumOff+2], 0) // Preset[0] = instrument 0
	kickOff := drumOff + 0x24*2
	binary.BigEndian.PutUint16(data[kickOff:kickOff+2], 0) // Preset[0x24] = instrument 0
	flagsBase := int(drumOff) + 256 + 768
	data[flagsBase+0x24] = 0x11 // note-on + note-off accepted for key 0x24

	// Fill the LUT bank (bank 7) so TVA's level lookup saturates to a
	// comfortably audible, non-zero target regardless of the exact
	// level-index arithmetic, and envelope phases advance briskly.
	lutOff := int(bankOffsetsSC55[7])
	for i := 0; i < 128; i++ {
		data[lutOff+i] = 4 // EnvelopeTime: 4*8 = 32ms per phase
	}
	tvaLevelOff := lutOff + 128*6 // 7th table = TVALevel
	for i := 0; i < 128; i++ {
		data[tvaLevelOff+i] = 200
	}
	tvaPanpotOff := lutOff + 128*9 // 10th table = TVAPanpot
	for i := 0; i < 128; i++ {
		data[tvaPanpotOff+i] = 64
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "control.rom")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// buildPlayablePCMROM returns an in-memory PCMROM with a non-silent,
// constant-amplitude waveform at address 0 long enough to cover the
// control ROM's sample length plus loop margin.
func buildPlayablePCMROM() *PCMROM {
	img := make([]byte, 4096)
	for i := range img {
		if i%32 == 0 {
			img[i] = 0 // shift-nibble byte: shift 0 for the whole block
		} else {
			img[i] = 80
		}
	}
	return &PCMROM{banks: map[uint32][]byte{0: img}}
}

func newTestSynth(t *testing.T) *Synth {
	t.Helper()
	rom, err := LoadControlROM(buildPlayableControlROM(t))
	require.NoError(t, err)
	pcmRom := buildPlayablePCMROM()
	s := NewSynth(rom, pcmRom, ModeGS)
	require.NoError(t, s.SetAudioFormat(44100, 2))
	return s
}

func pullFrames(s *Synth, n int) [][2]int16 {
	out := make([][2]int16, n)
	for i := range out {
		buf := make([]int16, 2)
		s.NextFrame(buf)
		out[i] = [2]int16{buf[0], buf[1]}
	}
	return out
}

func nonZeroFraction(frames [][2]int16) float64 {
	n := 0
	for _, f := range frames {
		if f[0] != 0 || f[1] != 0 {
			n++
		}
	}
	return float64(n) / float64(len(frames))
}

// With no notes active, every output frame is silent.
func TestScenarioBareSilence(t *testing.T) {
	s := newTestSynth(t)
	frames := pullFrames(s, 4410)
	for i, f := range frames {
		require.Equal(t, [2]int16{0, 0}, f, "frame %d should be silent with no notes active", i)
	}
}

// A middle-C note-on then note-off is audible while held and silent well
// after release.
func TestScenarioMiddleCNoteOnOff(t *testing.T) {
	s := newTestSynth(t)
	s.MidiInput(0x90, 60, 100) // NoteOn ch1 key60 vel100

	// Pull past the attack/decay ramp (~100ms) and sample a short
	// window; TVA's envelope should be well into its sustain level.
	pullFrames(s, int(44100*0.1))
	window := pullFrames(s, 200)
	assert.Greater(t, nonZeroFraction(window), 0.95)

	s.MidiInput(0x80, 60, 0) // NoteOff

	// Release (EnvelopeTime 4 -> 4*8=32ms) plus generous margin; well past 2s the voice
	// must have finished and the part must be silent.
	pullFrames(s, int(44100*2))
	tail := pullFrames(s, 200)
	for i, f := range tail {
		require.Equal(t, [2]int16{0, 0}, f, "frame %d should be silent 2s after note-off", i)
	}
}

// Note-on followed by note-off returns the Part's voice count to zero
// within a bounded window.
func TestVoiceCountReturnsToZeroAfterRelease(t *testing.T) {
	s := newTestSynth(t)
	s.MidiInput(0x90, 60, 100)
	require.Len(t, s.parts[0].voices, 1)

	s.MidiInput(0x80, 60, 0)
	pullFrames(s, int(44100*1.5))
	assert.Empty(t, s.parts[0].voices)
}

// Program-change on a channel mapped to a drum map, followed by a drum
// hit, is admitted and routed through the rhythm path.
func TestScenarioDrumChannel(t *testing.T) {
	s := newTestSynth(t)
	s.settings.SetPatch(UseForRhythm, 9, 1) // channel 10 (index 9) -> drum map 1

	s.MidiInput(0xc9, 0x00, 0) // Program change ch10 -> program 0
	s.MidiInput(0x99, 0x24, 100)
	require.Len(t, s.parts[9].voices, 1)
	assert.Equal(t, byte(1), s.settings.GetPatch(UseForRhythm, 9))
}

// With Hold1 engaged, NoteOff defers release until the pedal lifts.
func TestScenarioSustainPedalHold(t *testing.T) {
	s := newTestSynth(t)
	s.MidiInput(0xb0, 64, 0x7f) // Hold1 on
	s.MidiInput(0x90, 60, 100)
	s.MidiInput(0x80, 60, 0)

	pullFrames(s, int(44100*0.5))
	assert.NotEmpty(t, s.parts[0].voices, "voice must survive note-off while sustain is held")

	s.MidiInput(0xb0, 64, 0x00) // Hold1 off
	pullFrames(s, int(44100*2))
	assert.Empty(t, s.parts[0].voices, "voice must release once the pedal lifts")
}

// A checksum-valid SysEx DT1 write to the wire address for master volume
// lands in Settings; a checksum-tampered retry at the same address leaves
// it untouched.
func TestScenarioSysexMasterVolume(t *testing.T) {
	s := newTestSynth(t)
	msg := []byte{0xf0, 0x41, 0x10, 0x42, 0x12, 0x40, 0x00, 0x04, 0x20, 0x1c, 0xf7}
	s.MidiInputSysex(msg)
	assert.Equal(t, byte(0x20), s.settings.GetSystem(SysVolume))

	tampered := []byte{0xf0, 0x41, 0x10, 0x42, 0x12, 0x40, 0x00, 0x04, 0x55, 0x1c, 0xf7}
	s.MidiInputSysex(tampered)
	assert.Equal(t, byte(0x20), s.settings.GetSystem(SysVolume), "a bad checksum must leave settings untouched")
}

// Reset(GS) restores every system and patch parameter to its factory
// default, discarding any prior writes.
func TestResetRestoresFactoryDefaults(t *testing.T) {
	s := newTestSynth(t)
	s.settings.SetSystem(SysVolume, 0x10)
	s.settings.SetPatch(PartLevel, 3, 0x01)

	s.Reset(ModeGS, true)
	assert.Equal(t, byte(0x7f), s.settings.GetSystem(SysVolume))
	assert.Equal(t, byte(0x64), s.settings.GetPatch(PartLevel, 3))
}

// Global polyphony never exceeds 2*max_polyphony for the identified
// model, even when every Part is flooded with note-ons.
func TestGlobalPolyphonyCapEnforced(t *testing.T) {
	s := newTestSynth(t)
	budget := 2 * s.rom.MaxPolyphony()

	for part := 0; part < numParts; part++ {
		for key := 0; key < 32; key++ {
			s.MidiInput(byte(0x90|part), byte(key), 100)
		}
	}
	assert.LessOrEqual(t, s.totalPartials(), budget)
}

// Panic drops every voice immediately, without running Release.
func TestPanicDropsAllVoicesImmediately(t *testing.T) {
	s := newTestSynth(t)
	s.MidiInput(0x90, 60, 100)
	require.NotEmpty(t, s.parts[0].voices)

	s.Panic()
	assert.Empty(t, s.parts[0].voices)
}
