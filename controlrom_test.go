package scsynth

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimCString(t *testing.T) {
	assert.Equal(t, "Piano1", trimCString([]byte("Piano1   \x00\x00\x00")))
	assert.Equal(t, "", trimCString([]byte{0, 0, 0}))
}

func TestLookupTable8Clamps(t *testing.T) {
	var table [128]uint8
	table[0] = 11
	table[127] = 99
	assert.Equal(t, uint8(11), LookupTable8(&table, -5))
	assert.Equal(t, uint8(99), LookupTable8(&table, 500))
	assert.Equal(t, uint8(11), LookupTable8(&table, 0))
}

func TestLookupTableInterp(t *testing.T) {
	var table [128]uint8
	table[10] = 0
	table[11] = 100
	assert.InDelta(t, 50.0, LookupTableInterp(&table, 10.5), 0.001)
	assert.InDelta(t, 0.0, LookupTableInterp(&table, -10), 0.001)
}

func TestMaxPolyphony(t *testing.T) {
	sc55 := &ControlROM{Generation: GenSC55}
	mk2 := &ControlROM{Generation: GenSC55mkII}
	assert.Equal(t, 24, sc55.MaxPolyphony())
	assert.Equal(t, 28, mk2.MaxPolyphony())
}

func TestIdentifyModelFallsBackToSC55(t *testing.T) {
	gen, model, err := identifyModel(make([]byte, 0x40000))
	require.NoError(t, err)
	assert.Equal(t, GenSC55, gen)
	assert.Equal(t, "SC-55", model)
}

func TestIdentifyModelSC55mkII(t *testing.T) {
	data := make([]byte, 0x40000)
	copy(data[0x3d148:], "GS-28 VER=2.00  SC  ")
	gen, model, err := identifyModel(data)
	require.NoError(t, err)
	assert.Equal(t, GenSC55mkII, gen)
	assert.Equal(t, "SC-55mkII", model)
}

// buildSyntheticControlROM writes a minimal but structurally valid
// 256KiB control ROM image: one instrument with one partial, one
// sample, and a variation table entry at bank 0/program 0, all at the
// real bank offsets so LoadControlROM's bank-size-based record counts
// line up. The drum-set bank is left zeroed.
func buildSyntheticControlROM(t *testing.T) string {
	t.Helper()
	data := make([]byte, 256*1024)

	// Instrument at bankOffsetsSC55[0], record size 204.
	instOff := bankOffsetsSC55[0]
	copy(data[instOff:], "TestInst\x00\x00\x00\x00")
	data[instOff+12] = 100 // Volume
	data[instOff+13] = 0   // LFO1Waveform
	data[instOff+17] = 1   // PartialsUsed: partial 0 only
	po := instOff + 18
	binary.BigEndian.PutUint16(data[po+4:po+6], 0) // PartialIndex 0
	data[po+6] = 64                                // Panpot (int8 64; the Voice adds 64 to it)
	data[po+7] = 64                                // CoarsePitch
	data[po+8] = 64                                // FinePitch
	data[po+10] = 100                              // Volume
	data[po+24] = 0xff                             // TVFBaseFlt as int8 -1 (filter off)

	// Partial at bankOffsetsSC55[1], record size 48.
	partOff := bankOffsetsSC55[1]
	copy(data[partOff:], "TestPart\x00\x00\x00\x00")
	for i := 0; i < 16; i++ {
		data[partOff+12+uint32(i)] = 127 // every break accepts any key
	}
	binary.BigEndian.PutUint16(data[partOff+28:partOff+30], 0) // Samples[0] = 0

	// Sample at bankOffsetsSC55[2], record size 16.
	sampOff := bankOffsetsSC55[2]
	data[sampOff+0] = 100                                       // Volume
	data[sampOff+1], data[sampOff+2], data[sampOff+3] = 0, 0, 0 // Address 0
	binary.BigEndian.PutUint16(data[sampOff+6:sampOff+8], 1000) // SampleLen
	binary.BigEndian.PutUint16(data[sampOff+8:sampOff+10], 500) // LoopLen
	data[sampOff+10] = 2                                        // LoopMode = one-shot
	data[sampOff+11] = 60                                       // RootKey
	binary.BigEndian.PutUint16(data[sampOff+12:sampOff+14], 2048)
	binary.BigEndian.PutUint16(data[sampOff+14:sampOff+16], 0x400)

	// Variations at bankOffsetsSC55[3]: bank0/program0 -> instrument 0.
	varOff := bankOffsetsSC55[3]
	binary.BigEndian.PutUint16(data[varOff:varOff+2], 0)

	dir := t.TempDir()
	path := filepath.Join(dir, "control.rom")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadControlROMRoundTrip(t *testing.T) {
	path := buildSyntheticControlROM(t)
	rom, err := LoadControlROM(path)
	require.NoError(t, err)

	// Every record slot of a bank is loaded (instrument indices address
	// slots by position), so counts follow the bank sizes.
	require.Len(t, rom.Instruments, int(bankOffsetsSC55[1]-bankOffsetsSC55[0])/204)
	require.Len(t, rom.Partials, int(bankOffsetsSC55[2]-bankOffsetsSC55[1])/48)
	require.Len(t, rom.Samples, int(bankOffsetsSC55[3]-bankOffsetsSC55[2])/16)

	assert.Equal(t, "TestInst", rom.Instruments[0].Name)
	assert.Equal(t, uint8(100), rom.Instruments[0].Volume)
	assert.Equal(t, uint8(1), rom.Instruments[0].PartialsUsed)
	assert.Equal(t, "TestPart", rom.Partials[0].Name)
	assert.EqualValues(t, 1000, rom.Samples[0].SampleLen)
	assert.Equal(t, uint16(0), rom.Variations[0][0])
}

func TestLoadControlROMRejectsWrongSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.rom")
	require.NoError(t, os.WriteFile(path, make([]byte, 123), 0o644))
	_, err := LoadControlROM(path)
	assert.ErrorIs(t, err, ErrRomWrongSize)
}

func TestLoadControlROMMissingFile(t *testing.T) {
	_, err := LoadControlROM(filepath.Join(t.TempDir(), "missing.rom"))
	assert.ErrorIs(t, err, ErrRomNotFound)
}
