// controlrom.go - Control ROM loader and data model.
//
// Grounded on original_source/libemusc/src/control_rom.{cc,h}: eight
// fixed-offset banks hold big-endian-packed instrument, partial, sample,
// drum-set, variation, and lookup-table records. Bank offsets and model
// identification bytes below are the SC-55/SC-55mkII layout used by that
// reference loader (itself based on the community SC55_Soundfont project).

package scsynth

import (
	"encoding/binary"
	"fmt"
	"os"
)

// SynthGeneration identifies which Sound Canvas family a control ROM
// belongs to.
type SynthGeneration int

const (
	GenSC55 SynthGeneration = iota
	GenSC55mkII
	GenSC88
	GenSC88Pro
)

const (
	maxPolyphonySC55     = 24
	maxPolyphonySC55mkII = 28
)

// bankOffsetsSC55 partitions the control ROM image into its eight record
// banks: instruments, partials, samples, variations(lo), variations(hi),
// drum sets, drum-set LUT, numeric lookup tables.
var bankOffsetsSC55 = [8]uint32{
	0x10000, 0x1BD00, 0x1DEC0, 0x20000,
	0x2BD00, 0x2DEC0, 0x30000, 0x38000,
}

// Sample describes one PCM waveform record: its scrambled ROM address,
// loop geometry, and fine pitch/volume trim.
type Sample struct {
	Volume     uint8
	Address    uint32 // bank in bits above 20, scrambled offset below
	AttackEnd  uint16
	SampleLen  uint16
	LoopLen    uint16
	LoopMode   uint8 // 0 = loop forward, 1 = forward-then-back, 2 = one-shot
	RootKey    uint8
	Pitch      uint16 // 1024 = neutral, positive raises pitch
	FineVolume uint16 // 0x400 = neutral, 1/1000 dB units
}

// Partial is a 16-point multisample map: note breakpoints to sample
// indices.
type Partial struct {
	Name    string
	Breaks  [16]uint8
	Samples [16]uint16
}

// InstPartial is one of an Instrument's two partial-specific parameter
// blocks: LFO2 seed, pitch/filter/amplitude static parameters and
// envelopes.
type InstPartial struct {
	LFO2Waveform uint8
	LFO2Rate     uint8
	LFO2Delay    uint8
	LFO2Fade     uint8

	PartialIndex uint16
	Panpot       int8
	CoarsePitch  int8
	FinePitch    int8
	RandPitch    int8
	Volume       int8
	PitchKeyFlw  int8

	TVPLFO1Depth uint8
	TVPLFO2Depth uint8
	PitchMult    uint8
	PitchLvl     [5]uint8 // P0..P4
	PitchDur     [5]uint8 // P1..P5

	TVFBaseFlt   int8
	TVFResonance int8
	LowVelClear  int8

	TVFCFKeyFlwC uint8 // cutoff key-follow curve selector, 0-3 (§4.6)
	TVFCFKeyFlw  uint8 // cutoff key-follow depth, 0x40 = none

	TVFLFO1Depth uint8
	TVFLFO2Depth uint8
	TVFLvlInit   uint8
	TVFLvl       [5]uint8 // P1..P5
	TVFDur       [5]uint8 // P1..P5

	TVALFO1Depth  uint8
	TVALFO2Depth  uint8
	TVAVol        [4]uint8 // P1..P4 (attack, hold, decay, sustain)
	TVALen        [5]uint8 // P1..P5 (attack1, attack2, decay1, decay2, release)

	TVAETKeyP14   uint8
	TVAETKeyP5    uint8
	TVAETKeyF14   uint8
	TVAETKeyF5    uint8
	TVAETVSens14  uint8
	TVAETVSens5   uint8
}

// Instrument is one ROM tone: a shared LFO1 seed plus up to two
// InstPartial blocks selected by PartialsUsed bits 0/1.
type Instrument struct {
	Name         string
	Volume       uint8
	LFO1Waveform uint8
	LFO1Rate     uint8
	LFO1Delay    uint8
	LFO1Fade     uint8
	PartialsUsed uint8
	Partials     [2]InstPartial
}

// DrumSet is a 128-key rhythm map.
type DrumSet struct {
	Name        string
	Preset      [128]uint16
	Volume      [128]uint8
	Key         [128]uint8
	AssignGroup [128]uint8
	Panpot      [128]uint8
	Reverb      [128]uint8
	Chorus      [128]uint8
	Flags       [128]uint8 // bit4 = accept note-on, bit0 = accept note-off
}

// LookupTables holds the ~19 numeric LUTs used throughout TVP/TVF/TVA and
// the envelope generator. Each consumer names the table it reads rather
// than indexing a bare two-dimensional array.
type LookupTables struct {
	EnvelopeTime        [128]uint8
	TimeKeyFollow       [128]uint8
	TimeKeyFollowDiv     [128]uint8
	TVFCutoffFreq       [128]uint8
	TVFResonance        [128]uint8
	TVFEnvDepth         [128]uint8
	TVALevel            [128]uint8
	TVALevelIndex       [128]uint8
	TVABiasLevel        [128]uint8
	TVAPanpot           [128]uint8
	TVAEnvExpChange     [128]uint8
	LFORate             [128]uint8
	LFODelay            [128]uint8
	LFOTVPDepth         [128]uint8
	LFOTVFDepth         [128]uint8
	LFOTVADepth         [128]uint8
	VelocityCurves      [128]uint8
	PitchScale          [128]uint8
	TVAEnvTKFIndex      [128]uint8
}

// ControlROM is the immutable, shareable decoded contents of a control
// ROM image.
type ControlROM struct {
	Model      string
	Generation SynthGeneration

	Instruments []Instrument
	Partials    []Partial
	Samples     []Sample
	DrumSets    []DrumSet
	Variations  [128][128]uint16
	LUT         LookupTables
	DrumSetsLUT [128]uint8
}

// LoadControlROM reads and decodes a control ROM file from path.
func LoadControlROM(path string) (*ControlROM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRomNotFound, path)
		}
		return nil, fmt.Errorf("reading control rom: %w", err)
	}

	if len(data) != 256*1024 && len(data) != 512*1024 {
		return nil, fmt.Errorf("%w: got %d bytes, want 256KiB or 512KiB", ErrRomWrongSize, len(data))
	}

	gen, model, err := identifyModel(data)
	if err != nil {
		return nil, err
	}
	if gen == GenSC88 || gen == GenSC88Pro {
		return nil, fmt.Errorf("%w: %s", ErrRomSc88Unsupported, model)
	}

	rom := &ControlROM{Model: model, Generation: gen}
	banks := bankOffsetsSC55

	rom.Instruments = readInstruments(data, banks[0], banks[1])
	rom.Partials = readPartials(data, banks[1], banks[2])
	rom.Samples = readSamples(data, banks[2], banks[3])
	readVariations(data, banks[3], banks[5], &rom.Variations)
	rom.DrumSets = readDrumSets(data, banks[5], banks[6])
	readDrumSetsLUT(data, banks[6], banks[7], &rom.DrumSetsLUT)
	readLookupTables(data, banks[7], &rom.LUT)

	return rom, nil
}

// identifyModel matches known byte strings at fixed offsets to determine
// the ROM's Sound Canvas generation.
func identifyModel(data []byte) (SynthGeneration, string, error) {
	has := func(off int, s string) bool {
		if off+len(s) > len(data) {
			return false
		}
		return string(data[off:off+len(s)]) == s
	}

	switch {
	case has(0x3d148, "GS-28 VER=2.00  SC              "[:20]):
		return GenSC55mkII, "SC-55mkII", nil
	case has(0x7fc0, "GS-64 VER=3.00  SC-88"):
		return GenSC88, "SC-88", nil
	case len(data) >= 0xf383 && data[0xf380] == 'V' && data[0xf381] == 'e' && data[0xf382] == 'r':
		return GenSC55, "SC-55", nil
	default:
		return GenSC55, "SC-55", nil // best-effort fallback; real hardware ROM dumps always match one offset above
	}
}

func beU16(b []byte) uint16 { return binary.BigEndian.Uint16(b) }
func beU32_3(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}
func beU32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }

func readInstruments(data []byte, start, end uint32) []Instrument {
	const recSize = 204
	n := int(end-start) / recSize
	out := make([]Instrument, 0, n)
	for i := 0; i < n; i++ {
		off := start + uint32(i*recSize)
		rec := data[off : off+recSize]
		inst := Instrument{
			Name:         trimCString(rec[0:12]),
			Volume:       rec[12],
			LFO1Waveform: rec[13],
			LFO1Rate:     rec[14],
			LFO1Delay:    rec[15],
			LFO1Fade:     rec[16],
			PartialsUsed: rec[17],
		}
		for p := 0; p < 2; p++ {
			po := 18 + p*93
			if po+93 > len(rec) {
				break
			}
			pr := rec[po : po+93]
			ip := InstPartial{
				LFO2Waveform: pr[0], LFO2Rate: pr[1], LFO2Delay: pr[2], LFO2Fade: pr[3],
				PartialIndex: beU16(pr[4:6]),
				Panpot:       int8(pr[6]), CoarsePitch: int8(pr[7]), FinePitch: int8(pr[8]),
				RandPitch: int8(pr[9]), Volume: int8(pr[10]), PitchKeyFlw: int8(pr[11]),
				TVPLFO1Depth: pr[12], TVPLFO2Depth: pr[13], PitchMult: pr[14],
				TVFBaseFlt: int8(pr[24]), TVFResonance: int8(pr[25]), LowVelClear: int8(pr[26]),
				TVFLFO1Depth: pr[27], TVFLFO2Depth: pr[28], TVFLvlInit: pr[29],
				TVALFO1Depth: pr[40], TVALFO2Depth: pr[41],
			}
			copy(ip.PitchLvl[:], pr[15:20])
			copy(ip.PitchDur[:], pr[20:24])
			copy(ip.TVFLvl[:], pr[30:35])
			copy(ip.TVFDur[:], pr[35:40])
			copy(ip.TVAVol[:], pr[42:46])
			copy(ip.TVALen[:], pr[46:51])
			if po+93+6 <= len(rec) {
				ip.TVAETKeyP14 = pr[51]
				ip.TVAETKeyP5 = pr[52]
				ip.TVAETKeyF14 = pr[53]
				ip.TVAETKeyF5 = pr[54]
				ip.TVAETVSens14 = pr[55]
				ip.TVAETVSens5 = pr[56]
				ip.TVFCFKeyFlwC = pr[57]
				ip.TVFCFKeyFlw = pr[58]
			}
			inst.Partials[p] = ip
		}
		out = append(out, inst)
	}
	return out
}

func readPartials(data []byte, start, end uint32) []Partial {
	const recSize = 48
	n := int(end-start) / recSize
	out := make([]Partial, 0, n)
	for i := 0; i < n; i++ {
		off := start + uint32(i*recSize)
		rec := data[off : off+recSize]
		p := Partial{Name: trimCString(rec[0:12])}
		copy(p.Breaks[:], rec[12:28])
		for k := 0; k < 16; k++ {
			p.Samples[k] = beU16(rec[28+k*2 : 30+k*2])
		}
		out = append(out, p)
	}
	return out
}

func readSamples(data []byte, start, end uint32) []Sample {
	const recSize = 16
	n := int(end-start) / recSize
	out := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		off := start + uint32(i*recSize)
		rec := data[off : off+recSize]
		out = append(out, Sample{
			Volume:     rec[0],
			Address:    beU32_3(rec[1:4]),
			AttackEnd:  beU16(rec[4:6]),
			SampleLen:  beU16(rec[6:8]),
			LoopLen:    beU16(rec[8:10]),
			LoopMode:   rec[10],
			RootKey:    rec[11],
			Pitch:      beU16(rec[12:14]),
			FineVolume: beU16(rec[14:16]),
		})
	}
	return out
}

func readVariations(data []byte, start, end uint32, out *[128][128]uint16) {
	off := start
	for bank := 0; bank < 128 && off+256 <= end; bank++ {
		for prog := 0; prog < 128; prog++ {
			out[bank][prog] = beU16(data[off : off+2])
			off += 2
		}
	}
}

func readDrumSets(data []byte, start, end uint32) []DrumSet {
	const recSize = 1164
	n := int(end-start) / recSize
	out := make([]DrumSet, 0, n)
	for i := 0; i < n; i++ {
		off := start + uint32(i*recSize)
		rec := data[off : off+recSize]
		ds := DrumSet{}
		for k := 0; k < 128; k++ {
			ds.Preset[k] = beU16(rec[k*2 : k*2+2])
		}
		base := 256
		copy(ds.Volume[:], rec[base:base+128])
		copy(ds.Key[:], rec[base+128:base+256])
		copy(ds.AssignGroup[:], rec[base+256:base+384])
		copy(ds.Panpot[:], rec[base+384:base+512])
		copy(ds.Reverb[:], rec[base+512:base+640])
		copy(ds.Chorus[:], rec[base+640:base+768])
		copy(ds.Flags[:], rec[base+768:base+896])
		if base+896+12 <= len(rec) {
			ds.Name = trimCString(rec[base+896 : base+908])
		}
		out = append(out, ds)
	}
	return out
}

func readDrumSetsLUT(data []byte, start, end uint32, out *[128]uint8) {
	n := int(end - start)
	if n > 128 {
		n = 128
	}
	copy(out[:], data[start:start+uint32(n)])
}

func readLookupTables(data []byte, start uint32, lut *LookupTables) {
	tables := []*[128]uint8{
		&lut.EnvelopeTime, &lut.TimeKeyFollow, &lut.TimeKeyFollowDiv,
		&lut.TVFCutoffFreq, &lut.TVFResonance, &lut.TVFEnvDepth,
		&lut.TVALevel, &lut.TVALevelIndex, &lut.TVABiasLevel, &lut.TVAPanpot,
		&lut.TVAEnvExpChange, &lut.LFORate, &lut.LFODelay,
		&lut.LFOTVPDepth, &lut.LFOTVFDepth, &lut.LFOTVADepth,
		&lut.VelocityCurves, &lut.PitchScale, &lut.TVAEnvTKFIndex,
	}
	off := start
	for _, t := range tables {
		if int(off)+128 > len(data) {
			break
		}
		copy(t[:], data[off:off+128])
		off += 128
	}
}

func trimCString(b []byte) string {
	n := len(b)
	for n > 0 && (b[n-1] == 0 || b[n-1] == ' ') {
		n--
	}
	return string(b[:n])
}

// MaxPolyphony returns the hardware's concurrent-partial budget.
func (r *ControlROM) MaxPolyphony() int {
	if r.Generation == GenSC55mkII {
		return maxPolyphonySC55mkII
	}
	return maxPolyphonySC55
}

// LookupTable8 returns LUT[idx] with idx clamped to [0,127]. table is one
// of the fixed-size arrays inside LookupTables, e.g. &rom.LUT.TVALevel.
func LookupTable8(table *[128]uint8, idx int) uint8 {
	if idx < 0 {
		idx = 0
	} else if idx > 127 {
		idx = 127
	}
	return table[idx]
}

// LookupTableInterp linearly interpolates table at a fractional index.
func LookupTableInterp(table *[128]uint8, idx float64) float64 {
	if idx < 0 {
		idx = 0
	} else if idx > 127 {
		idx = 127
	}
	lo := int(idx)
	hi := lo + 1
	if hi > 127 {
		hi = 127
	}
	frac := idx - float64(lo)
	return float64(table[lo])*(1-frac) + float64(table[hi])*frac
}
