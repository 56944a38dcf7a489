// tva.go - Time-Variant Amplitude: per-sample level, tremolo, and pan.
//
// Grounded on original_source/libemusc/src/tva.cc. The panpot split
// uses the TVAPanpot LUT rather than a bare linear (panpot-64)/64 split
// (see note_partial.cc for the simpler form this implementation does not
// use, and DESIGN.md for that discrepancy's resolution).

package scsynth

import "math"

type TVA struct {
	env *Envelope

	lfo1Depth float64
	lfo2Depth float64

	panpot        float64 // 0..127, 64 = center
	panpotLocked  bool
	panpotTarget  float64

	lut *LookupTables

	settings *Settings
	part     int
}

// NewTVA builds a TVA for one Partial. levelIdx is the precomputed level
// index; the Voice builds it from the key bias and the partial and sample
// volumes only. Velocity is not part of it: the Voice applies velocity as
// a separate gain on every sample. settings and part feed
// the NRPN tone-modify TVA envelope attack/decay/release offsets (spec
// §4.4 item 1); pass a nil settings to skip tone-modify (used by tests
// that exercise the envelope in isolation).
func NewTVA(lut *LookupTables, ip *InstPartial, levelIdx float64, panpot float64, panpotRandom bool, sampleRate float64, settings *Settings, part int) *TVA {
	t := &TVA{lut: lut, lfo1Depth: float64(ip.TVALFO1Depth), lfo2Depth: float64(ip.TVALFO2Depth), settings: settings, part: part}

	mkTarget := func(vol uint8, dur uint8) EnvelopePhaseSpec {
		envLn := float64(lut.TVALevelIndex[vol&0x7f])
		idx := 255 - (levelIdx + envLn)
		if idx < 0 {
			idx = 0
		} else if idx > 127 {
			idx = 127
		}
		return EnvelopePhaseSpec{Target: LookupTableInterp(&lut.TVALevel, idx) / 255, Duration: dur, Shape: shapeLinear}
	}

	phases := [5]EnvelopePhaseSpec{
		mkTarget(ip.TVAVol[0], ip.TVALen[0]),
		mkTarget(ip.TVAVol[1], ip.TVALen[1]),
		mkTarget(ip.TVAVol[2], ip.TVALen[2]),
		mkTarget(ip.TVAVol[3], ip.TVALen[3]),
		{Target: 0, Duration: ip.TVALen[4], Shape: shapeLinear},
	}
	if settings != nil {
		t.env = NewEnvelopeWithToneModify(lut, sampleRate, phases, func() (int, int, int) {
			return toneModifyOffsets(settings, part)
		})
	} else {
		t.env = NewEnvelope(lut, sampleRate, phases)
	}

	t.panpot = panpot
	t.panpotTarget = panpot
	t.panpotLocked = panpotRandom

	return t
}

// Process applies dynamic gain, tremolo, envelope, and pan, returning a
// stereo pair.
func (t *TVA) Process(in float32, lfo1, lfo2 float32, dynamicGain float32) (left, right float32) {
	s := in * dynamicGain

	lfo1Depth, lfo2Depth := t.lfo1Depth, t.lfo2Depth
	ampMod := 1.0
	if t.settings != nil {
		lfo1Depth = clampDepth(lfo1Depth + t.settings.ControllerDestSum(t.part, DestLFO1TVADepth))
		lfo2Depth = clampDepth(lfo2Depth + t.settings.ControllerDestSum(t.part, DestLFO2TVADepth))
		ampMod = 1 + t.settings.ControllerDestSum(t.part, DestAmplitudeControl)/127
		if ampMod < 0 {
			ampMod = 0
		}
	}

	trem := (1 + float64(lfo1)*lfo1Depth/127) * (1 + float64(lfo2)*lfo2Depth/127)
	if trem < 0 {
		trem = 0
	} else if trem > 3 {
		trem = 3
	}
	s *= float32(trem * ampMod)
	s *= float32(t.env.Next())

	if !t.panpotLocked && t.panpot != t.panpotTarget {
		if t.panpot < t.panpotTarget {
			t.panpot++
		} else {
			t.panpot--
		}
	}

	pan := t.panpot
	if pan < 0 {
		pan = 0
	} else if pan > 127 {
		pan = 127
	}
	left = s * float32(LookupTable8(&t.lut.TVAPanpot, int(128-pan)))/127
	right = s * float32(LookupTable8(&t.lut.TVAPanpot, int(pan)))/127
	return
}

// Finished reports whether the amplitude envelope has completed Release.
func (t *TVA) Finished() bool { return t.env.Finished() }

// Release forwards note-off to the amplitude envelope.
func (t *TVA) Release() { t.env.Release() }

// SetPanpotTarget updates the pan target for the one-step-per-tick
// smoothing migration (note_partial.cc/tva.cc behavior).
func (t *TVA) SetPanpotTarget(p float64) {
	if !t.panpotLocked {
		t.panpotTarget = p
	}
}

// convertVolume turns a ROM/Settings volume byte into a linear gain
// using the dB-like curve grounded in note_partial.cc::_convert_volume.
func convertVolume(volume float64) float64 {
	return 0.1*math.Pow(2, volume/36.7111) - 0.1
}
