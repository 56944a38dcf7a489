// tvf.go - Time-Variant Filter: a resonant 2-pole biquad (RBJ LPF or
// HPF) whose cutoff and Q are driven by ROM statics, an LFO, and an
// envelope.
//
// Grounded on original_source/libemusc/src/tvf.cc. Biquad coefficients
// follow the standard RBJ cookbook formulas, adapted into a Direct Form I
// register layout kept inline in the voice's channel state rather than
// behind a heap-allocated filter object.

package scsynth

import "math"

type filterKind int

const (
	filterLPF filterKind = iota
	filterHPF
	filterOff
)

// TVF is one Partial's filter stage: biquad state plus the envelope and
// static parameters that drive its cutoff/resonance each control tick.
type TVF struct {
	kind filterKind
	env  *Envelope

	baseFlt    float64
	keyFollow  float64
	keyFollowC uint8
	resonance  float64
	envDepth   float64
	lfo1Depth  float64
	lfo2Depth  float64

	lut *LookupTables

	sampleRate float64

	settings *Settings
	part     int

	// Direct Form I state: x[n-1], x[n-2], y[n-1], y[n-2].
	x1, x2, y1, y2 float64
	b0, b1, b2     float64
	a1, a2         float64
}

// NewTVF builds a TVF for one Partial from its InstPartial record. settings
// and part feed the NRPN tone-modify TVF envelope attack/decay/release
// offsets (spec §4.4 item 1); pass a nil settings to skip tone-modify
// (used by tests that exercise the envelope in isolation).
func NewTVF(kind filterKind, lut *LookupTables, ip *InstPartial, key int, sampleRate float64, settings *Settings, part int) *TVF {
	f := &TVF{
		kind:       kind,
		lut:        lut,
		sampleRate: sampleRate,
		baseFlt:    float64(ip.TVFBaseFlt),
		resonance:  float64(ip.TVFResonance),
		lfo1Depth:  float64(ip.TVFLFO1Depth),
		lfo2Depth:  float64(ip.TVFLFO2Depth),
		keyFollow:  float64(ip.TVFCFKeyFlw),
		keyFollowC: ip.TVFCFKeyFlwC,
		settings:   settings,
		part:       part,
	}

	phases := [5]EnvelopePhaseSpec{
		{Target: float64(ip.TVFLvl[0]) / 127, Duration: ip.TVFDur[0], Shape: shapeLinear},
		{Target: float64(ip.TVFLvl[1]) / 127, Duration: ip.TVFDur[1], Shape: shapeLinear},
		{Target: float64(ip.TVFLvl[2]) / 127, Duration: ip.TVFDur[2], Shape: shapeLinear},
		{Target: float64(ip.TVFLvl[3]) / 127, Duration: ip.TVFDur[3], Shape: shapeLinear},
		{Target: float64(ip.TVFLvl[4]) / 127, Duration: ip.TVFDur[4], Shape: shapeLinear},
	}
	if settings != nil {
		f.env = NewEnvelopeWithToneModify(lut, sampleRate, phases, func() (int, int, int) {
			return toneModifyOffsets(settings, part)
		})
	} else {
		f.env = NewEnvelope(lut, sampleRate, phases)
	}
	f.envDepth = float64(lut.TVFEnvDepth[ip.TVFBaseFlt&0x7f]) * 0.01

	return f
}

// toneModifyOffsets reads the NRPN tone-modify TVF/TVA envelope
// attack/decay/release settings and converts them to the +/-127 duration
// index offset grounded on original_source/libemusc/src/envelope.cc's
// _init_new_phase: (value - 0x40) * 2.
func toneModifyOffsets(settings *Settings, part int) (attack, decay, release int) {
	attack = (int(settings.GetPatch(TVFAEnvAttack, part)) - 0x40) * 2
	decay = (int(settings.GetPatch(TVFAEnvDecay, part)) - 0x40) * 2
	release = (int(settings.GetPatch(TVFAEnvRelease, part)) - 0x40) * 2
	return
}

// Process filters one sample, recomputing coefficients from the current
// cutoff/resonance controls and the supplied LFO/TVF-cutoff-CC inputs.
func (f *TVF) Process(in float32, lfo1, lfo2 float32, patchCutoffCC, patchResCC float64, key int) float32 {
	if f.kind == filterOff {
		return in
	}

	cutoffIdx := f.baseFlt + (patchCutoffCC-0x40)*2
	lfo1Depth, lfo2Depth := f.lfo1Depth, f.lfo2Depth
	if f.settings != nil {
		cutoffIdx += f.settings.ControllerDestSum(f.part, DestTVFCutoffControl)
		lfo1Depth = clampDepth(lfo1Depth + f.settings.ControllerDestSum(f.part, DestLFO1TVFDepth))
		lfo2Depth = clampDepth(lfo2Depth + f.settings.ControllerDestSum(f.part, DestLFO2TVFDepth))
	}
	if cutoffIdx < 0 {
		cutoffIdx = 0
	} else if cutoffIdx > 127 {
		cutoffIdx = 127
	}

	keyFollowHz := 0.0
	switch f.keyFollowC {
	case 0, 3:
		keyFollowHz = (f.keyFollow - 0x40) / 10.0 * float64(key-60)
	case 1:
		if key > 60 {
			keyFollowHz = (f.keyFollow - 0x40) / 10.0 * float64(key-60)
		}
	case 2:
		if key > 60 {
			keyFollowHz = (f.keyFollow - 0x40) / 100.0 * float64(key-60)
		}
	}

	lfoMod := float64(lfo1)*float64(f.lut.LFOTVFDepth[0])/1e5*lfo1Depth +
		float64(lfo2)*float64(f.lut.LFOTVFDepth[0])/1e5*lfo2Depth

	envVal := f.env.Next()
	envDeltaHz := (envVal - 0.5) * f.envDepth * 100

	freqHz := LookupTableInterp(&f.lut.TVFCutoffFreq, cutoffIdx+keyFollowHz+lfoMod)/4.3 + envDeltaHz
	if freqHz < 35 {
		freqHz = 35
	} else if freqHz > 12500 {
		freqHz = 12500
	}

	resIdx := f.resonance + (patchResCC-0x40)*2
	if resIdx < 0 {
		resIdx = 0
	} else if resIdx > 127 {
		resIdx = 127
	}
	resByte := LookupTableInterp(&f.lut.TVFResonance, resIdx)
	q := 10.0 - (resByte-106)*9.6/149

	f.computeCoeffs(freqHz, q)

	out := f.b0*float64(in) + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, float64(in)
	f.y2, f.y1 = f.y1, out
	return float32(out)
}

func (f *TVF) computeCoeffs(freqHz, q float64) {
	omega := 2 * math.Pi * freqHz / f.sampleRate
	alpha := math.Sin(omega) / (2 * q)
	cosw := math.Cos(omega)
	a0 := 1 + alpha

	if f.kind == filterHPF {
		f.b1 = -(1 + cosw) / a0
		f.b0 = -f.b1 / 2
		f.b2 = f.b0
	} else {
		f.b0 = (1 - cosw) / 2 / a0
		f.b1 = (1 - cosw) / a0
		f.b2 = f.b0
	}
	f.a1 = (-2 * cosw) / a0
	f.a2 = (1 - alpha) / a0
}

// Release forwards note-off to the filter envelope.
func (f *TVF) Release() { f.env.Release() }
