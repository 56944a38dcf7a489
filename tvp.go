// tvp.go - Time-Variant Pitch: combines static tuning, LFO vibrato, and
// a pitch envelope into a per-sample playback speed multiplier.
//
// Grounded on original_source/libemusc/src/tvp.cc.

package scsynth

import "math"

const ln2 = math.Ln2

// TVP computes the instantaneous pitch multiplier for one Partial.
type TVP struct {
	env *Envelope

	pStatic float64
	pOffset float64
	pExp    float64

	lfo1Depth float64
	lfo2Depth float64
	envMult   float64

	settings *Settings
	part     int
}

// NewTVP builds a TVP from the resolved instrument/partial/sample
// records, the sounding key, and current Settings.
func NewTVP(lut *LookupTables, ip *InstPartial, samp *Sample, key int, rootKey int, settings *Settings, part int, sampleRate float64) *TVP {
	t := &TVP{settings: settings, part: part}

	pitchKeyFollow := 1.0 + (float64(ip.PitchKeyFlw)-0x4a)/10.0
	keyDiff := float64(key - rootKey)

	coarse := float64(ip.CoarsePitch) - 64
	fine := float64(ip.FinePitch) - 64
	rnd := float64(ip.RandPitch)
	scaleN := float64(lut.PitchScale[key&0x7f]) / 10.0

	cents := coarse*100 + (keyDiff*pitchKeyFollow+float64(60-rootKey)*(1-pitchKeyFollow))*100 + scaleN + fine + rnd + (float64(samp.Pitch)-1024)/16.0
	t.pStatic = math.Exp(cents*ln2/1200) * (32000.0 / sampleRate)

	keyFreqHz := 440.0 * math.Pow(2, (float64(key)-69)/12.0)
	pof := settings.GetPatchBytes(PitchOffsetFine, part, 2) // two nibbles, center 0x80
	pitchOffsetFine := (float64(int(pof[0]&0x0f)<<4|int(pof[1]&0x0f)) - 0x80) / 10.0
	t.pOffset = (keyFreqHz + pitchOffsetFine) / keyFreqHz

	tb := settings.GetSystemBytes(SysTune, 4) // four nibbles, center 0x400
	systemTune := float64(int(tb[0]&0x0f)<<12 | int(tb[1]&0x0f)<<8 | int(tb[2]&0x0f)<<4 | int(tb[3]&0x0f))
	scaleTuning := float64(settings.GetPatch(ScaleTuningC+PatchParam(key%12), part)) - 0x40
	pitchFineTune := float64(settings.GetPatchUint16(PitchFineTune, part))
	t.pExp = math.Exp((systemTune-0x400+scaleTuning*10+(pitchFineTune-16384)/16.384)*ln2/12000)

	t.lfo1Depth = float64(ip.TVPLFO1Depth)
	t.lfo2Depth = float64(ip.TVPLFO2Depth)
	t.envMult = float64(ip.PitchMult) / 10.0

	phases := [5]EnvelopePhaseSpec{
		{Target: (float64(ip.PitchLvl[1]) - 64) / 64, Duration: ip.PitchDur[0], Shape: shapeLinear},
		{Target: (float64(ip.PitchLvl[2]) - 64) / 64, Duration: ip.PitchDur[1], Shape: shapeLinear},
		{Target: (float64(ip.PitchLvl[3]) - 64) / 64, Duration: ip.PitchDur[2], Shape: shapeLinear},
		{Target: (float64(ip.PitchLvl[4]) - 64) / 64, Duration: ip.PitchDur[3], Shape: shapeLinear},
		{Target: 0, Duration: ip.PitchDur[4], Shape: shapeLinear},
	}
	t.env = NewEnvelope(lut, sampleRate, phases)

	return t
}

// Multiplier returns the current pitch multiplier, combining the static
// components with the supplied LFO1/LFO2 samples, the controller
// destination matrix's pitch/LFO-depth contributions, the current
// pitch-bend wheel position, and advancing the pitch envelope by one
// sample (spec §4.5, §4.8 step 2's pitchBendFactor).
func (t *TVP) Multiplier(lfo1, lfo2 float32) float64 {
	envVal := t.env.Next()

	lfo1Depth := clampDepth(t.lfo1Depth + t.settings.ControllerDestSum(t.part, DestLFO1PitchDepth))
	lfo2Depth := clampDepth(t.lfo2Depth + t.settings.ControllerDestSum(t.part, DestLFO2PitchDepth))
	pitchControl := t.settings.ControllerDestSum(t.part, DestPitchControl)

	mod := float64(lfo1)*lfo1Depth + float64(lfo2)*lfo2Depth + envVal*0.3*t.envMult + pitchControl

	bendRange := float64(t.settings.GetPatch(PitchBendRange, t.part))
	bendNorm := (float64(t.settings.GetPatchUint16(PitchBend, t.part)) - 0x2000) / 0x2000
	pitchBendFactor := math.Exp(bendNorm * bendRange * ln2 / 12)

	return t.pStatic * t.pOffset * t.pExp * pitchBendFactor * math.Exp(mod*ln2/1200)
}

// clampDepth clamps an LFO modulation depth to the 0..127 range the ROM's
// depth bytes and the controller-destination accumulator share.
func clampDepth(v float64) float64 {
	if v < 0 {
		return 0
	} else if v > 127 {
		return 127
	}
	return v
}

// Release forwards note-off to the pitch envelope.
func (t *TVP) Release() { t.env.Release() }
