// envelope.go - 5-phase AHDSR-style envelope generator shared by
// TVP/TVF/TVA.
//
// Grounded on original_source/libemusc/src/envelope.cc: phases
// Attack1, Attack2, Decay1, Decay2 (sustain), Release, each with a
// target level, a duration drawn from the EnvelopeTime LUT, and a linear
// or exponential shape. Decay2 holds indefinitely while its target is
// non-zero; Release is triggered externally on note-off.

package scsynth

type envPhase int

const (
	envAttack1 envPhase = iota
	envAttack2
	envDecay1
	envDecay2
	envRelease
	envFinished
)

type envShape int

const (
	shapeLinear envShape = iota
	shapeExponential
)

// EnvelopePhaseSpec describes one phase's target level (0..1), raw
// duration index (0..127 before key-follow/velocity-sensitivity
// scaling), and shape.
type EnvelopePhaseSpec struct {
	Target   float64
	Duration uint8
	Shape    envShape
}

// Envelope runs a 5-phase piecewise curve driven by a LookupTables'
// EnvelopeTime and TVAEnvExpChange tables.
type Envelope struct {
	lut *LookupTables

	phases      [5]EnvelopePhaseSpec
	phase       envPhase
	phaseLen    int
	phaseSample int
	phaseInit   float64
	value       float64

	sampleRate float64

	// toneModify, when non-nil, returns the NRPN tone-modify duration
	// offsets (attack, decay, release) for TVF/TVA envelopes; the pitch
	// envelope leaves this nil per spec §4.4 item 1.
	toneModify func() (attack, decay, release int)

	releaseRequested bool
	finished         bool
}

// NewEnvelope builds an envelope; phases[envDecay2].Target != 0 makes
// Decay2 a sustain hold.
func NewEnvelope(lut *LookupTables, sampleRate float64, phases [5]EnvelopePhaseSpec) *Envelope {
	e := &Envelope{lut: lut, sampleRate: sampleRate, phases: phases}
	e.enterPhase(envAttack1)
	return e
}

// NewEnvelopeWithToneModify builds an envelope whose Attack1/Attack2,
// Decay1/Decay2, and Release phase durations are additionally offset by
// the NRPN tone-modify values read from toneModify at each phase entry
// (grounded on original_source/libemusc/src/envelope.cc's
// _init_new_phase, which re-reads these settings live on every phase
// transition rather than caching them at construction time).
func NewEnvelopeWithToneModify(lut *LookupTables, sampleRate float64, phases [5]EnvelopePhaseSpec, toneModify func() (attack, decay, release int)) *Envelope {
	e := &Envelope{lut: lut, sampleRate: sampleRate, phases: phases, toneModify: toneModify}
	e.enterPhase(envAttack1)
	return e
}

func (e *Envelope) enterPhase(p envPhase) {
	e.phase = p
	e.phaseSample = 0
	e.phaseInit = e.value
	if p == envFinished {
		e.finished = true
		return
	}
	spec := e.phases[p]
	durIdx := int(spec.Duration)
	if e.toneModify != nil {
		attack, decay, release := e.toneModify()
		switch p {
		case envAttack1, envAttack2:
			durIdx += attack
		case envDecay1, envDecay2:
			durIdx += decay
		case envRelease:
			durIdx += release
		}
		if durIdx < 0 {
			durIdx = 0
		} else if durIdx > 127 {
			durIdx = 127
		}
	}
	ms := float64(e.lut.EnvelopeTime[durIdx]) * 8.0
	e.phaseLen = int(ms * e.sampleRate / 1000.0)
	if e.phaseLen < 1 {
		e.phaseLen = 1
	}
}

// Next advances one sample and returns the current envelope value.
func (e *Envelope) Next() float64 {
	if e.phase == envFinished {
		return e.value
	}

	spec := e.phases[e.phase]
	progress := float64(e.phaseSample) / float64(e.phaseLen)
	if progress > 1 {
		progress = 1
	}

	switch spec.Shape {
	case shapeLinear:
		e.value = e.phaseInit + (spec.Target-e.phaseInit)*progress
	case shapeExponential:
		idx := int(255 - 255*progress)
		if idx < 0 {
			idx = 0
		}
		if idx > 127 {
			idx = 127
		}
		change := float64(e.lut.TVAEnvExpChange[idx]) / 65535.0
		e.value = spec.Target + (e.phaseInit-spec.Target)*change
	}

	e.phaseSample++
	if e.phaseSample >= e.phaseLen {
		e.advancePhase()
	}
	return e.value
}

func (e *Envelope) advancePhase() {
	switch e.phase {
	case envAttack1:
		e.enterPhase(envAttack2)
	case envAttack2:
		e.enterPhase(envDecay1)
	case envDecay1:
		e.enterPhase(envDecay2)
	case envDecay2:
		if e.releaseRequested {
			e.enterPhase(envRelease)
			return
		}
		if e.phases[envDecay2].Target != 0 {
			// Sustain: hold this phase until Release is requested.
			e.phaseSample = e.phaseLen - 1
			return
		}
		e.enterPhase(envRelease)
	case envRelease:
		e.enterPhase(envFinished)
	}
}

// Release enters the Release phase at once from any earlier phase; an
// envelope already releasing or finished is left as it is.
func (e *Envelope) Release() {
	e.releaseRequested = true
	if e.phase == envDecay2 || e.phase < envRelease {
		e.enterPhase(envRelease)
	}
}

// Finished reports whether the envelope has completed its Release phase.
func (e *Envelope) Finished() bool { return e.finished }

// Value returns the last computed output without advancing.
func (e *Envelope) Value() float64 { return e.value }
