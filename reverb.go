// reverb.go - Schroeder-style reverb: 3 series allpass filters feeding 4
// parallel comb filters, plus two delay-feedback "Delay"/"Panning Delay"
// modes that bypass the network entirely.
//
// Grounded on original_source/libemusc/src/reverb.cc. Comb feedback
// coefficients are assigned directly from ReverbTime/32.0 (not an
// exponential decay formula) per that source; see DESIGN.md's Open
// Question resolution.

package scsynth

// combDelayLengths44k are the Schroeder comb delay lengths at 44.1kHz.
var combDelayLengths44k = [4]int{1116, 1356, 1422, 1617}

// allpassDelayLengths44k are the series allpass delay lengths at 44.1kHz.
var allpassDelayLengths44k = [3]int{225, 341, 441}

// outputDelayLengths44k decorrelate the comb sum into stereo.
var outputDelayLengths44k = [2]int{211, 179}

type combFilter struct {
	buf         []float32
	pos         int
	feedback    float32
	lpState     float32
	damp        float32
}

func newCombFilter(length int) *combFilter {
	return &combFilter{buf: make([]float32, length)}
}

func (c *combFilter) process(in float32) float32 {
	out := c.buf[c.pos]
	c.lpState = out*(1-c.damp) + c.lpState*c.damp
	c.buf[c.pos] = in + c.lpState*c.feedback
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

type allpassFilter struct {
	buf         []float32
	pos         int
	coefficient float32
}

func newAllpassFilter(length int) *allpassFilter {
	return &allpassFilter{buf: make([]float32, length), coefficient: 0.5}
}

func (a *allpassFilter) process(in float32) float32 {
	bufOut := a.buf[a.pos]
	out := -in + bufOut
	a.buf[a.pos] = in + bufOut*a.coefficient
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return out
}

type delayLine struct {
	buf []float32
	pos int
}

func newDelayLine(length int) *delayLine {
	if length < 1 {
		length = 1
	}
	return &delayLine{buf: make([]float32, length)}
}

func (d *delayLine) process(in float32, feedback float32) float32 {
	out := d.buf[d.pos]
	d.buf[d.pos] = in + out*feedback
	d.pos++
	if d.pos >= len(d.buf) {
		d.pos = 0
	}
	return out
}

// Reverb is one Part's shared reverb send.
type Reverb struct {
	settings *Settings
	part     int

	allpass [3]*allpassFilter
	comb    [4]*combFilter
	outDly  [2]*delayLine
	fbDelay *delayLine

	effectMix float32
	scaler    float64

	lastReverbTime     uint8
	silenceCounter     int
	sampleRate         float64
	panning            bool
}

// NewReverb builds a Reverb scaled for sampleRate.
func NewReverb(settings *Settings, part int, sampleRate float64) *Reverb {
	scaler := sampleRate / 44100.0
	r := &Reverb{settings: settings, part: part, effectMix: 0.3, scaler: scaler, sampleRate: sampleRate}
	for i, l := range allpassDelayLengths44k {
		r.allpass[i] = newAllpassFilter(scaledOdd(l, scaler))
	}
	for i, l := range combDelayLengths44k {
		r.comb[i] = newCombFilter(scaledOdd(l, scaler))
	}
	for i, l := range outputDelayLengths44k {
		r.outDly[i] = newDelayLine(scaledOdd(l, scaler))
	}
	r.fbDelay = newDelayLine(int(0.5 * sampleRate))
	return r
}

func scaledOdd(length int, scaler float64) int {
	n := int(float64(length) * scaler)
	if n%2 == 0 {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Process mixes a stereo input through the reverb and returns the wet
// stereo contribution (caller adds it to the dry signal).
func (r *Reverb) Process(inL, inR float32) (outL, outR float32) {
	mono := (inL + inR) / 2
	if mono == 0 && inL == 0 && inR == 0 {
		r.silenceCounter++
	} else {
		r.silenceCounter = 0
	}
	if r.silenceCounter > int(r.sampleRate) {
		return 0, 0
	}

	character := r.settings.GetPatch(ReverbCharacter, r.part)
	reverbTime := r.settings.GetPatch(ReverbTime, r.part)
	if reverbTime != r.lastReverbTime {
		coeff := float32(reverbTime) / 32.0
		for _, c := range r.comb {
			c.feedback = coeff
		}
		r.lastReverbTime = reverbTime
	}

	if character < 6 {
		x := mono
		for _, ap := range r.allpass {
			x = ap.process(x)
		}
		var sum float32
		for _, c := range r.comb {
			sum += c.process(x)
		}
		wetL := r.outDly[0].process(sum, 0)
		wetR := r.outDly[1].process(sum, 0)
		outL = (1-r.effectMix)*0 + r.effectMix*wetL
		outR = (1-r.effectMix)*0 + r.effectMix*wetR
		return
	}

	// Modes 6/7: single feedback delay line, mode 7 switches channel at
	// the start of each full pass through the line.
	feedback := float32(r.settings.GetPatch(ReverbDelayFeedback, r.part)) / 180.0
	startOfPass := r.fbDelay.pos == 0
	wet := r.fbDelay.process(mono, feedback)
	if character == 6 {
		return wet, wet
	}
	if startOfPass {
		r.panning = !r.panning
	}
	if r.panning {
		return 0, wet
	}
	return wet, 0
}
