// chorus.go - single-voice modulated delay chorus with feedback and a
// stereo-width output matrix.
//
// Grounded on original_source/libemusc/src/chorus.cc, whose actual
// constructor sets numVoices=1 (see DESIGN.md's resolution of the
// "3-voice" Open Question spec.md flags).

package scsynth

import "math"

type Chorus struct {
	settings *Settings
	part     int

	delayLine   []float32
	writeIndex  int
	lpState     float32

	phase      float64
	sampleRate float64

	silenceCounter int
}

// NewChorus builds a Chorus for one Part.
func NewChorus(settings *Settings, part int, sampleRate float64) *Chorus {
	return &Chorus{
		settings:   settings,
		part:       part,
		delayLine:  make([]float32, int(sampleRate*0.2)),
		sampleRate: sampleRate,
	}
}

// Process mixes a stereo input through the chorus and returns the wet
// stereo contribution.
func (c *Chorus) Process(inL, inR float32) (outL, outR float32) {
	mono := (inL + inR) / 2
	if inL == 0 && inR == 0 {
		c.silenceCounter++
	} else {
		c.silenceCounter = 0
	}
	if c.silenceCounter > int(c.sampleRate) {
		return 0, 0
	}

	depth := 1.4 * float64(c.settings.GetPatch(ChorusDepth, c.part))
	feedback := float32(c.settings.GetPatch(ChorusFeedback, c.part)) / 165.0
	delayMs := (c.sampleRate / 8192.0) * float64(c.settings.GetPatch(ChorusDelay, c.part))
	rateByte := float64(c.settings.GetPatch(ChorusRate, c.part))
	if rateByte > 105 {
		rateByte = 105
	}
	rateHz := rateByte / 8.0

	c.lpState = mono*0.3 + c.lpState*0.7
	filtered := c.lpState

	modDepthL := depth * 4 * math.Abs(c.phase-0.5)
	phaseR := c.phase + 0.25
	if phaseR >= 1 {
		phaseR -= 1
	}
	modDepthR := depth * 4 * math.Abs(phaseR-0.5)

	delayL := int((delayMs + modDepthL) * 0.0001 * c.sampleRate)
	delayR := int((delayMs + modDepthR) * 0.0001 * c.sampleRate)

	readL := (c.writeIndex + len(c.delayLine) - delayL) % len(c.delayLine)
	readR := (c.writeIndex + len(c.delayLine) - delayR) % len(c.delayLine)
	if readL < 0 {
		readL += len(c.delayLine)
	}
	if readR < 0 {
		readR += len(c.delayLine)
	}

	sampleL := c.delayLine[readL]
	sampleR := c.delayLine[readR]
	c.delayLine[c.writeIndex] = filtered + sampleL*feedback

	c.writeIndex++
	if c.writeIndex >= len(c.delayLine) {
		c.writeIndex = 0
	}
	c.phase += rateHz / c.sampleRate
	if c.phase >= 1 {
		c.phase -= 1
	}

	width := 0.5
	panL := math.Cos(0.5 * math.Pi * width)
	panR := math.Sin(0.5 * math.Pi * width)
	mid := 0.5 * float64(sampleL+sampleR)
	side := 0.5 * float64(sampleL-sampleR)
	outL = float32(panL*mid + panR*side)
	outR = float32(panR*mid - panL*side)
	return
}
