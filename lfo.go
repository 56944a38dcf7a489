// lfo.go - wave generator (LFO1/LFO2) control-rate modulation source.
//
// Grounded on original_source/libemusc/src/wave_generator.cc. Updated at
// control rate (see Voice's updateSkip), not per audio sample. Delay
// counts down silently before the waveform starts; fade then scales the
// output from 0 up to full amplitude.

package scsynth

import (
	"math"
	"math/rand/v2"
)

type lfoWaveform uint8

const (
	lfoSine lfoWaveform = iota
	lfoSquare
	lfoSawtooth
	lfoTriangle
	lfoRandom
)

// lfoTableSize is a control-rate sine table, intentionally much coarser
// than an audio-rate sine table since the LFO updates at ~125Hz rather
// than per audio sample.
const lfoTableSize = 256

var lfoSineLUT [lfoTableSize]float32

func init() {
	for i := 0; i < lfoTableSize; i++ {
		lfoSineLUT[i] = float32(math.Sin(2 * math.Pi * float64(i) / lfoTableSize))
	}
}

// LFO is the runtime state of one wave generator instance.
type LFO struct {
	waveform lfoWaveform
	rateStep float64 // phase increment per control tick
	phase    float64 // 0..1

	delayRemaining int
	fadeMax        int
	fadeRemaining  int

	value       float32
	randomValue float32
	rng         *rand.Rand

	updateCounter int
	baseRateByte  uint8
	dynamicOffset float64
}

// NewLFO seeds an LFO from ROM waveform/rate/delay/fade bytes.
func NewLFO(waveform, rateByte, delayByte, fadeByte uint8, sampleRate float64) *LFO {
	l := &LFO{
		waveform:       lfoWaveform(waveform % 5),
		baseRateByte:   rateByte,
		delayRemaining: lfoDelaySamples(delayByte, sampleRate),
		fadeMax:        lfoFadeSamples(fadeByte, sampleRate),
		rng:            rand.New(rand.NewPCG(1, uint64(rateByte)<<32|uint64(delayByte))),
	}
	l.fadeRemaining = l.fadeMax
	l.setRate(rateByte, sampleRate)
	return l
}

func lfoDelaySamples(delayByte uint8, sampleRate float64) int {
	ms := float64(delayByte) * 8.0
	return int(ms * sampleRate / 1000.0)
}

func lfoFadeSamples(fadeByte uint8, sampleRate float64) int {
	ms := float64(fadeByte) * 16.0
	return int(ms * sampleRate / 1000.0)
}

func (l *LFO) setRate(rateByte uint8, sampleRate float64) {
	hz := float64(rateByte) * 0.1
	controlRate := sampleRate / float64(max(1, int(256*sampleRate/32000))) // Voice's updateSkip
	if controlRate <= 0 {
		controlRate = 125
	}
	l.rateStep = hz / controlRate
}

// Next advances the LFO by one control tick and returns its output in
// [-1, 1].
func (l *LFO) Next() float32 {
	if l.delayRemaining > 0 {
		l.delayRemaining--
		return 0
	}

	var raw float32
	switch l.waveform {
	case lfoSine:
		raw = lfoSineLUT[int(l.phase*lfoTableSize)&(lfoTableSize-1)]
	case lfoSquare:
		if l.phase < 0.5 {
			raw = 1
		} else {
			raw = -1
		}
	case lfoSawtooth:
		raw = float32(2*l.phase - 1)
	case lfoTriangle:
		if l.phase < 0.5 {
			raw = float32(4*l.phase - 1)
		} else {
			raw = float32(3 - 4*l.phase)
		}
	case lfoRandom:
		if l.phase < 0.5 && l.phase+l.rateStep >= 0.5 {
			l.randomValue = float32(l.rng.Float64()*2 - 1)
		}
		if l.phase+l.rateStep >= 1.0 {
			l.randomValue = float32(l.rng.Float64()*2 - 1)
		}
		raw = l.randomValue
	}

	l.phase += l.rateStep
	for l.phase >= 1.0 {
		l.phase -= 1.0
	}

	if l.fadeRemaining > 0 {
		scale := float32(l.fadeMax-l.fadeRemaining) / float32(l.fadeMax)
		raw *= scale
		l.fadeRemaining--
	}

	l.value = raw
	return raw
}

// Value returns the last computed output without advancing state.
func (l *LFO) Value() float32 { return l.value }

// UpdateDynamicRate recomputes the rate offset from a controller
// accumulator (vibrato-rate trim + controller-routed modulation) every
// 100 calls, matching wave_generator.cc's update cadence.
func (l *LFO) UpdateDynamicRate(offsetCents float64, sampleRate float64) {
	l.updateCounter++
	if l.updateCounter < 100 {
		return
	}
	l.updateCounter = 0
	l.dynamicOffset = offsetCents
	effectiveByte := clampFloat(float64(l.baseRateByte)+offsetCents, 0, 127)
	l.setRate(uint8(effectiveByte), sampleRate)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
