// voice.go - a sounding Note and its one or two Partials.
//
// Grounded on original_source/libemusc/src/note.cc and
// note_partial.cc: a Voice is born at note-on with an instrument
// resolved from the Variation table (or a drum preset), owns one shared
// LFO1, and drives 1-2 partialState instances which each interpolate
// PCM, run their own LFO2/TVP/TVF/TVA chain, and report when finished.

package scsynth

type loopMode uint8

const (
	loopForward     loopMode = 0
	loopForwardBack loopMode = 1
	loopOneShot     loopMode = 2
)

// partialState is one Partial's playback position plus its private
// modulation chain.
type partialState struct {
	sample   *Sample
	pcm      []float32
	position float64
	dir      float64 // +1 or -1, for loopForwardBack

	lfo2 *LFO
	tvp  *TVP
	tvf  *TVF
	tva  *TVA

	finished bool
}

// Voice is one active note spanning up to two Partials.
type Voice struct {
	key      int
	velocity int
	drum     bool

	lfo1 *LFO

	partials   []*partialState
	updateSkip int
	tickCount  int

	sustained    bool
	stopPending  bool
	uninterruptible bool

	rom        *ControlROM
	pcmRom     *PCMROM
	settings   *Settings
	part       int
	sampleRate float64

	finished bool
}

// NewVoice resolves an instrument for (key, velocity) and builds its
// partials. Returns nil if the instrument index resolves to 0xFFFF
// (dropped silently, per note.cc).
func NewVoice(rom *ControlROM, pcmRom *PCMROM, settings *Settings, part int, key, velocity int, drum bool, drumMapIdx int, sampleRate float64) *Voice {
	var instIdx uint16
	if drum {
		ds := rom.DrumSets[drumMapIdx%len(rom.DrumSets)]
		if ds.Flags[key]&0x10 == 0 {
			return nil
		}
		instIdx = ds.Preset[key]
	} else {
		bank := int(settings.GetPatch(ToneNumber, part))
		program := int(settings.GetPatch(ToneNumber2, part))
		instIdx = rom.Variations[bank%128][program%128]
	}
	if instIdx == 0xffff || int(instIdx) >= len(rom.Instruments) {
		return nil
	}

	inst := &rom.Instruments[instIdx]
	v := &Voice{
		key: key, velocity: velocity, drum: drum,
		rom: rom, pcmRom: pcmRom, settings: settings, part: part,
		sampleRate: sampleRate,
		lfo1:       NewLFO(inst.LFO1Waveform, inst.LFO1Rate, inst.LFO1Delay, inst.LFO1Fade, sampleRate),
		updateSkip: int(256 * sampleRate / 32000),
	}
	if v.updateSkip < 1 {
		v.updateSkip = 1
	}

	for p := 0; p < 2; p++ {
		if inst.PartialsUsed&(1<<uint(p)) == 0 {
			continue
		}
		ip := &inst.Partials[p]
		if int(ip.PartialIndex) >= len(rom.Partials) {
			continue
		}
		partialRec := &rom.Partials[ip.PartialIndex]

		sampleIdx := partialRec.Samples[0]
		for i, brk := range partialRec.Breaks {
			if key <= int(brk) {
				sampleIdx = partialRec.Samples[i]
				break
			}
		}
		if int(sampleIdx) >= len(rom.Samples) {
			continue
		}
		samp := &rom.Samples[sampleIdx]
		pcm, err := pcmRom.Decode(*samp)
		if err != nil {
			continue
		}

		rootKey := int(samp.RootKey)
		ps := &partialState{
			sample: samp,
			pcm:    pcm,
			dir:    1,
			lfo2:   NewLFO(ip.LFO2Waveform, ip.LFO2Rate, ip.LFO2Delay, ip.LFO2Fade, sampleRate),
			tvp:    NewTVP(&rom.LUT, ip, samp, key, rootKey, settings, part, sampleRate),
		}

		kind := filterOff
		if ip.TVFBaseFlt >= 0 {
			kind = filterLPF
		}
		ps.tvf = NewTVF(kind, &rom.LUT, ip, key, sampleRate, settings, part)

		levelIdx := convertVolume(float64(ip.Volume)) + convertVolume(float64(samp.Volume)) + biasLevel(&rom.LUT, key, ip)
		panRandom := false
		panpot := float64(ip.Panpot) + 64
		if panpot == 64 && settings.GetPatch(PartPanpot, part) == 0 {
			panRandom = true
		}
		ps.tva = NewTVA(&rom.LUT, ip, levelIdx, panpot, panRandom, sampleRate, settings, part)

		v.partials = append(v.partials, ps)
	}

	if len(v.partials) == 0 {
		return nil
	}
	return v
}

func biasLevel(lut *LookupTables, key int, ip *InstPartial) float64 {
	// Simplified bias: real hardware indirects through a key-map LUT;
	// this keeps the key-distance-from-center shape without the ROM
	// key-map table, which this loader does not expose separately.
	dist := key - 64
	if dist < 0 {
		dist = -dist
	}
	return float64(lut.TVABiasLevel[dist&0x7f])
}

// NextSample advances the Voice by one output sample and returns its
// stereo contribution. Once every Partial has finished, Finished reports
// true.
func (v *Voice) NextSample() (left, right float32) {
	v.tickCount++
	doControlTick := v.tickCount >= v.updateSkip
	if doControlTick {
		v.tickCount = 0
	}

	var lfo1Val float32
	if doControlTick {
		vibratoRate := float64(v.settings.GetPatch(VibratoRate, v.part)) - 0x40
		lfo1Offset := vibratoRate + v.settings.ControllerDestSum(v.part, DestLFO1RateControl)
		v.lfo1.UpdateDynamicRate(lfo1Offset, v.sampleRate)
		lfo1Val = v.lfo1.Next()
	} else {
		lfo1Val = v.lfo1.Value()
	}

	allFinished := true
	for _, p := range v.partials {
		if p.finished {
			continue
		}

		var lfo2Val float32
		if doControlTick {
			lfo2Offset := v.settings.ControllerDestSum(v.part, DestLFO2RateControl)
			p.lfo2.UpdateDynamicRate(lfo2Offset, v.sampleRate)
			lfo2Val = p.lfo2.Next()
		}

		step := p.tvp.Multiplier(lfo1Val, lfo2Val)
		pos := p.position
		idx := int(pos)
		if idx < 0 {
			idx = 0
		}
		if idx >= len(p.pcm) {
			idx = len(p.pcm) - 1
		}
		frac := pos - float64(idx)
		var next float32
		if idx+1 < len(p.pcm) {
			next = p.pcm[idx+1]
		} else {
			next = p.pcm[idx]
		}
		sample := p.pcm[idx]*(1-float32(frac)) + next*float32(frac)

		sample = p.tvf.Process(sample, lfo1Val, lfo2Val, float64(v.settings.GetPatch(TVFCutoffFreq, v.part)), float64(v.settings.GetPatch(TVFResonance, v.part)), v.key)

		gain := float32(convertVolume(float64(v.velocity)) + 1)
		l, r := p.tva.Process(sample, lfo1Val, lfo2Val, gain)
		left += l
		right += r

		p.position += step * p.dir
		v.advanceLoop(p)
		if p.tva.Finished() {
			p.finished = true
		} else {
			allFinished = false
		}
	}

	if allFinished {
		v.finished = true
	}
	return left, right
}

func (v *Voice) advanceLoop(p *partialState) {
	length := float64(p.sample.SampleLen)
	loopStart := length - float64(p.sample.LoopLen) - 1
	switch loopMode(p.sample.LoopMode) {
	case loopForward:
		if p.position >= length {
			p.position = loopStart
		}
	case loopForwardBack:
		if p.position >= length {
			p.dir = -1
		} else if p.position <= loopStart {
			p.dir = 1
		}
	case loopOneShot:
		if p.position >= length {
			p.finished = true
		}
	}
}

// Stop begins the Release phase of every partial, unless Hold1 is
// active (in which case the stop is deferred) or the voice is marked
// uninterruptible. NewVoice never sets that mark; drum note-offs are
// filtered earlier, by Part.StopNote.
func (v *Voice) Stop() {
	if v.uninterruptible {
		return
	}
	if v.sustained {
		v.stopPending = true
		return
	}
	for _, p := range v.partials {
		p.tvp.Release()
		p.tvf.Release()
		p.tva.Release()
	}
}

// Sustain sets the sustain-pedal state; a falling edge releases any
// deferred stop.
func (v *Voice) Sustain(on bool) {
	v.sustained = on
	if !on && v.stopPending {
		v.stopPending = false
		v.Stop()
	}
}

// Finished reports whether every partial has completed Release.
func (v *Voice) Finished() bool { return v.finished }

// PartialCount reports how many partials this voice still occupies
// against the global polyphony budget.
func (v *Voice) PartialCount() int {
	n := 0
	for _, p := range v.partials {
		if !p.finished {
			n++
		}
	}
	return n
}

// Panic forcibly marks the voice finished without running Release.
func (v *Voice) Panic() { v.finished = true }
