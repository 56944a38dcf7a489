// part.go - one MIDI channel's worth of voices and controller state.
//
// Grounded on original_source/libemusc/src/part.h/part.cc: a Part owns
// its Notes list behind a mutex (folded here into Synth's single
// MIDI/audio mutex), applies Rx-filters and velocity sensing at
// admission, and routes Control Change / RPN / NRPN messages into
// Settings.

package scsynth

type Part struct {
	id       int
	settings *Settings
	rom      *ControlROM
	pcmRom   *PCMROM

	voices []*Voice
	mute   bool

	rpnMSB, rpnLSB   uint8
	nrpnMSB, nrpnLSB uint8

	sampleRate float64
}

// NewPart builds an idle Part bound to MIDI channel id (0-15).
func NewPart(id int, settings *Settings, rom *ControlROM, pcmRom *PCMROM, sampleRate float64) *Part {
	return &Part{id: id, settings: settings, rom: rom, pcmRom: pcmRom, sampleRate: sampleRate, rpnMSB: 0x7f, rpnLSB: 0x7f}
}

func (p *Part) isDrum() bool {
	return p.settings.GetPatch(UseForRhythm, p.id) != 0
}

func (p *Part) drumMapIndex() int {
	if p.settings.GetPatch(UseForRhythm, p.id) == 2 {
		return 1
	}
	return 0
}

// PartialCount reports the total partials currently occupied by this
// Part's active voices, for the Synth's global polyphony cap.
func (p *Part) PartialCount() int {
	n := 0
	for _, v := range p.voices {
		n += v.PartialCount()
	}
	return n
}

// AddNote admits a note-on, applying Rx filters, key-range, and
// velocity sensitivity.
func (p *Part) AddNote(key, velocity int) {
	if p.mute || p.settings.GetPatch(RxNoteMessage, p.id) == 0 {
		return
	}
	low := int(p.settings.GetPatch(KeyRangeLow, p.id))
	high := int(p.settings.GetPatch(KeyRangeHigh, p.id))
	if key < low || key > high {
		return
	}

	depth := float64(p.settings.GetPatch(VelocitySenseDepth, p.id))
	offset := float64(p.settings.GetPatch(VelocitySenseOffset, p.id))
	v := float64(velocity)
	if depth != 0 {
		v = v * depth / 64
	}
	if offset >= 64 {
		v += offset - 64
	} else if offset > 0 {
		v = v * (offset + 64) / 127
	}
	if v < 0 {
		v = 0
	} else if v > 127 {
		v = 127
	}

	if p.settings.GetPatch(PolyMode, p.id) == 0 && !p.isDrum() {
		for _, old := range p.voices {
			old.Panic()
		}
	}

	voice := NewVoice(p.rom, p.pcmRom, p.settings, p.id, key, int(v), p.isDrum(), p.drumMapIndex(), p.sampleRate)
	if voice == nil {
		return
	}
	voice.Sustain(p.settings.GetPatch(Hold1, p.id) >= 64)
	p.voices = append(p.voices, voice)
}

// StopNote releases every non-finished voice at key. On a drum part the
// note-off is ignored when the drum set's flags for key do not accept it.
func (p *Part) StopNote(key int) {
	if p.isDrum() {
		ds := p.rom.DrumSets[p.drumMapIndex()%len(p.rom.DrumSets)]
		if ds.Flags[key&0x7f]&0x01 == 0 {
			return
		}
	}
	for _, v := range p.voices {
		if v.key == key && !v.Finished() {
			v.Stop()
		}
	}
}

// StopAllNotes transitions every active voice to Release.
func (p *Part) StopAllNotes() {
	for _, v := range p.voices {
		v.Stop()
	}
}

// DeleteAllNotes (panic) drops every voice immediately.
func (p *Part) DeleteAllNotes() {
	for _, v := range p.voices {
		v.Panic()
	}
	p.voices = p.voices[:0]
}

// ControlChange handles a CC message, routing well-known numbers into
// Settings and per-voice effects.
func (p *Part) ControlChange(cc, value uint8) {
	switch cc {
	case 0: // Bank select
		p.settings.SetPatch(ToneNumber, p.id, value)
	case 1: // Modulation
		p.settings.SetPatch(Modulation, p.id, value)
	case 6: // Data entry MSB
		p.dataEntry(value, true)
	case 7: // Volume
		p.settings.SetPatch(PartLevel, p.id, value)
	case 10: // Pan
		p.settings.SetPatch(PartPanpot, p.id, value)
	case 11: // Expression
		p.settings.SetPatch(Expression, p.id, value)
	case 38: // Data entry LSB
		p.dataEntry(value, false)
	case 64: // Hold1
		p.settings.SetPatch(Hold1, p.id, value)
		for _, v := range p.voices {
			v.Sustain(value >= 64)
		}
	case 65: // Portamento
		p.settings.SetPatch(Portamento, p.id, value)
	case 66: // Sostenuto
		p.settings.SetPatch(Sostenuto, p.id, value)
	case 67: // Soft
		p.settings.SetPatch(Soft, p.id, value)
	case 91: // Reverb send
		p.settings.SetPatch(ReverbSendLevel, p.id, value)
	case 93: // Chorus send
		p.settings.SetPatch(ChorusSendLevel, p.id, value)
	case 98:
		p.nrpnLSB = value
	case 99:
		p.nrpnMSB = value
	case 100:
		p.rpnLSB = value
	case 101:
		p.rpnMSB = value
	case 120, 123:
		p.DeleteAllNotes()
	case 121:
		p.settings.Reset(ModeGS)
	case 126:
		p.settings.SetPatch(PolyMode, p.id, 0)
	case 127:
		p.settings.SetPatch(PolyMode, p.id, 1)
	}
}

func (p *Part) dataEntry(value uint8, msb bool) {
	if p.rpnMSB != 0x7f || p.rpnLSB != 0x7f {
		switch {
		case p.rpnMSB == 0 && p.rpnLSB == 0 && msb: // pitch bend range, semitones
			if value > 24 {
				value = 24
			}
			p.settings.SetPatch(PitchBendRange, p.id, value)
		case p.rpnMSB == 0 && p.rpnLSB == 1: // fine tune
			p.settings.SetPatch(PitchFineTune, p.id, value)
		case p.rpnMSB == 0 && p.rpnLSB == 2 && msb: // coarse tune
			p.settings.SetPatch(PitchCoarseTune, p.id, value)
		}
		return
	}
	if value < 0x0e || value > 0x72 {
		return
	}
	switch {
	case p.nrpnMSB == 1 && p.nrpnLSB == 8:
		p.settings.SetPatch(VibratoRate, p.id, value)
	case p.nrpnMSB == 1 && p.nrpnLSB == 9:
		p.settings.SetPatch(VibratoDepth, p.id, value)
	case p.nrpnMSB == 1 && p.nrpnLSB == 0x0a:
		p.settings.SetPatch(VibratoDelay, p.id, value)
	case p.nrpnMSB == 1 && p.nrpnLSB == 0x20:
		p.settings.SetPatch(TVFCutoffFreq, p.id, value)
	case p.nrpnMSB == 1 && p.nrpnLSB == 0x21:
		p.settings.SetPatch(TVFResonance, p.id, value)
	case p.nrpnMSB == 1 && p.nrpnLSB == 0x63:
		p.settings.SetPatch(TVFAEnvAttack, p.id, value)
	case p.nrpnMSB == 1 && p.nrpnLSB == 0x64:
		p.settings.SetPatch(TVFAEnvDecay, p.id, value)
	case p.nrpnMSB == 1 && p.nrpnLSB == 0x66:
		p.settings.SetPatch(TVFAEnvRelease, p.id, value)
	}
}

// ProgramChange stores the program number and, outside drum mode,
// resolves bank/program into an instrument (falling back through lower
// banks). In drum mode it only stores the program: the drum set a note
// plays is chosen by the part's UseForRhythm map, not by the program.
func (p *Part) ProgramChange(program uint8) {
	p.settings.SetPatch(ToneNumber2, p.id, program)
	if p.isDrum() {
		return
	}
	bank := int(p.settings.GetPatch(ToneNumber, p.id))
	for b := bank; b >= 0; b-- {
		if p.rom.Variations[b][program] != 0xffff {
			p.settings.SetPatch(ToneNumber, p.id, uint8(b))
			return
		}
	}
}

// PitchBendChange stores a 14-bit pitch bend value into Settings, centered
// at 0x2000. On SC-55/SC-55mkII (§3: "12-bit resolution ... 14-bit wire
// value with low bits masked") the combined value's low 2 bits are zeroed
// before storage; SC-88 would keep the full 14 bits, but SC-88 control
// ROMs are rejected at load so that path is unreachable here.
func (p *Part) PitchBendChange(lsb, msb uint8) {
	value := uint16(msb)<<7 | uint16(lsb)
	if p.rom.Generation == GenSC55 || p.rom.Generation == GenSC55mkII {
		value &^= 0x3
	}
	p.settings.SetPatchUint16(PitchBend, p.id, value)
}

// ChannelPressure/PolyKeyPressure store aftertouch values.
func (p *Part) ChannelPressure(value uint8) {
	p.settings.SetPatch(ChannelPressure, p.id, value)
}

func (p *Part) PolyKeyPressure(value uint8) {
	p.settings.SetPatch(PolyKeyPressure, p.id, value)
}

// NextSample sums all active voices into a stereo accumulator and prunes
// finished ones.
func (p *Part) NextSample() (left, right float32) {
	alive := p.voices[:0]
	level := float32(p.settings.GetPatch(PartLevel, p.id)) / 127
	expr := float32(p.settings.GetPatch(Expression, p.id)) / 127
	for _, v := range p.voices {
		l, r := v.NextSample()
		left += l * level * expr
		right += r * level * expr
		if !v.Finished() {
			alive = append(alive, v)
		}
	}
	p.voices = alive
	return left, right
}

// Mute/Unmute toggles audible output without affecting voice state.
func (p *Part) SetMute(m bool) { p.mute = m }
func (p *Part) Muted() bool    { return p.mute }

func (p *Part) Reset() {
	p.voices = nil
	p.rpnMSB, p.rpnLSB = 0x7f, 0x7f
	p.nrpnMSB, p.nrpnLSB = 0, 0
}
