// synth.go - top-level Synth: owns 16 Parts, routes MIDI, mixes and
// clips to the audio output, enforces global polyphony.
//
// Grounded on original_source/libemusc/src/synth.{h,cc}. A single mutex
// serializes MIDI parsing against NextFrame; it is held only for
// the duration of one MIDI message's effect or one output frame.

package scsynth

import "sync"

// Synth is the complete SC-55/SC-55mkII wavetable synthesizer core.
type Synth struct {
	mu sync.Mutex

	mode     Mode
	settings *Settings
	rom      *ControlROM
	pcmRom   *PCMROM

	parts   [numParts]*Part
	effects [numParts]*SystemEffects

	sampleRate float64
	channels   uint8

	observers []func(partID int, peak float32)
	frameCount uint64

	muted bool
}

// NewSynth builds a Synth from already-loaded ROMs.
func NewSynth(rom *ControlROM, pcmRom *PCMROM, mode Mode) *Synth {
	s := &Synth{
		mode:       mode,
		settings:   NewSettings(),
		rom:        rom,
		pcmRom:     pcmRom,
		sampleRate: 44100,
		channels:   2,
	}
	s.settings.Reset(mode)
	for i := range s.parts {
		s.parts[i] = NewPart(i, s.settings, rom, pcmRom, s.sampleRate)
		s.effects[i] = NewSystemEffects(s.settings, i, s.sampleRate)
	}
	return s
}

// SetAudioFormat reconfigures the output sample rate and channel count.
func (s *Synth) SetAudioFormat(sampleRate uint32, channels uint8) error {
	if channels != 1 && channels != 2 {
		return ErrInvalidChannelCount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sampleRate = float64(sampleRate)
	s.channels = channels
	for i := range s.parts {
		s.parts[i] = NewPart(i, s.settings, s.rom, s.pcmRom, s.sampleRate)
		s.effects[i] = NewSystemEffects(s.settings, i, s.sampleRate)
	}
	return nil
}

// AddPartObserver registers an optional UI observer invoked from the
// audio actor every 100 frames. Observers must not
// call back into the Synth.
func (s *Synth) AddPartObserver(fn func(partID int, peak float32)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// MidiInput dispatches one MIDI short message.
func (s *Synth) MidiInput(status, d1, d2 byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	channel := int(status & 0x0f)
	part := s.partForChannel(channel)
	if part == nil {
		return
	}

	switch status & 0xf0 {
	case 0x80: // note off
		part.StopNote(int(d1))
	case 0x90: // note on (velocity 0 == note off)
		if d2 == 0 {
			part.StopNote(int(d1))
		} else if s.totalPartials() < 2*s.rom.MaxPolyphony() {
			part.AddNote(int(d1), int(d2))
		}
	case 0xa0: // poly pressure
		part.PolyKeyPressure(d2)
	case 0xb0: // control change
		part.ControlChange(d1, d2)
	case 0xc0: // program change
		part.ProgramChange(d1)
	case 0xd0: // channel pressure
		part.ChannelPressure(d1)
	case 0xe0: // pitch bend
		part.PitchBendChange(d1, d2)
	}
}

// totalPartials sums the partials held by every Part's active voices,
// the quantity the global polyphony cap is measured against.
func (s *Synth) totalPartials() int {
	n := 0
	for _, p := range s.parts {
		n += p.PartialCount()
	}
	return n
}

// partForChannel finds the Part whose RxChannel matches channel (0-15);
// RxChannel is stored 1-based, so 1-16 select channels 0-15 and 17
// ("off") never matches.
func (s *Synth) partForChannel(channel int) *Part {
	for _, p := range s.parts {
		if int(s.settings.GetPatch(RxChannel, p.id))-1 == channel {
			return p
		}
	}
	return nil
}

// MidiInputSysex validates and applies a Roland SysEx buffer.
func (s *Synth) MidiInputSysex(buf []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings.GetSystem(SysRxSysEx) == 0 {
		return
	}
	if !validSysex(buf) {
		Logger.Warn("rejected sysex: malformed or bad checksum", "len", len(buf))
		return
	}
	if buf[2] != s.settings.GetSystem(SysDeviceID)-1 && buf[2] != 0x7f {
		Logger.Warn("rejected sysex: device id mismatch", "got", buf[2])
		return
	}
	if buf[3] != 0x42 && buf[3] != 0x45 {
		Logger.Warn("rejected sysex: unknown model id", "model", buf[3])
		return
	}

	cmd := buf[4]
	if cmd != 0x12 { // only DT1 (data set) writes are applied
		return
	}
	addr := uint32(buf[5])<<16 | uint32(buf[6])<<8 | uint32(buf[7])
	data := buf[8 : len(buf)-2]

	if addr == 0x40007f { // GS reset
		s.settings.Reset(ModeGS)
		return
	}
	s.writeByAddress(addr, data)
}

func validSysex(buf []byte) bool {
	if len(buf) < 10 || buf[0] != 0xf0 || buf[len(buf)-1] != 0xf7 || buf[1] != 0x41 {
		return false
	}
	addrAndData := buf[5 : len(buf)-2]
	var sum int
	for _, b := range addrAndData {
		sum += int(b)
	}
	checksum := (128 - (sum % 128)) % 128
	return int(buf[len(buf)-2]) == checksum
}

// writeByAddress applies a DT1 write to system, per-part patch, or drum
// storage. addr is the 24-bit wire address as sent by real MIDI gear: top
// byte 0x40 covers both the system block (mid byte 0x00) and the patch
// blocks (mid byte 0x01 for the shared reverb/chorus/name block, 0x10-0x1f
// per-part, 0x20-0x2f per-part controller destinations, part = mid&0x0f);
// top byte 0x41 is the drum setup block (mid byte's low nibble selects the
// map, its high nibble selects which drum parameter table).
func (s *Synth) writeByAddress(addr uint32, data []byte) {
	hi := addr >> 16
	mid := byte(addr >> 8)
	low := byte(addr)

	switch hi {
	case 0x40:
		switch {
		case mid == 0x00:
			s.settings.SetSystemBytes(SystemParam(low), data)
		case mid == 0x01:
			s.settings.SetPatchBytes(PatchParam(0x0100|uint16(low)), 0, data)
		case mid >= 0x10 && mid <= 0x1f:
			s.settings.SetPatchBytes(PatchParam(0x1000|uint16(low)), int(mid&0x0f), data)
		case mid >= 0x20 && mid <= 0x2f:
			s.settings.SetPatchBytes(PatchParam(0x2000|uint16(low)), int(mid&0x0f), data)
		}
	case 0x41:
		mapIdx := int(mid & 0x0f)
		if mapIdx >= numDrumMaps || len(data) == 0 {
			return
		}
		group := DrumParam(uint16(mid&0xf0) << 4)
		s.settings.SetDrum(group, mapIdx, int(low), data[0])
	}
}

// NextFrame produces one interleaved audio frame (len(out) == channels).
func (s *Synth) NextFrame(out []int16) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.muted {
		for i := range out {
			out[i] = 0
		}
		return
	}

	var mixL, mixR float32
	s.frameCount++
	notify := s.frameCount%100 == 0

	for i, p := range s.parts {
		if p.Muted() {
			continue
		}
		l, r := p.NextSample()
		chorusSend := float32(s.settings.GetPatch(ChorusSendLevel, i)) / 127
		reverbSend := float32(s.settings.GetPatch(ReverbSendLevel, i)) / 127
		l, r = s.effects[i].Apply(l, r, chorusSend, reverbSend)
		mixL += l
		mixR += r

		if notify {
			peak := l
			if r > peak {
				peak = r
			}
			for _, obs := range s.observers {
				obs(i, peak)
			}
		}
	}

	pan := float32(s.settings.GetSystem(SysPan)) / 64
	vol := float32(s.settings.GetSystem(SysVolume)) / 127

	mixL *= vol
	mixR *= vol
	if pan < 1 {
		mixR *= pan
	} else if pan > 1 {
		mixL *= 2 - pan
	}

	out[0] = clipToInt16(mixL)
	if len(out) > 1 {
		out[1] = clipToInt16(mixR)
	}
}

func clipToInt16(v float32) int16 {
	if v > 1 {
		Logger.Warn("output clipped")
		v = 1
	} else if v < -1 {
		Logger.Warn("output clipped")
		v = -1
	}
	return int16(v * 32767)
}

// Panic drops every active voice without running Release.
func (s *Synth) Panic() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.parts {
		p.DeleteAllNotes()
	}
}

// Reset rebuilds Settings to mode's factory defaults. If resetParts is
// true, every Part's pending voices are also dropped.
func (s *Synth) Reset(mode Mode, resetParts bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.settings.Reset(mode)
	if resetParts {
		for _, p := range s.parts {
			p.Reset()
		}
	}
}

// Mute/Unmute silence or restore the master output.
func (s *Synth) Mute()   { s.mu.Lock(); s.muted = true; s.mu.Unlock() }
func (s *Synth) Unmute() { s.mu.Lock(); s.muted = false; s.mu.Unlock() }

// MutePart/UnmutePart silence or restore one Part's output.
func (s *Synth) MutePart(id int)   { s.mu.Lock(); s.parts[id%numParts].SetMute(true); s.mu.Unlock() }
func (s *Synth) UnmutePart(id int) { s.mu.Lock(); s.parts[id%numParts].SetMute(false); s.mu.Unlock() }

// Settings exposes the underlying parameter store for direct read/write
// access outside the MIDI path (e.g. a GUI settings panel).
func (s *Synth) Settings() *Settings { return s.settings }

// ControlROM/PCMROM expose the immutable loaded ROM data for
// introspection tools (cmd/romdump).
func (s *Synth) ControlROM() *ControlROM { return s.rom }
func (s *Synth) PCMROM() *PCMROM         { return s.pcmRom }
