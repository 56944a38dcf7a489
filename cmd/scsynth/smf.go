// smf.go - minimal Standard MIDI File (SMF) reader.
//
// Hand-rolled with encoding/binary, matching the parsing style of the
// library's own controlrom.go and pcmrom.go loaders, rather than reaching
// for an unverified third-party module.
package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// midiEvent is one channel-voice message or SysEx buffer at an absolute
// tick position within its track.
type midiEvent struct {
	tick     uint64
	status   byte
	d1, d2   byte
	sysex    []byte
	isTempo  bool
	tempoUsq uint32 // microseconds per quarter note, when isTempo
}

// smfFile is a parsed Standard MIDI File: its tick division and the
// merged, tick-ordered event stream across all tracks.
type smfFile struct {
	division uint16 // ticks per quarter note (SMPTE formats are not supported)
	events   []midiEvent
}

func loadSMF(path string) (*smfFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := bufio.NewReader(f)

	if err := expectChunk(r, "MThd"); err != nil {
		return nil, err
	}
	hdrLen, err := readU32(r)
	if err != nil {
		return nil, err
	}
	hdr := make([]byte, hdrLen)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, err
	}
	if len(hdr) < 6 {
		return nil, fmt.Errorf("malformed MThd chunk")
	}
	numTracks := binary.BigEndian.Uint16(hdr[2:4])
	division := binary.BigEndian.Uint16(hdr[4:6])
	if division&0x8000 != 0 {
		return nil, fmt.Errorf("SMPTE time division is not supported")
	}

	smf := &smfFile{division: division}
	for i := uint16(0); i < numTracks; i++ {
		if err := expectChunk(r, "MTrk"); err != nil {
			return nil, err
		}
		trackLen, err := readU32(r)
		if err != nil {
			return nil, err
		}
		track := make([]byte, trackLen)
		if _, err := io.ReadFull(r, track); err != nil {
			return nil, err
		}
		events, err := parseTrack(track)
		if err != nil {
			return nil, err
		}
		smf.events = append(smf.events, events...)
	}

	sortEventsByTick(smf.events)
	return smf, nil
}

func expectChunk(r io.Reader, want string) error {
	id := make([]byte, 4)
	if _, err := io.ReadFull(r, id); err != nil {
		return err
	}
	if string(id) != want {
		return fmt.Errorf("expected %q chunk, found %q", want, id)
	}
	return nil
}

func readU32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

// parseTrack decodes one MTrk chunk body into absolute-tick events,
// expanding MIDI running status and skipping meta events other than
// Set Tempo.
func parseTrack(data []byte) ([]midiEvent, error) {
	var events []midiEvent
	var pos int
	var tick uint64
	var runningStatus byte

	readVLQ := func() (uint32, error) {
		var v uint32
		for i := 0; i < 4; i++ {
			if pos >= len(data) {
				return 0, fmt.Errorf("truncated variable-length quantity")
			}
			b := data[pos]
			pos++
			v = v<<7 | uint32(b&0x7f)
			if b&0x80 == 0 {
				return v, nil
			}
		}
		return 0, fmt.Errorf("variable-length quantity too long")
	}

	for pos < len(data) {
		delta, err := readVLQ()
		if err != nil {
			return nil, err
		}
		tick += uint64(delta)

		if pos >= len(data) {
			break
		}
		b := data[pos]

		if b == 0xff { // meta event
			pos++
			if pos >= len(data) {
				return nil, fmt.Errorf("truncated meta event")
			}
			metaType := data[pos]
			pos++
			length, err := readVLQ()
			if err != nil {
				return nil, err
			}
			if pos+int(length) > len(data) {
				return nil, fmt.Errorf("truncated meta event body")
			}
			body := data[pos : pos+int(length)]
			pos += int(length)
			if metaType == 0x51 && len(body) == 3 {
				usq := uint32(body[0])<<16 | uint32(body[1])<<8 | uint32(body[2])
				events = append(events, midiEvent{tick: tick, isTempo: true, tempoUsq: usq})
			}
			continue
		}

		if b == 0xf0 || b == 0xf7 { // sysex (single or continuation)
			pos++
			length, err := readVLQ()
			if err != nil {
				return nil, err
			}
			if pos+int(length) > len(data) {
				return nil, fmt.Errorf("truncated sysex event")
			}
			buf := make([]byte, 0, int(length)+2)
			if b == 0xf0 {
				buf = append(buf, 0xf0)
			}
			buf = append(buf, data[pos:pos+int(length)]...)
			pos += int(length)
			events = append(events, midiEvent{tick: tick, sysex: buf})
			continue
		}

		var status byte
		if b&0x80 != 0 {
			status = b
			pos++
			runningStatus = status
		} else {
			status = runningStatus
		}
		if status == 0 {
			return nil, fmt.Errorf("channel event with no running status")
		}

		nargs := channelEventArgCount(status)
		if pos+nargs > len(data) {
			return nil, fmt.Errorf("truncated channel event")
		}
		ev := midiEvent{tick: tick, status: status}
		if nargs >= 1 {
			ev.d1 = data[pos]
		}
		if nargs >= 2 {
			ev.d2 = data[pos+1]
		}
		pos += nargs
		events = append(events, ev)
	}
	return events, nil
}

func channelEventArgCount(status byte) int {
	switch status & 0xf0 {
	case 0xc0, 0xd0:
		return 1
	default:
		return 2
	}
}

func sortEventsByTick(events []midiEvent) {
	// Track-merge order is small enough per file that a simple
	// insertion sort keeps this dependency-free and stable on ties.
	for i := 1; i < len(events); i++ {
		for j := i; j > 0 && events[j].tick < events[j-1].tick; j-- {
			events[j], events[j-1] = events[j-1], events[j]
		}
	}
}
