// wav.go - minimal streaming WAV (PCM16) writer for offline rendering.
package main

import (
	"encoding/binary"
	"os"
)

// wavWriter streams signed 16-bit PCM frames to a RIFF/WAVE file,
// patching the header sizes on Close once the total length is known.
type wavWriter struct {
	f          *os.File
	channels   int
	sampleRate int
	frames     uint32
}

func newWAVWriter(path string, sampleRate, channels int) (*wavWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := &wavWriter{f: f, channels: channels, sampleRate: sampleRate}
	if err := w.writeHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

func (w *wavWriter) writeHeader() error {
	const bitsPerSample = 16
	byteRate := w.sampleRate * w.channels * bitsPerSample / 8
	blockAlign := w.channels * bitsPerSample / 8

	hdr := make([]byte, 44)
	copy(hdr[0:4], "RIFF")
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(hdr[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(hdr[22:24], uint16(w.channels))
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(w.sampleRate))
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(hdr[34:36], bitsPerSample)
	copy(hdr[36:40], "data")
	_, err := w.f.Write(hdr)
	return err
}

// WriteFrame appends one interleaved frame of len(frame) == channels
// samples.
func (w *wavWriter) WriteFrame(frame []int16) error {
	buf := make([]byte, len(frame)*2)
	for i, s := range frame {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	if _, err := w.f.Write(buf); err != nil {
		return err
	}
	w.frames++
	return nil
}

// Close patches the RIFF and data chunk sizes and closes the file.
func (w *wavWriter) Close() error {
	dataBytes := w.frames * uint32(w.channels) * 2
	var sizeBuf [4]byte

	binary.LittleEndian.PutUint32(sizeBuf[:], dataBytes+36)
	if _, err := w.f.WriteAt(sizeBuf[:], 4); err != nil {
		w.f.Close()
		return err
	}
	binary.LittleEndian.PutUint32(sizeBuf[:], dataBytes)
	if _, err := w.f.WriteAt(sizeBuf[:], 40); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
