// pcmrom.go - PCM ROM loader: address/data unscrambling and linear
// sample decoding.
//
// Grounded on original_source/libemusc/src/pcm_rom.cc: each PCM ROM file
// has its data bits permuted by a fixed 8-bit permutation and its address
// bits permuted by a fixed 20-bit permutation; the first 0x20 bytes of
// each file are left untouched. Decoded samples are produced by a
// nibble-shift table stored every 32 bytes of the unscrambled image.

package scsynth

import (
	"fmt"
	"os"
)

// byteBitOrder permutes bit i of a scrambled PCM byte from bit
// byteBitOrder[i] of the raw file byte.
var byteBitOrder = [8]uint{2, 0, 4, 5, 7, 6, 3, 1}

// addressBitOrder permutes bit i of the unscrambled 20-bit address from
// bit addressBitOrder[i] of the raw file offset.
var addressBitOrder = [20]uint{
	0x02, 0x00, 0x03, 0x04, 0x01, 0x09, 0x0D, 0x0A, 0x12, 0x11,
	0x06, 0x0F, 0x0B, 0x10, 0x08, 0x05, 0x0C, 0x07, 0x0E, 0x13,
}

// PCMROM holds the unscrambled, linear image of one or more PCM ROM
// files, banked by the top bits of a Sample.Address.
type PCMROM struct {
	banks map[uint32][]byte
}

// LoadPCMROM reads and unscrambles one or more PCM ROM files.
func LoadPCMROM(paths ...string) (*PCMROM, error) {
	rom := &PCMROM{banks: make(map[uint32][]byte)}
	for i, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrRomNotFound, path)
			}
			return nil, fmt.Errorf("reading pcm rom: %w", err)
		}
		if len(raw) < 6 || string(raw[0:6]) != "ROLAND" {
			return nil, fmt.Errorf("%w: %s does not start with ROLAND header", ErrRomUnknownModel, path)
		}
		if len(raw)%(1<<20) != 0 {
			return nil, fmt.Errorf("%w: %s size is not a multiple of 1MiB", ErrRomWrongSize, path)
		}
		img := unscramble(raw)
		bankKey := uint32(i) << 20
		rom.banks[bankKey] = img
	}
	return rom, nil
}

// unscramble applies the fixed bit-permutation scramble used by the
// Sound Canvas PCM ROMs to recover a linear image. The first 0x20 bytes
// are copied through unchanged.
func unscramble(raw []byte) []byte {
	out := make([]byte, len(raw))
	copy(out[:0x20], raw[:min(0x20, len(raw))])

	for newAddr := 0x20; newAddr < len(raw); newAddr++ {
		oldAddr := permuteAddress(newAddr)
		if oldAddr >= len(raw) {
			continue
		}
		out[newAddr] = permuteByte(raw[oldAddr])
	}
	return out
}

func permuteByte(b byte) byte {
	var out byte
	for i := 0; i < 8; i++ {
		if b&(1<<byteBitOrder[i]) != 0 {
			out |= 1 << uint(i)
		}
	}
	return out
}

func permuteAddress(addr int) int {
	out := addr &^ 0xfffff // bits above the 20-bit permutation pass through
	for i := 0; i < 20; i++ {
		if addr&(1<<uint(i)) != 0 {
			out |= 1 << addressBitOrder[i]
		}
	}
	return out
}

// bankForAddress maps the top bits of a Sample.Address to the byte
// offset of that bank's start within a 3MiB PCM address space, matching
// pcm_rom.cc's get_samples bank selection.
func bankForAddress(address uint32) (uint32, error) {
	switch (address & 0x700000) >> 20 {
	case 0:
		return 0x000000, nil
	case 1, 2:
		return 0x100000, nil
	case 4:
		return 0x200000, nil
	default:
		return 0, ErrRomPermutationInvalid
	}
}

// Decode renders samp's waveform to normalized float32 samples in
// [-1, 1]. A nibble-shift byte stored every 32 bytes of the unscrambled
// image selects how far each raw data byte is shifted before scaling.
func (r *PCMROM) Decode(samp Sample) ([]float32, error) {
	bankBase, err := bankForAddress(samp.Address)
	if err != nil {
		return nil, err
	}
	img := r.banks[bankBase]
	if img == nil {
		return nil, fmt.Errorf("%w: no PCM ROM data loaded for bank 0x%06x", ErrRomNotFound, bankBase)
	}

	addr := samp.Address & 0xFFFFF
	out := make([]float32, samp.SampleLen)
	for i := range out {
		pos := int(addr) + i
		if pos >= len(img) {
			break
		}
		shiftTableOff := (pos &^ 0x1f)
		if shiftTableOff >= len(img) {
			break
		}
		shiftByte := img[shiftTableOff]
		var nibble byte
		if pos&0x10 != 0 {
			nibble = shiftByte >> 4
		} else {
			nibble = shiftByte & 0x0f
		}
		shift := uint(nibble)
		data := int32(img[pos])
		sample := (data << shift) << 14 >> 1
		out[i] = float32(sample) / float32(1<<30)
	}
	return out, nil
}
