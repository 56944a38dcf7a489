// errors.go - sentinel errors for ROM loading and configuration

package scsynth

import "errors"

var (
	ErrRomNotFound           = errors.New("rom file not found")
	ErrRomWrongSize          = errors.New("rom file has unexpected size")
	ErrRomUnknownModel       = errors.New("rom does not match any known Sound Canvas model")
	ErrRomSc88Unsupported    = errors.New("rom identifies as an SC-88 family module, which is not supported")
	ErrRomPermutationInvalid = errors.New("rom address did not map to a known PCM bank")
	ErrInvalidChannelCount   = errors.New("channel count must be 1 or 2")
)
