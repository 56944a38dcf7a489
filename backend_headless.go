//go:build headless

// backend_headless.go - no-op audio backend for tests and offline WAV
// rendering, selected via the "headless" build tag.

package scsynth

type OtoPlayer struct {
	started bool
	synth   *Synth
}

func NewOtoPlayer(sampleRate int, channels int) (*OtoPlayer, error) {
	return &OtoPlayer{}, nil
}

func (op *OtoPlayer) SetupPlayer(s *Synth) { op.synth = s }
func (op *OtoPlayer) Read(p []byte) (int, error) {
	return len(p), nil
}
func (op *OtoPlayer) Start()          { op.started = true }
func (op *OtoPlayer) Stop()           { op.started = false }
func (op *OtoPlayer) IsStarted() bool { return op.started }
