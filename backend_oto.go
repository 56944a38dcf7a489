//go:build !headless

// backend_oto.go - cross-platform audio output adapter.
//
// An atomic.Pointer hot-path read with a preallocated sample buffer,
// pulling int16 stereo frames from a Synth.

package scsynth

import (
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// OtoPlayer drives audio output through the oto/v3 cross-platform
// backend.
type OtoPlayer struct {
	ctx     *oto.Context
	player  *oto.Player
	synth   atomic.Pointer[Synth]
	frame   []int16
	channels int
	started bool
	mutex   sync.Mutex
}

// NewOtoPlayer opens an oto context at sampleRate with the given channel
// count (1 or 2).
func NewOtoPlayer(sampleRate int, channels int) (*OtoPlayer, error) {
	opts := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   4,
	}
	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, err
	}
	<-ready

	op := &OtoPlayer{ctx: ctx, channels: channels, frame: make([]int16, channels)}
	return op, nil
}

// SetupPlayer attaches the Synth whose NextFrame calls will fill the
// audio callback.
func (op *OtoPlayer) SetupPlayer(s *Synth) {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	op.synth.Store(s)
	op.player = op.ctx.NewPlayer(op)
}

// Read implements io.Reader for oto's pull-based player; it is the
// realtime audio actor's entry point into the synth.
func (op *OtoPlayer) Read(p []byte) (int, error) {
	s := op.synth.Load()
	if s == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	bytesPerFrame := 2 * op.channels
	numFrames := len(p) / bytesPerFrame
	for i := 0; i < numFrames; i++ {
		s.NextFrame(op.frame)
		off := i * bytesPerFrame
		for c := 0; c < op.channels; c++ {
			v := uint16(op.frame[c])
			p[off+c*2] = byte(v)
			p[off+c*2+1] = byte(v >> 8)
		}
	}
	return numFrames * bytesPerFrame, nil
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
}

func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	if op.started && op.player != nil {
		op.player.Close()
		op.started = false
	}
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}
