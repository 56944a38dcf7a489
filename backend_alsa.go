//go:build !headless && linux

// backend_alsa.go - native Linux audio output via ALSA: a cgo snd_pcm_*
// wrapper configured for signed 16-bit interleaved stereo frames pulled
// from a Synth.

package scsynth

/*
#cgo LDFLAGS: -lasound
#include <alsa/asoundlib.h>
#include <stdlib.h>

static snd_pcm_t* scsynth_alsa_open(const char* device, int* err) {
    snd_pcm_t* handle;
    *err = snd_pcm_open(&handle, device, SND_PCM_STREAM_PLAYBACK, 0);
    return handle;
}

static int scsynth_alsa_setup(snd_pcm_t* handle, unsigned int rate, unsigned int channels) {
    snd_pcm_hw_params_t* params;
    int err;

    snd_pcm_hw_params_alloca(&params);
    err = snd_pcm_hw_params_any(handle, params);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_access(handle, params, SND_PCM_ACCESS_RW_INTERLEAVED);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_format(handle, params, SND_PCM_FORMAT_S16_LE);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_channels(handle, params, channels);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_rate(handle, params, rate, 0);
    if (err < 0) return err;

    err = snd_pcm_hw_params(handle, params);
    if (err < 0) return err;

    return snd_pcm_prepare(handle);
}

static snd_pcm_sframes_t scsynth_alsa_write(snd_pcm_t* handle, short* buffer, snd_pcm_uframes_t frames) {
    return snd_pcm_writei(handle, buffer, frames);
}

static void scsynth_alsa_close(snd_pcm_t* handle) {
    if (handle != NULL) {
        snd_pcm_drain(handle);
        snd_pcm_close(handle);
    }
}
*/
import "C"

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// ALSAPlayer drives audio output directly through ALSA's PCM API. It is
// an alternative to OtoPlayer for Linux deployments that want to avoid
// the cross-platform cgo dependency chain oto pulls in.
type ALSAPlayer struct {
	handle   *C.snd_pcm_t
	channels int
	synth    atomic.Pointer[Synth]
	frame    []int16
	pcmBuf   []C.short

	mutex   sync.Mutex
	started bool
}

// NewALSAPlayer opens the default ALSA PCM device at sampleRate with the
// given channel count (1 or 2).
func NewALSAPlayer(sampleRate int, channels int) (*ALSAPlayer, error) {
	var cerr C.int
	handle := C.scsynth_alsa_open(C.CString("default"), &cerr)
	if cerr < 0 {
		return nil, fmt.Errorf("opening alsa pcm device: %s", C.GoString(C.snd_strerror(cerr)))
	}
	if cerr = C.scsynth_alsa_setup(handle, C.uint(sampleRate), C.uint(channels)); cerr < 0 {
		C.scsynth_alsa_close(handle)
		return nil, fmt.Errorf("configuring alsa pcm device: %s", C.GoString(C.snd_strerror(cerr)))
	}

	const framesPerPeriod = 512
	return &ALSAPlayer{
		handle:   handle,
		channels: channels,
		frame:    make([]int16, channels),
		pcmBuf:   make([]C.short, framesPerPeriod*channels),
	}, nil
}

// SetupPlayer attaches the Synth that Start will begin pulling frames from.
func (ap *ALSAPlayer) SetupPlayer(s *Synth) {
	ap.synth.Store(s)
}

// Start begins a blocking write loop on the calling goroutine; callers
// typically run it via `go ap.Start()`.
func (ap *ALSAPlayer) Start() {
	ap.mutex.Lock()
	if ap.started {
		ap.mutex.Unlock()
		return
	}
	ap.started = true
	ap.mutex.Unlock()

	for ap.IsStarted() {
		s := ap.synth.Load()
		if s == nil {
			return
		}
		framesPerPeriod := len(ap.pcmBuf) / ap.channels
		for i := 0; i < framesPerPeriod; i++ {
			s.NextFrame(ap.frame)
			for c := 0; c < ap.channels; c++ {
				ap.pcmBuf[i*ap.channels+c] = C.short(ap.frame[c])
			}
		}
		frames := C.scsynth_alsa_write(ap.handle, &ap.pcmBuf[0], C.snd_pcm_uframes_t(framesPerPeriod))
		if frames < 0 {
			C.snd_pcm_prepare(ap.handle)
		}
	}
}

func (ap *ALSAPlayer) Stop() {
	ap.mutex.Lock()
	ap.started = false
	ap.mutex.Unlock()
}

func (ap *ALSAPlayer) IsStarted() bool {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	return ap.started
}

// Close releases the underlying PCM device.
func (ap *ALSAPlayer) Close() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	if ap.handle != nil {
		C.scsynth_alsa_close(ap.handle)
		ap.handle = nil
	}
}
