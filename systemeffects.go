// systemeffects.go - per-Part chorus+reverb send, mixed after Part-level
// volume/expression.
//
// Grounded on original_source/libemusc/src/system_effects.{h,cc}: one
// SystemEffects (one Chorus, one Reverb) is owned per-Part, not as a
// single global post-mix stage.

package scsynth

type SystemEffects struct {
	chorus *Chorus
	reverb *Reverb
}

func NewSystemEffects(settings *Settings, part int, sampleRate float64) *SystemEffects {
	return &SystemEffects{
		chorus: NewChorus(settings, part, sampleRate),
		reverb: NewReverb(settings, part, sampleRate),
	}
}

// Apply mixes the chorus and reverb sends into (inL, inR) and returns
// the combined dry+wet stereo pair.
func (e *SystemEffects) Apply(inL, inR float32, chorusSend, reverbSend float32) (float32, float32) {
	cL, cR := e.chorus.Process(inL*chorusSend, inR*chorusSend)
	rL, rR := e.reverb.Process(inL*reverbSend, inR*reverbSend)
	return inL + cL + rL, inR + cR + rR
}
