// Command scsynth plays a Standard MIDI File through the scsynth
// wavetable core, either live through the system audio device or
// rendered to a WAV file, as a thin flag-driven entry point around the
// library package.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/intuitionamiga/scsynth"
)

// config holds everything main needs to build and drive a Synth; kept
// as a plain struct rather than a package-level var set so tests could
// construct one directly.
type config struct {
	controlROM string
	pcmROMs    stringList
	midiPath   string
	outPath    string
	sampleRate int
	channels   int
	deviceID   int
	mode       string
}

// stringList accumulates repeated -pcm-rom flags.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint([]string(*s)) }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func parseFlags(args []string) (*config, error) {
	fs := flag.NewFlagSet("scsynth", flag.ContinueOnError)
	cfg := &config{}
	fs.StringVar(&cfg.controlROM, "control-rom", "", "path to the Control ROM image")
	fs.Var(&cfg.pcmROMs, "pcm-rom", "path to a PCM ROM image (repeatable, in bank order)")
	fs.StringVar(&cfg.midiPath, "midi", "", "Standard MIDI File to play")
	fs.StringVar(&cfg.outPath, "out", "", "render to this WAV file instead of live audio output")
	fs.IntVar(&cfg.sampleRate, "samplerate", 44100, "output sample rate in Hz")
	fs.IntVar(&cfg.channels, "channels", 2, "output channel count (1 or 2)")
	fs.IntVar(&cfg.deviceID, "device-id", 17, "SysEx device ID (1-32)")
	fs.StringVar(&cfg.mode, "mode", "gs", "power-on mode: gs, mt32, or sc55")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: scsynth -control-rom FILE -pcm-rom FILE [-pcm-rom FILE ...] -midi FILE [options]\n\nPlays a Standard MIDI File through an emulated Sound Canvas.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.controlROM == "" || len(cfg.pcmROMs) == 0 || cfg.midiPath == "" {
		fs.Usage()
		return nil, flag.ErrHelp
	}
	return cfg, nil
}

func modeFromString(s string) scsynth.Mode {
	switch s {
	case "mt32":
		return scsynth.ModeMT32
	case "sc55":
		return scsynth.ModeSC55
	default:
		return scsynth.ModeGS
	}
}

func run(cfg *config) error {
	rom, err := scsynth.LoadControlROM(cfg.controlROM)
	if err != nil {
		return fmt.Errorf("loading control rom: %w", err)
	}
	pcmRom, err := scsynth.LoadPCMROM(cfg.pcmROMs...)
	if err != nil {
		return fmt.Errorf("loading pcm rom: %w", err)
	}

	synth := scsynth.NewSynth(rom, pcmRom, modeFromString(cfg.mode))
	if err := synth.SetAudioFormat(uint32(cfg.sampleRate), uint8(cfg.channels)); err != nil {
		return fmt.Errorf("configuring audio format: %w", err)
	}
	synth.Settings().SetSystem(scsynth.SysDeviceID, uint8(cfg.deviceID))

	smf, err := loadSMF(cfg.midiPath)
	if err != nil {
		return fmt.Errorf("loading midi file: %w", err)
	}

	if cfg.outPath != "" {
		return renderToWAV(synth, smf, cfg.outPath, cfg.sampleRate, cfg.channels)
	}
	return playLive(synth, smf, cfg.sampleRate, cfg.channels)
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(2)
		}
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "scsynth: %v\n", err)
		os.Exit(1)
	}
}
