// Command romdump loads a Control ROM (and, optionally, PCM ROM images)
// and prints the decoded instrument, partial, and drum-set tables,
// grounded on original_source/libemusc/src/control_rom.cc's
// get_instruments_list/get_drum_sets_list and pcm_rom.cc's dump_rom,
// as a thin cmd/ wrapper around the library package.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/intuitionamiga/scsynth"
)

func main() {
	controlROM := flag.String("control-rom", "", "path to the Control ROM image")
	var pcmROMs stringList
	flag.Var(&pcmROMs, "pcm-rom", "path to a PCM ROM image (repeatable, in bank order)")
	showInstruments := flag.Bool("instruments", true, "list decoded instruments")
	showDrumSets := flag.Bool("drumsets", true, "list decoded drum sets")
	showPartials := flag.Bool("partials", false, "list decoded partials")
	showSamples := flag.Bool("samples", false, "list decoded samples")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: romdump -control-rom FILE [-pcm-rom FILE ...] [options]\n\nDumps a Sound Canvas ROM's decoded contents without opening any audio path.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *controlROM == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*controlROM, pcmROMs, *showInstruments, *showDrumSets, *showPartials, *showSamples); err != nil {
		fmt.Fprintf(os.Stderr, "romdump: %v\n", err)
		os.Exit(1)
	}
}

func run(controlROMPath string, pcmROMPaths []string, showInstruments, showDrumSets, showPartials, showSamples bool) error {
	rom, err := scsynth.LoadControlROM(controlROMPath)
	if err != nil {
		return fmt.Errorf("loading control rom: %w", err)
	}

	fmt.Printf("model:            %s\n", rom.Model)
	fmt.Printf("max polyphony:    %d\n", rom.MaxPolyphony())
	fmt.Printf("instruments:      %d\n", len(rom.Instruments))
	fmt.Printf("partials:         %d\n", len(rom.Partials))
	fmt.Printf("samples:          %d\n", len(rom.Samples))
	fmt.Printf("drum sets:        %d\n", len(rom.DrumSets))

	if showInstruments {
		fmt.Println("\ninstruments:")
		for i, inst := range rom.Instruments {
			fmt.Printf("  %4d  %-12s vol=%-3d partials_used=0x%02x\n", i, inst.Name, inst.Volume, inst.PartialsUsed)
		}
	}

	if showPartials {
		fmt.Println("\npartials:")
		for i, p := range rom.Partials {
			fmt.Printf("  %4d  %-12s breaks=%v\n", i, p.Name, p.Breaks)
		}
	}

	if showSamples {
		fmt.Println("\nsamples:")
		for i, s := range rom.Samples {
			fmt.Printf("  %4d  addr=0x%06x len=%-6d loop=%-6d mode=%d root=%d\n", i, s.Address, s.SampleLen, s.LoopLen, s.LoopMode, s.RootKey)
		}
	}

	if showDrumSets {
		fmt.Println("\ndrum sets:")
		for i, ds := range rom.DrumSets {
			fmt.Printf("  %4d  %-12s\n", i, ds.Name)
		}
	}

	if len(pcmROMPaths) > 0 {
		pcmRom, err := scsynth.LoadPCMROM(pcmROMPaths...)
		if err != nil {
			return fmt.Errorf("loading pcm rom: %w", err)
		}
		fmt.Println("\npcm rom loaded ok, spot-checking sample decode:")
		for i, s := range rom.Samples {
			if i >= 3 {
				break
			}
			data, err := pcmRom.Decode(s)
			if err != nil {
				fmt.Printf("  sample %d: decode error: %v\n", i, err)
				continue
			}
			fmt.Printf("  sample %d: decoded %d frames\n", i, len(data))
		}
	}

	return nil
}

// stringList accumulates repeated -pcm-rom flags.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint([]string(*s)) }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
