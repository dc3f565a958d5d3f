// Command gbcore is a headless frame-stepping runner for the core: it
// loads a ROM, steps a fixed number of frames, and reports the
// determinism-contract hash, with no presentation layer attached.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Caprini/ViboyColor-sub001/internal/gameboy"
	"github.com/Caprini/ViboyColor-sub001/internal/types"
)

func main() {
	romFile := flag.String("rom", "", "the rom file to load")
	ramFile := flag.String("ram", "", "a save_ram file to seed external RAM from")
	asModel := flag.String("model", "auto", "auto, dmg, or cgb")
	frames := flag.Int("frames", 60, "number of frames to step")
	dumpRAM := flag.String("dump-ram", "", "path to write save_ram output to after stepping")
	flag.Parse()

	if *romFile == "" {
		fmt.Fprintln(os.Stderr, "gbcore: -rom is required")
		os.Exit(1)
	}

	rom, err := os.ReadFile(*romFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gbcore: %v\n", err)
		os.Exit(1)
	}

	var ramInitial []byte
	if *ramFile != "" {
		ramInitial, err = os.ReadFile(*ramFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gbcore: %v\n", err)
			os.Exit(1)
		}
	}

	var opts []gameboy.GameBoyOpt
	switch *asModel {
	case "dmg":
		opts = append(opts, gameboy.AsModel(types.ModelDMG))
	case "cgb":
		opts = append(opts, gameboy.AsModel(types.ModelCGB))
	}

	gb := gameboy.New(opts...)
	if err := gb.AttachCartridge(rom, ramInitial); err != nil {
		fmt.Fprintf(os.Stderr, "gbcore: %v\n", err)
		os.Exit(1)
	}

	for i := 0; i < *frames; i++ {
		if err := gb.StepFrame(); err != nil {
			fmt.Fprintf(os.Stderr, "gbcore: %v\n", err)
			os.Exit(1)
		}
		if gb.LastError() != gameboy.ErrNone {
			fmt.Fprintf(os.Stderr, "gbcore: halted at frame %d: %s\n", i, gb.LastError())
			break
		}
	}

	fmt.Printf("frames=%d model=%s lastError=%s frameHash=%016x\n", *frames, gb.Model(), gb.LastError(), gb.FrameHash())

	if *dumpRAM != "" {
		if err := os.WriteFile(*dumpRAM, gb.SaveRAM(), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "gbcore: %v\n", err)
			os.Exit(1)
		}
	}
}
