// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
)

func main() {
	var compile string
	var rom string
	var limit int
	var keys string
	var seed uint64
	var verbose bool
	var bitmap string
	var interactive bool

	flag.StringVar(&compile, "c", "", ".c8s file to assemble")
	flag.StringVar(&rom, "r", "", ".ch8 ROM image to run")
	flag.IntVar(&limit, "n", 1000, "Instructions to execute")
	flag.StringVar(&keys, "k", "", "Held keys, as hex digits")
	flag.Uint64Var(&seed, "seed", 0, "Random number seed")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&bitmap, "b", "", "Save the final display to a .bmp file")
	flag.BoolVar(&interactive, "i", false, "Interactive debugger")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	err := checkSources(compile, rom)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	emu := emulator.NewEmulator(seed)
	emu.Verbose = verbose

	// Compile a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	if len(rom) != 0 {
		err := emu.Rom.LoadFile(os.DirFS(filepath.Dir(rom)), filepath.Base(rom))
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}
	}

	err = emu.Keypad.Parse(keys)
	if err != nil {
		log.Fatalf("-k %v: %v", keys, err)
	}

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	if interactive {
		if verbose {
			log.Printf("%v: verbose mode is disabled in the debugger", os.Args[0])
			emu.Verbose = false
		}
		err = debug(emu)
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
		return
	}

	ticks, err := emu.Run(limit)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], describe(err))
	}

	if verbose {
		log.Printf("%v: %d ticks", os.Args[0], ticks)
	}

	screen := emu.Screen()

	checkTerminal(os.Stdout)
	fmt.Print(screen.String())

	if len(bitmap) != 0 {
		err = saveBitmap(bitmap, &screen)
		if err != nil {
			log.Fatalf("%v: %v", bitmap, err)
		}
	}
}
