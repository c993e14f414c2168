// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"math/rand/v2"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/io"
)

const (
	TIMER_DIVIDER = 10 // Instructions per delay/sound timer tick.
)

var _emulator_defines = map[string]string{
	"TIMER_DIVIDER": fmt.Sprintf("%v", TIMER_DIVIDER),
}

// Emulator state. CPU + keypad + timers + program image.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Rom    io.Rom    // ROM image; if present, loaded in place of Program.
	Keypad io.Keypad // Hex keypad state.
	Timers io.Timers // Delay and sound timers.

	Seed         uint64 // Random source seed, reapplied on Reset().
	TimerDivider int    // Instructions per timer tick; 0 disables the timers.
}

// NewEmulator creates a new emulator.
func NewEmulator(seed uint64) (emu *Emulator) {
	emu = &Emulator{
		Cpu:          cpu.NewCpu(),
		Program:      &cpu.Program{},
		Seed:         seed,
		TimerDivider: TIMER_DIVIDER,
	}

	emu.Cpu.Keypad = &emu.Keypad
	emu.Cpu.Timers = &emu.Timers
	emu.Cpu.Random = rand.New(rand.NewPCG(seed, 0))

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset the CPU and timers, and load the program image.
// Held keys are left as they are.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()
	emu.Cpu.Random = rand.New(rand.NewPCG(emu.Seed, 0))
	emu.Timers.Reset()

	var image []byte
	switch {
	case !emu.Rom.Empty():
		image = emu.Rom.Data
	case emu.Program != nil:
		image = emu.Program.Binary()
	}

	err = emu.Cpu.Load(image)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: reset, %d byte image", len(image))
	}

	return
}

// Pc returns current program counter.
func (emu *Emulator) Pc() int {
	return int(emu.Cpu.Pc)
}

// Code returns the current instruction code.
func (emu *Emulator) Code() cpu.Code {
	code, _ := emu.Cpu.FetchCode()
	return code
}

// LineNo returns the current line number for the executing opcode.
// ROM images have no listing, and report line 0.
func (emu *Emulator) LineNo() int {
	if !emu.Rom.Empty() || emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	address := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Address: address, LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	if emu.TimerDivider > 0 && emu.Cpu.Ticks%emu.TimerDivider == 0 {
		emu.Timers.Tick()
	}

	return
}

// Run ticks until limit ticks have executed, or an error occurs.
func (emu *Emulator) Run(limit int) (ticks int, err error) {
	for ticks < limit {
		err = emu.Tick()
		if err != nil {
			return
		}
		ticks++
	}

	return
}
