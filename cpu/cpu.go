package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"math/rand/v2"

	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/io"
)

// Keypad is the key state collaborator.
type Keypad io.KeySource

// Timers is the delay/sound timer collaborator.
type Timers io.TimerSource

// Random is a uniform random source. *rand.Rand satisfies it.
type Random interface {
	Uint32() uint32
}

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":   fmt.Sprintf("%#x", MEMORY_SIZE),
	"FONT_START":    fmt.Sprintf("%#x", FONT_START),
	"FONT_HEIGHT":   fmt.Sprintf("%v", FONT_HEIGHT),
	"PROGRAM_START": fmt.Sprintf("%#x", PROGRAM_START),
	"STACK_LIMIT":   fmt.Sprintf("%v", STACK_LIMIT),
}

// Cpu is the simulation context for the CHIP-8 virtual machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   [MEMORY_SIZE]uint8    // Main memory.
	Register [REGISTER_COUNT]uint8 // v0-vf.
	I        uint16                // Address register.
	Pc       uint16                // Program counter.
	Stack    Stack                 // Call stack.
	Display  display.Display       // Screen bitmap.

	Keypad Keypad // Key state; nil means no key is ever down.
	Timers Timers // Delay and sound timers; nil reads as zero.
	Random Random // Source for the rnd instruction.

	Ticks int // Instructions executed since Reset().

	fault error // Latched terminal fault.
}

// NewCpu creates a new CPU, reset and ready to load a program.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Random: rand.New(rand.NewPCG(0, 0)),
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_cpu_defines), cpu.Display.Defines())
}

// Reset the CPU state.
// - Clears memory, registers, stack, and display.
// - Installs the font glyphs at FONT_START.
// - Sets the program counter to PROGRAM_START.
// - Clears any latched fault.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	copy(cpu.Memory[FONT_START:], Font[:])
	clear(cpu.Register[:])
	cpu.I = 0
	cpu.Pc = PROGRAM_START
	cpu.Stack.Reset()
	cpu.Display.Clear()
	cpu.Ticks = 0
	cpu.fault = nil
}

// Load a program image at PROGRAM_START.
func (cpu *Cpu) Load(program []byte) (err error) {
	if len(program) > PROGRAM_LIMIT {
		err = ErrProgramSize
		return
	}

	copy(cpu.Memory[PROGRAM_START:], program)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(program))
	}

	return
}

// StoreByte stores a byte in memory.
func (cpu *Cpu) StoreByte(addr uint16, value uint8) (err error) {
	if int(addr) >= MEMORY_SIZE {
		err = ErrMemoryBounds
		return
	}

	cpu.Memory[addr] = value
	return
}

// LoadByte loads a byte from memory.
func (cpu *Cpu) LoadByte(addr uint16) (value uint8, err error) {
	if int(addr) >= MEMORY_SIZE {
		err = ErrMemoryBounds
		return
	}

	value = cpu.Memory[addr]
	return
}

// span checks that count bytes starting at addr are addressable.
func (cpu *Cpu) span(addr uint16, count int) (err error) {
	if int(addr)+count > MEMORY_SIZE {
		err = ErrMemoryBounds
	}
	return
}

// Flag returns the flag register state.
func (cpu *Cpu) Flag() bool {
	return cpu.Register[REGISTER_FLAG] != 0
}

func (cpu *Cpu) setFlag(value bool) {
	if value {
		cpu.Register[REGISTER_FLAG] = 1
	} else {
		cpu.Register[REGISTER_FLAG] = 0
	}
}

// Fault returns the latched fault, if any.
func (cpu *Cpu) Fault() error {
	return cpu.fault
}

// Screen returns a snapshot of the display.
func (cpu *Cpu) Screen() display.Display {
	return cpu.Display
}

// keyDown queries the keypad collaborator.
func (cpu *Cpu) keyDown(key uint8) bool {
	if cpu.Keypad == nil {
		return false
	}
	return cpu.Keypad.Down(key & 0xf)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %03X\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %03X\n", "i", cpu.I)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %02X\n", fmt.Sprintf("v%X", n), val)
	}
	text += fmt.Sprintf("% 5s: %v\n", "sp", cpu.Stack.Pointer)
	if val, ok := cpu.Stack.Peek(); ok {
		text += fmt.Sprintf("% 5s: %03X\n", "stack", val)
	} else {
		text += fmt.Sprintf("% 5s: ---\n", "stack")
	}

	return
}

// FetchCode fetches the instruction word at the program counter.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	if int(cpu.Pc)+1 >= MEMORY_SIZE {
		err = ErrPcBounds
		return
	}

	code = Code(uint16(cpu.Memory[cpu.Pc])<<8 | uint16(cpu.Memory[cpu.Pc+1]))
	return
}

// Tick executes a single CPU instruction cycle.
// After a fault, Tick executes nothing and returns the fault again.
func (cpu *Cpu) Tick() (err error) {
	if cpu.fault != nil {
		err = cpu.fault
		return
	}

	var code Code
	defer func() {
		if err != nil {
			cpu.fault = &ErrFault{Pc: cpu.Pc, Code: code, Err: err}
			err = cpu.fault
			if cpu.Verbose {
				log.Printf("cpu: %v", err)
			}
		}
	}()

	code, err = cpu.FetchCode()
	if err != nil {
		return
	}

	ins, err := Decode(code)
	if err != nil {
		return
	}

	err = cpu.Execute(ins)
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(ins Instruction) (err error) {
	if cpu.Verbose {
		log.Printf("%03x: %v", cpu.Pc, ins)
	}

	next_pc := cpu.Pc + 2

	vx := &cpu.Register[ins.X&0xf]
	vy := cpu.Register[ins.Y&0xf]

	switch ins.Op {
	case OP_SYS:
		// Machine code routines are not emulated.
	case OP_CLS:
		cpu.Display.Clear()
	case OP_RET:
		ret, ok := cpu.Stack.Pop()
		if !ok {
			err = ErrStackEmpty
			return
		}
		// Resume after the call instruction.
		next_pc = ret + 2
	case OP_JP:
		next_pc = ins.NNN
	case OP_CALL:
		if !cpu.Stack.Push(cpu.Pc) {
			err = ErrStackFull
			return
		}
		next_pc = ins.NNN
	case OP_SE_IMM:
		if *vx == ins.KK {
			next_pc += 2
		}
	case OP_SNE_IMM:
		if *vx != ins.KK {
			next_pc += 2
		}
	case OP_SE_REG:
		if *vx == vy {
			next_pc += 2
		}
	case OP_SNE_REG:
		if *vx != vy {
			next_pc += 2
		}
	case OP_LD_IMM:
		*vx = ins.KK
	case OP_ADD_IMM:
		*vx += ins.KK
	case OP_LD_REG:
		*vx = vy
	case OP_OR:
		*vx |= vy
	case OP_AND:
		*vx &= vy
	case OP_XOR:
		*vx ^= vy
	case OP_ADD_REG:
		sum := uint16(*vx) + uint16(vy)
		*vx = uint8(sum)
		cpu.setFlag(sum > 0xff)
	case OP_SUB:
		no_borrow := *vx > vy
		*vx -= vy
		cpu.setFlag(no_borrow)
	case OP_SHR:
		out := (*vx & 0x01) != 0
		*vx >>= 1
		cpu.setFlag(out)
	case OP_SUBN:
		no_borrow := vy > *vx
		*vx = vy - *vx
		cpu.setFlag(no_borrow)
	case OP_SHL:
		out := (*vx & 0x80) != 0
		*vx <<= 1
		cpu.setFlag(out)
	case OP_LD_I:
		cpu.I = ins.NNN
	case OP_JP_V0:
		next_pc = uint16(cpu.Register[0]) + ins.NNN
	case OP_RND:
		*vx = uint8(cpu.Random.Uint32()) & ins.KK
	case OP_DRW:
		err = cpu.draw(*vx, vy, ins.N)
	case OP_SKP:
		if cpu.keyDown(*vx) {
			next_pc += 2
		}
	case OP_SKNP:
		if !cpu.keyDown(*vx) {
			next_pc += 2
		}
	case OP_LD_VX_DT:
		*vx = 0
		if cpu.Timers != nil {
			*vx = cpu.Timers.Delay()
		}
	case OP_LD_VX_K:
		pressed := false
		for key := range uint8(KEY_COUNT) {
			if cpu.keyDown(key) {
				*vx = key
				pressed = true
				break
			}
		}
		if !pressed {
			// Don't advance to next pc.
			next_pc = cpu.Pc
		}
	case OP_LD_DT_VX:
		if cpu.Timers != nil {
			cpu.Timers.SetDelay(*vx)
		}
	case OP_LD_ST_VX:
		if cpu.Timers != nil {
			cpu.Timers.SetSound(*vx)
		}
	case OP_ADD_I_VX:
		cpu.I += uint16(*vx)
	case OP_LD_F_VX:
		cpu.I = FontGlyph(*vx)
	case OP_LD_B_VX:
		err = cpu.span(cpu.I, 3)
		if err != nil {
			return
		}
		cpu.Memory[cpu.I+0] = *vx / 100
		cpu.Memory[cpu.I+1] = (*vx / 10) % 10
		cpu.Memory[cpu.I+2] = *vx % 10
	case OP_LD_MEM_VX:
		count := int(ins.X&0xf) + 1
		err = cpu.span(cpu.I, count)
		if err != nil {
			return
		}
		copy(cpu.Memory[cpu.I:int(cpu.I)+count], cpu.Register[:count])
	case OP_LD_VX_MEM:
		count := int(ins.X&0xf) + 1
		err = cpu.span(cpu.I, count)
		if err != nil {
			return
		}
		copy(cpu.Register[:count], cpu.Memory[cpu.I:int(cpu.I)+count])
	default:
		err = ErrOpcodeDecode
	}

	if err != nil {
		return
	}

	cpu.Pc = next_pc

	return
}

// draw XORs an n-row sprite from memory[I] onto the display at (x, y).
// The flag register reports whether any lit pixel was erased.
// Pixels wrap at both screen edges.
func (cpu *Cpu) draw(x, y uint8, rows uint8) (err error) {
	if rows > SPRITE_HEIGHT_MAX {
		err = ErrSpriteSize
		return
	}

	err = cpu.span(cpu.I, int(rows))
	if err != nil {
		return
	}

	erased := false
	for row := range rows {
		sprite := cpu.Memory[int(cpu.I)+int(row)]
		for offset, set := range internal.BitsMSB(sprite) {
			if set && cpu.Display.TogglePixel(x+uint8(offset), y+row) {
				erased = true
			}
		}
	}

	cpu.setFlag(erased)

	return
}
