package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and generated bytes.
type Opcode struct {
	LineNo    int
	Address   int
	Words     []string
	Bytes     []byte
	Data      bool // Set for .byte data, clear for instructions.
	LinkLabel string
}

// Program is an assembled listing.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode covering an address.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= op.Address && int(addr) < op.Address+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr) - op.Address,
			}
			break
		}
	}

	return
}

// Binary returns the program image, to be loaded at PROGRAM_START.
func (prog *Program) Binary() (bin []byte) {
	for _, op := range prog.Opcodes {
		offset := op.Address - PROGRAM_START
		for len(bin) < offset {
			bin = append(bin, 0)
		}
		bin = append(bin[:offset], op.Bytes...)
	}

	return
}

// Codes iterates over the instruction words of the program, by address.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(addr uint16, code Code) bool) {
		for _, op := range prog.Opcodes {
			if op.Data || len(op.Bytes) != 2 {
				continue
			}
			code := Code(uint16(op.Bytes[0])<<8 | uint16(op.Bytes[1]))
			if !yield(uint16(op.Address), code) {
				return
			}
		}
	}
}
