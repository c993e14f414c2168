// Package cpu implements the interpreter and assembler for the CHIP-8
// virtual machine.
//
// The CPU consists of 4096 bytes of memory, sixteen 8-bit registers
// (v0-vf, with vf doubling as the flag register), a 16-bit address
// register (i), a program counter, a sixteen entry call stack, and a
// 64x32 monochrome display. Each Tick() performs one fetch-decode-execute
// cycle of a 2-byte instruction word.
//
// Faults (bad opcodes, stack misuse, out of range addresses, oversized
// sprites) are terminal: the CPU latches the fault and reports it on every
// subsequent Tick() until Reset().
//
// The assembler accepts the conventional CHIP-8 mnemonic syntax, with
// labels, equates, macros, and compile-time $(...) expressions.
package cpu
