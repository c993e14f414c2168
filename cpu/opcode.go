package cpu

import (
	"fmt"
)

// Code is a single 2-byte instruction word.
type Code uint16

// Nibble returns the operation family, the top 4 bits.
func (code Code) Nibble() uint8 {
	return uint8(code >> 12)
}

// X returns the first register selector.
func (code Code) X() uint8 {
	return uint8((code >> 8) & 0xf)
}

// Y returns the second register selector.
func (code Code) Y() uint8 {
	return uint8((code >> 4) & 0xf)
}

// N returns the low 4-bit immediate.
func (code Code) N() uint8 {
	return uint8(code & 0xf)
}

// KK returns the low 8-bit immediate.
func (code Code) KK() uint8 {
	return uint8(code & 0xff)
}

// NNN returns the low 12-bit address.
func (code Code) NNN() uint16 {
	return uint16(code & 0xfff)
}

// Op is a decoded operation.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_SYS       = Op(iota) // sys
	OP_CLS                  // cls
	OP_RET                  // ret
	OP_JP                   // jp
	OP_CALL                 // call
	OP_SE_IMM               // se
	OP_SNE_IMM              // sne
	OP_SE_REG               // se
	OP_SNE_REG              // sne
	OP_LD_IMM               // ld
	OP_ADD_IMM              // add
	OP_LD_REG               // ld
	OP_OR                   // or
	OP_AND                  // and
	OP_XOR                  // xor
	OP_ADD_REG              // add
	OP_SUB                  // sub
	OP_SHR                  // shr
	OP_SUBN                 // subn
	OP_SHL                  // shl
	OP_LD_I                 // ld
	OP_JP_V0                // jp
	OP_RND                  // rnd
	OP_DRW                  // drw
	OP_SKP                  // skp
	OP_SKNP                 // sknp
	OP_LD_VX_DT             // ld
	OP_LD_VX_K              // ld
	OP_LD_DT_VX             // ld
	OP_LD_ST_VX             // ld
	OP_ADD_I_VX             // add
	OP_LD_F_VX              // ld
	OP_LD_B_VX              // ld
	OP_LD_MEM_VX            // ld
	OP_LD_VX_MEM            // ld
	OP_COUNT                // -
)

// Operand fields used by an operation.
const (
	ARG_X   = 1 << iota // x register
	ARG_Y               // y register
	ARG_N               // 4-bit immediate
	ARG_KK              // 8-bit immediate
	ARG_NNN             // 12-bit address
)

// opcodeInfo is the encoding of an operation: a word matches when
// (word & Mask) == Value.
type opcodeInfo struct {
	Mask  uint16
	Value uint16
	Args  int
}

var _opcode_info = [OP_COUNT]opcodeInfo{
	OP_SYS:       {0xf0ff, 0x0000, ARG_NNN},
	OP_CLS:       {0xf0ff, 0x00e0, 0},
	OP_RET:       {0xf0ff, 0x00ee, 0},
	OP_JP:        {0xf000, 0x1000, ARG_NNN},
	OP_CALL:      {0xf000, 0x2000, ARG_NNN},
	OP_SE_IMM:    {0xf000, 0x3000, ARG_X | ARG_KK},
	OP_SNE_IMM:   {0xf000, 0x4000, ARG_X | ARG_KK},
	OP_SE_REG:    {0xf00f, 0x5000, ARG_X | ARG_Y},
	OP_SNE_REG:   {0xf00f, 0x9000, ARG_X | ARG_Y},
	OP_LD_IMM:    {0xf000, 0x6000, ARG_X | ARG_KK},
	OP_ADD_IMM:   {0xf000, 0x7000, ARG_X | ARG_KK},
	OP_LD_REG:    {0xf00f, 0x8000, ARG_X | ARG_Y},
	OP_OR:        {0xf00f, 0x8001, ARG_X | ARG_Y},
	OP_AND:       {0xf00f, 0x8002, ARG_X | ARG_Y},
	OP_XOR:       {0xf00f, 0x8003, ARG_X | ARG_Y},
	OP_ADD_REG:   {0xf00f, 0x8004, ARG_X | ARG_Y},
	OP_SUB:       {0xf00f, 0x8005, ARG_X | ARG_Y},
	OP_SHR:       {0xf00f, 0x8006, ARG_X | ARG_Y},
	OP_SUBN:      {0xf00f, 0x8007, ARG_X | ARG_Y},
	OP_SHL:       {0xf00f, 0x800e, ARG_X | ARG_Y},
	OP_LD_I:      {0xf000, 0xa000, ARG_NNN},
	OP_JP_V0:     {0xf000, 0xb000, ARG_NNN},
	OP_RND:       {0xf000, 0xc000, ARG_X | ARG_KK},
	OP_DRW:       {0xf000, 0xd000, ARG_X | ARG_Y | ARG_N},
	OP_SKP:       {0xf0ff, 0xe09e, ARG_X},
	OP_SKNP:      {0xf0ff, 0xe0a1, ARG_X},
	OP_LD_VX_DT:  {0xf0ff, 0xf007, ARG_X},
	OP_LD_VX_K:   {0xf0ff, 0xf00a, ARG_X},
	OP_LD_DT_VX:  {0xf0ff, 0xf015, ARG_X},
	OP_LD_ST_VX:  {0xf0ff, 0xf018, ARG_X},
	OP_ADD_I_VX:  {0xf0ff, 0xf01e, ARG_X},
	OP_LD_F_VX:   {0xf0ff, 0xf029, ARG_X},
	OP_LD_B_VX:   {0xf0ff, 0xf033, ARG_X},
	OP_LD_MEM_VX: {0xf0ff, 0xf055, ARG_X},
	OP_LD_VX_MEM: {0xf0ff, 0xf065, ARG_X},
}

// _opcode_group lists the candidate operations for each top nibble.
var _opcode_group [16][]Op

func init() {
	for op := range OP_COUNT {
		info := _opcode_info[op]
		nibble := info.Value >> 12
		_opcode_group[nibble] = append(_opcode_group[nibble], op)
	}

	for nibble, ops := range _opcode_group {
		if len(ops) == 0 {
			panic(fmt.Sprintf("opcode group %X has no operations", nibble))
		}
	}
}

// Instruction is a decoded instruction word. Operand fields not used by
// the operation are zero.
type Instruction struct {
	Op  Op
	X   uint8
	Y   uint8
	N   uint8
	KK  uint8
	NNN uint16
}

// Args returns the operand fields used by the operation.
func (op Op) Args() int {
	if op < 0 || op >= OP_COUNT {
		return 0
	}
	return _opcode_info[op].Args
}

// Decode an instruction word.
func Decode(code Code) (ins Instruction, err error) {
	for _, op := range _opcode_group[code.Nibble()] {
		info := _opcode_info[op]
		if uint16(code)&info.Mask != info.Value {
			continue
		}

		ins.Op = op
		if info.Args&ARG_X != 0 {
			ins.X = code.X()
		}
		if info.Args&ARG_Y != 0 {
			ins.Y = code.Y()
		}
		if info.Args&ARG_N != 0 {
			ins.N = code.N()
		}
		if info.Args&ARG_KK != 0 {
			ins.KK = code.KK()
		}
		if info.Args&ARG_NNN != 0 {
			ins.NNN = code.NNN()
		}
		return
	}

	err = ErrOpcode(code)
	return
}

// Code encodes the instruction.
func (ins Instruction) Code() Code {
	info := _opcode_info[ins.Op]

	word := info.Value
	if info.Args&ARG_X != 0 {
		word |= uint16(ins.X&0xf) << 8
	}
	if info.Args&ARG_Y != 0 {
		word |= uint16(ins.Y&0xf) << 4
	}
	if info.Args&ARG_N != 0 {
		word |= uint16(ins.N & 0xf)
	}
	if info.Args&ARG_KK != 0 {
		word |= uint16(ins.KK)
	}
	if info.Args&ARG_NNN != 0 {
		word |= ins.NNN & 0xfff
	}

	return Code(word)
}

// String returns the assembly language representation of the instruction.
func (ins Instruction) String() (out string) {
	name := ins.Op.String()

	switch ins.Op {
	case OP_CLS, OP_RET:
		out = name
	case OP_SYS, OP_JP, OP_CALL:
		out = fmt.Sprintf("%v 0x%03x", name, ins.NNN)
	case OP_LD_I:
		out = fmt.Sprintf("%v i, 0x%03x", name, ins.NNN)
	case OP_JP_V0:
		out = fmt.Sprintf("%v v0, 0x%03x", name, ins.NNN)
	case OP_SE_IMM, OP_SNE_IMM, OP_LD_IMM, OP_ADD_IMM, OP_RND:
		out = fmt.Sprintf("%v v%x, 0x%02x", name, ins.X, ins.KK)
	case OP_SE_REG, OP_SNE_REG, OP_LD_REG, OP_OR, OP_AND, OP_XOR,
		OP_ADD_REG, OP_SUB, OP_SUBN:
		out = fmt.Sprintf("%v v%x, v%x", name, ins.X, ins.Y)
	case OP_SHR, OP_SHL:
		out = fmt.Sprintf("%v v%x", name, ins.X)
		if ins.Y != 0 {
			out += fmt.Sprintf(", v%x", ins.Y)
		}
	case OP_DRW:
		out = fmt.Sprintf("%v v%x, v%x, %d", name, ins.X, ins.Y, ins.N)
	case OP_SKP, OP_SKNP:
		out = fmt.Sprintf("%v v%x", name, ins.X)
	case OP_LD_VX_DT:
		out = fmt.Sprintf("%v v%x, dt", name, ins.X)
	case OP_LD_VX_K:
		out = fmt.Sprintf("%v v%x, k", name, ins.X)
	case OP_LD_DT_VX:
		out = fmt.Sprintf("%v dt, v%x", name, ins.X)
	case OP_LD_ST_VX:
		out = fmt.Sprintf("%v st, v%x", name, ins.X)
	case OP_ADD_I_VX:
		out = fmt.Sprintf("%v i, v%x", name, ins.X)
	case OP_LD_F_VX:
		out = fmt.Sprintf("%v f, v%x", name, ins.X)
	case OP_LD_B_VX:
		out = fmt.Sprintf("%v b, v%x", name, ins.X)
	case OP_LD_MEM_VX:
		out = fmt.Sprintf("%v [i], v%x", name, ins.X)
	case OP_LD_VX_MEM:
		out = fmt.Sprintf("%v v%x, [i]", name, ins.X)
	default:
		out = fmt.Sprintf("%v", name)
	}

	return
}
