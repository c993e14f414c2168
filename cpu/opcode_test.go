package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_Fields(t *testing.T) {
	assert := assert.New(t)

	code := Code(0xd12a)
	assert.Equal(uint8(0xd), code.Nibble())
	assert.Equal(uint8(0x1), code.X())
	assert.Equal(uint8(0x2), code.Y())
	assert.Equal(uint8(0xa), code.N())
	assert.Equal(uint8(0x2a), code.KK())
	assert.Equal(uint16(0x12a), code.NNN())
}

func TestDecode_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	decoded := 0
	for word := range 0x10000 {
		code := Code(word)
		ins, err := Decode(code)
		if err != nil {
			assert.ErrorIs(err, ErrOpcodeDecode)
			continue
		}
		decoded++

		again, err := Decode(ins.Code())
		if !assert.NoError(err, "0x%04x", word) {
			continue
		}
		assert.Equal(ins, again, "0x%04x", word)
	}

	// Only group 0 and the E/F/5/8/9 families leave holes.
	assert.Less(decoded, 0x10000)
	assert.Greater(decoded, 0xa000)
}

func TestDecode(t *testing.T) {
	table := [](struct {
		code Code
		ins  Instruction
		text string
	}){
		{0x0000, Instruction{Op: OP_SYS}, "sys 0x000"},
		{0x0300, Instruction{Op: OP_SYS, NNN: 0x300}, "sys 0x300"},
		{0x00e0, Instruction{Op: OP_CLS}, "cls"},
		{0x00ee, Instruction{Op: OP_RET}, "ret"},
		{0x1234, Instruction{Op: OP_JP, NNN: 0x234}, "jp 0x234"},
		{0x2abc, Instruction{Op: OP_CALL, NNN: 0xabc}, "call 0xabc"},
		{0x3105, Instruction{Op: OP_SE_IMM, X: 1, KK: 0x05}, "se v1, 0x05"},
		{0x4aff, Instruction{Op: OP_SNE_IMM, X: 0xa, KK: 0xff}, "sne va, 0xff"},
		{0x5120, Instruction{Op: OP_SE_REG, X: 1, Y: 2}, "se v1, v2"},
		{0x6f00, Instruction{Op: OP_LD_IMM, X: 0xf}, "ld vf, 0x00"},
		{0x7e01, Instruction{Op: OP_ADD_IMM, X: 0xe, KK: 1}, "add ve, 0x01"},
		{0x8120, Instruction{Op: OP_LD_REG, X: 1, Y: 2}, "ld v1, v2"},
		{0x8121, Instruction{Op: OP_OR, X: 1, Y: 2}, "or v1, v2"},
		{0x8122, Instruction{Op: OP_AND, X: 1, Y: 2}, "and v1, v2"},
		{0x8123, Instruction{Op: OP_XOR, X: 1, Y: 2}, "xor v1, v2"},
		{0x8124, Instruction{Op: OP_ADD_REG, X: 1, Y: 2}, "add v1, v2"},
		{0x8125, Instruction{Op: OP_SUB, X: 1, Y: 2}, "sub v1, v2"},
		{0x8106, Instruction{Op: OP_SHR, X: 1}, "shr v1"},
		{0x8126, Instruction{Op: OP_SHR, X: 1, Y: 2}, "shr v1, v2"},
		{0x8127, Instruction{Op: OP_SUBN, X: 1, Y: 2}, "subn v1, v2"},
		{0x810e, Instruction{Op: OP_SHL, X: 1}, "shl v1"},
		{0x9120, Instruction{Op: OP_SNE_REG, X: 1, Y: 2}, "sne v1, v2"},
		{0xa123, Instruction{Op: OP_LD_I, NNN: 0x123}, "ld i, 0x123"},
		{0xb123, Instruction{Op: OP_JP_V0, NNN: 0x123}, "jp v0, 0x123"},
		{0xc30f, Instruction{Op: OP_RND, X: 3, KK: 0x0f}, "rnd v3, 0x0f"},
		{0xd125, Instruction{Op: OP_DRW, X: 1, Y: 2, N: 5}, "drw v1, v2, 5"},
		{0xe49e, Instruction{Op: OP_SKP, X: 4}, "skp v4"},
		{0xe4a1, Instruction{Op: OP_SKNP, X: 4}, "sknp v4"},
		{0xf107, Instruction{Op: OP_LD_VX_DT, X: 1}, "ld v1, dt"},
		{0xf10a, Instruction{Op: OP_LD_VX_K, X: 1}, "ld v1, k"},
		{0xf115, Instruction{Op: OP_LD_DT_VX, X: 1}, "ld dt, v1"},
		{0xf118, Instruction{Op: OP_LD_ST_VX, X: 1}, "ld st, v1"},
		{0xf11e, Instruction{Op: OP_ADD_I_VX, X: 1}, "add i, v1"},
		{0xf129, Instruction{Op: OP_LD_F_VX, X: 1}, "ld f, v1"},
		{0xf133, Instruction{Op: OP_LD_B_VX, X: 1}, "ld b, v1"},
		{0xf155, Instruction{Op: OP_LD_MEM_VX, X: 1}, "ld [i], v1"},
		{0xf165, Instruction{Op: OP_LD_VX_MEM, X: 1}, "ld v1, [i]"},
	}

	for _, entry := range table {
		t.Run(entry.text, func(t *testing.T) {
			assert := assert.New(t)

			ins, err := Decode(entry.code)
			assert.NoError(err)
			assert.Equal(entry.ins, ins)
			assert.Equal(entry.text, ins.String())
			assert.Equal(entry.code, ins.Code())
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	assert := assert.New(t)

	for _, code := range []Code{0x0123, 0x00ff, 0x5121, 0x812f, 0x9128, 0xe100, 0xf1ff, 0xf100} {
		_, err := Decode(code)
		assert.ErrorIs(err, ErrOpcodeDecode, "0x%04x", uint16(code))

		var eo ErrOpcode
		if assert.True(errors.As(err, &eo)) {
			assert.Equal(ErrOpcode(code), eo)
		}
	}
}

func TestOp_Args(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(ARG_X|ARG_Y|ARG_N, OP_DRW.Args())
	assert.Equal(ARG_NNN, OP_JP.Args())
	assert.Equal(0, OP_CLS.Args())
	assert.Equal(0, OP_COUNT.Args())
	assert.Equal("drw", OP_DRW.String())
	assert.Equal("Op(99)", Op(99).String())
}
