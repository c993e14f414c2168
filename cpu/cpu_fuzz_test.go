package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/io"
)

func FuzzCpu(f *testing.F) {
	for rv := range 0x10 {
		f.Add(uint16(rv<<12), uint8(rv), uint16(0x300), uint16(0))
		f.Add(uint16(rv<<12|0xfff), uint8(0xff-rv), uint16(0xff8), uint16(1<<rv))
	}

	f.Fuzz(func(t *testing.T, word uint16, seed uint8, index uint16, keys uint16) {
		assert := assert.New(t)

		keypad := &io.Keypad{}
		for key := range uint8(KEY_COUNT) {
			if keys&(1<<key) != 0 {
				keypad.Press(key)
			}
		}

		cpu := NewCpu()
		cpu.Keypad = keypad
		cpu.Timers = &io.Timers{DelayValue: seed}
		for n := range cpu.Register {
			cpu.Register[n] = seed + uint8(n*17)
		}
		cpu.I = index & 0xfff
		cpu.Stack.Push(0x2f0)
		assert.NoError(cpu.Load([]byte{uint8(word >> 8), uint8(word)}))

		code := Code(word)
		code_str := fmt.Sprintf("0x%04x\ncpu:%v", word, cpu.String())

		ins, derr := Decode(code)
		err := cpu.Tick()

		if derr != nil {
			assert.ErrorIs(derr, ErrOpcodeDecode, code_str)
			assert.ErrorIs(err, ErrOpcodeDecode, code_str)
			assert.Equal(uint16(PROGRAM_START), cpu.Pc, code_str)
			return
		}

		assert.Equal(code, ins.Code(), code_str)

		if err != nil {
			var fault *ErrFault
			assert.True(errors.As(err, &fault), code_str)
			assert.Equal(uint16(PROGRAM_START), cpu.Pc, code_str)
			switch {
			case errors.Is(err, ErrMemoryBounds):
				switch ins.Op {
				case OP_DRW, OP_LD_B_VX, OP_LD_MEM_VX, OP_LD_VX_MEM:
					// expected error
				default:
					assert.NoError(err, code_str)
				}
			default:
				assert.NoError(err, code_str)
			}
			return
		}

		assert.Equal(1, cpu.Ticks, code_str)
		switch ins.Op {
		case OP_JP:
			assert.Equal(ins.NNN, cpu.Pc, code_str)
		case OP_CALL:
			assert.Equal(ins.NNN, cpu.Pc, code_str)
			assert.Equal(2, cpu.Stack.Pointer, code_str)
		case OP_RET:
			assert.Equal(uint16(0x2f2), cpu.Pc, code_str)
			assert.True(cpu.Stack.Empty(), code_str)
		case OP_JP_V0:
			assert.Equal(uint16(cpu.Register[0])+ins.NNN, cpu.Pc, code_str)
		case OP_LD_VX_K:
			if keys == 0 {
				assert.Equal(uint16(PROGRAM_START), cpu.Pc, code_str)
			} else {
				assert.Equal(uint16(PROGRAM_START+2), cpu.Pc, code_str)
				assert.True(keypad.Down(cpu.Register[ins.X]), code_str)
			}
		case OP_SE_IMM, OP_SNE_IMM, OP_SE_REG, OP_SNE_REG, OP_SKP, OP_SKNP:
			assert.Contains([]uint16{PROGRAM_START + 2, PROGRAM_START + 4}, cpu.Pc, code_str)
		default:
			assert.Equal(uint16(PROGRAM_START+2), cpu.Pc, code_str)
		}
	})
}
