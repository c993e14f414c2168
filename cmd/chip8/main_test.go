package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/bmp"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/emulator"
)

func TestCheckSources(t *testing.T) {
	assert := assert.New(t)

	assert.ErrorIs(checkSources("", ""), ErrSourceMissing)
	assert.ErrorIs(checkSources("game.c8s", "game.ch8"), ErrSourceConflict)
	assert.NoError(checkSources("game.c8s", ""))
	assert.NoError(checkSources("", "game.ch8"))
}

func TestDescribe(t *testing.T) {
	assert := assert.New(t)

	emu := emulator.NewEmulator(0)
	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader("cls\nret\n"))
	assert.NoError(err)
	emu.Program = prog
	assert.NoError(emu.Reset())

	_, err = emu.Run(10)
	assert.Error(err)
	assert.Equal("0x202 line 2 fault at 0x202 (0x00ee) stack empty [ret]", describe(err))

	assert.Equal(cpu.ErrStackEmpty.Error(), describe(cpu.ErrStackEmpty))
}

func TestSaveBitmap(t *testing.T) {
	assert := assert.New(t)

	screen := &display.Display{}
	screen.TogglePixel(0, 0)
	screen.TogglePixel(63, 31)

	path := filepath.Join(t.TempDir(), "screen.bmp")
	assert.NoError(saveBitmap(path, screen))

	inf, err := os.Open(path)
	if !assert.NoError(err) {
		return
	}
	defer inf.Close()

	img, err := bmp.Decode(inf)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(display.WIDTH, img.Bounds().Dx())
	assert.Equal(display.HEIGHT, img.Bounds().Dy())

	lit := func(x, y int) bool {
		r, _, _, _ := img.At(x, y).RGBA()
		return r != 0
	}
	assert.True(lit(0, 0))
	assert.True(lit(63, 31))
	assert.False(lit(1, 0))
	assert.False(lit(0, 31))
}

func TestCheckTerminal(t *testing.T) {
	ouf, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer ouf.Close()

	// Not a terminal; nothing to check.
	checkTerminal(ouf)
}
