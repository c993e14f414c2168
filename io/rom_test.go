package io

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestRom_Load(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}
	assert.True(rom.Empty())

	err := rom.Load(bytes.NewReader([]byte{0x63, 0x05, 0xd1, 0x25}))
	assert.NoError(err)
	assert.Equal([]byte{0x63, 0x05, 0xd1, 0x25}, rom.Data)
	assert.False(rom.Empty())
}

func TestRom_Load_Limit(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}

	err := rom.Load(bytes.NewReader(make([]byte, ROM_LIMIT)))
	assert.NoError(err)
	assert.Len(rom.Data, ROM_LIMIT)

	prior := rom.Data
	err = rom.Load(bytes.NewReader(make([]byte, ROM_LIMIT+1)))
	assert.ErrorIs(err, ErrRomSize)
	assert.Equal(prior, rom.Data)
}

func TestRom_LoadFile(t *testing.T) {
	assert := assert.New(t)

	fsys := fstest.MapFS{
		"roms/pong.ch8": &fstest.MapFile{Data: []byte{0x00, 0xe0}},
	}

	rom := &Rom{}
	err := rom.LoadFile(fsys, "roms/pong.ch8")
	assert.NoError(err)
	assert.Equal([]byte{0x00, 0xe0}, rom.Data)

	err = rom.LoadFile(fsys, "roms/missing.ch8")
	assert.Error(err)
}

func TestRom_Reset(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []byte{1, 2}}
	rom.Reset()
	assert.True(rom.Empty())
}
