package io

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimers(t *testing.T) {
	assert := assert.New(t)

	tm := &Timers{}
	assert.False(tm.Sounding())

	tm.SetDelay(2)
	tm.SetSound(1)
	assert.Equal(uint8(2), tm.Delay())
	assert.True(tm.Sounding())

	tm.Tick()
	assert.Equal(uint8(1), tm.Delay())
	assert.False(tm.Sounding())

	tm.Tick()
	tm.Tick()
	assert.Equal(uint8(0), tm.Delay())
	assert.Equal(uint8(0), tm.SoundValue)

	tm.SetDelay(9)
	tm.Reset()
	assert.Equal(uint8(0), tm.Delay())
}
