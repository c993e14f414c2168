// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package display

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplay_Toggle(t *testing.T) {
	assert := assert.New(t)

	d := &Display{}

	for x := range 256 {
		for y := range 256 {
			before := d.Data
			erased := d.TogglePixel(uint8(x), uint8(y))
			assert.False(erased)

			// Exactly one bit differs, at the wrapped position.
			expected := before
			expected[y%HEIGHT] ^= uint64(1) << (WIDTH - 1 - x%WIDTH)
			if !assert.Equal(expected, d.Data, fmt.Sprintf("(%d,%d)", x, y)) {
				return
			}
			assert.True(d.Pixel(uint8(x), uint8(y)))

			erased = d.TogglePixel(uint8(x), uint8(y))
			assert.True(erased)
			assert.Equal(before, d.Data)
		}
	}
}

func TestDisplay_Wraparound(t *testing.T) {
	assert := assert.New(t)

	d := &Display{}
	d.TogglePixel(64+3, 32+2)

	assert.True(d.Pixel(3, 2))
	assert.True(d.Pixel(3+128, 2+64))
	assert.False(d.Pixel(2, 3))
}

func TestDisplay_Clear(t *testing.T) {
	assert := assert.New(t)

	d := &Display{}
	for n := range 200 {
		d.TogglePixel(uint8(n*7), uint8(n*3))
	}

	d.Clear()

	for x := range 256 {
		for y := range 256 {
			assert.False(d.Pixel(uint8(x), uint8(y)))
		}
	}
}

func TestDisplay_Bits(t *testing.T) {
	assert := assert.New(t)

	d := &Display{}
	d.TogglePixel(0, 0)
	d.TogglePixel(63, 31)

	assert.Equal(uint64(1)<<63, d.Data[0])
	assert.Equal(uint64(1), d.Data[31])
}

func TestDisplay_Render(t *testing.T) {
	assert := assert.New(t)

	d := &Display{}
	d.TogglePixel(1, 0)
	d.TogglePixel(62, 31)

	out := d.Render()
	assert.True(out[0][1])
	assert.False(out[0][0])
	assert.True(out[31][62])

	count := 0
	for _, row := range out {
		for _, on := range row {
			if on {
				count++
			}
		}
	}
	assert.Equal(2, count)

	// Render is a pure projection.
	assert.True(d.Pixel(1, 0))
}

func TestDisplay_String(t *testing.T) {
	assert := assert.New(t)

	d := &Display{}
	d.TogglePixel(0, 0)
	d.TogglePixel(2, 0)

	lines := strings.Split(d.String(), "\n")
	assert.Len(lines, HEIGHT+1)
	assert.Equal(PIXEL_ON+PIXEL_OFF+PIXEL_ON+strings.Repeat(PIXEL_OFF, WIDTH-3), lines[0])
	assert.Equal(strings.Repeat(PIXEL_OFF, WIDTH), lines[1])
}

func TestDisplay_Image(t *testing.T) {
	assert := assert.New(t)

	d := &Display{}
	d.TogglePixel(5, 7)

	img := d.Image()
	assert.Equal(WIDTH, img.Bounds().Dx())
	assert.Equal(HEIGHT, img.Bounds().Dy())
	assert.Equal(uint8(1), img.ColorIndexAt(5, 7))
	assert.Equal(uint8(0), img.ColorIndexAt(7, 5))
}

func TestDisplay_Snapshot(t *testing.T) {
	assert := assert.New(t)

	d := Display{}
	d.TogglePixel(10, 10)

	snap := d
	d.TogglePixel(10, 10)

	assert.True(snap.Pixel(10, 10))
	assert.False(d.Pixel(10, 10))
}
