// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package display implements the 64x32 monochrome bitmap of the CHIP-8
// virtual machine.
//
// Each row is packed into a single 64-bit word, column 0 in the most
// significant bit. Coordinates wrap modulo the screen dimensions before
// indexing, so every (x, y) byte pair addresses a pixel.
package display

import (
	"fmt"
	"image"
	"image/color"
	"iter"
	"maps"
	"strings"
)

const (
	WIDTH  = 64 // Columns.
	HEIGHT = 32 // Rows.
)

const (
	PIXEL_ON  = "█"
	PIXEL_OFF = " "
)

// Palette used by Image(); index 0 is off, index 1 is on.
var Palette = color.Palette{color.Black, color.White}

var _display_defines = map[string]string{
	"WIDTH":  fmt.Sprintf("%v", WIDTH),
	"HEIGHT": fmt.Sprintf("%v", HEIGHT),
}

// Display is the bitmap. The zero value is a cleared screen.
type Display struct {
	Data [HEIGHT]uint64 // One word per row.
}

// Defines for the display.
func (d *Display) Defines() iter.Seq2[string, string] {
	return maps.All(_display_defines)
}

// mask returns the row index and the bit mask for a wrapped coordinate.
func mask(x, y uint8) (row int, bit uint64) {
	col := uint(x) % WIDTH
	row = int(uint(y) % HEIGHT)
	bit = uint64(1) << (WIDTH - 1 - col)
	return
}

// Clear turns every pixel off.
func (d *Display) Clear() {
	clear(d.Data[:])
}

// TogglePixel flips the pixel at the wrapped coordinate.
// Returns true if the pixel was on before the toggle.
func (d *Display) TogglePixel(x, y uint8) (erased bool) {
	row, bit := mask(x, y)
	erased = (d.Data[row] & bit) != 0
	d.Data[row] ^= bit
	return
}

// Pixel returns the state of the pixel at the wrapped coordinate.
func (d *Display) Pixel(x, y uint8) bool {
	row, bit := mask(x, y)
	return (d.Data[row] & bit) != 0
}

// Rows iterates over the packed row words.
func (d *Display) Rows() iter.Seq2[int, uint64] {
	return func(yield func(row int, data uint64) bool) {
		for row, data := range d.Data {
			if !yield(row, data) {
				return
			}
		}
	}
}

// Render projects the bitmap to booleans, row-major, columns left to right.
func (d *Display) Render() (out [HEIGHT][WIDTH]bool) {
	for row, data := range d.Rows() {
		for col := range WIDTH {
			out[row][col] = (data & (uint64(1) << (WIDTH - 1 - col))) != 0
		}
	}

	return
}

// String renders the bitmap as text, one line per row.
func (d *Display) String() string {
	var sb strings.Builder

	for _, row := range d.Render() {
		for _, on := range row {
			if on {
				sb.WriteString(PIXEL_ON)
			} else {
				sb.WriteString(PIXEL_OFF)
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Image returns a two-colour image of the bitmap, one image pixel per
// display pixel.
func (d *Display) Image() (img *image.Paletted) {
	img = image.NewPaletted(image.Rect(0, 0, WIDTH, HEIGHT), Palette)

	for y, row := range d.Render() {
		for x, on := range row {
			if on {
				img.SetColorIndex(x, y, 1)
			}
		}
	}

	return
}
