package cpu

// Memory map.
const (
	MEMORY_SIZE   = 4096          // Bytes of addressable memory.
	FONT_START    = 0x000         // Font glyphs, 0-F.
	FONT_HEIGHT   = 5             // Bytes per font glyph.
	PROGRAM_START = 0x200         // Load address of the program image.
	PROGRAM_LIMIT = 0xfff - 0x200 // Largest program image, in bytes.
)

// Register file.
const (
	REGISTER_COUNT    = 16  // v0-vf
	REGISTER_FLAG     = 0xf // vf
	KEY_COUNT         = 16  // Hex keypad.
	SPRITE_WIDTH      = 8   // Bits per sprite row.
	SPRITE_HEIGHT_MAX = 15  // Rows in the tallest sprite.
)

// Font is the built-in hex digit glyph set, 4 pixels wide.
var Font = [16 * FONT_HEIGHT]uint8{
	0xf0, 0x90, 0x90, 0x90, 0xf0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xf0, 0x10, 0xf0, 0x80, 0xf0, // 2
	0xf0, 0x10, 0xf0, 0x10, 0xf0, // 3
	0x90, 0x90, 0xf0, 0x10, 0x10, // 4
	0xf0, 0x80, 0xf0, 0x10, 0xf0, // 5
	0xf0, 0x80, 0xf0, 0x90, 0xf0, // 6
	0xf0, 0x10, 0x20, 0x40, 0x40, // 7
	0xf0, 0x90, 0xf0, 0x90, 0xf0, // 8
	0xf0, 0x90, 0xf0, 0x10, 0xf0, // 9
	0xf0, 0x90, 0xf0, 0x90, 0x90, // A
	0xe0, 0x90, 0xe0, 0x90, 0xe0, // B
	0xf0, 0x80, 0x80, 0x80, 0xf0, // C
	0xe0, 0x90, 0x90, 0x90, 0xe0, // D
	0xf0, 0x80, 0xf0, 0x80, 0xf0, // E
	0xf0, 0x80, 0xf0, 0x80, 0x80, // F
}

// FontGlyph returns the address of the glyph for a hex digit.
func FontGlyph(digit uint8) uint16 {
	return FONT_START + uint16(digit&0xf)*FONT_HEIGHT
}
