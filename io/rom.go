package io

import (
	"bytes"
	"io"
	"io/fs"
)

const (
	ROM_LIMIT = 0xfff - 0x200 // Largest program image, in bytes.
)

// Rom is a program image, loaded at 0x200.
type Rom struct {
	Data []byte
}

// Load reads a program image. Images larger than ROM_LIMIT are rejected,
// leaving the prior image in place.
func (rc *Rom) Load(input io.Reader) (err error) {
	var buf bytes.Buffer

	// Read one byte past the limit to detect oversize images.
	_, err = io.CopyN(&buf, input, ROM_LIMIT+1)
	if err == io.EOF {
		err = nil
	}
	if err != nil {
		return
	}

	if buf.Len() > ROM_LIMIT {
		err = ErrRomSize
		return
	}

	rc.Data = buf.Bytes()
	return
}

// LoadFile reads a program image from a file system.
func (rc *Rom) LoadFile(fsys fs.FS, name string) (err error) {
	inf, err := fsys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	return rc.Load(inf)
}

// Empty returns true if no image is loaded.
func (rc *Rom) Empty() bool {
	return len(rc.Data) == 0
}

// Reset discards the image.
func (rc *Rom) Reset() {
	rc.Data = nil
}
