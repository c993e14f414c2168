package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/term"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/display"
)

var (
	ErrSourceMissing  = errors.New("one of -c or -r is required")
	ErrSourceConflict = errors.New("-c and -r are mutually exclusive")
)

// checkSources requires exactly one program source.
func checkSources(compile string, rom string) (err error) {
	switch {
	case len(compile) == 0 && len(rom) == 0:
		err = ErrSourceMissing
	case len(compile) != 0 && len(rom) != 0:
		err = ErrSourceConflict
	}
	return
}

// describe adds the disassembled instruction to a fault report.
func describe(err error) string {
	var fault *cpu.ErrFault
	if errors.As(err, &fault) {
		ins, derr := cpu.Decode(fault.Code)
		if derr == nil {
			return fmt.Sprintf("%v [%v]", err, ins)
		}
	}

	return err.Error()
}

// checkTerminal warns when the output terminal cannot fit the display.
func checkTerminal(out *os.File) {
	fd := int(out.Fd())
	if !term.IsTerminal(fd) {
		return
	}

	width, _, err := term.GetSize(fd)
	if err != nil {
		return
	}

	if width < display.WIDTH {
		log.Printf("terminal is %d columns, the display needs %d", width, display.WIDTH)
	}
}

// saveBitmap writes the display as a two color BMP image.
func saveBitmap(path string, screen *display.Display) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}
	defer func() {
		cerr := ouf.Close()
		if err == nil {
			err = cerr
		}
	}()

	err = bmp.Encode(ouf, screen.Image())
	return
}
