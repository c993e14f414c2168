package main

import (
	"fmt"
	"strings"

	"github.com/jroimartin/gocui"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/io"
)

const (
	RUN_TICKS  = 100                // Ticks per 'g' keypress.
	KEY_LAYOUT = "1234qwerasdfzxcv" // Host keys mapped onto the hex pad.
)

const debugHelp = "space: step  g: run 100  ^R: reset  1-4 q-r a-f z-v: keypad  esc: quit"

// debugger is the interactive session state.
type debugger struct {
	emu    *emulator.Emulator
	status string
}

// debug runs the interactive debugger until the user quits.
func debug(emu *emulator.Emulator) (err error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return
	}
	defer g.Close()

	dbg := &debugger{emu: emu, status: "ready"}

	g.SetManagerFunc(dbg.layout)

	bindings := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyCtrlC, quit},
		{gocui.KeyEsc, quit},
		{gocui.KeySpace, dbg.step},
		{'g', dbg.run},
		{gocui.KeyCtrlR, dbg.reset},
	}
	for _, r := range KEY_LAYOUT {
		key, _ := io.KeyOf(r)
		bindings = append(bindings, struct {
			key     any
			handler func(*gocui.Gui, *gocui.View) error
		}{r, dbg.toggle(key)})
	}

	for _, binding := range bindings {
		err = g.SetKeybinding("", binding.key, gocui.ModNone, binding.handler)
		if err != nil {
			return
		}
	}

	err = g.MainLoop()
	if err == gocui.ErrQuit {
		err = nil
	}

	return
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

// tick runs the emulator, and records the outcome.
func (dbg *debugger) tick(count int) {
	ticks, err := dbg.emu.Run(count)
	if err != nil {
		dbg.status = describe(err)
		return
	}
	dbg.status = fmt.Sprintf("ran %d ticks", ticks)
}

func (dbg *debugger) step(g *gocui.Gui, v *gocui.View) error {
	dbg.tick(1)
	return nil
}

func (dbg *debugger) run(g *gocui.Gui, v *gocui.View) error {
	dbg.tick(RUN_TICKS)
	return nil
}

func (dbg *debugger) reset(g *gocui.Gui, v *gocui.View) error {
	err := dbg.emu.Reset()
	if err != nil {
		dbg.status = err.Error()
		return nil
	}
	dbg.status = "reset"
	return nil
}

func (dbg *debugger) toggle(key uint8) func(*gocui.Gui, *gocui.View) error {
	return func(g *gocui.Gui, v *gocui.View) error {
		if dbg.emu.Keypad.Toggle(key) {
			dbg.status = fmt.Sprintf("key %X down", key)
		} else {
			dbg.status = fmt.Sprintf("key %X up", key)
		}
		return nil
	}
}

// layout places and redraws all the views.
func (dbg *debugger) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	split := display.WIDTH + 1
	bottom := max(display.HEIGHT+1, maxY-4)
	right := max(split+24, maxX-1)

	views := []struct {
		name   string
		title  string
		x0, y0 int
		x1, y1 int
		draw   func(v *gocui.View)
	}{
		{"display", "Display", 0, 0, split, display.HEIGHT + 1, dbg.drawDisplay},
		{"registers", "Registers", split + 1, 0, right, 22, dbg.drawRegisters},
		{"listing", "Listing", split + 1, 23, right, bottom, dbg.drawListing},
		{"status", "Status", 0, bottom + 1, right, bottom + 3, dbg.drawStatus},
	}

	for _, view := range views {
		v, err := g.SetView(view.name, view.x0, view.y0, view.x1, view.y1)
		if err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
			v.Title = view.title
		}
		v.Clear()
		view.draw(v)
	}

	return nil
}

func (dbg *debugger) drawDisplay(v *gocui.View) {
	screen := dbg.emu.Screen()
	fmt.Fprint(v, screen.String())
}

func (dbg *debugger) drawRegisters(v *gocui.View) {
	emu := dbg.emu

	fmt.Fprint(v, emu.Cpu.String())
	fmt.Fprintf(v, "% 5s: %02X\n", "dt", emu.Timers.Delay())
	fmt.Fprintf(v, "% 5s: %02X\n", "st", emu.Timers.SoundValue)
	fmt.Fprintf(v, "% 5s: %v\n", "ticks", emu.Cpu.Ticks)

	held := ""
	for key := range uint8(io.KEY_COUNT) {
		if emu.Keypad.Down(key) {
			held += fmt.Sprintf("%X", key)
		}
	}
	fmt.Fprintf(v, "% 5s: %v\n", "keys", held)
}

func (dbg *debugger) drawListing(v *gocui.View) {
	emu := dbg.emu
	pc := int(emu.Cpu.Pc)

	_, height := v.Size()
	start := pc - 2*(height/3)

	for n := range height {
		addr := start + 2*n
		if addr < 0 || addr+1 >= cpu.MEMORY_SIZE {
			fmt.Fprintln(v)
			continue
		}

		marker := "  "
		if addr == pc {
			marker = "=>"
		}

		code := cpu.Code(uint16(emu.Cpu.Memory[addr])<<8 | uint16(emu.Cpu.Memory[addr+1]))
		text := "??"
		ins, err := cpu.Decode(code)
		if err == nil {
			text = ins.String()
		}

		source := ""
		if emu.Rom.Empty() && emu.Program != nil {
			op := emu.Program.Debug(uint16(addr))
			if op.Opcode != nil && op.Index == 0 {
				source = fmt.Sprintf("%d: %v", op.LineNo, strings.Join(op.Words, " "))
			}
		}

		fmt.Fprintf(v, "%s %03x: %04x  %-16s %s\n", marker, addr, uint16(code), text, source)
	}
}

func (dbg *debugger) drawStatus(v *gocui.View) {
	fmt.Fprintf(v, "%v\n%v", dbg.status, debugHelp)
}
