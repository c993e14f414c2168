// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":        "0",
	"MEMORY_SIZE":   fmt.Sprintf("%#x", MEMORY_SIZE),
	"FONT_START":    fmt.Sprintf("%#x", FONT_START),
	"FONT_HEIGHT":   fmt.Sprintf("%v", FONT_HEIGHT),
	"PROGRAM_START": fmt.Sprintf("%#x", PROGRAM_START),
}

// Assembler is a single pass macro assembler for CHIP-8 programs.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of jump labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	expansions int // Count of macro expansions, for unique local labels.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names to register indexes.
var regMap = map[string]uint8{}

func init() {
	for n := range uint8(REGISTER_COUNT) {
		regMap[fmt.Sprintf("v%x", n)] = n
	}
}

// labelRe matches names usable as labels.
var labelRe = regexp.MustCompile(`^[A-Za-z_@][A-Za-z0-9_@.]*$`)

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	if len(word) > 0 && word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word)
		return
	}

	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// register returns the register index named by a word.
func (asm *Assembler) register(word string) (reg uint8, err error) {
	reg, ok := regMap[strings.ToLower(word)]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// byteOf returns an 8-bit immediate. Negative values are two's complement.
func (asm *Assembler) byteOf(word string) (value uint8, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v64 < -0x80 || v64 > 0xff {
		err = ErrValueRange
		return
	}

	value = uint8(v64)
	return
}

// nibbleOf returns a 4-bit immediate.
func (asm *Assembler) nibbleOf(word string) (value uint8, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v64 < 0 || v64 > 0xf {
		err = ErrValueRange
		return
	}

	value = uint8(v64)
	return
}

// addressOf returns a 12-bit address, or the label to link it to.
func (asm *Assembler) addressOf(word string) (addr uint16, label string, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		if labelRe.MatchString(word) {
			label = word
			err = nil
		}
		return
	}

	if v64 < 0 || v64 > 0xfff {
		err = ErrValueRange
		return
	}

	addr = uint16(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	err = nil

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// splitWords splits a line on whitespace and commas.
func splitWords(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#x", value)
	})
	if err != nil {
		return
	}

	words = splitWords(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddress()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansions++
		expansion := asm.expansions
		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", fmt.Sprintf("%v_%v_", name, expansion))
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentAddress gets the address of the next generated byte.
func (asm *Assembler) currentAddress() int {
	if len(asm.Opcode) == 0 {
		return PROGRAM_START
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Address + len(last.Bytes)
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.expansions = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := splitWords(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	if asm.currentAddress()-PROGRAM_START > PROGRAM_LIMIT {
		err = ErrAddressOverlap
		return
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		if len(op.Bytes) != 2 {
			log.Fatalf("Unable to link label '%s' to line %d: %v", label, op.LineNo, op.Words)
		}
		op.Bytes[0] |= uint8((addr >> 8) & 0xf)
		op.Bytes[1] |= uint8(addr & 0xff)
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// aluMap maps register-to-register ALU opcode names.
var aluMap = map[string]Op{
	"or":   OP_OR,
	"and":  OP_AND,
	"xor":  OP_XOR,
	"sub":  OP_SUB,
	"subn": OP_SUBN,
}

// ldSpecial maps the 'ld <special>, vx' destinations.
var ldSpecial = map[string]Op{
	"dt":  OP_LD_DT_VX,
	"st":  OP_LD_ST_VX,
	"f":   OP_LD_F_VX,
	"b":   OP_LD_B_VX,
	"[i]": OP_LD_MEM_VX,
}

// ldFrom maps the 'ld vx, <special>' sources.
var ldFrom = map[string]Op{
	"dt":  OP_LD_VX_DT,
	"k":   OP_LD_VX_K,
	"[i]": OP_LD_VX_MEM,
}

// argCount checks the number of operands.
func argCount(args []string, min, max int) (err error) {
	switch {
	case len(args) < min:
		err = ErrOpcodeMissing
	case len(args) > max:
		err = ErrOpcodeExtraArgs
	}
	return
}

// parseData evaluates a .byte directive.
func (asm *Assembler) parseData(args []string) (data []byte, err error) {
	if len(args) == 0 {
		err = ErrOpcodeMissing
		return
	}

	for _, arg := range args {
		var value uint8
		value, err = asm.byteOf(arg)
		if err != nil {
			return
		}
		data = append(data, value)
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var bytes []byte
	var data bool
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	defer func() {
		if len(bytes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Address: asm.currentAddress(), Words: words, Bytes: bytes, Data: data, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	if words[0] == ".byte" {
		bytes, err = asm.parseData(words[1:])
		data = true
		return
	}

	var ins Instruction
	ins, label, err = asm.parseInstruction(strings.ToLower(words[0]), words[1:])
	if err != nil {
		return
	}

	code := ins.Code()
	bytes = []byte{uint8(code >> 8), uint8(code)}

	return
}

// parseInstruction evaluates a mnemonic and its operands.
func (asm *Assembler) parseInstruction(mnemonic string, args []string) (ins Instruction, label string, err error) {
	lower := make([]string, len(args))
	for n, arg := range args {
		lower[n] = strings.ToLower(arg)
	}

	switch mnemonic {
	case "cls", "ret":
		if err = argCount(args, 0, 0); err != nil {
			return
		}
		ins.Op = OP_CLS
		if mnemonic == "ret" {
			ins.Op = OP_RET
		}
	case "sys", "call":
		if err = argCount(args, 1, 1); err != nil {
			return
		}
		ins.Op = OP_SYS
		if mnemonic == "call" {
			ins.Op = OP_CALL
		}
		ins.NNN, label, err = asm.addressOf(args[0])
		if err == nil && ins.Op == OP_SYS && (len(label) != 0 || ins.NNN&0xff != 0) {
			// Only 0x0n00 decodes as sys.
			err = ErrValueRange
		}
	case "jp":
		if err = argCount(args, 1, 2); err != nil {
			return
		}
		if len(args) == 1 {
			ins.Op = OP_JP
			ins.NNN, label, err = asm.addressOf(args[0])
			return
		}
		if lower[0] != "v0" {
			err = ErrRegisterInvalid
			return
		}
		ins.Op = OP_JP_V0
		ins.NNN, label, err = asm.addressOf(args[1])
	case "se", "sne":
		if err = argCount(args, 2, 2); err != nil {
			return
		}
		if ins.X, err = asm.register(args[0]); err != nil {
			return
		}
		if reg, rerr := asm.register(args[1]); rerr == nil {
			ins.Op = OP_SE_REG
			if mnemonic == "sne" {
				ins.Op = OP_SNE_REG
			}
			ins.Y = reg
			return
		}
		ins.Op = OP_SE_IMM
		if mnemonic == "sne" {
			ins.Op = OP_SNE_IMM
		}
		ins.KK, err = asm.byteOf(args[1])
	case "ld":
		if err = argCount(args, 2, 2); err != nil {
			return
		}
		if lower[0] == "i" {
			ins.Op = OP_LD_I
			ins.NNN, label, err = asm.addressOf(args[1])
			return
		}
		if op, ok := ldSpecial[lower[0]]; ok {
			ins.Op = op
			ins.X, err = asm.register(args[1])
			return
		}
		if ins.X, err = asm.register(args[0]); err != nil {
			return
		}
		if op, ok := ldFrom[lower[1]]; ok {
			ins.Op = op
			return
		}
		if reg, rerr := asm.register(args[1]); rerr == nil {
			ins.Op = OP_LD_REG
			ins.Y = reg
			return
		}
		ins.Op = OP_LD_IMM
		ins.KK, err = asm.byteOf(args[1])
	case "add":
		if err = argCount(args, 2, 2); err != nil {
			return
		}
		if lower[0] == "i" {
			ins.Op = OP_ADD_I_VX
			ins.X, err = asm.register(args[1])
			return
		}
		if ins.X, err = asm.register(args[0]); err != nil {
			return
		}
		if reg, rerr := asm.register(args[1]); rerr == nil {
			ins.Op = OP_ADD_REG
			ins.Y = reg
			return
		}
		ins.Op = OP_ADD_IMM
		ins.KK, err = asm.byteOf(args[1])
	case "or", "and", "xor", "sub", "subn":
		if err = argCount(args, 2, 2); err != nil {
			return
		}
		ins.Op = aluMap[mnemonic]
		if ins.X, err = asm.register(args[0]); err != nil {
			return
		}
		ins.Y, err = asm.register(args[1])
	case "shr", "shl":
		if err = argCount(args, 1, 2); err != nil {
			return
		}
		ins.Op = OP_SHR
		if mnemonic == "shl" {
			ins.Op = OP_SHL
		}
		if ins.X, err = asm.register(args[0]); err != nil {
			return
		}
		if len(args) == 2 {
			ins.Y, err = asm.register(args[1])
		}
	case "rnd":
		if err = argCount(args, 2, 2); err != nil {
			return
		}
		ins.Op = OP_RND
		if ins.X, err = asm.register(args[0]); err != nil {
			return
		}
		ins.KK, err = asm.byteOf(args[1])
	case "drw":
		if err = argCount(args, 3, 3); err != nil {
			return
		}
		ins.Op = OP_DRW
		if ins.X, err = asm.register(args[0]); err != nil {
			return
		}
		if ins.Y, err = asm.register(args[1]); err != nil {
			return
		}
		ins.N, err = asm.nibbleOf(args[2])
	case "skp", "sknp":
		if err = argCount(args, 1, 1); err != nil {
			return
		}
		ins.Op = OP_SKP
		if mnemonic == "sknp" {
			ins.Op = OP_SKNP
		}
		ins.X, err = asm.register(args[0])
	default:
		err = ErrInstructionInvalid
	}

	return
}
