package io

import (
	"strconv"
	"unicode"
)

const (
	KEY_COUNT = 16
)

// _key_layout maps the host QWERTY block onto the hex keypad:
//
//	1 2 3 4      1 2 3 C
//	q w e r  =>  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
var _key_layout = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xc,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xd,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xe,
	'z': 0xa, 'x': 0x0, 'c': 0xb, 'v': 0xf,
}

// KeyOf maps a host key to a keypad key.
func KeyOf(r rune) (key uint8, ok bool) {
	key, ok = _key_layout[unicode.ToLower(r)]
	return
}

// Keypad holds the state of the sixteen keys.
type Keypad struct {
	Key [KEY_COUNT]bool
}

var _ KeySource = (*Keypad)(nil)

// Down returns true if the key is held. Out of range keys are never held.
func (kp *Keypad) Down(key uint8) bool {
	if int(key) >= KEY_COUNT {
		return false
	}
	return kp.Key[key]
}

func (kp *Keypad) Press(key uint8) {
	kp.Key[key&0xf] = true
}

func (kp *Keypad) Release(key uint8) {
	kp.Key[key&0xf] = false
}

// Toggle flips a key, returning its new state.
func (kp *Keypad) Toggle(key uint8) (down bool) {
	kp.Key[key&0xf] = !kp.Key[key&0xf]
	return kp.Key[key&0xf]
}

func (kp *Keypad) Reset() {
	clear(kp.Key[:])
}

// Parse replaces the held keys with a list of hex digits, ie "1af".
func (kp *Keypad) Parse(keys string) (err error) {
	var held [KEY_COUNT]bool

	for _, r := range keys {
		var value uint64
		value, err = strconv.ParseUint(string(r), 16, 4)
		if err != nil {
			err = ErrKeyInvalid
			return
		}
		held[value] = true
	}

	kp.Key = held
	return
}
