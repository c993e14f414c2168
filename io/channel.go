// Package io provides the peripherals consulted by the CHIP-8 CPU: the
// program ROM image, the sixteen key hex keypad, and the delay and sound
// timers.
package io

// KeySource is the key state query used by the skip-if-pressed and
// wait-for-key instructions.
type KeySource interface {
	// Down returns true while the key (0x0-0xF) is held.
	Down(key uint8) bool
}

// TimerSource is the delay and sound countdown registers.
type TimerSource interface {
	// Delay returns the current delay timer value.
	Delay() uint8
	// SetDelay loads the delay timer.
	SetDelay(value uint8)
	// SetSound loads the sound timer.
	SetSound(value uint8)
}
