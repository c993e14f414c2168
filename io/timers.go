package io

// Timers count down toward zero once per Tick().
type Timers struct {
	DelayValue uint8
	SoundValue uint8
}

var _ TimerSource = (*Timers)(nil)

func (tm *Timers) Delay() uint8 {
	return tm.DelayValue
}

func (tm *Timers) SetDelay(value uint8) {
	tm.DelayValue = value
}

func (tm *Timers) SetSound(value uint8) {
	tm.SoundValue = value
}

// Sounding returns true while the sound timer is running.
func (tm *Timers) Sounding() bool {
	return tm.SoundValue > 0
}

// Tick decrements both timers.
func (tm *Timers) Tick() {
	if tm.DelayValue > 0 {
		tm.DelayValue--
	}
	if tm.SoundValue > 0 {
		tm.SoundValue--
	}
}

func (tm *Timers) Reset() {
	tm.DelayValue = 0
	tm.SoundValue = 0
}
