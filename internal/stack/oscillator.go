package stack

import "math"

// Oscillator drives the active tile along its moving axis.
//
// In ping-pong mode the position is lerp(Dir, -Dir, Phase). Once Phase
// reaches 1 the position is pinned to -Dir exactly, Dir flips and Phase
// restarts at 0, so the turn happens on the endpoint itself rather than
// relying on an accumulated float hitting the amplitude.
type Oscillator struct {
	Mode      MotionMode
	Amplitude float64
	Dir       float64 // Current start endpoint, +Amplitude or -Amplitude
	Phase     float64 // Ping-pong: progress in [0, 1). Sine: angle in radians.
	Speed     float64 // Phase units per second
}

// NewOscillator returns an oscillator starting at +amplitude.
func NewOscillator(mode MotionMode, amplitude, speed float64) Oscillator {
	return Oscillator{
		Mode:      mode,
		Amplitude: amplitude,
		Dir:       amplitude,
		Speed:     speed,
	}
}

// Advance moves the phase forward by dt seconds and returns the new position.
func (o *Oscillator) Advance(dt float64) float64 {
	o.Phase += dt * o.Speed
	if o.Mode == MotionSine {
		return math.Sin(o.Phase) * o.Amplitude
	}

	if o.Phase >= 1 {
		end := -o.Dir
		o.Dir = end
		o.Phase = 0
		return end
	}
	return lerp(o.Dir, -o.Dir, o.Phase)
}

// Position returns the current position without advancing.
func (o Oscillator) Position() float64 {
	if o.Mode == MotionSine {
		return math.Sin(o.Phase) * o.Amplitude
	}
	return lerp(o.Dir, -o.Dir, o.Phase)
}
