package stack

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is wrapped by every construction-time validation error.
var ErrInvalidConfig = errors.New("stack: invalid configuration")

// MotionMode selects how the active tile oscillates.
type MotionMode int

const (
	// MotionPingPong moves linearly between the endpoints and ramps speed.
	MotionPingPong MotionMode = iota
	// MotionSine follows a sine wave at constant speed (classic mode).
	MotionSine
)

// String returns the config name of the mode.
func (m MotionMode) String() string {
	if m == MotionSine {
		return "sine"
	}
	return "pingpong"
}

// ParseMotionMode maps a config name to a mode. The empty string selects
// ping-pong.
func ParseMotionMode(name string) (MotionMode, error) {
	switch strings.ToLower(name) {
	case "", "pingpong", "ping-pong":
		return MotionPingPong, nil
	case "sine":
		return MotionSine, nil
	}
	return 0, fmt.Errorf("%w: unknown motion mode %q", ErrInvalidConfig, name)
}

// Tuning defaults.
const (
	DefaultBoundsSize     = 3.5
	DefaultErrorMargin    = 0.1
	DefaultBoundsGain     = 0.25
	DefaultComboStartGain = 5
	DefaultPoolSize       = 16
	DefaultAmplitude      = 5.0
	DefaultSpeed          = 0.6
	DefaultSpeedStep      = 0.1
	DefaultSpeedEvery     = 5
	DefaultSpeedMax       = 1.5
	DefaultFollowSpeed    = 5.0
	DefaultRubbleMass     = 4.0
	DefaultTileMass       = 1.0
	blendFactor           = 0.33
)

// Rules holds the immutable tuning of a session.
type Rules struct {
	Mode           MotionMode
	PoolSize       int     // Ring buffer capacity (pedestal + active tile)
	BoundsSize     float64 // Initial and maximum footprint per axis
	ErrorMargin    float64 // |delta| at or below this is a perfect placement
	BoundsGain     float64 // Footprint regained per perfect placement past the combo threshold
	ComboStartGain int     // Combo count that must be exceeded before regaining footprint
	Amplitude      float64 // Oscillation half-range on the moving axis
	Speed          float64 // Initial oscillation speed
	SpeedStep      float64 // Speed added every SpeedEvery points
	SpeedEvery     int     // 0 disables the ramp
	SpeedMax       float64 // Speed ceiling
	FollowSpeed    float64 // Tower follow easing rate
	RubbleMass     float64 // Mass of trimmed debris
	TileMass       float64 // Mass of the tile dropped on game over
}

// DefaultRules returns the ping-pong tuning.
func DefaultRules() Rules {
	return Rules{
		Mode:           MotionPingPong,
		PoolSize:       DefaultPoolSize,
		BoundsSize:     DefaultBoundsSize,
		ErrorMargin:    DefaultErrorMargin,
		BoundsGain:     DefaultBoundsGain,
		ComboStartGain: DefaultComboStartGain,
		Amplitude:      DefaultAmplitude,
		Speed:          DefaultSpeed,
		SpeedStep:      DefaultSpeedStep,
		SpeedEvery:     DefaultSpeedEvery,
		SpeedMax:       DefaultSpeedMax,
		FollowSpeed:    DefaultFollowSpeed,
		RubbleMass:     DefaultRubbleMass,
		TileMass:       DefaultTileMass,
	}
}

// ClassicRules returns the sine-wave tuning of the first release.
func ClassicRules() Rules {
	r := DefaultRules()
	r.Mode = MotionSine
	r.Amplitude = DefaultBoundsSize
	r.Speed = 2.5
	r.SpeedStep = 0
	r.SpeedEvery = 0
	r.SpeedMax = 2.5
	return r
}

// Validate reports the first degenerate setting, wrapped in ErrInvalidConfig.
func (r Rules) Validate() error {
	switch {
	case r.Mode != MotionPingPong && r.Mode != MotionSine:
		return fmt.Errorf("%w: unknown motion mode %d", ErrInvalidConfig, r.Mode)
	case r.PoolSize < 2:
		return fmt.Errorf("%w: pool size %d, need at least 2", ErrInvalidConfig, r.PoolSize)
	case r.BoundsSize <= 0:
		return fmt.Errorf("%w: bounds size %v must be positive", ErrInvalidConfig, r.BoundsSize)
	case r.ErrorMargin < 0:
		return fmt.Errorf("%w: error margin %v is negative", ErrInvalidConfig, r.ErrorMargin)
	case r.BoundsGain < 0:
		return fmt.Errorf("%w: bounds gain %v is negative", ErrInvalidConfig, r.BoundsGain)
	case r.ComboStartGain < 0:
		return fmt.Errorf("%w: combo start gain %d is negative", ErrInvalidConfig, r.ComboStartGain)
	case r.Amplitude <= 0:
		return fmt.Errorf("%w: amplitude %v must be positive", ErrInvalidConfig, r.Amplitude)
	case r.Speed <= 0:
		return fmt.Errorf("%w: speed %v must be positive", ErrInvalidConfig, r.Speed)
	case r.SpeedStep < 0:
		return fmt.Errorf("%w: speed step %v is negative", ErrInvalidConfig, r.SpeedStep)
	case r.SpeedEvery < 0:
		return fmt.Errorf("%w: speed interval %d is negative", ErrInvalidConfig, r.SpeedEvery)
	case r.SpeedMax < r.Speed:
		return fmt.Errorf("%w: max speed %v below start speed %v", ErrInvalidConfig, r.SpeedMax, r.Speed)
	case r.FollowSpeed < 0:
		return fmt.Errorf("%w: follow speed %v is negative", ErrInvalidConfig, r.FollowSpeed)
	case r.RubbleMass <= 0 || r.TileMass <= 0:
		return fmt.Errorf("%w: masses must be positive", ErrInvalidConfig)
	}
	return nil
}

// rampSpeed returns the oscillation speed after reaching score.
func (r Rules) rampSpeed(current float64, score int) float64 {
	if r.SpeedEvery <= 0 || score <= 0 || score%r.SpeedEvery != 0 {
		return current
	}
	return min(current+r.SpeedStep, r.SpeedMax)
}
