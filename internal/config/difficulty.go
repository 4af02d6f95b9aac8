package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownPreset is returned by ParsePreset for names outside Presets.
var ErrUnknownPreset = errors.New("config: unknown difficulty preset")

// ParsePreset validates a preset name. The empty string means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	if name == "" {
		return DifficultyNormal, nil
	}
	p := DifficultyPreset(strings.ToLower(name))
	for _, known := range Presets {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// ApplyStackPreset modifies the config based on a difficulty preset.
func ApplyStackPreset(cfg *StackConfig, preset DifficultyPreset) {
	if IsZenPreset(preset) {
		cfg.Difficulty.Enabled = false
		cfg.Difficulty.InitialLevel = 0
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
}

// DifficultyManager derives effective tuning from the difficulty level.
type DifficultyManager struct {
	cfg   DifficultyConfig
	level float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:   cfg,
		level: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// Level returns the difficulty level (0.0 to 1.0).
func (d *DifficultyManager) Level() float64 {
	return d.level
}

// RampEnabled reports whether the oscillation speed should ramp with score.
func (d *DifficultyManager) RampEnabled() bool {
	return d.cfg.Enabled
}

// Speed scales a base speed from base to base * (1 + speedMultiplier).
func (d *DifficultyManager) Speed(base float64) float64 {
	return base * (1.0 + d.level*d.cfg.Scaling.SpeedMultiplier)
}

// ErrorMargin shrinks the perfect-placement margin as difficulty increases.
func (d *DifficultyManager) ErrorMargin(base float64) float64 {
	reduction := clampF(d.level*d.cfg.Scaling.MarginReduction, 0.0, 1.0)
	return base * (1.0 - reduction)
}

// Motion returns m with speed fields scaled and, when the ramp is disabled,
// the ramp cleared.
func (d *DifficultyManager) Motion(m MotionConfig) MotionConfig {
	m.Speed = d.Speed(m.Speed)
	m.SpeedMax = math.Max(d.Speed(m.SpeedMax), m.Speed)
	if !d.RampEnabled() {
		m.SpeedStep = 0
		m.SpeedEvery = 0
		m.SpeedMax = m.Speed
	}
	return m
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
