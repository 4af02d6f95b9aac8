package tower

import (
	"fmt"

	"github.com/vovakirdan/tui-stack/internal/config"
	"github.com/vovakirdan/tui-stack/internal/physics"
	"github.com/vovakirdan/tui-stack/internal/stack"
)

// RulesFor builds validated engine rules for a mode from the configuration,
// with the difficulty level applied.
func RulesFor(cfg config.StackConfig, mode Mode) (stack.Rules, error) {
	motion := cfg.Motion
	if mode == ModeClassic {
		motion = cfg.Classic
	}

	d := config.NewDifficultyManager(cfg.Difficulty)
	motion = d.Motion(motion)

	mm, err := stack.ParseMotionMode(motion.Mode)
	if err != nil {
		return stack.Rules{}, err
	}

	r := stack.Rules{
		Mode:           mm,
		PoolSize:       cfg.Tower.PoolSize,
		BoundsSize:     cfg.Tower.BoundsSize,
		ErrorMargin:    d.ErrorMargin(cfg.Placement.ErrorMargin),
		BoundsGain:     cfg.Placement.BoundsGain,
		ComboStartGain: cfg.Placement.ComboStartGain,
		Amplitude:      motion.Amplitude,
		Speed:          motion.Speed,
		SpeedStep:      motion.SpeedStep,
		SpeedEvery:     motion.SpeedEvery,
		SpeedMax:       motion.SpeedMax,
		FollowSpeed:    cfg.Camera.FollowSpeed,
		RubbleMass:     cfg.Debris.RubbleMass,
		TileMass:       cfg.Debris.TileMass,
	}
	if err := r.Validate(); err != nil {
		return stack.Rules{}, err
	}
	return r, nil
}

// PaletteFor picks the palette for a seed from the configured list.
func PaletteFor(cfg config.StackConfig, seed int64) (stack.Palette, error) {
	n := len(cfg.Palettes)
	if n == 0 {
		return stack.DefaultPalette, nil
	}
	i := int(seed % int64(n))
	if i < 0 {
		i += n
	}
	p, err := stack.ParsePalette(cfg.Palettes[i]...)
	if err != nil {
		return nil, fmt.Errorf("tower: palette %d: %w", i, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("tower: palette %d: %w", i, err)
	}
	return p, nil
}

// PhysicsFor returns the debris simulation tuning.
func PhysicsFor(cfg config.StackConfig) physics.Config {
	return physics.Config{
		Gravity:   cfg.Debris.Gravity,
		KillDepth: cfg.Debris.KillDepth,
		Drift:     cfg.Debris.Drift,
	}
}
