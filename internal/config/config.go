// Package config provides YAML-based configuration loading and difficulty
// presets for the stack game.
package config

// StackConfig contains all tuning of the stack game.
type StackConfig struct {
	Tower      TowerConfig      `yaml:"tower"`
	Placement  PlacementConfig  `yaml:"placement"`
	Motion     MotionConfig     `yaml:"motion"`
	Classic    MotionConfig     `yaml:"classic"`
	Camera     CameraConfig     `yaml:"camera"`
	Debris     DebrisConfig     `yaml:"debris"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Palettes   [][]string       `yaml:"palettes"`
}

// TowerConfig defines the tower pool and footprint.
type TowerConfig struct {
	PoolSize   int     `yaml:"pool_size"`
	BoundsSize float64 `yaml:"bounds_size"`
}

// PlacementConfig defines overlap resolution thresholds.
type PlacementConfig struct {
	ErrorMargin    float64 `yaml:"error_margin"`
	BoundsGain     float64 `yaml:"bounds_gain"`
	ComboStartGain int     `yaml:"combo_start_gain"`
}

// MotionConfig defines how the active tile oscillates.
type MotionConfig struct {
	Mode       string  `yaml:"mode"` // "pingpong" or "sine"
	Amplitude  float64 `yaml:"amplitude"`
	Speed      float64 `yaml:"speed"`
	SpeedStep  float64 `yaml:"speed_step"`
	SpeedEvery int     `yaml:"speed_every"` // 0 disables the ramp
	SpeedMax   float64 `yaml:"speed_max"`
}

// CameraConfig defines the tower follow easing.
type CameraConfig struct {
	FollowSpeed float64 `yaml:"follow_speed"`
}

// DebrisConfig defines falling pieces.
type DebrisConfig struct {
	RubbleMass float64 `yaml:"rubble_mass"`
	TileMass   float64 `yaml:"tile_mass"`
	Gravity    float64 `yaml:"gravity"`
	KillDepth  float64 `yaml:"kill_depth"`
	Drift      float64 `yaml:"drift"`
}

// DifficultyConfig scales the base tuning by a level in [0, 1].
type DifficultyConfig struct {
	Enabled      bool          `yaml:"enabled"`       // false freezes the speed ramp
	InitialLevel float64       `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Scaling      ScalingConfig `yaml:"scaling"`
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Added to the speed factor at level 1
	MarginReduction float64 `yaml:"margin_reduction"` // Fraction of the error margin removed at level 1
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyZen    DifficultyPreset = "zen"
)

// Presets lists the known presets in menu order.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyZen}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsZenPreset returns true if the preset disables the speed ramp.
func IsZenPreset(preset DifficultyPreset) bool {
	return preset == DifficultyZen
}
