package config

import (
	_ "embed"
)

//go:embed defaults/stack.yaml
var defaultStackYAML []byte

// DefaultStackConfig returns the hardcoded stack configuration. It matches
// the embedded defaults/stack.yaml.
func DefaultStackConfig() StackConfig {
	return StackConfig{
		Tower: TowerConfig{
			PoolSize:   16,
			BoundsSize: 3.5,
		},
		Placement: PlacementConfig{
			ErrorMargin:    0.1,
			BoundsGain:     0.25,
			ComboStartGain: 5,
		},
		Motion: MotionConfig{
			Mode:       "pingpong",
			Amplitude:  5,
			Speed:      0.6,
			SpeedStep:  0.1,
			SpeedEvery: 5,
			SpeedMax:   1.5,
		},
		Classic: MotionConfig{
			Mode:      "sine",
			Amplitude: 3.5,
			Speed:     2.5,
			SpeedMax:  2.5,
		},
		Camera: CameraConfig{
			FollowSpeed: 5,
		},
		Debris: DebrisConfig{
			RubbleMass: 4,
			TileMass:   1,
			Gravity:    9.8,
			KillDepth:  12,
			Drift:      1.5,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.5,
				MarginReduction: 0.5,
			},
		},
		Palettes: [][]string{
			{"#4a6fa5", "#6ec3c1", "#f2d492", "#f29559", "#e05263"},
			{"#355070", "#6d597a", "#b56576", "#e56b6f", "#eaac8b"},
			{"#264653", "#2a9d8f", "#e9c46a", "#f4a261", "#e76f51"},
			{"#0b132b", "#1c2541", "#3a506b", "#5bc0be", "#6fffe9"},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultStackYAML
}
