package core

import "time"

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // Seed for cosmetic choices (palette selection)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickDuration returns the fixed simulation step in seconds.
// A non-positive tick rate falls back to 60 ticks per second.
func (c RuntimeConfig) TickDuration() float64 {
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return 1.0 / float64(rate)
}

// TickInterval returns the fixed simulation step as a time.Duration.
func (c RuntimeConfig) TickInterval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Current score
	Combo    int  // Current streak of precise moves
	GameOver bool // Whether the game has ended
	Paused   bool // Whether the game is paused
}

// EventKind identifies something that happened during a tick.
type EventKind int

const (
	EventNone     EventKind = iota
	EventPerfect            // Tile landed within the error margin
	EventTrimmed            // Tile landed but was trimmed
	EventScore              // Score display changed
	EventGameOver           // Tower was lost
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventPerfect:
		return "perfect"
	case EventTrimmed:
		return "trimmed"
	case EventScore:
		return "score"
	case EventGameOver:
		return "game_over"
	default:
		return "none"
	}
}

// Event is a gameplay notification surfaced to the platform layer.
type Event struct {
	Kind  EventKind
	Score int
	Combo int
	Value float64 // Placement offset, set for EventPerfect and EventTrimmed
	Text  string  // Display text, set for EventScore
}

// StepResult is returned by Game.Step() after each simulation tick.
// Contains the updated game state and any events that occurred.
type StepResult struct {
	State  GameState
	Events []Event
}
