package stack

// Phase is the session state machine position.
type Phase int

const (
	Playing Phase = iota
	GameOver
)

// String returns "playing" or "game over".
func (p Phase) String() string {
	if p == GameOver {
		return "game over"
	}
	return "playing"
}

// SessionState is the complete gameplay state of one session. Engine methods
// take a state and return the next one; callers never mutate it directly.
type SessionState struct {
	Phase     Phase
	Score     int
	Combo     int
	MaxCombo  int
	Bounds    Bounds
	Axis      Axis    // Moving axis of the active tile
	Secondary float64 // Fixed-axis coordinate of the active tile
	Motion    Oscillator
	Tower     Tower
	Last      Tile    // Most recently placed tile, the overlap reference
	TowerY    float64 // Eased tower offset consumed by the renderer
	DesiredY  float64 // Follow target, one level down per placed tile
	Ticks     int
}

// Over reports whether the session reached its terminal phase.
func (s SessionState) Over() bool {
	return s.Phase == GameOver
}

// Active returns the currently oscillating tile.
func (s SessionState) Active() Tile {
	return s.Tower.Active()
}

// Speed returns the current oscillation speed multiplier.
func (s SessionState) Speed() float64 {
	return s.Motion.Speed
}

// Clone returns a deep copy that shares no memory with s.
func (s SessionState) Clone() SessionState {
	s.Tower = s.Tower.clone()
	return s
}
