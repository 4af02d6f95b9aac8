package core

// Recording is a deterministic description of a finished run: everything
// needed to simulate it again tick for tick.
type Recording struct {
	GameID   string
	Seed     int64
	TickRate int
	Ticks    int    // Simulation ticks advanced during the run
	Taps     []int  // Tick index of every accepted tap, ascending
	Config   []byte // YAML snapshot of the game configuration
	Score    int
	MaxCombo int
}

// Duration returns the simulated run length in seconds.
func (r Recording) Duration() float64 {
	if r.TickRate <= 0 {
		return 0
	}
	return float64(r.Ticks) / float64(r.TickRate)
}
