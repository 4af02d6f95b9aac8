package stack

// Journal is the tap timeline of a session: the tick index at which each
// accepted tap arrived and the number of ticks processed. Together with the
// rules, palette and a fixed dt it replays the session exactly.
type Journal struct {
	Ticks int
	Taps  []int
}

// Clone returns a copy that shares no memory with j.
func (j Journal) Clone() Journal {
	taps := make([]int, len(j.Taps))
	copy(taps, j.Taps)
	return Journal{Ticks: j.Ticks, Taps: taps}
}

// Replay rebuilds the session recorded in j by feeding every tap before
// the tick it was recorded at. Taps past game over are dropped.
func (e *Engine) Replay(j Journal, dt float64) SessionState {
	s := e.NewSession()
	next := 0
	for {
		for next < len(j.Taps) && j.Taps[next] <= s.Ticks {
			s, _ = e.Tap(s)
			next++
		}
		if s.Over() || s.Ticks >= j.Ticks {
			return s
		}
		s = e.Tick(s, dt)
	}
}
