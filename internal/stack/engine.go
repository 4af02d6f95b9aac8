package stack

// Result is everything a tap produced, for the host to dispatch.
type Result struct {
	Placement Placement
	Debris    []Body // Trimmed slices, ownership passes to physics
	Dropped   *Body  // The lost tile on game over
	Score     int    // Score after the tap
	GameOver  bool
	Ignored   bool // Tap arrived after game over
}

// Engine is the pure session controller. It holds only immutable rules and
// can be shared by any number of sessions.
type Engine struct {
	rules   Rules
	palette Palette
}

// NewEngine validates the rules and palette. Degenerate settings are
// rejected here so Tick and Tap never see them.
func NewEngine(rules Rules, palette Palette) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if err := palette.Validate(); err != nil {
		return nil, err
	}
	p := make(Palette, len(palette))
	copy(p, palette)
	return &Engine{rules: rules, palette: p}, nil
}

// Rules returns the engine tuning.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Palette returns a copy of the engine palette.
func (e *Engine) Palette() Palette {
	p := make(Palette, len(e.palette))
	copy(p, e.palette)
	return p
}

// NewSession returns the initial state: full footprint, a pedestal filling
// the pool and one active tile at level 0 moving along X.
func (e *Engine) NewSession() SessionState {
	bounds := Bounds{Width: e.rules.BoundsSize, Depth: e.rules.BoundsSize}
	tower := newTower(e.rules.PoolSize, bounds, Gradient(e.palette, 0))
	return SessionState{
		Phase:  Playing,
		Bounds: bounds,
		Axis:   AxisX,
		Motion: NewOscillator(e.rules.Mode, e.rules.Amplitude, e.rules.Speed),
		Tower:  tower,
		Last:   tower.Below(),
	}
}

// Tick advances the oscillation and the tower follow by dt seconds.
// It is a no-op once the session is over.
func (e *Engine) Tick(s SessionState, dt float64) SessionState {
	if s.Over() {
		return s
	}
	if dt < 0 {
		dt = 0
	}

	s = s.Clone()
	pos := s.Motion.Advance(dt)

	tile := s.Tower.Active()
	tile.Pos = tile.Pos.With(s.Axis, pos).With(s.Axis.Other(), s.Secondary)
	tile.Pos.Y = float64(s.Score)
	s.Tower.setActive(tile)

	t := min(max(e.rules.FollowSpeed*dt, 0), 1)
	s.TowerY = lerp(s.TowerY, s.DesiredY, t)
	s.Ticks++
	return s
}

// Tap drops the active tile. On success the score increases by one and a
// new active tile is spawned; on failure the session ends and no tile is
// spawned. Taps after game over are ignored.
func (e *Engine) Tap(s SessionState) (SessionState, Result) {
	if s.Over() {
		return s, Result{Score: s.Score, GameOver: true, Ignored: true}
	}

	s = s.Clone()
	p := e.resolve(&s)
	res := Result{Placement: p}

	if p.Outcome == OutcomeMissed {
		s.Phase = GameOver
		tile := p.Tile
		tile.State = TileDropped
		s.Tower.setActive(tile)
		res.Dropped = &Body{
			Pos:   tile.Pos,
			Size:  tile.Size,
			Mass:  e.rules.TileMass,
			Color: tile.Color,
			Axis:  p.Axis,
			Side:  sign(-p.Delta),
		}
		res.Score = s.Score
		res.GameOver = true
		return s, res
	}

	if p.Debris != nil {
		res.Debris = append(res.Debris, *p.Debris)
	}

	s.Score++
	e.spawn(&s)
	s.Motion.Speed = e.rules.rampSpeed(s.Motion.Speed, s.Score)
	res.Score = s.Score
	return s, res
}

// spawn promotes the just-placed tile to the overlap reference and puts a
// fresh active tile on the next ring slot.
func (e *Engine) spawn(s *SessionState) {
	placed := s.Tower.Active()
	s.Last = placed
	s.DesiredY = -float64(placed.Level)

	pos := Vec3{Y: float64(s.Score)}.With(s.Axis.Other(), s.Secondary)
	s.Tower.advance(Tile{
		Pos:   pos,
		Size:  s.Bounds.Size(),
		Level: s.Score,
		Axis:  s.Axis,
		Color: Gradient(e.palette, s.Score),
		State: TileActive,
	})
}
