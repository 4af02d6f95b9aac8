package stack

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func newTestEngine(t *testing.T, rules Rules) *Engine {
	t.Helper()
	e, err := NewEngine(rules, DefaultPalette)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

// withDelta places the active tile so that Last minus active equals delta on
// the moving axis.
func withDelta(s SessionState, delta float64) SessionState {
	s = s.Clone()
	tile := s.Tower.Active()
	tile.Pos = tile.Pos.With(s.Axis, s.Last.Pos.On(s.Axis)-delta)
	s.Tower.setActive(tile)
	return s
}

func TestNewSession(t *testing.T) {
	e := newTestEngine(t, DefaultRules())
	s := e.NewSession()

	if s.Phase != Playing {
		t.Errorf("Phase = %v, expected playing", s.Phase)
	}
	if s.Bounds.Width != DefaultBoundsSize || s.Bounds.Depth != DefaultBoundsSize {
		t.Errorf("Bounds = %+v, expected %v on both axes", s.Bounds, DefaultBoundsSize)
	}
	if s.Axis != AxisX {
		t.Errorf("Axis = %v, expected x", s.Axis)
	}

	active := s.Active()
	if active.Level != 0 || active.State != TileActive {
		t.Errorf("Active() = level %d state %d, expected level 0 active", active.Level, active.State)
	}
	if s.Last.Level != -1 {
		t.Errorf("Last.Level = %d, expected -1", s.Last.Level)
	}

	tiles := s.Tower.Tiles()
	if len(tiles) != DefaultPoolSize {
		t.Fatalf("len(Tiles()) = %d, expected %d", len(tiles), DefaultPoolSize)
	}
	activeCount := 0
	for _, tile := range tiles {
		if tile.State == TileActive {
			activeCount++
		}
	}
	if activeCount != 1 {
		t.Errorf("active tiles = %d, expected 1", activeCount)
	}
	if tiles[0].Level != -(DefaultPoolSize - 1) {
		t.Errorf("oldest level = %d, expected %d", tiles[0].Level, -(DefaultPoolSize - 1))
	}
}

func TestPerfectStack(t *testing.T) {
	e := newTestEngine(t, DefaultRules())
	s := e.NewSession()

	debris := 0
	for i := 0; i < 10; i++ {
		var res Result
		s, res = e.Tap(withDelta(s, 0))
		if res.Placement.Outcome != OutcomePerfect {
			t.Fatalf("tap %d outcome = %v, expected perfect", i, res.Placement.Outcome)
		}
		debris += len(res.Debris)
	}

	if s.Score != 10 {
		t.Errorf("Score = %d, expected 10", s.Score)
	}
	if s.Combo != 10 {
		t.Errorf("Combo = %d, expected 10", s.Combo)
	}
	if s.Bounds.Width != DefaultBoundsSize || s.Bounds.Depth != DefaultBoundsSize {
		t.Errorf("Bounds = %+v, expected clamped at %v", s.Bounds, DefaultBoundsSize)
	}
	if debris != 0 {
		t.Errorf("debris = %d, expected 0", debris)
	}
}

func TestPartialMissThenRecovery(t *testing.T) {
	e := newTestEngine(t, DefaultRules())
	s := e.NewSession()

	s, res := e.Tap(withDelta(s, 1.0))
	if res.Placement.Outcome != OutcomeTrimmed {
		t.Fatalf("outcome = %v, expected trimmed", res.Placement.Outcome)
	}
	if res.Placement.Axis != AxisX {
		t.Errorf("axis = %v, expected x", res.Placement.Axis)
	}
	if !approx(s.Bounds.Width, 2.5) {
		t.Errorf("Bounds.Width = %v, expected 2.5", s.Bounds.Width)
	}
	if s.Combo != 0 {
		t.Errorf("Combo = %d, expected 0", s.Combo)
	}
	if len(res.Debris) != 1 {
		t.Fatalf("len(Debris) = %d, expected 1", len(res.Debris))
	}

	d := res.Debris[0]
	if !approx(d.Size.X, 1.0) || d.Size.Y != 1 || d.Size.Z != DefaultBoundsSize {
		t.Errorf("debris size = %+v, expected (1, 1, %v)", d.Size, DefaultBoundsSize)
	}
	// Active was at x = -1, overhanging toward -x: debris sits on its outer edge.
	if !approx(d.Pos.X, -2.75) || d.Side != -1 {
		t.Errorf("debris at x=%v side %v, expected x=-2.75 side -1", d.Pos.X, d.Side)
	}
	if d.Mass != DefaultRubbleMass {
		t.Errorf("debris mass = %v, expected %v", d.Mass, DefaultRubbleMass)
	}

	placed := res.Placement.Tile
	if !approx(placed.Pos.X, -0.5) || !approx(placed.Size.X, 2.5) {
		t.Errorf("placed tile x=%v width=%v, expected x=-0.5 width=2.5", placed.Pos.X, placed.Size.X)
	}
	if s.Axis != AxisZ {
		t.Errorf("Axis = %v, expected z", s.Axis)
	}
	if !approx(s.Active().Pos.X, -0.5) {
		t.Errorf("new tile x = %v, expected secondary -0.5", s.Active().Pos.X)
	}

	s, res = e.Tap(withDelta(s, 0))
	if res.Placement.Outcome != OutcomePerfect {
		t.Errorf("outcome = %v, expected perfect", res.Placement.Outcome)
	}
	if s.Score != 2 {
		t.Errorf("Score = %d, expected 2", s.Score)
	}
	if s.Combo != 1 {
		t.Errorf("Combo = %d, expected 1", s.Combo)
	}
}

func TestFatalMiss(t *testing.T) {
	e := newTestEngine(t, DefaultRules())
	s := e.NewSession()
	s.Bounds.Width = 0.3
	before := s.Active()

	s, res := e.Tap(withDelta(s, 0.4))

	if !res.GameOver || s.Phase != GameOver {
		t.Fatalf("Phase = %v, expected game over", s.Phase)
	}
	if res.Placement.Outcome != OutcomeMissed {
		t.Errorf("outcome = %v, expected missed", res.Placement.Outcome)
	}
	if !approx(s.Bounds.Width, -0.1) {
		t.Errorf("Bounds.Width = %v, expected -0.1", s.Bounds.Width)
	}
	if s.Score != 0 {
		t.Errorf("Score = %d, expected 0", s.Score)
	}
	if s.Active().Level != before.Level {
		t.Errorf("active level = %d, expected no spawn (level %d)", s.Active().Level, before.Level)
	}
	if s.Active().State != TileDropped {
		t.Errorf("active state = %d, expected dropped", s.Active().State)
	}
	if res.Dropped == nil {
		t.Fatal("Dropped = nil, expected the lost tile")
	}
	if res.Dropped.Mass != DefaultTileMass {
		t.Errorf("dropped mass = %v, expected %v", res.Dropped.Mass, DefaultTileMass)
	}
	if len(res.Debris) != 0 {
		t.Errorf("len(Debris) = %d, expected 0", len(res.Debris))
	}
}

func TestPerfectBoundaryInclusive(t *testing.T) {
	tests := []struct {
		name    string
		delta   float64
		outcome Outcome
	}{
		{"zero", 0, OutcomePerfect},
		{"exact margin", DefaultErrorMargin, OutcomePerfect},
		{"negative margin", -DefaultErrorMargin, OutcomePerfect},
		{"just past", DefaultErrorMargin + 1e-6, OutcomeTrimmed},
		{"large", 2, OutcomeTrimmed},
	}

	e := newTestEngine(t, DefaultRules())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, res := e.Tap(withDelta(e.NewSession(), tc.delta))
			if res.Placement.Outcome != tc.outcome {
				t.Errorf("Tap() outcome = %v, expected %v", res.Placement.Outcome, tc.outcome)
			}
		})
	}

	if !IsPerfect(0.1, 0.1) {
		t.Error("IsPerfect(0.1, 0.1) = false, expected true")
	}
}

func TestComboRegrowsBounds(t *testing.T) {
	e := newTestEngine(t, DefaultRules())
	s := e.NewSession()

	s, _ = e.Tap(withDelta(s, 1.0)) // x: 2.5
	s, _ = e.Tap(withDelta(s, 1.0)) // z: 2.5
	if !approx(s.Bounds.Width, 2.5) || !approx(s.Bounds.Depth, 2.5) {
		t.Fatalf("Bounds = %+v, expected 2.5 x 2.5", s.Bounds)
	}

	var res Result
	for i := 0; i < DefaultComboStartGain; i++ {
		s, res = e.Tap(withDelta(s, 0))
		if res.Placement.Bonus {
			t.Fatalf("tap %d granted a bonus before the threshold", i)
		}
	}
	width, depth := s.Bounds.Width, s.Bounds.Depth

	axis := s.Axis
	prevLast := s.Last
	s, res = e.Tap(withDelta(s, 0))
	if !res.Placement.Bonus {
		t.Fatal("Bonus = false, expected true past the threshold")
	}
	grown := Bounds{Width: width, Depth: depth}.With(axis, Bounds{Width: width, Depth: depth}.On(axis)+DefaultBoundsGain)
	if !approx(s.Bounds.Width, grown.Width) || !approx(s.Bounds.Depth, grown.Depth) {
		t.Errorf("Bounds = %+v, expected %+v", s.Bounds, grown)
	}
	if !approx(res.Placement.Tile.Size.On(axis), grown.On(axis)) {
		t.Errorf("tile size = %v, expected resized to %v", res.Placement.Tile.Size.On(axis), grown.On(axis))
	}
	if res.Placement.Tile.Pos.X != prevLast.Pos.X || res.Placement.Tile.Pos.Z != prevLast.Pos.Z {
		t.Errorf("bonus tile not snapped to the previous tile")
	}

	for i := 0; i < 20; i++ {
		s, _ = e.Tap(withDelta(s, 0))
	}
	if s.Bounds.Width != DefaultBoundsSize || s.Bounds.Depth != DefaultBoundsSize {
		t.Errorf("Bounds = %+v, expected capped at %v", s.Bounds, DefaultBoundsSize)
	}
}

func TestAfterGameOverIsNoop(t *testing.T) {
	e := newTestEngine(t, DefaultRules())
	s := e.NewSession()
	s, _ = e.Tap(withDelta(s, 4))
	if !s.Over() {
		t.Fatal("expected game over")
	}

	score, combo, bounds, ticks := s.Score, s.Combo, s.Bounds, s.Ticks
	for i := 0; i < 10; i++ {
		s = e.Tick(s, 1.0/60)
		var res Result
		s, res = e.Tap(s)
		if !res.Ignored {
			t.Errorf("Tap() after game over Ignored = false, expected true")
		}
	}
	if s.Score != score || s.Combo != combo || s.Bounds != bounds || s.Ticks != ticks {
		t.Errorf("state changed after game over: score %d combo %d bounds %+v ticks %d", s.Score, s.Combo, s.Bounds, s.Ticks)
	}
}

func TestTickMovesActiveTile(t *testing.T) {
	e := newTestEngine(t, DefaultRules())
	s := e.NewSession()
	s.Secondary = 0.75

	next := e.Tick(s, 0.5)
	active := next.Active()

	expected := lerp(DefaultAmplitude, -DefaultAmplitude, 0.5*DefaultSpeed)
	if !approx(active.Pos.X, expected) {
		t.Errorf("active x = %v, expected %v", active.Pos.X, expected)
	}
	if active.Pos.Z != 0.75 {
		t.Errorf("active z = %v, expected secondary 0.75", active.Pos.Z)
	}
	if next.Ticks != 1 {
		t.Errorf("Ticks = %d, expected 1", next.Ticks)
	}
	if s.Active().Pos.X != 0 || s.Ticks != 0 {
		t.Error("Tick() mutated its input state")
	}
}

func TestTowerFollow(t *testing.T) {
	e := newTestEngine(t, DefaultRules())
	s := e.NewSession()
	for i := 0; i < 3; i++ {
		s, _ = e.Tap(withDelta(s, 0))
	}
	if s.DesiredY != -2 {
		t.Fatalf("DesiredY = %v, expected -2", s.DesiredY)
	}

	prev := s.TowerY
	for i := 0; i < 120; i++ {
		s = e.Tick(s, 1.0/60)
		if s.TowerY > prev {
			t.Fatalf("TowerY moved away from target: %v -> %v", prev, s.TowerY)
		}
		prev = s.TowerY
	}
	if math.Abs(s.TowerY-s.DesiredY) > 0.01 {
		t.Errorf("TowerY = %v, expected close to %v", s.TowerY, s.DesiredY)
	}

	// A huge dt clamps the easing factor to 1 and lands on target.
	s, _ = e.Tap(withDelta(s, 0))
	s = e.Tick(s, 10)
	if !approx(s.TowerY, s.DesiredY) {
		t.Errorf("TowerY = %v, expected %v", s.TowerY, s.DesiredY)
	}
}

func TestRingBufferWrap(t *testing.T) {
	rules := DefaultRules()
	rules.PoolSize = 4
	e := newTestEngine(t, rules)
	s := e.NewSession()

	for i := 0; i < 10; i++ {
		s, _ = e.Tap(withDelta(s, 0))
	}

	tiles := s.Tower.Tiles()
	if len(tiles) != 4 {
		t.Fatalf("len(Tiles()) = %d, expected 4", len(tiles))
	}
	for i, tile := range tiles {
		if tile.Level != 7+i {
			t.Errorf("tiles[%d].Level = %d, expected %d", i, tile.Level, 7+i)
		}
	}
	if s.Active().Level != 10 || s.Last.Level != 9 {
		t.Errorf("active/last levels = %d/%d, expected 10/9", s.Active().Level, s.Last.Level)
	}
}

func TestSpeedRamp(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Rules)
		taps     int
		expected float64
	}{
		{"before first step", nil, 4, DefaultSpeed},
		{"first step", nil, 5, DefaultSpeed + DefaultSpeedStep},
		{"second step", nil, 10, DefaultSpeed + 2*DefaultSpeedStep},
		{"ceiling", func(r *Rules) { r.SpeedMax = 0.65 }, 10, 0.65},
		{"disabled", func(r *Rules) { r.SpeedEvery = 0 }, 10, DefaultSpeed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rules := DefaultRules()
			if tc.mutate != nil {
				tc.mutate(&rules)
			}
			e := newTestEngine(t, rules)
			s := e.NewSession()
			for i := 0; i < tc.taps; i++ {
				s, _ = e.Tap(withDelta(s, 0))
			}
			if !approx(s.Speed(), tc.expected) {
				t.Errorf("Speed() = %v, expected %v", s.Speed(), tc.expected)
			}
		})
	}
}

func TestInvariantsUnderPlay(t *testing.T) {
	for _, every := range []int{17, 29, 43, 61, 97} {
		e := newTestEngine(t, DefaultRules())
		s := e.NewSession()
		score := 0
		for tick := 1; tick <= 5000 && !s.Over(); tick++ {
			if !s.Bounds.Alive() {
				t.Fatalf("every=%d tick=%d: bounds %+v while playing", every, tick, s.Bounds)
			}
			s = e.Tick(s, 1.0/60)
			if tick%every == 0 {
				var res Result
				s, res = e.Tap(s)
				if res.Placement.Outcome != OutcomePerfect && s.Combo != 0 {
					t.Fatalf("combo = %d after %v placement", s.Combo, res.Placement.Outcome)
				}
				if !s.Over() && s.Score != score+1 {
					t.Fatalf("score = %d, expected %d", s.Score, score+1)
				}
			}
			if s.Combo < 0 {
				t.Fatalf("combo = %d", s.Combo)
			}
			if s.Score < score {
				t.Fatalf("score decreased: %d -> %d", score, s.Score)
			}
			score = s.Score
			if !s.Bounds.Alive() && !s.Over() {
				t.Fatalf("bounds %+v exhausted without game over", s.Bounds)
			}
		}
	}
}

func TestSineMode(t *testing.T) {
	e := newTestEngine(t, ClassicRules())
	s := e.NewSession()

	quarter := (math.Pi / 2) / ClassicRules().Speed
	s = e.Tick(s, quarter)
	if !approx(s.Active().Pos.X, DefaultBoundsSize) {
		t.Errorf("active x = %v, expected amplitude %v", s.Active().Pos.X, DefaultBoundsSize)
	}

	for i := 0; i < 12; i++ {
		s, _ = e.Tap(withDelta(s, 0))
	}
	if s.Speed() != ClassicRules().Speed {
		t.Errorf("Speed() = %v, expected constant %v", s.Speed(), ClassicRules().Speed)
	}
}

func TestNewEngineValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Rules)
		palette Palette
	}{
		{"zero pool", func(r *Rules) { r.PoolSize = 0 }, DefaultPalette},
		{"single slot pool", func(r *Rules) { r.PoolSize = 1 }, DefaultPalette},
		{"zero bounds", func(r *Rules) { r.BoundsSize = 0 }, DefaultPalette},
		{"negative margin", func(r *Rules) { r.ErrorMargin = -0.1 }, DefaultPalette},
		{"zero speed", func(r *Rules) { r.Speed = 0 }, DefaultPalette},
		{"max below speed", func(r *Rules) { r.SpeedMax = 0.1 }, DefaultPalette},
		{"zero amplitude", func(r *Rules) { r.Amplitude = 0 }, DefaultPalette},
		{"zero mass", func(r *Rules) { r.RubbleMass = 0 }, DefaultPalette},
		{"unknown mode", func(r *Rules) { r.Mode = MotionMode(7) }, DefaultPalette},
		{"empty palette", nil, Palette{}},
		{"single color", nil, DefaultPalette[:1]},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rules := DefaultRules()
			if tc.mutate != nil {
				tc.mutate(&rules)
			}
			_, err := NewEngine(rules, tc.palette)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("NewEngine() error = %v, expected ErrInvalidConfig", err)
			}
		})
	}

	if _, err := NewEngine(ClassicRules(), DefaultPalette); err != nil {
		t.Errorf("NewEngine(ClassicRules()) error = %v", err)
	}
}

func TestParseMotionMode(t *testing.T) {
	tests := []struct {
		in       string
		expected MotionMode
		wantErr  bool
	}{
		{"", MotionPingPong, false},
		{"pingpong", MotionPingPong, false},
		{"Ping-Pong", MotionPingPong, false},
		{"sine", MotionSine, false},
		{"bounce", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseMotionMode(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("ParseMotionMode(%q) error = %v, expected ErrInvalidConfig", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.expected {
			t.Errorf("ParseMotionMode(%q) = %v, %v, expected %v", tc.in, got, err, tc.expected)
		}
	}
}
