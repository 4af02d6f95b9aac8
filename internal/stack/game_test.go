package stack

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

type recordingSink struct {
	debris  []Body
	dropped []Body
}

func (r *recordingSink) SpawnDebris(b Body) { r.debris = append(r.debris, b) }
func (r *recordingSink) DropTile(b Body)    { r.dropped = append(r.dropped, b) }

type recordingListener struct {
	placed []Placement
	scores []string
	over   []int
}

func (r *recordingListener) Placed(p Placement)       { r.placed = append(r.placed, p) }
func (r *recordingListener) ScoreChanged(text string) { r.scores = append(r.scores, text) }
func (r *recordingListener) GameOver(score int)       { r.over = append(r.over, score) }

func TestGameDispatch(t *testing.T) {
	sink := &recordingSink{}
	listener := &recordingListener{}
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	g, err := NewGame(DefaultRules(), DefaultPalette,
		WithPhysics(sink), WithListener(listener), WithLogger(logger))
	if err != nil {
		t.Fatalf("NewGame() error = %v", err)
	}

	dt := 1.0 / 60

	// The first tile starts at +5 and needs 40 ticks to reach x = 1.
	for i := 0; i < 40; i++ {
		g.Tick(dt)
	}
	g.OnTap()
	if len(sink.debris) != 1 {
		t.Errorf("debris = %d, expected 1", len(sink.debris))
	}
	if len(listener.scores) != 1 || listener.scores[0] != "1" {
		t.Errorf("scores = %v, expected [1]", listener.scores)
	}

	// Let the next tile travel past the footprint, then drop it.
	for i := 0; i < 1000; i++ {
		g.Tick(dt)
		s := g.State()
		if math.Abs(s.Active().Pos.On(s.Axis)-s.Last.Pos.On(s.Axis)) > s.Bounds.On(s.Axis) {
			break
		}
	}
	g.OnTap()
	if !g.Over() {
		t.Fatal("Over() = false, expected true")
	}
	if len(sink.dropped) != 1 {
		t.Errorf("dropped = %d, expected 1", len(sink.dropped))
	}
	if len(listener.over) != 1 {
		t.Fatalf("game over notifications = %d, expected 1", len(listener.over))
	}
	if listener.over[0] != g.State().Score {
		t.Errorf("GameOver(%d), expected score %d", listener.over[0], g.State().Score)
	}
	if len(listener.placed) != len(g.Journal().Taps) {
		t.Errorf("placed = %d, taps = %d, expected equal", len(listener.placed), len(g.Journal().Taps))
	}

	// Post-terminal input is ignored.
	taps := len(g.Journal().Taps)
	g.OnTap()
	g.Tick(dt)
	if len(g.Journal().Taps) != taps || len(listener.over) != 1 {
		t.Error("input after game over was recorded")
	}

	out := buf.String()
	if !strings.Contains(out, "tile placed") || !strings.Contains(out, "tower lost") {
		t.Errorf("log output missing records: %q", out)
	}
}

func TestGameStateIsCopy(t *testing.T) {
	g, err := NewGame(DefaultRules(), DefaultPalette)
	if err != nil {
		t.Fatalf("NewGame() error = %v", err)
	}
	s := g.State()
	s.Tower.setActive(Tile{Level: 99})
	if g.State().Active().Level == 99 {
		t.Error("State() shares the tower with the game")
	}
}

func TestReplayDeterminism(t *testing.T) {
	rules := DefaultRules()
	dt := 1.0 / 60

	g, err := NewGame(rules, DefaultPalette)
	if err != nil {
		t.Fatalf("NewGame() error = %v", err)
	}

	taps := map[int]bool{40: true, 95: true, 96: true, 170: true, 233: true, 300: true, 371: true}
	for frame := 0; frame < 2000 && !g.Over(); frame++ {
		if taps[frame] || (frame > 400 && frame%37 == 0) {
			g.OnTap()
		}
		g.Tick(dt)
	}

	live := g.State()
	replayed := g.Engine().Replay(g.Journal(), dt)

	if replayed.Score != live.Score {
		t.Errorf("Score = %d, expected %d", replayed.Score, live.Score)
	}
	if replayed.Phase != live.Phase {
		t.Errorf("Phase = %v, expected %v", replayed.Phase, live.Phase)
	}
	if replayed.Bounds != live.Bounds {
		t.Errorf("Bounds = %+v, expected %+v", replayed.Bounds, live.Bounds)
	}
	if replayed.MaxCombo != live.MaxCombo {
		t.Errorf("MaxCombo = %d, expected %d", replayed.MaxCombo, live.MaxCombo)
	}
	if replayed.Ticks != live.Ticks {
		t.Errorf("Ticks = %d, expected %d", replayed.Ticks, live.Ticks)
	}
	if replayed.Active().Pos != live.Active().Pos {
		t.Errorf("active pos = %+v, expected %+v", replayed.Active().Pos, live.Active().Pos)
	}
}
