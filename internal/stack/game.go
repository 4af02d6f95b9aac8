package stack

import (
	"io"
	"strconv"

	"github.com/charmbracelet/log"
)

// PhysicsSink receives bodies whose simulation the core gives up. Ownership
// passes on the call; the core never touches a body again.
type PhysicsSink interface {
	SpawnDebris(b Body)
	DropTile(b Body)
}

// Listener is the UI collaborator.
type Listener interface {
	Placed(p Placement)
	ScoreChanged(text string)
	GameOver(score int)
}

type nopPhysics struct{}

func (nopPhysics) SpawnDebris(Body) {}
func (nopPhysics) DropTile(Body)    {}

type nopListener struct{}

func (nopListener) Placed(Placement)    {}
func (nopListener) ScoreChanged(string) {}
func (nopListener) GameOver(int)        {}

// Option configures a Game.
type Option func(*Game)

// WithPhysics routes debris and the dropped tile to sink.
func WithPhysics(sink PhysicsSink) Option {
	return func(g *Game) {
		if sink != nil {
			g.physics = sink
		}
	}
}

// WithListener routes score and game over notifications to l.
func WithListener(l Listener) Option {
	return func(g *Game) {
		if l != nil {
			g.listener = l
		}
	}
}

// WithLogger sets the logger used for placement and game over records.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// Game is one stack session bound to its collaborators. It exposes the two
// host entry points, Tick and OnTap, which must be called from a single
// goroutine.
type Game struct {
	engine   *Engine
	state    SessionState
	physics  PhysicsSink
	listener Listener
	logger   *log.Logger
	journal  Journal
}

// NewGame validates the configuration and starts a session.
func NewGame(rules Rules, palette Palette, opts ...Option) (*Game, error) {
	e, err := NewEngine(rules, palette)
	if err != nil {
		return nil, err
	}
	return NewGameWithEngine(e, opts...), nil
}

// NewGameWithEngine starts a session on an existing engine.
func NewGameWithEngine(e *Engine, opts ...Option) *Game {
	g := &Game{
		engine:   e,
		state:    e.NewSession(),
		physics:  nopPhysics{},
		listener: nopListener{},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Tick advances the session by dt seconds.
func (g *Game) Tick(dt float64) {
	if g.state.Over() {
		return
	}
	g.state = g.engine.Tick(g.state, dt)
	g.journal.Ticks = g.state.Ticks
}

// OnTap drops the active tile and dispatches the outcome.
func (g *Game) OnTap() {
	if g.state.Over() {
		return
	}
	g.journal.Taps = append(g.journal.Taps, g.state.Ticks)

	next, res := g.engine.Tap(g.state)
	g.state = next

	for _, d := range res.Debris {
		g.physics.SpawnDebris(d)
	}
	g.listener.Placed(res.Placement)

	p := res.Placement
	if res.GameOver {
		if res.Dropped != nil {
			g.physics.DropTile(*res.Dropped)
		}
		g.logger.Info("tower lost", "score", next.Score, "max_combo", next.MaxCombo, "delta", p.Delta, "ticks", next.Ticks)
		g.listener.GameOver(next.Score)
		return
	}

	g.logger.Debug("tile placed",
		"outcome", p.Outcome,
		"axis", p.Axis,
		"delta", p.Delta,
		"score", next.Score,
		"combo", next.Combo,
		"bounds", next.Bounds)
	g.listener.ScoreChanged(strconv.Itoa(next.Score))
}

// State returns a copy of the current session state.
func (g *Game) State() SessionState {
	return g.state.Clone()
}

// Over reports whether the tower was lost.
func (g *Game) Over() bool {
	return g.state.Over()
}

// Ticks returns the number of ticks processed so far.
func (g *Game) Ticks() int {
	return g.state.Ticks
}

// Engine returns the engine driving this session.
func (g *Game) Engine() *Engine {
	return g.engine
}

// Journal returns a copy of the recorded tap timeline.
func (g *Game) Journal() Journal {
	return g.journal.Clone()
}
