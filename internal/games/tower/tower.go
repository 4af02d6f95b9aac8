// Package tower adapts the stack core to the platform Game contract. It
// owns the debris world, turns core notifications into platform events,
// renders the tower and records runs for the journal.
package tower

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-stack/internal/config"
	"github.com/vovakirdan/tui-stack/internal/core"
	"github.com/vovakirdan/tui-stack/internal/physics"
	"github.com/vovakirdan/tui-stack/internal/registry"
	"github.com/vovakirdan/tui-stack/internal/stack"
)

// Game mode identifiers.
const (
	IDStack   = "stack"
	IDClassic = "stack_classic"
)

// ErrReplayMismatch is returned when a replayed run does not reproduce the
// journaled result.
var ErrReplayMismatch = errors.New("tower: replay does not match recording")

// Mode selects the oscillator variant.
type Mode int

const (
	ModePingPong Mode = iota
	ModeClassic
)

// flashTicks is how long the placement banner stays on screen.
const flashTicks = 45

// configPath stores the custom config path set via CLI
var configPath string
var difficultyPreset config.DifficultyPreset
var logger = log.New(io.Discard)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. An empty name keeps the
// config file's own difficulty; unknown names are ignored.
func SetDifficultyPreset(preset string) {
	if preset == "" {
		difficultyPreset = ""
		return
	}
	p, err := config.ParsePreset(preset)
	if err != nil {
		return
	}
	difficultyPreset = p
}

// SetLogger sets the logger handed to every new session.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// script feeds journaled taps instead of live input.
type script struct {
	taps  []int
	ticks int
	next  int
}

// Game implements registry.Game for both stack modes.
type Game struct {
	mode    Mode
	runtime core.RuntimeConfig
	cfg     config.StackConfig
	cfgYAML []byte

	session *stack.Game
	world   *physics.World
	paused  bool
	script  *script

	events []core.Event
	flash  string
	flashT int
}

// New creates a stack game in the given mode.
func New(mode Mode) *Game {
	return &Game{mode: mode}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.mode == ModeClassic {
		return IDClassic
	}
	return IDStack
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModeClassic {
		return "Stack Classic"
	}
	return "Stack"
}

// Reset starts a fresh session with the loaded configuration.
func (g *Game) Reset(rc core.RuntimeConfig) {
	cfg, err := config.LoadStack(configPath)
	if err != nil {
		logger.Warn("config load failed, using defaults", "err", err)
		cfg = config.DefaultStackConfig()
	}

	// Apply difficulty preset if set
	if difficultyPreset != "" {
		config.ApplyStackPreset(&cfg, difficultyPreset)
	}

	if err := g.setup(rc, cfg); err != nil {
		logger.Warn("invalid config, using defaults", "err", err)
		if err := g.setup(rc, config.DefaultStackConfig()); err != nil {
			panic(err) // Hardcoded defaults always validate
		}
	}
}

// setup builds the engine, physics world and session for cfg.
func (g *Game) setup(rc core.RuntimeConfig, cfg config.StackConfig) error {
	rules, err := RulesFor(cfg, g.mode)
	if err != nil {
		return err
	}
	palette, err := PaletteFor(cfg, rc.Seed)
	if err != nil {
		return err
	}
	engine, err := stack.NewEngine(rules, palette)
	if err != nil {
		return err
	}
	snapshot, err := config.MarshalStack(cfg)
	if err != nil {
		return err
	}

	g.runtime = rc
	g.cfg = cfg
	g.cfgYAML = snapshot
	g.world = physics.NewWorld(PhysicsFor(cfg))
	g.session = stack.NewGameWithEngine(engine,
		stack.WithPhysics(g.world),
		stack.WithListener(listener{g}),
		stack.WithLogger(logger.With("game", g.ID(), "seed", rc.Seed)),
	)
	g.paused = false
	g.script = nil
	g.events = g.events[:0]
	g.flash = ""
	g.flashT = 0
	return nil
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.events = g.events[:0]
	dt := g.runtime.TickDuration()

	if g.flashT > 0 {
		g.flashT--
	}

	if g.session.Over() {
		g.world.Step(dt) // Debris keeps falling behind the game over box
		return g.result()
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}

	if g.paused {
		return g.result()
	}

	if g.script != nil {
		if g.session.Ticks() >= g.script.ticks {
			g.feedScript()
			return g.result()
		}
		g.feedScript()
	} else if in.Has(core.ActionTap) {
		g.session.OnTap()
	}

	g.session.Tick(dt)
	g.world.Step(dt)
	return g.result()
}

func (g *Game) result() core.StepResult {
	var events []core.Event
	if len(g.events) > 0 {
		events = make([]core.Event, len(g.events))
		copy(events, g.events)
	}
	return core.StepResult{State: g.State(), Events: events}
}

// feedScript fires every journaled tap due at the current tick.
func (g *Game) feedScript() {
	s := g.script
	for s.next < len(s.taps) && s.taps[s.next] <= g.session.Ticks() && !g.session.Over() {
		g.session.OnTap()
		s.next++
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{}
	}
	s := g.session.State()
	return core.GameState{
		Score:    s.Score,
		Combo:    s.Combo,
		GameOver: s.Over(),
		Paused:   g.paused,
	}
}

// Session returns the underlying stack session state.
func (g *Game) Session() stack.SessionState {
	return g.session.State()
}

// Debris returns the falling pieces.
func (g *Game) Debris() []physics.Piece {
	return g.world.Pieces()
}

// Recording returns the journal of the current run.
func (g *Game) Recording() core.Recording {
	j := g.session.Journal()
	s := g.session.State()
	return core.Recording{
		GameID:   g.ID(),
		Seed:     g.runtime.Seed,
		TickRate: g.runtime.TickRate,
		Ticks:    j.Ticks,
		Taps:     j.Taps,
		Config:   g.cfgYAML,
		Score:    s.Score,
		MaxCombo: s.MaxCombo,
	}
}

// LoadScript resets the game from a recording and plays its taps back as
// the simulation reaches them. Live taps are ignored while a script runs.
func (g *Game) LoadScript(rec core.Recording, screenW, screenH int) error {
	if rec.GameID != g.ID() {
		return fmt.Errorf("tower: recording is for %q, not %q", rec.GameID, g.ID())
	}
	cfg, err := config.ParseStack(rec.Config)
	if err != nil {
		return fmt.Errorf("tower: recording config: %w", err)
	}
	rc := core.RuntimeConfig{
		ScreenW:  screenW,
		ScreenH:  screenH,
		TickRate: rec.TickRate,
		Seed:     rec.Seed,
	}
	if err := g.setup(rc, cfg); err != nil {
		return fmt.Errorf("tower: recording config: %w", err)
	}
	taps := make([]int, len(rec.Taps))
	copy(taps, rec.Taps)
	g.script = &script{taps: taps, ticks: rec.Ticks}
	return nil
}

// ScriptDone reports whether a loaded script has nothing left to play.
func (g *Game) ScriptDone() bool {
	if g.script == nil {
		return false
	}
	return g.session.Over() || (g.script.next >= len(g.script.taps) && g.session.Ticks() >= g.script.ticks)
}

// Replay rebuilds a recorded run at full speed and checks that it ends with
// the recorded score and combo.
func (g *Game) Replay(rec core.Recording) error {
	if err := g.LoadScript(rec, core.DefaultConfig().ScreenW, core.DefaultConfig().ScreenH); err != nil {
		return err
	}
	empty := core.NewInputFrame()
	for !g.ScriptDone() {
		g.Step(empty)
	}

	s := g.session.State()
	if s.Score != rec.Score || s.MaxCombo != rec.MaxCombo {
		return fmt.Errorf("%w: score %d combo %d, recorded %d combo %d",
			ErrReplayMismatch, s.Score, s.MaxCombo, rec.Score, rec.MaxCombo)
	}
	return nil
}

// listener turns core notifications into platform events.
type listener struct{ g *Game }

func (l listener) Placed(p stack.Placement) {
	kind := core.EventTrimmed
	switch p.Outcome {
	case stack.OutcomePerfect:
		kind = core.EventPerfect
	case stack.OutcomeMissed:
		return
	}
	s := l.g.session
	combo := 0
	if s != nil {
		combo = s.State().Combo
	}
	l.g.events = append(l.g.events, core.Event{Kind: kind, Combo: combo, Value: p.Delta})

	if kind == core.EventPerfect {
		l.g.flash = "PERFECT"
		if combo > 1 {
			l.g.flash = fmt.Sprintf("PERFECT x%d", combo)
		}
		l.g.flashT = flashTicks
	}
}

func (l listener) ScoreChanged(text string) {
	s := l.g.session.State()
	l.g.events = append(l.g.events, core.Event{Kind: core.EventScore, Score: s.Score, Combo: s.Combo, Text: text})
}

func (l listener) GameOver(score int) {
	l.g.events = append(l.g.events, core.Event{Kind: core.EventGameOver, Score: score})
	l.g.flash = ""
	l.g.flashT = 0
}

// Register both modes with the registry
func init() {
	registry.Register(IDStack, func() registry.Game {
		return New(ModePingPong)
	})
	registry.Register(IDClassic, func() registry.Game {
		return New(ModeClassic)
	})
}

var (
	_ registry.Recorder = (*Game)(nil)
	_ registry.Replayer = (*Game)(nil)
)
