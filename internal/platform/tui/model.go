package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/trace"

	"github.com/vovakirdan/tui-stack/internal/config"
	"github.com/vovakirdan/tui-stack/internal/core"
	"github.com/vovakirdan/tui-stack/internal/registry"
	"github.com/vovakirdan/tui-stack/internal/storage"
	"github.com/vovakirdan/tui-stack/internal/telemetry"
)

// Scripted is implemented by games that can play a recorded run back
// tick by tick.
type Scripted interface {
	LoadScript(rec core.Recording, screenW, screenH int) error
	ScriptDone() bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger for run lifecycle messages.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithTracer sets the tracer used for run spans.
func WithTracer(t trace.Tracer) Option {
	return func(m *Model) {
		if t != nil {
			m.tracer = t
		}
	}
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keys       *KeyMapper
	logger     *log.Logger
	tracer     trace.Tracer
	run        *telemetry.RunSpan
	replay     *core.Recording
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	backToMenu bool
	runDone    bool   // Run has been finished (span ended, journal written)
	runID      string // Journal ID of the last saved run
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...Option) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		keys:       NewKeyMapper(),
		logger:     log.New(io.Discard),
		tracer:     telemetry.NoopTracer(),
		inputFrame: core.NewInputFrame(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// newReplayModel creates a model that plays rec back instead of reading
// taps from the keyboard. The game must already have loaded the script.
func newReplayModel(game registry.Game, rec core.Recording, cfg core.RuntimeConfig, opts ...Option) Model {
	cfg.Seed = rec.Seed
	cfg.TickRate = rec.TickRate
	m := NewModel(game, nil, cfg, opts...)
	m.replay = &rec
	return m
}

// Init starts the game and the tick loop.
func (m Model) Init() tea.Cmd {
	if m.replay == nil {
		m.game.Reset(m.config)
	}
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.keys.MapMouse(msg) == core.ActionTap {
			m.inputFrame.Set(core.ActionTap)
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.finishRun(false)
		m.quitting = true
		return m, tea.Quit
	}

	// Back to menu only when nothing is in flight
	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused || m.replay != nil) {
		m.finishRun(false)
		m.backToMenu = true
		return m, tea.Quit
	}

	return m, nil
}

// handleResize processes window resize events. The renderer lays out from
// the screen size each frame, so the run continues untouched.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.restart()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	if m.run == nil && m.replay == nil && !m.gameState.GameOver {
		m.run = telemetry.StartRun(context.Background(), m.tracer, m.game.ID(), m.config.Seed)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	for _, ev := range result.Events {
		switch ev.Kind {
		case core.EventPerfect, core.EventTrimmed:
			m.run.Placed(ev.Kind.String(), m.gameState.Score, ev.Combo, ev.Value)
		}
	}

	if m.gameState.GameOver && !m.runDone {
		m.finishRun(true)
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// restart starts a new session. Live runs get a fresh seed; a replay
// loads its script again.
func (m *Model) restart() {
	m.finishRun(false)
	if m.replay != nil {
		if s, ok := m.game.(Scripted); ok {
			if err := s.LoadScript(*m.replay, m.config.ScreenW, m.config.ScreenH); err != nil {
				m.logger.Error("replay reload failed", "err", err)
			}
		}
	} else {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
	}
	m.gameState = m.game.State()
	m.run = nil
	m.runDone = false
	m.runID = ""
}

// finishRun ends the run span and, when the run ended on its own, writes
// it to the journal. It runs at most once per session.
func (m *Model) finishRun(completed bool) {
	if m.runDone || m.replay != nil {
		return
	}
	m.runDone = true

	score := m.gameState.Score
	maxCombo := m.gameState.Combo
	ticks := 0
	rec, recordable := m.game.(registry.Recorder)
	var r core.Recording
	if recordable {
		r = rec.Recording()
		maxCombo = r.MaxCombo
		ticks = r.Ticks
	}

	var saveErr error
	if completed && recordable && m.store != nil && score > 0 {
		m.runID, saveErr = m.store.SaveRun(r)
		if saveErr != nil {
			m.logger.Error("could not save run", "game", m.game.ID(), "err", saveErr)
		} else {
			m.logger.Info("run saved", "id", m.runID, "game", m.game.ID(), "score", score)
		}
	}
	if m.run != nil {
		m.run.End(score, maxCombo, ticks, saveErr)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(config.UserDir(), "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot directory", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot not saved", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// RunID returns the journal ID of the run saved in this session, if any.
func (m Model) RunID() string {
	return m.runID
}

// Run starts the Bubble Tea program for a live game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...Option) error {
	model := NewModel(game, store, cfg, opts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Left click taps
	)

	_, err := p.Run()
	return err
}

// RunReplay plays a recorded run back in the terminal.
func RunReplay(game registry.Game, rec core.Recording, cfg core.RuntimeConfig, opts ...Option) error {
	s, ok := game.(Scripted)
	if !ok {
		return fmt.Errorf("tui: game %q cannot replay runs", game.ID())
	}
	if err := s.LoadScript(rec, cfg.ScreenW, cfg.ScreenH); err != nil {
		return err
	}

	p := tea.NewProgram(
		newReplayModel(game, rec, cfg, opts...),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
