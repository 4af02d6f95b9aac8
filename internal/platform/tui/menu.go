package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-stack/internal/config"
	"github.com/vovakirdan/tui-stack/internal/core"
	"github.com/vovakirdan/tui-stack/internal/registry"
	"github.com/vovakirdan/tui-stack/internal/stack"
	"github.com/vovakirdan/tui-stack/internal/storage"
)

// Menu layout constants
const (
	glyphLayers = 6
	glyphWidth  = 10
	glyphSwing  = 2.0
	menuFrame   = 80 * time.Millisecond
)

// menuTickMsg advances the title animation.
type menuTickMsg time.Time

func menuTickCmd() tea.Cmd {
	return tea.Tick(menuFrame, func(t time.Time) tea.Msg {
		return menuTickMsg(t)
	})
}

// MenuItemKind tells game entries apart from the fixed entries.
type MenuItemKind int

const (
	MenuItemGame MenuItemKind = iota
	MenuItemRuns
	MenuItemQuit
)

// MenuItem represents a selectable menu entry.
type MenuItem struct {
	Kind   MenuItemKind
	GameID string
	Title  string
	Detail string
}

// MenuModel is the Bubble Tea model for the title menu.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	frame     int
	preset    string
	palette   stack.Palette
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	quitting  bool
	selected  *MenuItem
}

// NewMenuModel creates a new menu model. preset is only displayed.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, preset string) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games)+2)

	for _, g := range games {
		items = append(items, MenuItem{
			Kind:   MenuItemGame,
			GameID: g.ID,
			Title:  g.Title,
			Detail: gameDetail(store, g.ID),
		})
	}
	items = append(items,
		MenuItem{Kind: MenuItemRuns, Title: "Run Journal"},
		MenuItem{Kind: MenuItemQuit, Title: "Quit"},
	)

	if preset == "" {
		preset = string(config.DifficultyNormal)
	}

	palettes := config.DefaultStackConfig().Palettes
	palette, err := stack.ParsePalette(palettes[0]...)
	if err != nil {
		palette = stack.MustParsePalette("#ffffff", "#808080")
	}

	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		preset:    preset,
		palette:   palette,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// gameDetail summarizes the journal for one mode.
func gameDetail(store *storage.Store, gameID string) string {
	if store == nil {
		return ""
	}
	stats, err := store.GetGameStats(gameID)
	if err != nil || stats.Runs == 0 {
		return ""
	}
	return fmt.Sprintf("%d runs, last %s", stats.Runs, humanize.Time(stats.LastPlayed))
}

// Init starts the title animation.
func (m MenuModel) Init() tea.Cmd {
	return menuTickCmd()
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil

	case menuTickMsg:
		if m.quitting || m.selected != nil {
			return m, nil
		}
		m.frame++
		return m, menuTickCmd()
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) == 0 {
			return m, nil
		}
		selected := m.items[m.cursor]
		if selected.Kind == MenuItemQuit {
			m.quitting = true
			return m, tea.Quit
		}
		m.selected = &selected
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")

	for _, line := range m.glyph() {
		b.WriteString(centerText(line, m.width, glyphWidth+2*int(glyphSwing)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	title := "S T A C K"
	b.WriteString(centerText(titleStyle.Render(title), m.width, len(title)))
	b.WriteString("\n\n")

	detailStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := cursor + item.Title
		width := len(line)
		if item.Detail != "" {
			suffix := "  (" + item.Detail + ")"
			width += len(suffix)
			line += detailStyle.Render(suffix)
		}
		b.WriteString(centerText(line, m.width, width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Q: Quit"
	b.WriteString(centerText(controls, m.width, len(controls)))
	b.WriteString("\n")
	difficulty := "Difficulty: " + m.preset
	b.WriteString(centerText(detailStyle.Render(difficulty), m.width, len(difficulty)))
	b.WriteString("\n")

	return b.String()
}

// glyph draws a small tower whose layers sway out of phase, so the stack
// appears to turn slowly.
func (m MenuModel) glyph() []string {
	lines := make([]string, glyphLayers)
	angle := float64(m.frame) * 0.12
	for i := range glyphLayers {
		shift := int(math.Round(glyphSwing * math.Sin(angle+float64(i)*0.7)))
		level := glyphLayers - 1 - i
		color := stack.Gradient(m.palette, level*3).Hex()
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		pad := int(glyphSwing) + shift
		lines[i] = strings.Repeat(" ", pad) +
			style.Render(strings.Repeat("█", glyphWidth)) +
			strings.Repeat(" ", 2*int(glyphSwing)-pad)
	}
	return lines
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within width. visible is the printed width of
// text, which differs from len(text) once styles are applied.
func centerText(text string, width, visible int) string {
	if visible >= width {
		return text
	}
	padding := (width - visible) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID    string
	Config    core.RuntimeConfig
	WantsRuns bool
	Quit      bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig, preset string) (MenuResult, error) {
	model := NewMenuModel(store, cfg, preset)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	return m.Result(), nil
}

// Result converts the final menu state into a MenuResult.
func (m MenuModel) Result() MenuResult {
	result := MenuResult{Config: m.Config()}
	switch {
	case m.IsQuitting() || m.Selected() == nil:
		result.Quit = true
	case m.Selected().Kind == MenuItemRuns:
		result.WantsRuns = true
	default:
		result.GameID = m.Selected().GameID
	}
	return result
}
