package tower

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/tui-stack/internal/core"
	"github.com/vovakirdan/tui-stack/internal/stack"
)

// Visual characters for rendering
const (
	TileChar   = '█'
	ActiveChar = '▓'
	DebrisChar = '▒'
	GroundChar = '▀'
)

// anchor is the fraction of the panel height where the top placed tile sits.
const anchor = 0.55

// view is one orthographic projection of the tower onto a panel.
type view struct {
	area   core.Rect
	axis   stack.Axis
	extent float64 // Half-width of the visible world range
	towerY float64 // Eased follow offset
}

func (v view) col(x float64) int {
	t := (x + v.extent) / (2 * v.extent)
	return v.area.X + core.RoundToCell(t*float64(v.area.W))
}

func (v view) row(y float64) int {
	base := v.area.Y + int(float64(v.area.H)*anchor)
	return base - core.RoundToCell(y+v.towerY)
}

// span draws a box of the given center and size as a horizontal run of
// cells. Everything outside the panel is clipped; runs are at least one
// cell wide so slivers stay visible.
func (v view) span(dst *core.Screen, pos, size stack.Vec3, r rune, c core.Color) {
	y := v.row(pos.Y)
	left := v.col(pos.On(v.axis) - size.On(v.axis)/2)
	right := v.col(pos.On(v.axis) + size.On(v.axis)/2)
	if right <= left {
		right = left + 1
	}
	for x := left; x < right; x++ {
		if v.area.Contains(x, y) {
			dst.SetColored(x, y, r, c)
		}
	}
}

func hex(c colorful.Color) core.Color {
	return core.Color(c.Hex())
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.session == nil {
		return
	}
	s := g.session.State()
	w, h := dst.Width(), dst.Height()

	g.drawHUD(dst, s)

	// Two panels below the HUD, above the help line
	panelW := (w - 1) / 2
	panelH := h - 3
	if panelW < 8 || panelH < 6 {
		dst.DrawTextCentered(h/2, "Too small")
		return
	}
	left := core.NewRect(0, 1, panelW, panelH+1)
	right := core.NewRect(w-panelW, 1, panelW, panelH+1)

	rules := g.session.Engine().Rules()
	extent := rules.Amplitude + rules.BoundsSize/2 + 0.5

	for _, p := range []struct {
		box   core.Rect
		axis  stack.Axis
		label string
	}{
		{left, stack.AxisX, " FRONT · X "},
		{right, stack.AxisZ, " SIDE · Z "},
	} {
		dst.DrawBox(p.box)
		dst.DrawTextColored(p.box.X+2, p.box.Y, p.label, core.ColorGray)
		v := view{
			area:   core.NewRect(p.box.X+1, p.box.Y+1, p.box.W-2, p.box.H-2),
			axis:   p.axis,
			extent: extent,
			towerY: s.TowerY,
		}
		g.drawTower(dst, v, s)
	}

	if g.flashT > 0 && g.flash != "" && !s.Over() {
		dst.DrawTextColored((w-len(g.flash))/2, 2, g.flash, core.ColorYellow)
	}

	help := "space drop · p pause · r restart · b menu · q quit"
	if g.script != nil {
		help = "replay · p pause · b back · q quit"
	}
	dst.DrawTextColored((w-len([]rune(help)))/2, h-1, help, core.ColorDim)

	if g.paused {
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}

	if s.Over() {
		g.drawCenteredMessage(dst, "TOWER LOST",
			fmt.Sprintf("Score: %d  Best combo: %d  |  R restart", s.Score, s.MaxCombo))
	}
}

func (g *Game) drawHUD(dst *core.Screen, s stack.SessionState) {
	dst.DrawTextColored(2, 0, fmt.Sprintf("SCORE %d", s.Score), core.ColorWhite)
	if s.Combo > 0 {
		dst.DrawTextColored(14, 0, fmt.Sprintf("COMBO x%d", s.Combo), core.ColorYellow)
	}
	info := fmt.Sprintf("%s  speed %.1f  %.2f x %.2f", g.Title(), s.Speed(), max(s.Bounds.Width, 0), max(s.Bounds.Depth, 0))
	dst.DrawTextColored(dst.Width()-len(info)-2, 0, info, core.ColorGray)
}

// drawTower draws placed tiles, the active tile and debris into one view.
func (g *Game) drawTower(dst *core.Screen, v view, s stack.SessionState) {
	// Ground line under the deepest visible pedestal tile
	tiles := s.Tower.Tiles()
	if len(tiles) > 0 {
		y := v.row(float64(tiles[0].Level)) + 1
		if y < v.area.Bottom() {
			for x := v.area.X; x < v.area.Right(); x++ {
				dst.SetColored(x, y, GroundChar, core.ColorDim)
			}
		}
	}

	for _, t := range tiles {
		switch t.State {
		case stack.TilePlaced:
			v.span(dst, t.Pos, t.Size, TileChar, hex(t.Color))
		case stack.TileActive:
			v.span(dst, t.Pos, t.Size, ActiveChar, hex(t.Color))
		}
	}

	for _, p := range g.world.Pieces() {
		v.span(dst, p.Pos, p.Size, DebrisChar, hex(p.Color))
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	box := dst.Bounds().Centered(boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	dst.DrawTextColored(box.X+(boxW-len([]rune(title)))/2, box.Y+1, title, core.ColorRed)
	dst.DrawText(box.X+(boxW-len([]rune(subtitle)))/2, box.Y+3, subtitle)
}
