package core

import (
	"strings"
	"testing"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(12, 4)

	if s.Width() != 12 || s.Height() != 4 {
		t.Fatalf("NewScreen() = %dx%d, expected 12x4", s.Width(), s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			c := s.GetCell(x, y)
			if c.Rune != ' ' || !c.Color.IsDefault() {
				t.Fatalf("GetCell(%d, %d) = %+v, expected blank default cell", x, y, c)
			}
		}
	}
}

func TestScreenSetColored(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColored(3, 4, '█', ColorCyan)
	c := s.GetCell(3, 4)
	if c.Rune != '█' || c.Color != ColorCyan {
		t.Errorf("GetCell(3, 4) = %+v, expected █ in %s", c, ColorCyan)
	}

	// Plain Set resets color
	s.Set(3, 4, 'x')
	if got := s.GetCell(3, 4); got.Color != ColorDefault {
		t.Errorf("Set() should use default color, got %q", got.Color)
	}
}

func TestScreenOutOfBounds(t *testing.T) {
	s := NewScreen(5, 5)

	tests := []struct {
		name string
		x, y int
	}{
		{"left", -1, 0},
		{"right", 5, 0},
		{"top", 0, -1},
		{"bottom", 0, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s.SetColored(tc.x, tc.y, 'A', ColorRed)
			if got := s.GetCell(tc.x, tc.y); got != blankCell {
				t.Errorf("GetCell(%d, %d) = %+v, expected blank", tc.x, tc.y, got)
			}
		})
	}
}

func TestScreenDrawTextColored(t *testing.T) {
	s := NewScreen(8, 2)
	s.DrawTextColored(5, 1, "Score", ColorYellow)

	// Only "Sco" fits
	if s.Row(1) != "     Sco" {
		t.Errorf("Row(1) = %q, expected clipped text", s.Row(1))
	}
	if s.GetCell(5, 1).Color != ColorYellow {
		t.Errorf("DrawTextColored() color = %q, expected %q", s.GetCell(5, 1).Color, ColorYellow)
	}
}

func TestScreenDrawTextCenteredMultibyte(t *testing.T) {
	s := NewScreen(11, 1)
	s.DrawTextCentered(0, "█▓█")

	if s.Get(4, 0) != '█' || s.Get(5, 0) != '▓' || s.Get(6, 0) != '█' {
		t.Errorf("DrawTextCentered() = %q, expected glyphs centered by rune count", s.Row(0))
	}
}

func TestScreenDrawRectColored(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawRectColored(NewRect(2, 2, 3, 2), '#', ColorGray)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			inside := x >= 2 && x < 5 && y >= 2 && y < 4
			c := s.GetCell(x, y)
			if inside && (c.Rune != '#' || c.Color != ColorGray) {
				t.Errorf("cell (%d, %d) = %+v, expected gray #", x, y, c)
			}
			if !inside && c.Rune != ' ' {
				t.Errorf("cell (%d, %d) = %q, expected untouched", x, y, c.Rune)
			}
		}
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(NewRect(1, 1, 5, 4))

	corners := map[[2]int]rune{
		{1, 1}: '┌',
		{5, 1}: '┐',
		{1, 4}: '└',
		{5, 4}: '┘',
	}
	for pos, want := range corners {
		if got := s.Get(pos[0], pos[1]); got != want {
			t.Errorf("corner %v = %q, expected %q", pos, got, want)
		}
	}
	if s.Get(3, 1) != '─' || s.Get(1, 2) != '│' {
		t.Error("DrawBox() should draw edges")
	}
}

func TestScreenLines(t *testing.T) {
	s := NewScreen(6, 6)
	s.DrawHLine(1, 0, 4, '=')
	s.DrawVLine(0, 1, 3, '|')

	if s.Row(0) != " ==== " {
		t.Errorf("DrawHLine() row = %q", s.Row(0))
	}
	for y := 1; y < 4; y++ {
		if s.Get(0, y) != '|' {
			t.Errorf("DrawVLine() missing at y=%d", y)
		}
	}
}

func TestScreenStringAndResize(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "AAAAA")
	s.DrawText(0, 1, "BBBBB")
	s.DrawText(0, 2, "CCCCC")

	if got := s.String(); got != "AAAAA\nBBBBB\nCCCCC" {
		t.Errorf("String() = %q", got)
	}

	s.Resize(3, 2)
	if got := s.String(); got != "AAA\nBBB" {
		t.Errorf("String() after shrink = %q", got)
	}

	s.Resize(6, 3)
	if !strings.HasPrefix(s.Row(0), "AAA") {
		t.Errorf("Row(0) after grow = %q, expected preserved prefix", s.Row(0))
	}
	if s.Row(2) != "      " {
		t.Errorf("Row(2) after grow = %q, expected blank", s.Row(2))
	}
}

func TestScreenFillCell(t *testing.T) {
	s := NewScreen(3, 2)
	s.FillCell(Cell{Rune: '.', Color: ColorDim})

	if s.String() != "...\n..." {
		t.Errorf("FillCell() = %q", s.String())
	}
	s.Clear()
	if s.String() != "   \n   " {
		t.Errorf("Clear() = %q", s.String())
	}
}
