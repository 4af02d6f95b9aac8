package core

// Color is a foreground color for a screen cell, stored as a "#rrggbb" hex
// string. The empty string means the terminal's default color.
type Color string

// Named colors for HUD and chrome elements.
const (
	ColorDefault Color = ""
	ColorWhite   Color = "#e6e6e6"
	ColorGray    Color = "#8a8a8a"
	ColorDim     Color = "#4e4e4e"
	ColorRed     Color = "#e05252"
	ColorYellow  Color = "#f0c674"
	ColorCyan    Color = "#5fd7d7"
)

// IsDefault reports whether the color falls back to the terminal default.
func (c Color) IsDefault() bool {
	return c == ColorDefault
}
