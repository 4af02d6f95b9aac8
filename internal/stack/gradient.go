package stack

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette is the ordered list of colors the tower cycles through.
type Palette []colorful.Color

// DefaultPalette is used when no palette is configured.
var DefaultPalette = MustParsePalette("#4a6fa5", "#6ec3c1", "#f2d492", "#f29559", "#e05263")

// ParsePalette builds a palette from "#rrggbb" strings.
func ParsePalette(hexes ...string) (Palette, error) {
	p := make(Palette, 0, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("stack: palette entry %d (%q): %w", i, h, err)
		}
		p = append(p, c)
	}
	return p, nil
}

// MustParsePalette is ParsePalette for compile-time constant palettes.
func MustParsePalette(hexes ...string) Palette {
	p, err := ParsePalette(hexes...)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate rejects palettes the gradient cannot index.
func (p Palette) Validate() error {
	if len(p) < 2 {
		return fmt.Errorf("%w: palette needs at least 2 colors, got %d", ErrInvalidConfig, len(p))
	}
	return nil
}

// Hex returns the palette as "#rrggbb" strings.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Hex()
	}
	return out
}

// Gradient returns the tint for score index i: the blend of palette[k] and
// palette[k+1] at a fixed factor, where k = i mod len(p) and the last index
// wraps to 0. It panics on palettes rejected by Validate.
func Gradient(p Palette, i int) colorful.Color {
	n := len(p)
	k := i % n
	if k < 0 {
		k += n
	}
	if k >= n-1 {
		k = 0
	}
	return p[k].BlendRgb(p[k+1], blendFactor)
}
