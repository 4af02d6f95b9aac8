package stack

import (
	"errors"
	"testing"
)

func TestGradient(t *testing.T) {
	p := MustParsePalette("#ff0000", "#00ff00", "#0000ff", "#ffffff")

	tests := []struct {
		name  string
		index int
		from  int
		to    int
	}{
		{"first", 0, 0, 1},
		{"second", 1, 1, 2},
		{"third", 2, 2, 3},
		{"last wraps to first", 3, 0, 1},
		{"index 7", 7, 0, 1},
		{"index 6", 6, 2, 3},
		{"negative", -1, 0, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Gradient(p, tc.index)
			expected := p[tc.from].BlendRgb(p[tc.to], 0.33)
			if got != expected {
				t.Errorf("Gradient(p, %d) = %v, expected %v", tc.index, got.Hex(), expected.Hex())
			}
		})
	}
}

func TestGradientBlendFactor(t *testing.T) {
	p := MustParsePalette("#000000", "#ffffff")
	got := Gradient(p, 0)
	if !approx(got.R, 0.33) || !approx(got.G, 0.33) || !approx(got.B, 0.33) {
		t.Errorf("Gradient() = %+v, expected 0.33 on every channel", got)
	}
}

func TestParsePalette(t *testing.T) {
	p, err := ParsePalette("#4a6fa5", "#6ec3c1")
	if err != nil {
		t.Fatalf("ParsePalette() error = %v", err)
	}
	hex := p.Hex()
	if len(hex) != 2 || hex[0] != "#4a6fa5" || hex[1] != "#6ec3c1" {
		t.Errorf("Hex() = %v, expected [#4a6fa5 #6ec3c1]", hex)
	}

	if _, err := ParsePalette("#4a6fa5", "teal"); err == nil {
		t.Error("ParsePalette(\"teal\") error = nil, expected error")
	}

	if err := (Palette{}).Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Validate() = %v, expected ErrInvalidConfig", err)
	}
}
