package core

import "testing"

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}

	cx, cy := r.Center()
	if cx != 15 || cy != 17 {
		t.Errorf("Center() = (%d, %d), expected (15, 17)", cx, cy)
	}
}

func TestRectCentered(t *testing.T) {
	outer := NewRect(0, 0, 40, 20)
	inner := outer.Centered(10, 4)

	if inner != NewRect(15, 8, 10, 4) {
		t.Errorf("Centered() = %+v, expected {15 8 10 4}", inner)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}

func TestLerp(t *testing.T) {
	tests := []struct {
		a, b, t, expected float64
	}{
		{0, 10, 0, 0},
		{0, 10, 1, 10},
		{0, 10, 0.25, 2.5},
		{5, -5, 0.5, 0},
	}

	for _, tc := range tests {
		if got := Lerp(tc.a, tc.b, tc.t); got != tc.expected {
			t.Errorf("Lerp(%v, %v, %v) = %v, expected %v", tc.a, tc.b, tc.t, got, tc.expected)
		}
	}
}

func TestRoundToCell(t *testing.T) {
	tests := []struct {
		v        float64
		expected int
	}{
		{0.4, 0},
		{0.5, 1},
		{-0.4, 0},
		{-0.6, -1},
		{2.49, 2},
	}

	for _, tc := range tests {
		if got := RoundToCell(tc.v); got != tc.expected {
			t.Errorf("RoundToCell(%v) = %d, expected %d", tc.v, got, tc.expected)
		}
	}
}

func TestTickDuration(t *testing.T) {
	cfg := RuntimeConfig{TickRate: 50}
	if got := cfg.TickDuration(); got != 0.02 {
		t.Errorf("TickDuration() = %v, expected 0.02", got)
	}

	cfg.TickRate = 0
	if got := cfg.TickDuration(); got != 1.0/60.0 {
		t.Errorf("TickDuration() with zero rate = %v, expected 1/60", got)
	}
}
