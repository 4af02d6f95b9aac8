package stack

import (
	"math"
	"testing"
)

func TestOscillatorPingPong(t *testing.T) {
	o := NewOscillator(MotionPingPong, 5, 1)
	if o.Position() != 5 {
		t.Fatalf("Position() = %v, expected 5", o.Position())
	}

	if got := o.Advance(0.5); !approx(got, 0) {
		t.Errorf("Advance(0.5) = %v, expected 0", got)
	}

	// Reaching the far endpoint flips the direction and restarts the phase.
	if got := o.Advance(0.5); got != -5 {
		t.Errorf("Advance(0.5) = %v, expected -5", got)
	}
	if o.Dir != -5 {
		t.Errorf("Dir = %v, expected -5", o.Dir)
	}
	if o.Phase != 0 {
		t.Errorf("Phase = %v, expected 0", o.Phase)
	}

	if got := o.Advance(0.25); !approx(got, -2.5) {
		t.Errorf("Advance(0.25) = %v, expected -2.5", got)
	}
	if got := o.Advance(0.75); got != 5 {
		t.Errorf("Advance(0.75) = %v, expected 5", got)
	}
	if o.Dir != 5 {
		t.Errorf("Dir = %v, expected 5", o.Dir)
	}
}

func TestOscillatorOvershootSnaps(t *testing.T) {
	o := NewOscillator(MotionPingPong, 5, 0.6)
	dt := 1.0 / 60

	flips := 0
	prevDir := o.Dir
	for i := 0; i < 1000; i++ {
		pos := o.Advance(dt)
		if math.Abs(pos) > 5 {
			t.Fatalf("position %v outside amplitude", pos)
		}
		if o.Dir != prevDir {
			flips++
			if math.Abs(pos) != 5 {
				t.Fatalf("flip at %v, expected exactly on the endpoint", pos)
			}
			prevDir = o.Dir
		}
	}
	if flips == 0 {
		t.Error("no endpoint reached in 1000 ticks")
	}
}

func TestOscillatorSine(t *testing.T) {
	o := NewOscillator(MotionSine, 3.5, 2)
	got := o.Advance(math.Pi / 4)
	if !approx(got, 3.5) {
		t.Errorf("Advance() = %v, expected 3.5", got)
	}
	if o.Dir != 3.5 {
		t.Errorf("Dir = %v, expected unchanged 3.5", o.Dir)
	}
	if !approx(o.Position(), got) {
		t.Errorf("Position() = %v, expected %v", o.Position(), got)
	}
}
