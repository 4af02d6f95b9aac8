package physics

import (
	"testing"

	"github.com/vovakirdan/tui-stack/internal/stack"
)

func TestWorldFallsAndCleansUp(t *testing.T) {
	w := NewWorld(DefaultConfig())
	w.SpawnDebris(stack.Body{
		Pos:  stack.Vec3{X: -2.75, Y: 3},
		Size: stack.Vec3{X: 1, Y: 1, Z: 3.5},
		Mass: stack.DefaultRubbleMass,
		Axis: stack.AxisX,
		Side: -1,
	})

	if w.Len() != 1 {
		t.Fatalf("Len() = %d, expected 1", w.Len())
	}

	w.Step(0.1)
	p := w.Pieces()[0]
	if p.Pos.Y >= 3 {
		t.Errorf("Pos.Y = %v, expected below 3", p.Pos.Y)
	}
	if p.Pos.X >= -2.75 {
		t.Errorf("Pos.X = %v, expected pushed toward -x", p.Pos.X)
	}
	if p.Pos.Z != 0 {
		t.Errorf("Pos.Z = %v, expected 0", p.Pos.Z)
	}

	for i := 0; i < 600 && w.Len() > 0; i++ {
		w.Step(1.0 / 60)
	}
	if w.Len() != 0 {
		t.Errorf("Len() = %d, expected 0 after falling past the kill depth", w.Len())
	}
}

func TestWorldMassSlowsDrift(t *testing.T) {
	w := NewWorld(DefaultConfig())
	w.SpawnDebris(stack.Body{Mass: 4, Axis: stack.AxisZ, Side: 1})
	w.DropTile(stack.Body{Mass: 1, Axis: stack.AxisZ, Side: 1})

	w.Step(0.5)
	pieces := w.Pieces()
	if len(pieces) != 2 {
		t.Fatalf("len(Pieces()) = %d, expected 2", len(pieces))
	}
	heavy, light := pieces[0], pieces[1]
	if heavy.Dropped || !light.Dropped {
		t.Errorf("Dropped flags = %v/%v, expected false/true", heavy.Dropped, light.Dropped)
	}
	if heavy.Pos.Z >= light.Pos.Z {
		t.Errorf("heavy z = %v, light z = %v, expected heavy to drift less", heavy.Pos.Z, light.Pos.Z)
	}
	if heavy.Pos.Y != light.Pos.Y {
		t.Errorf("fall differs by mass: %v vs %v", heavy.Pos.Y, light.Pos.Y)
	}
}

func TestWorldClear(t *testing.T) {
	w := NewWorld(Config{})
	w.DropTile(stack.Body{Mass: 1})
	w.Step(0)
	if w.Len() != 1 {
		t.Errorf("Len() = %d after zero step, expected 1", w.Len())
	}
	w.Clear()
	if w.Len() != 0 {
		t.Errorf("Len() = %d after Clear(), expected 0", w.Len())
	}
}
