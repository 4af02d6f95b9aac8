// Package physics simulates the pieces the stack core lets go of: trimmed
// debris and the tile lost on game over. It is a point-mass integrator with
// gravity and a sideways push, just enough for pieces to fall out of view.
package physics

import "github.com/vovakirdan/tui-stack/internal/stack"

// Defaults for Config.
const (
	DefaultGravity   = 9.8  // Levels per second squared
	DefaultKillDepth = 12.0 // Levels below the spawn point
	DefaultDrift     = 1.5  // Sideways speed of a unit-mass piece
)

// Config tunes the simulation.
type Config struct {
	Gravity   float64
	KillDepth float64
	Drift     float64
}

// DefaultConfig returns the default tuning.
func DefaultConfig() Config {
	return Config{
		Gravity:   DefaultGravity,
		KillDepth: DefaultKillDepth,
		Drift:     DefaultDrift,
	}
}

// Piece is a falling body.
type Piece struct {
	stack.Body
	Vel     stack.Vec3
	Origin  stack.Vec3
	Dropped bool // The lost tile rather than debris
	Age     float64
}

// Fallen returns how far the piece dropped since it was spawned.
func (p Piece) Fallen() float64 {
	return p.Origin.Y - p.Pos.Y
}

// World owns every falling piece. It implements stack.PhysicsSink.
type World struct {
	cfg    Config
	pieces []Piece
}

var _ stack.PhysicsSink = (*World)(nil)

// NewWorld creates an empty world.
func NewWorld(cfg Config) *World {
	if cfg.KillDepth <= 0 {
		cfg.KillDepth = DefaultKillDepth
	}
	return &World{cfg: cfg}
}

// SpawnDebris adds a trimmed slice pushed away from the tower.
func (w *World) SpawnDebris(b stack.Body) {
	w.add(b, false)
}

// DropTile adds the lost tile.
func (w *World) DropTile(b stack.Body) {
	w.add(b, true)
}

func (w *World) add(b stack.Body, dropped bool) {
	mass := b.Mass
	if mass <= 0 {
		mass = 1
	}
	vel := stack.Vec3{}.With(b.Axis, b.Side*w.cfg.Drift/mass)
	w.pieces = append(w.pieces, Piece{
		Body:    b,
		Vel:     vel,
		Origin:  b.Pos,
		Dropped: dropped,
	})
}

// Step integrates every piece by dt seconds and removes those that fell
// past the kill depth.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	alive := w.pieces[:0]
	for _, p := range w.pieces {
		p.Vel.Y -= w.cfg.Gravity * dt
		p.Pos.X += p.Vel.X * dt
		p.Pos.Y += p.Vel.Y * dt
		p.Pos.Z += p.Vel.Z * dt
		p.Age += dt
		if p.Fallen() > w.cfg.KillDepth {
			continue
		}
		alive = append(alive, p)
	}
	clear(w.pieces[len(alive):])
	w.pieces = alive
}

// Pieces returns a copy of the live pieces, oldest first.
func (w *World) Pieces() []Piece {
	out := make([]Piece, len(w.pieces))
	copy(out, w.pieces)
	return out
}

// Len returns the number of live pieces.
func (w *World) Len() int {
	return len(w.pieces)
}

// Clear removes every piece.
func (w *World) Clear() {
	w.pieces = w.pieces[:0]
}
