package stack

import colorful "github.com/lucasb-eyer/go-colorful"

// Outcome classifies a tap.
type Outcome int

const (
	OutcomePerfect Outcome = iota // |delta| within the error margin
	OutcomeTrimmed                // Overlap survived, overhang cut off
	OutcomeMissed                 // Footprint exhausted, tower lost
)

// String returns a short name for logs and telemetry.
func (o Outcome) String() string {
	switch o {
	case OutcomePerfect:
		return "perfect"
	case OutcomeTrimmed:
		return "trimmed"
	default:
		return "missed"
	}
}

// Body is a plain descriptor handed to the physics collaborator: either a
// trimmed slice (debris) or the whole tile dropped on game over.
type Body struct {
	Pos   Vec3
	Size  Vec3
	Mass  float64
	Color colorful.Color
	Axis  Axis    // Axis of the miss
	Side  float64 // +1 or -1: overhang direction along Axis
}

// Placement describes how a tap was resolved.
type Placement struct {
	Outcome Outcome
	Axis    Axis
	Delta   float64 // Previous tile minus active tile, along Axis
	Tile    Tile    // Resolved tile (for a miss, the tile as it fell)
	Debris  *Body   // Set for OutcomeTrimmed
	Bonus   bool    // Footprint grew back on this placement
}

// Cut is the overlap of two equally sized spans along one axis.
type Cut struct {
	Center       float64 // Center of the surviving overlap
	Size         float64 // Length of the surviving overlap
	DebrisCenter float64 // Outer edge of the active span on the overhang side
	DebrisSize   float64 // Length of the trimmed slice
	Side         float64 // +1 when the active span overhangs toward +axis
}

// Trim computes the overlap between the span centered at last and the span
// centered at active, both of length size.
func Trim(last, active, size float64) Cut {
	delta := last - active
	side := sign(active - last)
	return Cut{
		Center:       (last + active) / 2,
		Size:         size - abs(delta),
		DebrisCenter: active + side*size/2,
		DebrisSize:   abs(delta),
		Side:         side,
	}
}

// IsPerfect reports whether delta lands within margin. The boundary is
// inclusive: |delta| == margin is perfect.
func IsPerfect(delta, margin float64) bool {
	return abs(delta) <= margin
}

// resolve decides the fate of the active tile. It mutates s, which must
// already be a private copy.
func (e *Engine) resolve(s *SessionState) Placement {
	r := e.rules
	axis := s.Axis
	tile := s.Tower.Active()
	last := s.Last

	delta := last.Pos.On(axis) - tile.Pos.On(axis)
	p := Placement{Axis: axis, Delta: delta}

	if !IsPerfect(delta, r.ErrorMargin) {
		s.Combo = 0
		remaining := s.Bounds.On(axis) - abs(delta)
		s.Bounds = s.Bounds.With(axis, remaining)
		if remaining <= 0 {
			p.Outcome = OutcomeMissed
			p.Tile = tile
			return p
		}

		cut := Trim(last.Pos.On(axis), tile.Pos.On(axis), tile.Size.On(axis))
		p.Debris = &Body{
			Pos:   tile.Pos.With(axis, cut.DebrisCenter),
			Size:  tile.Size.With(axis, cut.DebrisSize),
			Mass:  r.RubbleMass,
			Color: tile.Color,
			Axis:  axis,
			Side:  cut.Side,
		}

		tile.Size = s.Bounds.Size()
		tile.Pos = tile.Pos.
			With(axis, cut.Center).
			With(axis.Other(), last.Pos.On(axis.Other()))
		p.Outcome = OutcomeTrimmed
	} else {
		s.Combo++
		if s.Combo > r.ComboStartGain {
			grown := min(s.Bounds.On(axis)+r.BoundsGain, r.BoundsSize)
			s.Bounds = s.Bounds.With(axis, grown)
			tile.Size = s.Bounds.Size()
			p.Bonus = true
		}
		tile.Pos.X = last.Pos.X
		tile.Pos.Z = last.Pos.Z
		p.Outcome = OutcomePerfect
	}

	tile.Pos.Y = float64(s.Score)
	tile.Level = s.Score
	tile.Axis = axis
	tile.State = TilePlaced
	s.Tower.setActive(tile)
	s.MaxCombo = max(s.MaxCombo, s.Combo)

	s.Secondary = tile.Pos.On(axis)
	s.Axis = axis.Other()
	p.Tile = tile
	return p
}
