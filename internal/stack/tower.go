package stack

import colorful "github.com/lucasb-eyer/go-colorful"

// TileState is the lifecycle stage of a tower slot.
type TileState int

const (
	TileActive  TileState = iota // Oscillating, not yet placed
	TilePlaced                   // Resting on the tower, immutable
	TileDropped                  // Handed to physics on game over
)

// Tile is one slab of the tower.
type Tile struct {
	Pos   Vec3 // Center; Y is the level
	Size  Vec3 // Width (X), height (Y), depth (Z)
	Level int
	Axis  Axis // Axis the tile moved along while active
	Color colorful.Color
	State TileState
}

// Min returns the lower edge along a horizontal axis.
func (t Tile) Min(a Axis) float64 {
	return t.Pos.On(a) - t.Size.On(a)/2
}

// Max returns the upper edge along a horizontal axis.
func (t Tile) Max(a Axis) float64 {
	return t.Pos.On(a) + t.Size.On(a)/2
}

// Tower is a fixed-capacity ring buffer of tiles. The cursor points at the
// active slot; advancing it recycles the oldest tile.
type Tower struct {
	tiles  []Tile
	cursor int
}

// newTower builds a pedestal of placed tiles below level 0 and one active
// tile at level 0.
func newTower(size int, bounds Bounds, color colorful.Color) Tower {
	t := Tower{tiles: make([]Tile, size)}
	for i := range t.tiles {
		level := i - (size - 1) // oldest slot is the deepest
		t.tiles[i] = Tile{
			Pos:   Vec3{Y: float64(level)},
			Size:  bounds.Size(),
			Level: level,
			Color: color,
			State: TilePlaced,
		}
	}
	t.cursor = size - 1
	t.tiles[t.cursor].State = TileActive
	return t
}

// Cap returns the ring capacity.
func (t Tower) Cap() int {
	return len(t.tiles)
}

// Active returns the tile in the active slot.
func (t Tower) Active() Tile {
	return t.tiles[t.cursor]
}

// Below returns the tile in the slot before the cursor.
func (t Tower) Below() Tile {
	return t.tiles[t.prev(t.cursor)]
}

// Tiles returns the slots from oldest to newest. The slice is a copy.
func (t Tower) Tiles() []Tile {
	out := make([]Tile, 0, len(t.tiles))
	for i := 1; i <= len(t.tiles); i++ {
		out = append(out, t.tiles[(t.cursor+i)%len(t.tiles)])
	}
	return out
}

func (t *Tower) setActive(tile Tile) {
	t.tiles[t.cursor] = tile
}

// advance moves the cursor to the next slot, overwriting it with tile.
func (t *Tower) advance(tile Tile) {
	t.cursor = (t.cursor + 1) % len(t.tiles)
	t.tiles[t.cursor] = tile
}

func (t Tower) prev(i int) int {
	return (i - 1 + len(t.tiles)) % len(t.tiles)
}

func (t Tower) clone() Tower {
	tiles := make([]Tile, len(t.tiles))
	copy(tiles, t.tiles)
	return Tower{tiles: tiles, cursor: t.cursor}
}
