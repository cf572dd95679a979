package core

// Tile represents a single cell of the battlefield.
// Blocked is reserved for obstacles; no rule sets it today.
type Tile struct {
	Blocked bool
}

// Grid is the static bounded coordinate space of a game
type Grid struct {
	W, H int
	T    []Tile // length = W*H (row-major)
}

// NewGrid creates a grid with every tile unblocked
func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, T: make([]Tile, w*h)}
}

// InBounds checks if the coordinate lies inside the grid
func (g *Grid) InBounds(c Coordinate) bool {
	return c.IsValid(g.W, g.H)
}

// Tile returns a tile pointer if the coordinate is valid, nil otherwise
func (g *Grid) Tile(c Coordinate) *Tile {
	if !g.InBounds(c) {
		return nil
	}
	return &g.T[c.ToIndex(g.W)]
}

// IsBlocked reports whether c is an in-bounds blocked tile
func (g *Grid) IsBlocked(c Coordinate) bool {
	t := g.Tile(c)
	return t != nil && t.Blocked
}

// SetBlocked marks or clears an obstacle. Out-of-bounds coordinates are ignored.
func (g *Grid) SetBlocked(c Coordinate, blocked bool) {
	if t := g.Tile(c); t != nil {
		t.Blocked = blocked
	}
}

// Neighbors returns every in-bounds coordinate within Manhattan distance r of c,
// c itself included. The scan order is fixed (dx outer, dy inner, both ascending)
// and callers that pick "the first free neighbor" depend on it.
func (g *Grid) Neighbors(c Coordinate, r int) []Coordinate {
	if r < 0 {
		return nil
	}
	out := make([]Coordinate, 0, 2*r*(r+1)+1)
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			if abs(dx)+abs(dy) > r {
				continue
			}
			q := Coordinate{X: c.X + dx, Y: c.Y + dy}
			if g.InBounds(q) {
				out = append(out, q)
			}
		}
	}
	return out
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	c := &Grid{W: g.W, H: g.H, T: make([]Tile, len(g.T))}
	copy(c.T, g.T)
	return c
}
