// Package grid provides the toroidal multi-occupancy grid the agents move on.
// Coordinates wrap modulo width/height in both axes; any number of agents may
// share a cell. The grid owns placement only, never agent lifetime.
package grid

// Coord is a cell position on the torus.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Occupant is anything placeable on the grid. Agents identify themselves by
// a stable numeric ID.
type Occupant interface {
	GridID() uint64
}

// Torus is a width×height wrap-around grid with multi-occupancy cells.
type Torus struct {
	width  int
	height int
	cells  map[Coord][]Occupant
	where  map[uint64]Coord
}

// NewTorus creates an empty toroidal grid.
func NewTorus(width, height int) *Torus {
	return &Torus{
		width:  width,
		height: height,
		cells:  make(map[Coord][]Occupant),
		where:  make(map[uint64]Coord),
	}
}

// Width returns the grid width.
func (t *Torus) Width() int { return t.width }

// Height returns the grid height.
func (t *Torus) Height() int { return t.height }

// Wrap normalizes a coordinate onto the torus.
func (t *Torus) Wrap(c Coord) Coord {
	x := c.X % t.width
	if x < 0 {
		x += t.width
	}
	y := c.Y % t.height
	if y < 0 {
		y += t.height
	}
	return Coord{X: x, Y: y}
}

// mooreOffsets are the eight neighbor directions of a cell.
var mooreOffsets = [8]Coord{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Neighborhood returns the reachable cells around c in a fixed order.
// includeDiagonals selects the Moore 8-neighborhood; otherwise the
// von Neumann 4-neighborhood. All results are wrapped onto the torus.
func (t *Torus) Neighborhood(c Coord, includeDiagonals bool) []Coord {
	c = t.Wrap(c)
	out := make([]Coord, 0, 8)
	for _, d := range mooreOffsets {
		if !includeDiagonals && d.X != 0 && d.Y != 0 {
			continue
		}
		out = append(out, t.Wrap(Coord{X: c.X + d.X, Y: c.Y + d.Y}))
	}
	return out
}

// Place puts an occupant at a position. Placing an already-placed occupant
// moves it.
func (t *Torus) Place(o Occupant, c Coord) {
	c = t.Wrap(c)
	if prev, ok := t.where[o.GridID()]; ok {
		t.removeFromCell(o, prev)
	}
	t.cells[c] = append(t.cells[c], o)
	t.where[o.GridID()] = c
}

// Move relocates an occupant to a new position.
func (t *Torus) Move(o Occupant, c Coord) {
	t.Place(o, c)
}

// Occupants returns all occupants currently at a cell. The returned slice is
// the grid's own; callers must not mutate it.
func (t *Torus) Occupants(c Coord) []Occupant {
	return t.cells[t.Wrap(c)]
}

// PositionOf returns an occupant's current cell.
func (t *Torus) PositionOf(o Occupant) (Coord, bool) {
	c, ok := t.where[o.GridID()]
	return c, ok
}

func (t *Torus) removeFromCell(o Occupant, c Coord) {
	occ := t.cells[c]
	for i, cand := range occ {
		if cand.GridID() == o.GridID() {
			t.cells[c] = append(occ[:i], occ[i+1:]...)
			return
		}
	}
}
