package astar

import (
	"errors"
	"fmt"
)

// Cell is the terrain kind stored at a grid position. The values are the
// characters used by the map format.
type Cell byte

const (
	BLOCKED   Cell = 'x'
	UNBLOCKED Cell = '_'
	START     Cell = 's'
	GOAL      Cell = 'g'
	TRAVERSED Cell = '0'
)

// ErrInvalidGrid is returned when a grid cannot be constructed from the
// given terrain.
var ErrInvalidGrid = errors.New("invalid grid")

type Point struct {
	Row int
	Col int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// up, down, left, right
var moves = [4]Point{
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
}

func (p Point) add(d Point) Point {
	return Point{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// Manhattan returns the 4-connected grid distance between p and q.
func Manhattan(p, q Point) int {
	return abs(p.Row-q.Row) + abs(p.Col-q.Col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Gridworld is the terrain the agent moves through together with what the
// agent has seen of it so far. Terrain is fixed after construction except for
// TRAVERSED marks; visibility only ever grows.
type Gridworld struct {
	terrain [][]Cell
	visible [][]bool
	start   Point
	goal    Point
}

// NewGridworld builds a grid from rows of terrain. It requires a rectangular,
// non-empty grid holding exactly one START and one GOAL. The start cell and
// its neighbours are visible, everything else is hidden.
func NewGridworld(terrain [][]Cell) (*Gridworld, error) {
	if len(terrain) == 0 || len(terrain[0]) == 0 {
		return nil, fmt.Errorf("%w: empty terrain", ErrInvalidGrid)
	}
	cols := len(terrain[0])
	gw := &Gridworld{
		terrain: make([][]Cell, len(terrain)),
		visible: make([][]bool, len(terrain)),
	}
	starts, goals := 0, 0
	for r, row := range terrain {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidGrid, r, len(row), cols)
		}
		gw.terrain[r] = make([]Cell, cols)
		gw.visible[r] = make([]bool, cols)
		for c, cell := range row {
			switch cell {
			case START:
				starts++
				gw.start = Point{Row: r, Col: c}
			case GOAL:
				goals++
				gw.goal = Point{Row: r, Col: c}
			case BLOCKED, UNBLOCKED, TRAVERSED:
			default:
				return nil, fmt.Errorf("%w: unknown cell %q at %v", ErrInvalidGrid, cell, Point{Row: r, Col: c})
			}
			gw.terrain[r][c] = cell
		}
	}
	if starts != 1 || goals != 1 {
		return nil, fmt.Errorf("%w: found %d start and %d goal cells, want exactly one of each", ErrInvalidGrid, starts, goals)
	}
	gw.Reveal(gw.start)
	return gw, nil
}

func (gw *Gridworld) Rows() int { return len(gw.terrain) }
func (gw *Gridworld) Cols() int { return len(gw.terrain[0]) }
func (gw *Gridworld) Start() Point { return gw.start }
func (gw *Gridworld) Goal() Point { return gw.goal }

// At returns the terrain kind at p. p must be in bounds.
func (gw *Gridworld) At(p Point) Cell {
	return gw.terrain[p.Row][p.Col]
}

// Visible reports whether the agent has seen p.
func (gw *Gridworld) Visible(p Point) bool {
	return gw.visible[p.Row][p.Col]
}

func (gw *Gridworld) InBounds(p Point) bool {
	return p.Row >= 0 && p.Row < len(gw.terrain) && p.Col >= 0 && p.Col < len(gw.terrain[0])
}

func (gw *Gridworld) IsBlocked(p Point) bool {
	return gw.At(p) == BLOCKED
}

// IsUnblocked is true only for plain open cells; START, GOAL and TRAVERSED
// cells are neither blocked nor unblocked.
func (gw *Gridworld) IsUnblocked(p Point) bool {
	return gw.At(p) == UNBLOCKED
}

// Reveal makes p and its in-bounds orthogonal neighbours visible.
func (gw *Gridworld) Reveal(p Point) {
	if gw.InBounds(p) {
		gw.visible[p.Row][p.Col] = true
	}
	for _, d := range moves {
		if n := p.add(d); gw.InBounds(n) {
			gw.visible[n.Row][n.Col] = true
		}
	}
}

// RevealAll makes the whole grid visible.
func (gw *Gridworld) RevealAll() {
	for r := range gw.visible {
		for c := range gw.visible[r] {
			gw.visible[r][c] = true
		}
	}
}

// MarkTraversed records that the agent walked through p. Only UNBLOCKED
// cells change kind; the neighbourhood of p is revealed either way.
func (gw *Gridworld) MarkTraversed(p Point) {
	if gw.IsUnblocked(p) {
		gw.terrain[p.Row][p.Col] = TRAVERSED
	}
	gw.Reveal(p)
}

// SetStart moves the agent. The terrain under the old and new positions is
// left alone.
func (gw *Gridworld) SetStart(p Point) {
	gw.start = p
}

// Snapshot is a point-in-time copy of a Gridworld that is safe to hand to
// another goroutine.
type Snapshot struct {
	Terrain [][]Cell
	Visible [][]bool
	Start   Point
	Goal    Point
}

func (gw *Gridworld) Snapshot() Snapshot {
	s := Snapshot{
		Terrain: make([][]Cell, len(gw.terrain)),
		Visible: make([][]bool, len(gw.visible)),
		Start:   gw.start,
		Goal:    gw.goal,
	}
	for r := range gw.terrain {
		s.Terrain[r] = append([]Cell(nil), gw.terrain[r]...)
		s.Visible[r] = append([]bool(nil), gw.visible[r]...)
	}
	return s
}

// Clone returns an independent copy, so that one loaded map can back several
// planning runs.
func (gw *Gridworld) Clone() *Gridworld {
	s := gw.Snapshot()
	return &Gridworld{terrain: s.Terrain, visible: s.Visible, start: s.Start, goal: s.Goal}
}

// Row returns the terrain of row r as a string of cell characters.
func (s Snapshot) Row(r int) string {
	b := make([]byte, len(s.Terrain[r]))
	for c, cell := range s.Terrain[r] {
		b[c] = byte(cell)
	}
	return string(b)
}
