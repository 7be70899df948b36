package maze

import (
	"fmt"
	"math"
)

const (
	// Unreached marks an open cell no path has relaxed yet.
	Unreached = math.MaxInt
	// Barrier marks an impassable cell. It is never overwritten.
	Barrier = -1
)

// Cell is a (row, col) coordinate on the grid.
type Cell struct {
	Row, Col int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// CellKind classifies a cell of the maze description.
type CellKind uint8

const (
	Open CellKind = iota
	Wall
	StartCell
)

// Grid owns the static barrier layout plus the mutable distance and
// in-path state. Cells are stored row-major in one contiguous buffer.
//
// cols follows the maze file layout: it counts one trailing non-cell
// character per row, so only cols-1 columns are addressable.
type Grid struct {
	rows, cols int
	dist       []int
	inPath     []bool

	start   Cell
	exit    Cell
	hasExit bool
}

// NewGrid builds a grid from a row-major classification of its
// rows*(cols-1) usable cells. Exactly one cell must be StartCell.
func NewGrid(rows, cols int, kinds []CellKind) (*Grid, error) {
	if rows < 1 || cols < 2 {
		return nil, fmt.Errorf("%w: %d rows, %d cols", ErrEmptyMaze, rows, cols)
	}
	usable := cols - 1
	if len(kinds) != rows*usable {
		return nil, fmt.Errorf("%w: want %d cells, got %d", ErrDimensions, rows*usable, len(kinds))
	}
	g := &Grid{
		rows:   rows,
		cols:   cols,
		dist:   make([]int, len(kinds)),
		inPath: make([]bool, len(kinds)),
	}
	found := false
	for i, k := range kinds {
		switch k {
		case Wall:
			g.dist[i] = Barrier
		case StartCell:
			if found {
				return nil, fmt.Errorf("%w: %s and %s", ErrMultipleStarts, g.start, g.cellAt(i))
			}
			found = true
			g.start = g.cellAt(i)
			g.dist[i] = 0
		default:
			g.dist[i] = Unreached
		}
	}
	if !found {
		return nil, ErrNoStart
	}
	return g, nil
}

func (g *Grid) Rows() int { return g.rows }

// Cols includes the trailing non-cell column.
func (g *Grid) Cols() int { return g.cols }

func (g *Grid) UsableCols() int { return g.cols - 1 }

func (g *Grid) Start() Cell { return g.start }

// Exit returns the exit cell. The second result is false when no exit
// has been set.
func (g *Grid) Exit() (Cell, bool) { return g.exit, g.hasExit }

func (g *Grid) HasExit() bool { return g.hasExit }

// SetExit records the cell whose visit terminates a search branch.
func (g *Grid) SetExit(c Cell) error {
	if !g.InBounds(c) {
		return fmt.Errorf("%w: exit %s", ErrOutOfBounds, c)
	}
	if g.IsBarrier(c) {
		return fmt.Errorf("%w: exit %s is a barrier", ErrInvalidMove, c)
	}
	g.exit = c
	g.hasExit = true
	return nil
}

func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols-1
}

func (g *Grid) index(c Cell) int {
	return c.Row*(g.cols-1) + c.Col
}

func (g *Grid) cellAt(i int) Cell {
	return Cell{Row: i / (g.cols - 1), Col: i % (g.cols - 1)}
}

// Distance panics on out-of-bounds cells, like a slice index would.
func (g *Grid) Distance(c Cell) int {
	if !g.InBounds(c) {
		panic(fmt.Sprintf("maze: cell %s outside %dx%d grid", c, g.rows, g.cols-1))
	}
	return g.dist[g.index(c)]
}

func (g *Grid) IsBarrier(c Cell) bool {
	return g.InBounds(c) && g.dist[g.index(c)] == Barrier
}

// InPath reports whether c is an ancestor on the active search branch.
func (g *Grid) InPath(c Cell) bool {
	return g.InBounds(c) && g.inPath[g.index(c)]
}

// ValidMove reports whether c is in bounds, not a barrier and not on the
// active search branch. The stored distance is not consulted.
func (g *Grid) ValidMove(c Cell) bool {
	if !g.InBounds(c) {
		return false
	}
	i := g.index(c)
	return g.dist[i] != Barrier && !g.inPath[i]
}

// Distances returns a row-major copy of the distance buffer.
func (g *Grid) Distances() []int {
	out := make([]int, len(g.dist))
	copy(out, g.dist)
	return out
}

// Row returns a copy of one row of distances.
func (g *Grid) Row(r int) []int {
	w := g.cols - 1
	out := make([]int, w)
	copy(out, g.dist[r*w:(r+1)*w])
	return out
}

// Clone returns a deep copy, in-path markers included.
func (g *Grid) Clone() *Grid {
	c := *g
	c.dist = append([]int(nil), g.dist...)
	c.inPath = append([]bool(nil), g.inPath...)
	return &c
}

// Equal compares dimensions and distances cell by cell.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for i := range g.dist {
		if g.dist[i] != other.dist[i] {
			return false
		}
	}
	return true
}
