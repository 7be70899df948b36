package maze

import (
	"context"
	"fmt"
)

// Journal durably records one distance mutation. Append must not return
// until the record is persisted; the solver applies the mutation only
// after Append succeeds.
type Journal interface {
	Append(Entry) error
}

// Observer is notified after each mutation is journaled and applied.
type Observer interface {
	Relaxed(e Entry, depth int)
}

// SolveStats summarises one solve.
type SolveStats struct {
	Visits       int // journal records written
	Improvements int // visits that lowered the stored distance
	MaxDepth     int
}

// neighbor order is part of the journal contract: left, right, up, down.
var neighbors = [4]Cell{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// Solver runs the exhaustive backtracking relaxation. A cell is entered
// from every simple path that reaches it, so it may be relaxed many times.
type Solver struct {
	grid     *Grid
	journal  Journal
	observer Observer
	maxDepth int

	ctx   context.Context
	stats SolveStats
}

type SolverOption func(*Solver)

type discard struct{}

func (discard) Append(Entry) error { return nil }

// WithMaxDepth aborts the solve with ErrDepthExceeded once the active
// path would grow beyond n cells. Zero means unbounded.
func WithMaxDepth(n int) SolverOption {
	return func(s *Solver) { s.maxDepth = n }
}

func WithObserver(o Observer) SolverOption {
	return func(s *Solver) { s.observer = o }
}

// NewSolver returns a solver over g. A nil journal discards records.
func NewSolver(g *Grid, j Journal, opts ...SolverOption) *Solver {
	if j == nil {
		j = discard{}
	}
	s := &Solver{grid: g, journal: j, ctx: context.Background()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve relaxes every cell reachable from the start. It fails with
// ErrNoExit before journaling anything if the grid has no exit.
func (s *Solver) Solve(ctx context.Context) error {
	start := s.grid.Start()
	return s.Visit(ctx, start.Row, start.Col, 0)
}

// Visit explores every simple path onward from (row, col), where current
// is the length of the path that led here.
func (s *Solver) Visit(ctx context.Context, row, col, current int) error {
	if !s.grid.hasExit {
		return ErrNoExit
	}
	c := Cell{row, col}
	if !s.grid.ValidMove(c) {
		return fmt.Errorf("%w: solve from %s", ErrInvalidMove, c)
	}
	s.ctx = ctx
	return s.visit(c, current, 1)
}

func (s *Solver) Stats() SolveStats { return s.stats }

func (s *Solver) visit(c Cell, current, depth int) error {
	if s.maxDepth > 0 && depth > s.maxDepth {
		return fmt.Errorf("%w: %d cells at %s", ErrDepthExceeded, depth, c)
	}
	if err := s.ctx.Err(); err != nil {
		return err
	}
	g := s.grid
	i := g.index(c)

	e := Entry{Row: c.Row, Col: c.Col, Previous: g.dist[i], New: min(g.dist[i], current)}
	if err := s.journal.Append(e); err != nil {
		return fmt.Errorf("journal %s: %w", c, err)
	}
	g.dist[i] = e.New

	s.stats.Visits++
	if e.New < e.Previous {
		s.stats.Improvements++
	}
	if depth > s.stats.MaxDepth {
		s.stats.MaxDepth = depth
	}
	if s.observer != nil {
		s.observer.Relaxed(e, depth)
	}

	if c == g.exit {
		return nil
	}

	g.inPath[i] = true
	for _, d := range neighbors {
		n := Cell{c.Row + d.Row, c.Col + d.Col}
		if !g.ValidMove(n) {
			continue
		}
		if err := s.visit(n, current+1, depth+1); err != nil {
			g.inPath[i] = false
			return err
		}
	}
	g.inPath[i] = false
	return nil
}
