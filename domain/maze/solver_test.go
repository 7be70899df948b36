package maze

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 3x4 usable grid, start top-left, barrier to its right, exit bottom-right.
func scenarioGrid(t *testing.T) *Grid {
	t.Helper()
	g := mustParse(t,
		"sb..",
		"....",
		"....",
	)
	require.Equal(t, 5, g.Cols())
	require.NoError(t, g.SetExit(Cell{2, 3}))
	return g
}

func TestSolve_Scenario(t *testing.T) {
	g := scenarioGrid(t)
	entries := solve(t, g)

	assert.Equal(t, 0, g.Distance(Cell{0, 0}))
	assert.Equal(t, 5, g.Distance(Cell{2, 3}))
	assert.Equal(t, []int{
		0, Barrier, 4, 5,
		1, 2, 3, 4,
		2, 3, 4, 5,
	}, g.Distances())

	last := -1
	for i, e := range entries {
		if e.Cell() == (Cell{2, 3}) {
			last = i
		}
	}
	require.GreaterOrEqual(t, last, 0, "exit never journaled")
	assert.Equal(t, 5, entries[last].New)
}

func TestSolve_FirstRecordIsStart(t *testing.T) {
	g := scenarioGrid(t)
	entries := solve(t, g)
	require.NotEmpty(t, entries)
	assert.Equal(t, Entry{Row: 0, Col: 0, Previous: 0, New: 0}, entries[0])
	// left, right and up are blocked, so down is explored first.
	assert.Equal(t, Entry{Row: 1, Col: 0, Previous: Unreached, New: 1}, entries[1])
}

func TestSolve_MatchesShortestPaths(t *testing.T) {
	mazes := [][]string{
		{"sb..", "....", "...."},
		{"s.b.", "..b.", "bbb."},
		{"....", ".bb.", "..s."},
		{"s...", ".b.b", "...."},
		{"bsb", "...", "b.b", "..."},
	}
	for _, rows := range mazes {
		g := mustParse(t, rows...)
		require.True(t, g.HasExit(), "%v", rows)
		want := shortest(g)
		solve(t, g)
		assert.Equal(t, want, g.Distances(), "%v", rows)
	}
}

func TestSolve_MonotonicRelaxation(t *testing.T) {
	g := mustParse(t,
		"....",
		".bb.",
		"..s.",
	)
	initial := g.Distances()
	entries := solve(t, g)

	current := map[Cell]int{}
	for _, e := range entries {
		prev, seen := current[e.Cell()]
		if !seen {
			prev = initial[g.index(e.Cell())]
		}
		assert.Equal(t, prev, e.Previous, "previous value of %s", e.Cell())
		assert.LessOrEqual(t, e.New, e.Previous, "distance of %s went up", e.Cell())
		current[e.Cell()] = e.New
	}
	for c, v := range current {
		assert.Equal(t, v, g.Distance(c))
	}
}

func TestSolve_BarriersAndInPathUntouched(t *testing.T) {
	g := mustParse(t,
		"s.b.",
		"..b.",
		"bbb.",
	)
	entries := solve(t, g)
	for _, e := range entries {
		assert.False(t, g.IsBarrier(e.Cell()), "journaled barrier %s", e.Cell())
	}
	for i, d := range g.Distances() {
		c := g.cellAt(i)
		if d == Barrier {
			assert.True(t, g.IsBarrier(c))
		}
		assert.False(t, g.InPath(c), "%s left on path", c)
	}
	// the right-hand column is walled off from the start
	assert.Equal(t, Unreached, g.Distance(Cell{1, 3}))
}

func TestSolve_ExitIsNotExpanded(t *testing.T) {
	// The only way to (0,2) is through the exit at (0,1).
	g := mustParse(t, "s..")
	exit, _ := g.Exit()
	require.Equal(t, Cell{0, 1}, exit)

	solve(t, g)
	assert.Equal(t, 1, g.Distance(Cell{0, 1}))
	assert.Equal(t, Unreached, g.Distance(Cell{0, 2}))
}

func TestSolve_NoExit(t *testing.T) {
	g := mustParse(t,
		"sbb",
		"b.b",
		"bbb",
	)
	rec := &recorder{}
	err := NewSolver(g, rec).Solve(context.Background())
	assert.ErrorIs(t, err, ErrNoExit)
	assert.Empty(t, rec.entries)
}

func TestSolve_DepthExceeded(t *testing.T) {
	g := scenarioGrid(t)
	err := NewSolver(g, &recorder{}, WithMaxDepth(3)).Solve(context.Background())
	assert.ErrorIs(t, err, ErrDepthExceeded)
	for i := range g.inPath {
		assert.False(t, g.inPath[i])
	}
}

func TestSolve_JournalFailureIsFatalAndNotApplied(t *testing.T) {
	g := scenarioGrid(t)
	rec := &recorder{failAt: 2}
	err := NewSolver(g, rec).Solve(context.Background())
	require.ErrorIs(t, err, errJournalDown)

	assert.Len(t, rec.entries, 1)
	assert.Equal(t, Unreached, g.Distance(Cell{1, 0}), "mutation applied without a journal record")
	assert.False(t, g.InPath(g.Start()))
}

func TestSolve_Cancelled(t *testing.T) {
	g := scenarioGrid(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewSolver(g, &recorder{}).Solve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type depthObserver struct {
	calls, max int
}

func (o *depthObserver) Relaxed(_ Entry, depth int) {
	o.calls++
	o.max = max(o.max, depth)
}

func TestSolve_StatsAndObserver(t *testing.T) {
	g := scenarioGrid(t)
	obs := &depthObserver{}
	rec := &recorder{}
	s := NewSolver(g, rec, WithObserver(obs))
	require.NoError(t, s.Solve(context.Background()))

	st := s.Stats()
	assert.Equal(t, len(rec.entries), st.Visits)
	assert.Equal(t, obs.calls, st.Visits)
	assert.Equal(t, obs.max, st.MaxDepth)
	// every open cell is lowered from Unreached at least once
	assert.GreaterOrEqual(t, st.Improvements, 10)
	assert.LessOrEqual(t, st.MaxDepth, g.Rows()*g.UsableCols())
}

func TestVisit_RejectsBarrier(t *testing.T) {
	g := scenarioGrid(t)
	err := NewSolver(g, &recorder{}).Visit(context.Background(), 0, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidMove)
}
