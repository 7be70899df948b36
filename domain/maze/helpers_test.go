package maze

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// recorder is an in-memory Journal that keeps every entry in order.
type recorder struct {
	entries []Entry
	failAt  int // 1-based append that fails; 0 never fails
}

var errJournalDown = errors.New("journal down")

func (r *recorder) Append(e Entry) error {
	if r.failAt > 0 && len(r.entries)+1 == r.failAt {
		return errJournalDown
	}
	r.entries = append(r.entries, e)
	return nil
}

func mustParse(t *testing.T, rows ...string) *Grid {
	t.Helper()
	g, err := Parse(strings.NewReader(strings.Join(rows, "\n") + "\n"))
	require.NoError(t, err)
	return g
}

func solve(t *testing.T, g *Grid) []Entry {
	t.Helper()
	rec := &recorder{}
	require.NoError(t, NewSolver(g, rec).Solve(context.Background()))
	return rec.entries
}

// shortest is an independent BFS reference that, like the solver, never
// expands the exit cell.
func shortest(g *Grid) []int {
	out := make([]int, len(g.dist))
	for i, d := range g.dist {
		if d == Barrier {
			out[i] = Barrier
		} else {
			out[i] = Unreached
		}
	}
	out[g.index(g.start)] = 0
	queue := []Cell{g.start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if g.hasExit && c == g.exit {
			continue
		}
		for _, d := range neighbors {
			n := Cell{c.Row + d.Row, c.Col + d.Col}
			if !g.InBounds(n) || out[g.index(n)] != Unreached {
				continue
			}
			out[g.index(n)] = out[g.index(c)] + 1
			queue = append(queue, n)
		}
	}
	return out
}
