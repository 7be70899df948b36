package maze

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplay_EquivalentToSolve(t *testing.T) {
	mazes := [][]string{
		{"sb..", "....", "...."},
		{"s.b.", "..b.", "bbb."},
		{"....", ".bb.", "..s."},
	}
	for _, rows := range mazes {
		solved := mustParse(t, rows...)
		entries := solve(t, solved)

		fresh := mustParse(t, rows...)
		stats, err := Replay(context.Background(), fresh, NewSliceSource(entries))
		require.NoError(t, err)
		assert.Equal(t, len(entries), stats.Applied)
		assert.True(t, solved.Equal(fresh), "%v: replay %v != solve %v", rows, fresh.Distances(), solved.Distances())
		assert.Equal(t, 0, fresh.Distance(fresh.Start()))
	}
}

func TestReplay_Idempotent(t *testing.T) {
	entries := solve(t, scenarioGrid(t))

	a, b := scenarioGrid(t), scenarioGrid(t)
	_, err := Replay(context.Background(), a, NewSliceSource(entries))
	require.NoError(t, err)
	_, err = Replay(context.Background(), b, NewSliceSource(entries))
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestReplay_BarrierTargetIsFatal(t *testing.T) {
	g := scenarioGrid(t)
	entries := []Entry{
		{Row: 1, Col: 0, Previous: Unreached, New: 1},
		{Row: 0, Col: 1, Previous: Barrier, New: 3},
		{Row: 1, Col: 1, Previous: Unreached, New: 2},
	}
	stats, err := Replay(context.Background(), g, NewSliceSource(entries))
	require.ErrorIs(t, err, ErrInvalidMove)

	var re *ReplayError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 1, re.Index)
	assert.Equal(t, entries[1], re.Entry)
	assert.Equal(t, 1, stats.Applied)
	assert.Equal(t, Barrier, g.Distance(Cell{0, 1}))
	assert.Equal(t, Unreached, g.Distance(Cell{1, 1}), "replay continued past a fatal record")
}

func TestReplay_OutOfBoundsIsFatal(t *testing.T) {
	for _, e := range []Entry{
		{Row: -1, Col: 0},
		{Row: 3, Col: 0},
		{Row: 0, Col: 4}, // the trailing column
		{Row: 0, Col: -1},
	} {
		_, err := Replay(context.Background(), scenarioGrid(t), NewSliceSource([]Entry{e}))
		assert.ErrorIs(t, err, ErrInvalidMove, "%v", e)
	}
}

func TestReplay_RejectsForgedDistances(t *testing.T) {
	for name, entries := range map[string][]Entry{
		"barrier value on open cell": {{Row: 1, Col: 0, Previous: Unreached, New: Barrier}},
		"negative distance":          {{Row: 1, Col: 1, Previous: Unreached, New: -5}},
		"start moved off zero":       {{Row: 0, Col: 0, Previous: 0, New: 7}},
	} {
		t.Run(name, func(t *testing.T) {
			g := scenarioGrid(t)
			before := g.Distances()

			_, err := Replay(context.Background(), g, NewSliceSource(entries))
			require.ErrorIs(t, err, ErrInvalidMove)

			var re *ReplayError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, 0, re.Index)
			assert.Equal(t, before, g.Distances(), "rejected record was applied")
		})
	}
}

func TestReplay_PreviousIsAuditOnly(t *testing.T) {
	g := scenarioGrid(t)
	entries := []Entry{{Row: 1, Col: 0, Previous: 42, New: 1}}

	_, err := Replay(context.Background(), g, NewSliceSource(entries))
	require.NoError(t, err)
	assert.Equal(t, 1, g.Distance(Cell{1, 0}))

	_, err = Replay(context.Background(), scenarioGrid(t), NewSliceSource(entries), WithVerifyPrevious())
	assert.ErrorIs(t, err, ErrPreviousMismatch)
}

func TestReplay_VerifyPreviousAcceptsSolvedJournal(t *testing.T) {
	entries := solve(t, scenarioGrid(t))
	_, err := Replay(context.Background(), scenarioGrid(t), NewSliceSource(entries), WithVerifyPrevious())
	assert.NoError(t, err)
}

type brokenSource struct {
	SliceSource
	err error
}

func (b *brokenSource) Err() error { return b.err }

func TestReplay_SourceErrorIsFatal(t *testing.T) {
	bad := errors.New("malformed")
	src := &brokenSource{
		SliceSource: *NewSliceSource([]Entry{{Row: 1, Col: 0, Previous: Unreached, New: 1}}),
		err:         bad,
	}
	stats, err := Replay(context.Background(), scenarioGrid(t), src)
	assert.ErrorIs(t, err, bad)
	assert.Equal(t, 1, stats.Applied)
}

func TestReplay_EmptyJournal(t *testing.T) {
	g := scenarioGrid(t)
	before := g.Distances()
	stats, err := Replay(context.Background(), g, NewSliceSource(nil))
	require.NoError(t, err)
	assert.Zero(t, stats.Applied)
	assert.Equal(t, before, g.Distances())
}
