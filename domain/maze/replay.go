package maze

import (
	"context"
	"fmt"
)

// EntrySource yields journal entries in persisted order. Next returns
// false at the end of the stream or on error; Err tells the two apart.
type EntrySource interface {
	Next() bool
	Entry() Entry
	Err() error
}

type ReplayStats struct {
	Applied int
}

type replayConfig struct {
	verifyPrevious bool
}

type ReplayOption func(*replayConfig)

// WithVerifyPrevious rejects records whose Previous value differs from the
// grid's current value. Without it Previous is carried for auditing only.
func WithVerifyPrevious() ReplayOption {
	return func(c *replayConfig) { c.verifyPrevious = true }
}

// Replay applies every entry of src to g in order. Each target must be a
// valid move (in bounds and not a barrier; replay never marks cells
// in-path) and its new distance must be non-negative, and zero on the
// start cell. The first invalid or unreadable record aborts the replay and
// leaves g unusable.
func Replay(ctx context.Context, g *Grid, src EntrySource, opts ...ReplayOption) (ReplayStats, error) {
	var cfg replayConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	var stats ReplayStats
	for src.Next() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		e := src.Entry()
		c := e.Cell()
		if !g.ValidMove(c) {
			return stats, &ReplayError{Index: stats.Applied, Entry: e, Err: ErrInvalidMove}
		}
		// A journaled distance is never negative and the start stays 0.
		if e.New < 0 || (c == g.start && e.New != 0) {
			return stats, &ReplayError{
				Index: stats.Applied,
				Entry: e,
				Err:   fmt.Errorf("%w: distance %d", ErrInvalidMove, e.New),
			}
		}
		i := g.index(c)
		if cfg.verifyPrevious && g.dist[i] != e.Previous {
			return stats, &ReplayError{
				Index: stats.Applied,
				Entry: e,
				Err:   fmt.Errorf("%w: grid has %d", ErrPreviousMismatch, g.dist[i]),
			}
		}
		g.dist[i] = e.New
		stats.Applied++
	}
	if err := src.Err(); err != nil {
		return stats, fmt.Errorf("read journal after %d records: %w", stats.Applied, err)
	}
	return stats, nil
}

// SliceSource adapts an in-memory slice of entries to EntrySource.
type SliceSource struct {
	entries []Entry
	pos     int
}

func NewSliceSource(entries []Entry) *SliceSource {
	return &SliceSource{entries: entries}
}

func (s *SliceSource) Next() bool {
	if s.pos >= len(s.entries) {
		return false
	}
	s.pos++
	return true
}

func (s *SliceSource) Entry() Entry { return s.entries[s.pos-1] }

func (s *SliceSource) Err() error { return nil }
