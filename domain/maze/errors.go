package maze

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyMaze      = errors.New("maze: grid must have at least one row and one column")
	ErrDimensions     = errors.New("maze: cell count does not match dimensions")
	ErrNoStart        = errors.New("maze: no start cell")
	ErrMultipleStarts = errors.New("maze: more than one start cell")
	ErrOutOfBounds    = errors.New("maze: cell out of bounds")
	ErrNoExit         = errors.New("maze: no unreached border cell to use as exit")
	ErrInvalidMove    = errors.New("maze: invalid move")
	ErrDepthExceeded  = errors.New("maze: recursion depth exceeded")
	// ErrPreviousMismatch is only returned when replay verifies previous values.
	ErrPreviousMismatch = errors.New("maze: previous value does not match grid")
)

// ReplayError identifies the journal record that aborted a replay.
type ReplayError struct {
	Index int // zero-based position in the journal
	Entry Entry
	Err   error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("replay record %d %s: %v", e.Index, e.Entry, e.Err)
}

func (e *ReplayError) Unwrap() error { return e.Err }
