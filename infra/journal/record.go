package journal

import "mazewal/domain/maze"

// Record is a journal entry plus the sequence number it was written with.
// The text codec does not persist Seq; its reader numbers records by line.
type Record struct {
	Seq uint64
	maze.Entry
}
