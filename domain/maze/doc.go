// Package maze holds the grid data model and the two ways of producing a
// solved grid: the exhaustive relaxation solver, which journals every
// distance mutation as it happens, and the replayer, which rebuilds the
// same final distances from such a journal without searching again.
package maze
