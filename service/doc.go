// Package service wires the maze domain to its infrastructure: the
// journal, the run store and metrics.
//
// MazeService is the only entry point for both run modes. Solve loads a
// maze, runs the relaxation solver and journals every mutation; Replay
// rebuilds the solved grid from a previously written journal.
package service
