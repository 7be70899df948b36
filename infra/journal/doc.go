// Package journal implements the solve journal: an append-only log with
// one record per cell-distance mutation, written before the mutation is
// applied and read back sequentially to replay a solve.
//
// The default text codec writes "row col previous new" lines; the frame
// codec writes CRC-checked binary frames.
package journal
