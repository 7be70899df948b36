// Package store keeps a durable record of every solve or replay run, and
// a snapshot of the grid it produced, in a pebble database. The
// broadcaster scans it for runs that have not been published yet.
package store

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"mazewal/domain/maze"
)

// -------------------- State --------------------

type RunState uint8

const (
	StatePending RunState = iota
	StatePublished
	StateFailed
)

func (s RunState) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StatePublished:
		return "PUBLISHED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// -------------------- Records --------------------

// Run describes one completed solve or replay.
type Run struct {
	ID        string
	Mode      string // "solve" or "replay"
	Maze      string
	Journal   string
	Format    string
	Records   int
	Rows      int
	Cols      int
	Start     maze.Cell
	Exit      maze.Cell
	ExitDist  int
	Duration  time.Duration
	CreatedAt time.Time

	State       RunState
	Retries     uint32
	LastAttempt int64
}

// Snapshot is the solved distance grid of a run.
type Snapshot struct {
	Rows      int
	Cols      int
	Distances []int
}

// SnapshotOf copies g's distances.
func SnapshotOf(g *maze.Grid) Snapshot {
	return Snapshot{Rows: g.Rows(), Cols: g.Cols(), Distances: g.Distances()}
}

var ErrNotFound = errors.New("store: run not found")

// -------------------- Store --------------------

type RunStore struct {
	db *pebble.DB
}

// Open opens (or creates) the store in dir.
func Open(dir string) (*RunStore, error) {
	return open(dir, &pebble.Options{})
}

// OpenInMemory is backed by an in-memory filesystem; nothing survives Close.
func OpenInMemory() (*RunStore, error) {
	return open("", &pebble.Options{FS: vfs.NewMem()})
}

func open(dir string, opts *pebble.Options) (*RunStore, error) {
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	return &RunStore{db: db}, nil
}

func (s *RunStore) Close() error {
	return s.db.Close()
}

// Put writes the run and its grid snapshot in one synced batch.
func (s *RunStore) Put(run Run, snap Snapshot) error {
	runVal, err := encode(run)
	if err != nil {
		return err
	}
	snapVal, err := encode(snap)
	if err != nil {
		return err
	}
	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Set(runKey(run.ID), runVal, nil); err != nil {
		return err
	}
	if err := b.Set(gridKey(run.ID), snapVal, nil); err != nil {
		return err
	}
	return b.Commit(pebble.Sync)
}

func (s *RunStore) Get(id string) (Run, error) {
	var run Run
	err := s.get(runKey(id), &run)
	return run, err
}

func (s *RunStore) Snapshot(id string) (Snapshot, error) {
	var snap Snapshot
	err := s.get(gridKey(id), &snap)
	return snap, err
}

// UpdateState records a publish attempt.
func (s *RunStore) UpdateState(id string, state RunState, retries uint32) error {
	run, err := s.Get(id)
	if err != nil {
		return err
	}
	run.State = state
	run.Retries = retries
	run.LastAttempt = time.Now().UnixNano()
	val, err := encode(run)
	if err != nil {
		return err
	}
	return s.db.Set(runKey(id), val, pebble.Sync)
}

// Delete removes a run and its snapshot.
func (s *RunStore) Delete(id string) error {
	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Delete(runKey(id), nil); err != nil {
		return err
	}
	if err := b.Delete(gridKey(id), nil); err != nil {
		return err
	}
	return b.Commit(pebble.Sync)
}

// -------------------- Scan --------------------

// ScanByState calls fn for every run in the given state, in key order.
// fn must not write to the store; collect ids and update afterwards.
func (s *RunStore) ScanByState(state RunState, fn func(Run) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(runPrefix),
		UpperBound: []byte(runPrefix + "~"),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var run Run
		if err := gob.NewDecoder(bytes.NewReader(iter.Value())).Decode(&run); err != nil {
			return fmt.Errorf("decode %s: %w", iter.Key(), err)
		}
		if run.State != state {
			continue
		}
		if err := fn(run); err != nil {
			return err
		}
	}
	return iter.Error()
}

// -------------------- Helpers --------------------

const (
	runPrefix  = "run/"
	gridPrefix = "grid/"
)

func runKey(id string) []byte  { return []byte(runPrefix + id) }
func gridKey(id string) []byte { return []byte(gridPrefix + id) }

func (s *RunStore) get(key []byte, into any) error {
	val, closer, err := s.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return err
	}
	defer closer.Close()
	return gob.NewDecoder(bytes.NewReader(val)).Decode(into)
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
