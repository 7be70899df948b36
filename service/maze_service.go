package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mazewal/domain/maze"
	"mazewal/infra/journal"
	"mazewal/infra/metrics"
	"mazewal/infra/sequence"
	"mazewal/infra/store"
)

const (
	ModeSolve  = "solve"
	ModeReplay = "replay"
)

// Options controls journaling and replay.
type Options struct {
	Codec          journal.Codec
	SyncEach       bool
	Truncate       bool
	VerifyPrevious bool
	MaxDepth       int
}

func DefaultOptions() Options {
	return Options{Codec: journal.TextCodec{}, SyncEach: true}
}

// Result is the outcome of one run.
type Result struct {
	RunID    string
	Mode     string
	Grid     *maze.Grid
	Records  int
	Solve    maze.SolveStats
	Duration time.Duration
}

type MazeService struct {
	opts    Options
	store   *store.RunStore
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewMazeService wires the service. st and m may be nil.
func NewMazeService(opts Options, st *store.RunStore, m *metrics.Metrics, log *slog.Logger) *MazeService {
	if opts.Codec == nil {
		opts.Codec = journal.TextCodec{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &MazeService{opts: opts, store: st, metrics: m, log: log}
}

// ------------------------------------------------
// SOLVE
// ------------------------------------------------

// Solve solves the maze at mazePath and writes the journal to
// journalPath. Every record is persisted before the grid changes.
func (s *MazeService) Solve(ctx context.Context, mazePath, journalPath string) (*Result, error) {
	started := time.Now()
	res := &Result{RunID: uuid.NewString(), Mode: ModeSolve}
	log := s.log.With("run", res.RunID, "mode", ModeSolve)

	g, err := maze.Load(mazePath)
	if err != nil {
		return nil, s.fail(ModeSolve, started, err)
	}
	res.Grid = g
	logGrid(log, g)

	seq, err := s.resumeSequence(journalPath)
	if err != nil {
		return nil, s.fail(ModeSolve, started, err)
	}
	w, err := journal.Create(journalPath, journal.Options{
		Codec:     s.opts.Codec,
		SyncEach:  s.opts.SyncEach,
		Truncate:  s.opts.Truncate,
		Sequencer: seq,
	})
	if err != nil {
		return nil, s.fail(ModeSolve, started, err)
	}

	var solverOpts []maze.SolverOption
	if s.opts.MaxDepth > 0 {
		solverOpts = append(solverOpts, maze.WithMaxDepth(s.opts.MaxDepth))
	}
	if s.metrics != nil {
		solverOpts = append(solverOpts, maze.WithObserver(s.metrics))
	}
	solver := maze.NewSolver(g, w, solverOpts...)

	err = solver.Solve(ctx)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	res.Records = w.Count()
	res.Solve = solver.Stats()
	if err != nil {
		return nil, s.fail(ModeSolve, started, fmt.Errorf("solve %s: %w", mazePath, err))
	}

	res.Duration = time.Since(started)
	log.Info("maze solved",
		"records", res.Records,
		"improvements", res.Solve.Improvements,
		"max_depth", res.Solve.MaxDepth,
		"duration", res.Duration)
	s.finish(log, res, mazePath, journalPath)
	return res, nil
}

// resumeSequence continues numbering after the records already in an
// existing journal that is about to be appended to.
func (s *MazeService) resumeSequence(path string) (*sequence.Sequencer, error) {
	seq := sequence.New(0)
	if s.opts.Truncate {
		return seq, nil
	}
	r, err := journal.Open(path, s.opts.Codec)
	if errors.Is(err, fs.ErrNotExist) {
		return seq, nil
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()
	for r.Next() {
		seq.Observe(r.Seq())
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("existing journal %s: %w", path, err)
	}
	return seq, nil
}

// ------------------------------------------------
// REPLAY
// ------------------------------------------------

// Replay rebuilds the solved grid from the journal at journalPath without
// searching. Replay must see the same maze that produced the journal.
func (s *MazeService) Replay(ctx context.Context, mazePath, journalPath string) (*Result, error) {
	started := time.Now()
	res := &Result{RunID: uuid.NewString(), Mode: ModeReplay}
	log := s.log.With("run", res.RunID, "mode", ModeReplay)

	g, err := maze.Load(mazePath)
	if err != nil {
		return nil, s.fail(ModeReplay, started, err)
	}
	res.Grid = g
	logGrid(log, g)

	r, err := journal.Open(journalPath, s.opts.Codec)
	if err != nil {
		return nil, s.fail(ModeReplay, started, err)
	}
	defer r.Close()

	var replayOpts []maze.ReplayOption
	if s.opts.VerifyPrevious {
		replayOpts = append(replayOpts, maze.WithVerifyPrevious())
	}
	stats, err := maze.Replay(ctx, g, r, replayOpts...)
	if s.metrics != nil {
		s.metrics.Replayed.Add(float64(stats.Applied))
	}
	if err != nil {
		return nil, s.fail(ModeReplay, started, fmt.Errorf("replay %s: %w", journalPath, err))
	}

	res.Records = stats.Applied
	res.Duration = time.Since(started)
	log.Info("journal replayed", "records", res.Records, "duration", res.Duration)
	s.finish(log, res, mazePath, journalPath)
	return res, nil
}

// ------------------------------------------------
// BOOKKEEPING
// ------------------------------------------------

func (s *MazeService) fail(mode string, started time.Time, err error) error {
	if s.metrics != nil {
		s.metrics.ObserveRun(mode, time.Since(started), err)
	}
	return err
}

// finish records a successful run. Store failures are logged only; they
// never change the outcome of the run.
func (s *MazeService) finish(log *slog.Logger, res *Result, mazePath, journalPath string) {
	if s.metrics != nil {
		s.metrics.ObserveRun(res.Mode, res.Duration, nil)
	}
	if s.store == nil {
		return
	}
	g := res.Grid
	run := store.Run{
		ID:        res.RunID,
		Mode:      res.Mode,
		Maze:      mazePath,
		Journal:   journalPath,
		Format:    s.opts.Codec.Name(),
		Records:   res.Records,
		Rows:      g.Rows(),
		Cols:      g.Cols(),
		Start:     g.Start(),
		ExitDist:  maze.Unreached,
		Duration:  res.Duration,
		CreatedAt: time.Now().UTC(),
		State:     store.StatePending,
	}
	if exit, ok := g.Exit(); ok {
		run.Exit = exit
		run.ExitDist = g.Distance(exit)
	}
	if err := s.store.Put(run, store.SnapshotOf(g)); err != nil {
		log.Error("record run", "err", err)
	}
}

func logGrid(log *slog.Logger, g *maze.Grid) {
	attrs := []any{"rows", g.Rows(), "cols", g.Cols(), "start", g.Start().String()}
	if exit, ok := g.Exit(); ok {
		attrs = append(attrs, "exit", exit.String())
	}
	log.Info("maze loaded", attrs...)
}
