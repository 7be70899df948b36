package broadcaster

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"mazewal/infra/store"
)

// Publisher delivers one message synchronously.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
	Close() error
}

// Event is the published run summary.
type Event struct {
	V            int    `json:"v"`
	Type         string `json:"type"`
	ID           string `json:"id"`
	Maze         string `json:"maze"`
	Journal      string `json:"journal"`
	Format       string `json:"format"`
	Records      int    `json:"records"`
	Rows         int    `json:"rows"`
	Cols         int    `json:"cols"`
	ExitRow      int    `json:"exit_row"`
	ExitCol      int    `json:"exit_col"`
	ExitDistance int    `json:"exit_distance"`
	Distances    []int  `json:"distances"`
}

type Options struct {
	Interval time.Duration
	// MaxRetries failed attempts before a run is marked FAILED.
	MaxRetries uint32
	Logger     *slog.Logger
}

type Broadcaster struct {
	store      *store.RunStore
	pub        Publisher
	interval   time.Duration
	maxRetries uint32
	log        *slog.Logger
}

func New(st *store.RunStore, pub Publisher, opts Options) *Broadcaster {
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 5
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Broadcaster{
		store:      st,
		pub:        pub,
		interval:   opts.Interval,
		maxRetries: opts.MaxRetries,
		log:        opts.Logger.With("component", "broadcaster"),
	}
}

// ------------------------------------------------
// LOOP
// ------------------------------------------------

// Run drains the store every interval until ctx is done.
func (b *Broadcaster) Run(ctx context.Context) {
	b.log.Info("started", "interval", b.interval)
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := b.Drain(ctx); err != nil {
				b.log.Error("drain", "err", err)
			}
		}
	}
}

// ------------------------------------------------
// DRAIN
// ------------------------------------------------

// Drain publishes every pending run once. A failed publish leaves the run
// pending for the next drain until MaxRetries is reached. It returns the
// number of runs published.
func (b *Broadcaster) Drain(ctx context.Context) (int, error) {
	var pending []store.Run
	err := b.store.ScanByState(store.StatePending, func(r store.Run) error {
		pending = append(pending, r)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan pending runs: %w", err)
	}

	published := 0
	for _, run := range pending {
		if err := ctx.Err(); err != nil {
			return published, err
		}
		payload, err := b.event(run)
		if err != nil {
			return published, err
		}
		if err := b.pub.Publish(ctx, []byte(run.ID), payload); err != nil {
			retries := run.Retries + 1
			state := store.StatePending
			if retries >= b.maxRetries {
				state = store.StateFailed
			}
			b.log.Warn("publish failed", "run", run.ID, "retries", retries, "state", state, "err", err)
			if err := b.store.UpdateState(run.ID, state, retries); err != nil {
				return published, err
			}
			continue
		}
		if err := b.store.UpdateState(run.ID, store.StatePublished, run.Retries); err != nil {
			return published, err
		}
		b.log.Debug("published", "run", run.ID, "bytes", len(payload))
		published++
	}
	return published, nil
}

func (b *Broadcaster) event(run store.Run) ([]byte, error) {
	snap, err := b.store.Snapshot(run.ID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{
		V:            1,
		Type:         "run." + run.Mode,
		ID:           run.ID,
		Maze:         run.Maze,
		Journal:      run.Journal,
		Format:       run.Format,
		Records:      run.Records,
		Rows:         run.Rows,
		Cols:         run.Cols,
		ExitRow:      run.Exit.Row,
		ExitCol:      run.Exit.Col,
		ExitDistance: run.ExitDist,
		Distances:    snap.Distances,
	})
}

func (b *Broadcaster) Close() error {
	return b.pub.Close()
}
