// Command mazewal solves a text maze while journaling every distance
// update, or rebuilds the solved maze from such a journal.
//
//	mazewal -i maze.txt -o journal.log   solve and write the journal
//	mazewal -i maze.txt -j journal.log   replay the journal
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"mazewal/infra/config"
	"mazewal/infra/journal"
	"mazewal/infra/kafka"
	"mazewal/infra/metrics"
	"mazewal/infra/store"
	"mazewal/jobs/broadcaster"
	"mazewal/render"
	"mazewal/service"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	cfg config.Config

	input      string
	journalOut string
	journalIn  string
	pngPath    string
	cellPixels int
	quiet      bool
}

var errUsage = errors.New("usage")

// parseArgs loads the environment configuration and layers flags on top.
func parseArgs(fs *flag.FlagSet, args []string) (options, error) {
	cfg, err := config.Parse()
	if err != nil {
		return options{}, err
	}
	o := options{cfg: cfg}
	fs.StringVar(&o.input, "i", "", "maze input file")
	fs.StringVar(&o.journalOut, "o", "", "solve the maze and write the journal to this file")
	fs.StringVar(&o.journalIn, "j", "", "rebuild the solved maze from this journal")
	fs.StringVar(&o.pngPath, "png", "", "also write a PNG heat map of the solved maze")
	fs.IntVar(&o.cellPixels, "cell", 16, "PNG pixels per maze cell")
	fs.BoolVar(&o.quiet, "q", false, "do not print the solved maze")
	fs.StringVar(&o.cfg.JournalFormat, "format", cfg.JournalFormat, "journal format: text or frame")
	fs.BoolVar(&o.cfg.JournalTruncate, "truncate", cfg.JournalTruncate, "truncate the journal instead of appending")
	fs.BoolVar(&o.cfg.VerifyPrevious, "verify-previous", cfg.VerifyPrevious, "fail replay when a record's previous value disagrees with the grid")
	fs.IntVar(&o.cfg.MaxDepth, "max-depth", cfg.MaxDepth, "abort the solve past this path length (0 = unbounded)")
	fs.StringVar(&o.cfg.StoreDir, "store", cfg.StoreDir, "pebble directory for run records")
	fs.StringVar(&o.cfg.MetricsFile, "metrics", cfg.MetricsFile, "write prometheus metrics to this textfile")
	fs.StringVar(&o.cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return options{}, fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	if o.input == "" {
		return options{}, fmt.Errorf("%w: an input maze is required: -i <file>", errUsage)
	}
	if (o.journalOut == "") == (o.journalIn == "") {
		return options{}, fmt.Errorf("%w: specify exactly one of -o <journal> or -j <journal>", errUsage)
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mazewal", flag.ContinueOnError)
	fs.SetOutput(stderr)
	o, err := parseArgs(fs, args)
	if err != nil {
		fmt.Fprintf(stderr, "mazewal: %v\n", err)
		if errors.Is(err, errUsage) {
			return exitUsage
		}
		return exitFatal
	}
	log, err := o.cfg.NewLogger(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "mazewal: %v\n", err)
		return exitUsage
	}
	codec, err := journal.CodecByName(o.cfg.JournalFormat)
	if err != nil {
		fmt.Fprintf(stderr, "mazewal: %v\n", err)
		return exitUsage
	}

	// ---------------- Store ----------------

	var st *store.RunStore
	switch {
	case o.cfg.StoreDir != "":
		st, err = store.Open(o.cfg.StoreDir)
	case len(o.cfg.PublishBrokers) > 0:
		st, err = store.OpenInMemory()
	}
	if err != nil {
		log.Error("open run store", "err", err)
		return exitFatal
	}
	if st != nil {
		defer st.Close()
	}

	// ---------------- Service ----------------

	m := metrics.New()
	svc := service.NewMazeService(service.Options{
		Codec:          codec,
		SyncEach:       o.cfg.JournalSync,
		Truncate:       o.cfg.JournalTruncate,
		VerifyPrevious: o.cfg.VerifyPrevious,
		MaxDepth:       o.cfg.MaxDepth,
	}, st, m, log)

	var res *service.Result
	if o.journalOut != "" {
		res, err = svc.Solve(ctx, o.input, o.journalOut)
	} else {
		res, err = svc.Replay(ctx, o.input, o.journalIn)
	}
	defer writeMetrics(log, m, o.cfg.MetricsFile)
	if err != nil {
		log.Error("run failed", "err", err)
		return exitFatal
	}

	// ---------------- Output ----------------

	if !o.quiet {
		if err := render.Text(stdout, res.Grid); err != nil {
			log.Error("print maze", "err", err)
			return exitFatal
		}
	}
	if o.pngPath != "" {
		if err := writePNG(o.pngPath, res, o.cellPixels); err != nil {
			log.Error("write png", "path", o.pngPath, "err", err)
			return exitFatal
		}
	}

	// ---------------- Publish ----------------

	if len(o.cfg.PublishBrokers) > 0 {
		publish(ctx, log, st, o.cfg)
	}
	return exitOK
}

func writePNG(path string, res *service.Result, cellPixels int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.PNG(f, res.Grid, cellPixels); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeMetrics(log *slog.Logger, m *metrics.Metrics, path string) {
	if path == "" {
		return
	}
	if err := m.WriteTextfile(path); err != nil {
		log.Warn("write metrics", "path", path, "err", err)
	}
}

// publish drains pending runs once. Failures are logged; the run itself
// already succeeded.
func publish(ctx context.Context, log *slog.Logger, st *store.RunStore, cfg config.Config) {
	pub, err := newPublisher(cfg)
	if err != nil {
		log.Warn("publisher", "err", err)
		return
	}
	bc := broadcaster.New(st, pub, broadcaster.Options{
		MaxRetries: cfg.PublishRetryMax,
		Logger:     log,
	})
	defer bc.Close()

	ctx, cancel := context.WithTimeout(ctx, cfg.PublishTimeout)
	defer cancel()
	n, err := bc.Drain(ctx)
	if err != nil {
		log.Warn("publish runs", "err", err)
	}
	log.Info("runs published", "count", n, "topic", cfg.PublishTopic)
}

func newPublisher(cfg config.Config) (broadcaster.Publisher, error) {
	switch cfg.PublishDriver {
	case "sarama":
		return broadcaster.NewSaramaPublisher(cfg.PublishBrokers, cfg.PublishTopic)
	case "kafka-go":
		return kafka.NewProducer(kafka.Config{
			Brokers:      cfg.PublishBrokers,
			Topic:        cfg.PublishTopic,
			WriteTimeout: cfg.PublishTimeout,
		}), nil
	}
	return nil, fmt.Errorf("unknown publish driver %q", cfg.PublishDriver)
}
