package journal

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"mazewal/domain/maze"
	"mazewal/infra/sequence"
)

// Options configures a journal writer.
type Options struct {
	Codec Codec
	// SyncEach fsyncs after every record. Without it a record is only
	// flushed to the OS before Append returns.
	SyncEach bool
	// Truncate starts from an empty file instead of appending.
	Truncate bool
	// Sequencer stamps records; a fresh one starting at 0 is used if nil.
	Sequencer *sequence.Sequencer
}

// DefaultOptions: text format, fsync per record, append to existing file.
func DefaultOptions() Options {
	return Options{Codec: TextCodec{}, SyncEach: true}
}

// Writer holds one append handle open for the whole solve. Every Append
// is written through before it returns, so a record is never lost once
// the solver has applied its mutation.
type Writer struct {
	path     string
	file     *os.File
	buf      *bufio.Writer
	codec    Codec
	seq      *sequence.Sequencer
	syncEach bool
	scratch  []byte
	count    int
}

// Create opens (or creates) the journal at path for appending.
func Create(path string, opts Options) (*Writer, error) {
	if opts.Codec == nil {
		opts.Codec = TextCodec{}
	}
	if opts.Sequencer == nil {
		opts.Sequencer = sequence.New(0)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if opts.Truncate {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &Writer{
		path:     path,
		file:     f,
		buf:      bufio.NewWriterSize(f, 4096),
		codec:    opts.Codec,
		seq:      opts.Sequencer,
		syncEach: opts.SyncEach,
	}, nil
}

// Append persists one record. It implements maze.Journal.
func (w *Writer) Append(e maze.Entry) error {
	if w.file == nil {
		return ErrClosed
	}
	data, err := w.codec.Encode(w.scratch[:0], Record{Seq: w.seq.Next(), Entry: e})
	if err != nil {
		return err
	}
	w.scratch = data
	if _, err := w.buf.Write(data); err != nil {
		return err
	}
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if w.syncEach {
		if err := w.file.Sync(); err != nil {
			return err
		}
	}
	w.count++
	return nil
}

// Count returns the number of records appended through this writer.
func (w *Writer) Count() int { return w.count }

func (w *Writer) Path() string { return w.path }

func (w *Writer) Sync() error {
	if w.file == nil {
		return ErrClosed
	}
	if err := w.buf.Flush(); err != nil {
		return err
	}
	return w.file.Sync()
}

func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.Sync()
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	w.file = nil
	return err
}
