package journal

import (
	"errors"
	"fmt"
	"io"
	"os"

	"mazewal/domain/maze"
)

// Reader iterates journal records in persisted order. It implements
// maze.EntrySource.
type Reader struct {
	file io.Closer
	dec  Decoder
	rec  Record
	err  error
	n    int
}

// Open opens the journal at path for sequential reading.
func Open(path string, codec Codec) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	r := NewReader(f, codec)
	r.file = f
	return r, nil
}

// NewReader reads records from src. Close does not close src.
func NewReader(src io.Reader, codec Codec) *Reader {
	if codec == nil {
		codec = TextCodec{}
	}
	return &Reader{dec: codec.NewDecoder(src)}
}

// Next advances to the next record. It returns false at the end of the
// journal or on the first bad record; Err distinguishes the two.
func (r *Reader) Next() bool {
	if r.err != nil || r.dec == nil {
		return false
	}
	rec, err := r.dec.Decode()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.err = fmt.Errorf("record %d: %w", r.n+1, err)
		}
		r.dec = nil
		return false
	}
	r.rec = rec
	r.n++
	return true
}

func (r *Reader) Record() Record { return r.rec }

func (r *Reader) Entry() maze.Entry { return r.rec.Entry }

func (r *Reader) Seq() uint64 { return r.rec.Seq }

// Count is the number of records read so far.
func (r *Reader) Count() int { return r.n }

// Err returns the first non-EOF error.
func (r *Reader) Err() error { return r.err }

func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// ReadAll drains a journal into memory.
func ReadAll(path string, codec Codec) ([]Record, error) {
	r, err := Open(path, codec)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	var out []Record
	for r.Next() {
		out = append(out, r.Record())
	}
	return out, r.Err()
}
