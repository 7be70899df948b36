package journal

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrMalformedRecord reports a record that cannot be parsed.
	ErrMalformedRecord = errors.New("journal: malformed record")
	// ErrCorruptRecord reports a frame whose checksum or length is wrong.
	ErrCorruptRecord = errors.New("journal: corrupted record")
	ErrUnknownCodec  = errors.New("journal: unknown codec")
	ErrClosed        = errors.New("journal: closed")
)

// Codec encodes records for the writer and decodes them for the reader.
type Codec interface {
	Name() string
	// Encode appends the encoded record to dst.
	Encode(dst []byte, rec Record) ([]byte, error)
	NewDecoder(r io.Reader) Decoder
}

// Decoder returns io.EOF once the stream ends cleanly between records.
type Decoder interface {
	Decode() (Record, error)
}

const (
	FormatText  = "text"
	FormatFrame = "frame"
)

// CodecByName resolves a configured format name.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", FormatText:
		return TextCodec{}, nil
	case FormatFrame:
		return FrameCodec{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}
