package journal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

// frameHeaderSize = length(4) + CRC(4)
const frameHeaderSize = 8

// maxFramePayload bounds a single payload; a real record is a few dozen bytes.
const maxFramePayload = 1 << 16

// Payload field numbers.
const (
	fieldSeq      protowire.Number = 1
	fieldRow      protowire.Number = 2
	fieldCol      protowire.Number = 3
	fieldPrevious protowire.Number = 4
	fieldNew      protowire.Number = 5
)

// FrameCodec writes [len:4][crc32:4][payload] frames, little-endian, with
// a protobuf wire-format payload. Unknown payload fields are skipped.
type FrameCodec struct{}

func (FrameCodec) Name() string { return FormatFrame }

func (FrameCodec) Encode(dst []byte, rec Record) ([]byte, error) {
	payload := marshalPayload(nil, rec)
	var header [frameHeaderSize]byte
	binary.LittleEndian.PutUint32(header[:4], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[4:], checksum(payload))
	dst = append(dst, header[:]...)
	return append(dst, payload...), nil
}

func (FrameCodec) NewDecoder(r io.Reader) Decoder {
	return &frameDecoder{r: r}
}

func marshalPayload(b []byte, rec Record) []byte {
	b = protowire.AppendTag(b, fieldSeq, protowire.VarintType)
	b = protowire.AppendVarint(b, rec.Seq)
	for _, f := range []struct {
		num protowire.Number
		v   int
	}{
		{fieldRow, rec.Row},
		{fieldCol, rec.Col},
		{fieldPrevious, rec.Previous},
		{fieldNew, rec.New},
	} {
		b = protowire.AppendTag(b, f.num, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(f.v)))
	}
	return b
}

func unmarshalPayload(b []byte) (Record, error) {
	var rec Record
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, protowire.ParseError(n))
		}
		b = b[n:]
		if typ != protowire.VarintType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case fieldSeq:
			rec.Seq = v
		case fieldRow:
			rec.Row = int(protowire.DecodeZigZag(v))
		case fieldCol:
			rec.Col = int(protowire.DecodeZigZag(v))
		case fieldPrevious:
			rec.Previous = int(protowire.DecodeZigZag(v))
		case fieldNew:
			rec.New = int(protowire.DecodeZigZag(v))
		}
	}
	return rec, nil
}

type frameDecoder struct {
	r      io.Reader
	header [frameHeaderSize]byte
	offset int64
}

func (d *frameDecoder) Decode() (Record, error) {
	if _, err := io.ReadFull(d.r, d.header[:]); err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Record{}, fmt.Errorf("%w: torn header at offset %d", ErrCorruptRecord, d.offset)
		}
		return Record{}, err
	}
	n := binary.LittleEndian.Uint32(d.header[:4])
	if n > maxFramePayload {
		return Record{}, fmt.Errorf("%w: payload length %d at offset %d", ErrCorruptRecord, n, d.offset)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(d.r, payload); err != nil {
		if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
			return Record{}, fmt.Errorf("%w: torn payload at offset %d", ErrCorruptRecord, d.offset)
		}
		return Record{}, err
	}
	if checksum(payload) != binary.LittleEndian.Uint32(d.header[4:]) {
		return Record{}, fmt.Errorf("%w: crc mismatch at offset %d", ErrCorruptRecord, d.offset)
	}
	d.offset += int64(frameHeaderSize) + int64(n)
	return unmarshalPayload(payload)
}
