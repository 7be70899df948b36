package journal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TextCodec writes one "row col previous new" line per record, base-10,
// newline-terminated, with no header or footer.
type TextCodec struct{}

func (TextCodec) Name() string { return FormatText }

func (TextCodec) Encode(dst []byte, rec Record) ([]byte, error) {
	dst = strconv.AppendInt(dst, int64(rec.Row), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(rec.Col), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(rec.Previous), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(rec.New), 10)
	return append(dst, '\n'), nil
}

func (TextCodec) NewDecoder(r io.Reader) Decoder {
	return &textDecoder{r: bufio.NewReader(r)}
}

type textDecoder struct {
	r    *bufio.Reader
	line uint64
}

func (d *textDecoder) Decode() (Record, error) {
	s, err := d.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Record{}, err
	}
	if s == "" && errors.Is(err, io.EOF) {
		return Record{}, io.EOF
	}
	d.line++
	rec, perr := parseLine(s)
	if perr != nil {
		return Record{}, fmt.Errorf("line %d %q: %w", d.line, strings.TrimRight(s, "\r\n"), perr)
	}
	rec.Seq = d.line
	return rec, nil
}

func parseLine(s string) (Record, error) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return Record{}, fmt.Errorf("%w: want 4 fields, got %d", ErrMalformedRecord, len(fields))
	}
	var v [4]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return Record{}, fmt.Errorf("%w: field %d: %v", ErrMalformedRecord, i+1, err)
		}
		v[i] = n
	}
	var rec Record
	rec.Row, rec.Col, rec.Previous, rec.New = v[0], v[1], v[2], v[3]
	return rec, nil
}
