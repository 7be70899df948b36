package journal

import (
	"mazewal/domain/maze"
	"mazewal/infra/sequence"
)

// Memory is an ordered in-memory journal for callers that do not need
// durability. It implements maze.Journal.
type Memory struct {
	seq     *sequence.Sequencer
	records []Record
}

func NewMemory() *Memory {
	return &Memory{seq: sequence.New(0)}
}

func (m *Memory) Append(e maze.Entry) error {
	m.records = append(m.records, Record{Seq: m.seq.Next(), Entry: e})
	return nil
}

func (m *Memory) Len() int { return len(m.records) }

func (m *Memory) Records() []Record {
	return append([]Record(nil), m.records...)
}

func (m *Memory) Entries() []maze.Entry {
	out := make([]maze.Entry, len(m.records))
	for i, r := range m.records {
		out[i] = r.Entry
	}
	return out
}

// Source returns a fresh maze.EntrySource over the records appended so far.
func (m *Memory) Source() maze.EntrySource {
	return maze.NewSliceSource(m.Entries())
}
