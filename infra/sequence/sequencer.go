// Package sequence numbers journal records.
package sequence

import "sync/atomic"

// Sequencer stamps records with strictly increasing numbers. The first
// record of a fresh journal is 1.
type Sequencer struct {
	last atomic.Uint64
}

// New returns a sequencer whose next number is last+1.
func New(last uint64) *Sequencer {
	s := &Sequencer{}
	s.last.Store(last)
	return s
}

func (s *Sequencer) Next() uint64 {
	return s.last.Add(1)
}

// Last is the most recently issued number, 0 if none.
func (s *Sequencer) Last() uint64 {
	return s.last.Load()
}

// Observe moves the sequencer past seq, a number already present in the
// journal. It never moves backwards and reports whether seq was ahead.
func (s *Sequencer) Observe(seq uint64) bool {
	for {
		cur := s.last.Load()
		if seq <= cur {
			return false
		}
		if s.last.CompareAndSwap(cur, seq) {
			return true
		}
	}
}
