package maze

import "fmt"

// Entry is one distance mutation: the value of (Row, Col) went from
// Previous to New.
type Entry struct {
	Row      int
	Col      int
	Previous int
	New      int
}

func (e Entry) Cell() Cell { return Cell{Row: e.Row, Col: e.Col} }

func (e Entry) String() string {
	return fmt.Sprintf("%d %d %d %d", e.Row, e.Col, e.Previous, e.New)
}
