package maze

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Maze file bytes. Anything else is an open cell.
const (
	barrierByte = 'b'
	startByte   = 's'
)

// Load reads a maze file. See Parse.
func Load(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return g, nil
}

// Parse builds a grid from one text line per row: 'b' is a barrier, 's'
// the start, everything else open. Short lines are padded with open
// cells. cols is the longest line plus its newline. Trailing blank lines
// are ignored. The exit is located before returning; a grid without one
// is still returned and reports HasExit() == false.
func Parse(r io.Reader) (*Grid, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	width := 0
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		lines = append(lines, line)
		width = max(width, len(line))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 || width == 0 {
		return nil, ErrEmptyMaze
	}

	kinds := make([]CellKind, 0, len(lines)*width)
	for _, line := range lines {
		for col := 0; col < width; col++ {
			if col >= len(line) {
				kinds = append(kinds, Open)
				continue
			}
			switch line[col] {
			case barrierByte:
				kinds = append(kinds, Wall)
			case startByte:
				kinds = append(kinds, StartCell)
			default:
				kinds = append(kinds, Open)
			}
		}
	}
	g, err := NewGrid(len(lines), width+1, kinds)
	if err != nil {
		return nil, err
	}
	if exit, ok := LocateExit(g); ok {
		if err := g.SetExit(exit); err != nil {
			return nil, err
		}
	}
	return g, nil
}
