// Package render prints solved grids as aligned text and as PNG heat maps.
package render

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"mazewal/domain/maze"
)

// UnreachableValue is printed in place of maze.Unreached.
const UnreachableValue = 404

// cellWidth is the right-aligned width of every column but the first.
// Values of four or more characters are printed unpadded, so a wide value
// runs into its left neighbour.
const cellWidth = 5

// Text writes one line per row. The first column is unpadded, the rest are
// right-aligned to cellWidth. The grid is not modified.
func Text(w io.Writer, g *maze.Grid) error {
	bw := bufio.NewWriter(w)
	for r := 0; r < g.Rows(); r++ {
		for c, d := range g.Row(r) {
			if d == maze.Unreached {
				d = UnreachableValue
			}
			s := strconv.Itoa(d)
			if c > 0 && len(s) < cellWidth-1 {
				bw.WriteString(strings.Repeat(" ", cellWidth-len(s)))
			}
			bw.WriteString(s)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
