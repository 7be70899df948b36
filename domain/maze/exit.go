package maze

// LocateExit returns the first unreached border cell. It scans the first
// and last rows left to right, then the first and last columns top to
// bottom.
func LocateExit(g *Grid) (Cell, bool) {
	w := g.UsableCols()
	rows := []int{0}
	if g.rows > 1 {
		rows = append(rows, g.rows-1)
	}
	for _, r := range rows {
		for c := 0; c < w; c++ {
			if g.dist[g.index(Cell{r, c})] == Unreached {
				return Cell{r, c}, true
			}
		}
	}
	cols := []int{0}
	if w > 1 {
		cols = append(cols, w-1)
	}
	for _, c := range cols {
		for r := 0; r < g.rows; r++ {
			if g.dist[g.index(Cell{r, c})] == Unreached {
				return Cell{r, c}, true
			}
		}
	}
	return Cell{}, false
}
