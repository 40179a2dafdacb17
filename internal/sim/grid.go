package sim

import "fmt"

// Cell is one grid cell of the input intensity grid. Level 0 means no
// brick; Count is the raw magnitude kept for display only.
type Cell struct {
	Level int
	Count int
}

// Grid is the rectangular input grid, indexed by (column, row). Columns
// are contribution weeks, rows are weekdays. Immutable after construction.
type Grid struct {
	cells [][]Cell // cells[col][row]
	cols  int
	rows  int
}

// NewGrid validates and wraps a column-major cell matrix. Every column
// must have the same number of rows, and levels and counts must not be
// negative. Level range against the configured table is checked when the
// simulation is built, since the table is configuration.
func NewGrid(cells [][]Cell) (Grid, error) {
	if len(cells) == 0 {
		return Grid{}, fmt.Errorf("sim: grid must have at least one column")
	}
	rows := len(cells[0])
	if rows == 0 {
		return Grid{}, fmt.Errorf("sim: grid must have at least one row")
	}
	for col, c := range cells {
		if len(c) != rows {
			return Grid{}, fmt.Errorf("sim: grid is not rectangular: column %d has %d rows, expected %d", col, len(c), rows)
		}
		for row, cell := range c {
			if cell.Level < 0 {
				return Grid{}, fmt.Errorf("sim: cell (%d, %d) has negative level %d", col, row, cell.Level)
			}
			if cell.Count < 0 {
				return Grid{}, fmt.Errorf("sim: cell (%d, %d) has negative count %d", col, row, cell.Count)
			}
		}
	}
	return Grid{cells: cells, cols: len(cells), rows: rows}, nil
}

// Cols returns the number of columns.
func (g Grid) Cols() int {
	return g.cols
}

// Rows returns the number of rows.
func (g Grid) Rows() int {
	return g.rows
}

// At returns the cell at (col, row).
func (g Grid) At(col, row int) Cell {
	return g.cells[col][row]
}
