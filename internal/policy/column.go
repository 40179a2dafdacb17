package policy

import (
	"sort"

	"github.com/dacebt/gh-brickbreak/internal/sim"
)

// ColumnSweep clears the board column by column, left to right. The
// column set is fixed on the first pull; within the current column the
// policy re-checks live brick state each pull, so it adapts to
// out-of-order destruction inside the column and skips columns that
// were cleared from across the board. Cleared columns are never
// revisited.
type ColumnSweep struct {
	cols    []int
	started bool
}

// Next implements sim.Policy.
func (p *ColumnSweep) Next(s *sim.State) (float64, bool) {
	if !p.started {
		p.started = true
		seen := make(map[int]bool)
		for br := range s.ActiveBricks() {
			if !seen[br.Col] {
				seen[br.Col] = true
				p.cols = append(p.cols, br.Col)
			}
		}
		sort.Ints(p.cols)
	}

	for len(p.cols) > 0 {
		col := p.cols[0]
		if columnHasBricks(s, col) {
			return s.Layout().CellCenter(float64(col), 0).X, true
		}
		p.cols = p.cols[1:]
	}
	return 0, false
}

func columnHasBricks(s *sim.State, col int) bool {
	for br := range s.ActiveBricks() {
		if br.Col == col {
			return true
		}
	}
	return false
}

func init() {
	Register("column", "sweep columns left to right", func() sim.Policy {
		return &ColumnSweep{}
	})
}
