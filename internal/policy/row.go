package policy

import (
	"sort"

	"github.com/dacebt/gh-brickbreak/internal/sim"
)

// RowZigzag clears the board row by row from the bottom up, alternating
// direction per row: even rows right to left, odd rows left to right.
// On entering a row it snapshots that row's active bricks and queues
// each brick's target exactly strength times. The counts are frozen at
// row entry and never re-validated, so stray hits that damage a queued
// brick early leave surplus targets behind, and hits on bricks of later
// rows leave their queues oversized. That slack is absorbed by the
// driver's watchdogs, not corrected here.
type RowZigzag struct {
	row     int
	started bool
	queue   []float64
}

// Next implements sim.Policy.
func (p *RowZigzag) Next(s *sim.State) (float64, bool) {
	if !p.started {
		p.started = true
		p.row = s.Layout().Rows - 1
	}

	for {
		if len(p.queue) > 0 {
			target := p.queue[0]
			p.queue = p.queue[1:]
			return target, true
		}
		if p.row < 0 {
			return 0, false
		}
		p.enterRow(s)
	}
}

// enterRow snapshots the next row's active bricks into the target queue
// and moves the row cursor up.
func (p *RowZigzag) enterRow(s *sim.State) {
	row := p.row
	p.row--

	var bricks []*sim.Brick
	for br := range s.ActiveBricks() {
		if br.Row == row {
			bricks = append(bricks, br)
		}
	}
	sort.Slice(bricks, func(i, j int) bool {
		if row%2 == 0 {
			return bricks[i].Col > bricks[j].Col
		}
		return bricks[i].Col < bricks[j].Col
	})

	layout := s.Layout()
	for _, br := range bricks {
		x := layout.CellCenter(float64(br.Col), 0).X
		for range br.Strength {
			p.queue = append(p.queue, x)
		}
	}
}

func init() {
	Register("row", "zigzag rows from the bottom up", func() sim.Policy {
		return &RowZigzag{}
	})
}
