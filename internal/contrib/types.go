// Package contrib fetches and models GitHub contribution calendars: the
// GraphQL client, the JSON cache format, and the conversion into the
// simulation's input grid.
package contrib

import (
	"fmt"

	"github.com/dacebt/gh-brickbreak/internal/sim"
)

// Day is one calendar day. Level is the quartile bucket 0-4 GitHub
// assigns relative to the user's own activity; Count is the raw
// contribution count.
type Day struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// Week is one calendar column. The first and last week of a year window
// may hold fewer than seven days.
type Week struct {
	Days []Day `json:"days"`
}

// Calendar is a user's contribution calendar for the trailing year, in
// the shape it is cached on disk and in the database.
type Calendar struct {
	Username  string `json:"username"`
	Total     int    `json:"total_contributions"`
	Weeks     []Week `json:"weeks"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Grid converts the calendar into the simulation's input grid: one
// column per week, one row per weekday. Short first and last weeks are
// padded with empty cells so the grid stays rectangular.
func (c *Calendar) Grid() (sim.Grid, error) {
	if len(c.Weeks) == 0 {
		return sim.Grid{}, fmt.Errorf("contrib: calendar for %q has no weeks", c.Username)
	}

	rows := 0
	for _, w := range c.Weeks {
		if len(w.Days) > rows {
			rows = len(w.Days)
		}
	}
	if rows == 0 {
		return sim.Grid{}, fmt.Errorf("contrib: calendar for %q has no days", c.Username)
	}

	cells := make([][]sim.Cell, len(c.Weeks))
	for col, w := range c.Weeks {
		cells[col] = make([]sim.Cell, rows)
		for row, d := range w.Days {
			cells[col][row] = sim.Cell{Level: d.Level, Count: d.Count}
		}
	}
	return sim.NewGrid(cells)
}
