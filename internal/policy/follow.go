package policy

import "github.com/dacebt/gh-brickbreak/internal/sim"

// Follow targets the ball's current x on every pull. Targets are sampled
// once per pull, not continuously, so a fast ball can outrun the paddle
// between pulls; the paddle lags rather than tracks. Ends once the board
// is complete.
type Follow struct{}

// Next implements sim.Policy.
func (Follow) Next(s *sim.State) (float64, bool) {
	if s.IsComplete() {
		return 0, false
	}
	return s.Ball().X, true
}

func init() {
	Register("follow", "keep the paddle under the ball", func() sim.Policy {
		return Follow{}
	})
}
