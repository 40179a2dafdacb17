package sim

import "math"

// Snapshot is the immutable render view of one frame. It carries value
// copies only, so a renderer (or a goroutine encoding already-produced
// frames) can consume it after the simulation has moved on.
type Snapshot struct {
	Frame      int
	Ball       BallView
	Paddle     PaddleView
	Bricks     []BrickView     // Non-destroyed bricks in creation order
	Explosions []ExplosionView // Live explosions

	DestroyedBricks int
	TotalBricks     int
	Complete        bool
}

// BallView is the ball's render state.
type BallView struct {
	X, Y   float64
	Radius float64
}

// PaddleView is the paddle's render state. X is the center, Y the top.
type PaddleView struct {
	X, Y   float64
	Width  float64
	Height float64
}

// BrickView is one visible brick with enough state to fade it by damage.
type BrickView struct {
	Col, Row    int
	Strength    int
	MaxStrength int
	Level       int
	Count       int
}

// ExplosionView is one live explosion with its creation-time particles.
type ExplosionView struct {
	X, Y      float64
	Progress  float64 // Elapsed/lifetime in (0, 1)
	MaxRadius float64
	Particles []Particle
}

// Snapshot captures the current frame for rendering. The returned value
// shares nothing mutable with the simulation.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Frame: s.frames,
		Ball: BallView{
			X:      s.ball.X,
			Y:      s.ball.Y,
			Radius: s.ball.Radius,
		},
		Paddle: PaddleView{
			X:      s.paddle.X,
			Y:      s.paddle.Y,
			Width:  s.paddle.Width,
			Height: s.paddle.Height,
		},
		DestroyedBricks: s.destroyed,
		TotalBricks:     len(s.bricks),
		Complete:        s.IsComplete(),
	}

	for _, br := range s.bricks {
		if br.Destroyed {
			continue
		}
		snap.Bricks = append(snap.Bricks, BrickView{
			Col:         br.Col,
			Row:         br.Row,
			Strength:    br.Strength,
			MaxStrength: br.MaxStrength,
			Level:       br.Level,
			Count:       br.Count,
		})
	}

	for _, e := range s.explosions {
		particles := make([]Particle, len(e.Particles))
		copy(particles, e.Particles)
		snap.Explosions = append(snap.Explosions, ExplosionView{
			X:         e.X,
			Y:         e.Y,
			Progress:  e.Progress(),
			MaxRadius: e.MaxRadius,
			Particles: particles,
		})
	}

	return snap
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := uint64(snap.Frame) //#nosec G115 -- frame count is always positive
	h = h*31 + math.Float64bits(snap.Ball.X)
	h = h*31 + math.Float64bits(snap.Ball.Y)
	h = h*31 + math.Float64bits(snap.Paddle.X)
	h = h*31 + uint64(snap.DestroyedBricks) //#nosec G115 -- tally is always positive
	for _, br := range snap.Bricks {
		h = h*31 + uint64(br.Col*1000+br.Row) //#nosec G115 -- grid coordinates are non-negative
		h = h*31 + uint64(br.Strength)        //#nosec G115 -- active bricks have positive strength
	}
	for _, e := range snap.Explosions {
		h = h*31 + math.Float64bits(e.Progress)
	}
	return h
}
