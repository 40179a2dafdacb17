package sim

import (
	"fmt"
	"iter"
	"math"

	"github.com/dacebt/gh-brickbreak/internal/config"
	"github.com/dacebt/gh-brickbreak/internal/geom"
)

// launchAngleRad is the ball's initial angle from vertical, pointing
// upward-right so the opening volley is never perfectly straight.
const launchAngleRad = 15 * math.Pi / 180

// bottomWallInset lifts the backstop wall slightly above the image's
// bottom edge so a reflected ball stays fully visible.
const bottomWallInset = 10

// Rows below the grid: the paddle sits three rows under the last brick
// row and the ball launches from the row directly above the paddle.
const (
	paddleRowOffset = 3
	ballRowOffset   = 2
)

// Events is the per-frame event record returned by Step.
type Events struct {
	WallHit   bool
	PaddleHit bool
	Brick     *Brick // Brick hit this frame, or nil
	Destroyed bool   // True if the hit destroyed the brick
}

// State owns the full simulation: one ball, one paddle, the fixed brick
// set, the live explosion collection, and the frame counter. It has
// exactly one writer (the driver calling Step); policies observe it
// read-only between targets.
type State struct {
	cfg    config.Config
	layout geom.Layout
	field  geom.Rect // Wall boundaries

	ball       Ball
	paddle     Paddle
	bricks     []*Brick
	explosions []*Explosion
	rng        *SimpleRNG

	frames    int
	destroyed int
}

// New builds a simulation from an input grid. One brick is created per
// cell with a non-zero level, in column-major order (the enumeration
// order the collision scan and the policies observe). The ball starts
// centered below the grid moving upward at the launch angle; the paddle
// starts centered one row below the ball, already settled on its target.
func New(grid Grid, cfg config.Config, seed int64) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	layout := geom.Layout{
		Cols:         grid.Cols(),
		Rows:         grid.Rows(),
		CellSize:     cfg.Geometry.CellSize,
		CellSpacing:  cfg.Geometry.CellSpacing,
		MarginTop:    cfg.Geometry.MarginTop,
		MarginBottom: cfg.Geometry.MarginBottom,
		MarginLeft:   cfg.Geometry.MarginLeft,
		MarginRight:  cfg.Geometry.MarginRight,
	}

	s := &State{
		cfg:    cfg,
		layout: layout,
		field: geom.Rect{
			MinX: layout.MarginLeft,
			MinY: layout.MarginTop,
			MaxX: layout.Width() - layout.MarginRight,
			MaxY: layout.Height() - bottomWallInset,
		},
		rng: NewSimpleRNG(seed),
	}

	for col := range grid.Cols() {
		for row := range grid.Rows() {
			cell := grid.At(col, row)
			if cell.Level == 0 {
				continue
			}
			strength, ok := cfg.StrengthForLevel(cell.Level)
			if !ok {
				return nil, fmt.Errorf("sim: cell (%d, %d) has level %d with no entry in the levels table", col, row, cell.Level)
			}
			s.bricks = append(s.bricks, &Brick{
				Col:         col,
				Row:         row,
				Strength:    strength,
				MaxStrength: strength,
				Level:       cell.Level,
				Count:       cell.Count,
			})
		}
	}

	centerCol := float64(grid.Cols()) / 2
	paddleRow := float64(grid.Rows() + paddleRowOffset)
	ballStart := layout.CellCenter(centerCol, float64(grid.Rows()+ballRowOffset))
	paddleStart := layout.CellCenter(centerCol, paddleRow)

	s.ball = Ball{
		X:      ballStart.X,
		Y:      ballStart.Y,
		VX:     cfg.Physics.BallSpeed * math.Sin(launchAngleRad),
		VY:     -cfg.Physics.BallSpeed * math.Cos(launchAngleRad),
		Radius: cfg.Physics.BallRadius,
	}
	s.paddle = Paddle{
		X:       paddleStart.X,
		TargetX: paddleStart.X,
		Y:       paddleStart.Y,
		Width:   cfg.Physics.PaddleWidth,
		Height:  cfg.Physics.PaddleHeight,
		Speed:   cfg.Physics.PaddleSpeed,
	}

	return s, nil
}

// Step advances the simulation by one frame: paddle, ball, then collision
// resolution in wall -> paddle -> brick order. A hit brick takes one unit
// of damage; destruction bumps the tally and spawns an explosion at the
// brick's pixel center. Live explosions age afterward and finished ones
// are dropped. Returns the frame's event record.
func (s *State) Step() Events {
	var ev Events

	s.paddle.Step()
	s.ball.Step()

	ev.WallHit = CollideWalls(&s.ball, s.field)
	ev.PaddleHit = CollidePaddle(&s.ball, &s.paddle, s.cfg.Physics.BallSpeed, s.cfg.MaxBounceRad())

	if br := CollideBricks(&s.ball, s.bricks, s.layout); br != nil {
		ev.Brick = br
		if br.TakeDamage(1) {
			ev.Destroyed = true
			s.destroyed++
			center := s.layout.CellCenter(float64(br.Col), float64(br.Row))
			s.explosions = append(s.explosions, NewExplosion(
				center.X, center.Y,
				s.cfg.Effects.ExplosionFrames,
				s.cfg.Effects.ExplosionRadius,
				s.cfg.Effects.ExplosionParticles,
				s.rng,
			))
		}
	}

	// Age explosions and compact the live list in place.
	live := s.explosions[:0]
	for _, e := range s.explosions {
		e.Step()
		if !e.Finished() {
			live = append(live, e)
		}
	}
	s.explosions = live

	s.frames++
	return ev
}

// SetPaddleTarget stores a new paddle target. The paddle moves toward it
// on subsequent Steps.
func (s *State) SetPaddleTarget(x float64) {
	s.paddle.MoveTo(x)
}

// PaddleReady reports whether the paddle has settled on its target and
// the next policy target can be applied.
func (s *State) PaddleReady() bool {
	return !s.paddle.Moving()
}

// IsComplete reports whether every brick is destroyed. It is recomputed
// from brick state on each call, never cached, so it is always consistent
// with the underlying data. An empty grid is complete immediately.
func (s *State) IsComplete() bool {
	for _, br := range s.bricks {
		if !br.Destroyed {
			return false
		}
	}
	return true
}

// ActiveBricks returns a lazy view over the non-destroyed bricks in
// creation order. The view reflects live state: bricks destroyed between
// pulls disappear from the next iteration.
func (s *State) ActiveBricks() iter.Seq[*Brick] {
	return func(yield func(*Brick) bool) {
		for _, br := range s.bricks {
			if br.Destroyed {
				continue
			}
			if !yield(br) {
				return
			}
		}
	}
}

// Explosions returns value copies of the live explosions.
func (s *State) Explosions() []Explosion {
	out := make([]Explosion, len(s.explosions))
	for i, e := range s.explosions {
		out[i] = *e
	}
	return out
}

// Ball returns a copy of the ball.
func (s *State) Ball() Ball {
	return s.ball
}

// Paddle returns a copy of the paddle.
func (s *State) Paddle() Paddle {
	return s.paddle
}

// Layout returns the grid-to-pixel layout shared with the renderer.
func (s *State) Layout() geom.Layout {
	return s.layout
}

// Field returns the wall boundaries the ball bounces inside.
func (s *State) Field() geom.Rect {
	return s.field
}

// FrameCount returns the number of frames stepped so far.
func (s *State) FrameCount() int {
	return s.frames
}

// DestroyedCount returns how many bricks have been destroyed.
func (s *State) DestroyedCount() int {
	return s.destroyed
}

// TotalBricks returns the fixed brick count set at construction.
func (s *State) TotalBricks() int {
	return len(s.bricks)
}
