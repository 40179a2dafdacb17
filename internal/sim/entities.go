// Package sim implements the Breakout-style contribution-clearing
// simulation: entities, collision resolution, the per-frame state
// transition, and the frame driver that couples a control policy to the
// simulation under watchdog limits. All coordinates are float64 pixels;
// positions map back to the contribution grid through geom.Layout.
package sim

import (
	"math"

	"github.com/dacebt/gh-brickbreak/internal/geom"
)

// settleEpsilon is the distance below which the paddle counts as
// stationary. Keeps floating point drift from blocking the next target.
const settleEpsilon = 0.1

// Ball is the moving ball. Position is the center; velocity is applied
// once per frame by Step.
type Ball struct {
	X, Y   float64 // Position (center)
	VX, VY float64 // Velocity per frame
	Radius float64
}

// Step advances the ball by its velocity. No bounds checking; callers
// resolve collisions afterward.
func (b *Ball) Step() {
	b.X += b.VX
	b.Y += b.VY
}

// Bounds returns the ball's axis-aligned bounding box.
func (b *Ball) Bounds() geom.Rect {
	return geom.Rect{
		MinX: b.X - b.Radius,
		MinY: b.Y - b.Radius,
		MaxX: b.X + b.Radius,
		MaxY: b.Y + b.Radius,
	}
}

// Speed returns the velocity magnitude. Wall and paddle bounces conserve
// it; brick bounces flip one axis sign, which also conserves it.
func (b *Ball) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}

// Paddle is the policy-driven paddle. X is the center; Y is the top edge.
type Paddle struct {
	X       float64 // Center position
	TargetX float64
	Y       float64 // Top edge, fixed after construction
	Width   float64
	Height  float64
	Speed   float64 // Max horizontal pixels per frame
}

// MoveTo stores a new target position. The paddle does not move until
// the next Step.
func (p *Paddle) MoveTo(x float64) {
	p.TargetX = x
}

// Step moves the paddle at most Speed pixels toward its target, snapping
// exactly onto the target once within Speed of it so it never oscillates.
func (p *Paddle) Step() {
	if math.Abs(p.X-p.TargetX) > p.Speed {
		if p.TargetX > p.X {
			p.X += p.Speed
		} else {
			p.X -= p.Speed
		}
		return
	}
	p.X = p.TargetX
}

// Moving reports whether the paddle is still traveling toward its target.
func (p *Paddle) Moving() bool {
	return math.Abs(p.X-p.TargetX) > settleEpsilon
}

// Bounds returns the paddle's axis-aligned bounding box.
func (p *Paddle) Bounds() geom.Rect {
	half := p.Width / 2
	return geom.Rect{
		MinX: p.X - half,
		MinY: p.Y,
		MaxX: p.X + half,
		MaxY: p.Y + p.Height,
	}
}

// BounceVelocity computes the ball velocity after a paddle hit. The hit
// offset from the paddle center is normalized and clamped to [-1, 1],
// then mapped linearly to maxAngleRad from vertical. The result always
// points upward: center hits go straight up, edge hits at the full angle.
func (p *Paddle) BounceVelocity(ballX, ballSpeed, maxAngleRad float64) (vx, vy float64) {
	offset := geom.Clamp((ballX-p.X)/(p.Width/2), -1, 1)
	angle := offset * maxAngleRad
	vx = ballSpeed * math.Sin(angle)
	vy = -math.Abs(ballSpeed * math.Cos(angle))
	return vx, vy
}

// Brick is one contribution cell turned into a destructible brick.
// Bricks are flagged destroyed, never removed from the owning slice, so
// grid positions stay addressable for the whole run.
type Brick struct {
	Col, Row    int
	Strength    int // Remaining hits
	MaxStrength int
	Level       int // Contribution level (1-4), selects the render color
	Count       int // Raw contribution count, display only
	Destroyed   bool
}

// TakeDamage reduces the brick's strength and reports whether this hit
// destroyed it. Damage on an already-destroyed brick is a no-op; strength
// never increases and the destroyed flag never reverts.
func (br *Brick) TakeDamage(amount int) bool {
	if br.Destroyed {
		return false
	}
	br.Strength -= amount
	if br.Strength <= 0 {
		br.Destroyed = true
		return true
	}
	return false
}

// Bounds returns the brick's pixel rectangle in the given layout.
func (br *Brick) Bounds(l geom.Layout) geom.Rect {
	return l.CellRect(br.Col, br.Row)
}

// Particle is one explosion fragment: a direction, a radial speed factor
// and a brightness, all fixed at creation.
type Particle struct {
	Angle      float64
	Speed      float64 // Radial expansion factor in [0.5, 1.5)
	Brightness float64 // In [0.7, 1.0)
}

// Explosion is the transient effect spawned at a destroyed brick's pixel
// center. It ages one frame per Step and is dropped from the live
// collection the frame its counter reaches Lifetime.
type Explosion struct {
	X, Y      float64
	Lifetime  int // Total frames the effect lasts
	Elapsed   int
	MaxRadius float64
	Particles []Particle
}

// NewExplosion creates an explosion with particles spread evenly around
// the circle. Speed and brightness jitter comes from the simulation's
// seeded RNG, keeping runs reproducible.
func NewExplosion(x, y float64, lifetime int, maxRadius float64, particles int, rng *SimpleRNG) *Explosion {
	ps := make([]Particle, particles)
	for i := range ps {
		ps[i] = Particle{
			Angle:      float64(i) / float64(particles) * 2 * math.Pi,
			Speed:      0.5 + rng.Float64(),
			Brightness: 0.7 + 0.3*rng.Float64(),
		}
	}
	return &Explosion{
		X:         x,
		Y:         y,
		Lifetime:  lifetime,
		MaxRadius: maxRadius,
		Particles: ps,
	}
}

// Step advances the explosion by one frame.
func (e *Explosion) Step() {
	e.Elapsed++
}

// Finished reports whether the explosion has run its full lifetime.
func (e *Explosion) Finished() bool {
	return e.Elapsed >= e.Lifetime
}

// Progress returns the animation progress in [0, 1].
func (e *Explosion) Progress() float64 {
	return float64(e.Elapsed) / float64(e.Lifetime)
}
