package sim

import (
	"math"
	"testing"
)

func TestBallStep(t *testing.T) {
	b := Ball{X: 100, Y: 200, VX: 2.5, VY: -3, Radius: 4}
	b.Step()

	if b.X != 102.5 || b.Y != 197 {
		t.Errorf("Step() moved ball to (%g, %g), expected (102.5, 197)", b.X, b.Y)
	}

	bounds := b.Bounds()
	if bounds.MinX != 98.5 || bounds.MinY != 193 || bounds.MaxX != 106.5 || bounds.MaxY != 201 {
		t.Errorf("Bounds() = %+v, expected (98.5, 193, 106.5, 201)", bounds)
	}
}

func TestBallSpeed(t *testing.T) {
	b := Ball{VX: 3, VY: 4}
	if b.Speed() != 5 {
		t.Errorf("Speed() = %g, expected 5", b.Speed())
	}
}

func TestPaddleStep(t *testing.T) {
	tests := []struct {
		name    string
		x       float64
		target  float64
		speed   float64
		wantX   float64
		settled bool
	}{
		{name: "far target moves by speed", x: 100, target: 200, speed: 5, wantX: 105, settled: false},
		{name: "far target leftward", x: 200, target: 100, speed: 5, wantX: 195, settled: false},
		{name: "snaps when within speed", x: 100, target: 103, speed: 5, wantX: 103, settled: true},
		{name: "snaps from the left", x: 103, target: 100, speed: 5, wantX: 100, settled: true},
		{name: "already on target", x: 100, target: 100, speed: 5, wantX: 100, settled: true},
		{name: "exactly speed away snaps", x: 100, target: 105, speed: 5, wantX: 105, settled: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Paddle{X: tc.x, TargetX: tc.target, Speed: tc.speed}
			p.Step()
			if p.X != tc.wantX {
				t.Errorf("Step() left paddle at %g, expected %g", p.X, tc.wantX)
			}
			if p.Moving() == tc.settled {
				t.Errorf("Moving() = %v, expected %v", p.Moving(), !tc.settled)
			}
		})
	}
}

func TestPaddleNeverOvershoots(t *testing.T) {
	// Drive from far away and check each step never passes the target.
	p := Paddle{X: 0, TargetX: 97, Speed: 5}
	for i := 0; i < 100; i++ {
		before := p.X
		p.Step()
		if p.X > p.TargetX {
			t.Fatalf("step %d overshot: %g -> %g past target %g", i, before, p.X, p.TargetX)
		}
		if p.X == p.TargetX {
			return
		}
	}
	t.Fatalf("paddle never reached target, stuck at %g", p.X)
}

func TestPaddleMoveTo(t *testing.T) {
	p := Paddle{X: 50, TargetX: 50, Speed: 5}
	p.MoveTo(120)

	if p.X != 50 {
		t.Errorf("MoveTo moved the paddle to %g, expected it to stay at 50", p.X)
	}
	if p.TargetX != 120 {
		t.Errorf("TargetX = %g, expected 120", p.TargetX)
	}
	if !p.Moving() {
		t.Error("Moving() = false after MoveTo, expected true")
	}
}

func TestPaddleBounceVelocity(t *testing.T) {
	const speed = 3.0
	maxAngle := 60 * math.Pi / 180
	p := Paddle{X: 100, Width: 60}

	tests := []struct {
		name      string
		ballX     float64
		wantVXDir int // -1, 0, +1
	}{
		{name: "center hit goes straight up", ballX: 100, wantVXDir: 0},
		{name: "right edge angles right", ballX: 130, wantVXDir: 1},
		{name: "left edge angles left", ballX: 70, wantVXDir: -1},
		{name: "beyond right edge clamps", ballX: 500, wantVXDir: 1},
		{name: "beyond left edge clamps", ballX: -500, wantVXDir: -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			vx, vy := p.BounceVelocity(tc.ballX, speed, maxAngle)

			if vy >= 0 {
				t.Errorf("vy = %g, expected upward (negative)", vy)
			}
			switch tc.wantVXDir {
			case 0:
				if math.Abs(vx) > 1e-9 {
					t.Errorf("vx = %g, expected 0", vx)
				}
			case 1:
				if vx <= 0 {
					t.Errorf("vx = %g, expected positive", vx)
				}
			case -1:
				if vx >= 0 {
					t.Errorf("vx = %g, expected negative", vx)
				}
			}

			if mag := math.Hypot(vx, vy); math.Abs(mag-speed) > 1e-9 {
				t.Errorf("bounce speed = %g, expected %g", mag, speed)
			}
		})
	}

	// Clamped edge hits leave at exactly the maximum angle.
	vx, vy := p.BounceVelocity(500, speed, maxAngle)
	if angle := math.Atan2(vx, -vy); math.Abs(angle-maxAngle) > 1e-9 {
		t.Errorf("clamped bounce angle = %g rad, expected %g", angle, maxAngle)
	}
}

func TestBrickTakeDamage(t *testing.T) {
	br := Brick{Col: 3, Row: 2, Strength: 2, MaxStrength: 2, Level: 2}

	if destroyed := br.TakeDamage(1); destroyed {
		t.Error("first hit on strength-2 brick reported destroyed")
	}
	if br.Strength != 1 || br.Destroyed {
		t.Errorf("after first hit: strength=%d destroyed=%v, expected 1/false", br.Strength, br.Destroyed)
	}

	if destroyed := br.TakeDamage(1); !destroyed {
		t.Error("second hit did not report destroyed")
	}
	if !br.Destroyed {
		t.Error("brick not flagged destroyed at zero strength")
	}

	// Damage after destruction is a no-op and never reports destruction.
	frozen := br.Strength
	if destroyed := br.TakeDamage(1); destroyed {
		t.Error("damage on destroyed brick reported destroyed again")
	}
	if br.Strength != frozen {
		t.Errorf("strength changed after destruction: %d -> %d", frozen, br.Strength)
	}
	if !br.Destroyed {
		t.Error("destroyed flag reverted")
	}
}

func TestBrickStrengthMonotonic(t *testing.T) {
	br := Brick{Strength: 4, MaxStrength: 4, Level: 4}
	prev := br.Strength
	for i := 0; i < 10; i++ {
		br.TakeDamage(1)
		if br.Strength > prev {
			t.Fatalf("strength increased after hit %d: %d -> %d", i, prev, br.Strength)
		}
		prev = br.Strength
	}
}

func TestExplosionLifecycle(t *testing.T) {
	rng := NewSimpleRNG(7)
	e := NewExplosion(10, 20, 10, 15, 12, rng)

	if len(e.Particles) != 12 {
		t.Fatalf("particle count = %d, expected 12", len(e.Particles))
	}
	for i, p := range e.Particles {
		want := float64(i) / 12 * 2 * math.Pi
		if math.Abs(p.Angle-want) > 1e-9 {
			t.Errorf("particle %d angle = %g, expected %g", i, p.Angle, want)
		}
		if p.Speed < 0.5 || p.Speed >= 1.5 {
			t.Errorf("particle %d speed = %g, expected [0.5, 1.5)", i, p.Speed)
		}
		if p.Brightness < 0.7 || p.Brightness >= 1.0 {
			t.Errorf("particle %d brightness = %g, expected [0.7, 1.0)", i, p.Brightness)
		}
	}

	for step := 1; step <= 10; step++ {
		if e.Finished() {
			t.Fatalf("Finished() = true before step %d", step)
		}
		e.Step()
		if e.Elapsed != step {
			t.Fatalf("Elapsed = %d after step %d", e.Elapsed, step)
		}
	}
	if !e.Finished() {
		t.Error("Finished() = false after lifetime elapsed")
	}
	if e.Progress() != 1 {
		t.Errorf("Progress() = %g, expected 1", e.Progress())
	}
}

func TestExplosionParticlesDeterministic(t *testing.T) {
	a := NewExplosion(0, 0, 10, 15, 12, NewSimpleRNG(42))
	b := NewExplosion(0, 0, 10, 15, 12, NewSimpleRNG(42))

	for i := range a.Particles {
		if a.Particles[i] != b.Particles[i] {
			t.Fatalf("particle %d differs across same-seed runs: %+v vs %+v", i, a.Particles[i], b.Particles[i])
		}
	}
}
