package sim

import (
	"math"
	"testing"

	"github.com/dacebt/gh-brickbreak/internal/geom"
)

func testField() geom.Rect {
	return geom.Rect{MinX: 50, MinY: 50, MaxX: 950, MaxY: 500}
}

func TestCollideWalls(t *testing.T) {
	field := testField()

	tests := []struct {
		name   string
		ball   Ball
		hit    bool
		wantX  float64
		wantY  float64
		wantVX float64
		wantVY float64
	}{
		{
			name:   "left wall reflects and repositions",
			ball:   Ball{X: 49, Y: 100, VX: -2, VY: 1, Radius: 4},
			hit:    true,
			wantX:  54, wantY: 100, wantVX: 2, wantVY: 1,
		},
		{
			name:   "right wall reflects and repositions",
			ball:   Ball{X: 948, Y: 100, VX: 2, VY: 1, Radius: 4},
			hit:    true,
			wantX:  946, wantY: 100, wantVX: -2, wantVY: 1,
		},
		{
			name:   "top wall reflects and repositions",
			ball:   Ball{X: 100, Y: 51, VX: 1, VY: -2, Radius: 4},
			hit:    true,
			wantX:  100, wantY: 54, wantVX: 1, wantVY: 2,
		},
		{
			name:   "bottom wall reflects and repositions",
			ball:   Ball{X: 100, Y: 499, VX: 1, VY: 2, Radius: 4},
			hit:    true,
			wantX:  100, wantY: 496, wantVX: 1, wantVY: -2,
		},
		{
			name:   "interior ball untouched",
			ball:   Ball{X: 400, Y: 300, VX: 2, VY: -1, Radius: 4},
			hit:    false,
			wantX:  400, wantY: 300, wantVX: 2, wantVY: -1,
		},
		{
			name:   "touching edge counts as hit",
			ball:   Ball{X: 54, Y: 300, VX: -1, VY: 0, Radius: 4},
			hit:    true,
			wantX:  54, wantY: 300, wantVX: 1, wantVY: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.ball
			hit := CollideWalls(&b, field)
			if hit != tc.hit {
				t.Errorf("CollideWalls() = %v, expected %v", hit, tc.hit)
			}
			if b.X != tc.wantX || b.Y != tc.wantY {
				t.Errorf("ball at (%g, %g), expected (%g, %g)", b.X, b.Y, tc.wantX, tc.wantY)
			}
			if b.VX != tc.wantVX || b.VY != tc.wantVY {
				t.Errorf("velocity (%g, %g), expected (%g, %g)", b.VX, b.VY, tc.wantVX, tc.wantVY)
			}
		})
	}
}

func TestCollideWallsPreservesSpeed(t *testing.T) {
	field := testField()
	b := Ball{X: 49, Y: 52, VX: -2.1, VY: -2.1, Radius: 4}
	want := b.Speed()

	CollideWalls(&b, field)

	if got := b.Speed(); math.Abs(got-want) > 1e-9 {
		t.Errorf("speed changed across wall bounce: %g -> %g", want, got)
	}
}

func TestCollidePaddle(t *testing.T) {
	const speed = 3.0
	maxAngle := 60 * math.Pi / 180
	p := Paddle{X: 500, TargetX: 500, Y: 450, Width: 60, Height: 10, Speed: 5}

	tests := []struct {
		name string
		ball Ball
		hit  bool
	}{
		{name: "descending ball on paddle", ball: Ball{X: 500, Y: 448, VX: 0, VY: 3, Radius: 4}, hit: true},
		{name: "ascending ball passes through", ball: Ball{X: 500, Y: 448, VX: 0, VY: -3, Radius: 4}, hit: false},
		{name: "miss to the side", ball: Ball{X: 600, Y: 448, VX: 0, VY: 3, Radius: 4}, hit: false},
		{name: "below the paddle band", ball: Ball{X: 500, Y: 475, VX: 0, VY: 3, Radius: 4}, hit: false},
		{name: "edge overlap still hits", ball: Ball{X: 533, Y: 448, VX: 0, VY: 3, Radius: 4}, hit: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.ball
			hit := CollidePaddle(&b, &p, speed, maxAngle)
			if hit != tc.hit {
				t.Fatalf("CollidePaddle() = %v, expected %v", hit, tc.hit)
			}
			if !hit {
				if b != tc.ball {
					t.Errorf("miss mutated ball: %+v -> %+v", tc.ball, b)
				}
				return
			}
			if b.VY >= 0 {
				t.Errorf("vy = %g after paddle hit, expected upward", b.VY)
			}
			wantY := p.Bounds().MinY - b.Radius
			if b.Y != wantY {
				t.Errorf("ball y = %g after paddle hit, expected %g", b.Y, wantY)
			}
			if got := b.Speed(); math.Abs(got-speed) > 1e-9 {
				t.Errorf("speed = %g after paddle hit, expected %g", got, speed)
			}
		})
	}
}

func TestCollideBricks(t *testing.T) {
	l := geom.Layout{
		Cols: 4, Rows: 3,
		CellSize: 14, CellSpacing: 3,
		MarginLeft: 50, MarginTop: 120, MarginRight: 50, MarginBottom: 50,
	}

	newBrick := func(col, row int) *Brick {
		return &Brick{Col: col, Row: row, Strength: 1, MaxStrength: 1, Level: 1}
	}

	t.Run("no overlap returns nil", func(t *testing.T) {
		bricks := []*Brick{newBrick(0, 0)}
		b := Ball{X: 500, Y: 300, VX: 1, VY: 1, Radius: 4}
		if got := CollideBricks(&b, bricks, l); got != nil {
			t.Errorf("CollideBricks() = %+v, expected nil", got)
		}
	})

	t.Run("vertical approach flips vy only", func(t *testing.T) {
		br := newBrick(1, 1)
		center := l.CellCenter(1, 1)
		b := Ball{X: center.X, Y: center.Y - 8, VX: 0.5, VY: 2, Radius: 4}
		got := CollideBricks(&b, []*Brick{br}, l)
		if got != br {
			t.Fatalf("CollideBricks() = %+v, expected the overlapped brick", got)
		}
		if b.VX != 0.5 || b.VY != -2 {
			t.Errorf("velocity (%g, %g), expected (0.5, -2)", b.VX, b.VY)
		}
	})

	t.Run("horizontal approach flips vx only", func(t *testing.T) {
		br := newBrick(1, 1)
		center := l.CellCenter(1, 1)
		b := Ball{X: center.X - 8, Y: center.Y, VX: 2, VY: 0.5, Radius: 4}
		got := CollideBricks(&b, []*Brick{br}, l)
		if got != br {
			t.Fatalf("CollideBricks() = %+v, expected the overlapped brick", got)
		}
		if b.VX != -2 || b.VY != 0.5 {
			t.Errorf("velocity (%g, %g), expected (-2, 0.5)", b.VX, b.VY)
		}
	})

	t.Run("centered overlap resolves vertically", func(t *testing.T) {
		br := newBrick(2, 2)
		center := l.CellCenter(2, 2)
		b := Ball{X: center.X, Y: center.Y, VX: 1, VY: 2, Radius: 4}
		CollideBricks(&b, []*Brick{br}, l)
		if b.VX != 1 || b.VY != -2 {
			t.Errorf("velocity (%g, %g), expected (1, -2)", b.VX, b.VY)
		}
	})

	t.Run("destroyed bricks are skipped", func(t *testing.T) {
		br := newBrick(1, 1)
		br.Destroyed = true
		center := l.CellCenter(1, 1)
		b := Ball{X: center.X, Y: center.Y, VX: 1, VY: 1, Radius: 4}
		if got := CollideBricks(&b, []*Brick{br}, l); got != nil {
			t.Errorf("CollideBricks() hit a destroyed brick")
		}
	})

	t.Run("first brick in slice order wins", func(t *testing.T) {
		// Adjacent cells: a ball straddling the 3px gap between columns 1
		// and 2 overlaps both rects. The scan must pick the earlier entry.
		first := newBrick(2, 1)
		second := newBrick(1, 1)
		c1 := l.CellCenter(1, 1)
		c2 := l.CellCenter(2, 1)
		mid := (c1.X + c2.X) / 2
		b := Ball{X: mid, Y: c1.Y, VX: 1, VY: 0.5, Radius: 10}
		got := CollideBricks(&b, []*Brick{first, second}, l)
		if got != first {
			t.Errorf("CollideBricks() resolved against the later brick in the slice")
		}
	})

	t.Run("only one axis flips", func(t *testing.T) {
		br := newBrick(1, 1)
		center := l.CellCenter(1, 1)
		b := Ball{X: center.X - 6, Y: center.Y - 5, VX: 2, VY: 2, Radius: 4}
		before := b
		CollideBricks(&b, []*Brick{br}, l)
		flippedX := b.VX == -before.VX && b.VY == before.VY
		flippedY := b.VY == -before.VY && b.VX == before.VX
		if flippedX == flippedY {
			t.Errorf("velocity (%g, %g) -> (%g, %g): expected exactly one axis flipped",
				before.VX, before.VY, b.VX, b.VY)
		}
	})
}
