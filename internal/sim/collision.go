package sim

import (
	"math"

	"github.com/dacebt/gh-brickbreak/internal/geom"
)

// Collision resolution runs once per frame in a fixed order: walls, then
// paddle, then bricks. Each resolver may clamp the ball's position and
// rewrite its velocity; later resolvers see the corrected state.

// CollideWalls clamps the ball inside the field rectangle, flipping the
// offending velocity component outward on contact. All four edges clamp
// and reflect; the bottom edge should be unreachable with the paddle in
// play but acts as a backstop so the ball can never silently escape.
// Returns true if any wall was hit.
func CollideWalls(b *Ball, field geom.Rect) bool {
	hit := false
	if b.X-b.Radius <= field.MinX {
		b.X = field.MinX + b.Radius
		b.VX = math.Abs(b.VX)
		hit = true
	}
	if b.X+b.Radius >= field.MaxX {
		b.X = field.MaxX - b.Radius
		b.VX = -math.Abs(b.VX)
		hit = true
	}
	if b.Y-b.Radius <= field.MinY {
		b.Y = field.MinY + b.Radius
		b.VY = math.Abs(b.VY)
		hit = true
	}
	if b.Y+b.Radius >= field.MaxY {
		b.Y = field.MaxY - b.Radius
		b.VY = -math.Abs(b.VY)
		hit = true
	}
	return hit
}

// CollidePaddle bounces the ball off the paddle. Only evaluated while the
// ball moves downward so one contact cannot re-trigger on following
// frames. On a hit the velocity is recomputed from the hit offset and the
// ball is repositioned flush above the paddle top to prevent tunneling.
// Returns true if a bounce occurred.
func CollidePaddle(b *Ball, p *Paddle, ballSpeed, maxAngleRad float64) bool {
	if b.VY <= 0 {
		return false
	}

	bb := b.Bounds()
	pb := p.Bounds()

	if bb.MaxX < pb.MinX || bb.MinX > pb.MaxX {
		return false
	}
	if bb.MaxY >= pb.MinY && bb.MinY < pb.MaxY {
		b.VX, b.VY = p.BounceVelocity(b.X, ballSpeed, maxAngleRad)
		b.Y = pb.MinY - b.Radius
		return true
	}
	return false
}

// CollideBricks scans non-destroyed bricks in creation order and resolves
// against the first bounding-box overlap found. The dominant penetration
// axis is picked by comparing |dx/halfWidth| against |dy/halfHeight|
// (ball center relative to brick center); velocity on that axis is
// sign-flipped, ties bounce vertically. At most one brick is resolved per
// frame, and it is the first match, not the nearest along the ball's
// path, so fast balls can clip the wrong neighbor in dense packs.
// Returns the hit brick, or nil.
func CollideBricks(b *Ball, bricks []*Brick, layout geom.Layout) *Brick {
	bb := b.Bounds()

	for _, br := range bricks {
		if br.Destroyed {
			continue
		}

		rect := br.Bounds(layout)
		if !bb.Overlaps(rect) {
			continue
		}

		center := rect.Center()
		dx := b.X - center.X
		dy := b.Y - center.Y
		if math.Abs(dx/(rect.Width()/2)) > math.Abs(dy/(rect.Height()/2)) {
			b.VX = -b.VX
		} else {
			b.VY = -b.VY
		}
		return br
	}
	return nil
}
