package render

import (
	"image"
	"image/color"
	"math"

	"github.com/dacebt/gh-brickbreak/internal/config"
	"github.com/dacebt/gh-brickbreak/internal/geom"
	"github.com/dacebt/gh-brickbreak/internal/sim"
)

// Drawing constants for the explosion effect and the paddle shape.
const (
	particleSize       = 3.0
	flashSize          = 5.0
	paddleCornerRadius = 3.0
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
)

// Renderer rasterizes snapshots into paletted frames sized from the
// layout. It is not safe for concurrent use; the encode pipeline hands
// each snapshot to one renderer in sequence.
type Renderer struct {
	theme     Theme
	layout    geom.Layout
	watermark string
	palette   color.Palette
	bounds    image.Rectangle
	index     map[color.RGBA]uint8 // Memoized palette lookups
}

// New builds a renderer for the given configuration and layout. The
// watermark text is stamped into every frame; pass "" to disable it.
func New(cfg config.Config, layout geom.Layout, watermark string) (*Renderer, error) {
	theme, err := NewTheme(cfg)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		theme:     theme,
		layout:    layout,
		watermark: watermark,
		palette:   theme.Palette(),
		bounds:    image.Rect(0, 0, int(layout.Width()), int(layout.Height())),
		index:     make(map[color.RGBA]uint8),
	}, nil
}

// Frame rasterizes one snapshot: background, grid underlay, live bricks
// faded by damage, explosions, then paddle and ball on top.
func (r *Renderer) Frame(snap sim.Snapshot) *image.Paletted {
	img := image.NewPaletted(r.bounds, r.palette)

	r.fill(img, r.theme.Background)
	r.drawGrid(img)
	r.drawBricks(img, snap.Bricks)
	r.drawExplosions(img, snap.Explosions)
	r.drawPaddle(img, snap.Paddle)
	r.drawBall(img, snap.Ball)
	if r.watermark != "" {
		r.drawWatermark(img)
	}

	return img
}

// idx resolves a color to its palette index, memoizing the linear scan.
func (r *Renderer) idx(c color.RGBA) uint8 {
	if i, ok := r.index[c]; ok {
		return i
	}
	i := uint8(r.palette.Index(c)) //#nosec G115 -- palette is capped at 256 entries
	r.index[c] = i
	return i
}

func (r *Renderer) fill(img *image.Paletted, c color.RGBA) {
	i := r.idx(c)
	for p := range img.Pix {
		img.Pix[p] = i
	}
}

func (r *Renderer) drawGrid(img *image.Paletted) {
	i := r.idx(r.theme.Grid)
	for col := range r.layout.Cols {
		for row := range r.layout.Rows {
			r.fillRect(img, r.layout.CellRect(col, row), i)
		}
	}
}

func (r *Renderer) drawBricks(img *image.Paletted, bricks []sim.BrickView) {
	for _, br := range bricks {
		c := r.theme.BrickColor(br.Level, br.Strength, br.MaxStrength)
		r.fillRect(img, r.layout.CellRect(br.Col, br.Row), r.idx(c))
	}
}

func (r *Renderer) drawExplosions(img *image.Paletted, explosions []sim.ExplosionView) {
	for _, e := range explosions {
		radius := e.MaxRadius * e.Progress
		for _, p := range e.Particles {
			px := e.X + radius*p.Speed*math.Cos(p.Angle)
			py := e.Y + radius*p.Speed*math.Sin(p.Angle)
			c := Scale(r.theme.Explosion, p.Brightness*(1-e.Progress))
			r.fillCircle(img, px, py, particleSize, r.idx(c))
		}
		// Center flash for the first half of the lifetime.
		if e.Progress < 0.5 {
			r.fillCircle(img, e.X, e.Y, flashSize*(1-2*e.Progress), r.idx(white))
		}
	}
}

func (r *Renderer) drawPaddle(img *image.Paletted, p sim.PaddleView) {
	rect := geom.Rect{
		MinX: p.X - p.Width/2,
		MinY: p.Y,
		MaxX: p.X + p.Width/2,
		MaxY: p.Y + p.Height,
	}
	r.fillRoundedRect(img, rect, paddleCornerRadius, r.idx(r.theme.Paddle))
}

func (r *Renderer) drawBall(img *image.Paletted, b sim.BallView) {
	r.fillCircle(img, b.X, b.Y, b.Radius, r.idx(r.theme.Ball))
}

// clampBox intersects a pixel box with the frame bounds.
func (r *Renderer) clampBox(x0, y0, x1, y1 int) (int, int, int, int) {
	if x0 < r.bounds.Min.X {
		x0 = r.bounds.Min.X
	}
	if y0 < r.bounds.Min.Y {
		y0 = r.bounds.Min.Y
	}
	if x1 > r.bounds.Max.X {
		x1 = r.bounds.Max.X
	}
	if y1 > r.bounds.Max.Y {
		y1 = r.bounds.Max.Y
	}
	return x0, y0, x1, y1
}

func (r *Renderer) fillRect(img *image.Paletted, rect geom.Rect, idx uint8) {
	x0, y0, x1, y1 := r.clampBox(
		int(math.Floor(rect.MinX)), int(math.Floor(rect.MinY)),
		int(math.Ceil(rect.MaxX)), int(math.Ceil(rect.MaxY)),
	)
	for y := y0; y < y1; y++ {
		row := img.Pix[y*img.Stride+x0 : y*img.Stride+x1]
		for i := range row {
			row[i] = idx
		}
	}
}

func (r *Renderer) fillCircle(img *image.Paletted, cx, cy, radius float64, idx uint8) {
	if radius <= 0 {
		return
	}
	x0, y0, x1, y1 := r.clampBox(
		int(math.Floor(cx-radius)), int(math.Floor(cy-radius)),
		int(math.Ceil(cx+radius)), int(math.Ceil(cy+radius)),
	)
	rr := radius * radius
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= rr {
				img.Pix[y*img.Stride+x] = idx
			}
		}
	}
}

func (r *Renderer) fillRoundedRect(img *image.Paletted, rect geom.Rect, radius float64, idx uint8) {
	x0, y0, x1, y1 := r.clampBox(
		int(math.Floor(rect.MinX)), int(math.Floor(rect.MinY)),
		int(math.Ceil(rect.MaxX)), int(math.Ceil(rect.MaxY)),
	)
	rr := radius * radius
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			px := float64(x) + 0.5
			py := float64(y) + 0.5

			// Distance outside the radius-inset core rectangle; zero on
			// the straight edges, positive only near corners.
			var dx, dy float64
			if px < rect.MinX+radius {
				dx = rect.MinX + radius - px
			} else if px > rect.MaxX-radius {
				dx = px - (rect.MaxX - radius)
			}
			if py < rect.MinY+radius {
				dy = rect.MinY + radius - py
			} else if py > rect.MaxY-radius {
				dy = py - (rect.MaxY - radius)
			}
			if dx*dx+dy*dy <= rr {
				img.Pix[y*img.Stride+x] = idx
			}
		}
	}
}
