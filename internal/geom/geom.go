// Package geom provides float64 geometry primitives and the grid-to-pixel
// layout shared by the simulation and the renderer. It contains no external
// dependencies to keep physics pure and testable.
package geom

// Point is a position in pixel space.
type Point struct {
	X, Y float64
}

// Rect represents an axis-aligned bounding box in pixel space.
type Rect struct {
	MinX, MinY float64 // Top-left corner
	MaxX, MaxY float64 // Bottom-right corner
}

// NewRect creates a rectangle from its top-left corner and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Height returns the vertical extent.
func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Overlaps returns true if this rectangle overlaps with another.
// Standard AABB test; touching edges count as overlap.
func (r Rect) Overlaps(other Rect) bool {
	if r.MaxX < other.MinX || other.MaxX < r.MinX {
		return false
	}
	if r.MaxY < other.MinY || other.MaxY < r.MinY {
		return false
	}
	return true
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Layout maps contribution-grid cells to pixel space. The grid is Cols
// columns (weeks) by Rows rows (weekdays); each cell occupies CellSize
// pixels plus CellSpacing on its right and bottom, with outer margins
// around the whole grid. Spacing trails the last column and row, so the
// playfield is symmetric around the cells.
type Layout struct {
	Cols, Rows   int
	CellSize     float64
	CellSpacing  float64
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64
}

// Block returns the pitch of one grid cell (cell size plus spacing).
func (l Layout) Block() float64 {
	return l.CellSize + l.CellSpacing
}

// Width returns the total pixel width of the playfield.
func (l Layout) Width() float64 {
	return l.MarginLeft + float64(l.Cols)*l.Block() + l.MarginRight
}

// Height returns the total pixel height of the playfield.
func (l Layout) Height() float64 {
	return l.MarginTop + float64(l.Rows)*l.Block() + l.MarginBottom
}

// Bounds returns the full playfield rectangle with the origin at (0, 0).
func (l Layout) Bounds() Rect {
	return Rect{MinX: 0, MinY: 0, MaxX: l.Width(), MaxY: l.Height()}
}

// CellCenter returns the pixel center of the cell at the given grid
// coordinates. Fractional coordinates address positions between cells,
// e.g. the ball launch column at Cols/2.
func (l Layout) CellCenter(col, row float64) Point {
	return Point{
		X: l.MarginLeft + col*l.Block() + l.CellSize/2,
		Y: l.MarginTop + row*l.Block() + l.CellSize/2,
	}
}

// CellRect returns the pixel rectangle of the cell at (col, row),
// excluding its trailing spacing.
func (l Layout) CellRect(col, row int) Rect {
	left := l.MarginLeft + float64(col)*l.Block()
	top := l.MarginTop + float64(row)*l.Block()
	return Rect{MinX: left, MinY: top, MaxX: left + l.CellSize, MaxY: top + l.CellSize}
}
