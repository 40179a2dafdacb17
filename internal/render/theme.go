// Package render rasterizes simulation snapshots into paletted frames
// and encodes them as an animated GIF. All frames share one fixed
// palette built up front from the theme, so encoding never quantizes.
package render

import (
	"fmt"
	"image/color"

	"github.com/dacebt/gh-brickbreak/internal/config"
)

// Shade step counts for the precomputed palette. Brick damage fades and
// explosion intensities are continuous; the palette carries a ramp per
// source color and draws snap to the nearest entry.
const (
	brickShadeSteps    = 8
	explosionRampSteps = 16
	maxPaletteSize     = 256
)

// Theme holds the parsed render colors.
type Theme struct {
	Background color.RGBA
	Grid       color.RGBA
	Paddle     color.RGBA
	Ball       color.RGBA
	Explosion  color.RGBA
	Watermark  color.RGBA

	levels map[int]color.RGBA
	order  []int // Level palette order, as configured
}

// NewTheme parses the configured hex colors.
func NewTheme(cfg config.Config) (Theme, error) {
	t := Theme{levels: make(map[int]color.RGBA, len(cfg.Levels))}

	var err error
	if t.Background, err = parseColor(cfg.Theme.Background); err != nil {
		return Theme{}, fmt.Errorf("render: theme background: %w", err)
	}
	if t.Grid, err = parseColor(cfg.Theme.Grid); err != nil {
		return Theme{}, fmt.Errorf("render: theme grid: %w", err)
	}
	if t.Paddle, err = parseColor(cfg.Theme.Paddle); err != nil {
		return Theme{}, fmt.Errorf("render: theme paddle: %w", err)
	}
	if t.Ball, err = parseColor(cfg.Theme.Ball); err != nil {
		return Theme{}, fmt.Errorf("render: theme ball: %w", err)
	}
	if t.Explosion, err = parseColor(cfg.Theme.Explosion); err != nil {
		return Theme{}, fmt.Errorf("render: theme explosion: %w", err)
	}
	if t.Watermark, err = parseColor(cfg.Theme.Watermark); err != nil {
		return Theme{}, fmt.Errorf("render: theme watermark: %w", err)
	}

	for _, l := range cfg.Levels {
		c, err := parseColor(l.Color)
		if err != nil {
			return Theme{}, fmt.Errorf("render: level %d: %w", l.Level, err)
		}
		t.levels[l.Level] = c
		t.order = append(t.order, l.Level)
	}

	return t, nil
}

func parseColor(s string) (color.RGBA, error) {
	rgb, err := config.ParseColor(s)
	if err != nil {
		return color.RGBA{}, err
	}
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}, nil
}

// LevelColor returns the base color for a contribution level. Levels
// missing from the table render as grid cells.
func (t Theme) LevelColor(level int) color.RGBA {
	if c, ok := t.levels[level]; ok {
		return c
	}
	return t.Grid
}

// BrickColor returns the render color for a brick, darkened once it has
// taken damage: the fade factor runs from 0.7 near destruction back to
// 1.0 at full strength.
func (t Theme) BrickColor(level, strength, maxStrength int) color.RGBA {
	c := t.LevelColor(level)
	if strength >= maxStrength || maxStrength <= 0 {
		return c
	}
	return Scale(c, 0.7+0.3*float64(strength)/float64(maxStrength))
}

// Palette builds the fixed GIF palette: theme colors, black and white,
// an explosion intensity ramp, and a damage-fade ramp per level. The
// palette is capped at the GIF limit; colors that do not fit resolve to
// their nearest kept neighbor at draw time.
func (t Theme) Palette() color.Palette {
	p := color.Palette{
		t.Background,
		t.Grid,
		t.Paddle,
		t.Ball,
		t.Watermark,
		color.RGBA{A: 255},                         // Black, watermark shadow
		color.RGBA{R: 255, G: 255, B: 255, A: 255}, // White, explosion flash
	}

	for k := 0; k < explosionRampSteps; k++ {
		p = append(p, Scale(t.Explosion, float64(k)/float64(explosionRampSteps-1)))
	}

	for _, level := range t.order {
		base := t.levels[level]
		for s := 0; s < brickShadeSteps; s++ {
			if len(p) >= maxPaletteSize {
				return p
			}
			p = append(p, Scale(base, 0.7+0.3*float64(s)/float64(brickShadeSteps-1)))
		}
	}

	return p
}

// Scale multiplies the color channels by f, clamped to the valid range.
func Scale(c color.RGBA, f float64) color.RGBA {
	clamp := func(v float64) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	return color.RGBA{
		R: clamp(float64(c.R) * f),
		G: clamp(float64(c.G) * f),
		B: clamp(float64(c.B) * f),
		A: 255,
	}
}
