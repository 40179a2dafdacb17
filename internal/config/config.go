// Package config provides YAML-based configuration loading for the
// brickbreak pipeline: playfield geometry, physics tuning, contribution
// level table, animation timing, watchdog limits, and theme colors.
package config

import (
	"fmt"
	"math"
)

// Config contains all tunables for fetching, simulating and rendering.
type Config struct {
	Geometry  Geometry  `yaml:"geometry"`
	Physics   Physics   `yaml:"physics"`
	Levels    []Level   `yaml:"levels"`
	Effects   Effects   `yaml:"effects"`
	Animation Animation `yaml:"animation"`
	Watchdogs Watchdogs `yaml:"watchdogs"`
	GitHub    GitHub    `yaml:"github"`
	Theme     Theme     `yaml:"theme"`
}

// Geometry defines the pixel layout of the contribution grid.
type Geometry struct {
	CellSize     float64 `yaml:"cell_size"`
	CellSpacing  float64 `yaml:"cell_spacing"`
	MarginTop    float64 `yaml:"margin_top"`
	MarginBottom float64 `yaml:"margin_bottom"`
	MarginLeft   float64 `yaml:"margin_left"`
	MarginRight  float64 `yaml:"margin_right"`
}

// Physics defines ball and paddle motion parameters.
type Physics struct {
	BallSpeed      float64 `yaml:"ball_speed"`
	BallRadius     float64 `yaml:"ball_radius"`
	PaddleSpeed    float64 `yaml:"paddle_speed"`
	PaddleWidth    float64 `yaml:"paddle_width"`
	PaddleHeight   float64 `yaml:"paddle_height"`
	MaxBounceAngle float64 `yaml:"max_bounce_angle"` // Degrees from vertical
}

// Level maps a GitHub contribution quartile to brick strength and color.
type Level struct {
	Level    int    `yaml:"level"`
	Strength int    `yaml:"strength"`
	Color    string `yaml:"color"`
}

// Effects defines explosion animation parameters.
type Effects struct {
	ExplosionFrames    int     `yaml:"explosion_frames"`
	ExplosionRadius    float64 `yaml:"explosion_radius"`
	ExplosionParticles int     `yaml:"explosion_particles"`
}

// Animation defines output timing.
type Animation struct {
	FPS            int `yaml:"fps"`
	EndPauseFrames int `yaml:"end_pause_frames"`
}

// Watchdogs defines the frame limits that bound simulation effort.
type Watchdogs struct {
	StuckFrames int `yaml:"stuck_frames"` // Frames allowed per paddle target
	MaxFrames   int `yaml:"max_frames"`   // Global frame ceiling
	ForceFrames int `yaml:"force_frames"` // Extra frames after the policy is done
}

// GitHub defines the contribution API endpoint.
type GitHub struct {
	APIURL         string `yaml:"api_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Theme defines render colors as "#rrggbb" hex strings.
type Theme struct {
	Background string `yaml:"background"`
	Grid       string `yaml:"grid"`
	Paddle     string `yaml:"paddle"`
	Ball       string `yaml:"ball"`
	Explosion  string `yaml:"explosion"`
	Watermark  string `yaml:"watermark"`
}

// RGB is a parsed theme color.
type RGB struct {
	R, G, B uint8
}

// ParseColor parses a "#rrggbb" hex string.
func ParseColor(s string) (RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return RGB{}, fmt.Errorf("invalid color %q: must be in #rrggbb form", s)
	}
	var rgb RGB
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &rgb.R, &rgb.G, &rgb.B); err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: must be in #rrggbb form", s)
	}
	return rgb, nil
}

// StrengthForLevel returns the brick strength for a contribution level,
// or false if the level has no entry in the table. Level 0 always maps
// to no brick.
func (c Config) StrengthForLevel(level int) (int, bool) {
	for _, l := range c.Levels {
		if l.Level == level {
			return l.Strength, true
		}
	}
	return 0, false
}

// ColorForLevel returns the configured hex color for a contribution level.
func (c Config) ColorForLevel(level int) (string, bool) {
	for _, l := range c.Levels {
		if l.Level == level {
			return l.Color, true
		}
	}
	return "", false
}

// MaxBounceRad returns the maximum bounce angle in radians.
func (c Config) MaxBounceRad() float64 {
	return c.Physics.MaxBounceAngle * math.Pi / 180
}

// Validate checks that every tunable is inside its working range.
func (c Config) Validate() error {
	if c.Geometry.CellSize <= 0 {
		return fmt.Errorf("config validation: cell_size must be positive, got %g", c.Geometry.CellSize)
	}
	if c.Geometry.CellSpacing < 0 {
		return fmt.Errorf("config validation: cell_spacing must not be negative, got %g", c.Geometry.CellSpacing)
	}
	if c.Geometry.MarginTop < 0 || c.Geometry.MarginBottom < 0 ||
		c.Geometry.MarginLeft < 0 || c.Geometry.MarginRight < 0 {
		return fmt.Errorf("config validation: margins must not be negative")
	}
	if c.Physics.BallSpeed <= 0 {
		return fmt.Errorf("config validation: ball_speed must be positive, got %g", c.Physics.BallSpeed)
	}
	if c.Physics.BallRadius <= 0 {
		return fmt.Errorf("config validation: ball_radius must be positive, got %g", c.Physics.BallRadius)
	}
	if c.Physics.PaddleSpeed <= 0 {
		return fmt.Errorf("config validation: paddle_speed must be positive, got %g", c.Physics.PaddleSpeed)
	}
	if c.Physics.PaddleWidth <= 0 || c.Physics.PaddleHeight <= 0 {
		return fmt.Errorf("config validation: paddle dimensions must be positive, got %gx%g",
			c.Physics.PaddleWidth, c.Physics.PaddleHeight)
	}
	if c.Physics.MaxBounceAngle <= 0 || c.Physics.MaxBounceAngle > 90 {
		return fmt.Errorf("config validation: max_bounce_angle must be in (0, 90], got %g", c.Physics.MaxBounceAngle)
	}
	if len(c.Levels) == 0 {
		return fmt.Errorf("config validation: levels table must not be empty")
	}
	seen := make(map[int]bool, len(c.Levels))
	for _, l := range c.Levels {
		if l.Level <= 0 {
			return fmt.Errorf("config validation: level must be positive, got %d", l.Level)
		}
		if seen[l.Level] {
			return fmt.Errorf("config validation: duplicate level %d", l.Level)
		}
		seen[l.Level] = true
		if l.Strength <= 0 {
			return fmt.Errorf("config validation: level %d strength must be positive, got %d", l.Level, l.Strength)
		}
		if _, err := ParseColor(l.Color); err != nil {
			return fmt.Errorf("config validation: level %d: %w", l.Level, err)
		}
	}
	if c.Effects.ExplosionFrames <= 0 {
		return fmt.Errorf("config validation: explosion_frames must be positive, got %d", c.Effects.ExplosionFrames)
	}
	if c.Effects.ExplosionRadius <= 0 {
		return fmt.Errorf("config validation: explosion_radius must be positive, got %g", c.Effects.ExplosionRadius)
	}
	if c.Effects.ExplosionParticles <= 0 {
		return fmt.Errorf("config validation: explosion_particles must be positive, got %d", c.Effects.ExplosionParticles)
	}
	if c.Animation.FPS < 1 || c.Animation.FPS > 100 {
		return fmt.Errorf("config validation: fps must be in [1, 100], got %d", c.Animation.FPS)
	}
	if c.Animation.EndPauseFrames < 0 {
		return fmt.Errorf("config validation: end_pause_frames must not be negative, got %d", c.Animation.EndPauseFrames)
	}
	if c.Watchdogs.StuckFrames <= 0 {
		return fmt.Errorf("config validation: stuck_frames must be positive, got %d", c.Watchdogs.StuckFrames)
	}
	if c.Watchdogs.MaxFrames <= 0 {
		return fmt.Errorf("config validation: max_frames must be positive, got %d", c.Watchdogs.MaxFrames)
	}
	if c.Watchdogs.ForceFrames < 0 {
		return fmt.Errorf("config validation: force_frames must not be negative, got %d", c.Watchdogs.ForceFrames)
	}
	if c.GitHub.APIURL == "" {
		return fmt.Errorf("config validation: github api_url must not be empty")
	}
	if c.GitHub.TimeoutSeconds <= 0 {
		return fmt.Errorf("config validation: github timeout_seconds must be positive, got %d", c.GitHub.TimeoutSeconds)
	}
	for _, tc := range []struct {
		name  string
		value string
	}{
		{"background", c.Theme.Background},
		{"grid", c.Theme.Grid},
		{"paddle", c.Theme.Paddle},
		{"ball", c.Theme.Ball},
		{"explosion", c.Theme.Explosion},
		{"watermark", c.Theme.Watermark},
	} {
		if _, err := ParseColor(tc.value); err != nil {
			return fmt.Errorf("config validation: theme %s: %w", tc.name, err)
		}
	}
	return nil
}
