package config

import (
	_ "embed"
)

//go:embed defaults/brickbreak.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

// Default returns the default configuration, tuned for the standard
// 52-week GitHub contribution calendar.
func Default() Config {
	return Config{
		Geometry: Geometry{
			CellSize:     14,
			CellSpacing:  3,
			MarginTop:    50,
			MarginBottom: 120,
			MarginLeft:   50,
			MarginRight:  50,
		},
		Physics: Physics{
			BallSpeed:      3.0,
			BallRadius:     4,
			PaddleSpeed:    5.0,
			PaddleWidth:    60,
			PaddleHeight:   10,
			MaxBounceAngle: 60,
		},
		Levels: []Level{
			{Level: 1, Strength: 1, Color: "#0e4429"},
			{Level: 2, Strength: 2, Color: "#006d32"},
			{Level: 3, Strength: 3, Color: "#26a641"},
			{Level: 4, Strength: 4, Color: "#39d353"},
		},
		Effects: Effects{
			ExplosionFrames:    10,
			ExplosionRadius:    15,
			ExplosionParticles: 12,
		},
		Animation: Animation{
			FPS:            40,
			EndPauseFrames: 60,
		},
		Watchdogs: Watchdogs{
			StuckFrames: 500,
			MaxFrames:   5000,
			ForceFrames: 100,
		},
		GitHub: GitHub{
			APIURL:         "https://api.github.com/graphql",
			TimeoutSeconds: 30,
		},
		Theme: Theme{
			Background: "#0d1117",
			Grid:       "#161b22",
			Paddle:     "#c9d1d9",
			Ball:       "#ffdf00",
			Explosion:  "#ff6464",
			Watermark:  "#969696",
		},
	}
}
