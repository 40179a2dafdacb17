// Package anim assembles the full pipeline: a contribution grid goes
// in, an animated GIF comes out. It owns nothing domain-specific
// itself; it wires the simulation driver to the renderer and encoder.
package anim

import (
	"errors"
	"image"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dacebt/gh-brickbreak/internal/config"
	"github.com/dacebt/gh-brickbreak/internal/render"
	"github.com/dacebt/gh-brickbreak/internal/sim"
)

// Log a progress line every this many frames.
const progressEvery = 200

// Options selects the policy, seed and watermark for one animation.
type Options struct {
	Policy    sim.Policy
	Seed      int64
	Watermark string // Empty disables the watermark
	Logger    *log.Logger
}

// Stats summarizes a finished animation.
type Stats struct {
	TotalBricks     int
	DestroyedBricks int
	Frames          int
	Duration        time.Duration
	Complete        bool
}

// Animator drives one simulation to its end and encodes the frames.
// Single-use: WriteGIF consumes the driver.
type Animator struct {
	cfg    config.Config
	driver *sim.Driver
	rend   *render.Renderer
	logger *log.Logger
}

// New builds the pipeline for one grid.
func New(grid sim.Grid, cfg config.Config, opts Options) (*Animator, error) {
	if opts.Policy == nil {
		return nil, errors.New("anim: policy must not be nil")
	}

	state, err := sim.New(grid, cfg, opts.Seed)
	if err != nil {
		return nil, err
	}
	rend, err := render.New(cfg, state.Layout(), opts.Watermark)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "anim"})
	}

	return &Animator{
		cfg:    cfg,
		driver: sim.NewDriver(state, opts.Policy),
		rend:   rend,
		logger: logger,
	}, nil
}

// WriteGIF runs the simulation until the driver is exhausted, renders
// every frame, and encodes the looping GIF to w.
func (a *Animator) WriteGIF(w io.Writer) (Stats, error) {
	start := time.Now()
	state := a.driver.State()
	a.logger.Debug("simulation started",
		"bricks", state.TotalBricks(),
		"cols", state.Layout().Cols,
		"rows", state.Layout().Rows,
	)

	var frames []*image.Paletted
	err := a.driver.Run(func(f sim.Frame) error {
		frames = append(frames, a.rend.Frame(f.Snapshot))
		if len(frames)%progressEvery == 0 {
			a.logger.Debug("simulating",
				"frames", len(frames),
				"destroyed", f.Snapshot.DestroyedBricks,
				"total", f.Snapshot.TotalBricks,
			)
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}

	if err := render.EncodeGIF(w, frames, a.cfg.Animation.FPS); err != nil {
		return Stats{}, err
	}

	stats := Stats{
		TotalBricks:     state.TotalBricks(),
		DestroyedBricks: state.DestroyedCount(),
		Frames:          len(frames),
		Duration:        time.Since(start),
		Complete:        state.IsComplete(),
	}
	a.logger.Info("animation complete",
		"frames", stats.Frames,
		"destroyed", stats.DestroyedBricks,
		"total", stats.TotalBricks,
		"complete", stats.Complete,
		"took", stats.Duration,
	)
	return stats, nil
}
