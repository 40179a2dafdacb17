package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dacebt/gh-brickbreak/internal/config"
	"github.com/dacebt/gh-brickbreak/internal/geom"
	"github.com/dacebt/gh-brickbreak/internal/policy"
	"github.com/dacebt/gh-brickbreak/internal/render"
	"github.com/dacebt/gh-brickbreak/internal/sim"
)

// Playback speed limits. The configured GIF frame rate is clamped into
// this range for live playback.
const (
	minFPS  = 5
	maxFPS  = 60
	fpsStep = 5
)

// Scene glyphs. Bricks are drawn two characters wide because a terminal
// cell is roughly twice as tall as it is wide.
const (
	PaddleChar   = '='
	BallChar     = '●'
	BrickChar    = '█'
	GridChar     = '·'
	ParticleChar = '*'
	FlashChar    = '+'
)

// PlayerModel plays a simulation live in the terminal. It consumes the
// same frame driver as the GIF pipeline, one frame per tick, so what it
// shows is exactly what the GIF would contain.
type PlayerModel struct {
	grid     sim.Grid
	cfg      config.Config
	policyID string
	seed     int64
	username string

	driver *sim.Driver
	snap   sim.Snapshot
	layout geom.Layout
	field  geom.Rect
	theme  render.Theme
	canvas *Canvas

	keys PlayerKeyMap
	help help.Model

	fps      int
	paused   bool
	done     bool
	quitting bool
	err      error
}

// NewPlayerModel creates a player over a fresh simulation of the grid.
func NewPlayerModel(grid sim.Grid, cfg config.Config, policyID string, seed int64, username string) (PlayerModel, error) {
	h := help.New()
	h.ShowAll = false

	m := PlayerModel{
		grid:     grid,
		cfg:      cfg,
		policyID: policyID,
		seed:     seed,
		username: username,
		keys:     DefaultPlayerKeyMap(),
		help:     h,
		fps:      clampInt(cfg.Animation.FPS, minFPS, maxFPS),
	}

	m, err := m.restarted()
	if err != nil {
		return PlayerModel{}, err
	}

	m.layout = m.driver.State().Layout()
	m.field = m.driver.State().Field()
	fieldRows := int(math.Ceil(m.field.Height() / m.layout.Block()))
	m.canvas = NewCanvas(m.layout.Cols*2+2, fieldRows+2)

	return m, nil
}

// restarted returns the model with a fresh simulation and policy. The
// policy is recreated because policies are stateful iterators.
func (m PlayerModel) restarted() (PlayerModel, error) {
	pol, err := policy.Create(m.policyID)
	if err != nil {
		return m, err
	}
	state, err := sim.New(m.grid, m.cfg, m.seed)
	if err != nil {
		return m, err
	}
	theme, err := render.NewTheme(m.cfg)
	if err != nil {
		return m, err
	}

	m.driver = sim.NewDriver(state, pol)
	m.snap = state.Snapshot()
	m.theme = theme
	m.paused = false
	m.done = false
	return m, nil
}

// Init starts the tick loop.
func (m PlayerModel) Init() tea.Cmd {
	return tickCmd(m.fps)
}

// Update handles messages for the player.
func (m PlayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m PlayerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		// Re-arm the tick loop only if it has stopped; a live loop keeps
		// itself running and a second one would double the speed.
		rearm := m.done
		next, err := m.restarted()
		if err != nil {
			m.err = err
			m.done = true
			return m, nil
		}
		if rearm {
			return next, tickCmd(next.fps)
		}
		return next, nil

	case key.Matches(msg, m.keys.Faster):
		m.fps = clampInt(m.fps+fpsStep, minFPS, maxFPS)
		return m, nil

	case key.Matches(msg, m.keys.Slower):
		m.fps = clampInt(m.fps-fpsStep, minFPS, maxFPS)
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

// handleTick advances the simulation by one frame unless paused.
func (m PlayerModel) handleTick() (tea.Model, tea.Cmd) {
	if !m.paused && !m.done {
		frame, ok := m.driver.Advance()
		if ok {
			m.snap = frame.Snapshot
		} else {
			m.done = true
		}
	}
	if m.done {
		return m, nil
	}
	return m, tickCmd(m.fps)
}

// View renders the playfield, a status line, and the help bar.
func (m PlayerModel) View() string {
	if m.quitting {
		return ""
	}

	m.drawScene()

	var b strings.Builder
	b.WriteString(m.canvas.String())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// drawScene rasterizes the current snapshot into the canvas in the same
// order the GIF renderer paints: grid underlay, bricks, explosions,
// paddle, ball.
func (m PlayerModel) drawScene() {
	m.canvas.Clear()

	gridFg := HexColor(m.theme.Grid)
	m.canvas.DrawBox(0, 0, m.canvas.Width(), m.canvas.Height(), gridFg)

	for col := 0; col < m.layout.Cols; col++ {
		for row := 0; row < m.layout.Rows; row++ {
			x := 1 + col*2
			m.canvas.Set(x, 1+row, GridChar, gridFg)
			m.canvas.Set(x+1, 1+row, GridChar, gridFg)
		}
	}

	for _, br := range m.snap.Bricks {
		fg := HexColor(m.theme.BrickColor(br.Level, br.Strength, br.MaxStrength))
		x := 1 + br.Col*2
		m.canvas.Set(x, 1+br.Row, BrickChar, fg)
		m.canvas.Set(x+1, 1+br.Row, BrickChar, fg)
	}

	for _, e := range m.snap.Explosions {
		radius := e.MaxRadius * e.Progress
		for _, p := range e.Particles {
			px := e.X + radius*p.Speed*math.Cos(p.Angle)
			py := e.Y + radius*p.Speed*math.Sin(p.Angle)
			fg := HexColor(render.Scale(m.theme.Explosion, p.Brightness*(1-e.Progress)))
			m.canvas.Set(m.cellX(px), m.cellY(py), ParticleChar, fg)
		}
		if e.Progress < 0.5 {
			m.canvas.Set(m.cellX(e.X), m.cellY(e.Y), FlashChar, "#ffffff")
		}
	}

	paddleFg := HexColor(m.theme.Paddle)
	py := m.cellY(m.snap.Paddle.Y)
	x0 := m.cellX(m.snap.Paddle.X - m.snap.Paddle.Width/2)
	x1 := m.cellX(m.snap.Paddle.X + m.snap.Paddle.Width/2)
	for x := x0; x <= x1; x++ {
		m.canvas.Set(x, py, PaddleChar, paddleFg)
	}

	m.canvas.Set(m.cellX(m.snap.Ball.X), m.cellY(m.snap.Ball.Y), BallChar, HexColor(m.theme.Ball))
}

// cellX maps a playfield pixel X to a canvas column inside the border.
// Each grid block spans two characters horizontally.
func (m PlayerModel) cellX(px float64) int {
	x := 1 + int((px-m.field.MinX)/m.layout.Block()*2)
	return clampInt(x, 1, m.canvas.Width()-2)
}

// cellY maps a playfield pixel Y to a canvas row inside the border.
func (m PlayerModel) cellY(py float64) int {
	y := 1 + int((py-m.field.MinY)/m.layout.Block())
	return clampInt(y, 1, m.canvas.Height()-2)
}

// statusLine renders the HUD under the playfield.
func (m PlayerModel) statusLine() string {
	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		return errStyle.Render(fmt.Sprintf("error: %v", m.err))
	}

	parts := make([]string, 0, 5)
	if m.username != "" {
		parts = append(parts, m.username)
	}
	parts = append(parts,
		fmt.Sprintf("Policy: %s", m.policyID),
		fmt.Sprintf("Bricks: %d/%d", m.snap.DestroyedBricks, m.snap.TotalBricks),
		fmt.Sprintf("Frame: %d", m.snap.Frame),
		fmt.Sprintf("%d fps", m.fps),
	)
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	status := statusStyle.Render(strings.Join(parts, "  |  "))

	tagStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	switch {
	case m.snap.Complete:
		status += statusStyle.Render("  |  ") + tagStyle.Render("CLEARED")
	case m.done:
		status += statusStyle.Render("  |  ") + tagStyle.Render("DONE")
	case m.paused:
		status += statusStyle.Render("  |  ") + tagStyle.Render("PAUSED")
	}

	return status
}

// IsQuitting returns true if the user requested to quit.
func (m PlayerModel) IsQuitting() bool {
	return m.quitting
}

// MinSize returns the smallest terminal size the player renders into
// without wrapping: the playfield box plus the status and help lines.
func (m PlayerModel) MinSize() (width, height int) {
	return m.canvas.Width(), m.canvas.Height() + 2
}

// Run plays the model in the current terminal until the user quits.
func (m PlayerModel) Run() error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RunPlayer plays the simulation live in the current terminal.
func RunPlayer(grid sim.Grid, cfg config.Config, policyID string, seed int64, username string) error {
	model, err := NewPlayerModel(grid, cfg, policyID, seed, username)
	if err != nil {
		return err
	}
	return model.Run()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
