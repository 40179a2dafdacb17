package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/dacebt/gh-brickbreak/internal/config"
	"github.com/dacebt/gh-brickbreak/internal/contrib"
	"github.com/dacebt/gh-brickbreak/internal/policy"
	"github.com/dacebt/gh-brickbreak/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server. Each session
// plays the contribution animation of the SSH login name, so
// `ssh -p 23234 octocat@host` watches octocat's wall break.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.brickbreak/host_key.
	HostKeyPath string

	// DBPath is the path to the runs database, used to cache calendars.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// CacheTTL is how long a cached calendar stays fresh.
	CacheTTL time.Duration

	// PolicyID selects the paddle control policy for all sessions.
	PolicyID string

	// Token is the GitHub API token used to fetch calendars.
	Token string

	// App is the simulation and render configuration.
	App config.Config
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.brickbreak/runs.db",
		IdleTimeout: 30 * time.Minute,
		CacheTTL:    24 * time.Hour,
		PolicyID:    "follow",
		App:         config.Default(),
	}
}

// SSHServer wraps a Wish SSH server that plays contribution animations.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "brickbreak-ssh",
	})

	if err := cfg.App.Validate(); err != nil {
		return nil, err
	}
	if !policy.Exists(cfg.PolicyID) {
		return nil, fmt.Errorf("unknown policy %q", cfg.PolicyID)
	}

	// Open storage for the calendar cache
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open runs database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".brickbreak", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session. The
// session's login name selects whose contribution wall to play.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	username := strings.TrimSpace(sshSession.User())
	opts := []tea.ProgramOption{tea.WithAltScreen()}

	cal, err := s.loadCalendar(sshSession.Context(), username)
	if err != nil {
		s.logger.Warn("could not load contributions", "user", username, "error", err)
		return noticeModel{text: fmt.Sprintf("could not load contributions for %q:\n%v", username, err)}, opts
	}

	grid, err := cal.Grid()
	if err != nil {
		s.logger.Warn("could not build grid", "user", username, "error", err)
		return noticeModel{text: fmt.Sprintf("could not build a playfield for %q:\n%v", username, err)}, opts
	}

	model, err := NewPlayerModel(grid, s.config.App, s.config.PolicyID, time.Now().UnixNano(), username)
	if err != nil {
		s.logger.Warn("could not start player", "user", username, "error", err)
		return noticeModel{text: fmt.Sprintf("could not start the player:\n%v", err)}, opts
	}

	if w, h := model.MinSize(); pty.Window.Width < w || pty.Window.Height < h {
		return noticeModel{text: fmt.Sprintf(
			"terminal too small: need at least %dx%d, have %dx%d",
			w, h, pty.Window.Width, pty.Window.Height,
		)}, opts
	}

	return model, opts
}

// loadCalendar resolves a user's calendar from the database cache or the
// GitHub API. Fresh fetches are written back to the cache; cache write
// failures are logged and ignored.
func (s *SSHServer) loadCalendar(ctx context.Context, username string) (*contrib.Calendar, error) {
	if s.store != nil {
		entry, err := s.store.LoadCalendar(username)
		if err != nil {
			s.logger.Warn("calendar cache lookup failed", "user", username, "error", err)
		} else if entry != nil && time.Since(entry.FetchedAt) < s.config.CacheTTL {
			var cal contrib.Calendar
			if err := json.Unmarshal(entry.Payload, &cal); err == nil {
				return &cal, nil
			}
			s.logger.Warn("discarding unreadable cached calendar", "user", username)
		}
	}

	client, err := contrib.NewClient(s.config.App.GitHub, s.config.Token)
	if err != nil {
		return nil, err
	}
	cal, err := client.FetchCalendar(ctx, username)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		payload, err := json.Marshal(cal)
		if err == nil {
			if saveErr := s.store.SaveCalendar(username, payload); saveErr != nil {
				s.logger.Warn("could not cache calendar", "user", username, "error", saveErr)
			}
		}
	}

	return cal, nil
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "policy", s.config.PolicyID)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// noticeModel shows a message and disconnects on any key. It stands in
// for the player when a session cannot be started.
type noticeModel struct {
	text string
}

func (m noticeModel) Init() tea.Cmd {
	return nil
}

func (m noticeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return m, tea.Quit
	}
	return m, nil
}

func (m noticeModel) View() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Padding(1, 2)
	return style.Render(m.text + "\n\npress any key to disconnect")
}
