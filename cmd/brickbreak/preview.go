package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dacebt/gh-brickbreak/internal/config"
	"github.com/dacebt/gh-brickbreak/internal/platform/tui"
	"github.com/dacebt/gh-brickbreak/internal/policy"
)

var (
	flagPrevPolicy string
	flagPrevSeed   int64
	flagPrevFPS    int
	flagPrevRawIn  string
	flagPrevToken  string
)

var previewCmd = &cobra.Command{
	Use:   "preview <username>",
	Short: "Watch the simulation live in the terminal",
	Long: `Play the contribution-breaking simulation in the terminal instead of
writing a GIF. Uses the same engine and policies as generate, drawn with
terminal cells instead of pixels.

Controls:
  Space/P    - Pause
  R          - Restart
  +/-        - Speed up / slow down
  Q/Ctrl+C   - Quit

Examples:
  brickbreak preview octocat
  brickbreak preview octocat --policy row --fps 30
  brickbreak preview octocat --raw-input calendar.json`,
	Args: cobra.ExactArgs(1),
	Run:  runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&flagPrevPolicy, "policy", "follow", "Paddle control policy")
	previewCmd.Flags().Int64Var(&flagPrevSeed, "seed", 0, "RNG seed (0 = random based on time)")
	previewCmd.Flags().IntVar(&flagPrevFPS, "fps", 0, "Override playback frames per second")
	previewCmd.Flags().StringVar(&flagPrevRawIn, "raw-input", "", "Read the calendar from a JSON file instead of the API")
	previewCmd.Flags().StringVar(&flagPrevToken, "token", "", "GitHub API token (defaults to GITHUB_TOKEN)")
}

func runPreview(cmd *cobra.Command, args []string) {
	username := args[0]

	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagPrevFPS > 0 {
		cfg.Animation.FPS = flagPrevFPS
	}

	if !policy.Exists(flagPrevPolicy) {
		fmt.Fprintf(os.Stderr, "Error: unknown policy %q\n", flagPrevPolicy)
		fmt.Fprintln(os.Stderr, "Run 'brickbreak policies' to see available policies.")
		os.Exit(1)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cal, err := resolveCalendar(cfg, store, username, flagPrevRawIn, flagPrevToken, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading calendar: %v\n", err)
		os.Exit(1)
	}

	grid, err := cal.Grid()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seed := flagPrevSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	model, err := tui.NewPlayerModel(grid, cfg, flagPrevPolicy, seed, username)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Check the terminal fits the board before entering the alt screen
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	if mw, mh := model.MinSize(); width < mw || height < mh {
		fmt.Fprintf(os.Stderr, "Error: terminal too small: need at least %dx%d, have %dx%d\n", mw, mh, width, height)
		os.Exit(1)
	}

	if err := model.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running preview: %v\n", err)
		os.Exit(1)
	}
}
