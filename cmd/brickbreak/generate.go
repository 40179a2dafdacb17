package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dacebt/gh-brickbreak/internal/anim"
	"github.com/dacebt/gh-brickbreak/internal/config"
	"github.com/dacebt/gh-brickbreak/internal/contrib"
	"github.com/dacebt/gh-brickbreak/internal/policy"
	"github.com/dacebt/gh-brickbreak/internal/storage"
)

var (
	flagGenOutput    string
	flagGenPolicy    string
	flagGenSeed      int64
	flagGenFPS       int
	flagGenWatermark string
	flagGenRawOut    string
	flagGenRawIn     string
	flagGenToken     string
	flagGenRefresh   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <username>",
	Short: "Generate a contribution-breaking GIF",
	Long: `Fetch a user's GitHub contribution calendar, simulate a paddle
breaking every contribution brick, and encode the run as an animated GIF.

The GitHub GraphQL API requires a token: pass --token or set the
GITHUB_TOKEN environment variable. Fetched calendars are cached in the
runs database for a day; --refresh forces a fresh fetch and --raw-input
skips the API entirely.

Examples:
  brickbreak generate octocat
  brickbreak generate octocat -o wall.gif --policy column
  brickbreak generate octocat --watermark "octocat 2025" --seed 42
  brickbreak generate octocat --raw-input calendar.json`,
	Args: cobra.ExactArgs(1),
	Run:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&flagGenOutput, "output", "o", "", "Output GIF path (default: <username>_breakout.gif)")
	generateCmd.Flags().StringVar(&flagGenPolicy, "policy", "follow", "Paddle control policy")
	generateCmd.Flags().Int64Var(&flagGenSeed, "seed", 0, "RNG seed (0 = random based on time)")
	generateCmd.Flags().IntVar(&flagGenFPS, "fps", 0, "Override animation frames per second")
	generateCmd.Flags().StringVar(&flagGenWatermark, "watermark", "", "Watermark text stamped on the bottom edge")
	generateCmd.Flags().StringVar(&flagGenRawOut, "raw-output", "", "Also write the fetched calendar JSON to this path")
	generateCmd.Flags().StringVar(&flagGenRawIn, "raw-input", "", "Read the calendar from a JSON file instead of the API")
	generateCmd.Flags().StringVar(&flagGenToken, "token", "", "GitHub API token (defaults to GITHUB_TOKEN)")
	generateCmd.Flags().BoolVar(&flagGenRefresh, "refresh", false, "Ignore the cached calendar")
}

func runGenerate(cmd *cobra.Command, args []string) {
	username := args[0]

	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagGenFPS > 0 {
		cfg.Animation.FPS = flagGenFPS
	}

	// Check the policy before any network work
	if !policy.Exists(flagGenPolicy) {
		fmt.Fprintf(os.Stderr, "Error: unknown policy %q\n", flagGenPolicy)
		fmt.Fprintln(os.Stderr, "Run 'brickbreak policies' to see available policies.")
		os.Exit(1)
	}

	// Open the runs database
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cal, err := resolveCalendar(cfg, store, username, flagGenRawIn, flagGenToken, flagGenRefresh)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading calendar: %v\n", err)
		os.Exit(1)
	}

	if flagGenRawOut != "" {
		if err := contrib.SaveFile(flagGenRawOut, cal); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing calendar JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Calendar JSON written to %s\n", flagGenRawOut)
	}

	grid, err := cal.Grid()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	pol, err := policy.Create(flagGenPolicy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating policy: %v\n", err)
		os.Exit(1)
	}

	seed := flagGenSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	animator, err := anim.New(grid, cfg, anim.Options{
		Policy:    pol,
		Seed:      seed,
		Watermark: flagGenWatermark,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	output := flagGenOutput
	if output == "" {
		output = username + "_breakout.gif"
	}

	f, err := os.Create(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}

	stats, err := animator.WriteGIF(f)
	closeErr := f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding GIF: %v\n", err)
		os.Exit(1)
	}
	if closeErr != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", closeErr)
		os.Exit(1)
	}

	// Record the run; failures only lose history
	if store != nil {
		if _, err := store.SaveRun(storage.RunEntry{
			Username:        username,
			Policy:          flagGenPolicy,
			TotalBricks:     stats.TotalBricks,
			DestroyedBricks: stats.DestroyedBricks,
			Frames:          stats.Frames,
			Duration:        stats.Duration,
			Output:          output,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not record run: %v\n", err)
		}
	}

	fmt.Printf("Wrote %s\n", output)
	fmt.Printf("  Bricks: %d/%d destroyed\n", stats.DestroyedBricks, stats.TotalBricks)
	fmt.Printf("  Frames: %d (%.1fs at %d fps, generated in %.1fs)\n",
		stats.Frames, float64(stats.Frames)/float64(cfg.Animation.FPS),
		cfg.Animation.FPS, stats.Duration.Seconds())
	if !stats.Complete {
		fmt.Println("  The wall was not fully cleared before the frame limit.")
	}
}
