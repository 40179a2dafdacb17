package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dacebt/gh-brickbreak/internal/platform/tui"
	"github.com/dacebt/gh-brickbreak/internal/storage"
)

var (
	flagRunsLimit       int
	flagRunsInteractive bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [username]",
	Short: "Show recorded generation runs",
	Long: `Display the runs recorded in the database, newest first. With a
username, shows only that user's runs plus their aggregate stats.

Examples:
  brickbreak runs
  brickbreak runs octocat
  brickbreak runs --limit 5
  brickbreak runs --interactive`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Maximum number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsInteractive, "interactive", false, "Browse runs in an interactive table")
}

func runRuns(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var entries []storage.RunEntry
	if len(args) == 1 {
		entries, err = store.RunsForUser(args[0], flagRunsLimit)
	} else {
		entries, err = store.RecentRuns(flagRunsLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	if flagRunsInteractive {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunBrowser(entries, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error running browser: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if len(entries) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'brickbreak generate <username>' to record the first one!")
		return
	}

	// Calculate the user column width
	maxUserLen := 4 // "User" header
	for _, e := range entries {
		if len(e.Username) > maxUserLen {
			maxUserLen = len(e.Username)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-8s  %-9s  %-7s  %-7s  %s\n", maxUserLen, "User", "Policy", "Bricks", "Frames", "Time", "Date")
	fmt.Printf("  %-*s  %-8s  %-9s  %-7s  %-7s  %s\n", maxUserLen, "----", "------", "------", "------", "----", "----")

	// Print runs
	for _, e := range entries {
		bricks := fmt.Sprintf("%d/%d", e.DestroyedBricks, e.TotalBricks)
		dateStr := e.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-*s  %-8s  %-9s  %-7d  %-7s  %s\n",
			maxUserLen, e.Username, e.Policy, bricks, e.Frames,
			fmt.Sprintf("%.1fs", e.Duration.Seconds()), dateStr)
	}

	// Per-user summary
	if len(args) == 1 {
		username := args[0]
		fmt.Println()
		if stats, statsErr := store.GetUserStats(username); statsErr == nil && stats != nil && stats.Runs > 0 {
			fmt.Printf("%s: %d runs, best %d bricks, average %.1f\n",
				username, stats.Runs, stats.BestDestroyed, stats.AvgDestroyed)
		}
		if best, bestErr := store.BestRun(username); bestErr == nil && best != nil {
			fmt.Printf("Best run: %d/%d bricks in %d frames with the %s policy (%s)\n",
				best.DestroyedBricks, best.TotalBricks, best.Frames, best.Policy,
				best.CreatedAt.Format("2006-01-02"))
		}
	}
}
