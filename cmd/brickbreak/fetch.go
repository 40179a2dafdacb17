package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dacebt/gh-brickbreak/internal/config"
	"github.com/dacebt/gh-brickbreak/internal/contrib"
)

var (
	flagFetchToken   string
	flagFetchRawOut  string
	flagFetchRefresh bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <username>",
	Short: "Fetch and cache a contribution calendar",
	Long: `Fetch a user's contribution calendar from the GitHub GraphQL API and
store it in the runs database cache. Later generate and preview runs for
the same user reuse the cache for a day instead of hitting the API.

Requires a token: pass --token or set GITHUB_TOKEN.

Examples:
  brickbreak fetch octocat
  brickbreak fetch octocat --raw-output calendar.json
  brickbreak fetch octocat --refresh`,
	Args: cobra.ExactArgs(1),
	Run:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&flagFetchToken, "token", "", "GitHub API token (defaults to GITHUB_TOKEN)")
	fetchCmd.Flags().StringVar(&flagFetchRawOut, "raw-output", "", "Also write the calendar JSON to this path")
	fetchCmd.Flags().BoolVar(&flagFetchRefresh, "refresh", false, "Ignore the cached calendar")
}

func runFetch(cmd *cobra.Command, args []string) {
	username := args[0]

	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cal, err := resolveCalendar(cfg, store, username, "", flagFetchToken, flagFetchRefresh)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching calendar: %v\n", err)
		os.Exit(1)
	}

	if flagFetchRawOut != "" {
		if err := contrib.SaveFile(flagFetchRawOut, cal); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing calendar JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Calendar JSON written to %s\n", flagFetchRawOut)
	}

	// Count the cells that will become bricks
	bricks := 0
	if grid, gridErr := cal.Grid(); gridErr == nil {
		for col := 0; col < grid.Cols(); col++ {
			for row := 0; row < grid.Rows(); row++ {
				if grid.At(col, row).Level > 0 {
					bricks++
				}
			}
		}
	}

	fmt.Printf("Fetched %s: %d contributions across %d weeks\n", cal.Username, cal.Total, len(cal.Weeks))
	fmt.Printf("  Range:  %s to %s\n", cal.StartDate, cal.EndDate)
	fmt.Printf("  Bricks: %d\n", bricks)
}
