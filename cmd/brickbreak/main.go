// brickbreak turns a GitHub contribution calendar into a game of Breakout
// and records the run as an animated GIF.
//
// Usage:
//
//	brickbreak generate <username>  - Generate a contribution-breaking GIF
//	brickbreak fetch <username>     - Fetch and cache a contribution calendar
//	brickbreak preview <username>   - Watch the simulation live in the terminal
//	brickbreak policies             - List paddle control policies
//	brickbreak runs [username]      - Show recorded generation runs
//	brickbreak serve                - Start SSH server for remote previews
//
// Global flags:
//
//	--config <path> - Custom config YAML (defaults to the embedded config)
//	--db <path>     - Runs database path (default: ~/.brickbreak/runs.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig string
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "brickbreak",
	Short: "Break your GitHub contribution graph, one brick at a time",
	Long: `brickbreak renders a GitHub contribution calendar as a game of
Breakout: every contribution cell becomes a brick whose strength follows
its intensity, a paddle keeps the ball in play until the wall is gone,
and the whole run is encoded as an animated GIF.

Available commands:
  generate - Fetch contributions, simulate the run, write the GIF
  fetch    - Fetch and cache a contribution calendar
  preview  - Watch the simulation live in the terminal
  policies - List the paddle control policies
  runs     - Show recorded generation runs
  serve    - Serve live previews over SSH

Examples:
  brickbreak generate octocat
  brickbreak generate octocat --policy column -o wall.gif
  brickbreak preview octocat --fps 30
  brickbreak runs octocat
  brickbreak serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.brickbreak/runs.db", "Path to runs database")

	// Add subcommands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(policiesCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
}
