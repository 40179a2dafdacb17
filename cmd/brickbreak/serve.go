package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dacebt/gh-brickbreak/internal/config"
	"github.com/dacebt/gh-brickbreak/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServePolicy string
	flagServeToken  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH preview server",
	Long: `Start an SSH server that plays the contribution animation for whoever
connects: the SSH login name is used as the GitHub username, so
'ssh octocat@host -p 23234' watches octocat's wall break.

Calendars are cached in the runs database for a day, shared with the
generate and fetch commands.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.brickbreak/host_key

Examples:
  brickbreak serve                           # Listen on :23234 with auto-generated key
  brickbreak serve --ssh :2222               # Listen on port 2222
  brickbreak serve --host-key ./my_host_key  # Use specific host key
  brickbreak serve --policy column           # Serve a different policy

Users can connect with:
  ssh <github-username>@localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServePolicy, "policy", "follow", "Paddle control policy served to sessions")
	serveCmd.Flags().StringVar(&flagServeToken, "token", "", "GitHub API token (defaults to GITHUB_TOKEN)")
}

func runServe(_ *cobra.Command, _ []string) {
	appCfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.PolicyID = flagServePolicy
	cfg.Token = flagServeToken
	cfg.App = appCfg

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting brickbreak SSH server on %s\n", cfg.Address)
	fmt.Println("Watch a wall break with: ssh <github-username>@localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
