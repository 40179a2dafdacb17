package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dacebt/gh-brickbreak/internal/policy"
)

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List paddle control policies",
	Long:  `Shows the paddle control policies the simulation can run with.`,
	Run:   runPolicies,
}

func runPolicies(cmd *cobra.Command, args []string) {
	infos := policy.List()

	if len(infos) == 0 {
		fmt.Println("No policies registered.")
		return
	}

	fmt.Println("Available policies:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, p := range infos {
		if len(p.ID) > maxIDLen {
			maxIDLen = len(p.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Description")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----------")

	// Print policies
	for _, p := range infos {
		fmt.Printf("  %-*s  %s\n", maxIDLen, p.ID, p.Description)
	}

	fmt.Println()
	fmt.Println("Run 'brickbreak generate <username> --policy <id>' to use one.")
}
