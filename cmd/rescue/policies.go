package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IllumuIll/rescue-ai/internal/registry"
)

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List all available policies",
	Long:  `Shows a list of all policies registered with the episode driver.`,
	Run:   runPolicies,
}

func runPolicies(cmd *cobra.Command, args []string) {
	policies := registry.List()

	if len(policies) == 0 {
		fmt.Println("No policies available.")
		return
	}

	fmt.Println("Available policies:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, p := range policies {
		maxIDLen = max(maxIDLen, len(p.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")

	for _, p := range policies {
		fmt.Printf("  %-*s  %s\n", maxIDLen, p.ID, p.Title)
	}

	fmt.Println()
	fmt.Println("Run 'rescue run --policy <id>' or 'rescue watch --policy <id>'.")
}
