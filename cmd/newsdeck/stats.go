// ABOUTME: Prints the aggregator's summary statistics.
// ABOUTME: Total posts, provider count, and per-provider and per-type counts.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show feed statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	stats, err := globalClient.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}

	fmt.Printf("Total posts: %d\n", stats.TotalPosts)
	fmt.Printf("Providers:   %d\n", stats.ProviderCount())
	if len(stats.ByProvider) > 0 {
		fmt.Println("\nBy provider:")
		for _, pc := range stats.ByProvider {
			fmt.Printf("  %-24s %d\n", pc.Provider, pc.Count)
		}
	}
	if len(stats.ByType) > 0 {
		fmt.Println("\nBy type:")
		for _, tc := range stats.ByType {
			fmt.Printf("  %-24s %d\n", tc.Type, tc.Count)
		}
	}
	return nil
}
