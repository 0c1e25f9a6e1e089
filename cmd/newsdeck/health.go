// ABOUTME: Health check command for the aggregator API.
// ABOUTME: Exits non-zero when /health fails or reports unsuccessful.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the aggregator API",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	h, err := globalClient.Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s is unhealthy: %w", globalClient.BaseURL(), err)
	}

	fmt.Printf("%s: %s", globalClient.BaseURL(), h.Status)
	if h.Message != "" {
		fmt.Printf(" (%s)", h.Message)
	}
	fmt.Println()
	return nil
}
