// ABOUTME: One-shot feed listing with search, provider, and type filters.
// ABOUTME: Prints cards with the stats bar, or the filtered posts as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/2389-research/newsdeck/internal/feed"
	"github.com/2389-research/newsdeck/internal/render"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the feed once",
	Long:  "Load posts and stats once, apply filters, and print the matching cards.",
	RunE:  runList,
}

// Flags
var (
	listSearch   string
	listProvider string
	listType     string
	listLimit    int
	listJSON     bool
	listWidth    int
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listSearch, "search", "", "Case-insensitive phrase matched against title, summary, provider")
	listCmd.Flags().StringVar(&listProvider, "provider", "", "Exact provider name")
	listCmd.Flags().StringVar(&listType, "type", "", "Exact content type")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of posts to print (0 for all)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print the filtered posts as JSON")
	listCmd.Flags().IntVar(&listWidth, "width", 80, "Output width for the card grid")
}

func runList(cmd *cobra.Command, args []string) error {
	state := globalController.Load(cmd.Context(), feed.State{})
	if state.LoadErr != nil {
		return fmt.Errorf("%s: %w", render.LoadErrorMessage, state.LoadErr)
	}

	state = state.WithFilters(feed.Filters{
		Search:   listSearch,
		Provider: listProvider,
		Type:     listType,
	})
	if listLimit > 0 && len(state.Filtered) > listLimit {
		state.Filtered = state.Filtered[:listLimit]
	}

	if listJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(state.Filtered)
	}

	fmt.Println(render.Feed(state, listWidth))
	return nil
}
