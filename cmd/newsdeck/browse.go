// ABOUTME: Interactive feed browser command, also the default when no subcommand is given.
// ABOUTME: Runs the bubbletea FeedModel in the alternate screen.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/2389-research/newsdeck/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the feed interactively",
	Long: `Open the interactive card browser.

Keys: / search, p/P cycle provider, t/T cycle type, c clear filters,
r refresh, arrows or PgUp/PgDn scroll, q quit.`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	log.WithFields(log.Fields{
		"api_url":  globalConfig.API.BaseURL,
		"interval": globalConfig.Refresh.Interval,
	}).Info("Starting feed browser")

	model := tui.NewFeedModel(
		globalController.Fetch,
		globalClient.BaseURL(),
		globalConfig.Refresh.Interval,
		globalConfig.Refresh.SearchDebounce,
	)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
