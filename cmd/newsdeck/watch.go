// ABOUTME: Headless feed watcher that refreshes on the configured interval.
// ABOUTME: Logs one line per refresh; lines typed on stdin replace the search phrase.
package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/2389-research/newsdeck/internal/feed"
	"github.com/2389-research/newsdeck/internal/schedule"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh the feed on an interval and log counts",
	Long: `Refresh posts and stats every refresh.interval and log how many posts
match the current filters. Each line read from stdin becomes the new
search phrase (debounced by refresh.search_debounce). Stops on Ctrl+C.`,
	RunE: runWatch,
}

// Flags
var (
	watchSearch   string
	watchProvider string
	watchType     string
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchSearch, "search", "", "Initial search phrase")
	watchCmd.Flags().StringVar(&watchProvider, "provider", "", "Exact provider name")
	watchCmd.Flags().StringVar(&watchType, "type", "", "Exact content type")
}

// watcher holds the state shared by overlapping refreshes and search updates.
type watcher struct {
	mu    sync.Mutex
	state feed.State
	ctrl  *feed.Controller
}

func (w *watcher) refresh(ctx context.Context) {
	r := w.ctrl.Fetch(ctx)
	if ctx.Err() != nil {
		return
	}
	w.mu.Lock()
	w.state = w.state.Apply(r)
	s := w.state
	w.mu.Unlock()
	report(s)
}

func (w *watcher) setSearch(search string) {
	w.mu.Lock()
	w.state = w.state.WithSearch(search)
	s := w.state
	w.mu.Unlock()
	report(s)
}

func report(s feed.State) {
	fields := log.Fields{
		"posts":    len(s.Posts),
		"showing":  len(s.Filtered),
		"search":   s.Filters.Search,
		"provider": s.Filters.Provider,
		"type":     s.Filters.Type,
	}
	if s.Stats != nil {
		fields["total"] = s.Stats.TotalPosts
		fields["providers"] = s.Stats.ProviderCount()
	}
	if s.ShowError() {
		fields["error"] = s.LoadErr
		log.WithFields(fields).Warn("Feed unavailable")
		return
	}
	log.WithFields(fields).Info("Feed refreshed")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	w := &watcher{
		ctrl: globalController,
		state: feed.State{}.WithFilters(feed.Filters{
			Search:   watchSearch,
			Provider: watchProvider,
			Type:     watchType,
		}),
	}

	interval := schedule.NewInterval(globalConfig.Refresh.Interval)
	debouncer := schedule.NewDebouncer(globalConfig.Refresh.SearchDebounce)
	defer debouncer.Cancel()

	go w.refresh(ctx)
	interval.Start(ctx, w.refresh)
	defer interval.Stop()

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			debouncer.Trigger(func() { w.setSearch(line) })
		}
	}()

	log.WithFields(log.Fields{
		"api_url":  globalClient.BaseURL(),
		"interval": globalConfig.Refresh.Interval,
	}).Info("Watching feed")

	<-ctx.Done()
	log.Info("Stopping watcher")
	return nil
}
