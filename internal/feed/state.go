// ABOUTME: Immutable feed state and its pure transition functions.
// ABOUTME: The filtered list is always recomputed from the full list and filters.
package feed

import (
	"strings"
	"time"

	"github.com/2389-research/newsdeck/internal/models"
)

// State is everything the renderers need. Methods return a new State and never
// mutate the receiver's slices.
type State struct {
	Posts     []models.Post
	Filtered  []models.Post
	Providers []string
	Types     []string
	Filters   Filters

	Stats        *models.Stats
	StatsUpdated time.Time

	// LoadErr is the error of the most recent failed posts load, nil after a success.
	LoadErr error
	// Loaded is true once any posts load has succeeded.
	Loaded bool
}

// WithPosts replaces the full list and derived options, then refilters.
func (s State) WithPosts(posts []models.Post) State {
	s.Posts = append([]models.Post{}, posts...)
	s.Providers, s.Types = ExtractOptions(s.Posts)
	s.LoadErr = nil
	s.Loaded = true
	return s.refilter()
}

// WithStats replaces the stats snapshot wholesale.
func (s State) WithStats(stats models.Stats, at time.Time) State {
	s.Stats = &stats
	s.StatsUpdated = at
	return s
}

// WithLoadError records a failed load and keeps every piece of prior data.
func (s State) WithLoadError(err error) State {
	s.LoadErr = err
	return s
}

// WithFilters replaces all filter values.
func (s State) WithFilters(f Filters) State {
	f.Search = strings.TrimSpace(f.Search)
	s.Filters = f
	return s.refilter()
}

// WithSearch replaces the search text.
func (s State) WithSearch(search string) State {
	f := s.Filters
	f.Search = search
	return s.WithFilters(f)
}

// WithProvider replaces the provider constraint. Empty clears it.
func (s State) WithProvider(provider string) State {
	f := s.Filters
	f.Provider = provider
	return s.WithFilters(f)
}

// WithType replaces the content type constraint. Empty clears it.
func (s State) WithType(t string) State {
	f := s.Filters
	f.Type = t
	return s.WithFilters(f)
}

// ClearFilters drops every constraint; Filtered equals Posts afterwards.
func (s State) ClearFilters() State {
	return s.WithFilters(Filters{})
}

// ShowError reports whether the error panel should replace the grid.
func (s State) ShowError() bool {
	return s.LoadErr != nil
}

func (s State) refilter() State {
	s.Filtered = ApplyFilters(s.Posts, s.Filters)
	return s
}

// Cycle returns the option after current in options, wrapping through "" (all).
func Cycle(options []string, current string, step int) string {
	all := append([]string{""}, options...)
	idx := 0
	for i, o := range all {
		if o == current {
			idx = i
			break
		}
	}
	n := len(all)
	idx = ((idx+step)%n + n) % n
	return all[idx]
}
