// ABOUTME: Pure filtering over the loaded post list.
// ABOUTME: Search, provider, and type predicates applied together; empty means wildcard.
package feed

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/2389-research/newsdeck/internal/models"
)

// Filters holds the three independent constraints on the visible list.
// The zero value matches everything.
type Filters struct {
	Search   string
	Provider string
	Type     string
}

// IsZero reports whether no constraint is active.
func (f Filters) IsZero() bool {
	return f.Search == "" && f.Provider == "" && f.Type == ""
}

// Matches reports whether a single post satisfies every active constraint.
func (f Filters) Matches(p models.Post) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Summary), needle) &&
			!(p.Provider != "" && strings.Contains(strings.ToLower(p.Provider), needle)) {
			return false
		}
	}
	if f.Provider != "" && p.Provider != f.Provider {
		return false
	}
	if f.Type != "" && p.Type != f.Type {
		return false
	}
	return true
}

// ApplyFilters returns the posts matching f, in their original order.
// The result never aliases posts.
func ApplyFilters(posts []models.Post, f Filters) []models.Post {
	if f.IsZero() {
		return append([]models.Post{}, posts...)
	}
	return lo.Filter(posts, func(p models.Post, _ int) bool {
		return f.Matches(p)
	})
}

// ExtractOptions returns the distinct non-empty providers, sorted, and the distinct
// non-empty types. Known types come first in the aggregator's order, then any others sorted.
func ExtractOptions(posts []models.Post) (providers, types []string) {
	providers = lo.Uniq(lo.FilterMap(posts, func(p models.Post, _ int) (string, bool) {
		return p.Provider, p.Provider != ""
	}))
	sort.Strings(providers)

	present := lo.Uniq(lo.FilterMap(posts, func(p models.Post, _ int) (string, bool) {
		return p.Type, p.Type != ""
	}))
	types = lo.Filter(models.KnownTypes, func(k string, _ int) bool {
		return lo.Contains(present, k)
	})
	extra := lo.Filter(present, func(t string, _ int) bool {
		return !models.IsKnownType(t)
	})
	sort.Strings(extra)
	return providers, append(types, extra...)
}
