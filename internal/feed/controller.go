// ABOUTME: Feed controller that fetches posts and stats and folds them into State.
// ABOUTME: Posts failures surface as an error panel; stats failures are only logged.
package feed

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2389-research/newsdeck/internal/api"
	"github.com/2389-research/newsdeck/internal/models"
)

// Source is the read-only API surface the controller needs.
type Source interface {
	ListPosts(ctx context.Context, opts api.ListPostsOptions) ([]models.Post, error)
	Stats(ctx context.Context) (*models.Stats, error)
	Health(ctx context.Context) (*models.Health, error)
}

// LoadResult is the outcome of one fetch cycle, independent of any State.
type LoadResult struct {
	Posts    []models.Post
	PostsErr error
	Stats    *models.Stats
	StatsErr error
	At       time.Time
}

// Apply folds a fetch result into s. A posts failure keeps all prior data and sets
// LoadErr; a stats failure keeps the previous snapshot.
func (s State) Apply(r LoadResult) State {
	if r.PostsErr != nil {
		return s.WithLoadError(r.PostsErr)
	}
	s = s.WithPosts(r.Posts)
	if r.StatsErr == nil && r.Stats != nil {
		s = s.WithStats(*r.Stats, r.At)
	}
	return s
}

// Controller runs load cycles against a Source.
type Controller struct {
	src Source
	now func() time.Time
}

// NewController creates a controller reading from src.
func NewController(src Source) *Controller {
	return &Controller{src: src, now: time.Now}
}

// Fetch loads posts and, if that succeeded, stats. Errors are logged here and
// returned in the result; nothing is retried.
func (c *Controller) Fetch(ctx context.Context) LoadResult {
	posts, err := c.src.ListPosts(ctx, api.ListPostsOptions{})
	if err != nil {
		log.WithFields(log.Fields{"error": err}).Error("Failed to load posts")
		return LoadResult{PostsErr: err, At: c.now()}
	}
	log.WithFields(log.Fields{"count": len(posts)}).Info("Posts loaded")

	res := LoadResult{Posts: posts}
	stats, err := c.src.Stats(ctx)
	if err != nil {
		log.WithFields(log.Fields{"error": err}).Warn("Failed to load stats")
		res.StatsErr = err
	} else {
		res.Stats = stats
	}
	res.At = c.now()
	return res
}

// Load runs one fetch cycle and applies it to s.
func (c *Controller) Load(ctx context.Context, s State) State {
	return s.Apply(c.Fetch(ctx))
}

// CheckHealth pings the API. A failure is logged and reported, never fatal.
func (c *Controller) CheckHealth(ctx context.Context) bool {
	h, err := c.src.Health(ctx)
	if err != nil {
		log.WithFields(log.Fields{"error": err}).Error("API unavailable")
		return false
	}
	log.WithFields(log.Fields{"status": h.Status}).Info("API healthy")
	return h.Success
}
