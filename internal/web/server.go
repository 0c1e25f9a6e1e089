// ABOUTME: Fiber HTTP server that re-publishes the aggregator feed as a card page and JSON.
// ABOUTME: A background interval refreshes a shared State; each request filters its own copy.
package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/2389-research/newsdeck/internal/feed"
	"github.com/2389-research/newsdeck/internal/models"
	"github.com/2389-research/newsdeck/internal/schedule"
)

var refreshes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "newsdeck_web_refreshes_total",
	Help: "Background feed refreshes by result",
}, []string{"result"})

// Fetcher runs one load cycle. feed.Controller satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context) feed.LoadResult
}

// ServerConfig configures the web server.
type ServerConfig struct {
	// Fetcher loads posts and stats from the aggregator
	Fetcher Fetcher

	// APIURL is shown in the page footer
	APIURL string

	// Interval between background refreshes
	Interval time.Duration
}

// Server owns the latest feed State and the fiber app that serves it.
type Server struct {
	sync.RWMutex
	state    feed.State
	fetcher  Fetcher
	apiURL   string
	interval *schedule.Interval
}

// NewServer creates a server with an empty state. Call Start to begin loading.
func NewServer(config ServerConfig) *Server {
	return &Server{
		fetcher:  config.Fetcher,
		apiURL:   config.APIURL,
		interval: schedule.NewInterval(config.Interval),
	}
}

// Refresh runs one load cycle and folds the result into the shared state.
// Concurrent refreshes are not coordinated; the last to finish wins.
func (s *Server) Refresh(ctx context.Context) {
	r := s.fetcher.Fetch(ctx)
	if ctx.Err() != nil {
		return
	}

	s.Lock()
	s.state = s.state.Apply(r)
	s.Unlock()

	result := "ok"
	if r.PostsErr != nil {
		result = "error"
	}
	refreshes.WithLabelValues(result).Inc()
	log.WithFields(log.Fields{
		"posts":  len(r.Posts),
		"result": result,
	}).Debug("Refreshed feed")
}

// State returns a snapshot of the current state.
func (s *Server) State() feed.State {
	s.RLock()
	defer s.RUnlock()
	return s.state
}

// Start loads once in the background and then on every interval tick until Stop.
func (s *Server) Start(ctx context.Context) {
	go s.Refresh(ctx)
	s.interval.Start(ctx, s.Refresh)
}

// Stop halts background refreshes.
func (s *Server) Stop() {
	s.interval.Stop()
}

// filtersFrom reads search, provider and type from the query string.
func filtersFrom(c *fiber.Ctx) feed.Filters {
	return feed.Filters{
		Search:   c.Query("search"),
		Provider: c.Query("provider"),
		Type:     c.Query("type"),
	}
}

type postsResponse struct {
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	Posts     []models.Post `json:"posts"`
	Count     int           `json:"count"`
	Providers []string      `json:"providers"`
	Types     []string      `json:"types"`
}

// App returns the fiber app serving the page, the JSON API, health and metrics.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))

	app.Get("/", func(c *fiber.Ctx) error {
		st := s.State().WithFilters(filtersFrom(c))
		page, err := renderPage(st, s.apiURL)
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error rendering page")
			return c.Status(http.StatusInternalServerError).SendString("Error rendering page")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(page)
	})

	app.Get("/api/posts", func(c *fiber.Ctx) error {
		st := s.State().WithFilters(filtersFrom(c))
		resp := postsResponse{
			Success:   st.Loaded,
			Posts:     st.Filtered,
			Count:     len(st.Filtered),
			Providers: st.Providers,
			Types:     st.Types,
		}
		if resp.Posts == nil {
			resp.Posts = []models.Post{}
		}
		if st.LoadErr != nil {
			resp.Error = st.LoadErr.Error()
		}
		if !st.Loaded {
			return c.Status(http.StatusBadGateway).JSON(resp)
		}
		return c.JSON(resp)
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		st := s.State()
		switch {
		case st.ShowError():
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "error": st.LoadErr.Error()})
		case !st.Loaded:
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "starting"})
		}
		return c.JSON(fiber.Map{"status": "ok", "posts": len(st.Posts)})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return app
}
