// ABOUTME: HTTP client for the read-only news-aggregator REST API.
// ABOUTME: Fetches posts, stats, and health, and unwraps the {success: ...} envelope.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2389-research/newsdeck/internal/models"
)

// ErrUnsuccessful is returned when the API answers 2xx but reports success=false.
var ErrUnsuccessful = errors.New("API reported success=false")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote API returned %d for %s: %s", e.StatusCode, e.Endpoint, e.Body)
}

// maxErrorBody bounds how much of a failed response body is kept in errors.
const maxErrorBody = 1 << 10

// Client reads from the aggregator API rooted at baseURL (e.g. http://host:5000/api).
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates an API client. apiKey may be empty.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListPostsOptions maps to the optional query parameters of GET /posts.
type ListPostsOptions struct {
	Limit    int
	Offset   int
	Provider string
	Type     string
	Search   string
}

func (o ListPostsOptions) query() url.Values {
	q := url.Values{}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	if o.Provider != "" {
		q.Set("provider", o.Provider)
	}
	if o.Type != "" {
		q.Set("type", o.Type)
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	return q
}

// envelope is the {success, error} wrapper every endpoint returns.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (e envelope) status() envelope { return e }

type enveloped interface {
	status() envelope
}

type postsResponse struct {
	envelope
	Posts []models.Post `json:"posts"`
	Count int           `json:"count"`
}

type postResponse struct {
	envelope
	Post *models.Post `json:"post"`
}

type statsResponse struct {
	envelope
	Stats *models.Stats `json:"stats"`
}

type healthResponse struct {
	envelope
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ListPosts fetches posts. Zero options return the full list in server order.
func (c *Client) ListPosts(ctx context.Context, opts ListPostsOptions) ([]models.Post, error) {
	var resp postsResponse
	if err := c.get(ctx, "posts", "/posts", opts.query(), &resp); err != nil {
		return nil, err
	}
	if resp.Posts == nil {
		return []models.Post{}, nil
	}
	return resp.Posts, nil
}

// GetPost fetches a single post by its server-side ID.
func (c *Client) GetPost(ctx context.Context, id int) (*models.Post, error) {
	var resp postResponse
	if err := c.get(ctx, "post", "/posts/"+strconv.Itoa(id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Post == nil {
		return nil, fmt.Errorf("post %d: %w: empty body", id, ErrUnsuccessful)
	}
	return resp.Post, nil
}

// Stats fetches the summary statistics snapshot.
func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	var resp statsResponse
	if err := c.get(ctx, "stats", "/stats", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Stats == nil {
		return &models.Stats{}, nil
	}
	return resp.Stats, nil
}

// Health checks GET /health.
func (c *Client) Health(ctx context.Context) (*models.Health, error) {
	var resp healthResponse
	if err := c.get(ctx, "health", "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &models.Health{Success: resp.Success, Status: resp.Status, Message: resp.Message}, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values, out enveloped) error {
	start := time.Now()
	result := "ok"
	defer func() {
		observe(endpoint, result, time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		result = "request_error"
		return fmt.Errorf("failed to create request: %w", err)
	}
	if len(q) > 0 {
		req.URL.RawQuery = q.Encode()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	log.WithFields(log.Fields{
		"endpoint":   endpoint,
		"url":        req.URL.String(),
		"request_id": req.Header.Get("X-Request-ID"),
	}).Debug("API request")

	resp, err := c.client.Do(req)
	if err != nil {
		result = "transport_error"
		return fmt.Errorf("remote API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result = "http_error"
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		result = "decode_error"
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}

	if env := out.status(); !env.Success {
		result = "unsuccessful"
		if env.Error != "" {
			return fmt.Errorf("%s: %w: %s", endpoint, ErrUnsuccessful, env.Error)
		}
		return fmt.Errorf("%s: %w", endpoint, ErrUnsuccessful)
	}
	return nil
}
