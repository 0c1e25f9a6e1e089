// ABOUTME: Tests for the aggregator API client using an httptest server.
// ABOUTME: Covers envelopes, query params, headers, and each error kind.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/2389-research/newsdeck/internal/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/api/", "", time.Second)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestListPosts(t *testing.T) {
	var receivedPath, receivedRequestID string

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("expected GET, got %s", r.Method)
		}
		receivedPath = r.URL.Path
		receivedRequestID = r.Header.Get("X-Request-ID")
		writeJSON(w, map[string]interface{}{
			"success": true,
			"count":   2,
			"posts": []models.Post{
				{ID: 1, Title: "Go 1.24 released", Summary: "Generic type aliases", Provider: "Go Blog", Type: "Noticia", SourceURL: "https://go.dev/blog/go1.24"},
				{ID: 2, Title: "Profiling", Summary: "pprof tips", SourceURL: "https://example.com/pprof"},
			},
		})
	})

	posts, err := client.ListPosts(context.Background(), ListPostsOptions{})
	if err != nil {
		t.Fatalf("ListPosts error: %v", err)
	}
	if receivedPath != "/api/posts" {
		t.Errorf("expected path /api/posts, got %s", receivedPath)
	}
	if receivedRequestID == "" {
		t.Error("expected X-Request-ID header")
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].Provider != "Go Blog" {
		t.Errorf("expected provider 'Go Blog', got %q", posts[0].Provider)
	}
	if posts[1].Provider != "" {
		t.Errorf("expected empty provider for second post, got %q", posts[1].Provider)
	}
}

func TestListPostsQueryParams(t *testing.T) {
	var query map[string]string

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		writeJSON(w, map[string]interface{}{"success": true, "posts": []models.Post{}})
	})

	_, err := client.ListPosts(context.Background(), ListPostsOptions{
		Limit:    5,
		Offset:   10,
		Provider: "Go Blog",
		Type:     "Video",
		Search:   "generics",
	})
	if err != nil {
		t.Fatalf("ListPosts error: %v", err)
	}

	want := map[string]string{"limit": "5", "offset": "10", "provider": "Go Blog", "type": "Video", "search": "generics"}
	for k, v := range want {
		if query[k] != v {
			t.Errorf("expected %s=%q, got %q", k, v, query[k])
		}
	}
}

func TestListPostsNullPosts(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "posts": null}`))
	})

	posts, err := client.ListPosts(context.Background(), ListPostsOptions{})
	if err != nil {
		t.Fatalf("ListPosts error: %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", posts)
	}
}

func TestListPostsHTTPError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success": false, "error": "database locked"}`))
	})

	before := testutil.ToFloat64(apiRequests.WithLabelValues("posts", "http_error"))

	_, err := client.ListPosts(context.Background(), ListPostsOptions{})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", statusErr.StatusCode)
	}
	if !strings.Contains(statusErr.Error(), "database locked") {
		t.Errorf("expected body in error message, got %q", statusErr.Error())
	}

	after := testutil.ToFloat64(apiRequests.WithLabelValues("posts", "http_error"))
	if after != before+1 {
		t.Errorf("expected http_error counter to increase by 1, went %v -> %v", before, after)
	}
}

func TestListPostsUnsuccessful(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"success": false, "error": "maintenance"})
	})

	_, err := client.ListPosts(context.Background(), ListPostsOptions{})
	if !errors.Is(err, ErrUnsuccessful) {
		t.Fatalf("expected ErrUnsuccessful, got %v", err)
	}
	if !strings.Contains(err.Error(), "maintenance") {
		t.Errorf("expected server message in error, got %q", err.Error())
	}
}

func TestListPostsMalformedJSON(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	})

	_, err := client.ListPosts(context.Background(), ListPostsOptions{})
	if err == nil {
		t.Fatal("expected decode error")
	}
	if errors.Is(err, ErrUnsuccessful) {
		t.Error("decode failure should not be reported as ErrUnsuccessful")
	}
}

func TestListPostsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, "", time.Second)
	_, err := client.ListPosts(context.Background(), ListPostsOptions{})
	if err == nil {
		t.Fatal("expected transport error for closed server")
	}
}

func TestListPostsContextCancelled(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"success": true})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.ListPosts(ctx, ListPostsOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStats(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stats" {
			t.Errorf("expected /api/stats, got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success": true, "stats": {"total_posts": 7, "by_provider": [{"provider": "A", "count": 4}, {"provider": "B", "count": 3}], "by_type": [{"type": "Video", "count": 7}]}}`))
	})

	stats, err := client.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats.TotalPosts != 7 {
		t.Errorf("expected 7 total posts, got %d", stats.TotalPosts)
	}
	if stats.ProviderCount() != 2 {
		t.Errorf("expected 2 providers, got %d", stats.ProviderCount())
	}
	if len(stats.ByType) != 1 || stats.ByType[0].Type != "Video" {
		t.Errorf("unexpected by_type: %#v", stats.ByType)
	}
}

func TestGetPost(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/posts/42" {
			writeJSON(w, map[string]interface{}{"success": true, "post": models.Post{ID: 42, Title: "Answer"}})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]interface{}{"success": false, "error": "Post no encontrado"})
	})

	post, err := client.GetPost(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetPost error: %v", err)
	}
	if post.Title != "Answer" {
		t.Errorf("expected title 'Answer', got %q", post.Title)
	}

	_, err = client.GetPost(context.Background(), 7)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 StatusError, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"success": true, "status": "healthy", "message": "ok"})
	})

	h, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health error: %v", err)
	}
	if !h.Success || h.Status != "healthy" {
		t.Errorf("unexpected health: %#v", h)
	}
}

func TestAPIKeyHeader(t *testing.T) {
	var receivedKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedKey = r.Header.Get("x-api-key")
		writeJSON(w, map[string]interface{}{"success": true})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second)
	if _, err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health error: %v", err)
	}
	if receivedKey != "secret" {
		t.Errorf("expected x-api-key 'secret', got %q", receivedKey)
	}
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	client := NewClient("http://localhost:5000/api///", "", 0)
	if client.BaseURL() != "http://localhost:5000/api" {
		t.Errorf("expected trimmed base URL, got %q", client.BaseURL())
	}
}
