// ABOUTME: Core data models for aggregated posts, feed statistics, and API health.
// ABOUTME: Mirrors the JSON shapes served by the news-aggregator REST API.
package models

import (
	"strings"
	"time"
)

// Post is one aggregated news item. Identity is positional; ID is informational only.
type Post struct {
	ID          int    `json:"id,omitempty"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Provider    string `json:"provider,omitempty"`
	Type        string `json:"type,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	SourceURL   string `json:"source_url"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// releaseLayouts lists the date formats the aggregator has been seen to emit.
var releaseLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ReleaseTime parses ReleaseDate. The bool is false when the field is empty or unparseable.
func (p Post) ReleaseTime() (time.Time, bool) {
	s := strings.TrimSpace(p.ReleaseDate)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range releaseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ProviderCount is one row of the per-provider breakdown.
type ProviderCount struct {
	Provider string `json:"provider"`
	Count    int    `json:"count"`
}

// TypeCount is one row of the per-type breakdown.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Stats is the summary snapshot served by GET /stats.
type Stats struct {
	TotalPosts int             `json:"total_posts"`
	ByProvider []ProviderCount `json:"by_provider"`
	ByType     []TypeCount     `json:"by_type,omitempty"`
}

// ProviderCount returns the number of distinct providers in the snapshot.
func (s Stats) ProviderCount() int {
	return len(s.ByProvider)
}

// Health is the body of GET /health.
type Health struct {
	Success bool   `json:"success"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// Content types the aggregator assigns. The set is open; unknown values pass through.
const (
	TypeBlogPost      = "Artículo de Blog"
	TypeNews          = "Noticia"
	TypeVideo         = "Video"
	TypeResearch      = "Investigación"
	TypeTutorial      = "Tutorial"
	TypeDocumentation = "Documentación"
	TypeOther         = "Otro"
)

// KnownTypes lists the content types in the aggregator's canonical order.
var KnownTypes = []string{
	TypeBlogPost,
	TypeNews,
	TypeVideo,
	TypeResearch,
	TypeTutorial,
	TypeDocumentation,
	TypeOther,
}

// IsKnownType returns true if t is one of KnownTypes.
func IsKnownType(t string) bool {
	for _, k := range KnownTypes {
		if k == t {
			return true
		}
	}
	return false
}
