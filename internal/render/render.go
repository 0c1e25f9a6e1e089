// ABOUTME: Lipgloss rendering of the feed: post cards, the card grid, and status panels.
// ABOUTME: Shared by the interactive browser and the one-shot list command.
package render

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/newsdeck/internal/feed"
	"github.com/2389-research/newsdeck/internal/models"
)

// Text shown in place of missing or failed content.
const (
	UnknownProvider  = "Unknown"
	UnknownType      = "Other"
	UnknownDate      = "Unknown date"
	LoadErrorTitle   = "Connection error"
	LoadErrorMessage = "Could not load posts. Check that the API server is running."
	EmptyMessage     = "No posts match the current filters."
	ReadMore         = "Read more"
)

// Card geometry. CardWidth is the content width; borders and the gutter add to it.
const (
	CardWidth       = 38
	cardOuterWidth  = CardWidth + 2
	gutter          = 2
	maxSummaryRunes = 160
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(CardWidth)
	providerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dateStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	typeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	titleStyle    = lipgloss.NewStyle().Bold(true)
	summaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	linkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true)
	statsStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statsValue    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	errorStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 2)
	errorTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(1, 2)
)

// glyphs stand in for post images, keyed by content type.
var glyphs = map[string]string{
	models.TypeBlogPost:      "📝",
	models.TypeNews:          "📰",
	models.TypeVideo:         "🎥",
	models.TypeResearch:      "🔬",
	models.TypeTutorial:      "📚",
	models.TypeDocumentation: "📖",
	models.TypeOther:         "📄",
}

// Glyph returns the placeholder icon for a content type.
func Glyph(contentType string) string {
	if g, ok := glyphs[contentType]; ok {
		return g
	}
	return glyphs[models.TypeOther]
}

// DisplayProvider returns the provider or its fallback.
func DisplayProvider(p models.Post) string {
	if p.Provider == "" {
		return UnknownProvider
	}
	return p.Provider
}

// DisplayType returns the content type or its fallback.
func DisplayType(p models.Post) string {
	if p.Type == "" {
		return UnknownType
	}
	return p.Type
}

// FormatDate renders the release date in long form ("March 15, 2024"). Unparseable
// dates are returned as-is.
func FormatDate(p models.Post) string {
	if strings.TrimSpace(p.ReleaseDate) == "" {
		return UnknownDate
	}
	t, ok := p.ReleaseTime()
	if !ok {
		return p.ReleaseDate
	}
	return t.Format("January 2, 2006")
}

// FormatClock renders a time as HH:MM.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// Truncate shortens s to maxLen runes, adding "..." if truncated.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return strings.TrimSpace(string(runes[:maxLen])) + "..."
}

// imageHost names where the post image lives; terminals cannot draw it.
func imageHost(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Host
}

// Card renders one post as a bordered card.
func Card(p models.Post) string {
	var b strings.Builder

	placeholder := Glyph(p.Type)
	if host := imageHost(p.ImageURL); host != "" {
		placeholder += " " + dateStyle.Render("image: "+host)
	}
	b.WriteString(placeholder)
	b.WriteString("\n")

	b.WriteString(providerStyle.Render(DisplayProvider(p)))
	b.WriteString(dateStyle.Render(" · " + FormatDate(p)))
	b.WriteString("\n")
	b.WriteString(typeStyle.Render("[" + DisplayType(p) + "]"))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render(p.Title))
	b.WriteString("\n")
	if p.Summary != "" {
		b.WriteString(summaryStyle.Render(Truncate(p.Summary, maxSummaryRunes)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(linkStyle.Render(ReadMore + " → " + p.SourceURL))

	return cardStyle.Render(b.String())
}

// Columns returns how many cards fit side by side in width.
func Columns(width int) int {
	cols := (width + gutter) / (cardOuterWidth + gutter)
	if cols < 1 {
		return 1
	}
	return cols
}

// Grid renders posts as rows of cards that fit width.
func Grid(posts []models.Post, width int) string {
	cols := Columns(width)
	spacer := strings.Repeat(" ", gutter)

	var rows []string
	for start := 0; start < len(posts); start += cols {
		end := start + cols
		if end > len(posts) {
			end = len(posts)
		}
		var cells []string
		for i, p := range posts[start:end] {
			if i > 0 {
				cells = append(cells, spacer)
			}
			cells = append(cells, Card(p))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

// StatsBar summarizes the stats snapshot, the visible count, and the last update.
func StatsBar(s feed.State) string {
	total, providers, updated := "-", "-", "--:--"
	if s.Stats != nil {
		total = fmt.Sprintf("%d", s.Stats.TotalPosts)
		providers = fmt.Sprintf("%d", s.Stats.ProviderCount())
		updated = FormatClock(s.StatsUpdated)
	}
	parts := []string{
		statsStyle.Render("Posts: ") + statsValue.Render(total),
		statsStyle.Render("Providers: ") + statsValue.Render(providers),
		statsStyle.Render("Showing: ") + statsValue.Render(fmt.Sprintf("%d", len(s.Filtered))),
		statsStyle.Render("Updated: ") + statsValue.Render(updated),
	}
	return strings.Join(parts, statsStyle.Render("  ·  "))
}

// ErrorPanel renders the blocking load-failure panel.
func ErrorPanel(detail string) string {
	body := errorTitle.Render("✗ "+LoadErrorTitle) + "\n\n" + LoadErrorMessage
	if detail != "" {
		body += "\n" + dateStyle.Render(detail)
	}
	return errorStyle.Render(body)
}

// EmptyPanel renders the placeholder for an empty filtered list.
func EmptyPanel() string {
	return emptyStyle.Render(EmptyMessage)
}

// Body renders whichever of error panel, empty panel, or grid the state calls for.
func Body(s feed.State, width int) string {
	if s.ShowError() {
		return ErrorPanel(s.LoadErr.Error())
	}
	if len(s.Filtered) == 0 {
		return EmptyPanel()
	}
	return Grid(s.Filtered, width)
}

// Feed renders the stats bar followed by the body.
func Feed(s feed.State, width int) string {
	return StatsBar(s) + "\n\n" + Body(s, width)
}
