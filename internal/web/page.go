// ABOUTME: HTML rendering of the card page served at "/".
// ABOUTME: Uses the same display fallbacks and date format as the terminal cards.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"strconv"

	"github.com/samber/lo"

	"github.com/2389-research/newsdeck/internal/feed"
	"github.com/2389-research/newsdeck/internal/models"
	"github.com/2389-research/newsdeck/internal/render"
)

//go:embed templates/*.html
var templates embed.FS

var pageTmpl = template.Must(template.ParseFS(templates, "templates/page.html"))

type cardView struct {
	Title     string
	Summary   string
	Provider  string
	Type      string
	Glyph     string
	Date      string
	ImageURL  string
	SourceURL string
}

type option struct {
	Value    string
	Selected bool
}

type pageView struct {
	APIURL     string
	Search     string
	Providers  []option
	Types      []option
	Cards      []cardView
	ShowError  bool
	ErrorTitle string
	ErrorText  string
	ErrorMsg   string
	Empty      string
	ReadMore   string
	Total      string
	Sources    string
	Showing    int
	Updated    string
}

func options(values []string, selected string) []option {
	return lo.Map(values, func(v string, _ int) option {
		return option{Value: v, Selected: v == selected}
	})
}

func toCard(p models.Post, _ int) cardView {
	return cardView{
		Title:     p.Title,
		Summary:   render.Truncate(p.Summary, 240),
		Provider:  render.DisplayProvider(p),
		Type:      render.DisplayType(p),
		Glyph:     render.Glyph(p.Type),
		Date:      render.FormatDate(p),
		ImageURL:  p.ImageURL,
		SourceURL: p.SourceURL,
	}
}

func newPageView(s feed.State, apiURL string) pageView {
	v := pageView{
		APIURL:     apiURL,
		Search:     s.Filters.Search,
		Providers:  options(s.Providers, s.Filters.Provider),
		Types:      options(s.Types, s.Filters.Type),
		Cards:      lo.Map(s.Filtered, toCard),
		ShowError:  s.ShowError(),
		ErrorTitle: render.LoadErrorTitle,
		ErrorMsg:   render.LoadErrorMessage,
		Empty:      render.EmptyMessage,
		ReadMore:   render.ReadMore,
		Total:      "-",
		Sources:    "-",
		Showing:    len(s.Filtered),
		Updated:    "--:--",
	}
	if s.LoadErr != nil {
		v.ErrorText = s.LoadErr.Error()
	}
	if s.Stats != nil {
		v.Total = strconv.Itoa(s.Stats.TotalPosts)
		v.Sources = strconv.Itoa(s.Stats.ProviderCount())
		v.Updated = render.FormatClock(s.StatsUpdated)
	}
	return v
}

func renderPage(s feed.State, apiURL string) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, newPageView(s, apiURL)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
