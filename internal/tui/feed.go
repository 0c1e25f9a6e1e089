// ABOUTME: Interactive feed browser: search, provider/type filters, and a card grid.
// ABOUTME: Refreshes on a fixed interval and debounces search with generation-tagged ticks.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/2389-research/newsdeck/internal/feed"
	"github.com/2389-research/newsdeck/internal/render"
)

// FetchFn runs one load cycle. feed.Controller.Fetch satisfies it.
type FetchFn func(ctx context.Context) feed.LoadResult

// loadedMsg carries the result of one load cycle.
type loadedMsg struct {
	result feed.LoadResult
}

// refreshTickMsg fires on the refresh interval.
type refreshTickMsg struct{}

// searchDebounceMsg fires after the search quiet period. Only the newest
// generation is applied; older ones were superseded by later keystrokes.
type searchDebounceMsg struct {
	gen   int
	value string
}

// headerLines is the height of everything above the viewport.
const headerLines = 5

type feedKeyMap struct {
	Search       key.Binding
	NextProvider key.Binding
	PrevProvider key.Binding
	NextType     key.Binding
	PrevType     key.Binding
	Clear        key.Binding
	Refresh      key.Binding
	Quit         key.Binding
}

func (k feedKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.NextProvider, k.NextType, k.Clear, k.Refresh, k.Quit}
}

func (k feedKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Clear, k.Refresh},
		{k.NextProvider, k.PrevProvider, k.NextType, k.PrevType},
		{k.Quit},
	}
}

var feedKeys = feedKeyMap{
	Search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	NextProvider: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "provider")),
	PrevProvider: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "prev provider")),
	NextType:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "type")),
	PrevType:     key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "prev type")),
	Clear:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
	Refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	filterLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	filterValue = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
)

// FeedModel is the bubbletea model for the feed browser.
type FeedModel struct {
	state    feed.State
	fetch    FetchFn
	interval time.Duration
	debounce time.Duration

	search    textinput.Model
	searchGen int
	viewport  viewport.Model
	spinner   spinner.Model
	help      help.Model

	// inFlight counts outstanding loads; overlapping loads are allowed.
	inFlight int
	quitting bool
	apiURL   string
	ctx      context.Context
	cancel   *cancelHolder
}

// NewFeedModel creates the browser. interval and debounce must be positive.
func NewFeedModel(fetch FetchFn, apiURL string, interval, debounce time.Duration) FeedModel {
	in := textinput.New()
	in.Placeholder = "search titles, summaries, providers"
	in.Prompt = "🔎 "
	in.Width = 50

	s := spinner.New()
	s.Spinner = spinner.Dot

	ctx, cancel := context.WithCancel(context.Background())

	return FeedModel{
		fetch:    fetch,
		interval: interval,
		debounce: debounce,
		search:   in,
		viewport: viewport.New(80, 20),
		spinner:  s,
		help:     help.New(),
		inFlight: 1, // the load started by Init
		apiURL:   apiURL,
		ctx:      ctx,
		cancel:   &cancelHolder{cancel: cancel},
	}
}

// State returns the current feed state.
func (m FeedModel) State() feed.State {
	return m.state
}

// Init implements tea.Model.
func (m FeedModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.scheduleRefresh(), m.spinner.Tick)
}

func (m FeedModel) load() tea.Cmd {
	ctx, fetch := m.ctx, m.fetch
	return func() tea.Msg {
		return loadedMsg{result: fetch(ctx)}
	}
}

func (m FeedModel) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

func (m FeedModel) scheduleSearch() tea.Cmd {
	gen, value := m.searchGen, m.search.Value()
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{gen: gen, value: value}
	})
}

// Update implements tea.Model.
func (m FeedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerLines-1, 3)
		m.help.Width = msg.Width
		m.setContent()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		if m.search.Focused() {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)

	case loadedMsg:
		m.inFlight = max(m.inFlight-1, 0)
		m.state = m.state.Apply(msg.result)
		m.setContent()
		return m, nil

	case refreshTickMsg:
		log.Debug("Refreshing feed on interval")
		m.inFlight++
		return m, tea.Batch(m.load(), m.scheduleRefresh(), m.spinner.Tick)

	case searchDebounceMsg:
		if msg.gen != m.searchGen {
			return m, nil
		}
		m.state = m.state.WithSearch(msg.value)
		m.resetContent()
		return m, nil

	case spinner.TickMsg:
		if m.inFlight > 0 {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m FeedModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.cancel.cancel != nil {
		m.cancel.cancel()
	}
	return m, tea.Quit
}

func (m FeedModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEscape:
		m.search.Blur()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	m.searchGen++
	return m, tea.Batch(cmd, m.scheduleSearch())
}

func (m FeedModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, feedKeys.Quit):
		return m.quit()
	case key.Matches(msg, feedKeys.Search):
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, feedKeys.NextProvider):
		m.state = m.state.WithProvider(feed.Cycle(m.state.Providers, m.state.Filters.Provider, 1))
	case key.Matches(msg, feedKeys.PrevProvider):
		m.state = m.state.WithProvider(feed.Cycle(m.state.Providers, m.state.Filters.Provider, -1))
	case key.Matches(msg, feedKeys.NextType):
		m.state = m.state.WithType(feed.Cycle(m.state.Types, m.state.Filters.Type, 1))
	case key.Matches(msg, feedKeys.PrevType):
		m.state = m.state.WithType(feed.Cycle(m.state.Types, m.state.Filters.Type, -1))
	case key.Matches(msg, feedKeys.Clear):
		// A pending debounced search must not resurrect the cleared text.
		m.searchGen++
		m.search.SetValue("")
		m.state = m.state.ClearFilters()
	case key.Matches(msg, feedKeys.Refresh):
		m.inFlight++
		return m, tea.Batch(m.load(), m.spinner.Tick)
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	m.resetContent()
	return m, nil
}

// setContent re-renders the body and keeps the scroll position; the viewport
// clamps it if the content got shorter.
func (m *FeedModel) setContent() {
	m.viewport.SetContent(render.Body(m.state, m.viewport.Width))
}

// resetContent re-renders the body for a new filter and scrolls to the top.
func (m *FeedModel) resetContent() {
	m.setContent()
	m.viewport.GotoTop()
}

func optionLabel(v string) string {
	if v == "" {
		return "All"
	}
	return v
}

// View implements tea.Model.
func (m FeedModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(brandStyle.Render("NEWSDECK"))
	b.WriteString(stepStyle.Render("  " + m.apiURL))
	if m.inFlight > 0 {
		b.WriteString("  " + m.spinner.View() + promptStyle.Render(" loading..."))
	}
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(filterLabel.Render("Provider: "))
	b.WriteString(filterValue.Render(optionLabel(m.state.Filters.Provider)))
	b.WriteString(filterLabel.Render(fmt.Sprintf(" (%d)   Type: ", len(m.state.Providers))))
	b.WriteString(filterValue.Render(optionLabel(m.state.Filters.Type)))
	b.WriteString(filterLabel.Render(fmt.Sprintf(" (%d)", len(m.state.Types))))
	b.WriteString("\n")
	b.WriteString(render.StatsBar(m.state))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.help.View(feedKeys))
	return b.String()
}
