// Package tui implements the interactive terminal search browser. It wraps a
// single textinput + viewport bubbletea model: type a query, hit enter, then
// page through the matching chunks.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
)

// searchLimit caps how many chunks a single query pulls back.
const searchLimit = 10

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8"))

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1)

	resultBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1)
)

// searchDoneMsg carries the outcome of an asynchronous search back into the
// update loop.
type searchDoneMsg struct {
	query   string
	results []domain.SearchResult
	err     error
}

// App is the bubbletea model for the search browser.
type App struct {
	ports *Ports
	ctx   context.Context

	input    textinput.Model
	viewport viewport.Model

	results   []domain.SearchResult
	cursor    int
	lastQuery string
	status    string
	searching bool

	width  int
	height int
	ready  bool
}

// NewApp creates the search browser. The ports must carry a search service.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: ports are required")
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "search the wiki"
	ti.CharLimit = 0
	ti.Focus()

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		input:    ti,
		viewport: viewport.New(0, 0),
		status:   "enter a query to search",
	}, nil
}

// WithContext sets the context used for search calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case searchDoneMsg:
		a.searching = false
		a.lastQuery = msg.query
		if msg.err != nil {
			a.results = nil
			a.status = errorStyle.Render(fmt.Sprintf("search failed: %v", msg.err))
			a.viewport.SetContent("")
			return a, nil
		}
		a.results = msg.results
		a.cursor = 0
		if len(a.results) == 0 {
			a.status = fmt.Sprintf("no results for %q", msg.query)
		} else {
			a.status = fmt.Sprintf("%d results for %q", len(a.results), msg.query)
			a.input.Blur()
		}
		a.viewport.SetContent(a.renderCurrentResult())
		a.viewport.GotoTop()
		return a, nil
	}

	return a, a.updateFocused(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		return a, tea.Quit

	case tea.KeyEsc:
		if !a.input.Focused() {
			a.input.Focus()
			return a, textinput.Blink
		}
		return a, tea.Quit

	case tea.KeyEnter:
		if !a.input.Focused() {
			return a, nil
		}
		query := strings.TrimSpace(a.input.Value())
		if query == "" || a.searching {
			return a, nil
		}
		a.searching = true
		a.status = fmt.Sprintf("searching for %q...", query)
		return a, a.search(query)
	}

	if !a.input.Focused() {
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "up", "k":
			a.moveCursor(-1)
			return a, nil
		case "down", "j":
			a.moveCursor(1)
			return a, nil
		}
	}

	return a, a.updateFocused(msg)
}

// updateFocused routes messages to the input when it has focus and to the
// viewport otherwise, so paging keys scroll the result detail.
func (a *App) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if a.input.Focused() {
		a.input, cmd = a.input.Update(msg)
	} else {
		a.viewport, cmd = a.viewport.Update(msg)
	}
	return cmd
}

// search runs the query against the search service off the update loop.
func (a *App) search(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := a.ports.Search.Search(a.ctx, query, searchLimit)
		return searchDoneMsg{query: query, results: results, err: err}
	}
}

func (a *App) moveCursor(delta int) {
	if len(a.results) == 0 {
		return
	}
	a.cursor = (a.cursor + delta + len(a.results)) % len(a.results)
	a.viewport.SetContent(a.renderCurrentResult())
	a.viewport.GotoTop()
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	frameW, frameH := resultBoxStyle.GetFrameSize()
	a.input.Width = width - frameW - len(a.input.Prompt) - 1

	// Header, input box and status line each claim rows above and below the
	// result viewport.
	_, inputFrameH := inputBoxStyle.GetFrameSize()
	reserved := 2 + inputFrameH + 1 + 1 + frameH
	vpHeight := height - reserved
	if vpHeight < 3 {
		vpHeight = 3
	}
	a.viewport.Width = width - frameW
	a.viewport.Height = vpHeight
	a.viewport.SetContent(a.renderCurrentResult())
}

func (a *App) renderCurrentResult() string {
	if len(a.results) == 0 {
		if a.lastQuery == "" {
			return "No results yet. Type a query and press enter."
		}
		return "No results."
	}
	r := a.results[a.cursor]
	header := fmt.Sprintf("Result %d/%d", a.cursor+1, len(a.results))
	return header + "\n\n" + r.ToMarkdown()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("wikivec"))
	b.WriteString("\n\n")
	b.WriteString(inputBoxStyle.Width(a.width - 2).Render(a.input.View()))
	b.WriteString("\n")
	b.WriteString(resultBoxStyle.Width(a.width - 2).Render(a.viewport.View()))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(a.status + "  (enter: search, up/down: results, esc: quit)"))
	return b.String()
}

// Results returns the chunks from the last completed search.
func (a *App) Results() []domain.SearchResult {
	return a.results
}

// Cursor returns the index of the selected result.
func (a *App) Cursor() int {
	return a.cursor
}

// Status returns the current status line text.
func (a *App) Status() string {
	return a.status
}
