package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shortreel/internal/dramabox"
)

// popularState backs the Popular view.
type popularState struct {
	terms    []string
	selected int
	loading  bool
	err      error
}

type popularLoadedMsg struct {
	terms []string
	err   error
}

// handleSearchInput feeds keys to the focused search box.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.searchInput.Blur()
		return m, nil
	case tea.KeyEnter:
		query := strings.TrimSpace(m.searchInput.Value())
		if query == "" {
			return m, nil
		}
		m.searchInput.Blur()
		cmd := m.runSearch(query)
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// runSearch starts a new search for query from the first page.
func (m *Model) runSearch(query string) tea.Cmd {
	m.query = query
	m.searchInput.SetValue(query)
	m.currentView = ViewSearch
	m.search.page = 1
	m.search.selected = 0
	m.search.items = nil
	return m.loadSearch()
}

func (m *Model) loadSearch() tea.Cmd {
	if m.catalog == nil || m.query == "" {
		return nil
	}
	query, page := m.query, max(m.search.page, 1)
	m.search.request = fmt.Sprintf("%s:%d", query, page)
	m.search.loading = true
	m.search.err = nil

	catalog := m.catalog
	return fetchListCmd(m.ctx, ViewSearch, m.search.request, func(ctx context.Context) ([]dramabox.Drama, error) {
		return catalog.Search(ctx, query, page)
	})
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cursor, ok := m.moveCursor(msg, m.search.selected, len(m.search.items)); ok {
		m.search.selected = cursor
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Open):
		if d, ok := m.search.current(); ok {
			cmd = m.openDetail(d, "")
		}
	case key.Matches(msg, m.keys.Refresh):
		cmd = m.loadSearch()
	case key.Matches(msg, m.keys.NextPage):
		if m.query == "" {
			return m, nil
		}
		m.search.page++
		m.search.selected = 0
		cmd = m.loadSearch()
	case key.Matches(msg, m.keys.PrevPage):
		if m.query == "" || m.search.page <= 1 {
			return m, nil
		}
		m.search.page--
		m.search.selected = 0
		cmd = m.loadSearch()
	}
	return m, cmd
}

func (m Model) renderSearch() string {
	styles := m.theme.Styles()
	title := "Search"
	if m.query != "" {
		title = fmt.Sprintf("Search · %q · page %d", m.query, max(m.search.page, 1))
	}

	input := m.searchInput.View()
	if !m.searchInput.Focused() {
		input = styles.FaintText.Render("press / to search")
	}

	empty := "No titles match"
	if m.query == "" {
		empty = "Type a title and press enter"
	}

	// One row for the input and one spacer.
	inner := m
	inner.height -= 2
	return m.renderBox(title, input+"\n\n"+inner.renderList(m.search, empty))
}

func (m *Model) loadPopular() tea.Cmd {
	if m.catalog == nil {
		return nil
	}
	m.popular.loading = true
	m.popular.err = nil
	catalog, parent := m.catalog, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, FetchTimeout)
		defer cancel()
		terms, err := catalog.PopularSearch(ctx)
		return popularLoadedMsg{terms: terms, err: err}
	}
}

func (m Model) handlePopularKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cursor, ok := m.moveCursor(msg, m.popular.selected, len(m.popular.terms)); ok {
		m.popular.selected = cursor
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Open):
		if m.popular.selected < len(m.popular.terms) {
			cmd = m.runSearch(m.popular.terms[m.popular.selected])
		}
	case key.Matches(msg, m.keys.Refresh):
		cmd = m.loadPopular()
	}
	return m, cmd
}

func (m Model) renderPopular() string {
	styles := m.theme.Styles()
	p := m.popular

	var body string
	switch {
	case len(p.terms) == 0 && p.loading:
		body = styles.MutedText.Render("Loading...")
	case len(p.terms) == 0 && p.err != nil:
		body = m.renderFetchError(p.err)
	case len(p.terms) == 0:
		body = styles.MutedText.Render("No trending searches right now")
	default:
		width := m.innerWidth()
		start, end := visibleWindow(p.selected, len(p.terms), m.innerHeight())
		lines := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			row := fmt.Sprintf("%3d  %s", i+1, truncate(p.terms[i], width-5))
			if i == p.selected {
				lines = append(lines, styles.Selected.Width(width).Render(row))
				continue
			}
			lines = append(lines, styles.Text.Render(row))
		}
		body = strings.Join(lines, "\n")
	}
	return m.renderBox("Popular searches", body)
}
