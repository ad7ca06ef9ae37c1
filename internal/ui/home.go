package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shortreel/internal/dramabox"
)

// homeRow is one selectable drama on the Home view and the section it
// belongs to.
type homeRow struct {
	section string
	drama   dramabox.Drama
}

// homeRows flattens the polled feed: VIP columns first, then latest and
// trending. Empty sections are skipped.
func (m Model) homeRows() []homeRow {
	feed := m.snapshot.Feed
	var rows []homeRow
	for _, col := range feed.VIP {
		title := strings.TrimSpace(col.Title)
		if title == "" {
			title = "Featured"
		}
		for _, d := range col.BookList {
			rows = append(rows, homeRow{section: title, drama: d})
		}
	}
	for _, d := range feed.Latest {
		rows = append(rows, homeRow{section: "Latest", drama: d})
	}
	for _, d := range feed.Trending {
		rows = append(rows, homeRow{section: "Trending", drama: d})
	}
	return rows
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.homeRows()
	if cursor, ok := m.moveCursor(msg, m.homeSelected, len(rows)); ok {
		m.homeSelected = cursor
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Open):
		if m.homeSelected < len(rows) {
			cmd = m.openDetail(rows[m.homeSelected].drama, "")
		}
	case key.Matches(msg, m.keys.Refresh):
		if m.refreshFeed != nil {
			m.refreshFeed()
		}
		m.notice = "refreshing home feed"
	}
	return m, cmd
}

func (m Model) renderHome() string {
	styles := m.theme.Styles()
	rows := m.homeRows()

	var body string
	switch {
	case len(rows) == 0 && m.snapshot.LastError != nil:
		body = m.renderFetchError(m.snapshot.LastError)
	case len(rows) == 0 && !m.snapshot.HasFeed:
		body = styles.MutedText.Render("Loading home feed...")
	case len(rows) == 0:
		body = styles.MutedText.Render("The catalogue returned nothing to show")
	default:
		// Section headings interleave with rows, so window over lines.
		var lines []string
		cursorLine := 0
		section := ""
		for i, row := range rows {
			if row.section != section {
				section = row.section
				if len(lines) > 0 {
					lines = append(lines, "")
				}
				lines = append(lines, styles.WarningText.Bold(true).Render(section))
			}
			if i == m.homeSelected {
				cursorLine = len(lines)
			}
			lines = append(lines, m.dramaLine(row.drama, i, i == m.homeSelected))
		}
		start, end := visibleWindow(cursorLine, len(lines), m.innerHeight())
		body = strings.Join(lines[start:end], "\n")
	}
	return m.renderBox("Home", body)
}
