package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shortreel/internal/dramabox"
	"github.com/five82/shortreel/internal/history"
)

func loadHistoryCmd(store *history.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return historyLoadedMsg(store.List())
	}
}

func removeHistoryCmd(store *history.Store, bookID string) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return historySavedMsg{err: store.Remove(bookID)}
	}
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cursor, ok := m.moveCursor(msg, m.historySelected, len(m.historyEntries)); ok {
		m.historySelected = cursor
		return m, nil
	}
	if m.historySelected >= len(m.historyEntries) {
		if key.Matches(msg, m.keys.Refresh) {
			return m, loadHistoryCmd(m.history)
		}
		return m, nil
	}

	entry := m.historyEntries[m.historySelected]
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Open):
		seed := dramabox.Drama{
			BookID:   dramabox.Text(entry.BookID),
			BookName: entry.BookName,
			CoverWap: entry.Cover,
		}
		cmd = m.openDetail(seed, entry.EpisodeID)
	case key.Matches(msg, m.keys.Remove):
		cmd = removeHistoryCmd(m.history, entry.BookID)
	case key.Matches(msg, m.keys.Refresh):
		cmd = loadHistoryCmd(m.history)
	}
	return m, cmd
}

func (m Model) renderHistory() string {
	styles := m.theme.Styles()
	title := fmt.Sprintf("History · last %d titles", history.MaxEntries)
	if len(m.historyEntries) == 0 {
		return m.renderBox(title, styles.MutedText.Render("Nothing watched yet"))
	}

	width := m.innerWidth()
	now := m.now()
	start, end := visibleWindow(m.historySelected, len(m.historyEntries), m.innerHeight())
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		e := m.historyEntries[i]
		name := strings.TrimSpace(e.BookName)
		if name == "" {
			name = "#" + e.BookID
		}
		episode := strings.TrimSpace(e.EpisodeName)
		when := humanizeSince(e.WatchedAt, now)

		titleWidth := max(width-len([]rune(episode))-len(when)-10, 8)
		row := fmt.Sprintf("%3d  %s", i+1, padRight(truncate(name, titleWidth), titleWidth))
		if i == m.historySelected {
			lines = append(lines, styles.Selected.Width(width).Render(row+"  "+episode+"  "+when))
			continue
		}
		lines = append(lines, styles.Text.Render(row)+"  "+styles.AccentText.Render(episode)+"  "+styles.FaintText.Render(when))
	}
	return m.renderBox(title, strings.Join(lines, "\n"))
}
