package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shortreel/internal/dramabox"
	"github.com/five82/shortreel/internal/relay"
)

// listState backs every paged drama list.
type listState struct {
	request  string // identifies the latest request; older responses are dropped
	items    []dramabox.Drama
	selected int
	page     int
	loading  bool
	err      error
}

func (l listState) current() (dramabox.Drama, bool) {
	if l.selected < 0 || l.selected >= len(l.items) {
		return dramabox.Drama{}, false
	}
	return l.items[l.selected], true
}

// listLoadedMsg carries one list response back to the model.
type listLoadedMsg struct {
	view    View
	request string
	items   []dramabox.Drama
	err     error
}

func (m *Model) handleListLoaded(msg listLoadedMsg) {
	var l *listState
	switch msg.view {
	case ViewBrowse:
		l = &m.browse
	case ViewSearch:
		l = &m.search
	default:
		return
	}
	if msg.request != l.request {
		return
	}
	l.loading = false
	l.err = msg.err
	l.items = msg.items
	l.selected = clamp(l.selected, len(l.items))
}

// fetchListCmd runs fetch under FetchTimeout and reports the result for view.
func fetchListCmd(ctx context.Context, view View, request string, fetch func(context.Context) ([]dramabox.Drama, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
		defer cancel()
		items, err := fetch(ctx)
		return listLoadedMsg{view: view, request: request, items: items, err: err}
	}
}

// moveCursor applies a navigation key to cursor over n rows.
func (m Model) moveCursor(msg tea.KeyMsg, cursor, n int) (int, bool) {
	half := max(m.innerHeight()/2, 1)
	switch {
	case key.Matches(msg, m.keys.Up):
		return clamp(cursor-1, n), true
	case key.Matches(msg, m.keys.Down):
		return clamp(cursor+1, n), true
	case key.Matches(msg, m.keys.Top):
		return 0, true
	case key.Matches(msg, m.keys.Bottom):
		return clamp(n-1, n), true
	case key.Matches(msg, m.keys.HalfPageDown):
		return clamp(cursor+half, n), true
	case key.Matches(msg, m.keys.HalfPageUp):
		return clamp(cursor-half, n), true
	}
	return cursor, false
}

// renderList renders l inside the content box.
func (m Model) renderList(l listState, empty string) string {
	styles := m.theme.Styles()
	switch {
	case len(l.items) == 0 && l.loading:
		return styles.MutedText.Render("Loading...")
	case len(l.items) == 0 && l.err != nil:
		return m.renderFetchError(l.err)
	case len(l.items) == 0:
		return styles.MutedText.Render(empty)
	}

	start, end := visibleWindow(l.selected, len(l.items), m.innerHeight())
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, m.dramaLine(l.items[i], i, i == l.selected))
	}
	return strings.Join(lines, "\n")
}

// dramaLine renders one numbered list row.
func (m Model) dramaLine(d dramabox.Drama, index int, selected bool) string {
	styles := m.theme.Styles()
	width := m.innerWidth()

	prefix := fmt.Sprintf("%3d  ", index+1)
	meta := ""
	if width >= LayoutMetaWidth {
		meta = dramaMeta(d)
	}
	titleWidth := width - len(prefix)
	if meta != "" {
		titleWidth -= len([]rune(meta)) + 2
	}
	title := padRight(truncate(displayTitle(d), max(titleWidth, 8)), max(titleWidth, 0))

	if selected {
		row := prefix + title
		if meta != "" {
			row += "  " + meta
		}
		return styles.Selected.Width(width).Render(row)
	}
	row := styles.FaintText.Render(prefix) + styles.Text.Render(title)
	if meta != "" {
		row += "  " + styles.MutedText.Render(meta)
	}
	return row
}

func displayTitle(d dramabox.Drama) string {
	if name := strings.TrimSpace(d.BookName); name != "" {
		return name
	}
	if id := strings.TrimSpace(string(d.BookID)); id != "" {
		return "#" + id
	}
	return "(untitled)"
}

// dramaMeta summarises episode count, plays and the first two tags.
func dramaMeta(d dramabox.Drama) string {
	var parts []string
	if d.ChapterCount > 0 {
		parts = append(parts, fmt.Sprintf("%d eps", d.ChapterCount))
	}
	switch {
	case strings.TrimSpace(string(d.PlayCount)) != "":
		parts = append(parts, strings.TrimSpace(string(d.PlayCount))+" plays")
	case d.ViewCount > 0:
		parts = append(parts, formatCount(int64(d.ViewCount))+" views")
	}
	tags := make([]string, 0, 2)
	for _, tag := range d.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
		if len(tags) == 2 {
			break
		}
	}
	if len(tags) > 0 {
		parts = append(parts, strings.Join(tags, ", "))
	}
	return strings.Join(parts, " · ")
}

// renderFetchError shows why a list is empty and how to retry.
func (m Model) renderFetchError(err error) string {
	styles := m.theme.Styles()
	return styles.DangerText.Render(describeError(err)) + "\n" +
		styles.MutedText.Render("no results - press r to retry")
}

// describeError turns catalogue errors into a short status line.
func describeError(err error) string {
	var allFailed *relay.AllStrategiesFailedError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &allFailed):
		return fmt.Sprintf("All %d relays failed", len(allFailed.Attempts))
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out"
	case errors.Is(err, context.Canceled):
		return "Request cancelled"
	default:
		return truncate(err.Error(), 80)
	}
}
