package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the logo, view tabs and home-feed health.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	parts := []string{bg.Render("shortreel", styles.Logo)}

	tabs := make([]string, 0, len(viewOrder))
	for i, v := range viewOrder {
		label := v.String()
		if compact {
			label = string([]rune(label)[:1])
		}
		label = string(rune('1'+i)) + " " + label
		if v == m.currentView && m.detail == nil {
			tabs = append(tabs, styles.Badge.Render(label))
			continue
		}
		tabs = append(tabs, bg.Render(label, styles.MutedText))
	}
	parts = append(parts, bg.Join(tabs, " "))
	parts = append(parts, m.feedStatus(styles, bg, compact))

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(strings.Join(parts, sep))
}

// feedStatus summarises the poller's view of the catalogue.
func (m Model) feedStatus(styles Styles, bg BgStyle, compact bool) string {
	snap := m.snapshot
	switch {
	case snap.IsOffline():
		status := bg.Render("● OFFLINE", styles.DangerText)
		if !compact {
			status += bg.Space() + bg.Render(describeError(snap.LastError), styles.MutedText) +
				bg.Space() + bg.Render("retrying...", styles.WarningText)
		}
		return status
	case !snap.HasFeed && snap.LastError == nil:
		return bg.Render("Connecting...", styles.WarningText.Bold(true))
	case snap.LastError != nil:
		return bg.Render("● DEGRADED", styles.WarningText)
	default:
		status := bg.Render("● ONLINE", styles.SuccessText)
		if !compact && !snap.LastUpdated.IsZero() {
			status += bg.Space() + bg.Render(snap.LastUpdated.Format("15:04:05"), styles.MutedText)
		}
		return status
	}
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.detail != nil:
		commands = []cmd{
			{"j/k", "Episodes"},
			{"enter", "Play"},
			{"v", "Quality"},
			{"r", "Reload"},
			{"esc", "Close"},
		}
	case m.currentView == ViewBrowse:
		commands = []cmd{
			{"f", m.feed.Label()},
			{"j/k", "Navigate"},
			{"enter", "Open"},
		}
		if m.feed.Paged() {
			commands = append(commands, cmd{"[/]", "Page"})
		}
		if m.feed == FeedIndoDub {
			commands = append(commands, cmd{"c", classifyLabel(m.classify)})
		}
		commands = append(commands, cmd{"r", "Retry"})
	case m.currentView == ViewSearch:
		commands = []cmd{
			{"/", "Edit query"},
			{"enter", "Open"},
			{"[/]", "Page"},
			{"r", "Retry"},
		}
	case m.currentView == ViewPopular:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Search term"},
			{"r", "Retry"},
		}
	case m.currentView == ViewHistory:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Resume"},
			{"x", "Forget"},
		}
	case m.currentView == ViewLogs:
		followLabel := "Pause"
		if !m.logState.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"f", "Relay only"},
			{"g/G", "Top/Bottom"},
			{"r", "Reload"},
		}
	default: // ViewHome
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Open"},
			{"/", "Search"},
			{"r", "Refresh"},
		}
	}
	commands = append(commands, cmd{"tab", "Views"}, cmd{"?", "More"})

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.notice != "" && m.detail == nil {
		segments = append(segments, bg.Render(truncate(m.notice, 40), styles.WarningText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
