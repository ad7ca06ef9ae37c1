package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shortreel/internal/logtail"
)

// logState holds all log-related state.
type logState struct {
	lines       []string
	err         error
	follow      bool
	relayOnly   bool
	lastRefresh time.Time
	rendered    bool
}

type logsLoadedMsg struct {
	lines []string
	err   error
}

// refreshLogs reads the tail of shortreel's own log file.
func (m *Model) refreshLogs() tea.Cmd {
	if m.config == nil || m.config.LogPath == "" {
		return nil
	}
	path := m.config.LogPath
	m.logState.lastRefresh = m.now()
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logsLoadedMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogsLoaded(msg logsLoadedMsg) {
	m.logState.err = msg.err
	if msg.err == nil {
		m.logState.lines = msg.lines
	}
	m.logState.rendered = false
	m.refreshLogViewport()
}

// resizeLogViewport fits the viewport inside the content box, leaving one
// line for the status bar.
func (m *Model) resizeLogViewport() {
	width, height := m.innerWidth(), max(m.innerHeight()-1, 1)
	if m.logViewport.Width == 0 && m.logViewport.Height == 0 {
		m.logViewport = viewport.New(width, height)
	}
	m.logViewport.Width = width
	m.logViewport.Height = height
	m.logState.rendered = false
	m.refreshLogViewport()
}

// refreshLogViewport re-renders the viewport content when it is stale.
func (m *Model) refreshLogViewport() {
	if m.logState.rendered || m.logViewport.Width == 0 {
		return
	}
	m.logViewport.SetContent(m.renderLogContent())
	m.logState.rendered = true
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// visibleLogLines applies the relay-only filter.
func (m Model) visibleLogLines() []string {
	if m.logState.relayOnly {
		return logtail.Filter(m.logState.lines, "relay:")
	}
	return m.logState.lines
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	lines := m.visibleLogLines()
	if len(lines) == 0 {
		return styles.MutedText.Render("No log entries")
	}

	width := m.logViewport.Width
	var b strings.Builder
	for i, line := range lines {
		number := styles.FaintText.Render(fmt.Sprintf("%4d │ ", i+1))
		text := truncate(line, max(width-7, 10))
		b.WriteString(number + styles.LogStyle(logtail.Classify(line)).Render(text))
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
		}
		return m, nil
	case key.Matches(msg, m.keys.RelayOnly):
		m.logState.relayOnly = !m.logState.relayOnly
		m.logState.rendered = false
		m.refreshLogViewport()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		cmd := m.refreshLogs()
		return m, cmd
	case key.Matches(msg, m.keys.Top):
		m.logState.follow = false
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	}

	// Scrolling by hand stops following.
	var cmd tea.Cmd
	before := m.logViewport.YOffset
	m.logViewport, cmd = m.logViewport.Update(msg)
	if m.logViewport.YOffset < before {
		m.logState.follow = false
	}
	return m, cmd
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()

	path := ""
	if m.config != nil {
		path = m.config.LogPath
	}
	title := "Logs"
	if m.logState.relayOnly {
		title += " (relay only)"
	}

	follow := "off"
	if m.logState.follow {
		follow = "on"
	}
	status := fmt.Sprintf("%d lines · follow %s · %s", len(m.visibleLogLines()), follow, truncateMiddle(path, 50))
	statusLine := styles.FaintText.Render(status)
	if m.logState.err != nil {
		statusLine = styles.DangerText.Render(truncate(m.logState.err.Error(), m.innerWidth()))
	}

	return m.renderBox(title, m.logViewport.View()+"\n"+statusLine)
}
