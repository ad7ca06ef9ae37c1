package ui

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shortreel/internal/config"
	"github.com/five82/shortreel/internal/dramabox"
	"github.com/five82/shortreel/internal/history"
	"github.com/five82/shortreel/internal/prefs"
	"github.com/five82/shortreel/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewHome View = iota
	ViewBrowse
	ViewSearch
	ViewPopular
	ViewHistory
	ViewLogs
)

var viewOrder = []View{ViewHome, ViewBrowse, ViewSearch, ViewPopular, ViewHistory, ViewLogs}

func (v View) String() string {
	switch v {
	case ViewBrowse:
		return "Browse"
	case ViewSearch:
		return "Search"
	case ViewPopular:
		return "Popular"
	case ViewHistory:
		return "History"
	case ViewLogs:
		return "Logs"
	default:
		return "Home"
	}
}

// Options configures the UI.
type Options struct {
	Context     context.Context
	Catalog     dramabox.Catalog
	Store       *state.Store
	RefreshFeed func() // asks the poller for an early refresh; may be nil
	History     *history.Store
	Config      *config.Config
	ThemeName   string
	Feed        string
	PrefsPath   string
	Tick        time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	catalog     dramabox.Catalog
	store       *state.Store
	refreshFeed func()
	history     *history.Store
	config      *config.Config
	prefsPath   string
	tick        time.Duration
	keys        keyMap
	now         func() time.Time

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	notice      string

	// Home state
	snapshot     state.Snapshot
	homeSelected int

	// Browse state
	feed     Feed
	classify dramabox.Classify
	browse   listState

	// Search state
	searchInput textinput.Model
	query       string
	search      listState

	// Popular state
	popular popularState

	// History state
	historyEntries  []history.Entry
	historySelected int

	// Log state
	logViewport viewport.Model
	logState    logState

	// Detail overlay; nil when closed
	detail *detailState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Defaults().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	classify := dramabox.ClassifyNewest
	if opts.Config != nil && opts.Config.IndoDubClassify != "" {
		classify = opts.Config.IndoDubClassify
	}

	input := textinput.New()
	input.Placeholder = "Search titles..."
	input.CharLimit = 80
	input.Prompt = "/ "

	return Model{
		ctx:         ctx,
		catalog:     opts.Catalog,
		store:       opts.Store,
		refreshFeed: opts.RefreshFeed,
		history:     opts.History,
		config:      opts.Config,
		prefsPath:   prefsPath,
		tick:        tick,
		keys:        DefaultKeyMap(),
		now:         time.Now,
		theme:       GetTheme(themeName),
		currentView: ViewHome,
		feed:        ParseFeed(opts.Feed),
		classify:    classify,
		browse:      listState{page: 1},
		search:      listState{page: 1},
		searchInput: input,
		logState:    logState{follow: true},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.tick),
	}
	// Fetch snapshot immediately on start
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.homeSelected = clamp(m.homeSelected, len(m.homeRows()))
		return m, nil

	case listLoadedMsg:
		m.handleListLoaded(msg)
		return m, nil

	case popularLoadedMsg:
		m.popular.loading = false
		m.popular.terms = msg.terms
		m.popular.err = msg.err
		m.popular.selected = clamp(m.popular.selected, len(msg.terms))
		return m, nil

	case detailLoadedMsg:
		m.handleDetailLoaded(msg)
		return m, nil

	case historyLoadedMsg:
		m.historyEntries = msg
		m.historySelected = clamp(m.historySelected, len(msg))
		return m, nil

	case historySavedMsg:
		if msg.err != nil {
			m.notice = "history not saved: " + msg.err.Error()
			log.Printf("history write failed: %v", msg.err)
			return m, nil
		}
		return m, loadHistoryCmd(m.history)

	case logsLoadedMsg:
		m.handleLogsLoaded(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Show help overlay if active
	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle help overlay
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// The search box swallows everything while focused.
	if m.searchInput.Focused() {
		return m.handleSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.logState.rendered = false
		m.refreshLogViewport()
		return m, nil
	}

	if m.detail != nil {
		return m.handleDetailKey(msg)
	}

	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.cycleView(1))
	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(m.cycleView(-1))
	case key.Matches(msg, m.keys.ViewHome):
		return m.switchView(ViewHome)
	case key.Matches(msg, m.keys.ViewBrowse):
		return m.switchView(ViewBrowse)
	case key.Matches(msg, m.keys.ViewSearch):
		return m.switchView(ViewSearch)
	case key.Matches(msg, m.keys.ViewPopular):
		return m.switchView(ViewPopular)
	case key.Matches(msg, m.keys.ViewHistory):
		return m.switchView(ViewHistory)
	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)
	case key.Matches(msg, m.keys.Search):
		m.currentView = ViewSearch
		cmd := m.searchInput.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewHome
		return m, nil
	}

	// View-specific keys
	switch m.currentView {
	case ViewHome:
		return m.handleHomeKey(msg)
	case ViewBrowse:
		return m.handleBrowseKey(msg)
	case ViewSearch:
		return m.handleSearchKey(msg)
	case ViewPopular:
		return m.handlePopularKey(msg)
	case ViewHistory:
		return m.handleHistoryKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}

	return m, nil
}

// cycleView returns the view delta steps away from the current one.
func (m Model) cycleView(delta int) View {
	for i, v := range viewOrder {
		if v == m.currentView {
			n := len(viewOrder)
			return viewOrder[((i+delta)%n+n)%n]
		}
	}
	return ViewHome
}

// switchView activates v and triggers its first load.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	var cmd tea.Cmd
	switch v {
	case ViewBrowse:
		if m.browse.request == "" {
			cmd = m.loadBrowse()
		}
	case ViewSearch:
		if m.query == "" {
			cmd = m.searchInput.Focus()
		}
	case ViewPopular:
		if m.popular.terms == nil && !m.popular.loading {
			cmd = m.loadPopular()
		}
	case ViewHistory:
		cmd = loadHistoryCmd(m.history)
	case ViewLogs:
		cmd = m.refreshLogs()
	}
	return m, cmd
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Fetch latest snapshot
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	// Refresh logs if in log view and following
	if m.currentView == ViewLogs && m.logState.follow && m.now().Sub(m.logState.lastRefresh) >= LogRefreshInterval {
		if cmd := m.refreshLogs(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	// Schedule next tick
	cmds = append(cmds, tickCmd(m.tick))

	return m, tea.Batch(cmds...)
}

// savePrefs persists the theme and browse feed.
func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Feed: m.feed.String()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.notice = "prefs not saved: " + err.Error()
		log.Printf("prefs save failed: %v", err)
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + views + feed status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	// Main content
	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	if m.detail != nil {
		return m.renderDetail()
	}
	switch m.currentView {
	case ViewHome:
		return m.renderHome()
	case ViewBrowse:
		return m.renderBrowse()
	case ViewSearch:
		return m.renderSearch()
	case ViewPopular:
		return m.renderPopular()
	case ViewHistory:
		return m.renderHistory()
	case ViewLogs:
		return m.renderLogs()
	default:
		return ""
	}
}

// contentHeight is the height of the bordered content box.
func (m Model) contentHeight() int {
	return max(m.height-2, 3)
}

// innerHeight is the number of body rows inside the content box, below
// its title line.
func (m Model) innerHeight() int {
	return max(m.contentHeight()-3, 1)
}

// innerWidth is the usable text width inside the content box.
func (m Model) innerWidth() int {
	return max(m.width-4, 10)
}

// renderBox draws a rounded box filling the content area with title on its
// first line.
func (m Model) renderBox(title, body string) string {
	styles := m.theme.Styles()
	content := styles.AccentText.Bold(true).Render(title) + "\n" + body
	return styles.Border.
		Width(max(m.width-2, 1)).
		Height(max(m.contentHeight()-2, 1)).
		Render(content)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
