package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shortreel/internal/dramabox"
	"github.com/five82/shortreel/internal/history"
)

// detailState holds the open detail overlay.
type detailState struct {
	bookID      string
	seed        dramabox.Drama // list row shown until the detail arrives
	drama       *dramabox.Drama
	episodes    []dramabox.Episode
	selected    int
	resume      string // episode to preselect once episodes arrive
	quality     int    // 0 picks the CDN's default rendition
	loading     bool
	dramaErr    error
	episodesErr error

	stream        *dramabox.VideoPath
	streamEpisode string
}

// current returns the best known drama record.
func (d *detailState) current() dramabox.Drama {
	if d.drama != nil {
		return *d.drama
	}
	return d.seed
}

type detailLoadedMsg struct {
	bookID      string
	drama       *dramabox.Drama
	episodes    []dramabox.Episode
	dramaErr    error
	episodesErr error
}

type historyLoadedMsg []history.Entry

type historySavedMsg struct {
	err error
}

// openDetail shows the overlay for d and starts loading it. resume names an
// episode to preselect.
func (m *Model) openDetail(d dramabox.Drama, resume string) tea.Cmd {
	bookID := strings.TrimSpace(string(d.BookID))
	if bookID == "" {
		m.notice = "this title has no id"
		return nil
	}
	m.detail = &detailState{bookID: bookID, seed: d, resume: resume}
	return m.loadDetail()
}

func (m *Model) loadDetail() tea.Cmd {
	if m.detail == nil || m.catalog == nil {
		return nil
	}
	m.detail.loading = true
	m.detail.dramaErr = nil
	m.detail.episodesErr = nil
	return loadDetailCmd(m.ctx, m.catalog, m.detail.bookID)
}

// loadDetailCmd fetches the detail record and the episode list concurrently.
func loadDetailCmd(parent context.Context, catalog dramabox.Catalog, bookID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, FetchTimeout)
		defer cancel()

		msg := detailLoadedMsg{bookID: bookID}
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			msg.drama, msg.dramaErr = catalog.Detail(ctx, bookID)
		}()
		go func() {
			defer wg.Done()
			msg.episodes, msg.episodesErr = catalog.AllEpisodes(ctx, bookID)
		}()
		wg.Wait()
		return msg
	}
}

func (m *Model) handleDetailLoaded(msg detailLoadedMsg) {
	d := m.detail
	if d == nil || d.bookID != msg.bookID {
		return
	}
	d.loading = false
	d.dramaErr = msg.dramaErr
	d.episodesErr = msg.episodesErr
	if msg.drama != nil {
		d.drama = msg.drama
	}
	d.episodes = msg.episodes
	d.selected = clamp(d.selected, len(d.episodes))
	if d.resume != "" {
		for i, ep := range d.episodes {
			if string(ep.ChapterID) == d.resume {
				d.selected = i
				break
			}
		}
		d.resume = ""
	}
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.detail
	m.notice = ""
	if msg.Type == tea.KeyBackspace || key.Matches(msg, m.keys.Escape) {
		m.detail = nil
		return m, nil
	}
	if cursor, ok := m.moveCursor(msg, d.selected, len(d.episodes)); ok {
		d.selected = cursor
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Open):
		cmd = m.playSelected()
	case key.Matches(msg, m.keys.CycleQuality):
		if d.selected < len(d.episodes) {
			d.quality = nextQuality(d.episodes[d.selected].Qualities(), d.quality)
			if d.stream != nil {
				m.pickStream()
			}
		}
	case key.Matches(msg, m.keys.Refresh):
		cmd = m.loadDetail()
	}
	return m, cmd
}

// playSelected resolves the selected episode's stream and records it in
// history.
func (m *Model) playSelected() tea.Cmd {
	d := m.detail
	if d == nil || d.selected >= len(d.episodes) {
		return nil
	}
	if !m.pickStream() {
		return nil
	}
	return recordHistoryCmd(m.history, d.current(), d.episodes[d.selected])
}

// pickStream applies the chosen quality to the selected episode.
func (m *Model) pickStream() bool {
	d := m.detail
	ep := d.episodes[d.selected]
	vp, ok := ep.Stream(d.quality)
	if !ok {
		d.stream = nil
		m.notice = "no stream available for this episode"
		return false
	}
	d.stream = &vp
	d.streamEpisode = episodeLabel(ep, d.selected)
	return true
}

// nextQuality cycles through default (0) and each available quality.
func nextQuality(available []int, current int) int {
	options := append([]int{0}, available...)
	for i, q := range options {
		if q == current {
			return options[(i+1)%len(options)]
		}
	}
	return 0
}

func qualityLabel(q int) string {
	if q <= 0 {
		return "auto"
	}
	return fmt.Sprintf("%dp", q)
}

func episodeLabel(ep dramabox.Episode, index int) string {
	if name := strings.TrimSpace(ep.ChapterName); name != "" {
		return name
	}
	return fmt.Sprintf("Episode %d", index+1)
}

func recordHistoryCmd(store *history.Store, d dramabox.Drama, ep dramabox.Episode) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return historySavedMsg{err: store.Record(d, ep)}
	}
}

func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	d := m.detail
	drama := d.current()
	width := m.innerWidth()

	var head []string
	meta := dramaMeta(drama)
	if author := strings.TrimSpace(drama.Author); author != "" {
		meta = strings.TrimPrefix(meta+" · by "+author, " · ")
	}
	if meta != "" {
		head = append(head, styles.MutedText.Render(truncate(meta, width)))
	}
	if intro := strings.TrimSpace(drama.Introduction); intro != "" {
		wrapped := strings.Split(lipgloss.NewStyle().Width(width).Render(intro), "\n")
		if len(wrapped) > IntroLines {
			wrapped = wrapped[:IntroLines]
			wrapped[IntroLines-1] = truncate(wrapped[IntroLines-1], width-3) + "..."
		}
		for _, line := range wrapped {
			head = append(head, styles.Text.Render(line))
		}
	}
	if d.dramaErr != nil {
		head = append(head, styles.WarningText.Render("details unavailable: "+describeError(d.dramaErr)))
	}
	head = append(head, "")

	var foot []string
	if d.stream != nil {
		foot = append(foot, "",
			styles.SuccessText.Render("▶ "+truncate(d.streamEpisode, width/2))+" "+
				styles.FaintText.Render("("+qualityLabel(int(d.stream.Quality))+")"),
			styles.AccentText.Render(truncateMiddle(d.stream.VideoPath, width)))
	} else if m.notice != "" {
		foot = append(foot, "", styles.WarningText.Render(m.notice))
	}

	listHeight := max(m.innerHeight()-len(head)-len(foot)-1, 1)
	lines := append(head, m.renderEpisodes(listHeight)...)
	lines = append(lines, foot...)
	return m.renderBox(displayTitle(drama), strings.Join(lines, "\n"))
}

// renderEpisodes renders the heading and a window of episode rows.
func (m Model) renderEpisodes(height int) []string {
	styles := m.theme.Styles()
	d := m.detail
	width := m.innerWidth()

	heading := fmt.Sprintf("Episodes (%d) · quality %s", len(d.episodes), qualityLabel(d.quality))
	lines := []string{styles.WarningText.Bold(true).Render(heading)}

	switch {
	case len(d.episodes) == 0 && d.loading:
		return append(lines, styles.MutedText.Render("Loading..."))
	case len(d.episodes) == 0 && d.episodesErr != nil:
		return append(lines, m.renderFetchError(d.episodesErr))
	case len(d.episodes) == 0:
		return append(lines, styles.MutedText.Render("No episodes listed"))
	}

	start, end := visibleWindow(d.selected, len(d.episodes), height)
	for i := start; i < end; i++ {
		ep := d.episodes[i]
		qualities := make([]string, 0, 4)
		for _, q := range ep.Qualities() {
			qualities = append(qualities, qualityLabel(q))
		}
		row := fmt.Sprintf("%4d  %s", i+1, truncate(episodeLabel(ep, i), max(width-24, 8)))
		extra := strings.Join(qualities, " ")
		if i == d.selected {
			lines = append(lines, styles.Selected.Width(width).Render(padRight(row, width-len(extra)-1)+" "+extra))
			continue
		}
		lines = append(lines, styles.Text.Render(row)+"  "+styles.FaintText.Render(extra))
	}
	return lines
}
