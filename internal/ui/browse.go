package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shortreel/internal/dramabox"
)

// Feed selects which catalogue listing the Browse view shows.
type Feed int

const (
	FeedLatest Feed = iota
	FeedTrending
	FeedForYou
	FeedIndoDub
)

var feedOrder = []Feed{FeedLatest, FeedTrending, FeedForYou, FeedIndoDub}

// ParseFeed maps a prefs value onto a Feed, defaulting to latest.
func ParseFeed(value string) Feed {
	for _, f := range feedOrder {
		if strings.EqualFold(strings.TrimSpace(value), f.String()) {
			return f
		}
	}
	return FeedLatest
}

// String is the value persisted in prefs.
func (f Feed) String() string {
	switch f {
	case FeedTrending:
		return "trending"
	case FeedForYou:
		return "foryou"
	case FeedIndoDub:
		return "indodub"
	default:
		return "latest"
	}
}

// Label is the human readable feed name.
func (f Feed) Label() string {
	switch f {
	case FeedTrending:
		return "Trending"
	case FeedForYou:
		return "For You"
	case FeedIndoDub:
		return "Indo Dub"
	default:
		return "Latest"
	}
}

// Paged reports whether the feed accepts a page number.
func (f Feed) Paged() bool {
	return f == FeedLatest || f == FeedIndoDub
}

// Next returns the following feed in cycle order.
func (f Feed) Next() Feed {
	for i, candidate := range feedOrder {
		if candidate == f {
			return feedOrder[(i+1)%len(feedOrder)]
		}
	}
	return FeedLatest
}

func browseRequest(feed Feed, classify dramabox.Classify, page int) string {
	switch feed {
	case FeedIndoDub:
		return fmt.Sprintf("%s:%s:%d", feed, classify, page)
	case FeedLatest:
		return fmt.Sprintf("%s:%d", feed, page)
	default:
		return feed.String()
	}
}

// loadBrowse starts fetching the current feed page.
func (m *Model) loadBrowse() tea.Cmd {
	if m.catalog == nil {
		return nil
	}
	feed, classify, page := m.feed, m.classify, max(m.browse.page, 1)
	m.browse.request = browseRequest(feed, classify, page)
	m.browse.loading = true
	m.browse.err = nil

	catalog := m.catalog
	return fetchListCmd(m.ctx, ViewBrowse, m.browse.request, func(ctx context.Context) ([]dramabox.Drama, error) {
		switch feed {
		case FeedTrending:
			return catalog.Trending(ctx)
		case FeedForYou:
			return catalog.ForYou(ctx)
		case FeedIndoDub:
			return catalog.IndoDub(ctx, classify, page)
		default:
			return catalog.Latest(ctx, page)
		}
	})
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cursor, ok := m.moveCursor(msg, m.browse.selected, len(m.browse.items)); ok {
		m.browse.selected = cursor
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Open):
		if d, ok := m.browse.current(); ok {
			cmd = m.openDetail(d, "")
		}
	case key.Matches(msg, m.keys.Refresh):
		cmd = m.loadBrowse()
	case key.Matches(msg, m.keys.CycleFeed):
		m.feed = m.feed.Next()
		m.browse.page = 1
		m.browse.selected = 0
		m.browse.items = nil
		m.savePrefs()
		cmd = m.loadBrowse()
	case key.Matches(msg, m.keys.CycleClassify):
		if m.feed != FeedIndoDub {
			return m, nil
		}
		if m.classify == dramabox.ClassifyPopular {
			m.classify = dramabox.ClassifyNewest
		} else {
			m.classify = dramabox.ClassifyPopular
		}
		m.browse.page = 1
		m.browse.selected = 0
		cmd = m.loadBrowse()
	case key.Matches(msg, m.keys.NextPage):
		if !m.feed.Paged() {
			return m, nil
		}
		m.browse.page++
		m.browse.selected = 0
		cmd = m.loadBrowse()
	case key.Matches(msg, m.keys.PrevPage):
		if !m.feed.Paged() || m.browse.page <= 1 {
			return m, nil
		}
		m.browse.page--
		m.browse.selected = 0
		cmd = m.loadBrowse()
	}
	return m, cmd
}

func (m Model) renderBrowse() string {
	title := "Browse · " + m.feed.Label()
	if m.feed == FeedIndoDub {
		title += " (" + classifyLabel(m.classify) + ")"
	}
	if m.feed.Paged() {
		title += fmt.Sprintf(" · page %d", max(m.browse.page, 1))
	}
	return m.renderBox(title, m.renderList(m.browse, "No dramas in this feed"))
}

func classifyLabel(c dramabox.Classify) string {
	if c == dramabox.ClassifyPopular {
		return "popular"
	}
	return "newest"
}
