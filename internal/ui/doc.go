// Package ui provides the Bubble Tea terminal interface for shortreel.
//
// # Package Structure
//
//   - app.go: Model, Options, the Update/View loop and Run
//   - keys.go: key bindings (bubbles/key), shared with the help overlay
//   - theme.go: Nightfox, Kanagawa and Slate palettes rendered with lipgloss
//   - header.go: view tabs, home-feed health and the command bar
//   - home.go, browse.go, search.go, history.go, logs.go: one file per view
//   - detail.go: the detail overlay with episodes and stream selection
//   - lists.go: shared list state, rendering and error display
//
// # Views
//
//	1 Home     VIP sections, latest and trending from the poller's snapshot
//	2 Browse   Latest, Trending, For You and Indo Dub feeds; f cycles, [ ] pages
//	3 Search   textinput query, paged results
//	4 Popular  trending search terms; enter runs a search
//	5 History  last watched titles; enter resumes, x forgets
//	6 Logs     tail of shortreel's log file in a viewport
//
// Enter on any drama opens the detail overlay, which loads the detail record
// and the episode list concurrently. Enter on an episode resolves its stream
// (v cycles quality) and records it in history.
//
// # Data Flow
//
// Catalogue calls never run inside Update. Each fetch is a tea.Cmd bounded
// by FetchTimeout that reports back through a message. List responses carry
// the request key they were issued for, so a response that arrives after the
// user has paged on is dropped.
//
// A failed fetch renders an empty list with the reason and the retry key:
//
//	All 6 relays failed
//	no results - press r to retry
//
// # Themes
//
// T cycles the theme. The choice and the Browse feed are saved to prefs.toml.
package ui
