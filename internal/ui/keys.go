package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding
	Refresh    key.Binding

	// View switching
	ViewHome    key.Binding
	ViewBrowse  key.Binding
	ViewSearch  key.Binding
	ViewPopular key.Binding
	ViewHistory key.Binding
	ViewLogs    key.Binding
	Search      key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	NextPage     key.Binding
	PrevPage     key.Binding

	// List actions
	Open          key.Binding
	CycleFeed     key.Binding
	CycleClassify key.Binding
	Remove        key.Binding

	// Detail actions
	CycleQuality key.Binding

	// Logs actions
	ToggleFollow key.Binding
	RelayOnly    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Cycle views (reverse)"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close detail / back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Retry / refresh"),
		),

		// View switching
		ViewHome: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Home"),
		),
		ViewBrowse: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Browse"),
		),
		ViewSearch: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Search"),
		),
		ViewPopular: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Popular"),
		),
		ViewHistory: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "History"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("6", "l"),
			key.WithHelp("6/l", "Logs"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search titles"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]", "n"),
			key.WithHelp("]/n", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("[", "p"),
			key.WithHelp("[/p", "Previous page"),
		),

		// List actions
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open / play"),
		),
		CycleFeed: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle feed"),
		),
		CycleClassify: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Newest/popular dub"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Forget title"),
		),

		// Detail actions
		CycleQuality: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Cycle quality"),
		),

		// Logs actions
		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow mode"),
		),
		RelayOnly: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Relay lines only"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Views
		{k.Tab, k.ViewHome, k.ViewBrowse, k.ViewSearch, k.ViewPopular, k.ViewHistory, k.ViewLogs, k.Escape},
		// Navigation
		{k.Up, k.Down, k.Top, k.Bottom, k.HalfPageDown, k.HalfPageUp},
		// Lists
		{k.Open, k.Search, k.NextPage, k.PrevPage, k.CycleFeed, k.CycleClassify, k.Remove, k.Refresh},
		// Detail
		{k.CycleQuality},
		// Logs
		{k.ToggleFollow, k.RelayOnly},
		// General
		{k.CycleTheme, k.Help, k.Quit},
	}
}
