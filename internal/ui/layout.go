package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutMetaWidth is the minimum width to show drama metadata in lists.
	LayoutMetaWidth = 70
)

// Log display limits.
const (
	// LogTailLines is the number of lines read from the end of the log file.
	LogTailLines = 2000
)

// Timing constants.
const (
	// FetchTimeout bounds one catalogue call made from the UI. It covers a
	// full race plus sequential fallback at the default strategy timeout.
	FetchTimeout = 60 * time.Second

	// LogRefreshInterval is the minimum time between log file reads.
	LogRefreshInterval = 2 * time.Second

	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second
)

// Detail overlay limits.
const (
	// IntroLines caps how many wrapped lines of synopsis are shown.
	IntroLines = 4
)
