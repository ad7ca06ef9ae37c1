// Package state provides thread-safe state shared between the home-feed
// poller and the UI.
//
// # Architecture
//
//	Producer (poller):              Consumer (UI):
//	┌──────────────────┐            ┌──────────────────┐
//	│ Latest(1)        │            │                  │
//	│ Trending()       │            │                  │
//	│ VIP()            │            │                  │
//	│      ↓           │            │                  │
//	│ store.Update()   │───────────→│ store.Snapshot() │
//	│      ↓           │  (mutex)   │      ↓           │
//	│  wait/backoff    │            │  render Home     │
//	└──────────────────┘            └──────────────────┘
//
// Update with a non-nil error keeps the previous feed and bumps
// ConsecutiveFailures; a success resets it. Snapshot returns copies, so the
// UI may hold on to a snapshot while the poller keeps writing.
//
// IsOffline reports two or more consecutive failures, which the header
// renders as an offline badge.
package state
