// Package app is the composition root for shortreel.
//
// Run loads config.toml and prefs.toml, points the standard logger at the
// log file, and builds the data stack bottom-up:
//
//	relay.NewRouter()        race + fallback across CORS relays
//	cache.New[any]()         TTL cache, one entry per target URL
//	dramabox.NewClient()     typed catalogue operations
//	history.Open()           watch history on disk
//
// It then starts the home-feed poller and hands everything to ui.Run, which
// blocks until the user quits or the context is cancelled.
//
// # Polling
//
// The poller fetches Latest page 1, Trending and VIP concurrently. A section
// that fails keeps its previous contents. When all three fail the store
// records the error and the next poll is delayed by calculateBackoff, which
// doubles the interval per consecutive failure up to 30 minutes.
//
// Errors from config loading or opening the log file are fatal and returned
// from Run. Poll failures are logged and retried.
package app
