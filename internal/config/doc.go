// Package config loads shortreel's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/shortreel/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing, zero or blank, use defaults
//
// # TOML Format
//
//	race_width = 3                  # relays raced concurrently
//	strategy_timeout_seconds = 10   # per-relay attempt bound
//	cache_ttl_minutes = 5
//	poll_seconds = 300              # home feed refresh
//	indodub_classify = "terbaru"    # or "terpopuler"
//	history_path = "~/.local/share/shortreel/history.toml"
//	log_path = "~/.local/share/shortreel/shortreel.log"
//
// Every field is optional. Tilde expansion is performed on paths.
//
// The relay list itself is not configurable; only how many of its leading
// entries are raced and how long each attempt may take.
package config
