package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/five82/shortreel/internal/cache"
	"github.com/five82/shortreel/internal/config"
	"github.com/five82/shortreel/internal/dramabox"
	"github.com/five82/shortreel/internal/history"
	"github.com/five82/shortreel/internal/prefs"
	"github.com/five82/shortreel/internal/relay"
	"github.com/five82/shortreel/internal/state"
	"github.com/five82/shortreel/internal/ui"
)

// Options configure the shortreel application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/shortreel/prefs.toml
	PollEvery  int    // seconds; zero uses config poll_seconds
}

// Run boots the shortreel TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	logFile, err := openLog(cfg.LogPath)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	defer log.SetOutput(os.Stderr)
	log.Printf("shortreel starting (race width %d, strategy timeout %s, cache ttl %s)",
		cfg.RaceWidth, cfg.StrategyTimeout, cfg.CacheTTL)

	client, err := newCatalog(cfg)
	if err != nil {
		return fmt.Errorf("init catalogue client: %w", err)
	}

	store := &state.Store{}

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// Start background poller; the UI renders a loading state until the
	// first snapshot lands.
	refreshFeed := StartPoller(ctx, store, client, interval)

	uiOpts := ui.Options{
		Context:     ctx,
		Catalog:     client,
		Store:       store,
		RefreshFeed: refreshFeed,
		History:     history.Open(cfg.HistoryPath),
		Config:      &cfg,
		ThemeName:   userPrefs.Theme,
		Feed:        userPrefs.Feed,
		PrefsPath:   opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}

func newCatalog(cfg config.Config) (*dramabox.Client, error) {
	router := relay.NewRouter(
		relay.WithRaceWidth(cfg.RaceWidth),
		relay.WithStrategyTimeout(cfg.StrategyTimeout),
	)
	return dramabox.NewClient(router, cache.New[any](cfg.CacheTTL))
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return file, nil
}
