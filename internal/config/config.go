package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/shortreel/internal/dramabox"
)

// Config captures the tunables shortreel reads from config.toml.
type Config struct {
	RaceWidth       int
	StrategyTimeout time.Duration
	CacheTTL        time.Duration
	PollInterval    time.Duration
	IndoDubClassify dramabox.Classify
	HistoryPath     string
	LogPath         string
}

const (
	defaultConfigPath      = "~/.config/shortreel/config.toml"
	defaultHistoryPath     = "~/.local/share/shortreel/history.toml"
	defaultLogPath         = "~/.local/share/shortreel/shortreel.log"
	defaultRaceWidth       = 3
	defaultStrategySeconds = 10
	defaultCacheMinutes    = 5
	defaultPollSeconds     = 300
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		RaceWidth:       defaultRaceWidth,
		StrategyTimeout: defaultStrategySeconds * time.Second,
		CacheTTL:        defaultCacheMinutes * time.Minute,
		PollInterval:    defaultPollSeconds * time.Second,
		IndoDubClassify: dramabox.ClassifyNewest,
		HistoryPath:     mustExpand(defaultHistoryPath),
		LogPath:         mustExpand(defaultLogPath),
	}
}

// Load locates and parses config.toml, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		RaceWidth       int    `toml:"race_width"`
		StrategySeconds int    `toml:"strategy_timeout_seconds"`
		CacheMinutes    int    `toml:"cache_ttl_minutes"`
		PollSeconds     int    `toml:"poll_seconds"`
		IndoDubClassify string `toml:"indodub_classify"`
		HistoryPath     string `toml:"history_path"`
		LogPath         string `toml:"log_path"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.RaceWidth > 0 {
		cfg.RaceWidth = raw.RaceWidth
	}
	if raw.StrategySeconds > 0 {
		cfg.StrategyTimeout = time.Duration(raw.StrategySeconds) * time.Second
	}
	if raw.CacheMinutes > 0 {
		cfg.CacheTTL = time.Duration(raw.CacheMinutes) * time.Minute
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	cfg.IndoDubClassify = dramabox.ParseClassify(raw.IndoDubClassify)

	if p := strings.TrimSpace(raw.HistoryPath); p != "" {
		cfg.HistoryPath = mustExpand(p)
	}
	if p := strings.TrimSpace(raw.LogPath); p != "" {
		cfg.LogPath = mustExpand(p)
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

// ExpandPath resolves a leading ~ and makes path absolute. Other packages
// persisting under the user's home share this behaviour.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}
