// Package history keeps the list of recently watched titles on disk.
package history

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/shortreel/internal/dramabox"
)

// MaxEntries caps how many titles are remembered.
const MaxEntries = 10

// Entry records the last episode watched for one title.
type Entry struct {
	BookID      string    `toml:"book_id"`
	BookName    string    `toml:"book_name"`
	Cover       string    `toml:"cover"`
	EpisodeID   string    `toml:"episode_id"`
	EpisodeName string    `toml:"episode_name"`
	WatchedAt   time.Time `toml:"watched_at"`
}

type document struct {
	Entries []Entry `toml:"entries"`
}

// Store persists entries newest first, at most one per title.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// Open returns a Store backed by the TOML file at path. The file is created
// lazily on the first write.
func Open(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Record moves the title to the front with the given episode.
func (s *Store) Record(d dramabox.Drama, ep dramabox.Episode) error {
	if strings.TrimSpace(string(d.BookID)) == "" {
		return fmt.Errorf("book id required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := Entry{
		BookID:      string(d.BookID),
		BookName:    d.BookName,
		Cover:       d.CoverURL(),
		EpisodeID:   string(ep.ChapterID),
		EpisodeName: ep.ChapterName,
		WatchedAt:   s.now().UTC().Truncate(time.Second),
	}

	entries := []Entry{entry}
	for _, e := range s.readLocked() {
		if e.BookID != entry.BookID {
			entries = append(entries, e)
		}
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return s.writeLocked(entries)
}

// List returns the stored entries, newest first. An unreadable file reads as
// empty.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

// Remove forgets one title.
func (s *Store) Remove(bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.readLocked()
	kept := current[:0]
	for _, e := range current {
		if e.BookID != bookID {
			kept = append(kept, e)
		}
	}
	return s.writeLocked(kept)
}

func (s *Store) readLocked() []Entry {
	bytes, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("history: read %s: %v", s.path, err)
		}
		return nil
	}
	var doc document
	if err := toml.Unmarshal(bytes, &doc); err != nil {
		log.Printf("history: parse %s: %v", s.path, err)
		return nil
	}
	return doc.Entries
}

// writeLocked replaces the file atomically via a temp file and rename.
func (s *Store) writeLocked(entries []Entry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	bytes, err := toml.Marshal(document{Entries: entries})
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.toml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(bytes); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
