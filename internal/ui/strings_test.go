package ui

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/five82/shortreel/internal/relay"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"  short  ", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer title", 8, "a lon..."},
		{"abcdef", 3, "abc"},
		{"anything", 0, "anything"},
		{"Cinta Sang Pewaris", 9, "Cinta ..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestTruncateMiddle_KeepsExtension(t *testing.T) {
	got := truncateMiddle("https://cdn.example.com/video/abcdefghijklmnop/720.mp4", 30)
	if len([]rune(got)) > 30 {
		t.Fatalf("truncateMiddle length = %d, want <= 30 (%q)", len([]rune(got)), got)
	}
	if got[len(got)-4:] != ".mp4" {
		t.Fatalf("truncateMiddle = %q, want .mp4 suffix", got)
	}
	if short := truncateMiddle("short.mp4", 30); short != "short.mp4" {
		t.Fatalf("truncateMiddle short = %q", short)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Fatalf("padRight longer = %q", got)
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{-5, "0"},
		{950, "950"},
		{1000, "1K"},
		{12345, "12.3K"},
		{4_100_000, "4.1M"},
	}
	for _, tt := range tests {
		if got := formatCount(tt.in); got != tt.want {
			t.Errorf("formatCount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHumanizeSince(t *testing.T) {
	now := time.Date(2025, 10, 8, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		then time.Time
		want string
	}{
		{time.Time{}, "never"},
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-50 * time.Hour), "2d ago"},
	}
	for _, tt := range tests {
		if got := humanizeSince(tt.then, now); got != tt.want {
			t.Errorf("humanizeSince(%v) = %q, want %q", tt.then, got, tt.want)
		}
	}
}

func TestVisibleWindow(t *testing.T) {
	tests := []struct {
		cursor, n, height int
		start, end        int
	}{
		{0, 5, 10, 0, 5},
		{0, 20, 10, 0, 10},
		{9, 20, 10, 4, 14},
		{19, 20, 10, 10, 20},
		{3, 20, 0, 0, 20},
	}
	for _, tt := range tests {
		start, end := visibleWindow(tt.cursor, tt.n, tt.height)
		if start != tt.start || end != tt.end {
			t.Errorf("visibleWindow(%d, %d, %d) = [%d, %d), want [%d, %d)",
				tt.cursor, tt.n, tt.height, start, end, tt.start, tt.end)
		}
		if tt.n > 0 && (tt.cursor < start || tt.cursor >= end) {
			t.Errorf("cursor %d outside window [%d, %d)", tt.cursor, start, end)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(5, 0); got != 0 {
		t.Fatalf("clamp(5, 0) = %d", got)
	}
	if got := clamp(-1, 3); got != 0 {
		t.Fatalf("clamp(-1, 3) = %d", got)
	}
	if got := clamp(7, 3); got != 2 {
		t.Fatalf("clamp(7, 3) = %d", got)
	}
}

func TestDescribeError(t *testing.T) {
	allFailed := &relay.AllStrategiesFailedError{
		Target:   "https://x",
		Attempts: make([]*relay.StrategyError, 6),
		Last:     errors.New("boom"),
	}
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("fetch latest: %w", allFailed), "All 6 relays failed"},
		{context.DeadlineExceeded, "Request timed out"},
		{fmt.Errorf("wrapped: %w", context.Canceled), "Request cancelled"},
		{errors.New("plain"), "plain"},
	}
	for _, tt := range tests {
		if got := describeError(tt.err); got != tt.want {
			t.Errorf("describeError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestFeed(t *testing.T) {
	for _, f := range feedOrder {
		if got := ParseFeed(f.String()); got != f {
			t.Errorf("ParseFeed(%q) = %v, want %v", f.String(), got, f)
		}
	}
	if got := ParseFeed(" TRENDING "); got != FeedTrending {
		t.Errorf("ParseFeed is case-insensitive; got %v", got)
	}
	if got := ParseFeed("bogus"); got != FeedLatest {
		t.Errorf("ParseFeed(bogus) = %v, want latest", got)
	}
	if got := FeedIndoDub.Next(); got != FeedLatest {
		t.Errorf("FeedIndoDub.Next() = %v, want latest", got)
	}
	if FeedTrending.Paged() || !FeedLatest.Paged() || !FeedIndoDub.Paged() {
		t.Errorf("only latest and indodub should be paged")
	}
}

func TestNextQuality(t *testing.T) {
	available := []int{720, 1080}
	got := []int{}
	q := 0
	for i := 0; i < 3; i++ {
		q = nextQuality(available, q)
		got = append(got, q)
	}
	if got[0] != 720 || got[1] != 1080 || got[2] != 0 {
		t.Fatalf("quality cycle = %v, want [720 1080 0]", got)
	}
	if q := nextQuality(nil, 480); q != 0 {
		t.Fatalf("nextQuality(unknown) = %d, want 0", q)
	}
}
