package dramabox

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDramaDecodesLooseNumbers(t *testing.T) {
	body := `{"bookId":41000123,"bookName":"Love","chapterCount":"80","viewCount":1.5e3,"followCount":null,"playCount":2500000}`
	var d Drama
	if err := json.Unmarshal([]byte(body), &d); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if d.BookID != "41000123" {
		t.Fatalf("BookID = %q, want 41000123", d.BookID)
	}
	if d.ChapterCount != 80 || d.ViewCount != 1500 || d.FollowCount != 0 {
		t.Fatalf("counts = %d/%d/%d, want 80/1500/0", d.ChapterCount, d.ViewCount, d.FollowCount)
	}
	if d.PlayCount != "2500000" {
		t.Fatalf("PlayCount = %q, want 2500000", d.PlayCount)
	}
}

func TestNumber_UnparseableStringIsZero(t *testing.T) {
	var n Number
	if err := json.Unmarshal([]byte(`"1.2M"`), &n); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if n != 0 {
		t.Fatalf("Number = %d, want 0", n)
	}
}

func TestDrama_CoverURL(t *testing.T) {
	if got := (Drama{CoverWap: "wap", Cover: "full"}).CoverURL(); got != "wap" {
		t.Fatalf("CoverURL = %q, want wap", got)
	}
	if got := (Drama{CoverWap: " ", Cover: "full"}).CoverURL(); got != "full" {
		t.Fatalf("CoverURL = %q, want full", got)
	}
}

func TestEpisode_Stream(t *testing.T) {
	ep := Episode{CDNList: []CDN{
		{CDNDomain: "a", VideoPathList: []VideoPath{{Quality: 720, VideoPath: "a/720"}}},
		{CDNDomain: "b", IsDefault: 1, VideoPathList: []VideoPath{
			{Quality: 540, VideoPath: "b/540"},
			{Quality: 720, VideoPath: "b/720", IsDefault: 1},
			{Quality: 1080, VideoPath: "b/1080"},
			{Quality: 360, VideoPath: ""},
		}},
	}}

	tests := []struct {
		name    string
		quality int
		want    string
	}{
		{"default quality", 0, "b/720"},
		{"requested quality", 1080, "b/1080"},
		{"missing quality falls back to default", 480, "b/720"},
		{"blank path ignored", 360, "b/720"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ep.Stream(tt.quality)
			if !ok || got.VideoPath != tt.want {
				t.Fatalf("Stream(%d) = %q, %v, want %q", tt.quality, got.VideoPath, ok, tt.want)
			}
		})
	}

	if got := ep.Qualities(); !reflect.DeepEqual(got, []int{540, 720, 1080}) {
		t.Fatalf("Qualities = %v, want [540 720 1080]", got)
	}
}

func TestEpisode_StreamWithoutDefaults(t *testing.T) {
	ep := Episode{CDNList: []CDN{{VideoPathList: []VideoPath{{Quality: 540, VideoPath: "x/540"}, {Quality: 720, VideoPath: "x/720"}}}}}
	got, ok := ep.Stream(0)
	if !ok || got.VideoPath != "x/540" {
		t.Fatalf("Stream(0) = %q, %v, want first rendition", got.VideoPath, ok)
	}
	if _, ok := (Episode{}).Stream(0); ok {
		t.Fatalf("Stream on episode without CDNs returned ok")
	}
}

func TestParseClassify(t *testing.T) {
	tests := map[string]Classify{
		"":             ClassifyNewest,
		"terbaru":      ClassifyNewest,
		" TERPOPULER ": ClassifyPopular,
		"whatever":     ClassifyNewest,
	}
	for in, want := range tests {
		if got := ParseClassify(in); got != want {
			t.Fatalf("ParseClassify(%q) = %q, want %q", in, got, want)
		}
	}
}
