package dramabox

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Text decodes both JSON strings and JSON numbers. The upstream is not
// consistent about which it sends for ids and counters.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

// Number decodes JSON numbers and numeric strings. Unparseable strings decode
// as zero rather than failing the whole payload.
type Number int64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*n = Number(v)
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*n = Number(int64(f))
		return nil
	}
	*n = 0
	return nil
}

// Tags decodes a list whose entries are either strings or objects naming
// the tag. Entries it cannot read are dropped.
type Tags []string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tags) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		*t = nil
		return nil
	}
	out := make(Tags, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}
		var named struct {
			TagName Text `json:"tagName"`
			Name    Text `json:"name"`
		}
		if err := json.Unmarshal(item, &named); err != nil {
			continue
		}
		name := strings.TrimSpace(string(named.TagName))
		if name == "" {
			name = strings.TrimSpace(string(named.Name))
		}
		if name != "" {
			out = append(out, name)
		}
	}
	*t = out
	return nil
}

// Drama is one title in the catalogue.
type Drama struct {
	BookID       Text     `json:"bookId"`
	BookName     string   `json:"bookName"`
	CoverWap     string   `json:"coverWap,omitempty"`
	Cover        string   `json:"cover,omitempty"`
	Introduction string   `json:"introduction,omitempty"`
	ChapterCount Number   `json:"chapterCount,omitempty"`
	Tags         Tags     `json:"tags,omitempty"`
	Author       string   `json:"author,omitempty"`
	ViewCount    Number   `json:"viewCount,omitempty"`
	FollowCount  Number   `json:"followCount,omitempty"`
	PlayCount    Text     `json:"playCount,omitempty"`
	PreviewVideo string   `json:"previewVideo,omitempty"`
}

// CoverURL prefers the mobile cover and falls back to the full one.
func (d Drama) CoverURL() string {
	if strings.TrimSpace(d.CoverWap) != "" {
		return d.CoverWap
	}
	return d.Cover
}

// VideoPath is one quality rendition on a CDN.
type VideoPath struct {
	Quality   Number `json:"quality"`
	VideoPath string `json:"videoPath"`
	IsDefault Number `json:"isDefault"`
}

// CDN is a mirror hosting an episode's renditions.
type CDN struct {
	CDNDomain     string      `json:"cdnDomain"`
	IsDefault     Number      `json:"isDefault"`
	VideoPathList []VideoPath `json:"videoPathList"`
}

// Episode is one chapter of a drama.
type Episode struct {
	ChapterID    Text   `json:"chapterId"`
	ChapterIndex Number `json:"chapterIndex"`
	ChapterName  string `json:"chapterName"`
	CDNList      []CDN  `json:"cdnList"`
}

// Stream picks a playable URL: the default CDN (else the first), then the
// requested quality, else that CDN's default rendition, else its first.
// A quality of zero asks for the default.
func (e Episode) Stream(quality int) (VideoPath, bool) {
	cdn, ok := e.defaultCDN()
	if !ok {
		return VideoPath{}, false
	}
	var fallback *VideoPath
	for i := range cdn.VideoPathList {
		vp := &cdn.VideoPathList[i]
		if strings.TrimSpace(vp.VideoPath) == "" {
			continue
		}
		if quality > 0 && int(vp.Quality) == quality {
			return *vp, true
		}
		if fallback == nil || (vp.IsDefault == 1 && fallback.IsDefault != 1) {
			fallback = vp
		}
	}
	if fallback == nil {
		return VideoPath{}, false
	}
	return *fallback, true
}

// Qualities lists the renditions offered by the episode's default CDN.
func (e Episode) Qualities() []int {
	cdn, ok := e.defaultCDN()
	if !ok {
		return nil
	}
	var out []int
	for _, vp := range cdn.VideoPathList {
		if vp.Quality > 0 && strings.TrimSpace(vp.VideoPath) != "" {
			out = append(out, int(vp.Quality))
		}
	}
	return out
}

func (e Episode) defaultCDN() (CDN, bool) {
	if len(e.CDNList) == 0 {
		return CDN{}, false
	}
	for _, cdn := range e.CDNList {
		if cdn.IsDefault == 1 {
			return cdn, true
		}
	}
	return e.CDNList[0], true
}

// VIPColumn is one named section of the featured listing.
type VIPColumn struct {
	ColumnID Number  `json:"columnId"`
	Title    string  `json:"title"`
	BookList []Drama `json:"bookList"`
}

// VIPResponse mirrors /dramabox/vip.
type VIPResponse struct {
	ColumnVoList []VIPColumn `json:"columnVoList"`
}

// Classify selects the ordering of the Indonesian-dubbed listing.
type Classify string

const (
	ClassifyNewest  Classify = "terbaru"
	ClassifyPopular Classify = "terpopuler"
)

// ParseClassify maps free text onto a known ordering, defaulting to newest.
func ParseClassify(value string) Classify {
	switch Classify(strings.ToLower(strings.TrimSpace(value))) {
	case ClassifyPopular:
		return ClassifyPopular
	default:
		return ClassifyNewest
	}
}
