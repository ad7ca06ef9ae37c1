package dramabox

import (
	"bytes"
	"encoding/json"
	"strings"
)

// shape extracts a candidate payload from a response body. Shapes are pure
// and tried in order; the first whose candidate decodes cleanly wins.
type shape func(raw json.RawMessage) (json.RawMessage, bool)

func bare(raw json.RawMessage) (json.RawMessage, bool) {
	return raw, len(raw) > 0
}

// field follows a chain of object keys.
func field(path ...string) shape {
	return func(raw json.RawMessage) (json.RawMessage, bool) {
		cur := raw
		for _, key := range path {
			if !isObject(cur) {
				return nil, false
			}
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(cur, &obj); err != nil {
				return nil, false
			}
			next, ok := obj[key]
			if !ok {
				return nil, false
			}
			cur = next
		}
		return cur, true
	}
}

var (
	listShapes = []shape{
		bare,
		field("data"),
		field("list"),
		field("bookList"),
		field("data", "list"),
		field("data", "bookList"),
	}
	entityShapes = []shape{
		field("data", "book"),
		field("book"),
		bare,
	}
	vipShapes = []shape{
		bare,
		field("data"),
	}
)

// matchList returns the elements of the first array candidate that decode
// into T. Elements that do not decode are dropped so one drifted row cannot
// blank a page; a non-empty candidate with no usable element is skipped.
func matchList[T any](raw json.RawMessage, shapes []shape) []T {
	for _, s := range shapes {
		cand, ok := s(raw)
		if !ok || !isArray(cand) {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(cand, &items); err != nil {
			continue
		}
		out := make([]T, 0, len(items))
		for _, item := range items {
			var v T
			if err := json.Unmarshal(item, &v); err != nil {
				continue
			}
			out = append(out, v)
		}
		if len(items) > 0 && len(out) == 0 {
			continue
		}
		return out
	}
	return []T{}
}

func normalizeDramas(raw json.RawMessage) []Drama {
	return matchList[Drama](raw, listShapes)
}

func normalizeEpisodes(raw json.RawMessage) []Episode {
	return matchList[Episode](raw, listShapes)
}

// normalizeDrama accepts only objects carrying a bookId.
func normalizeDrama(raw json.RawMessage) *Drama {
	for _, s := range entityShapes {
		cand, ok := s(raw)
		if !ok || !isObject(cand) {
			continue
		}
		var d Drama
		if err := json.Unmarshal(cand, &d); err != nil {
			continue
		}
		if strings.TrimSpace(string(d.BookID)) == "" {
			continue
		}
		return &d
	}
	return nil
}

func normalizeVIP(raw json.RawMessage) VIPResponse {
	for _, s := range vipShapes {
		cand, ok := s(raw)
		if !ok || !isObject(cand) {
			continue
		}
		var envelope struct {
			ColumnVoList *[]VIPColumn `json:"columnVoList"`
		}
		if err := json.Unmarshal(cand, &envelope); err != nil || envelope.ColumnVoList == nil {
			continue
		}
		return VIPResponse{ColumnVoList: *envelope.ColumnVoList}
	}
	return VIPResponse{ColumnVoList: []VIPColumn{}}
}

// normalizePopular reduces each entry to a display string. Strings are used
// as-is, objects contribute their name; anything blank is dropped.
func normalizePopular(raw json.RawMessage) []string {
	items := matchList[json.RawMessage](raw, listShapes)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if term := popularTerm(item); term != "" {
			out = append(out, term)
		}
	}
	return out
}

func popularTerm(item json.RawMessage) string {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return strings.TrimSpace(s)
	}
	if !isObject(item) {
		return ""
	}
	var named struct {
		BookName string `json:"bookName"`
		Name     string `json:"name"`
	}
	if err := json.Unmarshal(item, &named); err != nil {
		return ""
	}
	if name := strings.TrimSpace(named.BookName); name != "" {
		return name
	}
	return strings.TrimSpace(named.Name)
}

func isObject(raw json.RawMessage) bool {
	return firstByte(raw) == '{'
}

func isArray(raw json.RawMessage) bool {
	return firstByte(raw) == '['
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
