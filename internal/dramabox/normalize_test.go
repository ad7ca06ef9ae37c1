package dramabox

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeDramas_EnvelopePriority(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantIDs []Text
	}{
		{"bare array", `[{"bookId":"1"},{"bookId":"2"}]`, []Text{"1", "2"}},
		{"data array", `{"data":[{"bookId":"3"}]}`, []Text{"3"}},
		{"list array", `{"list":[{"bookId":"4"}]}`, []Text{"4"}},
		{"bookList array", `{"bookList":[{"bookId":"5"}]}`, []Text{"5"}},
		{"nested data.list", `{"data":{"list":[{"bookId":"6"}]}}`, []Text{"6"}},
		{"nested data.bookList", `{"success":true,"data":{"bookList":[{"bookId":"7"}]}}`, []Text{"7"}},
		{"data wins over list", `{"data":[{"bookId":"8"}],"list":[{"bookId":"9"}]}`, []Text{"8"}},
		{"non-array data skipped", `{"data":"x","list":[{"bookId":"10"}]}`, []Text{"10"}},
		{"undecodable candidate skipped", `{"data":["str"],"bookList":[{"bookId":"11"}]}`, []Text{"11"}},
		{"unknown shape", `{"unexpected":"shape"}`, nil},
		{"bad row dropped", `[{"bookId":"12"},{"bookId":{"x":1}},{"bookId":"13"}]`, []Text{"12", "13"}},
		{"numeric name row dropped", `{"data":[{"bookId":"14","bookName":123},{"bookId":"15"}]}`, []Text{"15"}},
		{"empty array", `[]`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeDramas(json.RawMessage(tt.body))
			if got == nil {
				t.Fatalf("normalizeDramas returned nil, want non-nil slice")
			}
			var ids []Text
			for _, d := range got {
				ids = append(ids, d.BookID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Fatalf("ids = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestNormalizeDramas_TagShapes(t *testing.T) {
	body := `[{"bookId":"1","bookName":"A"},` +
		`{"bookId":"2","bookName":"B","tags":[{"tagName":"Romance"},"CEO",{"name":"Revenge"},{},7]},` +
		`{"bookId":"3","tags":"not a list"}]`
	got := normalizeDramas(json.RawMessage(body))
	if len(got) != 3 {
		t.Fatalf("normalizeDramas returned %d items, want 3", len(got))
	}
	if want := (Tags{"Romance", "CEO", "Revenge"}); !reflect.DeepEqual(got[1].Tags, want) {
		t.Fatalf("tags = %#v, want %#v", got[1].Tags, want)
	}
	if len(got[2].Tags) != 0 {
		t.Fatalf("tags = %#v, want none for a non-list value", got[2].Tags)
	}
}

func TestNormalizeDrama_RequiresIdentifier(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantID Text
	}{
		{"data.book", `{"data":{"book":{"bookId":"1"}}}`, "1"},
		{"book", `{"book":{"bookId":"2"}}`, "2"},
		{"bare", `{"bookId":"3","bookName":"x"}`, "3"},
		{"data.book without id falls through to bare", `{"data":{"book":{}},"bookId":"4"}`, "4"},
		{"no id anywhere", `{"data":{"book":{"bookName":"x"}}}`, ""},
		{"array", `[{"bookId":"5"}]`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeDrama(json.RawMessage(tt.body))
			if tt.wantID == "" {
				if got != nil {
					t.Fatalf("normalizeDrama = %#v, want nil", got)
				}
				return
			}
			if got == nil || got.BookID != tt.wantID {
				t.Fatalf("normalizeDrama = %#v, want bookId %q", got, tt.wantID)
			}
		})
	}
}

func TestNormalizeVIP(t *testing.T) {
	body := `{"data":{"columnVoList":[{"columnId":1,"title":"Hot","bookList":[{"bookId":"1"}]}]}}`
	got := normalizeVIP(json.RawMessage(body))
	if len(got.ColumnVoList) != 1 || got.ColumnVoList[0].Title != "Hot" || len(got.ColumnVoList[0].BookList) != 1 {
		t.Fatalf("normalizeVIP = %#v, want one Hot column", got)
	}

	bare := normalizeVIP(json.RawMessage(`{"columnVoList":[]}`))
	if bare.ColumnVoList == nil || len(bare.ColumnVoList) != 0 {
		t.Fatalf("normalizeVIP(bare empty) = %#v, want empty list", bare)
	}
}

func TestNormalizePopular(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"mixed", `["Title A", {"bookName":"Title B"}, {}, "  "]`, []string{"Title A", "Title B"}},
		{"wrapped", `{"data":[{"name":"Fallback"},{"bookName":" Trimmed "}]}`, []string{"Fallback", "Trimmed"}},
		{"numbers dropped", `[1, null, "ok"]`, []string{"ok"}},
		{"duplicates kept", `["x","x"]`, []string{"x", "x"}},
		{"unknown shape", `{"terms":"nope"}`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizePopular(json.RawMessage(tt.body))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("normalizePopular = %#v, want %#v", got, tt.want)
			}
		})
	}
}
