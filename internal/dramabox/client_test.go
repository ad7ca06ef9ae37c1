package dramabox

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/shortreel/internal/cache"
	"github.com/five82/shortreel/internal/relay"
)

// fakeResolver serves canned bodies keyed by the path under BaseURL.
type fakeResolver struct {
	mu     sync.Mutex
	bodies map[string]string
	err    error
	calls  []string
	gate   chan struct{}
	count  atomic.Int32
}

func (f *fakeResolver) Resolve(ctx context.Context, target string) (json.RawMessage, error) {
	f.count.Add(1)
	f.mu.Lock()
	f.calls = append(f.calls, target)
	f.mu.Unlock()

	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	path := strings.TrimPrefix(target, BaseURL)
	body, ok := f.bodies[path]
	if !ok {
		return nil, &relay.AllStrategiesFailedError{Target: target, Last: errors.New("no fixture")}
	}
	return json.RawMessage(body), nil
}

func (f *fakeResolver) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestClient(t *testing.T, res Resolver, opts ...cache.Option) *Client {
	t.Helper()
	c, err := NewClient(res, cache.New[any](cache.DefaultTTL, opts...))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func TestNewClient_RequiresResolver(t *testing.T) {
	if _, err := NewClient(nil, nil); err == nil {
		t.Fatalf("NewClient(nil) returned nil error, want error")
	}
}

func TestClient_CacheHitThenExpiry(t *testing.T) {
	clk := &clock{now: time.Unix(0, 0)}
	res := &fakeResolver{bodies: map[string]string{
		"/dramabox/latest?page=1": `[{"bookId":"1","bookName":"One"},{"bookId":"2","bookName":"Two"}]`,
	}}
	c := newTestClient(t, res, cache.WithClock(clk.Now))
	ctx := context.Background()

	first, err := c.Latest(ctx, 1)
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	second, err := c.Latest(ctx, 1)
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if got := res.count.Load(); got != 1 {
		t.Fatalf("resolver calls after cache hit = %d, want 1", got)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached value = %#v, want %#v", second, first)
	}

	clk.Advance(cache.DefaultTTL)
	if _, err := c.Latest(ctx, 1); err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if got := res.count.Load(); got != 2 {
		t.Fatalf("resolver calls after ttl = %d, want 2", got)
	}
}

func TestClient_ReturnedSlicesDoNotAliasCache(t *testing.T) {
	res := &fakeResolver{bodies: map[string]string{
		"/dramabox/trending": `{"data":[{"bookId":"1","bookName":"One"}]}`,
	}}
	c := newTestClient(t, res)

	got, err := c.Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending returned error: %v", err)
	}
	got[0].BookName = "mutated"

	again, _ := c.Trending(context.Background())
	if again[0].BookName != "One" {
		t.Fatalf("BookName = %q, want One; caller mutation leaked into the cache", again[0].BookName)
	}
}

func TestClient_PropagatesAllStrategiesFailed(t *testing.T) {
	res := &fakeResolver{err: &relay.AllStrategiesFailedError{Target: "x", Last: errors.New("boom")}}
	c := newTestClient(t, res)

	list, err := c.Latest(context.Background(), 1)
	var failed *relay.AllStrategiesFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("Latest error = %v, want *relay.AllStrategiesFailedError", err)
	}
	if len(list) != 0 {
		t.Fatalf("Latest list = %#v, want empty on failure", list)
	}

	// Failures are not cached.
	res.err = nil
	res.bodies = map[string]string{"/dramabox/latest?page=1": `[]`}
	if _, err := c.Latest(context.Background(), 1); err != nil {
		t.Fatalf("Latest after recovery returned error: %v", err)
	}
	if got := res.count.Load(); got != 2 {
		t.Fatalf("resolver calls = %d, want 2", got)
	}
}

func TestClient_CoalescesConcurrentMisses(t *testing.T) {
	res := &fakeResolver{
		bodies: map[string]string{"/dramabox/foryou": `{"list":[{"bookId":"9"}]}`},
		gate:   make(chan struct{}),
	}
	c := newTestClient(t, res)

	const callers = 8
	var wg sync.WaitGroup
	results := make([][]Drama, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.ForYou(context.Background())
		}(i)
	}

	// Let every caller reach the in-flight call before releasing it.
	deadline := time.Now().Add(2 * time.Second)
	for res.count.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	close(res.gate)
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("caller %d error: %v", i, errs[i])
		}
		if len(results[i]) != 1 || results[i][0].BookID != "9" {
			t.Fatalf("caller %d result = %#v, want one drama id 9", i, results[i])
		}
	}
	if got := res.count.Load(); got != 1 {
		t.Fatalf("resolver calls = %d, want 1 for coalesced callers", got)
	}
}

func TestClient_CoalescedCallerSurvivesOtherCallerDeadline(t *testing.T) {
	res := &fakeResolver{
		bodies: map[string]string{"/dramabox/trending": `[{"bookId":"1","bookName":"One"}]`},
		gate:   make(chan struct{}),
	}
	c := newTestClient(t, res)

	shortErr := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := c.Trending(ctx)
		shortErr <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for res.count.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	type result struct {
		list []Drama
		err  error
	}
	live := make(chan result, 1)
	go func() {
		list, err := c.Trending(context.Background())
		live <- result{list, err}
	}()

	if err := <-shortErr; !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("short caller error = %v, want context.DeadlineExceeded", err)
	}
	time.Sleep(50 * time.Millisecond)
	close(res.gate)

	got := <-live
	if got.err != nil {
		t.Fatalf("live caller error = %v, want nil", got.err)
	}
	if len(got.list) != 1 || got.list[0].BookID != "1" {
		t.Fatalf("live caller list = %#v, want one drama id 1", got.list)
	}
	if n := res.count.Load(); n != 1 {
		t.Fatalf("resolver calls = %d, want 1 shared resolve", n)
	}
}

func TestClient_NestedValuesDoNotAliasCache(t *testing.T) {
	res := &fakeResolver{bodies: map[string]string{
		"/dramabox/detail?bookId=1":     `{"data":{"book":{"bookId":"1","tags":["Romance","CEO"]}}}`,
		"/dramabox/vip":                 `{"columnVoList":[{"title":"Hot","bookList":[{"bookId":"2","tags":["Revenge"]}]}]}`,
		"/dramabox/allepisode?bookId=1": `[{"chapterId":"e1","cdnList":[{"cdnDomain":"a","videoPathList":[{"quality":720,"videoPath":"v720"}]}]}]`,
	}}
	c := newTestClient(t, res)
	ctx := context.Background()

	d, err := c.Detail(ctx, "1")
	if err != nil || d == nil {
		t.Fatalf("Detail = %v, %v", d, err)
	}
	d.Tags[0] = "mutated"

	vip, err := c.VIP(ctx)
	if err != nil {
		t.Fatalf("VIP returned error: %v", err)
	}
	vip.ColumnVoList[0].BookList[0].BookName = "mutated"
	vip.ColumnVoList[0].BookList[0].Tags[0] = "mutated"

	eps, err := c.AllEpisodes(ctx, "1")
	if err != nil {
		t.Fatalf("AllEpisodes returned error: %v", err)
	}
	eps[0].CDNList[0].VideoPathList[0].VideoPath = "mutated"

	d, _ = c.Detail(ctx, "1")
	if d.Tags[0] != "Romance" {
		t.Fatalf("Detail tags = %v, caller mutation leaked into the cache", d.Tags)
	}
	vip, _ = c.VIP(ctx)
	if book := vip.ColumnVoList[0].BookList[0]; book.BookName != "" || book.Tags[0] != "Revenge" {
		t.Fatalf("VIP book = %#v, caller mutation leaked into the cache", book)
	}
	eps, _ = c.AllEpisodes(ctx, "1")
	if got := eps[0].CDNList[0].VideoPathList[0].VideoPath; got != "v720" {
		t.Fatalf("VideoPath = %q, caller mutation leaked into the cache", got)
	}
	if n := res.count.Load(); n != 3 {
		t.Fatalf("resolver calls = %d, want 3", n)
	}
}

func TestClient_BuildsTargetRequests(t *testing.T) {
	res := &fakeResolver{bodies: map[string]string{
		"/dramabox/latest?page=1":                         `[]`,
		"/dramabox/latest?page=3":                         `[]`,
		"/dramabox/trending":                              `[]`,
		"/dramabox/vip":                                   `{"columnVoList":[]}`,
		"/dramabox/dubindo?classify=terpopuler&page=2":    `[]`,
		"/dramabox/dubindo?classify=terbaru&page=1":       `[]`,
		"/dramabox/search?query=cinta+sejati%26co&page=1": `[]`,
		"/dramabox/detail?bookId=41000":                   `{"bookId":"41000"}`,
		"/dramabox/allepisode?bookId=41000":               `[]`,
		"/dramabox/foryou":                                `[]`,
		"/dramabox/populersearch":                         `[]`,
	}}
	c := newTestClient(t, res)
	ctx := context.Background()

	steps := []func() error{
		func() error { _, err := c.Latest(ctx, 0); return err },
		func() error { _, err := c.Latest(ctx, 3); return err },
		func() error { _, err := c.Trending(ctx); return err },
		func() error { _, err := c.VIP(ctx); return err },
		func() error { _, err := c.IndoDub(ctx, ClassifyPopular, 2); return err },
		func() error { _, err := c.IndoDub(ctx, "bogus", -4); return err },
		func() error { _, err := c.Search(ctx, "cinta sejati&co", 1); return err },
		func() error { _, err := c.Detail(ctx, "41000"); return err },
		func() error { _, err := c.AllEpisodes(ctx, "41000"); return err },
		func() error { _, err := c.ForYou(ctx); return err },
		func() error { _, err := c.PopularSearch(ctx); return err },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d returned error: %v", i, err)
		}
	}

	calls := res.Calls()
	if len(calls) != len(steps) {
		t.Fatalf("resolver calls = %d, want %d: %v", len(calls), len(steps), calls)
	}
	for _, call := range calls {
		if !strings.HasPrefix(call, BaseURL+"/dramabox/") {
			t.Fatalf("target %q not under %s", call, BaseURL)
		}
		if _, err := url.Parse(call); err != nil {
			t.Fatalf("target %q is not a valid URL: %v", call, err)
		}
	}
}

func TestClient_DetailEnvelopeTolerance(t *testing.T) {
	entity := `{"bookId":"7","bookName":"Seven","chapterCount":"12","tags":["romance"]}`
	bodies := map[string]string{
		"data.book": `{"data":{"book":` + entity + `}}`,
		"book":      `{"book":` + entity + `}`,
		"bare":      entity,
	}

	var want *Drama
	for name, body := range bodies {
		res := &fakeResolver{bodies: map[string]string{"/dramabox/detail?bookId=7": body}}
		c := newTestClient(t, res)
		got, err := c.Detail(context.Background(), "7")
		if err != nil {
			t.Fatalf("%s: Detail returned error: %v", name, err)
		}
		if got == nil || got.BookID != "7" || got.ChapterCount != 12 {
			t.Fatalf("%s: Detail = %#v, want bookId 7 with 12 chapters", name, got)
		}
		if want == nil {
			want = got
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: Detail = %#v, want %#v", name, got, want)
		}
	}
}

func TestClient_MalformedEnvelopesDegradeToEmpty(t *testing.T) {
	res := &fakeResolver{bodies: map[string]string{
		"/dramabox/latest?page=1":       `{"unexpected":"shape"}`,
		"/dramabox/vip":                 `{"unexpected":"shape"}`,
		"/dramabox/detail?bookId=1":     `{"data":{"book":{"bookName":"no id"}}}`,
		"/dramabox/allepisode?bookId=1": `{"data":"nope"}`,
	}}
	c := newTestClient(t, res)
	ctx := context.Background()

	list, err := c.Latest(ctx, 1)
	if err != nil || list == nil || len(list) != 0 {
		t.Fatalf("Latest = %#v, %v, want empty non-nil slice and nil error", list, err)
	}
	vip, err := c.VIP(ctx)
	if err != nil || len(vip.ColumnVoList) != 0 {
		t.Fatalf("VIP = %#v, %v, want empty and nil error", vip, err)
	}
	d, err := c.Detail(ctx, "1")
	if err != nil || d != nil {
		t.Fatalf("Detail = %#v, %v, want nil, nil", d, err)
	}
	eps, err := c.AllEpisodes(ctx, "1")
	if err != nil || len(eps) != 0 {
		t.Fatalf("AllEpisodes = %#v, %v, want empty and nil error", eps, err)
	}
}

func TestClient_PopularSearchExtraction(t *testing.T) {
	res := &fakeResolver{bodies: map[string]string{
		"/dramabox/populersearch": `["Title A", {"bookName":"Title B"}, {}, "  "]`,
	}}
	c := newTestClient(t, res)

	got, err := c.PopularSearch(context.Background())
	if err != nil {
		t.Fatalf("PopularSearch returned error: %v", err)
	}
	want := []string{"Title A", "Title B"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("PopularSearch = %#v, want %#v", got, want)
	}
}

// TestClient_ThroughRouterWithFailingRelays exercises the full stack: every
// relay fails, so the caller sees AllStrategiesFailedError and no data.
func TestClient_ThroughRouterWithFailingRelays(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	strategy := func(name string) relay.Strategy {
		return relay.Strategy{Name: name, Build: func(target string) string {
			return srv.URL + "/" + name + "?url=" + url.QueryEscape(target)
		}}
	}
	router := relay.NewRouter(
		relay.WithStrategies([]relay.Strategy{strategy("a"), strategy("b"), strategy("c")}),
		relay.WithRaceWidth(2),
	)
	c := newTestClient(t, router)

	list, err := c.Latest(context.Background(), 1)
	var failed *relay.AllStrategiesFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("Latest error = %v, want *relay.AllStrategiesFailedError", err)
	}
	if len(list) != 0 {
		t.Fatalf("Latest = %#v, want no dramas", list)
	}
	if got := hits.Load(); got != 3 {
		t.Fatalf("relay hits = %d, want 3", got)
	}
}
