package dramabox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/five82/shortreel/internal/cache"
	"github.com/five82/shortreel/internal/relay"
)

// BaseURL is the upstream API root every target request is appended to.
const BaseURL = "https://dramabox.sansekai.my.id/api"

// DefaultFlightTimeout bounds a shared resolve once it no longer follows
// the context of the caller that started it.
const DefaultFlightTimeout = 2 * time.Minute

// Resolver turns an absolute upstream URL into a JSON body.
type Resolver interface {
	Resolve(ctx context.Context, targetURL string) (json.RawMessage, error)
}

var _ Resolver = (*relay.Router)(nil)

// Catalog is the read surface consumed by the UI and the poller.
// It is implemented by *Client and can be faked in tests.
type Catalog interface {
	Latest(ctx context.Context, page int) ([]Drama, error)
	Trending(ctx context.Context) ([]Drama, error)
	VIP(ctx context.Context) (VIPResponse, error)
	IndoDub(ctx context.Context, classify Classify, page int) ([]Drama, error)
	Search(ctx context.Context, query string, page int) ([]Drama, error)
	Detail(ctx context.Context, bookID string) (*Drama, error)
	AllEpisodes(ctx context.Context, bookID string) ([]Episode, error)
	ForYou(ctx context.Context) ([]Drama, error)
	PopularSearch(ctx context.Context) ([]string, error)
}

// Ensure Client implements Catalog at compile time.
var _ Catalog = (*Client)(nil)

// Client exposes one typed operation per upstream endpoint, backed by a TTL
// cache of normalized results. Concurrent misses on the same target request
// share a single resolve.
type Client struct {
	resolver Resolver
	cache    *cache.Cache[any]
	inflight singleflight.Group
	baseURL  string

	flightTimeout time.Duration
}

// NewClient builds a Client. A nil store gets a fresh cache with the default TTL.
func NewClient(resolver Resolver, store *cache.Cache[any]) (*Client, error) {
	if resolver == nil {
		return nil, fmt.Errorf("resolver is nil")
	}
	if store == nil {
		store = cache.New[any](cache.DefaultTTL)
	}
	return &Client{
		resolver:      resolver,
		cache:         store,
		baseURL:       BaseURL,
		flightTimeout: DefaultFlightTimeout,
	}, nil
}

// Latest lists the newest releases.
func (c *Client) Latest(ctx context.Context, page int) ([]Drama, error) {
	path := fmt.Sprintf("/dramabox/latest?page=%d", clampPage(page))
	list, err := fetch(ctx, c, path, normalizeDramas)
	return cloneDramas(list), err
}

// Trending lists what is currently popular.
func (c *Client) Trending(ctx context.Context) ([]Drama, error) {
	list, err := fetch(ctx, c, "/dramabox/trending", normalizeDramas)
	return cloneDramas(list), err
}

// VIP returns the featured sections.
func (c *Client) VIP(ctx context.Context) (VIPResponse, error) {
	vip, err := fetch(ctx, c, "/dramabox/vip", normalizeVIP)
	if err != nil {
		return VIPResponse{}, err
	}
	cols := make([]VIPColumn, len(vip.ColumnVoList))
	for i, col := range vip.ColumnVoList {
		col.BookList = cloneDramas(col.BookList)
		cols[i] = col
	}
	return VIPResponse{ColumnVoList: cols}, nil
}

// IndoDub lists Indonesian-dubbed titles in the given ordering.
func (c *Client) IndoDub(ctx context.Context, classify Classify, page int) ([]Drama, error) {
	path := fmt.Sprintf("/dramabox/dubindo?classify=%s&page=%d",
		url.QueryEscape(string(ParseClassify(string(classify)))), clampPage(page))
	list, err := fetch(ctx, c, path, normalizeDramas)
	return cloneDramas(list), err
}

// Search runs a full-text query. The query is escaped but not validated.
func (c *Client) Search(ctx context.Context, query string, page int) ([]Drama, error) {
	path := fmt.Sprintf("/dramabox/search?query=%s&page=%d", url.QueryEscape(query), clampPage(page))
	list, err := fetch(ctx, c, path, normalizeDramas)
	return cloneDramas(list), err
}

// Detail fetches one title. A response that carries no recognisable entity
// yields nil without an error.
func (c *Client) Detail(ctx context.Context, bookID string) (*Drama, error) {
	path := "/dramabox/detail?bookId=" + url.QueryEscape(bookID)
	d, err := fetch(ctx, c, path, normalizeDrama)
	if err != nil || d == nil {
		return nil, err
	}
	dup := d.clone()
	return &dup, nil
}

// AllEpisodes lists every chapter of a title.
func (c *Client) AllEpisodes(ctx context.Context, bookID string) ([]Episode, error) {
	path := "/dramabox/allepisode?bookId=" + url.QueryEscape(bookID)
	list, err := fetch(ctx, c, path, normalizeEpisodes)
	return cloneEpisodes(list), err
}

// ForYou returns personalised recommendations.
func (c *Client) ForYou(ctx context.Context) ([]Drama, error) {
	list, err := fetch(ctx, c, "/dramabox/foryou", normalizeDramas)
	return cloneDramas(list), err
}

// PopularSearch returns display strings for trending search terms.
func (c *Client) PopularSearch(ctx context.Context) ([]string, error) {
	list, err := fetch(ctx, c, "/dramabox/populersearch", normalizePopular)
	return slices.Clone(list), err
}

// fetch serves path from the cache or resolves, normalizes and stores it.
func fetch[T any](ctx context.Context, c *Client, path string, normalize func(json.RawMessage) T) (T, error) {
	var zero T
	if c == nil {
		return zero, fmt.Errorf("client is nil")
	}
	if v, ok := c.cache.Get(path); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	// The shared resolve outlives any single caller so one caller giving up
	// cannot fail the others. Each caller still stops waiting on its own ctx.
	ch := c.inflight.DoChan(path, func() (any, error) {
		if v, ok := c.cache.Get(path); ok {
			return v, nil
		}
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.flightTimeout)
		defer cancel()
		raw, err := c.resolver.Resolve(flightCtx, c.baseURL+path)
		if err != nil {
			return nil, err
		}
		value := normalize(raw)
		c.cache.Set(path, value)
		return value, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	if res.Err != nil {
		return zero, res.Err
	}
	typed, ok := res.Val.(T)
	if !ok {
		return zero, fmt.Errorf("cached value for %s has type %T", path, res.Val)
	}
	return typed, nil
}

// Cached values are shared between callers, so everything handed out is a
// deep copy.

func (d Drama) clone() Drama {
	d.Tags = slices.Clone(d.Tags)
	return d
}

func cloneDramas(list []Drama) []Drama {
	if list == nil {
		return nil
	}
	out := make([]Drama, len(list))
	for i, d := range list {
		out[i] = d.clone()
	}
	return out
}

func cloneEpisodes(list []Episode) []Episode {
	if list == nil {
		return nil
	}
	out := make([]Episode, len(list))
	for i, ep := range list {
		ep.CDNList = slices.Clone(ep.CDNList)
		for j := range ep.CDNList {
			ep.CDNList[j].VideoPathList = slices.Clone(ep.CDNList[j].VideoPathList)
		}
		out[i] = ep
	}
	return out
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
