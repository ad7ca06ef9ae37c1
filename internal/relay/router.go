package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	defaultRaceWidth       = 3
	defaultStrategyTimeout = 10 * time.Second
	defaultUserAgent       = "shortreel/0.1"
	maxBodyBytes           = 16 << 20
)

// Router obtains JSON bodies from the upstream across an ordered list of
// strategies: the first RaceWidth are raced, the rest are tried one by one.
type Router struct {
	strategies []Strategy
	raceWidth  int
	timeout    time.Duration
	http       *http.Client
	userAgent  string
}

// Option configures a Router.
type Option func(*Router)

// WithStrategies replaces the default strategy list.
func WithStrategies(strategies []Strategy) Option {
	return func(r *Router) {
		r.strategies = append([]Strategy(nil), strategies...)
	}
}

// WithRaceWidth sets how many leading strategies are raced concurrently.
func WithRaceWidth(n int) Option {
	return func(r *Router) {
		if n > 0 {
			r.raceWidth = n
		}
	}
}

// WithStrategyTimeout bounds every individual attempt.
func WithStrategyTimeout(d time.Duration) Option {
	return func(r *Router) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithHTTPClient swaps the HTTP client used for all attempts.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Router) {
		if c != nil {
			r.http = c
		}
	}
}

// NewRouter builds a Router using the default strategies unless overridden.
func NewRouter(opts ...Option) *Router {
	r := &Router{
		strategies: DefaultStrategies(),
		raceWidth:  defaultRaceWidth,
		timeout:    defaultStrategyTimeout,
		http:       &http.Client{},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve fetches targetURL and returns its body once some strategy yields a
// JSON object or array. When every strategy fails the error is an
// *AllStrategiesFailedError; when ctx ends first the error is ctx.Err().
func (r *Router) Resolve(ctx context.Context, targetURL string) (json.RawMessage, error) {
	if r == nil {
		return nil, fmt.Errorf("router is nil")
	}
	if len(r.strategies) == 0 {
		return nil, newAllFailed(targetURL, nil)
	}

	width := min(r.raceWidth, len(r.strategies))
	body, attempts, ok := r.race(ctx, targetURL, r.strategies[:width])
	if ok {
		return body, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rest := r.strategies[width:]
	if len(rest) > 0 {
		log.Printf("relay: race of %d strategies failed for %s, trying %d sequentially", width, targetURL, len(rest))
	}
	for _, s := range rest {
		body, serr := r.attempt(ctx, targetURL, s)
		if serr == nil {
			log.Printf("relay: %s recovered %s after race failure", s.Name, targetURL)
			return body, nil
		}
		attempts = append(attempts, serr)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	failed := newAllFailed(targetURL, attempts)
	log.Printf("relay: %v", failed)
	return nil, failed
}

type raceResult struct {
	body json.RawMessage
	err  *StrategyError
}

// race runs candidates concurrently and returns the first success. Losers
// are cancelled through the shared context; their late results land in the
// buffered channel and are dropped.
func (r *Router) race(ctx context.Context, target string, candidates []Strategy) (json.RawMessage, []*StrategyError, bool) {
	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan raceResult, len(candidates))
	for _, s := range candidates {
		go func() {
			body, err := r.attempt(raceCtx, target, s)
			results <- raceResult{body: body, err: err}
		}()
	}

	var failures []*StrategyError
	for range candidates {
		res := <-results
		if res.err == nil {
			return res.body, nil, true
		}
		failures = append(failures, res.err)
	}
	return nil, failures, false
}

func (r *Router) attempt(ctx context.Context, target string, s Strategy) (json.RawMessage, *StrategyError) {
	reqURL := s.Build(target)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, err := r.fetch(ctx, reqURL)
	if err == nil && s.Unwrap != nil {
		body, err = s.Unwrap(body)
		if err != nil {
			err = fmt.Errorf("unwrap envelope: %w", err)
		}
	}
	if err == nil {
		body, err = validateJSON(body)
	}
	if err != nil {
		return nil, &StrategyError{Strategy: s.Name, URL: reqURL, Err: err}
	}
	return body, nil
}

func (r *Router) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("relay returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// validateJSON accepts only bodies that are a JSON object or array.
func validateJSON(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return nil, ErrNotJSON
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrNotJSON)
	}
	return json.RawMessage(trimmed), nil
}
