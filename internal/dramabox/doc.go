// Package dramabox provides the typed client for the short-drama catalogue API.
//
// # Overview
//
// The upstream exposes read-only GET endpoints under one fixed base URL
// (BaseURL). It is reachable only through a relay.Router, which races
// and falls back across public relays. This package turns each endpoint into
// one typed method, caches normalized results, and shields callers from the
// upstream's inconsistent response envelopes.
//
// # Architecture
//
//   - client.go: Client, the Catalog interface, caching and request coalescing
//   - normalize.go: ordered shape matchers that unwrap response envelopes
//   - types.go: Drama, Episode, CDN, VideoPath and VIP payload types
//
// # Client Usage
//
//	router := relay.NewRouter()
//	client, err := dramabox.NewClient(router, cache.New[any](cache.DefaultTTL))
//	if err != nil {
//		log.Fatalf("init catalogue client: %v", err)
//	}
//
//	latest, err := client.Latest(ctx, 1)
//	if err != nil {
//		// every relay failed; render an empty list with a retry affordance
//	}
//
// # Endpoints
//
//   - GET /dramabox/latest?page=N
//   - GET /dramabox/trending
//   - GET /dramabox/vip
//   - GET /dramabox/dubindo?classify=terbaru|terpopuler&page=N
//   - GET /dramabox/search?query=Q&page=N
//   - GET /dramabox/detail?bookId=ID
//   - GET /dramabox/allepisode?bookId=ID
//   - GET /dramabox/foryou
//   - GET /dramabox/populersearch
//
// The path plus query is the target request and is used verbatim as the
// cache key.
//
// # Caching
//
// Each Client owns a cache.Cache. A fresh entry is returned without touching
// the network. Expired entries read as absent and are replaced by the next
// successful fetch. Only successful results are stored, and they are stored
// after normalization. Concurrent misses for the same target request share a
// single resolve through singleflight. Returned slices are copies.
//
// # Normalization
//
// Listing endpoints try, in order: a bare array, data, list, bookList,
// data.list, data.bookList. Detail tries data.book, book, then the bare
// object, and accepts a candidate only if it has a bookId. A response that
// matches nothing yields an empty slice or nil rather than an error, so one
// drifting endpoint does not blank out a whole screen.
//
// # Error Handling
//
// When every relay fails the *relay.AllStrategiesFailedError is returned
// unchanged; match it with errors.As. Callers are expected to degrade to an
// empty result.
package dramabox
