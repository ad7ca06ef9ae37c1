package app

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/five82/shortreel/internal/dramabox"
	"github.com/five82/shortreel/internal/state"
)

const (
	defaultPollInterval = 5 * time.Minute
	maxBackoff          = 30 * time.Minute
)

// StartPoller launches a background goroutine that refreshes the home feed
// at interval, backing off exponentially while the catalogue is unreachable.
// It returns immediately with a function that asks for an early refresh.
func StartPoller(ctx context.Context, store *state.Store, client dramabox.Catalog, interval time.Duration) func() {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	wake := make(chan struct{}, 1)
	go func() {
		failures := 0
		for {
			if err := refresh(ctx, store, client); err != nil {
				if ctx.Err() != nil {
					return
				}
				failures++
				log.Printf("home feed poll failed (%d in a row): %v", failures, err)
			} else {
				failures = 0
			}

			timer := time.NewTimer(calculateBackoff(failures, interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			case <-wake:
				timer.Stop()
			}
		}
	}()
	return func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	}
}

// calculateBackoff doubles base per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}

// refresh fetches the three home sections concurrently. Sections that fail
// keep their previous contents; only a total failure is reported to the
// store as an error.
func refresh(ctx context.Context, store *state.Store, client dramabox.Catalog) error {
	var (
		wg                     sync.WaitGroup
		latest, trending       []dramabox.Drama
		vip                    dramabox.VIPResponse
		latestErr, trendingErr error
		vipErr                 error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		latest, latestErr = client.Latest(ctx, 1)
	}()
	go func() {
		defer wg.Done()
		trending, trendingErr = client.Trending(ctx)
	}()
	go func() {
		defer wg.Done()
		vip, vipErr = client.VIP(ctx)
	}()
	wg.Wait()

	if latestErr != nil && trendingErr != nil && vipErr != nil {
		err := errors.Join(latestErr, trendingErr, vipErr)
		store.Update(nil, err)
		return err
	}

	feed := store.Snapshot().Feed
	if latestErr == nil {
		feed.Latest = latest
	} else {
		log.Printf("home feed: latest section kept stale: %v", latestErr)
	}
	if trendingErr == nil {
		feed.Trending = trending
	} else {
		log.Printf("home feed: trending section kept stale: %v", trendingErr)
	}
	if vipErr == nil {
		feed.VIP = vip.ColumnVoList
	} else {
		log.Printf("home feed: vip section kept stale: %v", vipErr)
	}
	store.Update(&feed, nil)
	return nil
}
