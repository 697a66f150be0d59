// Package tmdb keeps the billboard listings warm. The refresher pulls
// the trending and top-rated listings on an interval, resolves each
// entry's IMDb id through a small worker pool so the add-to-watchlist
// flow doesn't pay that translation round trip, and stores the enriched
// listings in the billboard cache.
package tmdb

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"watchroom/internal/metadata"
)

const resolveWorkers = 4

// Refresher periodically rebuilds the cached billboards.
type Refresher struct {
	client   *metadata.TMDBClient
	cache    *metadata.BillboardCache
	interval time.Duration
}

func NewRefresher(client *metadata.TMDBClient, cache *metadata.BillboardCache, interval time.Duration) *Refresher {
	return &Refresher{client: client, cache: cache, interval: interval}
}

// Run refreshes immediately, then on every tick until ctx is cancelled.
// Intended to run in its own goroutine.
func (r *Refresher) Run(ctx context.Context) {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Refresher] stopping")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	listings := []struct {
		key   string
		fetch func(context.Context) ([]metadata.TMDBMovie, error)
	}{
		{metadata.KeyTrending, r.client.Trending},
		{metadata.KeyTopRated, r.client.TopRated},
	}

	for _, listing := range listings {
		movies, err := listing.fetch(ctx)
		if err != nil {
			// keep serving the previous cache entry on provider failure
			log.Printf("[Refresher] fetch %s: %v", listing.key, err)
			continue
		}

		r.resolveImdbIDs(ctx, movies)

		if err := r.cache.SetMovies(ctx, listing.key, movies); err != nil {
			log.Printf("[Refresher] cache %s: %v", listing.key, err)
			continue
		}
		log.Printf("[Refresher] cached %d movies under %s", len(movies), listing.key)
	}
}

// resolveImdbIDs fills in each movie's IMDb id concurrently. Missing
// mappings are left empty; the API endpoint resolves those on demand.
func (r *Refresher) resolveImdbIDs(ctx context.Context, movies []metadata.TMDBMovie) {
	pool := NewWorkerPool(ctx, resolveWorkers)
	pool.Start()

	var mu sync.Mutex
	for i := range movies {
		i := i
		pool.Submit(func(taskCtx context.Context) error {
			tmdbID := movies[i].ID
			if imdbID, ok := r.cache.GetImdbID(taskCtx, tmdbID); ok {
				mu.Lock()
				movies[i].ImdbID = imdbID
				mu.Unlock()
				return nil
			}

			imdbID, err := r.client.ImdbID(taskCtx, tmdbID)
			if err != nil {
				if errors.Is(err, metadata.ErrMovieNotFound) {
					return nil
				}
				return err
			}

			mu.Lock()
			movies[i].ImdbID = imdbID
			mu.Unlock()
			return r.cache.SetImdbID(taskCtx, tmdbID, imdbID)
		})
	}

	pool.Wait()
}
