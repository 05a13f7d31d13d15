package feed

import (
	"context"
	"sync"
	"time"

	"github.com/tidings-hq/tidings-feed-reader/internal/domain"
)

// ArticleFetcher is the single-feed fetch contract the cache coordinates.
type ArticleFetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]domain.Article, error)
}

// Batch is the latest fetch result for one feed URL. A failed refresh keeps
// the previous articles and records the error alongside them.
type Batch struct {
	Articles  []domain.Article `json:"articles"`
	FetchedAt time.Time        `json:"fetchedAt"`
	Err       string           `json:"error,omitempty"`
}

// Cache holds per-URL article batches. Batches are independent: refreshing
// one feed never touches another, and refreshes for different URLs may run
// concurrently.
type Cache struct {
	fetcher ArticleFetcher

	mu      sync.RWMutex
	batches map[string]Batch
}

// NewCache builds a cache over the given fetcher.
func NewCache(fetcher ArticleFetcher) *Cache {
	return &Cache{
		fetcher: fetcher,
		batches: make(map[string]Batch),
	}
}

// Refresh fetches feedURL and replaces its batch. On failure the previous
// articles are retained, the error is recorded on the batch, and the error is
// returned to the caller.
func (c *Cache) Refresh(ctx context.Context, feedURL string) ([]domain.Article, error) {
	articles, err := c.fetcher.Fetch(ctx, feedURL)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		prev := c.batches[feedURL]
		c.batches[feedURL] = Batch{
			Articles:  prev.Articles,
			FetchedAt: prev.FetchedAt,
			Err:       err.Error(),
		}
		return nil, err
	}

	c.batches[feedURL] = Batch{
		Articles:  articles,
		FetchedAt: time.Now().UTC(),
	}
	return articles, nil
}

// Get returns the cached batch for feedURL, if any.
func (c *Cache) Get(feedURL string) (Batch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.batches[feedURL]
	return b, ok
}

// Clear drops every cached batch.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = make(map[string]Batch)
}
