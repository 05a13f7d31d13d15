package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tidings-hq/tidings-feed-reader/internal/domain"
	"github.com/tidings-hq/tidings-feed-reader/internal/feed"
	"github.com/tidings-hq/tidings-feed-reader/internal/logger"
	"github.com/tidings-hq/tidings-feed-reader/internal/notify"
)

// FeedLister yields the feeds a refresh pass should cover.
type FeedLister interface {
	List() ([]domain.Feed, error)
}

// SeenStore tracks which article links previous passes already delivered.
type SeenStore interface {
	SeenArticle(link string) (bool, error)
	MarkArticle(link string) error
}

// Refresher periodically fetches every configured feed and publishes articles
// not seen before to the webhook fanout. Per-feed failures are logged and do
// not abort the pass.
type Refresher struct {
	feeds    FeedLister
	cache    *feed.Cache
	store    SeenStore
	fanout   *notify.Fanout
	interval time.Duration
}

// NewRefresher wires a refresher. interval must be positive; callers disable
// refreshing by not constructing one.
func NewRefresher(feeds FeedLister, cache *feed.Cache, store SeenStore, fanout *notify.Fanout, interval time.Duration) (*Refresher, error) {
	if feeds == nil || cache == nil || store == nil {
		return nil, fmt.Errorf("refresher requires feeds, cache and store")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive")
	}
	if fanout == nil {
		fanout = notify.NewFanout(nil)
	}
	return &Refresher{
		feeds:    feeds,
		cache:    cache,
		store:    store,
		fanout:   fanout,
		interval: interval,
	}, nil
}

// Run executes refresh passes until the context is cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	logger.InfoObj("refresher starting", "refresh_state", map[string]any{
		"interval": r.interval.String(),
		"webhooks": r.fanout.Size(),
	})

	if err := r.RunOnce(ctx); err != nil {
		logger.ErrorObj("initial refresh failed", "error", err.Error())
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.InfoObj("refresher exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil {
				logger.ErrorObj("scheduled refresh failed", "error", err.Error())
			}
		}
	}
}

// RunOnce refreshes every configured feed once, publishing unseen articles.
func (r *Refresher) RunOnce(ctx context.Context) error {
	feeds, err := r.feeds.List()
	if err != nil {
		return fmt.Errorf("list feeds: %w", err)
	}
	if len(feeds) == 0 {
		logger.WarnObj("no feeds configured; refresh pass skipped", "feeds_count", 0)
		return nil
	}

	start := time.Now()
	var errs []error
	published := 0
	for _, f := range feeds {
		n, err := r.refreshFeed(ctx, f)
		if err != nil {
			errs = append(errs, fmt.Errorf("feed %s: %w", f.URL, err))
			logger.WarnObj("feed refresh failed", "feed_error", map[string]any{
				"feed_url": f.URL,
				"error":    err.Error(),
			})
			continue
		}
		published += n
	}

	logger.InfoObj("refresh pass completed", "refresh_meta", map[string]any{
		"feeds_count":        len(feeds),
		"articles_published": published,
		"elapsed_ms":         time.Since(start).Milliseconds(),
	})
	return errors.Join(errs...)
}

func (r *Refresher) refreshFeed(ctx context.Context, f domain.Feed) (int, error) {
	articles, err := r.cache.Refresh(ctx, f.URL)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, article := range articles {
		// Articles without a validated link cannot be deduped across
		// fetches; skip them rather than renotify every pass.
		if article.Link == "" {
			continue
		}

		seen, err := r.store.SeenArticle(article.Link)
		if err != nil {
			return published, fmt.Errorf("check seen: %w", err)
		}
		if seen {
			continue
		}

		evt := notify.NewEvent(f.Name, f.URL, article)
		if _, err := r.fanout.Publish(ctx, evt); err != nil {
			logger.WarnObj("webhook publish failed", "publish_error", map[string]any{
				"feed_url": f.URL,
				"article":  article.ID,
				"error":    err.Error(),
			})
		}

		if err := r.store.MarkArticle(article.Link); err != nil {
			return published, fmt.Errorf("mark seen: %w", err)
		}
		published++
	}
	return published, nil
}
