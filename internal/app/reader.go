package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidings-hq/tidings-feed-reader/internal/config"
	"github.com/tidings-hq/tidings-feed-reader/internal/feed"
	"github.com/tidings-hq/tidings-feed-reader/internal/feedlist"
	"github.com/tidings-hq/tidings-feed-reader/internal/logger"
	"github.com/tidings-hq/tidings-feed-reader/internal/notify"
	"github.com/tidings-hq/tidings-feed-reader/internal/refresh"
	"github.com/tidings-hq/tidings-feed-reader/internal/server"
	"github.com/tidings-hq/tidings-feed-reader/internal/storage"
	"github.com/tidings-hq/tidings-feed-reader/pkg/httpclient"
)

// Reader is the application runtime: the API server, the storage backend,
// and the optional background refresher.
type Reader struct {
	cfg       *config.Config
	store     storage.Store
	srv       *server.Server
	refresher *refresh.Refresher
}

// NewReader builds the reader runtime from config.
func NewReader(cfg *config.Config) (*Reader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	defaults, err := feedlist.Load(cfg.FeedsFile)
	if err != nil {
		return nil, fmt.Errorf("load default feeds: %w", err)
	}
	logger.InfoObj("default feeds loaded", "feeds_meta", map[string]any{
		"count": len(defaults),
		"file":  cfg.FeedsFile,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		SeenTTL:         cfg.SeenTTL,
		CleanupInterval: cfg.SeenCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	logger.InfoObj("storage initialized", "storage_config", map[string]any{
		"type": cfg.StorageType,
		"path": cfg.BBoltPath,
	})

	client := httpclient.NewRestyClient(cfg.FetchTimeout)
	fetcher := feed.NewFetcher(client, cfg.FeedAPIURL, cfg.FetchTimeout, cfg.ExcerptMaxLength)
	cache := feed.NewCache(fetcher)
	feeds := feedlist.NewService(store, defaults)

	reader := &Reader{
		cfg:   cfg,
		store: store,
		srv:   server.NewServer(feeds, store, cache),
	}

	if cfg.RefreshInterval > 0 {
		fanout, err := buildFanout(cfg.WebhooksFile)
		if err != nil {
			store.Close()
			return nil, err
		}
		refresher, err := refresh.NewRefresher(feeds, cache, store, fanout, cfg.RefreshInterval)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("init refresher: %w", err)
		}
		reader.refresher = refresher
	}

	return reader, nil
}

func buildFanout(webhooksFile string) (*notify.Fanout, error) {
	if webhooksFile == "" {
		return notify.NewFanout(nil), nil
	}
	cfgs, err := notify.LoadConfigs(webhooksFile)
	if err != nil {
		return nil, fmt.Errorf("load webhooks: %w", err)
	}
	logger.InfoObj("webhooks loaded", "webhooks_meta", map[string]any{
		"count": len(cfgs),
		"file":  webhooksFile,
	})
	return notify.NewFanout(notify.BuildAll(cfgs)), nil
}

// Run serves the API (and the refresher, if enabled) until the context is
// cancelled, then shuts down gracefully.
func (r *Reader) Run(ctx context.Context) error {
	defer r.closeStore()

	errCh := make(chan error, 1)
	go func() {
		if err := r.srv.Start(r.cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	if r.refresher != nil {
		go func() {
			_ = r.refresher.Run(ctx)
		}()
	}

	select {
	case <-ctx.Done():
		logger.InfoObj("reader shutting down", "reason", ctx.Err())
	case err := <-errCh:
		return fmt.Errorf("api server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), r.cfg.FetchTimeout)
	defer cancel()
	if err := r.srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func (r *Reader) closeStore() {
	if r == nil || r.store == nil {
		return
	}
	if err := r.store.Close(); err != nil {
		logger.ErrorObj("storage close failed", "error", err.Error())
	}
}
