package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidings-hq/tidings-feed-reader/internal/domain"
)

// Package storage provides the reader's local key/value persistence:
// bookmarks, the user's feed list, and TTL'd seen-article marks used by the
// background refresher.

// Store is the persistence surface consumed by the rest of the application.
type Store interface {
	Close() error

	// Bookmarks hold the reduced article projection, keyed by link.
	Bookmarks() ([]domain.Bookmark, error)
	ToggleBookmark(b domain.Bookmark) (added bool, err error)
	RemoveBookmark(link string) error
	IsBookmarked(link string) (bool, error)

	// Feeds is the user's ordered subscription list; nil means the user has
	// never saved one and defaults apply.
	Feeds() ([]domain.Feed, error)
	SaveFeeds(feeds []domain.Feed) error

	// Seen-article marks, keyed by link, expire after the configured TTL.
	SeenArticle(link string) (bool, error)
	MarkArticle(link string) error
}

// Options controls retention characteristics for concrete store
// implementations.
type Options struct {
	SeenTTL         time.Duration
	CleanupInterval time.Duration
}

const (
	defaultSeenTTL         = 5 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.SeenTTL <= 0 {
		opts.SeenTTL = defaultSeenTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// noopStore keeps nothing; used when persistence is disabled.
type noopStore struct{}

func (noopStore) Close() error                                  { return nil }
func (noopStore) Bookmarks() ([]domain.Bookmark, error)         { return nil, nil }
func (noopStore) ToggleBookmark(domain.Bookmark) (bool, error)  { return false, nil }
func (noopStore) RemoveBookmark(string) error                   { return nil }
func (noopStore) IsBookmarked(string) (bool, error)             { return false, nil }
func (noopStore) Feeds() ([]domain.Feed, error)                 { return nil, nil }
func (noopStore) SaveFeeds([]domain.Feed) error                 { return nil }
func (noopStore) SeenArticle(string) (bool, error)              { return false, nil }
func (noopStore) MarkArticle(string) error                      { return nil }
