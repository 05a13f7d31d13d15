package feedlist

import (
	"fmt"
	"sync"

	"github.com/tidings-hq/tidings-feed-reader/internal/domain"
)

// FeedStore is the persistence contract the service needs: a nil slice means
// the user has never edited their list.
type FeedStore interface {
	Feeds() ([]domain.Feed, error)
	SaveFeeds(feeds []domain.Feed) error
}

// Service applies list edits (add, remove, reorder, reset) against the store,
// falling back to the configured defaults when nothing is persisted yet.
type Service struct {
	store    FeedStore
	defaults []domain.Feed
	mu       sync.Mutex
}

// NewService builds a feed-list service over the given store and defaults.
func NewService(store FeedStore, defaults []domain.Feed) *Service {
	if len(defaults) == 0 {
		defaults = Defaults()
	}
	return &Service{store: store, defaults: defaults}
}

// List returns the user's feed list, or the defaults if none is saved.
func (s *Service) List() ([]domain.Feed, error) {
	feeds, err := s.store.Feeds()
	if err != nil {
		return nil, fmt.Errorf("load feeds: %w", err)
	}
	if feeds == nil {
		out := make([]domain.Feed, len(s.defaults))
		copy(out, s.defaults)
		return out, nil
	}
	return feeds, nil
}

// Add appends a feed. Adding a URL already present is a no-op.
func (s *Service) Add(f domain.Feed) error {
	f = sanitizeFeed(f)
	if err := ValidateFeed(f); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	feeds, err := s.List()
	if err != nil {
		return err
	}
	for _, existing := range feeds {
		if existing.URL == f.URL {
			return nil
		}
	}
	return s.store.SaveFeeds(append(feeds, f))
}

// Remove deletes the feed with the given URL, if present.
func (s *Service) Remove(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	feeds, err := s.List()
	if err != nil {
		return err
	}
	kept := make([]domain.Feed, 0, len(feeds))
	for _, f := range feeds {
		if f.URL != url {
			kept = append(kept, f)
		}
	}
	return s.store.SaveFeeds(kept)
}

// Reorder replaces the whole list with the given ordering.
func (s *Service) Reorder(feeds []domain.Feed) error {
	cleaned := make([]domain.Feed, 0, len(feeds))
	seen := make(map[string]struct{}, len(feeds))
	for i := range feeds {
		f := sanitizeFeed(feeds[i])
		if err := ValidateFeed(f); err != nil {
			return fmt.Errorf("feeds[%d]: %w", i, err)
		}
		if _, dup := seen[f.URL]; dup {
			return fmt.Errorf("duplicate feed url %q", f.URL)
		}
		seen[f.URL] = struct{}{}
		cleaned = append(cleaned, f)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SaveFeeds(cleaned)
}

// Reset restores the defaults.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Feed, len(s.defaults))
	copy(out, s.defaults)
	return s.store.SaveFeeds(out)
}
