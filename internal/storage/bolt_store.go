package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/tidings-hq/tidings-feed-reader/internal/domain"
)

const (
	bookmarkBucket = "bookmarks"
	settingsBucket = "settings"
	seenBucket     = "seen"

	feedsKey = "feeds"

	expiryValueBytes = 8
)

// boltStore implements Store backed by BoltDB.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	seenTTL         time.Duration
	cleanupInterval time.Duration
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bookmarkBucket, settingsBucket, seenBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	store := &boltStore{
		db:              db,
		seenTTL:         opts.SeenTTL,
		cleanupInterval: opts.CleanupInterval,
	}
	store.lastCleanup.Store(time.Now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Bookmarks returns all saved bookmarks in save order.
func (b *boltStore) Bookmarks() ([]domain.Bookmark, error) {
	var out []domain.Bookmark
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bookmarkBucket))
		if bucket == nil {
			return fmt.Errorf("bookmark bucket missing")
		}
		return bucket.ForEach(func(_, v []byte) error {
			var bm domain.Bookmark
			if err := json.Unmarshal(v, &bm); err != nil {
				return fmt.Errorf("decode bookmark: %w", err)
			}
			out = append(out, bm)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SavedAt.Equal(out[j].SavedAt) {
			return out[i].Link < out[j].Link
		}
		return out[i].SavedAt.Before(out[j].SavedAt)
	})
	return out, nil
}

// ToggleBookmark inserts the bookmark, or removes the existing one sharing
// its link. It reports whether the bookmark was added.
func (b *boltStore) ToggleBookmark(bm domain.Bookmark) (bool, error) {
	if bm.Link == "" {
		return false, fmt.Errorf("bookmark link is empty")
	}

	var added bool
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bookmarkBucket))
		if bucket == nil {
			return fmt.Errorf("bookmark bucket missing")
		}
		key := []byte(bm.Link)
		if bucket.Get(key) != nil {
			return bucket.Delete(key)
		}

		value, err := json.Marshal(bm)
		if err != nil {
			return fmt.Errorf("encode bookmark: %w", err)
		}
		added = true
		return bucket.Put(key, value)
	})
	return added, err
}

// RemoveBookmark deletes the bookmark with the given link, if present.
func (b *boltStore) RemoveBookmark(link string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bookmarkBucket))
		if bucket == nil {
			return fmt.Errorf("bookmark bucket missing")
		}
		return bucket.Delete([]byte(link))
	})
}

// IsBookmarked reports whether a bookmark with the given link exists.
func (b *boltStore) IsBookmarked(link string) (bool, error) {
	var exists bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bookmarkBucket))
		if bucket == nil {
			return fmt.Errorf("bookmark bucket missing")
		}
		exists = bucket.Get([]byte(link)) != nil
		return nil
	})
	return exists, err
}

// Feeds loads the persisted feed list. nil means no list was ever saved.
func (b *boltStore) Feeds() ([]domain.Feed, error) {
	var out []domain.Feed
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(settingsBucket))
		if bucket == nil {
			return fmt.Errorf("settings bucket missing")
		}
		value := bucket.Get([]byte(feedsKey))
		if value == nil {
			return nil
		}
		return json.Unmarshal(value, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("load feeds: %w", err)
	}
	return out, nil
}

// SaveFeeds persists the ordered feed list as a single value, preserving the
// caller's ordering.
func (b *boltStore) SaveFeeds(feeds []domain.Feed) error {
	if feeds == nil {
		feeds = []domain.Feed{}
	}
	value, err := json.Marshal(feeds)
	if err != nil {
		return fmt.Errorf("encode feeds: %w", err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(settingsBucket))
		if bucket == nil {
			return fmt.Errorf("settings bucket missing")
		}
		return bucket.Put([]byte(feedsKey), value)
	})
}

// SeenArticle checks whether the article link was marked and has not expired.
func (b *boltStore) SeenArticle(link string) (bool, error) {
	if err := b.maybeCleanupExpired(time.Now()); err != nil {
		return false, err
	}

	var exists bool
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(seenBucket))
		if bucket == nil {
			return fmt.Errorf("seen bucket missing")
		}

		key := []byte(link)
		value := bucket.Get(key)
		if value == nil {
			exists = false
			return nil
		}

		expiry, ok := decodeExpiry(value)
		if !ok || !expiry.After(time.Now()) {
			exists = false
			return bucket.Delete(key)
		}

		exists = true
		return nil
	})
	return exists, err
}

// MarkArticle records the article link as seen with the configured TTL.
func (b *boltStore) MarkArticle(link string) error {
	now := time.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(seenBucket))
		if bucket == nil {
			return fmt.Errorf("seen bucket missing")
		}
		buf := make([]byte, expiryValueBytes)
		binary.BigEndian.PutUint64(buf, uint64(now.Add(b.seenTTL).Unix()))
		return bucket.Put([]byte(link), buf)
	})
}

// maybeCleanupExpired removes expired seen marks on a fixed cadence to avoid
// unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(seenBucket))
		if bucket == nil {
			return fmt.Errorf("seen bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, ok := decodeExpiry(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

// decodeExpiry decodes the expiry time from the stored byte slice.
func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) != expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
