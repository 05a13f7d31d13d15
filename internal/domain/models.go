package domain

import "time"

// Domain contains the reader's core value types.

// Article is one normalized feed entry. Instances are built fresh on every
// fetch and treated as immutable afterwards. Link and Image are either
// validated http(s) URLs or empty, and Content only ever carries sanitized
// markup.
type Article struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Link       string   `json:"link"`
	Author     string   `json:"author"`
	PubDate    string   `json:"pubDate"`
	Content    string   `json:"content,omitempty"`
	Excerpt    string   `json:"excerpt"`
	Image      string   `json:"image,omitempty"`
	FeedSource string   `json:"feedSource"`
	Categories []string `json:"categories"`
}

// Bookmark is the reduced article projection persisted long-term. Full
// content is deliberately excluded; it is re-read from the feed when the
// article is opened.
type Bookmark struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Link       string    `json:"link"`
	Author     string    `json:"author"`
	PubDate    string    `json:"pubDate"`
	Excerpt    string    `json:"excerpt"`
	Image      string    `json:"image,omitempty"`
	FeedSource string    `json:"feedSource"`
	Categories []string  `json:"categories"`
	SavedAt    time.Time `json:"savedAt"`
}

// NewBookmark projects an article down to its bookmarkable subset.
func NewBookmark(a Article) Bookmark {
	return Bookmark{
		ID:         a.ID,
		Title:      a.Title,
		Link:       a.Link,
		Author:     a.Author,
		PubDate:    a.PubDate,
		Excerpt:    a.Excerpt,
		Image:      a.Image,
		FeedSource: a.FeedSource,
		Categories: a.Categories,
		SavedAt:    time.Now().UTC(),
	}
}

// Feed is a named, user-configured source URL.
type Feed struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}
