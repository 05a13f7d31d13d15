package feed

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tidings-hq/tidings-feed-reader/internal/domain"
	"github.com/tidings-hq/tidings-feed-reader/internal/sanitize"
)

// normalizeItem maps one raw conversion-API item into a canonical Article.
// The id is a deterministic composite of feed URL, item index and the item's
// link/guid, so re-fetching unchanged items yields stable ids.
func (f *Fetcher) normalizeItem(feedURL string, index int, item apiItem, feedSource string) domain.Article {
	ref := item.Link
	if ref == "" {
		ref = item.GUID
	}
	idRef := ref
	if idRef == "" {
		idRef = fmt.Sprintf("%d", index)
	}

	title := item.Title
	if title == "" {
		title = "Untitled"
	}
	author := item.Author
	if author == "" {
		author = "Unknown"
	}
	categories := item.Categories
	if categories == nil {
		categories = []string{}
	}

	return domain.Article{
		ID:         fmt.Sprintf("%s::%d::%s", feedURL, index, idRef),
		Title:      title,
		Link:       sanitize.URL(ref),
		Author:     author,
		PubDate:    item.PubDate,
		Content:    sanitize.HTML(firstNonEmpty(item.Content, item.Description)),
		Excerpt:    extractExcerpt(item, f.excerptMax),
		Image:      extractImage(item),
		FeedSource: feedSource,
		Categories: categories,
	}
}

// extractImage picks a representative image URL for the item. Priority:
// explicit thumbnail, then an image-typed enclosure, then the first <img> in
// the content-or-description markup. A candidate that fails URL validation is
// discarded and the next rule is tried.
func extractImage(item apiItem) string {
	if item.Thumbnail != "" {
		if u := sanitize.URL(item.Thumbnail); u != "" {
			return u
		}
	}

	if item.Enclosure.Link != "" && strings.HasPrefix(item.Enclosure.Type, "image") {
		if u := sanitize.URL(item.Enclosure.Link); u != "" {
			return u
		}
	}

	if src := firstImageSrc(firstNonEmpty(item.Content, item.Description)); src != "" {
		if u := sanitize.URL(src); u != "" {
			return u
		}
	}

	return ""
}

// firstImageSrc returns the src of the first <img> tag in the markup. Parsing
// with goquery accepts single- and double-quoted attribute values alike.
func firstImageSrc(markup string) string {
	if markup == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return strings.TrimSpace(src)
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// extractExcerpt derives a plain-text summary from the item's description (or
// content as fallback), capped at maxLength runes with a "..." suffix when
// truncated.
func extractExcerpt(item apiItem, maxLength int) string {
	source := item.Description
	if source == "" {
		source = item.Content
	}

	text := strings.TrimSpace(tagPattern.ReplaceAllString(source, ""))
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength]) + "..."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
