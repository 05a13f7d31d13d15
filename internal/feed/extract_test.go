package feed

import (
	"strings"
	"testing"
)

func TestExtractImageThumbnailWins(t *testing.T) {
	item := apiItem{
		Thumbnail: "https://a.example/b.jpg",
		Content:   `<img src='https://a.example/c.jpg'>`,
	}
	if got := extractImage(item); got != "https://a.example/b.jpg" {
		t.Fatalf("expected thumbnail to win, got %q", got)
	}
}

func TestExtractImageEnclosureMustBeImage(t *testing.T) {
	item := apiItem{
		Enclosure: apiEnclosure{Link: "https://a.example/x.mp3", Type: "audio/mpeg"},
	}
	if got := extractImage(item); got != "" {
		t.Fatalf("expected no image for audio enclosure, got %q", got)
	}

	item.Enclosure.Type = "image/jpeg"
	if got := extractImage(item); got != "https://a.example/x.mp3" {
		t.Fatalf("expected image enclosure link, got %q", got)
	}
}

func TestExtractImageFirstImgWins(t *testing.T) {
	item := apiItem{
		Content: `<img src='https://a.example/1.jpg'><img src='https://a.example/2.jpg'>`,
	}
	if got := extractImage(item); got != "https://a.example/1.jpg" {
		t.Fatalf("expected first img src, got %q", got)
	}
}

func TestExtractImgAcceptsBothQuoteStyles(t *testing.T) {
	single := apiItem{Content: `<p><img src='https://a.example/s.png'></p>`}
	double := apiItem{Content: `<p><img src="https://a.example/d.png"></p>`}
	if got := extractImage(single); got != "https://a.example/s.png" {
		t.Errorf("single-quoted src: got %q", got)
	}
	if got := extractImage(double); got != "https://a.example/d.png" {
		t.Errorf("double-quoted src: got %q", got)
	}
}

func TestExtractImageInvalidCandidateFallsThrough(t *testing.T) {
	item := apiItem{
		Thumbnail: "javascript:alert(1)",
		Enclosure: apiEnclosure{Link: "https://a.example/pic.png", Type: "image/png"},
	}
	if got := extractImage(item); got != "https://a.example/pic.png" {
		t.Fatalf("expected invalid thumbnail to fall through to enclosure, got %q", got)
	}
}

func TestExtractImageDescriptionFallback(t *testing.T) {
	item := apiItem{
		Description: `text <img src="https://a.example/d.jpg"> more`,
	}
	if got := extractImage(item); got != "https://a.example/d.jpg" {
		t.Fatalf("expected img from description, got %q", got)
	}
}

func TestExtractImageNone(t *testing.T) {
	if got := extractImage(apiItem{}); got != "" {
		t.Fatalf("expected no image, got %q", got)
	}
}

func TestExtractExcerptTruncates(t *testing.T) {
	item := apiItem{Description: strings.Repeat("A", 300)}
	got := extractExcerpt(item, 200)
	if len(got) != 203 {
		t.Fatalf("expected length 203, got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ... suffix, got %q", got)
	}
}

func TestExtractExcerptShortUnchanged(t *testing.T) {
	if got := extractExcerpt(apiItem{Description: "short"}, 200); got != "short" {
		t.Fatalf("expected %q, got %q", "short", got)
	}
}

func TestExtractExcerptEmpty(t *testing.T) {
	if got := extractExcerpt(apiItem{}, 200); got != "" {
		t.Fatalf("expected empty excerpt, got %q", got)
	}
}

func TestExtractExcerptStripsTagsAndTrims(t *testing.T) {
	item := apiItem{Description: "  <p>Hello <b>world</b></p>\n"}
	if got := extractExcerpt(item, 200); got != "Hello world" {
		t.Fatalf("expected stripped text, got %q", got)
	}
}

func TestExtractExcerptContentFallback(t *testing.T) {
	item := apiItem{Content: "<div>from content</div>"}
	if got := extractExcerpt(item, 200); got != "from content" {
		t.Fatalf("expected content fallback, got %q", got)
	}
}

func TestExtractExcerptRuneAware(t *testing.T) {
	item := apiItem{Description: strings.Repeat("ä", 250)}
	got := extractExcerpt(item, 200)
	runes := []rune(got)
	if len(runes) != 203 {
		t.Fatalf("expected 203 runes, got %d", len(runes))
	}
}
