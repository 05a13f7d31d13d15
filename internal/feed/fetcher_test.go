package feed

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/tidings-hq/tidings-feed-reader/pkg/httpclient"
)

const sampleFeedURL = "https://example.com/rss"

const samplePayload = `{
  "status": "ok",
  "feed": {"title": "Example Blog"},
  "items": [
    {
      "title": "First Post",
      "link": "https://example.com/posts/1",
      "author": "Ada",
      "pubDate": "2024-05-01 10:00:00",
      "content": "<p>Body <img src='https://example.com/pic.jpg'></p><script>alert(1)</script>",
      "categories": ["go", "feeds"]
    },
    {
      "guid": "urn:item:2",
      "description": "Second item description"
    }
  ]
}`

type mockHTTPClient struct {
	t         *testing.T
	expectURL string
	status    int
	body      string
	err       error
}

type mockResponse struct {
	body       []byte
	statusCode int
}

func (r mockResponse) Body() []byte    { return r.body }
func (r mockResponse) StatusCode() int { return r.statusCode }

func (m mockHTTPClient) Get(_ context.Context, reqURL string, _ map[string]string) (httpclient.Response, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.expectURL != "" && reqURL != m.expectURL {
		m.t.Fatalf("expected url %q, got %q", m.expectURL, reqURL)
	}
	status := m.status
	if status == 0 {
		status = 200
	}
	return mockResponse{body: []byte(m.body), statusCode: status}, nil
}

func TestFetcherNormalizesItems(t *testing.T) {
	client := mockHTTPClient{
		t:         t,
		expectURL: DefaultEndpoint + "?rss_url=" + url.QueryEscape(sampleFeedURL),
		body:      samplePayload,
	}
	fetcher := NewFetcher(client, "", 0, 0)

	articles, err := fetcher.Fetch(context.Background(), sampleFeedURL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}

	first := articles[0]
	if first.ID != sampleFeedURL+"::0::https://example.com/posts/1" {
		t.Errorf("unexpected id %q", first.ID)
	}
	if first.Title != "First Post" || first.Author != "Ada" {
		t.Errorf("unexpected title/author %q/%q", first.Title, first.Author)
	}
	if first.Link != "https://example.com/posts/1" {
		t.Errorf("unexpected link %q", first.Link)
	}
	if first.FeedSource != "Example Blog" {
		t.Errorf("unexpected feed source %q", first.FeedSource)
	}
	if first.Image != "https://example.com/pic.jpg" {
		t.Errorf("unexpected image %q", first.Image)
	}
	for _, needle := range []string{"<script", "alert(1)"} {
		if strings.Contains(first.Content, needle) {
			t.Errorf("content not sanitized, still contains %q: %q", needle, first.Content)
		}
	}
	if len(first.Categories) != 2 {
		t.Errorf("unexpected categories %v", first.Categories)
	}

	second := articles[1]
	if second.Title != "Untitled" {
		t.Errorf("expected Untitled fallback, got %q", second.Title)
	}
	if second.Author != "Unknown" {
		t.Errorf("expected Unknown fallback, got %q", second.Author)
	}
	if second.Link != "" {
		t.Errorf("non-http guid should not become a link, got %q", second.Link)
	}
	if second.ID != sampleFeedURL+"::1::urn:item:2" {
		t.Errorf("unexpected id %q", second.ID)
	}
	if second.Excerpt != "Second item description" {
		t.Errorf("unexpected excerpt %q", second.Excerpt)
	}
	if second.Categories == nil || len(second.Categories) != 0 {
		t.Errorf("expected empty categories slice, got %v", second.Categories)
	}
}

func TestFetcherDeterministicIDs(t *testing.T) {
	client := mockHTTPClient{t: t, body: samplePayload}
	fetcher := NewFetcher(client, "", 0, 0)

	a, err := fetcher.Fetch(context.Background(), sampleFeedURL)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	b, err := fetcher.Fetch(context.Background(), sampleFeedURL)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Errorf("item %d id not deterministic: %q vs %q", i, a[i].ID, b[i].ID)
		}
	}
}

func TestFetcherFeedTitleFallsBackToURL(t *testing.T) {
	client := mockHTTPClient{t: t, body: `{"status":"ok","feed":{},"items":[{"title":"x"}]}`}
	fetcher := NewFetcher(client, "", 0, 0)

	articles, err := fetcher.Fetch(context.Background(), sampleFeedURL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if articles[0].FeedSource != sampleFeedURL {
		t.Fatalf("expected feed source %q, got %q", sampleFeedURL, articles[0].FeedSource)
	}
}

func TestFetcherHTTPFailure(t *testing.T) {
	client := mockHTTPClient{t: t, status: 404, body: "not found"}
	fetcher := NewFetcher(client, "", 0, 0)

	_, err := fetcher.Fetch(context.Background(), sampleFeedURL)
	var ff *FetchFailedError
	if !errors.As(err, &ff) {
		t.Fatalf("expected FetchFailedError, got %v", err)
	}
	if ff.Status != 404 {
		t.Fatalf("expected status 404, got %d", ff.Status)
	}
}

func TestFetcherAPIReportsFailure(t *testing.T) {
	client := mockHTTPClient{t: t, body: `{"status":"error","message":"Invalid RSS"}`}
	fetcher := NewFetcher(client, "", 0, 0)

	_, err := fetcher.Fetch(context.Background(), sampleFeedURL)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Message != "Invalid RSS" {
		t.Fatalf("expected API message passed through, got %q", pe.Message)
	}
}

func TestFetcherAPIFailureDefaultMessage(t *testing.T) {
	client := mockHTTPClient{t: t, body: `{"status":"error"}`}
	fetcher := NewFetcher(client, "", 0, 0)

	_, err := fetcher.Fetch(context.Background(), sampleFeedURL)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Message != defaultParseMessage {
		t.Fatalf("expected default message, got %q", pe.Message)
	}
}

func TestFetcherUndecodableBody(t *testing.T) {
	client := mockHTTPClient{t: t, body: `<html>definitely not json</html>`}
	fetcher := NewFetcher(client, "", 0, 0)

	_, err := fetcher.Fetch(context.Background(), sampleFeedURL)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError for bad payload, got %v", err)
	}
}

func TestFetcherNetworkError(t *testing.T) {
	client := mockHTTPClient{t: t, err: errors.New("connection refused")}
	fetcher := NewFetcher(client, "", 0, 0)

	_, err := fetcher.Fetch(context.Background(), sampleFeedURL)
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestFetcherTimeout(t *testing.T) {
	client := mockHTTPClient{t: t, err: context.DeadlineExceeded}
	fetcher := NewFetcher(client, "", 0, 0)

	_, err := fetcher.Fetch(context.Background(), sampleFeedURL)
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
}

func TestFetcherRejectsEmptyURL(t *testing.T) {
	fetcher := NewFetcher(mockHTTPClient{t: t}, "", 0, 0)
	if _, err := fetcher.Fetch(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty feed url")
	}
}
