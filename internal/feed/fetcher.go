package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidings-hq/tidings-feed-reader/internal/domain"
	"github.com/tidings-hq/tidings-feed-reader/pkg/httpclient"
)

const (
	// DefaultEndpoint is the public feed-to-JSON conversion API.
	DefaultEndpoint = "https://api.rss2json.com/v1/api.json"

	// DefaultTimeout bounds a single feed fetch.
	DefaultTimeout = 20 * time.Second

	// DefaultExcerptLength caps the plain-text excerpt.
	DefaultExcerptLength = 200
)

// Fetcher retrieves raw feed items through the conversion API and maps each
// one into a canonical domain.Article. A Fetcher is stateless; concurrent
// fetches for different URLs are independent.
type Fetcher struct {
	client     httpclient.Client
	endpoint   string
	timeout    time.Duration
	excerptMax int
}

// NewFetcher builds a fetcher over the given HTTP client. Zero values fall
// back to the package defaults.
func NewFetcher(client httpclient.Client, endpoint string, timeout time.Duration, excerptMax int) *Fetcher {
	if client == nil {
		client = httpclient.NewRestyClient(DefaultTimeout)
	}
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if excerptMax <= 0 {
		excerptMax = DefaultExcerptLength
	}
	return &Fetcher{
		client:     client,
		endpoint:   endpoint,
		timeout:    timeout,
		excerptMax: excerptMax,
	}
}

// Fetch retrieves feedURL through the conversion API and returns its
// normalized articles in source order. The whole batch succeeds or the call
// fails as a unit with one of the typed errors in this package.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]domain.Article, error) {
	if strings.TrimSpace(feedURL) == "" {
		return nil, fmt.Errorf("feed url is empty")
	}

	apiURL := f.endpoint + "?rss_url=" + url.QueryEscape(feedURL)

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := f.client.Get(ctx, apiURL, nil)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{URL: feedURL}
		}
		return nil, &NetworkError{URL: feedURL, Err: err}
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, &FetchFailedError{URL: feedURL, Status: resp.StatusCode()}
	}

	var payload apiResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, &ParseError{URL: feedURL, Message: defaultParseMessage}
	}

	if payload.Status != "ok" {
		msg := strings.TrimSpace(payload.Message)
		if msg == "" {
			msg = defaultParseMessage
		}
		return nil, &ParseError{URL: feedURL, Message: msg}
	}

	feedSource := strings.TrimSpace(payload.Feed.Title)
	if feedSource == "" {
		feedSource = feedURL
	}

	articles := make([]domain.Article, 0, len(payload.Items))
	for i, item := range payload.Items {
		articles = append(articles, f.normalizeItem(feedURL, i, item, feedSource))
	}
	return articles, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
