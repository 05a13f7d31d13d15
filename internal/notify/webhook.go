package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tidings-hq/tidings-feed-reader/internal/domain"
	"github.com/tidings-hq/tidings-feed-reader/pkg/httpclient"
)

// Event is the payload delivered to webhook sinks when a refresh discovers an
// article it has not seen before.
type Event struct {
	FeedName    string         `json:"feed_name"`
	FeedURL     string         `json:"feed_url"`
	Article     domain.Article `json:"article"`
	CollectedAt time.Time      `json:"collected_at"`
}

// NewEvent constructs an Event for the given feed + article.
func NewEvent(feedName, feedURL string, article domain.Article) Event {
	return Event{
		FeedName:    feedName,
		FeedURL:     feedURL,
		Article:     article,
		CollectedAt: time.Now().UTC(),
	}
}

// Publisher sends events to a downstream sink.
type Publisher interface {
	ID() string
	Publish(ctx context.Context, evt Event) error
}

type webhookPublisher struct {
	id      string
	method  string
	url     string
	headers map[string]string
	client  *resty.Client
}

// NewWebhookPublisher builds a publisher for one webhook config.
func NewWebhookPublisher(cfg WebhookConfig) Publisher {
	return &webhookPublisher{
		id:      cfg.ID,
		method:  cfg.Method,
		url:     cfg.URL,
		headers: cfg.Headers,
		client:  httpclient.NewRestyHTTPClient(time.Duration(cfg.TimeoutSeconds) * time.Second),
	}
}

// BuildAll constructs publishers for every enabled webhook config.
func BuildAll(cfgs []WebhookConfig) []Publisher {
	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		pubs = append(pubs, NewWebhookPublisher(cfg))
	}
	return pubs
}

func (w *webhookPublisher) ID() string { return w.id }

func (w *webhookPublisher) Publish(ctx context.Context, evt Event) error {
	req := w.client.R().
		SetContext(ctx).
		SetBody(evt)

	if len(w.headers) > 0 {
		req.SetHeaders(w.headers)
	}
	req.SetHeader("Content-Type", "application/json")

	resp, err := req.Execute(w.method, w.url)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook response status %d: %s", resp.StatusCode(), bodySnippet(resp.Body()))
	}
	return nil
}

func bodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return strings.TrimSpace(string(body))
}
