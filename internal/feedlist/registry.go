package feedlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tidings-hq/tidings-feed-reader/internal/domain"
	"github.com/tidings-hq/tidings-feed-reader/internal/sanitize"
)

// Package feedlist manages the user's feed subscriptions: built-in defaults,
// an optional YAML/JSON registry file, and persisted user edits.

var builtinDefaults = []domain.Feed{
	{Name: "Backchannel", URL: "https://medium.com/feed/backchannel"},
	{Name: "TechCrunch", URL: "https://techcrunch.com/feed/"},
	{Name: "The Economist", URL: "https://medium.com/feed/the-economist"},
}

// Defaults returns a copy of the built-in starter subscriptions.
func Defaults() []domain.Feed {
	out := make([]domain.Feed, len(builtinDefaults))
	copy(out, builtinDefaults)
	return out
}

type registryFile struct {
	Feeds []domain.Feed `json:"feeds" yaml:"feeds"`
}

// Load reads the default feed list from a YAML/JSON registry file. An empty
// path yields the built-in defaults.
func Load(path string) ([]domain.Feed, error) {
	if strings.TrimSpace(path) == "" {
		return Defaults(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}

	reg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(reg.Feeds) == 0 {
		return nil, errors.New("feeds file contains no feed entries")
	}

	seen := make(map[string]struct{}, len(reg.Feeds))
	feeds := make([]domain.Feed, 0, len(reg.Feeds))
	for i := range reg.Feeds {
		f := sanitizeFeed(reg.Feeds[i])
		if err := ValidateFeed(f); err != nil {
			return nil, fmt.Errorf("feeds[%d]: %w", i, err)
		}
		if _, exists := seen[f.URL]; exists {
			return nil, fmt.Errorf("duplicate feed url %q", f.URL)
		}
		seen[f.URL] = struct{}{}
		feeds = append(feeds, f)
	}

	return feeds, nil
}

type unmarshalFn func([]byte, any) error

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var reg registryFile
		if err := d.fn(data, &reg); err == nil {
			return reg, nil
		}
	}

	return registryFile{}, errors.New("feeds file format not recognized (expected YAML or JSON)")
}

func sanitizeFeed(f domain.Feed) domain.Feed {
	f.Name = strings.TrimSpace(f.Name)
	f.URL = strings.TrimSpace(f.URL)
	return f
}

// ValidateFeed checks that a feed entry carries a name and a valid http(s)
// URL.
func ValidateFeed(f domain.Feed) error {
	if f.Name == "" {
		return errors.New("name is required")
	}
	if f.URL == "" {
		return errors.New("url is required")
	}
	if sanitize.URL(f.URL) == "" {
		return fmt.Errorf("url %q is not a valid http(s) url", f.URL)
	}
	return nil
}
