package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Package notify delivers new-article events to user-configured webhooks.

const (
	defaultMethod         = "POST"
	defaultTimeoutSeconds = 5
)

// configFile represents the structure of the webhooks configuration file.
type configFile struct {
	Webhooks []WebhookConfig `json:"webhooks" yaml:"webhooks"`
}

// WebhookConfig is a single webhook sink declared in the config file.
type WebhookConfig struct {
	ID             string            `json:"id" yaml:"id"`
	Enabled        *bool             `json:"enabled" yaml:"enabled"`
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// LoadConfigs loads webhook definitions from a YAML/JSON file and returns the
// enabled entries. Entries default to enabled.
func LoadConfigs(path string) ([]WebhookConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("webhooks file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open webhooks file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read webhooks file: %w", err)
	}

	cfg, err := parseConfigFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(cfg.Webhooks) == 0 {
		return nil, errors.New("webhooks file contains no webhook entries")
	}

	seen := make(map[string]struct{}, len(cfg.Webhooks))
	enabled := make([]WebhookConfig, 0, len(cfg.Webhooks))
	for i := range cfg.Webhooks {
		wh := sanitizeConfig(cfg.Webhooks[i])
		if err := validateConfig(wh); err != nil {
			return nil, fmt.Errorf("webhooks[%d]: %w", i, err)
		}
		if _, exists := seen[wh.ID]; exists {
			return nil, fmt.Errorf("duplicate webhook id %q", wh.ID)
		}
		seen[wh.ID] = struct{}{}

		if wh.Enabled != nil && !*wh.Enabled {
			continue
		}
		enabled = append(enabled, wh)
	}

	return enabled, nil
}

func parseConfigFile(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		ext string
		fn  func([]byte, any) error
	}{
		{ext: ".yaml", fn: yaml.Unmarshal},
		{ext: ".yml", fn: yaml.Unmarshal},
		{ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var cfg configFile
		if err := d.fn(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	return configFile{}, errors.New("webhooks file format not recognized (expected YAML or JSON)")
}

func sanitizeConfig(wh WebhookConfig) WebhookConfig {
	wh.ID = strings.TrimSpace(wh.ID)
	wh.URL = strings.TrimSpace(wh.URL)
	wh.Method = strings.ToUpper(strings.TrimSpace(wh.Method))
	if wh.Method == "" {
		wh.Method = defaultMethod
	}
	if wh.TimeoutSeconds <= 0 {
		wh.TimeoutSeconds = defaultTimeoutSeconds
	}
	return wh
}

func validateConfig(wh WebhookConfig) error {
	if wh.ID == "" {
		return errors.New("id is required")
	}
	if wh.URL == "" {
		return fmt.Errorf("url is required for webhook %q", wh.ID)
	}
	return nil
}
