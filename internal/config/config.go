package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and
// environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	ListenAddr string `mapstructure:"listen_addr"`

	FeedAPIURL          string        `mapstructure:"feed_api_url"`
	FetchTimeoutSeconds int64         `mapstructure:"fetch_timeout_seconds"`
	FetchTimeout        time.Duration `mapstructure:"-"`
	ExcerptMaxLength    int           `mapstructure:"excerpt_max_length"`

	FeedsFile    string `mapstructure:"feeds_file"`
	WebhooksFile string `mapstructure:"webhooks_file"`

	RefreshIntervalSeconds int64         `mapstructure:"refresh_interval_seconds"`
	RefreshInterval        time.Duration `mapstructure:"-"`

	StorageType         string        `mapstructure:"storage_type"`
	BBoltPath           string        `mapstructure:"bbolt_path"`
	SeenTTLSeconds      int64         `mapstructure:"seen_ttl_seconds"`
	SeenCleanupSeconds  int64         `mapstructure:"seen_cleanup_interval_seconds"`
	SeenTTL             time.Duration `mapstructure:"-"`
	SeenCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "tidings-feed-reader")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("feed_api_url", "https://api.rss2json.com/v1/api.json")
	v.SetDefault("fetch_timeout_seconds", 20)
	v.SetDefault("excerpt_max_length", 200)
	v.SetDefault("feeds_file", "./configs/feeds.yaml")
	v.SetDefault("webhooks_file", "")
	v.SetDefault("refresh_interval_seconds", 0) // 0 disables the background refresher
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/reader.db")
	v.SetDefault("seen_ttl_seconds", int64((5*24*time.Hour)/time.Second))
	v.SetDefault("seen_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.FeedAPIURL == "" {
		return nil, fmt.Errorf("feed_api_url must not be empty")
	}
	if cfg.FetchTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid fetch_timeout_seconds (must be positive)")
	}
	cfg.FetchTimeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second

	if cfg.ExcerptMaxLength <= 0 {
		return nil, fmt.Errorf("invalid excerpt_max_length (must be positive)")
	}

	if cfg.RefreshIntervalSeconds < 0 {
		return nil, fmt.Errorf("invalid refresh_interval_seconds (must be >= 0)")
	}
	cfg.RefreshInterval = time.Duration(cfg.RefreshIntervalSeconds) * time.Second

	if cfg.SeenTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid seen_ttl_seconds (must be positive)")
	}
	if cfg.SeenCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid seen_cleanup_interval_seconds (must be positive)")
	}
	cfg.SeenTTL = time.Duration(cfg.SeenTTLSeconds) * time.Second
	cfg.SeenCleanupInterval = time.Duration(cfg.SeenCleanupSeconds) * time.Second

	return &cfg, nil
}
