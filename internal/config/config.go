// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the daemon needs at startup.
type Config struct {
	// Headline API settings. An empty key disables the API tasks.
	APIKey     string
	APIBaseURL string

	// File paths. Empty SourcesFile selects the built-in source set; empty
	// SinksFile disables publishing.
	SourcesFile string
	SinksFile   string
	StorePath   string

	// Categories limits ingestion; empty means all known categories.
	Categories []string

	// Runtime behaviour.
	RequestTimeout time.Duration
	PollInterval   time.Duration
	RunOnce        bool
	EnrichPages    bool
	EnrichWorkers  int
	RetainDays     int
	Debug          bool
}

// Load reads configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("NEWSWIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api_base_url", "")
	v.SetDefault("sources_file", "")
	v.SetDefault("sinks_file", "")
	v.SetDefault("store_path", "newswire.db")
	v.SetDefault("categories", "")
	v.SetDefault("request_timeout", "30s")
	v.SetDefault("poll_interval", "15m")
	v.SetDefault("run_once", false)
	v.SetDefault("enrich_pages", false)
	v.SetDefault("enrich_workers", 8)
	v.SetDefault("retain_days", 14)
	v.SetDefault("debug", false)

	cfg := &Config{
		APIKey:         v.GetString("api_key"),
		APIBaseURL:     v.GetString("api_base_url"),
		SourcesFile:    v.GetString("sources_file"),
		SinksFile:      v.GetString("sinks_file"),
		StorePath:      v.GetString("store_path"),
		Categories:     splitList(v.GetString("categories")),
		RequestTimeout: v.GetDuration("request_timeout"),
		PollInterval:   v.GetDuration("poll_interval"),
		RunOnce:        v.GetBool("run_once"),
		EnrichPages:    v.GetBool("enrich_pages"),
		EnrichWorkers:  v.GetInt("enrich_workers"),
		RetainDays:     v.GetInt("retain_days"),
		Debug:          v.GetBool("debug"),
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.PollInterval < time.Minute {
		cfg.PollInterval = time.Minute
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
