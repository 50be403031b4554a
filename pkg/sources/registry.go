// Package sources holds the static feed source configuration. Sources are
// loaded once at startup and read-only afterwards.
package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/techpulse/newswire/internal/domain"
)

const defaultPollInterval = 15 * time.Minute

// configFile represents the structure of the sources configuration file.
type configFile struct {
	Sources []SourceConfig `json:"sources" yaml:"sources"`
}

// SourceConfig is a single feed source entry declared in config files.
type SourceConfig struct {
	Name            string  `json:"name" yaml:"name"`
	URL             string  `json:"url" yaml:"url"`
	Category        string  `json:"category" yaml:"category"`
	Reliability     float64 `json:"reliability" yaml:"reliability"`
	PollIntervalSec int     `json:"poll_interval_seconds" yaml:"poll_interval_seconds"`
	Enabled         *bool   `json:"enabled" yaml:"enabled"`
}

// Registry is the read-only lookup table over configured sources.
type Registry struct {
	mu      sync.RWMutex
	sources []domain.Source
	idx     map[string]domain.Source
}

// LoadRegistry loads the source registry from a YAML or JSON file.
// Environment references in the file are expanded before decoding.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sources file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(raw)))

	cfg, err := parseSourcesFile(expanded, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(cfg.Sources) == 0 {
		return nil, errors.New("sources file contains no sources entries")
	}

	var list []domain.Source
	for i := range cfg.Sources {
		sc := sanitizeSourceConfig(cfg.Sources[i])
		if sc.Enabled != nil && !*sc.Enabled {
			continue
		}
		if err := validateSourceConfig(sc); err != nil {
			return nil, fmt.Errorf("sources[%d]: %w", i, err)
		}
		list = append(list, sc.toSource())
	}
	if len(list) == 0 {
		return nil, errors.New("sources file has no enabled sources")
	}

	return NewRegistry(list)
}

// NewRegistry builds a registry from an already-materialized source list.
func NewRegistry(list []domain.Source) (*Registry, error) {
	reg := &Registry{
		sources: make([]domain.Source, 0, len(list)),
		idx:     make(map[string]domain.Source, len(list)),
	}

	for _, src := range list {
		key := strings.ToLower(strings.TrimSpace(src.Name))
		if key == "" {
			return nil, errors.New("source name is empty")
		}
		if _, exists := reg.idx[key]; exists {
			return nil, fmt.Errorf("duplicate source name %q", src.Name)
		}
		reg.idx[key] = src
		reg.sources = append(reg.sources, src)
	}

	return reg, nil
}

// parseSourcesFile attempts to decode the sources file content.
func parseSourcesFile(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
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

	return configFile{}, errors.New("sources file format not recognized (expected YAML or JSON)")
}

// sanitizeSourceConfig trims and normalizes the source config fields.
func sanitizeSourceConfig(sc SourceConfig) SourceConfig {
	sc.Name = strings.TrimSpace(sc.Name)
	sc.URL = strings.TrimSpace(sc.URL)
	sc.Category = strings.ToLower(strings.TrimSpace(sc.Category))
	if sc.Category == "" {
		sc.Category = string(domain.CategoryTech)
	}
	if sc.Enabled == nil {
		def := true
		sc.Enabled = &def
	}
	return sc
}

// validateSourceConfig checks that required fields are present and sane.
func validateSourceConfig(sc SourceConfig) error {
	if sc.Name == "" {
		return errors.New("name is required")
	}
	if sc.URL == "" {
		return fmt.Errorf("url is required for source %q", sc.Name)
	}
	if u, err := url.Parse(sc.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("url %q is not a valid endpoint for source %q", sc.URL, sc.Name)
	}
	if sc.Reliability < 0 || sc.Reliability > 1 {
		return fmt.Errorf("reliability %.2f out of range [0,1] for source %q", sc.Reliability, sc.Name)
	}
	if !knownCategory(sc.Category) {
		return fmt.Errorf("unknown category %q for source %q", sc.Category, sc.Name)
	}
	return nil
}

func knownCategory(cat string) bool {
	for _, c := range domain.AllCategories() {
		if string(c) == cat {
			return true
		}
	}
	return false
}

func (sc SourceConfig) toSource() domain.Source {
	interval := defaultPollInterval
	if sc.PollIntervalSec > 0 {
		interval = time.Duration(sc.PollIntervalSec) * time.Second
	}
	return domain.Source{
		Name:         sc.Name,
		Endpoint:     sc.URL,
		Category:     domain.Category(sc.Category),
		Reliability:  sc.Reliability,
		PollInterval: interval,
	}
}

// ByName returns the source with the given name.
func (r *Registry) ByName(name string) (domain.Source, bool) {
	if r == nil {
		return domain.Source{}, false
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return domain.Source{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.idx[name]
	return src, ok
}

// All returns every configured source.
func (r *Registry) All() []domain.Source {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Source, len(r.sources))
	copy(out, r.sources)
	return out
}

// ByCategory returns the sources whose declared category is in cats.
// An empty filter returns all sources.
func (r *Registry) ByCategory(cats ...domain.Category) []domain.Source {
	all := r.All()
	if len(cats) == 0 {
		return all
	}

	want := make(map[domain.Category]struct{}, len(cats))
	for _, c := range cats {
		want[c] = struct{}{}
	}

	out := make([]domain.Source, 0, len(all))
	for _, src := range all {
		if _, ok := want[src.Category]; ok {
			out = append(out, src)
		}
	}
	return out
}

// Len reports the number of configured sources.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}
