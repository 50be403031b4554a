package sources

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/techpulse/newswire/internal/domain"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const sourcesYAML = `
sources:
  - name: TechCrunch
    url: https://techcrunch.com/feed/
    category: startups
    reliability: 1.0
  - name: Ars Technica
    url: https://feeds.arstechnica.com/arstechnica/index
    category: tech
    reliability: 0.95
    poll_interval_seconds: 600
  - name: Disabled Feed
    url: https://disabled.example.com/feed
    category: tech
    reliability: 0.5
    enabled: false
`

func TestLoadRegistryYAML(t *testing.T) {
	path := writeTempFile(t, "sources.yaml", sourcesYAML)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("Len() = %d, want disabled source excluded", reg.Len())
	}

	src, ok := reg.ByName("techcrunch")
	if !ok {
		t.Fatal("ByName lookup is case-insensitive and should find TechCrunch")
	}
	if src.Category != domain.CategoryStartups || src.Reliability != 1.0 {
		t.Errorf("source = %+v", src)
	}
	if src.PollInterval != defaultPollInterval {
		t.Errorf("missing poll interval should default, got %v", src.PollInterval)
	}

	ars, _ := reg.ByName("Ars Technica")
	if ars.PollInterval != 10*time.Minute {
		t.Errorf("poll interval = %v, want 10m", ars.PollInterval)
	}

	if _, ok := reg.ByName("Disabled Feed"); ok {
		t.Error("disabled source should not be registered")
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeTempFile(t, "sources.json", `{
  "sources": [
    {"name": "Wired", "url": "https://wired.com/feed/rss", "category": "tech", "reliability": 0.9}
  ]
}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d", reg.Len())
	}
}

func TestLoadRegistryExpandsEnv(t *testing.T) {
	t.Setenv("FEED_HOST", "env.example.com")
	path := writeTempFile(t, "sources.yaml", `
sources:
  - name: Env Feed
    url: https://${FEED_HOST}/feed
    category: tech
    reliability: 0.8
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	src, _ := reg.ByName("Env Feed")
	if src.Endpoint != "https://env.example.com/feed" {
		t.Errorf("endpoint = %q, want env reference expanded", src.Endpoint)
	}
}

func TestLoadRegistryValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"missing url",
			"sources:\n  - name: NoURL\n    category: tech\n",
			"url is required",
		},
		{
			"bad url",
			"sources:\n  - name: BadURL\n    url: not-a-url\n    category: tech\n",
			"not a valid endpoint",
		},
		{
			"reliability out of range",
			"sources:\n  - name: TooReliable\n    url: https://x.com/f\n    category: tech\n    reliability: 1.5\n",
			"out of range",
		},
		{
			"unknown category",
			"sources:\n  - name: Odd\n    url: https://x.com/f\n    category: gardening\n",
			"unknown category",
		},
		{
			"no sources",
			"sources: []\n",
			"no sources",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "sources.yaml", tt.content)
			_, err := LoadRegistry(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewRegistryDuplicateName(t *testing.T) {
	_, err := NewRegistry([]domain.Source{
		{Name: "Feed"},
		{Name: "feed"},
	})
	if err == nil {
		t.Fatal("duplicate names (case-insensitive) should be rejected")
	}
}

func TestByCategory(t *testing.T) {
	reg, err := NewRegistry([]domain.Source{
		{Name: "a", Category: domain.CategoryAI},
		{Name: "b", Category: domain.CategoryCloud},
		{Name: "c", Category: domain.CategoryAI},
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	got := reg.ByCategory(domain.CategoryAI)
	if len(got) != 2 {
		t.Errorf("ByCategory(ai) = %d sources, want 2", len(got))
	}
	if all := reg.ByCategory(); len(all) != 3 {
		t.Errorf("empty filter = %d sources, want all 3", len(all))
	}
}

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	if reg.Len() == 0 {
		t.Fatal("default registry is empty")
	}
	for _, src := range reg.All() {
		if src.Reliability <= 0 || src.Reliability > 1 {
			t.Errorf("source %q reliability %v out of range", src.Name, src.Reliability)
		}
		if src.Endpoint == "" {
			t.Errorf("source %q has no endpoint", src.Name)
		}
	}
}
