package publishers

import (
	"context"
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

const sinksYAML = `
sinks:
  - id: alerts-queue
    type: queue
    queue:
      provider: aws-sqs
      sqs:
        queue_url: https://sqs.us-east-1.amazonaws.com/123/articles
        region: us-east-1
        access_key_id: ${TEST_AWS_KEY}
        secret_access_key: secret
  - id: site-hook
    type: webhook
    webhook:
      url: https://hooks.example.com/articles
  - id: disabled-hook
    type: webhook
    enabled: false
    webhook:
      url: https://hooks.example.com/off
`

func TestLoadConfigs(t *testing.T) {
	t.Setenv("TEST_AWS_KEY", "AKIAEXAMPLE")
	path := writeTempFile(t, "sinks.yaml", sinksYAML)

	cfgs, err := LoadConfigs(path)
	if err != nil {
		t.Fatalf("LoadConfigs: %v", err)
	}
	if len(cfgs) != 2 {
		t.Fatalf("got %d sinks, want the disabled one excluded", len(cfgs))
	}

	q := cfgs[0]
	if q.Type != TypeQueue || q.Queue.Provider != ProviderAWSSQS {
		t.Errorf("first sink = %+v", q)
	}
	if q.Queue.SQS.AccessKeyID != "AKIAEXAMPLE" {
		t.Errorf("env reference not expanded: %q", q.Queue.SQS.AccessKeyID)
	}

	w := cfgs[1]
	if w.Type != TypeWebhook || w.Webhook.URL != "https://hooks.example.com/articles" {
		t.Errorf("second sink = %+v", w)
	}
	if w.Webhook.TimeoutSeconds != 5 {
		t.Errorf("timeout default = %d, want 5", w.Webhook.TimeoutSeconds)
	}
}

func TestLoadConfigsValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"missing id",
			"sinks:\n  - type: webhook\n    webhook:\n      url: https://x.com\n",
			"id is required",
		},
		{
			"unknown type",
			"sinks:\n  - id: x\n    type: carrier-pigeon\n",
			"not supported",
		},
		{
			"webhook without url",
			"sinks:\n  - id: x\n    type: webhook\n    webhook: {}\n",
			"webhook.url is required",
		},
		{
			"queue without provider config",
			"sinks:\n  - id: x\n    type: queue\n    queue:\n      provider: aws-sqs\n",
			"sqs.queue_url",
		},
		{
			"duplicate ids",
			"sinks:\n  - id: x\n    type: webhook\n    webhook:\n      url: https://a.com\n  - id: x\n    type: webhook\n    webhook:\n      url: https://b.com\n",
			"duplicate sink id",
		},
		{
			"empty file",
			"sinks: []\n",
			"no sinks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "sinks.yaml", tt.content)
			_, err := LoadConfigs(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestEventFrom(t *testing.T) {
	published := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	a := domain.Article{
		ID:          "abc-123",
		Title:       "Cloud provider cuts storage prices",
		Summary:     "A price war begins.",
		URL:         "https://example.com/prices",
		Source:      domain.Source{Name: "Example Wire"},
		Category:    domain.CategoryCloud,
		Priority:    domain.PriorityHigh,
		Tags:        []string{"cloud"},
		Sentiment:   0.5,
		PublishedAt: published,
	}

	evt := EventFrom(a)
	if evt.ID != a.ID || evt.Title != a.Title || evt.URL != a.URL {
		t.Errorf("event = %+v", evt)
	}
	if evt.Source != "Example Wire" {
		t.Errorf("source = %q", evt.Source)
	}
	if evt.Category != "cloud" || evt.Priority != "high" {
		t.Errorf("category/priority = %q/%q", evt.Category, evt.Priority)
	}
	if !evt.PublishedAt.Equal(published) {
		t.Errorf("published_at = %v", evt.PublishedAt)
	}
}

func TestRegistryUnknownType(t *testing.T) {
	reg := DefaultRegistry()
	_, err := reg.PublisherFor(context.Background(), SinkConfig{ID: "x", Type: "smoke-signal"}, nil)
	if err == nil {
		t.Fatal("expected an error for an unregistered type")
	}
}

func TestBuildAllWebhook(t *testing.T) {
	reg := DefaultRegistry()
	cfgs := []SinkConfig{{
		ID:      "hook",
		Type:    TypeWebhook,
		Webhook: &WebhookConfig{URL: "https://hooks.example.com/articles", TimeoutSeconds: 5},
	}}

	pubs, err := BuildAll(context.Background(), reg, cfgs, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 {
		t.Fatalf("got %d publishers", len(pubs))
	}
	if pubs[0].ID() != "hook" || pubs[0].Type() != TypeWebhook {
		t.Errorf("publisher = %s/%s", pubs[0].ID(), pubs[0].Type())
	}
}
