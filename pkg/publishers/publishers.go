// Package publishers fans freshly ingested articles out to downstream
// sinks: cloud queues (AWS SQS/SNS, GCP Pub/Sub) and generic HTTP webhooks.
// Sinks are declared in a YAML/JSON config file and built through a
// type-keyed registry.
package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/techpulse/newswire/internal/domain"
)

const (
	// Supported sink types.
	TypeQueue   = "queue"
	TypeWebhook = "webhook"

	// Supported queue providers.
	ProviderAWSSQS = "aws-sqs"
	ProviderAWSSNS = "aws-sns"
	ProviderGCP    = "gcp"
)

// ArticleEvent is the wire payload published per newly accepted article.
type ArticleEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Tags        []string  `json:"tags,omitempty"`
	Sentiment   float64   `json:"sentiment"`
	PublishedAt time.Time `json:"published_at"`
}

// EventFrom projects a domain article into its published form.
func EventFrom(a domain.Article) ArticleEvent {
	return ArticleEvent{
		ID:          a.ID,
		Title:       a.Title,
		Summary:     a.Summary,
		URL:         a.URL,
		Source:      a.Source.Name,
		Category:    string(a.Category),
		Priority:    string(a.Priority),
		Tags:        a.Tags,
		Sentiment:   a.Sentiment,
		PublishedAt: a.PublishedAt,
	}
}

// Publisher delivers article events to one configured sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt ArticleEvent) error
}

// configFile represents the structure of the sinks configuration file.
type configFile struct {
	Sinks []SinkConfig `json:"sinks" yaml:"sinks"`
}

// SinkConfig is a single sink entry declared in config files.
type SinkConfig struct {
	ID      string         `json:"id" yaml:"id"`
	Type    string         `json:"type" yaml:"type"`
	Enabled *bool          `json:"enabled" yaml:"enabled"`
	Queue   *QueueConfig   `json:"queue" yaml:"queue"`
	Webhook *WebhookConfig `json:"webhook" yaml:"webhook"`
}

// QueueConfig selects a cloud queue provider.
type QueueConfig struct {
	Provider string     `json:"provider" yaml:"provider"`
	SQS      *SQSConfig `json:"sqs" yaml:"sqs"`
	SNS      *SNSConfig `json:"sns" yaml:"sns"`
	GCP      *GCPConfig `json:"gcp" yaml:"gcp"`
}

// SQSConfig holds AWS SQS settings.
type SQSConfig struct {
	QueueURL        string `json:"queue_url" yaml:"queue_url"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// SNSConfig holds AWS SNS settings.
type SNSConfig struct {
	TopicARN        string `json:"topic_arn" yaml:"topic_arn"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// GCPConfig holds Pub/Sub topic settings.
type GCPConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// WebhookConfig holds generic HTTP sink settings.
type WebhookConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// LoadConfigs loads sink definitions from a YAML or JSON file, expanding
// environment references, and returns the enabled entries.
func LoadConfigs(path string) ([]SinkConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sinks file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sinks file: %w", err)
	}
	expanded := []byte(os.ExpandEnv(string(raw)))

	cfg, err := parseSinksFile(expanded, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(cfg.Sinks) == 0 {
		return nil, errors.New("sinks file contains no sinks entries")
	}

	seen := make(map[string]struct{}, len(cfg.Sinks))
	out := make([]SinkConfig, 0, len(cfg.Sinks))
	for i := range cfg.Sinks {
		sc := sanitizeSinkConfig(cfg.Sinks[i])
		if err := validateSinkConfig(sc); err != nil {
			return nil, fmt.Errorf("sinks[%d]: %w", i, err)
		}
		if _, dup := seen[sc.ID]; dup {
			return nil, fmt.Errorf("duplicate sink id %q", sc.ID)
		}
		seen[sc.ID] = struct{}{}
		if sc.Enabled == nil || *sc.Enabled {
			out = append(out, sc)
		}
	}
	return out, nil
}

func parseSinksFile(data []byte, ext string) (configFile, error) {
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
	return configFile{}, errors.New("sinks file format not recognized (expected YAML or JSON)")
}

func sanitizeSinkConfig(sc SinkConfig) SinkConfig {
	sc.ID = strings.TrimSpace(sc.ID)
	sc.Type = strings.ToLower(strings.TrimSpace(sc.Type))
	if sc.Queue != nil {
		sc.Queue.Provider = strings.ToLower(strings.TrimSpace(sc.Queue.Provider))
	}
	if sc.Webhook != nil {
		sc.Webhook.URL = strings.TrimSpace(sc.Webhook.URL)
		if sc.Webhook.TimeoutSeconds <= 0 {
			sc.Webhook.TimeoutSeconds = 5
		}
	}
	return sc
}

func validateSinkConfig(sc SinkConfig) error {
	if sc.ID == "" {
		return errors.New("id is required")
	}
	switch sc.Type {
	case TypeQueue:
		if sc.Queue == nil {
			return fmt.Errorf("queue config required for sink %q", sc.ID)
		}
		switch sc.Queue.Provider {
		case ProviderAWSSQS:
			if sc.Queue.SQS == nil || sc.Queue.SQS.QueueURL == "" || sc.Queue.SQS.Region == "" {
				return fmt.Errorf("sqs.queue_url and sqs.region are required for sink %q", sc.ID)
			}
		case ProviderAWSSNS:
			if sc.Queue.SNS == nil || sc.Queue.SNS.TopicARN == "" || sc.Queue.SNS.Region == "" {
				return fmt.Errorf("sns.topic_arn and sns.region are required for sink %q", sc.ID)
			}
		case ProviderGCP:
			if sc.Queue.GCP == nil || sc.Queue.GCP.ProjectID == "" || sc.Queue.GCP.Topic == "" {
				return fmt.Errorf("gcp.project_id and gcp.topic are required for sink %q", sc.ID)
			}
		default:
			return fmt.Errorf("queue provider %q not supported for sink %q", sc.Queue.Provider, sc.ID)
		}
	case TypeWebhook:
		if sc.Webhook == nil || sc.Webhook.URL == "" {
			return fmt.Errorf("webhook.url is required for sink %q", sc.ID)
		}
	default:
		return fmt.Errorf("type %q not supported for sink %q", sc.Type, sc.ID)
	}
	return nil
}
