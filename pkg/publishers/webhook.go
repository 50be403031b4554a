package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/techpulse/newswire/internal/logger"
	"github.com/techpulse/newswire/pkg/httpclient"
)

// webhookPublisher POSTs article events as JSON to an arbitrary HTTP sink.
type webhookPublisher struct {
	id      string
	url     string
	headers map[string]string
	client  httpclient.Client
	log     logger.Logger
}

func newWebhookPublisher(_ context.Context, cfg SinkConfig, log logger.Logger) (Publisher, error) {
	if cfg.Webhook == nil {
		return nil, fmt.Errorf("sink %q missing webhook configuration", cfg.ID)
	}

	return &webhookPublisher{
		id:      cfg.ID,
		url:     cfg.Webhook.URL,
		headers: cfg.Webhook.Headers,
		client:  httpclient.NewRestyClient(time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second),
		log:     logger.Ensure(log),
	}, nil
}

func (p *webhookPublisher) ID() string   { return p.id }
func (p *webhookPublisher) Type() string { return TypeWebhook }

// Publish delivers the event. Any 2xx response counts as accepted.
func (p *webhookPublisher) Publish(ctx context.Context, evt ArticleEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal article event: %w", err)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range p.headers {
		headers[k] = v
	}

	resp, err := p.client.Post(ctx, p.url, headers, payload)
	if err != nil {
		return fmt.Errorf("post to webhook %s: %w", p.id, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return fmt.Errorf("webhook %s returned status %d", p.id, resp.StatusCode())
	}

	p.log.DebugObj("webhook delivered article event", "publisher_webhook_delivery", map[string]any{
		"article_id": evt.ID,
		"sink":       p.id,
	})
	return nil
}
