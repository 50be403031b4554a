package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	"github.com/techpulse/newswire/internal/logger"
)

type pubSubSender struct {
	topic *pubsub.Topic
	log   logger.Logger
}

// newPubSubSender builds a Pub/Sub sender for the configured topic.
func newPubSubSender(ctx context.Context, cfg *GCPConfig, log logger.Logger) (queueSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("gcp queue configuration is missing")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &pubSubSender{
		topic: client.Topic(cfg.Topic),
		log:   logger.Ensure(log),
	}, nil
}

// Send publishes the article event to the configured topic.
func (s *pubSubSender) Send(ctx context.Context, evt ArticleEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal article event: %w", err)
	}

	res := s.topic.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"category": evt.Category,
			"priority": evt.Priority,
		},
	})

	msgID, err := res.Get(ctx)
	if err != nil {
		s.log.ErrorObj("pubsub publish failed", "publisher_pubsub_error", map[string]any{
			"article_id": evt.ID,
			"error":      err.Error(),
		})
		return fmt.Errorf("publish to pubsub: %w", err)
	}

	s.log.DebugObj("pubsub delivered article event", "publisher_pubsub_delivery", map[string]any{
		"article_id": evt.ID,
		"message_id": msgID,
	})
	return nil
}
