package publishers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/techpulse/newswire/internal/logger"
)

// Builder creates a Publisher from a sink config entry.
type Builder func(ctx context.Context, cfg SinkConfig, log logger.Logger) (Publisher, error)

// Registry maps sink types to builders.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// DefaultRegistry wires up the known sink types.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TypeQueue, newQueuePublisher)
	r.Register(TypeWebhook, newWebhookPublisher)
	return r
}

// Register associates a builder with a sink type.
func (r *Registry) Register(typ string, builder Builder) {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ == "" || builder == nil {
		return
	}
	r.mu.Lock()
	r.builders[typ] = builder
	r.mu.Unlock()
}

// PublisherFor builds the publisher for one sink config.
func (r *Registry) PublisherFor(ctx context.Context, cfg SinkConfig, log logger.Logger) (Publisher, error) {
	r.mu.RLock()
	builder := r.builders[cfg.Type]
	r.mu.RUnlock()

	if builder == nil {
		return nil, fmt.Errorf("no publisher registered for type %q", cfg.Type)
	}
	return builder(ctx, cfg, logger.Ensure(log))
}

// BuildAll instantiates publishers for every config entry.
func BuildAll(ctx context.Context, reg *Registry, cfgs []SinkConfig, log logger.Logger) ([]Publisher, error) {
	if reg == nil || len(cfgs) == 0 {
		return nil, nil
	}

	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		pub, err := reg.PublisherFor(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}
