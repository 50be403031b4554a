package ingest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/techpulse/newswire/internal/domain"
	"github.com/techpulse/newswire/internal/logger"
	"github.com/techpulse/newswire/pkg/httpclient"
)

const maxCacheTTL = 15 * time.Minute

// FetchError is the typed failure for one source's fetch. StatusCode is zero
// for transport-level failures. It is always isolated to its source.
type FetchError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher performs one HTTP request per source. No retries: a failed source
// contributes zero items to the round.
type Fetcher struct {
	client httpclient.Client
	cache  *responseCache
	log    logger.Logger
}

// NewFetcher builds a Fetcher with the given HTTP client.
func NewFetcher(client httpclient.Client, log logger.Logger) *Fetcher {
	if client == nil {
		client = httpclient.NewRestyClient(30 * time.Second)
	}
	return &Fetcher{
		client: client,
		cache:  newResponseCache(),
		log:    logger.Ensure(log),
	}
}

// Fetch returns the raw payload for the source's endpoint, serving from the
// short-lived response cache when a fresh copy exists. Success requires an
// HTTP 200; anything else yields a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, src domain.Source) ([]byte, error) {
	if body, ok := f.cache.Get(src.Endpoint); ok {
		f.log.DebugObj("serving feed from cache", "fetch_cache_hit", map[string]any{
			"source": src.Name,
		})
		return body, nil
	}

	resp, err := f.client.Get(ctx, src.Endpoint, nil)
	if err != nil {
		return nil, &FetchError{Source: src.Name, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &FetchError{Source: src.Name, StatusCode: resp.StatusCode()}
	}

	body := resp.Body()
	f.cache.Set(src.Endpoint, body, cacheTTL(src))
	return body, nil
}

// cacheTTL bounds the cache lifetime by the source poll interval so a cached
// payload can never outlive one polling cycle.
func cacheTTL(src domain.Source) time.Duration {
	ttl := src.PollInterval
	if ttl <= 0 || ttl > maxCacheTTL {
		ttl = maxCacheTTL
	}
	return ttl
}
