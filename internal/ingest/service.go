package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/techpulse/newswire/internal/dedup"
	"github.com/techpulse/newswire/internal/domain"
	"github.com/techpulse/newswire/internal/enrich"
	"github.com/techpulse/newswire/internal/logger"
	"github.com/techpulse/newswire/internal/store"
	"github.com/techpulse/newswire/pkg/newsapi"
	"github.com/techpulse/newswire/pkg/publishers"
	"github.com/techpulse/newswire/pkg/sources"
)

// ErrNoSources is returned when the registry is empty: there is nothing to
// ingest and the condition is a configuration mistake, not a transient
// failure.
var ErrNoSources = errors.New("no sources configured")

// Result is one ingestion round's outcome. Articles may legitimately be
// empty while Stats still records what happened, so "no articles" and
// "everything failed" remain independently observable.
type Result struct {
	Articles []domain.Article
	Stats    domain.RunStats
}

// Service is the single public entry point of the pipeline: fan-out fetch,
// deduplicate, sort by recency, then hand off to the optional store and
// publishers.
type Service struct {
	orch     *Orchestrator
	enricher *enrich.Enricher
	store    *store.Store
	pubs     []publishers.Publisher
	log      logger.Logger
}

// ServiceOption customizes optional collaborators.
type ServiceOption func(*Service)

// WithStore attaches a persistent article store; new-versus-known splits are
// recorded in the run stats.
func WithStore(st *store.Store) ServiceOption {
	return func(s *Service) { s.store = st }
}

// WithPublishers attaches downstream sinks that receive one event per newly
// accepted article.
func WithPublishers(pubs []publishers.Publisher) ServiceOption {
	return func(s *Service) { s.pubs = pubs }
}

// WithEnricher attaches best-effort page metadata enrichment.
func WithEnricher(e *enrich.Enricher) ServiceOption {
	return func(s *Service) { s.enricher = e }
}

// NewService wires the ingestion facade.
func NewService(reg *sources.Registry, fetcher *Fetcher, api *newsapi.Client, log logger.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		orch: NewOrchestrator(reg, fetcher, api, log),
		log:  logger.Ensure(log),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one ingestion round for the requested categories (all known
// categories when empty). Per-source failures are absorbed into the stats;
// the only hard error is having no sources configured at all.
func (s *Service) Run(ctx context.Context, categories []domain.Category) (Result, error) {
	started := time.Now()

	if s.orch.registry.Len() == 0 {
		return Result{}, ErrNoSources
	}

	raw, stats := s.orch.FetchAll(ctx, categories)
	stats.StartedAt = started

	articles := dedup.Deduplicate(raw)
	stats.TotalAfterDedup = len(articles)
	stats.DuplicatesRemoved = stats.TotalFetched - len(articles)

	if s.enricher != nil {
		articles = s.enricher.Enrich(ctx, articles)
	}

	if s.store != nil {
		fresh, known, err := s.store.Reconcile(articles)
		if err != nil {
			s.log.ErrorObj("store reconcile failed", "store_error", map[string]any{
				"error": err.Error(),
			})
		} else {
			stats.NewArticles = len(fresh)
			stats.KnownArticles = known
			s.publish(ctx, fresh)
		}
	} else {
		stats.NewArticles = len(articles)
		s.publish(ctx, articles)
	}

	stats.Duration = time.Since(started)
	s.log.InfoObj("ingestion round finished", "ingest_done", map[string]any{
		"fetched":    stats.TotalFetched,
		"accepted":   stats.TotalAfterDedup,
		"duplicates": stats.DuplicatesRemoved,
		"new":        stats.NewArticles,
		"known":      stats.KnownArticles,
		"failures":   stats.Failures(),
		"duration":   stats.Duration.String(),
	})

	return Result{Articles: articles, Stats: stats}, nil
}

// publish sends one event per article to every sink. Delivery failures are
// logged and skipped; publishing is downstream of correctness.
func (s *Service) publish(ctx context.Context, articles []domain.Article) {
	if len(s.pubs) == 0 || len(articles) == 0 {
		return
	}

	for _, a := range articles {
		evt := publishers.EventFrom(a)
		for _, pub := range s.pubs {
			if err := pub.Publish(ctx, evt); err != nil {
				s.log.WarnObj("article event delivery failed", "publish_error", map[string]any{
					"sink":       pub.ID(),
					"article_id": evt.ID,
					"error":      err.Error(),
				})
			}
		}
	}
}
