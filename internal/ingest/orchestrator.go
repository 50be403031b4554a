package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/techpulse/newswire/internal/domain"
	"github.com/techpulse/newswire/internal/logger"
	"github.com/techpulse/newswire/pkg/feed"
	"github.com/techpulse/newswire/pkg/newsapi"
	"github.com/techpulse/newswire/pkg/sources"
)

// Orchestrator fans out one concurrent task per configured RSS source plus,
// per requested category, a top-headlines and a search task against the JSON
// API. Tasks never communicate; a failed task contributes zero items.
type Orchestrator struct {
	registry   *sources.Registry
	fetcher    *Fetcher
	api        *newsapi.Client
	normalizer *Normalizer
	log        logger.Logger
}

// NewOrchestrator wires the orchestrator. The api client may be nil or
// unconfigured, in which case only RSS sources are polled.
func NewOrchestrator(reg *sources.Registry, fetcher *Fetcher, api *newsapi.Client, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		registry:   reg,
		fetcher:    fetcher,
		api:        api,
		normalizer: NewNormalizer(),
		log:        logger.Ensure(log),
	}
}

// taskResult is one task's contribution, collected in completion order.
type taskResult struct {
	name     string
	articles []domain.Article
	err      error
}

// FetchAll runs the full fan-out for the requested categories and returns
// the combined unordered article list with per-source diagnostics. A single
// task's failure never aborts its siblings or the round.
func (o *Orchestrator) FetchAll(ctx context.Context, categories []domain.Category) ([]domain.Article, domain.RunStats) {
	if len(categories) == 0 {
		categories = domain.AllCategories()
	}

	srcs := o.registry.All()
	apiTasks := 0
	if o.api.Configured() {
		apiTasks = len(categories) * 2
	}

	results := make(chan taskResult, len(srcs)+apiTasks)
	var wg sync.WaitGroup

	for _, src := range srcs {
		wg.Add(1)
		go func(src domain.Source) {
			defer wg.Done()
			results <- o.runTask(src.Name, func() ([]domain.Article, error) {
				return o.fetchSource(ctx, src)
			})
		}(src)
	}

	if apiTasks > 0 {
		for _, cat := range categories {
			wg.Add(2)
			go func(cat domain.Category) {
				defer wg.Done()
				results <- o.runTask(fmt.Sprintf("api-headlines-%s", cat), func() ([]domain.Article, error) {
					return o.fetchAPI(ctx, cat, o.api.TopHeadlines)
				})
			}(cat)
			go func(cat domain.Category) {
				defer wg.Done()
				results <- o.runTask(fmt.Sprintf("api-search-%s", cat), func() ([]domain.Article, error) {
					return o.fetchAPI(ctx, cat, o.api.Search)
				})
			}(cat)
		}
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	stats := domain.RunStats{BySource: make(map[string]domain.SourceStats)}
	var all []domain.Article
	for res := range results {
		st := domain.SourceStats{Fetched: len(res.articles)}
		if res.err != nil {
			st.Err = res.err.Error()
			o.log.WarnObj("source contributed nothing this round", "source_failed", map[string]any{
				"source": res.name,
				"error":  res.err.Error(),
			})
		}
		stats.BySource[res.name] = st
		all = append(all, res.articles...)
	}
	stats.TotalFetched = len(all)

	o.log.InfoObj("fan-out complete", "fetch_round", map[string]any{
		"sources":  len(srcs),
		"api":      apiTasks,
		"articles": len(all),
		"failures": stats.Failures(),
	})

	return all, stats
}

// runTask isolates one task: its error (or panic) is converted into an empty
// contribution instead of propagating.
func (o *Orchestrator) runTask(name string, fn func() ([]domain.Article, error)) (res taskResult) {
	res.name = name
	defer func() {
		if r := recover(); r != nil {
			res.articles = nil
			res.err = fmt.Errorf("task panicked: %v", r)
		}
	}()

	res.articles, res.err = fn()
	return res
}

// fetchSource runs the fetch → parse → normalize pipeline for one RSS/Atom
// source.
func (o *Orchestrator) fetchSource(ctx context.Context, src domain.Source) ([]domain.Article, error) {
	raw, err := o.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}

	items, err := feed.Parse(raw, feed.FormatRSS)
	if err != nil {
		return nil, err
	}

	return o.normalizeAll(items, src, ""), nil
}

// fetchAPI runs one headline-API query and normalizes its entries under a
// synthetic source carrying the API's fixed reliability weight.
func (o *Orchestrator) fetchAPI(ctx context.Context, cat domain.Category, query func(context.Context, domain.Category) ([]byte, error)) ([]domain.Article, error) {
	raw, err := query(ctx, cat)
	if err != nil {
		return nil, err
	}

	items, err := feed.Parse(raw, feed.FormatNewsAPI)
	if err != nil {
		return nil, err
	}

	src := domain.Source{
		Name:        "NewsAPI",
		Endpoint:    "https://newsapi.org",
		Category:    cat,
		Reliability: 0.85,
	}
	return o.normalizeAll(items, src, cat), nil
}

func (o *Orchestrator) normalizeAll(items []domain.RawFeedItem, src domain.Source, hint domain.Category) []domain.Article {
	articles := make([]domain.Article, 0, len(items))
	dropped := 0
	for _, item := range items {
		article, ok := o.normalizer.Normalize(item, src, hint)
		if !ok {
			dropped++
			continue
		}
		articles = append(articles, article)
	}
	if dropped > 0 {
		o.log.DebugObj("items rejected during normalization", "normalize_dropped", map[string]any{
			"source":  src.Name,
			"dropped": dropped,
			"kept":    len(articles),
		})
	}
	return articles
}
