// Package enrich backfills article metadata (lead image, description) by
// scraping Open Graph tags from the article page. Enrichment is best-effort:
// a failed scrape leaves the article exactly as it was.
package enrich

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/techpulse/newswire/internal/domain"
	"github.com/techpulse/newswire/internal/logger"
	"github.com/techpulse/newswire/pkg/httpclient"
)

const (
	maxBodyBytes      = 1 << 20 // 1 MiB
	defaultMaxWorkers = 8
)

// Enricher scrapes article pages for the metadata feeds often omit.
type Enricher struct {
	client  httpclient.Client
	log     logger.Logger
	workers int
	delay   time.Duration
}

// New builds an Enricher. delay, when positive, rate-limits page fetches
// across all workers.
func New(client httpclient.Client, log logger.Logger, workers int, delay time.Duration) *Enricher {
	if client == nil {
		client = httpclient.NewRestyClient(30 * time.Second)
	}
	if workers <= 0 {
		workers = defaultMaxWorkers
	}
	return &Enricher{
		client:  client,
		log:     logger.Ensure(log),
		workers: workers,
		delay:   delay,
	}
}

// Enrich fills missing image URLs and thin summaries by scraping the article
// pages. Articles that already carry both are returned untouched, as is
// anything whose page cannot be fetched or parsed.
func (e *Enricher) Enrich(ctx context.Context, articles []domain.Article) []domain.Article {
	out := make([]domain.Article, len(articles))
	copy(out, articles)

	var todo []int
	for i, a := range articles {
		if a.ImageURL == "" || a.Summary == a.Title {
			todo = append(todo, i)
		}
	}
	if len(todo) == 0 {
		return out
	}

	var limiter <-chan time.Time
	if e.delay > 0 {
		ticker := time.NewTicker(e.delay)
		defer ticker.Stop()
		limiter = ticker.C
	}

	workerCount := min(len(todo), e.workers)
	jobs := make(chan int)
	var wg sync.WaitGroup

	for range workerCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					return
				}
				if limiter != nil {
					select {
					case <-ctx.Done():
						return
					case <-limiter:
					}
				}
				if enriched, err := e.scrapePage(ctx, out[idx]); err != nil {
					e.log.DebugObj("page scrape failed", "enrich_error", map[string]any{
						"url":   out[idx].URL,
						"error": err.Error(),
					})
				} else {
					out[idx] = enriched
				}
			}
		}()
	}

	for _, idx := range todo {
		if ctx.Err() != nil {
			break
		}
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return out
}

// scrapePage fetches the article page and merges any discovered metadata
// into a copy of the article.
func (e *Enricher) scrapePage(ctx context.Context, a domain.Article) (domain.Article, error) {
	resp, err := e.client.Get(ctx, a.URL, nil)
	if err != nil {
		return a, fmt.Errorf("fetch page: %w", err)
	}
	if resp.StatusCode() != 200 {
		return a, fmt.Errorf("page status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) > maxBodyBytes {
		body = body[:maxBodyBytes]
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return a, fmt.Errorf("parse page: %w", err)
	}

	meta := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	if a.ImageURL == "" {
		if img := meta(`meta[property="og:image"]`); img != "" {
			a.ImageURL = absoluteURL(img, a.URL)
		}
	}
	if a.Summary == a.Title {
		desc := meta(`meta[property="og:description"]`)
		if desc == "" {
			desc = meta(`meta[name="description"]`)
		}
		if desc != "" {
			a.Summary = boundSummary(desc)
		}
	}

	return a, nil
}

// boundSummary keeps scraped descriptions within the same budget the
// normalizer applies to feed summaries.
func boundSummary(s string) string {
	const maxRunes = 150
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	cut := string(runes[:maxRunes])
	if idx := strings.LastIndexAny(cut, " \t"); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "…"
}

// absoluteURL resolves a possibly relative URL against the article page.
func absoluteURL(raw, base string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.IsAbs() {
		return parsed.String()
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return raw
	}
	return baseURL.ResolveReference(parsed).String()
}
