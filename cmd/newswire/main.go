// Command newswire runs the news ingestion daemon: it polls the configured
// feeds and the headline API, deduplicates the combined stream, persists new
// articles and fans them out to the configured sinks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/techpulse/newswire/internal/config"
	"github.com/techpulse/newswire/internal/enrich"
	"github.com/techpulse/newswire/internal/ingest"
	"github.com/techpulse/newswire/internal/logger"
	"github.com/techpulse/newswire/internal/store"
	"github.com/techpulse/newswire/pkg/httpclient"
	"github.com/techpulse/newswire/pkg/newsapi"
	"github.com/techpulse/newswire/pkg/publishers"
	"github.com/techpulse/newswire/pkg/sources"

	"github.com/techpulse/newswire/internal/domain"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "newswire: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := sources.DefaultRegistry()
	if cfg.SourcesFile != "" {
		reg, err = sources.LoadRegistry(cfg.SourcesFile)
		if err != nil {
			return fmt.Errorf("load sources: %w", err)
		}
	}

	client := httpclient.NewRestyClient(cfg.RequestTimeout)
	fetcher := ingest.NewFetcher(client, log)
	api := newsapi.New(cfg.APIKey, cfg.APIBaseURL, client)

	opts := []ingest.ServiceOption{}

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	opts = append(opts, ingest.WithStore(st))

	if cfg.SinksFile != "" {
		sinkCfgs, err := publishers.LoadConfigs(cfg.SinksFile)
		if err != nil {
			return fmt.Errorf("load sinks: %w", err)
		}
		pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), sinkCfgs, log)
		if err != nil {
			return fmt.Errorf("build publishers: %w", err)
		}
		opts = append(opts, ingest.WithPublishers(pubs))
	}

	if cfg.EnrichPages {
		opts = append(opts, ingest.WithEnricher(enrich.New(client, log, cfg.EnrichWorkers, 0)))
	}

	svc := ingest.NewService(reg, fetcher, api, log, opts...)
	categories := parseCategories(cfg.Categories)

	runRound := func() {
		if _, err := svc.Run(ctx, categories); err != nil {
			log.ErrorObj("ingestion round failed", "round_error", map[string]any{
				"error": err.Error(),
			})
		}
		if cfg.RetainDays > 0 {
			cutoff := time.Now().AddDate(0, 0, -cfg.RetainDays)
			if removed, err := st.PruneOlderThan(cutoff); err == nil && removed > 0 {
				log.InfoObj("pruned stored articles", "store_prune", map[string]any{
					"removed": removed,
				})
			}
		}
	}

	runRound()
	if cfg.RunOnce {
		return nil
	}

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.InfoObj("shutting down", "shutdown", nil)
			return nil
		case <-ticker.C:
			runRound()
		}
	}
}

func parseCategories(raw []string) []domain.Category {
	out := make([]domain.Category, 0, len(raw))
	for _, r := range raw {
		out = append(out, domain.Category(r))
	}
	return out
}
