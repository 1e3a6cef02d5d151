package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/CatGalleryCrawler/internal/domain"
	"github.com/CatGalleryCrawler/internal/infra/metrics"
	"github.com/CatGalleryCrawler/pkg/pager"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type CatCrawlerService struct {
	repo            domain.Repository
	providers       []domain.Provider
	eventProducer   domain.EventProducer
	window          *PageWindow
	interval        time.Duration
	workerCount     int
	jobs            chan job
	wg              sync.WaitGroup // Service-wide WaitGroup for graceful shutdown
	activeProviders sync.Map       // Track active provider processing
}

type job struct {
	provider domain.Provider
}

func NewCatCrawlerService(
	repo domain.Repository,
	providers []domain.Provider,
	eventProducer domain.EventProducer,
	window *PageWindow,
	interval time.Duration,
	workerCount int,
) *CatCrawlerService {
	return &CatCrawlerService{
		repo:          repo,
		providers:     providers,
		eventProducer: eventProducer,
		window:        window,
		interval:      interval,
		workerCount:   workerCount,
		jobs:          make(chan job, workerCount*2), // Buffer to avoid blocking providers immediately
	}
}

func (s *CatCrawlerService) Start(ctx context.Context) {
	slog.Info("Starting cat crawler service", "interval", s.interval, "workers", s.workerCount)

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	// Providers waitgroup tracks PROVIDER goroutines
	var providersWg sync.WaitGroup
	for _, provider := range s.providers {
		slog.Info("Starting provider loop", "provider", provider.GetName())
		providersWg.Add(1)
		go s.runProviderLoop(ctx, provider, &providersWg)
	}

	<-ctx.Done()
	slog.Info("Context cancelled, stopping cat crawler service...")

	providersWg.Wait()
	slog.Info("All providers stopped")

	close(s.jobs)

	s.wg.Wait()
	slog.Info("All workers stopped")
}

func (s *CatCrawlerService) runProviderLoop(ctx context.Context, p domain.Provider, wg *sync.WaitGroup) {
	defer wg.Done()

	// Initial fetch
	select {
	case s.jobs <- job{provider: p}:
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case s.jobs <- job{provider: p}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *CatCrawlerService) worker(ctx context.Context, id int) {
	defer s.wg.Done()
	slog.Info("Worker started", "worker_id", id)

	// Range over channel handles closing correctly: exits loop when closed and empty
	for j := range s.jobs {
		// Prevent concurrent processing of the same provider
		name := j.provider.GetName()
		if _, loaded := s.activeProviders.LoadOrStore(name, true); loaded {
			slog.Warn("Skipping concurrent run", "provider", name, "worker_id", id)
			continue
		}

		metrics.WorkerActiveCount.Inc()
		func() {
			defer s.activeProviders.Delete(name)
			s.processProvider(ctx, j.provider)
		}()
		metrics.WorkerActiveCount.Dec()
	}
	slog.Info("Worker stopped", "worker_id", id)
}

func (s *CatCrawlerService) processProvider(ctx context.Context, provider domain.Provider) {
	tr := otel.Tracer("cat-crawler")
	ctx, span := tr.Start(ctx, "processProvider")
	defer span.End()

	span.SetAttributes(attribute.String("provider", provider.GetName()))

	// Every cycle invalidates the loaded window and resumes near the last
	// anchor rather than always restarting at the first page.
	start := s.window.Invalidate()
	if start != nil {
		slog.Debug("Resuming crawl near anchor", "provider", provider.GetName(), "page", *start)
	} else {
		slog.Debug("Starting crawl from first page", "provider", provider.GetName())
	}

	handler := func(key pager.Key, cats []domain.CatImage) error {
		return s.processPage(ctx, provider, key, cats)
	}

	if err := provider.Crawl(ctx, start, handler); err != nil {
		span.RecordError(err)
		slog.Error("Crawl failed", "provider", provider.GetName(), "error", err)
		metrics.CatsIngested.WithLabelValues(provider.GetName(), "error_crawl").Inc()
	}
}

func (s *CatCrawlerService) processPage(ctx context.Context, provider domain.Provider, key pager.Key, cats []domain.CatImage) error {
	start := time.Now()

	// Dedup within the page
	uniqueCats := make([]domain.CatImage, 0, len(cats))
	seenIDs := make(map[string]bool)
	for _, c := range cats {
		if !seenIDs[c.ID] {
			seenIDs[c.ID] = true
			uniqueCats = append(uniqueCats, c)
		}
	}
	cats = uniqueCats

	if len(cats) == 0 {
		return nil
	}

	// 1. Fetch stored hashes
	ids := make([]string, len(cats))
	for i := range cats {
		ids[i] = cats[i].ID
	}

	existingHashes, err := s.repo.GetContentHashes(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch hashes: %w", err)
	}

	// 2. Identify changed items
	var changedCats []domain.CatImage
	skippedCount := 0
	for _, cat := range cats {
		oldHash, exists := existingHashes[cat.ID]
		switch {
		case !exists:
			slog.Info("Cat new", "provider", provider.GetName(), "id", cat.ID)
			changedCats = append(changedCats, cat)
		case oldHash != cat.ContentHash:
			slog.Info("Cat changed", "provider", provider.GetName(), "id", cat.ID)
			changedCats = append(changedCats, cat)
		default:
			skippedCount++
		}
	}

	if skippedCount > 0 {
		metrics.CatsDuplicatesSkipped.WithLabelValues(provider.GetName()).Add(float64(skippedCount))
	}

	metrics.ProviderFetchDuration.WithLabelValues(provider.GetName()).Observe(time.Since(start).Seconds())
	metrics.CatsIngested.WithLabelValues(provider.GetName(), "success").Add(float64(len(cats)))
	// Initialize published metrics so they appear in dashboards even at 0
	metrics.CatsPublished.WithLabelValues(provider.GetName()).Add(0)
	metrics.PublishErrors.WithLabelValues(provider.GetName()).Add(0)

	// 3. Bulk upsert
	if err := s.repo.BulkUpsert(ctx, cats); err != nil {
		return fmt.Errorf("bulk upsert failed: %w", err)
	}

	// 4. Materialize the page in the window
	s.window.Put(key, pager.BuildResult(key, cats))

	// 5. Publish changed
	if len(changedCats) > 0 {
		slog.Info("Publishing changed cats", "count", len(changedCats), "provider", provider.GetName())

		pubStart := time.Now()
		err := s.eventProducer.PublishBatch(ctx, changedCats)
		metrics.PublishDuration.WithLabelValues(provider.GetName()).Observe(time.Since(pubStart).Seconds())

		if err != nil {
			slog.Error("Error publishing cat batch", "count", len(changedCats), "error", err)
			metrics.PublishErrors.WithLabelValues(provider.GetName()).Inc()
			// Continue even if publish fails, data is in DB
		} else {
			metrics.CatsPublished.WithLabelValues(provider.GetName()).Add(float64(len(changedCats)))
		}
	}

	return nil
}
