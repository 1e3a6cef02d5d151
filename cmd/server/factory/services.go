package factory

import (
	"errors"
	"fmt"

	"github.com/CatGalleryCrawler/internal/app"
	"github.com/CatGalleryCrawler/internal/domain"
	"github.com/CatGalleryCrawler/internal/infra/gateway"
	"github.com/CatGalleryCrawler/internal/infra/queue"
	"github.com/CatGalleryCrawler/internal/infra/repository"
	transport "github.com/CatGalleryCrawler/internal/transport/http"
	"github.com/CatGalleryCrawler/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
)

// NewMongoRepository creates a MongoDB repository.
func NewMongoRepository(client *mongo.Client, cfg *config.Config) (domain.Repository, error) {
	if cfg.MongoDBName == "" {
		return nil, errors.New("mongo database name not configured")
	}
	if cfg.MongoColl == "" {
		return nil, errors.New("mongo collection name not configured")
	}
	return repository.NewMongoRepository(client, cfg.MongoDBName, cfg.MongoColl)
}

// NewImageWarmer creates the downstream image warmer gateway.
func NewImageWarmer() (domain.ImageWarmer, error) {
	return gateway.NewHTTPImageWarmer(), nil
}

// NewEventProducer wraps the Kafka producer as an EventProducer.
func NewEventProducer(p *queue.KafkaProducer) (domain.EventProducer, error) {
	if p == nil {
		return nil, errors.New("kafka producer is nil")
	}
	return p, nil
}

// NewPageWindow creates the in-memory window of loaded pages.
func NewPageWindow(cfg *config.Config) (*app.PageWindow, error) {
	if cfg.WindowMaxPages <= 0 || cfg.WindowMaxPages > 1000 {
		return nil, fmt.Errorf("invalid window size: %d (must be 1-1000)", cfg.WindowMaxPages)
	}
	return app.NewPageWindow(cfg.WindowMaxPages), nil
}

// NewCatCrawlerService creates the crawler service with validation.
func NewCatCrawlerService(
	repo domain.Repository,
	providers []domain.Provider,
	eventProducer domain.EventProducer,
	window *app.PageWindow,
	cfg *config.Config,
) (*app.CatCrawlerService, error) {
	if repo == nil {
		return nil, errors.New("repository is nil")
	}
	if len(providers) == 0 {
		return nil, errors.New("no providers configured")
	}
	if eventProducer == nil {
		return nil, errors.New("event producer is nil")
	}
	if cfg.PageSize < 1 || cfg.PageSize > 100 {
		return nil, fmt.Errorf("invalid page size: %d (must be 1-100)", cfg.PageSize)
	}
	if cfg.WorkerPoolSize <= 0 || cfg.WorkerPoolSize > 100 {
		return nil, fmt.Errorf("invalid worker pool size: %d (must be 1-100)", cfg.WorkerPoolSize)
	}

	return app.NewCatCrawlerService(
		repo,
		providers,
		eventProducer,
		window,
		cfg.PollInterval,
		cfg.WorkerPoolSize,
	), nil
}

// NewWarmSyncService creates the image warm sync service.
func NewWarmSyncService(consumer *queue.KafkaConsumer, warmer domain.ImageWarmer) (*app.WarmSyncService, error) {
	if consumer == nil {
		return nil, errors.New("kafka consumer is nil")
	}
	if warmer == nil {
		return nil, errors.New("image warmer is nil")
	}
	return app.NewWarmSyncService(consumer, warmer), nil
}

// NewGalleryHandler creates the read-side gallery handler. It shares the
// crawler's page window so list requests feed the refresh anchor and can be
// served from materialized pages.
func NewGalleryHandler(repo domain.Repository, window *app.PageWindow, cfg *config.Config) *transport.GalleryHandler {
	return transport.NewGalleryHandler(repo, window, cfg.PageSize)
}
