package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/CatGalleryCrawler/internal/domain"
	"github.com/CatGalleryCrawler/internal/infra/metrics"
	"github.com/CatGalleryCrawler/internal/infra/queue"
	"github.com/CatGalleryCrawler/pkg/logging"
)

// WarmSyncService consumes ingested-cat events and pushes each image through
// the downstream warmer so the gallery serves pre-cached thumbnails.
type WarmSyncService struct {
	consumer *queue.KafkaConsumer
	warmer   domain.ImageWarmer
	sampler  *logging.ErrorSampler
}

func NewWarmSyncService(consumer *queue.KafkaConsumer, warmer domain.ImageWarmer) *WarmSyncService {
	return &WarmSyncService{
		consumer: consumer,
		warmer:   warmer,
		sampler:  logging.NewErrorSampler(25),
	}
}

func (s *WarmSyncService) Start(ctx context.Context) {
	slog.Info("Starting warm sync service (Kafka consumer)")
	go s.consumer.Start(ctx, s.handleEvent)
}

func (s *WarmSyncService) handleEvent(ctx context.Context, cat *domain.CatImage) error {
	start := time.Now()
	slog.Debug("Consuming event for warm-up", "cat_id", cat.ID, "image_url", cat.ImageURL)

	err := s.warmer.Warm(ctx, cat)
	metrics.WarmDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		// A dead CDN means one error per consumed event; sample the noise.
		if s.sampler.ShouldLog("warm_error") {
			slog.Error("Failed to warm image", "cat_id", cat.ID, "error", err,
				"occurrences", s.sampler.GetCount("warm_error"))
		}
		metrics.WarmErrors.Inc()
		return err
	}

	metrics.WarmSuccess.Inc()
	return nil
}

func (s *WarmSyncService) Stop() error {
	return s.consumer.Close()
}
