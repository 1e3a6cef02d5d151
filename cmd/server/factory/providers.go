package factory

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/CatGalleryCrawler/internal/domain"
	"github.com/CatGalleryCrawler/internal/infra/provider"
	"github.com/CatGalleryCrawler/internal/infra/transformer"
	"github.com/CatGalleryCrawler/pkg/config"
)

// NewProviders creates all configured cat feed providers.
func NewProviders(cfg *config.Config) ([]domain.Provider, error) {
	if len(cfg.Sources) == 0 {
		return nil, errors.New("no sources configured")
	}

	var providers []domain.Provider
	for _, source := range cfg.Sources {
		tr, err := transformer.GetTransformer(source.Transformer, source.URL)
		if err != nil {
			slog.Warn("Skipping source", "source", source.Name, "error", err)
			continue
		}

		p := provider.NewCataasProvider(source.Name, source.URL, cfg.PageSize, tr)
		providers = append(providers, p)
		slog.Info("Registered provider", "provider", source.Name, "transformer", source.Transformer)
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no valid providers configured")
	}
	return providers, nil
}
