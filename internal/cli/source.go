package cli

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"finitefield.org/heritage-web/internal/catalog"
	"finitefield.org/heritage-web/internal/platform/config"
	platformfirestore "finitefield.org/heritage-web/internal/platform/firestore"
)

// loadCatalog builds the immutable catalog from the configured source. The returned release
// function closes any backing client and is safe to call once the catalog is loaded.
func loadCatalog(ctx context.Context, cfg config.Config, logger *zap.Logger) (*catalog.StaticRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Catalog.Source {
	case config.CatalogSourceEmbedded, "":
		repo, err := catalog.LoadEmbedded()
		if err != nil {
			return nil, noop, err
		}
		logger.Info("catalog loaded", zap.String("source", config.CatalogSourceEmbedded))
		return repo, noop, nil

	case config.CatalogSourceFirestore:
		provider := platformfirestore.NewProvider(cfg.Firestore)
		client, err := provider.Client(ctx)
		if err != nil {
			return nil, provider.Close, platformfirestore.WrapError("catalog.client", err)
		}
		source, err := catalog.NewFirestoreSource(client, cfg.Firestore.ItemsCollection, cfg.Firestore.RegionsCollection)
		if err != nil {
			return nil, provider.Close, err
		}
		repo, err := source.Load(ctx)
		if err != nil {
			err = platformfirestore.WrapError("catalog.load", err)
			var fsErr *platformfirestore.Error
			if errors.As(err, &fsErr) && fsErr.Retryable() {
				logger.Warn("firestore unavailable, the embedded catalog can be served with HERITAGE_CATALOG_SOURCE=embedded",
					zap.String("op", fsErr.Op),
					zap.Stringer("code", fsErr.Code),
				)
			}
			return nil, provider.Close, err
		}
		logger.Info("catalog loaded",
			zap.String("source", config.CatalogSourceFirestore),
			zap.String("project_id", cfg.Firestore.ProjectID),
			zap.Bool("emulator", cfg.Firestore.EmulatorHost != ""),
		)
		return repo, provider.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}
