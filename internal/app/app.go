package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shopassist/backend/config"
	"github.com/shopassist/backend/internal/domain"
	"github.com/shopassist/backend/internal/infrastructure/catalog"
	"github.com/shopassist/backend/internal/infrastructure/kvstore"
	"github.com/shopassist/backend/internal/usecase"
	"github.com/shopassist/backend/pkg/logger"
)

// CatalogUnavailableNotice is shown when the catalog could not be loaded
const CatalogUnavailableNotice = "Failed to load products. Check the catalog source and try again."

// Application wires configuration to the use cases
type Application struct {
	Config    *config.Config
	Catalog   *usecase.CatalogService
	Assistant *usecase.AssistantService
	Session   *usecase.SessionService

	store domain.KVStore
}

// Options overrides collaborators, mainly for tests
type Options struct {
	Source domain.CatalogSource
	Store  domain.KVStore
	Clock  domain.Clock
}

// New loads the catalog, opens the state store and hydrates the session.
// A catalog failure degrades to an empty catalog with a notice; only a
// store that cannot be opened is returned as an error.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Application, error) {
	log := logger.Component("app")

	source := opts.Source
	if source == nil {
		source = newCatalogSource(cfg.Catalog, cfg.RateLimit)
	}

	var notice string
	products, err := source.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrCatalogLoad) {
			err = fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
		}
		log.Error().Err(err).Str("source", cfg.Catalog.Source).Msg("catalog unavailable, continuing with empty catalog")
		notice = CatalogUnavailableNotice
		products = nil
	}

	store := opts.Store
	if store == nil {
		store, err = newStore(ctx, cfg.Persistence)
		if err != nil {
			return nil, err
		}
	}

	catalogSvc := usecase.NewCatalogService(
		domain.NewCatalog(products),
		usecase.NewRankingService(cfg.Assistant.ShortlistLimit),
		usecase.NewConstraintParser(cfg.Assistant.DebugParsing),
		notice,
	)
	assistant := usecase.NewAssistantService(catalogSvc)
	session := usecase.NewSessionService(
		catalogSvc,
		assistant,
		usecase.NewPersister(store, cfg.Persistence.Key, cfg.Persistence.TTL),
		opts.Clock,
	)
	session.Hydrate(ctx)

	log.Info().
		Int("products", catalogSvc.Catalog().Len()).
		Str("persistence", cfg.Persistence.Type).
		Int("shortlist_limit", cfg.Assistant.ShortlistLimit).
		Msg("application ready")

	return &Application{
		Config:    cfg,
		Catalog:   catalogSvc,
		Assistant: assistant,
		Session:   session,
		store:     store,
	}, nil
}

// Close releases the state store
func (a *Application) Close() error {
	if c, ok := a.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func newCatalogSource(cfg config.CatalogConfig, limits config.RateLimitConfig) domain.CatalogSource {
	if cfg.Source == "http" {
		return catalog.NewHTTPSource(cfg.URL, cfg.Timeout, limits.Catalog)
	}
	return catalog.NewFileSource(cfg.Path)
}

func newStore(ctx context.Context, cfg config.PersistenceConfig) (domain.KVStore, error) {
	if cfg.Type != "sqlite" {
		return kvstore.NewMemoryStore(), nil
	}

	store, err := kvstore.NewSQLiteStore(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	log := logger.Component("app")
	if purged, err := store.PurgeExpired(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to purge expired state")
	} else if purged > 0 {
		log.Info().Int64("purged", purged).Msg("purged expired state")
	}
	return store, nil
}
