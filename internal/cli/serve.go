package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"finitefield.org/heritage-web/internal/enrich"
	"finitefield.org/heritage-web/internal/handlers"
	"finitefield.org/heritage-web/internal/platform/config"
	"finitefield.org/heritage-web/internal/platform/observability"
	"finitefield.org/heritage-web/internal/services"
	"finitefield.org/heritage-web/internal/views"
)

const readHeaderTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the heritage website and JSON API",
		Long: `Loads the catalog once from the configured source and serves the HTML pages,
the /api/v1 JSON endpoints and the /healthz and /readyz probes until interrupted.`,
		Example: `  # Serve on the configured port (HERITAGE_SERVER_PORT, PORT or 8080)
  heritage serve

  # Serve on a specific address with simulated data-service latency
  HERITAGE_SIMULATE_LATENCY=true heritage serve --addr 127.0.0.1:3000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr()
			}
			return serve(cmd.Context(), a.cfg, a.logger, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to :$HERITAGE_SERVER_PORT)")

	return cmd
}

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger, addr string) error {
	if err := views.Parse(); err != nil {
		return err
	}

	repo, release, err := loadCatalog(ctx, cfg, logger)
	defer func() {
		if err := release(); err != nil {
			logger.Warn("release catalog source", zap.Error(err))
		}
	}()
	if err != nil {
		return err
	}

	deps := services.HeritageServiceDeps{
		Catalog: repo,
		Logger:  logger,
	}
	if cfg.Enrichment.Enabled {
		client := enrich.NewWikipediaClient(
			enrich.WithBaseURL(cfg.Enrichment.WikipediaBaseURL),
			enrich.WithUserAgent(cfg.Enrichment.UserAgent),
			enrich.WithTimeout(cfg.Enrichment.Timeout),
		)
		deps.Enricher = enrich.NewEnricher(client)
		deps.Wikipedia = client
	}
	if cfg.Catalog.SimulateLatency {
		deps.Latency = services.DefaultLatency()
	}

	heritage, err := services.NewHeritageService(deps)
	if err != nil {
		return err
	}
	bookmarkSvc, err := services.NewBookmarkService(services.BookmarkServiceDeps{Catalog: repo})
	if err != nil {
		return err
	}

	handler := handlers.New(handlers.Config{
		Heritage:        heritage,
		Bookmarks:       bookmarkSvc,
		SecureCookies:   cfg.Bookmarks.SecureCookie,
		WikipediaSearch: cfg.Enrichment.Enabled,
		RequestTimeout:  cfg.Server.RequestTimeout,
		StartedAt:       time.Now(),
		Middlewares: []func(http.Handler) http.Handler{
			observability.InjectLoggerMiddleware(logger),
			observability.TraceMiddleware(),
			observability.RequestLoggerMiddleware(),
			observability.RecoveryMiddleware(),
		},
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats := heritage.CatalogStats(gctx)
		logger.Info("heritage listening",
			zap.String("addr", addr),
			zap.Int("items", stats.Items),
			zap.Int("regions", stats.Regions),
			zap.Bool("enrichment", cfg.Enrichment.Enabled),
			zap.Bool("simulate_latency", cfg.Catalog.SimulateLatency),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			return err
		}
		logger.Info("server stopped")
		return nil
	})
	return g.Wait()
}
