package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
	"github.com/yanqian/playlist-recommender/internal/infra/config"
)

const shutdownTimeout = 10 * time.Second

// App owns the recommender HTTP server lifecycle.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	server          *http.Server
	recommendations recommendation.Service
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, recommendations recommendation.Service) *App {
	return &App{
		cfg:             cfg,
		logger:          logger.With("component", "bootstrap"),
		server:          server,
		recommendations: recommendations,
	}
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.logger.Info("recommender ready",
		"timeframe", a.recommendations.Timeframe(ctx).String(),
		"timezone", a.cfg.Recommendation.Timezone,
		"hemisphere", a.cfg.Recommendation.Hemisphere,
		"regions", a.cfg.Recommendation.Regions,
		"weatherProvider", a.cfg.Weather.Provider,
		"holidayProvider", a.cfg.Holidays.Provider,
		"catalogProvider", a.cfg.Catalog.Provider,
	)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		a.logger.Info("http server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
