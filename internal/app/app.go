package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/amaumene/marquee/internal/api"
	"github.com/amaumene/marquee/internal/config"
	"github.com/amaumene/marquee/internal/controllers"
	"github.com/amaumene/marquee/internal/models"
	"github.com/amaumene/marquee/internal/services/tmdb"
	"github.com/amaumene/marquee/internal/stores"
	"github.com/amaumene/marquee/internal/utils"
)

// App is the assembled application
type App struct {
	Server    *api.Server
	Watchlist *stores.Watchlist
	Favorites *stores.Favorites
}

func newApp(server *api.Server, watchlist *stores.Watchlist, favorites *stores.Favorites) *App {
	return &App{Server: server, Watchlist: watchlist, Favorites: favorites}
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// providePreferences opens the configured preference backend
func providePreferences(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (stores.Preferences, func(), error) {
	switch cfg.PreferencesBackend {
	case config.BackendRedis:
		prefs, err := models.NewRedisPreferences(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		logger.WithField("addr", cfg.RedisAddr).Info("Redis preference store connected")
		return prefs, func() { prefs.Close() }, nil
	default:
		db, err := models.NewDatabase(cfg.DatabaseFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		logger.WithField("path", cfg.DatabaseFile).Info("Database initialized")
		return db, func() { db.Close() }, nil
	}
}

func provideTMDBClient(cfg *config.Config, logger *logrus.Logger, reg *prometheus.Registry, tp trace.TracerProvider) *tmdb.Client {
	return tmdb.NewClient(cfg, logger,
		tmdb.WithTracerProvider(tp),
		tmdb.WithMetrics(tmdb.NewMetrics(reg)),
	)
}

func provideReviewAggregator(client *tmdb.Client, cfg *config.Config, logger *logrus.Logger) *controllers.ReviewAggregator {
	return controllers.NewReviewAggregator(client, cfg.ReviewsPageSize, logger)
}

func provideBrowseController(client *tmdb.Client, cfg *config.Config, logger *logrus.Logger) *controllers.BrowseController {
	return controllers.NewBrowseController(client, utils.NewGenreResolver(), cfg.BrowsePageSize, logger)
}
