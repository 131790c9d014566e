//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/amaumene/marquee/internal/api"
	"github.com/amaumene/marquee/internal/config"
	"github.com/amaumene/marquee/internal/controllers"
	"github.com/amaumene/marquee/internal/services/tmdb"
	"github.com/amaumene/marquee/internal/stores"
)

// Initialize builds the application from its configuration
func Initialize(ctx context.Context, cfg *config.Config, logger *logrus.Logger, tp trace.TracerProvider) (*App, func(), error) {
	wire.Build(
		provideRegistry,
		providePreferences,
		provideTMDBClient,
		wire.Bind(new(controllers.MediaSource), new(*tmdb.Client)),
		provideReviewAggregator,
		provideBrowseController,
		stores.NewWatchlist,
		stores.NewFavorites,
		controllers.NewDetailController,
		api.NewServer,
		newApp,
	)
	return nil, nil, nil
}
