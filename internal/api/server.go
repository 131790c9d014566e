package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/marquee/internal/api/handlers"
	"github.com/amaumene/marquee/internal/api/middleware"
	"github.com/amaumene/marquee/internal/config"
	"github.com/amaumene/marquee/internal/controllers"
	"github.com/amaumene/marquee/internal/stores"
)

// Server represents the HTTP server
type Server struct {
	server    *http.Server
	router    *mux.Router
	browse    *controllers.BrowseController
	detail    *controllers.DetailController
	reviews   *controllers.ReviewAggregator
	watchlist *stores.Watchlist
	favorites *stores.Favorites
	registry  *prometheus.Registry
	logger    *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	browse *controllers.BrowseController,
	detail *controllers.DetailController,
	reviews *controllers.ReviewAggregator,
	watchlist *stores.Watchlist,
	favorites *stores.Favorites,
	registry *prometheus.Registry,
	logger *logrus.Logger,
) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		browse:    browse,
		detail:    detail,
		reviews:   reviews,
		watchlist: watchlist,
		favorites: favorites,
		registry:  registry,
		logger:    logger,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(s.router, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	r := s.router
	r.Use(middleware.NewMetrics(s.registry).Middleware)

	health := handlers.NewHealthHandler(s.logger)
	r.Handle("/health", health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	browse := handlers.NewBrowseHandler(s.browse, s.logger)
	api.HandleFunc("/browse", browse.Browse).Methods(http.MethodGet)
	api.HandleFunc("/genres", browse.Genres).Methods(http.MethodGet)
	api.HandleFunc("/people/popular", browse.PopularPeople).Methods(http.MethodGet)

	watchlist := handlers.NewWatchlistHandler(s.watchlist, s.logger)
	api.HandleFunc("/watchlist", watchlist.List).Methods(http.MethodGet)
	api.HandleFunc("/watchlist/{type}/{id:[0-9]+}", watchlist.Remove).Methods(http.MethodDelete)

	favorites := handlers.NewFavoritesHandler(s.favorites, s.logger)
	api.HandleFunc("/favorites", favorites.List).Methods(http.MethodGet)
	api.HandleFunc("/favorites", favorites.Add).Methods(http.MethodPost)
	api.HandleFunc("/favorites", favorites.Clear).Methods(http.MethodDelete)
	api.HandleFunc("/favorites/{id}", favorites.Remove).Methods(http.MethodDelete)

	detail := handlers.NewDetailHandler(s.detail, s.logger)
	reviews := handlers.NewReviewsHandler(s.detail, s.reviews, s.logger)

	media := api.PathPrefix("/{type}/{id:[0-9]+}").Subrouter()
	media.HandleFunc("", detail.Get).Methods(http.MethodGet)
	media.HandleFunc("/watchlist", detail.ToggleWatchlist).Methods(http.MethodPost)
	media.HandleFunc("/ratings", detail.Rate).Methods(http.MethodPost)
	media.HandleFunc("/reviews", reviews.List).Methods(http.MethodGet)
	media.HandleFunc("/reviews", reviews.Submit).Methods(http.MethodPost)
	media.HandleFunc("/reviews/more", reviews.LoadMore).Methods(http.MethodPost)
	media.HandleFunc("/reviews/{reviewID}/vote", reviews.Vote).Methods(http.MethodPost)
	media.HandleFunc("/reviews/{reviewID}/edit", reviews.BeginEdit).Methods(http.MethodPost)
	media.HandleFunc("/reviews/{reviewID}/cancel", reviews.CancelEdit).Methods(http.MethodPost)
	media.HandleFunc("/reviews/{reviewID}", reviews.Save).Methods(http.MethodPut)
	media.HandleFunc("/reviews/{reviewID}", reviews.Delete).Methods(http.MethodDelete)
}

// Handler returns the root handler, including request logging
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
