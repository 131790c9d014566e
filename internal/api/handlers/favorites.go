package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/marquee/internal/models"
	"github.com/amaumene/marquee/internal/stores"
)

// FavoritesHandler serves the favorite actors page
type FavoritesHandler struct {
	favorites *stores.Favorites
	logger    *logrus.Logger
}

// NewFavoritesHandler creates a new favorites handler
func NewFavoritesHandler(favorites *stores.Favorites, logger *logrus.Logger) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites, logger: logger}
}

// List handles GET /api/favorites
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	actors, err := h.favorites.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, actors)
}

// Add handles POST /api/favorites
func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	var actor models.FavoriteActor
	if err := decodeBody(r, &actor); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	actors, err := h.favorites.Add(r.Context(), actor)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"actor_id": actor.ID,
		"name":     actor.Name,
	}).Info("Added favorite actor")
	writeJSON(w, http.StatusOK, actors)
}

// Clear handles DELETE /api/favorites
func (h *FavoritesHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.favorites.Clear(r.Context()); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Cleared favorite actors")
	writeJSON(w, http.StatusOK, []models.FavoriteActor{})
}

// Remove handles DELETE /api/favorites/{id}
func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%w: invalid actor id %q", models.ErrValidation, raw))
		return
	}

	actors, err := h.favorites.Remove(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, actors)
}
