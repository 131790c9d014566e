package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/marquee/internal/controllers"
	"github.com/amaumene/marquee/internal/models"
)

// DetailHandler serves detail pages
type DetailHandler struct {
	ctrl   *controllers.DetailController
	logger *logrus.Logger
}

// NewDetailHandler creates a new detail handler
func NewDetailHandler(ctrl *controllers.DetailController, logger *logrus.Logger) *DetailHandler {
	return &DetailHandler{ctrl: ctrl, logger: logger}
}

// DetailResponse is a detail view with its visible reviews
type DetailResponse struct {
	controllers.DetailState
	Reviews []models.Review `json:"reviews"`
}

// Get handles GET /api/{type}/{id}
func (h *DetailHandler) Get(w http.ResponseWriter, r *http.Request) {
	key, err := mediaKey(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	criterion, err := models.ParseSortCriterion(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	view := h.ctrl.Open(key)
	defer view.Close()

	if err := view.Load(r.Context()); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, DetailResponse{
		DetailState: view.State(),
		Reviews:     view.Reviews(criterion),
	})
}

// ToggleWatchlist handles POST /api/{type}/{id}/watchlist
func (h *DetailHandler) ToggleWatchlist(w http.ResponseWriter, r *http.Request) {
	key, err := mediaKey(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	inWatchlist, err := h.ctrl.ToggleWatchlist(r.Context(), key)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"media":        key.String(),
		"in_watchlist": inWatchlist,
	}).Info("Watchlist toggled")

	writeJSON(w, http.StatusOK, map[string]bool{"in_watchlist": inWatchlist})
}

type rateRequest struct {
	Rating int `json:"rating"`
}

// Rate handles POST /api/{type}/{id}/ratings
func (h *DetailHandler) Rate(w http.ResponseWriter, r *http.Request) {
	key, err := mediaKey(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var body rateRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	summary, err := h.ctrl.Rate(key, body.Rating)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
