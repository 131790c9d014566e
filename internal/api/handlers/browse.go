package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/marquee/internal/controllers"
)

// BrowseHandler serves list pages
type BrowseHandler struct {
	ctrl   *controllers.BrowseController
	logger *logrus.Logger
}

// NewBrowseHandler creates a new browse handler
func NewBrowseHandler(ctrl *controllers.BrowseController, logger *logrus.Logger) *BrowseHandler {
	return &BrowseHandler{ctrl: ctrl, logger: logger}
}

// Browse handles GET /api/browse
func (h *BrowseHandler) Browse(w http.ResponseWriter, r *http.Request) {
	req, err := browseRequest(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	result, err := h.ctrl.Browse(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Genres handles GET /api/genres
func (h *BrowseHandler) Genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.ctrl.Genres(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, genres)
}

// PopularPeople handles GET /api/people/popular
func (h *BrowseHandler) PopularPeople(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r.URL.Query(), "page", 1)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	people, err := h.ctrl.PopularPeople(r.Context(), page)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, people)
}
