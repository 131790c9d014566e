package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/marquee/internal/models"
	"github.com/amaumene/marquee/internal/stores"
)

// WatchlistHandler serves the watchlist page
type WatchlistHandler struct {
	watchlist *stores.Watchlist
	logger    *logrus.Logger
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(watchlist *stores.Watchlist, logger *logrus.Logger) *WatchlistHandler {
	return &WatchlistHandler{watchlist: watchlist, logger: logger}
}

// WatchlistEntryResponse is a watchlist entry with the intent that opens it
type WatchlistEntryResponse struct {
	models.WatchlistEntry
	Link models.NavigationIntent `json:"link"`
	Path string                  `json:"path"`
}

// List handles GET /api/watchlist
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	var mediaType *models.MediaType
	if raw := r.URL.Query().Get("type"); raw != "" {
		t, err := models.ParseMediaType(raw)
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		mediaType = &t
	}

	writeJSON(w, http.StatusOK, withLinks(h.watchlist.List(mediaType)))
}

// Remove handles DELETE /api/watchlist/{type}/{id}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	key, err := mediaKey(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	entries := h.watchlist.Remove(key.ID, key.Type)
	h.logger.WithField("media", key.String()).Info("Removed from watchlist")
	writeJSON(w, http.StatusOK, withLinks(entries))
}

func withLinks(entries []models.WatchlistEntry) []WatchlistEntryResponse {
	out := make([]WatchlistEntryResponse, 0, len(entries))
	for _, e := range entries {
		intent := models.DetailIntent(e.Key())
		out = append(out, WatchlistEntryResponse{
			WatchlistEntry: e,
			Link:           intent,
			Path:           intent.Path(),
		})
	}
	return out
}
