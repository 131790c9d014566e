package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/marquee/internal/controllers"
	"github.com/amaumene/marquee/internal/models"
)

// ReviewsHandler serves the reviews section of detail pages
type ReviewsHandler struct {
	ctrl    *controllers.DetailController
	reviews *controllers.ReviewAggregator
	logger  *logrus.Logger
}

// NewReviewsHandler creates a new reviews handler
func NewReviewsHandler(ctrl *controllers.DetailController, reviews *controllers.ReviewAggregator, logger *logrus.Logger) *ReviewsHandler {
	return &ReviewsHandler{ctrl: ctrl, reviews: reviews, logger: logger}
}

// ReviewsResponse is the visible window of reviews of one media item
type ReviewsResponse struct {
	Reviews []models.Review `json:"reviews"`
	Window  int             `json:"window"`
	Total   int             `json:"total"`
	HasMore bool            `json:"has_more"`
}

// List handles GET /api/{type}/{id}/reviews
func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	defer view.Close()

	if !h.reviews.Fetched(view.Key()) {
		if _, err := h.reviews.FetchNext(r.Context(), view.Key()); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}
	h.respond(w, r, view)
}

// LoadMore handles POST /api/{type}/{id}/reviews/more
func (h *ReviewsHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	defer view.Close()

	if _, err := view.LoadMoreReviews(r.Context()); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.respond(w, r, view)
}

type submitReviewRequest struct {
	Username string `json:"username"`
	Text     string `json:"text"`
}

// Submit handles POST /api/{type}/{id}/reviews
func (h *ReviewsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	defer view.Close()

	var body submitReviewRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	review, err := view.SubmitReview(body.Username, body.Text)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

type voteRequest struct {
	Direction string `json:"direction"`
}

// Vote handles POST /api/{type}/{id}/reviews/{reviewID}/vote
func (h *ReviewsHandler) Vote(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	defer view.Close()

	var body voteRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	direction, err := models.ParseVoteDirection(body.Direction)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	review, ok := view.VoteReview(mux.Vars(r)["reviewID"], direction)
	if !ok {
		writeNotFound(w, "review")
		return
	}
	writeJSON(w, http.StatusOK, review)
}

// BeginEdit handles POST /api/{type}/{id}/reviews/{reviewID}/edit
func (h *ReviewsHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	defer view.Close()

	review, ok := view.BeginEditReview(mux.Vars(r)["reviewID"])
	if !ok {
		writeNotFound(w, "local review")
		return
	}
	writeJSON(w, http.StatusOK, review)
}

// CancelEdit handles POST /api/{type}/{id}/reviews/{reviewID}/cancel
func (h *ReviewsHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	defer view.Close()

	review, ok := view.CancelEditReview(mux.Vars(r)["reviewID"])
	if !ok {
		writeNotFound(w, "local review")
		return
	}
	writeJSON(w, http.StatusOK, review)
}

type saveReviewRequest struct {
	Text string `json:"text"`
}

// Save handles PUT /api/{type}/{id}/reviews/{reviewID}
func (h *ReviewsHandler) Save(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	defer view.Close()

	var body saveReviewRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	id := mux.Vars(r)["reviewID"]
	review, ok := view.SaveReview(id, body.Text)
	if !ok {
		// Blank texts leave the review untouched
		if current, found := h.reviews.Get(view.Key(), id); found && current.IsLocal() {
			writeJSON(w, http.StatusOK, current)
			return
		}
		writeNotFound(w, "local review")
		return
	}
	writeJSON(w, http.StatusOK, review)
}

// Delete handles DELETE /api/{type}/{id}/reviews/{reviewID}
func (h *ReviewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	defer view.Close()

	if !view.DeleteReview(mux.Vars(r)["reviewID"]) {
		writeNotFound(w, "local review")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReviewsHandler) view(w http.ResponseWriter, r *http.Request) (*controllers.DetailView, bool) {
	key, err := mediaKey(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return nil, false
	}
	return h.ctrl.Open(key), true
}

func (h *ReviewsHandler) respond(w http.ResponseWriter, r *http.Request, view *controllers.DetailView) {
	criterion, err := models.ParseSortCriterion(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	key := view.Key()
	writeJSON(w, http.StatusOK, ReviewsResponse{
		Reviews: view.Reviews(criterion),
		Window:  h.reviews.Window(key),
		Total:   h.reviews.Count(key),
		HasMore: h.reviews.HasMore(key),
	})
}
