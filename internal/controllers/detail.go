package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"github.com/amaumene/marquee/internal/models"
	"github.com/amaumene/marquee/internal/stores"
)

const (
	MinUserRating = 1
	MaxUserRating = 10
)

// MediaSource fetches full media records and their backdrop galleries
type MediaSource interface {
	GetMedia(ctx context.Context, key models.MediaKey) (models.MediaRecord, error)
	GetImages(ctx context.Context, key models.MediaKey) ([]string, error)
}

// DetailController composes the catalog, the watchlist and the review
// aggregator for detail pages. User ratings live here, per media item, for
// the lifetime of the process.
type DetailController struct {
	media     MediaSource
	watchlist *stores.Watchlist
	reviews   *ReviewAggregator
	logger    *logrus.Logger

	mu      sync.Mutex
	ratings map[models.MediaKey][]int
}

// NewDetailController creates a new detail controller
func NewDetailController(media MediaSource, watchlist *stores.Watchlist, reviews *ReviewAggregator, logger *logrus.Logger) *DetailController {
	return &DetailController{
		media:     media,
		watchlist: watchlist,
		reviews:   reviews,
		logger:    logger,
		ratings:   make(map[models.MediaKey][]int),
	}
}

// Open mounts a detail view for key. The view must be closed when the user
// navigates away.
func (c *DetailController) Open(key models.MediaKey) *DetailView {
	return &DetailView{ctrl: c, key: key}
}

// Rate records a user rating in [1, 10] for key
func (c *DetailController) Rate(key models.MediaKey, rating int) (RatingSummary, error) {
	if rating < MinUserRating || rating > MaxUserRating {
		return RatingSummary{}, fmt.Errorf("%w: rating must be between %d and %d", models.ErrValidation, MinUserRating, MaxUserRating)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.ratings[key] = append(c.ratings[key], rating)
	return summarize(c.ratings[key]), nil
}

// Ratings returns the rating summary of key
func (c *DetailController) Ratings(key models.MediaKey) RatingSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	return summarize(c.ratings[key])
}

// AverageRating is the mean user rating of key with one decimal, or "0"
// when nobody rated it
func (c *DetailController) AverageRating(key models.MediaKey) string {
	return c.Ratings(key).Average
}

// ToggleWatchlist adds key to the watchlist when absent and removes it when
// present. Adding fetches the record to snapshot it; an entry added by
// someone else during the fetch is kept.
func (c *DetailController) ToggleWatchlist(ctx context.Context, key models.MediaKey) (bool, error) {
	if c.watchlist.Contains(key.ID, key.Type) {
		c.watchlist.Remove(key.ID, key.Type)
		return false, nil
	}

	record, err := c.media.GetMedia(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	c.watchlist.Add(models.EntryFromRecord(record))
	return true, nil
}

// RatingSummary is the user rating state of one media item
type RatingSummary struct {
	Ratings []int  `json:"ratings"`
	Count   int    `json:"count"`
	Average string `json:"average"`
}

func summarize(ratings []int) RatingSummary {
	s := RatingSummary{
		Ratings: append([]int{}, ratings...),
		Count:   len(ratings),
		Average: "0",
	}
	if len(ratings) == 0 {
		return s
	}

	total := 0
	for _, r := range ratings {
		total += r
	}
	s.Average = fmt.Sprintf("%.1f", float64(total)/float64(len(ratings)))
	return s
}

// DetailView is one mounted detail page. Fetch results that arrive after
// Close are discarded.
type DetailView struct {
	ctrl *DetailController
	key  models.MediaKey

	mu            sync.Mutex
	closed        bool
	record        *models.MediaRecord
	gallery       []string
	galleryLoaded bool
	inWatchlist   bool
	err           error
	galleryErr    error
	reviewsErr    error
}

// DetailState is a snapshot of a detail view
type DetailState struct {
	Key           models.MediaKey     `json:"key"`
	Record        *models.MediaRecord `json:"record,omitempty"`
	Gallery       []string            `json:"gallery"`
	RecordLoaded  bool                `json:"record_loaded"`
	GalleryLoaded bool                `json:"gallery_loaded"`
	InWatchlist   bool                `json:"in_watchlist"`
	Ratings       RatingSummary       `json:"ratings"`
	Error         string              `json:"error,omitempty"`
	GalleryError  string              `json:"gallery_error,omitempty"`
	ReviewsError  string              `json:"reviews_error,omitempty"`
}

// Key returns the media item shown by the view
func (v *DetailView) Key() models.MediaKey {
	return v.key
}

// Load fetches the record, the backdrop gallery and the first review page
// concurrently. Each result is applied as soon as it arrives. Only a failure
// to fetch the record is returned; gallery and review failures are kept in
// the view state.
func (v *DetailView) Load(ctx context.Context) error {
	if v.Closed() {
		return models.ErrViewClosed
	}

	logger := v.ctrl.logger.WithField("media", v.key.String())
	p := pool.New().WithErrors().WithContext(ctx)

	p.Go(func(ctx context.Context) error {
		record, err := v.ctrl.media.GetMedia(ctx, v.key)
		if err != nil {
			v.setError(&v.err, err)
			return err
		}
		return v.applyRecord(record)
	})

	p.Go(func(ctx context.Context) error {
		gallery, err := v.ctrl.media.GetImages(ctx, v.key)
		if err != nil {
			logger.WithError(err).Warn("Failed to fetch backdrop gallery")
			v.setError(&v.galleryErr, err)
			return nil
		}
		v.applyGallery(gallery)
		return nil
	})

	if !v.ctrl.reviews.Fetched(v.key) {
		p.Go(func(ctx context.Context) error {
			if _, err := v.ctrl.reviews.FetchNext(ctx, v.key); err != nil {
				v.setError(&v.reviewsErr, err)
			}
			return nil
		})
	}

	err := p.Wait()
	if v.Closed() {
		return models.ErrViewClosed
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", v.key, err)
	}

	logger.Debug("Detail view loaded")
	return nil
}

// Close unmounts the view
func (v *DetailView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.closed = true
}

// Closed reports whether the view was closed
func (v *DetailView) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.closed
}

// State returns a snapshot of the view
func (v *DetailView) State() DetailState {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := DetailState{
		Key:           v.key,
		Gallery:       append([]string{}, v.gallery...),
		RecordLoaded:  v.record != nil,
		GalleryLoaded: v.galleryLoaded,
		InWatchlist:   v.inWatchlist,
		Ratings:       v.ctrl.Ratings(v.key),
		Error:         userMessage(v.err),
		GalleryError:  userMessage(v.galleryErr),
		ReviewsError:  userMessage(v.reviewsErr),
	}
	if v.record != nil {
		record := *v.record
		s.Record = &record
	}
	return s
}

// Record returns the loaded record
func (v *DetailView) Record() (models.MediaRecord, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.record == nil {
		return models.MediaRecord{}, false
	}
	return *v.record, true
}

// InWatchlist reports the watchlist toggle state of the view
func (v *DetailView) InWatchlist() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.inWatchlist
}

// ToggleWatchlist adds the item when absent and removes it when present.
// Adding needs the record, so it fails with ErrNotLoaded before Load.
func (v *DetailView) ToggleWatchlist() (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return false, models.ErrViewClosed
	}

	w := v.ctrl.watchlist
	switch {
	case v.record != nil:
		v.inWatchlist = w.Toggle(models.EntryFromRecord(*v.record))
	case w.Contains(v.key.ID, v.key.Type):
		w.Remove(v.key.ID, v.key.Type)
		v.inWatchlist = false
	default:
		return false, models.ErrNotLoaded
	}
	return v.inWatchlist, nil
}

// Rate records a user rating for the item
func (v *DetailView) Rate(rating int) (RatingSummary, error) {
	return v.ctrl.Rate(v.key, rating)
}

// AverageRating is the displayed user rating average
func (v *DetailView) AverageRating() string {
	return v.ctrl.AverageRating(v.key)
}

// Reviews returns the reviews inside the current "load more" window
func (v *DetailView) Reviews(criterion models.SortCriterion) []models.Review {
	agg := v.ctrl.reviews
	return agg.SortedView(v.key, criterion, agg.Window(v.key))
}

// LoadMoreReviews grows the review window by one page and fetches the next
// provider page when there is one
func (v *DetailView) LoadMoreReviews(ctx context.Context) (int, error) {
	agg := v.ctrl.reviews
	window := agg.LoadMore(v.key)
	if !agg.HasMore(v.key) {
		return window, nil
	}
	if _, err := agg.FetchNext(ctx, v.key); err != nil {
		return window, err
	}
	return window, nil
}

// SubmitReview adds a local review
func (v *DetailView) SubmitReview(username, text string) (models.Review, error) {
	return v.ctrl.reviews.SubmitLocal(v.key, username, text)
}

// VoteReview votes on a review
func (v *DetailView) VoteReview(id string, direction models.VoteDirection) (models.Review, bool) {
	return v.ctrl.reviews.Vote(v.key, id, direction)
}

// BeginEditReview switches a local review to editing mode
func (v *DetailView) BeginEditReview(id string) (models.Review, bool) {
	return v.ctrl.reviews.BeginEdit(v.key, id)
}

// CancelEditReview leaves editing mode without saving
func (v *DetailView) CancelEditReview(id string) (models.Review, bool) {
	return v.ctrl.reviews.CancelEdit(v.key, id)
}

// SaveReview replaces the text of a local review
func (v *DetailView) SaveReview(id, text string) (models.Review, bool) {
	return v.ctrl.reviews.Edit(v.key, id, text)
}

// DeleteReview removes a local review
func (v *DetailView) DeleteReview(id string) bool {
	return v.ctrl.reviews.Delete(v.key, id)
}

func (v *DetailView) applyRecord(record models.MediaRecord) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return models.ErrViewClosed
	}
	v.record = &record
	v.err = nil
	v.inWatchlist = v.ctrl.watchlist.Contains(v.key.ID, v.key.Type)
	return nil
}

func (v *DetailView) applyGallery(gallery []string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.gallery = gallery
	v.galleryLoaded = true
	v.galleryErr = nil
}

func (v *DetailView) setError(dst *error, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || errors.Is(err, context.Canceled) {
		return
	}
	*dst = err
}

func userMessage(err error) string {
	if err == nil {
		return ""
	}
	return models.UserMessage(err)
}
