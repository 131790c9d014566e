package controllers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/marquee/internal/models"
)

// DefaultReviewsPageSize is how many reviews one "load more" reveals
const DefaultReviewsPageSize = 5

// ReviewSource fetches provider reviews page by page
type ReviewSource interface {
	GetReviews(ctx context.Context, key models.MediaKey, page int) (models.ReviewPage, error)
}

// ReviewAggregator merges provider reviews with locally written ones and
// serves them sorted. It keeps one buffer per media item for the lifetime of
// the process, independently of which detail views are open.
type ReviewAggregator struct {
	source   ReviewSource
	pageSize int
	logger   *logrus.Logger
	now      func() time.Time
	newID    func() string

	mu      sync.Mutex
	buffers map[models.MediaKey]*reviewBuffer
}

// reviewBuffer holds the reviews of one media item in insertion order
type reviewBuffer struct {
	reviews   []models.Review
	remoteIDs map[string]struct{}

	// in-flight page fetches in the order they were requested
	pending []*pageTicket

	requested   int   // highest provider page handed out
	failedPages []int // pages whose fetch failed and may be requested again
	totalPages  int
	answered    bool // the provider has returned at least one page
	window      int
}

type pageTicket struct {
	page    int
	done    bool
	reviews []models.Review
}

// NewReviewAggregator creates an aggregator reading provider reviews from source
func NewReviewAggregator(source ReviewSource, pageSize int, logger *logrus.Logger) *ReviewAggregator {
	if pageSize <= 0 {
		pageSize = DefaultReviewsPageSize
	}
	return &ReviewAggregator{
		source:   source,
		pageSize: pageSize,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
		buffers:  make(map[models.MediaKey]*reviewBuffer),
	}
}

// FetchPage fetches one provider page and appends it to the buffer of key.
// Pages are merged in the order FetchPage was called, whatever order the
// responses come back in. A failed fetch merges nothing and no longer holds
// back the pages requested after it.
func (a *ReviewAggregator) FetchPage(ctx context.Context, key models.MediaKey, page int) ([]models.Review, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1", models.ErrValidation)
	}

	a.mu.Lock()
	buf := a.buffer(key)
	ticket := &pageTicket{page: page}
	buf.pending = append(buf.pending, ticket)
	if page > buf.requested {
		buf.requested = page
	}
	a.mu.Unlock()

	return a.fetch(ctx, key, ticket)
}

// FetchNext fetches the first page that has not been fetched yet, retrying
// failed pages first. It returns no reviews once the provider has no more pages.
func (a *ReviewAggregator) FetchNext(ctx context.Context, key models.MediaKey) ([]models.Review, error) {
	a.mu.Lock()
	buf := a.buffer(key)
	page, ok := buf.nextPage()
	if !ok {
		a.mu.Unlock()
		return []models.Review{}, nil
	}
	ticket := &pageTicket{page: page}
	buf.pending = append(buf.pending, ticket)
	a.mu.Unlock()

	return a.fetch(ctx, key, ticket)
}

func (a *ReviewAggregator) fetch(ctx context.Context, key models.MediaKey, ticket *pageTicket) ([]models.Review, error) {
	result, err := a.source.GetReviews(ctx, key, ticket.page)

	a.mu.Lock()
	defer a.mu.Unlock()

	buf := a.buffer(key)
	ticket.done = true
	if err != nil {
		buf.failedPages = append(buf.failedPages, ticket.page)
	} else {
		ticket.reviews = result.Reviews
		buf.answered = true
		if result.TotalPages > buf.totalPages {
			buf.totalPages = result.TotalPages
		}
	}
	merged := buf.flush()

	logger := a.logger.WithFields(logrus.Fields{
		"media": key.String(),
		"page":  ticket.page,
	})
	if err != nil {
		logger.WithError(err).Warn("Failed to fetch reviews")
		return nil, fmt.Errorf("failed to fetch reviews page %d: %w", ticket.page, err)
	}
	logger.WithFields(logrus.Fields{
		"fetched": len(result.Reviews),
		"merged":  merged,
	}).Debug("Fetched reviews page")

	return append([]models.Review(nil), result.Reviews...), nil
}

// SubmitLocal adds a review written by the user. Blank usernames or texts
// are rejected and nothing is added.
func (a *ReviewAggregator) SubmitLocal(key models.MediaKey, username, text string) (models.Review, error) {
	username = strings.TrimSpace(username)
	text = strings.TrimSpace(text)
	if username == "" {
		return models.Review{}, fmt.Errorf("%w: username is required", models.ErrValidation)
	}
	if text == "" {
		return models.Review{}, fmt.Errorf("%w: review text is required", models.ErrValidation)
	}

	review := models.Review{
		ID:        a.newID(),
		Kind:      models.ReviewKindLocal,
		Author:    username,
		Content:   text,
		CreatedAt: a.now(),
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	buf := a.buffer(key)
	buf.reviews = append(buf.reviews, review)
	return review, nil
}

// Vote adds one upvote or downvote to a review. Unknown ids are ignored.
func (a *ReviewAggregator) Vote(key models.MediaKey, id string, direction models.VoteDirection) (models.Review, bool) {
	return a.update(key, id, func(r *models.Review) bool {
		switch direction {
		case models.VoteUp:
			r.Upvotes++
		case models.VoteDown:
			r.Downvotes++
		default:
			return false
		}
		return true
	})
}

// BeginEdit puts a local review in editing mode
func (a *ReviewAggregator) BeginEdit(key models.MediaKey, id string) (models.Review, bool) {
	return a.update(key, id, func(r *models.Review) bool {
		if !r.IsLocal() {
			return false
		}
		r.Editing = true
		return true
	})
}

// CancelEdit leaves editing mode without changing the text
func (a *ReviewAggregator) CancelEdit(key models.MediaKey, id string) (models.Review, bool) {
	return a.update(key, id, func(r *models.Review) bool {
		if !r.IsLocal() {
			return false
		}
		r.Editing = false
		return true
	})
}

// Edit replaces the text of a local review and leaves editing mode.
// Provider reviews and blank texts are ignored.
func (a *ReviewAggregator) Edit(key models.MediaKey, id, text string) (models.Review, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Review{}, false
	}
	return a.update(key, id, func(r *models.Review) bool {
		if !r.IsLocal() {
			return false
		}
		r.Content = text
		r.Editing = false
		return true
	})
}

// Delete removes a local review. Provider reviews cannot be deleted.
func (a *ReviewAggregator) Delete(key models.MediaKey, id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	buf, ok := a.buffers[key]
	if !ok {
		return false
	}
	i := buf.indexOf(id)
	if i < 0 || !buf.reviews[i].IsLocal() {
		return false
	}
	buf.reviews = append(buf.reviews[:i], buf.reviews[i+1:]...)
	return true
}

// Get returns one review
func (a *ReviewAggregator) Get(key models.MediaKey, id string) (models.Review, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	buf, ok := a.buffers[key]
	if !ok {
		return models.Review{}, false
	}
	i := buf.indexOf(id)
	if i < 0 {
		return models.Review{}, false
	}
	return buf.reviews[i], true
}

// SortedView returns at most limit reviews in the requested order; a limit
// of zero or less returns every review.
//
// Most recent orders by creation time, newest first. Most helpful orders by
// upvotes minus downvotes, then newest first. Remaining ties keep insertion order.
func (a *ReviewAggregator) SortedView(key models.MediaKey, criterion models.SortCriterion, limit int) []models.Review {
	a.mu.Lock()
	var out []models.Review
	if buf, ok := a.buffers[key]; ok {
		out = append(out, buf.reviews...)
	}
	a.mu.Unlock()

	if out == nil {
		return []models.Review{}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if criterion == models.SortMostHelpful {
			si, sj := out[i].Score(), out[j].Score()
			if si != sj {
				return si > sj
			}
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// Window returns how many reviews the "load more" control currently reveals
func (a *ReviewAggregator) Window(key models.MediaKey) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.buffer(key).window
}

// LoadMore grows the window by one page and returns the new size. The window
// never shrinks.
func (a *ReviewAggregator) LoadMore(key models.MediaKey) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	buf := a.buffer(key)
	buf.window += a.pageSize
	return buf.window
}

// Count returns the number of buffered reviews
func (a *ReviewAggregator) Count(key models.MediaKey) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	if buf, ok := a.buffers[key]; ok {
		return len(buf.reviews)
	}
	return 0
}

// HasMore reports whether the provider may still have unfetched pages
func (a *ReviewAggregator) HasMore(key models.MediaKey) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	buf, ok := a.buffers[key]
	if !ok {
		return true
	}
	return buf.hasMore()
}

// Fetched reports whether at least one provider page was requested for key
func (a *ReviewAggregator) Fetched(key models.MediaKey) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	buf, ok := a.buffers[key]
	return ok && buf.requested > 0
}

// update applies fn to the review with id under the lock
func (a *ReviewAggregator) update(key models.MediaKey, id string, fn func(*models.Review) bool) (models.Review, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	buf, ok := a.buffers[key]
	if !ok {
		return models.Review{}, false
	}
	i := buf.indexOf(id)
	if i < 0 {
		return models.Review{}, false
	}
	if !fn(&buf.reviews[i]) {
		return buf.reviews[i], false
	}
	return buf.reviews[i], true
}

// buffer returns the buffer of key, creating it. Callers hold a.mu.
func (a *ReviewAggregator) buffer(key models.MediaKey) *reviewBuffer {
	buf, ok := a.buffers[key]
	if !ok {
		buf = &reviewBuffer{
			remoteIDs: make(map[string]struct{}),
			window:    a.pageSize,
		}
		a.buffers[key] = buf
	}
	return buf
}

// flush merges completed pages from the head of the queue and returns how
// many reviews were added
func (b *reviewBuffer) flush() int {
	added := 0
	for len(b.pending) > 0 && b.pending[0].done {
		ticket := b.pending[0]
		b.pending = b.pending[1:]

		for _, r := range ticket.reviews {
			if _, seen := b.remoteIDs[r.ID]; seen {
				continue
			}
			b.remoteIDs[r.ID] = struct{}{}
			r.Kind = models.ReviewKindRemote
			b.reviews = append(b.reviews, r)
			added++
		}
	}
	return added
}

func (b *reviewBuffer) nextPage() (int, bool) {
	if len(b.failedPages) > 0 {
		sort.Ints(b.failedPages)
		page := b.failedPages[0]
		b.failedPages = b.failedPages[1:]
		return page, true
	}
	if !b.hasMore() {
		return 0, false
	}
	b.requested++
	return b.requested, true
}

func (b *reviewBuffer) hasMore() bool {
	if len(b.failedPages) > 0 {
		return true
	}
	return !b.answered || b.requested < b.totalPages
}

func (b *reviewBuffer) indexOf(id string) int {
	for i, r := range b.reviews {
		if r.ID == id {
			return i
		}
	}
	return -1
}
