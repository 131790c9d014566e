package controllers

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/marquee/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

var (
	movieKey = models.NewMediaKey(550, models.MediaTypeMovie)
	showKey  = models.NewMediaKey(550, models.MediaTypeTV)
)

// pageResponse is what a gated fake returns for one page
type pageResponse struct {
	page models.ReviewPage
	err  error
}

// gatedReviews blocks every GetReviews call until the test releases its page
type gatedReviews struct {
	mu      sync.Mutex
	called  map[int]chan struct{}
	release map[int]chan pageResponse
}

func newGatedReviews() *gatedReviews {
	return &gatedReviews{
		called:  make(map[int]chan struct{}),
		release: make(map[int]chan pageResponse),
	}
}

func (g *gatedReviews) channels(page int) (chan struct{}, chan pageResponse) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.called[page]; !ok {
		g.called[page] = make(chan struct{})
		g.release[page] = make(chan pageResponse, 1)
	}
	return g.called[page], g.release[page]
}

func (g *gatedReviews) GetReviews(ctx context.Context, key models.MediaKey, page int) (models.ReviewPage, error) {
	called, release := g.channels(page)
	close(called)
	select {
	case resp := <-release:
		return resp.page, resp.err
	case <-ctx.Done():
		return models.ReviewPage{}, ctx.Err()
	}
}

func (g *gatedReviews) waitCalled(t *testing.T, page int) {
	t.Helper()
	called, _ := g.channels(page)
	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatalf("page %d was never requested", page)
	}
}

func (g *gatedReviews) respond(page int, resp pageResponse) {
	_, release := g.channels(page)
	release <- resp
}

// staticReviews answers every page from a fixed map
type staticReviews struct {
	mu    sync.Mutex
	pages map[int]models.ReviewPage
	calls []int
	err   error
}

func (s *staticReviews) GetReviews(ctx context.Context, key models.MediaKey, page int) (models.ReviewPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, page)
	if s.err != nil {
		return models.ReviewPage{}, s.err
	}
	p, ok := s.pages[page]
	if !ok {
		return models.ReviewPage{Page: page}, nil
	}
	return p, nil
}

func remote(id string, created time.Time) models.Review {
	return models.Review{ID: id, Kind: models.ReviewKindRemote, Author: "critic", Content: id, CreatedAt: created}
}

func reviewIDs(reviews []models.Review) []string {
	out := make([]string, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, r.ID)
	}
	return out
}

var errProvider = &models.FetchError{Op: "reviews", Status: 500, Message: "Failed to fetch reviews.", Err: errors.New("boom")}
