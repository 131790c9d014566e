package controllers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"github.com/amaumene/marquee/internal/filter"
	"github.com/amaumene/marquee/internal/models"
	"github.com/amaumene/marquee/internal/services/tmdb"
	"github.com/amaumene/marquee/internal/utils"
)

// Catalog is the listing side of the media catalog
type Catalog interface {
	Search(ctx context.Context, mediaType models.MediaType, query string, page int) ([]models.MediaRecord, error)
	SearchAll(ctx context.Context, query string, page int) ([]models.MediaRecord, error)
	Popular(ctx context.Context, mediaType models.MediaType, page int) ([]models.MediaRecord, error)
	PopularAll(ctx context.Context, page int) ([]models.MediaRecord, error)
	TopRated(ctx context.Context, mediaType models.MediaType, page int) ([]models.MediaRecord, error)
	TopRatedAll(ctx context.Context, page int) ([]models.MediaRecord, error)
	Trending(ctx context.Context, mediaType models.MediaType, window tmdb.TrendingWindow) ([]models.MediaRecord, error)
	TrendingAll(ctx context.Context, window tmdb.TrendingWindow) ([]models.MediaRecord, error)
	Upcoming(ctx context.Context, page int) ([]models.MediaRecord, error)
	Genres(ctx context.Context, mediaType models.MediaType) ([]models.Genre, error)
	PopularPeople(ctx context.Context, page int) ([]models.Person, error)
}

// BrowseRequest describes one list page
type BrowseRequest struct {
	Query      string            // searches when not empty, otherwise Feed is listed
	Type       *models.MediaType // nil lists movies and shows together
	Feed       models.Feed
	Window     tmdb.TrendingWindow // trending feed only; empty means a week
	Page       int                 // provider page
	Filter     filter.Spec
	GenreName  string // resolved to Filter.Genre when Filter.Genre is nil
	Sort       filter.SortKey
	Order      filter.Order
	ResultPage int // page of the filtered results
	PageSize   int
}

// BrowseResult is a filtered, sorted and paginated listing
type BrowseResult struct {
	filter.Page
	Filter filter.Spec   `json:"filter"`
	Genre  *models.Genre `json:"genre,omitempty"`
}

// BrowseController builds list pages from the catalog and the filter engine
type BrowseController struct {
	catalog  Catalog
	genres   *utils.GenreResolver
	pageSize int
	logger   *logrus.Logger

	mu           sync.Mutex
	genresLoaded bool
}

// NewBrowseController creates a new browse controller
func NewBrowseController(catalog Catalog, genres *utils.GenreResolver, pageSize int, logger *logrus.Logger) *BrowseController {
	if pageSize <= 0 || pageSize > filter.MaxPageSize {
		pageSize = filter.DefaultPageSize
	}
	return &BrowseController{
		catalog:  catalog,
		genres:   genres,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Browse fetches a listing and narrows it with the request filter
func (c *BrowseController) Browse(ctx context.Context, req BrowseRequest) (*BrowseResult, error) {
	spec := req.Filter.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	if err := c.ensureGenres(ctx); err != nil {
		if req.GenreName != "" && spec.Genre == nil {
			return nil, err
		}
		c.logger.WithError(err).Warn("Failed to load genres, genre names will be missing")
	}

	var genre *models.Genre
	if name := strings.TrimSpace(req.GenreName); name != "" && spec.Genre == nil {
		g, ok := c.genres.Resolve(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown genre %q", models.ErrValidation, name)
		}
		genre = &g
		spec = spec.WithGenre(g.ID)
	}

	records, err := c.fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	records = c.withGenreNames(dedupe(records))

	filtered := filter.Apply(records, spec)
	sorted := filter.Sort(filtered, req.Sort, req.Order)

	size := req.PageSize
	if size <= 0 {
		size = c.pageSize
	}
	page := filter.Paginate(sorted, req.ResultPage, size)

	c.logger.WithFields(logrus.Fields{
		"query":    req.Query,
		"feed":     req.Feed,
		"fetched":  len(records),
		"filtered": len(filtered),
	}).Debug("Browse listing built")

	return &BrowseResult{Page: page, Filter: spec, Genre: genre}, nil
}

// Genres returns every known genre name, loading them when needed
func (c *BrowseController) Genres(ctx context.Context) ([]models.Genre, error) {
	p := pool.NewWithResults[[]models.Genre]().WithErrors().WithContext(ctx)
	for _, t := range models.MediaTypes {
		t := t
		p.Go(func(ctx context.Context) ([]models.Genre, error) {
			return c.catalog.Genres(ctx, t)
		})
	}
	lists, err := p.Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch genres: %w", err)
	}

	seen := make(map[int]bool)
	var all []models.Genre
	for _, list := range lists {
		for _, g := range list {
			if !seen[g.ID] {
				seen[g.ID] = true
				all = append(all, g)
			}
		}
	}
	c.genres.Update(all)
	return all, nil
}

// PopularPeople lists the popular people feed
func (c *BrowseController) PopularPeople(ctx context.Context, page int) ([]models.Person, error) {
	people, err := c.catalog.PopularPeople(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch popular people: %w", err)
	}
	return people, nil
}

func (c *BrowseController) fetch(ctx context.Context, req BrowseRequest) ([]models.MediaRecord, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}

	if query := strings.TrimSpace(req.Query); query != "" {
		if req.Type == nil {
			return c.catalog.SearchAll(ctx, query, page)
		}
		return c.catalog.Search(ctx, *req.Type, query, page)
	}

	switch req.Feed {
	case models.FeedTopRated:
		if req.Type == nil {
			return c.catalog.TopRatedAll(ctx, page)
		}
		return c.catalog.TopRated(ctx, *req.Type, page)
	case models.FeedTrending:
		window := req.Window
		if window == "" {
			window = tmdb.TrendingWeek
		}
		if req.Type == nil {
			return c.catalog.TrendingAll(ctx, window)
		}
		return c.catalog.Trending(ctx, *req.Type, window)
	case models.FeedUpcoming:
		if req.Type != nil && *req.Type != models.MediaTypeMovie {
			return nil, fmt.Errorf("%w: the upcoming feed only lists movies", models.ErrValidation)
		}
		return c.catalog.Upcoming(ctx, page)
	default:
		if req.Type == nil {
			return c.catalog.PopularAll(ctx, page)
		}
		return c.catalog.Popular(ctx, *req.Type, page)
	}
}

// ensureGenres loads the genre lists once. A failed load is retried on the
// next call.
func (c *BrowseController) ensureGenres(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.genresLoaded {
		return nil
	}
	if _, err := c.Genres(ctx); err != nil {
		return err
	}
	c.genresLoaded = true
	return nil
}

func (c *BrowseController) withGenreNames(records []models.MediaRecord) []models.MediaRecord {
	for i := range records {
		if len(records[i].GenreNames) == 0 && len(records[i].GenreIDs) > 0 {
			records[i].GenreNames = c.genres.Names(records[i].GenreIDs)
		}
	}
	return records
}

// dedupe drops records whose key already appeared, keeping the first one
func dedupe(records []models.MediaRecord) []models.MediaRecord {
	seen := make(map[models.MediaKey]bool, len(records))
	out := make([]models.MediaRecord, 0, len(records))
	for _, r := range records {
		if seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true
		out = append(out, r)
	}
	return out
}
