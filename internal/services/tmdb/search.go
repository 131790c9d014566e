package tmdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/amaumene/marquee/internal/models"
)

// TrendingWindow is the time window of the trending feed
type TrendingWindow string

const (
	TrendingDay  TrendingWindow = "day"
	TrendingWeek TrendingWindow = "week"
)

// ParseTrendingWindow validates a trending window; empty means a week
func ParseTrendingWindow(s string) (TrendingWindow, error) {
	switch TrendingWindow(strings.ToLower(strings.TrimSpace(s))) {
	case "", TrendingWeek:
		return TrendingWeek, nil
	case TrendingDay:
		return TrendingDay, nil
	default:
		return "", fmt.Errorf("%w: unknown trending window %q", models.ErrValidation, s)
	}
}

// Search searches movies or shows by title
func (c *Client) Search(ctx context.Context, mediaType models.MediaType, query string, page int) ([]models.MediaRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", models.ErrValidation)
	}

	q := pageQuery(page)
	q.Set("query", query)
	q.Set("include_adult", "false")
	return c.listing(ctx, mediaType, request{
		endpoint: string(mediaType) + "/search",
		path:     "/search/" + string(mediaType),
		query:    q,
		failure:  "Search failed. Please try again.",
	})
}

// Popular fetches the popular feed of a media type
func (c *Client) Popular(ctx context.Context, mediaType models.MediaType, page int) ([]models.MediaRecord, error) {
	return c.listing(ctx, mediaType, request{
		endpoint: string(mediaType) + "/popular",
		path:     fmt.Sprintf("/%s/popular", mediaType),
		query:    pageQuery(page),
		failure:  fmt.Sprintf("Failed to fetch popular %s.", pluralKind(mediaType)),
	})
}

// TopRated fetches the top rated feed of a media type
func (c *Client) TopRated(ctx context.Context, mediaType models.MediaType, page int) ([]models.MediaRecord, error) {
	return c.listing(ctx, mediaType, request{
		endpoint: string(mediaType) + "/top_rated",
		path:     fmt.Sprintf("/%s/top_rated", mediaType),
		query:    pageQuery(page),
		failure:  fmt.Sprintf("Failed to fetch top rated %s.", pluralKind(mediaType)),
	})
}

// Trending fetches the trending feed of a media type. An empty window means a week.
func (c *Client) Trending(ctx context.Context, mediaType models.MediaType, window TrendingWindow) ([]models.MediaRecord, error) {
	if window == "" {
		window = TrendingWeek
	}
	return c.listing(ctx, mediaType, request{
		endpoint: string(mediaType) + "/trending",
		path:     fmt.Sprintf("/trending/%s/%s", mediaType, window),
		failure:  fmt.Sprintf("Failed to fetch trending %s.", pluralKind(mediaType)),
	})
}

// Upcoming fetches movies about to be released
func (c *Client) Upcoming(ctx context.Context, page int) ([]models.MediaRecord, error) {
	return c.listing(ctx, models.MediaTypeMovie, request{
		endpoint: "movie/upcoming",
		path:     "/movie/upcoming",
		query:    pageQuery(page),
		failure:  "Failed to fetch upcoming movies.",
	})
}

// SearchAll searches movies and shows concurrently. Results are movies
// first, then shows. Either request failing fails the whole search.
func (c *Client) SearchAll(ctx context.Context, query string, page int) ([]models.MediaRecord, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", models.ErrValidation)
	}
	return c.fanOut(ctx, func(ctx context.Context, t models.MediaType) ([]models.MediaRecord, error) {
		return c.Search(ctx, t, query, page)
	})
}

// PopularAll fetches the popular movies and shows concurrently
func (c *Client) PopularAll(ctx context.Context, page int) ([]models.MediaRecord, error) {
	return c.fanOut(ctx, func(ctx context.Context, t models.MediaType) ([]models.MediaRecord, error) {
		return c.Popular(ctx, t, page)
	})
}

// TopRatedAll fetches the top rated movies and shows concurrently
func (c *Client) TopRatedAll(ctx context.Context, page int) ([]models.MediaRecord, error) {
	return c.fanOut(ctx, func(ctx context.Context, t models.MediaType) ([]models.MediaRecord, error) {
		return c.TopRated(ctx, t, page)
	})
}

// TrendingAll fetches the trending movies and shows concurrently
func (c *Client) TrendingAll(ctx context.Context, window TrendingWindow) ([]models.MediaRecord, error) {
	return c.fanOut(ctx, func(ctx context.Context, t models.MediaType) ([]models.MediaRecord, error) {
		return c.Trending(ctx, t, window)
	})
}

// fanOut runs fetch for every media type at once and concatenates the
// results in media type order once all of them are back
func (c *Client) fanOut(ctx context.Context, fetch func(context.Context, models.MediaType) ([]models.MediaRecord, error)) ([]models.MediaRecord, error) {
	results := make([][]models.MediaRecord, len(models.MediaTypes))

	p := pool.New().WithErrors().WithContext(ctx)
	for i, t := range models.MediaTypes {
		i, t := i, t
		p.Go(func(ctx context.Context) error {
			records, err := fetch(ctx, t)
			if err != nil {
				return fmt.Errorf("failed to fetch %s results: %w", t, err)
			}
			results[i] = records
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, r := range results {
		total += len(r)
	}
	merged := make([]models.MediaRecord, 0, total)
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged, nil
}

func (c *Client) listing(ctx context.Context, mediaType models.MediaType, req request) ([]models.MediaRecord, error) {
	var raw pagedResponse[mediaResult]
	if err := c.doRequest(ctx, req, &raw); err != nil {
		return nil, err
	}
	return c.normalizeList(raw.Results, mediaType), nil
}

func pluralKind(t models.MediaType) string {
	if t == models.MediaTypeTV {
		return "TV shows"
	}
	return "movies"
}
