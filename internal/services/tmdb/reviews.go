package tmdb

import (
	"context"
	"fmt"

	"github.com/amaumene/marquee/internal/models"
)

// GetReviews fetches one page of provider reviews. Provider reviews carry no
// votes, so every counter starts at zero.
func (c *Client) GetReviews(ctx context.Context, key models.MediaKey, page int) (models.ReviewPage, error) {
	var raw pagedResponse[reviewResult]
	err := c.doRequest(ctx, request{
		endpoint: string(key.Type) + "/reviews",
		path:     fmt.Sprintf("/%s/%d/reviews", key.Type, key.ID),
		query:    pageQuery(page),
		failure:  "Failed to fetch reviews.",
	}, &raw)
	if err != nil {
		return models.ReviewPage{}, notFound(err, key)
	}

	reviews := make([]models.Review, 0, len(raw.Results))
	for _, r := range raw.Results {
		if r.ID == "" {
			continue
		}
		reviews = append(reviews, normalizeReview(r))
	}

	if raw.Page == 0 {
		raw.Page = page
	}
	return models.ReviewPage{
		Page:       raw.Page,
		TotalPages: raw.TotalPages,
		Reviews:    reviews,
	}, nil
}
