package tmdb

import (
	"context"

	"github.com/amaumene/marquee/internal/models"
)

// PopularPeople fetches the popular people feed
func (c *Client) PopularPeople(ctx context.Context, page int) ([]models.Person, error) {
	var raw pagedResponse[personResult]
	err := c.doRequest(ctx, request{
		endpoint: "person/popular",
		path:     "/person/popular",
		query:    pageQuery(page),
		failure:  "Failed to fetch popular people.",
	}, &raw)
	if err != nil {
		return nil, err
	}

	people := make([]models.Person, 0, len(raw.Results))
	for _, p := range raw.Results {
		people = append(people, c.normalizePerson(p))
	}
	return people, nil
}
