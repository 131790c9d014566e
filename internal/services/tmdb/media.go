package tmdb

import (
	"context"
	"fmt"
	"net/url"

	"github.com/amaumene/marquee/internal/models"
)

// GetMedia fetches one movie or show with its credits and videos
func (c *Client) GetMedia(ctx context.Context, key models.MediaKey) (models.MediaRecord, error) {
	var raw mediaResult
	err := c.doRequest(ctx, request{
		endpoint: string(key.Type) + "/details",
		path:     fmt.Sprintf("/%s/%d", key.Type, key.ID),
		query:    url.Values{"append_to_response": {"credits,videos"}},
		failure:  fmt.Sprintf("Failed to fetch %s details.", kindName(key.Type)),
	}, &raw)
	if err != nil {
		return models.MediaRecord{}, notFound(err, key)
	}

	if raw.ID == 0 {
		raw.ID = key.ID
	}
	return c.normalizeDetail(raw, key.Type), nil
}

// GetImages fetches the backdrop gallery of a movie or show as full size URLs
func (c *Client) GetImages(ctx context.Context, key models.MediaKey) ([]string, error) {
	var raw imagesResponse
	err := c.doRequest(ctx, request{
		endpoint:    string(key.Type) + "/images",
		path:        fmt.Sprintf("/%s/%d/images", key.Type, key.ID),
		failure:     "Failed to fetch images.",
		unlocalized: true,
	}, &raw)
	if err != nil {
		return nil, notFound(err, key)
	}

	urls := make([]string, 0, len(raw.Backdrops))
	for _, img := range raw.Backdrops {
		if img.FilePath == "" {
			continue
		}
		urls = append(urls, c.imageURL(originalSize, img.FilePath, ""))
	}
	return urls, nil
}

// Genres fetches the genre list of a media type
func (c *Client) Genres(ctx context.Context, mediaType models.MediaType) ([]models.Genre, error) {
	var raw genreList
	err := c.doRequest(ctx, request{
		endpoint: string(mediaType) + "/genres",
		path:     fmt.Sprintf("/genre/%s/list", mediaType),
		failure:  "Failed to fetch genres.",
	}, &raw)
	if err != nil {
		return nil, err
	}

	genres := make([]models.Genre, 0, len(raw.Genres))
	for _, g := range raw.Genres {
		genres = append(genres, models.Genre{ID: g.ID, Name: g.Name})
	}
	return genres, nil
}

func kindName(t models.MediaType) string {
	if t == models.MediaTypeTV {
		return "TV show"
	}
	return "movie"
}
