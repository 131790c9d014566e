package tmdb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amaumene/marquee/internal/models"
)

const (
	posterSize   = "w500"
	backdropSize = "w1280"
	profileSize  = "w200"
	originalSize = "original"

	trailerType     = "Trailer"
	directorJob     = "Director"
	anonymousAuthor = "Anonymous"
)

// normalize turns a provider payload into a MediaRecord, substituting
// defaults for every missing field
func (c *Client) normalize(raw mediaResult, mediaType models.MediaType) models.MediaRecord {
	title := firstNonEmpty(raw.Title, raw.Name, models.UnknownText)

	date := raw.ReleaseDate
	if mediaType == models.MediaTypeTV || date == "" {
		date = firstNonEmpty(raw.FirstAirDate, raw.ReleaseDate)
	}

	poster := c.imageURL(posterSize, raw.PosterPath, models.PlaceholderImage)

	genreIDs := raw.GenreIDs
	var genreNames []string
	if len(raw.Genres) > 0 {
		genreIDs = make([]int, 0, len(raw.Genres))
		genreNames = make([]string, 0, len(raw.Genres))
		for _, g := range raw.Genres {
			genreIDs = append(genreIDs, g.ID)
			genreNames = append(genreNames, g.Name)
		}
	}
	if genreIDs == nil {
		genreIDs = []int{}
	}

	return models.MediaRecord{
		ID:          raw.ID,
		Type:        mediaType,
		Title:       title,
		PosterURL:   poster,
		BackdropURL: c.imageURL(backdropSize, raw.BackdropPath, poster),
		Rating:      clampRating(raw.VoteAverage),
		Popularity:  raw.Popularity,
		GenreIDs:    append([]int(nil), genreIDs...),
		GenreNames:  genreNames,
		ReleaseYear: releaseYear(date),
		ReleaseDate: firstNonEmpty(date, models.UnknownText),
		Overview:    firstNonEmpty(strings.TrimSpace(raw.Overview), models.NoDescription),
	}
}

// normalizeDetail adds the fields only present on the by-id payload
func (c *Client) normalizeDetail(raw mediaResult, mediaType models.MediaType) models.MediaRecord {
	rec := c.normalize(raw, mediaType)
	rec.BackdropURL = c.imageURL(originalSize, raw.BackdropPath, rec.PosterURL)

	rec.Cast = []models.CastMember{}
	rec.Director = models.UnknownText
	if raw.Credits != nil {
		for _, member := range raw.Credits.Cast {
			if len(rec.Cast) == models.MaxCastMembers {
				break
			}
			rec.Cast = append(rec.Cast, models.CastMember{
				ID:         member.ID,
				Name:       member.Name,
				Character:  member.Character,
				ProfileURL: c.imageURL(profileSize, member.ProfilePath, models.PlaceholderProfile),
			})
		}
		for _, crew := range raw.Credits.Crew {
			if crew.Job == directorJob && crew.Name != "" {
				rec.Director = crew.Name
				break
			}
		}
	}

	if raw.Videos != nil {
		for _, v := range raw.Videos.Results {
			if v.Type == trailerType && v.Key != "" {
				rec.TrailerKey = v.Key
				break
			}
		}
	}

	rec.RuntimeMinutes = raw.Runtime
	if mediaType == models.MediaTypeTV {
		rec.RuntimeMinutes = 0
		if len(raw.EpisodeRunTime) > 0 {
			rec.RuntimeMinutes = raw.EpisodeRunTime[0]
		}
	}
	rec.Duration = fmt.Sprintf("%d min", rec.RuntimeMinutes)

	rec.BoxOffice = models.NoBoxOffice
	if raw.Revenue > 0 {
		rec.BoxOffice = fmt.Sprintf("$%.1fM", float64(raw.Revenue)/1e6)
	}

	rec.Language = firstNonEmpty(raw.OriginalLanguage, models.UnknownText)
	rec.Country = models.UnknownText
	if len(raw.ProductionCountries) > 0 && raw.ProductionCountries[0].Name != "" {
		rec.Country = raw.ProductionCountries[0].Name
	}

	return rec
}

func (c *Client) normalizeList(results []mediaResult, mediaType models.MediaType) []models.MediaRecord {
	records := make([]models.MediaRecord, 0, len(results))
	for _, r := range results {
		records = append(records, c.normalize(r, mediaType))
	}
	return records
}

func normalizeReview(raw reviewResult) models.Review {
	return models.Review{
		ID:        raw.ID,
		Kind:      models.ReviewKindRemote,
		Author:    firstNonEmpty(strings.TrimSpace(raw.Author), anonymousAuthor),
		Content:   raw.Content,
		CreatedAt: raw.CreatedAt,
	}
}

func (c *Client) normalizePerson(raw personResult) models.Person {
	p := models.Person{
		ID:          raw.ID,
		Name:        firstNonEmpty(raw.Name, models.UnknownText),
		Department:  firstNonEmpty(raw.KnownForDepartment, models.UnknownText),
		ProfileURL:  c.imageURL(posterSize, raw.ProfilePath, models.PlaceholderProfile),
		ProfilePath: raw.ProfilePath,
	}
	for _, m := range raw.KnownFor {
		if title := firstNonEmpty(m.Title, m.Name); title != "" {
			p.KnownFor = append(p.KnownFor, title)
		}
	}
	return p
}

func clampRating(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 10:
		return 10
	default:
		return r
	}
}

// releaseYear reads the year of a YYYY-MM-DD date
func releaseYear(date string) int {
	if len(date) < 4 {
		return models.UnknownYear
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year <= 0 {
		return models.UnknownYear
	}
	return year
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
