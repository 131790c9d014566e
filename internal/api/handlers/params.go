package handlers

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/amaumene/marquee/internal/controllers"
	"github.com/amaumene/marquee/internal/filter"
	"github.com/amaumene/marquee/internal/models"
	"github.com/amaumene/marquee/internal/services/tmdb"
)

// mediaKey reads the {type} and {id} route variables
func mediaKey(r *http.Request) (models.MediaKey, error) {
	vars := mux.Vars(r)

	mediaType, err := models.ParseMediaType(vars["type"])
	if err != nil {
		return models.MediaKey{}, err
	}
	id, err := strconv.Atoi(vars["id"])
	if err != nil || id <= 0 {
		return models.MediaKey{}, fmt.Errorf("%w: invalid id %q", models.ErrValidation, vars["id"])
	}
	return models.NewMediaKey(id, mediaType), nil
}

func intParam(q url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", models.ErrValidation, name)
	}
	return v, nil
}

func floatParam(q url.Values, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a number", models.ErrValidation, name)
	}
	return v, nil
}

// browseRequest reads a BrowseRequest from the query string
func browseRequest(q url.Values) (controllers.BrowseRequest, error) {
	req := controllers.BrowseRequest{
		Query:  q.Get("query"),
		Filter: filter.DefaultSpec(),
	}

	if raw := q.Get("type"); raw != "" {
		t, err := models.ParseMediaType(raw)
		if err != nil {
			return req, err
		}
		req.Type = &t
	}

	feed, err := models.ParseFeed(q.Get("feed"))
	if err != nil {
		return req, err
	}
	req.Feed = feed

	if req.Window, err = tmdb.ParseTrendingWindow(q.Get("window")); err != nil {
		return req, err
	}

	if req.Page, err = intParam(q, "page", 1); err != nil {
		return req, err
	}
	if req.ResultPage, err = intParam(q, "result_page", 1); err != nil {
		return req, err
	}
	if req.PageSize, err = intParam(q, "page_size", 0); err != nil {
		return req, err
	}

	// genre is either a provider id or a name
	if raw := strings.TrimSpace(q.Get("genre")); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			req.Filter = req.Filter.WithGenre(id)
		} else {
			req.GenreName = raw
		}
	}
	if q.Get("year") != "" {
		year, err := intParam(q, "year", 0)
		if err != nil {
			return req, err
		}
		req.Filter = req.Filter.WithYear(year)
	}

	minRating, err := floatParam(q, "min_rating", filter.MinRating)
	if err != nil {
		return req, err
	}
	maxRating, err := floatParam(q, "max_rating", filter.MaxRating)
	if err != nil {
		return req, err
	}
	req.Filter = req.Filter.WithRating(minRating, maxRating)

	if req.Sort, err = filter.ParseSortKey(q.Get("sort")); err != nil {
		return req, err
	}
	if req.Order, err = filter.ParseOrder(q.Get("order")); err != nil {
		return req, err
	}
	return req, nil
}
