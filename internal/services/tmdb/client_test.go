package tmdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/amaumene/marquee/internal/config"
	"github.com/amaumene/marquee/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		TMDBAPIKey:       "test-key",
		TMDBBaseURL:      srv.URL,
		TMDBImageBaseURL: "https://img.test/t/p",
		TMDBLanguage:     "en-US",
		TMDBTimeout:      5 * time.Second,
	}
	return NewClient(cfg, logger, opts...)
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}
}

const fightClub = `{
	"id": 550,
	"title": "Fight Club",
	"poster_path": "/poster.jpg",
	"backdrop_path": "/backdrop.jpg",
	"vote_average": 8.4,
	"popularity": 61.4,
	"genres": [{"id": 18, "name": "Drama"}, {"id": 53, "name": "Thriller"}],
	"release_date": "1999-10-15",
	"overview": "A ticking-time-bomb insomniac...",
	"runtime": 139,
	"revenue": 100853753,
	"original_language": "en",
	"production_countries": [{"iso_3166_1": "US", "name": "United States of America"}],
	"credits": {
		"cast": [
			{"id": 819, "name": "Edward Norton", "character": "The Narrator", "profile_path": "/norton.jpg"},
			{"id": 287, "name": "Brad Pitt", "character": "Tyler Durden", "profile_path": null}
		],
		"crew": [
			{"id": 1, "name": "Someone Else", "job": "Producer"},
			{"id": 7467, "name": "David Fincher", "job": "Director"}
		]
	},
	"videos": {"results": [
		{"key": "teaser1", "site": "YouTube", "type": "Teaser"},
		{"key": "trailer1", "site": "YouTube", "type": "Trailer"},
		{"key": "trailer2", "site": "YouTube", "type": "Trailer"}
	]}
}`

func TestGetMediaNormalizesMovie(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/550", r.URL.Path)
		gotQuery = r.URL.Query()
		jsonHandler(fightClub)(w, r)
	}))

	rec, err := client.GetMedia(context.Background(), models.NewMediaKey(550, models.MediaTypeMovie))
	require.NoError(t, err)

	assert.Equal(t, []string{"test-key"}, gotQuery["api_key"])
	assert.Equal(t, []string{"en-US"}, gotQuery["language"])
	assert.Equal(t, []string{"credits,videos"}, gotQuery["append_to_response"])

	assert.Equal(t, "Fight Club", rec.Title)
	assert.Equal(t, models.MediaTypeMovie, rec.Type)
	assert.Equal(t, "https://img.test/t/p/w500/poster.jpg", rec.PosterURL)
	assert.Equal(t, "https://img.test/t/p/original/backdrop.jpg", rec.BackdropURL)
	assert.Equal(t, []int{18, 53}, rec.GenreIDs)
	assert.Equal(t, []string{"Drama", "Thriller"}, rec.GenreNames)
	assert.Equal(t, 1999, rec.ReleaseYear)
	assert.Equal(t, "1999-10-15", rec.ReleaseDate)
	assert.Equal(t, "David Fincher", rec.Director)
	assert.Equal(t, "trailer1", rec.TrailerKey)
	assert.Equal(t, 139, rec.RuntimeMinutes)
	assert.Equal(t, "139 min", rec.Duration)
	assert.Equal(t, "$100.9M", rec.BoxOffice)
	assert.Equal(t, "en", rec.Language)
	assert.Equal(t, "United States of America", rec.Country)

	require.Len(t, rec.Cast, 2)
	assert.Equal(t, "https://img.test/t/p/w200/norton.jpg", rec.Cast[0].ProfileURL)
	assert.Equal(t, models.PlaceholderProfile, rec.Cast[1].ProfileURL)
	assert.Equal(t, "Tyler Durden", rec.Cast[1].Character)
}

func TestGetMediaNormalizesSparseShow(t *testing.T) {
	client := newTestClient(t, jsonHandler(`{
		"id": 1399,
		"name": "Game of Thrones",
		"first_air_date": "2011-04-17",
		"vote_average": 12,
		"episode_run_time": [],
		"credits": {"cast": [
			{"id":1,"name":"a"},{"id":2,"name":"b"},{"id":3,"name":"c"},{"id":4,"name":"d"},
			{"id":5,"name":"e"},{"id":6,"name":"f"},{"id":7,"name":"g"},{"id":8,"name":"h"},
			{"id":9,"name":"i"},{"id":10,"name":"j"}
		]}
	}`))

	rec, err := client.GetMedia(context.Background(), models.NewMediaKey(1399, models.MediaTypeTV))
	require.NoError(t, err)

	assert.Equal(t, "Game of Thrones", rec.Title)
	assert.Equal(t, 2011, rec.ReleaseYear)
	assert.Equal(t, 10.0, rec.Rating)
	assert.Equal(t, models.PlaceholderImage, rec.PosterURL)
	assert.Equal(t, models.PlaceholderImage, rec.BackdropURL)
	assert.Equal(t, models.NoDescription, rec.Overview)
	assert.Equal(t, models.UnknownText, rec.Director)
	assert.Equal(t, models.UnknownText, rec.Language)
	assert.Equal(t, models.UnknownText, rec.Country)
	assert.Equal(t, models.NoBoxOffice, rec.BoxOffice)
	assert.Equal(t, "0 min", rec.Duration)
	assert.Empty(t, rec.TrailerKey)
	assert.Empty(t, rec.GenreIDs)
	assert.Len(t, rec.Cast, models.MaxCastMembers)
	assert.Equal(t, "h", rec.Cast[7].Name)
}

func TestGetMediaMissingDateIsUnknown(t *testing.T) {
	client := newTestClient(t, jsonHandler(`{"id": 1, "title": "Untitled"}`))

	rec, err := client.GetMedia(context.Background(), models.NewMediaKey(1, models.MediaTypeMovie))
	require.NoError(t, err)
	assert.Equal(t, models.UnknownYear, rec.ReleaseYear)
	assert.Equal(t, models.UnknownText, rec.ReleaseDate)
}

func TestGetMediaNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_code":34}`, http.StatusNotFound)
	}))

	key := models.NewMediaKey(999999, models.MediaTypeMovie)
	_, err := client.GetMedia(context.Background(), key)

	var notFound *models.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, key, notFound.Key)
}

func TestProviderErrorIsFetchError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.GetReviews(context.Background(), models.NewMediaKey(550, models.MediaTypeMovie), 1)

	var fetchErr *models.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusInternalServerError, fetchErr.Status)
	assert.Equal(t, "Failed to fetch reviews.", models.UserMessage(err))
}

func TestTransportErrorIsFetchError(t *testing.T) {
	client := newTestClient(t, jsonHandler(`{}`))
	client.baseURL = "http://127.0.0.1:1"

	_, err := client.Popular(context.Background(), models.MediaTypeMovie, 1)

	var fetchErr *models.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, 0, fetchErr.Status)
	assert.Equal(t, "Failed to fetch popular movies.", fetchErr.Message)
}

func TestGetImages(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/1399/images", r.URL.Path)
		gotQuery = r.URL.Query()
		jsonHandler(`{"backdrops": [{"file_path": "/a.jpg"}, {"file_path": ""}, {"file_path": "/b.jpg"}]}`)(w, r)
	}))

	urls, err := client.GetImages(context.Background(), models.NewMediaKey(1399, models.MediaTypeTV))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://img.test/t/p/original/a.jpg",
		"https://img.test/t/p/original/b.jpg",
	}, urls)
	assert.NotContains(t, gotQuery, "language")
}

func TestGetReviews(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/550/reviews", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		jsonHandler(`{"page": 2, "total_pages": 3, "results": [
			{"id": "r1", "author": "critic", "content": "Great", "created_at": "2017-02-13T23:16:19.538Z"},
			{"id": "r2", "author": "", "content": "Fine", "created_at": "2018-01-01T00:00:00Z"}
		]}`)(w, r)
	}))

	page, err := client.GetReviews(context.Background(), models.NewMediaKey(550, models.MediaTypeMovie), 2)
	require.NoError(t, err)

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Reviews, 2)
	assert.Equal(t, models.ReviewKindRemote, page.Reviews[0].Kind)
	assert.Equal(t, 0, page.Reviews[0].Upvotes)
	assert.Equal(t, 0, page.Reviews[0].Downvotes)
	assert.Equal(t, 2017, page.Reviews[0].CreatedAt.Year())
	assert.Equal(t, "Anonymous", page.Reviews[1].Author)
}

func TestPopularPeople(t *testing.T) {
	client := newTestClient(t, jsonHandler(`{"page": 1, "results": [
		{"id": 287, "name": "Brad Pitt", "known_for_department": "Acting", "profile_path": "/brad.jpg",
		 "known_for": [{"title": "Fight Club"}, {"name": "Some Show"}]},
		{"id": 2, "name": "No Photo"}
	]}`))

	people, err := client.PopularPeople(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, people, 2)

	assert.Equal(t, "https://img.test/t/p/w500/brad.jpg", people[0].ProfileURL)
	assert.Equal(t, []string{"Fight Club", "Some Show"}, people[0].KnownFor)
	assert.Equal(t, models.PlaceholderProfile, people[1].ProfileURL)
	assert.Equal(t, models.UnknownText, people[1].Department)

	fav := people[0].Favorite()
	assert.Equal(t, 287, fav.ID)
	assert.Equal(t, "Acting", fav.Department)
}

func TestGenres(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/genre/movie/list", r.URL.Path)
		jsonHandler(`{"genres": [{"id": 28, "name": "Action"}]}`)(w, r)
	}))

	genres, err := client.Genres(context.Background(), models.MediaTypeMovie)
	require.NoError(t, err)
	assert.Equal(t, []models.Genre{{ID: 28, Name: "Action"}}, genres)
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	client := newTestClient(t, jsonHandler(`{}`))

	_, err := client.Search(context.Background(), models.MediaTypeMovie, "  ", 1)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = client.SearchAll(context.Background(), "", 1)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestTrendingWindow(t *testing.T) {
	var path string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		jsonHandler(`{"page": 1, "total_pages": 1, "results": []}`)(w, r)
	}))

	_, err := client.Trending(context.Background(), models.MediaTypeTV, TrendingDay)
	require.NoError(t, err)
	assert.Equal(t, "/trending/tv/day", path)

	_, err = client.Trending(context.Background(), models.MediaTypeMovie, "")
	require.NoError(t, err)
	assert.Equal(t, "/trending/movie/week", path)
}

func TestParseTrendingWindow(t *testing.T) {
	for in, want := range map[string]TrendingWindow{"": TrendingWeek, "week": TrendingWeek, " Day ": TrendingDay} {
		got, err := ParseTrendingWindow(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseTrendingWindow("month")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSearchAllRunsConcurrentlyAndOrdersMoviesFirst(t *testing.T) {
	var arrived sync.WaitGroup
	arrived.Add(2)
	bothArrived := make(chan struct{})
	go func() {
		arrived.Wait()
		close(bothArrived)
	}()

	mux := http.NewServeMux()
	respond := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "matrix", r.URL.Query().Get("query"))
			arrived.Done()
			select {
			case <-bothArrived:
			case <-time.After(2 * time.Second):
				http.Error(w, "requests were not concurrent", http.StatusInternalServerError)
				return
			}
			jsonHandler(body)(w, r)
		}
	}
	mux.HandleFunc("/search/movie", respond(`{"results": [{"id": 603, "title": "The Matrix", "release_date": "1999-03-31"}]}`))
	mux.HandleFunc("/search/tv", respond(`{"results": [{"id": 603, "name": "Matrix", "first_air_date": "1993-03-01"}]}`))

	client := newTestClient(t, mux)
	records, err := client.SearchAll(context.Background(), "matrix", 1)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, models.NewMediaKey(603, models.MediaTypeMovie), records[0].Key())
	assert.Equal(t, models.NewMediaKey(603, models.MediaTypeTV), records[1].Key())
	assert.Equal(t, 1993, records[1].ReleaseYear)
}

func TestPopularAllFailsAsAWhole(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/popular", jsonHandler(`{"results": [{"id": 1, "title": "Fine"}]}`))
	mux.HandleFunc("/tv/popular", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	client := newTestClient(t, mux)
	records, err := client.PopularAll(context.Background(), 1)

	require.Error(t, err)
	assert.Nil(t, records)
	assert.Equal(t, "Failed to fetch popular TV shows.", models.UserMessage(err))
}

func TestRequestsAreTracedAndCounted(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	metrics := NewMetrics(prometheus.NewRegistry())

	mux := http.NewServeMux()
	mux.HandleFunc("/movie/550", jsonHandler(fightClub))
	client := newTestClient(t, mux, WithTracerProvider(tp), WithMetrics(metrics))

	_, err := client.GetMedia(context.Background(), models.NewMediaKey(550, models.MediaTypeMovie))
	require.NoError(t, err)
	_, err = client.GetMedia(context.Background(), models.NewMediaKey(551, models.MediaTypeMovie))
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "tmdb.movie/details", spans[0].Name())

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("movie/details", outcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("movie/details", outcomeNotFound)))
}
