package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/amaumene/marquee/internal/config"
	"github.com/amaumene/marquee/internal/models"
)

const tracerName = "github.com/amaumene/marquee/internal/services/tmdb"

const (
	outcomeSuccess  = "success"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

// Client handles communication with the TMDB API
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	language     string
	httpClient   *http.Client
	logger       *logrus.Logger
	tracer       trace.Tracer
	metrics      *Metrics
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTracerProvider sets the provider used to trace requests.
// The global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// WithMetrics counts requests in m
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a new TMDB API client
func NewClient(cfg *config.Config, logger *logrus.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:       cfg.TMDBAPIKey,
		baseURL:      cfg.TMDBBaseURL,
		imageBaseURL: cfg.TMDBImageBaseURL,
		language:     cfg.TMDBLanguage,
		httpClient:   &http.Client{Timeout: cfg.TMDBTimeout},
		logger:       logger,
		tracer:       otel.GetTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request describes one provider call
type request struct {
	endpoint    string // low-cardinality name used for spans and metrics
	path        string
	query       url.Values
	failure     string // user-displayable message when the call fails
	unlocalized bool   // skip the language parameter
}

// doRequest performs a GET request against the TMDB API and decodes the
// JSON body into result
func (c *Client) doRequest(ctx context.Context, req request, result interface{}) (err error) {
	ctx, span := c.tracer.Start(ctx, "tmdb."+req.endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("tmdb.endpoint", req.endpoint),
			attribute.String("http.path", req.path),
		),
	)
	defer func() {
		outcome := outcomeSuccess
		if err != nil {
			outcome = outcomeError
			var fetchErr *models.FetchError
			if errors.As(err, &fetchErr) && fetchErr.Status == http.StatusNotFound {
				outcome = outcomeNotFound
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.SetAttributes(attribute.String("tmdb.outcome", outcome))
		span.End()
		c.metrics.observe(req.endpoint, outcome)
	}()

	query := url.Values{}
	for k, v := range req.query {
		query[k] = v
	}
	query.Set("api_key", c.apiKey)
	if !req.unlocalized && c.language != "" {
		query.Set("language", c.language)
	}
	fullURL := c.baseURL + req.path + "?" + query.Encode()

	// The api key travels in the query string, so only the path is logged
	c.logger.WithFields(logrus.Fields{
		"endpoint": req.endpoint,
		"path":     req.path,
	}).Debug("Making TMDB API request")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return c.fetchError(req, 0, fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.fetchError(req, 0, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	// Check status code
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return c.fetchError(req, resp.StatusCode,
			fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes)))
	}

	// Parse response
	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return c.fetchError(req, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
		}
	}

	return nil
}

func (c *Client) fetchError(req request, status int, err error) error {
	c.logger.WithFields(logrus.Fields{
		"endpoint": req.endpoint,
		"path":     req.path,
		"status":   status,
	}).WithError(err).Warn("TMDB API request failed")

	return &models.FetchError{
		Op:      req.path,
		Status:  status,
		Message: req.failure,
		Err:     err,
	}
}

// notFound converts a 404 fetch error for key into a NotFoundError
func notFound(err error, key models.MediaKey) error {
	var fetchErr *models.FetchError
	if errors.As(err, &fetchErr) && fetchErr.Status == http.StatusNotFound {
		return &models.NotFoundError{Key: key}
	}
	return err
}

// imageURL builds a CDN URL for a provider image path, or returns fallback
// when the provider sent none
func (c *Client) imageURL(size, path, fallback string) string {
	if path == "" {
		return fallback
	}
	return c.imageBaseURL + "/" + size + path
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {fmt.Sprint(page)}}
}
