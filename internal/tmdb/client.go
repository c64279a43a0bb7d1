package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pders01/reel/internal/config"
)

const (
	defaultTimeout = 15 * time.Second
	// PosterSize is the image width bucket used for poster URLs.
	PosterSize = "w500"

	maxBodyBytes = 4 << 20
)

// Options configure a Client. Zero values fall back to TMDb defaults.
type Options struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Language     string
	UserAgent    string
	Timeout      time.Duration
}

type Client struct {
	opts   Options
	client *http.Client
}

func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = config.DefaultBaseURL
	}
	if opts.ImageBaseURL == "" {
		opts.ImageBaseURL = config.DefaultImageBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	opts.ImageBaseURL = strings.TrimRight(opts.ImageBaseURL, "/")

	return &Client{
		opts: opts,
		client: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// FromConfig builds a Client from the [tmdb] config section.
func FromConfig(cfg config.TMDBConfig) *Client {
	return New(Options{
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		ImageBaseURL: cfg.ImageBaseURL,
		Language:     cfg.Language,
		UserAgent:    cfg.UserAgent,
		Timeout:      cfg.HTTPTimeout,
	})
}

// HasAPIKey reports whether a key is configured. Requests are still sent
// without one and fail with an authorization error from the service.
func (c *Client) HasAPIKey() bool {
	return c.opts.APIKey != ""
}

// DiscoverURL is the popularity-sorted discovery endpoint.
func (c *Client) DiscoverURL() string {
	q := url.Values{}
	q.Set("sort_by", "popularity.desc")
	c.commonParams(q)
	return c.opts.BaseURL + "/discover/movie?" + q.Encode()
}

// SearchURL is the search endpoint for query, URL-encoded.
func (c *Client) SearchURL(query string) string {
	q := url.Values{}
	q.Set("query", query)
	c.commonParams(q)
	return c.opts.BaseURL + "/search/movie?" + q.Encode()
}

func (c *Client) commonParams(q url.Values) {
	q.Set("include_adult", "false")
	if c.opts.Language != "" {
		q.Set("language", c.opts.Language)
	}
}

// EndpointFor picks discovery for an empty query and search otherwise.
func (c *Client) EndpointFor(query string) string {
	if query == "" {
		return c.DiscoverURL()
	}
	return c.SearchURL(query)
}

// PosterURL returns the full image URL for a poster path, or "" if the
// movie has no poster.
func (c *Client) PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	if !strings.HasPrefix(posterPath, "/") {
		posterPath = "/" + posterPath
	}
	return c.opts.ImageBaseURL + "/" + PosterSize + posterPath
}

func (c *Client) Discover(ctx context.Context) (*Page, error) {
	return c.get(ctx, c.DiscoverURL())
}

func (c *Client) Search(ctx context.Context, query string) (*Page, error) {
	return c.get(ctx, c.SearchURL(query))
}

// Movies issues exactly one request for query and returns its results.
func (c *Client) Movies(ctx context.Context, query string) ([]Movie, error) {
	page, err := c.get(ctx, c.EndpointFor(query))
	if err != nil {
		return nil, err
	}
	if page.Results == nil {
		return []Movie{}, nil
	}
	return page.Results, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrTransport, err)
	}

	var eb errorBody
	parseErr := json.Unmarshal(body, &eb)

	if resp.StatusCode >= 400 {
		// Only a TMDb error body makes this a service-reported failure.
		if parseErr != nil || !eb.present() {
			return nil, fmt.Errorf("%w: http %d", ErrMalformed, resp.StatusCode)
		}
		return nil, &APIError{
			HTTPStatus: resp.StatusCode,
			StatusCode: eb.StatusCode,
			Message:    eb.message(),
		}
	}

	if parseErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, parseErr)
	}
	if eb.failed() {
		return nil, &APIError{
			HTTPStatus: resp.StatusCode,
			StatusCode: eb.StatusCode,
			Message:    eb.message(),
		}
	}

	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return &page, nil
}
