// Package metadata wraps the two remote movie databases the app fronts:
// OMDB for search and per-title detail, TMDB for the trending and
// top-rated billboards and for TMDB -> IMDb id translation. Both are
// treated as unreliable remotes: every call takes a context, is rate
// limited, and retries transient failures with backoff.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// OMDB's free tier is tight, keep well under it
	omdbRateLimit = 4
	omdbRateBurst = 8

	maxRetries   = 3
	initialDelay = 500 * time.Millisecond
)

// ErrMovieNotFound is returned when the provider has no record for an id.
var ErrMovieNotFound = errors.New("movie not found")

// SearchResult is one OMDB search hit.
type SearchResult struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// MovieDetails is the full OMDB record for one title.
type MovieDetails struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	ImdbRating string `json:"imdbRating"`
	ImdbVotes  string `json:"imdbVotes"`
	ImdbID     string `json:"imdbID"`
	Type       string `json:"Type"`
	BoxOffice  string `json:"BoxOffice"`
	Response   string `json:"Response"`
}

// OMDBClient handles OMDB API requests with rate limiting and retry logic.
type OMDBClient struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

func NewOMDBClient(baseURL, apiKey string) *OMDBClient {
	return &OMDBClient{
		baseURL:     baseURL,
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Limit(omdbRateLimit), omdbRateBurst),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type omdbSearchResponse struct {
	Search   []SearchResult `json:"Search"`
	Response string         `json:"Response"`
	Error    string         `json:"Error"`
}

// Search looks up titles matching the query. A "no results" reply from
// OMDB comes back as an empty slice, not an error.
func (c *OMDBClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("s", query)

	var response omdbSearchResponse
	if err := c.doRequest(ctx, params, &response); err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	if response.Response == "False" {
		return []SearchResult{}, nil
	}
	return response.Search, nil
}

// Details fetches the full record for one IMDb id.
func (c *OMDBClient) Details(ctx context.Context, imdbID string) (*MovieDetails, error) {
	params := url.Values{}
	params.Set("i", imdbID)

	var details MovieDetails
	if err := c.doRequest(ctx, params, &details); err != nil {
		return nil, fmt.Errorf("movie details: %w", err)
	}
	if details.Response == "False" {
		return nil, ErrMovieNotFound
	}
	return &details, nil
}

// doRequest performs an HTTP request with rate limiting and retry logic.
func (c *OMDBClient) doRequest(ctx context.Context, params url.Values, result interface{}) error {
	if c.apiKey == "" {
		return errors.New("OMDB_API_KEY is not configured")
	}
	params.Set("apikey", c.apiKey)
	fullURL := c.baseURL + "/?" + params.Encode()

	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = readErr
			case resp.StatusCode == http.StatusOK:
				return json.Unmarshal(body, result)
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				lastErr = fmt.Errorf("provider returned status %d", resp.StatusCode)
			default:
				return fmt.Errorf("provider returned status %d", resp.StatusCode)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}

	return fmt.Errorf("request failed after %d attempts: %w", maxRetries+1, lastErr)
}
