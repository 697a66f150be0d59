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
	tmdbRateLimit = 20
	tmdbRateBurst = 40

	tmdbPosterBase = "https://image.tmdb.org/t/p"
)

// TMDBMovie is one entry from a TMDB listing.
type TMDBMovie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	Overview     string  `json:"overview"`
	// ImdbID is filled in by the billboard refresher, not by the
	// listing endpoints themselves.
	ImdbID string `json:"imdb_id,omitempty"`
}

// TMDBClient handles TMDB API requests with rate limiting and retry logic.
type TMDBClient struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

func NewTMDBClient(baseURL, apiKey string) *TMDBClient {
	return &TMDBClient{
		baseURL:     baseURL,
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Limit(tmdbRateLimit), tmdbRateBurst),
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

type tmdbListResponse struct {
	Results []TMDBMovie `json:"results"`
}

// Trending returns today's trending movies.
func (c *TMDBClient) Trending(ctx context.Context) ([]TMDBMovie, error) {
	var response tmdbListResponse
	if err := c.doRequest(ctx, "/trending/movie/day", nil, &response); err != nil {
		return nil, fmt.Errorf("fetch trending: %w", err)
	}
	return response.Results, nil
}

// TopRated returns the all-time top-rated listing.
func (c *TMDBClient) TopRated(ctx context.Context) ([]TMDBMovie, error) {
	var response tmdbListResponse
	if err := c.doRequest(ctx, "/movie/top_rated", nil, &response); err != nil {
		return nil, fmt.Errorf("fetch top rated: %w", err)
	}
	return response.Results, nil
}

type tmdbDetailsResponse struct {
	ImdbID string `json:"imdb_id"`
}

// ImdbID translates a TMDB movie id to its IMDb id. TMDB can have no
// mapping, in which case ErrMovieNotFound is returned.
func (c *TMDBClient) ImdbID(ctx context.Context, tmdbID int64) (string, error) {
	var response tmdbDetailsResponse
	endpoint := fmt.Sprintf("/movie/%d", tmdbID)
	if err := c.doRequest(ctx, endpoint, url.Values{"append_to_response": {"external_ids"}}, &response); err != nil {
		return "", fmt.Errorf("fetch imdb id: %w", err)
	}
	if response.ImdbID == "" {
		return "", ErrMovieNotFound
	}
	return response.ImdbID, nil
}

// PosterURL builds a full image URL from a TMDB poster path.
func PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return tmdbPosterBase + "/w500" + path
}

func (c *TMDBClient) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	if c.apiKey == "" {
		return errors.New("TMDB_API_KEY is not configured")
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	fullURL := c.baseURL + endpoint + "?" + params.Encode()

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
			case resp.StatusCode == http.StatusNotFound:
				return ErrMovieNotFound
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
