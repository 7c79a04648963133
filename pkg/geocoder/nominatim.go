package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://nominatim.openstreetmap.org"

var ErrNoResults = errors.New("no geocode results")

// Result is one resolved place.
type Result struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

// Client queries the Nominatim search API. A non-nil cache short-circuits
// repeated queries; Nominatim's usage policy allows at most one request per
// second, so the cache is strongly recommended outside tests.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	cache      *Cache
}

func NewClient(baseURL, userAgent string, cache *Cache) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a free-form query to a single coordinate.
func (c *Client) Geocode(ctx context.Context, query string) (Result, error) {
	if c.cache != nil {
		if result, ok := c.cache.Get(query); ok {
			return result, nil
		}
	}

	results, err := c.Search(ctx, query, 1)
	if err != nil {
		return Result{}, err
	}
	if len(results) == 0 {
		return Result{}, fmt.Errorf("%w for %q", ErrNoResults, query)
	}

	if c.cache != nil {
		if err := c.cache.Put(query, results[0]); err != nil {
			return results[0], nil // cache write failure is not fatal
		}
	}
	return results[0], nil
}

// Search returns up to limit places matching the query, used by the
// autocomplete endpoint.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", ErrNoResults)
	}
	if limit <= 0 {
		limit = 5
	}

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search", nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.userAgent)

		q := req.URL.Query()
		q.Set("q", query)
		q.Set("format", "json")
		q.Set("limit", strconv.Itoa(limit))
		q.Set("countrycodes", "us")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("execute geocode request: %w", err)
	}
	defer resp.Body.Close()

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	results := make([]Result, 0, len(places))
	for _, place := range places {
		lat, err := strconv.ParseFloat(place.Lat, 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(place.Lon, 64)
		if err != nil {
			continue
		}
		results = append(results, Result{Lat: lat, Lon: lon, DisplayName: place.DisplayName})
	}
	return results, nil
}

// GeocodeStation tries several address spellings in decreasing specificity.
// Truckstop addresses often name a highway exit that geocoders cannot
// parse, in that case city and state alone resolve more reliably.
func (c *Client) GeocodeStation(ctx context.Context, name, address, city, state string) (Result, error) {
	formats := []string{
		fmt.Sprintf("%s, %s, %s, USA", name, city, state),
		fmt.Sprintf("%s, %s, USA", city, state),
		fmt.Sprintf("%s, %s, %s, USA", address, city, state),
	}
	upper := strings.ToUpper(address)
	if strings.Contains(address, "I-") || strings.Contains(address, "US-") || strings.Contains(upper, "EXIT") {
		formats = append([]string{
			fmt.Sprintf("%s, %s, USA", city, state),
			fmt.Sprintf("%s, %s, %s, USA", name, city, state),
		}, formats...)
	}

	var lastErr error
	for _, query := range formats {
		result, err := c.Geocode(ctx, query)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !errors.Is(err, ErrNoResults) {
			return Result{}, err
		}
	}
	return Result{}, lastErr
}

type httpStatusError struct {
	Code int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.Code)
}

// doWithRetry retries transient failures (network errors, 429, 5xx) with
// exponential backoff while respecting context cancellation.
func (c *Client) doWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, lastErr
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &httpStatusError{Code: resp.StatusCode}
	}
	return resp, nil
}
