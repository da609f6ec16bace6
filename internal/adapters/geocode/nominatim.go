package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"route-insight-service/internal/domain"
	"route-insight-service/internal/platform/obs"
)

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// NominatimClient implements the LookupService port against the public
// Nominatim search endpoint. Transient failures (network errors, 429 and
// 5xx responses) are retried with exponential backoff while respecting
// context cancellation.
type NominatimClient struct {
	session       *http.Client
	baseURL       string
	userAgent     string
	retryInterval time.Duration
	maxRetries    uint64
	log           zerolog.Logger
}

func NewNominatimClient(log zerolog.Logger) *NominatimClient {
	return &NominatimClient{
		session:       &http.Client{Timeout: 10 * time.Second},
		baseURL:       "https://nominatim.openstreetmap.org",
		userAgent:     "route-insight-service/1.0",
		retryInterval: 200 * time.Millisecond,
		maxRetries:    3,
		log:           log,
	}
}

// Search requests the single highest-ranked match for the query. An empty
// result list is an error so callers can fall through to the next tier.
func (c *NominatimClient) Search(ctx context.Context, query string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "nominatim.Search")(&err)

	endpoint := c.baseURL + "/search"

	var results []nominatimResult

	operation := func() error {
		results = nil

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		q := req.URL.Query()
		q.Set("format", "json")
		q.Set("q", query)
		q.Set("limit", "1")
		req.URL.RawQuery = q.Encode()

		resp, err := c.session.Do(req)
		if err != nil {
			return fmt.Errorf("execute request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			statusErr := &httpStatusError{
				Code: resp.StatusCode,
				Body: strings.TrimSpace(string(b)),
			}
			switch resp.StatusCode {
			case 429, 500, 502, 503, 504:
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
			return backoff.Permanent(fmt.Errorf("decode search response: %w", err))
		}

		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval

	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx)); err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim search %q: %w", query, err)
	}

	if len(results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", query)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("parse lat for %q: %w", query, err)
	}

	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("parse lon for %q: %w", query, err)
	}

	return domain.Coordinates{Lat: lat, Lon: lon}, nil
}
