// Package apifootball implements the SportsDataProvider contract against the
// api-football v3 HTTP API, with inter-request pacing, bounded retries and
// rate-limit-aware waiting.
package apifootball

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/rmfonseca/matchradar/internal/quota"
	"github.com/rmfonseca/matchradar/pkg/contracts"
	"github.com/rmfonseca/matchradar/pkg/models"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"
	userAgent      = "matchradar/1.0"
	timeout        = 30 * time.Second
	maxAttempts    = 3

	// Unconditional delay between any two network requests, to stay under
	// the provider's per-minute burst limit. Pacing, not backoff.
	defaultPacing = 700 * time.Millisecond

	rateLimitWaitStep = 10 * time.Second
	transientWaitStep = 2 * time.Second
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrRequestFailed wraps the last error after the attempt budget is spent
var ErrRequestFailed = errors.New("request failed")

// Client talks to the provider. Implements contracts.SportsDataProvider.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	pacer      *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	governor   *quota.Governor
	log        zerolog.Logger

	rateLimitWait time.Duration
	transientWait time.Duration
}

var _ contracts.SportsDataProvider = (*Client)(nil)

// Option customizes a Client
type Option func(*Client)

// WithBaseURL points the client at a different host (tests)
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithPacing overrides the fixed inter-request delay
func WithPacing(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pacer = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client (tests)
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient creates a provider client. The governor, when non-nil, is told
// about every call that reaches the network and fed provider quota hints.
func NewClient(apiKey string, governor *quota.Governor, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:        apiKey,
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{Timeout: timeout},
		pacer:         rate.NewLimiter(rate.Every(defaultPacing), 1),
		governor:      governor,
		log:           log.With().Str("component", "apifootball").Logger(),
		rateLimitWait: rateLimitWaitStep,
		transientWait: transientWaitStep,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "apifootball",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FixturesByDate retrieves fixtures for one date. leagueID 0 means all
// leagues; status accepts dash-joined provider codes.
func (c *Client) FixturesByDate(ctx context.Context, date string, leagueID int, status string) ([]models.Fixture, error) {
	params := url.Values{}
	params.Set("date", date)
	if leagueID != 0 {
		params.Set("league", strconv.Itoa(leagueID))
	}
	if status != "" {
		params.Set("status", status)
	}

	raw, err := c.execute(ctx, "/fixtures", params)
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures: %w", err)
	}
	return parseFixtures(raw)
}

// TeamRecentFixtures retrieves a team's last fixtures, most recent first as
// given by the provider. No status filtering happens here.
func (c *Client) TeamRecentFixtures(ctx context.Context, teamID int64, count int) ([]models.Fixture, error) {
	params := url.Values{}
	params.Set("team", strconv.FormatInt(teamID, 10))
	params.Set("last", strconv.Itoa(count))

	raw, err := c.execute(ctx, "/fixtures", params)
	if err != nil {
		return nil, fmt.Errorf("fetch recent fixtures: %w", err)
	}
	return parseFixtures(raw)
}

// TeamStatistics retrieves a team's season statistics in one league
func (c *Client) TeamStatistics(ctx context.Context, teamID int64, leagueID, season int) (*models.TeamStatistics, error) {
	params := url.Values{}
	params.Set("team", strconv.FormatInt(teamID, 10))
	params.Set("league", strconv.Itoa(leagueID))
	params.Set("season", strconv.Itoa(season))

	raw, err := c.execute(ctx, "/teams/statistics", params)
	if err != nil {
		return nil, fmt.Errorf("fetch team statistics: %w", err)
	}
	return parseStatistics(raw, teamID, leagueID, season)
}

// execute runs the attempt loop: pacing before every attempt, 429 gets its
// own longer wait, other transient failures back off linearly, a non-429
// client error aborts immediately. Malformed JSON counts as a failed attempt.
func (c *Client) execute(ctx context.Context, path string, params url.Values) (jsoniter.RawMessage, error) {
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := c.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := c.doRequest(ctx, path, params)
		if err == nil {
			var env envelope
			if uerr := json.Unmarshal(body, &env); uerr == nil {
				return env.Response, nil
			} else {
				err = fmt.Errorf("parse envelope: %w", uerr)
			}
		}
		lastErr = err

		var herr *httpError
		if errors.As(err, &herr) {
			if herr.StatusCode == http.StatusTooManyRequests {
				c.log.Warn().Int("attempt", attempt+1).Msg("provider rate limited, waiting")
				if werr := sleepCtx(ctx, time.Duration(attempt+1)*c.rateLimitWait); werr != nil {
					return nil, werr
				}
				continue
			}
			if herr.StatusCode >= 400 && herr.StatusCode < 500 {
				return nil, err
			}
		}

		if attempt < maxAttempts-1 {
			if werr := sleepCtx(ctx, time.Duration(attempt+1)*c.transientWait); werr != nil {
				return nil, werr
			}
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrRequestFailed, maxAttempts, lastErr)
}

// doRequest performs one HTTP round trip through the circuit breaker and
// accounts it with the quota governor. Breaker-open short circuits never
// reach the network and are never recorded.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("x-apisports-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.record(false, nil)
			return nil, fmt.Errorf("execute request: %w", err)
		}
		defer resp.Body.Close()

		hint := extractQuotaHint(resp.Header)
		ok := resp.StatusCode == http.StatusOK
		c.record(ok, hint)

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}

		if !ok {
			return nil, &httpError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (c *Client) record(success bool, hint *quota.ProviderHint) {
	if c.governor != nil {
		c.governor.Record(success, hint)
	}
}

// extractQuotaHint reads the provider's remaining/limit headers. Header names
// vary between direct and RapidAPI access, so both spellings are checked.
func extractQuotaHint(headers http.Header) *quota.ProviderHint {
	remaining := headerInt(headers,
		"x-ratelimit-requests-remaining", "X-RateLimit-requests-Remaining")
	limit := headerInt(headers,
		"x-ratelimit-requests-limit", "X-RateLimit-requests-Limit")
	if remaining < 0 && limit < 0 {
		return nil
	}
	return &quota.ProviderHint{Remaining: remaining, Limit: limit}
}

func headerInt(headers http.Header, names ...string) int {
	for _, name := range names {
		if v := headers.Get(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	return -1
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// httpError carries a non-2xx status for retry classification
type httpError struct {
	StatusCode int
	Message    string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}
