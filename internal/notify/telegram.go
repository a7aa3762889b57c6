// Package notify provides the Telegram client used to deliver alerts and
// quota reports. Dry-run mode logs instead of sending.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rmfonseca/matchradar/pkg/contracts"
)

const (
	defaultAPIBase = "https://api.telegram.org"

	// Telegram rejects messages over 4096 characters
	maxMessageLen = 4096

	maxAttempts = 3

	// Telegram allows roughly one message per second per chat
	defaultPacing = time.Second
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Telegram implements contracts.Notifier against the Bot API
type Telegram struct {
	token      string
	baseURL    string
	httpClient *http.Client
	pacer      *rate.Limiter
	dryRun     bool
	log        zerolog.Logger
}

var _ contracts.Notifier = (*Telegram)(nil)

// Option customizes a Telegram client
type Option func(*Telegram)

// WithBaseURL points the client at a different API host (tests)
func WithBaseURL(u string) Option {
	return func(t *Telegram) { t.baseURL = u }
}

// WithPacing overrides the per-message delay
func WithPacing(d time.Duration) Option {
	return func(t *Telegram) {
		if d > 0 {
			t.pacer = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// NewTelegram creates a Telegram notifier. With dryRun set, Send logs the
// message and reports success without any network call.
func NewTelegram(token string, dryRun bool, log zerolog.Logger, opts ...Option) *Telegram {
	t := &Telegram{
		token:      token,
		baseURL:    defaultAPIBase,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		pacer:      rate.NewLimiter(rate.Every(defaultPacing), 1),
		dryRun:     dryRun,
		log:        log.With().Str("component", "telegram").Logger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type sendResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

// Send delivers one message to a chat. Overlong text is truncated to the API
// limit. Returns false after the attempt budget is spent; callers treat a
// failed send as non-fatal.
func (t *Telegram) Send(ctx context.Context, chatID int64, text string) bool {
	text = truncate(text)

	if t.dryRun {
		t.log.Info().Int64("chat", chatID).Int("len", len(text)).Msg("dry run, message not sent")
		return true
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := t.pacer.Wait(ctx); err != nil {
			return false
		}

		retryAfter, err := t.post(ctx, chatID, text)
		if err == nil {
			return true
		}
		t.log.Warn().Err(err).Int("attempt", attempt+1).Int64("chat", chatID).Msg("send failed")

		if retryAfter > 0 {
			if !sleepCtx(ctx, time.Duration(retryAfter)*time.Second) {
				return false
			}
		}
	}
	return false
}

// post performs one sendMessage call. retryAfter carries the server's
// flood-wait request when present.
func (t *Telegram) post(ctx context.Context, chatID int64, text string) (retryAfter int, err error) {
	form := url.Values{}
	form.Set("chat_id", strconv.FormatInt(chatID, 10))
	form.Set("text", text)
	form.Set("parse_mode", "HTML")

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage?%s", t.baseURL, t.token, form.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}

	var sr sendResponse
	if uerr := json.Unmarshal(body, &sr); uerr != nil {
		return 0, fmt.Errorf("parse response: %w", uerr)
	}
	if !sr.OK {
		return sr.Parameters.RetryAfter, fmt.Errorf("telegram: %s", sr.Description)
	}
	return 0, nil
}

func truncate(text string) string {
	if len(text) <= maxMessageLen {
		return text
	}
	const marker = "\n[truncated]"
	return text[:maxMessageLen-len(marker)] + marker
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
