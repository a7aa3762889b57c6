// Package quota tracks upstream request spend against a period budget and
// provides the preventive admission brake consulted before every network call.
package quota

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rmfonseca/matchradar/pkg/models"
)

// PeriodKind selects the accounting window for the request budget
type PeriodKind string

const (
	PeriodDaily   PeriodKind = "daily"
	PeriodMonthly PeriodKind = "monthly"
)

const (
	defaultWarnThreshold  = 0.75
	defaultBlockThreshold = 0.95

	// Remaining-request marks that get their own log severity
	remainingWarnMark  = 100
	remainingCriticMark = 25

	// Provider-reported remaining at or below this blocks further requests
	accountSafetyMargin = 10

	progressLogEvery = 25
)

// ProviderHint carries the rate-limit figures a provider reports in response
// headers. Advisory, not authoritative.
type ProviderHint struct {
	Remaining int
	Limit     int
}

// Governor owns the QuotaState: used requests, period boundary and the
// last-known provider-reported account figures. Safe for concurrent use.
type Governor struct {
	mu sync.Mutex

	kind           PeriodKind
	periodStart    time.Time
	used           int
	limit          int
	warnThreshold  float64
	blockThreshold float64

	// -1 means unknown
	accountRemaining int
	accountLimit     int

	warned bool // warn threshold already logged this period

	now func() time.Time
	log zerolog.Logger
}

// Option customizes a Governor
type Option func(*Governor)

// WithThresholds overrides the warn and block ratios
func WithThresholds(warn, block float64) Option {
	return func(g *Governor) {
		g.warnThreshold = warn
		g.blockThreshold = block
	}
}

// WithClock injects a clock, used by tests to cross period boundaries
func WithClock(now func() time.Time) Option {
	return func(g *Governor) { g.now = now }
}

// NewGovernor creates a governor for the given period kind and limit
func NewGovernor(kind PeriodKind, limit int, log zerolog.Logger, opts ...Option) *Governor {
	g := &Governor{
		kind:             kind,
		limit:            limit,
		warnThreshold:    defaultWarnThreshold,
		blockThreshold:   defaultBlockThreshold,
		accountRemaining: -1,
		accountLimit:     -1,
		now:              time.Now,
		log:              log.With().Str("component", "quota").Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.periodStart = periodStart(g.kind, g.now().UTC())
	return g
}

// CanRequest reports whether another upstream call is admitted. False once
// used/limit reaches the block threshold, or once the provider's own reported
// remaining drops to the safety margin. This is a preventive brake, distinct
// from the provider answering 429.
func (g *Governor) CanRequest() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetIfBoundaryCrossed()

	if g.accountRemaining >= 0 && g.accountRemaining <= accountSafetyMargin {
		g.log.Warn().
			Int("account_remaining", g.accountRemaining).
			Msg("blocking request: provider-reported remaining at safety margin")
		return false
	}

	if float64(g.used) >= float64(g.limit)*g.blockThreshold {
		g.log.Warn().
			Int("used", g.used).
			Int("limit", g.limit).
			Msg("blocking request: block threshold reached")
		return false
	}

	return true
}

// Record accounts one call that actually reached the network. Cache hits must
// never be recorded. A provider hint, when present, overwrites the last-known
// account figures; negative values are clamped away.
func (g *Governor) Record(success bool, hint *ProviderHint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetIfBoundaryCrossed()

	g.used++

	if hint != nil {
		if hint.Remaining >= 0 {
			g.accountRemaining = hint.Remaining
		}
		if hint.Limit >= 0 {
			g.accountLimit = hint.Limit
		}
	}

	g.observe(success)
}

// Usage returns a snapshot of the current period's spend
func (g *Governor) Usage() models.QuotaUsage {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetIfBoundaryCrossed()

	remaining := g.limit - g.used
	if remaining < 0 {
		remaining = 0
	}
	pct := 0.0
	if g.limit > 0 {
		pct = float64(g.used) / float64(g.limit) * 100
	}
	return models.QuotaUsage{
		Used:        g.used,
		Limit:       g.limit,
		Remaining:   remaining,
		Pct:         pct,
		PeriodLabel: periodLabel(g.kind, g.periodStart),
	}
}

// AccountFigures returns the last provider-reported remaining/limit, ok=false
// when no hint has been seen yet.
func (g *Governor) AccountFigures() (remaining, limit int, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.accountRemaining < 0 {
		return 0, 0, false
	}
	return g.accountRemaining, g.accountLimit, true
}

// observe emits the usage observability signals. Callers hold g.mu.
func (g *Governor) observe(success bool) {
	remaining := g.limit - g.used
	ratio := float64(g.used) / float64(g.limit)

	if !g.warned && ratio >= g.warnThreshold {
		g.warned = true
		g.log.Warn().
			Int("used", g.used).
			Int("limit", g.limit).
			Float64("pct", ratio*100).
			Msg("quota warn threshold crossed")
	}

	switch remaining {
	case remainingWarnMark:
		g.log.Warn().Int("remaining", remaining).Msg("quota running low")
	case remainingCriticMark:
		g.log.Error().Int("remaining", remaining).Msg("quota critically low")
	}

	if g.used%progressLogEvery == 0 {
		g.log.Info().
			Int("used", g.used).
			Int("limit", g.limit).
			Int("remaining", remaining).
			Bool("last_success", success).
			Msg("quota progress")
	}
}

// resetIfBoundaryCrossed advances the period and zeroes the counter when the
// wall clock has moved past the period boundary. Callers hold g.mu.
func (g *Governor) resetIfBoundaryCrossed() {
	start := periodStart(g.kind, g.now().UTC())
	if start.Equal(g.periodStart) {
		return
	}
	old := g.used
	g.used = 0
	g.warned = false
	g.periodStart = start
	g.log.Info().
		Int("previous_used", old).
		Str("period", periodLabel(g.kind, start)).
		Msg("quota period reset")
}

func periodStart(kind PeriodKind, now time.Time) time.Time {
	if kind == PeriodMonthly {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func periodLabel(kind PeriodKind, start time.Time) string {
	if kind == PeriodMonthly {
		return fmt.Sprintf("%04d-%02d", start.Year(), int(start.Month()))
	}
	return start.Format("2006-01-02")
}
