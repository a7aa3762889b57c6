package quota

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGovernor(kind PeriodKind, limit int, now *time.Time) *Governor {
	return NewGovernor(kind, limit, zerolog.Nop(), WithClock(func() time.Time { return *now }))
}

func TestCanRequest_BlockThresholdBoundary(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	g := newTestGovernor(PeriodDaily, 2000, &now)

	// 0.95 * 2000 = 1900
	g.used = 1899
	assert.True(t, g.CanRequest())

	g.used = 1900
	assert.False(t, g.CanRequest(), "exactly at threshold must block")

	g.used = 1901
	assert.False(t, g.CanRequest())
}

func TestCanRequest_AccountSafetyMargin(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	g := newTestGovernor(PeriodDaily, 2000, &now)

	g.Record(true, &ProviderHint{Remaining: 11, Limit: 7500})
	assert.True(t, g.CanRequest())

	g.Record(true, &ProviderHint{Remaining: 10, Limit: 7500})
	assert.False(t, g.CanRequest(), "provider remaining at safety margin must block")
}

func TestRecord_HintNeverGoesNegative(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	g := newTestGovernor(PeriodDaily, 2000, &now)

	g.Record(true, &ProviderHint{Remaining: 5, Limit: 100})
	g.Record(false, &ProviderHint{Remaining: -3, Limit: -1})

	remaining, limit, ok := g.AccountFigures()
	require.True(t, ok)
	assert.Equal(t, 5, remaining, "negative hints must not overwrite")
	assert.Equal(t, 100, limit)
}

func TestDailyPeriodReset(t *testing.T) {
	now := time.Date(2026, 8, 27, 23, 50, 0, 0, time.UTC)
	g := newTestGovernor(PeriodDaily, 2000, &now)
	g.used = 1500

	// Crossing midnight resets the counter before admission is decided
	now = time.Date(2026, 8, 28, 0, 5, 0, 0, time.UTC)
	assert.True(t, g.CanRequest())
	assert.Equal(t, 0, g.Usage().Used)
	assert.Equal(t, "2026-08-28", g.Usage().PeriodLabel)
}

func TestMonthlyPeriodReset(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)
	g := newTestGovernor(PeriodMonthly, 2000, &now)
	g.used = 1999

	now = time.Date(2026, 9, 1, 0, 1, 0, 0, time.UTC)
	g.Record(true, nil)

	usage := g.Usage()
	assert.Equal(t, 1, usage.Used, "reset must run before the increment")
	assert.Equal(t, "2026-09", usage.PeriodLabel)
}

func TestUsageSnapshot(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	g := newTestGovernor(PeriodDaily, 200, &now)

	for i := 0; i < 50; i++ {
		g.Record(true, nil)
	}

	usage := g.Usage()
	assert.Equal(t, 50, usage.Used)
	assert.Equal(t, 150, usage.Remaining)
	assert.InDelta(t, 25.0, usage.Pct, 0.001)
}

func TestUsedMonotonicWithinPeriod(t *testing.T) {
	now := time.Date(2026, 8, 27, 8, 0, 0, 0, time.UTC)
	g := newTestGovernor(PeriodDaily, 2000, &now)

	prev := 0
	for i := 0; i < 10; i++ {
		g.Record(i%2 == 0, nil)
		now = now.Add(30 * time.Minute)
		used := g.Usage().Used
		require.Greater(t, used, prev)
		prev = used
	}
}
