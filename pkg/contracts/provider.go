package contracts

import (
	"context"

	"github.com/rmfonseca/matchradar/pkg/models"
)

// SportsDataProvider is the raw upstream surface implemented by vendor adapters.
// Every call may reach the network; errors are real and must be handled by the
// data-access layer above.
type SportsDataProvider interface {
	// FixturesByDate retrieves fixtures for one calendar date (YYYY-MM-DD, UTC).
	// leagueID 0 means all leagues; status filters by provider short code and
	// may join several codes with dashes (e.g. "FT-AET-PEN").
	FixturesByDate(ctx context.Context, date string, leagueID int, status string) ([]models.Fixture, error)

	// TeamRecentFixtures retrieves a team's most recent fixtures in
	// provider-given order (most recent first), regardless of status.
	TeamRecentFixtures(ctx context.Context, teamID int64, count int) ([]models.Fixture, error)

	// TeamStatistics retrieves a team's season statistics in one league.
	TeamStatistics(ctx context.Context, teamID int64, leagueID, season int) (*models.TeamStatistics, error)
}

// DataSource is the fail-soft read surface consumed by detectors. Quota
// exhaustion, provider outages and malformed payloads all degrade to empty
// results; callers treat "no data" and "provider down" identically.
type DataSource interface {
	// FixturesByDate returns fixtures for a date, optionally filtered by
	// league (0 = all) and status. Empty on any failure.
	FixturesByDate(ctx context.Context, date string, leagueID int, status string) []models.Fixture

	// TeamRecentMatches returns a team's recent fixtures, most recent first.
	// Callers filter for finished matches themselves.
	TeamRecentMatches(ctx context.Context, teamID int64, count int) []models.Fixture

	// TeamSeasonGoalAverage returns goals scored per game for a season.
	// 0.0 means "no data = no signal", never an error.
	TeamSeasonGoalAverage(ctx context.Context, teamID int64, leagueID, season int) float64

	// LeagueRollingAggregate computes league-wide rates over the trailing
	// window. Nil when the sample is too small to trust.
	LeagueRollingAggregate(ctx context.Context, leagueID, season, windowDays int) *models.LeagueAggregate
}

// Notifier delivers a single outbound message to a channel.
// Implementations own truncation, pacing and dry-run policy.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) bool
}

// AlertSink records sent alerts for downstream consumers. A nil-safe no-op
// implementation stands in when history is disabled.
type AlertSink interface {
	Record(ctx context.Context, alert models.Alert) error
}

// NotificationLedger deduplicates alerts per (detector, date, fixture).
// Callers must MarkNotified before the outbound send completes.
type NotificationLedger interface {
	ShouldNotify(detector string, date string, fixtureID int64) bool
	MarkNotified(detector string, date string, fixtureID int64)
}
