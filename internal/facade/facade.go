// Package facade exposes the typed, fail-soft read operations detectors
// consume. Every operation is cache-first, quota-gated, and degrades to an
// empty result instead of surfacing provider failures.
package facade

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/rmfonseca/matchradar/internal/cache"
	"github.com/rmfonseca/matchradar/internal/quota"
	"github.com/rmfonseca/matchradar/pkg/contracts"
	"github.com/rmfonseca/matchradar/pkg/models"
)

// FinishedStatuses is the provider filter for fixtures with a final result
const FinishedStatuses = "FT-AET-PEN"

// Minimum finished fixtures before a league aggregate is worth trusting
const minLeagueSample = 30

// Facade implements contracts.DataSource over a provider, the response cache
// and the quota governor.
type Facade struct {
	provider contracts.SportsDataProvider
	cache    *cache.Cache
	governor *quota.Governor
	log      zerolog.Logger

	now func() time.Time
}

var _ contracts.DataSource = (*Facade)(nil)

// New creates a facade. All dependencies are required.
func New(provider contracts.SportsDataProvider, c *cache.Cache, g *quota.Governor, log zerolog.Logger) *Facade {
	return &Facade{
		provider: provider,
		cache:    c,
		governor: g,
		log:      log.With().Str("component", "facade").Logger(),
		now:      time.Now,
	}
}

// FixturesByDate returns fixtures for one date, optionally filtered by league
// (0 = all leagues) and status. Empty on cache miss + quota block, provider
// failure, or genuinely empty data — callers cannot and must not tell these
// apart.
func (f *Facade) FixturesByDate(ctx context.Context, date string, leagueID int, status string) []models.Fixture {
	key := fmt.Sprintf("fixtures:%s:%d:%s", date, leagueID, status)
	if v, ok := f.cache.Get(key, cache.CategoryFixtures); ok {
		return v.([]models.Fixture)
	}

	if !f.governor.CanRequest() {
		f.log.Warn().Str("op", "fixtures_by_date").Str("date", date).Msg("quota blocked, returning empty")
		return nil
	}

	fixtures, err := f.provider.FixturesByDate(ctx, date, leagueID, status)
	if err != nil {
		f.log.Error().Err(err).Str("date", date).Int("league", leagueID).Msg("fixtures fetch failed")
		return nil
	}

	f.cache.Put(key, cache.CategoryFixtures, fixtures)
	return fixtures
}

// TeamRecentMatches returns a team's recent fixtures in provider order
// (most recent first). Callers filter for finished matches themselves.
func (f *Facade) TeamRecentMatches(ctx context.Context, teamID int64, count int) []models.Fixture {
	key := fmt.Sprintf("recent:%d:%d", teamID, count)
	if v, ok := f.cache.Get(key, cache.CategoryFixtures); ok {
		return v.([]models.Fixture)
	}

	if !f.governor.CanRequest() {
		f.log.Warn().Str("op", "team_recent_matches").Int64("team", teamID).Msg("quota blocked, returning empty")
		return nil
	}

	fixtures, err := f.provider.TeamRecentFixtures(ctx, teamID, count)
	if err != nil {
		f.log.Error().Err(err).Int64("team", teamID).Msg("recent matches fetch failed")
		return nil
	}

	f.cache.Put(key, cache.CategoryFixtures, fixtures)
	return fixtures
}

// TeamSeasonGoalAverage returns goals scored per game for the season.
// Fallback chain: provider-precomputed average, then goals/games from raw
// totals, then 0.0 — no data means no signal, never an error.
func (f *Facade) TeamSeasonGoalAverage(ctx context.Context, teamID int64, leagueID, season int) float64 {
	key := fmt.Sprintf("teamavg:%d:%d:%d", teamID, leagueID, season)
	if v, ok := f.cache.Get(key, cache.CategoryTeamStats); ok {
		return v.(float64)
	}

	if !f.governor.CanRequest() {
		f.log.Warn().Str("op", "team_season_goal_average").Int64("team", teamID).Msg("quota blocked, returning zero")
		return 0.0
	}

	stats, err := f.provider.TeamStatistics(ctx, teamID, leagueID, season)
	if err != nil {
		f.log.Error().Err(err).Int64("team", teamID).Msg("team statistics fetch failed")
		return 0.0
	}

	avg := goalAverage(stats)
	f.cache.Put(key, cache.CategoryTeamStats, avg)
	return avg
}

// LeagueRollingAggregate computes over-2.5, BTTS, halftime-goal share and
// drawn-nil rates over the trailing window of finished fixtures. Nil when the
// sample is under the minimum size.
func (f *Facade) LeagueRollingAggregate(ctx context.Context, leagueID, season, windowDays int) *models.LeagueAggregate {
	key := fmt.Sprintf("leagueagg:%d:%d:%d", leagueID, season, windowDays)
	if v, ok := f.cache.Get(key, cache.CategoryLeagueStats); ok {
		return v.(*models.LeagueAggregate)
	}

	// One fetch per distinct date, filtered locally; the per-day responses
	// land in the fixture cache so overlapping windows stay cheap.
	var sample []models.Fixture
	today := f.now().UTC()
	for i := 1; i <= windowDays; i++ {
		date := today.AddDate(0, 0, -i).Format("2006-01-02")
		for _, fx := range f.FixturesByDate(ctx, date, leagueID, FinishedStatuses) {
			if fx.IsFinished() && fx.Season == season {
				sample = append(sample, fx)
			}
		}
	}

	if len(sample) < minLeagueSample {
		f.log.Debug().Int("league", leagueID).Int("sample", len(sample)).Msg("league sample too small")
		return nil
	}

	agg := aggregate(leagueID, season, windowDays, sample)
	f.cache.Put(key, cache.CategoryLeagueStats, agg)
	return agg
}

func goalAverage(stats *models.TeamStatistics) float64 {
	if avg, err := strconv.ParseFloat(stats.ProviderAverage, 64); err == nil && avg >= 0 {
		return avg
	}
	if stats.GamesPlayed == 0 {
		return 0.0
	}
	return float64(stats.GoalsFor) / float64(stats.GamesPlayed)
}

func aggregate(leagueID, season, windowDays int, sample []models.Fixture) *models.LeagueAggregate {
	var over25, btts, drawnNil, totalGoals, halftimeGoals int
	for _, fx := range sample {
		if fx.TotalGoals() >= 3 {
			over25++
		}
		if fx.BothTeamsScored() {
			btts++
		}
		if fx.IsGoalless() {
			drawnNil++
		}
		totalGoals += fx.TotalGoals()
		halftimeGoals += fx.HalftimeGoals()
	}

	n := float64(len(sample))
	agg := &models.LeagueAggregate{
		LeagueID:     leagueID,
		Season:       season,
		WindowDays:   windowDays,
		SampleSize:   len(sample),
		Over25Rate:   float64(over25) / n,
		BTTSRate:     float64(btts) / n,
		DrawnNilRate: float64(drawnNil) / n,
	}
	if totalGoals > 0 {
		agg.HalftimeGoalsShare = float64(halftimeGoals) / float64(totalGoals)
	}
	return agg
}
