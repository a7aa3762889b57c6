package detect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rmfonseca/matchradar/leagues"
	"github.com/rmfonseca/matchradar/pkg/contracts"
	"github.com/rmfonseca/matchradar/pkg/models"
)

// DetectorRegression identifies the goalless-draw regression signal
const DetectorRegression = "regression"

// DefaultMaxLastMatchAgeDays bounds how old a qualifying 0-0 may be
const DefaultMaxLastMatchAgeDays = 10

// recentLookback is how many recent matches are fetched to find the last
// finished one; in-progress and postponed entries at the head are skipped.
const recentLookback = 5

// ActiveWindow restricts a detector to a local-time hour range, inclusive
// on both ends. Zero value means always active.
type ActiveWindow struct {
	StartHour int
	EndHour   int
	Location  *time.Location
}

// Contains reports whether t falls inside the window
func (w ActiveWindow) Contains(t time.Time) bool {
	if w.Location == nil {
		return true
	}
	h := t.In(w.Location).Hour()
	return h >= w.StartHour && h <= w.EndHour
}

// Regression flags fixtures where a team's most recent finished match ended
// 0-0 recently, in configured leagues or for watchlisted teams.
type Regression struct {
	data       contracts.DataSource
	table      *leagues.Table
	emitter    *Emitter
	maxAgeDays int
	window     ActiveWindow
	enabled    bool
	log        zerolog.Logger

	now func() time.Time
}

var _ contracts.Detector = (*Regression)(nil)

// NewRegression creates the regression detector. maxAgeDays <= 0 selects the
// default.
func NewRegression(data contracts.DataSource, table *leagues.Table, emitter *Emitter, maxAgeDays int, window ActiveWindow, enabled bool, log zerolog.Logger) *Regression {
	if maxAgeDays <= 0 {
		maxAgeDays = DefaultMaxLastMatchAgeDays
	}
	return &Regression{
		data:       data,
		table:      table,
		emitter:    emitter,
		maxAgeDays: maxAgeDays,
		window:     window,
		enabled:    enabled,
		log:        log.With().Str("detector", DetectorRegression).Logger(),
		now:        time.Now,
	}
}

func (r *Regression) Name() string  { return DetectorRegression }
func (r *Regression) Enabled() bool { return r.enabled }

// Execute scans today's unresolved fixtures for regression candidates.
// Fixtures are fetched once for the whole date and filtered locally by
// league and watchlist membership.
func (r *Regression) Execute(ctx context.Context) models.RunSummary {
	start := r.now()
	sum := models.RunSummary{Detector: DetectorRegression, StartedAt: start}
	defer func() { sum.Duration = r.now().Sub(start) }()

	if !r.enabled {
		sum.Skipped = true
		sum.Note = "disabled"
		return sum
	}
	if !r.window.Contains(start) {
		sum.Skipped = true
		sum.Note = fmt.Sprintf("outside active hours %02d-%02d", r.window.StartHour, r.window.EndHour)
		return sum
	}

	date := start.UTC().Format("2006-01-02")

	for _, f := range r.data.FixturesByDate(ctx, date, 0, unresolvedStatuses) {
		if !f.IsUnresolved() {
			continue
		}
		_, inLeague := r.table.Regression[f.LeagueID]
		_, homeWatched := r.table.WatchlistFor(f.HomeTeam.Name)
		_, awayWatched := r.table.WatchlistFor(f.AwayTeam.Name)
		if !inLeague && !homeWatched && !awayWatched {
			continue
		}
		sum.Analyzed++
		r.processFixture(ctx, f, date, homeWatched, awayWatched, &sum)
	}

	r.log.Info().
		Int("analyzed", sum.Analyzed).
		Int("alerted", sum.Alerted).
		Int("errors", sum.Errors).
		Msg("regression run complete")
	return sum
}

// goallessResult describes a qualifying most-recent finished 0-0
type goallessResult struct {
	opponent string
	daysAgo  int
}

func (r *Regression) processFixture(ctx context.Context, f models.Fixture, date string, homeWatched, awayWatched bool, sum *models.RunSummary) {
	defer func() {
		if rec := recover(); rec != nil {
			sum.Errors++
			r.log.Error().Int64("fixture", f.ID).Interface("panic", rec).Msg("fixture processing panicked")
		}
	}()

	homeQ := r.lastFinishedGoalless(ctx, f.HomeTeam.ID)
	awayQ := r.lastFinishedGoalless(ctx, f.AwayTeam.ID)
	if homeQ == nil && awayQ == nil {
		// Watchlist membership alone never triggers
		return
	}

	factors := 0
	var lines []string
	if homeQ != nil {
		factors++
		lines = append(lines, fmt.Sprintf("%s last played 0-0 vs %s (%dd ago)", f.HomeTeam.Name, homeQ.opponent, homeQ.daysAgo))
	}
	if awayQ != nil {
		factors++
		lines = append(lines, fmt.Sprintf("%s last played 0-0 vs %s (%dd ago)", f.AwayTeam.Name, awayQ.opponent, awayQ.daysAgo))
	}
	if homeWatched {
		factors++
		w, _ := r.table.WatchlistFor(f.HomeTeam.Name)
		lines = append(lines, fmt.Sprintf("%s watchlisted: %.2f%% 0-0 over %d games, risk %s", f.HomeTeam.Name, w.DrawRatePct, w.SampleSize, w.RiskLevel))
	}
	if awayWatched {
		factors++
		w, _ := r.table.WatchlistFor(f.AwayTeam.Name)
		lines = append(lines, fmt.Sprintf("%s watchlisted: %.2f%% 0-0 over %d games, risk %s", f.AwayTeam.Name, w.DrawRatePct, w.SampleSize, w.RiskLevel))
	}

	league := f.LeagueName
	if info, ok := r.table.Regression[f.LeagueID]; ok {
		league = fmt.Sprintf("%s (%s) tier %d", info.Name, info.Country, info.Tier)
	}

	alert := models.Alert{
		Detector:   DetectorRegression,
		FixtureID:  f.ID,
		League:     league,
		MatchInfo:  fmt.Sprintf("%s vs %s", f.HomeTeam.Name, f.AwayTeam.Name),
		Market:     "Over 1.5 Goals",
		Confidence: regressionConfidence(factors),
		Score:      factors,
		KickoffUTC: f.KickoffUTC,
		Analysis:   "Goal drought last round, regression expected:\n" + strings.Join(lines, "\n"),
		CreatedAt:  r.now().UTC(),
	}
	if r.emitter.Emit(ctx, date, alert) {
		sum.Alerted++
	}
}

// lastFinishedGoalless returns the team's most recent finished match when it
// ended 0-0 within the age limit, nil otherwise. Only FT/AET/PEN fixtures may
// serve as the "last match"; live or scheduled entries at the head of the
// provider list are skipped, not counted.
func (r *Regression) lastFinishedGoalless(ctx context.Context, teamID int64) *goallessResult {
	for _, m := range r.data.TeamRecentMatches(ctx, teamID, recentLookback) {
		if !m.IsFinished() {
			continue
		}
		if !m.IsGoalless() {
			return nil
		}
		days := int(r.now().UTC().Sub(m.KickoffUTC).Hours() / 24)
		if days > r.maxAgeDays {
			return nil
		}
		opponent := m.AwayTeam.Name
		if m.AwayTeam.ID == teamID {
			opponent = m.HomeTeam.Name
		}
		return &goallessResult{opponent: opponent, daysAgo: days}
	}
	return nil
}

func regressionConfidence(factors int) string {
	switch {
	case factors >= 3:
		return models.ConfidenceVeryHigh
	case factors == 2:
		return models.ConfidenceHigh
	default:
		return models.ConfidenceMedium
	}
}
