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

// DetectorElite identifies the elite goal-average signal
const DetectorElite = "elite"

// DefaultEliteThreshold is the season goal average an elite team must reach
const DefaultEliteThreshold = 2.3

// Elite flags today's fixtures involving a listed elite team whose season
// goal average reaches the threshold.
type Elite struct {
	data      contracts.DataSource
	table     *leagues.Table
	emitter   *Emitter
	threshold float64
	enabled   bool
	log       zerolog.Logger

	now func() time.Time
}

var _ contracts.Detector = (*Elite)(nil)

// NewElite creates the elite detector. threshold <= 0 selects the default.
func NewElite(data contracts.DataSource, table *leagues.Table, emitter *Emitter, threshold float64, enabled bool, log zerolog.Logger) *Elite {
	if threshold <= 0 {
		threshold = DefaultEliteThreshold
	}
	return &Elite{
		data:      data,
		table:     table,
		emitter:   emitter,
		threshold: threshold,
		enabled:   enabled,
		log:       log.With().Str("detector", DetectorElite).Logger(),
		now:       time.Now,
	}
}

func (e *Elite) Name() string  { return DetectorElite }
func (e *Elite) Enabled() bool { return e.enabled }

// Execute scans today's unresolved fixtures for qualifying elite teams
func (e *Elite) Execute(ctx context.Context) models.RunSummary {
	start := e.now()
	sum := models.RunSummary{Detector: DetectorElite, StartedAt: start}
	defer func() { sum.Duration = e.now().Sub(start) }()

	if !e.enabled {
		sum.Skipped = true
		sum.Note = "disabled"
		return sum
	}

	today := start.UTC()
	date := today.Format("2006-01-02")
	season := seasonFor(today)

	for _, f := range e.data.FixturesByDate(ctx, date, 0, unresolvedStatuses) {
		if !f.IsUnresolved() {
			continue
		}
		if !e.table.IsElite(f.HomeTeam.Name) && !e.table.IsElite(f.AwayTeam.Name) {
			continue
		}
		sum.Analyzed++
		e.processFixture(ctx, f, date, season, &sum)
	}

	e.log.Info().
		Int("analyzed", sum.Analyzed).
		Int("alerted", sum.Alerted).
		Int("errors", sum.Errors).
		Msg("elite run complete")
	return sum
}

// processFixture evaluates one fixture. Recover keeps a single bad fixture
// from aborting the batch.
func (e *Elite) processFixture(ctx context.Context, f models.Fixture, date string, season int, sum *models.RunSummary) {
	defer func() {
		if r := recover(); r != nil {
			sum.Errors++
			e.log.Error().Int64("fixture", f.ID).Interface("panic", r).Msg("fixture processing panicked")
		}
	}()

	type qualifier struct {
		name string
		avg  float64
	}
	var qualifying []qualifier

	for _, team := range []models.Team{f.HomeTeam, f.AwayTeam} {
		if !e.table.IsElite(team.Name) {
			continue
		}
		avg := e.data.TeamSeasonGoalAverage(ctx, team.ID, f.LeagueID, season)
		if avg >= e.threshold {
			qualifying = append(qualifying, qualifier{name: team.Name, avg: avg})
		}
	}
	if len(qualifying) == 0 {
		return
	}

	maxAvg := qualifying[0].avg
	lines := make([]string, 0, len(qualifying))
	for _, q := range qualifying {
		if q.avg > maxAvg {
			maxAvg = q.avg
		}
		lines = append(lines, fmt.Sprintf("%s: %.2f goals/game", q.name, q.avg))
	}

	alert := models.Alert{
		Detector:   DetectorElite,
		FixtureID:  f.ID,
		League:     fmt.Sprintf("%s (%s)", f.LeagueName, f.Country),
		MatchInfo:  fmt.Sprintf("%s vs %s", f.HomeTeam.Name, f.AwayTeam.Name),
		Market:     "Over 2.5 Goals",
		Confidence: eliteConfidence(len(qualifying), maxAvg-e.threshold),
		Score:      len(qualifying),
		KickoffUTC: f.KickoffUTC,
		Analysis:   "Elite attack in form:\n" + strings.Join(lines, "\n"),
		CreatedAt:  e.now().UTC(),
	}
	if e.emitter.Emit(ctx, date, alert) {
		sum.Alerted++
	}
}

// eliteConfidence scales with how far the best average sits above threshold;
// both teams qualifying outranks any single-team margin.
func eliteConfidence(qualifiers int, margin float64) string {
	switch {
	case qualifiers >= 2:
		return models.ConfidenceVeryHigh
	case margin >= 0.5:
		return models.ConfidenceHigh
	default:
		return models.ConfidenceMedium
	}
}
