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

// DetectorRollingForm identifies the rolling-form comparison signal
const DetectorRollingForm = "rolling_form"

// Minimum combined weight before a fixture is alert-eligible
const minFormScore = 2

// How many recent matches to fetch per team; form uses the finished subset
const formFetchCount = 10

// RollingForm compares both teams' recent form in configured leagues and
// alerts when the combined goal signals are strong enough.
type RollingForm struct {
	data    contracts.DataSource
	table   *leagues.Table
	emitter *Emitter
	enabled bool
	log     zerolog.Logger

	now func() time.Time
}

var _ contracts.Detector = (*RollingForm)(nil)

// NewRollingForm creates the rolling-form detector
func NewRollingForm(data contracts.DataSource, table *leagues.Table, emitter *Emitter, enabled bool, log zerolog.Logger) *RollingForm {
	return &RollingForm{
		data:    data,
		table:   table,
		emitter: emitter,
		enabled: enabled,
		log:     log.With().Str("detector", DetectorRollingForm).Logger(),
		now:     time.Now,
	}
}

func (d *RollingForm) Name() string  { return DetectorRollingForm }
func (d *RollingForm) Enabled() bool { return d.enabled }

// Execute scans today's unresolved fixtures in the configured form leagues
func (d *RollingForm) Execute(ctx context.Context) models.RunSummary {
	start := d.now()
	sum := models.RunSummary{Detector: DetectorRollingForm, StartedAt: start}
	defer func() { sum.Duration = d.now().Sub(start) }()

	if !d.enabled {
		sum.Skipped = true
		sum.Note = "disabled"
		return sum
	}

	date := start.UTC().Format("2006-01-02")

	for _, f := range d.data.FixturesByDate(ctx, date, 0, unresolvedStatuses) {
		if !f.IsUnresolved() {
			continue
		}
		league, ok := d.table.Form[f.LeagueID]
		if !ok {
			continue
		}
		sum.Analyzed++
		d.processFixture(ctx, f, league, date, &sum)
	}

	d.log.Info().
		Int("analyzed", sum.Analyzed).
		Int("alerted", sum.Alerted).
		Int("errors", sum.Errors).
		Msg("rolling form run complete")
	return sum
}

func (d *RollingForm) processFixture(ctx context.Context, f models.Fixture, league leagues.FormLeague, date string, sum *models.RunSummary) {
	defer func() {
		if r := recover(); r != nil {
			sum.Errors++
			d.log.Error().Int64("fixture", f.ID).Interface("panic", r).Msg("fixture processing panicked")
		}
	}()

	home := ComputeForm(f.HomeTeam.ID, d.data.TeamRecentMatches(ctx, f.HomeTeam.ID, formFetchCount))
	away := ComputeForm(f.AwayTeam.ID, d.data.TeamRecentMatches(ctx, f.AwayTeam.ID, formFetchCount))

	minGames := league.MinSampleGames
	if minGames <= 0 {
		minGames = 4
	}
	if home.GamesPlayed < minGames || away.GamesPlayed < minGames {
		d.log.Debug().Int64("fixture", f.ID).Msg("insufficient form sample")
		return
	}

	score, reasons := scoreForm(home, away)
	if score < minFormScore {
		return
	}

	analysis := []string{
		fmt.Sprintf("%s form: %dW-%dD-%dL (%.0f%%), over2.5 %.0f%%, BTTS %.0f%%",
			f.HomeTeam.Name, home.Wins, home.Draws, home.Losses, home.FormPct, home.Over25Rate*100, home.BTTSRate*100),
		fmt.Sprintf("%s form: %dW-%dD-%dL (%.0f%%), over2.5 %.0f%%, BTTS %.0f%%",
			f.AwayTeam.Name, away.Wins, away.Draws, away.Losses, away.FormPct, away.Over25Rate*100, away.BTTSRate*100),
	}
	analysis = append(analysis, reasons...)

	alert := models.Alert{
		Detector:   DetectorRollingForm,
		FixtureID:  f.ID,
		League:     fmt.Sprintf("%s [%s]", league.Name, league.Code),
		MatchInfo:  fmt.Sprintf("%s vs %s", f.HomeTeam.Name, f.AwayTeam.Name),
		Market:     "Over 2.5 Goals",
		Confidence: formConfidence(score),
		Score:      score,
		KickoffUTC: f.KickoffUTC,
		Analysis:   strings.Join(analysis, "\n"),
		CreatedAt:  d.now().UTC(),
	}
	if d.emitter.Emit(ctx, date, alert) {
		sum.Alerted++
	}
}

// scoreForm sums the fixed signal weights over both teams' form
func scoreForm(home, away models.TeamFormSummary) (int, []string) {
	score := 0
	var reasons []string

	avgOver := (home.Over25Rate + away.Over25Rate) / 2
	switch {
	case avgOver >= 0.70:
		score += 2
		reasons = append(reasons, fmt.Sprintf("combined over-2.5 rate %.0f%%", avgOver*100))
	case avgOver >= 0.60:
		score++
		reasons = append(reasons, fmt.Sprintf("combined over-2.5 rate %.0f%%", avgOver*100))
	}

	if avgBTTS := (home.BTTSRate + away.BTTSRate) / 2; avgBTTS >= 0.60 {
		score++
		reasons = append(reasons, fmt.Sprintf("combined BTTS rate %.0f%%", avgBTTS*100))
	}

	if (home.FormPct >= 70 && away.FormPct <= 30) || (away.FormPct >= 70 && home.FormPct <= 30) {
		score++
		reasons = append(reasons, "one-sided form advantage")
	}

	return score, reasons
}

func formConfidence(score int) string {
	switch {
	case score >= 4:
		return models.ConfidenceVeryHigh
	case score == 3:
		return models.ConfidenceHigh
	default:
		return models.ConfidenceMedium
	}
}
