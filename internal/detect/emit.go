// Package detect implements the signal detectors and the shared alert
// emission path. Each detector is a stateless policy over the data source;
// the only shared state is the notification ledger.
package detect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rmfonseca/matchradar/pkg/contracts"
	"github.com/rmfonseca/matchradar/pkg/models"
)

// Emitter turns candidate alerts into outbound notifications, deduplicating
// per detector/date/fixture through the ledger. The sink is optional.
type Emitter struct {
	ledger   contracts.NotificationLedger
	notifier contracts.Notifier
	sink     contracts.AlertSink
	chatID   int64
	log      zerolog.Logger
}

// NewEmitter creates an emitter. sink may be nil when alert history is not
// being recorded.
func NewEmitter(ledger contracts.NotificationLedger, notifier contracts.Notifier, sink contracts.AlertSink, chatID int64, log zerolog.Logger) *Emitter {
	return &Emitter{
		ledger:   ledger,
		notifier: notifier,
		sink:     sink,
		chatID:   chatID,
		log:      log.With().Str("component", "emitter").Logger(),
	}
}

// Emit sends the alert unless the ledger already holds its key for this
// date. The key is marked before the send so a concurrent run of the same
// detector cannot double-send.
func (e *Emitter) Emit(ctx context.Context, date string, alert models.Alert) bool {
	if !e.ledger.ShouldNotify(alert.Detector, date, alert.FixtureID) {
		e.log.Debug().
			Str("detector", alert.Detector).
			Int64("fixture", alert.FixtureID).
			Msg("already notified, skipping")
		return false
	}
	e.ledger.MarkNotified(alert.Detector, date, alert.FixtureID)

	if !e.notifier.Send(ctx, e.chatID, formatAlert(alert)) {
		e.log.Warn().
			Str("detector", alert.Detector).
			Int64("fixture", alert.FixtureID).
			Msg("notifier reported send failure")
	}

	if e.sink != nil {
		if err := e.sink.Record(ctx, alert); err != nil {
			e.log.Error().Err(err).Int64("fixture", alert.FixtureID).Msg("alert sink record failed")
		}
	}
	return true
}

func formatAlert(a models.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", alertTitle(a.Detector))
	fmt.Fprintf(&b, "%s\n", a.League)
	fmt.Fprintf(&b, "%s\n\n", a.MatchInfo)
	if a.Analysis != "" {
		fmt.Fprintf(&b, "%s\n\n", a.Analysis)
	}
	fmt.Fprintf(&b, "Confidence: %s (score %d)\n", a.Confidence, a.Score)
	fmt.Fprintf(&b, "Suggested market: %s\n", a.Market)
	fmt.Fprintf(&b, "Kickoff: %s UTC", a.KickoffUTC.UTC().Format("2006-01-02 15:04"))
	return b.String()
}

func alertTitle(detector string) string {
	switch detector {
	case DetectorElite:
		return "ELITE MATCH DETECTED"
	case DetectorRegression:
		return "MEAN REGRESSION ALERT"
	case DetectorRollingForm:
		return "ROLLING FORM ALERT"
	}
	return strings.ToUpper(detector) + " ALERT"
}

// seasonFor maps a moment to the European season year: July onward belongs
// to the season starting that year.
func seasonFor(t time.Time) int {
	if t.Month() >= time.July {
		return t.Year()
	}
	return t.Year() - 1
}

// unresolvedStatuses is the provider filter for fixtures that have not kicked off
const unresolvedStatuses = models.StatusNotStarted + "-" + models.StatusTBD
