package detect

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmfonseca/matchradar/leagues"
	"github.com/rmfonseca/matchradar/pkg/models"
)

func TestElite_ThresholdIsInclusive(t *testing.T) {
	city := models.Team{ID: 50, Name: "Manchester City"}
	luton := models.Team{ID: 99, Name: "Luton Town"}
	data := &fakeData{
		fixtures: map[string][]models.Fixture{testDate: {upcoming(1, 39, city, luton)}},
		averages: map[int64]float64{50: 2.3},
	}
	n := &fakeNotifier{}
	emitter, _ := newTestEmitter(n, nil)
	e := NewElite(data, leagues.Default(), emitter, 2.3, true, zerolog.Nop())
	e.now = fixedNow

	sum := e.Execute(context.Background())

	assert.Equal(t, 1, sum.Analyzed)
	assert.Equal(t, 1, sum.Alerted, "average exactly at threshold qualifies")
	assert.Equal(t, 1, n.sent())
}

func TestElite_BelowThresholdNoAlert(t *testing.T) {
	city := models.Team{ID: 50, Name: "Manchester City"}
	luton := models.Team{ID: 99, Name: "Luton Town"}
	data := &fakeData{
		fixtures: map[string][]models.Fixture{testDate: {upcoming(1, 39, city, luton)}},
		averages: map[int64]float64{50: 2.29},
	}
	n := &fakeNotifier{}
	emitter, _ := newTestEmitter(n, nil)
	e := NewElite(data, leagues.Default(), emitter, 2.3, true, zerolog.Nop())
	e.now = fixedNow

	sum := e.Execute(context.Background())

	assert.Equal(t, 1, sum.Analyzed)
	assert.Zero(t, sum.Alerted)
	assert.Zero(t, n.sent())
}

func TestElite_BothTeamsQualifyingIsVeryHigh(t *testing.T) {
	city := models.Team{ID: 50, Name: "Manchester City"}
	pool := models.Team{ID: 40, Name: "Liverpool"}
	data := &fakeData{
		fixtures: map[string][]models.Fixture{testDate: {upcoming(1, 39, city, pool)}},
		averages: map[int64]float64{50: 2.8, 40: 2.5},
	}
	n := &fakeNotifier{}
	sink := &fakeSink{}
	emitter, _ := newTestEmitter(n, sink)
	e := NewElite(data, leagues.Default(), emitter, 2.3, true, zerolog.Nop())
	e.now = fixedNow

	sum := e.Execute(context.Background())

	require.Equal(t, 1, sum.Alerted)
	require.Len(t, sink.alerts, 1)
	assert.Equal(t, models.ConfidenceVeryHigh, sink.alerts[0].Confidence)
	assert.Equal(t, 2, sink.alerts[0].Score)
}

func TestElite_SecondRunIsDeduplicated(t *testing.T) {
	city := models.Team{ID: 50, Name: "Manchester City"}
	luton := models.Team{ID: 99, Name: "Luton Town"}
	data := &fakeData{
		fixtures: map[string][]models.Fixture{testDate: {upcoming(1, 39, city, luton)}},
		averages: map[int64]float64{50: 3.0},
	}
	n := &fakeNotifier{}
	emitter, _ := newTestEmitter(n, nil)
	e := NewElite(data, leagues.Default(), emitter, 2.3, true, zerolog.Nop())
	e.now = fixedNow

	first := e.Execute(context.Background())
	second := e.Execute(context.Background())

	assert.Equal(t, 1, first.Alerted)
	assert.Zero(t, second.Alerted)
	assert.Equal(t, 1, n.sent())
}

func TestElite_NonEliteFixturesIgnored(t *testing.T) {
	a := models.Team{ID: 1, Name: "Luton Town"}
	b := models.Team{ID: 2, Name: "Brentford"}
	data := &fakeData{
		fixtures: map[string][]models.Fixture{testDate: {upcoming(1, 39, a, b)}},
	}
	n := &fakeNotifier{}
	emitter, _ := newTestEmitter(n, nil)
	e := NewElite(data, leagues.Default(), emitter, 2.3, true, zerolog.Nop())
	e.now = fixedNow

	sum := e.Execute(context.Background())

	assert.Zero(t, sum.Analyzed)
	assert.Zero(t, n.sent())
}

func TestElite_DisabledSkips(t *testing.T) {
	n := &fakeNotifier{}
	emitter, _ := newTestEmitter(n, nil)
	e := NewElite(&fakeData{}, leagues.Default(), emitter, 2.3, false, zerolog.Nop())
	e.now = fixedNow

	sum := e.Execute(context.Background())

	assert.True(t, sum.Skipped)
	assert.Equal(t, "disabled", sum.Note)
}
