package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rmfonseca/matchradar/pkg/models"
)

func TestComputeForm_TallyAndRates(t *testing.T) {
	day := func(n int) time.Time { return testNow.AddDate(0, 0, -n) }
	team := int64(50)
	recent := []models.Fixture{
		finished(team, 2, 3, 1, day(3)),  // win, over, btts
		finished(3, team, 0, 2, day(6)),  // win (away), no btts
		finished(team, 4, 1, 1, day(9)),  // draw, btts
		finished(5, team, 3, 0, day(12)), // loss (away), over
		finished(team, 6, 0, 1, day(15)), // loss
	}

	s := ComputeForm(team, recent)

	assert.Equal(t, 5, s.GamesPlayed)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Draws)
	assert.Equal(t, 2, s.Losses)
	assert.Equal(t, 6, s.GoalsFor)
	assert.Equal(t, 6, s.GoalsAgainst)
	assert.InDelta(t, 0.4, s.Over25Rate, 1e-9)
	assert.InDelta(t, 0.4, s.BTTSRate, 1e-9)
	// (3*2 + 1) / 15 * 100
	assert.InDelta(t, 46.67, s.FormPct, 0.01)
}

func TestComputeForm_SkipsUnfinishedAndCapsWindow(t *testing.T) {
	team := int64(50)
	live := finished(team, 2, 0, 0, testNow)
	live.Status = models.StatusFirstHalf

	recent := []models.Fixture{live}
	for i := 1; i <= 7; i++ {
		recent = append(recent, finished(team, int64(100+i), 2, 0, testNow.AddDate(0, 0, -i)))
	}

	s := ComputeForm(team, recent)

	assert.Equal(t, formWindow, s.GamesPlayed, "only the five most recent finished matches count")
	assert.Equal(t, formWindow, s.Wins)
	assert.InDelta(t, 100.0, s.FormPct, 1e-9)
}

func TestComputeForm_NoFinishedMatches(t *testing.T) {
	s := ComputeForm(50, nil)
	assert.Zero(t, s.GamesPlayed)
	assert.Zero(t, s.FormPct)
}
