package detect

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rmfonseca/matchradar/internal/ledger"
	"github.com/rmfonseca/matchradar/pkg/models"
	"github.com/rmfonseca/matchradar/pkg/testutil"
)

// fakeData is an in-memory DataSource for detector tests
type fakeData struct {
	fixtures map[string][]models.Fixture // by date
	recent   map[int64][]models.Fixture  // by team id
	averages map[int64]float64           // by team id
}

func (d *fakeData) FixturesByDate(_ context.Context, date string, leagueID int, _ string) []models.Fixture {
	var out []models.Fixture
	for _, f := range d.fixtures[date] {
		if leagueID != 0 && f.LeagueID != leagueID {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (d *fakeData) TeamRecentMatches(_ context.Context, teamID int64, count int) []models.Fixture {
	recent := d.recent[teamID]
	if len(recent) > count {
		recent = recent[:count]
	}
	return recent
}

func (d *fakeData) TeamSeasonGoalAverage(_ context.Context, teamID int64, _, _ int) float64 {
	return d.averages[teamID]
}

func (d *fakeData) LeagueRollingAggregate(_ context.Context, _, _, _ int) *models.LeagueAggregate {
	return nil
}

// fakeNotifier records every send
type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	fail     bool
}

func (n *fakeNotifier) Send(_ context.Context, _ int64, text string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
	return !n.fail
}

func (n *fakeNotifier) sent() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

// fakeSink records alerts passed to it
type fakeSink struct {
	mu     sync.Mutex
	alerts []models.Alert
}

func (s *fakeSink) Record(_ context.Context, a models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, a)
	return nil
}

func newTestEmitter(n *fakeNotifier, s *fakeSink) (*Emitter, *ledger.MemoryLedger) {
	led := ledger.NewMemory()
	if s == nil {
		return NewEmitter(led, n, nil, 1, zerolog.Nop()), led
	}
	return NewEmitter(led, n, s, 1, zerolog.Nop()), led
}

var testNow = time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

const testDate = "2026-08-27"

func fixedNow() time.Time { return testNow }

func upcoming(id int64, leagueID int, home, away models.Team) models.Fixture {
	return testutil.NewUpcomingFixture(id, leagueID, home, away, testNow.Add(6*time.Hour))
}

func finished(homeID, awayID int64, goalsHome, goalsAway int, kickoff time.Time) models.Fixture {
	return testutil.NewFinishedFixture(homeID, awayID, goalsHome, goalsAway, kickoff)
}
