// Package testutil provides fixture and statistics builders shared by
// package tests.
package testutil

import (
	"time"

	"github.com/rmfonseca/matchradar/pkg/models"
)

// NewUpcomingFixture creates a not-started fixture with the given kickoff
func NewUpcomingFixture(id int64, leagueID int, home, away models.Team, kickoff time.Time) models.Fixture {
	return models.Fixture{
		ID:         id,
		KickoffUTC: kickoff,
		Status:     models.StatusNotStarted,
		LeagueID:   leagueID,
		LeagueName: "Test League",
		Country:    "Testland",
		Season:     seasonOf(kickoff),
		HomeTeam:   home,
		AwayTeam:   away,
	}
}

// NewFinishedFixture creates a full-time fixture with the given score. The
// fixture ID is derived from the kickoff so builders never collide.
func NewFinishedFixture(homeID, awayID int64, goalsHome, goalsAway int, kickoff time.Time) models.Fixture {
	return models.Fixture{
		ID:         kickoff.UnixNano(),
		KickoffUTC: kickoff,
		Status:     models.StatusFullTime,
		Season:     seasonOf(kickoff),
		HomeTeam:   models.Team{ID: homeID, Name: "Home"},
		AwayTeam:   models.Team{ID: awayID, Name: "Away"},
		GoalsHome:  &goalsHome,
		GoalsAway:  &goalsAway,
	}
}

// WithHalftime returns a copy of the fixture with the halftime score set
func WithHalftime(f models.Fixture, home, away int) models.Fixture {
	f.HalftimeHome = &home
	f.HalftimeAway = &away
	return f
}

// NewTeamStats creates season statistics for a team
func NewTeamStats(teamID int64, leagueID, season, played, goalsFor int, providerAvg string) models.TeamStatistics {
	return models.TeamStatistics{
		TeamID:          teamID,
		LeagueID:        leagueID,
		Season:          season,
		GamesPlayed:     played,
		GoalsFor:        goalsFor,
		ProviderAverage: providerAvg,
	}
}

// IntPtr creates a pointer to int
func IntPtr(v int) *int {
	return &v
}

// European seasons are labeled by their starting year
func seasonOf(t time.Time) int {
	if t.Month() >= time.July {
		return t.Year()
	}
	return t.Year() - 1
}
