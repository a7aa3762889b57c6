package models

import "time"

// Fixture statuses as reported by the provider (short codes)
const (
	StatusNotStarted = "NS"
	StatusTBD        = "TBD"
	StatusFirstHalf  = "1H"
	StatusHalftime   = "HT"
	StatusSecondHalf = "2H"
	StatusFullTime   = "FT"
	StatusExtraTime  = "AET"
	StatusPenalties  = "PEN"
)

// Team identifies one side of a fixture
type Team struct {
	ID   int64
	Name string
}

// Fixture is an immutable snapshot of one match as returned by the provider
type Fixture struct {
	ID         int64
	KickoffUTC time.Time
	Status     string
	LeagueID   int
	LeagueName string
	Country    string
	Season     int
	HomeTeam   Team
	AwayTeam   Team

	// Goals are nil until the provider reports a score
	GoalsHome *int
	GoalsAway *int

	// Halftime score, when available
	HalftimeHome *int
	HalftimeAway *int
}

// IsFinished reports whether the fixture reached a final result
func (f Fixture) IsFinished() bool {
	switch f.Status {
	case StatusFullTime, StatusExtraTime, StatusPenalties:
		return true
	}
	return false
}

// IsUnresolved reports whether the fixture has not started yet
func (f Fixture) IsUnresolved() bool {
	return f.Status == StatusNotStarted || f.Status == StatusTBD
}

// TotalGoals returns the combined full-time score, treating missing goals as 0
func (f Fixture) TotalGoals() int {
	return intOrZero(f.GoalsHome) + intOrZero(f.GoalsAway)
}

// HalftimeGoals returns the combined halftime score, treating missing goals as 0
func (f Fixture) HalftimeGoals() int {
	return intOrZero(f.HalftimeHome) + intOrZero(f.HalftimeAway)
}

// IsGoalless reports a 0-0 full-time result
func (f Fixture) IsGoalless() bool {
	return intOrZero(f.GoalsHome) == 0 && intOrZero(f.GoalsAway) == 0
}

// BothTeamsScored reports whether each side scored at least once
func (f Fixture) BothTeamsScored() bool {
	return intOrZero(f.GoalsHome) > 0 && intOrZero(f.GoalsAway) > 0
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
