package models

// TeamStatistics mirrors the provider's season statistics payload for one team
type TeamStatistics struct {
	TeamID      int64
	LeagueID    int
	Season      int
	GamesPlayed int
	GoalsFor    int

	// ProviderAverage is the provider's precomputed goals-per-game figure.
	// Providers ship it as a string ("2.3"); empty when absent.
	ProviderAverage string
}

// TeamFormSummary is derived from a trailing window of finished matches.
// It is computed on every detector run and never stored.
type TeamFormSummary struct {
	TeamID       int64
	GamesPlayed  int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
	Over25Rate   float64 // share of matches with 3+ total goals, 0..1
	BTTSRate     float64 // share of matches where both sides scored, 0..1
	FormPct      float64 // (3*wins + draws) / (3*games) * 100
}

// LeagueAggregate summarizes finished fixtures in a league over a rolling window
type LeagueAggregate struct {
	LeagueID           int
	Season             int
	WindowDays         int
	SampleSize         int
	Over25Rate         float64 // 0..1
	BTTSRate           float64 // 0..1
	HalftimeGoalsShare float64 // share of all goals scored before halftime, 0..1
	DrawnNilRate       float64 // share of 0-0 results, 0..1
}

// QuotaUsage is a point-in-time snapshot of the request budget
type QuotaUsage struct {
	Used        int
	Limit       int
	Remaining   int
	Pct         float64 // 0..100
	PeriodLabel string  // e.g. "2026-08-27" or "2026-08"
}
