// Package leagues holds the static reference data the detectors consult:
// league configuration for the regression and rolling-form signals, the elite
// team list, and the goalless-draw watchlist. Loaded once at startup,
// optionally overridden from a YAML file, immutable afterwards.
package leagues

import (
	"github.com/rmfonseca/matchradar/internal/names"
)

// RegressionLeague configures one league for the goalless-draw regression
// signal. Percentages are historical full-season figures, not live data.
type RegressionLeague struct {
	ID           int    `yaml:"id"`
	Name         string `yaml:"name"`
	Country      string `yaml:"country"`
	DrawnNilPct  int    `yaml:"drawn_nil_pct"`
	Over15Pct    int    `yaml:"over15_pct"`
	Tier         int    `yaml:"tier"`
}

// FormLeague configures one league for the rolling-form signal
type FormLeague struct {
	ID              int     `yaml:"id"`
	Code            string  `yaml:"code"`
	Name            string  `yaml:"name"`
	MinTeamAvgGoals float64 `yaml:"min_team_avg_goals"`
	MinSampleGames  int     `yaml:"min_sample_games"`
}

// Table is the assembled reference data. Maps are keyed by league id, the
// elite set and watchlist by normalized team name.
type Table struct {
	Regression map[int]RegressionLeague
	Form       map[int]FormLeague
	Elite      map[string]string // normalized -> display name
	Watchlist  map[string]WatchlistEntry
}

// Default builds the table from the built-in data
func Default() *Table {
	t := &Table{
		Regression: make(map[int]RegressionLeague, len(regressionDefaults)),
		Form:       make(map[int]FormLeague, len(formDefaults)),
		Elite:      make(map[string]string, len(eliteDefaults)),
		Watchlist:  make(map[string]WatchlistEntry, len(watchlistDefaults)),
	}
	for _, l := range regressionDefaults {
		t.Regression[l.ID] = l
	}
	for _, l := range formDefaults {
		t.Form[l.ID] = l
	}
	for _, name := range eliteDefaults {
		t.Elite[names.Normalize(name)] = name
	}
	for _, w := range watchlistDefaults {
		w.RiskLevel = riskFor(w.DrawRatePct)
		t.Watchlist[names.Normalize(w.Team)] = w
	}
	return t
}

// IsElite reports whether a provider team name is on the elite list
func (t *Table) IsElite(teamName string) bool {
	_, ok := t.Elite[names.Normalize(teamName)]
	return ok
}

// WatchlistFor returns the watchlist entry for a provider team name
func (t *Table) WatchlistFor(teamName string) (WatchlistEntry, bool) {
	w, ok := t.Watchlist[names.Normalize(teamName)]
	return w, ok
}

// RegressionLeagueIDs returns the configured regression league ids
func (t *Table) RegressionLeagueIDs() []int {
	ids := make([]int, 0, len(t.Regression))
	for id := range t.Regression {
		ids = append(ids, id)
	}
	return ids
}

var regressionDefaults = []RegressionLeague{
	{ID: 39, Name: "Premier League", Country: "England", DrawnNilPct: 26, Over15Pct: 89, Tier: 1},
	{ID: 140, Name: "La Liga", Country: "Spain", DrawnNilPct: 23, Over15Pct: 78, Tier: 1},
	{ID: 78, Name: "Bundesliga", Country: "Germany", DrawnNilPct: 19, Over15Pct: 85, Tier: 1},
	{ID: 135, Name: "Serie A", Country: "Italy", DrawnNilPct: 25, Over15Pct: 81, Tier: 1},
	{ID: 61, Name: "Ligue 1", Country: "France", DrawnNilPct: 21, Over15Pct: 76, Tier: 1},
	{ID: 94, Name: "Primeira Liga", Country: "Portugal", DrawnNilPct: 24, Over15Pct: 77, Tier: 2},
	{ID: 88, Name: "Eredivisie", Country: "Netherlands", DrawnNilPct: 17, Over15Pct: 88, Tier: 2},
	{ID: 79, Name: "2. Bundesliga", Country: "Germany", DrawnNilPct: 20, Over15Pct: 84, Tier: 2},
	{ID: 203, Name: "Super Lig", Country: "Turkey", DrawnNilPct: 22, Over15Pct: 80, Tier: 2},
	{ID: 197, Name: "Super League", Country: "Greece", DrawnNilPct: 27, Over15Pct: 72, Tier: 3},
	{ID: 113, Name: "Allsvenskan", Country: "Sweden", DrawnNilPct: 21, Over15Pct: 82, Tier: 3},
}

var formDefaults = []FormLeague{
	{ID: 39, Code: "ENG1", Name: "Premier League", MinTeamAvgGoals: 2.30, MinSampleGames: 4},
	{ID: 140, Code: "ESP1", Name: "La Liga", MinTeamAvgGoals: 2.20, MinSampleGames: 4},
	{ID: 78, Code: "GER1", Name: "Bundesliga", MinTeamAvgGoals: 2.50, MinSampleGames: 4},
	{ID: 135, Code: "ITA1", Name: "Serie A", MinTeamAvgGoals: 2.25, MinSampleGames: 4},
	{ID: 61, Code: "FRA1", Name: "Ligue 1", MinTeamAvgGoals: 2.20, MinSampleGames: 4},
	{ID: 88, Code: "NED1", Name: "Eredivisie", MinTeamAvgGoals: 2.60, MinSampleGames: 4},
	{ID: 94, Code: "POR1", Name: "Primeira Liga", MinTeamAvgGoals: 2.20, MinSampleGames: 4},
}
