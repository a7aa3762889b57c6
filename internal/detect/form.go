package detect

import (
	"github.com/rmfonseca/matchradar/pkg/models"
)

// formWindow is the trailing number of finished matches form is computed over
const formWindow = 5

// ComputeForm summarizes a team's recent form from a fixture list in
// most-recent-first order. Only finished matches count, up to formWindow of
// them. Rates are 0-1 fractions; FormPct is 0-100.
func ComputeForm(teamID int64, recent []models.Fixture) models.TeamFormSummary {
	var s models.TeamFormSummary
	var over25, btts int

	for _, f := range recent {
		if !f.IsFinished() {
			continue
		}
		if s.GamesPlayed == formWindow {
			break
		}

		gf, ga := goalsFor(teamID, f)
		s.GamesPlayed++
		s.GoalsFor += gf
		s.GoalsAgainst += ga
		switch {
		case gf > ga:
			s.Wins++
		case gf == ga:
			s.Draws++
		default:
			s.Losses++
		}
		if f.TotalGoals() >= 3 {
			over25++
		}
		if f.BothTeamsScored() {
			btts++
		}
	}

	if s.GamesPlayed > 0 {
		n := float64(s.GamesPlayed)
		s.Over25Rate = float64(over25) / n
		s.BTTSRate = float64(btts) / n
		s.FormPct = float64(3*s.Wins+s.Draws) / (3 * n) * 100
	}
	return s
}

func goalsFor(teamID int64, f models.Fixture) (gf, ga int) {
	home, away := intVal(f.GoalsHome), intVal(f.GoalsAway)
	if f.HomeTeam.ID == teamID {
		return home, away
	}
	return away, home
}

func intVal(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
