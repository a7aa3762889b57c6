package apifootball

import (
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/rmfonseca/matchradar/pkg/models"
)

// envelope is the provider's outer response shape
type envelope struct {
	Response jsoniter.RawMessage `json:"response"`
}

type teamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// fixtureItem matches one element of the /fixtures response array
type fixtureItem struct {
	Fixture struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID      int    `json:"id"`
		Name    string `json:"name"`
		Country string `json:"country"`
		Season  int    `json:"season"`
	} `json:"league"`
	Teams struct {
		Home teamRef `json:"home"`
		Away teamRef `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
	Score struct {
		Halftime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"halftime"`
	} `json:"score"`
}

// statisticsItem matches the /teams/statistics response object
type statisticsItem struct {
	Fixtures struct {
		Played struct {
			Total int `json:"total"`
		} `json:"played"`
	} `json:"fixtures"`
	Goals struct {
		For struct {
			Total struct {
				Total int `json:"total"`
			} `json:"total"`
			Average struct {
				Total string `json:"total"`
			} `json:"average"`
		} `json:"for"`
	} `json:"goals"`
}

func parseFixtures(raw jsoniter.RawMessage) ([]models.Fixture, error) {
	var items []fixtureItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse fixtures response: %w", err)
	}

	fixtures := make([]models.Fixture, 0, len(items))
	for _, item := range items {
		kickoff, err := time.Parse(time.RFC3339, item.Fixture.Date)
		if err != nil {
			// A fixture without a parsable kickoff is useless for scheduling
			continue
		}

		fixtures = append(fixtures, models.Fixture{
			ID:           item.Fixture.ID,
			KickoffUTC:   kickoff.UTC(),
			Status:       item.Fixture.Status.Short,
			LeagueID:     item.League.ID,
			LeagueName:   item.League.Name,
			Country:      item.League.Country,
			Season:       item.League.Season,
			HomeTeam:     models.Team(item.Teams.Home),
			AwayTeam:     models.Team(item.Teams.Away),
			GoalsHome:    item.Goals.Home,
			GoalsAway:    item.Goals.Away,
			HalftimeHome: item.Score.Halftime.Home,
			HalftimeAway: item.Score.Halftime.Away,
		})
	}
	return fixtures, nil
}

func parseStatistics(raw jsoniter.RawMessage, teamID int64, leagueID, season int) (*models.TeamStatistics, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" || trimmed == "[]" {
		return nil, fmt.Errorf("empty statistics response for team %d", teamID)
	}

	var item statisticsItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("parse statistics response: %w", err)
	}

	return &models.TeamStatistics{
		TeamID:          teamID,
		LeagueID:        leagueID,
		Season:          season,
		GamesPlayed:     item.Fixtures.Played.Total,
		GoalsFor:        item.Goals.For.Total.Total,
		ProviderAverage: item.Goals.For.Average.Total,
	}, nil
}
