package leagues

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rmfonseca/matchradar/internal/names"
)

// overrideFile is the YAML shape for reference-data overrides. Every section
// is optional; entries upsert into the built-in tables by league id or
// normalized team name.
type overrideFile struct {
	RegressionLeagues []RegressionLeague `yaml:"regression_leagues"`
	FormLeagues       []FormLeague       `yaml:"form_leagues"`
	EliteTeams        []string           `yaml:"elite_teams"`
	Watchlist         []WatchlistEntry   `yaml:"watchlist"`
}

// Load builds the table from the built-in data, then applies the override
// file when path is non-empty. A missing override file is an error: a
// configured path that does not resolve should fail startup, not silently
// fall back.
func Load(path string) (*Table, error) {
	t := Default()
	if path == "" {
		return t, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference data override: %w", err)
	}

	var ov overrideFile
	if err := yaml.Unmarshal(raw, &ov); err != nil {
		return nil, fmt.Errorf("parse reference data override: %w", err)
	}

	for _, l := range ov.RegressionLeagues {
		if l.ID == 0 {
			return nil, fmt.Errorf("regression league override %q missing id", l.Name)
		}
		t.Regression[l.ID] = l
	}
	for _, l := range ov.FormLeagues {
		if l.ID == 0 {
			return nil, fmt.Errorf("form league override %q missing id", l.Name)
		}
		t.Form[l.ID] = l
	}
	for _, name := range ov.EliteTeams {
		t.Elite[names.Normalize(name)] = name
	}
	for _, w := range ov.Watchlist {
		if w.Team == "" {
			return nil, fmt.Errorf("watchlist override entry missing team name")
		}
		w.RiskLevel = riskFor(w.DrawRatePct)
		t.Watchlist[names.Normalize(w.Team)] = w
	}
	return t, nil
}
