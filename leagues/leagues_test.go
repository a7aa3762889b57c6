package leagues

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	tbl := Default()

	assert.NotEmpty(t, tbl.Regression)
	assert.NotEmpty(t, tbl.Form)
	assert.Contains(t, tbl.Regression, 39)
	assert.Equal(t, "Premier League", tbl.Regression[39].Name)
}

func TestEliteLookupIsNormalized(t *testing.T) {
	tbl := Default()

	assert.True(t, tbl.IsElite("Manchester City"))
	assert.True(t, tbl.IsElite("MANCHESTER   CITY"))
	assert.True(t, tbl.IsElite("Atlético Madrid"))
	assert.False(t, tbl.IsElite("Luton Town"))
}

func TestWatchlistRiskDerivation(t *testing.T) {
	tbl := Default()

	low, ok := tbl.WatchlistFor("Manchester City")
	require.True(t, ok)
	assert.Equal(t, RiskLow, low.RiskLevel)

	mod, ok := tbl.WatchlistFor("Besiktas")
	require.True(t, ok)
	assert.Equal(t, RiskModerate, mod.RiskLevel)

	high, ok := tbl.WatchlistFor("Hammarby")
	require.True(t, ok)
	assert.Equal(t, RiskHigh, high.RiskLevel)
}

func TestWatchlistLookupIgnoresAccents(t *testing.T) {
	tbl := Default()

	_, ok := tbl.WatchlistFor("Beşiktaş")
	assert.True(t, ok)
}

func TestLoadAppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refdata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
regression_leagues:
  - id: 71
    name: Serie A
    country: Brazil
    drawn_nil_pct: 12
    over15_pct: 83
    tier: 2
elite_teams:
  - Flamengo
watchlist:
  - team: Palmeiras
    draw_rate_pct: 9.5
    fair_odds: 2.1
    sample_size: 114
`), 0o644))

	tbl, err := Load(path)
	require.NoError(t, err)

	assert.Contains(t, tbl.Regression, 71)
	assert.Contains(t, tbl.Regression, 39, "defaults survive the override")
	assert.True(t, tbl.IsElite("Flamengo"))

	w, ok := tbl.WatchlistFor("Palmeiras")
	require.True(t, ok)
	assert.Equal(t, RiskHigh, w.RiskLevel, "risk is derived, not read from the file")
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load("/nonexistent/refdata.yaml")
	assert.Error(t, err)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	tbl, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, tbl.Elite)
}
