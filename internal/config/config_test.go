package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("API_FOOTBALL_KEY", "k")
	t.Setenv("TELEGRAM_TOKEN", "tok")
	t.Setenv("CHAT_ID_ELITE", "100")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2000, cfg.APIDailyLimit)
	assert.Equal(t, "daily", cfg.QuotaPeriod)
	assert.InDelta(t, 2.3, cfg.EliteThreshold, 1e-9)
	assert.Equal(t, 10, cfg.RegressionMaxAgeDays)
	assert.Equal(t, []int{7, 11, 15, 19}, cfg.EliteHours)
	assert.Equal(t, 8, cfg.ActiveHoursStart)
	assert.Equal(t, 23, cfg.ActiveHoursEnd)
	assert.Equal(t, "Europe/Lisbon", cfg.ActiveTZ)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.EliteEnabled)
}

func TestChatIDFallbacks(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, int64(100), cfg.ChatIDRegression)
	assert.Equal(t, int64(100), cfg.ChatIDForm)
	assert.Equal(t, int64(100), cfg.ChatIDReports)

	t.Setenv("CHAT_ID_REGRESSION", "200")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(200), cfg.ChatIDRegression)
}

func TestCommaDecimalThreshold(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ELITE_GOALS_THRESHOLD", "2,5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, cfg.EliteThreshold, 1e-9)
}

func TestHourListParsing(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("REGRESSION_HOURS", "9, 13,21")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []int{9, 13, 21}, cfg.RegressionHours)
}

func TestMissingAPIKeyFails(t *testing.T) {
	t.Setenv("API_FOOTBALL_KEY", "")
	t.Setenv("TELEGRAM_TOKEN", "tok")

	_, err := Load("")
	assert.Error(t, err)
}

func TestMissingTokenAllowedInDryRun(t *testing.T) {
	t.Setenv("API_FOOTBALL_KEY", "k")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("CHAT_ID_ELITE", "")
	t.Setenv("DRY_RUN", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.DryRun)
}

func TestInvalidQuotaPeriodFails(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("QUOTA_PERIOD", "weekly")

	_, err := Load("")
	assert.Error(t, err)
}

func TestOutOfRangeScheduleHourFails(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ELITE_HOURS", "7,25")

	_, err := Load("")
	assert.Error(t, err)
}

func TestBoolWords(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ELITE_ENABLED", "off")
	t.Setenv("FORM_ENABLED", "yes")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.EliteEnabled)
	assert.True(t, cfg.FormEnabled)
}
