// Package config loads and validates the process configuration from the
// environment, optionally seeded from a .env file. Validation is fail-fast:
// the core never starts with a broken configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the validated run-lifetime configuration. The core treats every
// field as a constant once loaded.
type Config struct {
	// Provider
	APIKey        string
	APIDailyLimit int
	QuotaPeriod   string // daily or monthly

	// Telegram
	TelegramToken    string
	DryRun           bool
	ChatIDElite      int64
	ChatIDRegression int64
	ChatIDForm       int64
	ChatIDReports    int64

	// Detectors
	EliteEnabled         bool
	EliteThreshold       float64
	RegressionEnabled    bool
	RegressionMaxAgeDays int
	FormEnabled          bool

	// Schedules (UTC hours)
	EliteHours       []int
	RegressionHours  []int
	FormHours        []int
	QuotaReportHours []int

	// Regression active window (local hours in ActiveTZ)
	ActiveHoursStart int
	ActiveHoursEnd   int
	ActiveTZ         string

	// Reference data override
	RefDataPath string

	// Storage (both optional)
	RedisAddr     string
	RedisPassword string
	PostgresDSN   string

	// Status server
	Port int
}

// Load reads configuration from the environment. envFile, when non-empty and
// present, is loaded first without overriding already-set variables.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		// A missing .env file is fine; the environment may be set directly
		_ = godotenv.Load(envFile)
	}

	cfg := &Config{
		APIKey:        os.Getenv("API_FOOTBALL_KEY"),
		APIDailyLimit: envInt("API_DAILY_LIMIT", 2000),
		QuotaPeriod:   envStr("QUOTA_PERIOD", "daily"),

		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		DryRun:           envBool("DRY_RUN", false),
		ChatIDElite:      envInt64("CHAT_ID_ELITE", 0),
		ChatIDRegression: envInt64("CHAT_ID_REGRESSION", 0),
		ChatIDForm:       envInt64("CHAT_ID_FORM", 0),
		ChatIDReports:    envInt64("CHAT_ID_REPORTS", 0),

		EliteEnabled:         envBool("ELITE_ENABLED", true),
		EliteThreshold:       envFloat("ELITE_GOALS_THRESHOLD", 2.3),
		RegressionEnabled:    envBool("REGRESSION_ENABLED", true),
		RegressionMaxAgeDays: envInt("MAX_LAST_MATCH_AGE_DAYS", 10),
		FormEnabled:          envBool("FORM_ENABLED", true),

		EliteHours:       envHours("ELITE_HOURS", []int{7, 11, 15, 19}),
		RegressionHours:  envHours("REGRESSION_HOURS", []int{8, 10, 12, 14, 17, 20}),
		FormHours:        envHours("FORM_HOURS", []int{9, 13, 18}),
		QuotaReportHours: envHours("QUOTA_REPORT_HOURS", []int{8, 20}),

		ActiveHoursStart: envInt("ACTIVE_HOURS_START", 8),
		ActiveHoursEnd:   envInt("ACTIVE_HOURS_END", 23),
		ActiveTZ:         envStr("ACTIVE_TZ", "Europe/Lisbon"),

		RefDataPath: os.Getenv("REFDATA_PATH"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),

		Port: envInt("PORT", 8080),
	}

	// Unset per-detector chats fall back to the elite chat
	if cfg.ChatIDRegression == 0 {
		cfg.ChatIDRegression = cfg.ChatIDElite
	}
	if cfg.ChatIDForm == 0 {
		cfg.ChatIDForm = cfg.ChatIDElite
	}
	if cfg.ChatIDReports == 0 {
		cfg.ChatIDReports = cfg.ChatIDElite
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every constraint the core relies on
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_FOOTBALL_KEY is required")
	}
	if !c.DryRun && c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required unless DRY_RUN is set")
	}
	if !c.DryRun && c.ChatIDElite == 0 {
		return fmt.Errorf("CHAT_ID_ELITE is required unless DRY_RUN is set")
	}
	if c.APIDailyLimit <= 0 {
		return fmt.Errorf("API_DAILY_LIMIT must be positive, got %d", c.APIDailyLimit)
	}
	if c.QuotaPeriod != "daily" && c.QuotaPeriod != "monthly" {
		return fmt.Errorf("QUOTA_PERIOD must be daily or monthly, got %q", c.QuotaPeriod)
	}
	if c.EliteThreshold <= 0 {
		return fmt.Errorf("ELITE_GOALS_THRESHOLD must be positive, got %v", c.EliteThreshold)
	}
	if c.RegressionMaxAgeDays <= 0 {
		return fmt.Errorf("MAX_LAST_MATCH_AGE_DAYS must be positive, got %d", c.RegressionMaxAgeDays)
	}
	if c.ActiveHoursStart < 0 || c.ActiveHoursStart > 23 || c.ActiveHoursEnd < 0 || c.ActiveHoursEnd > 23 {
		return fmt.Errorf("active hours must be within 0-23")
	}
	if c.ActiveHoursStart > c.ActiveHoursEnd {
		return fmt.Errorf("ACTIVE_HOURS_START %d is after ACTIVE_HOURS_END %d", c.ActiveHoursStart, c.ActiveHoursEnd)
	}
	for _, set := range [][]int{c.EliteHours, c.RegressionHours, c.FormHours, c.QuotaReportHours} {
		for _, h := range set {
			if h < 0 || h > 23 {
				return fmt.Errorf("schedule hour %d out of range", h)
			}
		}
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Port)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// envFloat accepts both dot and comma decimal separators
func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	v = strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

// envHours parses a comma-separated hour list, e.g. "7,11,15,19"
func envHours(key string, fallback []int) []int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var hours []int
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		h, err := strconv.Atoi(part)
		if err != nil {
			return fallback
		}
		hours = append(hours, h)
	}
	if len(hours) == 0 {
		return fallback
	}
	return hours
}
