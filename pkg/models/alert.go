package models

import "time"

// Confidence tiers for candidate alerts, lowest to highest
const (
	ConfidenceMedium   = "MEDIUM"
	ConfidenceHigh     = "HIGH"
	ConfidenceVeryHigh = "VERY_HIGH"
)

// Alert is a candidate notification produced by a detector
type Alert struct {
	Detector   string
	FixtureID  int64
	League     string
	MatchInfo  string // "Home vs Away"
	Market     string // suggested market, e.g. "Over 1.5 Goals"
	Confidence string // one of the Confidence tiers
	Score      int    // detector-specific factor/weight count
	KickoffUTC time.Time
	Analysis   string
	CreatedAt  time.Time
}

// RunSummary is produced by every detector execution, including no-op runs
type RunSummary struct {
	Detector  string
	StartedAt time.Time
	Duration  time.Duration
	Analyzed  int
	Alerted   int
	Errors    int
	Skipped   bool   // run was a no-op (disabled, outside active hours)
	Note      string // short human-readable reason when Skipped
}
