package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rmfonseca/matchradar/pkg/models"
)

func TestQuotaReportText(t *testing.T) {
	usage := models.QuotaUsage{
		Used:        412,
		Limit:       2000,
		Remaining:   1588,
		Pct:         20.6,
		PeriodLabel: "2026-08-27",
	}

	text := QuotaReportText(usage, 1588, 7500, true)

	assert.Contains(t, text, "2026-08-27")
	assert.Contains(t, text, "412 / 2000 (20.6%)")
	assert.Contains(t, text, "Remaining: 1588")
	assert.Contains(t, text, "1588 / 7500 remaining")
	assert.Contains(t, text, "🟢")
}

func TestQuotaReportTextWithoutAccountFigures(t *testing.T) {
	usage := models.QuotaUsage{Used: 1950, Limit: 2000, Remaining: 50, Pct: 97.5, PeriodLabel: "2026-08"}

	text := QuotaReportText(usage, 0, 0, false)

	assert.NotContains(t, text, "Provider reports")
	assert.Contains(t, text, "🔴")
}

func TestQuotaReportTextWarnBand(t *testing.T) {
	usage := models.QuotaUsage{Used: 1600, Limit: 2000, Remaining: 400, Pct: 80, PeriodLabel: "2026-08-27"}

	assert.Contains(t, QuotaReportText(usage, 0, 0, false), "🟡")
}
