package notify

import (
	"fmt"
	"strings"

	"github.com/rmfonseca/matchradar/pkg/models"
)

// QuotaReportText renders the periodic quota report sent to the reports chat.
// Account figures come from provider response headers and may be absent.
func QuotaReportText(usage models.QuotaUsage, accountRemaining, accountLimit int, accountKnown bool) string {
	var b strings.Builder
	b.WriteString("<b>📊 Quota Report</b>\n\n")
	fmt.Fprintf(&b, "Period: %s\n", usage.PeriodLabel)
	fmt.Fprintf(&b, "Used: %d / %d (%.1f%%)\n", usage.Used, usage.Limit, usage.Pct)
	fmt.Fprintf(&b, "Remaining: %d\n", usage.Remaining)
	if accountKnown {
		fmt.Fprintf(&b, "Provider reports: %d / %d remaining\n", accountRemaining, accountLimit)
	}
	switch {
	case usage.Pct >= 95:
		b.WriteString("\n🔴 Budget exhausted, requests are blocked")
	case usage.Pct >= 75:
		b.WriteString("\n🟡 Budget running low")
	default:
		b.WriteString("\n🟢 Budget healthy")
	}
	return b.String()
}
