package contracts

import (
	"context"

	"github.com/rmfonseca/matchradar/pkg/models"
)

// Detector is one signal-evaluation policy. Implementations are stateless
// between runs except through the shared NotificationLedger; a run must always
// produce a summary, even when individual fixtures failed.
type Detector interface {
	// Name returns the unique identifier used in schedules and ledger keys
	Name() string

	// Enabled reports whether this detector should be scheduled at all
	Enabled() bool

	// Execute evaluates today's fixtures and emits deduplicated alerts
	Execute(ctx context.Context) models.RunSummary
}
