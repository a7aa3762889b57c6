package scorefeed

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmfonseca/matchradar/pkg/models"
)

func testAlert(id int64) models.Alert {
	return models.Alert{
		Detector:   "regression",
		FixtureID:  id,
		League:     "Premier League",
		MatchInfo:  "Brentford vs Fulham",
		Market:     "Over 1.5 Goals",
		Confidence: models.ConfidenceHigh,
		Score:      2,
		KickoffUTC: time.Date(2026, 8, 27, 19, 0, 0, 0, time.UTC),
		CreatedAt:  time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordBuffersBelowBatchSize(t *testing.T) {
	w := NewWriter(nil, nil, zerolog.Nop())

	require.NoError(t, w.Record(context.Background(), testAlert(1)))
	require.NoError(t, w.Record(context.Background(), testAlert(2)))

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Len(t, w.buffer, 2, "below the batch size nothing is flushed")
}

func TestFlushEmptyBufferIsNoop(t *testing.T) {
	w := NewWriter(nil, nil, zerolog.Nop())
	assert.NoError(t, w.Flush(context.Background()))
}
