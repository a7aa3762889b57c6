// Package scorefeed persists alert history to Postgres and publishes each
// alert to a Redis stream for downstream consumers. Writes are batched;
// history is an audit trail, not a delivery path, so failures are logged and
// never surface to detectors.
package scorefeed

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rmfonseca/matchradar/pkg/contracts"
	"github.com/rmfonseca/matchradar/pkg/models"
)

const (
	defaultBatchSize     = 50
	defaultFlushInterval = 5 * time.Second
	streamKey            = "alerts.sent"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Writer batches alert inserts and publishes to the alert stream. The Redis
// client is optional; with a nil client only Postgres is written.
type Writer struct {
	db    *sql.DB
	redis *redis.Client
	log   zerolog.Logger

	batchSize     int
	flushInterval time.Duration

	mu     sync.Mutex
	buffer []models.Alert

	flushTicker *time.Ticker
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

var _ contracts.AlertSink = (*Writer)(nil)

// NewWriter creates a batching alert writer
func NewWriter(db *sql.DB, redisClient *redis.Client, log zerolog.Logger) *Writer {
	return &Writer{
		db:            db,
		redis:         redisClient,
		log:           log.With().Str("component", "scorefeed").Logger(),
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		buffer:        make([]models.Alert, 0, defaultBatchSize),
		stopChan:      make(chan struct{}),
	}
}

// Start begins the background flush ticker
func (w *Writer) Start(ctx context.Context) {
	w.flushTicker = time.NewTicker(w.flushInterval)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-w.flushTicker.C:
				if err := w.Flush(ctx); err != nil {
					w.log.Error().Err(err).Msg("flush failed")
				}
			case <-w.stopChan:
				w.flushTicker.Stop()
				// Final flush on shutdown
				if err := w.Flush(ctx); err != nil {
					w.log.Error().Err(err).Msg("final flush failed")
				}
				return
			case <-ctx.Done():
				w.flushTicker.Stop()
				return
			}
		}
	}()
}

// Stop drains the buffer and shuts the ticker down
func (w *Writer) Stop() {
	close(w.stopChan)
	w.wg.Wait()
}

// Record buffers one alert, flushing when the batch fills
func (w *Writer) Record(ctx context.Context, alert models.Alert) error {
	w.mu.Lock()
	w.buffer = append(w.buffer, alert)
	shouldFlush := len(w.buffer) >= w.batchSize
	w.mu.Unlock()

	if shouldFlush {
		return w.Flush(ctx)
	}
	return nil
}

// Flush writes buffered alerts to Postgres, then publishes them to the
// Redis stream. Stream publish failures are logged, not returned; the
// database is the source of truth.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	if len(w.buffer) == 0 {
		w.mu.Unlock()
		return nil
	}
	alerts := w.buffer
	w.buffer = make([]models.Alert, 0, w.batchSize)
	w.mu.Unlock()

	if err := w.insertAlerts(ctx, alerts); err != nil {
		return err
	}

	if w.redis != nil {
		if err := w.publishToStream(ctx, alerts); err != nil {
			w.log.Error().Err(err).Msg("stream publish failed")
		}
	}
	return nil
}

func (w *Writer) insertAlerts(ctx context.Context, alerts []models.Alert) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO alerts (
			detector, fixture_id, league, match_info, market,
			confidence, score, kickoff_utc, analysis, created_at
		)
		SELECT * FROM UNNEST(
			$1::text[], $2::bigint[], $3::text[], $4::text[], $5::text[],
			$6::text[], $7::int[], $8::timestamptz[], $9::text[], $10::timestamptz[]
		)
	`

	detectors := make([]string, len(alerts))
	fixtureIDs := make([]int64, len(alerts))
	leaguesCol := make([]string, len(alerts))
	matchInfos := make([]string, len(alerts))
	markets := make([]string, len(alerts))
	confidences := make([]string, len(alerts))
	scores := make([]int, len(alerts))
	kickoffs := make([]time.Time, len(alerts))
	analyses := make([]string, len(alerts))
	createdAts := make([]time.Time, len(alerts))

	for i, a := range alerts {
		detectors[i] = a.Detector
		fixtureIDs[i] = a.FixtureID
		leaguesCol[i] = a.League
		matchInfos[i] = a.MatchInfo
		markets[i] = a.Market
		confidences[i] = a.Confidence
		scores[i] = a.Score
		kickoffs[i] = a.KickoffUTC
		analyses[i] = a.Analysis
		createdAts[i] = a.CreatedAt
	}

	_, err = tx.ExecContext(ctx, query,
		pq.Array(detectors), pq.Array(fixtureIDs), pq.Array(leaguesCol), pq.Array(matchInfos), pq.Array(markets),
		pq.Array(confidences), pq.Array(scores), pq.Array(kickoffs), pq.Array(analyses), pq.Array(createdAts),
	)
	if err != nil {
		return fmt.Errorf("insert alerts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (w *Writer) publishToStream(ctx context.Context, alerts []models.Alert) error {
	pipe := w.redis.Pipeline()
	for _, a := range alerts {
		msg, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("marshal stream message: %w", err)
		}
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: streamKey,
			Values: map[string]interface{}{"data": msg},
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline exec: %w", err)
	}
	return nil
}
