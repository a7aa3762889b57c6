// Package ledger deduplicates outbound alerts per detector, date and fixture.
// The memory ledger is the default; the Redis ledger survives restarts when a
// Redis address is configured.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rmfonseca/matchradar/pkg/contracts"
)

func key(detector, date string, fixtureID int64) string {
	return fmt.Sprintf("%s:%s:%d", detector, date, fixtureID)
}

// MemoryLedger keeps notification keys for the lifetime of the process.
// Entries are never removed; the set grows by at most a few hundred keys per
// day and resets on restart.
type MemoryLedger struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

var _ contracts.NotificationLedger = (*MemoryLedger)(nil)

// NewMemory creates an empty in-process ledger
func NewMemory() *MemoryLedger {
	return &MemoryLedger{seen: make(map[string]struct{})}
}

// ShouldNotify reports whether this detector/date/fixture has not been
// alerted yet.
func (l *MemoryLedger) ShouldNotify(detector, date string, fixtureID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, dup := l.seen[key(detector, date, fixtureID)]
	return !dup
}

// MarkNotified records the key. Callers mark before the outbound send
// completes so concurrent runs cannot double-send.
func (l *MemoryLedger) MarkNotified(detector, date string, fixtureID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[key(detector, date, fixtureID)] = struct{}{}
}

// Size returns the number of recorded keys
func (l *MemoryLedger) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}

// RedisLedger backs the dedupe set with Redis so a restart cannot re-alert
// fixtures already notified today. Keys expire a day after the alert date.
type RedisLedger struct {
	rdb *redis.Client
	log zerolog.Logger

	now func() time.Time
}

var _ contracts.NotificationLedger = (*RedisLedger)(nil)

// NewRedis creates a Redis-backed ledger
func NewRedis(rdb *redis.Client, log zerolog.Logger) *RedisLedger {
	return &RedisLedger{
		rdb: rdb,
		log: log.With().Str("component", "ledger").Logger(),
		now: time.Now,
	}
}

func redisKey(detector, date string, fixtureID int64) string {
	return fmt.Sprintf("alerts:sent:%s:%s:%d", detector, date, fixtureID)
}

// ShouldNotify reports whether the key is absent from Redis. On a Redis
// failure it answers false: losing one alert beats double-sending.
func (l *RedisLedger) ShouldNotify(detector, date string, fixtureID int64) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := l.rdb.Exists(ctx, redisKey(detector, date, fixtureID)).Result()
	if err != nil {
		l.log.Error().Err(err).Msg("ledger lookup failed, suppressing alert")
		return false
	}
	return n == 0
}

// MarkNotified stores the key with a TTL reaching the end of the alert date
// plus one day.
func (l *RedisLedger) MarkNotified(detector, date string, fixtureID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ttl := l.ttlFor(date)
	if err := l.rdb.SetNX(ctx, redisKey(detector, date, fixtureID), 1, ttl).Err(); err != nil {
		l.log.Error().Err(err).Msg("ledger mark failed")
	}
}

func (l *RedisLedger) ttlFor(date string) time.Duration {
	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 48 * time.Hour
	}
	until := day.AddDate(0, 0, 2).Sub(l.now().UTC())
	if until < time.Hour {
		until = time.Hour
	}
	return until
}
