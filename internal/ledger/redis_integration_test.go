//go:build integration

package ledger

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 1})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("skipping integration test: %v", err)
	}
	require.NoError(t, rdb.FlushDB(context.Background()).Err())
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestRedisLedger_DedupesAcrossInstances(t *testing.T) {
	rdb := newTestRedis(t)

	first := NewRedis(rdb, zerolog.Nop())
	assert.True(t, first.ShouldNotify("regression", "2026-08-27", 101))
	first.MarkNotified("regression", "2026-08-27", 101)

	// A second instance simulates a process restart
	second := NewRedis(rdb, zerolog.Nop())
	assert.False(t, second.ShouldNotify("regression", "2026-08-27", 101))
	assert.True(t, second.ShouldNotify("elite", "2026-08-27", 101))
}

func TestRedisLedger_KeysCarryTTL(t *testing.T) {
	rdb := newTestRedis(t)

	l := NewRedis(rdb, zerolog.Nop())
	l.MarkNotified("regression", "2026-08-27", 202)

	ttl, err := rdb.TTL(context.Background(), "alerts:sent:regression:2026-08-27:202").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl.Seconds(), 0.0)
}
