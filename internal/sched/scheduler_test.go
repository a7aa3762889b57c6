package sched

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/rmfonseca/matchradar/pkg/models"
)

func TestDueMark(t *testing.T) {
	hours := []int{7, 11, 15, 19}
	grace := time.Hour

	// Five past eleven: the 11:00 mark is due
	now := time.Date(2026, 8, 27, 11, 5, 0, 0, time.UTC)
	mark, ok := dueMark(hours, now, grace)
	assert.True(t, ok)
	assert.Equal(t, 11, mark.Hour())

	// 13:30: the 11:00 mark is past the grace window, nothing is due
	now = time.Date(2026, 8, 27, 13, 30, 0, 0, time.UTC)
	_, ok = dueMark(hours, now, grace)
	assert.False(t, ok)

	// Shortly past midnight: yesterday's 19:00 is long gone
	now = time.Date(2026, 8, 27, 0, 10, 0, 0, time.UTC)
	_, ok = dueMark(hours, now, grace)
	assert.False(t, ok)

	// 19:59 still catches the 19:00 mark
	now = time.Date(2026, 8, 27, 19, 59, 0, 0, time.UTC)
	mark, ok = dueMark(hours, now, grace)
	assert.True(t, ok)
	assert.Equal(t, 19, mark.Hour())
}

func TestDispatchFiresOncePerMark(t *testing.T) {
	var runs int32
	s := New(zerolog.Nop())
	s.Add(Job{
		Name:  "counter",
		Hours: []int{11},
		Run: func(context.Context) models.RunSummary {
			atomic.AddInt32(&runs, 1)
			return models.RunSummary{Detector: "counter"}
		},
	})

	now := time.Date(2026, 8, 27, 11, 0, 30, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.dispatch(context.Background())
	s.dispatch(context.Background()) // same mark, must not refire
	now = now.Add(10 * time.Minute)
	s.dispatch(context.Background())
	s.wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestDispatchSkipsWhileRunning(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var runs int32

	s := New(zerolog.Nop())
	s.Add(Job{
		Name:  "slow",
		Hours: []int{11, 12},
		Run: func(context.Context) models.RunSummary {
			atomic.AddInt32(&runs, 1)
			close(started)
			<-release
			return models.RunSummary{Detector: "slow"}
		},
	})

	now := time.Date(2026, 8, 27, 11, 0, 30, 0, time.UTC)
	s.now = func() time.Time { return now }
	s.dispatch(context.Background())
	<-started

	// The 12:00 mark comes due while the 11:00 run is still in flight
	now = time.Date(2026, 8, 27, 12, 0, 30, 0, time.UTC)
	s.dispatch(context.Background())

	close(release)
	s.wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&runs), "overlapping trigger is skipped, not queued")
}

func TestLastRunsSnapshot(t *testing.T) {
	s := New(zerolog.Nop())
	s.Add(Job{
		Name:  "elite",
		Hours: []int{11},
		Run: func(context.Context) models.RunSummary {
			return models.RunSummary{Detector: "elite", Analyzed: 4, Alerted: 1}
		},
	})

	now := time.Date(2026, 8, 27, 11, 0, 30, 0, time.UTC)
	s.now = func() time.Time { return now }
	s.dispatch(context.Background())
	s.wg.Wait()

	runs := s.LastRuns()
	assert.Equal(t, 1, runs["elite"].Alerted)
	assert.Equal(t, 4, runs["elite"].Analyzed)
}

func TestJobPanicDoesNotKillScheduler(t *testing.T) {
	var mu sync.Mutex
	order := []string{}

	s := New(zerolog.Nop())
	s.Add(Job{
		Name:  "bad",
		Hours: []int{11},
		Run: func(context.Context) models.RunSummary {
			panic("boom")
		},
	})
	s.Add(Job{
		Name:  "good",
		Hours: []int{11},
		Run: func(context.Context) models.RunSummary {
			mu.Lock()
			order = append(order, "good")
			mu.Unlock()
			return models.RunSummary{Detector: "good"}
		},
	})

	now := time.Date(2026, 8, 27, 11, 0, 30, 0, time.UTC)
	s.now = func() time.Time { return now }
	s.dispatch(context.Background())
	s.wg.Wait()

	mu.Lock()
	assert.Equal(t, []string{"good"}, order)
	mu.Unlock()

	// The panicking job can fire again at the next mark
	now = time.Date(2026, 8, 28, 11, 0, 30, 0, time.UTC)
	s.dispatch(context.Background())
	s.wg.Wait()
}

func TestStartStop(t *testing.T) {
	s := New(zerolog.Nop(), WithTickInterval(5*time.Millisecond))
	var runs int32
	s.Add(Job{
		Name:  "always",
		Hours: []int{time.Now().UTC().Hour()},
		Run: func(context.Context) models.RunSummary {
			atomic.AddInt32(&runs, 1)
			return models.RunSummary{}
		},
	})

	s.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	s.Stop()

	assert.Equal(t, int32(1), atomic.LoadInt32(&runs), "one mark fires once regardless of tick count")
}
