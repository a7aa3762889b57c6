// Package sched drives the periodic detector runs. Jobs fire at fixed UTC
// hours; a missed trigger is run late only within a bounded grace window,
// and at most one execution per job is in flight at any time.
package sched

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rmfonseca/matchradar/pkg/models"
)

const (
	defaultTickInterval = 30 * time.Second
	defaultMisfireGrace = time.Hour
)

// Job is one schedulable unit of work. Run always returns a summary, even
// for no-op executions.
type Job struct {
	Name  string
	Hours []int // UTC hours at which the job fires
	Run   func(ctx context.Context) models.RunSummary
}

type job struct {
	Job

	mu        sync.Mutex
	running   bool
	lastFired time.Time // the hour mark last dispatched
}

// Scheduler owns the job set and the tick loop
type Scheduler struct {
	jobs     []*job
	interval time.Duration
	grace    time.Duration
	stopChan chan struct{}
	wg       sync.WaitGroup
	log      zerolog.Logger

	mu       sync.Mutex
	lastRuns map[string]models.RunSummary

	now func() time.Time
}

// Option customizes a Scheduler
type Option func(*Scheduler)

// WithTickInterval overrides how often due jobs are checked
func WithTickInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

// WithMisfireGrace overrides how long after its hour mark a job may still fire
func WithMisfireGrace(d time.Duration) Option {
	return func(s *Scheduler) { s.grace = d }
}

// New creates a scheduler with no jobs
func New(log zerolog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		interval: defaultTickInterval,
		grace:    defaultMisfireGrace,
		stopChan: make(chan struct{}),
		log:      log.With().Str("component", "scheduler").Logger(),
		lastRuns: make(map[string]models.RunSummary),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers a job. Call before Start.
func (s *Scheduler) Add(j Job) {
	s.jobs = append(s.jobs, &job{Job: j})
}

// Start launches the tick loop
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.dispatch(ctx)
			case <-s.stopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	s.log.Info().Int("jobs", len(s.jobs)).Msg("scheduler started")
}

// Stop shuts the tick loop down and waits for in-flight jobs
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

// LastRuns returns a copy of the most recent summary per job
func (s *Scheduler) LastRuns() map[string]models.RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.RunSummary, len(s.lastRuns))
	for k, v := range s.lastRuns {
		out[k] = v
	}
	return out
}

// dispatch fires every job with a due hour mark. A mark older than the grace
// window is dropped, not run late; a job still running from a previous
// trigger skips this one entirely.
func (s *Scheduler) dispatch(ctx context.Context) {
	now := s.now().UTC()
	for _, j := range s.jobs {
		mark, ok := dueMark(j.Hours, now, s.grace)
		if !ok {
			continue
		}

		j.mu.Lock()
		if !mark.After(j.lastFired) {
			j.mu.Unlock()
			continue
		}
		j.lastFired = mark
		if j.running {
			j.mu.Unlock()
			s.log.Warn().Str("job", j.Name).Msg("previous run still in flight, skipping trigger")
			continue
		}
		j.running = true
		j.mu.Unlock()

		s.wg.Add(1)
		go s.runJob(ctx, j)
	}
}

func (s *Scheduler) runJob(ctx context.Context, j *job) {
	defer s.wg.Done()
	defer func() {
		j.mu.Lock()
		j.running = false
		j.mu.Unlock()
		if r := recover(); r != nil {
			s.log.Error().Str("job", j.Name).Interface("panic", r).Msg("job panicked")
		}
	}()

	sum := j.Run(ctx)

	s.mu.Lock()
	s.lastRuns[j.Name] = sum
	s.mu.Unlock()

	evt := s.log.Info().
		Str("job", j.Name).
		Dur("duration", sum.Duration).
		Int("analyzed", sum.Analyzed).
		Int("alerted", sum.Alerted).
		Int("errors", sum.Errors)
	if sum.Skipped {
		evt = evt.Str("skipped", sum.Note)
	}
	evt.Msg("job complete")
}

// dueMark returns the most recent configured hour mark within the grace
// window, ok=false when none applies.
func dueMark(hours []int, now time.Time, grace time.Duration) (time.Time, bool) {
	var best time.Time
	found := false
	for _, h := range hours {
		mark := time.Date(now.Year(), now.Month(), now.Day(), h, 0, 0, 0, time.UTC)
		if mark.After(now) {
			// Yesterday's mark may still be inside the grace window
			mark = mark.AddDate(0, 0, -1)
		}
		if now.Sub(mark) > grace {
			continue
		}
		if !found || mark.After(best) {
			best = mark
			found = true
		}
	}
	return best, found
}
