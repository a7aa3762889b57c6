// Package web serves the operational status endpoints: liveness, quota
// usage, cache statistics and the last run summary per job.
package web

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"github.com/rmfonseca/matchradar/internal/cache"
	"github.com/rmfonseca/matchradar/internal/quota"
	"github.com/rmfonseca/matchradar/internal/sched"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server exposes read-only process state over HTTP
type Server struct {
	governor  *quota.Governor
	cache     *cache.Cache
	scheduler *sched.Scheduler
	log       zerolog.Logger
	startedAt time.Time
}

// NewServer creates the status server
func NewServer(g *quota.Governor, c *cache.Cache, s *sched.Scheduler, log zerolog.Logger) *Server {
	return &Server{
		governor:  g,
		cache:     c,
		scheduler: s,
		log:       log.With().Str("component", "web").Logger(),
		startedAt: time.Now(),
	}
}

// Router builds the HTTP routes
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/usage", s.handleUsage).Methods(http.MethodGet)
	r.HandleFunc("/api/runs", s.handleRuns).Methods(http.MethodGet)
	r.HandleFunc("/api/cache", s.handleCache).Methods(http.MethodGet)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func (s *Server) handleUsage(w http.ResponseWriter, _ *http.Request) {
	usage := s.governor.Usage()
	resp := map[string]any{
		"used":      usage.Used,
		"limit":     usage.Limit,
		"remaining": usage.Remaining,
		"pct":       usage.Pct,
		"period":    usage.PeriodLabel,
	}
	if remaining, limit, ok := s.governor.AccountFigures(); ok {
		resp["account_remaining"] = remaining
		resp["account_limit"] = limit
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleRuns(w http.ResponseWriter, _ *http.Request) {
	runs := s.scheduler.LastRuns()
	resp := make(map[string]any, len(runs))
	for name, sum := range runs {
		entry := map[string]any{
			"started_at": sum.StartedAt.UTC().Format(time.RFC3339),
			"duration":   sum.Duration.String(),
			"analyzed":   sum.Analyzed,
			"alerted":    sum.Alerted,
			"errors":     sum.Errors,
		}
		if sum.Skipped {
			entry["skipped"] = sum.Note
		}
		resp[name] = entry
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleCache(w http.ResponseWriter, _ *http.Request) {
	stats := s.cache.Stats()
	s.writeJSON(w, map[string]any{
		"hits":   stats.Hits,
		"misses": stats.Misses,
		"sets":   stats.Sets,
		"size":   stats.Size,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response failed")
	}
}
