// Package api serves the simulation over HTTP.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/chronica/internal/engine"
	"github.com/talgya/chronica/internal/persistence"
)

// Server serves the world state over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Store    *persistence.Store
	Clock    engine.WallClock
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	if s.Clock == nil {
		s.Clock = engine.RealClock{}
	}
	// Skip replays many hours per call, so it gets its own budget.
	skipLimiter := NewRateLimiter(60, time.Hour)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only; anyone can check in on the world).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/clock", s.handleClock)
	mux.HandleFunc("/api/v1/cities", s.handleCities)
	mux.HandleFunc("/api/v1/city/", s.handleCityDetail)
	mux.HandleFunc("/api/v1/person/", s.handlePersonDetail)
	mux.HandleFunc("/api/v1/building/", s.handleBuildingDetail)
	mux.HandleFunc("/api/v1/events", s.handleEvents)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/tick", s.adminOnly(s.handleTick))
	mux.HandleFunc("/api/v1/skip", s.adminOnly(RateLimitMiddleware(skipLimiter, s.handleSkip)))
	mux.HandleFunc("/api/v1/toggle", s.adminOnly(s.handleToggle))
	mux.HandleFunc("/api/v1/autoticker/start", s.adminOnly(s.handleAutotickerStart))
	mux.HandleFunc("/api/v1/autoticker/stop", s.adminOnly(s.handleAutotickerStop))
	mux.HandleFunc("/api/v1/autoticker/check", s.adminOnly(s.handleAutotickerCheck))
	mux.HandleFunc("/api/v1/rate", s.adminOnly(s.handleRate))
	mux.HandleFunc("/api/v1/snapshot", s.adminOnly(s.handleSnapshot))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require POST with a bearer token.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no CHRONICA_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	t := s.Sim.Time()
	stats := s.Sim.StatsSnapshot()
	auto := s.Sim.AutotickerStatus()
	cities := s.Sim.Cities()

	population := 0
	for _, c := range cities {
		population += c.Population
	}

	writeJSON(w, map[string]any{
		"name":       "Chronica",
		"hour":       t.Hour,
		"sim_time":   fmt.Sprintf("%s day %d, %02d:00 year %d", t.Season, t.DayOfYear, t.HourOfDay, t.Year),
		"season":     t.Season,
		"in_leap":    t.InLeap,
		"paused":     s.Sim.Paused(),
		"population": population,
		"cities":     len(cities),
		"deaths":     stats.TotalDeaths,
		"evictions":  stats.TotalEvictions,
		"events":     humanize.Comma(int64(stats.TotalEvents)),
		"autoticker": map[string]any{
			"enabled":     auto.Enabled,
			"interval":    humanize.SI(float64(auto.IntervalMS)/1000, "s"),
			"interval_ms": auto.IntervalMS,
		},
	})
}

func (s *Server) handleClock(w http.ResponseWriter, r *http.Request) {
	t := s.Sim.Time()
	valleys := map[string]uint64{}
	for _, v := range []engine.Valley{engine.ValleyDay, engine.ValleyDawn, engine.ValleyNight, engine.ValleyDusk} {
		valleys[string(v)] = v.LocalHour(t.HourOfDay)
	}
	writeJSON(w, map[string]any{
		"time":    t,
		"valleys": valleys,
	})
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Cities())
}

// pathID parses /api/v1/<kind>/:id.
func pathID(r *http.Request) (uint64, error) {
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 5 || parts[4] == "" {
		return 0, errors.New("missing id")
	}
	return strconv.ParseUint(parts[4], 10, 64)
}

func (s *Server) handleCityDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid city id", http.StatusBadRequest)
		return
	}
	c, err := s.Sim.CityStatus(id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, c)
}

func (s *Server) handlePersonDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid person id", http.StatusBadRequest)
		return
	}
	p, err := s.Sim.PersonNeeds(id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"person": p,
		"adequacy": map[string]float64{
			"level1": p.Needs.AdequacyL1(),
			"level2": p.Needs.AdequacyL2(),
			"level3": p.Needs.AdequacyL3(),
			"level4": p.Needs.AdequacyL4(),
		},
	})
}

func (s *Server) handleBuildingDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid building id", http.StatusBadRequest)
		return
	}
	b, err := s.Sim.BuildingStatus(id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, b)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	if since := r.URL.Query().Get("since"); since != "" && s.Store != nil {
		hour, err := strconv.ParseUint(since, 10, 64)
		if err != nil {
			http.Error(w, "invalid since hour", http.StatusBadRequest)
			return
		}
		evs, err := s.Store.EventsSince(hour, limit)
		if err != nil {
			slog.Error("event query failed", "error", err)
			http.Error(w, "event query failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, evs)
		return
	}
	writeJSON(w, s.Sim.RecentEvents(limit))
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	if err := s.Sim.Tick(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, map[string]any{"hour": s.Sim.CurrentHour()})
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hours uint64 `json:"hours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Hours < 1 || req.Hours > 8760 {
		http.Error(w, "hours must be 1-8760", http.StatusBadRequest)
		return
	}
	if err := s.Sim.Skip(req.Hours); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	slog.Info("skipped hours", "hours", req.Hours, "now", s.Sim.CurrentHour())
	writeJSON(w, map[string]any{"hour": s.Sim.CurrentHour(), "skipped": req.Hours})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	paused := s.Sim.Toggle()
	slog.Info("pause toggled", "paused", paused)
	writeJSON(w, map[string]any{"paused": paused})
}

func (s *Server) handleAutotickerStart(w http.ResponseWriter, r *http.Request) {
	s.Sim.StartAutoticker(s.Clock)
	writeJSON(w, s.Sim.AutotickerStatus())
}

func (s *Server) handleAutotickerStop(w http.ResponseWriter, r *http.Request) {
	s.Sim.StopAutoticker()
	writeJSON(w, s.Sim.AutotickerStatus())
}

func (s *Server) handleAutotickerCheck(w http.ResponseWriter, r *http.Request) {
	applied, err := s.Sim.CheckAutotick(s.Clock)
	if err != nil {
		if errors.Is(err, engine.ErrConflict) {
			http.Error(w, "tick conflict, retry", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"applied": applied, "hour": s.Sim.CurrentHour()})
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rate       string `json:"rate"`
		IntervalMS int64  `json:"interval_ms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	var err error
	switch {
	case req.Rate != "":
		err = s.Sim.SetTickRate(req.Rate, s.Clock)
	case req.IntervalMS > 0:
		err = s.Sim.SetTickInterval(req.IntervalMS, s.Clock)
	default:
		http.Error(w, "rate or interval_ms required", http.StatusBadRequest)
		return
	}

	var verr *engine.ValidationError
	if errors.As(err, &verr) {
		http.Error(w, verr.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	slog.Info("tick rate changed", "rate", req.Rate, "interval_ms", s.Sim.AutotickerStatus().IntervalMS)
	writeJSON(w, s.Sim.AutotickerStatus())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}
	if err := s.Store.SaveWorld(s.Sim); err != nil {
		slog.Error("snapshot save failed", "error", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"hour":    s.Sim.CurrentHour(),
		"message": "snapshot saved",
	})
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, engine.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
