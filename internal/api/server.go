// Package api serves the admin HTTP surface for the bot engine.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"airline_bots/internal/bot"
	"airline_bots/internal/game"
	"airline_bots/internal/models"
	"airline_bots/internal/personality"
	"airline_bots/internal/world"
)

// Cycles is the scheduler surface the API drives.
type Cycles interface {
	Trigger(ctx context.Context) game.CycleReport
	Last() (game.CycleReport, bool)
	Start(ctx context.Context)
	Pause()
	Running() bool
	// Exclusive runs fn with no cycle in flight.
	Exclusive(ctx context.Context, fn func(context.Context) error) error
}

type Config struct {
	Store  world.Store
	Cycles Cycles
	// Gatherer backs /metrics; the route is omitted when nil.
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
	// BaseContext outlives requests and parents the scheduler loop.
	BaseContext context.Context
}

type Server struct {
	store  world.Store
	cycles Cycles
	log    *zap.Logger
	ctx    context.Context
}

// New constructs the HTTP router wired to the store and scheduler.
func New(cfg Config) http.Handler {
	s := &Server{store: cfg.Store, cycles: cfg.Cycles, log: cfg.Logger, ctx: cfg.BaseContext}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}
	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/bots", s.handleBots)
	r.Get("/bots/summary", s.handleSummary)
	r.Get("/bots/{id}/routes", s.handleBotRoutes)
	r.Get("/bots/{id}/aircraft", s.handleBotAircraft)
	r.Get("/cycles/last", s.handleLastCycle)
	r.Post("/admin/trigger-cycle", s.handleTrigger)
	r.Post("/admin/reset-bot/{id}", s.handleResetBot)
	r.Get("/admin/scheduler", s.handleSchedulerState)
	r.Post("/admin/scheduler/start", s.handleSchedulerStart)
	r.Post("/admin/scheduler/pause", s.handleSchedulerPause)
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

type botView struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	Balance        float64          `json:"balance"`
	Reputation     float64          `json:"reputation"`
	ServiceQuality float64          `json:"service_quality"`
	Category       string           `json:"category,omitempty"`
	Personality    personality.Kind `json:"personality"`
	RouteCount     int              `json:"route_count"`
	AircraftCount  int              `json:"aircraft_count"`
	BaseCount      int              `json:"base_count"`
}

func (s *Server) botViews(ctx context.Context) ([]botView, error) {
	bots, err := s.store.LoadBotAirlines(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]botView, 0, len(bots))
	for _, a := range bots {
		routes, err := s.store.LoadRoutes(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		fleet, err := s.store.LoadAircraft(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		bases, err := s.store.LoadBases(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, botView{
			ID:             a.ID,
			Name:           a.Name,
			Balance:        a.Balance,
			Reputation:     a.Reputation,
			ServiceQuality: a.ServiceQuality,
			Category:       a.Category,
			Personality:    personality.ClassifyKind(a),
			RouteCount:     len(routes),
			AircraftCount:  len(fleet),
			BaseCount:      len(bases),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Server) handleBots(w http.ResponseWriter, r *http.Request) {
	views, err := s.botViews(r.Context())
	if err != nil {
		s.serverError(w, "list bots", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bots": views})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	views, err := s.botViews(r.Context())
	if err != nil {
		s.serverError(w, "bot summary", err)
		return
	}
	dist := make(map[string]int, len(personality.All()))
	for _, p := range personality.All() {
		dist[p.Kind.String()] = 0
	}
	var routes, aircraft int
	for _, v := range views {
		dist[v.Personality.String()]++
		routes += v.RouteCount
		aircraft += v.AircraftCount
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_bots":               len(views),
		"total_routes":             routes,
		"total_aircraft":           aircraft,
		"personality_distribution": dist,
	})
}

type routeView struct {
	models.Route
	FromIATA   string   `json:"from_iata"`
	ToIATA     string   `json:"to_iata"`
	LoadFactor *float64 `json:"load_factor"`
	LastProfit *float64 `json:"last_profit"`
}

func (s *Server) handleBotRoutes(w http.ResponseWriter, r *http.Request) {
	a, ok := s.botFromPath(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	routes, err := s.store.LoadRoutes(ctx, a.ID)
	if err != nil {
		s.serverError(w, "load routes", err)
		return
	}
	airports, err := s.store.LoadAirports(ctx)
	if err != nil {
		s.serverError(w, "load airports", err)
		return
	}
	iata := make(map[int]string, len(airports))
	for _, ap := range airports {
		iata[ap.ID] = ap.IATA
	}

	out := make([]routeView, 0, len(routes))
	for _, rt := range routes {
		v := routeView{Route: rt, FromIATA: iata[rt.FromAirportID], ToIATA: iata[rt.ToAirportID]}
		hist, err := s.store.LoadConsumption(ctx, rt.ID, 1)
		if err != nil {
			s.serverError(w, "load consumption", err)
			return
		}
		if len(hist) > 0 {
			lf := bot.LoadFactor(rt, hist[0])
			profit := hist[0].Profit
			v.LoadFactor, v.LastProfit = &lf, &profit
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, map[string]any{"airline_id": a.ID, "routes": out})
}

type aircraftView struct {
	models.Aircraft
	HomeIATA string `json:"home_iata,omitempty"`
}

// handleBotAircraft lists a bot's fleet ordered by model name, then id.
func (s *Server) handleBotAircraft(w http.ResponseWriter, r *http.Request) {
	a, ok := s.botFromPath(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	fleet, err := s.store.LoadAircraft(ctx, a.ID)
	if err != nil {
		s.serverError(w, "load aircraft", err)
		return
	}
	airports, err := s.store.LoadAirports(ctx)
	if err != nil {
		s.serverError(w, "load airports", err)
		return
	}
	iata := make(map[int]string, len(airports))
	for _, ap := range airports {
		iata[ap.ID] = ap.IATA
	}
	sort.SliceStable(fleet, func(i, j int) bool {
		if fleet[i].Model.Name != fleet[j].Model.Name {
			return fleet[i].Model.Name < fleet[j].Model.Name
		}
		return fleet[i].ID < fleet[j].ID
	})
	out := make([]aircraftView, 0, len(fleet))
	for _, ac := range fleet {
		out = append(out, aircraftView{Aircraft: ac, HomeIATA: iata[ac.HomeAirportID]})
	}
	writeJSON(w, http.StatusOK, map[string]any{"airline_id": a.ID, "aircraft": out})
}

func (s *Server) handleLastCycle(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.cycles.Last()
	if !ok {
		writeJSONError(w, http.StatusNotFound, "no cycle has run yet")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	rep := s.cycles.Trigger(r.Context())
	s.log.Info("cycle triggered over api", zap.String("run_id", rep.RunID), zap.Int("cycle", rep.Cycle))
	writeJSON(w, http.StatusOK, rep)
}

// handleResetBot deletes every route of one bot airline. It runs under the
// cycle lock so a running cycle never sees a half-reset bot.
func (s *Server) handleResetBot(w http.ResponseWriter, r *http.Request) {
	a, ok := s.botFromPath(w, r)
	if !ok {
		return
	}
	deleted := 0
	err := s.cycles.Exclusive(r.Context(), func(ctx context.Context) error {
		routes, err := s.store.LoadRoutes(ctx, a.ID)
		if err != nil {
			return fmt.Errorf("load routes: %w", err)
		}
		for _, rt := range routes {
			if err := s.store.DeleteRoute(ctx, rt.ID); err != nil {
				return fmt.Errorf("delete route %d: %w", rt.ID, err)
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		s.serverError(w, "reset bot", err)
		return
	}
	s.log.Info("bot reset", zap.Int("airline", a.ID), zap.Int("routes_deleted", deleted))
	writeJSON(w, http.StatusOK, map[string]any{"airline_id": a.ID, "routes_deleted": deleted})
}

func (s *Server) handleSchedulerState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"running": s.cycles.Running()})
}

func (s *Server) handleSchedulerStart(w http.ResponseWriter, r *http.Request) {
	s.cycles.Start(s.ctx)
	writeJSON(w, http.StatusOK, map[string]bool{"running": s.cycles.Running()})
}

func (s *Server) handleSchedulerPause(w http.ResponseWriter, r *http.Request) {
	s.cycles.Pause()
	writeJSON(w, http.StatusOK, map[string]bool{"running": s.cycles.Running()})
}

// botFromPath resolves {id} to a bot airline, writing the error response
// when it cannot.
func (s *Server) botFromPath(w http.ResponseWriter, r *http.Request) (models.Airline, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad airline id")
		return models.Airline{}, false
	}
	a, err := s.store.LoadAirline(r.Context(), id)
	if errors.Is(err, world.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "airline not found")
		return models.Airline{}, false
	}
	if err != nil {
		s.serverError(w, "load airline", err)
		return models.Airline{}, false
	}
	if !a.Bot {
		writeJSONError(w, http.StatusBadRequest, "airline is not a bot")
		return models.Airline{}, false
	}
	return a, true
}

// ===== helpers =====

func (s *Server) serverError(w http.ResponseWriter, op string, err error) {
	s.log.Error("api request failed", zap.String("op", op), zap.Error(err))
	writeJSONError(w, http.StatusInternalServerError, op+" failed")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
