// Package server exposes the planner over HTTP: CRUD on the in-memory
// collections, CSV imports, catalog queries, planning, and a websocket
// feed narrating a planning run phase by phase.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ihorxshdy/aeromar/internal/catalog"
	"github.com/ihorxshdy/aeromar/internal/ingest"
	"github.com/ihorxshdy/aeromar/internal/model"
	"github.com/ihorxshdy/aeromar/internal/planner"
	"github.com/ihorxshdy/aeromar/internal/store"
	"github.com/ihorxshdy/aeromar/internal/timing"
)

const maxImportBytes = 8 << 20

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type Server struct {
	store   *store.Store
	planner *planner.Planner
	cfg     *Config
	log     *logrus.Entry
}

func New(cfg *Config, st *store.Store) *Server {
	cfg.normalize()
	return &Server{
		store:   st,
		planner: planner.New(cfg.Planner),
		cfg:     cfg,
		log:     logrus.WithField("component", "server"),
	}
}

// Routes registers all handlers on the given mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleRoot)

	mux.HandleFunc("GET /api/flights", s.handleGetFlights)
	mux.HandleFunc("POST /api/flights", s.handleAddFlights)
	mux.HandleFunc("DELETE /api/flights", s.handleClearFlights)
	mux.HandleFunc("POST /api/flights/import-csv", s.handleImportFlights)

	mux.HandleFunc("GET /api/drivers", s.handleGetDrivers)
	mux.HandleFunc("POST /api/drivers/import-csv", s.handleImportDrivers)

	mux.HandleFunc("GET /api/shifts", s.handleGetShifts)
	mux.HandleFunc("POST /api/shifts/import-csv", s.handleImportShifts)

	mux.HandleFunc("GET /api/autolifts", s.handleGetAutolifts)
	mux.HandleFunc("POST /api/autolifts/import-csv", s.handleImportAutolifts)

	mux.HandleFunc("GET /api/rules/sms-combinations", s.handleSMSCombinations)
	mux.HandleFunc("GET /api/rules/dms-combinations", s.handleDMSCombinations)
	mux.HandleFunc("GET /api/rules/timing", s.handleTimingRules)

	mux.HandleFunc("POST /api/plan", s.handlePlan)
	mux.HandleFunc("GET /api/plan/stream", s.handlePlanStream)
	mux.HandleFunc("POST /api/assign/reset", s.handleResetAssignments)
	mux.HandleFunc("DELETE /api/assign/flight/{id}", s.handleUnassignFlight)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return nil, false
	}
	return body, true
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "aeromar autolift planner",
		"status":  "ok",
	})
}

func (s *Server) handleGetFlights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orEmpty(s.store.Flights()))
}

func (s *Server) handleAddFlights(w http.ResponseWriter, r *http.Request) {
	var flights []model.Flight
	if err := json.NewDecoder(r.Body).Decode(&flights); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	// recompute derived times so hand-posted flights stay consistent
	for i := range flights {
		f := &flights[i]
		f.ACType = timing.NormType(f.ACType)
		f.Class, _ = timing.ClassOf(f.ACType)
		tm := timing.DeriveFromSTD(f.ACType, f.STDMin)
		f.KitchenOut = tm.KitchenOut
		f.ServiceStart = tm.ServiceStart
		f.ServiceEnd = tm.ServiceEnd
		f.UnloadEnd = tm.UnloadEnd
	}
	s.store.AddFlights(flights)
	writeJSON(w, http.StatusOK, orEmpty(s.store.Flights()))
}

func (s *Server) handleClearFlights(w http.ResponseWriter, r *http.Request) {
	s.store.ClearFlights()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleImportFlights(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	flights, err := ingest.ParseFlights(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.store.SetFlights(flights)
	s.log.WithField("flights", len(flights)).Info("flights imported")
	writeJSON(w, http.StatusOK, flights)
}

func (s *Server) handleGetDrivers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orEmpty(s.store.Drivers()))
}

func (s *Server) handleImportDrivers(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	drivers, err := ingest.ParseDrivers(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.store.SetDrivers(drivers)
	s.log.WithField("drivers", len(drivers)).Info("drivers imported")
	writeJSON(w, http.StatusOK, drivers)
}

func (s *Server) handleGetShifts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orEmpty(s.store.Shifts()))
}

func (s *Server) handleImportShifts(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	shifts, err := ingest.ParseShifts(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.store.SetShifts(shifts)
	s.log.WithField("shifts", len(shifts)).Info("shift catalog imported")
	writeJSON(w, http.StatusOK, shifts)
}

func (s *Server) handleGetAutolifts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orEmpty(s.store.Autolifts()))
}

func (s *Server) handleImportAutolifts(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	lifts, err := ingest.ParseAutolifts(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.store.SetAutolifts(lifts)
	writeJSON(w, http.StatusOK, lifts)
}

func (s *Server) handleSMSCombinations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.SMSCombinations)
}

func (s *Server) handleDMSCombinations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]catalog.Mix{
		"business": catalog.DMSBusinessCombinations,
		"economy":  catalog.DMSEconomyCombinations,
	})
}

func (s *Server) handleTimingRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{
		"loadSMS":      timing.LoadSMS,
		"loadDMS":      timing.LoadDMS,
		"serviceSMS":   timing.ServiceSMS,
		"serviceDMS":   timing.ServiceDMS,
		"travel":       timing.Travel,
		"returnUnload": timing.ReturnUnload,
	})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	flights, drivers, shifts := s.store.Snapshot()

	result, err := s.planner.Plan(flights, drivers, shifts)
	if err != nil {
		if errors.Is(err, planner.ErrPlannerFault) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "planning failed")
		return
	}

	s.store.ApplyAssignments(result.Assignments)
	writeJSON(w, http.StatusOK, result)
}

// handlePlanStream runs one planning call over a websocket, pushing phase
// events as they happen and the result document last.
func (s *Server) handlePlanStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	type event struct {
		Phase   string            `json:"phase"`
		Message string            `json:"message,omitempty"`
		Result  *model.PlanResult `json:"result,omitempty"`
	}

	flights, drivers, shifts := s.store.Snapshot()
	result, err := s.planner.PlanWithProgress(flights, drivers, shifts, func(phase, message string) {
		_ = conn.WriteJSON(event{Phase: phase, Message: message})
	})
	if err != nil {
		_ = conn.WriteJSON(event{Phase: "error", Message: err.Error()})
		return
	}

	s.store.ApplyAssignments(result.Assignments)
	_ = conn.WriteJSON(event{Phase: "result", Result: result})
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) handleResetAssignments(w http.ResponseWriter, r *http.Request) {
	s.store.ResetAssignments()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleUnassignFlight(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.UnassignFlight(id) {
		writeError(w, http.StatusNotFound, "flight not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unassigned", "flight": id})
}

func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
