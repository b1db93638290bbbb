// Package api exposes a read-only HTTP surface over a running practice for
// external UI collaborators. All handlers serve deep snapshots; nothing
// here mutates simulation state.
package api

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/clinicsim/clinicsim/sim"
)

// Server wraps a practice with HTTP handlers.
type Server struct {
	practice *sim.Practice
}

// NewServer creates a server over practice.
func NewServer(practice *sim.Practice) *Server {
	return &Server{practice: practice}
}

// Router builds the HTTP route table with request logging and panic
// recovery.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	v1.HandleFunc("/suggestions", s.handleSuggestions).Methods(http.MethodGet)
	v1.HandleFunc("/availability", s.handleAvailability).Methods(http.MethodGet)
	v1.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)
	return handlers.CombinedLoggingHandler(os.Stdout, handlers.RecoveryHandler()(r))
}

// ListenAndServe starts the server on addr, blocking.
func (s *Server) ListenAndServe(addr string) error {
	logrus.Infof("api listening on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

type stateResponse struct {
	Now        sim.SimTime      `json:"now"`
	Reputation float64          `json:"reputation"`
	Building   sim.Building     `json:"building"`
	Therapists []*sim.Therapist `json:"therapists"`
	Clients    []*sim.Client    `json:"clients"`
	Sessions   []*sim.Session   `json:"sessions"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap := s.practice.Snapshot()
	writeJSON(w, stateResponse{
		Now:        s.practice.Now(),
		Reputation: snap.Reputation,
		Building:   snap.Building,
		Therapists: snap.TherapistList(),
		Clients:    snap.ClientList(),
		Sessions:   snap.SessionList(),
	})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.practice.Suggest())
}

// handleAvailability reports room availability for ?day=N&hour=H.
func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	day, err1 := strconv.Atoi(r.URL.Query().Get("day"))
	hour, err2 := strconv.Atoi(r.URL.Query().Get("hour"))
	if err1 != nil || err2 != nil || day < 1 || hour < 0 || hour > 23 {
		http.Error(w, `{"error":"day and hour query params required"}`, http.StatusBadRequest)
		return
	}
	snap := s.practice.Snapshot()
	writeJSON(w, sim.ComputeRoomAvailability(snap.Building, snap.SessionList(), day, hour))
}

type metricsResponse struct {
	SessionsCompleted int     `json:"sessions_completed"`
	SessionsCancelled int     `json:"sessions_cancelled"`
	Revenue           string  `json:"revenue"`
	AverageQuality    float64 `json:"average_quality"`
	LevelUps          int     `json:"level_ups"`
	ClientsSpawned    int     `json:"clients_spawned"`
	ClientsDropped    int     `json:"clients_dropped"`
	TrainingsFinished int     `json:"trainings_finished"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m := s.practice.Metrics()
	writeJSON(w, metricsResponse{
		SessionsCompleted: m.SessionsCompleted,
		SessionsCancelled: m.SessionsCancelled,
		Revenue:           m.Revenue.StringFixed(2),
		AverageQuality:    m.AverageQuality(),
		LevelUps:          m.LevelUps,
		ClientsSpawned:    m.ClientsSpawned,
		ClientsDropped:    m.ClientsDropped,
		TrainingsFinished: m.TrainingsFinished,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("encoding response: %v", err)
	}
}
