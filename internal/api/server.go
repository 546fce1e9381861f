// Package api exposes the tuning surface of the advisor: hyperparameter
// inspection and updates, strategy variant selection, decision probes and
// trial reporting. This is the interface an external search process drives
// between compilations.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/aeopt/advisor/internal/activity"
	"github.com/aeopt/advisor/internal/auth"
	"github.com/aeopt/advisor/internal/heuristic"
	"github.com/aeopt/advisor/internal/metrics"
	"github.com/aeopt/advisor/internal/state"
	"github.com/aeopt/advisor/internal/store"
)

type Server struct {
	Config   *state.ActiveConfig
	Registry *heuristic.Registry
	Store    *store.Store
	Scores   *metrics.ScoreTracker
	Activity *activity.Log
	Auth     *auth.Authenticator
}

// Register mounts every endpoint on the mux. Auth wrapping is the caller's
// job, so tests can exercise handlers directly.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/hyperparams", s.handleHyperparams)
	mux.HandleFunc("/v1/paramsets", s.handleParamSets)
	mux.HandleFunc("/v1/paramsets/activate", s.handleActivateParamSet)
	mux.HandleFunc("/v1/variants", s.handleVariants)
	mux.HandleFunc("/v1/decide/inline", s.handleDecideInline)
	mux.HandleFunc("/v1/decide/unroll", s.handleDecideUnroll)
	mux.HandleFunc("/v1/decide/regalloc", s.handleDecideRegalloc)
	mux.HandleFunc("/v1/trials", s.handleTrials)
	mux.HandleFunc("/v1/scores", s.handleScores)
	mux.HandleFunc("/v1/activity", s.handleActivity)
	mux.HandleFunc("/v1/apikeys", s.handleAPIKeys)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.Activity.List())
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.Scores.Snapshot())
}

func (s *Server) handleAPIKeys(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}

	key, record, err := s.Auth.GenerateKey(r.Context(), req.Name)
	if err != nil {
		http.Error(w, "create key: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"key":    key,
		"key_id": record.ID,
		"prefix": record.Prefix,
	})
}
