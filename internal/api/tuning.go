package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aeopt/advisor/internal/activity"
	"github.com/aeopt/advisor/internal/heuristic"
	"github.com/aeopt/advisor/internal/param"
	"github.com/aeopt/advisor/internal/store"
)

type hyperparamsResponse struct {
	Definitions []param.Definition `json:"definitions"`
	Values      map[string]int64   `json:"values"`
	SetID       string             `json:"set_id,omitempty"`
	Version     uint64             `json:"version"`
}

func (s *Server) handleHyperparams(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		snap := s.Config.Snapshot()
		writeJSON(w, http.StatusOK, hyperparamsResponse{
			Definitions: param.Definitions(),
			Values:      snap.Params.Values(),
			SetID:       snap.SetID,
			Version:     snap.Version,
		})

	case http.MethodPost:
		var req struct {
			Name   string           `json:"name,omitempty"`
			Values map[string]int64 `json:"values"`
		}
		if !readJSON(w, r, &req) {
			return
		}

		// Missing knobs fall back to defaults, present values are clamped.
		set := param.Load(req.Values)

		var setID string
		if req.Name != "" {
			rec, err := s.Store.SaveParamSet(r.Context(), req.Name, set.Values())
			if err != nil {
				http.Error(w, "save: "+err.Error(), http.StatusInternalServerError)
				return
			}
			if err := s.Store.ActivateParamSet(r.Context(), rec.ID); err != nil {
				http.Error(w, "activate: "+err.Error(), http.StatusInternalServerError)
				return
			}
			setID = rec.ID
		}

		s.Config.SetParams(setID, set)
		s.Activity.Add(activity.Event{
			Type:  activity.EventParamUpdate,
			SetID: setID,
			Note:  req.Name,
		})

		snap := s.Config.Snapshot()
		writeJSON(w, http.StatusOK, hyperparamsResponse{
			Definitions: param.Definitions(),
			Values:      snap.Params.Values(),
			SetID:       snap.SetID,
			Version:     snap.Version,
		})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type paramSetResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	CreatedAt time.Time        `json:"created_at"`
	Active    bool             `json:"active"`
	Values    map[string]int64 `json:"values,omitempty"`
}

func (s *Server) handleParamSets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sets, err := s.Store.ListParamSets(r.Context())
		if err != nil {
			http.Error(w, "list: "+err.Error(), http.StatusInternalServerError)
			return
		}
		out := make([]paramSetResponse, 0, len(sets))
		for _, rec := range sets {
			out = append(out, paramSetResponse{
				ID:        rec.ID,
				Name:      rec.Name,
				CreatedAt: rec.CreatedAt,
				Active:    rec.Active,
			})
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var req struct {
			Name   string           `json:"name"`
			Values map[string]int64 `json:"values"`
		}
		if !readJSON(w, r, &req) {
			return
		}
		if req.Name == "" {
			http.Error(w, "missing name", http.StatusBadRequest)
			return
		}

		set := param.Load(req.Values)
		rec, err := s.Store.SaveParamSet(r.Context(), req.Name, set.Values())
		if err != nil {
			http.Error(w, "save: "+err.Error(), http.StatusInternalServerError)
			return
		}
		s.Activity.Add(activity.Event{
			Type:  activity.EventParamSetSaved,
			SetID: rec.ID,
			Note:  req.Name,
		})
		writeJSON(w, http.StatusOK, paramSetResponse{
			ID:        rec.ID,
			Name:      rec.Name,
			CreatedAt: rec.CreatedAt,
			Values:    set.Values(),
		})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleActivateParamSet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		SetID string `json:"set_id"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	if err := s.Store.ActivateParamSet(r.Context(), req.SetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "unknown set: "+req.SetID, http.StatusNotFound)
			return
		}
		http.Error(w, "activate: "+err.Error(), http.StatusInternalServerError)
		return
	}

	rec, values, ok, err := s.Store.GetParamSet(r.Context(), req.SetID)
	if err != nil || !ok {
		http.Error(w, "load set: "+req.SetID, http.StatusInternalServerError)
		return
	}

	s.Config.SetParams(rec.ID, param.Load(values))
	s.Activity.Add(activity.Event{
		Type:  activity.EventParamUpdate,
		SetID: rec.ID,
		Note:  rec.Name,
	})
	writeJSON(w, http.StatusOK, paramSetResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		Active:    true,
		Values:    values,
	})
}

type variantInfo struct {
	Active    string   `json:"active"`
	Available []string `json:"available"`
}

func (s *Server) handleVariants(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		snap := s.Config.Snapshot()
		out := map[string]variantInfo{}
		for _, point := range heuristic.DecisionPoints() {
			out[string(point)] = variantInfo{
				Active:    snap.Variants[point],
				Available: s.Registry.Variants(point),
			}
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var req struct {
			Point   string `json:"point"`
			Variant string `json:"variant"`
		}
		if !readJSON(w, r, &req) {
			return
		}

		point := heuristic.DecisionPoint(req.Point)
		if !s.Registry.Has(point, req.Variant) {
			http.Error(w, "unknown variant "+req.Variant+" for "+req.Point, http.StatusBadRequest)
			return
		}

		s.Config.SelectVariant(point, req.Variant)
		s.Activity.Add(activity.Event{
			Type:  activity.EventVariantSelect,
			Point: req.Point,
			Note:  req.Variant,
		})
		writeJSON(w, http.StatusOK, variantInfo{
			Active:    req.Variant,
			Available: s.Registry.Variants(point),
		})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type trialResponse struct {
	ID            string    `json:"id"`
	SetID         string    `json:"set_id"`
	DecisionPoint string    `json:"decision_point"`
	Variant       string    `json:"variant,omitempty"`
	Score         float64   `json:"score"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *Server) handleTrials(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}
		trials, err := s.Store.ListTrials(r.Context(), r.URL.Query().Get("set_id"), limit)
		if err != nil {
			http.Error(w, "list: "+err.Error(), http.StatusInternalServerError)
			return
		}
		out := make([]trialResponse, 0, len(trials))
		for _, rec := range trials {
			out = append(out, trialResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var req struct {
			SetID         string  `json:"set_id"`
			DecisionPoint string  `json:"decision_point"`
			Variant       string  `json:"variant"`
			Score         float64 `json:"score"`
			Note          string  `json:"note"`
		}
		if !readJSON(w, r, &req) {
			return
		}
		if req.DecisionPoint == "" {
			http.Error(w, "missing decision_point", http.StatusBadRequest)
			return
		}

		rec, err := s.Store.InsertTrial(r.Context(), store.TrialRecord{
			SetID:         req.SetID,
			DecisionPoint: req.DecisionPoint,
			Variant:       req.Variant,
			Score:         req.Score,
			Note:          req.Note,
		})
		if err != nil {
			http.Error(w, "insert: "+err.Error(), http.StatusInternalServerError)
			return
		}

		s.Scores.Observe(req.SetID+"/"+req.DecisionPoint, req.Score)
		s.Activity.Add(activity.Event{
			Type:  activity.EventTrial,
			SetID: req.SetID,
			Point: req.DecisionPoint,
			Note:  req.Note,
		})
		writeJSON(w, http.StatusOK, trialResponse(rec))

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
