package api

import (
	"net/http"

	"github.com/aeopt/advisor/internal/feature"
	"github.com/aeopt/advisor/internal/heuristic"
)

// Decision probes evaluate the active (or an explicitly named) strategy
// variant against one feature record. The search process uses them to inspect
// decisions without rebuilding the host compiler.

type inlineDecideRequest struct {
	Variant  string           `json:"variant,omitempty"`
	Features map[string]int64 `json:"features"`
}

type inlineDecideResponse struct {
	Variant string `json:"variant"`
	Cost    int64  `json:"cost"`
	Inline  bool   `json:"inline"`
}

func (s *Server) handleDecideInline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req inlineDecideRequest
	if !readJSON(w, r, &req) {
		return
	}

	snap := s.Config.Snapshot()
	variant := req.Variant
	if variant == "" {
		variant = snap.Variants[heuristic.DecisionInline]
	}
	strat, ok := s.Registry.Inline(variant)
	if !ok {
		http.Error(w, "unknown inline variant: "+variant, http.StatusBadRequest)
		return
	}

	v := feature.CallSiteVectorFromMap(req.Features)
	cost := strat(&v, snap.Params)
	writeJSON(w, http.StatusOK, inlineDecideResponse{
		Variant: variant,
		Cost:    cost,
		Inline:  heuristic.ShouldInline(cost),
	})
}

type unrollDecideRequest struct {
	Variant  string               `json:"variant,omitempty"`
	Features feature.LoopFeatures `json:"features"`
}

type unrollDecideResponse struct {
	Variant string `json:"variant"`
	Factor  uint64 `json:"factor"`
}

func (s *Server) handleDecideUnroll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req unrollDecideRequest
	if !readJSON(w, r, &req) {
		return
	}

	snap := s.Config.Snapshot()
	variant := req.Variant
	if variant == "" {
		variant = snap.Variants[heuristic.DecisionUnroll]
	}
	strat, ok := s.Registry.Unroll(variant)
	if !ok {
		http.Error(w, "unknown unroll variant: "+variant, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, unrollDecideResponse{
		Variant: variant,
		Factor:  strat(req.Features, snap.Params),
	})
}

type regallocDecideRequest struct {
	Variant  string                    `json:"variant,omitempty"`
	Features feature.LiveRangeFeatures `json:"features"`
}

type regallocDecideResponse struct {
	Variant  string `json:"variant"`
	Priority uint32 `json:"priority"`
}

func (s *Server) handleDecideRegalloc(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req regallocDecideRequest
	if !readJSON(w, r, &req) {
		return
	}

	snap := s.Config.Snapshot()
	variant := req.Variant
	if variant == "" {
		variant = snap.Variants[heuristic.DecisionRegallocPriority]
	}
	strat, ok := s.Registry.Priority(variant)
	if !ok {
		http.Error(w, "unknown regalloc variant: "+variant, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, regallocDecideResponse{
		Variant:  variant,
		Priority: strat(req.Features, snap.Params),
	})
}
