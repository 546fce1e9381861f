// Package sweeper keeps the trial history bounded: old trials expire after a
// retention window and each parameter set keeps only its most useful trials.
package sweeper

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/aeopt/advisor/internal/activity"
	"github.com/aeopt/advisor/internal/store"
)

type Sweeper struct {
	Store *store.Store

	// Retention drops trials older than this window. Zero disables the pass.
	Retention time.Duration

	// MaxTrialsPerSet caps the trials kept per parameter set. Zero disables
	// the pass.
	MaxTrialsPerSet int

	// Tick frequency.
	Interval time.Duration
	Activity *activity.Log
}

func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	// 1) Retention pass (cheap and deterministic).
	if s.Retention > 0 {
		cutoff := time.Now().Add(-s.Retention)
		n, err := s.Store.DeleteTrialsBefore(ctx, cutoff)
		if err != nil {
			log.Printf("sweeper: retention: %v", err)
		} else if n > 0 {
			log.Printf("sweeper: expired %d trials older than %s", n, s.Retention)
			if s.Activity != nil {
				s.Activity.Add(activity.Event{
					Type: activity.EventTrialPrune,
					Note: "retention",
				})
			}
		}
	}

	// 2) Per-set cap pass.
	if s.MaxTrialsPerSet <= 0 {
		return
	}
	sets, err := s.Store.ListParamSets(ctx)
	if err != nil {
		log.Printf("sweeper: list sets: %v", err)
		return
	}
	for _, set := range sets {
		s.capSet(ctx, set.ID)
	}
}

func (s *Sweeper) capSet(ctx context.Context, setID string) {
	trials, err := s.Store.ListTrials(ctx, setID, 0)
	if err != nil {
		log.Printf("sweeper: list trials set=%s: %v", setID, err)
		return
	}
	excess := len(trials) - s.MaxTrialsPerSet
	if excess <= 0 {
		return
	}

	// Drop the least useful first: lowest score, then oldest.
	sort.Slice(trials, func(i, j int) bool {
		if trials[i].Score != trials[j].Score {
			return trials[i].Score < trials[j].Score
		}
		return trials[i].CreatedAt.Before(trials[j].CreatedAt)
	})

	for _, tr := range trials[:excess] {
		if err := s.Store.DeleteTrial(ctx, tr.ID); err != nil {
			log.Printf("sweeper: delete trial %s: %v", tr.ID, err)
			continue
		}
		if s.Activity != nil {
			s.Activity.Add(activity.Event{
				Type:  activity.EventTrialPrune,
				SetID: setID,
				Note:  "cap",
			})
		}
	}
	log.Printf("sweeper: capped set=%s removed=%d kept=%d", setID, excess, s.MaxTrialsPerSet)
}
