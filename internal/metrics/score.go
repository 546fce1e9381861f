package metrics

import (
	"sync"
	"time"
)

// SetScore tracks how a hyperparameter set is performing across trials.
type SetScore struct {
	// EWMA of the reported benchmark score.
	EWMA float64

	// Trials observed since start.
	Trials uint64

	// Best and last raw scores.
	Best float64
	Last float64

	// Timestamp of the last observation.
	LastAt time.Time
}

// ScoreTracker keeps an EWMA score per key (typically "setID/decisionPoint"),
// so the server can report which configurations are trending better.
type ScoreTracker struct {
	mu    sync.RWMutex
	alpha float64
	sets  map[string]*SetScore
}

// NewScoreTracker creates a tracker with EWMA smoothing factor alpha.
// Typical alpha: 0.1..0.3 (higher reacts faster).
func NewScoreTracker(alpha float64) *ScoreTracker {
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.2
	}
	return &ScoreTracker{
		alpha: alpha,
		sets:  map[string]*SetScore{},
	}
}

func (t *ScoreTracker) Observe(key string, score float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.sets[key]
	if s == nil {
		s = &SetScore{Best: score}
		t.sets[key] = s
	}

	if s.Trials == 0 {
		s.EWMA = score
	} else {
		s.EWMA = t.alpha*score + (1.0-t.alpha)*s.EWMA
	}
	if score > s.Best {
		s.Best = score
	}
	s.Last = score
	s.Trials++
	s.LastAt = time.Now()
}

func (t *ScoreTracker) Get(key string) (SetScore, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := t.sets[key]
	if s == nil {
		return SetScore{}, false
	}
	return *s, true
}

func (t *ScoreTracker) Snapshot() map[string]SetScore {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]SetScore, len(t.sets))
	for k, v := range t.sets {
		out[k] = *v
	}
	return out
}

func (t *ScoreTracker) Delete(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.sets, key)
}
