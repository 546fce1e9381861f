package state

import (
	"log"
	"sync"
	"time"

	"github.com/aeopt/advisor/internal/heuristic"
	"github.com/aeopt/advisor/internal/param"
)

// ActiveConfig is the single mutable cell of the advisor: the hyperparameter
// set and strategy variant selection every decision reads. Decisions take an
// immutable Snapshot, so a tuning update never interleaves with an evaluation.
type ActiveConfig struct {
	mu        sync.RWMutex
	params    param.Set
	variants  map[heuristic.DecisionPoint]string
	setID     string
	version   uint64
	updatedAt time.Time
}

// Snapshot is a point-in-time copy of the active configuration.
type Snapshot struct {
	Params    param.Set
	Variants  map[heuristic.DecisionPoint]string
	SetID     string
	Version   uint64
	UpdatedAt time.Time
}

// New returns a config at defaults with the registry's default variants.
func New(reg *heuristic.Registry) *ActiveConfig {
	variants := map[heuristic.DecisionPoint]string{}
	for _, point := range heuristic.DecisionPoints() {
		variants[point] = reg.DefaultVariant(point)
	}
	return &ActiveConfig{
		params:    param.Defaults(),
		variants:  variants,
		updatedAt: time.Now(),
	}
}

// SetParams installs a new hyperparameter set. setID identifies the persisted
// set, "" for an unsaved one.
func (c *ActiveConfig) SetParams(setID string, s param.Set) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.params = s
	c.setID = setID
	c.version++
	c.updatedAt = time.Now()
	log.Printf("config: params updated set=%s version=%d", setID, c.version)
}

// SelectVariant switches the active strategy variant for one decision point.
func (c *ActiveConfig) SelectVariant(point heuristic.DecisionPoint, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.variants[point] = name
	c.version++
	c.updatedAt = time.Now()
	log.Printf("config: variant selected point=%s variant=%s version=%d", point, name, c.version)
}

// Snapshot returns a copy safe to read without holding any lock.
func (c *ActiveConfig) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	variants := make(map[heuristic.DecisionPoint]string, len(c.variants))
	for k, v := range c.variants {
		variants[k] = v
	}
	return Snapshot{
		Params:    c.params,
		Variants:  variants,
		SetID:     c.setID,
		Version:   c.version,
		UpdatedAt: c.updatedAt,
	}
}
