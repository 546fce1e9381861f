package heuristic

import (
	"sort"

	"github.com/aeopt/advisor/internal/feature"
	"github.com/aeopt/advisor/internal/param"
)

// DecisionPoint names one of the three host passes a strategy serves.
type DecisionPoint string

const (
	DecisionInline           DecisionPoint = "inline"
	DecisionUnroll           DecisionPoint = "unroll"
	DecisionRegallocPriority DecisionPoint = "regalloc-priority"
)

// DecisionPoints lists the decision points in a stable order.
func DecisionPoints() []DecisionPoint {
	return []DecisionPoint{DecisionInline, DecisionUnroll, DecisionRegallocPriority}
}

// Strategy signatures, one per decision point. All are pure functions.
type (
	InlineStrategy   func(*feature.CallSiteVector, param.Set) int64
	UnrollStrategy   func(feature.LoopFeatures, param.Set) uint64
	PriorityStrategy func(feature.LiveRangeFeatures, param.Set) uint32
)

// Registry is the closed strategy table: a fixed set of named variants per
// decision point, populated once at construction. The host runs exactly one
// variant per decision point at a time; variants are swapped whole, never
// mixed.
type Registry struct {
	inline   map[string]InlineStrategy
	unroll   map[string]UnrollStrategy
	priority map[string]PriorityStrategy
}

// Variant names. "weighted", "staged" and "packed" are the defaults.
const (
	VariantWeighted = "weighted"
	VariantSize     = "size"
	VariantStaged   = "staged"
	VariantPacked   = "packed"
)

// NewRegistry builds the registry with every known variant.
func NewRegistry() *Registry {
	return &Registry{
		inline: map[string]InlineStrategy{
			VariantWeighted: WeightedInlineCost,
			VariantSize:     SizeInlineCost,
		},
		unroll: map[string]UnrollStrategy{
			VariantStaged: UnrollFactor,
		},
		priority: map[string]PriorityStrategy{
			VariantPacked: RangePriority,
		},
	}
}

// DefaultVariant returns the default variant name for a decision point.
func (r *Registry) DefaultVariant(point DecisionPoint) string {
	switch point {
	case DecisionInline:
		return VariantWeighted
	case DecisionUnroll:
		return VariantStaged
	case DecisionRegallocPriority:
		return VariantPacked
	}
	return ""
}

// Inline returns the named inline strategy.
func (r *Registry) Inline(name string) (InlineStrategy, bool) {
	s, ok := r.inline[name]
	return s, ok
}

// Unroll returns the named unroll strategy.
func (r *Registry) Unroll(name string) (UnrollStrategy, bool) {
	s, ok := r.unroll[name]
	return s, ok
}

// Priority returns the named regalloc priority strategy.
func (r *Registry) Priority(name string) (PriorityStrategy, bool) {
	s, ok := r.priority[name]
	return s, ok
}

// Has reports whether the decision point knows the variant.
func (r *Registry) Has(point DecisionPoint, name string) bool {
	switch point {
	case DecisionInline:
		_, ok := r.inline[name]
		return ok
	case DecisionUnroll:
		_, ok := r.unroll[name]
		return ok
	case DecisionRegallocPriority:
		_, ok := r.priority[name]
		return ok
	}
	return false
}

// Variants lists the variant names for a decision point, sorted.
func (r *Registry) Variants(point DecisionPoint) []string {
	var out []string
	switch point {
	case DecisionInline:
		for name := range r.inline {
			out = append(out, name)
		}
	case DecisionUnroll:
		for name := range r.unroll {
			out = append(out, name)
		}
	case DecisionRegallocPriority:
		for name := range r.priority {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
