// Package heuristic implements the scoring strategies consumed by the host
// compiler's passes: inline cost, loop unroll factor and register-allocation
// priority. Every strategy is a pure function over (features, params) with no
// shared state, so concurrent evaluation from a parallel host pass is safe.
package heuristic

import (
	"github.com/aeopt/advisor/internal/feature"
	"github.com/aeopt/advisor/internal/param"
)

// Sign convention for inline costs: lower favors inlining. The base threshold
// is baked into the result (cost = aggregate - baseThreshold), so the host
// inlines exactly when the returned cost is negative. ShouldInline encodes
// that comparison in one place.
func ShouldInline(cost int64) bool {
	return cost < 0
}

// Fixed terms for the special-cased boolean fields. These are not tunable;
// the tunable boolean terms (cold penalty, loop bonus, vector bonus) come from
// the param set.
const (
	lastCallToStaticBonus = 30
	multipleBlocksPenalty = 5
)

// WeightedInlineCost is the default inline strategy: the heuristic fields are
// summed directly, informational fields are subtracted with percent weights,
// and the boolean fields contribute fixed bonuses or penalties.
//
// All arithmetic is int64: with weights bounded at 200% and feature magnitudes
// in the thousands, intermediate products stay far from overflow.
func WeightedInlineCost(v *feature.CallSiteVector, p param.Set) int64 {
	cost := calleeSizeCost(v, p)

	cost += v.At(feature.CallArgumentSetup)
	cost += v.At(feature.SwitchPenalty)
	cost += v.At(feature.JumpTablePenalty)
	cost += v.At(feature.CaseClusterPenalty)
	cost += v.At(feature.LoopPenalty)
	cost += v.At(feature.ColdCCPenalty)

	// Informational fields: net SROA savings and simplified instructions make
	// the callee cheaper after inlining, so they reduce the cost.
	sroaNet := v.At(feature.SROASavings) - v.At(feature.SROALosses)
	cost -= sroaNet * p.InlineSROAWeight / 100
	cost -= v.At(feature.SimplifiedInstructions) * p.InlineSimplifyWeight / 100

	cold := v.Bool(feature.ColdCallSite)
	if cold {
		cost += p.InlineColdPenalty
	}
	// Hot loop bodies are worth inlining into; a cold call site inside a loop
	// gets no such credit.
	if v.Bool(feature.CallSiteInLoop) && !cold {
		cost -= p.InlineLoopBonus
	}
	if v.Bool(feature.CalleeHasVectorInsns) {
		cost -= p.InlineVectorBonus
	}
	if v.Bool(feature.LastCallToStatic) {
		cost -= lastCallToStaticBonus
	}
	if v.Bool(feature.IsMultipleBlocks) {
		cost += multipleBlocksPenalty
	}

	return cost - p.InlineBaseThreshold
}

// SizeInlineCost is the minimal instruction-complexity strategy: one unit per
// plain callee instruction, callPenalty per call inside the callee, threshold
// baked in. A callee with one internal call and nine plain instructions at the
// default callPenalty of 25 aggregates to 34.
func SizeInlineCost(v *feature.CallSiteVector, p param.Set) int64 {
	return calleeSizeCost(v, p) - p.InlineBaseThreshold
}

func calleeSizeCost(v *feature.CallSiteVector, p param.Set) int64 {
	calls := v.At(feature.CalleeCallCount)
	plain := v.At(feature.CalleeInstructionCount) - calls
	if plain < 0 {
		plain = 0
	}
	return plain + calls*p.InlineCallPenalty
}
