// Package feature defines the fixed feature schemas that the host compiler
// fills in for each artifact it wants a decision on: one call-site vector per
// inlining candidate, one loop record per unroll candidate, one live-range
// record per register-allocation candidate.
//
// Feature values are read-only inputs. Strategies never mutate them, and the
// host must construct them at the documented length; a short or reordered
// vector is a host-side contract violation.
package feature

// CallSiteIndex addresses a single field of a CallSiteVector. The index
// assignment is part of the wire contract between the host and the strategies
// and must stay stable within a compilation run.
type CallSiteIndex int

const (
	// Heuristic fields: accumulated by the host cost model, summed directly.
	CallArgumentSetup CallSiteIndex = iota
	SwitchPenalty
	JumpTablePenalty
	CaseClusterPenalty
	LoopPenalty
	ColdCCPenalty
	CalleeInstructionCount
	CalleeCallCount
	CallSiteHeight

	// Informational fields: not summed by the default model, available for a
	// strategy to weight independently.
	SROASavings
	SROALosses
	LoadElimination
	SimplifiedInstructions
	NestedInlines
	NestedInlineCostEstimate

	// Boolean fields, encoded 0/1.
	ColdCallSite
	LastCallToStatic
	IsMultipleBlocks
	CallSiteInLoop
	CalleeHasVectorInsns

	NumCallSiteFeatures
)

var callSiteNames = [NumCallSiteFeatures]string{
	CallArgumentSetup:        "call_argument_setup",
	SwitchPenalty:            "switch_penalty",
	JumpTablePenalty:         "jump_table_penalty",
	CaseClusterPenalty:       "case_cluster_penalty",
	LoopPenalty:              "loop_penalty",
	ColdCCPenalty:            "cold_cc_penalty",
	CalleeInstructionCount:   "callee_instruction_count",
	CalleeCallCount:          "callee_call_count",
	CallSiteHeight:           "callsite_height",
	SROASavings:              "sroa_savings",
	SROALosses:               "sroa_losses",
	LoadElimination:          "load_elimination",
	SimplifiedInstructions:   "simplified_instructions",
	NestedInlines:            "nested_inlines",
	NestedInlineCostEstimate: "nested_inline_cost_estimate",
	ColdCallSite:             "is_cold_callsite",
	LastCallToStatic:         "last_call_to_static",
	IsMultipleBlocks:         "is_multiple_blocks",
	CallSiteInLoop:           "callsite_in_loop",
	CalleeHasVectorInsns:     "callee_has_vector_insns",
}

func (i CallSiteIndex) String() string {
	if i < 0 || i >= NumCallSiteFeatures {
		return "invalid"
	}
	return callSiteNames[i]
}

// CallSiteVector is the fixed-length feature vector describing one call site.
// Fields are int64 so that weighted aggregation cannot overflow for any value
// the host produces (weights are bounded at 200%, counts at feature scale).
type CallSiteVector [NumCallSiteFeatures]int64

// At returns the field at index i. Out-of-range indices read as 0 so that a
// strategy stays total even over a miscompiled index constant.
func (v *CallSiteVector) At(i CallSiteIndex) int64 {
	if i < 0 || i >= NumCallSiteFeatures {
		return 0
	}
	return v[i]
}

// Bool reads a 0/1-encoded field.
func (v *CallSiteVector) Bool(i CallSiteIndex) bool {
	return v.At(i) != 0
}

// CallSiteVectorFromMap builds a vector from name-keyed values, for decision
// requests arriving over the API. Unknown names are ignored; missing names
// stay 0.
func CallSiteVectorFromMap(values map[string]int64) CallSiteVector {
	var v CallSiteVector
	for i := CallSiteIndex(0); i < NumCallSiteFeatures; i++ {
		if val, ok := values[callSiteNames[i]]; ok {
			v[i] = val
		}
	}
	return v
}

// CallSiteFeatureNames lists the schema field names in index order.
func CallSiteFeatureNames() []string {
	out := make([]string, NumCallSiteFeatures)
	copy(out, callSiteNames[:])
	return out
}
