package feature

// LoopFeatures describes one loop as seen by the unroll strategy. The host
// fills every field; unknown quantities are 0 (TripCount, MaxTripCount) or
// false. The json tags are the names used by decision requests over the API.
type LoopFeatures struct {
	// LoopSize is the instruction count of the rolled loop body.
	LoopSize int64 `json:"loop_size"`
	// TripCount is the exact trip count, 0 if unknown.
	TripCount int64 `json:"trip_count"`
	// MaxTripCount is an upper bound on the trip count, 0 if unknown.
	MaxTripCount int64 `json:"max_trip_count"`
	// TripMultiple guarantees the trip count is a multiple of this value.
	TripMultiple int64 `json:"trip_multiple"`
	// Depth is the loop nesting depth, 1 for an outermost loop.
	Depth int64 `json:"depth"`
	// NumBlocks is the number of basic blocks in the loop.
	NumBlocks int64 `json:"num_blocks"`
	// BEInsns is the instruction overhead of the backend edge (typically ~2).
	BEInsns int64 `json:"be_insns"`
	// Threshold is the full-unroll cost threshold supplied by the host.
	Threshold int64 `json:"threshold"`
	// PartialThreshold is the partial-unroll cost threshold.
	PartialThreshold int64 `json:"partial_threshold"`
	// MaxCount caps the unroll factor, 0 for no cap.
	MaxCount int64 `json:"max_count"`
	// NumInlineCandidates counts inline candidates inside the loop body.
	NumInlineCandidates int64 `json:"num_inline_candidates"`

	// HasExactTripCount is true when TripCount holds the exact count.
	HasExactTripCount bool `json:"has_exact_trip_count"`
	// IsInnermost is true for innermost loops.
	IsInnermost bool `json:"is_innermost"`
	// MaxOrZero is true when the loop runs MaxTripCount times or not at all.
	MaxOrZero bool `json:"max_or_zero"`
	// AllowPartial permits partial unrolling.
	AllowPartial bool `json:"allow_partial"`
	// AllowRuntime permits runtime unrolling.
	AllowRuntime bool `json:"allow_runtime"`
}
