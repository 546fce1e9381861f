package feature

// Stage is the allocation stage a live range is in. The numeric order mirrors
// the allocator's state machine and is part of the schema contract.
type Stage int64

const (
	StageNew Stage = iota
	StageAssign
	StageSplit
	StageSplit2
	StageSpill
	StageDone
)

var stageNames = [...]string{"new", "assign", "split", "split2", "spill", "done"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "invalid"
	}
	return stageNames[s]
}

// LiveRangeFeatures describes one live range as seen by the priority strategy.
// The json tags are the names used by decision requests over the API.
type LiveRangeFeatures struct {
	// Size is the spill weight multiplied by the instruction span of the range.
	Size int64 `json:"size"`
	// Stage is the current allocation stage.
	Stage Stage `json:"stage"`
	// AllocationPriority is the register-class priority, 5 bits (0-31).
	AllocationPriority int64 `json:"allocation_priority"`
	// NumAllocatable is the number of allocatable physical registers in the class.
	NumAllocatable int64 `json:"num_allocatable"`
	// BeginDist is the instruction distance from the range start to function end.
	// Meaningful for local ranges.
	BeginDist int64 `json:"begin_dist"`
	// EndDist is the instruction distance from function start to the range end.
	EndDist int64 `json:"end_dist"`
	// NumInstrs approximates the number of instructions in the range.
	NumInstrs int64 `json:"num_instrs"`

	// IsLocal is true when the range is contained in one basic block.
	IsLocal bool `json:"is_local"`
	// ForceGlobal is true when the register class has global priority or the
	// range is very large relative to the available registers.
	ForceGlobal bool `json:"force_global"`
	// HasPreference is true when a register hint is known for the range.
	HasPreference bool `json:"has_preference"`
	// IsCSR is true when the preferred register is callee-saved.
	IsCSR bool `json:"is_csr"`
}
