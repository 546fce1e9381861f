package heuristic

import (
	"math"

	"github.com/aeopt/advisor/internal/feature"
	"github.com/aeopt/advisor/internal/param"
)

// Allocation priorities are 32-bit values whose numeric ordering, not the
// meaning of individual bits, is the contract the allocator depends on: live
// ranges are processed in descending priority order.
//
// Layout for non-split ranges: [always-high:1][hint:1][global:1][class:5][base:24].
// Split-stage ranges never set the always-high bit, so every non-split range
// outranks every split range regardless of size.
const (
	priorityBaseBits  = 24
	maxPriorityBase   = 1<<priorityBaseBits - 1
	classPriorityMask = 0x1f

	priorityGlobalBit     = 1 << 29
	priorityHintBit       = 1 << 30
	priorityAlwaysHighBit = 1 << 31

	// Split-stage priorities must stay strictly below the always-high bit or
	// the deferred-allocation ordering breaks.
	maxSplitPriority = priorityAlwaysHighBit - 1
)

// Priority is the unpacked form of an allocation priority. Keeping the fields
// explicit makes the encoding auditable; Pack produces the value the allocator
// orders by.
type Priority struct {
	// Base is the 24-bit magnitude: begin distance for cheap local ranges,
	// weighted size otherwise. Pack clamps it, it never wraps.
	Base uint32
	// ClassPriority is the 5-bit register-class priority.
	ClassPriority uint8
	// Global is set for every range except local Assign-stage ones.
	Global bool
	// Hint is set when the range carries a register preference.
	Hint bool
	// AlwaysHigh is set on every non-split range.
	AlwaysHigh bool
}

// Pack encodes the priority into its 32-bit ordering value.
func (p Priority) Pack() uint32 {
	v := p.Base
	if v > maxPriorityBase {
		v = maxPriorityBase
	}
	v |= uint32(p.ClassPriority&classPriorityMask) << priorityBaseBits
	if p.Global {
		v |= priorityGlobalBit
	}
	if p.Hint {
		v |= priorityHintBit
	}
	if p.AlwaysHigh {
		v |= priorityAlwaysHighBit
	}
	return v
}

// RangePriority computes the allocation priority for one live range.
//
// Split-stage ranges (ranges that could not be allocated and were not split
// yet) are deferred behind everything else: their priority is the raw weighted
// size with no always-high bit. All other ranges are bit-packed: local ranges
// in the Assign stage are ordered by linear instruction position, global and
// split-off ranges long-to-short by weighted size.
func RangePriority(f feature.LiveRangeFeatures, p param.Set) uint32 {
	size := f.Size
	if size < 0 {
		size = 0
	}
	weighted := size * p.RegallocSizeWeight

	var prio uint64
	if f.Stage == feature.StageSplit {
		if weighted > maxSplitPriority {
			weighted = maxSplitPriority
		}
		prio = uint64(weighted)
	} else {
		local := f.IsLocal && f.Stage == feature.StageAssign && !f.ForceGlobal
		base := weighted
		if local {
			base = f.BeginDist
		}
		if base < 0 {
			base = 0
		}
		if base > maxPriorityBase {
			base = maxPriorityBase
		}
		prio = uint64(Priority{
			Base:          uint32(base),
			ClassPriority: uint8(f.AllocationPriority & classPriorityMask),
			Global:        !local,
			Hint:          f.HasPreference,
			AlwaysHigh:    true,
		}.Pack())
	}

	// Tuning-only bonus, not part of the default ordering. The add saturates:
	// non-split values cap at the top of the 32-bit space, split values stay
	// below the always-high bit so the stage ordering survives any bonus.
	if f.HasPreference && p.RegallocHintBonus > 0 {
		prio += uint64(p.RegallocHintBonus)
		if f.Stage == feature.StageSplit && prio > maxSplitPriority {
			prio = maxSplitPriority
		}
		if prio > math.MaxUint32 {
			prio = math.MaxUint32
		}
	}
	return uint32(prio)
}
