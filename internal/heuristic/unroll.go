package heuristic

import (
	"github.com/aeopt/advisor/internal/feature"
	"github.com/aeopt/advisor/internal/param"
)

// UnrollFactor decides by what factor a loop is unrolled. It always returns a
// factor >= 1; 1 means "do not unroll".
//
// The decision runs in priority order: full unroll when the exact trip count
// is known and the fully unrolled body fits the scaled threshold, else partial
// unroll by the largest power of two that fits the partial threshold (shrunk
// until it divides a known trip count), else no unroll.
func UnrollFactor(f feature.LoopFeatures, p param.Set) uint64 {
	effThreshold := f.Threshold * p.UnrollThresholdScale / 100

	exact := f.HasExactTripCount && f.TripCount > 0

	// 1. Full unroll eliminates the loop entirely.
	if exact && f.TripCount > 1 && f.LoopSize*f.TripCount <= effThreshold {
		return uint64(f.TripCount)
	}

	// 2. Partial unroll.
	if f.AllowPartial && f.LoopSize < f.PartialThreshold {
		// The backend edge is paid once per unrolled copy less; a loop whose
		// body does not exceed that overhead yields a zero or negative
		// denominator and cannot be partially unrolled.
		den := f.LoopSize - f.BEInsns
		if den > 0 {
			maxUnroll := (f.PartialThreshold - f.BEInsns) / den
			if f.MaxCount > 0 && maxUnroll > f.MaxCount {
				maxUnroll = f.MaxCount
			}
			if maxUnroll >= 2 {
				// Round down to a power of two for clean remainder handling.
				count := int64(1)
				for count*2 <= maxUnroll {
					count *= 2
				}
				// Align to a known trip count so no remainder loop is needed.
				if exact {
					for count > 1 && f.TripCount%count != 0 {
						count >>= 1
					}
				}
				if count > 1 {
					return uint64(count)
				}
			}
		}
	}

	// 3. No unroll.
	return 1
}
