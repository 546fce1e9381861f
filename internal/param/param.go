// Package param defines the tunable hyperparameters of the cost heuristics.
//
// A Set is loaded once per run (from defaults, environment, the store, or the
// tuning API), clamped to the declared bounds at load time, and then treated as
// immutable. Strategies receive a Set by value and never validate it; bounds
// enforcement is exclusively the loader's job.
package param

// Names of the tunable knobs as exposed to the outside (tuning API, env vars,
// persisted sets). The ae- prefix marks them as advisor-owned flags on the
// host compiler's command line.
const (
	InlineBaseThreshold  = "ae-inline-base-threshold"
	InlineCallPenalty    = "ae-inline-call-penalty"
	InlineSROAWeight     = "ae-inline-sroa-weight"
	InlineSimplifyWeight = "ae-inline-simplify-weight"
	InlineColdPenalty    = "ae-inline-cold-penalty"
	InlineLoopBonus      = "ae-inline-loop-bonus"
	InlineVectorBonus    = "ae-inline-vector-bonus"
	UnrollThresholdScale = "ae-unroll-threshold-scale"
	RegallocSizeWeight   = "ae-regalloc-size-weight"
	RegallocHintBonus    = "ae-regalloc-hint-bonus"
)

// Definition describes one knob: its name, default and inclusive bounds.
type Definition struct {
	Name    string `json:"name"`
	Default int64  `json:"default"`
	Min     int64  `json:"min"`
	Max     int64  `json:"max"`
}

var definitions = []Definition{
	{Name: InlineBaseThreshold, Default: 200, Min: 0, Max: 500},
	{Name: InlineCallPenalty, Default: 25, Min: 0, Max: 50},
	{Name: InlineSROAWeight, Default: 100, Min: 0, Max: 200},
	{Name: InlineSimplifyWeight, Default: 100, Min: 0, Max: 200},
	{Name: InlineColdPenalty, Default: 45, Min: 0, Max: 200},
	{Name: InlineLoopBonus, Default: 50, Min: 0, Max: 300},
	{Name: InlineVectorBonus, Default: 40, Min: 0, Max: 200},
	{Name: UnrollThresholdScale, Default: 100, Min: 50, Max: 200},
	{Name: RegallocSizeWeight, Default: 1, Min: 1, Max: 100},
	{Name: RegallocHintBonus, Default: 0, Min: 0, Max: 1000},
}

// Definitions returns the knob schema in declaration order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup returns the definition for a knob name.
func Lookup(name string) (Definition, bool) {
	for _, d := range definitions {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Set holds one clamped value per knob. It is a plain value type: copy it
// freely, never mutate a shared instance after load.
type Set struct {
	InlineBaseThreshold  int64
	InlineCallPenalty    int64
	InlineSROAWeight     int64
	InlineSimplifyWeight int64
	InlineColdPenalty    int64
	InlineLoopBonus      int64
	InlineVectorBonus    int64
	UnrollThresholdScale int64
	RegallocSizeWeight   int64
	RegallocHintBonus    int64
}

// Defaults returns a Set with every knob at its default.
func Defaults() Set {
	return Load(nil)
}

// Load builds a Set from name-keyed values. Missing names use the default,
// present values are clamped to the declared bounds, unknown names are
// ignored.
func Load(values map[string]int64) Set {
	var s Set
	for _, d := range definitions {
		v := d.Default
		if values != nil {
			if raw, ok := values[d.Name]; ok {
				v = clamp(raw, d.Min, d.Max)
			}
		}
		s.apply(d.Name, v)
	}
	return s
}

// Values returns the Set as a name-keyed map, for persistence and the API.
func (s Set) Values() map[string]int64 {
	return map[string]int64{
		InlineBaseThreshold:  s.InlineBaseThreshold,
		InlineCallPenalty:    s.InlineCallPenalty,
		InlineSROAWeight:     s.InlineSROAWeight,
		InlineSimplifyWeight: s.InlineSimplifyWeight,
		InlineColdPenalty:    s.InlineColdPenalty,
		InlineLoopBonus:      s.InlineLoopBonus,
		InlineVectorBonus:    s.InlineVectorBonus,
		UnrollThresholdScale: s.UnrollThresholdScale,
		RegallocSizeWeight:   s.RegallocSizeWeight,
		RegallocHintBonus:    s.RegallocHintBonus,
	}
}

func (s *Set) apply(name string, v int64) {
	switch name {
	case InlineBaseThreshold:
		s.InlineBaseThreshold = v
	case InlineCallPenalty:
		s.InlineCallPenalty = v
	case InlineSROAWeight:
		s.InlineSROAWeight = v
	case InlineSimplifyWeight:
		s.InlineSimplifyWeight = v
	case InlineColdPenalty:
		s.InlineColdPenalty = v
	case InlineLoopBonus:
		s.InlineLoopBonus = v
	case InlineVectorBonus:
		s.InlineVectorBonus = v
	case UnrollThresholdScale:
		s.UnrollThresholdScale = v
	case RegallocSizeWeight:
		s.RegallocSizeWeight = v
	case RegallocHintBonus:
		s.RegallocHintBonus = v
	}
}

func clamp(v, min, max int64) int64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
