package heuristic

import (
	"testing"

	"github.com/aeopt/advisor/internal/feature"
	"github.com/aeopt/advisor/internal/param"
)

func TestWeightedInlineCostBaseline(t *testing.T) {
	var v feature.CallSiteVector
	p := param.Defaults()

	got := WeightedInlineCost(&v, p)
	if got != -p.InlineBaseThreshold {
		t.Errorf("zero vector cost = %d, want %d", got, -p.InlineBaseThreshold)
	}
	if !ShouldInline(got) {
		t.Errorf("zero vector should be inlined (cost %d)", got)
	}
}

func TestSizeInlineCostScenario(t *testing.T) {
	// Callee with one internal call and nine plain instructions at the default
	// call penalty of 25: aggregate 25 + 9*1 = 34, below the 200 threshold.
	var v feature.CallSiteVector
	v[feature.CalleeInstructionCount] = 10
	v[feature.CalleeCallCount] = 1

	p := param.Defaults()
	got := SizeInlineCost(&v, p)
	want := int64(34 - 200)
	if got != want {
		t.Errorf("cost = %d, want %d", got, want)
	}
	if !ShouldInline(got) {
		t.Errorf("cost %d should favor inlining", got)
	}
}

func TestSizeInlineCostRejectsLargeCallee(t *testing.T) {
	var v feature.CallSiteVector
	v[feature.CalleeInstructionCount] = 500
	v[feature.CalleeCallCount] = 4

	p := param.Defaults()
	got := SizeInlineCost(&v, p)
	// 496 plain + 4*25 = 596, well above the 200 threshold.
	if got != 396 {
		t.Errorf("cost = %d, want 396", got)
	}
	if ShouldInline(got) {
		t.Errorf("cost %d should not favor inlining", got)
	}
}

func TestWeightedInlineCostTerms(t *testing.T) {
	p := param.Defaults()

	tests := []struct {
		name string
		set  func(v *feature.CallSiteVector)
		want int64 // relative to the zero-vector baseline of -200
	}{
		{
			name: "argument setup adds directly",
			set:  func(v *feature.CallSiteVector) { v[feature.CallArgumentSetup] = 12 },
			want: 12,
		},
		{
			name: "switch penalties add directly",
			set: func(v *feature.CallSiteVector) {
				v[feature.SwitchPenalty] = 10
				v[feature.JumpTablePenalty] = 5
				v[feature.CaseClusterPenalty] = 3
			},
			want: 18,
		},
		{
			name: "sroa net savings subtract at 100%",
			set: func(v *feature.CallSiteVector) {
				v[feature.SROASavings] = 40
				v[feature.SROALosses] = 10
			},
			want: -30,
		},
		{
			name: "simplified instructions subtract at 100%",
			set:  func(v *feature.CallSiteVector) { v[feature.SimplifiedInstructions] = 7 },
			want: -7,
		},
		{
			name: "cold call site pays the cold penalty",
			set:  func(v *feature.CallSiteVector) { v[feature.ColdCallSite] = 1 },
			want: 45,
		},
		{
			name: "loop call site earns the loop bonus",
			set:  func(v *feature.CallSiteVector) { v[feature.CallSiteInLoop] = 1 },
			want: -50,
		},
		{
			name: "cold loop call site gets no loop bonus",
			set: func(v *feature.CallSiteVector) {
				v[feature.CallSiteInLoop] = 1
				v[feature.ColdCallSite] = 1
			},
			want: 45,
		},
		{
			name: "vectorized callee earns the vector bonus",
			set:  func(v *feature.CallSiteVector) { v[feature.CalleeHasVectorInsns] = 1 },
			want: -40,
		},
		{
			name: "last call to static earns the fixed bonus",
			set:  func(v *feature.CallSiteVector) { v[feature.LastCallToStatic] = 1 },
			want: -lastCallToStaticBonus,
		},
		{
			name: "multiple blocks pay the fixed penalty",
			set:  func(v *feature.CallSiteVector) { v[feature.IsMultipleBlocks] = 1 },
			want: multipleBlocksPenalty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v feature.CallSiteVector
			tt.set(&v)
			got := WeightedInlineCost(&v, p) + p.InlineBaseThreshold
			if got != tt.want {
				t.Errorf("aggregate = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWeightedInlineCostPercentWeights(t *testing.T) {
	var v feature.CallSiteVector
	v[feature.SROASavings] = 50
	v[feature.SimplifiedInstructions] = 20

	p := param.Load(map[string]int64{
		param.InlineSROAWeight:     200,
		param.InlineSimplifyWeight: 50,
	})
	got := WeightedInlineCost(&v, p) + p.InlineBaseThreshold
	// 50*200/100 = 100 plus 20*50/100 = 10 subtracted from zero.
	if got != -110 {
		t.Errorf("aggregate = %d, want -110", got)
	}
}

// Penalty fields must never lower the cost when they grow, and bonus fields
// must never raise it.
func TestWeightedInlineCostMonotonic(t *testing.T) {
	p := param.Defaults()

	penalties := []feature.CallSiteIndex{
		feature.CallArgumentSetup,
		feature.SwitchPenalty,
		feature.JumpTablePenalty,
		feature.CaseClusterPenalty,
		feature.LoopPenalty,
		feature.ColdCCPenalty,
		feature.CalleeInstructionCount,
		feature.CalleeCallCount,
		feature.SROALosses,
	}
	bonuses := []feature.CallSiteIndex{
		feature.SROASavings,
		feature.SimplifiedInstructions,
	}

	var base feature.CallSiteVector
	base[feature.CalleeInstructionCount] = 100
	base[feature.CalleeCallCount] = 3
	baseCost := WeightedInlineCost(&base, p)

	for _, idx := range penalties {
		v := base
		v[idx] += 10
		if got := WeightedInlineCost(&v, p); got < baseCost {
			t.Errorf("raising %v lowered cost: %d -> %d", idx, baseCost, got)
		}
	}
	for _, idx := range bonuses {
		v := base
		v[idx] += 10
		if got := WeightedInlineCost(&v, p); got > baseCost {
			t.Errorf("raising %v raised cost: %d -> %d", idx, baseCost, got)
		}
	}
}

func TestInlineCostIdempotent(t *testing.T) {
	var v feature.CallSiteVector
	v[feature.CalleeInstructionCount] = 77
	v[feature.SROASavings] = 13
	v[feature.ColdCallSite] = 1

	p := param.Defaults()
	first := WeightedInlineCost(&v, p)
	second := WeightedInlineCost(&v, p)
	if first != second {
		t.Errorf("repeated evaluation differs: %d vs %d", first, second)
	}
}
