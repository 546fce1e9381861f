package heuristic

import (
	"testing"

	"github.com/aeopt/advisor/internal/feature"
	"github.com/aeopt/advisor/internal/param"
)

func TestUnrollFactor(t *testing.T) {
	defaults := param.Defaults()

	tests := []struct {
		name string
		f    feature.LoopFeatures
		p    param.Set
		want uint64
	}{
		{
			name: "zero features do not unroll",
			f:    feature.LoopFeatures{},
			p:    defaults,
			want: 1,
		},
		{
			name: "full unroll when unrolled size fits threshold",
			f: feature.LoopFeatures{
				LoopSize:          10,
				TripCount:         4,
				HasExactTripCount: true,
				Threshold:         100,
			},
			p:    defaults,
			want: 4,
		},
		{
			name: "full unroll rejected, partial picks aligned power of two",
			f: feature.LoopFeatures{
				LoopSize:          10,
				TripCount:         4,
				HasExactTripCount: true,
				Threshold:         30,
				AllowPartial:      true,
				PartialThreshold:  20,
				BEInsns:           2,
			},
			p: defaults,
			// maxUnroll = (20-2)/(10-2) = 2, power of two keeps 2, 4%2 == 0.
			want: 2,
		},
		{
			name: "trip count of one never unrolls",
			f: feature.LoopFeatures{
				LoopSize:          5,
				TripCount:         1,
				HasExactTripCount: true,
				Threshold:         100,
			},
			p:    defaults,
			want: 1,
		},
		{
			name: "body no larger than backend edge falls through",
			f: feature.LoopFeatures{
				LoopSize:         2,
				BEInsns:          2,
				AllowPartial:     true,
				PartialThreshold: 64,
			},
			p:    defaults,
			want: 1,
		},
		{
			name: "max factor below two does not unroll",
			f: feature.LoopFeatures{
				LoopSize:         12,
				BEInsns:          2,
				AllowPartial:     true,
				PartialThreshold: 16,
			},
			p: defaults,
			// maxUnroll = (16-2)/(12-2) = 1.
			want: 1,
		},
		{
			name: "partial disallowed does not unroll",
			f: feature.LoopFeatures{
				LoopSize:         4,
				BEInsns:          2,
				PartialThreshold: 64,
			},
			p:    defaults,
			want: 1,
		},
		{
			name: "power of two rounds down",
			f: feature.LoopFeatures{
				LoopSize:         4,
				BEInsns:          2,
				AllowPartial:     true,
				PartialThreshold: 16,
			},
			p: defaults,
			// maxUnroll = (16-2)/(4-2) = 7, rounds down to 4.
			want: 4,
		},
		{
			name: "alignment shrinks factor to divide trip count",
			f: feature.LoopFeatures{
				LoopSize:          4,
				TripCount:         6,
				HasExactTripCount: true,
				Threshold:         10,
				AllowPartial:      true,
				PartialThreshold:  16,
				BEInsns:           2,
			},
			p: defaults,
			// maxUnroll 7 -> 4, but 6%4 != 0, shrink to 2.
			want: 2,
		},
		{
			name: "max count caps the partial factor",
			f: feature.LoopFeatures{
				LoopSize:         4,
				BEInsns:          2,
				AllowPartial:     true,
				PartialThreshold: 64,
				MaxCount:         3,
			},
			p: defaults,
			// maxUnroll 31 capped at 3, rounds down to 2.
			want: 2,
		},
		{
			name: "threshold scale widens the full unroll window",
			f: feature.LoopFeatures{
				LoopSize:          10,
				TripCount:         6,
				HasExactTripCount: true,
				Threshold:         40,
			},
			p:    param.Load(map[string]int64{param.UnrollThresholdScale: 150}),
			want: 6,
		},
		{
			name: "threshold scale shrinks the full unroll window",
			f: feature.LoopFeatures{
				LoopSize:          10,
				TripCount:         4,
				HasExactTripCount: true,
				Threshold:         50,
			},
			p:    param.Load(map[string]int64{param.UnrollThresholdScale: 50}),
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnrollFactor(tt.f, tt.p)
			if got != tt.want {
				t.Errorf("UnrollFactor() = %d, want %d", got, tt.want)
			}
			if got < 1 {
				t.Errorf("factor %d violates >= 1", got)
			}
		})
	}
}

// The returned factor must divide a known trip count whenever the partial
// path produced it.
func TestUnrollFactorDividesTripCount(t *testing.T) {
	p := param.Defaults()
	for trip := int64(2); trip <= 64; trip++ {
		f := feature.LoopFeatures{
			LoopSize:          20,
			TripCount:         trip,
			HasExactTripCount: true,
			Threshold:         8, // full unroll never fits
			AllowPartial:      true,
			PartialThreshold:  120,
			BEInsns:           2,
		}
		got := UnrollFactor(f, p)
		if got < 1 {
			t.Fatalf("trip %d: factor %d violates >= 1", trip, got)
		}
		if got > 1 && trip%int64(got) != 0 {
			t.Errorf("trip %d: factor %d does not divide trip count", trip, got)
		}
	}
}

func TestUnrollFactorIdempotent(t *testing.T) {
	f := feature.LoopFeatures{
		LoopSize:          10,
		TripCount:         8,
		HasExactTripCount: true,
		Threshold:         100,
		AllowPartial:      true,
		PartialThreshold:  40,
		BEInsns:           2,
	}
	p := param.Defaults()
	if a, b := UnrollFactor(f, p), UnrollFactor(f, p); a != b {
		t.Errorf("repeated evaluation differs: %d vs %d", a, b)
	}
}
