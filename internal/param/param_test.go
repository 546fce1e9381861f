package param

import "testing"

func TestDefaults(t *testing.T) {
	s := Defaults()
	if s.InlineBaseThreshold != 200 {
		t.Errorf("InlineBaseThreshold = %d, want 200", s.InlineBaseThreshold)
	}
	if s.InlineCallPenalty != 25 {
		t.Errorf("InlineCallPenalty = %d, want 25", s.InlineCallPenalty)
	}
	if s.UnrollThresholdScale != 100 {
		t.Errorf("UnrollThresholdScale = %d, want 100", s.UnrollThresholdScale)
	}
	if s.RegallocSizeWeight != 1 {
		t.Errorf("RegallocSizeWeight = %d, want 1", s.RegallocSizeWeight)
	}
	if s.RegallocHintBonus != 0 {
		t.Errorf("RegallocHintBonus = %d, want 0", s.RegallocHintBonus)
	}
}

func TestLoadClamps(t *testing.T) {
	tests := []struct {
		name  string
		knob  string
		value int64
		want  int64
		get   func(Set) int64
	}{
		{
			name:  "above max clamps down",
			knob:  InlineBaseThreshold,
			value: 10000,
			want:  500,
			get:   func(s Set) int64 { return s.InlineBaseThreshold },
		},
		{
			name:  "below min clamps up",
			knob:  UnrollThresholdScale,
			value: 0,
			want:  50,
			get:   func(s Set) int64 { return s.UnrollThresholdScale },
		},
		{
			name:  "negative clamps to min",
			knob:  RegallocSizeWeight,
			value: -7,
			want:  1,
			get:   func(s Set) int64 { return s.RegallocSizeWeight },
		},
		{
			name:  "in range passes through",
			knob:  InlineColdPenalty,
			value: 60,
			want:  60,
			get:   func(s Set) int64 { return s.InlineColdPenalty },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Load(map[string]int64{tt.knob: tt.value})
			if got := tt.get(s); got != tt.want {
				t.Errorf("%s = %d, want %d", tt.knob, got, tt.want)
			}
		})
	}
}

func TestLoadIgnoresUnknownNames(t *testing.T) {
	s := Load(map[string]int64{"ae-no-such-knob": 42})
	if s != Defaults() {
		t.Errorf("unknown knob changed the set: %+v", s)
	}
}

func TestValuesRoundTrip(t *testing.T) {
	in := map[string]int64{
		InlineBaseThreshold: 150,
		InlineLoopBonus:     75,
		RegallocHintBonus:   500,
	}
	s := Load(in)
	out := s.Values()

	if len(out) != len(Definitions()) {
		t.Fatalf("Values() has %d entries, want %d", len(out), len(Definitions()))
	}
	for name, want := range in {
		if out[name] != want {
			t.Errorf("%s = %d, want %d", name, out[name], want)
		}
	}
	if Load(out) != s {
		t.Error("Load(Values()) does not reproduce the set")
	}
}

func TestLookup(t *testing.T) {
	d, ok := Lookup(InlineCallPenalty)
	if !ok {
		t.Fatal("InlineCallPenalty not found")
	}
	if d.Default != 25 || d.Min != 0 || d.Max != 50 {
		t.Errorf("definition = %+v, want default 25 range [0,50]", d)
	}
	if _, ok := Lookup("missing"); ok {
		t.Error("missing knob resolved")
	}
}

func TestDefinitionsAreCopies(t *testing.T) {
	a := Definitions()
	a[0].Default = 9999
	b := Definitions()
	if b[0].Default == 9999 {
		t.Error("Definitions() exposes internal state")
	}
}
