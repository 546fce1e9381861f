package activity

import (
	"fmt"
	"testing"
)

func TestEmptyLog(t *testing.T) {
	l := New(10)
	if got := l.List(); got != nil {
		t.Errorf("empty log List() = %v, want nil", got)
	}
}

func TestNewestFirst(t *testing.T) {
	l := New(10)
	l.Add(Event{Type: EventParamUpdate, Note: "first"})
	l.Add(Event{Type: EventTrial, Note: "second"})
	l.Add(Event{Type: EventVariantSelect, Note: "third"})

	got := l.List()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Note != "third" || got[2].Note != "first" {
		t.Errorf("order = [%s %s %s], want newest first", got[0].Note, got[1].Note, got[2].Note)
	}
	if got[0].At.IsZero() {
		t.Error("Add did not stamp the event time")
	}
}

func TestRingWraps(t *testing.T) {
	l := New(4)
	for i := 0; i < 7; i++ {
		l.Add(Event{Type: EventTrial, Note: fmt.Sprintf("e%d", i)})
	}

	got := l.List()
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	if got[0].Note != "e6" || got[3].Note != "e3" {
		t.Errorf("kept [%s..%s], want [e6..e3]", got[0].Note, got[3].Note)
	}
}
