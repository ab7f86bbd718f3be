package ir

import "testing"

func TestHasErrorsDetectsErrorSeverity(t *testing.T) {
	diags := []Diagnostic{
		NewDiagnostic(SeverityWarning, "timing-approximation", "rounded", nil, "a.mf"),
		NewDiagnostic(SeverityError, "parse-error", "unexpected token", nil, "a.mf"),
	}
	if !HasErrors(diags) {
		t.Error("expected HasErrors to report true when an error-severity diagnostic is present")
	}
}

func TestHasErrorsFalseWithOnlyWarnings(t *testing.T) {
	diags := []Diagnostic{
		NewDiagnostic(SeverityWarning, "timing-approximation", "rounded", nil, "a.mf"),
		NewDiagnostic(SeverityInfo, "note", "fyi", nil, "a.mf"),
	}
	if HasErrors(diags) {
		t.Error("expected HasErrors to report false when no diagnostic is error severity")
	}
}

func TestNewDiagnosticStampsUniqueIDs(t *testing.T) {
	d1 := NewDiagnostic(SeverityError, "x", "m", nil, "a.mf")
	d2 := NewDiagnostic(SeverityError, "x", "m", nil, "a.mf")
	if d1.ID == "" || d2.ID == "" {
		t.Fatal("expected non-empty diagnostic IDs")
	}
	if d1.ID == d2.ID {
		t.Error("expected distinct diagnostics to receive distinct IDs")
	}
}

func TestEventTypeDispatch(t *testing.T) {
	var events []Event = []Event{
		NoteEvent{Tick: 0, Dur: 480, Key: 60, Vel: 96},
		RestEvent{Tick: 480, Dur: 240},
		CCEvent{Tick: 720, Controller: 11, Value: 100},
		PitchBendEvent{Tick: 960, Value: 0},
	}
	want := []string{"note", "rest", "cc", "pitchBend"}
	for i, e := range events {
		if e.EventType() != want[i] {
			t.Errorf("event %d: got %q, want %q", i, e.EventType(), want[i])
		}
	}
}

func TestEventTickAccessor(t *testing.T) {
	e := NoteEvent{Tick: 123}
	if e.EventTick() != 123 {
		t.Errorf("got %d, want 123", e.EventTick())
	}
}
