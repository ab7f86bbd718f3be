package stdlib

import (
	"testing"

	"github.com/leafo/mfc/internal/pitch"
	"github.com/leafo/mfc/internal/value"
)

func mustFn(t *testing.T, mods map[string]*value.Object, mod, name string) *value.NativeFunc {
	t.Helper()
	o, ok := mods[mod]
	if !ok {
		t.Fatalf("module %q not present", mod)
	}
	v, ok := o.Get(name)
	if !ok {
		t.Fatalf("module %q has no function %q", mod, name)
	}
	f, ok := v.(*value.NativeFunc)
	if !ok {
		t.Fatalf("%s.%s is not a NativeFunc: %T", mod, name, v)
	}
	return f
}

func TestModulesCoversCatalog(t *testing.T) {
	mods := Modules(0)
	for _, name := range StdCatalog {
		if _, ok := mods[name]; !ok {
			t.Errorf("std catalog entry %q missing from Modules()", name)
		}
	}
	for _, name := range RootModuleNames {
		if _, ok := mods[name]; !ok {
			t.Errorf("root module %q missing from Modules()", name)
		}
	}
}

func TestModulesDeterministicForSameSeed(t *testing.T) {
	a := Modules(42)
	b := Modules(42)
	rf := mustFn(t, a, "random", "float")
	rf2 := mustFn(t, b, "random", "float")
	v1, err := rf.Fn(nil)
	if err != nil {
		t.Fatalf("random.float: %v", err)
	}
	v2, err := rf2.Fn(nil)
	if err != nil {
		t.Fatalf("random.float: %v", err)
	}
	if !value.Equal(v1, v2) {
		t.Errorf("expected same seed to produce identical random sequences, got %v and %v", v1, v2)
	}
}

func TestTheoryMajorTriad(t *testing.T) {
	mods := Modules(0)
	f := mustFn(t, mods, "theory", "majorTriad")
	c4, _ := pitch.Parse("C4")
	result, err := f.Fn([]value.Value{value.PitchV{V: c4}})
	if err != nil {
		t.Fatalf("theory.majorTriad: %v", err)
	}
	arr, ok := result.(*value.Array)
	if !ok || len(arr.Items) != 3 {
		t.Fatalf("got %+v, want a 3-pitch array", result)
	}
	wantMIDI := []int{60, 64, 67}
	for i, item := range arr.Items {
		p := item.(value.PitchV).V
		if p.MIDI != wantMIDI[i] {
			t.Errorf("triad[%d]: got MIDI %d, want %d", i, p.MIDI, wantMIDI[i])
		}
	}
}

func TestTheoryIntervalWrongArgCount(t *testing.T) {
	mods := Modules(0)
	f := mustFn(t, mods, "theory", "interval")
	c4, _ := pitch.Parse("C4")
	if _, err := f.Fn([]value.Value{value.PitchV{V: c4}}); err == nil {
		t.Fatal("expected an argument-count error")
	}
}

func TestTheoryScaleUnknownName(t *testing.T) {
	mods := Modules(0)
	f := mustFn(t, mods, "theory", "scale")
	c4, _ := pitch.Parse("C4")
	if _, err := f.Fn([]value.Value{value.PitchV{V: c4}, value.Str{V: "nonexistent"}}); err == nil {
		t.Fatal("expected an error for an unknown scale name")
	}
}

func TestUtilsClamp(t *testing.T) {
	mods := Modules(0)
	f := mustFn(t, mods, "utils", "clamp")
	result, err := f.Fn([]value.Value{value.Int{V: 15}, value.Int{V: 0}, value.Int{V: 10}})
	if err != nil {
		t.Fatalf("utils.clamp: %v", err)
	}
	n, err := asNumber("utils.clamp", result)
	if err != nil {
		t.Fatalf("asNumber: %v", err)
	}
	if n != 10 {
		t.Errorf("got %v, want 10", n)
	}
}

func TestOrnamentsDescribeKnownNames(t *testing.T) {
	mods := Modules(0)
	f := mustFn(t, mods, "ornaments", "describe")
	for _, name := range []string{"trill", "mordent", "arpeggio", "glissando", "tremolo"} {
		if _, err := f.Fn([]value.Value{value.Str{V: name}}); err != nil {
			t.Errorf("ornaments.describe(%q): %v", name, err)
		}
	}
}
