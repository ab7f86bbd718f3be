package value

import (
	"testing"

	"github.com/leafo/mfc/internal/pitch"
)

func TestTruthy(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Null{}, false},
		{Bool{V: false}, false},
		{Bool{V: true}, true},
		{Int{V: 0}, true},
		{Str{V: ""}, true},
	}
	for _, c := range cases {
		if got := Truthy(c.v); got != c.want {
			t.Errorf("Truthy(%+v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestEqualScalars(t *testing.T) {
	if !Equal(Int{V: 3}, Int{V: 3}) {
		t.Error("expected equal ints")
	}
	if Equal(Int{V: 3}, Int{V: 4}) {
		t.Error("expected unequal ints")
	}
	if !Equal(Str{V: "a"}, Str{V: "a"}) {
		t.Error("expected equal strings")
	}
	if Equal(Int{V: 3}, Str{V: "3"}) {
		t.Error("values of different kinds must not be equal")
	}
}

func TestEqualPitch(t *testing.T) {
	p1, _ := pitch.Parse("C4")
	p2, _ := pitch.Parse("C4")
	if !Equal(PitchV{V: p1}, PitchV{V: p2}) {
		t.Error("expected structurally equal pitches to be Equal")
	}
}

func TestEqualArray(t *testing.T) {
	a := &Array{Items: []Value{Int{V: 1}, Int{V: 2}}}
	b := &Array{Items: []Value{Int{V: 1}, Int{V: 2}}}
	c := &Array{Items: []Value{Int{V: 1}, Int{V: 3}}}
	if !Equal(a, b) {
		t.Error("expected equal arrays")
	}
	if Equal(a, c) {
		t.Error("expected unequal arrays")
	}
}

func TestEqualObject(t *testing.T) {
	a := NewObject()
	a.Set("x", Int{V: 1})
	b := NewObject()
	b.Set("x", Int{V: 1})
	if !Equal(a, b) {
		t.Error("expected structurally equal objects")
	}
	b.Set("y", Int{V: 2})
	if Equal(a, b) {
		t.Error("expected objects with different field counts to differ")
	}
}

func TestObjectPreservesInsertionOrder(t *testing.T) {
	o := NewObject()
	o.Set("z", Int{V: 1})
	o.Set("a", Int{V: 2})
	o.Set("m", Int{V: 3})
	got := o.Keys()
	want := []string{"z", "a", "m"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	sorted := o.SortedKeys()
	if sorted[0] != "a" || sorted[1] != "m" || sorted[2] != "z" {
		t.Errorf("SortedKeys() = %v, want [a m z]", sorted)
	}
}

func TestObjectSetOverwritesWithoutDuplicatingKey(t *testing.T) {
	o := NewObject()
	o.Set("a", Int{V: 1})
	o.Set("a", Int{V: 2})
	if len(o.Keys()) != 1 {
		t.Fatalf("got %d keys, want 1", len(o.Keys()))
	}
	v, ok := o.Get("a")
	if !ok || v.(Int).V != 2 {
		t.Errorf("got %+v, want Int{2}", v)
	}
}

func TestTypeErrorMessage(t *testing.T) {
	err := &TypeError{Builtin: "theory.transpose", Want: KindPitch, Got: KindInt}
	if err.Error() == "" {
		t.Fatal("expected non-empty error message")
	}
}
