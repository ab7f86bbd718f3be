package value

import "testing"

func TestDefineAndLookup(t *testing.T) {
	s := NewRootScope()
	if err := s.Define("x", Int{V: 5}, false); err != nil {
		t.Fatalf("Define: %v", err)
	}
	v, ok := s.Lookup("x")
	if !ok || v.(Int).V != 5 {
		t.Errorf("got %+v, ok=%v, want Int{5}", v, ok)
	}
}

func TestDefineWriteOnceRejectsRedefine(t *testing.T) {
	s := NewRootScope()
	_ = s.Define("x", Int{V: 1}, false)
	err := s.Define("x", Int{V: 2}, false)
	if err == nil {
		t.Fatal("expected DefineError redefining a non-mutable binding")
	}
}

func TestDefineMutableAllowsRedefine(t *testing.T) {
	s := NewRootScope()
	_ = s.Define("x", Int{V: 1}, true)
	if err := s.Define("x", Int{V: 2}, true); err != nil {
		t.Fatalf("expected redefine of mutable binding to succeed, got %v", err)
	}
}

func TestChildScopeLookupWalksParent(t *testing.T) {
	parent := NewRootScope()
	_ = parent.Define("x", Int{V: 42}, false)
	child := parent.Child()
	v, ok := child.Lookup("x")
	if !ok || v.(Int).V != 42 {
		t.Errorf("got %+v, ok=%v, want Int{42} found via parent", v, ok)
	}
}

func TestChildScopeShadowsParent(t *testing.T) {
	parent := NewRootScope()
	_ = parent.Define("x", Int{V: 1}, false)
	child := parent.Child()
	_ = child.Define("x", Int{V: 2}, false)
	v, _ := child.Lookup("x")
	if v.(Int).V != 2 {
		t.Errorf("got %+v, want child's own binding Int{2}", v)
	}
	pv, _ := parent.Lookup("x")
	if pv.(Int).V != 1 {
		t.Errorf("parent binding was mutated, got %+v, want Int{1}", pv)
	}
}

func TestLookupUnbound(t *testing.T) {
	s := NewRootScope()
	if _, ok := s.Lookup("nope"); ok {
		t.Fatal("expected lookup of unbound name to fail")
	}
}

func TestSetRequiresMutableBinding(t *testing.T) {
	s := NewRootScope()
	_ = s.Define("x", Int{V: 1}, false)
	if s.Set("x", Int{V: 2}) {
		t.Fatal("expected Set on a non-mutable binding to fail")
	}
	v, _ := s.Lookup("x")
	if v.(Int).V != 1 {
		t.Errorf("non-mutable binding was changed, got %+v", v)
	}
}

func TestSetMutatesThroughParentChain(t *testing.T) {
	parent := NewRootScope()
	_ = parent.Define("x", Int{V: 1}, true)
	child := parent.Child()
	if !child.Set("x", Int{V: 9}) {
		t.Fatal("expected Set to find and update the parent's mutable binding")
	}
	v, _ := parent.Lookup("x")
	if v.(Int).V != 9 {
		t.Errorf("got %+v, want Int{9}", v)
	}
}

func TestSetUnboundNameFails(t *testing.T) {
	s := NewRootScope()
	if s.Set("nope", Int{V: 1}) {
		t.Fatal("expected Set on an unbound name to fail")
	}
}
