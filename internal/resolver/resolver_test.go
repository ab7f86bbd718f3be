package resolver

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsStdlib(t *testing.T) {
	if !IsStdlib("std:theory") {
		t.Error("expected std:theory to be recognized as stdlib")
	}
	if IsStdlib("./helpers.mf") {
		t.Error("expected a relative path to not be recognized as stdlib")
	}
}

func TestResolveStdModuleKnown(t *testing.T) {
	name, err := ResolveStdModule("std:theory")
	if err != nil {
		t.Fatalf("ResolveStdModule: %v", err)
	}
	if name != "theory" {
		t.Errorf("got %q, want theory", name)
	}
}

func TestResolveStdModuleUnknown(t *testing.T) {
	_, err := ResolveStdModule("std:nonexistent")
	if err == nil {
		t.Fatal("expected an error for an unknown std module")
	}
	ierr, ok := err.(*ImportError)
	if !ok || ierr.Kind != UnknownStdModule {
		t.Errorf("got %+v, want UnknownStdModule ImportError", err)
	}
}

func TestLoadFileParsesAndMemoizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "helpers.mf")
	if err := os.WriteFile(path, []byte(`score "Helpers" { x = 1 }`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	r := New(dir)
	score1, abs1, release1, err := r.LoadFile("helpers.mf", dir)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if score1 == nil {
		t.Fatal("expected a parsed score")
	}
	release1()
	score2, abs2, release2, err := r.LoadFile("helpers.mf", dir)
	if err != nil {
		t.Fatalf("second LoadFile: %v", err)
	}
	release2()
	if score1 != score2 {
		t.Error("expected the second LoadFile to return the memoized *ast.Score")
	}
	if abs1 != abs2 {
		t.Errorf("got differing absolute paths %q and %q", abs1, abs2)
	}
}

func TestLoadFileNotFound(t *testing.T) {
	r := New(t.TempDir())
	if _, _, _, err := r.LoadFile("missing.mf", r.RootDir()); err == nil {
		t.Fatal("expected a FileNotFound ImportError")
	} else if ierr, ok := err.(*ImportError); !ok || ierr.Kind != FileNotFound {
		t.Errorf("got %+v, want FileNotFound ImportError", err)
	}
}

func TestLoadFileDetectsCycle(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.mf")
	r := New(dir)
	r.stack = append(r.stack, filepath.Clean(aPath))
	if _, _, _, err := r.LoadFile("a.mf", dir); err == nil {
		t.Fatal("expected a Cycle ImportError when a file re-enters its own resolution stack")
	} else if ierr, ok := err.(*ImportError); !ok || ierr.Kind != Cycle {
		t.Errorf("got %+v, want Cycle ImportError", err)
	}
}

func TestLoadFileReleaseAllowsReentry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.mf")
	if err := os.WriteFile(path, []byte(`score "A" { x = 1 }`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	r := New(dir)
	_, _, release, err := r.LoadFile("a.mf", dir)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	release()
	if _, _, _, err := r.LoadFile("a.mf", dir); err != nil {
		t.Fatalf("expected the cache hit to succeed after release, got %v", err)
	}
}

func TestLoadFileCollectsParseErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.mf")
	if err := os.WriteFile(path, []byte(`score "Broken" { 42 `), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	r := New(dir)
	if _, _, _, err := r.LoadFile("broken.mf", dir); err != nil {
		t.Fatalf("LoadFile should surface parse errors via ParseErrors, not a return error: %v", err)
	}
	if len(r.ParseErrors()) == 0 {
		t.Error("expected ParseErrors to report the malformed file's parse errors")
	}
}
