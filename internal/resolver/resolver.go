// Package resolver implements MFS's module resolution (spec.md §4.3):
// std: lookups against the fixed native catalog, relative-file
// resolution against an importing file's directory, cycle detection
// via a resolving-stack, and per-compile memoization of parsed files.
// Grounded on song_interface.go's single-purpose lookup interface and
// chart.go's section-table dispatch idiom (a fixed-name table driving
// behavior instead of reflection).
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leafo/mfc/internal/ast"
	"github.com/leafo/mfc/internal/parser"
	"github.com/leafo/mfc/internal/stdlib"
)

const stdPrefix = "std:"

// ImportError reports a failed import resolution. Kind distinguishes
// the three documented failure modes (spec.md §7).
type ImportError struct {
	Kind     ImportErrorKind
	Path     string
	Chain    []string
	FilePath string
}

type ImportErrorKind int

const (
	UnknownStdModule ImportErrorKind = iota
	FileNotFound
	Cycle
)

func (e *ImportError) Error() string {
	switch e.Kind {
	case UnknownStdModule:
		return fmt.Sprintf("unknown standard library module %q", e.Path)
	case Cycle:
		return fmt.Sprintf("import cycle: %s", strings.Join(e.Chain, " -> "))
	default:
		return fmt.Sprintf("import not found: %q (from %s)", e.Path, e.FilePath)
	}
}

// IsStdlib reports whether an import path addresses the native std:
// namespace rather than a relative file (spec.md scenario 5).
func IsStdlib(path string) bool {
	return strings.HasPrefix(path, stdPrefix)
}

// stdModuleSet is the full std: catalog (spec.md §6); membership here
// is independent of whether the name is also bound directly into the
// root scope (internal/stdlib.RootModuleNames).
var stdModuleSet = func() map[string]bool {
	m := make(map[string]bool, len(stdlib.StdCatalog))
	for _, name := range stdlib.StdCatalog {
		m[name] = true
	}
	return m
}()

// fileEntry is a memoized parsed file: its AST, keyed by absolute
// path. Evaluated scopes are not memoized.
type fileEntry struct {
	AbsPath string
	Score   *ast.Score
}

// Resolver resolves imports for a single compile. It is not safe for
// reuse across compiles; construct a fresh one per compile (spec.md
// §6, "that cache is discarded between compiles").
type Resolver struct {
	baseDir   string
	stack     []string
	cache     map[string]*fileEntry
	errorsRec []error
}

// New builds a Resolver rooted at baseDir, used to resolve the first
// relative import of the root file.
func New(baseDir string) *Resolver {
	return &Resolver{
		baseDir: baseDir,
		cache:   make(map[string]*fileEntry),
	}
}

// ResolveStdModule returns the std: catalog name for an import path
// beginning with "std:", or an UnknownStdModule ImportError.
func ResolveStdModule(path string) (string, error) {
	name := strings.TrimPrefix(path, stdPrefix)
	if !stdModuleSet[name] {
		return "", &ImportError{Kind: UnknownStdModule, Path: path}
	}
	return name, nil
}

// LoadFile parses and memoizes the file at path (resolved relative to
// fromDir when not absolute), pushing it onto the cycle-detection
// stack. Re-entering a file already on the stack fails with a Cycle
// ImportError naming the full chain.
//
// The caller owns the returned release func and must call it once it
// is done resolving this file's own imports (i.e. after evaluating
// the file, not merely after parsing it) — the file must stay on the
// stack for that whole span, since a cycle can only be formed by a
// descendant import, not by the parse step itself. A cache hit (the
// file was already fully resolved earlier in this compile) returns a
// no-op release, since the file is not re-entered.
func (r *Resolver) LoadFile(path, fromDir string) (score *ast.Score, abs string, release func(), err error) {
	abs = path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(fromDir, path)
	}
	abs = filepath.Clean(abs)

	for _, onStack := range r.stack {
		if onStack == abs {
			chain := append(append([]string{}, r.stack...), abs)
			return nil, "", nil, &ImportError{Kind: Cycle, Path: path, Chain: chain}
		}
	}

	if entry, ok := r.cache[abs]; ok {
		return entry.Score, entry.AbsPath, func() {}, nil
	}

	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, "", nil, &ImportError{Kind: FileNotFound, Path: path, FilePath: fromDir}
	}

	r.stack = append(r.stack, abs)
	parsed, errs := parser.Parse(src)
	r.errorsRec = append(r.errorsRec, errs...)
	r.cache[abs] = &fileEntry{AbsPath: abs, Score: parsed}

	popped := false
	release = func() {
		if popped {
			return
		}
		popped = true
		r.stack = r.stack[:len(r.stack)-1]
	}
	return parsed, abs, release, nil
}

// RootDir is the directory an unqualified root-file import resolves
// relative to.
func (r *Resolver) RootDir() string {
	return r.baseDir
}

// ParseErrors returns parse errors accumulated across every file this
// Resolver has loaded, in load order.
func (r *Resolver) ParseErrors() []error {
	return r.errorsRec
}
