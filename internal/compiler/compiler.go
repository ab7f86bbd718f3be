// Package compiler implements MFS's caller-facing compile function
// (spec.md §6): a pure transform from a root file path and base
// directory to a Score IR plus diagnostics. Grounded on sngfile.go's
// single load-then-validate entry point.
package compiler

import (
	"os"
	"path/filepath"

	"github.com/leafo/mfc/internal/eval"
	"github.com/leafo/mfc/internal/ir"
	"github.com/leafo/mfc/internal/parser"
	"github.com/leafo/mfc/internal/resolver"
)

// Result is the outcome of a single Compile call.
type Result struct {
	IR          *ir.Score
	Diagnostics []ir.Diagnostic
}

// Session holds no state: each Compile call builds its own import
// resolver, so the resolver's file memoization is discarded between
// compiles (spec.md §6).
type Session struct{}

// NewSession builds a fresh, empty compile session.
func NewSession() *Session {
	return &Session{}
}

// Compile parses rootFilePath, resolves its imports relative to
// baseDir, evaluates it, and returns the built IR (nil if any
// error-severity diagnostic was recorded) plus every diagnostic.
func (s *Session) Compile(rootFilePath, baseDir string) (*Result, error) {
	src, err := os.ReadFile(rootFilePath)
	if err != nil {
		return nil, err
	}

	score, parseErrs := parser.Parse(src)

	res := resolver.New(baseDir)
	abs, err := filepath.Abs(rootFilePath)
	if err != nil {
		abs = rootFilePath
	}

	evaluator := eval.New(res, abs)
	scoreIR, diags := evaluator.Evaluate(score)

	for _, perr := range parseErrs {
		diags = append(diags, ir.NewDiagnostic(ir.SeverityError, "parse-error", perr.Error(), nil, abs))
	}
	for _, perr := range res.ParseErrors() {
		diags = append(diags, ir.NewDiagnostic(ir.SeverityError, "parse-error", perr.Error(), nil, abs))
	}

	if ir.HasErrors(diags) {
		scoreIR = nil
	}

	return &Result{IR: scoreIR, Diagnostics: diags}, nil
}

// Compile is the package-level convenience form for a one-off compile
// with no session reuse, matching spec.md §6's
// `compile(rootFilePath, baseDir) -> {ir?, diagnostics[]}` contract.
func Compile(rootFilePath, baseDir string) (*Result, error) {
	return NewSession().Compile(rootFilePath, baseDir)
}
