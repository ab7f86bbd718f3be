// Package eval implements MFS's two-phase evaluator (spec.md §4.5):
// a global phase that builds score-level metadata and scope bindings,
// followed by a track phase that walks each part's bars to build the
// Score IR. Grounded on chart.go's section-driven build passes (a
// fixed header section followed by independently walked track
// sections) and timeline.go's single monotone cursor idiom.
package eval

import (
	"path/filepath"
	"strings"

	"github.com/leafo/mfc/internal/ast"
	"github.com/leafo/mfc/internal/ir"
	"github.com/leafo/mfc/internal/lexer"
	"github.com/leafo/mfc/internal/resolver"
	"github.com/leafo/mfc/internal/stdlib"
	"github.com/leafo/mfc/internal/value"
)

// Evaluator holds everything threaded through a single score's
// evaluation: the IR under construction, accumulated diagnostics, and
// the resolver used for imports. One Evaluator is used per compile
// (spec.md §9's "pass an explicit Evaluator record" guidance).
type Evaluator struct {
	ppq      int
	res      *resolver.Resolver
	filePath string
	rootPath string
	diags    []ir.Diagnostic
	scoreIR  *ir.Score
	seed     int64
}

// New builds an Evaluator for compiling the file at filePath, using
// res to resolve its imports.
func New(res *resolver.Resolver, filePath string) *Evaluator {
	return &Evaluator{
		ppq:      ir.DefaultPPQ,
		res:      res,
		filePath: filePath,
		rootPath: filePath,
	}
}

func posPtr(p lexer.Position) *ir.Position {
	return &ir.Position{Line: p.Line, Column: p.Col, Offset: p.Offset}
}

func (e *Evaluator) addDiag(sev ir.Severity, code, message string, pos *ir.Position) {
	e.diags = append(e.diags, ir.NewDiagnostic(sev, code, message, pos, e.filePath))
}

func (e *Evaluator) errorAt(code, message string, pos lexer.Position) {
	e.addDiag(ir.SeverityError, code, message, posPtr(pos))
}

func (e *Evaluator) warnAt(code, message string, pos lexer.Position) {
	e.addDiag(ir.SeverityWarning, code, message, posPtr(pos))
}

// Evaluate runs both phases over score and returns the built IR (or
// nil if any error-severity diagnostic was recorded) plus every
// diagnostic collected.
func (e *Evaluator) Evaluate(score *ast.Score) (*ir.Score, []ir.Diagnostic) {
	e.scoreIR = &ir.Score{
		SchemaVersion: ir.SchemaVersion,
		PPQ:           e.ppq,
	}
	if score == nil {
		e.addDiag(ir.SeverityError, "parse-failed", "score failed to parse", nil)
		return nil, e.diags
	}
	if score.Title != "" {
		title := score.Title
		e.scoreIR.Title = &title
	}

	e.seed = e.scanSeed(score.Header)
	rootScope := value.NewRootScope()
	for name, mod := range stdlib.Modules(e.seed) {
		isRoot := false
		for _, rn := range stdlib.RootModuleNames {
			if rn == name {
				isRoot = true
				break
			}
		}
		if isRoot {
			_ = rootScope.Define(name, mod, false)
		}
	}

	e.runGlobalPhase(score.Header, rootScope)

	for _, part := range score.Parts {
		e.evaluatePart(part, rootScope.Child())
	}

	if ir.HasErrors(e.diags) {
		return nil, e.diags
	}
	e.finalizeIR()
	return e.scoreIR, e.diags
}

// scanSeed looks for a top-level `seed = N` header assignment,
// defaulting to 0 (spec.md §6's deterministic-seed rule).
func (e *Evaluator) scanSeed(header []ast.Node) int64 {
	for _, n := range header {
		a, ok := n.(*ast.Assignment)
		if !ok || a.Name != "seed" {
			continue
		}
		lit, ok := a.Value.(*ast.Literal)
		if !ok || lit.Kind != "number" {
			continue
		}
		switch v := lit.Value.(type) {
		case int64:
			return v
		case float64:
			return int64(v)
		}
	}
	return 0
}

func (e *Evaluator) runGlobalPhase(header []ast.Node, scope *value.Scope) {
	for _, n := range header {
		switch node := n.(type) {
		case *ast.Tempo:
			e.scoreIR.Tempos = append(e.scoreIR.Tempos, ir.Tempo{Tick: 0, BPM: node.BPM})
		case *ast.TimeSig:
			e.scoreIR.TimeSigs = append(e.scoreIR.TimeSigs, ir.TimeSig{Tick: 0, Numerator: node.Numerator, Denominator: node.Denominator})
		case *ast.Backend:
			// Score-level backend names the default renderer target;
			// recorded for downstream renderers, not part of the Score IR.
		case *ast.Import:
			e.evalImport(node, scope)
		case *ast.Assignment:
			v, err := e.evalExpr(node.Value, scope)
			if err != nil {
				e.errorAt("eval-error", err.Error(), node.Pos())
				continue
			}
			if err := scope.Define(node.Name, v, false); err != nil {
				e.errorAt("redefinition", err.Error(), node.Pos())
			}
		}
	}
}

// evalImport binds an import's target into scope under its alias (or
// default name), per spec.md §4.3.
func (e *Evaluator) evalImport(imp *ast.Import, scope *value.Scope) {
	if resolver.IsStdlib(imp.Path) {
		name, err := resolver.ResolveStdModule(imp.Path)
		if err != nil {
			e.errorAt("import-error", err.Error(), imp.Pos())
			return
		}
		mod := stdlib.Modules(e.seed)[name]
		alias := imp.Alias
		if alias == "" {
			alias = name
		}
		for _, rn := range stdlib.RootModuleNames {
			if rn == name && alias == name {
				// already bound in every root and module scope
				return
			}
		}
		if err := scope.Define(alias, mod, false); err != nil {
			e.errorAt("redefinition", err.Error(), imp.Pos())
		}
		return
	}

	// the root file's imports resolve against the resolver's base
	// directory; an imported file's against its own directory.
	fromDir := filepath.Dir(e.filePath)
	if e.filePath == e.rootPath {
		fromDir = e.res.RootDir()
	}
	childScore, abs, release, err := e.res.LoadFile(imp.Path, fromDir)
	if err != nil {
		e.errorAt("import-error", err.Error(), imp.Pos())
		return
	}
	// childScore's own imports must resolve relative to its directory,
	// and it must stay on the cycle-detection stack for that whole
	// span, not just while it was being parsed.
	prevFilePath := e.filePath
	e.filePath = abs
	mod := e.evalImportedModule(childScore)
	e.filePath = prevFilePath
	release()
	alias := imp.Alias
	if alias == "" {
		base := filepath.Base(abs)
		alias = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := scope.Define(alias, mod, false); err != nil {
		e.errorAt("redefinition", err.Error(), imp.Pos())
	}
}

// evalImportedModule evaluates an imported file's header-level
// assignments into an Object whose fields are its exported bindings.
// Imported files are not expected to declare parts; any they do
// declare are ignored with a warning, since a module file only
// contributes scope bindings (spec.md §4.3 being silent on module
// file shape).
func (e *Evaluator) evalImportedModule(score *ast.Score) *value.Object {
	out := value.NewObject()
	if score == nil {
		return out
	}
	modScope := value.NewRootScope()
	for name, mod := range stdlib.Modules(0) {
		for _, rn := range stdlib.RootModuleNames {
			if rn == name {
				_ = modScope.Define(name, mod, false)
			}
		}
	}
	for _, n := range score.Header {
		switch node := n.(type) {
		case *ast.Import:
			e.evalImport(node, modScope)
		case *ast.Assignment:
			v, err := e.evalExpr(node.Value, modScope)
			if err != nil {
				e.errorAt("eval-error", err.Error(), node.Pos())
				continue
			}
			_ = modScope.Define(node.Name, v, false)
			out.Set(node.Name, v)
		}
	}
	if len(score.Parts) > 0 {
		e.warnAt("module-has-parts", "imported file declares parts; they are ignored", score.Pos())
	}
	return out
}

// finalizeIR applies the IR Builder's defaulting rules (spec.md §4.7):
// a default tempo/meter at tick 0 if none was given, and a stable
// per-track sort of events by tick.
func (e *Evaluator) finalizeIR() {
	if len(e.scoreIR.Tempos) == 0 {
		e.scoreIR.Tempos = []ir.Tempo{{Tick: 0, BPM: 120}}
	}
	if len(e.scoreIR.TimeSigs) == 0 {
		e.scoreIR.TimeSigs = []ir.TimeSig{{Tick: 0, Numerator: 4, Denominator: 4}}
	}
	for _, t := range e.scoreIR.Tracks {
		stableSortEventsByTick(t.Events)
	}
}

// stableSortEventsByTick sorts events by tick, preserving relative
// order of equal-tick events (spec.md P2).
func stableSortEventsByTick(events []ir.Event) {
	// insertion sort: tracks are short enough per bar that O(n^2) is
	// fine, and it is trivially stable.
	for i := 1; i < len(events); i++ {
		j := i
		for j > 0 && events[j-1].EventTick() > events[j].EventTick() {
			events[j-1], events[j] = events[j], events[j-1]
			j--
		}
	}
}
