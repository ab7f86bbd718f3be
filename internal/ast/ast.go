// Package ast defines the MFS abstract syntax tree. Every node
// variant is a concrete struct implementing the closed Node
// interface, the idiomatic Go substitute for a tagged union.
package ast

import "github.com/leafo/mfc/internal/lexer"

// Node is implemented by every AST node variant. node is unexported
// so the set of implementations is closed to this package.
type Node interface {
	Pos() lexer.Position
	node()
}

// Base carries the source position every node embeds. Exported so
// other packages (the parser) can construct node literals directly.
type Base struct {
	P lexer.Position
}

func (b Base) Pos() lexer.Position { return b.P }
func (Base) node()                 {}

// At builds a Base from a position, for use when constructing nodes.
func At(p lexer.Position) Base { return Base{P: p} }

// Score is the root node: a titled score with a header and parts.
type Score struct {
	Base
	Title  string
	Header []Node // Tempo, TimeSig, Backend, Import, Assignment
	Parts  []*Part
}

// Tempo is a header statement: `tempo <bpm>`.
type Tempo struct {
	Base
	BPM float64
}

// TimeSig is a header statement: `time <n>/<d>`.
type TimeSig struct {
	Base
	Numerator   int
	Denominator int
}

// Backend is a header or part-header statement naming the target
// engine, e.g. `backend "vocaloid"`.
type Backend struct {
	Base
	Name string
}

// Import is `import "std:theory"` or `import "./file.mf"`.
type Import struct {
	Base
	Path  string
	Alias string
}

// Assignment is `name = expr` at header or part scope.
type Assignment struct {
	Base
	Name  string
	Value Node
}

// Part is `part Name { ... }`, either midi or vocal depending on its
// header statements and body shape.
type Part struct {
	Base
	Name   string
	Header []Node // Backend, Assignment (e.g. ch:, program:, engine:, voice:)
	Body   []Node // Phrase, Bar, Tempo, TimeSig
}

// Phrase is `phrase { notes: Bar+ ; LyricLine ; }`.
type Phrase struct {
	Base
	Bars   []*Bar
	Lyrics *LyricLine // nil if the phrase has no lyric line
}

// Bar is `| Element* |`.
type Bar struct {
	Base
	Elements []Node // Note, Chord, Rest, Call
	Resynced bool   // not set by the parser; always false
}

// Note is `Pitch Duration ~?`.
type Note struct {
	Base
	Pitch    string
	Duration string
	Tie      bool
}

// Chord is `[ Pitch+ ] Duration ~?`.
type Chord struct {
	Base
	Pitches  []string
	Duration string
	Tie      bool
}

// Rest is a duration-only element, written in source as the identifier
// `r` followed by a duration (`r q`, `r h`, ...); the evaluator advances the
// cursor or emits a rest event depending on track kind.
type Rest struct {
	Base
	Duration string
}

// LyricLine is `lyrics (mora|phonemes)? : LyricTok+`.
type LyricLine struct {
	Base
	Kind   string // "", "mora", or "phonemes"
	Tokens []string
}

// Call is a native or user function invocation, e.g.
// `theory.majorTriad(C4)` or an ornament call `trill(C4, q)`.
type Call struct {
	Base
	Module string // "" for unqualified calls
	Name   string
	Args   []Node
}

// Literal wraps a parsed scalar: number, string, pitch, or duration.
// Kind disambiguates the three lexically string-shaped forms (plain
// string, pitch literal, duration literal), since their Value is a
// raw lexeme in each case.
type Literal struct {
	Base
	Kind  string // "number", "string", "pitch", "duration"
	Value any
}

// Identifier is a bare name reference.
type Identifier struct {
	Base
	Name string
}

// MemberAccess is `module.field` read in expression position with no
// call parentheses, e.g. reading a plain constant exported by an
// imported file (as opposed to `module.fn(...)`, a Call).
type MemberAccess struct {
	Base
	Module string
	Name   string
}

// ArrayLit is `[ expr, expr, ... ]` in expression position.
type ArrayLit struct {
	Base
	Elements []Node
}

