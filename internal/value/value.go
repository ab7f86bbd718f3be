// Package value implements MFS's runtime Value model: a closed tagged
// union (spec.md §3/§4.4) whose scalars are immutable and whose Array
// and Object containers are mutable, encoded the idiomatic Go way
// as an interface with an unexported marker method, plus the lexical
// Scope that binds names to values.
package value

import (
	"fmt"
	"sort"

	"github.com/leafo/mfc/internal/pitch"
	"github.com/leafo/mfc/internal/rat"
)

// Kind names a Value's runtime tag, used by built-ins to report
// TypeError with the actual kind of a wrong-shaped argument.
type Kind string

const (
	KindNull     Kind = "null"
	KindBool     Kind = "bool"
	KindInt      Kind = "int"
	KindNumber   Kind = "number"
	KindRat      Kind = "rat"
	KindString   Kind = "string"
	KindPitch    Kind = "pitch"
	KindDuration Kind = "duration"
	KindArray    Kind = "array"
	KindObject   Kind = "object"
	KindLyric    Kind = "lyric"
	KindLyricTok Kind = "lyric-token"
	KindClip     Kind = "clip"
	KindCurve    Kind = "curve"
	KindPos      Kind = "pos"
	KindNativeFn Kind = "native-function"
	KindUserFn   Kind = "user-function"
)

// Value is implemented by every runtime value variant.
type Value interface {
	Kind() Kind
	value()
}

// TypeError reports a built-in argument of the wrong kind; fatal for
// the statement per spec.md §7.
type TypeError struct {
	Builtin string
	Want    Kind
	Got     Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Builtin, e.Want, e.Got)
}

type base struct{}

func (base) value() {}

// Null is the sole null value.
type Null struct{ base }

func (Null) Kind() Kind { return KindNull }

// Bool wraps a boolean.
type Bool struct {
	base
	V bool
}

func (Bool) Kind() Kind { return KindBool }

// Int wraps an exact integer.
type Int struct {
	base
	V int64
}

func (Int) Kind() Kind { return KindInt }

// Number wraps a floating-point value.
type Number struct {
	base
	V float64
}

func (Number) Kind() Kind { return KindNumber }

// RatV wraps an exact rational.
type RatV struct {
	base
	V rat.Rat
}

func (RatV) Kind() Kind { return KindRat }

// Str wraps a string.
type Str struct {
	base
	V string
}

func (Str) Kind() Kind { return KindString }

// PitchV wraps a pitch.
type PitchV struct {
	base
	V pitch.Pitch
}

func (PitchV) Kind() Kind { return KindPitch }

// DurationV wraps a symbolic duration.
type DurationV struct {
	base
	V pitch.Duration
}

func (DurationV) Kind() Kind { return KindDuration }

// Array is a mutable, ordered sequence of Values.
type Array struct {
	base
	Items []Value
}

func (*Array) Kind() Kind { return KindArray }

// Object is a mutable, insertion-ordered string-keyed map of Values.
type Object struct {
	base
	keys   []string
	fields map[string]Value
}

func (*Object) Kind() Kind { return KindObject }

// NewObject builds an empty Object.
func NewObject() *Object {
	return &Object{fields: make(map[string]Value)}
}

// Set assigns a field, preserving first-insertion order.
func (o *Object) Set(key string, v Value) {
	if _, exists := o.fields[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
}

// Get returns a field and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.fields[key]
	return v, ok
}

// Keys returns field names in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// SortedKeys returns field names sorted lexicographically, useful for
// deterministic JSON rendering of incidental internal objects.
func (o *Object) SortedKeys() []string {
	out := o.Keys()
	sort.Strings(out)
	return out
}

// Lyric is a single syllable attached to a note.
type Lyric struct {
	base
	Text string
	Span string // "", "mora", "phonemes", or "extend"
}

func (Lyric) Kind() Kind { return KindLyric }

// LyricToken is a raw, unaligned token from a LyricLine.
type LyricToken struct {
	base
	Text string
}

func (LyricToken) Kind() Kind { return KindLyricTok }

// Clip is a reusable named sequence of notes produced by composition
// helpers (std:composition, std:patterns).
type Clip struct {
	base
	Notes []Value // PitchV or *Chord-shaped Array of PitchV
}

func (*Clip) Kind() Kind { return KindClip }

// Curve is a piecewise automation curve (std:curves), a sequence of
// (tick-fraction, value) control points, read through curves.sample.
// The evaluator does not emit `cc`/`pitchBend` events from curves.
type Curve struct {
	base
	Points []CurvePoint
}

func (*Curve) Kind() Kind { return KindCurve }

// CurvePoint is one control point of a Curve.
type CurvePoint struct {
	At    rat.Rat // position within the curve's span, 0..1
	Value float64
}

// Pos is a musical position expressed as an exact tick-fraction within
// the current bar, used by std:rhythm helpers.
type Pos struct {
	base
	V rat.Rat
}

func (Pos) Kind() Kind { return KindPos }

// NativeFunc is a function implemented in Go and registered into a
// stdlib module object.
type NativeFunc struct {
	base
	Name string
	Doc  string
	Fn   func(args []Value) (Value, error)
}

func (*NativeFunc) Kind() Kind { return KindNativeFn }

// UserFunc is a function defined in MFS source (currently unused by
// any grammar production but reserved, matching spec.md's Value
// variant list; kept so Scope/Value plumbing is uniform for future
// user-defined function support).
type UserFunc struct {
	base
	Name   string
	Params []string
	Body   any // *ast.Node, kept untyped here to avoid an import cycle
}

func (*UserFunc) Kind() Kind { return KindUserFn }

// Truthy applies MFS's truthiness rule: null and false are falsy,
// everything else is truthy.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case Null:
		return false
	case Bool:
		return t.V
	default:
		return true
	}
}

// Equal reports structural equality between two values, per spec.md
// §4.4 ("Equality is structural").
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av.V == b.(Bool).V
	case Int:
		return av.V == b.(Int).V
	case Number:
		return av.V == b.(Number).V
	case RatV:
		bv := b.(RatV)
		return av.V.Cmp(bv.V) == 0
	case Str:
		return av.V == b.(Str).V
	case PitchV:
		return av.V.Equal(b.(PitchV).V)
	case DurationV:
		return av.V == b.(DurationV).V
	case *Array:
		bv := b.(*Array)
		if len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv := b.(*Object)
		if len(av.fields) != len(bv.fields) {
			return false
		}
		for k, v := range av.fields {
			bvv, ok := bv.fields[k]
			if !ok || !Equal(v, bvv) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
