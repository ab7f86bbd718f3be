// Package stdlib implements MFS's native standard-library modules.
// Each module is a *value.Object whose entries are value.NativeFunc
// closures, built in Go rather than parsed from source (spec.md §4.4).
// Grounded in shape on the melrose DSL's function registry
// (other_examples/ae805c67_mzacho-melrose__dsl-eval_funcs.go.go),
// reimplemented from scratch against this repo's own Value type, and
// on general_midi.go's plain constant tables for interval/offset data.
package stdlib

import (
	"fmt"
	"math/rand"

	"github.com/leafo/mfc/internal/pitch"
	"github.com/leafo/mfc/internal/rat"
	"github.com/leafo/mfc/internal/value"
)

// RootModuleNames is the fixed set bound directly into every score's
// root scope, with no import required (spec.md §4.4).
var RootModuleNames = []string{"core", "time", "random", "transform", "curves", "theory", "drums", "vocal"}

// StdCatalog is the full std: namespace catalog (spec.md §6). Names
// also present in RootModuleNames are already bound in the root scope:
// an unaliased std: import of one keeps that binding, an aliased one
// binds a fresh instance of the same native module. The rest are
// std:-only.
var StdCatalog = []string{
	"theory", "patterns", "rhythm", "dynamics", "expression",
	"articulation", "ornaments", "notation", "genres", "composition",
	"curves", "utils",
}

func fn(name, doc string, f func(args []value.Value) (value.Value, error)) *value.NativeFunc {
	return &value.NativeFunc{Name: name, Doc: doc, Fn: f}
}

func newModule(entries ...*value.NativeFunc) *value.Object {
	o := value.NewObject()
	for _, e := range entries {
		o.Set(e.Name, e)
	}
	return o
}

func typeErr(builtin string, want value.Kind, got value.Value) error {
	return &value.TypeError{Builtin: builtin, Want: want, Got: got.Kind()}
}

func argCountErr(builtin string, want, got int) error {
	return fmt.Errorf("%s: expected %d argument(s), got %d", builtin, want, got)
}

func asPitch(builtin string, v value.Value) (pitch.Pitch, error) {
	p, ok := v.(value.PitchV)
	if !ok {
		return pitch.Pitch{}, typeErr(builtin, value.KindPitch, v)
	}
	return p.V, nil
}

func asNumber(builtin string, v value.Value) (float64, error) {
	switch n := v.(type) {
	case value.Number:
		return n.V, nil
	case value.Int:
		return float64(n.V), nil
	case value.RatV:
		return n.V.Float64(), nil
	default:
		return 0, typeErr(builtin, value.KindNumber, v)
	}
}

func asInt(builtin string, v value.Value) (int, error) {
	f, err := asNumber(builtin, v)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func asString(builtin string, v value.Value) (string, error) {
	s, ok := v.(value.Str)
	if !ok {
		return "", typeErr(builtin, value.KindString, v)
	}
	return s.V, nil
}

func asArray(builtin string, v value.Value) (*value.Array, error) {
	a, ok := v.(*value.Array)
	if !ok {
		return nil, typeErr(builtin, value.KindArray, v)
	}
	return a, nil
}

func pitchArray(pitches []pitch.Pitch) *value.Array {
	arr := &value.Array{}
	for _, p := range pitches {
		arr.Items = append(arr.Items, value.PitchV{V: p})
	}
	return arr
}

// Modules builds the full set of native modules, including a
// deterministically seeded random module per spec.md §5 ("Random
// number generation inside the random stdlib module uses a
// deterministic seed taken from the score").
func Modules(seed int64) map[string]*value.Object {
	rng := rand.New(rand.NewSource(seed))
	mods := map[string]*value.Object{
		"core":         coreModule(),
		"time":         timeModule(),
		"random":       randomModule(rng),
		"transform":    transformModule(),
		"curves":       curvesModule(),
		"theory":       theoryModule(),
		"drums":        drumsModule(),
		"vocal":        vocalModule(),
		"patterns":     patternsModule(),
		"rhythm":       rhythmModule(),
		"dynamics":     dynamicsModule(),
		"expression":   expressionModule(),
		"articulation": articulationModule(),
		"ornaments":    ornamentsModule(),
		"notation":     notationModule(),
		"genres":       genresModule(),
		"composition":  compositionModule(),
		"utils":        utilsModule(),
	}
	return mods
}

// ratArg coerces a rat.Rat-carrying value (RatV or Int) for functions
// that want exact arithmetic rather than floats.
func ratArg(builtin string, v value.Value) (rat.Rat, error) {
	switch n := v.(type) {
	case value.RatV:
		return n.V, nil
	case value.Pos:
		return n.V, nil
	case value.Int:
		return rat.FromInt(n.V), nil
	default:
		return rat.Rat{}, typeErr(builtin, value.KindRat, v)
	}
}
