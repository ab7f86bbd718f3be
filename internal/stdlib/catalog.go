package stdlib

import (
	"fmt"

	"github.com/leafo/mfc/internal/rat"
	"github.com/leafo/mfc/internal/value"
)

// patternsModule builds reusable note-ordering patterns over an
// array of pitches.
func patternsModule() *value.Object {
	return newModule(
		fn("alberti", "alberti(array<pitch>) -> array<pitch>; low-high-mid-high bass figure", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("patterns.alberti", 1, len(args))
			}
			arr, err := asArray("patterns.alberti", args[0])
			if err != nil {
				return nil, err
			}
			if len(arr.Items) < 3 {
				return nil, fmt.Errorf("patterns.alberti: needs at least 3 pitches")
			}
			low, mid, high := arr.Items[0], arr.Items[1], arr.Items[2]
			return &value.Array{Items: []value.Value{low, high, mid, high}}, nil
		}),
		fn("ostinato", "ostinato(array, times) -> array; repeats the sequence", func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return nil, argCountErr("patterns.ostinato", 2, len(args))
			}
			arr, err := asArray("patterns.ostinato", args[0])
			if err != nil {
				return nil, err
			}
			times, err := asInt("patterns.ostinato", args[1])
			if err != nil {
				return nil, err
			}
			out := make([]value.Value, 0, len(arr.Items)*times)
			for i := 0; i < times; i++ {
				out = append(out, arr.Items...)
			}
			return &value.Array{Items: out}, nil
		}),
	)
}

// rhythmModule provides exact rational helpers over musical position.
func rhythmModule() *value.Object {
	return newModule(
		fn("swing", "swing(pos, amount) -> pos; delays off-beats by amount (0..1) of an eighth note", func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return nil, argCountErr("rhythm.swing", 2, len(args))
			}
			pos, err := ratArg("rhythm.swing", args[0])
			if err != nil {
				return nil, err
			}
			amount, err := asNumber("rhythm.swing", args[1])
			if err != nil {
				return nil, err
			}
			shift, err := rat.New(int64(amount*1000), 8000)
			if err != nil {
				return nil, err
			}
			shifted, err := pos.Add(shift)
			if err != nil {
				return nil, err
			}
			return value.Pos{V: shifted}, nil
		}),
		fn("half", "half(pos) -> pos; exact midpoint of a position interval from zero", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("rhythm.half", 1, len(args))
			}
			pos, err := ratArg("rhythm.half", args[0])
			if err != nil {
				return nil, err
			}
			half, err := rat.New(1, 2)
			if err != nil {
				return nil, err
			}
			result, err := pos.Mul(half)
			if err != nil {
				return nil, err
			}
			return value.Pos{V: result}, nil
		}),
	)
}

// dynamicsModule maps named dynamic levels to MIDI velocities and
// builds crescendo/diminuendo curves.
var dynamicLevels = map[string]int{
	"pp": 24, "p": 40, "mp": 56, "mf": 72, "f": 88, "ff": 104, "fff": 120,
}

func dynamicsModule() *value.Object {
	return newModule(
		fn("velocityFor", "velocityFor(name) -> int; pp..fff to a MIDI velocity", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("dynamics.velocityFor", 1, len(args))
			}
			name, err := asString("dynamics.velocityFor", args[0])
			if err != nil {
				return nil, err
			}
			v, ok := dynamicLevels[name]
			if !ok {
				return nil, fmt.Errorf("dynamics.velocityFor: unknown level %q", name)
			}
			return value.Int{V: int64(v)}, nil
		}),
		fn("crescendo", "crescendo(from, to, steps) -> curve", func(args []value.Value) (value.Value, error) {
			if len(args) != 3 {
				return nil, argCountErr("dynamics.crescendo", 3, len(args))
			}
			m, ok := curvesModule().Get("linear")
			if !ok {
				return nil, fmt.Errorf("dynamics.crescendo: internal: curves.linear missing")
			}
			return m.(*value.NativeFunc).Fn(args)
		}),
	)
}

func expressionModule() *value.Object {
	return newModule(
		fn("staccatoFactor", "staccatoFactor() -> number; fraction of a note's duration that sounds", func(args []value.Value) (value.Value, error) {
			if len(args) != 0 {
				return nil, argCountErr("expression.staccatoFactor", 0, len(args))
			}
			return value.Number{V: 0.5}, nil
		}),
		fn("legatoFactor", "legatoFactor() -> number; slight overlap fraction applied between tied phrases", func(args []value.Value) (value.Value, error) {
			if len(args) != 0 {
				return nil, argCountErr("expression.legatoFactor", 0, len(args))
			}
			return value.Number{V: 1.05}, nil
		}),
	)
}

func articulationModule() *value.Object {
	return newModule(
		fn("accentVelocity", "accentVelocity(base) -> int; boosted velocity, clamped to 127", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("articulation.accentVelocity", 1, len(args))
			}
			base, err := asInt("articulation.accentVelocity", args[0])
			if err != nil {
				return nil, err
			}
			boosted := base + 24
			if boosted > 127 {
				boosted = 127
			}
			return value.Int{V: int64(boosted)}, nil
		}),
		fn("ghostVelocity", "ghostVelocity(base) -> int; softened velocity, floored at 1", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("articulation.ghostVelocity", 1, len(args))
			}
			base, err := asInt("articulation.ghostVelocity", args[0])
			if err != nil {
				return nil, err
			}
			softened := base - 40
			if softened < 1 {
				softened = 1
			}
			return value.Int{V: int64(softened)}, nil
		}),
	)
}

// ornamentDefaults documents the default interval/tick parameters the
// evaluator's ornament expansion (internal/eval/ornaments.go) applies
// for each ornament kind; the expansion itself requires live track
// cursor state and so is implemented there, not as a plain
// value-in-value-out native function.
var ornamentDefaults = map[string]string{
	"trill":     "alternates +2 semitones, sub-note = PPQ/8 ticks",
	"mordent":   "3 notes: main, aux(+-2 semitones), main",
	"arpeggio":  "each pitch starts spread ticks after the previous",
	"glissando": "chromatic ramp, equal sub-durations",
	"tremolo":   "repeated same-pitch notes of 4*PPQ/speed ticks",
}

func ornamentsModule() *value.Object {
	return newModule(
		fn("describe", "describe(name) -> string; documents an ornament's expansion policy", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("ornaments.describe", 1, len(args))
			}
			name, err := asString("ornaments.describe", args[0])
			if err != nil {
				return nil, err
			}
			d, ok := ornamentDefaults[name]
			if !ok {
				return nil, fmt.Errorf("ornaments.describe: unknown ornament %q", name)
			}
			return value.Str{V: d}, nil
		}),
	)
}

func notationModule() *value.Object {
	sharpsByKey := map[string]int{
		"C": 0, "G": 1, "D": 2, "A": 3, "E": 4, "B": 5, "Fs": 6,
		"F": -1, "Bb": -2, "Eb": -3, "Ab": -4, "Db": -5,
	}
	return newModule(
		fn("keySignature", "keySignature(name) -> int; positive=sharps, negative=flats", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("notation.keySignature", 1, len(args))
			}
			name, err := asString("notation.keySignature", args[0])
			if err != nil {
				return nil, err
			}
			n, ok := sharpsByKey[name]
			if !ok {
				return nil, fmt.Errorf("notation.keySignature: unknown key %q", name)
			}
			return value.Int{V: int64(n)}, nil
		}),
	)
}

var genreTempos = map[string]float64{
	"ballad": 70, "waltz": 96, "march": 112, "reggae": 84,
	"disco": 120, "dnb": 172, "house": 124,
}

func genresModule() *value.Object {
	return newModule(
		fn("presetTempo", "presetTempo(name) -> number; a typical BPM for the named genre", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("genres.presetTempo", 1, len(args))
			}
			name, err := asString("genres.presetTempo", args[0])
			if err != nil {
				return nil, err
			}
			v, ok := genreTempos[name]
			if !ok {
				return nil, fmt.Errorf("genres.presetTempo: unknown genre %q", name)
			}
			return value.Number{V: v}, nil
		}),
	)
}

func compositionModule() *value.Object {
	return newModule(
		fn("sequence", "sequence(clip...) -> clip; concatenates clips in order", func(args []value.Value) (value.Value, error) {
			out := &value.Clip{}
			for _, a := range args {
				c, ok := a.(*value.Clip)
				if !ok {
					return nil, typeErr("composition.sequence", value.KindClip, a)
				}
				out.Notes = append(out.Notes, c.Notes...)
			}
			return out, nil
		}),
		fn("repeat", "repeat(clip, n) -> clip", func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return nil, argCountErr("composition.repeat", 2, len(args))
			}
			c, ok := args[0].(*value.Clip)
			if !ok {
				return nil, typeErr("composition.repeat", value.KindClip, args[0])
			}
			n, err := asInt("composition.repeat", args[1])
			if err != nil {
				return nil, err
			}
			out := &value.Clip{}
			for i := 0; i < n; i++ {
				out.Notes = append(out.Notes, c.Notes...)
			}
			return out, nil
		}),
	)
}

func utilsModule() *value.Object {
	return newModule(
		fn("clamp", "clamp(v, lo, hi) -> number", func(args []value.Value) (value.Value, error) {
			if len(args) != 3 {
				return nil, argCountErr("utils.clamp", 3, len(args))
			}
			v, err := asNumber("utils.clamp", args[0])
			if err != nil {
				return nil, err
			}
			lo, err := asNumber("utils.clamp", args[1])
			if err != nil {
				return nil, err
			}
			hi, err := asNumber("utils.clamp", args[2])
			if err != nil {
				return nil, err
			}
			if v < lo {
				v = lo
			}
			if v > hi {
				v = hi
			}
			return value.Number{V: v}, nil
		}),
		fn("round", "round(v) -> int", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("utils.round", 1, len(args))
			}
			v, err := asNumber("utils.round", args[0])
			if err != nil {
				return nil, err
			}
			return value.Int{V: int64(v + 0.5)}, nil
		}),
	)
}
