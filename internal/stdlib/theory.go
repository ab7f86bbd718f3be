package stdlib

import (
	"fmt"

	"github.com/leafo/mfc/internal/pitch"
	"github.com/leafo/mfc/internal/value"
)

// scaleSteps gives semitone offsets from the root for common scales,
// grounded on the interval-offset style of general_midi.go's constant
// tables (plain data, terse naming).
var scaleSteps = map[string][]int{
	"major":      {0, 2, 4, 5, 7, 9, 11},
	"minor":      {0, 2, 3, 5, 7, 8, 10},
	"dorian":     {0, 2, 3, 5, 7, 9, 10},
	"mixolydian": {0, 2, 4, 5, 7, 9, 10},
	"chromatic":  {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	"majorPent":  {0, 2, 4, 7, 9},
	"minorPent":  {0, 3, 5, 7, 10},
}

func transposeAll(p pitch.Pitch, offsets ...int) []pitch.Pitch {
	out := make([]pitch.Pitch, len(offsets))
	for i, o := range offsets {
		out[i] = p.Transpose(o)
	}
	return out
}

func theoryModule() *value.Object {
	return newModule(
		fn("majorTriad", "majorTriad(pitch) -> array<pitch>; applies semitone offsets 0,4,7", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("theory.majorTriad", 1, len(args))
			}
			p, err := asPitch("theory.majorTriad", args[0])
			if err != nil {
				return nil, err
			}
			return pitchArray(transposeAll(p, 0, 4, 7)), nil
		}),
		fn("minorTriad", "minorTriad(pitch) -> array<pitch>; applies semitone offsets 0,3,7", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("theory.minorTriad", 1, len(args))
			}
			p, err := asPitch("theory.minorTriad", args[0])
			if err != nil {
				return nil, err
			}
			return pitchArray(transposeAll(p, 0, 3, 7)), nil
		}),
		fn("scale", "scale(pitch, name) -> array<pitch>", func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return nil, argCountErr("theory.scale", 2, len(args))
			}
			p, err := asPitch("theory.scale", args[0])
			if err != nil {
				return nil, err
			}
			name, err := asString("theory.scale", args[1])
			if err != nil {
				return nil, err
			}
			steps, ok := scaleSteps[name]
			if !ok {
				return nil, fmt.Errorf("theory.scale: unknown scale %q", name)
			}
			return pitchArray(transposeAll(p, steps...)), nil
		}),
		fn("interval", "interval(pitchA, pitchB) -> int; signed semitone distance", func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return nil, argCountErr("theory.interval", 2, len(args))
			}
			a, err := asPitch("theory.interval", args[0])
			if err != nil {
				return nil, err
			}
			b, err := asPitch("theory.interval", args[1])
			if err != nil {
				return nil, err
			}
			return value.Int{V: int64(b.MIDI - a.MIDI)}, nil
		}),
	)
}
