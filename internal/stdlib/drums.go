package stdlib

import (
	"fmt"

	"github.com/leafo/mfc/internal/gm"
	"github.com/leafo/mfc/internal/pitch"
	"github.com/leafo/mfc/internal/value"
)

func drumsModule() *value.Object {
	return newModule(
		fn("key", "key(name) -> pitch; General MIDI percussion key for a named hit", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("drums.key", 1, len(args))
			}
			name, err := asString("drums.key", args[0])
			if err != nil {
				return nil, err
			}
			k, ok := gm.NamesToKeys[name]
			if !ok {
				return nil, fmt.Errorf("drums.key: unknown drum name %q", name)
			}
			return value.PitchV{V: pitch.Pitch{MIDI: k}}, nil
		}),
		fn("channel", "channel() -> int; fixed GM percussion channel", func(args []value.Value) (value.Value, error) {
			if len(args) != 0 {
				return nil, argCountErr("drums.channel", 0, len(args))
			}
			return value.Int{V: int64(gm.DrumChannel)}, nil
		}),
		fn("pattern", "pattern(names...) -> array<pitch>; looks up each drum name", func(args []value.Value) (value.Value, error) {
			out := make([]value.Value, 0, len(args))
			for _, a := range args {
				name, err := asString("drums.pattern", a)
				if err != nil {
					return nil, err
				}
				k, ok := gm.NamesToKeys[name]
				if !ok {
					return nil, fmt.Errorf("drums.pattern: unknown drum name %q", name)
				}
				out = append(out, value.PitchV{V: pitch.Pitch{MIDI: k}})
			}
			return &value.Array{Items: out}, nil
		}),
	)
}
