package stdlib

import "github.com/leafo/mfc/internal/value"

// vocalModule provides lyric-construction helpers; the evaluator's
// lyric alignment algorithm (internal/eval) builds Lyric values
// directly from LyricLine tokens, so these are for phrase-building
// scripts that assemble lyric arrays programmatically rather than
// through a literal LyricLine.
func vocalModule() *value.Object {
	return newModule(
		fn("mora", "mora(text) -> lyric", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("vocal.mora", 1, len(args))
			}
			text, err := asString("vocal.mora", args[0])
			if err != nil {
				return nil, err
			}
			return value.Lyric{Text: text, Span: "mora"}, nil
		}),
		fn("phoneme", "phoneme(text) -> lyric", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("vocal.phoneme", 1, len(args))
			}
			text, err := asString("vocal.phoneme", args[0])
			if err != nil {
				return nil, err
			}
			return value.Lyric{Text: text, Span: "phonemes"}, nil
		}),
		fn("extend", "extend() -> lyric; a melisma continuation span", func(args []value.Value) (value.Value, error) {
			if len(args) != 0 {
				return nil, argCountErr("vocal.extend", 0, len(args))
			}
			return value.Lyric{Span: "extend"}, nil
		}),
	)
}
