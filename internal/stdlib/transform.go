package stdlib

import "github.com/leafo/mfc/internal/value"

func transformModule() *value.Object {
	return newModule(
		fn("transpose", "transpose(pitch|array<pitch>, semitones) -> same shape", func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return nil, argCountErr("transform.transpose", 2, len(args))
			}
			n, err := asInt("transform.transpose", args[1])
			if err != nil {
				return nil, err
			}
			switch v := args[0].(type) {
			case value.PitchV:
				return value.PitchV{V: v.V.Transpose(n)}, nil
			case *value.Array:
				out := make([]value.Value, len(v.Items))
				for i, item := range v.Items {
					p, err := asPitch("transform.transpose", item)
					if err != nil {
						return nil, err
					}
					out[i] = value.PitchV{V: p.Transpose(n)}
				}
				return &value.Array{Items: out}, nil
			default:
				return nil, typeErr("transform.transpose", value.KindPitch, args[0])
			}
		}),
		fn("invert", "invert(array<pitch>, axis) -> array<pitch>; mirrors each pitch around axis", func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return nil, argCountErr("transform.invert", 2, len(args))
			}
			arr, err := asArray("transform.invert", args[0])
			if err != nil {
				return nil, err
			}
			axis, err := asPitch("transform.invert", args[1])
			if err != nil {
				return nil, err
			}
			out := make([]value.Value, len(arr.Items))
			for i, item := range arr.Items {
				p, err := asPitch("transform.invert", item)
				if err != nil {
					return nil, err
				}
				out[i] = value.PitchV{V: p.Transpose(2 * (axis.MIDI - p.MIDI))}
			}
			return &value.Array{Items: out}, nil
		}),
		fn("retrograde", "retrograde(array) -> array; reversed order", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("transform.retrograde", 1, len(args))
			}
			arr, err := asArray("transform.retrograde", args[0])
			if err != nil {
				return nil, err
			}
			out := make([]value.Value, len(arr.Items))
			for i, item := range arr.Items {
				out[len(out)-1-i] = item
			}
			return &value.Array{Items: out}, nil
		}),
	)
}
