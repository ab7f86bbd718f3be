package stdlib

import "github.com/leafo/mfc/internal/value"

func coreModule() *value.Object {
	return newModule(
		fn("typeOf", "typeOf(v) -> string; the value's runtime kind", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("core.typeOf", 1, len(args))
			}
			return value.Str{V: string(args[0].Kind())}, nil
		}),
		fn("len", "len(array|string) -> int", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("core.len", 1, len(args))
			}
			switch v := args[0].(type) {
			case *value.Array:
				return value.Int{V: int64(len(v.Items))}, nil
			case value.Str:
				return value.Int{V: int64(len([]rune(v.V)))}, nil
			default:
				return nil, typeErr("core.len", value.KindArray, args[0])
			}
		}),
		fn("range", "range(n) -> array<int>; 0..n-1", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("core.range", 1, len(args))
			}
			n, err := asInt("core.range", args[0])
			if err != nil {
				return nil, err
			}
			out := make([]value.Value, 0, n)
			for i := 0; i < n; i++ {
				out = append(out, value.Int{V: int64(i)})
			}
			return &value.Array{Items: out}, nil
		}),
		fn("equal", "equal(a, b) -> bool; structural equality", func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return nil, argCountErr("core.equal", 2, len(args))
			}
			return value.Bool{V: value.Equal(args[0], args[1])}, nil
		}),
	)
}
