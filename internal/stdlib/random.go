package stdlib

import (
	"math/rand"

	"github.com/leafo/mfc/internal/value"
)

// randomModule wraps a *rand.Rand seeded deterministically from the
// score's seed value (spec.md §5), so two compiles of the same source
// produce identical IR.
func randomModule(rng *rand.Rand) *value.Object {
	return newModule(
		fn("int", "int(lo, hi) -> int; inclusive range", func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return nil, argCountErr("random.int", 2, len(args))
			}
			lo, err := asInt("random.int", args[0])
			if err != nil {
				return nil, err
			}
			hi, err := asInt("random.int", args[1])
			if err != nil {
				return nil, err
			}
			if hi < lo {
				lo, hi = hi, lo
			}
			return value.Int{V: int64(lo + rng.Intn(hi-lo+1))}, nil
		}),
		fn("float", "float() -> number; uniform in [0, 1)", func(args []value.Value) (value.Value, error) {
			if len(args) != 0 {
				return nil, argCountErr("random.float", 0, len(args))
			}
			return value.Number{V: rng.Float64()}, nil
		}),
		fn("pick", "pick(array) -> value; uniformly chosen element", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("random.pick", 1, len(args))
			}
			arr, err := asArray("random.pick", args[0])
			if err != nil {
				return nil, err
			}
			if len(arr.Items) == 0 {
				return value.Null{}, nil
			}
			return arr.Items[rng.Intn(len(arr.Items))], nil
		}),
		fn("shuffle", "shuffle(array) -> array; Fisher-Yates, does not mutate input", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("random.shuffle", 1, len(args))
			}
			arr, err := asArray("random.shuffle", args[0])
			if err != nil {
				return nil, err
			}
			out := make([]value.Value, len(arr.Items))
			copy(out, arr.Items)
			rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
			return &value.Array{Items: out}, nil
		}),
	)
}
