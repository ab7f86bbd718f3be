package stdlib

import (
	"github.com/leafo/mfc/internal/rat"
	"github.com/leafo/mfc/internal/value"
)

func curvesModule() *value.Object {
	return newModule(
		fn("linear", "linear(from, to, steps) -> curve; evenly spaced ramp", func(args []value.Value) (value.Value, error) {
			if len(args) != 3 {
				return nil, argCountErr("curves.linear", 3, len(args))
			}
			from, err := asNumber("curves.linear", args[0])
			if err != nil {
				return nil, err
			}
			to, err := asNumber("curves.linear", args[1])
			if err != nil {
				return nil, err
			}
			steps, err := asInt("curves.linear", args[2])
			if err != nil {
				return nil, err
			}
			if steps < 2 {
				steps = 2
			}
			pts := make([]value.CurvePoint, steps)
			for i := 0; i < steps; i++ {
				at, err := rat.New(int64(i), int64(steps-1))
				if err != nil {
					return nil, err
				}
				frac := float64(i) / float64(steps-1)
				pts[i] = value.CurvePoint{At: at, Value: from + (to-from)*frac}
			}
			return &value.Curve{Points: pts}, nil
		}),
		fn("constant", "constant(v) -> curve; single flat control point", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("curves.constant", 1, len(args))
			}
			v, err := asNumber("curves.constant", args[0])
			if err != nil {
				return nil, err
			}
			return &value.Curve{Points: []value.CurvePoint{{At: rat.Zero, Value: v}}}, nil
		}),
		fn("sample", "sample(curve, t) -> number; linear interpolation at fraction t", func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return nil, argCountErr("curves.sample", 2, len(args))
			}
			c, ok := args[0].(*value.Curve)
			if !ok {
				return nil, typeErr("curves.sample", value.KindCurve, args[0])
			}
			t, err := asNumber("curves.sample", args[1])
			if err != nil {
				return nil, err
			}
			return value.Number{V: sampleCurve(c, t)}, nil
		}),
	)
}

func sampleCurve(c *value.Curve, t float64) float64 {
	if len(c.Points) == 0 {
		return 0
	}
	if len(c.Points) == 1 {
		return c.Points[0].Value
	}
	for i := 0; i < len(c.Points)-1; i++ {
		a, b := c.Points[i], c.Points[i+1]
		af, bf := a.At.Float64(), b.At.Float64()
		if t >= af && t <= bf {
			if bf == af {
				return a.Value
			}
			frac := (t - af) / (bf - af)
			return a.Value + (b.Value-a.Value)*frac
		}
	}
	return c.Points[len(c.Points)-1].Value
}
