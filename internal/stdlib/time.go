package stdlib

import (
	"github.com/leafo/mfc/internal/pitch"
	"github.com/leafo/mfc/internal/value"
)

func timeModule() *value.Object {
	return newModule(
		fn("ticksFor", "ticksFor(durationLexeme, ppq) -> int", func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return nil, argCountErr("time.ticksFor", 2, len(args))
			}
			lexeme, err := asString("time.ticksFor", args[0])
			if err != nil {
				return nil, err
			}
			ppq, err := asInt("time.ticksFor", args[1])
			if err != nil {
				return nil, err
			}
			d, err := pitch.ParseDuration(lexeme)
			if err != nil {
				return nil, err
			}
			ticks, _, err := pitch.Ticks(d, ppq)
			if err != nil {
				return nil, err
			}
			return value.Int{V: int64(ticks)}, nil
		}),
		fn("bpmToMicros", "bpmToMicros(bpm) -> number; microseconds per quarter note", func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, argCountErr("time.bpmToMicros", 1, len(args))
			}
			bpm, err := asNumber("time.bpmToMicros", args[0])
			if err != nil {
				return nil, err
			}
			return value.Number{V: 60000000.0 / bpm}, nil
		}),
		fn("barTicks", "barTicks(numerator, denominator, ppq) -> int", func(args []value.Value) (value.Value, error) {
			if len(args) != 3 {
				return nil, argCountErr("time.barTicks", 3, len(args))
			}
			num, err := asInt("time.barTicks", args[0])
			if err != nil {
				return nil, err
			}
			den, err := asInt("time.barTicks", args[1])
			if err != nil {
				return nil, err
			}
			ppq, err := asInt("time.barTicks", args[2])
			if err != nil {
				return nil, err
			}
			// one beat == ppq*4/den ticks; a bar has num beats.
			return value.Int{V: int64(num * ppq * 4 / den)}, nil
		}),
	)
}
