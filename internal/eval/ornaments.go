package eval

import (
	"fmt"

	"github.com/leafo/mfc/internal/ast"
	"github.com/leafo/mfc/internal/ir"
	"github.com/leafo/mfc/internal/lexer"
	"github.com/leafo/mfc/internal/pitch"
	"github.com/leafo/mfc/internal/value"
)

// applyOrnament expands one of the five ornament calls into a run of
// note events relative to ts.cursor, exactly as specified in spec.md
// §4.5. Each policy consumes a duration argument and advances the
// cursor by precisely that many ticks regardless of how many
// sub-events it emits.
func (e *Evaluator) applyOrnament(call *ast.Call, ts *trackState, scope *value.Scope) error {
	args, err := e.evalArgs(call.Args, scope)
	if err != nil {
		return err
	}
	switch call.Name {
	case "trill":
		return e.applyTrill(ts, args)
	case "mordent":
		return e.applyMordent(ts, args)
	case "arpeggio":
		return e.applyArpeggio(ts, args)
	case "glissando":
		return e.applyGlissando(ts, args)
	case "tremolo":
		return e.applyTremolo(ts, args)
	default:
		return fmt.Errorf("unknown ornament %q", call.Name)
	}
}

func (e *Evaluator) evalArgs(nodes []ast.Node, scope *value.Scope) ([]value.Value, error) {
	out := make([]value.Value, 0, len(nodes))
	for _, n := range nodes {
		v, err := e.evalExpr(n, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func pitchFromArg(v value.Value) (pitch.Pitch, error) {
	p, ok := v.(value.PitchV)
	if !ok {
		return pitch.Pitch{}, &value.TypeError{Builtin: "ornament", Want: value.KindPitch, Got: v.Kind()}
	}
	return p.V, nil
}

func (e *Evaluator) durationArgTicks(v value.Value) (int, error) {
	d, ok := v.(value.DurationV)
	if !ok {
		return 0, &value.TypeError{Builtin: "ornament", Want: value.KindDuration, Got: v.Kind()}
	}
	ticks, approx, err := pitch.Ticks(d.V, e.ppq)
	if err != nil {
		return 0, err
	}
	if approx != nil {
		// the originating call's position isn't threaded through here;
		// a zero position is acceptable since this is advisory only.
		e.warnAt("timing-approximation", approx.Error(), lexer.Position{})
	}
	return ticks, nil
}

// emitOrnamentNote appends a raw note event without touching
// ts.cursor; ornament expansions manage the cursor themselves so that
// it advances by exactly the consumed duration.
func (e *Evaluator) emitOrnamentNote(ts *trackState, tick int, dur int, p pitch.Pitch) {
	ts.events = append(ts.events, ir.NoteEvent{Tick: tick, Dur: dur, Key: p.MIDI, Vel: ts.defaultVel})
}

// applyTrill alternates between the base pitch and pitch+interval
// (default +2 semitones), sub-note duration PPQ/8, final truncated.
func (e *Evaluator) applyTrill(ts *trackState, args []value.Value) error {
	if len(args) < 2 {
		return fmt.Errorf("trill: expected (pitch, duration[, interval])")
	}
	p, err := pitchFromArg(args[0])
	if err != nil {
		return err
	}
	total, err := e.durationArgTicks(args[1])
	if err != nil {
		return err
	}
	interval := 2
	if len(args) >= 3 {
		if n, ok := args[2].(value.Int); ok {
			interval = int(n.V)
		}
	}
	sub := e.ppq / 8
	if sub <= 0 {
		sub = 1
	}
	upper := p.Transpose(interval)
	tick := ts.cursor
	remaining := total
	toggle := false
	for remaining > 0 {
		d := sub
		if d > remaining {
			d = remaining
		}
		cur := p
		if toggle {
			cur = upper
		}
		e.emitOrnamentNote(ts, tick, d, cur)
		tick += d
		remaining -= d
		toggle = !toggle
	}
	ts.cursor += total
	return nil
}

// applyMordent emits main, auxiliary (+-2 semitones), main, the last
// filling the remainder.
func (e *Evaluator) applyMordent(ts *trackState, args []value.Value) error {
	if len(args) < 2 {
		return fmt.Errorf("mordent: expected (pitch, duration[, lower])")
	}
	p, err := pitchFromArg(args[0])
	if err != nil {
		return err
	}
	total, err := e.durationArgTicks(args[1])
	if err != nil {
		return err
	}
	lower := false
	if len(args) >= 3 {
		lower = value.Truthy(args[2])
	}
	interval := 2
	if lower {
		interval = -2
	}
	aux := p.Transpose(interval)
	sub := total / 4
	if sub <= 0 {
		sub = 1
	}
	tick := ts.cursor
	e.emitOrnamentNote(ts, tick, sub, p)
	tick += sub
	e.emitOrnamentNote(ts, tick, sub, aux)
	tick += sub
	last := total - 2*sub
	if last < 0 {
		last = 0
	}
	e.emitOrnamentNote(ts, tick, last, p)
	ts.cursor += total
	return nil
}

// applyArpeggio starts each pitch `spread` ticks after the previous,
// all ending at the terminal tick; pitches whose remaining duration
// would be <= 0 are dropped.
func (e *Evaluator) applyArpeggio(ts *trackState, args []value.Value) error {
	if len(args) < 3 {
		return fmt.Errorf("arpeggio: expected (pitches, duration, spread)")
	}
	arr, ok := args[0].(*value.Array)
	if !ok {
		return &value.TypeError{Builtin: "arpeggio", Want: value.KindArray, Got: args[0].Kind()}
	}
	total, err := e.durationArgTicks(args[1])
	if err != nil {
		return err
	}
	spread := 0
	switch n := args[2].(type) {
	case value.Int:
		spread = int(n.V)
	case value.Number:
		spread = int(n.V)
	default:
		return &value.TypeError{Builtin: "arpeggio", Want: value.KindInt, Got: args[2].Kind()}
	}
	base := ts.cursor
	for i, item := range arr.Items {
		p, err := pitchFromArg(item)
		if err != nil {
			return err
		}
		start := i * spread
		dur := total - start
		if dur <= 0 {
			continue
		}
		e.emitOrnamentNote(ts, base+start, dur, p)
	}
	ts.cursor += total
	return nil
}

// applyGlissando ramps chromatically from start to end pitch
// inclusive, equal sub-durations.
func (e *Evaluator) applyGlissando(ts *trackState, args []value.Value) error {
	if len(args) < 3 {
		return fmt.Errorf("glissando: expected (startPitch, endPitch, duration)")
	}
	start, err := pitchFromArg(args[0])
	if err != nil {
		return err
	}
	end, err := pitchFromArg(args[1])
	if err != nil {
		return err
	}
	total, err := e.durationArgTicks(args[2])
	if err != nil {
		return err
	}
	steps := end.MIDI - start.MIDI
	direction := 1
	if steps < 0 {
		direction = -1
		steps = -steps
	}
	count := steps + 1
	sub := total / count
	if sub <= 0 {
		sub = 1
	}
	tick := ts.cursor
	for i := 0; i < count; i++ {
		d := sub
		if i == count-1 {
			d = total - sub*(count-1)
			if d < 0 {
				d = 0
			}
		}
		p := start.Transpose(i * direction)
		e.emitOrnamentNote(ts, tick, d, p)
		tick += sub
	}
	ts.cursor += total
	return nil
}

// applyTremolo repeats the same pitch in notes of 4*PPQ/speed ticks,
// the last truncated to fit.
func (e *Evaluator) applyTremolo(ts *trackState, args []value.Value) error {
	if len(args) < 3 {
		return fmt.Errorf("tremolo: expected (pitch, duration, speed)")
	}
	p, err := pitchFromArg(args[0])
	if err != nil {
		return err
	}
	total, err := e.durationArgTicks(args[1])
	if err != nil {
		return err
	}
	speed := 1
	switch n := args[2].(type) {
	case value.Int:
		speed = int(n.V)
	case value.Number:
		speed = int(n.V)
	default:
		return &value.TypeError{Builtin: "tremolo", Want: value.KindInt, Got: args[2].Kind()}
	}
	if speed <= 0 {
		speed = 1
	}
	sub := 4 * e.ppq / speed
	if sub <= 0 {
		sub = 1
	}
	tick := ts.cursor
	remaining := total
	for remaining > 0 {
		d := sub
		if d > remaining {
			d = remaining
		}
		e.emitOrnamentNote(ts, tick, d, p)
		tick += d
		remaining -= d
	}
	ts.cursor += total
	return nil
}
