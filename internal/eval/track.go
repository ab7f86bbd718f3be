package eval

import (
	"sort"

	"github.com/leafo/mfc/internal/ast"
	"github.com/leafo/mfc/internal/ir"
	"github.com/leafo/mfc/internal/lexer"
	"github.com/leafo/mfc/internal/pitch"
	"github.com/leafo/mfc/internal/value"
)

// trackState is the mutable per-part evaluation cursor (spec.md §3's
// TrackState).
type trackState struct {
	id, name           string
	kind               ir.TrackKind
	cursor             int
	channel, program   int
	defaultVel         int
	engine, voice      string
	events             []ir.Event
	lastVocalEventEnd  int
}

// abortPart signals a part-fatal error (TrackError{VocalOverlap}); the
// diagnostic has already been recorded at the point of failure.
type abortPart struct{}

func (abortPart) Error() string { return "part aborted" }

// unit is one coalesced bar element ready for emission: a note, a
// chord, a rest, or a native call (ornament or otherwise).
type unit struct {
	note       *ast.Note
	chord      *ast.Chord
	rest       *ast.Rest
	call       *ast.Call
	extraTicks int
	lyric      *value.Lyric
}

func (e *Evaluator) evaluatePart(part *ast.Part, scope *value.Scope) {
	ts := &trackState{id: part.Name, name: part.Name, defaultVel: 96, kind: ir.KindMIDI}
	hasPhrase := false
	for _, n := range part.Body {
		if _, ok := n.(*ast.Phrase); ok {
			hasPhrase = true
		}
	}

	for _, n := range part.Header {
		switch h := n.(type) {
		case *ast.Backend:
			if h.Name != "midi" {
				ts.kind = ir.KindVocal
			}
		case *ast.Assignment:
			e.applyPartField(ts, h, scope)
		}
	}
	if hasPhrase && ts.kind == ir.KindMIDI {
		// no explicit backend named the engine; a phrase with a lyric
		// line implies a vocal track (spec.md scenario 2).
		for _, n := range part.Body {
			if ph, ok := n.(*ast.Phrase); ok && ph.Lyrics != nil {
				ts.kind = ir.KindVocal
				break
			}
		}
	}

	var pendingBars []*ast.Bar
	aborted := false
	flush := func() {
		if aborted || len(pendingBars) == 0 {
			pendingBars = nil
			return
		}
		units := e.coalesceTies(flattenBars(pendingBars))
		if err := e.emitUnits(units, ts, scope); err != nil {
			aborted = true
		}
		pendingBars = nil
	}

	for _, n := range part.Body {
		if aborted {
			break
		}
		switch b := n.(type) {
		case *ast.Bar:
			pendingBars = append(pendingBars, b)
		case *ast.Phrase:
			flush()
			if aborted {
				break
			}
			if e.evaluatePhrase(b, ts, scope) {
				aborted = true
			}
		case *ast.Assignment:
			flush()
			v, err := e.evalExpr(b.Value, scope)
			if err != nil {
				e.errorAt("eval-error", err.Error(), b.Pos())
				continue
			}
			_ = scope.Define(b.Name, v, false)
		case *ast.Call:
			flush()
			if _, err := e.evalCall(b, scope); err != nil {
				e.errorAt("eval-error", err.Error(), b.Pos())
			}
		case *ast.Tempo:
			flush()
			e.errorAt("phase-error", (&PhaseError{Statement: "tempo"}).Error(), b.Pos())
		case *ast.TimeSig:
			flush()
			e.errorAt("phase-error", (&PhaseError{Statement: "time"}).Error(), b.Pos())
		}
	}
	flush()

	e.registerTrack(ts)
}

func (e *Evaluator) registerTrack(ts *trackState) {
	track := &ir.Track{
		ID:     ts.id,
		Kind:   ts.kind,
		Name:   ts.name,
		Events: ts.events,
	}
	if ts.kind == ir.KindMIDI {
		track.Channel = ts.channel
		track.Program = ts.program
		track.DefaultVel = ts.defaultVel
	} else {
		if ts.engine != "" || ts.voice != "" {
			track.Meta = &ir.VocalMeta{Engine: ts.engine, Voice: ts.voice}
		}
	}
	e.scoreIR.Tracks = append(e.scoreIR.Tracks, track)
}

func (e *Evaluator) applyPartField(ts *trackState, a *ast.Assignment, scope *value.Scope) {
	v, err := e.evalExpr(a.Value, scope)
	if err != nil {
		e.errorAt("eval-error", err.Error(), a.Pos())
		return
	}
	switch a.Name {
	case "ch", "channel":
		if n, err := asIntValue(v); err == nil {
			ts.channel = n
		}
	case "program":
		if n, err := asIntValue(v); err == nil {
			ts.program = n
		}
	case "vel", "velocity":
		if n, err := asIntValue(v); err == nil {
			ts.defaultVel = n
		}
	case "engine":
		if s, ok := v.(value.Str); ok {
			ts.engine = s.V
		}
	case "voice":
		if s, ok := v.(value.Str); ok {
			ts.voice = s.V
		}
	default:
		_ = scope.Define(a.Name, v, false)
	}
}

func asIntValue(v value.Value) (int, error) {
	switch n := v.(type) {
	case value.Int:
		return int(n.V), nil
	case value.Number:
		return int(n.V), nil
	default:
		return 0, &InternalError{Detail: "expected numeric part field"}
	}
}

func flattenBars(bars []*ast.Bar) []ast.Node {
	var out []ast.Node
	for _, b := range bars {
		out = append(out, b.Elements...)
	}
	return out
}

// coalesceTies implements spec.md §4.5's tie-merge policy: a tied note
// (or chord) followed immediately by an element of the same pitch (or
// pitch set) is merged into one unit whose duration is the sum.
func (e *Evaluator) coalesceTies(elems []ast.Node) []unit {
	var units []unit
	i := 0
	for i < len(elems) {
		switch el := elems[i].(type) {
		case *ast.Note:
			if el.Tie && i+1 < len(elems) {
				if nxt, ok := elems[i+1].(*ast.Note); ok && nxt.Pitch == el.Pitch {
					extra, err := e.durationTicks(nxt.Duration, nxt.Pos())
					if err == nil {
						merged := *el
						units = append(units, unit{note: &merged, extraTicks: extra})
						i += 2
						continue
					}
				}
				e.warnAt("tie-mismatch", (&TrackError{Kind: TieMismatch, Detail: el.Pitch}).Error(), el.Pos())
			}
			noteCopy := *el
			units = append(units, unit{note: &noteCopy})
			i++
		case *ast.Chord:
			if el.Tie && i+1 < len(elems) {
				if nxt, ok := elems[i+1].(*ast.Chord); ok && samePitchSet(el.Pitches, nxt.Pitches) {
					extra, err := e.durationTicks(nxt.Duration, nxt.Pos())
					if err == nil {
						merged := *el
						units = append(units, unit{chord: &merged, extraTicks: extra})
						i += 2
						continue
					}
				}
				e.warnAt("tie-mismatch", (&TrackError{Kind: TieMismatch, Detail: "chord"}).Error(), el.Pos())
			}
			chordCopy := *el
			units = append(units, unit{chord: &chordCopy})
			i++
		case *ast.Rest:
			units = append(units, unit{rest: el})
			i++
		case *ast.Call:
			units = append(units, unit{call: el})
			i++
		default:
			i++
		}
	}
	return units
}

func samePitchSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]string{}, a...)
	sb := append([]string{}, b...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

// durationTicks parses and converts a duration lexeme, recording a
// TimingApproximation warning when the exact fraction does not divide
// evenly (spec.md §4.6).
func (e *Evaluator) durationTicks(lexeme string, pos lexer.Position) (int, error) {
	d, err := pitch.ParseDuration(lexeme)
	if err != nil {
		e.errorAt("numeric-error", err.Error(), pos)
		return 0, err
	}
	ticks, approx, err := pitch.Ticks(d, e.ppq)
	if err != nil {
		e.errorAt("numeric-error", err.Error(), pos)
		return 0, err
	}
	if approx != nil {
		e.warnAt("timing-approximation", approx.Error(), pos)
	}
	return ticks, nil
}

func isOrnament(name string) bool {
	switch name {
	case "trill", "mordent", "arpeggio", "glissando", "tremolo":
		return true
	}
	return false
}

func (e *Evaluator) emitUnits(units []unit, ts *trackState, scope *value.Scope) error {
	for _, u := range units {
		switch {
		case u.note != nil:
			p, err := pitch.Parse(u.note.Pitch)
			if err != nil {
				e.errorAt("lex-error", err.Error(), u.note.Pos())
				continue
			}
			ticks, err := e.durationTicks(u.note.Duration, u.note.Pos())
			if err != nil {
				continue
			}
			ticks += u.extraTicks
			if err := e.emitNote(ts, p, ticks, u.lyric, u.note.Pos()); err != nil {
				return err
			}
		case u.chord != nil:
			ticks, err := e.durationTicks(u.chord.Duration, u.chord.Pos())
			if err != nil {
				continue
			}
			ticks += u.extraTicks
			pitches := make([]pitch.Pitch, 0, len(u.chord.Pitches))
			ok := true
			for _, lex := range u.chord.Pitches {
				p, err := pitch.Parse(lex)
				if err != nil {
					e.errorAt("lex-error", err.Error(), u.chord.Pos())
					ok = false
					break
				}
				pitches = append(pitches, p)
			}
			if !ok {
				continue
			}
			if err := e.emitChord(ts, pitches, ticks, u.lyric, u.chord.Pos()); err != nil {
				return err
			}
		case u.rest != nil:
			ticks, err := e.durationTicks(u.rest.Duration, u.rest.Pos())
			if err != nil {
				continue
			}
			e.emitRest(ts, ticks)
		case u.call != nil:
			if u.call.Module == "" && isOrnament(u.call.Name) {
				if err := e.applyOrnament(u.call, ts, scope); err != nil {
					e.errorAt("eval-error", err.Error(), u.call.Pos())
				}
				continue
			}
			if _, err := e.evalCall(u.call, scope); err != nil {
				e.errorAt("eval-error", err.Error(), u.call.Pos())
			}
		}
	}
	return nil
}

func (e *Evaluator) emitNote(ts *trackState, p pitch.Pitch, ticks int, lyric *value.Lyric, pos lexer.Position) error {
	if ts.kind == ir.KindVocal {
		if ts.cursor < ts.lastVocalEventEnd {
			e.errorAt("vocal-overlap", (&TrackError{Kind: VocalOverlap, Detail: p.String()}).Error(), pos)
			return abortPart{}
		}
	}
	ev := ir.NoteEvent{Tick: ts.cursor, Dur: ticks, Key: p.MIDI, Vel: ts.defaultVel}
	if lyric != nil {
		ev.Lyric = lyric.Text
		ev.LyricSpan = lyric.Span
	}
	ts.events = append(ts.events, ev)
	ts.cursor += ticks
	if ts.kind == ir.KindVocal {
		ts.lastVocalEventEnd = ts.cursor
	}
	return nil
}

func (e *Evaluator) emitChord(ts *trackState, pitches []pitch.Pitch, ticks int, lyric *value.Lyric, pos lexer.Position) error {
	if ts.kind == ir.KindVocal && ts.cursor < ts.lastVocalEventEnd {
		e.errorAt("vocal-overlap", (&TrackError{Kind: VocalOverlap, Detail: "chord"}).Error(), pos)
		return abortPart{}
	}
	for i, p := range pitches {
		ev := ir.NoteEvent{Tick: ts.cursor, Dur: ticks, Key: p.MIDI, Vel: ts.defaultVel}
		if i == 0 && lyric != nil {
			ev.Lyric = lyric.Text
			ev.LyricSpan = lyric.Span
		}
		ts.events = append(ts.events, ev)
	}
	ts.cursor += ticks
	if ts.kind == ir.KindVocal {
		ts.lastVocalEventEnd = ts.cursor
	}
	return nil
}

func (e *Evaluator) emitRest(ts *trackState, ticks int) {
	if ts.kind == ir.KindVocal {
		ts.events = append(ts.events, ir.RestEvent{Tick: ts.cursor, Dur: ticks})
	}
	ts.cursor += ticks
	if ts.kind == ir.KindVocal {
		ts.lastVocalEventEnd = ts.cursor
	}
}
