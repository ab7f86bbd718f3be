package eval

import (
	"github.com/leafo/mfc/internal/ast"
	"github.com/leafo/mfc/internal/value"
)

// evaluatePhrase decomposes a Phrase into a coalesced unit sequence,
// zips its lyric line against that sequence (spec.md §4.5's lyric
// alignment), and emits the result. Returns true if the part must
// abort (a fatal TrackError was recorded).
func (e *Evaluator) evaluatePhrase(ph *ast.Phrase, ts *trackState, scope *value.Scope) bool {
	units := e.coalesceTies(flattenBars(ph.Bars))
	if ph.Lyrics != nil {
		e.alignLyrics(ph.Lyrics, units)
	}
	if err := e.emitUnits(units, ts, scope); err != nil {
		return true
	}
	return false
}

// alignLyrics zips lyric tokens against the note/chord units of units
// in emission order, per spec.md §4.5. "_" extends the previous
// syllable's text into the current note with an "extend" span.
// Trailing tokens beyond the notes are a warning; trailing notes
// beyond the tokens are left silent.
func (e *Evaluator) alignLyrics(line *ast.LyricLine, units []unit) {
	noteIdx := 0
	lastText := ""
	for _, tok := range line.Tokens {
		for noteIdx < len(units) && units[noteIdx].note == nil && units[noteIdx].chord == nil {
			noteIdx++
		}
		if noteIdx >= len(units) {
			e.warnAt("lyric-overrun", "lyric token "+tok+" has no corresponding note", line.Pos())
			continue
		}
		if tok == "_" {
			units[noteIdx].lyric = &value.Lyric{Text: lastText, Span: "extend"}
		} else {
			span := line.Kind
			units[noteIdx].lyric = &value.Lyric{Text: tok, Span: span}
			lastText = tok
		}
		noteIdx++
	}
}
