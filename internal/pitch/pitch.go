// Package pitch parses and manipulates MFS pitch and duration
// literals and converts durations to ticks.
package pitch

import (
	"fmt"
	"regexp"
	"strconv"
)

// Pitch is a MIDI-style key plus a cents offset, matching spec.md's
// { midi, cents } value shape. C-1 = 0, middle C = 60.
type Pitch struct {
	MIDI  int
	Cents int
}

// LexError reports a malformed pitch or duration literal.
type LexError struct {
	Lexeme string
	Reason string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("malformed literal %q: %s", e.Lexeme, e.Reason)
}

var pitchPattern = regexp.MustCompile(`^([A-G])([#b]?)(-?\d+)(?:([+-]\d+)c)?$`)

var noteBase = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// Parse parses a textual pitch literal such as "C4", "F#3", "Bb5", or
// "A4+15c" into a Pitch.
func Parse(lexeme string) (Pitch, error) {
	m := pitchPattern.FindStringSubmatch(lexeme)
	if m == nil {
		return Pitch{}, &LexError{Lexeme: lexeme, Reason: "does not match pitch grammar"}
	}
	base := noteBase[m[1][0]]
	switch m[2] {
	case "#":
		base++
	case "b":
		base--
	}
	octave, err := strconv.Atoi(m[3])
	if err != nil {
		return Pitch{}, &LexError{Lexeme: lexeme, Reason: "invalid octave"}
	}
	midi := (octave+1)*12 + base
	cents := 0
	if m[4] != "" {
		cents, err = strconv.Atoi(m[4])
		if err != nil {
			return Pitch{}, &LexError{Lexeme: lexeme, Reason: "invalid cents"}
		}
	}
	return Pitch{MIDI: midi, Cents: cents}, nil
}

// Transpose returns p shifted by n semitones. Cents survive unchanged,
// matching spec.md P4 (transpose by n then -n round-trips).
func (p Pitch) Transpose(semitones int) Pitch {
	return Pitch{MIDI: p.MIDI + semitones, Cents: p.Cents}
}

// Equal reports structural equality.
func (p Pitch) Equal(other Pitch) bool {
	return p.MIDI == other.MIDI && p.Cents == other.Cents
}

var pitchNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// String renders a canonical textual form, e.g. "C#4".
func (p Pitch) String() string {
	octave := p.MIDI/12 - 1
	name := pitchNames[((p.MIDI%12)+12)%12]
	s := fmt.Sprintf("%s%d", name, octave)
	if p.Cents != 0 {
		s += fmt.Sprintf("%+dc", p.Cents)
	}
	return s
}
