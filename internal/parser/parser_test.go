package parser

import (
	"testing"

	"github.com/leafo/mfc/internal/ast"
)

func parseOK(t *testing.T, src string) *ast.Score {
	t.Helper()
	score, errs := Parse([]byte(src))
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if score == nil {
		t.Fatal("Parse returned a nil score with no errors")
	}
	return score
}

func TestParseMinimalScore(t *testing.T) {
	score := parseOK(t, `score "Test" { tempo 120 }`)
	if score.Title != "Test" {
		t.Errorf("got title %q, want Test", score.Title)
	}
	if len(score.Header) != 1 {
		t.Fatalf("got %d header nodes, want 1", len(score.Header))
	}
	tempo, ok := score.Header[0].(*ast.Tempo)
	if !ok || tempo.BPM != 120 {
		t.Errorf("got %+v, want Tempo{BPM: 120}", score.Header[0])
	}
}

func TestParseHeaderStatements(t *testing.T) {
	score := parseOK(t, `score "Test" {
		tempo 90
		time 3/4
		backend "vocaloid"
		import "std:theory"
		x = 5
	}`)
	if len(score.Header) != 5 {
		t.Fatalf("got %d header nodes, want 5: %+v", len(score.Header), score.Header)
	}
	ts, ok := score.Header[1].(*ast.TimeSig)
	if !ok || ts.Numerator != 3 || ts.Denominator != 4 {
		t.Errorf("got %+v, want TimeSig 3/4", score.Header[1])
	}
	be, ok := score.Header[2].(*ast.Backend)
	if !ok || be.Name != "vocaloid" {
		t.Errorf("got %+v, want Backend vocaloid", score.Header[2])
	}
	imp, ok := score.Header[3].(*ast.Import)
	if !ok || imp.Path != "std:theory" {
		t.Errorf("got %+v, want Import std:theory", score.Header[3])
	}
	assign, ok := score.Header[4].(*ast.Assignment)
	if !ok || assign.Name != "x" {
		t.Errorf("got %+v, want Assignment x", score.Header[4])
	}
}

func TestParsePartWithBars(t *testing.T) {
	score := parseOK(t, `score "Test" {
		part Lead {
			ch: 1
			| C4 q D4 q E4 q F4 q |
		}
	}`)
	if len(score.Parts) != 1 {
		t.Fatalf("got %d parts, want 1", len(score.Parts))
	}
	part := score.Parts[0]
	if part.Name != "Lead" {
		t.Errorf("got name %q, want Lead", part.Name)
	}
	if len(part.Header) != 1 {
		t.Fatalf("got %d header nodes, want 1", len(part.Header))
	}
	if len(part.Body) != 1 {
		t.Fatalf("got %d body nodes, want 1", len(part.Body))
	}
	bar, ok := part.Body[0].(*ast.Bar)
	if !ok || len(bar.Elements) != 4 {
		t.Fatalf("got %+v, want a 4-element bar", part.Body[0])
	}
	note, ok := bar.Elements[0].(*ast.Note)
	if !ok || note.Pitch != "C4" || note.Duration != "q" {
		t.Errorf("got %+v, want Note C4 q", bar.Elements[0])
	}
}

func TestParseChordAndTie(t *testing.T) {
	score := parseOK(t, `score "Test" {
		part P {
			| [C4 E4 G4] h~ |
		}
	}`)
	bar := score.Parts[0].Body[0].(*ast.Bar)
	chord, ok := bar.Elements[0].(*ast.Chord)
	if !ok {
		t.Fatalf("got %+v, want Chord", bar.Elements[0])
	}
	if len(chord.Pitches) != 3 || chord.Duration != "h" || !chord.Tie {
		t.Errorf("got %+v, want 3 pitches, h duration, tied", chord)
	}
}

func TestParseRestAndCall(t *testing.T) {
	score := parseOK(t, `score "Test" {
		part P {
			| r q trill(C4, q) |
		}
	}`)
	bar := score.Parts[0].Body[0].(*ast.Bar)
	rest, ok := bar.Elements[0].(*ast.Rest)
	if !ok || rest.Duration != "q" {
		t.Errorf("got %+v, want Rest q", bar.Elements[0])
	}
	call, ok := bar.Elements[1].(*ast.Call)
	if !ok || call.Name != "trill" || len(call.Args) != 2 {
		t.Errorf("got %+v, want Call trill/2", bar.Elements[1])
	}
}

func TestParseQualifiedCall(t *testing.T) {
	score := parseOK(t, `score "Test" {
		x = theory.majorTriad(C4)
	}`)
	assign := score.Header[0].(*ast.Assignment)
	call, ok := assign.Value.(*ast.Call)
	if !ok || call.Module != "theory" || call.Name != "majorTriad" {
		t.Errorf("got %+v, want Call theory.majorTriad", assign.Value)
	}
}

func TestParsePhraseWithLyrics(t *testing.T) {
	score := parseOK(t, `score "Test" {
		part Vox {
			phrase {
				notes: | C4 q D4 q |;
				lyrics: "Hel" "lo" ;
			}
		}
	}`)
	phrase, ok := score.Parts[0].Body[0].(*ast.Phrase)
	if !ok {
		t.Fatalf("got %+v, want Phrase", score.Parts[0].Body[0])
	}
	if len(phrase.Bars) != 1 {
		t.Fatalf("got %d bars, want 1", len(phrase.Bars))
	}
	if phrase.Lyrics == nil || len(phrase.Lyrics.Tokens) != 2 {
		t.Fatalf("got %+v, want 2 lyric tokens", phrase.Lyrics)
	}
}

func TestLiteralKindDisambiguation(t *testing.T) {
	score := parseOK(t, `score "Test" {
		a = 5
		b = "hi"
		c = C4
		d = q
	}`)
	kinds := map[string]string{}
	for _, n := range score.Header {
		assign := n.(*ast.Assignment)
		lit := assign.Value.(*ast.Literal)
		kinds[assign.Name] = lit.Kind
	}
	want := map[string]string{"a": "number", "b": "string", "c": "pitch", "d": "duration"}
	for k, v := range want {
		if kinds[k] != v {
			t.Errorf("assignment %s: got kind %q, want %q", k, kinds[k], v)
		}
	}
}

func TestParseMemberAccessWithoutCall(t *testing.T) {
	score := parseOK(t, `score "Test" {
		x = helpers.baseVelocity
	}`)
	assign := score.Header[0].(*ast.Assignment)
	member, ok := assign.Value.(*ast.MemberAccess)
	if !ok || member.Module != "helpers" || member.Name != "baseVelocity" {
		t.Errorf("got %+v, want MemberAccess helpers.baseVelocity", assign.Value)
	}
}

func TestParseErrorRecoveryAtTopLevel(t *testing.T) {
	score, errs := Parse([]byte(`score "Test" { 42 part A { } }`))
	if len(errs) == 0 {
		t.Fatal("expected parse errors for an out-of-place number in header position")
	}
	if score == nil {
		t.Fatal("expected a best-effort score despite errors")
	}
}
