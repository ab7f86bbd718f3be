package lexer

import "testing"

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestTokenizePunctuation(t *testing.T) {
	toks, err := Tokenize([]byte(`{}[]():;/.,=|~`))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []Kind{LBrace, RBrace, LBracket, RBracket, LParen, RParen, Colon, Semicolon, Slash, Dot, Comma, Equals, Bar, Tilde, EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTokenizeKeywordVsIdent(t *testing.T) {
	toks, err := Tokenize([]byte(`score myPart`))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[0].Kind != Keyword || toks[0].Lexeme != "score" {
		t.Errorf("got %+v, want Keyword score", toks[0])
	}
	if toks[1].Kind != Ident || toks[1].Lexeme != "myPart" {
		t.Errorf("got %+v, want Ident myPart", toks[1])
	}
}

func TestTokenizePitchLiteral(t *testing.T) {
	toks, err := Tokenize([]byte(`C4 F#3 Bb5 A4+15c`))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	for i, want := range []string{"C4", "F#3", "Bb5", "A4+15c"} {
		if toks[i].Kind != PitchLit || toks[i].Lexeme != want {
			t.Errorf("token %d: got %+v, want PitchLit %s", i, toks[i], want)
		}
	}
}

func TestTokenizeDurationLiteral(t *testing.T) {
	toks, err := Tokenize([]byte(`q e.. ht3 q~`))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	for i, want := range []string{"q", "e..", "ht3", "q~"} {
		if toks[i].Kind != DurationLit || toks[i].Lexeme != want {
			t.Errorf("token %d: got %+v, want DurationLit %s", i, toks[i], want)
		}
	}
}

func TestTokenizeDoesNotMisreadIdentPrefix(t *testing.T) {
	toks, err := Tokenize([]byte(`score`))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[0].Kind != Keyword {
		t.Errorf("\"score\" starts with duration-like \"s\" but must lex as a whole keyword, got %+v", toks[0])
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks, err := Tokenize([]byte(`"la\nla\"end"`))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[0].Kind != String {
		t.Fatalf("got %+v, want String", toks[0])
	}
	if toks[0].Lexeme != "la\nla\"end" {
		t.Errorf("got %q, want %q", toks[0].Lexeme, "la\nla\"end")
	}
}

func TestTokenizeNumbers(t *testing.T) {
	toks, err := Tokenize([]byte(`120 3.5`))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[0].Kind != Number || toks[0].Value.(int64) != 120 {
		t.Errorf("got %+v, want integer 120", toks[0])
	}
	if toks[1].Kind != Number || toks[1].Value.(float64) != 3.5 {
		t.Errorf("got %+v, want float 3.5", toks[1])
	}
}

func TestTokenizeComments(t *testing.T) {
	toks, err := Tokenize([]byte("tempo // line comment\n120"))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[0].Kind != Keyword || toks[1].Kind != Number {
		t.Errorf("comment not skipped: %+v", toks)
	}
}

func TestTokenizeBlockComment(t *testing.T) {
	toks, err := Tokenize([]byte("/* block \n comment */ 42"))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[0].Kind != Number || toks[0].Lexeme != "42" {
		t.Errorf("got %+v", toks[0])
	}
}

func TestTokenizeUnterminatedBlockComment(t *testing.T) {
	if _, err := Tokenize([]byte("/* never closes")); err == nil {
		t.Fatal("expected LexError for unterminated block comment")
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	if _, err := Tokenize([]byte(`"oops`)); err == nil {
		t.Fatal("expected LexError for unterminated string")
	}
}

func TestTokenizeUnknownCharacter(t *testing.T) {
	if _, err := Tokenize([]byte(`@`)); err == nil {
		t.Fatal("expected LexError for unknown character")
	}
}

func TestTokenizeStandaloneUnderscore(t *testing.T) {
	toks, err := Tokenize([]byte(`_ _foo`))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[0].Kind != Underscore {
		t.Errorf("got %+v, want Underscore", toks[0])
	}
	if toks[1].Kind != Ident || toks[1].Lexeme != "_foo" {
		t.Errorf("got %+v, want Ident _foo", toks[1])
	}
}

func TestPositionTracking(t *testing.T) {
	toks, err := Tokenize([]byte("a\nb"))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[0].Pos.Line != 1 || toks[0].Pos.Col != 1 {
		t.Errorf("got %+v, want line 1 col 1", toks[0].Pos)
	}
	if toks[1].Pos.Line != 2 || toks[1].Pos.Col != 1 {
		t.Errorf("got %+v, want line 2 col 1", toks[1].Pos)
	}
}
