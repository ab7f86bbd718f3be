// Package parser implements MFS's recursive-descent parser, one-token
// lookahead, producing the AST described in spec.md §3/§4.2. Grounded
// on codello-go-ultrastar's parser/scanner split and chart.go's
// per-section dispatch-by-leading-token idiom.
package parser

import (
	"fmt"
	"strings"

	"github.com/leafo/mfc/internal/ast"
	"github.com/leafo/mfc/internal/lexer"
)

// ParseError reports an unexpected token or premature EOF.
type ParseError struct {
	Expected string
	Found    lexer.Token
	Position lexer.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: expected %s, found %s %q",
		e.Position, e.Expected, e.Found.Kind, e.Found.Lexeme)
}

// Parser walks a token slice with one-token lookahead.
type Parser struct {
	toks   []lexer.Token
	pos    int
	errors []error
}

// Parse tokenizes src and parses a full Score. It returns the best
// Score it could build even in the presence of recoverable
// ParseErrors, alongside all errors collected during top-level resync.
func Parse(src []byte) (*ast.Score, []error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, []error{err}
	}
	p := &Parser{toks: toks}
	score := p.parseScore()
	return score, p.errors
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) fail(expected string) *ParseError {
	return &ParseError{Expected: expected, Found: p.cur(), Position: p.cur().Pos}
}

func (p *Parser) expectKind(k lexer.Kind, expected string) (lexer.Token, error) {
	if p.cur().Kind != k {
		return lexer.Token{}, p.fail(expected)
	}
	return p.advance(), nil
}

func (p *Parser) expectKeyword(word string) (lexer.Token, error) {
	if p.cur().Kind != lexer.Keyword || p.cur().Lexeme != word {
		return lexer.Token{}, p.fail("keyword " + word)
	}
	return p.advance(), nil
}

func (p *Parser) isKeyword(word string) bool {
	return p.cur().Kind == lexer.Keyword && p.cur().Lexeme == word
}

// parseScore implements: Score := "score" String "{" ScoreHeader Part* "}"
func (p *Parser) parseScore() *ast.Score {
	start := p.cur().Pos
	if _, err := p.expectKeyword("score"); err != nil {
		p.errors = append(p.errors, err)
		return nil
	}
	titleTok, err := p.expectKind(lexer.String, "score title string")
	if err != nil {
		p.errors = append(p.errors, err)
		return nil
	}
	if _, err := p.expectKind(lexer.LBrace, "'{'"); err != nil {
		p.errors = append(p.errors, err)
		return nil
	}

	score := &ast.Score{Base: ast.At(start), Title: titleTok.Lexeme}
	score.Header = p.parseScoreHeader()

	for p.isKeyword("part") {
		part := p.parsePart()
		if part != nil {
			score.Parts = append(score.Parts, part)
		} else {
			p.resyncTopLevel()
		}
	}

	if _, err := p.expectKind(lexer.RBrace, "'}'"); err != nil {
		p.errors = append(p.errors, err)
	}
	return score
}

// resyncTopLevel skips tokens until the next "score", "part", or "}"
// token, per spec.md §4.2's best-effort recovery policy.
func (p *Parser) resyncTopLevel() {
	for {
		t := p.cur()
		if t.Kind == lexer.EOF {
			return
		}
		if t.Kind == lexer.RBrace || p.isKeyword("score") || p.isKeyword("part") {
			return
		}
		p.advance()
	}
}

// parseScoreHeader implements: ScoreHeader := (Tempo | TimeSig | Backend | Import | Assignment)*
func (p *Parser) parseScoreHeader() []ast.Node {
	var nodes []ast.Node
	for {
		switch {
		case p.isKeyword("tempo"):
			nodes = append(nodes, p.parseTempo())
		case p.isKeyword("time"):
			nodes = append(nodes, p.parseTimeSig())
		case p.isKeyword("backend"):
			nodes = append(nodes, p.parseBackend())
		case p.isKeyword("import"):
			nodes = append(nodes, p.parseImport())
		case p.cur().Kind == lexer.Ident:
			nodes = append(nodes, p.parseAssignment())
		default:
			return nodes
		}
	}
}

func (p *Parser) parseTempo() ast.Node {
	start := p.advance().Pos // "tempo"
	num, err := p.expectKind(lexer.Number, "tempo BPM number")
	if err != nil {
		p.errors = append(p.errors, err)
		return &ast.Tempo{Base: ast.At(start)}
	}
	return &ast.Tempo{Base: ast.At(start), BPM: toFloat(num.Value)}
}

func (p *Parser) parseTimeSig() ast.Node {
	start := p.advance().Pos // "time"
	num, err := p.expectKind(lexer.Number, "time signature numerator")
	if err != nil {
		p.errors = append(p.errors, err)
		return &ast.TimeSig{Base: ast.At(start)}
	}
	if _, err := p.expectKind(lexer.Slash, "'/'"); err != nil {
		p.errors = append(p.errors, err)
		return &ast.TimeSig{Base: ast.At(start), Numerator: int(toFloat(num.Value))}
	}
	den, err := p.expectKind(lexer.Number, "time signature denominator")
	if err != nil {
		p.errors = append(p.errors, err)
		return &ast.TimeSig{Base: ast.At(start), Numerator: int(toFloat(num.Value))}
	}
	return &ast.TimeSig{Base: ast.At(start), Numerator: int(toFloat(num.Value)), Denominator: int(toFloat(den.Value))}
}

func (p *Parser) parseBackend() ast.Node {
	start := p.advance().Pos // "backend"
	name, err := p.expectKind(lexer.String, "backend name string")
	if err != nil {
		p.errors = append(p.errors, err)
		return &ast.Backend{Base: ast.At(start)}
	}
	return &ast.Backend{Base: ast.At(start), Name: name.Lexeme}
}

func (p *Parser) parseImport() ast.Node {
	start := p.advance().Pos // "import"
	path, err := p.expectKind(lexer.String, "import path string")
	if err != nil {
		p.errors = append(p.errors, err)
		return &ast.Import{Base: ast.At(start)}
	}
	imp := &ast.Import{Base: ast.At(start), Path: path.Lexeme}
	if p.isKeyword("as") || (p.cur().Kind == lexer.Ident && p.cur().Lexeme == "as") {
		p.advance()
		alias, err := p.expectKind(lexer.Ident, "import alias")
		if err == nil {
			imp.Alias = alias.Lexeme
		}
	}
	return imp
}

func (p *Parser) parseAssignment() ast.Node {
	name := p.advance() // identifier
	start := name.Pos
	// "name:" (part-header field, e.g. "ch:1") and "name=expr" (a plain
	// assignment) share a leading identifier; both are represented as
	// Assignment.
	if p.cur().Kind == lexer.Colon || p.cur().Kind == lexer.Equals {
		p.advance()
	}
	val := p.parseExpr()
	return &ast.Assignment{Base: ast.At(start), Name: name.Lexeme, Value: val}
}

// parseExpr parses a single scalar, call, or array-literal expression.
func (p *Parser) parseExpr() ast.Node {
	t := p.cur()
	switch t.Kind {
	case lexer.Number:
		p.advance()
		return &ast.Literal{Base: ast.At(t.Pos), Kind: "number", Value: t.Value}
	case lexer.String:
		p.advance()
		return &ast.Literal{Base: ast.At(t.Pos), Kind: "string", Value: t.Lexeme}
	case lexer.PitchLit:
		p.advance()
		return &ast.Literal{Base: ast.At(t.Pos), Kind: "pitch", Value: t.Lexeme}
	case lexer.DurationLit:
		p.advance()
		return &ast.Literal{Base: ast.At(t.Pos), Kind: "duration", Value: t.Lexeme}
	case lexer.LBracket:
		return p.parseArrayLit()
	case lexer.Ident:
		return p.parseIdentOrCall()
	default:
		p.errors = append(p.errors, p.fail("expression"))
		p.advance()
		return &ast.Literal{Base: ast.At(t.Pos), Value: nil}
	}
}

func (p *Parser) parseArrayLit() ast.Node {
	start := p.advance().Pos // "["
	arr := &ast.ArrayLit{Base: ast.At(start)}
	for p.cur().Kind != lexer.RBracket && p.cur().Kind != lexer.EOF {
		arr.Elements = append(arr.Elements, p.parseExpr())
		if p.cur().Kind == lexer.Comma {
			p.advance()
		}
	}
	if _, err := p.expectKind(lexer.RBracket, "']'"); err != nil {
		p.errors = append(p.errors, err)
	}
	return arr
}

// parseIdentOrCall handles bare identifiers, module.function(...)
// qualified calls, and unqualified function(...) calls.
func (p *Parser) parseIdentOrCall() ast.Node {
	id := p.advance()
	module := ""
	name := id.Lexeme
	dotted := false
	if p.cur().Kind == lexer.Dot {
		p.advance()
		fn, err := p.expectKind(lexer.Ident, "function or field name")
		if err != nil {
			p.errors = append(p.errors, err)
			return &ast.Identifier{Base: ast.At(id.Pos), Name: id.Lexeme}
		}
		module, name = id.Lexeme, fn.Lexeme
		dotted = true
	}
	if p.cur().Kind != lexer.LParen {
		if dotted {
			return &ast.MemberAccess{Base: ast.At(id.Pos), Module: module, Name: name}
		}
		return &ast.Identifier{Base: ast.At(id.Pos), Name: id.Lexeme}
	}
	p.advance() // "("
	call := &ast.Call{Base: ast.At(id.Pos), Module: module, Name: name}
	for p.cur().Kind != lexer.RParen && p.cur().Kind != lexer.EOF {
		call.Args = append(call.Args, p.parseExpr())
		if p.cur().Kind == lexer.Comma {
			p.advance()
		}
	}
	if _, err := p.expectKind(lexer.RParen, "')'"); err != nil {
		p.errors = append(p.errors, err)
	}
	return call
}

// parsePart implements: Part := "part" Identifier "{" PartHeader (Phrase | Bar+)* "}"
func (p *Parser) parsePart() *ast.Part {
	start := p.advance().Pos // "part"
	nameTok, err := p.expectKind(lexer.Ident, "part name")
	if err != nil {
		p.errors = append(p.errors, err)
		return nil
	}
	if _, err := p.expectKind(lexer.LBrace, "'{'"); err != nil {
		p.errors = append(p.errors, err)
		return nil
	}
	part := &ast.Part{Base: ast.At(start), Name: nameTok.Lexeme}

	for {
		switch {
		case p.isKeyword("backend"):
			part.Header = append(part.Header, p.parseBackend())
		case p.isKeyword("midi"):
			p.advance()
			part.Header = append(part.Header, &ast.Backend{Base: ast.At(p.cur().Pos), Name: "midi"})
		case p.cur().Kind == lexer.Ident && p.peekColon():
			part.Header = append(part.Header, p.parseAssignment())
		case p.isKeyword("phrase"):
			part.Body = append(part.Body, p.parsePhrase())
		case p.cur().Kind == lexer.Bar:
			part.Body = append(part.Body, p.parseBar())
		case p.isKeyword("tempo"), p.isKeyword("time"):
			// permitted inside a part only as a PhaseError diagnostic,
			// not a parse error: still parsed, flagged by the evaluator.
			if p.isKeyword("tempo") {
				part.Body = append(part.Body, p.parseTempo())
			} else {
				part.Body = append(part.Body, p.parseTimeSig())
			}
		case p.cur().Kind == lexer.RBrace:
			p.advance()
			return part
		case p.cur().Kind == lexer.EOF:
			p.errors = append(p.errors, p.fail("'}'"))
			return part
		default:
			p.errors = append(p.errors, p.fail("part body element"))
			p.advance()
		}
	}
}

func (p *Parser) peekColon() bool {
	if p.pos+1 >= len(p.toks) {
		return false
	}
	return p.toks[p.pos+1].Kind == lexer.Colon
}

// parsePhrase implements: Phrase := "phrase" "{" "notes" ":" Bar+ ";" LyricLine ";" "}"
func (p *Parser) parsePhrase() *ast.Phrase {
	start := p.advance().Pos // "phrase"
	if _, err := p.expectKind(lexer.LBrace, "'{'"); err != nil {
		p.errors = append(p.errors, err)
		return &ast.Phrase{Base: ast.At(start)}
	}
	if _, err := p.expectKeyword("notes"); err != nil {
		p.errors = append(p.errors, err)
	}
	if _, err := p.expectKind(lexer.Colon, "':'"); err != nil {
		p.errors = append(p.errors, err)
	}
	phrase := &ast.Phrase{Base: ast.At(start)}
	for p.cur().Kind == lexer.Bar {
		phrase.Bars = append(phrase.Bars, p.parseBar())
	}
	if _, err := p.expectKind(lexer.Semicolon, "';'"); err != nil {
		p.errors = append(p.errors, err)
	}
	if p.isKeyword("lyrics") {
		phrase.Lyrics = p.parseLyricLine()
		if _, err := p.expectKind(lexer.Semicolon, "';'"); err != nil {
			p.errors = append(p.errors, err)
		}
	}
	if _, err := p.expectKind(lexer.RBrace, "'}'"); err != nil {
		p.errors = append(p.errors, err)
	}
	return phrase
}

// parseLyricLine implements: LyricLine := ("lyrics" ("mora"|"phonemes")?) ":" LyricTok+
func (p *Parser) parseLyricLine() *ast.LyricLine {
	start := p.advance().Pos // "lyrics"
	line := &ast.LyricLine{Base: ast.At(start)}
	if p.isKeyword("mora") || p.isKeyword("phonemes") {
		line.Kind = p.advance().Lexeme
	}
	if _, err := p.expectKind(lexer.Colon, "':'"); err != nil {
		p.errors = append(p.errors, err)
		return line
	}
	for {
		switch p.cur().Kind {
		case lexer.Ident:
			line.Tokens = append(line.Tokens, p.advance().Lexeme)
		case lexer.String:
			line.Tokens = append(line.Tokens, p.advance().Lexeme)
		case lexer.Underscore:
			p.advance()
			line.Tokens = append(line.Tokens, "_")
		default:
			return line
		}
	}
}

// parseBar implements: Bar := "|" Element* "|"
func (p *Parser) parseBar() *ast.Bar {
	start := p.advance().Pos // "|"
	bar := &ast.Bar{Base: ast.At(start)}
	for p.cur().Kind != lexer.Bar && p.cur().Kind != lexer.EOF &&
		p.cur().Kind != lexer.Semicolon && p.cur().Kind != lexer.RBrace {
		el := p.parseElement()
		if el != nil {
			bar.Elements = append(bar.Elements, el)
		} else {
			break
		}
	}
	if p.cur().Kind == lexer.Bar {
		p.advance()
		// a barline followed directly by a note, chord or rest is shared:
		// it closes this bar and opens the next ("| C4 h | D4 q |").
		if k := p.cur().Kind; k == lexer.PitchLit || k == lexer.LBracket ||
			(k == lexer.Ident && p.cur().Lexeme == "r") {
			p.pos--
		}
	} else {
		p.errors = append(p.errors, p.fail("'|'"))
	}
	return bar
}

// parseElement implements: Element := Note | Chord | Rest | Call
func (p *Parser) parseElement() ast.Node {
	switch p.cur().Kind {
	case lexer.PitchLit:
		return p.parseNote()
	case lexer.LBracket:
		return p.parseChord()
	case lexer.Ident:
		if p.cur().Lexeme == "r" {
			return p.parseRest()
		}
		return p.parseIdentOrCall()
	default:
		p.errors = append(p.errors, p.fail("note, chord, rest, or call"))
		p.advance()
		return nil
	}
}

func (p *Parser) parseNote() ast.Node {
	pitchTok := p.advance()
	dur, err := p.readDuration()
	if err != nil {
		p.errors = append(p.errors, err)
		return &ast.Note{Base: ast.At(pitchTok.Pos), Pitch: pitchTok.Lexeme}
	}
	// the lexer folds a directly attached "~" into the duration lexeme
	tie := strings.HasSuffix(dur, "~")
	dur = strings.TrimSuffix(dur, "~")
	if p.cur().Kind == lexer.Tilde {
		p.advance()
		tie = true
	}
	return &ast.Note{Base: ast.At(pitchTok.Pos), Pitch: pitchTok.Lexeme, Duration: dur, Tie: tie}
}

func (p *Parser) parseChord() ast.Node {
	start := p.advance().Pos // "["
	chord := &ast.Chord{Base: ast.At(start)}
	for p.cur().Kind == lexer.PitchLit {
		chord.Pitches = append(chord.Pitches, p.advance().Lexeme)
	}
	if _, err := p.expectKind(lexer.RBracket, "']'"); err != nil {
		p.errors = append(p.errors, err)
		return chord
	}
	dur, err := p.readDuration()
	if err != nil {
		p.errors = append(p.errors, err)
		return chord
	}
	chord.Tie = strings.HasSuffix(dur, "~")
	chord.Duration = strings.TrimSuffix(dur, "~")
	if p.cur().Kind == lexer.Tilde {
		p.advance()
		chord.Tie = true
	}
	return chord
}

func (p *Parser) parseRest() ast.Node {
	start := p.advance() // "r"
	dur, err := p.readDuration()
	if err != nil {
		p.errors = append(p.errors, err)
	}
	return &ast.Rest{Base: ast.At(start.Pos), Duration: dur}
}

// readDuration accepts either a DurationLit token or a bare Number
// token whose lexeme is "32" or "64" (see lexer.lexIdentLike's
// comment on the numeric-duration ambiguity).
func (p *Parser) readDuration() (string, error) {
	t := p.cur()
	if t.Kind == lexer.DurationLit {
		p.advance()
		return t.Lexeme, nil
	}
	if t.Kind == lexer.Number && (t.Lexeme == "32" || t.Lexeme == "64") {
		p.advance()
		return t.Lexeme, nil
	}
	return "", p.fail("duration")
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}
