package pitch

import "testing"

func TestParseNatural(t *testing.T) {
	p, err := Parse("C4")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.MIDI != 60 || p.Cents != 0 {
		t.Errorf("got %+v, want MIDI=60 Cents=0", p)
	}
}

func TestParseSharpFlat(t *testing.T) {
	sharp, err := Parse("F#3")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	flat, err := Parse("Gb3")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sharp.MIDI != flat.MIDI {
		t.Errorf("F#3 (%d) and Gb3 (%d) should be enharmonically equal", sharp.MIDI, flat.MIDI)
	}
}

func TestParseCents(t *testing.T) {
	p, err := Parse("A4+15c")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.MIDI != 69 || p.Cents != 15 {
		t.Errorf("got %+v, want MIDI=69 Cents=15", p)
	}
}

func TestParseNegativeCents(t *testing.T) {
	p, err := Parse("A4-10c")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Cents != -10 {
		t.Errorf("got cents=%d, want -10", p.Cents)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse("H4"); err == nil {
		t.Fatal("expected error for invalid note name")
	}
	if _, err := Parse("C"); err == nil {
		t.Fatal("expected error for missing octave")
	}
}

func TestTransposeRoundTrip(t *testing.T) {
	p, _ := Parse("C4")
	up := p.Transpose(7)
	down := up.Transpose(-7)
	if !down.Equal(p) {
		t.Errorf("transpose round trip: got %+v, want %+v", down, p)
	}
}

func TestEqual(t *testing.T) {
	a, _ := Parse("D4")
	b, _ := Parse("D4")
	if !a.Equal(b) {
		t.Errorf("expected %+v to equal %+v", a, b)
	}
}

func TestString(t *testing.T) {
	p, _ := Parse("C#4")
	if p.String() != "C#4" {
		t.Errorf("got %s, want C#4", p.String())
	}
	withCents, _ := Parse("A4+15c")
	if withCents.String() != "A4+15c" {
		t.Errorf("got %s, want A4+15c", withCents.String())
	}
}

func TestMiddleCConvention(t *testing.T) {
	p, _ := Parse("C-1")
	if p.MIDI != 0 {
		t.Errorf("C-1 should be MIDI 0, got %d", p.MIDI)
	}
}
