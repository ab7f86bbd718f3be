package pitch

import (
	"regexp"
	"strconv"

	"github.com/leafo/mfc/internal/rat"
)

// Duration is MFS's symbolic note length: a base value (w, h, q, e, s,
// 32, 64), zero or more augmentation dots, an optional tuplet divisor,
// and a tied-to-next flag.
type Duration struct {
	Base    string
	Dots    int
	Tuplet  int // 0 means no tuplet
	Tie     bool
	Lexeme  string
}

var durationPattern = regexp.MustCompile(`^(w|h|q|e|s|32|64)(\.*)(?:t(\d+))?(~)?$`)

var baseFraction = map[string]rat.Rat{
	"w":  {N: 1, D: 1},
	"h":  {N: 1, D: 2},
	"q":  {N: 1, D: 4},
	"e":  {N: 1, D: 8},
	"s":  {N: 1, D: 16},
	"32": {N: 1, D: 32},
	"64": {N: 1, D: 64},
}

// ParseDuration parses a textual duration literal such as "q", "h..",
// "et3", or "q~".
func ParseDuration(lexeme string) (Duration, error) {
	m := durationPattern.FindStringSubmatch(lexeme)
	if m == nil {
		return Duration{}, &LexError{Lexeme: lexeme, Reason: "does not match duration grammar"}
	}
	d := Duration{Base: m[1], Dots: len(m[2]), Lexeme: lexeme, Tie: m[4] == "~"}
	if m[3] != "" {
		n, err := strconv.Atoi(m[3])
		if err != nil {
			return Duration{}, &LexError{Lexeme: lexeme, Reason: "invalid tuplet divisor"}
		}
		d.Tuplet = n
	}
	return d, nil
}

// ToRat returns the duration's length as a fraction of one whole note,
// applying dot and tuplet modifiers in spec.md §4.6's order.
func (d Duration) ToRat() (rat.Rat, error) {
	base, ok := baseFraction[d.Base]
	if !ok {
		return rat.Rat{}, &rat.NumericError{Op: "duration.ToRat", Detail: "unknown base " + d.Base}
	}
	value := base
	if d.Dots > 0 {
		// (2 - 1/2^n) == (2^(n+1) - 1) / 2^n
		pow := int64(1) << uint(d.Dots)
		dotFactor, err := rat.New(2*pow-1, pow)
		if err != nil {
			return rat.Rat{}, err
		}
		var err2 error
		value, err2 = value.Mul(dotFactor)
		if err2 != nil {
			return rat.Rat{}, err2
		}
	}
	if d.Tuplet > 0 {
		tupletFactor, err := rat.New(2, int64(d.Tuplet))
		if err != nil {
			return rat.Rat{}, err
		}
		var err2 error
		value, err2 = value.Mul(tupletFactor)
		if err2 != nil {
			return rat.Rat{}, err2
		}
	}
	return value, nil
}

// TimingApproximation is a non-fatal warning emitted when a duration's
// tick length does not divide evenly.
type TimingApproximation struct {
	Lexeme string
	Exact  rat.Rat
	Ticks  int
}

func (e *TimingApproximation) Error() string {
	return "duration " + e.Lexeme + " does not convert to an exact tick count"
}

// Ticks converts d to an integer tick count at the given PPQ,
// following spec.md §4.6: ticks(D) = PPQ * 4 * numerator(D) / denominator(D).
// When the result is not an exact integer it rounds to nearest and
// returns a *TimingApproximation alongside the rounded value (not as a
// fatal error).
func Ticks(d Duration, ppq int) (int, *TimingApproximation, error) {
	frac, err := d.ToRat()
	if err != nil {
		return 0, nil, err
	}
	whole, err := rat.New(int64(ppq)*4, 1)
	if err != nil {
		return 0, nil, err
	}
	exact, err := whole.Mul(frac)
	if err != nil {
		return 0, nil, err
	}
	if exact.IsInteger() {
		return int(exact.N), nil, nil
	}
	rounded := int(exact.Float64() + 0.5)
	return rounded, &TimingApproximation{Lexeme: d.Lexeme, Exact: exact, Ticks: rounded}, nil
}
