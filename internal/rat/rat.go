// Package rat implements exact rational arithmetic for musical
// positions and durations, kept in lowest terms at all times.
package rat

import "fmt"

// NumericError reports rational overflow or an invalid denominator.
type NumericError struct {
	Op     string
	Detail string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("numeric error in %s: %s", e.Op, e.Detail)
}

// Rat is an exact fraction n/d, d > 0, always stored in lowest terms.
type Rat struct {
	N, D int64
}

// Zero is the additive identity.
var Zero = Rat{N: 0, D: 1}

// New builds a Rat in lowest terms. d must not be zero.
func New(n, d int64) (Rat, error) {
	if d == 0 {
		return Rat{}, &NumericError{Op: "rat.New", Detail: "zero denominator"}
	}
	if d < 0 {
		n, d = -n, -d
	}
	g := gcd(abs(n), d)
	if g == 0 {
		g = 1
	}
	return Rat{N: n / g, D: d / g}, nil
}

// FromInt lifts an integer into a Rat.
func FromInt(n int64) Rat {
	return Rat{N: n, D: 1}
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// Add returns r + other, reporting overflow.
func (r Rat) Add(other Rat) (Rat, error) {
	n, overN := mulAddOverflow(r.N, other.D, other.N, r.D)
	if overN {
		return Rat{}, &NumericError{Op: "rat.Add", Detail: "numerator overflow"}
	}
	d, overD := mulOverflow(r.D, other.D)
	if overD {
		return Rat{}, &NumericError{Op: "rat.Add", Detail: "denominator overflow"}
	}
	return New(n, d)
}

// Mul returns r * other, reporting overflow.
func (r Rat) Mul(other Rat) (Rat, error) {
	n, overN := mulOverflow(r.N, other.N)
	if overN {
		return Rat{}, &NumericError{Op: "rat.Mul", Detail: "numerator overflow"}
	}
	d, overD := mulOverflow(r.D, other.D)
	if overD {
		return Rat{}, &NumericError{Op: "rat.Mul", Detail: "denominator overflow"}
	}
	return New(n, d)
}

// Sub returns r - other.
func (r Rat) Sub(other Rat) (Rat, error) {
	return r.Add(Rat{N: -other.N, D: other.D})
}

// Cmp returns -1, 0, or 1 as r is less than, equal to, or greater than other.
func (r Rat) Cmp(other Rat) int {
	lhs := r.N * other.D
	rhs := other.N * r.D
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

// Float64 returns a floating-point approximation, used only for
// rounding to ticks, never for comparisons.
func (r Rat) Float64() float64 {
	return float64(r.N) / float64(r.D)
}

// IsInteger reports whether r has denominator 1.
func (r Rat) IsInteger() bool {
	return r.D == 1
}

func (r Rat) String() string {
	if r.D == 1 {
		return fmt.Sprintf("%d", r.N)
	}
	return fmt.Sprintf("%d/%d", r.N, r.D)
}

func mulOverflow(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	result := a * b
	if result/b != a {
		return 0, true
	}
	return result, false
}

// mulAddOverflow computes a*bd + c*ad, the cross-multiplied numerator
// for a/ad + c/bd style addition.
func mulAddOverflow(a, bd, c, ad int64) (int64, bool) {
	left, over1 := mulOverflow(a, bd)
	right, over2 := mulOverflow(c, ad)
	if over1 || over2 {
		return 0, true
	}
	sum := left + right
	// overflow check for addition of same-signed operands
	if (left > 0 && right > 0 && sum < 0) || (left < 0 && right < 0 && sum > 0) {
		return 0, true
	}
	return sum, false
}
