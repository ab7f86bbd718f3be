package eval

import "fmt"

// PhaseError reports a header-only statement appearing in track phase
// (spec.md §4.5: "Transitioning to any part permanently closes the
// global phase").
type PhaseError struct {
	Statement string
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s outside header", e.Statement)
}

// TrackErrorKind distinguishes the two TrackError cases (spec.md §7).
type TrackErrorKind int

const (
	VocalOverlap TrackErrorKind = iota
	TieMismatch
)

// TrackError reports a vocal-track invariant violation. VocalOverlap
// is fatal for the part; TieMismatch is a warning only.
type TrackError struct {
	Kind TrackErrorKind
	Detail string
}

func (e *TrackError) Error() string {
	switch e.Kind {
	case VocalOverlap:
		return "vocal note overlaps previous note: " + e.Detail
	default:
		return "tied note has no matching successor: " + e.Detail
	}
}

// InternalError reports an invariant violation inside the evaluator
// itself; fatal for the whole compile (spec.md §7).
type InternalError struct {
	Detail string
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Detail
}
