// Package ir defines the Score Intermediate Representation emitted by
// the evaluator (spec.md §6) and the diagnostics shape that
// accompanies it. Grounded on sngfile.go's flat JSON-serializable
// song structures, rebuilt around tick-accurate musical events.
package ir

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// SchemaVersion is the current Score IR schema tag.
const SchemaVersion = "0.1"

// DefaultPPQ is the pulses-per-quarter resolution used when a score
// does not otherwise specify one (spec.md §4.4's glossary default).
const DefaultPPQ = 480

// Score is the top-level IR document (spec.md §6).
type Score struct {
	SchemaVersion string     `json:"schemaVersion"`
	Title         *string    `json:"title"`
	PPQ           int        `json:"ppq"`
	Tempos        []Tempo    `json:"tempos"`
	TimeSigs      []TimeSig  `json:"timeSigs"`
	Tracks        []*Track   `json:"tracks"`
}

// Tempo is a tempo change at a tick.
type Tempo struct {
	Tick int     `json:"tick"`
	BPM  float64 `json:"bpm"`
}

// TimeSig is a meter change at a tick.
type TimeSig struct {
	Tick        int `json:"tick"`
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// TrackKind distinguishes vocal tracks (lyric-carrying) from midi
// tracks (channel/program-carrying).
type TrackKind string

const (
	KindVocal TrackKind = "vocal"
	KindMIDI  TrackKind = "midi"
)

// Track holds one part's emitted events plus its kind-specific
// metadata. Only the fields relevant to Kind are populated.
type Track struct {
	ID         string     `json:"id"`
	Kind       TrackKind  `json:"kind"`
	Name       string     `json:"name"`
	Events     []Event    `json:"events"`
	Channel    int        `json:"channel"`
	Program    int        `json:"program"`
	DefaultVel int        `json:"defaultVel"`
	Meta       *VocalMeta `json:"meta,omitempty"`
}

// UnmarshalJSON rebuilds Events into their concrete variants,
// dispatching on each element's "type" discriminator, since Event is
// an interface and encoding/json cannot otherwise decode into one.
func (t *Track) UnmarshalJSON(data []byte) error {
	type alias Track
	aux := struct {
		Events []json.RawMessage `json:"events"`
		*alias
	}{alias: (*alias)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	events := make([]Event, len(aux.Events))
	for i, raw := range aux.Events {
		ev, err := unmarshalEvent(raw)
		if err != nil {
			return err
		}
		events[i] = ev
	}
	t.Events = events
	return nil
}

// VocalMeta names the synthesis engine/voice a vocal track targets.
type VocalMeta struct {
	Engine string `json:"engine"`
	Voice  string `json:"voice"`
}

// Event is implemented by every IR event variant. Each variant also
// marshals with a leading "type" discriminator (spec.md §6) and is
// registered in unmarshalEvent below for the reverse direction.
type Event interface {
	EventTick() int
	EventType() string
}

// NoteEvent is a sounding pitch of fixed duration, optionally
// carrying a lyric (vocal tracks) and an articulation. Ties are
// already coalesced by the evaluator; the event has no tie flag.
type NoteEvent struct {
	Tick         int    `json:"tick"`
	Dur          int    `json:"dur"`
	Key          int    `json:"key"`
	Vel          int    `json:"vel"`
	Lyric        string `json:"lyric,omitempty"`
	LyricSpan    string `json:"lyricSpan,omitempty"`
	Articulation string `json:"articulation,omitempty"`
}

func (e NoteEvent) EventTick() int    { return e.Tick }
func (e NoteEvent) EventType() string { return "note" }

func (e NoteEvent) MarshalJSON() ([]byte, error) {
	type alias NoteEvent
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: e.EventType(), alias: alias(e)})
}

// RestEvent marks silence of a fixed duration.
type RestEvent struct {
	Tick int `json:"tick"`
	Dur  int `json:"dur"`
}

func (e RestEvent) EventTick() int    { return e.Tick }
func (e RestEvent) EventType() string { return "rest" }

func (e RestEvent) MarshalJSON() ([]byte, error) {
	type alias RestEvent
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: e.EventType(), alias: alias(e)})
}

// CCEvent is a MIDI control-change automation point.
type CCEvent struct {
	Tick       int `json:"tick"`
	Controller int `json:"controller"`
	Value      int `json:"value"`
}

func (e CCEvent) EventTick() int    { return e.Tick }
func (e CCEvent) EventType() string { return "cc" }

func (e CCEvent) MarshalJSON() ([]byte, error) {
	type alias CCEvent
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: e.EventType(), alias: alias(e)})
}

// PitchBendEvent is a MIDI pitch-bend automation point, value in
// [-8192, 8191].
type PitchBendEvent struct {
	Tick  int `json:"tick"`
	Value int `json:"value"`
}

func (e PitchBendEvent) EventTick() int    { return e.Tick }
func (e PitchBendEvent) EventType() string { return "pitchBend" }

func (e PitchBendEvent) MarshalJSON() ([]byte, error) {
	type alias PitchBendEvent
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: e.EventType(), alias: alias(e)})
}

// unmarshalEvent decodes one Events array element into its concrete
// variant by reading its "type" discriminator first.
func unmarshalEvent(raw json.RawMessage) (Event, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}
	switch head.Type {
	case "note":
		var e NoteEvent
		err := json.Unmarshal(raw, &e)
		return e, err
	case "rest":
		var e RestEvent
		err := json.Unmarshal(raw, &e)
		return e, err
	case "cc":
		var e CCEvent
		err := json.Unmarshal(raw, &e)
		return e, err
	case "pitchBend":
		var e PitchBendEvent
		err := json.Unmarshal(raw, &e)
		return e, err
	default:
		return nil, fmt.Errorf("ir: unknown event type %q", head.Type)
	}
}

// Severity classifies a Diagnostic's impact on IR emission.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Position locates a diagnostic within source text.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// Diagnostic reports one problem found during compilation (spec.md
// §4.7/§6). ID is a per-diagnostic identifier, useful for callers that
// need to correlate a diagnostic across a rebuild or a UI list.
type Diagnostic struct {
	ID       string    `json:"id"`
	Severity Severity  `json:"severity"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	Position *Position `json:"position,omitempty"`
	FilePath string    `json:"filePath,omitempty"`
}

// NewDiagnostic stamps a fresh Diagnostic with a random ID.
func NewDiagnostic(sev Severity, code, message string, pos *Position, filePath string) Diagnostic {
	return Diagnostic{
		ID:       uuid.NewString(),
		Severity: sev,
		Code:     code,
		Message:  message,
		Position: pos,
		FilePath: filePath,
	}
}

// HasErrors reports whether any diagnostic has error severity, the
// condition under which a compile must not return an IR (spec.md
// §4.7, "A compile with any error-severity diagnostic returns no
// IR.").
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
