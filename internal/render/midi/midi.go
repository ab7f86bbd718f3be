// Package midi renders a Score IR into a preview Standard MIDI File.
// This is a downstream collaborator of the front-end compiler, not
// part of the core pipeline (spec.md §1 lists renderer plugins as
// external); it exists to give the CLI's `-render-midi` flag
// something real to drive. Adapted from gm_export.go's
// GeneralMidiExporter: event accumulation per track, sorted and
// delta-encoded on write, note-off-before-note-on ordering at equal
// ticks.
package midi

import (
	"fmt"
	"io"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/leafo/mfc/internal/gm"
	"github.com/leafo/mfc/internal/ir"
)

type timedEvent struct {
	tick    uint32
	message smf.Message
	isOff   bool
}

// Render writes score as a type-1 Standard MIDI File to w. Vocal
// tracks are rendered as plain note tracks (no vocaloid-specific meta
// events); lyrics are attached as MetaLyric events for inspection in a
// DAW piano roll.
func Render(score *ir.Score, w io.Writer) error {
	if score == nil {
		return fmt.Errorf("midi: cannot render a nil score")
	}
	file := smf.NewSMF1()
	file.TimeFormat = smf.MetricTicks(score.PPQ)
	file.Add(buildTempoTrack(score))

	for i, track := range score.Tracks {
		file.Add(buildTrack(track, i))
	}

	_, err := file.WriteTo(w)
	if err != nil {
		return fmt.Errorf("midi: write failed: %w", err)
	}
	return nil
}

func buildTempoTrack(score *ir.Score) smf.Track {
	events := make([]struct {
		tick uint32
		msg  smf.Message
	}, 0, len(score.Tempos)+len(score.TimeSigs))

	for _, t := range score.Tempos {
		events = append(events, struct {
			tick uint32
			msg  smf.Message
		}{uint32(t.Tick), smf.Message(smf.MetaTempo(t.BPM))})
	}
	for _, ts := range score.TimeSigs {
		events = append(events, struct {
			tick uint32
			msg  smf.Message
		}{uint32(ts.Tick), smf.Message(smf.MetaTimeSig(uint8(ts.Numerator), uint8(ts.Denominator), 24, 8))})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].tick < events[j].tick })

	track := smf.Track{}
	var last uint32
	for _, e := range events {
		track = append(track, smf.Event{Delta: e.tick - last, Message: e.msg})
		last = e.tick
	}
	track = append(track, smf.Event{Delta: 0, Message: smf.EOT})
	return track
}

func buildTrack(t *ir.Track, index int) smf.Track {
	track := smf.Track{}
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTrackSequenceName(t.Name))})

	channel := uint8(t.Channel)
	program := uint8(t.Program)
	isDrums := t.Kind == ir.KindMIDI && channel == gm.DrumChannel
	if t.Kind == ir.KindMIDI && !isDrums {
		track = append(track, smf.Event{Delta: 0, Message: smf.Message(gomidi.ProgramChange(channel, program))})
	}

	var timed []timedEvent
	for _, ev := range t.Events {
		switch e := ev.(type) {
		case ir.NoteEvent:
			if e.Lyric != "" {
				timed = append(timed, timedEvent{tick: uint32(e.Tick), message: smf.Message(smf.MetaLyric(e.Lyric))})
			}
			vel := uint8(e.Vel)
			if vel == 0 {
				vel = 96
			}
			timed = append(timed, timedEvent{tick: uint32(e.Tick), message: smf.Message(gomidi.NoteOn(channel, uint8(e.Key), vel))})
			timed = append(timed, timedEvent{tick: uint32(e.Tick + e.Dur), message: smf.Message(gomidi.NoteOff(channel, uint8(e.Key))), isOff: true})
		case ir.RestEvent:
			// silence: no MIDI message.
		case ir.CCEvent:
			timed = append(timed, timedEvent{tick: uint32(e.Tick), message: smf.Message(gomidi.ControlChange(channel, uint8(e.Controller), uint8(e.Value)))})
		case ir.PitchBendEvent:
			timed = append(timed, timedEvent{tick: uint32(e.Tick), message: smf.Message(gomidi.Pitchbend(channel, int16(e.Value)))})
		}
	}

	sort.SliceStable(timed, func(i, j int) bool {
		if timed[i].tick != timed[j].tick {
			return timed[i].tick < timed[j].tick
		}
		return timed[i].isOff && !timed[j].isOff
	})

	var last uint32
	for _, e := range timed {
		track = append(track, smf.Event{Delta: e.tick - last, Message: e.message})
		last = e.tick
	}
	track = append(track, smf.Event{Delta: 0, Message: smf.EOT})
	return track
}
