// Package smfbuf buffers MIDI events keyed by absolute tick and writes
// them out as a format 1 Standard MIDI File. Callers may insert events
// at any time in any order; each track is stable-sorted by tick at
// serialization, so events sharing a tick keep their insertion order.
package smfbuf

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// NumTracks is fixed: one track per APU channel.
const NumTracks = 4

// Event is a buffered message with its absolute time in ticks.
type Event struct {
	Tick uint64
	Msg  midi.Message
}

// File accumulates events for four tracks.
type File struct {
	res    smf.MetricTicks
	tracks [NumTracks][]Event
	end    [NumTracks]uint64
}

// New creates an empty file with the given tick resolution.
func New(ppqn uint16) *File {
	return &File{res: smf.MetricTicks(ppqn)}
}

func (f *File) add(track int, tick uint64, msg midi.Message) {
	f.tracks[track] = append(f.tracks[track], Event{Tick: tick, Msg: msg})
}

// InsertNoteOn inserts a note-on at an absolute tick.
func (f *File) InsertNoteOn(track int, tick uint64, channel, key, velocity uint8) {
	f.add(track, tick, midi.NoteOn(channel, key, velocity))
}

// InsertNoteOff inserts a note-off with an explicit release velocity.
func (f *File) InsertNoteOff(track int, tick uint64, channel, key, velocity uint8) {
	f.add(track, tick, midi.NoteOffVelocity(channel, key, velocity))
}

// InsertControl inserts a control change.
func (f *File) InsertControl(track int, tick uint64, channel, controller, value uint8) {
	f.add(track, tick, midi.ControlChange(channel, controller, value))
}

// InsertPitchBend inserts a pitch-wheel event. bend is relative to
// center, -8192..8191.
func (f *File) InsertPitchBend(track int, tick uint64, channel uint8, bend int16) {
	f.add(track, tick, midi.Pitchbend(channel, bend))
}

// InsertSysEx inserts a system-exclusive event. payload excludes the
// 0xF0/0xF7 framing; the container supplies it.
func (f *File) InsertSysEx(track int, tick uint64, payload []byte) {
	f.add(track, tick, midi.SysEx(payload))
}

// SetTrackEnd pins the end-of-track marker at an absolute tick. An end
// earlier than the last event is pushed out to the last event.
func (f *File) SetTrackEnd(track int, tick uint64) {
	f.end[track] = tick
}

// TrackEnd reports the requested end of a track.
func (f *File) TrackEnd(track int) uint64 {
	return f.end[track]
}

// Events returns a track's events sorted by tick, insertion order
// preserved within a tick.
func (f *File) Events(track int) []Event {
	evs := make([]Event, len(f.tracks[track]))
	copy(evs, f.tracks[track])
	sort.SliceStable(evs, func(i, j int) bool { return evs[i].Tick < evs[j].Tick })
	return evs
}

// WriteTo serializes the file as SMF format 1.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	s := smf.New()
	s.TimeFormat = f.res
	for t := 0; t < NumTracks; t++ {
		var tr smf.Track
		var last uint64
		for _, ev := range f.Events(t) {
			tr.Add(uint32(ev.Tick-last), ev.Msg)
			last = ev.Tick
		}
		end := f.end[t]
		if end < last {
			end = last
		}
		tr.Close(uint32(end - last))
		s.Add(tr)
	}
	return s.WriteTo(w)
}

// WriteFile serializes to a file on disk.
func (f *File) WriteFile(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("smfbuf: %w", err)
	}
	if _, err := f.WriteTo(out); err != nil {
		out.Close()
		return fmt.Errorf("smfbuf: writing %s: %w", path, err)
	}
	return out.Close()
}
