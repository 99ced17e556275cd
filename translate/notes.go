package translate

import (
	"github.com/Thysbelon/gbs2midi/apu"
)

// handlePitchLSB folds a new period low byte into the channel pitch.
// Nothing is emitted until the high half has been seen once.
func (tr *Translator) handlePitchLSB(value uint8, ch int, now uint64) {
	p := tr.state.ChanPitch(ch)
	if p.MSB.Known {
		cur := apu.CombinePitch(p.MSB.Value, value)
		tr.pitchBend(p.Value(), cur, ch, now)
	}
	p.LSB.Set(value)
}

// handleTrigger processes an NRx4 write: length enable, the trigger
// bit, and (melodic channels) the period high bits. A trigger starts a
// fresh note; without it a changed period is a bend on the current one.
func (tr *Translator) handleTrigger(value uint8, ch int, now uint64) {
	com := tr.state.ChanCommon(ch)
	tr.commonWrite(value, []field{
		{&com.LenEnable, 6, 6, ccLenEnable},
	}, ch, now)

	trigger := apu.Extract(value, 7, 7)
	com.Trigger = trigger == 1

	p := tr.state.ChanPitch(ch)
	var msb uint8
	var cur uint16
	if p != nil {
		msb = apu.Extract(value, 2, 0)
		cur = apu.CombinePitch(msb, p.LSB.Value)
	} else {
		cur = uint16(tr.state.Noise.NoisePitch.Value)
	}

	if trigger == 1 {
		// Sound length only runs down from a trigger. A retrigger
		// before expiry overwrites the scheduled end, so a channel
		// goes silent only when it truly reaches it.
		if com.LenEnable.Value == 1 && com.LenEnable.Known && com.SoundLength.Known {
			lenMax := uint64(64)
			if ch == 2 {
				lenMax = 256
			}
			tr.schedEnd[ch] = now + (lenMax-uint64(com.SoundLength.Value))*tr.ticksPerLen
		}

		if tr.legato[ch] {
			tr.out.InsertControl(ch, now, uint8(ch), ccLegato, 0)
			tr.legato[ch] = false
		}

		var note int
		if p != nil {
			var bend int
			note, bend = apu.NoteAndBend(cur)
			tr.out.InsertPitchBend(ch, now, uint8(ch), int16(bend))
		} else {
			note = apu.NoiseNote(uint8(cur))
		}
		tr.insertNote(uint8(note), ch, now, cur)
	} else if p != nil && p.LSB.Known {
		tr.pitchBend(p.Value(), cur, ch, now)
	}

	if p != nil {
		p.MSB.Set(msb)
	}
}

// pitchBend emits a wheel event for a changed period. When the change
// crosses into another semitone the old note ends and a new one starts
// under legato, telling the synth not to retrigger its envelope.
func (tr *Translator) pitchBend(prev, cur uint16, ch int, now uint64) {
	if cur == prev {
		return
	}
	note, bend := apu.NoteAndBend(cur)
	tr.out.InsertPitchBend(ch, now, uint8(ch), int16(bend))
	if uint8(note) != tr.playing[ch] {
		tr.insertNote(uint8(note), ch, now, prev)
		if !tr.legato[ch] {
			tr.out.InsertControl(ch, now, uint8(ch), ccLegato, 0x7F)
			tr.legato[ch] = true
		}
	}
}

// insertNote ends the sounding note and starts a new one, unless a
// later write at the same MIDI tick would immediately restate the
// channel's note. Tracker playback routines commonly rewrite both
// period halves plus the trigger in one chip frame; emitting a note per
// half would stack identical overlapping notes, so only the last
// effective writer at a timestamp gets to insert.
func (tr *Translator) insertNote(newNote uint8, ch int, now uint64, prevPitch uint16) {
	base := uint8(ch*5 + 0x10)
	for j := tr.i + 1; j < len(tr.writes); j++ {
		next := tr.writes[j]
		if tr.midiTime(next.Time) != now {
			break
		}
		if next.Address != base+3 && next.Address != base+4 {
			continue
		}
		if ch == 3 {
			// Noise pitch is a raw code lookup; any later same-tick
			// pitch or trigger write supersedes this one.
			return
		}
		var nextPitch uint16
		var nextTrigger uint8
		if next.Address == base+3 {
			nextPitch = apu.CombinePitch(uint8(prevPitch>>8)&0b111, next.Value)
		} else {
			nextPitch = apu.CombinePitch(next.Value&0b111, uint8(prevPitch&0xFF))
			nextTrigger = next.Value & 0x80
		}
		nextNote, _ := apu.NoteAndBend(nextPitch)
		if uint8(nextNote) != tr.playing[ch] || nextTrigger != 0 {
			return
		}
		break
	}

	if tr.playing[ch] != noNote {
		tr.out.InsertNoteOff(ch, now, uint8(ch), tr.playing[ch], velocity)
	}
	tr.out.InsertNoteOn(ch, now, uint8(ch), newNote, velocity)
	tr.playing[ch] = newNote
}
