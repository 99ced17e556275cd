// Package translate converts a Game Boy APU register-write stream into
// MIDI events on four tracks, one per channel. It keeps a mirror of the
// chip's channel state, emits control changes when tracked fields move,
// and turns channel triggers and pitch writes into notes and bends.
package translate

import (
	"math"

	"github.com/Thysbelon/gbs2midi/apu"
	"github.com/Thysbelon/gbs2midi/parse"
	"github.com/Thysbelon/gbs2midi/smfbuf"
)

const (
	// DefaultClockHz is the Game Boy master clock, cycles per second.
	DefaultClockHz = 0x400000
	// DefaultPPQN is deliberately high so the result is easy to edit.
	DefaultPPQN = 0x7FFF

	midiBPM         = 120
	secondsPerMin   = 60
	soundLenTicksHz = 256 // the chip's length counter rate

	noNote   = 0xFF
	noWave   = 0xFF
	velocity = 0x7F
)

// MIDI controller numbers the companion synth understands.
const (
	ccVolume     = 7  // envelope start volume / wave volume
	ccPanMute    = 9  // 0x7F = channel muted on both sides
	ccPan        = 10 // 0 left, 64 center, 127 right
	ccEnvDir     = 12
	ccEnvPeriod  = 13
	ccLenEnable  = 14
	ccSoundLen   = 15
	ccSweepSpeed = 16
	ccSweepShift = 17
	ccSweepDir   = 18
	ccDuty       = 19
	ccNoiseMode  = 20
	ccWaveIndex  = 21
	ccLegato     = 68
)

// Config adjusts the translation. Zero fields take defaults.
type Config struct {
	ClockHz uint32 // source time units per second
	PPQN    uint16 // MIDI ticks per quarter note
}

// Translator owns all state for one song's translation.
type Translator struct {
	writes []parse.RegWrite
	i      int // cursor into writes, for the same-tick lookahead

	clockHz     uint32
	ticksPerSec uint64
	ticksPerLen uint64 // MIDI ticks per sound-length counter tick

	state    apu.State
	playing  [4]uint8 // current MIDI note per channel, noNote when silent
	legato   [4]bool
	schedEnd [4]uint64 // tick when sound length silences the channel

	waves       [][32]apu.Slot // distinct wavetables, first-seen order
	lastWave    uint8
	ticksPassed uint64

	out *smfbuf.File
}

// Translate runs the whole write list through the engine and returns
// the finished event buffer. It never fails on well-formed input;
// out-of-range fields are clamped and translation continues.
func Translate(writes []parse.RegWrite, cfg Config) *smfbuf.File {
	if cfg.ClockHz == 0 {
		cfg.ClockHz = DefaultClockHz
	}
	if cfg.PPQN == 0 {
		cfg.PPQN = DefaultPPQN
	}

	tr := &Translator{
		writes:      writes,
		clockHz:     cfg.ClockHz,
		ticksPerSec: uint64(cfg.PPQN) * midiBPM / secondsPerMin,
		playing:     [4]uint8{noNote, noNote, noNote, noNote},
		lastWave:    noWave,
		out:         smfbuf.New(cfg.PPQN),
	}
	tr.ticksPerLen = uint64(math.Round(float64(tr.ticksPerSec) / soundLenTicksHz))

	for i := range writes {
		tr.i = i
		tr.dispatch(writes[i])
	}
	tr.finish()
	return tr.out
}

// midiTime converts a chip timestamp to MIDI ticks, through seconds.
func (tr *Translator) midiTime(chipTime uint64) uint64 {
	seconds := float64(chipTime) / float64(tr.clockHz)
	return uint64(math.Round(seconds * float64(tr.ticksPerSec)))
}

// retireExpired ends notes whose sound length ran out. The check runs
// at register-write granularity, so the note-off lands on the next
// write's timestamp rather than the exact expiry tick.
func (tr *Translator) retireExpired(now uint64) {
	for ch := 0; ch < 4; ch++ {
		if tr.schedEnd[ch] <= now && tr.state.ChanCommon(ch).LenEnable.Value == 1 && tr.playing[ch] != noNote {
			tr.out.InsertNoteOff(ch, now, uint8(ch), tr.playing[ch], velocity)
			tr.playing[ch] = noNote
		}
	}
}

func (tr *Translator) dispatch(w parse.RegWrite) {
	now := tr.midiTime(w.Time)
	tr.retireExpired(now)

	st := &tr.state
	switch w.Address {
	case apu.NR10:
		tr.commonWrite(w.Value, []field{
			{&st.Square1.SweepSpeed, 6, 4, ccSweepSpeed},
			{&st.Square1.SweepDir, 3, 3, ccSweepDir},
			{&st.Square1.SweepShift, 2, 0, ccSweepShift},
		}, 0, now)
	case apu.NR11, apu.NR21:
		ch := channelOf(w.Address)
		sq := st.ChanSquare(ch)
		tr.commonWrite(w.Value, []field{
			{&sq.Duty, 7, 6, ccDuty},
			{&sq.SoundLength, 5, 0, ccSoundLen},
		}, ch, now)
	case apu.NR12, apu.NR22, apu.NR42:
		ch := channelOf(w.Address)
		env := st.ChanEnvelope(ch)
		tr.commonWrite(w.Value, []field{
			{&env.StartVol, 7, 4, ccVolume},
			{&env.Direction, 3, 3, ccEnvDir},
			{&env.Period, 2, 0, ccEnvPeriod},
		}, ch, now)
	case apu.NR13, apu.NR23, apu.NR33:
		tr.handlePitchLSB(w.Value, channelOf(w.Address), now)
	case apu.NR14, apu.NR24, apu.NR34, apu.NR44:
		tr.handleTrigger(w.Value, channelOf(w.Address), now)
	case apu.NR30:
		tr.handleWaveDAC(w.Value, now)
	case apu.NR31:
		tr.commonWrite(w.Value, []field{
			{&st.Wave.SoundLength, 7, 0, ccSoundLen},
		}, 2, now)
	case apu.NR32:
		tr.handleWaveVolume(w.Value, now)
	case apu.NR41:
		tr.commonWrite(w.Value, []field{
			{&st.Noise.SoundLength, 5, 0, ccSoundLen},
		}, 3, now)
	case apu.NR43:
		tr.commonWrite(w.Value, []field{
			{&st.Noise.Mode, 3, 3, ccNoiseMode},
		}, 3, now)
		// The pitch part only takes effect on trigger; just record it.
		st.Noise.NoisePitch.Set(w.Value & 0xF7)
	case apu.NR51:
		tr.handlePanning(w.Value, now)
	default:
		if w.Address >= apu.WaveRAMStart && w.Address <= apu.WaveRAMEnd {
			tr.handleWaveRAM(w.Address, w.Value)
		}
	}

	if now > tr.ticksPassed {
		tr.ticksPassed = now
	}
}

// finish retires any still-sounding notes, attaches the wavetable
// SysEx header, and pins all four track ends to the time of the last
// register write.
func (tr *Translator) finish() {
	for ch := 0; ch < 4; ch++ {
		if tr.playing[ch] != noNote {
			tr.out.InsertNoteOff(ch, tr.ticksPassed, uint8(ch), tr.playing[ch], velocity)
			tr.playing[ch] = noNote
		}
	}
	tr.writeWavetables()
	for t := 0; t < smfbuf.NumTracks; t++ {
		tr.out.SetTrackEnd(t, tr.ticksPassed)
	}
}

// channelOf maps a register offset to its channel: the channel registers
// sit in blocks of five starting at 0x10.
func channelOf(addr uint8) int {
	return int(addr-0x10) / 5
}
