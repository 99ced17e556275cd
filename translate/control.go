package translate

import (
	"fmt"
	"math"
	"os"

	"github.com/Thysbelon/gbs2midi/apu"
)

// field binds one bit range of a register to its state slot and the
// controller that mirrors it.
type field struct {
	slot   *apu.Slot
	hi, lo uint8
	cc     uint8
}

// commonWrite extracts each field from a written value, emits a control
// change when the field moved or was never seen, and records the new
// value. CC values scale the raw field onto 0..127.
func (tr *Translator) commonWrite(value uint8, fields []field, ch int, now uint64) {
	for _, f := range fields {
		raw := apu.Extract(value, f.hi, f.lo)
		if raw != f.slot.Value || !f.slot.Known {
			tr.out.InsertControl(ch, now, uint8(ch), f.cc, ccScale(raw, apu.MaxOf(f.hi, f.lo)))
		}
		f.slot.Set(raw)
	}
}

func ccScale(v, max uint8) uint8 {
	return uint8(math.Round(127 * float64(v) / float64(max)))
}

// handlePanning fans one NR51 write out to all four channels. Each
// channel gets a two-bit value: bit 1 left enable, bit 0 right enable.
// A fully disabled channel is expressed as pan-mute rather than pan
// position, and unmuting re-emits the mute controller first.
func (tr *Translator) handlePanning(value uint8, now uint64) {
	for ch := 0; ch < 4; ch++ {
		pan := &tr.state.ChanCommon(ch).Panning
		p := ((value >> (3 + ch)) & 0b10) | ((value >> ch) & 0b01)
		if p != pan.Value || !pan.Known {
			if p == 0 {
				tr.out.InsertControl(ch, now, uint8(ch), ccPanMute, 0x7F)
			} else {
				if pan.Value == 0 || !pan.Known {
					tr.out.InsertControl(ch, now, uint8(ch), ccPanMute, 0)
				}
				var pos uint8
				switch p {
				case 0b01:
					pos = 0x7F
				case 0b10:
					pos = 0
				case 0b11:
					pos = 64
				}
				tr.out.InsertControl(ch, now, uint8(ch), ccPan, pos)
			}
		}
		pan.Set(p)
	}
}

// handleWaveVolume maps the wave channel's four volume steps onto CC7.
func (tr *Translator) handleWaveVolume(value uint8, now uint64) {
	vol := &tr.state.Wave.Volume
	cur := apu.Extract(value, 6, 5)
	if cur != vol.Value || !vol.Known {
		var midiVol uint8
		switch cur {
		case 0:
			midiVol = 0
		case 1:
			midiVol = 127
		case 2:
			midiVol = 64
		case 3:
			midiVol = 32
		}
		tr.out.InsertControl(2, now, 2, ccVolume, midiVol)
	}
	vol.Set(cur)
}

// handleWaveDAC watches NR30 bit 7. Songs rewrite wave RAM while the
// DAC is off and flip it back on to switch timbres, so a 0-to-1 edge is
// the moment the staged wavetable becomes audible: snapshot it into the
// uniqueness list and announce its index when it changed.
func (tr *Translator) handleWaveDAC(value uint8, now uint64) {
	dac := apu.Extract(value, 7, 7)
	if tr.state.Wave.DACOn.Value == 0 && dac == 1 {
		idx := tr.internWavetable(tr.state.Wave.Table)
		if idx != tr.lastWave {
			tr.out.InsertControl(2, now, 2, ccWaveIndex, idx)
			tr.lastWave = idx
		}
	}
	tr.state.Wave.DACOn.Set(dac)
}

// internWavetable returns the table's index in the uniqueness list,
// appending it when unseen.
func (tr *Translator) internWavetable(table [32]apu.Slot) uint8 {
	for i, w := range tr.waves {
		if w == table {
			return uint8(i)
		}
	}
	tr.waves = append(tr.waves, table)
	return uint8(len(tr.waves) - 1)
}

// handleWaveRAM stages a wave RAM byte as two 4-bit samples. Writes
// while the DAC is on are ignored; hardware would serve them from the
// currently playing sample anyway, and the staged table must describe
// what the next DAC enable will latch.
func (tr *Translator) handleWaveRAM(addr, value uint8) {
	if tr.state.Wave.DACOn.Value != 0 {
		return
	}
	base := int(addr-apu.WaveRAMStart) * 2
	tr.state.Wave.Table[base].Set(value >> 4)
	tr.state.Wave.Table[base+1].Set(value & 0x0F)
	tr.state.Wave.TableKnown = true
}

// writeWavetables packs every distinct wavetable into one SysEx header
// at tick 0 on the wave track. Each 4-bit sample stays in its own byte
// so no payload byte can collide with the 0xF7 terminator.
func (tr *Translator) writeWavetables() {
	payload := make([]byte, 32*len(tr.waves))
	for wi, table := range tr.waves {
		for i, s := range table {
			pos := wi*32 + i
			if pos >= len(payload) {
				fmt.Fprintf(os.Stderr, "translate: wavetable sysex overflow: %d >= %d\n", pos, len(payload))
				continue
			}
			payload[pos] = s.Value & 0x0F
		}
	}
	tr.out.InsertSysEx(2, 0, payload)
}
