package apu

// Slot is a register field mirror. Known stays false until the first
// write lands, so the first write always looks like a change even when
// the value matches the zero initialization. It never goes back to
// false within one song.
type Slot struct {
	Value uint8
	Known bool
}

// Set records a written value and marks the slot known.
func (s *Slot) Set(v uint8) {
	s.Value = v
	s.Known = true
}

// Common holds the fields every channel has.
type Common struct {
	SoundLength Slot // NRx1 bits 5-0 (NR31: 7-0)
	LenEnable   Slot // NRx4 bit 6
	Panning     Slot // from NR51: bit 1 left, bit 0 right
	Trigger     bool // NRx4 bit 7, last written value
}

// Envelope holds the NRx2 volume envelope fields.
type Envelope struct {
	StartVol  Slot // bits 7-4
	Direction Slot // bit 3
	Period    Slot // bits 2-0; 0 disables the envelope
}

// Pitch holds the split 11-bit period of a melodic channel.
type Pitch struct {
	LSB Slot // NRx3 bits 7-0
	MSB Slot // NRx4 bits 2-0
}

// Value returns the combined 11-bit period.
func (p *Pitch) Value() uint16 {
	return CombinePitch(p.MSB.Value, p.LSB.Value)
}

// Square is the state shared by both pulse channels.
type Square struct {
	Common
	Envelope
	Pitch
	Duty Slot // NRx1 bits 7-6
}

// Square1 adds the sweep unit only channel 0 has.
type Square1 struct {
	Square
	SweepSpeed Slot // NR10 bits 6-4
	SweepDir   Slot // NR10 bit 3
	SweepShift Slot // NR10 bits 2-0
}

// WaveChan is the sample channel. The wavetable mirrors wave RAM as 32
// 4-bit samples, each with its own known bit.
type WaveChan struct {
	Common
	Pitch
	DACOn      Slot // NR30 bit 7
	Volume     Slot // NR32 bits 6-5: 0=mute, 1=100%, 2=50%, 3=25%
	Table      [32]Slot
	TableKnown bool
}

// NoiseChan is the noise channel. NoisePitch keeps the raw NR43 value
// with the mode bit masked out; it only takes effect on trigger.
type NoiseChan struct {
	Common
	Envelope
	Mode       Slot // NR43 bit 3: long or short LFSR
	NoisePitch Slot
}

// State mirrors every tracked field of the four channels. Zero value is
// ready to use: all slots start unknown.
type State struct {
	Square1 Square1
	Square2 Square
	Wave    WaveChan
	Noise   NoiseChan
}

// ChanCommon returns the common-field view of a channel.
func (s *State) ChanCommon(ch int) *Common {
	switch ch {
	case 0:
		return &s.Square1.Common
	case 1:
		return &s.Square2.Common
	case 2:
		return &s.Wave.Common
	case 3:
		return &s.Noise.Common
	}
	return nil
}

// ChanEnvelope returns the envelope view, or nil for the wave channel.
func (s *State) ChanEnvelope(ch int) *Envelope {
	switch ch {
	case 0:
		return &s.Square1.Envelope
	case 1:
		return &s.Square2.Envelope
	case 3:
		return &s.Noise.Envelope
	}
	return nil
}

// ChanPitch returns the melodic pitch view, or nil for the noise channel.
func (s *State) ChanPitch(ch int) *Pitch {
	switch ch {
	case 0:
		return &s.Square1.Pitch
	case 1:
		return &s.Square2.Pitch
	case 2:
		return &s.Wave.Pitch
	}
	return nil
}

// ChanSquare returns the pulse-channel view of channels 0 and 1.
func (s *State) ChanSquare(ch int) *Square {
	switch ch {
	case 0:
		return &s.Square1.Square
	case 1:
		return &s.Square2
	}
	return nil
}
