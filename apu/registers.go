package apu

// Sound register offsets relative to 0xFF00. Register writes carry the
// low address byte only; 0xFF10+n in Game Boy memory is n here.
const (
	NR10 = 0x10 // square 1 sweep
	NR11 = 0x11 // square 1 duty / sound length
	NR12 = 0x12 // square 1 envelope
	NR13 = 0x13 // square 1 pitch LSB
	NR14 = 0x14 // square 1 trigger / length enable / pitch MSB

	NR21 = 0x16 // square 2 duty / sound length
	NR22 = 0x17 // square 2 envelope
	NR23 = 0x18 // square 2 pitch LSB
	NR24 = 0x19 // square 2 trigger / length enable / pitch MSB

	NR30 = 0x1A // wave DAC on/off
	NR31 = 0x1B // wave sound length
	NR32 = 0x1C // wave volume
	NR33 = 0x1D // wave pitch LSB
	NR34 = 0x1E // wave trigger / length enable / pitch MSB

	NR41 = 0x20 // noise sound length
	NR42 = 0x21 // noise envelope
	NR43 = 0x22 // noise mode / pitch
	NR44 = 0x23 // noise trigger / length enable

	NR51 = 0x25 // panning for all four channels

	WaveRAMStart = 0x30
	WaveRAMEnd   = 0x3F
)
