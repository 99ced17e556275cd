package apu

// NoisePitches lists every NR43 value that can act as a noise pitch,
// highest register value first. Bit 3 selects the LFSR width and is
// tracked separately, so only codes with bit 3 clear appear. Lower
// codes are higher pitched, hence the descending order: the slice index
// doubles as the MIDI note number for the noise channel.
var NoisePitches = buildNoisePitches()

func buildNoisePitches() []uint8 {
	var list []uint8
	for code := 0xF7; code >= 0; code-- {
		if code&0x08 == 0 {
			list = append(list, uint8(code))
		}
	}
	return list
}

// NoiseNote returns the MIDI note assigned to a noise pitch code.
func NoiseNote(code uint8) int {
	for i, v := range NoisePitches {
		if v == code {
			return i
		}
	}
	return len(NoisePitches)
}
