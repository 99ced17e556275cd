package apu

import "sort"

// gbPitchTable maps MIDI notes to the 11-bit period values the melodic
// channels use, starting at C2 (MIDI note 36). One entry per semitone,
// C2 through B7. Derived from the standard frequency-to-period table at
// https://www.devrs.com/gb/files/sndtab.html.
var gbPitchTable = [72]uint16{
	44, 156, 262, 363, 457, 547, 631, 710, 786, 854, 923, 986,
	1046, 1102, 1155, 1205, 1253, 1297, 1339, 1379, 1417, 1452, 1486, 1517,
	1546, 1575, 1602, 1627, 1650, 1673, 1694, 1714, 1732, 1750, 1767, 1783,
	1798, 1812, 1825, 1837, 1849, 1860, 1871, 1881, 1890, 1899, 1907, 1915,
	1923, 1930, 1936, 1943, 1949, 1954, 1959, 1964, 1969, 1974, 1978, 1982,
	1985, 1988, 1992, 1995, 1998, 2001, 2004, 2006, 2009, 2011, 2013, 2015,
}

// NoteC2 is the MIDI note number of the first table entry.
const NoteC2 = 36

// BendRange is the pitch-wheel excursion that equals one semitone.
const BendRange = 0x1000

// closestUpper returns the index of the smallest table entry >= pitch,
// or len(gbPitchTable) when pitch lies above the whole table.
func closestUpper(pitch uint16) int {
	return sort.Search(len(gbPitchTable), func(i int) bool {
		return gbPitchTable[i] >= pitch
	})
}

// CombinePitch joins the two halves of an 11-bit channel period.
func CombinePitch(msb, lsb uint8) uint16 {
	return uint16(lsb) | uint16(msb)<<8
}

// NoteAndBend converts a channel period to the nearest MIDI note plus a
// pitch-wheel offset covering the distance to the exact chip pitch. The
// offset is signed, BendRange per semitone, and lands on whichever
// neighbouring note is closer. Pitches above the top of the table clamp
// to the highest note with no bend; pitches below the bottom clamp to
// the lowest note with no bend.
func NoteAndBend(pitch uint16) (note, bend int) {
	i := closestUpper(pitch)
	if i == len(gbPitchTable) {
		return NoteC2 + len(gbPitchTable) - 1, 0
	}
	note = NoteC2 + i
	diff := int(pitch) - int(gbPitchTable[i])
	if diff == 0 || i == 0 {
		return note, 0
	}
	span := int(gbPitchTable[i] - gbPitchTable[i-1])
	alter := int(float64(BendRange) * (float64(-diff) / float64(span)))
	if alter > BendRange/2 {
		note--
		bend = BendRange - alter
	} else {
		bend = -alter
	}
	return note, bend
}
