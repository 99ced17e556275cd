// Package parse turns gbsplay's iodumper output into a register-write
// list. Each dump line is a cycle delta, the written address, and the
// value, all hex: "cccccccc aaaa=vv". Deltas accumulate into absolute
// times so downstream code sees a monotonic timeline.
package parse

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// RegWrite is one write to a sound register. Time counts chip cycles
// (0x400000 per second) since the start of the song. Address is the
// register's offset from 0xFF00.
type RegWrite struct {
	Time    uint64
	Address uint8
	Value   uint8
}

// Dump parses an iodumper stream. The first two lines are gbsplay's
// banner and are skipped.
func Dump(r io.Reader) ([]RegWrite, error) {
	var writes []RegWrite
	var cyclesPassed uint64

	sc := bufio.NewScanner(r)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		if lineNum <= 2 {
			continue
		}
		line := sc.Text()
		if len(line) < 16 {
			return writes, fmt.Errorf("parse: line %d too short: %q", lineNum, line)
		}
		cycleDiff, err := strconv.ParseUint(line[0:8], 16, 32)
		if err != nil {
			return writes, fmt.Errorf("parse: line %d: bad cycle count: %w", lineNum, err)
		}
		address, err := strconv.ParseUint(line[9:13], 16, 16)
		if err != nil {
			return writes, fmt.Errorf("parse: line %d: bad address: %w", lineNum, err)
		}
		value, err := strconv.ParseUint(line[14:16], 16, 8)
		if err != nil {
			return writes, fmt.Errorf("parse: line %d: bad value: %w", lineNum, err)
		}

		cyclesPassed += cycleDiff
		writes = append(writes, RegWrite{
			Time:    cyclesPassed,
			Address: uint8(address & 0xFF),
			Value:   uint8(value),
		})
	}
	if err := sc.Err(); err != nil {
		return writes, fmt.Errorf("parse: reading dump: %w", err)
	}
	return writes, nil
}
