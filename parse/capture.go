package parse

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// Capture plays a subsong through gbsplay's iodumper output plugin and
// collects the register writes it reports. seconds bounds the capture
// length; gbsplay must be on PATH.
func Capture(gbsFile string, subsong, seconds int) ([]RegWrite, error) {
	cmd := exec.Command("gbsplay",
		"-t", strconv.Itoa(seconds),
		"-o", "iodumper",
		"--", gbsFile,
		strconv.Itoa(subsong), strconv.Itoa(subsong))
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("parse: starting gbsplay: %w", err)
	}

	writes, parseErr := Dump(stdout)
	if err := cmd.Wait(); err != nil {
		return writes, fmt.Errorf("parse: gbsplay: %w", err)
	}
	if parseErr != nil {
		return writes, parseErr
	}
	return writes, nil
}
