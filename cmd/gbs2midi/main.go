package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Thysbelon/gbs2midi/parse"
	"github.com/Thysbelon/gbs2midi/translate"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: gbs2midi [-t seconds] [-ppqn n] file.gbs subsongNumber outfile.mid")
	os.Exit(1)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "gbs2midi: %v\n", err)
	os.Exit(1)
}

func main() {
	seconds := flag.Int("t", 150, "seconds of the subsong to capture")
	ppqn := flag.Int("ppqn", translate.DefaultPPQN, "MIDI ticks per quarter note")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) != 3 {
		usage()
	}
	gbsFile, outFile := args[0], args[2]
	subsong, err := strconv.Atoi(args[1])
	if err != nil {
		usage()
	}
	if !strings.HasSuffix(outFile, ".mid") {
		fmt.Fprintln(os.Stderr, "Valid output file extensions are .mid")
		os.Exit(1)
	}
	if *ppqn < 1 || *ppqn > 0x7FFF {
		fmt.Fprintln(os.Stderr, "ppqn must be between 1 and 32767")
		os.Exit(1)
	}

	start := time.Now()
	writes, err := parse.Capture(gbsFile, subsong, *seconds)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Captured %d register writes in %v\n", len(writes), time.Since(start))

	start = time.Now()
	out := translate.Translate(writes, translate.Config{PPQN: uint16(*ppqn)})
	fmt.Printf("Translated in %v\n", time.Since(start))

	if err := out.WriteFile(outFile); err != nil {
		fatal(err)
	}
	fmt.Printf("Wrote: %s\n", outFile)
}
