// Command segy-dump prints a human readable summary of a recorded
// session file, mainly for field verification of fresh recordings.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/subterra/gpr-client/internal/client/segy"
)

func sampleRange(samples []int16) (min int16, max int16) {
	// foreign files may declare zero samples per trace
	if len(samples) == 0 {
		return 0, 0
	}

	min, max = samples[0], samples[0]
	for _, s := range samples[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	return min, max
}

func main() {
	showText := flag.Bool("text", false, "print the full textual header")
	maxTraces := flag.Int("traces", 10, "number of trace summaries to print, -1 for all")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <file.sgy>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	f, err := segy.DecodeFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}

	if *showText {
		const cardLen = 80
		text := f.Text
		for len(text) >= cardLen {
			fmt.Println(strings.TrimRight(text[:cardLen], " "))
			text = text[cardLen:]
		}
	}

	h := f.Header
	fmt.Printf("binary header: samples=%d interval=%dus format=%d revision=%#04x fixed=%d\n",
		h.Samples, h.Interval, h.Format, uint16(h.Revision), h.FixedLen)
	fmt.Printf("traces: %d\n", len(f.Traces))

	limit := *maxTraces
	if limit < 0 || limit > len(f.Traces) {
		limit = len(f.Traces)
	}

	for _, tr := range f.Traces[:limit] {
		min, max := sampleRange(tr.Samples)
		fmt.Printf("  #%-6d x=%-11d y=%-11d samples=%d range=[%d, %d]\n",
			tr.Header.SequenceNumber, tr.Header.CdpX, tr.Header.CdpY,
			tr.Header.Samples, min, max)
	}

	if limit < len(f.Traces) {
		fmt.Printf("  ... %d more\n", len(f.Traces)-limit)
	}
}
