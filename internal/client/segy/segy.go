// Package segy writes one recording session as a SEG-Y revision 1
// file: a 3200 byte EBCDIC textual header, a 400 byte binary header
// and one fixed-layout header plus sample-data record per trace.
// The decoding half in reader.go parses the same layout back and
// backs the segy-dump tool and the round-trip tests.
package segy

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/subterra/gpr-client/internal/client/trace"
)

const (
	TextHeaderLen   = 3200
	BinaryHeaderLen = 400
	TraceHeaderLen  = 240

	// Format code 3 = two's complement 16-bit integer samples
	SampleFormatInt16 = 3

	// Nominal sample interval in microseconds, the consuming tools
	// reject a zero interval
	SampleIntervalUs = 1
)

// Error reports a structural precondition violation or a failed write.
type Error struct {
	msg string
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Is(err error) bool {
	_, ok := err.(*Error)
	return ok
}

func newError(format string, args ...any) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// validate checks the preconditions that must hold before a single
// byte is written: a non-empty trace set with one shared sample count.
func validate(traces []trace.Trace) (int, error) {
	if len(traces) == 0 {
		return 0, newError("no traces to encode")
	}

	numSamples := len(traces[0].Samples)
	if numSamples == 0 {
		return 0, newError("first trace carries no samples")
	}

	for i, t := range traces {
		if len(t.Samples) != numSamples {
			return 0, newError("trace %d has %d samples, session established %d",
				i, len(t.Samples), numSamples)
		}
	}

	return numSamples, nil
}

// Encode writes the full SEG-Y stream for the given traces. Structural
// preconditions are checked before anything is written to w.
func Encode(traces []trace.Trace, w io.Writer) error {
	numSamples, err := validate(traces)
	if err != nil {
		return err
	}

	text, err := textualHeader(numSamples, len(traces))
	if err != nil {
		return err
	}

	if _, err = w.Write(text); err != nil {
		return newError("textual header write failed: %v", err)
	}

	if _, err = w.Write(binaryHeader(numSamples)); err != nil {
		return newError("binary header write failed: %v", err)
	}

	for i, t := range traces {
		if _, err = w.Write(traceRecord(i, t)); err != nil {
			return newError("trace %d write failed: %v", i, err)
		}
	}

	return nil
}

// WriteFile encodes the traces into the given path. On any failure the
// destination is removed, a partial file never survives.
func WriteFile(traces []trace.Trace, path string) error {
	// Catch structural errors before touching the filesystem
	if _, err := validate(traces); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return newError("cannot open destination %s: %v", path, err)
	}

	bw := bufio.NewWriter(f)
	err = Encode(traces, bw)
	if err == nil {
		err = bw.Flush()
	}
	if err == nil {
		err = f.Close()
	}

	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}

	return nil
}
