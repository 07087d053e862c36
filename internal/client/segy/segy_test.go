package segy

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/encoding/charmap"

	"github.com/subterra/gpr-client/internal/client/trace"
)

func sessionTraces() []trace.Trace {
	return []trace.Trace{
		{Samples: []int16{-32768, -1, 0, 1, 32767}, SequenceIndex: 1, X: 0, Y: 0},
		{Samples: []int16{5, 4, 3, 2, 1}, SequenceIndex: 2, X: 100000, Y: -100000},
		{Samples: []int16{10, 20, 30, 40, 50}, SequenceIndex: 3, X: 32767, Y: -32768},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Encode(sessionTraces(), &buf))

	// Fixed regions plus three records of 240+2*5 bytes
	assert.Equal(t, TextHeaderLen+BinaryHeaderLen+3*(TraceHeaderLen+10), buf.Len())

	f, err := Decode(&buf)
	assert.NoError(t, err)

	assert.Equal(t, int32(1), f.Header.JobID)
	assert.Equal(t, int16(5), f.Header.Samples)
	assert.Equal(t, int16(SampleIntervalUs), f.Header.Interval)
	assert.Equal(t, int16(SampleFormatInt16), f.Header.Format)
	assert.Equal(t, int16(0x0100), f.Header.Revision)
	assert.Equal(t, int16(1), f.Header.FixedLen)

	assert.Len(t, f.Traces, 3)
	for i, tr := range f.Traces {
		assert.Equal(t, int32(i+1), tr.Header.SequenceNumber)
		assert.Equal(t, int32(i+1), tr.Header.TraceNumber)
		assert.Equal(t, int32(1), tr.Header.FieldRecord)
		assert.Equal(t, int16(5), tr.Header.Samples)
		assert.Equal(t, sessionTraces()[i].Samples, tr.Samples)
	}
}

func TestTextualHeaderIsEbcdic(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Encode(sessionTraces(), &buf))

	raw := buf.Bytes()[:TextHeaderLen]

	// The first card must be the EBCDIC rendition of its ASCII template
	expected, err := charmap.CodePage037.NewEncoder().Bytes([]byte("C 1 CLIENT: SUBTERRA FIELD SURVEY"))
	assert.NoError(t, err)
	assert.Equal(t, expected, raw[:len(expected)])

	// And it must not accidentally be plain ASCII
	assert.NotEqual(t, byte('C'), raw[0])

	f, err := Decode(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	assert.Contains(t, f.Text, "TRACES: 3")
	assert.Contains(t, f.Text, "SAMPLES PER TRACE: 5")
}

func TestCoordinateClamping(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Encode(sessionTraces(), &buf))

	f, err := Decode(&buf)
	assert.NoError(t, err)

	// 100000 reduced by divisor ceil(100000/32767)=4, sign preserved
	assert.Equal(t, int32(25000), f.Traces[1].Header.CdpX)
	assert.Equal(t, int32(-25000), f.Traces[1].Header.CdpY)

	// Boundary values pass through untouched
	assert.Equal(t, int32(32767), f.Traces[2].Header.CdpX)

	// -32768 exceeds the positive limit by one, so it gets halved
	assert.Equal(t, int32(-16384), f.Traces[2].Header.CdpY)
}

func TestClampCoordinateProperties(t *testing.T) {
	values := []int64{
		0, 1, -1, 100, 32767, -32767, 32768, -32768,
		100000, -100000, 1e9, -1e9,
		math.MaxInt64, math.MinInt64,
	}
	for _, v := range values {
		c := ClampCoordinate(v)

		assert.LessOrEqual(t, c, int32(32767), "value %d", v)
		assert.GreaterOrEqual(t, c, int32(-32767), "value %d", v)

		switch {
		case v > 0:
			assert.Positive(t, c, "value %d", v)
		case v < 0:
			assert.Negative(t, c, "value %d", v)
		default:
			assert.Zero(t, c)
		}
	}
}

// countingWriter records how many bytes were handed to it.
type countingWriter struct {
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += len(p)
	return len(p), nil
}

func TestEncodeRejectsEmptyTraceSet(t *testing.T) {
	w := &countingWriter{}
	err := Encode(nil, w)

	assert.ErrorIs(t, err, &Error{})
	assert.Zero(t, w.n)
}

func TestEncodeRejectsSampleCountMismatch(t *testing.T) {
	traces := []trace.Trace{
		{Samples: []int16{1, 2, 3, 4, 5}},
		{Samples: []int16{1, 2, 3, 4, 5, 6}},
	}

	w := &countingWriter{}
	err := Encode(traces, w)

	assert.ErrorIs(t, err, &Error{})
	assert.Contains(t, err.Error(), "established 5")

	// Nothing may reach the sink before validation passes
	assert.Zero(t, w.n)
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpr_output_test.sgy")

	assert.NoError(t, WriteFile(sessionTraces(), path))

	f, err := DecodeFile(path)
	assert.NoError(t, err)
	assert.Len(t, f.Traces, 3)
}

func TestWriteFileLeavesNoFileOnStructuralError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpr_output_bad.sgy")

	err := WriteFile([]trace.Trace{{Samples: []int16{1}}, {Samples: []int16{1, 2}}}, path)
	assert.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestTextualHeaderShape(t *testing.T) {
	hdr, err := textualHeader(512, 1234)
	assert.NoError(t, err)
	assert.Len(t, hdr, TextHeaderLen)

	decoded, err := charmap.CodePage037.NewDecoder().Bytes(hdr)
	assert.NoError(t, err)

	// 40 cards of 80 columns each, no separators
	assert.Len(t, decoded, TextHeaderLen)
	assert.True(t, strings.HasPrefix(string(decoded[3120:]), "C40"))
}
