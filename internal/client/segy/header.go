package segy

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/subterra/gpr-client/internal/client/trace"
)

// Field offsets inside the 400 byte binary header, SEG-Y rev 1
const (
	binJobID         = 0   // int32
	binLineNumber    = 4   // int32
	binReelNumber    = 8   // int32
	binInterval      = 16  // int16, microseconds
	binIntervalOrig  = 18  // int16
	binSamples       = 20  // int16
	binSamplesOrig   = 22  // int16
	binFormat        = 24  // int16
	binRevision      = 300 // int16, 0x0100 = revision 1
	binFixedLenFlag  = 302 // int16, 1 = all traces share one length
	binExtendedHdrs  = 304 // int16
)

// Field offsets inside the 240 byte trace header
const (
	trcSequenceLine = 0   // int32
	trcSequenceFile = 4   // int32
	trcFieldRecord  = 8   // int32
	trcTraceNumber  = 12  // int32
	trcIDCode       = 28  // int16, 1 = seismic data
	trcSourceX      = 72  // int32
	trcSourceY      = 76  // int32
	trcSamples      = 114 // int16
	trcInterval     = 116 // int16
	trcCdpX         = 180 // int32
	trcCdpY         = 184 // int32
)

const textHeaderCards = 40
const textHeaderCols = 80

// ebcdicEncoder transcodes the composed ASCII template into the
// EBCDIC code page the SEG-Y textual header requires. Anything outside
// the code page repertoire is substituted, the transcoding is one-way.
var ebcdicEncoder = encoding.ReplaceUnsupported(charmap.CodePage037.NewEncoder())

// textualHeader renders the 40x80 card template and transcodes it.
// The result is always exactly 3200 bytes.
func textualHeader(numSamples, numTraces int) ([]byte, error) {
	cards := []string{
		"C 1 CLIENT: SUBTERRA FIELD SURVEY",
		"C 2 DATA: GROUND PENETRATING RADAR B-SCAN",
		fmt.Sprintf("C 3 TRACES: %d", numTraces),
		fmt.Sprintf("C 4 SAMPLES PER TRACE: %d", numSamples),
		fmt.Sprintf("C 5 SAMPLE INTERVAL: %d MICROSECONDS", SampleIntervalUs),
		"C 6 SAMPLE FORMAT: 16-BIT TWOS COMPLEMENT INTEGER (CODE 3)",
		"C 7 COORDINATES: CDP X/Y CARRY CLAMPED CAPTURE POSITION",
	}

	var b strings.Builder
	b.Grow(TextHeaderLen)

	for i := 0; i < textHeaderCards; i++ {
		var card string
		if i < len(cards) {
			card = cards[i]
		} else if i == textHeaderCards-1 {
			card = "C40 SEG Y REV1 END TEXTUAL HEADER"
		} else {
			card = fmt.Sprintf("C%2d", i+1)
		}

		if len(card) > textHeaderCols {
			card = card[:textHeaderCols]
		}
		b.WriteString(card)
		b.WriteString(strings.Repeat(" ", textHeaderCols-len(card)))
	}

	encoded, err := ebcdicEncoder.Bytes([]byte(b.String()))
	if err != nil {
		return nil, newError("textual header transcoding failed: %v", err)
	}

	if len(encoded) != TextHeaderLen {
		return nil, newError("textual header is %d bytes, want %d", len(encoded), TextHeaderLen)
	}

	return encoded, nil
}

// binaryHeader fills the fixed-layout 400 byte header. The geometry
// fields (inline/crossline counts) stay zeroed on purpose: large
// sessions would overflow their signed 16-bit capacity.
func binaryHeader(numSamples int) []byte {
	h := make([]byte, BinaryHeaderLen)

	binary.BigEndian.PutUint32(h[binJobID:], 1)
	binary.BigEndian.PutUint32(h[binLineNumber:], 1)
	binary.BigEndian.PutUint32(h[binReelNumber:], 1)
	binary.BigEndian.PutUint16(h[binInterval:], SampleIntervalUs)
	binary.BigEndian.PutUint16(h[binIntervalOrig:], SampleIntervalUs)
	binary.BigEndian.PutUint16(h[binSamples:], uint16(numSamples))
	binary.BigEndian.PutUint16(h[binSamplesOrig:], uint16(numSamples))
	binary.BigEndian.PutUint16(h[binFormat:], SampleFormatInt16)
	binary.BigEndian.PutUint16(h[binRevision:], 0x0100)
	binary.BigEndian.PutUint16(h[binFixedLenFlag:], 1)
	binary.BigEndian.PutUint16(h[binExtendedHdrs:], 0)

	return h
}

// ClampCoordinate brings a raw capture coordinate into the signed
// 16-bit range by dividing it with the smallest divisor that fits,
// keeping the sign and reducing the magnitude proportionally instead
// of saturating at the boundary.
func ClampCoordinate(v int64) int32 {
	const limit = 32767

	mag := v
	if mag < 0 {
		mag = -mag
	}
	if mag < 0 {
		// negating math.MinInt64 overflows, its magnitude is one past MaxInt64
		mag = math.MaxInt64
	}

	divisor := mag / limit
	if mag%limit != 0 {
		divisor++
	}
	if divisor < 1 {
		divisor = 1
	}

	return int32(v / divisor)
}

// traceRecord renders one 240 byte trace header followed by the
// big-endian sample payload. i is the zero-based position in the
// encoded batch.
func traceRecord(i int, t trace.Trace) []byte {
	rec := make([]byte, TraceHeaderLen+2*len(t.Samples))

	x := ClampCoordinate(t.X)
	y := ClampCoordinate(t.Y)

	binary.BigEndian.PutUint32(rec[trcSequenceLine:], uint32(i+1))
	binary.BigEndian.PutUint32(rec[trcSequenceFile:], uint32(i+1))
	binary.BigEndian.PutUint32(rec[trcFieldRecord:], 1)
	binary.BigEndian.PutUint32(rec[trcTraceNumber:], uint32(i+1))
	binary.BigEndian.PutUint16(rec[trcIDCode:], 1)
	binary.BigEndian.PutUint32(rec[trcSourceX:], uint32(x))
	binary.BigEndian.PutUint32(rec[trcSourceY:], uint32(y))
	binary.BigEndian.PutUint16(rec[trcSamples:], uint16(len(t.Samples)))
	binary.BigEndian.PutUint16(rec[trcInterval:], SampleIntervalUs)
	binary.BigEndian.PutUint32(rec[trcCdpX:], uint32(x))
	binary.BigEndian.PutUint32(rec[trcCdpY:], uint32(y))

	payload := rec[TraceHeaderLen:]
	for s, sample := range t.Samples {
		binary.BigEndian.PutUint16(payload[2*s:], uint16(sample))
	}

	return rec
}
