package segy

import (
	"encoding/binary"
	"io"
	"os"

	"golang.org/x/text/encoding/charmap"
)

// BinaryHeader carries the subset of the 400 byte header this client
// reads back for verification and inspection.
type BinaryHeader struct {
	JobID      int32
	LineNumber int32
	ReelNumber int32
	Interval   int16
	Samples    int16
	Format     int16
	Revision   int16
	FixedLen   int16
}

// TraceHeader carries the parsed per-trace header fields.
type TraceHeader struct {
	SequenceNumber int32
	FieldRecord    int32
	TraceNumber    int32
	Samples        int16
	Interval       int16
	CdpX           int32
	CdpY           int32
}

type TraceRecord struct {
	Header  TraceHeader
	Samples []int16
}

// File is a fully parsed SEG-Y stream.
type File struct {
	// Text is the textual header transcoded back from EBCDIC
	Text   string
	Header BinaryHeader
	Traces []TraceRecord
}

func parseBinaryHeader(h []byte) BinaryHeader {
	return BinaryHeader{
		JobID:      int32(binary.BigEndian.Uint32(h[binJobID:])),
		LineNumber: int32(binary.BigEndian.Uint32(h[binLineNumber:])),
		ReelNumber: int32(binary.BigEndian.Uint32(h[binReelNumber:])),
		Interval:   int16(binary.BigEndian.Uint16(h[binInterval:])),
		Samples:    int16(binary.BigEndian.Uint16(h[binSamples:])),
		Format:     int16(binary.BigEndian.Uint16(h[binFormat:])),
		Revision:   int16(binary.BigEndian.Uint16(h[binRevision:])),
		FixedLen:   int16(binary.BigEndian.Uint16(h[binFixedLenFlag:])),
	}
}

func parseTraceHeader(h []byte) TraceHeader {
	return TraceHeader{
		SequenceNumber: int32(binary.BigEndian.Uint32(h[trcSequenceFile:])),
		FieldRecord:    int32(binary.BigEndian.Uint32(h[trcFieldRecord:])),
		TraceNumber:    int32(binary.BigEndian.Uint32(h[trcTraceNumber:])),
		Samples:        int16(binary.BigEndian.Uint16(h[trcSamples:])),
		Interval:       int16(binary.BigEndian.Uint16(h[trcInterval:])),
		CdpX:           int32(binary.BigEndian.Uint32(h[trcCdpX:])),
		CdpY:           int32(binary.BigEndian.Uint32(h[trcCdpY:])),
	}
}

// Decode parses a complete SEG-Y stream. Only format code 3 payloads
// are supported, which is all this client ever writes.
func Decode(r io.Reader) (*File, error) {
	text := make([]byte, TextHeaderLen)
	if _, err := io.ReadFull(r, text); err != nil {
		return nil, newError("truncated textual header: %v", err)
	}

	decoded, err := charmap.CodePage037.NewDecoder().Bytes(text)
	if err != nil {
		return nil, newError("textual header decoding failed: %v", err)
	}

	binHdr := make([]byte, BinaryHeaderLen)
	if _, err := io.ReadFull(r, binHdr); err != nil {
		return nil, newError("truncated binary header: %v", err)
	}

	f := &File{
		Text:   string(decoded),
		Header: parseBinaryHeader(binHdr),
	}

	if f.Header.Format != SampleFormatInt16 {
		return nil, newError("unsupported sample format code %d", f.Header.Format)
	}

	numSamples := int(f.Header.Samples)
	record := make([]byte, TraceHeaderLen+2*numSamples)

	for {
		_, err := io.ReadFull(r, record)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, newError("truncated trace record %d: %v", len(f.Traces), err)
		}

		tr := TraceRecord{
			Header:  parseTraceHeader(record),
			Samples: make([]int16, numSamples),
		}

		payload := record[TraceHeaderLen:]
		for i := range tr.Samples {
			tr.Samples[i] = int16(binary.BigEndian.Uint16(payload[2*i:]))
		}

		f.Traces = append(f.Traces, tr)
	}

	return f, nil
}

// DecodeFile parses the SEG-Y file at path.
func DecodeFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = f.Close()
	}()

	return Decode(f)
}
