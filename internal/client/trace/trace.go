// Package trace holds the in-memory representation of one recording
// session: the trace value type, the intensity-to-sample transform and
// the accumulating buffer that bridges ingestion and finalization.
package trace

// Trace is one B-scan column plus its positional metadata, the atomic
// unit of the session output. Immutable after creation.
type Trace struct {
	// Samples are signed 16-bit geophysical samples, every trace of a
	// session carries the same number of them.
	Samples []int16

	// SequenceIndex is 1-based, assigned by the buffer at append time,
	// strictly increasing without gaps.
	SequenceIndex int

	// X and Y carry the raw capture position, either a scaled GNSS
	// fix or a running index placeholder. Not range-limited here, the
	// encoder clamps them into the output fields.
	X int64
	Y int64
}
