package trace

import "sync"

// Buffer accumulates traces between ingestion and finalization. It is
// the only shared mutable state in the recording pipeline, all access
// goes through its mutex. Critical sections are short, no I/O or
// transforms happen under the lock.
type Buffer struct {
	mu sync.Mutex

	traces []Trace

	// total traces ever appended, drives the sequence indices
	appended int
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append stores a trace and returns its assigned 1-based sequence
// index. Safe for concurrent use, an append either completes before a
// concurrent Drain observes the buffer or lands in the next drain,
// it is never lost.
func (b *Buffer) Append(t Trace) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.appended++
	t.SequenceIndex = b.appended
	b.traces = append(b.traces, t)

	return t.SequenceIndex
}

// Drain atomically empties the buffer and returns everything appended
// so far, in append order. Two drains never return overlapping traces.
// An empty buffer drains to an empty slice.
func (b *Buffer) Drain() []Trace {
	b.mu.Lock()
	defer b.mu.Unlock()

	drained := b.traces
	b.traces = nil

	// sequence indices restart for whatever comes after the drain
	b.appended = 0

	return drained
}

// Count returns the current live trace count. Best effort with respect
// to concurrent appends, only meant for progress reporting.
func (b *Buffer) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.traces)
}
