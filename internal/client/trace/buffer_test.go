package trace

import (
	"math/rand"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func makeTrace(x int64) Trace {
	return Trace{Samples: []int16{int16(x), int16(x + 1)}, X: x, Y: 0}
}

func TestBufferAppendOrder(t *testing.T) {
	b := NewBuffer()

	for i := 0; i < 10; i++ {
		idx := b.Append(makeTrace(int64(i)))
		assert.Equal(t, i+1, idx)
	}

	assert.Equal(t, 10, b.Count())

	drained := b.Drain()
	assert.Len(t, drained, 10)
	for i, tr := range drained {
		assert.Equal(t, i+1, tr.SequenceIndex)
		assert.Equal(t, int64(i), tr.X)
	}

	assert.Equal(t, 0, b.Count())
}

func TestBufferEmptyDrain(t *testing.T) {
	b := NewBuffer()

	assert.Empty(t, b.Drain())
	// a second drain is just as harmless
	assert.Empty(t, b.Drain())
}

func TestBufferDrainsNeverOverlap(t *testing.T) {
	b := NewBuffer()

	b.Append(makeTrace(1))
	b.Append(makeTrace(2))
	first := b.Drain()

	b.Append(makeTrace(3))
	second := b.Drain()

	assert.Len(t, first, 2)
	assert.Len(t, second, 1)
	assert.Equal(t, int64(3), second[0].X)
}

// Randomized interleaving of concurrent appends with one drain cutting
// the stream somewhere in the middle: nothing may be lost or
// duplicated and both halves must preserve per-producer order.
func TestBufferConcurrentAppendDrain(t *testing.T) {
	defer goleak.VerifyNone(t)

	const producers = 8
	const perProducer = 250

	b := NewBuffer()

	var wg sync.WaitGroup
	wg.Add(producers)

	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				b.Append(makeTrace(int64(p*perProducer + i)))
			}
		}(p)
	}

	// Cut the stream at a random point while producers are running
	for i := 0; i < rand.Intn(50)+1; i++ {
		runtime.Gosched()
	}

	var drains [][]Trace
	drains = append(drains, b.Drain())

	wg.Wait()
	drains = append(drains, b.Drain())

	seen := make(map[int64]bool)
	total := 0
	for _, batch := range drains {
		for _, tr := range batch {
			assert.False(t, seen[tr.X], "trace %d returned twice", tr.X)
			seen[tr.X] = true
			total++
		}
	}

	assert.Equal(t, producers*perProducer, total)

	// Sequence indices within one batch are strictly increasing
	for _, batch := range drains {
		for i := 1; i < len(batch); i++ {
			assert.Greater(t, batch[i].SequenceIndex, batch[i-1].SequenceIndex)
		}
	}
}

func TestBufferSequenceRestartsAfterDrain(t *testing.T) {
	b := NewBuffer()

	b.Append(makeTrace(1))
	b.Append(makeTrace(2))
	b.Drain()

	assert.Equal(t, 1, b.Append(makeTrace(3)))
}
