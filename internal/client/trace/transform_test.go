package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformBoundaries(t *testing.T) {
	samples := Transform([]uint8{0, 255})

	assert.Equal(t, int16(-32768), samples[0])
	assert.Equal(t, int16(32767), samples[1])
}

func TestTransformMonotonic(t *testing.T) {
	column := make([]uint8, 256)
	for i := range column {
		column[i] = uint8(i)
	}

	samples := Transform(column)
	assert.Len(t, samples, 256)

	for i := 1; i < len(samples); i++ {
		assert.Greater(t, samples[i], samples[i-1])
	}
}

func TestTransformDeterministic(t *testing.T) {
	column := []uint8{0, 17, 128, 200, 255}
	assert.Equal(t, Transform(column), Transform(column))
}

func TestTransformEmptyColumn(t *testing.T) {
	assert.Empty(t, Transform(nil))
	assert.Empty(t, Transform([]uint8{}))
}

func TestNarrowInvertsTransform(t *testing.T) {
	column := make([]uint8, 256)
	for i := range column {
		column[i] = uint8(i)
	}

	assert.Equal(t, column, Narrow(Transform(column)))
}
