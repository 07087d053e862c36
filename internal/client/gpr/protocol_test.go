package gpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupMessageKnownCodings(t *testing.T) {
	// Codings taken from the Zond-12e protocol sheet
	assert.Equal(t, "T 11100010000000001010001010110010", SetupMessage(512, 100))
	assert.Equal(t, "T 11111110000000001010001010110010", SetupMessage(1024, 2000))
}

func TestSetupMessageShape(t *testing.T) {
	for _, quantity := range []int{128, 256, 512, 1024} {
		for _, rangeNs := range []int{25, 50, 100, 200, 300, 2000} {
			msg := SetupMessage(quantity, rangeNs)

			assert.Len(t, msg, 34)
			assert.Equal(t, "T ", msg[:2])
			for _, c := range msg[2:] {
				assert.Contains(t, "01", string(c))
			}
		}
	}
}

func TestSetupMessageFallbacks(t *testing.T) {
	// Unsupported values snap to 512 samples / 50 ns
	assert.Equal(t, SetupMessage(512, 50), SetupMessage(333, 47))
}

func TestSampleSizes(t *testing.T) {
	assert.Equal(t, 480, SampleSize(512))
	assert.Equal(t, 32, ServiceSize(512))
	assert.Equal(t, 120, SampleSize(128))

	assert.Equal(t, 512, NormalizeSampleQuantity(0))
	assert.Equal(t, 1024, NormalizeSampleQuantity(1024))
}
