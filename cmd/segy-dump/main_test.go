package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleRange(t *testing.T) {
	min, max := sampleRange([]int16{5, -32768, 0, 32767, 12})
	assert.Equal(t, int16(-32768), min)
	assert.Equal(t, int16(32767), max)

	min, max = sampleRange([]int16{7})
	assert.Equal(t, int16(7), min)
	assert.Equal(t, int16(7), max)
}

func TestSampleRangeEmptyTrace(t *testing.T) {
	// zero declared samples must not panic the dump
	min, max := sampleRange(nil)
	assert.Zero(t, min)
	assert.Zero(t, max)
}
