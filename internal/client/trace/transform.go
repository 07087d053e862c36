package trace

// Transform converts one 8-bit intensity column into signed 16-bit
// samples by widening the 8-bit domain onto the full 16-bit range and
// recentering it: sample = v*65535/255 - 32768. Since 65535/255 is
// exactly 257 the rescale is integer-exact, there is no rounding.
// v=0 maps to -32768, v=255 maps to 32767.
//
// The inverse direction is Narrow, used when reducing device samples
// back to display intensities.
func Transform(column []uint8) []int16 {
	samples := make([]int16, len(column))
	for i, v := range column {
		samples[i] = int16(int(v)*257 - 32768)
	}
	return samples
}

// Narrow maps a signed 16-bit sample back onto the 8-bit intensity
// domain. Narrow(Transform(c)) == c for every column c.
func Narrow(samples []int16) []uint8 {
	column := make([]uint8, len(samples))
	for i, s := range samples {
		column[i] = uint8((int(s) + 32768) / 257)
	}
	return column
}
