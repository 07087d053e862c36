// Package gpr speaks the Cobra Zond-12e wire protocol: a textual
// setup string selecting sample quantity and time range, a start
// command answered by a fixed acknowledge sequence, then an endless
// stream of big-endian 16-bit trace samples with trailing service
// samples per trace.
package gpr

// startCommand switches the transmitter on
const startCommand = "P1\n"

// zondAck is the 4 byte acknowledge the unit sends after the start
// command, followed by one dummy byte that must be discarded.
var zondAck = []byte{0x00, 0x7f, 0x00, 0x7f}

// NormalizeSampleQuantity snaps a configured quantity onto the
// protocol steps, defaulting to 512.
func NormalizeSampleQuantity(quantity int) int {
	switch quantity {
	case 128, 256, 512, 1024:
		return quantity
	default:
		return 512
	}
}

// SampleSize returns how many real samples one trace carries for a
// given total sample quantity. The unit appends quantity/16 service
// samples which are skipped on read.
func SampleSize(quantity int) int {
	return quantity - ServiceSize(quantity)
}

// ServiceSize returns the per-trace service sample count.
func ServiceSize(quantity int) int {
	return quantity / 16
}

// SetupMessage builds the Zond-12e setup string. The bit fields
// follow the unit's protocol sheet, unsupported time ranges fall back
// to the 50 ns coding, unsupported quantities to 512 samples.
func SetupMessage(sampleQuantity, timeRangeNs int) string {
	// fixed bits
	mN := " "
	m00 := "1" // Tx off
	m01 := "1" // cables combined
	m07 := "0"
	m0810 := "000"
	m1112 := "00"
	m15 := "0"
	m1619 := "1010" // sounding regime
	m2021 := "00"   // single channel
	m2231 := "1010110010"

	var m0506 string
	switch NormalizeSampleQuantity(sampleQuantity) {
	case 128:
		m0506 = "00"
	case 256:
		m0506 = "10"
	case 512:
		m0506 = "01"
	case 1024:
		m0506 = "11"
	}

	var m0204, m1314 string
	switch timeRangeNs {
	case 25:
		m0204, m1314 = "000", "10"
	case 50:
		m0204, m1314 = "000", "00"
	case 100:
		m0204, m1314 = "100", "00"
	case 200:
		m0204, m1314 = "010", "00"
	case 300:
		m0204, m1314 = "110", "00"
	case 2000:
		m0204, m1314 = "111", "00"
	default:
		m0204, m1314 = "000", "00"
	}

	return "T" + mN + m00 + m01 +
		m0204 + m0506 + m07 +
		m0810 + m1112 + m1314 +
		m15 + m1619 + m2021 + m2231
}
