package gps

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrNotGGA marks sentences we do not parse, the caller skips them.
type ErrNotGGA struct {
	talker string
}

func (e *ErrNotGGA) Error() string {
	return fmt.Sprintf("not a GGA sentence: %s", e.talker)
}

func (e *ErrNotGGA) Is(err error) bool {
	_, ok := err.(*ErrNotGGA)
	return ok
}

// checksum is the XOR over everything between '$' and '*'
func checksum(body string) byte {
	var x byte
	for i := 0; i < len(body); i++ {
		x ^= body[i]
	}
	return x
}

// parseCoordinate converts the NMEA (d)ddmm.mmmm/hemisphere pair into
// signed decimal degrees.
func parseCoordinate(value string, hemisphere string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}

	degrees := float64(int(v / 100))
	minutes := v - degrees*100
	decimal := degrees + minutes/60

	switch hemisphere {
	case "N", "E":
		return decimal, nil
	case "S", "W":
		return -decimal, nil
	default:
		return 0, fmt.Errorf("unknown hemisphere %q", hemisphere)
	}
}

// ParseGGA parses one $--GGA sentence into a Fix. The checksum is
// verified, non-GGA sentences return ErrNotGGA so the reader can skip
// the rest of the receiver chatter.
func ParseGGA(sentence string) (Fix, error) {
	sentence = strings.TrimSpace(sentence)

	if !strings.HasPrefix(sentence, "$") {
		return Fix{}, fmt.Errorf("sentence does not start with $")
	}

	starIdx := strings.LastIndexByte(sentence, '*')
	if starIdx < 0 || starIdx+3 != len(sentence) {
		return Fix{}, fmt.Errorf("sentence carries no checksum")
	}

	body := sentence[1:starIdx]
	want, err := strconv.ParseUint(sentence[starIdx+1:], 16, 8)
	if err != nil {
		return Fix{}, fmt.Errorf("malformed checksum: %w", err)
	}

	if checksum(body) != byte(want) {
		return Fix{}, fmt.Errorf("checksum mismatch, want %02X got %02X", want, checksum(body))
	}

	fields := strings.Split(body, ",")
	if !strings.HasSuffix(fields[0], "GGA") {
		return Fix{}, &ErrNotGGA{talker: fields[0]}
	}

	if len(fields) < 10 {
		return Fix{}, fmt.Errorf("GGA sentence too short: %d fields", len(fields))
	}

	fix := Fix{UTC: fields[1]}

	fix.Quality, err = strconv.Atoi(fields[6])
	if err != nil {
		return Fix{}, fmt.Errorf("malformed quality indicator: %w", err)
	}

	// A receiver without a fix sends empty position fields, thats
	// still a well-formed sentence
	if fix.Quality == 0 {
		return fix, nil
	}

	if fix.Lat, err = parseCoordinate(fields[2], fields[3]); err != nil {
		return Fix{}, fmt.Errorf("malformed latitude: %w", err)
	}

	if fix.Lon, err = parseCoordinate(fields[4], fields[5]); err != nil {
		return Fix{}, fmt.Errorf("malformed longitude: %w", err)
	}

	if fields[7] != "" {
		if fix.Satellites, err = strconv.Atoi(fields[7]); err != nil {
			return Fix{}, fmt.Errorf("malformed satellite count: %w", err)
		}
	}

	if fields[9] != "" {
		if fix.AltMSL, err = strconv.ParseFloat(fields[9], 64); err != nil {
			return Fix{}, fmt.Errorf("malformed altitude: %w", err)
		}
	}

	return fix, nil
}
