// Package gps supplies the capture position for trace tagging. The
// production backend reads NMEA sentences from an RTK receiver on a
// serial port, the stub backend serves position-less bench setups.
package gps

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/subterra/gpr-client/pkg/log"
)

type BackendType int32

const (
	// STUB implementation
	STUB BackendType = -1

	// NMEA receiver on a serial port
	NMEASerial BackendType = 0
)

func (e BackendType) String() string {
	switch e {
	case STUB:
		return "StubImplementation"
	case NMEASerial:
		return "NMEASerial"
	default:
		return fmt.Sprintf("%d", int(e))
	}
}

// Service interface methods
type Service interface {
	initialize() error
	GetData() Fix
	Shutdown() error
}

// Fix is the most recent position solution.
type Fix struct {
	// UTC is the raw hhmmss.ss timestamp of the solution, empty
	// while nothing was received
	UTC string

	Lat    float64
	Lon    float64
	AltMSL float64

	// Quality 0 means no fix, per the GGA quality indicator
	Quality    int
	Satellites int
}

func (f Fix) String() string {
	return fmt.Sprintf("Fix(%s) valid: %v - lat: %f lon: %f alt: %f sats: %d",
		f.UTC, f.Valid(), f.Lat, f.Lon, f.AltMSL, f.Satellites)
}

// Valid checks if the fix can be used for position tagging
func (f Fix) Valid() bool {
	return f.Quality > 0 && f.UTC != ""
}

// ScaledPosition converts the fix into the integer coordinate pair
// carried per trace, degrees scaled by 1e7.
func (f Fix) ScaledPosition() (x int64, y int64) {
	return int64(math.Round(f.Lon * 1e7)), int64(math.Round(f.Lat * 1e7))
}

// Config for the serial backend
type SerialConfig struct {
	Port     string
	BaudRate int
}

func NewService(backend BackendType, conf SerialConfig) (Service, error) {
	var service Service

	switch backend {
	case NMEASerial:
		service = &serialService{conf: conf}
	case STUB:
		service = &stubService{}
	}

	// Initialize service
	err := service.initialize()

	if err != nil {
		return nil, err
	}

	log.Info("GPS Backend selected:", zap.String("name", backend.String()))

	return service, nil
}
