package gpr

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/subterra/gpr-client/internal/client/trace"
	"github.com/subterra/gpr-client/pkg/log"
)

// Frame is one inbound B-scan column on its way into the session,
// already reduced to the 8-bit intensity domain, optionally tagged
// with the capture position known at read time.
type Frame struct {
	Column []uint8

	X, Y        int64
	HasPosition bool
}

// PositionFunc supplies the current capture position, ok is false
// while no fix is available.
type PositionFunc func() (x, y int64, ok bool)

// Dial connects to the radar unit.
func Dial(ctx context.Context, host string, port int) (net.Conn, error) {
	d := net.Dialer{Timeout: 5 * time.Second}
	return d.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", host, port))
}

// Source pulls traces off one radar connection and stages them on a
// bounded channel. When the consumer falls behind the newest frame is
// dropped rather than blocking the device stream.
type Source struct {
	conn net.Conn

	sampleQuantity int
	position       PositionFunc

	frames  chan Frame
	dropped atomic.Uint64
}

func NewSource(conn net.Conn, sampleQuantity int, stagingSize int, position PositionFunc) *Source {
	return &Source{
		conn:           conn,
		sampleQuantity: NormalizeSampleQuantity(sampleQuantity),
		position:       position,
		frames:         make(chan Frame, stagingSize),
	}
}

// Frames is the staging channel, closed when the source stops.
func (s *Source) Frames() <-chan Frame {
	return s.frames
}

// Dropped returns how many frames were discarded due to backpressure.
func (s *Source) Dropped() uint64 {
	return s.dropped.Load()
}

// setup performs the handshake: setup string, start command, fixed
// acknowledge, one dummy byte.
func (s *Source) setup(r *bufio.Reader, timeRangeNs int) error {
	msg := SetupMessage(s.sampleQuantity, timeRangeNs)
	if _, err := s.conn.Write([]byte(msg + "\n")); err != nil {
		return newDisconnectedError("setup write failed: %v", err)
	}

	if _, err := s.conn.Write([]byte(startCommand)); err != nil {
		return newDisconnectedError("start command write failed: %v", err)
	}

	ack := make([]byte, len(zondAck))
	if _, err := io.ReadFull(r, ack); err != nil {
		return newDisconnectedError("acknowledge read failed: %v", err)
	}

	if !bytes.Equal(ack, zondAck) {
		return &BadAckError{got: ack}
	}

	// discard the dummy byte trailing the acknowledge
	if _, err := r.Discard(1); err != nil {
		return newDisconnectedError("dummy byte read failed: %v", err)
	}

	return nil
}

// readColumn reads one full trace and reduces it to the intensity
// column the pipeline consumes. The service samples at the end of the
// trace are protocol padding and get skipped.
func (s *Source) readColumn(r *bufio.Reader, raw []byte) ([]uint8, error) {
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, newDisconnectedError("socket closed mid-trace: %v", err)
	}

	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.BigEndian.Uint16(raw[2*i:]))
	}

	if _, err := r.Discard(ServiceSize(s.sampleQuantity) * 2); err != nil {
		return nil, newDisconnectedError("service sample skip failed: %v", err)
	}

	return trace.Narrow(samples), nil
}

// Run drives the handshake and the read loop until the context is
// cancelled or the transport fails. The staging channel is closed on
// the way out.
func (s *Source) Run(ctx context.Context, timeRangeNs int) error {
	defer close(s.frames)
	defer func() {
		_ = s.conn.Close()
	}()

	r := bufio.NewReader(s.conn)
	if err := s.setup(r, timeRangeNs); err != nil {
		return err
	}

	log.Info("radar stream started",
		zap.Int("sampleQuantity", s.sampleQuantity),
		zap.Int("sampleSize", SampleSize(s.sampleQuantity)))

	// Unblock pending reads when the context goes away
	stop := context.AfterFunc(ctx, func() {
		_ = s.conn.Close()
	})
	defer stop()

	raw := make([]byte, SampleSize(s.sampleQuantity)*2)

	for {
		column, err := s.readColumn(r, raw)
		if err != nil {
			if ctx.Err() != nil {
				// regular shutdown, the closed socket is ours
				return nil
			}
			return err
		}

		frame := Frame{Column: column}
		if s.position != nil {
			if x, y, ok := s.position(); ok {
				frame.X, frame.Y = x, y
				frame.HasPosition = true
			}
		}

		select {
		case s.frames <- frame:
		default:
			// staging full: drop the newest frame, never block the device
			if dropped := s.dropped.Inc(); dropped%100 == 1 {
				log.Warn("staging queue full, dropping frames", zap.Uint64("dropped", dropped))
			}
		}
	}
}
