package gpr

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/subterra/gpr-client/pkg/log"
)

// fakeRadar consumes the handshake and plays back numTraces traces of
// the given quantity before closing its end of the pipe.
func fakeRadar(t *testing.T, conn net.Conn, quantity int, numTraces int) {
	t.Helper()

	// setup string + newline + start command
	handshake := make([]byte, 35+len(startCommand))
	_, err := io.ReadFull(conn, handshake)
	assert.NoError(t, err)

	_, err = conn.Write(zondAck)
	assert.NoError(t, err)
	_, err = conn.Write([]byte{0x00}) // dummy byte
	assert.NoError(t, err)

	sampleSize := SampleSize(quantity)
	for n := 0; n < numTraces; n++ {
		payload := make([]byte, sampleSize*2)
		for i := 0; i < sampleSize; i++ {
			// values that narrow back to the index modulo 256
			binary.BigEndian.PutUint16(payload[2*i:], uint16((i%256)*257-32768))
		}
		_, err = conn.Write(payload)
		assert.NoError(t, err)

		service := make([]byte, ServiceSize(quantity)*2)
		_, err = conn.Write(service)
		assert.NoError(t, err)
	}

	assert.NoError(t, conn.Close())
}

func TestSourceStreamsFrames(t *testing.T) {
	defer goleak.VerifyNone(t)
	log.Init(true)

	device, client := net.Pipe()
	go fakeRadar(t, device, 128, 3)

	source := NewSource(client, 128, 16, func() (int64, int64, bool) {
		return 7, 8, true
	})

	runErr := make(chan error, 1)
	go func() {
		runErr <- source.Run(context.Background(), 100)
	}()

	var frames []Frame
	for f := range source.Frames() {
		frames = append(frames, f)
	}

	assert.Len(t, frames, 3)
	for _, f := range frames {
		assert.Len(t, f.Column, SampleSize(128))
		assert.True(t, f.HasPosition)
		assert.Equal(t, int64(7), f.X)
		assert.Equal(t, int64(8), f.Y)

		for i, v := range f.Column {
			assert.Equal(t, uint8(i%256), v)
		}
	}

	// The device hung up, that is a transport error not a shutdown
	assert.ErrorIs(t, <-runErr, &DisconnectedError{})
}

func TestSourceBadAck(t *testing.T) {
	defer goleak.VerifyNone(t)
	log.Init(true)

	device, client := net.Pipe()
	go func() {
		handshake := make([]byte, 35+len(startCommand))
		_, _ = io.ReadFull(device, handshake)
		_, _ = device.Write([]byte{0xde, 0xad, 0xbe, 0xef})
		_ = device.Close()
	}()

	source := NewSource(client, 128, 16, nil)
	err := source.Run(context.Background(), 100)

	assert.ErrorIs(t, err, &BadAckError{})

	// the staging channel is closed on the way out
	_, open := <-source.Frames()
	assert.False(t, open)
}

func TestSourceShutdownViaContext(t *testing.T) {
	defer goleak.VerifyNone(t)
	log.Init(true)

	device, client := net.Pipe()

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		handshake := make([]byte, 35+len(startCommand))
		_, _ = io.ReadFull(device, handshake)
		_, _ = device.Write(zondAck)
		_, _ = device.Write([]byte{0x00})
		// then go silent until the client hangs up
		buf := make([]byte, 1)
		_, _ = device.Read(buf)
		_ = device.Close()
	}()

	source := NewSource(client, 128, 16, nil)

	runErr := make(chan error, 1)
	go func() {
		runErr <- source.Run(ctx, 100)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	// Cancellation is a clean shutdown, not an error
	assert.NoError(t, <-runErr)
}
