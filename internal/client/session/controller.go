// Package session orchestrates one recording session: frames come in
// from the radar source, become traces in the buffer, and on shutdown
// the whole accumulation is written out as a single SEG-Y file.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/subterra/gpr-client/internal/client/api"
	"github.com/subterra/gpr-client/internal/client/config"
	"github.com/subterra/gpr-client/internal/client/gpr"
	"github.com/subterra/gpr-client/internal/client/segy"
	"github.com/subterra/gpr-client/internal/client/trace"
	"github.com/subterra/gpr-client/pkg/file"
	"github.com/subterra/gpr-client/pkg/log"
)

type State int32

const (
	Running State = iota
	ShuttingDown
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case ShuttingDown:
		return "ShuttingDown"
	case Terminated:
		return "Terminated"
	default:
		return fmt.Sprintf("%d", int32(s))
	}
}

// Controller owns the single ingestion path and the one-shot
// finalization of a session. The trace buffer is the only shared
// state, everything else is touched by one goroutine at a time.
type Controller struct {
	ID string

	conf *config.Manager

	// optional, nil when the client runs offline
	restAPI *api.RestAPI

	buffer *trace.Buffer
	state  atomic.Int32

	finalizeOnce sync.Once

	// ingestion-path bookkeeping, only the Run goroutine touches it
	sampleCount int
	ingested    int
	skipped     int
}

func NewController(conf *config.Manager, restAPI *api.RestAPI) *Controller {
	return &Controller{
		ID:      uuid.NewString(),
		conf:    conf,
		restAPI: restAPI,
		buffer:  trace.NewBuffer(),
	}
}

func (c *Controller) State() State {
	return State(c.state.Load())
}

// BufferedTraces reports the live buffer size for the heartbeat.
func (c *Controller) BufferedTraces() int {
	return c.buffer.Count()
}

// ingest validates and buffers one frame. Malformed frames are
// reported and skipped, ingestion always continues.
func (c *Controller) ingest(f gpr.Frame) {
	if len(f.Column) == 0 {
		c.skipped++
		log.Warn("skipping empty frame")
		return
	}

	// the first accepted frame establishes the session sample count
	if c.sampleCount == 0 {
		c.sampleCount = len(f.Column)
		log.Info("session sample count established", zap.Int("samples", c.sampleCount))
	}

	if len(f.Column) != c.sampleCount {
		c.skipped++
		log.Warn("skipping frame with mismatched sample count",
			zap.Int("got", len(f.Column)),
			zap.Int("want", c.sampleCount))
		return
	}

	t := trace.Trace{Samples: trace.Transform(f.Column)}
	if f.HasPosition {
		t.X, t.Y = f.X, f.Y
	} else {
		// placeholder position: running index on the x axis
		t.X, t.Y = int64(c.ingested), 0
	}

	c.buffer.Append(t)
	c.ingested++

	if every := c.conf.Session().ProgressEvery(); c.ingested%every == 0 {
		log.Info("session progress",
			zap.Int("traces", c.ingested),
			zap.Int("skipped", c.skipped))
	}
}

// Run consumes the frame stream until it closes or the context is
// cancelled. It does not finalize, that stays with the owner.
func (c *Controller) Run(ctx context.Context, frames <-chan gpr.Frame) {
	for {
		select {
		case f, ok := <-frames:
			if !ok {
				return
			}
			c.ingest(f)
		case <-ctx.Done():
			return
		}
	}
}

// sessionFileName returns a fresh timestamped output name, a failed
// encode never reuses its destination.
func sessionFileName() string {
	return fmt.Sprintf("gpr_output_%s.sgy", time.Now().UTC().Format("20060102T150405Z"))
}

// Finalize drains the buffer and writes the session file exactly
// once. A repeated call is a no-op. Returns the encode error if the
// single write attempt failed.
func (c *Controller) Finalize(ctx context.Context) error {
	var err error

	c.finalizeOnce.Do(func() {
		c.state.Store(int32(ShuttingDown))
		defer c.state.Store(int32(Terminated))

		err = c.finalize(ctx)
	})

	return err
}

func (c *Controller) finalize(ctx context.Context) error {
	traces := c.buffer.Drain()
	if len(traces) == 0 {
		log.Warn("no traces recorded, skipping session file")
		return nil
	}

	outputDir := c.conf.Session().OutputDir()
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		log.Error("cannot create session output directory", zap.Error(err))
		return err
	}

	path := filepath.Join(outputDir, sessionFileName())

	if err := segy.WriteFile(traces, path); err != nil {
		log.Error("session encode failed, traces are lost",
			zap.String("file", path),
			zap.Int("traces", len(traces)),
			zap.Error(err))
		return err
	}

	log.Info("session file written",
		zap.String("file", path),
		zap.Int("traces", len(traces)),
		zap.Int("samples", len(traces[0].Samples)))

	// post-processing is best effort, the session file already exists
	c.publish(ctx, path, len(traces))

	return nil
}

type sessionInfo struct {
	SessionID string `json:"session_id"`
	File      string `json:"file"`
	Traces    int    `json:"traces"`
	Ingested  int    `json:"ingested"`
	Skipped   int    `json:"skipped"`
	WrittenAt int64  `json:"written_at"`
}

// publish archives the session outputs and uploads them when a
// project server is configured. Failures here are logged, never fatal.
func (c *Controller) publish(ctx context.Context, sgyPath string, numTraces int) {
	sc := c.conf.Session().C()
	if !sc.Archive && !sc.Upload {
		return
	}

	info, err := json.Marshal(sessionInfo{
		SessionID: c.ID,
		File:      filepath.Base(sgyPath),
		Traces:    numTraces,
		Ingested:  c.ingested,
		Skipped:   c.skipped,
		WrittenAt: time.Now().UTC().Unix(),
	})
	if err != nil {
		log.Error("session info encoding failed", zap.Error(err))
		return
	}

	infoPath := sgyPath + "_info.txt"
	if err := file.WriteTo(infoPath, string(info)); err != nil {
		log.Error("session info write failed", zap.Error(err))
		return
	}

	archivePath := sgyPath + ".zip"
	if err := file.CreateArchive(archivePath, []string{sgyPath, infoPath}); err != nil {
		log.Error("session archive failed", zap.Error(err))
		return
	}

	if !sc.Upload {
		return
	}

	if c.restAPI == nil {
		log.Warn("upload requested but no project server configured")
		return
	}

	if err := c.restAPI.PostSessionData(ctx, c.ID, archivePath); err != nil {
		log.Error("session upload failed", zap.String("archive", archivePath), zap.Error(err))
		return
	}

	log.Info("session uploaded", zap.String("session", c.ID))
}
