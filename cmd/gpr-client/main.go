package main

import (
	"context"
	"crypto/x509"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/subterra/gpr-client/internal/client"
	"github.com/subterra/gpr-client/internal/client/api"
	"github.com/subterra/gpr-client/internal/client/api/helpers"
	"github.com/subterra/gpr-client/internal/client/config"
	"github.com/subterra/gpr-client/internal/client/gpr"
	"github.com/subterra/gpr-client/internal/client/session"
	"github.com/subterra/gpr-client/pkg/log"
)

// FinalizeTimeout bounds the shutdown path, the session file write and
// the optional upload have to finish within it.
const FinalizeTimeout = 150 * time.Second

// verifyServiceHealth decides if a heartbeat error is recoverable. It
// returns false if client termination is required and true if staying
// up might fix it.
func verifyServiceHealth(e error) bool {
	// Check if its an API related Error
	if urlErr, ok := e.(*url.Error); ok {
		// Grab the underlying error
		err := urlErr.Err

		// Check for "deal-breaker" errors
		if certerror, ok := err.(x509.UnknownAuthorityError); ok {
			log.Error("self signed certificate used without proper root_certificate entry, exiting", zap.Error(certerror))
			return false
		} else if certerror, ok := err.(x509.HostnameError); ok {
			log.Error("certificate hostname error, exiting", zap.Error(certerror))
			return false
		} else if certerror, ok := err.(x509.CertificateInvalidError); ok {
			log.Error("the encountered certificate was deemed invalid", zap.Error(certerror))
			return false
		}
	}

	// Check if its an api response error
	if respErr, ok := e.(*helpers.ResponseError); ok {
		switch respErr.Code {
		// This is the only "permanent" error
		case http.StatusUnauthorized:
			log.Error("api denied our authentication, unlikely to change, exiting", zap.Error(respErr))
			return false
		// Everything else will fix itself if we keep running
		default:
			log.Error("(temporary) server error encountered, continuing", zap.Error(respErr))
			return true
		}
	}

	log.Debug("service state is looking fine, continuing")
	return true
}

func heartbeat(app *client.App, controller *session.Controller) error {
	fix := app.GPSService.GetData()

	return app.Api.PutSensorUpdate(api.SensorStatus{
		StatusTime:     time.Now().UTC().Unix(),
		LocationValid:  fix.Valid(),
		LocationLat:    fix.Lat,
		LocationLon:    fix.Lon,
		BufferedTraces: controller.BufferedTraces(),
		SessionID:      controller.ID,
	})
}

func main() {
	app, err := client.Setup(false)
	if err != nil || app == nil {
		fmt.Printf("Initialization failed, error: %s\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to the radar unit
	gprConf := app.Conf.Gpr()
	host, port := gprConf.Endpoint()
	conn, err := gpr.Dial(ctx, host, port)
	if err != nil {
		log.Error("could not connect to the radar unit",
			zap.String("host", host), zap.Int("port", port), zap.Error(err))
		app.Shutdown()
		os.Exit(1)
	}

	source := gpr.NewSource(conn, gprConf.SampleQuantity(), gprConf.StagingSize(), func() (int64, int64, bool) {
		fix := app.GPSService.GetData()
		if !fix.Valid() {
			return 0, 0, false
		}
		x, y := fix.ScaledPosition()
		return x, y, true
	})

	controller := session.NewController(app.Conf, app.Api)

	// Radar read loop, a transport failure ends the recording
	app.WG.Add(1)
	go func() {
		defer app.WG.Done()

		if err := source.Run(ctx, gprConf.TimeRangeNs()); err != nil {
			log.Error("radar stream failed, stopping session", zap.Error(err))
			cancel()
		}
	}()

	// Ingestion loop, ends when the staging channel closes
	app.WG.Add(1)
	go func() {
		defer app.WG.Done()

		controller.Run(ctx, source.Frames())
		cancel()
	}()

	heartbeatTicker := time.NewTicker(config.DefaultHeartbeatInterval)
	defer heartbeatTicker.Stop()

	EXIT_CODE := 0

MAIN_LOOP:
	for {
		select {
		case <-heartbeatTicker.C:
			if app.Api == nil {
				continue
			}

			if err = heartbeat(app, controller); err != nil {
				// Terminate if the troubleshooter found some problem
				if !verifyServiceHealth(err) {
					EXIT_CODE = 1
					break MAIN_LOOP
				}
			}

		case <-app.ReloadSignal:
			log.Info("reload signal received, persisting configuration")
			if err = app.Conf.Save(); err != nil {
				log.Error("configuration save failed", zap.Error(err))
			}

		case <-app.ExitSignal:
			log.Info("exit signal received - shutting down tasks and routines")
			break MAIN_LOOP

		case <-ctx.Done():
			log.Info("recording stopped")
			break MAIN_LOOP
		}
	}

	// Stop the producers and wait for the pipeline to settle
	cancel()
	app.WG.Wait()

	log.Info("pending tasks and routines terminated",
		zap.Uint64("droppedFrames", source.Dropped()))

	// Write out the session, this must happen exactly once
	finalizeCtx, finalizeCancel := context.WithTimeout(context.Background(), FinalizeTimeout)
	defer finalizeCancel()

	if err = controller.Finalize(finalizeCtx); err != nil {
		log.Error("session finalization failed", zap.Error(err))
		EXIT_CODE = 1
	}

	// Shutdown everything
	app.Shutdown()

	// Exit with the proper code
	os.Exit(EXIT_CODE)
}
