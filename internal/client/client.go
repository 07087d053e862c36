package client

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/subterra/gpr-client/internal/client/api"
	"github.com/subterra/gpr-client/internal/client/config"
	"github.com/subterra/gpr-client/internal/client/gps"
	"github.com/subterra/gpr-client/pkg/log"
)

// App global app struct that contains all services
type App struct {
	// A global wait group, all go routines that should
	// terminate when the application ends should be registered here
	WG sync.WaitGroup

	ReloadSignal chan os.Signal
	ExitSignal   chan os.Signal

	// The API, nil when no project server is configured
	Api *api.RestAPI

	Conf *config.Manager

	GPSService  gps.Service
	TestRunning bool
}

func (a *App) Shutdown() {
	if a.GPSService != nil {
		if err := a.GPSService.Shutdown(); err != nil {
			log.Error("gps service shutdown failed", zap.Error(err))
		}
	}

	log.Sync()
}

func (a *App) loadConfiguration(configPath string, rootCert string, acceptEmptyConfig bool) error {
	// Create the new config manager and load the configuration
	a.Conf = config.NewManager()
	if err := a.Conf.Load(configPath, acceptEmptyConfig); err != nil {
		log.Error("an error occurred while trying to load the config file, trying default path", zap.String("path", configPath), zap.Error(err))
		err = a.Conf.Load(config.DefaultConfigPath, acceptEmptyConfig)
		if err != nil {
			// Only terminate if empty configs are not okay
			if !acceptEmptyConfig {
				return err
			}
		}
	}

	// Allow overwriting the root certificate
	if len(rootCert) != 0 {
		a.Conf.Api().Set(func(param *config.ApiConfig) {
			param.RootCertificate = rootCert
		})
	}

	return nil
}

func startGPSService(app *App) {
	gpsConf := app.Conf.Gps()
	backend := gps.NMEASerial
	if gpsConf.C().Disabled || gpsConf.C().SerialPort == "" {
		backend = gps.STUB
	}

	gpsService, err := gps.NewService(backend, gps.SerialConfig{
		Port:     gpsConf.C().SerialPort,
		BaudRate: gpsConf.BaudRate(),
	})
	if err != nil {
		log.Error("could not initialize nmea serial backend, falling back to stub", zap.Error(err))
		gpsService, _ = gps.NewService(gps.STUB, gps.SerialConfig{})
	}

	log.Info("location received", zap.String("data", gpsService.GetData().String()))
	app.GPSService = gpsService
}

func Setup(instrumentation bool) (*App, error) {
	app := App{}

	// Skip cli flag parsing on testing
	var flags config.CLIFlags
	if !instrumentation {
		flags = config.ParseCLIFlags()
	} else {
		flags = config.CLIFlags{Debug: true}
		app.TestRunning = instrumentation
	}

	// Register a quit signal
	app.ExitSignal = make(chan os.Signal, 1)
	signal.Notify(app.ExitSignal, os.Interrupt, syscall.SIGTERM)

	// Register the reload signal
	app.ReloadSignal = make(chan os.Signal, 1)
	signal.Notify(app.ReloadSignal, syscall.SIGUSR1, syscall.SIGUSR2)

	// Initialize logger
	log.Init(flags.Debug)

	log.Info("client starting")

	// Load the configuration file
	err := app.loadConfiguration(flags.ConfigPath, flags.RootCert, instrumentation)
	if err != nil {
		if !instrumentation {
			app.Shutdown()
			return nil, err
		}

		// reset the error if we are running a test
		err = nil
	}

	// Start the position service
	startGPSService(&app)

	// Set up the remote API when a project server was configured
	if app.Conf.Api().C().Enabled() {
		app.Api, err = api.NewRestAPI(app.Conf, flags.Debug)
		if err != nil {
			app.Shutdown()
			log.Error("could not initialize api, aborting", zap.Error(err))
			return &app, err
		}
	} else {
		log.Info("no project server configured, running offline")
	}

	return &app, nil
}
