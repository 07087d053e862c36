package config

const DefaultGpsBaudRate = 115200

// GpsConfig selects the NMEA serial receiver, leave the port empty or
// set disabled to run without position tagging.
type GpsConfig struct {
	SerialPort string `toml:"serial_port,omitempty"`
	BaudRate   int    `toml:"baud_rate,omitempty"`
	Disabled   bool   `toml:"disabled"`
}

type GpsConfigManager struct {
	BaseConfigManager[GpsConfig]
}

// Verify verifies the "hard" conditions that the rest of the code relies on
func (a *GpsConfigManager) Verify() error {
	return nil
}

func (a *GpsConfigManager) BaudRate() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.conf.BaudRate == 0 {
		return DefaultGpsBaudRate
	}
	return a.conf.BaudRate
}

func NewGpsConfigManager(config *GpsConfig, mgr *Manager) *GpsConfigManager {
	j := GpsConfigManager{}
	j.conf = config
	j.mgr = mgr

	return &j
}
