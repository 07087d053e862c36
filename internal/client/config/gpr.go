package config

import (
	"fmt"
)

const (
	DefaultGprPort        = 23
	DefaultSampleQuantity = 512
	DefaultTimeRangeNs    = 100
	DefaultStagingSize    = 256
)

// GprConfig holds the radar unit connection parameters.
// SampleQuantity and TimeRangeNs follow the Zond-12e protocol steps,
// unsupported values are normalized by the protocol layer.
type GprConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port,omitempty"`
	SampleQuantity int    `toml:"sample_quantity,omitempty"`
	TimeRangeNs    int    `toml:"time_range_ns,omitempty"`
	StagingSize    int    `toml:"staging_size,omitempty"`
}

type GprConfigManager struct {
	BaseConfigManager[GprConfig]
}

// Verify verifies the "hard" conditions that the rest of the code relies on
func (a *GprConfigManager) Verify() error {
	if a.conf.Port < 0 || a.conf.Port > 65535 {
		return fmt.Errorf("gpr port out of range: %d", a.conf.Port)
	}

	if a.conf.SampleQuantity < 0 {
		return fmt.Errorf("negative sample quantity: %d", a.conf.SampleQuantity)
	}

	return nil
}

// Defaulted accessors, the toml file may omit everything but the host

func (a *GprConfigManager) Endpoint() (string, int) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	port := a.conf.Port
	if port == 0 {
		port = DefaultGprPort
	}
	return a.conf.Host, port
}

func (a *GprConfigManager) SampleQuantity() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.conf.SampleQuantity == 0 {
		return DefaultSampleQuantity
	}
	return a.conf.SampleQuantity
}

func (a *GprConfigManager) TimeRangeNs() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.conf.TimeRangeNs == 0 {
		return DefaultTimeRangeNs
	}
	return a.conf.TimeRangeNs
}

func (a *GprConfigManager) StagingSize() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.conf.StagingSize == 0 {
		return DefaultStagingSize
	}
	return a.conf.StagingSize
}

func NewGprConfigManager(config *GprConfig, mgr *Manager) *GprConfigManager {
	j := GprConfigManager{}
	j.conf = config
	j.mgr = mgr

	return &j
}
