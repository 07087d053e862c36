package config

import (
	"flag"
	"os"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/subterra/gpr-client/pkg/log"
	"go.uber.org/zap"
)

const (
	ProductName             = "gpr-client"
	UserdataDirectoryPrefix = "/data/"
	ConfigFolder            = "config/"

	ConfigPathPrefix = ConfigFolder + ProductName + "/"
	ConfigFile       = "config.toml"

	DefaultConfigPath = UserdataDirectoryPrefix + ConfigPathPrefix + ConfigFile

	DefaultSessionDir = UserdataDirectoryPrefix + "sessions/"

	DefaultHeartbeatInterval = time.Second * 30

	DefaultDebugModeValue = false
)

type CLIFlags struct {
	ConfigPath string
	RootCert   string
	Debug      bool
}

type MainConfig struct {
	Client  ClientConfig  `toml:"client"`
	Gpr     GprConfig     `toml:"gpr"`
	Gps     GpsConfig     `toml:"gps,omitempty"`
	Session SessionConfig `toml:"session"`
	Api     ApiConfig     `toml:"api,omitempty"`
}

type ConfigManager interface {
	lock()
	unlock()
	Verify() error
}

type ConfigManagerKey string

const (
	CMClient  ConfigManagerKey = "client"
	CMGpr     ConfigManagerKey = "gpr"
	CMGps     ConfigManagerKey = "gps"
	CMSession ConfigManagerKey = "session"
	CMApi     ConfigManagerKey = "api"
)

type ConfigManagerStore map[ConfigManagerKey]ConfigManager

type Manager struct {
	mu sync.RWMutex

	// The actual config, never share this with other code
	config *MainConfig
	flags  *CLIFlags

	// The config manager store (pointers)
	store ConfigManagerStore

	// The config path
	path string
}

func (m *Manager) Client() *ClientConfigManager {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cm, ok := m.store[CMClient].(*ClientConfigManager)
	if !ok {
		log.Panic("implementation mistake, no CMClient found")
		return nil
	}
	return cm
}

func (m *Manager) Gpr() *GprConfigManager {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cm, ok := m.store[CMGpr].(*GprConfigManager)
	if !ok {
		log.Panic("implementation mistake, no CMGpr found")
		return nil
	}
	return cm
}

func (m *Manager) Gps() *GpsConfigManager {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cm, ok := m.store[CMGps].(*GpsConfigManager)
	if !ok {
		log.Panic("implementation mistake, no CMGps found")
		return nil
	}
	return cm
}

func (m *Manager) Session() *SessionConfigManager {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cm, ok := m.store[CMSession].(*SessionConfigManager)
	if !ok {
		log.Panic("implementation mistake, no CMSession found")
		return nil
	}
	return cm
}

func (m *Manager) Api() *ApiConfigManager {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cm, ok := m.store[CMApi].(*ApiConfigManager)
	if !ok {
		log.Panic("implementation mistake, no CMApi found")
		return nil
	}
	return cm
}

func (m *Manager) Load(path string, acceptEmptyConfig bool) error {
	data, err := os.ReadFile(path)
	if err == nil {
		if err = toml.Unmarshal(data, m.config); err != nil {
			log.Error("failed to unmarshal config file", zap.Error(err))
		}
	}

	if err != nil && !acceptEmptyConfig {
		return err
	}

	// Store the load path
	m.path = path

	// Each config section manager gets his own locking primitive
	m.store = ConfigManagerStore{
		CMClient:  NewClientConfigManager(&m.config.Client, m),
		CMGpr:     NewGprConfigManager(&m.config.Gpr, m),
		CMGps:     NewGpsConfigManager(&m.config.Gps, m),
		CMSession: NewSessionConfigManager(&m.config.Session, m),
		CMApi:     NewApiConfigManager(&m.config.Api, m),
	}

	// Verify all configs contain the mandatory values
	for _, value := range m.store {
		if err := value.Verify(); err != nil {
			return err
		}
	}

	// Debug log output
	log.Debug("active config", zap.Any("config", m.config), zap.String("path", m.path))

	return nil
}

// Save locks all configs and writes it to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Lock all config managers
	for _, value := range m.store {
		value.lock()
	}

	// Unlock the config managers when we are done
	defer func() {
		for _, value := range m.store {
			value.unlock()
		}
	}()

	// Marshal the config, does not use getters, so no locking => safe
	configData, err := toml.Marshal(m.config)
	if err != nil {
		return err
	}

	if err := os.WriteFile(m.path, configData, 0644); err != nil {
		log.Error("Failed to write config file", zap.Error(err))
		return err
	}

	return nil
}

func New() *MainConfig {
	return &MainConfig{}
}

func NewManager() *Manager {
	return &Manager{
		mu:     sync.RWMutex{},
		store:  make(ConfigManagerStore),
		config: New(),
	}
}

func ParseCLIFlags() CLIFlags {
	flags := CLIFlags{}

	flag.StringVar(&flags.ConfigPath, "config", DefaultConfigPath, "relative or absolute path to the config file")
	flag.StringVar(&flags.RootCert, "rootcert", "", "relative or absolute path to the root certificate used for server validation")
	flag.BoolVar(&flags.Debug, "debug", DefaultDebugModeValue, "true if the debug logging should be enabled")
	flag.Parse()

	return flags
}
