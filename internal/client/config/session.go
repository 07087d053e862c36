package config

const DefaultProgressEvery = 100

// SessionConfig controls the recording session output handling.
type SessionConfig struct {
	OutputDir     string `toml:"output_dir,omitempty"`
	ProgressEvery int    `toml:"progress_every,omitempty"`
	Archive       bool   `toml:"archive"`
	Upload        bool   `toml:"upload"`
}

type SessionConfigManager struct {
	BaseConfigManager[SessionConfig]
}

// Verify verifies the "hard" conditions that the rest of the code relies on
func (a *SessionConfigManager) Verify() error {
	return nil
}

func (a *SessionConfigManager) OutputDir() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.conf.OutputDir == "" {
		return DefaultSessionDir
	}
	return a.conf.OutputDir
}

// SetOutputDir retargets the session path at run-time, the next
// finalize picks it up.
func (a *SessionConfigManager) SetOutputDir(dir string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.conf.OutputDir = dir
}

func (a *SessionConfigManager) ProgressEvery() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.conf.ProgressEvery == 0 {
		return DefaultProgressEvery
	}
	return a.conf.ProgressEvery
}

func NewSessionConfigManager(config *SessionConfig, mgr *Manager) *SessionConfigManager {
	j := SessionConfigManager{}
	j.conf = config
	j.mgr = mgr

	return &j
}
