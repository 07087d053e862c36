package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/subterra/gpr-client/pkg/log"
)

func TestConfigSaveLoadRoundTrip(t *testing.T) {
	log.Init(true)

	path := filepath.Join(t.TempDir(), "config.toml")

	conf := NewManager()
	assert.NoError(t, conf.Load(path, true))

	conf.Session().SetOutputDir("/data/custom-sessions")
	conf.Session().Set(func(c *SessionConfig) {
		c.ProgressEvery = 25
		c.Archive = true
	})
	conf.Gpr().Set(func(c *GprConfig) {
		c.Host = "10.0.0.2"
		c.SampleQuantity = 1024
	})

	assert.NoError(t, conf.Save())

	// The run-time retargeted output dir must survive the write-back
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "output_dir")
	assert.Contains(t, string(data), "/data/custom-sessions")

	reloaded := NewManager()
	assert.NoError(t, reloaded.Load(path, false))

	assert.Equal(t, "/data/custom-sessions", reloaded.Session().OutputDir())
	assert.Equal(t, 25, reloaded.Session().ProgressEvery())
	assert.True(t, reloaded.Session().C().Archive)

	host, port := reloaded.Gpr().Endpoint()
	assert.Equal(t, "10.0.0.2", host)
	assert.Equal(t, DefaultGprPort, port)
	assert.Equal(t, 1024, reloaded.Gpr().SampleQuantity())
}

func TestSessionDefaults(t *testing.T) {
	log.Init(true)

	conf := NewManager()
	assert.NoError(t, conf.Load(filepath.Join(t.TempDir(), "missing.toml"), true))

	assert.Equal(t, DefaultSessionDir, conf.Session().OutputDir())
	assert.Equal(t, DefaultProgressEvery, conf.Session().ProgressEvery())
}
