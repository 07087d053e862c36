package config

import (
	"errors"
	"net/url"
)

type AuthBasicSettings struct {
	Username string `toml:"username,omitempty"`
	Password string `toml:"password" comment:"required for basic authentication"`
}

func (a *AuthBasicSettings) Credentials() (string, string) {
	return a.Username, a.Password
}

type AuthSettings struct {
	Basic *AuthBasicSettings `toml:"basic,omitempty"`
}

// ApiConfig contains the project server configuration options
type ApiConfig struct {
	Auth            AuthSettings `toml:"auth"`
	RootCertificate string       `toml:"root_certificate,omitempty"`
	Url             string       `toml:"url"`
	AllowInsecure   bool         `toml:"allow_insecure,omitempty"`
}

// Enabled reports whether a project server was configured at all,
// the client runs fully offline otherwise.
func (a ApiConfig) Enabled() bool {
	return a.Url != ""
}

type ApiConfigManager struct {
	BaseConfigManager[ApiConfig]
}

// Verify verifies the "hard" conditions that the rest of the code relies on
func (a *ApiConfigManager) Verify() error {
	// Verify the url
	if _, err := url.Parse(a.conf.Url); err != nil {
		return err
	}

	// Verify that auth basic contains a password
	if a.conf.Auth.Basic != nil && a.conf.Auth.Basic.Password == "" {
		return errors.New("empty password for auth basic")
	}

	return nil
}

func NewApiConfigManager(config *ApiConfig, mgr *Manager) *ApiConfigManager {
	j := ApiConfigManager{}
	j.conf = config
	j.mgr = mgr

	return &j
}
