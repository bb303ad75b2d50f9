package config

import (
	"fmt"
	"slices"
)

var (
	tlsModes          = []string{"disabled", "server", "mutual"}
	tlsVersions       = []string{"1.2", "1.3"}
	clientAuthOptions = []string{"require", "request", "verify"}
)

// ValidateTLSConfig checks that the files a TLS mode needs are named and
// that version and client policy are known. It does not read the files.
func (c *Config) ValidateTLSConfig() error {
	t := c.Server.TLS

	mode := t.Mode
	if mode == "" {
		mode = "disabled"
	}
	if !slices.Contains(tlsModes, mode) {
		return fmt.Errorf("invalid TLS mode: %s (must be one of %v)", t.Mode, tlsModes)
	}
	if mode == "disabled" {
		return nil
	}

	if t.CertFile == "" {
		return fmt.Errorf("certificate file is required for TLS %s mode", mode)
	}
	if t.KeyFile == "" {
		return fmt.Errorf("private key file is required for TLS %s mode", mode)
	}

	if mode == "mutual" {
		if t.CAFile == "" {
			return fmt.Errorf("CA file is required for mutual TLS mode")
		}
		if t.ClientAuthPolicy != "" && !slices.Contains(clientAuthOptions, t.ClientAuthPolicy) {
			return fmt.Errorf("invalid client auth policy: %s (must be one of %v)", t.ClientAuthPolicy, clientAuthOptions)
		}
	}

	if t.MinVersion != "" && !slices.Contains(tlsVersions, t.MinVersion) {
		return fmt.Errorf("invalid TLS version: %s (must be one of %v)", t.MinVersion, tlsVersions)
	}
	return nil
}
