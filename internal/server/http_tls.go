package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
)

var tlsVersions = map[string]uint16{
	"":    tls.VersionTLS12,
	"1.2": tls.VersionTLS12,
	"1.3": tls.VersionTLS13,
}

// clientAuthPolicies maps tls.client_auth_policy onto crypto/tls. An empty
// policy requires a verified client certificate.
var clientAuthPolicies = map[string]tls.ClientAuthType{
	"":        tls.RequireAndVerifyClientCert,
	"require": tls.RequireAndVerifyClientCert,
	"request": tls.RequestClientCert,
	"verify":  tls.VerifyClientCertIfGiven,
}

// configureTLS attaches a TLS configuration to httpServer unless TLS is disabled
func (s *Server) configureTLS(httpServer *http.Server) error {
	mode := s.TLSConfig.Mode
	switch mode {
	case "", "disabled":
		s.Logger.Info("TLS disabled, serving plain HTTP", "address", httpServer.Addr)
		return nil
	case "server", "mutual":
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", mode)
	}

	tlsConfig, err := s.buildTLSConfig()
	if err != nil {
		return fmt.Errorf("failed to set up TLS: %w", err)
	}
	httpServer.TLSConfig = tlsConfig

	s.Logger.Info("TLS enabled",
		"address", httpServer.Addr,
		"mode", mode,
		"min_version", tls.VersionName(tlsConfig.MinVersion),
		"client_auth", tlsConfig.ClientAuth.String())
	return nil
}

// buildTLSConfig loads the key pair and, in mutual mode, the client CA pool
func (s *Server) buildTLSConfig() (*tls.Config, error) {
	settings := s.TLSConfig

	minVersion, ok := tlsVersions[settings.MinVersion]
	if !ok {
		return nil, fmt.Errorf("unsupported TLS version %q", settings.MinVersion)
	}

	cert, err := tls.LoadX509KeyPair(settings.CertFile, settings.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate %s and key %s: %w", settings.CertFile, settings.KeyFile, err)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   minVersion,
	}
	if settings.Mode != "mutual" {
		return tlsConfig, nil
	}

	policy, ok := clientAuthPolicies[settings.ClientAuthPolicy]
	if !ok {
		return nil, fmt.Errorf("unsupported client auth policy %q", settings.ClientAuthPolicy)
	}
	pool, err := loadCACertificatePool(settings.CAFile)
	if err != nil {
		return nil, err
	}
	tlsConfig.ClientAuth = policy
	tlsConfig.ClientCAs = pool
	return tlsConfig, nil
}

// loadCACertificatePool reads the PEM bundle used to verify client certificates
func loadCACertificatePool(caFile string) (*x509.CertPool, error) {
	if caFile == "" {
		return nil, fmt.Errorf("CA certificate is required for mutual TLS mode")
	}

	pem, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in CA file %s", caFile)
	}
	return pool, nil
}
