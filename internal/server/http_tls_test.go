package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"resumematch/internal/config"
	"resumematch/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSelfSigned writes a throwaway certificate and key and returns their paths.
// The certificate doubles as its own CA.
func writeSelfSigned(t *testing.T) (certFile, keyFile string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "localhost"},
		DNSNames:              []string{"localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	dir := t.TempDir()
	certFile = filepath.Join(dir, "server.crt")
	keyFile = filepath.Join(dir, "server.key")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600))
	return certFile, keyFile
}

func tlsTestServer(settings config.TLSConfig) *Server {
	return &Server{TLSConfig: settings, Logger: errors.NewLoggerTo(io.Discard, slog.LevelError)}
}

func TestConfigureTLSDisabled(t *testing.T) {
	for _, mode := range []string{"", "disabled"} {
		httpServer := &http.Server{Addr: "localhost:0"}
		require.NoError(t, tlsTestServer(config.TLSConfig{Mode: mode}).configureTLS(httpServer))
		assert.Nil(t, httpServer.TLSConfig)
	}
}

func TestConfigureTLSModes(t *testing.T) {
	certFile, keyFile := writeSelfSigned(t)

	t.Run("server", func(t *testing.T) {
		httpServer := &http.Server{Addr: "localhost:0"}
		s := tlsTestServer(config.TLSConfig{Mode: "server", CertFile: certFile, KeyFile: keyFile, MinVersion: "1.3"})
		require.NoError(t, s.configureTLS(httpServer))
		require.NotNil(t, httpServer.TLSConfig)
		assert.Len(t, httpServer.TLSConfig.Certificates, 1)
		assert.Equal(t, uint16(tls.VersionTLS13), httpServer.TLSConfig.MinVersion)
		assert.Equal(t, tls.NoClientCert, httpServer.TLSConfig.ClientAuth)
	})

	t.Run("mutual", func(t *testing.T) {
		httpServer := &http.Server{Addr: "localhost:0"}
		s := tlsTestServer(config.TLSConfig{
			Mode: "mutual", CertFile: certFile, KeyFile: keyFile, CAFile: certFile, ClientAuthPolicy: "verify",
		})
		require.NoError(t, s.configureTLS(httpServer))
		assert.Equal(t, uint16(tls.VersionTLS12), httpServer.TLSConfig.MinVersion)
		assert.Equal(t, tls.VerifyClientCertIfGiven, httpServer.TLSConfig.ClientAuth)
		assert.NotNil(t, httpServer.TLSConfig.ClientCAs)
	})
}

func TestConfigureTLSErrors(t *testing.T) {
	certFile, keyFile := writeSelfSigned(t)
	dir := t.TempDir()
	badCA := filepath.Join(dir, "ca.pem")
	require.NoError(t, os.WriteFile(badCA, []byte("not a certificate"), 0o600))

	tests := []struct {
		name    string
		tls     config.TLSConfig
		wantErr string
	}{
		{"unknown mode", config.TLSConfig{Mode: "sometimes"}, "invalid TLS mode"},
		{"missing cert files", config.TLSConfig{Mode: "server", CertFile: filepath.Join(dir, "missing.crt"), KeyFile: filepath.Join(dir, "missing.key")}, "failed to load certificate"},
		{"bad version", config.TLSConfig{Mode: "server", CertFile: certFile, KeyFile: keyFile, MinVersion: "1.0"}, "unsupported TLS version"},
		{"mutual without ca", config.TLSConfig{Mode: "mutual", CertFile: certFile, KeyFile: keyFile}, "CA certificate is required"},
		{"mutual with bad ca", config.TLSConfig{Mode: "mutual", CertFile: certFile, KeyFile: keyFile, CAFile: badCA}, "no certificates found"},
		{"bad policy", config.TLSConfig{Mode: "mutual", CertFile: certFile, KeyFile: keyFile, CAFile: certFile, ClientAuthPolicy: "maybe"}, "unsupported client auth policy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tlsTestServer(tt.tls).configureTLS(&http.Server{Addr: "localhost:0"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
