package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resumematch/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestLimiterManagerAllow(t *testing.T) {
	m := NewLimiterManager(60, 2, errors.NewLoggerTo(io.Discard, slog.LevelError))
	defer m.Close()

	assert.True(t, m.Allow("ip:a"))
	assert.True(t, m.Allow("ip:a"))
	assert.False(t, m.Allow("ip:a"), "burst exhausted")
	assert.True(t, m.Allow("ip:b"), "keys have separate buckets")

	stats := m.Stats()
	assert.True(t, stats.Enabled)
	assert.Equal(t, 2, stats.ActiveClients)
	assert.Equal(t, 2, stats.BurstCapacity)
	assert.InDelta(t, 60.0, stats.RatePerMinute, 0.001)
}

func TestLimiterManagerReserveReportsWait(t *testing.T) {
	m := NewLimiterManager(1, 1, nil)
	defer m.Close()

	ok, wait := m.Reserve("ip:a")
	assert.True(t, ok)
	assert.Zero(t, wait)

	ok, wait = m.Reserve("ip:a")
	assert.False(t, ok)
	assert.Greater(t, wait, 59*time.Second)
	assert.LessOrEqual(t, wait, time.Minute)

	// a rejected request does not consume a token, so the wait does not grow
	_, again := m.Reserve("ip:a")
	assert.LessOrEqual(t, again, wait)
}

func TestLimiterManagerEvictIdle(t *testing.T) {
	m := NewLimiterManager(60, 1, nil)
	defer m.Close()

	m.Allow("ip:old")
	m.mu.Lock()
	m.buckets["ip:old"].lastSeen = time.Now().Add(-time.Hour)
	m.mu.Unlock()
	m.Allow("ip:new")

	m.evictIdle(time.Now().Add(-time.Minute))

	assert.Equal(t, 1, m.Stats().ActiveClients)
}

func TestLimiterManagerCloseTwice(t *testing.T) {
	m := NewLimiterManager(60, 1, nil)
	assert.NotPanics(t, func() {
		m.Close()
		m.Close()
	})
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		byAPIKey bool
		byIP     bool
		wantKey  string
		wantType string
	}{
		{"by ip", nil, false, true, "ip:192.0.2.1", "ip"},
		{"api key preferred", map[string]string{"X-API-Key": "k1"}, true, true, "api:k1", "api"},
		{"bearer token", map[string]string{"Authorization": "Bearer k2"}, true, false, "api:k2", "api"},
		{"api key missing falls back to ip", nil, true, true, "ip:192.0.2.1", "ip"},
		{"nothing enabled", map[string]string{"X-API-Key": "k1"}, false, false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			key, keyType := getRateLimitKey(req, tt.byAPIKey, tt.byIP)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantType, keyType)
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "203.0.113.9:5555", nil, "203.0.113.9"},
		{"forwarded for", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "garbage, 198.51.100.2, 10.0.0.1"}, "198.51.100.2"},
		{"real ip", "10.0.0.1:1", map[string]string{"X-Real-IP": "198.51.100.3"}, "198.51.100.3"},
		{"invalid real ip ignored", "10.0.0.1:1", map[string]string{"X-Real-IP": "nope"}, "10.0.0.1"},
		{"no port", "unix", nil, "unix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}
