package cache

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"resumematch/internal/config"
	"resumematch/internal/errors"
	"resumematch/internal/types"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory stand-in for the Redis client
type fakeStore struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failGet error
	closed  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStore) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failGet != nil {
		return redis.NewStringResult("", f.failGet)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeStore) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeStore) Close() error {
	f.closed = true
	return nil
}

func quietLogger() *errors.Logger {
	return errors.NewLoggerTo(io.Discard, slog.LevelError)
}

func TestKey(t *testing.T) {
	k := Key("resume text")
	assert.True(t, strings.HasPrefix(k, "resumematch:analysis:"))
	assert.Len(t, strings.TrimPrefix(k, "resumematch:analysis:"), 64)
	assert.Equal(t, k, Key("resume text"))
	assert.NotEqual(t, k, Key("resume text "))
}

func TestRedisCacheRoundTrip(t *testing.T) {
	store := newFakeStore()
	c := newRedisCache(store, time.Hour, quietLogger())
	ctx := context.Background()
	key := Key("jane")

	got, err := c.GetRecord(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got, "empty cache misses")

	entry := &Entry{Dialect: "legacy", Record: &types.AnalysisRecord{SuggestedCareer: "Data Analyst"}}
	require.NoError(t, c.SetRecord(ctx, key, entry))
	assert.Equal(t, time.Hour, store.ttls[key])

	got, err = c.GetRecord(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "legacy", got.Dialect)
	assert.Equal(t, "Data Analyst", got.Record.SuggestedCareer)

	require.NoError(t, c.Close())
	assert.True(t, store.closed)
}

func TestRedisCacheDropsCorruptEntries(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not json", "{{{"},
		{"no record", `{"dialect":"structured"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.data["k"] = tt.value
			c := newRedisCache(store, time.Hour, quietLogger())

			got, err := c.GetRecord(context.Background(), "k")
			require.NoError(t, err)
			assert.Nil(t, got)
			assert.NotContains(t, store.data, "k")
		})
	}
}

func TestRedisCacheGetError(t *testing.T) {
	store := newFakeStore()
	store.failGet = stderrors.New("connection reset")
	c := newRedisCache(store, time.Hour, quietLogger())

	_, err := c.GetRecord(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestNopCache(t *testing.T) {
	c, err := New(context.Background(), config.CacheConfig{Enabled: false}, quietLogger())
	require.NoError(t, err)
	require.IsType(t, NopCache{}, c)

	require.NoError(t, c.SetRecord(context.Background(), "k", &Entry{}))
	got, err := c.GetRecord(context.Background(), "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}
