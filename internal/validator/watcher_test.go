package validator

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resumematch/internal/errors"
)

func newTestLogger() *errors.Logger {
	return errors.NewLoggerTo(os.Stderr, slog.LevelError)
}

func writeVocabulary(t *testing.T, path, negative string) {
	t.Helper()
	content := "negative:\n" + negative + "positive: [experience, education, skills]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestLoadVocabulary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocabulary.yaml")
	writeVocabulary(t, path, "  - Invoice\n  - receipt\n")

	vocab, err := LoadVocabulary(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"invoice", "receipt"}, vocab.Negative)
	assert.Equal(t, []string{"experience", "education", "skills"}, vocab.Positive)
	// unspecified lists keep defaults
	assert.Equal(t, DefaultVocabulary().Skills, vocab.Skills)
}

func TestLoadVocabularyErrors(t *testing.T) {
	_, err := LoadVocabulary(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("negative: []\n"), 0600))
	_, err = LoadVocabulary(path)
	assert.ErrorContains(t, err, "negative vocabulary is empty")
}

func TestVocabularyWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocabulary.yaml")
	writeVocabulary(t, path, "  - invoice\n")

	v := New(DefaultVocabulary())
	w := NewVocabularyWatcher(path, v, 10*time.Millisecond, newTestLogger())
	reloaded := make(chan error, 4)
	w.onReload = func(err error) { reloaded <- err }

	require.NoError(t, w.Start())
	t.Cleanup(func() { _ = w.Stop() })
	assert.True(t, w.IsRunning())
	assert.Error(t, w.Start())

	// make sure the modification time moves forward
	future := time.Now().Add(2 * time.Second)
	writeVocabulary(t, path, "  - jane\n  - leeds\n  - acme\n")
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case err := <-reloaded:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("vocabulary was not reloaded")
	}

	assert.Equal(t, []string{"jane", "leeds", "acme"}, v.Vocabulary().Negative)
	assert.Equal(t, ReasonNonResume, v.Validate(validResume).Reason)

	require.NoError(t, w.Stop())
	assert.False(t, w.IsRunning())
}

func TestVocabularyWatcherRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocabulary.yaml")
	writeVocabulary(t, path, "  - invoice\n")

	v := New(DefaultVocabulary())
	w := NewVocabularyWatcher(path, v, 10*time.Millisecond, newTestLogger())
	reloaded := make(chan error, 4)
	w.onReload = func(err error) { reloaded <- err }

	require.NoError(t, w.Start())
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop(), "stopping twice is a no-op")

	require.NoError(t, w.Start())
	t.Cleanup(func() { _ = w.Stop() })
	assert.True(t, w.IsRunning())

	future := time.Now().Add(2 * time.Second)
	writeVocabulary(t, path, "  - receipt\n")
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case err := <-reloaded:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("restarted watcher did not reload the vocabulary")
	}
	assert.Equal(t, []string{"receipt"}, v.Vocabulary().Negative)
}
