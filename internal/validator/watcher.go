package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"resumematch/internal/errors"
)

// VocabularyWatcher reloads a vocabulary file into a Validator when it changes
type VocabularyWatcher struct {
	mu sync.Mutex

	path      string
	validator *Validator
	logger    *errors.Logger

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer
	lastModTime   time.Time

	stopChan   chan struct{}
	reloadChan chan struct{}
	running    bool

	// onReload is called after every reload attempt; tests hook into it
	onReload func(error)
}

// NewVocabularyWatcher creates a watcher for path feeding v
func NewVocabularyWatcher(path string, v *Validator, debounceDelay time.Duration, logger *errors.Logger) *VocabularyWatcher {
	if debounceDelay == 0 {
		debounceDelay = 500 * time.Millisecond
	}
	return &VocabularyWatcher{
		path:          path,
		validator:     v,
		logger:        logger,
		debounceDelay: debounceDelay,
		reloadChan:    make(chan struct{}, 1),
	}
}

// Start begins watching the vocabulary file. A stopped watcher may be started again.
func (w *VocabularyWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("vocabulary watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory so atomic replace-by-rename is seen too
	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	w.fsWatcher = watcher

	if stat, err := os.Stat(w.path); err == nil {
		w.lastModTime = stat.ModTime()
	}

	w.stopChan = make(chan struct{})
	w.running = true
	go w.watchLoop(watcher, w.stopChan)

	if w.logger != nil {
		w.logger.Info("Vocabulary watcher started", "file", w.path, "debounce_delay", w.debounceDelay)
	}
	return nil
}

// Stop stops the watcher
func (w *VocabularyWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	close(w.stopChan)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.running = false

	if err := w.fsWatcher.Close(); err != nil {
		return fmt.Errorf("failed to close file watcher: %w", err)
	}
	return nil
}

// IsRunning returns whether the watcher is active
func (w *VocabularyWatcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *VocabularyWatcher) watchLoop(fsw *fsnotify.Watcher, stop <-chan struct{}) {
	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if w.shouldProcessEvent(event) {
				w.scheduleReload()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.LogError(err, "Vocabulary watcher error")
			}

		case <-w.reloadChan:
			if w.hasChanged() {
				w.reload()
			}

		case <-stop:
			return
		}
	}
}

func (w *VocabularyWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *VocabularyWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.reloadChan <- struct{}{}:
		default:
		}
	})
}

func (w *VocabularyWatcher) hasChanged() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	stat, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	if stat.ModTime().Equal(w.lastModTime) {
		return false
	}
	w.lastModTime = stat.ModTime()
	return true
}

func (w *VocabularyWatcher) reload() {
	vocab, err := LoadVocabulary(w.path)
	if err != nil {
		// keep serving the previous vocabulary
		if w.logger != nil {
			w.logger.LogError(err, "Failed to reload vocabulary", "file", w.path)
		}
	} else {
		w.validator.SetVocabulary(vocab)
		if w.logger != nil {
			w.logger.Info("Vocabulary reloaded", "file", w.path,
				"negative_terms", len(vocab.Negative), "positive_terms", len(vocab.Positive))
		}
	}

	if w.onReload != nil {
		w.onReload(err)
	}
}
