package pipeline

import (
	"context"
	"sync"

	"resumematch/internal/types"

	"github.com/google/uuid"
)

// Observer receives every state a session passes through, tagged with the run that produced it
type Observer func(runID string, s State)

// Session is one user's analysis workspace. Only the latest run may change its
// state: starting a run cancels the previous one and discards its result.
type Session struct {
	runner   *Runner
	observer Observer

	mu     sync.Mutex
	state  State
	runID  string
	cancel context.CancelFunc
}

// NewSession creates an idle session. observer may be nil.
func NewSession(runner *Runner, observer Observer) *Session {
	if observer == nil {
		observer = func(string, State) {}
	}
	return &Session{runner: runner, observer: observer, state: Idle()}
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run analyses uploads and returns the state the run ended in.
// A run superseded by a newer one returns the context error instead.
func (s *Session) Run(ctx context.Context, uploads []types.Upload) (State, error) {
	runCtx, runID := s.begin(ctx)
	_, err := s.runner.Run(runCtx, uploads, func(e Event) { s.dispatch(runID, e) })
	return s.finish(runCtx, runID, err)
}

// RunText analyses already extracted text under the same rules as Run
func (s *Session) RunText(ctx context.Context, text string) (State, error) {
	runCtx, runID := s.begin(ctx)
	_, err := s.runner.RunText(runCtx, text, func(e Event) { s.dispatch(runID, e) })
	return s.finish(runCtx, runID, err)
}

// Retry cancels any in-flight run and returns to Idle
func (s *Session) Retry() {
	s.interrupt(Retry())
}

// Reset cancels any in-flight run and returns to Idle
func (s *Session) Reset() {
	s.interrupt(Reset())
}

// Close cancels any in-flight run. The cancelled run returns context.Canceled
// and leaves the state as it was.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop()
}

// stop cancels the current run and detaches it. Callers hold mu.
func (s *Session) stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.runID = ""
}

func (s *Session) begin(ctx context.Context) (context.Context, string) {
	runCtx, cancel := context.WithCancel(ctx)
	runID := uuid.NewString()

	s.mu.Lock()
	s.stop()
	s.cancel = cancel
	s.runID = runID
	s.mu.Unlock()

	return runCtx, runID
}

func (s *Session) finish(runCtx context.Context, runID string, runErr error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runID != runID {
		return s.state, context.Canceled
	}
	ctxErr := runCtx.Err()
	s.stop()

	if runErr != nil && ctxErr != nil {
		return s.state, ctxErr
	}
	return s.state, nil
}

// dispatch applies e if it belongs to the current run
func (s *Session) dispatch(runID string, e Event) {
	s.mu.Lock()
	if s.runID != runID {
		s.mu.Unlock()
		return
	}
	s.state = Reduce(s.state, e)
	state := s.state
	s.mu.Unlock()

	s.observer(runID, state)
}

func (s *Session) interrupt(e Event) {
	s.mu.Lock()
	s.stop()
	s.state = Reduce(s.state, e)
	state := s.state
	s.mu.Unlock()

	s.observer("", state)
}
