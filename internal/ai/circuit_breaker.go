package ai

import (
	"context"
	stderrors "errors"

	"resumematch/internal/config"
	"resumematch/internal/errors"

	"github.com/sony/gobreaker/v2"
)

// modelBreaker stops calling a model whose recent calls mostly failed.
// A nil *modelBreaker calls straight through.
type modelBreaker struct {
	cb *gobreaker.CircuitBreaker[struct{}]
}

// BreakerStats describes one breaker for GET /stats
type BreakerStats struct {
	Enabled             bool   `json:"enabled"`
	Name                string `json:"name,omitempty"`
	State               string `json:"state,omitempty"`
	Requests            uint32 `json:"requests"`
	TotalFailures       uint32 `json:"total_failures"`
	ConsecutiveFailures uint32 `json:"consecutive_failures"`
}

// newModelBreaker returns nil when the breaker is disabled in cfg
func newModelBreaker(provider string, cfg config.CircuitBreakerConfig, logger *errors.Logger) *modelBreaker {
	if !cfg.Enabled {
		return nil
	}

	return &modelBreaker{cb: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "ai-" + provider,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests || counts.Requests == 0 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Model circuit breaker changed state",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
	})}
}

// countsAsSuccess keeps caller cancellations and consumer errors out of the
// failure ratio
func countsAsSuccess(err error) bool {
	if err == nil || stderrors.Is(err, context.Canceled) {
		return true
	}
	var ye *yieldError
	return stderrors.As(err, &ye)
}

// guarded runs fn under b
func guarded[T any](b *modelBreaker, fn func() (T, error)) (T, error) {
	if b == nil {
		return fn()
	}
	var out T
	_, err := b.cb.Execute(func() (struct{}, error) {
		var err error
		out, err = fn()
		return struct{}{}, err
	})
	return out, err
}

func (b *modelBreaker) stats() BreakerStats {
	if b == nil {
		return BreakerStats{}
	}
	counts := b.cb.Counts()
	return BreakerStats{
		Enabled:             true,
		Name:                b.cb.Name(),
		State:               b.cb.State().String(),
		Requests:            counts.Requests,
		TotalFailures:       counts.TotalFailures,
		ConsecutiveFailures: counts.ConsecutiveFailures,
	}
}

// healthy reports whether calls currently go through unrestricted
func (b *modelBreaker) healthy() bool {
	return b == nil || b.cb.State() == gobreaker.StateClosed
}
