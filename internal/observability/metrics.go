package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the application instruments. Every Record method is safe on
// a nil or zero Metrics, so callers need not check whether observability is on.
type Metrics struct {
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter

	AnalysesParsed     metric.Int64Counter
	ValidationVerdicts metric.Int64Counter
	CacheLookups       metric.Int64Counter

	RateLimitHits metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error
	m.AIProcessingTime, err = meter.Float64Histogram("resumematch_ai_processing_duration_seconds",
		metric.WithDescription("Time spent waiting for the language model"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create AI processing time metric: %w", err)
	}

	counters := []struct {
		dst         *metric.Int64Counter
		name        string
		description string
	}{
		{&m.AIRequestCount, "resumematch_ai_requests_total", "Language model requests"},
		{&m.AIErrorCount, "resumematch_ai_errors_total", "Failed language model requests"},
		{&m.AnalysesParsed, "resumematch_analyses_parsed_total", "Analyses parsed, by response dialect"},
		{&m.ValidationVerdicts, "resumematch_validation_verdicts_total", "Resume validation verdicts, by reason"},
		{&m.CacheLookups, "resumematch_cache_lookups_total", "Analysis cache lookups, by outcome"},
		{&m.RateLimitHits, "resumematch_rate_limit_hits_total", "Requests rejected by the rate limiter"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.description))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s metric: %w", c.name, err)
		}
		*c.dst = counter
	}
	return m, nil
}

// RecordAIRequest records one model call and its latency
func (m *Metrics) RecordAIRequest(ctx context.Context, operation string, duration time.Duration, err error) {
	if m == nil || m.AIRequestCount == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	)
	m.AIProcessingTime.Record(ctx, duration.Seconds(), attrs)
	m.AIRequestCount.Add(ctx, 1, attrs)
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, attrs)
	}
}

func (m *Metrics) RecordAnalysisParsed(ctx context.Context, dialect string) {
	if m == nil || m.AnalysesParsed == nil {
		return
	}
	m.AnalysesParsed.Add(ctx, 1, metric.WithAttributes(attribute.String("dialect", dialect)))
}

func (m *Metrics) RecordVerdict(ctx context.Context, reason string, valid bool) {
	if m == nil || m.ValidationVerdicts == nil {
		return
	}
	m.ValidationVerdicts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
		attribute.Bool("valid", valid),
	))
}

func (m *Metrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if m == nil || m.CacheLookups == nil {
		return
	}
	m.CacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.Bool("hit", hit)))
}

func (m *Metrics) RecordRateLimitHit(ctx context.Context, keyType string) {
	if m == nil || m.RateLimitHits == nil {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("key_type", keyType)))
}
