package observability

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"resumematch/internal/errors"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ObservabilityConfig holds configuration for observability
type ObservabilityConfig struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
	ConsoleOutput  bool
	PrettyPrint    bool
	SampleRate     float64

	// ServiceInstance defaults to ServiceName plus "-1"
	ServiceInstance string
	MetricsInterval time.Duration

	Prometheus PrometheusConfig
	OTLP       OTLPConfig
}

// ObservabilityManager owns the tracer and meter providers and whatever
// exporters the configuration selects. Traces go to the console, to an OTLP
// collector or nowhere; metrics may go to several readers at once.
type ObservabilityManager struct {
	config ObservabilityConfig
	logger *errors.Logger

	resource       *resource.Resource
	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metrics        *Metrics

	// manualReader is installed only when no other reader is configured
	manualReader     *sdkmetric.ManualReader
	prometheus       *prometheusExporter
	prometheusServer *http.Server

	shutdownFuncs []func(context.Context) error
}

// NewObservabilityManager builds the providers described by obsConfig. A
// disabled configuration yields a manager whose middleware, tracer and
// metrics are no-ops. A nil logger discards output.
func NewObservabilityManager(obsConfig ObservabilityConfig, logger *errors.Logger) (*ObservabilityManager, error) {
	if logger == nil {
		logger = errors.NewLoggerTo(io.Discard, slog.LevelError)
	}
	om := &ObservabilityManager{config: obsConfig, logger: logger}
	if !obsConfig.Enabled {
		return om, nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(obsConfig.ServiceName),
		semconv.ServiceVersion(obsConfig.ServiceVersion),
		semconv.ServiceInstanceID(om.serviceInstanceID()),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize resource: %w", err)
	}
	om.resource = res

	if err := om.initTracing(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := om.initMetrics(); err != nil {
		_ = om.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.Debug("Observability initialized",
		"service", obsConfig.ServiceName,
		"instance", om.serviceInstanceID(),
		"console", obsConfig.ConsoleOutput,
		"otlp", obsConfig.OTLP.Enabled,
		"prometheus", obsConfig.Prometheus.Enabled)
	return om, nil
}

func (om *ObservabilityManager) initTracing() error {
	exporter, err := om.spanExporter()
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(om.resource),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(om.config.SampleRate))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	om.tracerProvider = tp
	om.shutdownFuncs = append(om.shutdownFuncs, tp.Shutdown)
	return nil
}

// spanExporter picks the console before OTLP; with neither, spans are dropped
func (om *ObservabilityManager) spanExporter() (trace.SpanExporter, error) {
	switch {
	case om.config.ConsoleOutput:
		var opts []stdouttrace.Option
		if om.config.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		return stdouttrace.New(opts...)
	case om.config.OTLP.Enabled:
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(om.config.OTLP.Endpoint)}
		if om.config.OTLP.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(om.config.OTLP.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(om.config.OTLP.Headers))
		}
		return otlptracehttp.New(context.Background(), opts...)
	default:
		return discardSpans{}, nil
	}
}

func (om *ObservabilityManager) initMetrics() error {
	var readers []sdkmetric.Reader
	for _, add := range []func() (sdkmetric.Reader, error){
		om.consoleReader,
		om.otlpReader,
		om.prometheusReader,
	} {
		reader, err := add()
		if err != nil {
			return err
		}
		if reader != nil {
			readers = append(readers, reader)
		}
	}
	if len(readers) == 0 {
		om.manualReader = sdkmetric.NewManualReader()
		readers = append(readers, om.manualReader)
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(om.resource)}
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}
	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	om.meterProvider = mp
	om.shutdownFuncs = append(om.shutdownFuncs, mp.Shutdown)

	metrics, err := newMetrics(mp.Meter(om.config.ServiceName))
	if err != nil {
		return err
	}
	om.metrics = metrics
	return nil
}

func (om *ObservabilityManager) consoleReader() (sdkmetric.Reader, error) {
	if !om.config.ConsoleOutput {
		return nil, nil
	}
	exporter, err := stdoutmetric.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create console metric exporter: %w", err)
	}
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(om.metricsInterval())), nil
}

func (om *ObservabilityManager) otlpReader() (sdkmetric.Reader, error) {
	if !om.config.OTLP.Enabled {
		return nil, nil
	}
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpointURL(om.config.OTLP.Endpoint)}
	if om.config.OTLP.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(om.config.OTLP.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(om.config.OTLP.Headers))
	}
	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(om.metricsInterval())), nil
}

// prometheusReader bridges metrics into a Prometheus registry. The registry
// gets its own listener when a port is configured; otherwise the server
// mounts MetricsHandler.
func (om *ObservabilityManager) prometheusReader() (sdkmetric.Reader, error) {
	if !om.config.Prometheus.Enabled {
		return nil, nil
	}
	exporter, err := newPrometheusExporter()
	if err != nil {
		return nil, err
	}
	om.prometheus = exporter

	if om.config.Prometheus.Port != "" {
		srv, err := exporter.serve(om.config.Prometheus, om.logger)
		if err != nil {
			return nil, err
		}
		om.prometheusServer = srv
		om.shutdownFuncs = append(om.shutdownFuncs, srv.Shutdown)
	}
	return exporter.reader, nil
}

// MetricsHandler returns the scrape path and handler when Prometheus metrics
// are enabled without a dedicated port. The handler is nil otherwise.
func (om *ObservabilityManager) MetricsHandler() (string, http.Handler) {
	if om == nil || om.prometheus == nil || om.prometheusServer != nil {
		return "", nil
	}
	return om.config.Prometheus.Endpoint, om.prometheus.handler()
}

// GetMetrics never returns nil
func (om *ObservabilityManager) GetMetrics() *Metrics {
	if om == nil || om.metrics == nil {
		return &Metrics{}
	}
	return om.metrics
}

// HTTPMiddleware traces and measures every request when observability is enabled
func (om *ObservabilityManager) HTTPMiddleware() func(http.Handler) http.Handler {
	if !om.config.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}
	return otelhttp.NewMiddleware(
		om.config.ServiceName,
		otelhttp.WithTracerProvider(om.tracerProvider),
		otelhttp.WithMeterProvider(om.meterProvider),
	)
}

func (om *ObservabilityManager) Tracer(name string) oteltrace.Tracer {
	if !om.config.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return om.tracerProvider.Tracer(name)
}

// Shutdown flushes and stops components in reverse start order. Every
// component is stopped even if an earlier one fails.
func (om *ObservabilityManager) Shutdown(ctx context.Context) error {
	var errs []error
	for _, shutdown := range slices.Backward(om.shutdownFuncs) {
		if err := shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	om.shutdownFuncs = nil
	return stderrors.Join(errs...)
}

func (om *ObservabilityManager) serviceInstanceID() string {
	if om.config.ServiceInstance != "" {
		return om.config.ServiceInstance
	}
	return om.config.ServiceName + "-1"
}

func (om *ObservabilityManager) metricsInterval() time.Duration {
	if om.config.MetricsInterval > 0 {
		return om.config.MetricsInterval
	}
	return defaultMetricsInterval
}

// discardSpans drops every span
type discardSpans struct{}

func (discardSpans) ExportSpans(context.Context, []trace.ReadOnlySpan) error { return nil }
func (discardSpans) Shutdown(context.Context) error                          { return nil }
