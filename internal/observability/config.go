package observability

import (
	"time"

	"resumematch/internal/config"
)

const defaultMetricsInterval = 15 * time.Second

// OTLPConfig selects an OTLP/HTTP collector for traces and metrics
type OTLPConfig struct {
	Enabled  bool
	Endpoint string
	Insecure bool
	Headers  map[string]string
}

// FromConfig maps the application configuration onto the observability
// settings. A nil cfg yields console exporters with every sample kept, which
// is what local runs of the server want.
func FromConfig(cfg *config.Config, version string) ObservabilityConfig {
	if cfg == nil {
		return ObservabilityConfig{
			ServiceName:     "resumematch",
			ServiceVersion:  version,
			Enabled:         true,
			ConsoleOutput:   true,
			PrettyPrint:     true,
			SampleRate:      1.0,
			MetricsInterval: defaultMetricsInterval,
			Prometheus:      PrometheusConfig{Enabled: true, Endpoint: "/metrics", Port: "9090"},
		}
	}

	src := cfg.Observability
	out := ObservabilityConfig{
		ServiceName:     src.ServiceName,
		ServiceVersion:  src.ServiceVersion,
		ServiceInstance: src.ServiceInstance,
		Enabled:         src.Enabled,
		ConsoleOutput:   src.ConsoleOutput,
		PrettyPrint:     src.PrettyPrint,
		SampleRate:      src.SampleRate,
		MetricsInterval: src.Metrics.CollectionInterval,
		Prometheus: PrometheusConfig{
			Enabled:  src.Prometheus.Enabled,
			Endpoint: src.Prometheus.Endpoint,
			Port:     src.Prometheus.Port,
		},
		OTLP: OTLPConfig{
			Enabled:  src.OTLP.Enabled,
			Endpoint: src.OTLP.Endpoint,
			Insecure: src.OTLP.Insecure,
			Headers:  src.OTLP.Headers,
		},
	}

	if out.ServiceName == "" {
		out.ServiceName = "resumematch"
	}
	if out.ServiceVersion == "" {
		out.ServiceVersion = version
	}
	if out.MetricsInterval <= 0 {
		out.MetricsInterval = defaultMetricsInterval
	}
	if out.Prometheus.Endpoint == "" {
		out.Prometheus.Endpoint = "/metrics"
	}
	return out
}
