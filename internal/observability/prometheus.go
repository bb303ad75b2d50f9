package observability

import (
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"resumematch/internal/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// PrometheusConfig controls the scrape endpoint. An empty Port mounts the
// endpoint on the API listener instead of a separate one.
type PrometheusConfig struct {
	Enabled  bool
	Endpoint string
	Port     string
}

// prometheusExporter bridges the meter provider into a private registry
type prometheusExporter struct {
	registry *prometheus.Registry
	reader   sdkmetric.Reader
}

func newPrometheusExporter() (*prometheusExporter, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register go collector: %w", err)
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("failed to register process collector: %w", err)
	}

	reader, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}
	return &prometheusExporter{registry: registry, reader: reader}, nil
}

func (e *prometheusExporter) handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{
		Registry:          e.registry,
		EnableOpenMetrics: true,
	})
}

// serve exposes the registry on its own listener. The listener is bound
// before returning so a port clash fails startup.
func (e *prometheusExporter) serve(cfg PrometheusConfig, logger *errors.Logger) (*http.Server, error) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Endpoint, e.handler())

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for Prometheus scrapes on port %s: %w", cfg.Port, err)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	logger.Info("Serving Prometheus metrics", "address", ln.Addr().String(), "path", cfg.Endpoint)
	go func() {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "Prometheus metrics server stopped")
		}
	}()
	return srv, nil
}
