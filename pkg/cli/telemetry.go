package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/xwz823/vue3-admin-better/pkg/request"
)

const telemetryFlushTimeout = 5 * time.Second

// telemetry collects pipeline metrics and spans of one command run and
// writes them out when the command finishes.
type telemetry struct {
	w        io.Writer
	registry *prometheus.Registry
	metrics  *request.Metrics
	tracer   *sdktrace.TracerProvider
}

func newTelemetry(w io.Writer, withMetrics, withTrace bool) (*telemetry, error) {
	t := &telemetry{w: w}
	if withMetrics {
		t.registry = prometheus.NewRegistry()
		t.metrics = request.NewMetrics(t.registry)
	}
	if withTrace {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create span exporter: %w", err)
		}
		t.tracer = sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	}
	return t, nil
}

// options returns the client options exercising the enabled collectors.
func (t *telemetry) options() []request.Option {
	var opts []request.Option
	if t.metrics != nil {
		opts = append(opts, request.WithMetrics(t.metrics))
	}
	if t.tracer != nil {
		opts = append(opts, request.WithTracerProvider(t.tracer))
	}
	return opts
}

// Close flushes spans and prints the pipeline counters in the Prometheus
// text format.
func (t *telemetry) Close() error {
	var errs []error
	if t.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()
		errs = append(errs, t.tracer.Shutdown(ctx))
	}
	if t.registry != nil {
		families, err := t.registry.Gather()
		errs = append(errs, err)
		for _, mf := range families {
			_, err := expfmt.MetricFamilyToText(t.w, mf)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
