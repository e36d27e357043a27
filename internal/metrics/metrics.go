// Package metrics instruments the driver through the OpenTelemetry metrics
// API, exported on a Prometheus /metrics endpoint — counters for files
// scanned, indexed and skipped, records emitted per id kind, parse-frame
// overflows, and warnings per stage, the way the teacher wires OTel behind
// promhttp rather than hand-rolling Prometheus client vectors directly.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Recorder is the metrics surface the driver calls into. It
// wraps counters with a narrow, stable API so no caller imports the OTel
// metric package directly.
type Recorder struct {
	registry *prometheus.Registry

	filesScanned    metric.Int64Counter
	filesIndexed    metric.Int64Counter
	filesSkipped    metric.Int64Counter
	frameOverflows  metric.Int64Counter
	recordsEmitted  metric.Int64Counter
	warningsEmitted metric.Int64Counter
}

// New builds a Recorder backed by a fresh Prometheus registry and an OTel
// SDK MeterProvider exporting into it.
func New() (*Recorder, error) {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("new prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter("chunkdex")

	r := &Recorder{registry: registry}

	if r.filesScanned, err = meter.Int64Counter("chunkdex_files_scanned_total",
		metric.WithDescription("source files visited by the scanner")); err != nil {
		return nil, err
	}
	if r.filesIndexed, err = meter.Int64Counter("chunkdex_files_indexed_total",
		metric.WithDescription("files that ran through the analysis pipeline")); err != nil {
		return nil, err
	}
	if r.filesSkipped, err = meter.Int64Counter("chunkdex_files_skipped_total",
		metric.WithDescription("files skipped because their digest was unchanged")); err != nil {
		return nil, err
	}
	if r.frameOverflows, err = meter.Int64Counter("chunkdex_frame_overflows_total",
		metric.WithDescription("fatal-to-file parse frame stack overflows")); err != nil {
		return nil, err
	}
	if r.recordsEmitted, err = meter.Int64Counter("chunkdex_records_emitted_total",
		metric.WithDescription("emitted identifier records, labeled by id_kind"),
	); err != nil {
		return nil, err
	}
	if r.warningsEmitted, err = meter.Int64Counter("chunkdex_warnings_total",
		metric.WithDescription("recoverable lexical/tracking warnings, labeled by stage"),
	); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Recorder) FilesScanned(ctx context.Context, n int64) {
	r.filesScanned.Add(ctx, n)
}

func (r *Recorder) FilesIndexed(ctx context.Context, n int64) {
	r.filesIndexed.Add(ctx, n)
}

func (r *Recorder) FilesSkipped(ctx context.Context, n int64) {
	r.filesSkipped.Add(ctx, n)
}

func (r *Recorder) FrameOverflow(ctx context.Context) {
	r.frameOverflows.Add(ctx, 1)
}

func (r *Recorder) RecordsEmitted(ctx context.Context, kind string, n int64) {
	r.recordsEmitted.Add(ctx, n, metric.WithAttributes(attribute.String("id_kind", kind)))
}

func (r *Recorder) Warning(ctx context.Context, stage string) {
	r.warningsEmitted.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

// HTTPHandler exposes the promhttp handler wired to this Recorder's
// registry, used by internal/server to mount /metrics.
func (r *Recorder) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
