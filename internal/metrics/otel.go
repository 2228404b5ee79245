package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const defaultServiceName = "chalkboard"

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	rec := newRecorder(nil)
	otelInst, err := instrumentFactory(provider, rec.LiveGames)
	if err != nil {
		return nil, nil, nil, err
	}
	rec.otel = otelInst

	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

type otelInstruments struct {
	ctx              context.Context
	requests         metric.Int64Counter
	requestLatencyMs metric.Float64Histogram
	feedAttempts     metric.Int64Counter
	feedErrors       metric.Int64Counter
	feedLatencyMs    metric.Float64Histogram
	rateLimitHits    metric.Int64Counter
	retryAfterMs     metric.Float64Histogram
	ticks            metric.Int64Counter
	tickErrors       metric.Int64Counter
	skippedTicks     metric.Int64Counter
	tickLatencyMs    metric.Float64Histogram
	liveGames        metric.Int64ObservableGauge
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

func newOtelInstruments(provider metric.MeterProvider, liveGames func() int64) (*otelInstruments, error) {
	meter := provider.Meter(defaultServiceName)
	inst := &otelInstruments{ctx: context.Background()}

	var err error
	counters := []struct {
		name string
		dst  *metric.Int64Counter
	}{
		{"http_requests_total", &inst.requests},
		{"feed_attempts_total", &inst.feedAttempts},
		{"feed_errors_total", &inst.feedErrors},
		{"feed_rate_limit_hits_total", &inst.rateLimitHits},
		{"poller_ticks_total", &inst.ticks},
		{"poller_errors_total", &inst.tickErrors},
		{"poller_skipped_ticks_total", &inst.skippedTicks},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name); err != nil {
			return nil, err
		}
	}

	histograms := []struct {
		name string
		dst  *metric.Float64Histogram
	}{
		{"http_request_duration_ms", &inst.requestLatencyMs},
		{"feed_duration_ms", &inst.feedLatencyMs},
		{"feed_retry_after_ms", &inst.retryAfterMs},
		{"poller_tick_duration_ms", &inst.tickLatencyMs},
	}
	for _, h := range histograms {
		if *h.dst, err = meter.Float64Histogram(h.name); err != nil {
			return nil, err
		}
	}

	inst.liveGames, err = meter.Int64ObservableGauge("dashboard_live_games",
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			if liveGames != nil {
				o.Observe(liveGames())
			}
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return inst, nil
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordFeedAttempt(feed, league string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrFeed, feed), attribute.String(AttrLeague, league)}
	o.recordCounter(o.feedAttempts, 1, attrs...)
	o.recordHistogram(o.feedLatencyMs, float64(duration.Milliseconds()), attrs...)
	if err != nil {
		o.recordCounter(o.feedErrors, 1, attrs...)
	}
}

func (o *otelInstruments) recordRateLimit(feed, league string, retryAfter time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrFeed, feed), attribute.String(AttrLeague, league)}
	o.recordCounter(o.rateLimitHits, 1, attrs...)
	if retryAfter > 0 {
		o.recordHistogram(o.retryAfterMs, float64(retryAfter.Milliseconds()), attrs...)
	}
}

func (o *otelInstruments) recordTick(duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.recordCounter(o.ticks, 1)
	o.recordHistogram(o.tickLatencyMs, float64(duration.Milliseconds()))
	if err != nil {
		o.recordCounter(o.tickErrors, 1)
	}
}

func (o *otelInstruments) recordSkippedTick() {
	if o == nil {
		return
	}
	o.recordCounter(o.skippedTicks, 1)
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}
