// Package observe holds the OpenTelemetry metric instruments for the typing
// pipeline and the HTTP layer, plus the Prometheus exporter bridge that
// serves them on /metrics.
//
// Tests should build [Metrics] with [NewMetrics] over a meter provider
// backed by a ManualReader so that readings do not leak between tests.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/ayusman/signetic"

// Metrics holds every instrument the application records. The OTel types
// are safe for concurrent use.
type Metrics struct {
	// Frames counts processed frames. Attribute: present (true|false).
	Frames metric.Int64Counter

	// FrameDuration tracks time spent classifying and stabilizing one frame.
	FrameDuration metric.Float64Histogram

	// Commits counts symbols typed into the text buffer. Attribute: symbol.
	Commits metric.Int64Counter

	// AutoSpaces counts spaces appended when the hand left the frame.
	AutoSpaces metric.Int64Counter

	// WaveWords counts wave gestures that produced a word.
	WaveWords metric.Int64Counter

	// Edits counts external text edits. Attribute: op.
	Edits metric.Int64Counter

	// DetectorErrors counts failed landmark detections.
	DetectorErrors metric.Int64Counter

	// HTTPRequestDuration tracks API latency. Attributes: method, path.
	HTTPRequestDuration metric.Float64Histogram
}

// frameBuckets are histogram bounds in seconds around a 33ms frame budget.
var frameBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1,
}

// NewMetrics creates all instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Frames, err = m.Int64Counter("signetic.frames",
		metric.WithDescription("Frames processed by the typing pipeline."),
	); err != nil {
		return nil, err
	}
	if met.FrameDuration, err = m.Float64Histogram("signetic.frame.duration",
		metric.WithDescription("Time to classify and stabilize one frame."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(frameBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Commits, err = m.Int64Counter("signetic.commits",
		metric.WithDescription("Symbols committed to the text buffer by symbol."),
	); err != nil {
		return nil, err
	}
	if met.AutoSpaces, err = m.Int64Counter("signetic.auto_spaces",
		metric.WithDescription("Spaces appended on hand loss."),
	); err != nil {
		return nil, err
	}
	if met.WaveWords, err = m.Int64Counter("signetic.wave_words",
		metric.WithDescription("Words produced by the wave gesture."),
	); err != nil {
		return nil, err
	}
	if met.Edits, err = m.Int64Counter("signetic.edits",
		metric.WithDescription("External text edits by operation."),
	); err != nil {
		return nil, err
	}
	if met.DetectorErrors, err = m.Int64Counter("signetic.detector.errors",
		metric.WithDescription("Landmark detection failures."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("signetic.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// RecordFrame records one processed frame.
func (m *Metrics) RecordFrame(ctx context.Context, present bool, d time.Duration) {
	attrs := metric.WithAttributes(attribute.Bool("present", present))
	m.Frames.Add(ctx, 1, attrs)
	m.FrameDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordCommit records a typed symbol.
func (m *Metrics) RecordCommit(ctx context.Context, symbol string) {
	m.Commits.Add(ctx, 1, metric.WithAttributes(attribute.String("symbol", symbol)))
}

// RecordEdit records an external edit.
func (m *Metrics) RecordEdit(ctx context.Context, op string) {
	m.Edits.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}
