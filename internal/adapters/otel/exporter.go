// Package otel exports gameplay metrics to an OTLP collector, with a no-op
// fallback when the exporter is disabled.
package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/handora/gamesapi/internal/domain"
)

const (
	serviceName    = "handora-gamesapi"
	serviceVersion = "1.0.0"
)

// Config holds OTLP exporter configuration.
type Config struct {
	Enabled  bool
	Endpoint string
	Insecure bool
}

// Exporter exports session counters to an OTLP collector.
type Exporter struct {
	provider         *sdkmetric.MeterProvider
	sessionsStarted  metric.Int64Counter
	sessionsFinished metric.Int64Counter
	scoreHist        metric.Int64Histogram
	eventsHist       metric.Int64Histogram
	analyzeTotal     metric.Int64Counter
}

// NewExporter creates an OTLP metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTLP exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	sessionsStarted, err := meter.Int64Counter(
		"handora_sessions_started_total",
		metric.WithDescription("Sessions started, by game"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions started counter: %w", err)
	}

	sessionsFinished, err := meter.Int64Counter(
		"handora_sessions_finished_total",
		metric.WithDescription("Sessions finished, by game"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions finished counter: %w", err)
	}

	scoreHist, err := meter.Int64Histogram(
		"handora_session_score",
		metric.WithDescription("Final score per finished session"),
		metric.WithUnit("{point}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating score histogram: %w", err)
	}

	eventsHist, err := meter.Int64Histogram(
		"handora_session_events",
		metric.WithDescription("Recorded events per finished session"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events histogram: %w", err)
	}

	analyzeTotal, err := meter.Int64Counter(
		"handora_analyze_requests_total",
		metric.WithDescription("Language-model analysis requests, by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating analyze counter: %w", err)
	}

	return &Exporter{
		provider:         provider,
		sessionsStarted:  sessionsStarted,
		sessionsFinished: sessionsFinished,
		scoreHist:        scoreHist,
		eventsHist:       eventsHist,
		analyzeTotal:     analyzeTotal,
	}, nil
}

func (e *Exporter) SessionStarted(ctx context.Context, game domain.GameKey) {
	e.sessionsStarted.Add(ctx, 1, metric.WithAttributes(attribute.String("game_key", string(game))))
}

func (e *Exporter) SessionFinished(ctx context.Context, game domain.GameKey, score, totalEvents int) {
	attrs := metric.WithAttributes(attribute.String("game_key", string(game)))
	e.sessionsFinished.Add(ctx, 1, attrs)
	e.scoreHist.Record(ctx, int64(score), attrs)
	e.eventsHist.Record(ctx, int64(totalEvents), attrs)
}

func (e *Exporter) AnalyzeCompleted(ctx context.Context, outcome string) {
	e.analyzeTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// Close shuts down the meter provider and flushes pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
