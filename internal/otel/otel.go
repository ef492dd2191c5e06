// Package otel traces schema builds and GraphQL operations by subscribing
// to lifecycle actions on the hook bus.
package otel

import (
	"context"
	"sync"

	"github.com/hanpama/postgraph/internal/events"
	"github.com/hanpama/postgraph/internal/hooks"
	"github.com/hanpama/postgraph/internal/reqid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Setup configures an OTLP exporter and subscribes tracing to bus.
// If endpoint is empty, no telemetry is configured.
func Setup(ctx context.Context, bus *hooks.Bus, endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	unsubscribe := Subscribe(bus, tp.Tracer("postgraph"))
	return func(ctx context.Context) error {
		unsubscribe()
		return tp.Shutdown(ctx)
	}, nil
}

// Subscribe records a span per schema build and per GraphQL operation.
// Spans of one pass are correlated through the reqid stored in the context.
// The returned func removes the subscriptions.
func Subscribe(bus *hooks.Bus, tracer trace.Tracer) func() {
	s := &subscriber{tracer: tracer}
	unsubs := []func(){
		hooks.AddAction(bus, events.SchemaBuildStartHook, s.schemaStart),
		hooks.AddAction(bus, events.SchemaBuildFinishHook, s.schemaFinish),
		hooks.AddAction(bus, events.TypeSkippedHook, s.typeSkipped),
		hooks.AddAction(bus, events.GraphQLStartHook, s.graphqlStart),
		hooks.AddAction(bus, events.GraphQLFinishHook, s.graphqlFinish),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

type subscriber struct {
	tracer       trace.Tracer
	schemaSpans  sync.Map // rid -> trace.Span
	graphqlSpans sync.Map // rid -> trace.Span
}

func (s *subscriber) schemaStart(ctx context.Context, _ events.SchemaBuildStart) {
	rid, _ := reqid.FromContext(ctx)
	_, span := s.tracer.Start(ctx, "schema.build")
	span.SetAttributes(attribute.String("postgraph.request_id", rid))
	s.schemaSpans.Store(rid, span)
}

func (s *subscriber) schemaFinish(ctx context.Context, e events.SchemaBuildFinish) {
	rid, _ := reqid.FromContext(ctx)
	v, ok := s.schemaSpans.LoadAndDelete(rid)
	if !ok {
		return
	}
	span := v.(trace.Span)
	span.SetAttributes(
		attribute.Int("schema.root_fields", e.RootFields),
		attribute.Int("schema.types", e.Types),
	)
	if len(e.Conflicts) > 0 {
		span.SetAttributes(attribute.StringSlice("schema.conflicts", e.Conflicts))
	}
	span.End()
}

func (s *subscriber) typeSkipped(ctx context.Context, e events.TypeSkipped) {
	rid, _ := reqid.FromContext(ctx)
	v, ok := s.schemaSpans.Load(rid)
	if !ok {
		return
	}
	v.(trace.Span).AddEvent("post_type.skipped", trace.WithAttributes(
		attribute.String("post_type", e.PostType),
		attribute.String("reason", e.Reason),
	))
}

func (s *subscriber) graphqlStart(ctx context.Context, e events.GraphQLStart) {
	rid, _ := reqid.FromContext(ctx)
	_, span := s.tracer.Start(ctx, "graphql.operation")
	span.SetAttributes(
		attribute.String("postgraph.request_id", rid),
		attribute.String("graphql.operation.name", e.OperationName),
		attribute.String("graphql.operation.type", e.OperationType),
	)
	s.graphqlSpans.Store(rid, span)
}

func (s *subscriber) graphqlFinish(ctx context.Context, e events.GraphQLFinish) {
	rid, _ := reqid.FromContext(ctx)
	v, ok := s.graphqlSpans.LoadAndDelete(rid)
	if !ok {
		return
	}
	span := v.(trace.Span)
	span.SetAttributes(attribute.Int("graphql.error_count", len(e.Errors)))
	if len(e.Errors) > 0 {
		span.SetStatus(codes.Error, e.Errors[0].Error())
	}
	span.End()
}
