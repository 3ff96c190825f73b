package middleware

import (
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/noel-archive/orchid/errors"
	"github.com/noel-archive/orchid/httpclient"
	"github.com/noel-archive/orchid/observability"
)

// Tracing opens one client span per call, injects its context into every
// hop's headers and ends it with the call's outcome. A nil tracer uses the
// global provider; a nil propagator uses trace-context plus baggage.
func Tracing(tracer trace.Tracer, propagator propagation.TextMapPropagator) httpclient.Middleware {
	if tracer == nil {
		tracer = observability.Tracer(nil)
	}
	if propagator == nil {
		propagator = observability.Propagator()
	}
	var spans sync.Map // call id -> trace.Span

	return httpclient.Middleware{
		Name: "tracing",
		OnRequest: func(_ *httpclient.Client, req *httpclient.Request) error {
			var span trace.Span
			if v, ok := spans.Load(req.ID()); ok {
				span = v.(trace.Span)
				span.AddEvent("redirect", trace.WithAttributes(
					attribute.String(observability.AttrURL, req.URL().String()),
					attribute.Int(observability.AttrHops, req.Hop()),
				))
			} else {
				_, span = tracer.Start(req.Context(), observability.SpanName(string(req.Method())),
					trace.WithSpanKind(trace.SpanKindClient),
					trace.WithAttributes(
						attribute.String(observability.AttrMethod, string(req.Method())),
						attribute.String(observability.AttrURL, req.URL().String()),
						attribute.String(observability.AttrHost, req.URL().Hostname()),
						attribute.String(observability.AttrRequestID, req.ID()),
					))
				spans.Store(req.ID(), span)
			}

			carrier := propagation.MapCarrier{}
			propagator.Inject(trace.ContextWithSpan(req.Context(), span), carrier)
			for k, v := range carrier {
				req.SetHeader(k, v)
			}
			return nil
		},
		OnResponse: func(_ *httpclient.Client, res *httpclient.Response) error {
			v, ok := spans.LoadAndDelete(res.Request().ID())
			if !ok {
				return nil
			}
			span := v.(trace.Span)
			span.SetAttributes(
				attribute.Int(observability.AttrStatusCode, res.StatusCode),
				attribute.Int(observability.AttrHops, res.Request().Hop()),
			)
			span.End()
			return nil
		},
		OnError: func(_ *httpclient.Client, req *httpclient.Request, err error) error {
			v, ok := spans.LoadAndDelete(req.ID())
			if !ok {
				return nil
			}
			span := v.(trace.Span)
			if se, ok := httpclient.StatusError(err); ok {
				span.SetAttributes(attribute.Int(observability.AttrStatusCode, se.StatusCode))
			}
			span.SetAttributes(attribute.String(observability.AttrErrorCode, string(errors.CodeOf(err))))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			return nil
		},
	}
}
