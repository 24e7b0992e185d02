package interceptor

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/httpfactory/factory"
)

const tracerName = "github.com/kbukum/httpfactory/interceptor"

// Tracing returns an interceptor that starts a client span per request and
// injects the trace context into the outbound headers. It uses whatever
// tracer provider and propagator the host application installed globally;
// without one it is a cheap no-op.
func Tracing(clientName string) factory.Interceptor {
	tracer := otel.Tracer(tracerName)
	return factory.Func(func(req *http.Request, next http.RoundTripper) (*http.Response, error) {
		ctx, span := tracer.Start(req.Context(), "HTTP "+req.Method,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("http.method", req.Method),
				attribute.String("http.url", req.URL.String()),
				attribute.String("http.client_name", clientName),
			),
		)
		defer span.End()

		req = req.WithContext(ctx)
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

		resp, err := next.RoundTrip(req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return resp, err
		}

		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		if resp.StatusCode >= 400 {
			span.SetStatus(codes.Error, resp.Status)
		}
		return resp, nil
	})
}

// RegisterTracing registers the tracing interceptor under name.
func RegisterTracing(f *factory.Factory, name string) error {
	return f.RegisterInterceptor(name, func(r *factory.Registration) {
		r.Factory = func(rc *factory.ResolveContext, clientName string) (factory.Interceptor, error) {
			return Tracing(clientName), nil
		}
	})
}
