package interceptor

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kbukum/httpfactory/factory"
)

// RequestIDOptions configures the request-id interceptor. Bound from the
// "RequestId" configuration section.
type RequestIDOptions struct {
	// Header is the header carrying the request id.
	Header string `yaml:"header" mapstructure:"header"`
}

// RequestID returns an interceptor that injects a unique request id header
// into every outbound request that does not already carry one.
func RequestID(opts RequestIDOptions) factory.Interceptor {
	header := opts.Header
	if header == "" {
		header = "X-Request-Id"
	}
	return factory.Func(func(req *http.Request, next http.RoundTripper) (*http.Response, error) {
		if req.Header.Get(header) == "" {
			req.Header.Set(header, uuid.New().String())
		}
		return next.RoundTrip(req)
	})
}

// RegisterRequestID registers the request-id interceptor under name, with
// per-client options bound from the "RequestId" section.
func RegisterRequestID(f *factory.Factory, name string) error {
	store := factory.NewStoreWithDefaults(func() *RequestIDOptions {
		return &RequestIDOptions{Header: "X-Request-Id"}
	})
	factory.BindSection(store, f.Binder(), "RequestId", true)

	return f.RegisterInterceptor(name, func(r *factory.Registration) {
		r.Factory = func(rc *factory.ResolveContext, clientName string) (factory.Interceptor, error) {
			opts, err := store.Get(clientName)
			if err != nil {
				return nil, err
			}
			return RequestID(*opts), nil
		}
	})
}
