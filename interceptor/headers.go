package interceptor

import (
	"net/http"

	"github.com/kbukum/httpfactory/factory"
)

// HeadersOptions configures the static headers interceptor. Bound from the
// "Headers" configuration section.
type HeadersOptions struct {
	// Set contains headers applied to every request. Existing request
	// headers with the same name are overwritten.
	Set map[string]string `yaml:"set" mapstructure:"set"`
	// Default contains headers applied only when the request does not
	// already carry them.
	Default map[string]string `yaml:"default" mapstructure:"default"`
}

// Headers returns an interceptor that applies static headers to every
// outbound request.
func Headers(opts HeadersOptions) factory.Interceptor {
	return factory.Func(func(req *http.Request, next http.RoundTripper) (*http.Response, error) {
		for k, v := range opts.Set {
			req.Header.Set(k, v)
		}
		for k, v := range opts.Default {
			if req.Header.Get(k) == "" {
				req.Header.Set(k, v)
			}
		}
		return next.RoundTrip(req)
	})
}

// RegisterHeaders registers the headers interceptor under name, with
// per-client options bound from the "Headers" section.
func RegisterHeaders(f *factory.Factory, name string) error {
	store := factory.NewStore[HeadersOptions]()
	factory.BindSection(store, f.Binder(), "Headers", true)

	return f.RegisterInterceptor(name, func(r *factory.Registration) {
		r.Factory = func(rc *factory.ResolveContext, clientName string) (factory.Interceptor, error) {
			opts, err := store.Get(clientName)
			if err != nil {
				return nil, err
			}
			return Headers(*opts), nil
		}
	})
}
