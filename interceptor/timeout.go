package interceptor

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/kbukum/httpfactory/factory"
)

// TimeoutOptions configures the timeout interceptor. Bound from the
// "Timeout" configuration section.
type TimeoutOptions struct {
	// Timeout applies to requests whose context has no deadline yet.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Timeout returns an interceptor that applies a default timeout to requests
// that do not already carry a deadline.
func Timeout(opts TimeoutOptions) factory.Interceptor {
	return factory.Func(func(req *http.Request, next http.RoundTripper) (*http.Response, error) {
		if opts.Timeout <= 0 {
			return next.RoundTrip(req)
		}
		if _, ok := req.Context().Deadline(); ok {
			return next.RoundTrip(req)
		}
		ctx, cancel := context.WithTimeout(req.Context(), opts.Timeout)
		resp, err := next.RoundTrip(req.WithContext(ctx))
		if err != nil {
			cancel()
			return nil, err
		}
		resp.Body = &cancelBody{body: resp.Body, cancel: cancel}
		return resp, nil
	})
}

// cancelBody releases the request context when the response body is closed.
type cancelBody struct {
	body   io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Read(p []byte) (int, error) { return b.body.Read(p) }

func (b *cancelBody) Close() error {
	b.cancel()
	return b.body.Close()
}

// RegisterTimeout registers the timeout interceptor under name, with
// per-client options bound from the "Timeout" section.
func RegisterTimeout(f *factory.Factory, name string) error {
	store := factory.NewStore[TimeoutOptions]()
	factory.BindSection(store, f.Binder(), "Timeout", true)

	return f.RegisterInterceptor(name, func(r *factory.Registration) {
		r.Factory = func(rc *factory.ResolveContext, clientName string) (factory.Interceptor, error) {
			opts, err := store.Get(clientName)
			if err != nil {
				return nil, err
			}
			return Timeout(*opts), nil
		}
	})
}
