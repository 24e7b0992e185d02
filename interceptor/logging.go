package interceptor

import (
	"net/http"
	"time"

	"github.com/kbukum/httpfactory/factory"
	"github.com/kbukum/httpfactory/logger"
)

// Logging returns an interceptor that logs each request with method, URL,
// status, and duration.
func Logging(log *logger.Logger) factory.Interceptor {
	return factory.Func(func(req *http.Request, next http.RoundTripper) (*http.Response, error) {
		start := time.Now()

		log.Debug("http request started", logger.Fields(
			logger.FieldMethod, req.Method,
			logger.FieldURL, req.URL.String(),
		))

		resp, err := next.RoundTrip(req)
		duration := time.Since(start)

		fields := logger.Fields(
			logger.FieldMethod, req.Method,
			logger.FieldURL, req.URL.String(),
			logger.FieldDuration, duration.Milliseconds(),
		)
		if err != nil {
			fields[logger.FieldError] = err.Error()
			log.Error("http request failed", fields)
			return resp, err
		}

		fields[logger.FieldStatus] = resp.StatusCode
		log.Debug("http request completed", fields)
		return resp, nil
	})
}

// RegisterLogging registers the logging interceptor under name. Each client
// gets an instance whose log lines carry that client's name.
func RegisterLogging(f *factory.Factory, name string) error {
	return f.RegisterInterceptor(name, func(r *factory.Registration) {
		r.Factory = func(rc *factory.ResolveContext, clientName string) (factory.Interceptor, error) {
			log := rc.Logger().WithFields(logger.Fields(logger.FieldClient, clientName))
			return Logging(log), nil
		}
	})
}
