package factory

import "net/http"

// Interceptor is a single stage in a client's request/response path.
// An interceptor may modify the request before forwarding it to next,
// inspect or replace the response, or short-circuit without calling next
// at all. The first interceptor in a chain sees the request first.
//
// Interceptors are constructed fresh per (interceptor, client name)
// resolution and may close over per-client state; the options driving
// construction are memoized separately.
type Interceptor interface {
	RoundTrip(req *http.Request, next http.RoundTripper) (*http.Response, error)
}

// Func adapts a function to the Interceptor interface.
type Func func(req *http.Request, next http.RoundTripper) (*http.Response, error)

// RoundTrip implements Interceptor.
func (f Func) RoundTrip(req *http.Request, next http.RoundTripper) (*http.Response, error) {
	return f(req, next)
}

// Chain wires an ordered interceptor chain in front of a terminal transport.
// chain[0] sees the request first; final performs the actual round trip.
func Chain(final http.RoundTripper, chain ...Interceptor) http.RoundTripper {
	rt := final
	for i := len(chain) - 1; i >= 0; i-- {
		rt = &link{interceptor: chain[i], next: rt}
	}
	return rt
}

type link struct {
	interceptor Interceptor
	next        http.RoundTripper
}

func (l *link) RoundTrip(req *http.Request) (*http.Response, error) {
	return l.interceptor.RoundTrip(req, l.next)
}
