// Package factory provides named HTTP clients with lazily resolved,
// per-name configuration.
//
// A client name is a logical identifier ("billing-v2", "search"). The first
// time a name is requested, its options are resolved by running every
// registered configuration pass exactly once, the configured interceptor
// chain is assembled from the interceptor registry, and the resulting
// *http.Client is cached. Distinct names are fully independent: to change a
// client's wiring, mint a new name instead of mutating a live client.
//
// # Basic Usage
//
//	f, err := factory.New(factory.Config{}, factory.WithConfigSource(src))
//	f.MustRegisterInterceptor("request-id", func(r *factory.Registration) {
//	    r.Factory = func(rc *factory.ResolveContext, clientName string) (factory.Interceptor, error) {
//	        return myInterceptor, nil
//	    }
//	})
//	f.ConfigureClient(func(name string, o *factory.ClientOptions) error {
//	    if name == "billing-v2" {
//	        o.BaseAddress = "https://billing.internal"
//	        o.Handlers = []string{"request-id"}
//	    }
//	    return nil
//	})
//	client, err := f.Client("billing-v2")
//
// Per-name interceptor options come from a hierarchical configuration source
// using the section convention "HttpClient:{clientName}:{sectionName}" with
// fallback "HttpClient:Handlers:{sectionName}".
package factory
