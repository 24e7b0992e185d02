// Package interceptor provides ready-made interceptors for httpfactory
// clients: request logging, request IDs, static headers, per-name timeouts,
// authentication, and trace propagation.
//
// Each kind has a Register helper that wires it into a factory under a
// chosen name. Kinds with per-name options resolve them through a memoized
// options store bound to the client's configuration section, so the same
// registered name can behave differently per client:
//
//	interceptor.RegisterAuth(f, "auth")
//	// HttpClient:billing-v2:Auth and HttpClient:search:Auth may differ.
package interceptor
