package interceptor

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"

	"github.com/kbukum/httpfactory/factory"
	"github.com/kbukum/httpfactory/logger"
)

const registerYAML = `
HttpClient:
  foo-v1:
    Client:
      handlers: [auth, request-id]
    Auth:
      type: bearer
      token: foo-token
  bar-v1:
    Client:
      handlers: [auth]
  Handlers:
    Auth:
      type: api_key
      key: shared-key
`

func newConfiguredFactory(t *testing.T, yml string) *factory.Factory {
	t.Helper()
	v := viper.NewWithOptions(viper.KeyDelimiter(":"))
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBufferString(yml)); err != nil {
		t.Fatalf("reading test config: %v", err)
	}
	f, err := factory.New(factory.Config{},
		factory.WithLogger(logger.Nop()),
		factory.WithConfigSource(v),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return f
}

func registerAll(t *testing.T, f *factory.Factory) {
	t.Helper()
	for name, register := range map[string]func(*factory.Factory, string) error{
		"logging":    RegisterLogging,
		"request-id": RegisterRequestID,
		"headers":    RegisterHeaders,
		"timeout":    RegisterTimeout,
		"auth":       RegisterAuth,
		"tracing":    RegisterTracing,
	} {
		if err := register(f, name); err != nil {
			t.Fatalf("registering %s: %v", name, err)
		}
	}
}

func TestRegisterHelpers_PerNameOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Echo-Auth", r.Header.Get("Authorization"))
		w.Header().Set("X-Echo-Key", r.Header.Get("X-Api-Key"))
		w.Header().Set("X-Echo-Id", r.Header.Get("X-Request-Id"))
		w.WriteHeader(200)
	}))
	defer srv.Close()

	f := newConfiguredFactory(t, registerYAML)
	registerAll(t, f)

	// foo-v1 carries its own Auth section: bearer, plus a request id.
	foo, err := f.Client("foo-v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := foo.Get(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("X-Echo-Auth"); got != "Bearer foo-token" {
		t.Errorf("foo-v1: expected its own bearer token, got %q", got)
	}
	if resp.Header.Get("X-Echo-Id") == "" {
		t.Error("foo-v1: expected a request id")
	}

	// bar-v1 has no Auth section of its own and falls back to the shared one.
	bar, err := f.Client("bar-v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp2, err := bar.Get(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp2.Body.Close()
	if got := resp2.Header.Get("X-Echo-Key"); got != "shared-key" {
		t.Errorf("bar-v1: expected the fallback api key, got %q", got)
	}
	if got := resp2.Header.Get("X-Echo-Auth"); got != "" {
		t.Errorf("bar-v1: expected no bearer header, got %q", got)
	}
}

func TestRegisterAuth_InvalidOptionsFailAssembly(t *testing.T) {
	f := newConfiguredFactory(t, `
HttpClient:
  broken:
    Client:
      handlers: [auth]
    Auth:
      type: bearer
`)
	registerAll(t, f)

	if _, err := f.Client("broken"); !factory.IsAssembly(err) {
		t.Fatalf("expected assembly error for invalid auth options, got %v", err)
	}
}
