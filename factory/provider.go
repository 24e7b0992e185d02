package factory

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/http2"

	"github.com/kbukum/httpfactory/logger"
)

// Provider builds and caches the live *http.Client per name from assembler
// output. The first Client call for a distinct name assembles its pipeline;
// concurrent first calls for the same name yield the same instance
// (double-checked per-name locking), and a failed build may be retried by a
// later call.
type Provider struct {
	assembler *Assembler
	base      http.RoundTripper
	log       *logger.Logger

	mu      sync.Mutex
	clients map[string]*clientEntry
}

type clientEntry struct {
	mu       sync.Mutex
	built    bool
	client   *http.Client
	settings TransportSettings
}

// NewProvider creates a provider. base is the terminal transport behind
// every assembled chain; nil selects http.DefaultTransport.
func NewProvider(assembler *Assembler, base http.RoundTripper, log *logger.Logger) *Provider {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Provider{
		assembler: assembler,
		base:      base,
		log:       log,
		clients:   make(map[string]*clientEntry),
	}
}

// Client returns the client for name, building and caching it on first use.
// The same name always yields the same instance.
func (p *Provider) Client(name string) (*http.Client, error) {
	e := p.entry(name)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.built {
		return e.client, nil
	}

	settings, chain, err := p.assembler.Assemble(name)
	if err != nil {
		return nil, err
	}

	client := &http.Client{
		Transport: Chain(p.buildTransport(name, settings), chain...),
		Timeout:   settings.Timeout,
	}
	if settings.UseCookies {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, NewAssemblyError(name, "", err)
		}
		client.Jar = jar
	}

	e.client = client
	e.settings = settings
	e.built = true
	p.log.Info("http client built", logger.Fields(
		logger.FieldClient, name,
		"handlers", len(chain),
	))
	return client, nil
}

// Settings returns the transport settings for name, building the client if
// it has not been built yet.
func (p *Provider) Settings(name string) (TransportSettings, error) {
	if _, err := p.Client(name); err != nil {
		return TransportSettings{}, err
	}
	e := p.entry(name)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings, nil
}

func (p *Provider) entry(name string) *clientEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.clients[name]
	if !ok {
		e = &clientEntry{}
		p.clients[name] = e
	}
	return e
}

// buildTransport projects transport-level settings onto the terminal
// transport. TLS bypass and HTTP/2 need a mutable *http.Transport; when the
// base transport is something else those settings are skipped with a
// warning, which is deliberate: the remaining settings are still honored.
func (p *Provider) buildTransport(name string, settings TransportSettings) http.RoundTripper {
	base := p.base
	if base == nil {
		base = http.DefaultTransport
	}

	t, ok := base.(*http.Transport)
	if !ok {
		if settings.BypassInvalidCertificate || settings.EnableHTTP2 {
			p.log.Warn("base transport is not *http.Transport; TLS and HTTP/2 settings not applied", logger.Fields(
				logger.FieldClient, name,
			))
		}
		return p.wrapTransport(base, settings)
	}

	t = t.Clone()
	if settings.BypassInvalidCertificate {
		if t.TLSClientConfig == nil {
			t.TLSClientConfig = &tls.Config{}
		}
		t.TLSClientConfig.InsecureSkipVerify = true
	}
	if settings.EnableHTTP2 {
		if err := http2.ConfigureTransport(t); err != nil {
			p.log.Warn("configuring HTTP/2 failed", logger.Fields(
				logger.FieldClient, name,
				logger.FieldError, err.Error(),
			))
		}
	}
	return p.wrapTransport(t, settings)
}

// wrapTransport applies the transport stages driven by settings: the response
// buffer cap and base address resolution for relative request URLs.
func (p *Provider) wrapTransport(rt http.RoundTripper, settings TransportSettings) http.RoundTripper {
	if settings.MaxResponseContentBufferSize > 0 {
		rt = &bufferCapTransport{next: rt, limit: settings.MaxResponseContentBufferSize}
	}
	if settings.BaseAddress != nil {
		rt = &baseAddressTransport{base: settings.BaseAddress, next: rt}
	}
	return rt
}

// baseAddressTransport resolves relative request URLs against the configured
// base address before dispatch, so relative paths work natively through the
// built client. Absolute URLs pass through untouched.
type baseAddressTransport struct {
	base *url.URL
	next http.RoundTripper
}

func (t *baseAddressTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "" || req.URL.Host != "" {
		return t.next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.URL = joinURL(t.base, req.URL)
	return t.next.RoundTrip(r)
}

// joinURL appends a relative URL's path onto the base address, keeping the
// base path prefix and the relative query and fragment.
func joinURL(base, ref *url.URL) *url.URL {
	joined := *base
	joined.Path = strings.TrimRight(base.Path, "/") + "/" + strings.TrimLeft(ref.Path, "/")
	joined.RawPath = ""
	joined.RawQuery = ref.RawQuery
	joined.Fragment = ref.Fragment
	return &joined
}

// bufferCapTransport enforces MaxResponseContentBufferSize by failing reads
// that run past the configured limit.
type bufferCapTransport struct {
	next  http.RoundTripper
	limit int64
}

func (t *bufferCapTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil || resp == nil || resp.Body == nil {
		return resp, err
	}
	resp.Body = &cappedBody{body: resp.Body, remaining: t.limit}
	return resp, nil
}

type cappedBody struct {
	body      io.ReadCloser
	remaining int64
}

func (b *cappedBody) Read(p []byte) (int, error) {
	if b.remaining <= 0 {
		// Probe for EOF so a body of exactly the cap size still succeeds.
		// A reader may legally return (0, nil); keep probing until it
		// produces a byte or an error.
		var probe [1]byte
		for {
			n, err := b.body.Read(probe[:])
			if n > 0 {
				return 0, fmt.Errorf("httpfactory: response body exceeds configured buffer size")
			}
			if err != nil {
				return 0, err
			}
		}
	}
	if int64(len(p)) > b.remaining {
		p = p[:b.remaining]
	}
	n, err := b.body.Read(p)
	b.remaining -= int64(n)
	return n, err
}

func (b *cappedBody) Close() error {
	return b.body.Close()
}
