package factory

import (
	"net/url"
	"time"

	"github.com/kbukum/httpfactory/logger"
)

// TransportSettings is the projection of ClientOptions handed to the
// transport layer once assembly succeeds.
type TransportSettings struct {
	// BaseAddress is the parsed base URL, nil when none is configured.
	BaseAddress *url.URL
	// UseCookies enables a cookie jar on the client.
	UseCookies bool
	// BypassInvalidCertificate disables server certificate verification.
	BypassInvalidCertificate bool
	// MaxResponseContentBufferSize caps response body bytes. Zero means no cap.
	MaxResponseContentBufferSize int64
	// Timeout is the total request timeout. Zero means none.
	Timeout time.Duration
	// EnableHTTP2 configures the transport for HTTP/2.
	EnableHTTP2 bool
}

// Assembler turns a client name into transport settings plus an ordered
// interceptor chain. Options resolution is memoized per name; interceptor
// instances are built fresh on every assembly.
type Assembler struct {
	registry *Registry
	options  *Store[ClientOptions]
	rc       *ResolveContext
	log      *logger.Logger
}

// NewAssembler creates an assembler over a registry and a client options store.
func NewAssembler(registry *Registry, options *Store[ClientOptions], rc *ResolveContext, log *logger.Logger) *Assembler {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Assembler{registry: registry, options: options, rc: rc, log: log}
}

// Assemble resolves the options for clientName and produces the transport
// settings and interceptor chain for it. The chain preserves the declared
// handler order exactly. Any failure aborts the whole assembly; a partial
// chain is never returned.
func (a *Assembler) Assemble(clientName string) (TransportSettings, []Interceptor, error) {
	opts, err := a.options.Get(clientName)
	if err != nil {
		return TransportSettings{}, nil, NewAssemblyError(clientName, "", err)
	}
	if err := opts.Validate(); err != nil {
		return TransportSettings{}, nil, NewAssemblyError(clientName, "", err)
	}

	base, err := opts.baseURL()
	if err != nil {
		return TransportSettings{}, nil, NewAssemblyError(clientName, "", err)
	}

	settings := TransportSettings{
		BaseAddress:                  base,
		UseCookies:                   opts.UseCookies,
		BypassInvalidCertificate:     opts.EnableBypassInvalidCertificate,
		MaxResponseContentBufferSize: opts.MaxResponseContentBufferSize,
		Timeout:                      opts.Timeout,
		EnableHTTP2:                  opts.EnableHTTP2,
	}

	if settings.BypassInvalidCertificate {
		a.log.Warn("certificate validation bypass enabled", logger.Fields(
			logger.FieldClient, clientName,
		))
	}

	if len(opts.Handlers) == 0 {
		a.log.Debug("no interceptors configured for client", logger.Fields(
			logger.FieldClient, clientName,
		))
		return settings, nil, nil
	}

	chain := make([]Interceptor, 0, len(opts.Handlers))
	for _, name := range opts.Handlers {
		ic, err := a.registry.Resolve(name, a.rc, clientName)
		if err != nil {
			return TransportSettings{}, nil, NewAssemblyError(clientName, name, err)
		}
		chain = append(chain, ic)
	}

	a.log.Debug("client pipeline assembled", logger.Fields(
		logger.FieldClient, clientName,
		"handlers", len(chain),
	))
	return settings, chain, nil
}
