package factory

import (
	"net/http"

	"github.com/spf13/viper"

	"github.com/kbukum/httpfactory/logger"
)

// Config configures a Factory.
type Config struct {
	// Logging configures the factory logger. Ignored when WithLogger is used.
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// Option customizes a Factory.
type Option func(*Factory)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(f *Factory) { f.log = l }
}

// WithBaseTransport sets the terminal transport behind every assembled
// chain. Defaults to http.DefaultTransport.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(f *Factory) { f.base = rt }
}

// WithConfigSource attaches the hierarchical configuration tree consumed by
// the section binder. The tree must use ":" as its key delimiter; see
// config.NewSource.
func WithConfigSource(v *viper.Viper) Option {
	return func(f *Factory) { f.source = v }
}

// Factory ties the interceptor registry, the memoizing options stores, the
// section binder, the assembler, and the client provider together behind one
// surface. Construct it at startup, register interceptors and configuration
// passes, then treat it as read-only while serving.
type Factory struct {
	log    *logger.Logger
	base   http.RoundTripper
	source *viper.Viper

	registry  *Registry
	options   *Store[ClientOptions]
	binder    *SectionBinder
	rc        *ResolveContext
	assembler *Assembler
	provider  *Provider
}

// New creates a factory from configuration.
func New(cfg Config, opts ...Option) (*Factory, error) {
	f := &Factory{}
	for _, opt := range opts {
		opt(f)
	}

	if f.log == nil {
		if err := validateLogging(&cfg.Logging); err != nil {
			return nil, err
		}
		f.log = logger.New(cfg.Logging).WithComponent("httpfactory")
	}

	f.registry = NewRegistry()
	f.options = NewStoreWithDefaults(NewClientOptions)
	f.binder = NewSectionBinder(f.source)
	f.rc = NewResolveContext(f.log, f.binder)
	f.assembler = NewAssembler(f.registry, f.options, f.rc, f.log)
	f.provider = NewProvider(f.assembler, f.base, f.log)

	// Configuration sections participate in client options resolution as the
	// first pass; explicit ConfigureClient callbacks apply on top.
	BindSection(f.options, f.binder, "Client", true)

	return f, nil
}

func validateLogging(cfg *logger.Config) error {
	cfg.ApplyDefaults()
	return cfg.Validate()
}

// ConfigureClient appends a configuration pass for client options. All
// passes apply, in registration order, the first time a given name is
// resolved; they never re-run for that name afterwards.
func (f *Factory) ConfigureClient(pass func(name string, o *ClientOptions) error) {
	f.options.Configure(pass)
}

// RegisterInterceptor registers an interceptor kind under a stable name.
// The configure callback must set Registration.Factory.
func (f *Factory) RegisterInterceptor(name string, configure func(*Registration)) error {
	return f.registry.Register(name, configure)
}

// MustRegisterInterceptor is like RegisterInterceptor but panics on error.
func (f *Factory) MustRegisterInterceptor(name string, configure func(*Registration)) {
	f.registry.MustRegister(name, configure)
}

// Client returns the named client, resolving its configuration and
// assembling its pipeline on first use.
func (f *Factory) Client(name string) (*http.Client, error) {
	return f.provider.Client(name)
}

// Settings returns the resolved transport settings for name.
func (f *Factory) Settings(name string) (TransportSettings, error) {
	return f.provider.Settings(name)
}

// Assemble exposes the raw assembler output for callers building their own
// transport instead of using Client.
func (f *Factory) Assemble(name string) (TransportSettings, []Interceptor, error) {
	return f.assembler.Assemble(name)
}

// Registry returns the interceptor registry.
func (f *Factory) Registry() *Registry { return f.registry }

// Options returns the client options store.
func (f *Factory) Options() *Store[ClientOptions] { return f.options }

// Binder returns the configuration section binder.
func (f *Factory) Binder() *SectionBinder { return f.binder }

// Context returns the resolve context handed to interceptor factories.
func (f *Factory) Context() *ResolveContext { return f.rc }

// Logger returns the factory logger.
func (f *Factory) Logger() *logger.Logger { return f.log }
