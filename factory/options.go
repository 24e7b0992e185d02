package factory

import (
	"fmt"
	"net/url"
	"time"
)

// ClientOptions is the per-name snapshot of how the client under a given
// name should behave. It is constructed fresh per distinct name, mutated
// only while the configuration passes for that name run, then frozen.
type ClientOptions struct {
	// BaseAddress is the base URL prepended to relative request paths.
	BaseAddress string `yaml:"base_address" mapstructure:"base_address"`

	// UseCookies enables an in-memory cookie jar for the client. Default true.
	UseCookies bool `yaml:"use_cookies" mapstructure:"use_cookies"`

	// EnableBypassInvalidCertificate disables server certificate
	// verification. A warning is logged whenever this takes effect.
	// Default false.
	EnableBypassInvalidCertificate bool `yaml:"enable_bypass_invalid_certificate" mapstructure:"enable_bypass_invalid_certificate"`

	// MaxResponseContentBufferSize caps the number of response body bytes
	// the client will read, in bytes. Zero means no cap.
	MaxResponseContentBufferSize int64 `yaml:"max_response_content_buffer_size" mapstructure:"max_response_content_buffer_size" validate:"gte=0"`

	// Timeout is the total request timeout. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// EnableHTTP2 configures the transport for HTTP/2. Default false.
	EnableHTTP2 bool `yaml:"enable_http2" mapstructure:"enable_http2"`

	// Handlers is the ordered list of interceptor names for this client.
	// Declaration order is wire order: the first entry sees the request
	// first. Default empty.
	Handlers []string `yaml:"handlers" mapstructure:"handlers"`
}

// NewClientOptions returns client options with defaults applied.
func NewClientOptions() *ClientOptions {
	return &ClientOptions{UseCookies: true}
}

// Validate checks that the options are structurally valid.
func (o *ClientOptions) Validate() error {
	if err := structValidator().Struct(o); err != nil {
		return fmt.Errorf("client options: %w", err)
	}
	if _, err := o.baseURL(); err != nil {
		return err
	}
	return nil
}

// baseURL parses BaseAddress. Returns nil when no base address is set.
func (o *ClientOptions) baseURL() (*url.URL, error) {
	if o.BaseAddress == "" {
		return nil, nil
	}
	u, err := url.Parse(o.BaseAddress)
	if err != nil {
		return nil, fmt.Errorf("client options: invalid base_address %q: %w", o.BaseAddress, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client options: base_address %q must be absolute", o.BaseAddress)
	}
	return u, nil
}
