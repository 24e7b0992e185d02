package interceptor

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/httpfactory/factory"
)

// Auth types supported by AuthOptions.
const (
	AuthTypeBearer = "bearer"
	AuthTypeBasic  = "basic"
	AuthTypeAPIKey = "api_key"
	AuthTypeJWT    = "jwt"
)

// AuthOptions configures the auth interceptor. Bound from the "Auth"
// configuration section.
type AuthOptions struct {
	// Type selects the auth scheme: bearer, basic, api_key, or jwt.
	// Empty disables the interceptor.
	Type string `yaml:"type" mapstructure:"type"`

	// Token is the static token for bearer auth.
	Token string `yaml:"token" mapstructure:"token"`

	// Username and Password are used for basic auth.
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`

	// Header and Key are used for api_key auth. Header defaults to X-Api-Key.
	Header string `yaml:"header" mapstructure:"header"`
	Key    string `yaml:"key" mapstructure:"key"`

	// Secret, Issuer, Audience, and TTL are used for jwt auth: each request
	// carries a freshly minted HS256 assertion. TTL defaults to one minute.
	Secret   string        `yaml:"secret" mapstructure:"secret"`
	Issuer   string        `yaml:"issuer" mapstructure:"issuer"`
	Audience string        `yaml:"audience" mapstructure:"audience"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// Validate checks that the options are consistent for the selected type.
func (o *AuthOptions) Validate() error {
	switch o.Type {
	case "":
		return nil
	case AuthTypeBearer:
		if o.Token == "" {
			return fmt.Errorf("auth: bearer requires token")
		}
	case AuthTypeBasic:
		if o.Username == "" {
			return fmt.Errorf("auth: basic requires username")
		}
	case AuthTypeAPIKey:
		if o.Key == "" {
			return fmt.Errorf("auth: api_key requires key")
		}
	case AuthTypeJWT:
		if o.Secret == "" {
			return fmt.Errorf("auth: jwt requires secret")
		}
	default:
		return fmt.Errorf("auth: unknown type %q", o.Type)
	}
	return nil
}

// Auth returns an interceptor that applies the configured auth scheme to
// every outbound request.
func Auth(opts AuthOptions) factory.Interceptor {
	return factory.Func(func(req *http.Request, next http.RoundTripper) (*http.Response, error) {
		if err := applyAuth(req, opts); err != nil {
			return nil, err
		}
		return next.RoundTrip(req)
	})
}

func applyAuth(req *http.Request, opts AuthOptions) error {
	switch opts.Type {
	case "":
		return nil
	case AuthTypeBearer:
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	case AuthTypeBasic:
		creds := base64.StdEncoding.EncodeToString([]byte(opts.Username + ":" + opts.Password))
		req.Header.Set("Authorization", "Basic "+creds)
	case AuthTypeAPIKey:
		header := opts.Header
		if header == "" {
			header = "X-Api-Key"
		}
		req.Header.Set(header, opts.Key)
	case AuthTypeJWT:
		token, err := mintAssertion(opts)
		if err != nil {
			return fmt.Errorf("auth: minting jwt assertion: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// mintAssertion signs a short-lived HS256 assertion for one request.
func mintAssertion(opts AuthOptions) (string, error) {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	now := time.Now()

	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if opts.Issuer != "" {
		claims["iss"] = opts.Issuer
	}
	if opts.Audience != "" {
		claims["aud"] = opts.Audience
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(opts.Secret))
}

// RegisterAuth registers the auth interceptor under name, with per-client
// options bound from the "Auth" section. The per-name options are validated
// once, when the name first resolves.
func RegisterAuth(f *factory.Factory, name string) error {
	store := factory.NewStore[AuthOptions]()
	factory.BindSection(store, f.Binder(), "Auth", true)
	store.Configure(func(_ string, opts *AuthOptions) error {
		return opts.Validate()
	})

	return f.RegisterInterceptor(name, func(r *factory.Registration) {
		r.Factory = func(rc *factory.ResolveContext, clientName string) (factory.Interceptor, error) {
			opts, err := store.Get(clientName)
			if err != nil {
				return nil, err
			}
			return Auth(*opts), nil
		}
	})
}
