package factory

import (
	"fmt"
	"sort"
	"sync"
)

// InterceptorFactory produces an interceptor instance for a client name.
// Factories run at assembly time; a fresh instance is built per resolution
// so the instance may safely capture per-client state.
type InterceptorFactory func(rc *ResolveContext, clientName string) (Interceptor, error)

// Registration describes one interceptor kind in the registry. The
// registration callback passed to Register must set Factory; a registration
// without a factory is rejected.
type Registration struct {
	// Name is the stable key the registration was created under.
	Name string
	// Factory constructs interceptor instances.
	Factory InterceptorFactory
}

// Registry is the catalog of interceptor factories keyed by stable name.
// It is populated during startup and read-mostly afterwards; lookups are
// safe under concurrency.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Registration
}

// NewRegistry creates an empty interceptor registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Registration)}
}

// Register adds an interceptor kind under name. The configure callback
// receives the pending registration and must set its Factory.
// Registering the same name twice fails with a duplicate-registration error.
func (r *Registry) Register(name string, configure func(*Registration)) error {
	if name == "" {
		return NewInvalidRegistrationError(name, "name must not be empty")
	}

	reg := Registration{Name: name}
	if configure != nil {
		configure(&reg)
	}
	if reg.Factory == nil {
		return NewInvalidRegistrationError(name, "no factory was set")
	}
	reg.Name = name

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return NewDuplicateRegistrationError(name)
	}
	r.entries[name] = reg
	return nil
}

// MustRegister is like Register but panics on error. Registration errors
// are startup errors; a broken registry must not serve traffic.
func (r *Registry) MustRegister(name string, configure func(*Registration)) {
	if err := r.Register(name, configure); err != nil {
		panic(err)
	}
}

// Resolve constructs a fresh interceptor instance for the given client name.
// The registry never caches instances; only the options behind construction
// are memoized elsewhere.
func (r *Registry) Resolve(name string, rc *ResolveContext, clientName string) (Interceptor, error) {
	r.mu.RLock()
	reg, exists := r.entries[name]
	r.mu.RUnlock()
	if !exists {
		return nil, NewUnknownInterceptorError(name, clientName)
	}

	ic, err := invokeFactory(reg.Factory, rc, clientName)
	if err != nil {
		return nil, NewFactoryError(name, clientName, err)
	}
	if ic == nil {
		return nil, NewFactoryError(name, clientName, fmt.Errorf("factory returned a nil interceptor"))
	}
	return ic, nil
}

// Names returns the registered interceptor names, sorted. For diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// invokeFactory calls a factory, converting panics into errors so a
// misbehaving factory cannot take down the caller.
func invokeFactory(f InterceptorFactory, rc *ResolveContext, clientName string) (ic Interceptor, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ic = nil
			err = fmt.Errorf("factory panicked: %v", rec)
		}
	}()
	return f(rc, clientName)
}
