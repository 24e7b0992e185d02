package factory

import (
	"fmt"
	"sync"
)

// ConfigurePass is one configuration pass applied to a name's options.
// Passes are expected to be synchronous, fast, and free of side effects
// beyond populating opts.
type ConfigurePass[T any] func(name string, opts *T) error

// Store memoizes named options of one kind. The first Get for a distinct
// name constructs a default T and runs every registered configuration pass
// on it, in registration order, exactly once; later Gets for the same name
// return the identical instance without re-running anything.
//
// A failed pass leaves the name unresolved, so a later Get retries the full
// pass chain from a fresh default. Passes registered after a name has
// resolved do not apply to it retroactively.
//
// Store is safe for concurrent use. First-time resolutions of distinct
// names never block each other.
type Store[T any] struct {
	mu       sync.Mutex
	entries  map[string]*storeEntry[T]
	passes   []ConfigurePass[T]
	defaults func() *T
}

type storeEntry[T any] struct {
	mu       sync.Mutex
	resolved bool
	value    *T
}

// NewStore creates a store whose default value is the zero T.
func NewStore[T any]() *Store[T] {
	return NewStoreWithDefaults[T](nil)
}

// NewStoreWithDefaults creates a store using defaults to construct the
// initial value handed to the configuration passes.
func NewStoreWithDefaults[T any](defaults func() *T) *Store[T] {
	return &Store[T]{
		entries:  make(map[string]*storeEntry[T]),
		defaults: defaults,
	}
}

// Configure appends a configuration pass. All passes apply, in registration
// order, the first time a given name is resolved.
func (s *Store[T]) Configure(pass ConfigurePass[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passes = append(s.passes, pass)
}

// Get resolves the options for name, running the configuration passes on
// first access and returning the cached instance afterwards.
func (s *Store[T]) Get(name string) (*T, error) {
	e := s.entry(name)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.resolved {
		return e.value, nil
	}

	value := s.newDefault()
	for _, pass := range s.snapshotPasses() {
		if err := runPass(pass, name, value); err != nil {
			return nil, NewOptionsConfigurationError(name, err)
		}
	}

	e.value = value
	e.resolved = true
	return value, nil
}

// Invalidate drops the cached entry for name. A later Get re-runs the full
// pass chain. Callers already holding the old instance keep it.
func (s *Store[T]) Invalidate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, name)
}

// entry returns the per-name entry, creating it if needed. The store mutex
// covers only the map access, so resolving one name never blocks another.
func (s *Store[T]) entry(name string) *storeEntry[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[name]
	if !ok {
		e = &storeEntry[T]{}
		s.entries[name] = e
	}
	return e
}

func (s *Store[T]) snapshotPasses() []ConfigurePass[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	passes := make([]ConfigurePass[T], len(s.passes))
	copy(passes, s.passes)
	return passes
}

func (s *Store[T]) newDefault() *T {
	if s.defaults != nil {
		return s.defaults()
	}
	return new(T)
}

// runPass executes one pass, converting panics into errors.
func runPass[T any](pass ConfigurePass[T], name string, opts *T) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("configuration pass panicked: %v", rec)
		}
	}()
	return pass(name, opts)
}
