package factory

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

type testOptions struct {
	Value string
	Trail []string
}

func TestStore_Get_RunsPassesOnce(t *testing.T) {
	s := NewStore[testOptions]()
	var calls int32
	s.Configure(func(name string, opts *testOptions) error {
		atomic.AddInt32(&calls, 1)
		opts.Value = name
		return nil
	})

	first, err := s.Get("foo-v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.Get("foo-v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected passes to run once, ran %d times", calls)
	}
	if first != second {
		t.Error("expected the identical cached instance on the second call")
	}
	if first.Value != "foo-v1" {
		t.Errorf("expected value foo-v1, got %q", first.Value)
	}
}

func TestStore_Get_NameIsolation(t *testing.T) {
	s := NewStore[testOptions]()
	s.Configure(func(name string, opts *testOptions) error {
		opts.Value = name
		return nil
	})

	v1, _ := s.Get("foo-v1")
	v2, _ := s.Get("foo-v2")

	if v1 == v2 {
		t.Fatal("distinct names must produce independent entries")
	}
	if v1.Value != "foo-v1" || v2.Value != "foo-v2" {
		t.Errorf("expected per-name values, got %q and %q", v1.Value, v2.Value)
	}
}

func TestStore_Get_PassesApplyInRegistrationOrder(t *testing.T) {
	s := NewStore[testOptions]()
	for _, step := range []string{"a", "b", "c"} {
		step := step
		s.Configure(func(name string, opts *testOptions) error {
			opts.Trail = append(opts.Trail, step)
			return nil
		})
	}

	opts, err := s.Get("foo-v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fmt.Sprint(opts.Trail); got != "[a b c]" {
		t.Errorf("expected passes in registration order, got %s", got)
	}
}

func TestStore_Get_FailureAllowsRetry(t *testing.T) {
	s := NewStore[testOptions]()
	attempts := 0
	s.Configure(func(name string, opts *testOptions) error {
		opts.Trail = append(opts.Trail, "ran")
		attempts++
		if attempts == 1 {
			return fmt.Errorf("transient")
		}
		return nil
	})

	if _, err := s.Get("foo-v1"); !IsOptionsConfiguration(err) {
		t.Fatalf("expected options-configuration error, got %v", err)
	}

	opts, err := s.Get("foo-v1")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	// The retry must start from a fresh default, not the partial result.
	if len(opts.Trail) != 1 {
		t.Errorf("expected a fresh default on retry, trail %v", opts.Trail)
	}
}

func TestStore_Get_PassPanic(t *testing.T) {
	s := NewStore[testOptions]()
	s.Configure(func(name string, opts *testOptions) error {
		panic("boom")
	})

	if _, err := s.Get("foo-v1"); !IsOptionsConfiguration(err) {
		t.Fatalf("expected options-configuration error from panic, got %v", err)
	}
}

func TestStore_Get_Defaults(t *testing.T) {
	s := NewStoreWithDefaults(func() *testOptions {
		return &testOptions{Value: "default"}
	})

	opts, err := s.Get("unconfigured")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Value != "default" {
		t.Errorf("expected default value, got %q", opts.Value)
	}
}

func TestStore_Invalidate(t *testing.T) {
	s := NewStore[testOptions]()
	var calls int32
	s.Configure(func(name string, opts *testOptions) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	first, _ := s.Get("foo-v1")
	s.Invalidate("foo-v1")
	second, _ := s.Get("foo-v1")

	if calls != 2 {
		t.Errorf("expected passes to re-run after invalidation, ran %d times", calls)
	}
	if first == second {
		t.Error("expected a fresh instance after invalidation")
	}
}

func TestStore_Get_ConcurrentAtMostOnce(t *testing.T) {
	s := NewStore[testOptions]()
	var calls int32
	s.Configure(func(name string, opts *testOptions) error {
		atomic.AddInt32(&calls, 1)
		opts.Value = name
		return nil
	})

	const goroutines = 32
	results := make([]*testOptions, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			name := "foo-v1"
			if i%2 == 0 {
				name = "foo-v2"
			}
			opts, err := s.Get(name)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results[i] = opts
		}(i)
	}
	wg.Wait()

	if calls != 2 {
		t.Errorf("expected one pass execution per distinct name, got %d", calls)
	}
	for i := 2; i < goroutines; i++ {
		if results[i] != results[i%2] {
			t.Fatal("all resolutions of a name must return the identical instance")
		}
	}
}
