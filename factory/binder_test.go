package factory

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
)

type statusOptions struct {
	Code    int           `mapstructure:"code"`
	Latency time.Duration `mapstructure:"latency"`
}

const binderYAML = `
HttpClient:
  foo-v1:
    Status:
      code: 200
  bar-v1:
    Status:
      code: 404
      latency: 5ms
  Handlers:
    Status:
      code: 503
`

func newTestSource(t *testing.T, yml string) *viper.Viper {
	t.Helper()
	v := viper.NewWithOptions(viper.KeyDelimiter(":"))
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBufferString(yml)); err != nil {
		t.Fatalf("reading test config: %v", err)
	}
	return v
}

func TestSectionBinder_Bind_NameSpecific(t *testing.T) {
	b := NewSectionBinder(newTestSource(t, binderYAML))

	tests := []struct {
		client  string
		code    int
		latency time.Duration
	}{
		{"foo-v1", 200, 0},
		{"bar-v1", 404, 5 * time.Millisecond},
	}
	for _, tt := range tests {
		var opts statusOptions
		if err := b.Bind(tt.client, "Status", true, &opts); err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.client, err)
		}
		if opts.Code != tt.code {
			t.Errorf("%s: expected code %d, got %d", tt.client, tt.code, opts.Code)
		}
		if opts.Latency != tt.latency {
			t.Errorf("%s: expected latency %v, got %v", tt.client, tt.latency, opts.Latency)
		}
	}
}

func TestSectionBinder_Bind_FallbackEnabled(t *testing.T) {
	b := NewSectionBinder(newTestSource(t, binderYAML))

	var opts statusOptions
	if err := b.Bind("unknown-client", "Status", true, &opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Code != 503 {
		t.Errorf("expected fallback section value 503, got %d", opts.Code)
	}
}

func TestSectionBinder_Bind_FallbackDisabled(t *testing.T) {
	b := NewSectionBinder(newTestSource(t, binderYAML))

	opts := statusOptions{Code: 1}
	if err := b.Bind("unknown-client", "Status", false, &opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Code != 1 {
		t.Errorf("expected untouched default with fallback disabled, got %d", opts.Code)
	}
}

func TestSectionBinder_Bind_BlankName(t *testing.T) {
	b := NewSectionBinder(newTestSource(t, binderYAML))

	var withFallback statusOptions
	if err := b.Bind("  ", "Status", true, &withFallback); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withFallback.Code != 503 {
		t.Errorf("blank name should route to the fallback section, got %d", withFallback.Code)
	}

	without := statusOptions{Code: 1}
	if err := b.Bind("", "Status", false, &without); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if without.Code != 1 {
		t.Errorf("blank name without fallback should not look anything up, got %d", without.Code)
	}
}

func TestSectionBinder_Bind_MissingEverywhere(t *testing.T) {
	b := NewSectionBinder(newTestSource(t, binderYAML))

	opts := statusOptions{Code: 42}
	if err := b.Bind("foo-v1", "Nothing", true, &opts); err != nil {
		t.Fatalf("absent configuration must be a silent no-op, got %v", err)
	}
	if opts.Code != 42 {
		t.Errorf("expected untouched value, got %d", opts.Code)
	}
}

func TestSectionBinder_Bind_NilSource(t *testing.T) {
	var b *SectionBinder

	opts := statusOptions{Code: 7}
	if err := b.Bind("foo-v1", "Status", true, &opts); err != nil {
		t.Fatalf("nil binder must be a no-op, got %v", err)
	}
	if opts.Code != 7 {
		t.Errorf("expected untouched value, got %d", opts.Code)
	}

	b = NewSectionBinder(nil)
	if err := b.Bind("foo-v1", "Status", true, &opts); err != nil {
		t.Fatalf("binder without source must be a no-op, got %v", err)
	}
}

func TestBindSection_RegistersPass(t *testing.T) {
	b := NewSectionBinder(newTestSource(t, binderYAML))
	store := NewStore[statusOptions]()
	BindSection(store, b, "Status", true)

	foo, err := store.Get("foo-v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if foo.Code != 200 {
		t.Errorf("expected 200 from the bound section, got %d", foo.Code)
	}

	other, err := store.Get("other")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other.Code != 503 {
		t.Errorf("expected fallback 503 for unconfigured name, got %d", other.Code)
	}
}
