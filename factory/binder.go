package factory

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// sectionRoot is the top-level configuration group for all clients.
	sectionRoot = "HttpClient"
	// fallbackBucket is the shared, name-agnostic section used when a
	// name-specific section does not exist. The single literal is shared by
	// every option kind routed through this binder; preserved as-is for
	// compatibility with existing configuration trees.
	fallbackBucket = "Handlers"
)

// SectionBinder translates a (client name, section name) pair into a
// configuration section path and binds it onto a typed options value.
//
// The primary path is "HttpClient:{clientName}:{sectionName}". When that
// section is absent and fallback is allowed, the binder retries against
// "HttpClient:Handlers:{sectionName}". When neither exists, the value is
// left untouched: absent configuration is a valid, silent no-op.
//
// The viper tree must use ":" as its key delimiter (config.NewSource
// produces one); with the default "." delimiter the section paths will
// never match.
type SectionBinder struct {
	v *viper.Viper
}

// NewSectionBinder creates a binder over the given configuration tree.
// A nil tree yields a binder whose Bind is always a no-op.
func NewSectionBinder(v *viper.Viper) *SectionBinder {
	return &SectionBinder{v: v}
}

// Bind populates out from the configuration section for (clientName,
// sectionName). A blank client name routes straight to the fallback path;
// a blank name with fallback disallowed performs no lookup at all.
func (b *SectionBinder) Bind(clientName, sectionName string, allowFallback bool, out any) error {
	if b == nil || b.v == nil {
		return nil
	}

	name := strings.TrimSpace(clientName)
	if name == "" {
		if !allowFallback {
			return nil
		}
		return b.bindKey(sectionPath(fallbackBucket, sectionName), out)
	}

	primary := sectionPath(name, sectionName)
	if b.v.IsSet(primary) {
		return b.unmarshalKey(primary, out)
	}
	if allowFallback {
		return b.bindKey(sectionPath(fallbackBucket, sectionName), out)
	}
	return nil
}

// bindKey unmarshals key into out when the section exists, no-op otherwise.
func (b *SectionBinder) bindKey(key string, out any) error {
	if !b.v.IsSet(key) {
		return nil
	}
	return b.unmarshalKey(key, out)
}

func (b *SectionBinder) unmarshalKey(key string, out any) error {
	if err := b.v.UnmarshalKey(key, out); err != nil {
		return fmt.Errorf("binding section %q: %w", key, err)
	}
	return nil
}

func sectionPath(clientName, sectionName string) string {
	return sectionRoot + ":" + clientName + ":" + sectionName
}

// BindSection registers the binder as a configuration pass on a named
// options store: each name's options are populated from its configuration
// section the first time the name is resolved. The assembler never invokes
// the binder directly; it only sees the store.
func BindSection[T any](store *Store[T], b *SectionBinder, sectionName string, allowFallback bool) {
	store.Configure(func(name string, opts *T) error {
		return b.Bind(name, sectionName, allowFallback, opts)
	})
}
