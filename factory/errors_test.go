package factory

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorCode_String(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeDuplicateRegistration, "duplicate_registration"},
		{ErrCodeInvalidRegistration, "invalid_registration"},
		{ErrCodeUnknownInterceptor, "unknown_interceptor"},
		{ErrCodeFactory, "factory"},
		{ErrCodeOptionsConfiguration, "options_configuration"},
		{ErrCodeAssembly, "assembly"},
		{ErrorCode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("code %d: expected %q, got %q", tt.code, tt.want, got)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := NewAssemblyError("foo-v1", "status-handler", NewFactoryError("status-handler", "foo-v1", cause))

	if !errors.Is(err, cause) {
		t.Error("expected the chain to preserve the root cause")
	}
	if !IsAssembly(err) || !IsFactory(err) {
		t.Error("expected both codes visible through the chain")
	}
}

func TestError_MessageNamesParticipants(t *testing.T) {
	err := NewAssemblyError("foo-v1", "ghost", errors.New("missing"))
	msg := err.Error()
	if !strings.Contains(msg, "foo-v1") || !strings.Contains(msg, "ghost") {
		t.Errorf("expected message to name client and interceptor, got %q", msg)
	}
}

func TestIsHelpers_NonFactoryError(t *testing.T) {
	plain := errors.New("plain")
	if IsAssembly(plain) || IsFactory(plain) || IsDuplicateRegistration(plain) ||
		IsInvalidRegistration(plain) || IsUnknownInterceptor(plain) || IsOptionsConfiguration(plain) {
		t.Error("helpers must not match plain errors")
	}
}
