package factory

import (
	"errors"
	"fmt"
)

// ErrorCode classifies factory errors.
type ErrorCode int

const (
	// ErrCodeDuplicateRegistration indicates two interceptor registrations share a name.
	ErrCodeDuplicateRegistration ErrorCode = iota
	// ErrCodeInvalidRegistration indicates a registration completed without a factory.
	ErrCodeInvalidRegistration
	// ErrCodeUnknownInterceptor indicates a configured interceptor name has no registration.
	ErrCodeUnknownInterceptor
	// ErrCodeFactory indicates an interceptor factory failed during construction.
	ErrCodeFactory
	// ErrCodeOptionsConfiguration indicates a configuration pass failed; the
	// affected name stays unresolved and may be retried.
	ErrCodeOptionsConfiguration
	// ErrCodeAssembly indicates client pipeline assembly failed.
	ErrCodeAssembly
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeDuplicateRegistration:
		return "duplicate_registration"
	case ErrCodeInvalidRegistration:
		return "invalid_registration"
	case ErrCodeUnknownInterceptor:
		return "unknown_interceptor"
	case ErrCodeFactory:
		return "factory"
	case ErrCodeOptionsConfiguration:
		return "options_configuration"
	case ErrCodeAssembly:
		return "assembly"
	default:
		return "unknown"
	}
}

// Error is a structured factory error with classification.
type Error struct {
	// Code classifies the error.
	Code ErrorCode
	// Interceptor is the interceptor name involved, if any.
	Interceptor string
	// Client is the client name involved, if any.
	Client string
	// Message describes the error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("httpfactory: %s: %s", e.Code, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewDuplicateRegistrationError creates a duplicate-registration error.
func NewDuplicateRegistrationError(name string) *Error {
	return &Error{
		Code:        ErrCodeDuplicateRegistration,
		Interceptor: name,
		Message:     fmt.Sprintf("interceptor %q is already registered", name),
	}
}

// NewInvalidRegistrationError creates an invalid-registration error.
func NewInvalidRegistrationError(name, reason string) *Error {
	return &Error{
		Code:        ErrCodeInvalidRegistration,
		Interceptor: name,
		Message:     fmt.Sprintf("registration of %q is invalid: %s", name, reason),
	}
}

// NewUnknownInterceptorError creates an unknown-interceptor error.
func NewUnknownInterceptorError(name, clientName string) *Error {
	return &Error{
		Code:        ErrCodeUnknownInterceptor,
		Interceptor: name,
		Client:      clientName,
		Message:     fmt.Sprintf("no interceptor registered under %q (requested by client %q)", name, clientName),
	}
}

// NewFactoryError wraps a factory construction failure.
func NewFactoryError(name, clientName string, err error) *Error {
	return &Error{
		Code:        ErrCodeFactory,
		Interceptor: name,
		Client:      clientName,
		Message:     fmt.Sprintf("constructing interceptor %q for client %q", name, clientName),
		Err:         err,
	}
}

// NewOptionsConfigurationError wraps a configuration pass failure.
func NewOptionsConfigurationError(name string, err error) *Error {
	return &Error{
		Code:    ErrCodeOptionsConfiguration,
		Client:  name,
		Message: fmt.Sprintf("configuring options for %q", name),
		Err:     err,
	}
}

// NewAssemblyError wraps a pipeline assembly failure for a client name.
func NewAssemblyError(clientName, interceptorName string, err error) *Error {
	msg := fmt.Sprintf("assembling client %q", clientName)
	if interceptorName != "" {
		msg = fmt.Sprintf("assembling client %q: interceptor %q", clientName, interceptorName)
	}
	return &Error{
		Code:        ErrCodeAssembly,
		Interceptor: interceptorName,
		Client:      clientName,
		Message:     msg,
		Err:         err,
	}
}

// hasCode reports whether any *Error in the wrap chain carries code.
func hasCode(err error, code ErrorCode) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Unwrap()
	}
	return false
}

// IsDuplicateRegistration checks if an error is a duplicate-registration error.
func IsDuplicateRegistration(err error) bool {
	return hasCode(err, ErrCodeDuplicateRegistration)
}

// IsInvalidRegistration checks if an error is an invalid-registration error.
func IsInvalidRegistration(err error) bool {
	return hasCode(err, ErrCodeInvalidRegistration)
}

// IsUnknownInterceptor checks if an error is an unknown-interceptor error.
func IsUnknownInterceptor(err error) bool {
	return hasCode(err, ErrCodeUnknownInterceptor)
}

// IsFactory checks if an error is a factory construction error.
func IsFactory(err error) bool {
	return hasCode(err, ErrCodeFactory)
}

// IsOptionsConfiguration checks if an error is an options configuration error.
func IsOptionsConfiguration(err error) bool {
	return hasCode(err, ErrCodeOptionsConfiguration)
}

// IsAssembly checks if an error is an assembly error.
func IsAssembly(err error) bool {
	return hasCode(err, ErrCodeAssembly)
}
