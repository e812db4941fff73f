package errors

import (
	"fmt"
	"runtime"
)

// Error types for different categories of failures
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeConfiguration ErrorType = "configuration"
)

// Kind identifies a setup failure. Kinds are errors themselves so callers can
// match them with errors.Is.
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	ErrInvalidArchitecture Kind = "invalid architecture"
	ErrInvalidFeature      Kind = "invalid feature"
	ErrEmptyFeatureToken   Kind = "empty feature token"
	ErrDuplicateTarget     Kind = "duplicate target"
	ErrDuplicateDefault    Kind = "duplicate default"
	ErrMissingDefault      Kind = "missing default"
	ErrUnsupportedDispatch Kind = "unsupported dispatch for signature"
	ErrAmbiguousTarget     Kind = "ambiguous target reference"
	ErrUnknownVariant      Kind = "unknown variant"
	ErrSealed              Kind = "registry sealed"
)

// typeOf maps a kind onto its error category.
func typeOf(k Kind) ErrorType {
	switch k {
	case ErrInvalidArchitecture, ErrInvalidFeature, ErrEmptyFeatureToken:
		return ErrorTypeValidation
	default:
		return ErrorTypeConfiguration
	}
}

// StructuredError provides rich error context
type StructuredError struct {
	Type      ErrorType
	Kind      Kind
	Operation string
	Message   string
	Cause     error
	Context   map[string]interface{}
	Stack     []uintptr
}

// Error implements the error interface
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Operation, e.Message)
}

// Unwrap returns the underlying cause
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the Kind carried by e.
func (e *StructuredError) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && e.Kind != "" && e.Kind == k
}

// New creates a new structured error of the given kind
func New(kind Kind, operation, message string) *StructuredError {
	return &StructuredError{
		Type:      typeOf(kind),
		Kind:      kind,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
	}
}

// Newf is New with a formatted message.
func Newf(kind Kind, operation, format string, args ...interface{}) *StructuredError {
	e := New(kind, operation, fmt.Sprintf(format, args...))
	e.Stack = captureStack()
	return e
}

// Wrap wraps an existing error with additional context. The kind of a wrapped
// StructuredError is inherited when kind is empty.
func Wrap(err error, kind Kind, operation, message string) *StructuredError {
	if err == nil {
		return nil
	}
	if kind == "" {
		if se, ok := err.(*StructuredError); ok {
			kind = se.Kind
		}
	}

	se := &StructuredError{
		Type:      typeOf(kind),
		Kind:      kind,
		Operation: operation,
		Message:   message,
		Cause:     err,
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
	}

	return se
}

// WithContext adds context information to an error
func (e *StructuredError) WithContext(key string, value interface{}) *StructuredError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// KindOf returns the kind of the first StructuredError in err's chain.
func KindOf(err error) (Kind, bool) {
	for err != nil {
		switch e := err.(type) {
		case *StructuredError:
			if e.Kind != "" {
				return e.Kind, true
			}
		case Kind:
			return e, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return "", false
		}
		err = u.Unwrap()
	}
	return "", false
}

// captureStack captures the current stack trace
func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:]) // Skip runtime.Callers, this function and the constructor
	return pcs[:n]
}

// NewValidationError creates a parse failure for a target or feature token.
func NewValidationError(kind Kind, operation, message string) *StructuredError {
	e := New(kind, operation, message)
	e.Type = ErrorTypeValidation
	return e
}

// NewConfigurationError creates a registry or dispatcher setup failure.
func NewConfigurationError(kind Kind, operation, message string) *StructuredError {
	e := New(kind, operation, message)
	e.Type = ErrorTypeConfiguration
	return e
}
