// Package errors defines the closed error-code vocabulary surfaced by the
// shell in a Result Envelope's error.code field, plus a wrapper type for
// carrying a code, message, and optional context through the adapter layer.
package errors

import (
	"errors"
	"fmt"
)

// Closed error-code vocabulary. These are the only values that may appear
// in a Result Envelope's error.code field.
const (
	CodeInvalidArguments      = "invalid_arguments"
	CodeUnknownCountry        = "unknown_country"
	CodeDuplicateCountry      = "duplicate_country"
	CodeUnsupportedCapability = "unsupported_capability"
	CodeUnknownTool           = "unknown_tool"
	CodeInvalidJSON           = "invalid_json"
	CodeInternalError         = "internal_error"
)

// Sentinel errors returned unwrapped by the store; never surfaced directly
// as an error.code, but compared with == by the adapter (to decide whether
// to fall back to seed data), the registry and the Shell.
var (
	// ErrUnavailable means the store's backing database is absent or
	// unopenable. Distinct from a legitimate empty result.
	ErrUnavailable = errors.New("store unavailable")
	ErrNotFound    = errors.New("resource not found")
)

// LexError is the structured error carried by the Shell when returning
// {ok:false, error:{code,message,details}}.
type LexError struct {
	Code    string
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *LexError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *LexError) Unwrap() error {
	return e.Err
}

// WithContext attaches a detail key/value, surfaced as error.details.
func (e *LexError) WithContext(key string, value interface{}) *LexError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func New(code, message string, err error) *LexError {
	return &LexError{Code: code, Message: message, Err: err}
}

func InvalidArguments(field, reason string) *LexError {
	return New(CodeInvalidArguments, fmt.Sprintf("%s: %s", field, reason), nil)
}

func UnknownCountry(country string) *LexError {
	return New(CodeUnknownCountry, fmt.Sprintf("no adapter registered for %q", country), nil).
		WithContext("country", country)
}

func DuplicateCountry(code string) *LexError {
	return New(CodeDuplicateCountry, fmt.Sprintf("adapter already registered for %q", code), nil).
		WithContext("country", code)
}

func UnsupportedCapability(tool, capability string) *LexError {
	return New(CodeUnsupportedCapability, fmt.Sprintf("%s requires capability %q", tool, capability), nil).
		WithContext("tool", tool).
		WithContext("capability", capability)
}

func UnknownTool(name string) *LexError {
	return New(CodeUnknownTool, fmt.Sprintf("unrecognized tool %q", name), nil).
		WithContext("tool", name)
}

func InvalidJSON(err error) *LexError {
	return New(CodeInvalidJSON, "request body is not valid JSON", err)
}

func Internal(message string, err error) *LexError {
	return New(CodeInternalError, message, err)
}

// AsLexError unwraps err into a *LexError if possible, otherwise wraps it
// as an internal_error.
func AsLexError(err error) *LexError {
	if err == nil {
		return nil
	}
	var le *LexError
	if errors.As(err, &le) {
		return le
	}
	return Internal(err.Error(), err)
}
