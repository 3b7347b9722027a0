// Package errors defines the structured error taxonomy the core uses at
// every boundary: each variant carries typed fields a caller can inspect,
// never just a message string, mirroring the teacher's typed-error style
// (internal/errors in the source repo) applied to this engine's own
// taxonomy from spec.md §7.
package errors

import (
	"fmt"
	"time"
)

// ParseError is thrown by a parser plug-in (C3) or by the Parser Engine
// (C5) when a path has no extension. Recovered locally: the engine logs
// it and retains the file's prior graph state.
type ParseError struct {
	File      string
	Message   string
	Timestamp time.Time
}

func NewParseError(file, message string) *ParseError {
	return &ParseError{File: file, Message: message, Timestamp: time.Now()}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.File, e.Message)
}

// UnsupportedLanguageError reports an extension with no registered
// parser. The Parser Engine's extension lookup returns a
// ValidationError in that case, so the core itself never constructs it.
type UnsupportedLanguageError struct {
	Extension string
	Timestamp time.Time
}

func NewUnsupportedLanguageError(extension string) *UnsupportedLanguageError {
	return &UnsupportedLanguageError{Extension: extension, Timestamp: time.Now()}
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language for extension %q", e.Extension)
}

// ValidationError represents a malformed config or invalid parameter at
// any boundary (CLI flags, KDL config fields, MCP request params).
type ValidationError struct {
	Field     string
	Message   string
	Provided  any
	Timestamp time.Time
}

func NewValidationError(field, message string, provided any) *ValidationError {
	return &ValidationError{Field: field, Message: message, Provided: provided, Timestamp: time.Now()}
}

func (e *ValidationError) Error() string {
	if e.Provided != nil {
		return fmt.Sprintf("validation error on %s: %s (provided: %v)", e.Field, e.Message, e.Provided)
	}
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// IOError wraps a read/write/permission failure.
type IOError struct {
	Path       string
	Operation  string
	Message    string
	Underlying error
	Timestamp  time.Time
}

func NewIOError(path, operation string, underlying error) *IOError {
	msg := ""
	if underlying != nil {
		msg = underlying.Error()
	}
	return &IOError{Path: path, Operation: operation, Message: msg, Underlying: underlying, Timestamp: time.Now()}
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error during %s on %s: %s", e.Operation, e.Path, e.Message)
}

func (e *IOError) Unwrap() error { return e.Underlying }

// WatcherError wraps a platform watch API failure. Fatal for that watch;
// the caller may retry watch_dir.
type WatcherError struct {
	Message   string
	Timestamp time.Time
}

func NewWatcherError(message string) *WatcherError {
	return &WatcherError{Message: message, Timestamp: time.Now()}
}

func (e *WatcherError) Error() string {
	return fmt.Sprintf("watcher error: %s", e.Message)
}

// ProtocolViolationError represents an invalid JSON-RPC request; the
// transport maps it to the InvalidRequest standard error code.
type ProtocolViolationError struct {
	Method    string
	RequestID string
	Payload   any
	Timestamp time.Time
}

func NewProtocolViolationError(method, requestID string, payload any) *ProtocolViolationError {
	return &ProtocolViolationError{Method: method, RequestID: requestID, Payload: payload, Timestamp: time.Now()}
}

func (e *ProtocolViolationError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("protocol violation on method %q (request %s)", e.Method, e.RequestID)
	}
	return fmt.Sprintf("protocol violation on method %q", e.Method)
}

// TimeoutError surfaces with context about what timed out (e.g. a
// per-file parse timeout).
type TimeoutError struct {
	Operation string
	ElapsedMs int64
	LimitMs   int64
	Timestamp time.Time
}

func NewTimeoutError(operation string, elapsedMs, limitMs int64) *TimeoutError {
	return &TimeoutError{Operation: operation, ElapsedMs: elapsedMs, LimitMs: limitMs, Timestamp: time.Now()}
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout in %s: %dms elapsed (limit %dms)", e.Operation, e.ElapsedMs, e.LimitMs)
}

// InternalError represents a programmer error that must never be
// swallowed silently.
type InternalError struct {
	Message   string
	Timestamp time.Time
}

func NewInternalError(message string) *InternalError {
	return &InternalError{Message: message, Timestamp: time.Now()}
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Message)
}

// MultiError aggregates several errors, e.g. a bulk parse that partially
// fails (§7: "reports the k failures with their paths").
type MultiError struct {
	Errors []error
}

func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return &MultiError{Errors: filtered}
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred, first: %v", len(e.Errors), e.Errors[0])
}

func (e *MultiError) Unwrap() []error { return e.Errors }
