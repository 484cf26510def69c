package errors

import "fmt"

// NotFoundError names a record or key that does not exist. For positional
// kinds ID is the index.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError returns a NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError is input rejected before anything changed.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError returns a ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError is an unusable setting, such as an unknown cache driver.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Component == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError returns a ConfigError.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// TransportError is a remote call that never produced an envelope: the
// request could not be sent, the endpoint answered non-2xx, or the body
// could not be decoded.
type TransportError struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("transport error during %s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("transport error during %s (status %d): %s", e.Operation, e.StatusCode, e.Message)
}

func (e *TransportError) Unwrap() error        { return e.Err }
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// NewTransportError returns a TransportError; status 0 means no response.
func NewTransportError(operation string, status int, err error) *TransportError {
	e := &TransportError{Operation: operation, StatusCode: status, Err: err}
	if err != nil {
		e.Message = err.Error()
	}
	return e
}

// RemoteError carries the message of an envelope answered with ok=false.
type RemoteError struct {
	Operation string
	Message   string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return "remote rejected " + e.Operation
	}
	return fmt.Sprintf("remote rejected %s: %s", e.Operation, e.Message)
}

func (e *RemoteError) Is(target error) bool { return target == ErrRemoteRejected }

// NewRemoteError returns a RemoteError.
func NewRemoteError(operation, message string) *RemoteError {
	return &RemoteError{Operation: operation, Message: message}
}

// TimeoutError is a remote call that got no answer within its window.
type TimeoutError struct {
	Operation string
	Duration  string
	Message   string
}

func (e *TimeoutError) Error() string {
	if e.Duration == "" {
		return fmt.Sprintf("operation %s timed out: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("operation %s timed out after %s: %s", e.Operation, e.Duration, e.Message)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// NewTimeoutError returns a TimeoutError.
func NewTimeoutError(operation, duration, message string) *TimeoutError {
	return &TimeoutError{Operation: operation, Duration: duration, Message: message}
}

// IdentityError is a display index the identity map has no server id for.
type IdentityError struct {
	Index int
	Size  int
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("no server id for index %d (mapped %d)", e.Index, e.Size)
}

func (e *IdentityError) Is(target error) bool { return target == ErrIdentityUnresolved }

// SyncError is a failed step of a wipe-and-seed or list. Index is the seed
// position that failed, or -1.
type SyncError struct {
	Kind  string
	Stage string
	Index int
	Err   error
}

func (e *SyncError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("sync error for %s during %s: %v", e.Kind, e.Stage, e.Err)
	}
	return fmt.Sprintf("sync error for %s during %s at position %d: %v", e.Kind, e.Stage, e.Index, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// NewSyncError returns a SyncError.
func NewSyncError(kind, stage string, index int, err error) *SyncError {
	return &SyncError{Kind: kind, Stage: stage, Index: index, Err: err}
}

// ParseError is a document, sheet or envelope that could not be decoded.
type ParseError struct {
	Format  string
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	case e.File != "":
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	default:
		return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError returns a ParseError.
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError is a failed file or object-store operation.
type IOError struct {
	Operation string
	Path      string
	Message   string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
}

func (e *IOError) Unwrap() error { return e.Err }

// ResourceError is a failed catalog operation on one kind of record.
type ResourceError struct {
	Operation string
	Resource  string
	ID        string
	Message   string
	Err       error
}

func (e *ResourceError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
	}
	return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
}

func (e *ResourceError) Unwrap() error { return e.Err }
