// Package errors is the trailmap error taxonomy. Every failure the
// transport, reconciliation, cache and import layers return can be
// classified with errors.Is against one of the sentinels below, and
// inspected with errors.As for the details.
package errors

import "errors"

// Standard library passthroughs, so callers import one errors package.
var (
	New = errors.New
	As  = errors.As
	Is  = errors.Is
)

// Sentinels. The typed errors in this package report Is(true) for one of
// them.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrTimeout            = errors.New("operation timed out")
	ErrCanceled           = errors.New("operation canceled")
	ErrTransport          = errors.New("transport failure")
	ErrRemoteRejected     = errors.New("remote rejected")
	ErrIdentityUnresolved = errors.New("identity unresolved")
	ErrNoData             = errors.New("no data")
	ErrRemoteDisabled     = errors.New("remote backend not configured")
)

// IsNotFound reports a missing record or key.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidationError reports rejected input.
func IsValidationError(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsTimeout reports a remote call that outlived its timeout.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }

// IsCanceled reports a call abandoned because its context ended.
func IsCanceled(err error) bool { return errors.Is(err, ErrCanceled) }

// IsTransport reports a call that never produced an envelope.
func IsTransport(err error) bool { return errors.Is(err, ErrTransport) }

// IsRemoteRejected reports an envelope answered with ok=false.
func IsRemoteRejected(err error) bool { return errors.Is(err, ErrRemoteRejected) }

// IsIdentityUnresolved reports a position without a server id. Callers
// treat it as a no-op.
func IsIdentityUnresolved(err error) bool { return errors.Is(err, ErrIdentityUnresolved) }

// IsNoData reports a source that answered with nothing.
func IsNoData(err error) bool { return errors.Is(err, ErrNoData) }

// WrapValidation turns err into a ValidationError for field.
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO records the file operation that failed.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Message: err.Error(), Err: err}
}

// WrapResource records the catalog operation that failed.
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Message: err.Error(), Err: err}
}

// WrapParse records the format and file that could not be decoded.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapTransport marks err as a dispatch failure of a remote op.
func WrapTransport(operation string, err error) error {
	if err == nil {
		return nil
	}
	return NewTransportError(operation, 0, err)
}
