package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/trailmap/trailmap/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "lodging",
			ID:       "4",
		}
		assert.Equal(t, "lodging with ID 4 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("attraction", "2")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("name", "", "cannot be empty")
		assert.Equal(t, "validation failed for field name: cannot be empty", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "bad document"}
		assert.Equal(t, "validation failed: bad document", err.Error())
	})
}

func TestTransportError(t *testing.T) {
	t.Run("with status", func(t *testing.T) {
		err := pkgerrors.NewTransportError("list", 502, errors.New("bad gateway"))
		assert.Equal(t, "transport error during list (status 502): bad gateway", err.Error())
		assert.True(t, pkgerrors.IsTransport(err))
		assert.False(t, pkgerrors.IsTimeout(err))
	})

	t.Run("unwrap", func(t *testing.T) {
		base := errors.New("connection refused")
		err := pkgerrors.WrapTransport("add", base)
		assert.True(t, errors.Is(err, base))
		assert.True(t, errors.Is(err, pkgerrors.ErrTransport))
	})

	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapTransport("add", nil))
	})
}

func TestRemoteError(t *testing.T) {
	err := pkgerrors.NewRemoteError("add", "sheet locked")
	assert.Equal(t, "remote rejected add: sheet locked", err.Error())
	assert.True(t, pkgerrors.IsRemoteRejected(err))

	bare := pkgerrors.NewRemoteError("wipe", "")
	assert.Equal(t, "remote rejected wipe", bare.Error())

	var target *pkgerrors.RemoteError
	wrapped := fmt.Errorf("seeding: %w", err)
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "sheet locked", target.Message)
}

func TestIdentityError(t *testing.T) {
	err := &pkgerrors.IdentityError{Index: 7, Size: 3}
	assert.Equal(t, "no server id for index 7 (mapped 3)", err.Error())
	assert.True(t, pkgerrors.IsIdentityUnresolved(err))
}

func TestSyncError(t *testing.T) {
	t.Run("with position", func(t *testing.T) {
		base := pkgerrors.NewRemoteError("add", "quota")
		err := pkgerrors.NewSyncError("hikes", "seed", 2, base)
		assert.Contains(t, err.Error(), "position 2")
		assert.True(t, pkgerrors.IsRemoteRejected(err))
	})

	t.Run("without position", func(t *testing.T) {
		err := pkgerrors.NewSyncError("hikes", "wipe", -1, pkgerrors.ErrTimeout)
		assert.Equal(t, "sync error for hikes during wipe: operation timed out", err.Error())
		assert.True(t, pkgerrors.IsTimeout(err))
	})
}

func TestParseError(t *testing.T) {
	t.Run("with file and position", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Format:  "json",
			File:    "backup.json",
			Line:    3,
			Column:  14,
			Message: "unexpected token",
		}
		assert.Equal(t, "parse error in json at backup.json:3:14: unexpected token", err.Error())
	})

	t.Run("with file only", func(t *testing.T) {
		err := pkgerrors.NewParseError("xlsx", "hikes.xlsx", "no sheets", nil)
		assert.Equal(t, "parse error in xlsx file hikes.xlsx: no sheets", err.Error())
	})

	t.Run("format only", func(t *testing.T) {
		err := pkgerrors.WrapParse("jsonp", "", errors.New("missing payload"))
		assert.Equal(t, "jsonp parse error: missing payload", err.Error())
	})
}

func TestTimeoutError(t *testing.T) {
	err := pkgerrors.NewTimeoutError("list", "15s", "no response")
	assert.Equal(t, "operation list timed out after 15s: no response", err.Error())
	assert.True(t, pkgerrors.IsTimeout(err))
	assert.False(t, pkgerrors.IsTransport(err))
}

func TestWrapHelpers(t *testing.T) {
	t.Run("WrapIO", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapIO("read", "/tmp/x", nil))
		err := pkgerrors.WrapIO("read", "/tmp/x", errors.New("denied"))
		var ioErr *pkgerrors.IOError
		require.True(t, errors.As(err, &ioErr))
		assert.Equal(t, "/tmp/x", ioErr.Path)
	})

	t.Run("WrapResource", func(t *testing.T) {
		base := pkgerrors.NewRemoteError("update", "row missing")
		err := pkgerrors.WrapResource("update", "hike", "abc", base)
		assert.Equal(t, "failed to update hike abc: remote rejected update: row missing", err.Error())
		assert.True(t, pkgerrors.IsRemoteRejected(err))
	})

	t.Run("WrapValidation", func(t *testing.T) {
		err := pkgerrors.WrapValidation("lat", errors.New("out of range"))
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", pkgerrors.ErrNotFound, pkgerrors.IsNotFound},
		{"timeout", pkgerrors.ErrTimeout, pkgerrors.IsTimeout},
		{"canceled", pkgerrors.ErrCanceled, pkgerrors.IsCanceled},
		{"transport", pkgerrors.ErrTransport, pkgerrors.IsTransport},
		{"remote rejected", pkgerrors.ErrRemoteRejected, pkgerrors.IsRemoteRejected},
		{"identity", pkgerrors.ErrIdentityUnresolved, pkgerrors.IsIdentityUnresolved},
		{"no data", pkgerrors.ErrNoData, pkgerrors.IsNoData},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.check(tc.err))
			assert.True(t, tc.check(fmt.Errorf("wrapped: %w", tc.err)))
		})
	}
}
