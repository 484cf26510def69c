package response

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/trailmap/trailmap/pkg/errors"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not an envelope: %v (%s)", err, rec.Body.String())
	}
	return resp
}

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]int{"count": 3})

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
	resp := decode(t, rec)
	if resp.Error != nil {
		t.Errorf("expected no error, got %+v", resp.Error)
	}
	if data, ok := resp.Data.(map[string]any); !ok || data["count"] != float64(3) {
		t.Errorf("unexpected data %v", resp.Data)
	}
}

func TestEnvelopeAlwaysHasBothKeys(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, nil)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"data", "error"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("envelope is missing %q", key)
		}
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestErrorFromType(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", &errors.ValidationError{Field: "name", Message: "cannot be empty"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"parse", errors.NewParseError("json", "body", "bad", nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", errors.NewNotFoundError("hike", "7"), http.StatusNotFound, "NOT_FOUND"},
		{"identity", &errors.IdentityError{Index: 4, Size: 2}, http.StatusConflict, "CONFLICT"},
		{"remote rejected", errors.NewRemoteError("add", "sheet locked"), http.StatusUnprocessableEntity, "REMOTE_REJECTED"},
		{"transport", errors.NewTransportError("list", 500, fmt.Errorf("boom")), http.StatusBadGateway, "BAD_GATEWAY"},
		{"timeout", errors.NewTimeoutError("list", "15s", "no answer"), http.StatusGatewayTimeout, "TIMEOUT"},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "TIMEOUT"},
		{"remote disabled", errors.ErrRemoteDisabled, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"wrapped validation", errors.WrapResource("add", "hike", "", &errors.ValidationError{Field: "lat"}), http.StatusBadRequest, "BAD_REQUEST"},
		{"other", fmt.Errorf("disk full"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ErrorFromType(rec, tt.err)

			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
			resp := decode(t, rec)
			if resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("expected code %s, got %+v", tt.code, resp.Error)
			}
			if resp.Data != nil {
				t.Errorf("expected nil data, got %v", resp.Data)
			}
		})
	}
}

func TestInternalErrorHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	InternalError(rec, fmt.Errorf("secret path /etc/x"))

	resp := decode(t, rec)
	if resp.Error.Details != "An unexpected error occurred" {
		t.Errorf("internal details leaked: %q", resp.Error.Details)
	}
}
