package transport

import (
	"bytes"
	"encoding/json"
	"regexp"

	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/normalize"
)

// Envelope is the uniform answer of the remote service. A missing ok field
// decodes as false.
type Envelope struct {
	OK    bool             `json:"ok"`
	Rows  []map[string]any `json:"rows,omitempty"`
	Error string           `json:"error,omitempty"`
}

// Err returns a *errors.RemoteError when the envelope reports failure.
func (e *Envelope) Err(op Op) error {
	if e == nil {
		return errors.NewRemoteError(string(op), "empty answer")
	}
	if !e.OK {
		return errors.NewRemoteError(string(op), e.Error)
	}
	return nil
}

// Records returns the rows ready for normalization.
func (e *Envelope) Records() []normalize.Row {
	if e == nil {
		return nil
	}
	out := make([]normalize.Row, 0, len(e.Rows))
	for _, r := range e.Rows {
		if r != nil {
			out = append(out, normalize.Row(r))
		}
	}
	return out
}

var wrapped = regexp.MustCompile(`(?s)^([A-Za-z_$][A-Za-z0-9_$.]*)\s*\((.*)\)\s*;?$`)

// decodeBody accepts plain JSON or a name(...) wrapped payload and returns
// the envelope plus the wrapper name, if any.
func decodeBody(body []byte) (*Envelope, string, error) {
	body = bytes.TrimSpace(body)
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))
	if len(body) == 0 {
		return nil, "", errors.NewParseError("json", "", "empty body", nil)
	}

	name := ""
	if body[0] != '{' {
		m := wrapped.FindSubmatch(body)
		if m == nil {
			return nil, "", errors.NewParseError("jsonp", "", "answer is neither JSON nor a callback invocation", nil)
		}
		name = string(m[1])
		body = bytes.TrimSpace(m[2])
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, name, errors.WrapParse("json", "", err)
	}
	return &env, name, nil
}
