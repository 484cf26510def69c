package transport

import (
	"net/http"
	"strings"
)

// Authenticator applies a shared secret to outgoing requests. Deployed
// script endpoints are usually public; some installations guard them with a
// key passed as a query parameter or header.
type Authenticator interface {
	Apply(req *http.Request, token string)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// BearerAuth implements Bearer token authentication.
type BearerAuth struct{}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request, token string) {
	if token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// HeaderAuth implements custom header authentication.
type HeaderAuth struct {
	Header string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request, token string) {
	if token == "" || a.Header == "" {
		return
	}
	req.Header.Set(a.Header, token)
}

// QueryAuth implements token as query parameter authentication.
type QueryAuth struct {
	Param string
}

// Apply implements the Authenticator interface for QueryAuth.
func (a *QueryAuth) Apply(req *http.Request, token string) {
	if req.URL == nil || token == "" || a.Param == "" {
		return
	}
	query := req.URL.Query()
	query.Set(a.Param, token)
	req.URL.RawQuery = query.Encode()
}

// AuthFor returns the authenticator for a configured scheme: "bearer",
// "header:<Name>", "query:<param>" or "" for none.
func AuthFor(scheme string) Authenticator {
	scheme = strings.TrimSpace(scheme)
	if scheme == "bearer" {
		return &BearerAuth{}
	}
	if name, ok := strings.CutPrefix(scheme, "header:"); ok && name != "" {
		return &HeaderAuth{Header: name}
	}
	if param, ok := strings.CutPrefix(scheme, "query:"); ok && param != "" {
		return &QueryAuth{Param: param}
	}
	return &NoAuth{}
}
