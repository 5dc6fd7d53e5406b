package api

import (
	"net/http"
	"strings"

	"github.com/okian/pizzarank/internal/domain/model"
)

// IdentityHeader carries the caller's identity code.
const IdentityHeader = "X-Identity-Code"

// sessionFrom reads the identity code from the header, falling back to the
// "code" query parameter. The session may be empty.
func sessionFrom(r *http.Request) model.Session {
	c := r.Header.Get(IdentityHeader)
	if c == "" {
		c = r.URL.Query().Get("code")
	}
	return model.Session{Code: strings.TrimSpace(c)}
}

// requireSession is sessionFrom for routes that need an identity.
func requireSession(r *http.Request, op string) (model.Session, error) {
	s := sessionFrom(r)
	if s.Empty() {
		return s, NewKind(op, ErrMissingSession)
	}
	return s, nil
}
