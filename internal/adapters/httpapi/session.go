package httpapi

import (
	"context"
	"net/http"
	"strings"

	"partnerhub/pkg/domain"
)

type sessionKey struct{}

// WithSession returns a context carrying session. Authentication middleware
// of the host application calls it once the user is known.
func WithSession(ctx context.Context, session domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// ContextSessions reads the session stored by WithSession.
type ContextSessions struct{}

// CurrentSession implements domain.SessionProvider.
func (ContextSessions) CurrentSession(ctx context.Context) (domain.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(domain.Session)
	return s, ok
}

// Session headers set by a trusted authenticating proxy.
const (
	HeaderSessionEmail        = "X-Session-Email"
	HeaderSessionRole         = "X-Session-Role"
	HeaderSessionOrganization = "X-Session-Organization"
	HeaderSessionName         = "X-Session-Name"
)

// TrustedHeaderSessions stores the session described by proxy headers in
// the request context. Requests without an email or organization header
// carry no session. Only mount it behind a proxy that strips these headers
// from client requests.
func TrustedHeaderSessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := domain.Session{
			Email:        strings.TrimSpace(r.Header.Get(HeaderSessionEmail)),
			Role:         strings.TrimSpace(r.Header.Get(HeaderSessionRole)),
			Organization: strings.TrimSpace(r.Header.Get(HeaderSessionOrganization)),
			Name:         strings.TrimSpace(r.Header.Get(HeaderSessionName)),
		}
		if s.Email != "" || s.Organization != "" {
			r = r.WithContext(WithSession(r.Context(), s))
		}
		next.ServeHTTP(w, r)
	})
}
