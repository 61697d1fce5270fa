package domain

import "context"

// Session is the signed-in user as reported by the host application's
// authentication layer.
type Session struct {
	Email        string `json:"email"`
	Role         string `json:"role"`
	Organization string `json:"organization"`
	Name         string `json:"name"`
}

// SessionProvider reports the current session, if any. The program engine
// only reads sessions.
type SessionProvider interface {
	CurrentSession(ctx context.Context) (Session, bool)
}

// SessionFunc adapts a function to SessionProvider.
type SessionFunc func(ctx context.Context) (Session, bool)

// CurrentSession implements SessionProvider.
func (f SessionFunc) CurrentSession(ctx context.Context) (Session, bool) { return f(ctx) }
