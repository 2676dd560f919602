package store

import (
	"context"
	"strconv"
)

// Session captures who the caller is right now. UserID zero means the
// caller is a guest identified only by a device ID.
type Session struct {
	UserID   uint
	DeviceID string
}

// Authenticated reports whether the session belongs to an account.
func (s Session) Authenticated() bool {
	return s.UserID != 0
}

// LocalKey is the namespace key this session's records live under in
// the local tier. Guests get a device-scoped collection; authenticated
// sessions get an account-scoped one, used only as the fallback when
// the remote backend is unreachable.
func (s Session) LocalKey() string {
	if s.Authenticated() {
		return "user:" + strconv.FormatUint(uint64(s.UserID), 10)
	}
	return "guest:" + s.DeviceID
}

// Resolver determines the current session. The facade takes one as a
// constructor dependency instead of reading ambient auth state, so it
// stays testable without a real auth provider.
type Resolver interface {
	Resolve(ctx context.Context) Session
}

type sessionCtxKey struct{}

// WithSession returns a context carrying the session, as set by the
// HTTP session middleware.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// SessionFromContext extracts the session placed by WithSession.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(Session)
	return s, ok
}

// ContextResolver resolves the session from the request context. The
// zero value is ready to use.
type ContextResolver struct{}

func (ContextResolver) Resolve(ctx context.Context) Session {
	s, _ := SessionFromContext(ctx)
	return s
}

// StaticResolver always answers with a fixed session. Used by the
// worker and in tests.
type StaticResolver struct {
	Session Session
}

func (r StaticResolver) Resolve(context.Context) Session {
	return r.Session
}
