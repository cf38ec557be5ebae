package auditlog

import "context"

type actorKey struct{}

// Actor is the caller recorded on every audit entry written during a request.
type Actor struct {
	UserID *uint
	IP     string
}

// WithIP returns a context carrying the client IP for audit entries.
func WithIP(ctx context.Context, ip string) context.Context {
	a := ActorFromContext(ctx)
	a.IP = ip
	return context.WithValue(ctx, actorKey{}, a)
}

// WithUserID returns a context carrying the authenticated user for audit entries.
func WithUserID(ctx context.Context, userID uint) context.Context {
	a := ActorFromContext(ctx)
	a.UserID = &userID
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(actorKey{}).(Actor); ok {
		return a
	}
	return Actor{}
}
