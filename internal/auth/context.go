package auth

import "context"

type identityContextKey struct{}

var defaultIdentityContextKey = identityContextKey{}

// ContextWithIdentity stores the verified identity on the request context.
func ContextWithIdentity(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, defaultIdentityContextKey, username)
}

// IdentityFromContext returns the verified identity stored on the context.
func IdentityFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(defaultIdentityContextKey).(string)
	return username, ok && username != ""
}
