package auth

import "context"

// Identity is the caller bound onto a request after the access token
// has been verified.
type Identity struct {
	UserID int    `json:"userId"`
	Email  string `json:"email"`
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity bound by the auth gate, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID < 1 {
		return Identity{}, false
	}
	return id, true
}
