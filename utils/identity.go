package utils

import "context"

// Identity is the authenticated caller, loaded from the session or a bearer token.
type Identity struct {
	ID      uint   `json:"id"`
	Name    string `json:"nombre"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"es_admin"`
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.ID == 0 {
		return Identity{}, false
	}
	return id, true
}

// UserID returns a pointer to the caller's id, or nil for guests.
func UserID(ctx context.Context) *uint {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return nil
	}
	return &id.ID
}

// IsAdmin is the single admin capability check.
func IsAdmin(ctx context.Context) bool {
	id, ok := IdentityFromContext(ctx)
	return ok && id.IsAdmin
}
