package auth

import (
	"context"

	"github.com/google/uuid"
)

// User is the authenticated principal of a request.
type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Active   bool      `json:"active"`
}

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext retrieves the authenticated user from the context.
// Returns nil, false if no user is present.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(contextKey{}).(*User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// UserIDFromContext retrieves just the user ID from the context.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return uuid.UUID{}, false
	}
	return user.ID, true
}
